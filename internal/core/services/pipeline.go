package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
	"github.com/custodia-labs/paygrade/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.Pipeline = (*PipelineService)(nil)

// PipelineDeps holds the adapters a PipelineService composes.
// Provider factories are called lazily so harvest never needs AI settings.
type PipelineDeps struct {
	NewSource      func() driven.DiscussionSource
	Policy         driven.RatePolicy
	NewCorpusStore func(path string) driven.CorpusStore
	IndexStore     driven.IndexStore
	Splitter       driven.ChunkSplitter
	Vectors        VectorIndexFactory
	Prompts        driven.PromptStore
	NewEmbedder    func(ctx context.Context) (driven.EmbeddingService, error)
	NewLLM         func(ctx context.Context) (driven.LLMService, error)

	// Cleaner normalises post content before chunking. May be nil.
	Cleaner func(string) string
}

// PipelineConfig holds the settings a PipelineService runs with.
type PipelineConfig struct {
	SnapshotPath string
	IndexDir     string
	TopK         int
	Temperature  float64
	Extraction   domain.ExtractionStrategy
}

// PipelineService wires harvest, index and query over shared storage.
type PipelineService struct {
	deps PipelineDeps
	cfg  PipelineConfig
}

// NewPipelineService creates a pipeline.
func NewPipelineService(deps PipelineDeps, cfg PipelineConfig) (*PipelineService, error) {
	switch {
	case deps.NewCorpusStore == nil:
		return nil, errors.New("pipeline: corpus store is required")
	case deps.IndexStore == nil:
		return nil, errors.New("pipeline: index store is required")
	case deps.Splitter == nil:
		return nil, errors.New("pipeline: splitter is required")
	case deps.Vectors == nil:
		return nil, errors.New("pipeline: vector index factory is required")
	}
	return &PipelineService{deps: deps, cfg: cfg}, nil
}

// Harvest collects posts and saves the snapshot to req.OutPath or the
// configured path.
func (p *PipelineService) Harvest(
	ctx context.Context,
	req driving.HarvestRequest,
) (*domain.Corpus, driving.HarvestStats, error) {
	if p.deps.NewSource == nil {
		return nil, driving.HarvestStats{}, errors.New("pipeline: discussion source is required")
	}
	path := req.OutPath
	if path == "" {
		path = p.cfg.SnapshotPath
	}

	// One network session per run.
	src := p.deps.NewSource()
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn("Failed to close discussion source: %v", err)
		}
	}()

	store := p.deps.NewCorpusStore(path)
	h := NewHarvestService(src, p.deps.Policy, WithCorpusStore(store))
	return h.Harvest(ctx, req.MaxPosts, req.BatchSize)
}

// Index builds or loads the index over the saved snapshot.
func (p *PipelineService) Index(ctx context.Context, rebuild bool) (*driving.Index, error) {
	corpus, err := p.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}
	embedder, err := p.embedder(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := embedder.Close(); err != nil {
			logger.Warn("Failed to close embedding service: %v", err)
		}
	}()

	indexer := p.indexer(embedder)
	if rebuild {
		return indexer.Rebuild(ctx, corpus, p.cfg.IndexDir)
	}
	return indexer.BuildOrLoad(ctx, corpus, p.cfg.IndexDir)
}

// Open loads everything a query needs. A missing index is built first.
func (p *PipelineService) Open(ctx context.Context) (*driving.Session, error) {
	corpus, err := p.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}
	if p.deps.Prompts == nil {
		return nil, errors.New("pipeline: prompt store is required")
	}

	session := &driving.Session{Corpus: corpus, SnapshotPath: p.cfg.SnapshotPath}

	embedder, err := p.embedder(ctx)
	if err != nil {
		return nil, err
	}
	session.Closers = append(session.Closers, embedder.Close)

	index, err := p.indexer(embedder).BuildOrLoad(ctx, corpus, p.cfg.IndexDir)
	if err != nil {
		return nil, errors.Join(err, session.Close())
	}
	session.Index = index
	if index.Vectors != nil {
		session.Closers = append(session.Closers, index.Vectors.Close)
	}

	if p.deps.NewLLM == nil {
		return nil, errors.Join(fmt.Errorf("pipeline: %w", domain.ErrLLMUnavailable), session.Close())
	}
	llm, err := p.deps.NewLLM(ctx)
	if err != nil {
		return nil, errors.Join(err, session.Close())
	}
	session.Closers = append(session.Closers, llm.Close)

	retriever := NewRetrievalService(index, corpus, embedder)
	session.Query = NewQueryService(retriever, llm, NewExtractor(p.cfg.Extraction), p.deps.Prompts,
		WithTopK(p.cfg.TopK),
		WithTemperature(p.cfg.Temperature),
	)
	logger.Info("Loaded %d posts and %d chunks", corpus.Len(), index.Len())
	return session, nil
}

func (p *PipelineService) loadCorpus(ctx context.Context) (*domain.Corpus, error) {
	corpus, err := p.deps.NewCorpusStore(p.cfg.SnapshotPath).Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no snapshot at %s, run harvest first: %w", p.cfg.SnapshotPath, err)
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return corpus, nil
}

func (p *PipelineService) embedder(ctx context.Context) (driven.EmbeddingService, error) {
	if p.deps.NewEmbedder == nil {
		return nil, fmt.Errorf("pipeline: %w", domain.ErrEmbeddingUnavailable)
	}
	return p.deps.NewEmbedder(ctx)
}

func (p *PipelineService) indexer(embedder driven.EmbeddingService) *IndexService {
	var opts []IndexOption
	if p.deps.Cleaner != nil {
		opts = append(opts, WithContentCleaner(p.deps.Cleaner))
	}
	return NewIndexService(p.deps.IndexStore, embedder, p.deps.Splitter, p.deps.Vectors, opts...)
}
