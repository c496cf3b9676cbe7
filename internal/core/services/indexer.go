package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
	"github.com/custodia-labs/paygrade/internal/logger"
)

const (
	// DefaultEmbedBatchSize is the number of chunks sent per embedding call.
	DefaultEmbedBatchSize = 64

	// DefaultEmbedConcurrency bounds the embedding calls in flight.
	DefaultEmbedConcurrency = 4

	// writeBatchSize is the number of entries handed to IndexBuild.Write at once.
	writeBatchSize = 256
)

// Ensure IndexService implements the interface.
var _ driving.Indexer = (*IndexService)(nil)

// VectorIndexFactory creates an empty in-memory vector index.
type VectorIndexFactory func(dimensions int) driven.VectorIndex

// IndexService renders, chunks and embeds a corpus, persists the result and
// loads it back on later runs.
type IndexService struct {
	store       driven.IndexStore
	embedder    driven.EmbeddingService
	splitter    driven.ChunkSplitter
	newVectors  VectorIndexFactory
	clean       func(string) string
	batchSize   int
	concurrency int
}

// IndexOption configures an IndexService.
type IndexOption func(*IndexService)

// WithContentCleaner applies fn to each post's content before rendering.
func WithContentCleaner(fn func(string) string) IndexOption {
	return func(s *IndexService) { s.clean = fn }
}

// WithEmbedBatchSize sets the number of chunks per embedding call.
func WithEmbedBatchSize(n int) IndexOption {
	return func(s *IndexService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithEmbedConcurrency sets the number of embedding calls in flight.
func WithEmbedConcurrency(n int) IndexOption {
	return func(s *IndexService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewIndexService creates an indexer.
func NewIndexService(
	store driven.IndexStore,
	embedder driven.EmbeddingService,
	splitter driven.ChunkSplitter,
	newVectors VectorIndexFactory,
	opts ...IndexOption,
) *IndexService {
	s := &IndexService{
		store:       store,
		embedder:    embedder,
		splitter:    splitter,
		newVectors:  newVectors,
		batchSize:   DefaultEmbedBatchSize,
		concurrency: DefaultEmbedConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildOrLoad loads the complete index persisted at dir, or builds one from
// corpus when none exists. The directory lock is held throughout.
func (s *IndexService) BuildOrLoad(ctx context.Context, corpus *domain.Corpus, dir string) (*driving.Index, error) {
	return s.run(ctx, corpus, dir, false)
}

// Rebuild discards any persisted index at dir and builds a fresh one.
func (s *IndexService) Rebuild(ctx context.Context, corpus *domain.Corpus, dir string) (*driving.Index, error) {
	return s.run(ctx, corpus, dir, true)
}

func (s *IndexService) run(ctx context.Context, corpus *domain.Corpus, dir string, force bool) (*driving.Index, error) {
	logger.Section("Index")
	logger.Debug("Index directory: %s", dir)

	unlock, err := s.store.Lock(ctx, dir)
	if err != nil {
		return nil, buildErr("lock", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn("Failed to release index lock: %v", err)
		}
	}()

	if !force {
		idx, err := s.load(ctx, dir)
		if err == nil {
			return idx, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Persisted index unusable, rebuilding: %v", err)
		}
	}
	return s.build(ctx, corpus, dir)
}

func (s *IndexService) load(ctx context.Context, dir string) (*driving.Index, error) {
	exists, err := s.store.Exists(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("index: check %s: %w", dir, err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	meta, err := s.store.Meta(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("index: meta %s: %w", dir, err)
	}
	if want := s.meta(); meta != want {
		return nil, fmt.Errorf("index: %s built with %+v, want %+v: %w", dir, meta, want, domain.ErrIndexStale)
	}
	entries, err := s.store.Load(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("index: load %s: %w", dir, err)
	}
	idx, err := s.assemble(ctx, entries)
	if err != nil {
		return nil, err
	}
	idx.Loaded = true
	logger.Info("Loaded %d chunks from %s", idx.Len(), dir)
	return idx, nil
}

func (s *IndexService) build(ctx context.Context, corpus *domain.Corpus, dir string) (*driving.Index, error) {
	posts := corpus.Posts()
	var chunks []domain.Chunk
	for i := range posts {
		chunks = append(chunks, s.splitter.Split(posts[i].TopicID, RenderPost(&posts[i], s.clean))...)
	}
	logger.Debug("Rendered %d posts into %d chunks", len(posts), len(chunks))

	embeddings, err := s.embed(ctx, chunks)
	if err != nil {
		return nil, buildErr("embed", err)
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i := range chunks {
		entries[i] = domain.IndexEntry{Chunk: chunks[i], Embedding: embeddings[i]}
	}

	build, err := s.store.Begin(ctx, dir, s.meta())
	if err != nil {
		return nil, buildErr("begin", err)
	}
	if err := s.persist(ctx, build, entries); err != nil {
		if abortErr := build.Abort(); abortErr != nil {
			logger.Warn("Failed to abort index build: %v", abortErr)
		}
		return nil, buildErr("persist", err)
	}

	idx, err := s.assemble(ctx, entries)
	if err != nil {
		return nil, buildErr("assemble", err)
	}
	logger.Info("Indexed %d chunks from %d posts", idx.Len(), len(posts))
	return idx, nil
}

// meta describes an index built with the current embedder and splitter.
func (s *IndexService) meta() driven.IndexMeta {
	return driven.IndexMeta{
		Model:        s.embedder.ModelName(),
		Dimensions:   s.embedder.Dimensions(),
		ChunkSize:    s.splitter.ChunkSize(),
		ChunkOverlap: s.splitter.Overlap(),
	}
}

func (s *IndexService) persist(ctx context.Context, build driven.IndexBuild, entries []domain.IndexEntry) error {
	for start := 0; start < len(entries); start += writeBatchSize {
		end := min(start+writeBatchSize, len(entries))
		if err := build.Write(ctx, entries[start:end]); err != nil {
			return err
		}
	}
	return build.Commit(ctx)
}

// embed computes one embedding per chunk, running bounded concurrent batches.
// The first failure cancels the remaining batches.
func (s *IndexService) embed(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	out := make([][]float32, len(chunks))
	if len(chunks) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		g.Go(func() error {
			texts := make([]string, end-start)
			for i := range texts {
				texts[i] = chunks[start+i].Text
			}
			vectors, err := s.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("batch %d-%d: %w", start, end, err)
			}
			if len(vectors) != len(texts) {
				return fmt.Errorf("batch %d-%d: got %d embeddings for %d texts", start, end, len(vectors), len(texts))
			}
			for i, v := range vectors {
				if len(v) == 0 {
					return fmt.Errorf("empty embedding for chunk %s", chunks[start+i].ID)
				}
				out[start+i] = v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// assemble loads entries into a fresh in-memory vector index.
func (s *IndexService) assemble(ctx context.Context, entries []domain.IndexEntry) (*driving.Index, error) {
	dims := s.embedder.Dimensions()
	if len(entries) > 0 {
		dims = len(entries[0].Embedding)
	}
	vectors := s.newVectors(dims)
	chunks := make(map[string]domain.Chunk, len(entries))
	for i := range entries {
		if err := vectors.Add(ctx, entries[i].Chunk.ID, entries[i].Embedding); err != nil {
			_ = vectors.Close()
			return nil, fmt.Errorf("index: add chunk %s: %w", entries[i].Chunk.ID, err)
		}
		chunks[entries[i].Chunk.ID] = entries[i].Chunk
	}
	return &driving.Index{Vectors: vectors, Chunks: chunks}, nil
}

// RenderPost renders a post as the text that gets chunked and embedded.
// clean, when non-nil, is applied to the content first.
func RenderPost(p *domain.RawPost, clean func(string) string) string {
	content := p.Content
	if clean != nil {
		content = clean(content)
	}

	var b strings.Builder
	b.WriteString("Title: " + p.Title + "\n")
	b.WriteString("Author: " + p.Author + "\n")
	b.WriteString("Created: " + p.CreatedAt + "\n")
	b.WriteString("Content: " + content + "\n")
	b.WriteString("Summary: " + p.Summary + "\n")
	b.WriteString("Tags: " + strings.Join(p.Tags, ", ") + "\n")
	b.WriteString("URL: " + p.URL + "\n")
	b.WriteString("Topic ID: " + p.TopicID)
	return b.String()
}

func buildErr(step string, err error) error {
	return fmt.Errorf("index: %s: %w: %w", step, domain.ErrIndexBuildFailed, err)
}
