package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
	"github.com/custodia-labs/paygrade/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// RetrievalService answers similarity queries against a built index.
// It never mutates the index and is safe for concurrent use.
type RetrievalService struct {
	index    *driving.Index
	corpus   *domain.Corpus
	embedder driven.EmbeddingService
}

// NewRetrievalService creates a retriever over index. corpus resolves chunks
// back to their posts and may be nil.
func NewRetrievalService(
	index *driving.Index,
	corpus *domain.Corpus,
	embedder driven.EmbeddingService,
) *RetrievalService {
	return &RetrievalService{
		index:    index,
		corpus:   corpus,
		embedder: embedder,
	}
}

// Retrieve returns up to k chunks most similar to query, most similar first.
// Equal similarities are ordered by chunk ID. k <= 0 uses driving.DefaultTopK.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievedChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q, k: %d", query, k)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("retrieve: empty query: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = driving.DefaultTopK
	}
	if s.index.Len() == 0 {
		logger.Debug("Index is empty")
		return []domain.RetrievedChunk{}, nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("retrieve: embed query: %w", err)
	}

	hits, err := s.index.Vectors.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: search: %w", err)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		chunk, ok := s.index.Chunks[hit.ChunkID]
		if !ok {
			logger.Warn("Vector hit %s has no chunk", hit.ChunkID)
			continue
		}
		rc := domain.RetrievedChunk{Chunk: chunk, Score: hit.Similarity}
		if post, ok := s.corpus.ByTopicID(chunk.SourceTopicID); ok {
			rc.Post = &post
		}
		results = append(results, rc)
	}
	logger.Debug("Retrieved %d chunks", len(results))
	return results, nil
}
