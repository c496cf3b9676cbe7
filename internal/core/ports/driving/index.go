package driving

import (
	"context"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// Indexer builds or loads the persisted vector index for a corpus.
type Indexer interface {
	// BuildOrLoad loads the complete index at persistPath, or builds and
	// persists one from corpus. A failed build leaves nothing marked complete
	// and returns an error wrapping domain.ErrIndexBuildFailed.
	BuildOrLoad(ctx context.Context, corpus *domain.Corpus, persistPath string) (*Index, error)

	// Rebuild ignores any persisted index and builds a fresh one.
	Rebuild(ctx context.Context, corpus *domain.Corpus, persistPath string) (*Index, error)
}

// Index is a built, read-only index.
type Index struct {
	// Vectors is the similarity index over chunk embeddings.
	Vectors driven.VectorIndex

	// Chunks maps chunk ID to chunk.
	Chunks map[string]domain.Chunk

	// Loaded is true when the index came from disk without recomputation.
	Loaded bool
}

// Len returns the number of chunks in the index.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.Chunks)
}
