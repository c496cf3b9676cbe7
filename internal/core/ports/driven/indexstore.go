package driven

import (
	"context"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// IndexStore persists index entries under a directory.
// An index becomes visible to Exists and Load only after Commit.
type IndexStore interface {
	// Exists reports whether a complete index is persisted at dir.
	Exists(ctx context.Context, dir string) (bool, error)

	// Load returns all entries of the complete index at dir.
	// Returns domain.ErrIndexIncomplete if data exists without a completion
	// marker, domain.ErrNotFound if nothing exists.
	Load(ctx context.Context, dir string) ([]domain.IndexEntry, error)

	// Meta returns how the complete index at dir was built, with the same
	// errors as Load.
	Meta(ctx context.Context, dir string) (IndexMeta, error)

	// Begin starts a build at dir, discarding any previous data there.
	Begin(ctx context.Context, dir string, meta IndexMeta) (IndexBuild, error)

	// Lock takes an exclusive cross-process lock on dir.
	// The returned func releases it.
	Lock(ctx context.Context, dir string) (func() error, error)
}

// IndexBuild is an in-progress, uncommitted index.
type IndexBuild interface {
	// Write appends entries.
	Write(ctx context.Context, entries []domain.IndexEntry) error

	// Commit marks the index complete. No writes are allowed afterwards.
	Commit(ctx context.Context) error

	// Abort discards all written entries. Safe to call after Commit (no-op).
	Abort() error
}

// IndexMeta describes how an index was built.
type IndexMeta struct {
	// Model is the embedding model name.
	Model string

	// Dimensions is the embedding vector size.
	Dimensions int

	// ChunkSize is the maximum chunk length used.
	ChunkSize int

	// ChunkOverlap is the chunk overlap used.
	ChunkOverlap int
}
