package driven

import (
	"context"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// CorpusStore persists the corpus as a full-replace snapshot.
type CorpusStore interface {
	// Save replaces the snapshot with the given corpus.
	// A reader never observes a half-written snapshot.
	Save(ctx context.Context, corpus *domain.Corpus) error

	// Load reads the whole snapshot.
	// Returns domain.ErrNotFound if no snapshot exists.
	Load(ctx context.Context) (*domain.Corpus, error)

	// Path returns the snapshot location.
	Path() string
}
