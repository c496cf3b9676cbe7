package driving

import (
	"context"
	"errors"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// Pipeline runs the end-to-end workflow over the configured snapshot and
// index locations.
type Pipeline interface {
	// Harvest collects posts and replaces the snapshot.
	Harvest(ctx context.Context, req HarvestRequest) (*domain.Corpus, HarvestStats, error)

	// Index loads the snapshot and builds or loads the index over it.
	// With rebuild set the persisted index is discarded first.
	Index(ctx context.Context, rebuild bool) (*Index, error)

	// Open loads the snapshot and index and wires a ready query service.
	// The caller must Close the session.
	Open(ctx context.Context) (*Session, error)
}

// HarvestRequest parameterises one harvest run.
type HarvestRequest struct {
	// MaxPosts bounds the corpus size.
	MaxPosts int

	// BatchSize is the page size.
	BatchSize int

	// OutPath overrides the configured snapshot path when set.
	OutPath string
}

// Session is an opened query pipeline.
type Session struct {
	// Query answers questions over the loaded index.
	Query QueryService

	// Corpus is the loaded snapshot.
	Corpus *domain.Corpus

	// Index is the loaded index.
	Index *Index

	// SnapshotPath is where Corpus was read from.
	SnapshotPath string

	// Closers release provider sessions, in order.
	Closers []func() error
}

// Close releases every resource held by the session.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, c := range s.Closers {
		if c == nil {
			continue
		}
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	s.Closers = nil
	return errors.Join(errs...)
}
