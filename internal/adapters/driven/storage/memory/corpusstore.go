package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore keeps the last saved corpus in memory.
type CorpusStore struct {
	mu    sync.RWMutex
	posts []domain.RawPost
	saved bool
	saves int
}

// NewCorpusStore creates an empty in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{}
}

// Save replaces the stored corpus.
func (s *CorpusStore) Save(_ context.Context, corpus *domain.Corpus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = corpus.Posts()
	s.saved = true
	s.saves++
	return nil
}

// Load returns the stored corpus, or domain.ErrNotFound before the first Save.
func (s *CorpusStore) Load(_ context.Context) (*domain.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return nil, domain.ErrNotFound
	}
	return domain.NewCorpus(s.posts), nil
}

// Saves returns the number of completed saves.
func (s *CorpusStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Path returns a placeholder path.
func (s *CorpusStore) Path() string {
	return ":memory:"
}
