package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore keeps persisted indexes in memory, keyed by directory. Entries
// written by a build are only visible after Commit.
type IndexStore struct {
	mu      sync.Mutex
	indexes map[string]*storedIndex
	locks   map[string]*sync.Mutex
}

type storedIndex struct {
	meta     driven.IndexMeta
	entries  []domain.IndexEntry
	complete bool
}

// NewIndexStore creates an empty in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		indexes: make(map[string]*storedIndex),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Exists reports whether a complete index is stored for dir.
func (s *IndexStore) Exists(_ context.Context, dir string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[dir]
	return ok && idx.complete, nil
}

// Load returns the entries of the complete index stored for dir.
func (s *IndexStore) Load(_ context.Context, dir string) ([]domain.IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[dir]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !idx.complete {
		return nil, domain.ErrIndexIncomplete
	}
	out := make([]domain.IndexEntry, len(idx.entries))
	copy(out, idx.entries)
	return out, nil
}

// Meta returns the metadata of the complete index stored for dir.
func (s *IndexStore) Meta(_ context.Context, dir string) (driven.IndexMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[dir]
	if !ok {
		return driven.IndexMeta{}, domain.ErrNotFound
	}
	if !idx.complete {
		return driven.IndexMeta{}, domain.ErrIndexIncomplete
	}
	return idx.meta, nil
}

// Begin discards whatever is stored for dir and starts a new build.
func (s *IndexStore) Begin(_ context.Context, dir string, meta driven.IndexMeta) (driven.IndexBuild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := &storedIndex{meta: meta}
	s.indexes[dir] = idx
	return &memoryBuild{store: s, dir: dir, idx: idx}, nil
}

// Lock serialises builds of the same directory within the process.
func (s *IndexStore) Lock(ctx context.Context, dir string) (func() error, error) {
	s.mu.Lock()
	l, ok := s.locks[dir]
	if !ok {
		l = &sync.Mutex{}
		s.locks[dir] = l
	}
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.Lock()
	return func() error {
		l.Unlock()
		return nil
	}, nil
}

type memoryBuild struct {
	store *IndexStore
	dir   string
	idx   *storedIndex
}

func (b *memoryBuild) Write(_ context.Context, entries []domain.IndexEntry) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	b.idx.entries = append(b.idx.entries, entries...)
	return nil
}

func (b *memoryBuild) Commit(_ context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	b.idx.complete = true
	return nil
}

func (b *memoryBuild) Abort() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	if b.store.indexes[b.dir] == b.idx {
		delete(b.store.indexes, b.dir)
	}
	return nil
}
