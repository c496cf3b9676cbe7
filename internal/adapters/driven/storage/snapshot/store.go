package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// DefaultFileName is the snapshot file name used when only a directory is configured.
const DefaultFileName = "leetcode_compensation_data.json"

const lockRetryDelay = 50 * time.Millisecond

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

// Store is a JSON file-backed corpus store.
type Store struct {
	path string
}

// NewStore creates a store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Save atomically replaces the snapshot with corpus.
func (s *Store) Save(ctx context.Context, corpus *domain.Corpus) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	data, err := encode(corpus)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot. Returns domain.ErrNotFound if the file is missing.
func (s *Store) Load(_ context.Context) (*domain.Corpus, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var posts []domain.RawPost
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", s.path, err)
	}
	return domain.NewCorpus(posts), nil
}

func (s *Store) lock(ctx context.Context) (func() error, error) {
	fl := flock.New(s.path + ".lock")
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("locking snapshot: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("locking snapshot: lock is held elsewhere")
	}
	return fl.Unlock, nil
}

// encode renders posts as indented JSON without HTML escaping, so post
// content survives verbatim.
func encode(corpus *domain.Corpus) ([]byte, error) {
	posts := corpus.Posts()
	if posts == nil {
		posts = []domain.RawPost{}
	}
	for i := range posts {
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
