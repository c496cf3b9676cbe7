package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// defaultFS holds one <name>.txt per prompt plus the README seeded next to
// them.
//
//go:embed defaults
var defaultFS embed.FS

const readmeName = "README.md"

var promptNames = []string{
	driven.PromptSystem,
	driven.PromptSchema,
	driven.PromptExample,
	driven.PromptQuery,
}

var defaultPrompts = mustLoadDefaults()

func mustLoadDefaults() map[string]string {
	out := make(map[string]string, len(promptNames))
	for _, name := range promptNames {
		raw, err := defaultFS.ReadFile("defaults/" + name + ".txt")
		if err != nil {
			panic(fmt.Sprintf("embedded prompt %q missing: %v", name, err))
		}
		out[name] = strings.TrimSpace(string(raw))
	}
	return out
}

// DefaultPrompt returns the built-in text for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// PromptStore serves prompts from <dir>/<name>.txt, falling back to the
// built-in text when a file is missing, empty or unreadable. The directory
// is seeded with the defaults on first Load, never overwriting user edits.
type PromptStore struct {
	dir  string
	seed sync.Once
	// seedErr is set when the directory could not be prepared; Load then
	// serves built-in prompts only.
	seedErr error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore does no I/O. An empty dir means ~/.paygrade/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, cache: map[string]string{}}, nil
}

// Dir is the directory prompts are read from.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the prompt called name. Results are cached until Reload.
func (s *PromptStore) Load(name string) (string, error) {
	s.seed.Do(func() { s.seedErr = s.seedDir() })

	builtin, known := defaultPrompts[name]
	if s.seedErr != nil {
		if known {
			return builtin, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, s.seedErr)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	text, err := s.readFile(name)
	switch {
	case err == nil:
	case known:
		text = builtin
	default:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The first reader to fill the cache wins, so concurrent Loads agree.
	if cached, ok := s.cache[name]; ok {
		return cached, nil
	}
	s.cache[name] = text
	return text, nil
}

// Reload drops the cache so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = map[string]string{}
	s.mu.Unlock()
}

func (s *PromptStore) readFile(name string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", errors.New("empty file")
	}
	return text, nil
}

// seedDir creates the directory and writes every default file that does
// not exist yet.
func (s *PromptStore) seedDir() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for _, name := range promptNames {
		if err := writeIfMissing(filepath.Join(s.dir, name+".txt"), defaultPrompts[name]+"\n"); err != nil {
			return fmt.Errorf("create default prompt %q: %w", name, err)
		}
	}
	readme, err := defaultFS.ReadFile("defaults/" + readmeName)
	if err != nil {
		return err
	}
	return writeIfMissing(filepath.Join(s.dir, readmeName), string(readme))
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
