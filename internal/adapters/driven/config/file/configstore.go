package file

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFileName is the settings file inside the config directory.
const ConfigFileName = "config.toml"

// DefaultDir returns ~/.paygrade.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".paygrade"), nil
}

// ConfigStore keeps config.toml in memory as flat dot-notation keys and
// writes it back as nested tables ([harvest], [llm], ...) on every Set.
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	flat map[string]any
}

// NewConfigStore opens configDir/config.toml, creating configDir if needed.
// An empty configDir means ~/.paygrade.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	return NewConfigStoreAt(filepath.Join(configDir, ConfigFileName))
}

// NewConfigStoreAt opens the settings file at path. A missing file yields an
// empty store; the file is created by the first Set.
func NewConfigStoreAt(path string) (*ConfigStore, error) {
	flat, err := readFlat(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &ConfigStore{path: path, flat: flat}, nil
}

func readFlat(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	var tables map[string]any
	if err := toml.Unmarshal(raw, &tables); err != nil {
		return nil, err
	}
	flat := map[string]any{}
	flatten(flat, "", tables)
	return flat, nil
}

// Get returns the raw value for key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.flat[key]
	return v, ok
}

// GetString returns the string at key.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt returns the integer at key. go-toml decodes integers as int64.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// Keys lists the stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.flat))
}

// Set stores value under key and rewrites the file with mode 0600, since
// the file may carry API keys.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flat[key] = value
	raw, err := toml.Marshal(nest(s.flat))
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	return os.WriteFile(s.path, raw, 0600)
}

// Path is the file backing the store.
func (s *ConfigStore) Path() string {
	return s.path
}

// flatten copies tables into dst, joining nested table names with dots.
func flatten(dst map[string]any, prefix string, tables map[string]any) {
	for name, v := range tables {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(dst, key, sub)
			continue
		}
		dst[key] = v
	}
}

// nest is the inverse of flatten. When a key is both a value and a table
// prefix ("llm" and "llm.model"), the value is kept and the table dropped.
func nest(flat map[string]any) map[string]any {
	keys := slices.Collect(maps.Keys(flat))
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Count(a, ".") - strings.Count(b, ".")
	})

	root := map[string]any{}
outer:
	for _, key := range keys {
		parts := strings.Split(key, ".")
		table := root
		for _, part := range parts[:len(parts)-1] {
			switch child := table[part].(type) {
			case nil:
				next := map[string]any{}
				table[part] = next
				table = next
			case map[string]any:
				table = child
			default:
				continue outer
			}
		}
		table[parts[len(parts)-1]] = flat[key]
	}
	return root
}
