package driven

// ConfigStore holds the settings file as flat dot-notation keys
// ("harvest.max_posts", "llm.provider"). Every Set is written through, so a
// crash never loses a saved wizard answer.
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns the value for key, or "" when unset or not a string.
	GetString(key string) string

	// GetInt returns the value for key, or 0 when unset or not an integer.
	GetInt(key string) int

	// Set stores value under key and persists the file.
	Set(key string, value any) error

	// Keys lists the stored keys in sorted order.
	Keys() []string

	// Path is the file backing the store.
	Path() string
}
