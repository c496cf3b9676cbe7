package driving

import "github.com/custodia-labs/paygrade/internal/core/domain"

// SettingsService resolves and updates application settings.
type SettingsService interface {
	// Get returns the effective settings: stored values over defaults, with
	// API keys taken from the environment when set there.
	Get() (*domain.AppSettings, error)

	// SetEmbeddingProvider configures the embedding provider. An empty model
	// selects the provider default.
	SetEmbeddingProvider(provider domain.AIProvider, model string) error

	// SetLLMProvider configures the generation provider.
	SetLLMProvider(provider domain.AIProvider, model string) error

	// SetExtractionStrategy selects how replies become records.
	SetExtractionStrategy(strategy domain.ExtractionStrategy) error

	// Validate checks that the configured providers are usable for indexing
	// and querying.
	Validate() error

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error

	// ConfigPath returns the path of the backing config file.
	ConfigPath() string
}
