package services

import (
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyHarvestEndpoint  = "harvest.endpoint"
	keyHarvestMaxPosts  = "harvest.max_posts"
	keyHarvestBatch     = "harvest.batch_size"
	keyHarvestItemDelay = "harvest.item_delay_ms"
	keyHarvestPageDelay = "harvest.page_delay_ms"
	keyPathSnapshot     = "paths.snapshot"
	keyPathIndex        = "paths.index"
	keyRetrievalK       = "retrieval.k"
	keyChunkSize        = "chunker.size"
	keyChunkOverlap     = "chunker.overlap"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMTemperature   = "llm.temperature"
	keyExtraction       = "extraction.strategy"
	keyServerAddr       = "server.addr"
)

// defaultOllamaURL is used when a local provider has no base URL.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Harvest: domain.HarvestSettings{
			Endpoint:  s.getString(keyHarvestEndpoint, defaults.Harvest.Endpoint),
			MaxPosts:  s.getInt(keyHarvestMaxPosts, defaults.Harvest.MaxPosts),
			BatchSize: s.getInt(keyHarvestBatch, defaults.Harvest.BatchSize),
			ItemDelay: s.getMillis(keyHarvestItemDelay, defaults.Harvest.ItemDelay),
			PageDelay: s.getMillis(keyHarvestPageDelay, defaults.Harvest.PageDelay),
		},
		Index: domain.IndexSettings{
			ChunkSize:    s.getInt(keyChunkSize, defaults.Index.ChunkSize),
			ChunkOverlap: s.getInt(keyChunkOverlap, defaults.Index.ChunkOverlap),
			TopK:         s.getInt(keyRetrievalK, defaults.Index.TopK),
		},
		Paths: domain.PathSettings{
			Snapshot: s.getString(keyPathSnapshot, defaults.Paths.Snapshot),
			Index:    s.getString(keyPathIndex, defaults.Paths.Index),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
		},
		Extraction: s.getStrategy(defaults.Extraction),
		ServerAddr: s.getString(keyServerAddr, defaults.ServerAddr),
	}

	// Models default per provider, so a provider switch in the file alone
	// does not inherit another provider's model name.
	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])

	settings.Embedding.APIKey = s.apiKey(settings.Embedding.Provider)
	settings.LLM.APIKey = s.apiKey(settings.LLM.Provider)

	if settings.Embedding.Provider.IsLocal() && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = defaultOllamaURL
	}
	if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = defaultOllamaURL
	}

	return settings, nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s: %w", provider, domain.ErrInvalidInput)
	}

	valid := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings: %w", provider, domain.ErrInvalidInput)
	}

	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	if err := s.configStore.Set(keyEmbedProvider, provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	return s.setBaseURL(keyEmbedBaseURL, provider)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s: %w", provider, domain.ErrInvalidInput)
	}

	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	if err := s.configStore.Set(keyLLMProvider, provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	return s.setBaseURL(keyLLMBaseURL, provider)
}

// SetExtractionStrategy selects the extraction strategy.
func (s *SettingsService) SetExtractionStrategy(strategy domain.ExtractionStrategy) error {
	if !strategy.IsValid() {
		return fmt.Errorf("invalid extraction strategy: %s: %w", strategy, domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyExtraction, string(strategy)); err != nil {
		return fmt.Errorf("save extraction strategy: %w", err)
	}
	return nil
}

// Validate checks that indexing and querying can run with the current
// settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Index.ChunkSize <= 0 {
		return fmt.Errorf("chunker.size must be positive: %w", domain.ErrInvalidInput)
	}
	if settings.Index.ChunkOverlap < 0 || settings.Index.ChunkOverlap >= settings.Index.ChunkSize {
		return fmt.Errorf("chunker.overlap must be in [0, chunker.size): %w", domain.ErrInvalidInput)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured: %w",
			settings.Embedding.Provider.Description(), domain.ErrEmbeddingUnavailable)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured: %w",
			settings.LLM.Provider.Description(), domain.ErrLLMUnavailable)
	}
	return nil
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// ConfigPath returns the path of the backing config file.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) setBaseURL(key string, provider domain.AIProvider) error {
	url := ""
	if provider.IsLocal() {
		url = s.configStore.GetString(key)
		if url == "" {
			url = defaultOllamaURL
		}
	}
	if err := s.configStore.Set(key, url); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *SettingsService) apiKey(provider domain.AIProvider) string {
	name := provider.APIKeyEnv()
	if name == "" {
		return ""
	}
	return s.getenv(name)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getMillis reads an integer number of milliseconds. Negative values are
// kept and disable the corresponding pause.
func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	ms := s.configStore.GetInt(key)
	if ms == 0 {
		return -1
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStrategy(defaultVal domain.ExtractionStrategy) domain.ExtractionStrategy {
	strategy := domain.ExtractionStrategy(s.configStore.GetString(keyExtraction))
	if !strategy.IsValid() {
		return defaultVal
	}
	return strategy
}
