package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "anthropic is valid", provider: AIProviderAnthropic, expected: true},
		{name: "empty string is invalid", provider: AIProvider(""), expected: false},
		{name: "unknown provider is invalid", provider: AIProvider("cohere"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
}

func TestAIProvider_APIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", AIProviderOpenAI.APIKeyEnv())
	assert.Equal(t, "ANTHROPIC_API_KEY", AIProviderAnthropic.APIKeyEnv())
	assert.Equal(t, "", AIProviderOllama.APIKeyEnv())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

func TestExtractionStrategy_IsValid(t *testing.T) {
	assert.True(t, ExtractionModelGrounded.IsValid())
	assert.True(t, ExtractionHeuristic.IsValid())
	assert.False(t, ExtractionStrategy("llm").IsValid())
	assert.Contains(t, ExtractionHeuristic.Description(), "low confidence")
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk"}, true},
		{"anthropic has no embeddings", EmbeddingSettings{Provider: AIProviderAnthropic, APIKey: "k"}, false},
		{"empty provider", EmbeddingSettings{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, 1000, s.Harvest.MaxPosts)
	assert.Equal(t, 50, s.Harvest.BatchSize)
	assert.Equal(t, 500*time.Millisecond, s.Harvest.ItemDelay)
	assert.Equal(t, 2*time.Second, s.Harvest.PageDelay)
	assert.Equal(t, 1000, s.Index.ChunkSize)
	assert.Equal(t, 100, s.Index.ChunkOverlap)
	assert.Equal(t, 8, s.Index.TopK)
	assert.Equal(t, "leetcode_compensation_data.json", s.Paths.Snapshot)
	assert.Equal(t, "gpt-4", s.LLM.Model)
	assert.Equal(t, 0.0, s.LLM.Temperature)
	assert.Equal(t, ExtractionModelGrounded, s.Extraction)
	assert.Equal(t, ":8080", s.ServerAddr)
	assert.False(t, s.LLM.IsConfigured(), "api key must come from the environment")
}

func TestEmbeddingDimensions_KnownModels(t *testing.T) {
	dims := EmbeddingDimensions()
	for _, model := range DefaultEmbeddingModels() {
		assert.Positive(t, dims[model], model)
	}
}

func TestAIProvider_SupportsEmbeddings(t *testing.T) {
	assert.True(t, AIProviderOllama.SupportsEmbeddings())
	assert.True(t, AIProviderOpenAI.SupportsEmbeddings())
	assert.False(t, AIProviderAnthropic.SupportsEmbeddings())
	assert.False(t, AIProvider("cohere").SupportsEmbeddings())
	assert.False(t, AIProvider("cohere").IsLocal())
}

func TestProviderLists(t *testing.T) {
	assert.Equal(t, []AIProvider{AIProviderOllama, AIProviderOpenAI}, AllEmbeddingProviders())
	assert.Equal(t, []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}, AllLLMProviders())

	llms := AllLLMProviders()
	llms[0] = "mutated"
	assert.Equal(t, AIProviderOllama, AllLLMProviders()[0], "callers get a copy")
}
