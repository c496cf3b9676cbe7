package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider names a hosted or local model service.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

type providerTraits struct {
	description string
	keyEnv      string
	embeds      bool
}

// providerOrder is the order the settings wizard lists providers in.
var providerOrder = []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}

var providers = map[AIProvider]providerTraits{
	AIProviderOllama:    {description: "Ollama (local)", embeds: true},
	AIProviderOpenAI:    {description: "OpenAI (cloud)", keyEnv: "OPENAI_API_KEY", embeds: true},
	AIProviderAnthropic: {description: "Anthropic (cloud)", keyEnv: "ANTHROPIC_API_KEY"},
}

// IsValid reports whether p is a known provider.
func (p AIProvider) IsValid() bool {
	_, ok := providers[p]
	return ok
}

// RequiresAPIKey reports whether p authenticates with an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return providers[p].keyEnv != ""
}

// APIKeyEnv is the environment variable holding p's API key, or "".
// Keys are only ever read from the environment or the dotenv file.
func (p AIProvider) APIKeyEnv() string {
	return providers[p].keyEnv
}

// IsLocal reports whether p runs on the user's machine. Local providers
// have a configurable base URL and no key.
func (p AIProvider) IsLocal() bool {
	return p.IsValid() && !p.RequiresAPIKey()
}

// SupportsEmbeddings reports whether p can build and query the index.
func (p AIProvider) SupportsEmbeddings() bool {
	return providers[p].embeds
}

func (p AIProvider) String() string {
	return string(p)
}

// Description is the wizard label for p.
func (p AIProvider) Description() string {
	if t, ok := providers[p]; ok {
		return t.description
	}
	return unknownDescription
}

// ExtractionStrategy selects how a model reply becomes compensation records.
type ExtractionStrategy string

const (
	// ExtractionModelGrounded validates the JSON object the model emits.
	ExtractionModelGrounded ExtractionStrategy = "model"

	// ExtractionHeuristic mines the retrieved posts with regular expressions.
	// It guesses amounts and levels and is low confidence.
	ExtractionHeuristic ExtractionStrategy = "heuristic"
)

// IsValid reports whether s is a known strategy.
func (s ExtractionStrategy) IsValid() bool {
	return s == ExtractionModelGrounded || s == ExtractionHeuristic
}

// Description is the wizard label for s.
func (s ExtractionStrategy) Description() string {
	switch s {
	case ExtractionModelGrounded:
		return "Model grounded (schema validated)"
	case ExtractionHeuristic:
		return "Heuristic text mining (low confidence)"
	}
	return unknownDescription
}

// EmbeddingSettings selects the service that embeds post chunks and
// questions. BaseURL applies to local providers, APIKey to hosted ones.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured reports whether an embedding service can be built from e.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.SupportsEmbeddings() && hasCredentials(e.Provider, e.APIKey)
}

// LLMSettings selects the model that answers questions.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string

	// Temperature is sent with every request; 0 asks for repeatable
	// answers.
	Temperature float64
}

// IsConfigured reports whether an LLM service can be built from l.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && hasCredentials(l.Provider, l.APIKey)
}

func hasCredentials(p AIProvider, key string) bool {
	return !p.RequiresAPIKey() || key != ""
}

// HarvestSettings controls a harvest run.
type HarvestSettings struct {
	// Endpoint is the GraphQL endpoint of the discussion API.
	Endpoint string

	// MaxPosts bounds the corpus size.
	MaxPosts int

	// BatchSize is the page size requested from the API.
	BatchSize int

	// ItemDelay is the pause after each detail fetch.
	ItemDelay time.Duration

	// PageDelay is the pause between pages.
	PageDelay time.Duration
}

// IndexSettings controls chunking and retrieval.
type IndexSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the overlap between adjacent chunks in characters.
	ChunkOverlap int

	// TopK is the number of chunks retrieved per query.
	TopK int
}

// PathSettings holds on-disk locations.
type PathSettings struct {
	// Snapshot is the corpus snapshot file.
	Snapshot string

	// Index is the persisted index directory.
	Index string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Harvest    HarvestSettings
	Index      IndexSettings
	Paths      PathSettings
	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Extraction ExtractionStrategy
	ServerAddr string
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are never defaulted; they come from the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Harvest: HarvestSettings{
			Endpoint:  "https://leetcode.com/graphql/",
			MaxPosts:  1000,
			BatchSize: 50,
			ItemDelay: 500 * time.Millisecond,
			PageDelay: 2 * time.Second,
		},
		Index: IndexSettings{
			ChunkSize:    1000,
			ChunkOverlap: 100,
			TopK:         8,
		},
		Paths: PathSettings{
			Snapshot: "leetcode_compensation_data.json",
			Index:    "index_db",
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       DefaultLLMModels()[AIProviderOpenAI],
			Temperature: 0,
		},
		Extraction: ExtractionModelGrounded,
		ServerAddr: ":8080",
	}
}

// AllEmbeddingProviders lists the providers that can embed, in wizard order.
func AllEmbeddingProviders() []AIProvider {
	var out []AIProvider
	for _, p := range providerOrder {
		if p.SupportsEmbeddings() {
			out = append(out, p)
		}
	}
	return out
}

// AllLLMProviders lists every provider, in wizard order.
func AllLLMProviders() []AIProvider {
	return append([]AIProvider(nil), providerOrder...)
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
