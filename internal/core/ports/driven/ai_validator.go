package driven

import "github.com/custodia-labs/paygrade/internal/core/domain"

// AIConfigValidator checks provider settings before the settings wizard
// saves them, so a typo in a key or model fails at setup rather than in the
// middle of an index build.
type AIConfigValidator interface {
	// ValidateEmbedding reports why cfg cannot embed, or nil. An unset
	// provider is not an error.
	ValidateEmbedding(cfg *domain.EmbeddingSettings) error

	// ValidateLLM reports why cfg cannot answer, or nil. An unset provider
	// is not an error.
	ValidateLLM(cfg *domain.LLMSettings) error
}
