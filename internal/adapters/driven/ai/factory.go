// Package ai builds the embedding and LLM adapters named by the saved
// settings.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/paygrade/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/paygrade/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/paygrade/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/paygrade/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/paygrade/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// pingTimeout bounds the connectivity check made before a build or query.
const pingTimeout = 5 * time.Second

const fixHint = "Run 'paygrade settings' to fix"

// pinger is the part of both service ports the validation path needs.
type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// CreateAndValidateEmbeddingService builds the embedding service and pings
// it. Every failure, including an unset provider, wraps
// domain.ErrEmbeddingUnavailable.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider not configured. %s", domain.ErrEmbeddingUnavailable, fixHint)
	}
	return createAndPing(ctx, domain.ErrEmbeddingUnavailable, func() (driven.EmbeddingService, error) {
		return CreateEmbeddingService(settings)
	})
}

// CreateAndValidateLLMService builds the LLM service and pings it. Every
// failure, including an unset provider, wraps domain.ErrLLMUnavailable.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider not configured. %s", domain.ErrLLMUnavailable, fixHint)
	}
	return createAndPing(ctx, domain.ErrLLMUnavailable, func() (driven.LLMService, error) {
		return CreateLLMService(settings)
	})
}

func createAndPing[S pinger](ctx context.Context, unavailable error, create func() (S, error)) (S, error) {
	var zero S
	svc, err := create()
	if err != nil {
		return zero, fmt.Errorf("%w: %w. %s", unavailable, err, fixHint)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return zero, fmt.Errorf("%w: service unreachable (%w). %s", unavailable, err, fixHint)
	}
	return svc, nil
}

// CreateEmbeddingService builds the embedding service for settings without
// contacting it.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, errors.New("embedding settings missing")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderAnthropic:
		return nil, errors.New("anthropic does not support embeddings, use ollama or openai")
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", settings.Provider)
	}
}

// CreateLLMService builds the LLM service for settings without contacting
// it.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, errors.New("llm settings missing")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", settings.Provider)
	}
}
