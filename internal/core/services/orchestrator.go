package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
	"github.com/custodia-labs/paygrade/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers a question end to end: retrieve, prompt, generate,
// extract. It holds no per-call state and is safe for concurrent use.
type QueryService struct {
	retriever   driving.Retriever
	llm         driven.LLMService
	extractor   driving.Extractor
	prompts     *PromptBuilder
	topK        int
	temperature float64
	maxTokens   int
}

// QueryOption configures a QueryService.
type QueryOption func(*QueryService)

// WithTopK sets the number of chunks retrieved per question.
func WithTopK(k int) QueryOption {
	return func(s *QueryService) { s.topK = k }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) QueryOption {
	return func(s *QueryService) { s.temperature = t }
}

// WithMaxTokens caps the reply length. Zero leaves it to the provider.
func WithMaxTokens(n int) QueryOption {
	return func(s *QueryService) { s.maxTokens = n }
}

// NewQueryService creates the query orchestrator.
func NewQueryService(
	retriever driving.Retriever,
	llm driven.LLMService,
	extractor driving.Extractor,
	prompts driven.PromptStore,
	opts ...QueryOption,
) *QueryService {
	s := &QueryService{
		retriever: retriever,
		llm:       llm,
		extractor: extractor,
		prompts:   NewPromptBuilder(prompts),
		topK:      driving.DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer returns the grounded answer to query.
func (s *QueryService) Answer(ctx context.Context, query string) (domain.QueryResult, error) {
	logger.Section("Query")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.QueryResult{}, fmt.Errorf("query: empty query: %w", domain.ErrInvalidInput)
	}

	retrieved, err := s.retriever.Retrieve(ctx, query, s.topK)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		return domain.QueryResult{}, fmt.Errorf("query: %w", err)
	}

	messages, err := s.prompts.Build(query, retrieved)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("query: %w", err)
	}

	logger.Debug("Generating with %s over %d chunks", s.llm.ModelName(), len(retrieved))
	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		JSONReply:   s.extractor.Name() == domain.ExtractionModelGrounded,
	})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return domain.QueryResult{}, fmt.Errorf("query: %w: %w", domain.ErrUpstreamGeneration, err)
	}

	outcome := s.extractor.Extract(reply, retrieved)
	logger.Debug("Extraction (%s) %s", s.extractor.Name(), parsedSummary(outcome))
	return outcome.Result, nil
}
