// Package anthropic answers compensation questions through the Anthropic
// Messages API.
package anthropic

import (
	"cmp"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/paygrade/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultTimeout = 120 * time.Second

	// DefaultMaxTokens is used when the caller sets no cap; the API
	// requires one.
	DefaultMaxTokens = 2048

	apiVersion = "2023-06-01"

	// jsonPrefill opens the assistant turn so the model continues an
	// object instead of writing prose around it.
	jsonPrefill = "{"
)

// Config selects the endpoint, credentials and model.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService sends one Messages request per question.
type LLMService struct {
	api   *httpjson.Client
	model string
}

// NewLLMService validates cfg and fills in defaults.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	return &LLMService{
		api: httpjson.New("anthropic",
			cmp.Or(cfg.BaseURL, DefaultBaseURL),
			cmp.Or(cfg.Timeout, DefaultTimeout),
			http.Header{"x-api-key": {cfg.APIKey}, "anthropic-version": {apiVersion}}),
		model: cmp.Or(cfg.Model, domain.DefaultLLMModels()[domain.AIProviderAnthropic]),
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Chat lifts system messages into the top-level system field, which is
// where the Messages API expects them. With JSONReply the assistant turn is
// prefilled with "{" and the prefill is put back on the returned reply.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := messagesRequest{
		Model:       s.model,
		MaxTokens:   cmp.Or(opts.MaxTokens, DefaultMaxTokens),
		Temperature: opts.Temperature,
	}
	var system []string
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		req.Messages = append(req.Messages, message{Role: m.Role, Content: m.Content})
	}
	req.System = strings.Join(system, "\n\n")

	prefill := opts.JSONReply && len(req.Messages) > 0 && req.Messages[len(req.Messages)-1].Role == "user"
	if prefill {
		req.Messages = append(req.Messages, message{Role: "assistant", Content: jsonPrefill})
	}

	var resp messagesResponse
	if err := s.api.Post(ctx, "/v1/messages", req, &resp); err != nil {
		return "", err
	}

	var reply strings.Builder
	found := false
	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		if !found && prefill {
			reply.WriteString(jsonPrefill)
		}
		found = true
		reply.WriteString(block.Text)
	}
	if !found {
		return "", errors.New("anthropic: reply has no text")
	}
	return reply.String(), nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without spending tokens.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/v1/models")
}

// Close releases idle connections.
func (s *LLMService) Close() error {
	return s.api.Close()
}
