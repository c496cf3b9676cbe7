// Package openai answers compensation questions through the OpenAI chat
// completions API, or any server that speaks it.
package openai

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
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 120 * time.Second
)

// jsonObjectModels are the model families that accept
// response_format {"type":"json_object"}. Older models reject the field.
var jsonObjectModels = []string{
	"gpt-3.5-turbo", "gpt-4-turbo", "gpt-4-1106", "gpt-4-0125",
	"gpt-4o", "gpt-4.1", "gpt-5", "o1", "o3", "o4",
}

// Config selects the endpoint, credentials and model.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService sends one chat completion per question.
type LLMService struct {
	api        *httpjson.Client
	model      string
	jsonObject bool
}

// NewLLMService validates cfg and fills in defaults.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	model := cmp.Or(cfg.Model, domain.DefaultLLMModels()[domain.AIProviderOpenAI])
	return &LLMService{
		api: httpjson.New("openai",
			cmp.Or(cfg.BaseURL, DefaultBaseURL),
			cmp.Or(cfg.Timeout, DefaultTimeout),
			http.Header{"Authorization": {"Bearer " + cfg.APIKey}}),
		model:      model,
		jsonObject: acceptsJSONObject(model),
	}, nil
}

func acceptsJSONObject(model string) bool {
	for _, family := range jsonObjectModels {
		if strings.HasPrefix(model, family) {
			return true
		}
	}
	return false
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// Chat returns the first choice. A content-filtered choice is an error
// because its text is not an answer.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := completionRequest{
		Model:       s.model,
		Messages:    make([]message, len(messages)),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for i, m := range messages {
		req.Messages[i] = message{Role: m.Role, Content: m.Content}
	}
	if opts.JSONReply && s.jsonObject {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var resp completionResponse
	if err := s.api.Post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: reply has no choices")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", errors.New("openai: reply withheld by content filter")
	}
	return choice.Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without spending tokens.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/models")
}

// Close releases idle connections.
func (s *LLMService) Close() error {
	return s.api.Close()
}
