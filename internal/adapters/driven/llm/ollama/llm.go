// Package ollama answers compensation questions with a local model served
// by Ollama.
package ollama

import (
	"cmp"
	"context"
	"time"

	"github.com/custodia-labs/paygrade/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL = "http://localhost:11434"

	// DefaultTimeout is generous because local models load on first use.
	DefaultTimeout = 120 * time.Second
)

// Config selects the server and model. Ollama needs no credentials.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService sends one non-streaming /api/chat request per question.
type LLMService struct {
	api   *httpjson.Client
	model string
}

// NewLLMService fills in defaults. Reachability is checked by Ping.
func NewLLMService(cfg Config) *LLMService {
	return &LLMService{
		api: httpjson.New("ollama",
			cmp.Or(cfg.BaseURL, DefaultBaseURL),
			cmp.Or(cfg.Timeout, DefaultTimeout),
			nil),
		model: cmp.Or(cfg.Model, domain.DefaultLLMModels()[domain.AIProviderOllama]),
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type modelOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

type chatRequest struct {
	Model    string       `json:"model"`
	Messages []message    `json:"messages"`
	Stream   bool         `json:"stream"`
	Format   string       `json:"format,omitempty"`
	Options  modelOptions `json:"options"`
}

type chatResponse struct {
	Message message `json:"message"`
}

// Chat asks for format "json" when JSONReply is set, which Ollama enforces
// with constrained decoding.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := chatRequest{
		Model:    s.model,
		Messages: make([]message, len(messages)),
		Options:  modelOptions{NumPredict: opts.MaxTokens, Temperature: opts.Temperature},
	}
	for i, m := range messages {
		req.Messages[i] = message{Role: m.Role, Content: m.Content}
	}
	if opts.JSONReply {
		req.Format = "json"
	}

	var resp chatResponse
	if err := s.api.Post(ctx, "/api/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists local models.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/api/tags")
}

// Close releases idle connections.
func (s *LLMService) Close() error {
	return s.api.Close()
}
