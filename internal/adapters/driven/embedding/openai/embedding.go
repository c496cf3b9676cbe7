// Package openai embeds post chunks and questions with the OpenAI embeddings
// API, or any server that speaks it.
package openai

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/paygrade/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 60 * time.Second

	// MaxInputs is the most inputs one embeddings request may carry.
	MaxInputs = 2048

	// fallbackDimensions is assumed for models missing from
	// domain.EmbeddingDimensions.
	fallbackDimensions = 1536
)

// Config selects the endpoint, credentials and model. Dimensions shortens
// text-embedding-3-* vectors; other models ignore it.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// EmbeddingService calls /embeddings, splitting large batches.
type EmbeddingService struct {
	api        *httpjson.Client
	model      string
	dimensions int
	// sendDimensions is set for models that accept the dimensions field.
	sendDimensions bool
	maxInputs      int
}

// NewEmbeddingService validates cfg and fills in defaults.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	model := cmp.Or(cfg.Model, domain.DefaultEmbeddingModels()[domain.AIProviderOpenAI])
	return &EmbeddingService{
		api: httpjson.New("openai",
			cmp.Or(cfg.BaseURL, DefaultBaseURL),
			cmp.Or(cfg.Timeout, DefaultTimeout),
			http.Header{"Authorization": {"Bearer " + cfg.APIKey}}),
		model:          model,
		dimensions:     cmp.Or(cfg.Dimensions, domain.EmbeddingDimensions()[model], fallbackDimensions),
		sendDimensions: strings.HasPrefix(model, "text-embedding-3"),
		maxInputs:      MaxInputs,
	}, nil
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed embeds a search question.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds post chunks, at most MaxInputs per request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.maxInputs {
		vecs, err := s.embed(ctx, texts[start:min(start+s.maxInputs, len(texts))])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// embed sends one request. The API may return items in any order, so each
// is placed by its index.
func (s *EmbeddingService) embed(ctx context.Context, texts []string) ([][]float32, error) {
	req := embeddingRequest{Model: s.model, Input: texts}
	if s.sendDimensions {
		req.Dimensions = s.dimensions
	}

	var resp embeddingResponse
	if err := s.api.Post(ctx, "/embeddings", req, &resp); err != nil {
		return nil, err
	}

	vecs := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("openai: embedding index %d out of range for %d inputs", item.Index, len(texts))
		}
		vecs[item.Index] = item.Embedding
	}
	for i, vec := range vecs {
		if len(vec) == 0 {
			return nil, fmt.Errorf("openai: no embedding returned for input %d", i)
		}
	}
	return vecs, nil
}

// Dimensions returns the vector size for the model.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without spending tokens.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/models")
}

// Close releases idle connections.
func (s *EmbeddingService) Close() error {
	return s.api.Close()
}
