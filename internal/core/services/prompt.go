package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// Chat roles used in composed prompts.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// contextSeparator joins retrieved chunk texts in the context block.
const contextSeparator = "\n\n"

// PromptBuilder composes the two-message prompt sent to the model.
type PromptBuilder struct {
	store driven.PromptStore
}

// NewPromptBuilder creates a builder reading templates from store.
func NewPromptBuilder(store driven.PromptStore) *PromptBuilder {
	return &PromptBuilder{store: store}
}

// Build returns the system message (instructions, output schema and worked
// example) followed by the user message carrying context and question.
func (b *PromptBuilder) Build(query string, retrieved []domain.RetrievedChunk) ([]driven.ChatMessage, error) {
	var sections []string
	for _, name := range []string{driven.PromptSystem, driven.PromptSchema, driven.PromptExample} {
		text, err := b.store.Load(name)
		if err != nil {
			return nil, fmt.Errorf("load prompt %q: %w", name, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			sections = append(sections, text)
		}
	}

	tmpl, err := b.store.Load(driven.PromptQuery)
	if err != nil {
		return nil, fmt.Errorf("load prompt %q: %w", driven.PromptQuery, err)
	}
	if !strings.Contains(tmpl, driven.PlaceholderContext) || !strings.Contains(tmpl, driven.PlaceholderQuestion) {
		return nil, fmt.Errorf("prompt %q must contain %s and %s: %w",
			driven.PromptQuery, driven.PlaceholderContext, driven.PlaceholderQuestion, domain.ErrInvalidInput)
	}

	// Single pass, so placeholder text inside the question is left alone.
	user := strings.NewReplacer(
		driven.PlaceholderContext, joinContext(retrieved),
		driven.PlaceholderQuestion, query,
	).Replace(tmpl)

	return []driven.ChatMessage{
		{Role: RoleSystem, Content: strings.Join(sections, "\n\n")},
		{Role: RoleUser, Content: user},
	}, nil
}

func joinContext(retrieved []domain.RetrievedChunk) string {
	texts := make([]string, len(retrieved))
	for i := range retrieved {
		texts[i] = retrieved[i].Chunk.Text
	}
	return strings.Join(texts, contextSeparator)
}
