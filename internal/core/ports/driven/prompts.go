package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used by the query orchestrator.
const (
	// PromptSystem restricts the assistant to compensation and career topics.
	// No format placeholders.
	PromptSystem = "system"

	// PromptSchema describes the JSON reply shape.
	// No format placeholders.
	PromptSchema = "schema"

	// PromptExample is one worked question and reply.
	// No format placeholders.
	PromptExample = "example"

	// PromptQuery wraps the retrieved context and the question.
	// Expects PlaceholderContext and PlaceholderQuestion.
	PromptQuery = "query"
)

// Placeholders substituted in the query prompt.
const (
	// PlaceholderContext is replaced by the retrieved chunk texts.
	PlaceholderContext = "{{context}}"

	// PlaceholderQuestion is replaced by the user's question.
	PlaceholderQuestion = "{{question}}"
)
