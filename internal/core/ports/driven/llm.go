package driven

import "context"

// LLMService answers one grounded compensation prompt per call. There is no
// streaming and no conversation state between calls.
type LLMService interface {
	// Chat sends the messages in order (system, then user) and returns the
	// reply text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName is the model answers are attributed to.
	ModelName() string

	// Ping checks credentials and reachability without generating text.
	Ping(ctx context.Context) error

	// Close releases idle connections.
	Close() error
}

// ChatMessage is one prompt turn. Role is "system", "user" or "assistant".
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions tune a single Chat call.
type ChatOptions struct {
	// MaxTokens caps the reply. 0 leaves the provider default.
	MaxTokens int

	// Temperature is always sent, so 0 asks for repeatable answers.
	Temperature float64

	// JSONReply asks the provider to constrain the reply to a single JSON
	// object, the shape the model-grounded extractor reads. Providers
	// without such a mode ignore it.
	JSONReply bool
}
