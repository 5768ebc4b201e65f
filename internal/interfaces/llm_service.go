package interfaces

import "context"

// Message represents a single message in a conversation with a language
// model provider.
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// ContentGenerator defines the provider-agnostic content generation
// operation. Implementations wrap a hosted generative-AI API and are treated
// as opaque: prompt and schema in, text out, or an error.
type ContentGenerator interface {
	// GenerateText produces a completion for the given messages. When
	// outputSchema is non-nil the provider is asked for JSON conforming to
	// it; callers still validate the result before trusting it.
	GenerateText(ctx context.Context, messages []Message, systemInstruction string, outputSchema map[string]interface{}) (string, error)

	// Close releases provider clients.
	Close() error
}
