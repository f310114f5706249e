package interfaces

import "context"

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// GenerationService defines the interface for chat-completion operations
// against the generation provider. Temperature and max tokens are
// pass-through configuration owned by the implementation.
type GenerationService interface {
	// Chat generates a completion response based on the conversation
	// history. The messages slice should contain the full context in
	// chronological order, including the system prompt.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the provider is operational and can handle
	// requests.
	HealthCheck(ctx context.Context) error

	// ModelName returns the configured generation model.
	ModelName() string

	// Close releases resources and performs cleanup operations.
	Close() error
}
