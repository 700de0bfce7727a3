// Package llm defines the provider-agnostic contract for chat completion
// backends.
package llm

import "context"

// Message is a chat message in a provider-agnostic format.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Usage carries the token accounting reported by the backend for one call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Result is the outcome of a completion call: the full response text and
// the backend's token usage.
type Result struct {
	Content string
	Usage   Usage
}

// Option sets optional completion parameters.
type Option func(*Options)

type Options struct {
	Temperature *float64
	MaxTokens   int
	Model       string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// DeltaFunc receives incremental response text during a streamed call.
// Returning an error aborts the stream.
type DeltaFunc func(delta string) error

// Provider is the contract for any completion backend.
type Provider interface {
	// Chat sends a message history to the model and returns the full
	// response.
	Chat(ctx context.Context, history []Message, options ...Option) (*Result, error)

	// ChatStream sends a message history and forwards response deltas to
	// onDelta as they arrive. The returned Result carries the complete
	// accumulated text and usage.
	ChatStream(ctx context.Context, history []Message, onDelta DeltaFunc, options ...Option) (*Result, error)
}
