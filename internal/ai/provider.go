// Package ai contains the chat providers used to draft quotes from project
// descriptions. Providers return plain assistant text; turning that text
// into a structured quote is the parser's job.
package ai

import (
	"context"
	"time"
)

// Message roles on the provider wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultTimeout bounds one chat round trip.
const DefaultTimeout = 60 * time.Second

// Attachment is a base64-encoded file sent with a user message. Images and
// PDF documents are the supported media types.
type Attachment struct {
	MediaType string
	Data      string
}

// Message is one turn sent to a provider.
type Message struct {
	Role        string
	Text        string
	Attachments []Attachment
}

// Reply is the assistant's answer.
type Reply struct {
	Text  string
	Model string
}

// Provider is a chat-completion backend.
type Provider interface {
	// Send submits the conversation and returns the assistant reply.
	Send(ctx context.Context, messages []Message) (*Reply, error)
	// Model returns the configured model identifier.
	Model() string
	// Available reports whether the provider is configured and usable.
	Available() bool
}

// Config is the common provider configuration.
type Config struct {
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}
