// Package ai routes chat turns to interchangeable LLM backends.
package ai

import "context"

// Message is one prior turn, mapped verbatim by role onto the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a single LLM backend. Implementations own their wire
// contract and normalize the reply into one string.
type Provider interface {
	Chat(ctx context.Context, system string, history []Message, message string) (string, error)
}

const (
	// maxOutputTokens caps the reply length for every backend.
	maxOutputTokens = 1000

	// noResponse is returned when the backend reply carries no usable text.
	noResponse = "No response"
)
