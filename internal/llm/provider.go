// Package llm provides the text-generation provider memegate decorates.
package llm

import "context"

// Provider produces reply text for an inbound user message.
type Provider interface {
	// Name returns the provider instance name (e.g., "openai")
	Name() string

	// Model returns the current model name
	Model() string

	// Complete generates a reply for a single user message.
	Complete(ctx context.Context, userMessage string) (string, error)
}
