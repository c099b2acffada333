// Package gemini provides the generation capability behind the chat
// endpoint.
package gemini

import "context"

// Generator abstracts the hosted model. The service treats it as an opaque
// text-to-text function with a single failure point.
type Generator interface {
	// Generate sends the assembled prompt and returns the model's reply text.
	Generate(ctx context.Context, prompt string) (string, error)
}
