// Package oracle talks to the generative text completion service. The rest of
// the application treats it as an opaque function from prompt to text.
package oracle

import (
	"context"
)

// Oracle completes a single-turn prompt.
type Oracle interface {
	// Complete sends prompt and returns the trimmed text of the first
	// candidate. Every failure wraps domain.ErrUpstream.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to the Oracle interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
