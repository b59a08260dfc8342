package generator

import (
	"context"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/oracle"
)

// Synthesizer turns a validated stack description into a script.
type Synthesizer struct {
	oracle oracle.Oracle
}

// NewSynthesizer creates a new Synthesizer.
func NewSynthesizer(o oracle.Oracle) *Synthesizer {
	return &Synthesizer{oracle: o}
}

// Synthesize returns the oracle's text as the script body. The body is opaque
// data: it is not post-processed, sanitized or executed.
func (s *Synthesizer) Synthesize(ctx context.Context, stack string, os domain.OS) (*domain.ScriptArtifact, error) {
	body, err := s.oracle.Complete(ctx, ScriptPrompt(stack, os))
	if err != nil {
		return nil, err
	}
	return &domain.ScriptArtifact{Body: body, OS: os}, nil
}
