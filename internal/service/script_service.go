package service

import (
	"context"
	"fmt"
	"log"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/generator"
	"github.com/bcnelson/stackex/internal/oracle"
)

// ScriptService turns a stack request into an installation script.
type ScriptService struct {
	validator   *generator.Validator
	synthesizer *generator.Synthesizer
}

// NewScriptService creates a new ScriptService backed by the given oracle.
func NewScriptService(o oracle.Oracle) *ScriptService {
	return &ScriptService{
		validator:   generator.NewValidator(o),
		synthesizer: generator.NewSynthesizer(o),
	}
}

// Generate validates free-text input with the oracle and then synthesizes the
// script. Catalog selections go straight to synthesis.
//
// An oracle failure while validating is reported as ErrInvalidStack; the
// upstream cause stays in the chain so errors.Is(err, domain.ErrUpstream)
// still holds.
func (s *ScriptService) Generate(ctx context.Context, req domain.StackRequest) (*domain.ScriptArtifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stack := req.Input.Describe()

	if req.Input.NeedsValidation() {
		verdict, err := s.validator.Validate(ctx, stack)
		if err != nil {
			log.Printf("Stack validation could not reach the oracle: %v", err)
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidStack, err)
		}
		if verdict == generator.Invalid {
			return nil, domain.ErrInvalidStack
		}
	}

	artifact, err := s.synthesizer.Synthesize(ctx, stack, req.OS)
	if err != nil {
		return nil, err
	}
	log.Printf("Generated %s script (%d bytes) for %q", req.OS.Dialect(), len(artifact.Body), stack)
	return artifact, nil
}
