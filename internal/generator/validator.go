package generator

import (
	"context"
	"strings"

	"github.com/bcnelson/stackex/internal/oracle"
)

// Verdict is the oracle's classification of free-text input.
type Verdict bool

const (
	Valid   Verdict = true
	Invalid Verdict = false
)

func (v Verdict) String() string {
	if v {
		return "valid"
	}
	return "invalid"
}

// Validator classifies free text as a development tech stack.
type Validator struct {
	oracle oracle.Oracle
}

// NewValidator creates a new Validator.
func NewValidator(o oracle.Oracle) *Validator {
	return &Validator{oracle: o}
}

// Validate returns Valid only when the oracle answers exactly YES (ignoring
// case and surrounding whitespace). Any other answer is Invalid. When the
// oracle fails the verdict is Invalid and the upstream error is returned too,
// so callers can tell an outage apart from a rejected input if they need to.
func (v *Validator) Validate(ctx context.Context, stack string) (Verdict, error) {
	answer, err := v.oracle.Complete(ctx, ValidationPrompt(stack))
	if err != nil {
		return Invalid, err
	}
	return ParseVerdict(answer), nil
}

// ParseVerdict interprets a raw oracle answer.
func ParseVerdict(answer string) Verdict {
	return Verdict(strings.EqualFold(strings.TrimSpace(answer), "YES"))
}
