package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/oracle"
)

// PopularFetcher asks the oracle for trending stack names.
type PopularFetcher struct {
	oracle oracle.Oracle
}

// NewPopularFetcher creates a new PopularFetcher.
func NewPopularFetcher(o oracle.Oracle) *PopularFetcher {
	return &PopularFetcher{oracle: o}
}

// FetchPopular returns the stack names in the order the oracle gave them.
func (f *PopularFetcher) FetchPopular(ctx context.Context) ([]string, error) {
	answer, err := f.oracle.Complete(ctx, PopularPrompt)
	if err != nil {
		return nil, err
	}
	return ParsePopular(answer)
}

// ParsePopular strips code fence markers the model may still emit and parses
// the rest as a JSON array of strings.
func ParsePopular(answer string) ([]string, error) {
	cleaned := strings.ReplaceAll(answer, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var raw any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: popular stacks are not valid JSON: %v", domain.ErrFormat, err)
	}
	elems, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: popular stacks are not an array", domain.ErrFormat)
	}

	stacks := make([]string, 0, len(elems))
	for _, e := range elems {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("%w: popular stack %v is not a string", domain.ErrFormat, e)
		}
		stacks = append(stacks, s)
	}
	return stacks, nil
}
