package oracle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bcnelson/stackex/internal/domain"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// Ensure GeminiClient implements Oracle.
var _ Oracle = (*GeminiClient)(nil)

// NewGeminiClient creates a client for the Gemini API. baseURL is optional and
// only needed to point at a proxy or a test server.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

// Name identifies the backend in logs.
func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// Complete sends one generateContent request. There is a single attempt and
// no timeout beyond the caller's context.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	log.Printf("Oracle request (%s): %d bytes", g.Name(), len(prompt))

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUpstream, upstreamMessage(err))
	}
	return firstCandidateText(resp)
}

// firstCandidateText reads candidates[0].content.parts[0].text.
func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", domain.ErrUpstream)
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", fmt.Errorf("%w: empty candidate content", domain.ErrUpstream)
	}
	text := strings.TrimSpace(c.Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate text", domain.ErrUpstream)
	}
	return text, nil
}

// upstreamMessage prefers the API's own error message.
func upstreamMessage(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
