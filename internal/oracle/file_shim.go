package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/bcnelson/stackex/internal/domain"
)

// ShimRule answers prompts containing a substring.
type ShimRule struct {
	Contains string `json:"contains"`
	Response string `json:"response"`
}

// ShimFile is the on-disk format read by FileShim.
type ShimFile struct {
	Rules   []ShimRule `json:"rules"`
	Default string     `json:"default"`
}

// FileShim is an offline Oracle that answers from a JSON file. The file is
// re-read on every call so responses can be edited while the server runs.
type FileShim struct {
	filePath string
	mu       sync.Mutex
	calls    int
}

// Ensure FileShim implements Oracle.
var _ Oracle = (*FileShim)(nil)

// NewFileShim creates a new file-based shim.
func NewFileShim(filePath string) *FileShim {
	return &FileShim{filePath: filePath}
}

// Complete returns the response of the first matching rule, or the default.
func (f *FileShim) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		return "", fmt.Errorf("%w: reading shim file: %v", domain.ErrUpstream, err)
	}

	var shim ShimFile
	if err := json.Unmarshal(data, &shim); err != nil {
		return "", fmt.Errorf("%w: parsing shim file: %v", domain.ErrUpstream, err)
	}

	answer := shim.Default
	for _, rule := range shim.Rules {
		if rule.Contains != "" && strings.Contains(prompt, rule.Contains) {
			answer = rule.Response
			break
		}
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: no shim response for prompt", domain.ErrUpstream)
	}

	log.Printf("[FileShim] Answered prompt (%d bytes) from %s", len(prompt), f.filePath)
	return answer, nil
}

// Calls returns how many prompts the shim has received.
func (f *FileShim) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
