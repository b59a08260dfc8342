package preview

import (
	"fmt"
	"sync"

	"github.com/bcnelson/stackex/internal/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Registry keeps the current controller of each browse session.
type Registry struct {
	gen Generator

	mu    sync.Mutex
	cache *lru.Cache[string, *Controller]
}

// NewRegistry creates a registry remembering at most size sessions.
func NewRegistry(gen Generator, size int) (*Registry, error) {
	cache, err := lru.New[string, *Controller](size)
	if err != nil {
		return nil, fmt.Errorf("creating preview registry: %w", err)
	}
	return &Registry{gen: gen, cache: cache}, nil
}

// Open returns the session's controller for req. A loading or loaded
// controller for the same key is reused; a failed one or a different key is
// replaced, so resubmitting after a failure tries again.
func (r *Registry) Open(sessionID string, req domain.StackRequest) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache.Get(sessionID); ok && c.Key() == KeyOf(req) && c.State() != Failed {
		return c
	}
	c := NewController(r.gen, req)
	r.cache.Add(sessionID, c)
	return c
}

// Follow returns the session's controller for req whatever its state, so a
// page polling a finished attempt sees its result. It opens one when the
// session has none for req.
func (r *Registry) Follow(sessionID string, req domain.StackRequest) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache.Get(sessionID); ok && c.Key() == KeyOf(req) {
		return c
	}
	c := NewController(r.gen, req)
	r.cache.Add(sessionID, c)
	return c
}

// Current returns the session's controller, if any.
func (r *Registry) Current(sessionID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Get(sessionID)
}

// Discard drops the session's controller and its artifact.
func (r *Registry) Discard(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Remove(sessionID)
}
