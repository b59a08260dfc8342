// Package preview holds the render state of a generated script: one
// controller per (stack, os) pair, loaded at most once.
package preview

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/bcnelson/stackex/internal/domain"
)

// ErrNotReady is returned by actions that need a loaded script.
var ErrNotReady = errors.New("script is not ready")

// State is the lifecycle of a controller.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Generator produces the script shown by a controller.
type Generator interface {
	Generate(ctx context.Context, req domain.StackRequest) (*domain.ScriptArtifact, error)
}

// Key identifies what a controller renders.
type Key struct {
	Stack string
	OS    domain.OS
}

// KeyOf returns the key of a request.
func KeyOf(req domain.StackRequest) Key {
	return Key{Stack: req.Input.Describe(), OS: req.OS}
}

// Snapshot is a read-only view of a controller.
type Snapshot struct {
	State    State
	Stack    string
	OS       domain.OS
	Body     string
	Error    string
	Filename string
}

// Controller drives one generation. Start fires the Idle to Loading
// transition once; later calls wait for that attempt and reuse its result.
type Controller struct {
	gen Generator
	req domain.StackRequest
	key Key

	mu      sync.Mutex
	state   State
	fetched bool
	done    chan struct{}
	body    string
	errText string
}

// NewController creates an idle controller for req.
func NewController(gen Generator, req domain.StackRequest) *Controller {
	return &Controller{gen: gen, req: req, key: KeyOf(req)}
}

// Key returns the key the controller was created for.
func (c *Controller) Key() Key {
	return c.key
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins loading in the background if nothing was fetched yet and
// returns immediately. The generation outlives the request that started it.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.fetched {
		c.mu.Unlock()
		return
	}
	c.fetched = true
	c.state = Loading
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.run(context.WithoutCancel(ctx))
}

// load starts loading if needed and waits until the attempt finishes or ctx
// is done.
func (c *Controller) load(ctx context.Context) Snapshot {
	c.Start(ctx)

	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
	}
	return c.Snapshot()
}

func (c *Controller) run(ctx context.Context) {
	artifact, err := c.gen.Generate(ctx, c.req)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer close(c.done)

	if artifact != nil {
		c.body = artifact.Body
	}
	if err != nil {
		log.Printf("Preview generation failed for %q on %s: %v", c.key.Stack, c.key.OS, err)
		c.state = Failed
		c.errText = errorText(err)
		return
	}
	c.state = Ready
}

// errorText is the message shown for a failed attempt. An invalid stack
// reads the same whether the oracle said no or could not be reached; other
// upstream failures show the oracle's own message.
func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidStack):
		return domain.MsgInvalidStack
	case errors.Is(err, domain.ErrUpstream):
		return domain.UpstreamMessage(err)
	}
	return err.Error()
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:    c.state,
		Stack:    c.key.Stack,
		OS:       c.key.OS,
		Body:     c.body,
		Error:    c.errText,
		Filename: (&domain.ScriptArtifact{OS: c.key.OS}).Filename(),
	}
}

// Copy returns the text to place on the clipboard.
func (c *Controller) Copy() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Ready {
		return "", ErrNotReady
	}
	return c.body, nil
}

// Download returns the artifact to save. The body is byte-identical to the
// generated text.
func (c *Controller) Download() (*domain.ScriptArtifact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Ready {
		return nil, ErrNotReady
	}
	return &domain.ScriptArtifact{Body: c.body, OS: c.key.OS}, nil
}
