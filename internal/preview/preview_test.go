package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls   atomic.Int32
	body    string
	partial string
	err     error
	release chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, req domain.StackRequest) (*domain.ScriptArtifact, error) {
	g.calls.Add(1)
	if g.release != nil {
		<-g.release
	}
	if g.err != nil {
		if g.partial != "" {
			return &domain.ScriptArtifact{Body: g.partial, OS: req.OS}, g.err
		}
		return nil, g.err
	}
	return &domain.ScriptArtifact{Body: g.body, OS: req.OS}, nil
}

func request(stack string, os domain.OS) domain.StackRequest {
	return domain.StackRequest{Input: domain.FreeText(stack), OS: os}
}

func TestControllerLoadReady(t *testing.T) {
	g := &fakeGenerator{body: "winget install GoLang.Go\r\n"}
	c := NewController(g, request("Go", domain.OSWindows))

	assert.Equal(t, Idle, c.Snapshot().State)
	_, err := c.Copy()
	assert.ErrorIs(t, err, ErrNotReady)

	snap := c.load(context.Background())
	assert.Equal(t, Ready, snap.State)
	assert.Equal(t, "winget install GoLang.Go\r\n", snap.Body)
	assert.Equal(t, "install.ps1", snap.Filename)

	text, err := c.Copy()
	require.NoError(t, err)
	assert.Equal(t, snap.Body, text)

	art, err := c.Download()
	require.NoError(t, err)
	assert.Equal(t, "install.ps1", art.Filename())
	assert.Equal(t, []byte(snap.Body), []byte(art.Body))
}

func TestControllerLoadsOnce(t *testing.T) {
	g := &fakeGenerator{body: "echo hi", release: make(chan struct{})}
	c := NewController(g, request("Go", domain.OSLinux))

	var wg sync.WaitGroup
	snaps := make([]Snapshot, 4)
	for i := range snaps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snaps[i] = c.load(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return c.Snapshot().State == Loading }, time.Second, time.Millisecond)
	close(g.release)
	wg.Wait()

	for _, s := range snaps {
		assert.Equal(t, Ready, s.State)
	}
	c.load(context.Background())
	assert.EqualValues(t, 1, g.calls.Load())
}

func TestControllerFailureKeepsPartialBody(t *testing.T) {
	g := &fakeGenerator{partial: "#!/bin/bash\napt-get", err: fmt.Errorf("%w: stream interrupted", domain.ErrUpstream)}
	c := NewController(g, request("Go", domain.OSLinux))

	snap := c.load(context.Background())
	assert.Equal(t, Failed, snap.State)
	assert.Equal(t, "#!/bin/bash\napt-get", snap.Body)
	assert.Equal(t, "stream interrupted", snap.Error, "upstream message is shown verbatim")

	_, err := c.Download()
	assert.ErrorIs(t, err, ErrNotReady)

	c.load(context.Background())
	assert.EqualValues(t, 1, g.calls.Load(), "a failed attempt is not retried")
}

func TestControllerLoadHonoursContext(t *testing.T) {
	g := &fakeGenerator{body: "x", release: make(chan struct{})}
	c := NewController(g, request("Go", domain.OSLinux))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	snap := c.load(ctx)
	assert.Equal(t, Loading, snap.State)

	close(g.release)
	snap = c.load(context.Background())
	assert.Equal(t, Ready, snap.State)
}

func TestRegistryReusesAndReplaces(t *testing.T) {
	g := &fakeGenerator{body: "echo ok"}
	r, err := NewRegistry(g, 4)
	require.NoError(t, err)
	ctx := context.Background()

	first := r.Open("s1", request("Go", domain.OSLinux)).load(ctx)
	assert.Equal(t, Ready, first.State)
	r.Open("s1", request("Go", domain.OSLinux)).load(ctx)
	assert.EqualValues(t, 1, g.calls.Load())

	r.Open("s1", request("Go", domain.OSMacOS)).load(ctx)
	assert.EqualValues(t, 2, g.calls.Load())
	c, ok := r.Current("s1")
	require.True(t, ok)
	assert.Equal(t, Key{Stack: "Go", OS: domain.OSMacOS}, c.Key())

	r.Open("s2", request("Go", domain.OSLinux)).load(ctx)
	assert.EqualValues(t, 3, g.calls.Load(), "sessions do not share controllers")

	r.Discard("s1")
	_, ok = r.Current("s1")
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "error", Failed.String())
}

func TestControllerErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid stack", domain.ErrInvalidStack, domain.MsgInvalidStack},
		{
			"oracle down while validating",
			fmt.Errorf("%w: %w", domain.ErrInvalidStack, fmt.Errorf("%w: connection refused", domain.ErrUpstream)),
			domain.MsgInvalidStack,
		},
		{"synthesis failure", fmt.Errorf("%w: quota exceeded", domain.ErrUpstream), "quota exceeded"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(&fakeGenerator{err: tt.err}, request("Go", domain.OSLinux))
			snap := c.load(context.Background())
			assert.Equal(t, Failed, snap.State)
			assert.Equal(t, tt.want, snap.Error)
		})
	}
}

func TestRegistryRetriesFailedController(t *testing.T) {
	g := &fakeGenerator{err: fmt.Errorf("%w: unavailable", domain.ErrUpstream)}
	r, err := NewRegistry(g, 4)
	require.NoError(t, err)
	ctx := context.Background()

	snap := r.Open("s1", request("Go", domain.OSLinux)).load(ctx)
	assert.Equal(t, Failed, snap.State)

	g.err = nil
	g.body = "echo ok"
	snap = r.Open("s1", request("Go", domain.OSLinux)).load(ctx)
	assert.Equal(t, Ready, snap.State)
	assert.Equal(t, "echo ok", snap.Body)
	assert.EqualValues(t, 2, g.calls.Load())

	r.Open("s1", request("Go", domain.OSLinux)).load(ctx)
	assert.EqualValues(t, 2, g.calls.Load(), "a ready controller is reused")
}

func TestRegistryFollowKeepsFailedController(t *testing.T) {
	g := &fakeGenerator{err: fmt.Errorf("%w: unavailable", domain.ErrUpstream)}
	r, err := NewRegistry(g, 4)
	require.NoError(t, err)
	ctx := context.Background()

	failed := r.Follow("s1", request("Go", domain.OSLinux))
	failed.load(ctx)

	g.err = nil
	again := r.Follow("s1", request("Go", domain.OSLinux))
	assert.Same(t, failed, again)
	assert.Equal(t, Failed, again.load(ctx).State)
	assert.EqualValues(t, 1, g.calls.Load())

	other := r.Follow("s1", request("Rust", domain.OSLinux))
	assert.NotSame(t, failed, other)
}
