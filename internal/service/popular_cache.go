package service

import (
	"context"
	"fmt"
	"log"

	"github.com/bcnelson/stackex/internal/generator"
	"github.com/bcnelson/stackex/internal/oracle"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// PopularFetcher fetches the list of popular stacks.
type PopularFetcher interface {
	FetchPopular(ctx context.Context) ([]string, error)
}

// PopularCache remembers the popular stacks per browse session, so the oracle
// is asked at most once per session. Failures are not cached.
type PopularCache struct {
	fetcher PopularFetcher
	cache   *lru.Cache[string, []string]
	group   singleflight.Group
}

// NewPopularCache creates a cache holding at most size sessions.
func NewPopularCache(fetcher PopularFetcher, size int) (*PopularCache, error) {
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, fmt.Errorf("creating popular stacks cache: %w", err)
	}
	return &PopularCache{fetcher: fetcher, cache: cache}, nil
}

// NewPopularCacheFromOracle wires a PopularCache to the oracle's fetcher.
func NewPopularCacheFromOracle(o oracle.Oracle, size int) (*PopularCache, error) {
	return NewPopularCache(generator.NewPopularFetcher(o), size)
}

// Get returns the popular stacks for a session. Concurrent calls for the same
// session share one fetch.
func (c *PopularCache) Get(ctx context.Context, sessionID string) ([]string, error) {
	if stacks, ok := c.cache.Get(sessionID); ok {
		return clone(stacks), nil
	}

	v, err, _ := c.group.Do(sessionID, func() (any, error) {
		if stacks, ok := c.cache.Get(sessionID); ok {
			return stacks, nil
		}
		// Waiting callers share this fetch, so it must not end with the
		// request that started it.
		stacks, err := c.fetcher.FetchPopular(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.cache.Add(sessionID, stacks)
		log.Printf("Cached %d popular stacks for session", len(stacks))
		return stacks, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]string)), nil
}

// Invalidate forgets the cached list of a session.
func (c *PopularCache) Invalidate(sessionID string) {
	c.cache.Remove(sessionID)
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
