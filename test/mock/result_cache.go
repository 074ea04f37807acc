// Package mock provides test doubles for the itinerary engine. These mocks
// are designed for integration testing where we need configurable behavior
// (delays, errors, specific responses).
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/awardroute/itinerary-engine/internal/usecase"
)

// ResultCache is a configurable in-memory implementation of
// usecase.ResultCache. It supports configurable delays and errors for
// testing cache fail-open behavior, and records every call for
// verification.
type ResultCache struct {
	entries  map[string]*usecase.BuildResult
	getErr   error
	setErr   error
	delay    time.Duration
	getCalls int
	setCalls int
	mu       sync.Mutex
}

// NewResultCache creates an empty mock cache. Behavior is configured with
// the builder pattern methods.
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]*usecase.BuildResult),
	}
}

// WithEntry preloads a cached result under the given key.
func (c *ResultCache) WithEntry(key string, result *usecase.BuildResult) *ResultCache {
	c.entries[key] = result
	return c
}

// WithGetError configures Get to return the given error.
func (c *ResultCache) WithGetError(err error) *ResultCache {
	c.getErr = err
	return c
}

// WithSetError configures Set to return the given error.
func (c *ResultCache) WithSetError(err error) *ResultCache {
	c.setErr = err
	return c
}

// WithDelay configures both operations to wait before responding.
func (c *ResultCache) WithDelay(d time.Duration) *ResultCache {
	c.delay = d
	return c
}

// Get implements usecase.ResultCache.
func (c *ResultCache) Get(ctx context.Context, key string) (*usecase.BuildResult, error) {
	c.mu.Lock()
	c.getCalls++
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if c.getErr != nil {
		return nil, c.getErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

// Set implements usecase.ResultCache.
func (c *ResultCache) Set(ctx context.Context, key string, result *usecase.BuildResult) error {
	c.mu.Lock()
	c.setCalls++
	c.mu.Unlock()

	if err := c.wait(ctx); err != nil {
		return err
	}
	if c.setErr != nil {
		return c.setErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}

// GetCalls returns the number of Get invocations.
func (c *ResultCache) GetCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls
}

// SetCalls returns the number of Set invocations.
func (c *ResultCache) SetCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setCalls
}

// Stored returns the entry currently stored under key, nil when absent.
func (c *ResultCache) Stored(key string) *usecase.BuildResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key]
}

func (c *ResultCache) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}

// Ensure ResultCache implements the port at compile time.
var _ usecase.ResultCache = (*ResultCache)(nil)
