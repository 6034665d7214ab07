// Package governor paces the outgoing requests of a collection run.
//
// The upstream limit is tied to the API key, not to a single player, so
// exactly one Governor instance is shared across the whole roster
// traversal. The request counter spans discovery and detail fetches
// combined and resets only when the process restarts.
package governor

import (
	"context"
	"sync"
	"time"
)

const (
	// Requests allowed between two cool-down pauses.
	defaultBatchSize = 100

	// Length of the batch cool-down and of the throttle backoff.
	defaultCooldown = 120 * time.Second
)

// Governor enforces the batch-pause and throttle-backoff rules.
type Governor struct {
	mu        sync.Mutex
	issued    int
	batchSize int
	cooldown  time.Duration

	// Injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a governor with the default pacing values.
func New() *Governor {
	return &Governor{
		batchSize: defaultBatchSize,
		cooldown:  defaultCooldown,
		sleep:     sleepContext,
	}
}

// Acquire blocks until the next request may be issued.
// After every full batch the governor pauses for the cool-down before
// letting the following request through. The mutex is held while
// sleeping so the pause happens once even with concurrent callers.
func (g *Governor) Acquire(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if g.issued > 0 && g.issued%g.batchSize == 0 {
		if err := g.sleep(ctx, g.cooldown); err != nil {
			return err
		}
	}

	g.issued++
	return nil
}

// Backoff waits out the cool-down after a throttled response.
func (g *Governor) Backoff(ctx context.Context) error {
	return g.sleep(ctx, g.cooldown)
}

// Issued returns how many requests went through so far.
func (g *Governor) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued
}

// Sleep for the given duration, honoring cancellation before, during
// and after the wait so a shutdown never sits out a full cool-down.
func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	return ctx.Err()
}
