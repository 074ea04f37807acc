// Package worker provides a bounded, order-preserving task pool for the
// independent per-skeleton composition and per-segment fetch tasks.
package worker

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Map runs fn for indices 0..n-1 with at most limit tasks in flight and
// returns the results in input order.
//
// Scheduling contract: min(limit, n) tasks start immediately; as each task
// completes, exactly one unstarted task replaces it. Each task owns the
// output slot at its own index, written exactly once, so result order is
// always input order regardless of completion order.
//
// Failure contract: the first task error fails the whole batch, but
// in-flight sibling tasks are not cancelled; they run to completion and
// their results are discarded with the batch (fail-fast, not fail-cancel).
// Cancelling ctx stops further submissions and surfaces ctx.Err() after
// started tasks drain; fn is responsible for observing ctx itself if it
// blocks internally.
func Map[T any](ctx context.Context, n, limit int, fn func(ctx context.Context, index int) (T, error)) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 1
	}

	results := make([]T, n)

	var group errgroup.Group
	group.SetLimit(limit)

	submitted := n
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			submitted = i
			break
		}
		index := i
		group.Go(func() error {
			value, err := fn(ctx, index)
			if err != nil {
				return fmt.Errorf("task %d: %w", index, err)
			}
			results[index] = value
			return nil
		})
	}

	err := group.Wait()
	if err == nil && submitted < n {
		err = ctx.Err()
	}
	// On error the completed slots still hold their values; slots of failed
	// or unstarted tasks hold zero values. Callers wanting partial results
	// may consume the slice alongside the error.
	return results, err
}
