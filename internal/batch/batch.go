// Package batch runs tasks over a slice in consecutive bounded windows,
// with an optional pause between windows to pace API traffic.
package batch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run executes task once per item, at most limit at a time. Items are
// processed in windows: the first limit items run concurrently, the
// window is joined, Run pauses, and the next window starts. No pause
// follows the final window.
//
// Results are positional: results[i] is the outcome of items[i]. The
// first task error aborts the join, cancels the window's siblings via
// the group context, and prevents later windows from starting; Run then
// returns nil results and that error. A limit below 1 is treated as 1.
func Run[T, R any](
	ctx context.Context,
	items []T,
	limit int,
	pause time.Duration,
	task func(ctx context.Context, index int, item T) (R, error),
) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	results := make([]R, len(items))

	for start := 0; start < len(items); start += limit {
		end := min(start+limit, len(items))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				r, err := task(gctx, i, items[i])
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if end < len(items) && pause > 0 {
			timer := time.NewTimer(pause)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return results, nil
}
