package batch_test

// Coverage Notes:
// - Window sequencing is asserted through start order: with limit 2, items
//   2 and 3 can only start after both 0 and 1 finished, so the recorded
//   start sequence is deterministic per window regardless of scheduling.
// - Pause timing is asserted as a lower bound only.

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-respin/internal/batch"
)

// ---------------------------------------------------------------------------
// TestRun - results, ordering, and windowing
// ---------------------------------------------------------------------------

func TestRunEmptyItems(t *testing.T) {
	t.Parallel()

	results, err := batch.Run(context.Background(), nil, 3, 0,
		func(context.Context, int, int) (int, error) { return 0, nil })

	if err != nil {
		t.Errorf("Run() unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("results = %v, want nil", results)
	}
}

func TestRunKeepsInputOrder(t *testing.T) {
	t.Parallel()

	items := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	results, err := batch.Run(context.Background(), items, 2, 0,
		func(_ context.Context, i int, item string) (string, error) {
			// Vary completion order inside a window.
			if i%2 == 0 {
				time.Sleep(5 * time.Millisecond)
			}
			return fmt.Sprintf("%d:%s", i, item), nil
		})

	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if len(results) != len(items) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(items))
	}
	for i, item := range items {
		want := fmt.Sprintf("%d:%s", i, item)
		if results[i] != want {
			t.Errorf("results[%d] = %q, want %q", i, results[i], want)
		}
	}
}

func TestRunWindowsAreSequential(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var starts []int

	items := []int{0, 1, 2, 3, 4}
	_, err := batch.Run(context.Background(), items, 2, 0,
		func(_ context.Context, i int, _ int) (int, error) {
			mu.Lock()
			starts = append(starts, i)
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			return i, nil
		})

	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if len(starts) != 5 {
		t.Fatalf("len(starts) = %d, want 5", len(starts))
	}

	windows := [][]int{starts[0:2], starts[2:4], starts[4:5]}
	want := [][]int{{0, 1}, {2, 3}, {4}}
	for w := range windows {
		got := append([]int(nil), windows[w]...)
		sort.Ints(got)
		for k := range got {
			if got[k] != want[w][k] {
				t.Errorf("window %d started items %v, want %v", w, windows[w], want[w])
				break
			}
		}
	}
}

func TestRunLimitBoundsConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 3
	var inFlight, peak atomic.Int32

	items := make([]int, 10)
	_, err := batch.Run(context.Background(), items, limit, 0,
		func(context.Context, int, int) (int, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(3 * time.Millisecond)
			inFlight.Add(-1)
			return 0, nil
		})

	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if p := peak.Load(); p > limit {
		t.Errorf("peak concurrency = %d, want <= %d", p, limit)
	}
}

func TestRunLimitBelowOneTreatedAsOne(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32

	items := make([]int, 4)
	_, err := batch.Run(context.Background(), items, 0, 0,
		func(context.Context, int, int) (int, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			return 0, nil
		})

	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if p := peak.Load(); p != 1 {
		t.Errorf("peak concurrency = %d, want 1", p)
	}
}

// ---------------------------------------------------------------------------
// TestRunPause - pacing between windows
// ---------------------------------------------------------------------------

func TestRunPausesBetweenWindows(t *testing.T) {
	t.Parallel()

	const pause = 30 * time.Millisecond

	items := make([]int, 6)
	start := time.Now()
	_, err := batch.Run(context.Background(), items, 2, pause,
		func(context.Context, int, int) (int, error) { return 0, nil })
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	// Three windows, two pauses.
	if want := 2 * pause; elapsed < want {
		t.Errorf("elapsed = %v, want >= %v", elapsed, want)
	}
}

func TestRunNoPauseAfterFinalWindow(t *testing.T) {
	t.Parallel()

	const pause = 300 * time.Millisecond

	items := make([]int, 2)
	start := time.Now()
	_, err := batch.Run(context.Background(), items, 2, pause,
		func(context.Context, int, int) (int, error) { return 0, nil })
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if elapsed >= pause {
		t.Errorf("elapsed = %v, want < %v (single window must not pause)", elapsed, pause)
	}
}

// ---------------------------------------------------------------------------
// TestRunFailure - error propagation and abort
// ---------------------------------------------------------------------------

func TestRunFirstErrorAbortsLaterWindows(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var called atomic.Int32

	items := []int{0, 1, 2, 3}
	results, err := batch.Run(context.Background(), items, 2, 0,
		func(_ context.Context, i int, _ int) (int, error) {
			called.Add(1)
			if i == 0 {
				return 0, boom
			}
			return i, nil
		})

	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if results != nil {
		t.Errorf("results = %v, want nil on failure", results)
	}
	if n := called.Load(); n > 2 {
		t.Errorf("task called %d times, want <= 2 (second window must not start)", n)
	}
}

func TestRunWindowContextCancelledOnSiblingFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	items := []int{0, 1}
	_, err := batch.Run(context.Background(), items, 2, 0,
		func(ctx context.Context, i int, _ int) (int, error) {
			if i == 0 {
				return 0, boom
			}
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(2 * time.Second):
				return 0, errors.New("sibling was not cancelled")
			}
		})

	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
}

func TestRunCancelledDuringPause(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var called atomic.Int32

	items := make([]int, 4)
	_, err := batch.Run(ctx, items, 2, time.Second,
		func(context.Context, int, int) (int, error) {
			if called.Add(1) == 2 {
				cancel()
			}
			return 0, nil
		})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if n := called.Load(); n > 2 {
		t.Errorf("task called %d times, want <= 2 (cancelled during pause)", n)
	}
}
