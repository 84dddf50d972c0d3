// Speeds up reports on large trees by running git blame in parallel.
package concurrent

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// A tally operation over a set of files that we can divide among workers.
//
// TallyFunc computes a partial result for one file. Merge combines partial
// results; it must be associative and commutative since results are merged in
// whatever order workers finish. Empty returns the identity for Merge.
type Operation[T any] struct {
	Paths     []string
	Workers   int // Zero or less means one per CPU
	Empty     func() T
	TallyFunc func(ctx context.Context, path string) (T, error)
	Merge     func(a, b T) T

	// Called after each file has been merged, from the calling goroutine.
	// May be nil.
	OnResult func(done int, total int, path string)
}

type result[T any] struct {
	path  string
	value T
}

func getNWorkers(nCPU int, nPaths int, requested int) int {
	n := requested
	if n <= 0 {
		n = nCPU
	}

	return max(1, min(n, nPaths))
}

// Runs op.TallyFunc for every path on a bounded pool of workers and merges the
// results.
//
// The calling goroutine is the only one that calls op.Merge, so Merge needs no
// locking. The first error returned by TallyFunc cancels the remaining work.
func Tally[T any](ctx context.Context, op Operation[T]) (_ T, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running concurrent tally: %w", err)
		}
	}()

	start := time.Now()
	total := op.Empty()

	nCPU := runtime.GOMAXPROCS(0)
	logger().Debug("cpus available", "value", nCPU)

	nWorkers := getNWorkers(nCPU, len(op.Paths), op.Workers)
	logger().Debug("decided to use n workers", "value", nWorkers)

	workers, wctx := errgroup.WithContext(ctx)

	q := make(chan string)
	results := make(chan result[T])

	workers.Go(func() error {
		return runWriter(wctx, op.Paths, q)
	})

	for i := range nWorkers {
		workers.Go(func() error {
			return runWorker(wctx, i+1, op, q, results)
		})
	}

	var workersErr error
	go func() {
		workersErr = workers.Wait()
		close(results)
	}()

	done := 0
	for r := range results {
		total = op.Merge(total, r.value)
		done += 1

		if op.OnResult != nil {
			op.OnResult(done, len(op.Paths), r.path)
		}
	}

	// Safe to read, set before results was closed
	if workersErr != nil {
		var empty T
		return empty, workersErr
	}

	if err := ctx.Err(); err != nil {
		var empty T
		return empty, err
	}

	elapsed := time.Now().Sub(start)
	logger().Debug(
		"finished concurrent tally",
		"files",
		done,
		"duration_ms",
		elapsed.Milliseconds(),
	)

	return total, nil
}
