package concurrent

import (
	"context"
	"fmt"
)

// Write paths to our work queue to be handled by workers downstream.
func runWriter(ctx context.Context, paths []string, q chan<- string) error {
	logger().Debug("writer started")
	defer logger().Debug("writer exited")

	defer close(q)

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case q <- path:
		}
	}

	return nil
}

// A tally worker that computes the partial result for each path it receives.
func runWorker[T any](
	ctx context.Context,
	id int,
	op Operation[T],
	in <-chan string,
	results chan<- result[T],
) (err error) {
	logger := logger().With("workerId", id)
	logger.Debug("worker started")

	defer func() {
		if err != nil {
			err = fmt.Errorf("error in worker %d: %w", id, err)
		}

		logger.Debug("worker exited")
	}()

	for path := range in {
		value, err := op.TallyFunc(ctx, path)
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case results <- result[T]{path: path, value: value}:
		}
	}

	return nil
}
