package subcommands

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Just prints out the output of git blame as seen by git kudos.
func Dump(
	ctx context.Context,
	w io.Writer,
	path string,
	maxBlameBytes int64,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"dump\": %w", err)
		}
	}()

	logger().Debug("called dump()", "path", path)

	start := time.Now()

	client := newClient(ctx, path, maxBlameBytes)

	text, err := client.Blame(ctx, path)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, text)
	if err != nil {
		return err
	}

	elapsed := time.Now().Sub(start)
	logger().Debug("finished dump", "duration_ms", elapsed.Milliseconds())

	return nil
}
