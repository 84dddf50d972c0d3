package subcommands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sinclairtarget/git-kudos/internal/kudos"
	"github.com/sinclairtarget/git-kudos/internal/pretty"
	"github.com/sinclairtarget/git-kudos/internal/render"
)

type KudosOptions struct {
	Report        kudos.Options
	Render        render.Options
	Format        render.Format
	MaxBlameBytes int64
	ShowProgress  bool // Drawn on stderr, and only if it is a terminal
}

// Prints out the lines each author owns across the given paths.
func Kudos(
	ctx context.Context,
	w io.Writer,
	paths []string,
	opts KudosOptions,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running \"kudos\": %w", err)
		}
	}()

	logger().Debug(
		"called kudos()",
		"paths",
		paths,
		"format",
		opts.Format,
		"detailed",
		opts.Render.Detailed,
		"sort",
		opts.Render.Sort,
		"workers",
		opts.Report.Workers,
		"timeout",
		opts.Report.BlameTimeout,
	)

	start := time.Now()

	if len(paths) == 0 {
		paths = []string{"."}
	}

	client := newClient(ctx, paths[0], opts.MaxBlameBytes)

	reportOpts := opts.Report
	var bar *pretty.ProgressBar
	if opts.ShowProgress {
		bar = pretty.NewProgressBar(os.Stderr)
		reportOpts.OnProgress = bar.Update
	}

	report, err := kudos.BuildReport(ctx, client, paths, reportOpts)
	if bar != nil {
		bar.Clear()
	}
	if err != nil {
		return err
	}

	if len(report.Failed) > 0 {
		logger().Warn(
			"some files could not be blamed and count for zero lines",
			"files",
			len(report.Failed),
		)
	}

	err = render.Write(w, opts.Format, render.Summarize(report, opts.Render))
	if err != nil {
		return err
	}

	elapsed := time.Now().Sub(start)
	logger().Debug("finished kudos", "duration_ms", elapsed.Milliseconds())

	return nil
}
