// Builds line-ownership reports for a set of paths.
package kudos

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sinclairtarget/git-kudos/internal/concurrent"
	"github.com/sinclairtarget/git-kudos/internal/git"
	"github.com/sinclairtarget/git-kudos/internal/identity"
	"github.com/sinclairtarget/git-kudos/internal/selector"
	"github.com/sinclairtarget/git-kudos/internal/tally"
)

const DefaultBlameTimeout = 30 * time.Second

// Where a report gets its data. git.Client is the real implementation.
type Source interface {
	// Raw blame text for one file.
	Blame(ctx context.Context, path string) (string, error)

	// "Name <email>" records for the authors of the repositories containing
	// paths.
	AuthorRecords(ctx context.Context, paths []string) ([]string, error)

	// Email of the current user, or "".
	UserEmail(ctx context.Context) (string, error)
}

type Options struct {
	Extensions []string
	Exclude    selector.Matcher

	Workers      int           // Zero or less means one per CPU
	BlameTimeout time.Duration // Zero means DefaultBlameTimeout

	// Called after each file is counted. May be nil.
	OnProgress func(done int, total int, path string)
}

func (o Options) blameTimeout() time.Duration {
	if o.BlameTimeout > 0 {
		return o.BlameTimeout
	}

	return DefaultBlameTimeout
}

type Report struct {
	Kudos      *tally.Kudos
	Identities *identity.Registry
	Selection  selector.Selection

	// Files whose blame failed. They count for zero lines.
	Failed []string

	LocalUserEmail string
}

// Counts the lines each author owns across every file under paths.
//
// Problems with individual paths or files are logged and skipped, so the only
// error returned is the context's.
func BuildReport(
	ctx context.Context,
	src Source,
	paths []string,
	opts Options,
) (_ *Report, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error building report: %w", err)
		}
	}()

	start := time.Now()

	selection, err := selector.Select(paths, selector.Options{
		Extensions: opts.Extensions,
		Exclude:    opts.Exclude,
	})
	if err != nil {
		logger().Warn("some paths could not be read", "err", err)
	}

	logger().Debug("selected files", "count", selection.Len())

	records, err := src.AuthorRecords(ctx, paths)
	if err != nil {
		logger().Warn("could not read author history", "err", err)
	}
	registry := identity.Build(slices.Values(records))

	localUserEmail, err := src.UserEmail(ctx)
	if err != nil {
		logger().Warn("could not get local user email", "err", err)
		localUserEmail = ""
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	failed := []string{}

	total, err := concurrent.Tally(ctx, concurrent.Operation[*tally.Kudos]{
		Paths:   selection.Paths(),
		Workers: opts.Workers,
		Empty: func() *tally.Kudos {
			return tally.NewEmpty(tally.Scope{})
		},
		TallyFunc: func(ctx context.Context, path string) (*tally.Kudos, error) {
			k := tally.NewEmpty(tally.PathScope(path))

			text, err := blameWithTimeout(ctx, src, path, opts.blameTimeout())
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}

				logger().Warn("could not blame file", "path", path, "err", err)

				mu.Lock()
				failed = append(failed, path)
				mu.Unlock()

				return k, nil
			}

			k.Accumulate(path, git.ParseBlameText(text), registry, localUserEmail)
			return k, nil
		},
		Merge: func(total, part *tally.Kudos) *tally.Kudos {
			total.Absorb(part)
			return total
		},
		OnResult: opts.OnProgress,
	})
	if err != nil {
		return nil, err
	}

	// A report always covers the aggregate, even for one file
	total.Absorb(tally.NewEmpty(tally.AggregateScope))

	slices.Sort(failed)

	logger().Debug(
		"built report",
		"files",
		selection.Len(),
		"failed",
		len(failed),
		"lines",
		total.TotalLines(),
		"duration_ms",
		time.Since(start).Milliseconds(),
	)

	return &Report{
		Kudos:          total,
		Identities:     registry,
		Selection:      selection,
		Failed:         failed,
		LocalUserEmail: localUserEmail,
	}, nil
}

func blameWithTimeout(
	ctx context.Context,
	src Source,
	path string,
	timeout time.Duration,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return src.Blame(ctx, path)
}
