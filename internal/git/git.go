/*
* Wraps access to data needed from Git.
*
* We invoke Git directly as a subprocess and parse the output rather than using
* git2go/libgit2.
 */
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sinclairtarget/git-kudos/internal/git/cmd"
	"github.com/sinclairtarget/git-kudos/internal/git/config"
)

// Default cap on the size of git blame output for a single file.
const DefaultMaxBlameBytes int64 = 64 << 20

// Runs git commands on behalf of the report builder.
//
// The zero value is usable: no ignore revs, no mailmap, default size cap,
// current working directory.
type Client struct {
	WorkDir        string // Where to run commands not tied to a path
	IgnoreRevsFile string // Absolute path passed to git blame, if set
	UseMailmap     bool
	MaxBlameBytes  int64
}

// Returns a client for the repository containing path, picking up its
// .mailmap and .git-blame-ignore-revs files.
func NewClient(
	ctx context.Context,
	path string,
	maxBlameBytes int64,
) (_ Client, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error configuring git client: %w", err)
		}
	}()

	client := Client{MaxBlameBytes: maxBlameBytes}

	root, err := GetRoot(ctx, dirOf(path))
	if err != nil {
		return client, err
	}
	client.WorkDir = root

	files, err := config.DetectSupplementalFiles(ctx, root)
	if err != nil {
		return client, err
	}

	client.UseMailmap = files.HasMailmap()
	client.IgnoreRevsFile = files.BlameIgnoreRevsFile()
	return client, nil
}

func (c Client) maxBlameBytes() int64 {
	if c.MaxBlameBytes > 0 {
		return c.MaxBlameBytes
	}

	return DefaultMaxBlameBytes
}

// Returns the raw git blame --line-porcelain output for a committed file.
func (c Client) Blame(ctx context.Context, path string) (_ string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running git blame on %s: %w", path, err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dir, file := filepath.Split(path)
	subprocess, err := cmd.RunBlame(ctx, dir, file, c.IgnoreRevsFile)
	if err != nil {
		return "", err
	}

	text, err := subprocess.StdoutString(c.maxBlameBytes())
	if err != nil {
		// Kill git so that Wait() doesn't block on a full pipe
		cancel()
		subprocess.Wait()
		return "", err
	}

	err = subprocess.Wait()
	if err != nil {
		return "", err
	}

	return text, nil
}

// Returns one "Name <email>" record for each distinct author string in the
// history of every repository containing one of the given paths.
//
// Deduplication is by exact string. Paths outside any repository are skipped;
// their errors are joined into the returned error, which may be non-nil even
// when records were found.
func (c Client) AuthorRecords(
	ctx context.Context,
	paths []string,
) (_ []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error getting author records: %w", err)
		}
	}()

	var errs []error
	roots := []string{}
	seenRoots := map[string]bool{}

	for _, path := range paths {
		root, err := GetRoot(ctx, dirOf(path))
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if !seenRoots[root] {
			seenRoots[root] = true
			roots = append(roots, root)
		}
	}

	records := []string{}
	seen := map[string]bool{}

	for _, root := range roots {
		err := c.logAuthors(ctx, root, func(record string) {
			if !seen[record] {
				seen[record] = true
				records = append(records, record)
			}
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	logger().Debug(
		"collected author records",
		"repos",
		len(roots),
		"records",
		len(records),
	)

	return records, errors.Join(errs...)
}

func (c Client) logAuthors(
	ctx context.Context,
	root string,
	emit func(string),
) error {
	subprocess, err := cmd.RunLogAuthors(ctx, root, c.UseMailmap)
	if err != nil {
		return err
	}

	lines, finish := subprocess.StdoutLines()
	for line := range lines {
		if line != "" {
			emit(line)
		}
	}

	err = finish()
	if err != nil {
		subprocess.Wait()
		return err
	}

	return subprocess.Wait()
}

// Returns the email of the current git user, or "" if none is configured.
func (c Client) UserEmail(ctx context.Context) (string, error) {
	return config.UserEmail(ctx, c.WorkDir)
}

// Returns the absolute path of the top of the working tree containing dir.
func GetRoot(ctx context.Context, dir string) (_ string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("failed to get Git root directory: %w", err)
		}
	}()

	subprocess, err := cmd.RunRevParseTopLevel(ctx, dir)
	if err != nil {
		return "", err
	}

	root, err := subprocess.StdoutText()
	if err != nil {
		subprocess.Wait()
		return "", err
	}

	err = subprocess.Wait()
	if err != nil {
		return "", err
	}

	return filepath.Clean(root), nil
}

// Directory to run git in for a path given on the command line.
func dirOf(path string) string {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return path
	}

	return filepath.Dir(path)
}
