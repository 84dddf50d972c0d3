/*
* Handles invoking Git as a subprocess.
 */
package cmd

import (
	"context"
	"fmt"
	"slices"
)

const (
	authorFormat        = "--format=%an <%ae>"
	mailmapAuthorFormat = "--format=%aN <%aE>"
)

// Runs git blame --line-porcelain on a single file.
//
// The file is given relative to dir, which must be inside the working tree.
func RunBlame(
	ctx context.Context,
	dir string,
	file string,
	ignoreRevsFile string,
) (*Subprocess, error) {
	baseArgs := []string{
		"blame",
		"--line-porcelain",
	}

	if ignoreRevsFile != "" {
		baseArgs = append(baseArgs, "--ignore-revs-file", ignoreRevsFile)
	}

	args := slices.Concat(baseArgs, []string{"--", file})

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git blame: %w", err)
	}

	return subprocess, nil
}

// Runs git log printing one "Name <email>" line per commit.
func RunLogAuthors(
	ctx context.Context,
	dir string,
	useMailmap bool,
) (*Subprocess, error) {
	var args []string

	if useMailmap {
		args = []string{
			"log",
			mailmapAuthorFormat,
			"--no-show-signature",
		}
	} else {
		args = []string{
			"log",
			authorFormat,
			"--no-show-signature",
			"--no-mailmap",
		}
	}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git log: %w", err)
	}

	return subprocess, nil
}

// Runs git config --get for key. Options such as "--type=path" go before
// the key.
//
// Git exits with code 1 when the key is not set, which surfaces as a
// SubprocessErr from Wait().
func RunConfigGet(
	ctx context.Context,
	dir string,
	key string,
	opts ...string,
) (*Subprocess, error) {
	args := slices.Concat([]string{"config"}, opts, []string{"--get", key})

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git config: %w", err)
	}

	return subprocess, nil
}

func RunRevParseTopLevel(ctx context.Context, dir string) (*Subprocess, error) {
	var args = []string{"rev-parse", "--show-toplevel"}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git rev-parse: %w", err)
	}

	return subprocess, nil
}
