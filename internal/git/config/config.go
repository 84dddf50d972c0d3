/*
* Handles reading Git configuration.
 */
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sinclairtarget/git-kudos/internal/git/cmd"
)

func repoMailmapPath(gitRootPath string) string {
	path := filepath.Join(gitRootPath, ".mailmap")
	return path
}

// Looks up a value in the git config. Returns "" if the key is not set.
func get(ctx context.Context, dir string, key string, opts ...string) (string, error) {
	subprocess, err := cmd.RunConfigGet(ctx, dir, key, opts...)
	if err != nil {
		return "", err
	}

	v, err := subprocess.StdoutText()
	if err != nil {
		return "", err
	}

	err = subprocess.Wait()
	if err != nil {
		var subprocessErr cmd.SubprocessErr
		if errors.As(err, &subprocessErr) && subprocessErr.ExitCode == 1 {
			logger().Debug(
				"value not present in git config",
				"key",
				key,
			)
			return "", nil
		}

		return "", err
	}

	return v, nil
}

// Looks up a file pointed to by the mailmap.file setting in the git config.
func globalMailmapPath(ctx context.Context, gitRootPath string) (string, error) {
	return get(ctx, gitRootPath, "mailmap.file", "--type=path")
}

// Returns the email of the current git user, or "" if none is configured.
func UserEmail(ctx context.Context, dir string) (_ string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error getting user email: %w", err)
		}
	}()

	return get(ctx, dir, "user.email")
}

// NOTE: We do NOT respect the blame.ignoreRevsFile option in the git config
// here, we just assume the conventional path for this file in the repo.
//
// The option can be specified multiple times which makes it a tad complicated.
func ignoreRevsPath(gitRootPath string) string {
	path := filepath.Join(gitRootPath, ".git-blame-ignore-revs")
	return path
}

// Checks to see whether the files exist on disk or not
func DetectSupplementalFiles(
	ctx context.Context,
	gitRootPath string,
) (_ SupplementalFiles, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf(
				"error while checking for supplemental configuration files: %w",
				err,
			)
		}
	}()

	var files SupplementalFiles

	// Repo-local mailmap
	mailmapPath := repoMailmapPath(gitRootPath)
	_, err = os.Stat(mailmapPath)
	if err == nil {
		files.RepoMailmapPath = mailmapPath
	} else if !errors.Is(err, os.ErrNotExist) {
		return files, err
	}

	// Git config mailmap
	mailmapPath, err = globalMailmapPath(ctx, gitRootPath)
	if err != nil {
		return files, err
	}

	if len(mailmapPath) > 0 {
		_, err = os.Stat(mailmapPath)
		if err == nil {
			files.GlobalMailmapPath = mailmapPath
		} else if !errors.Is(err, os.ErrNotExist) {
			return files, err
		}
	}

	// Repo-local git blame ignore revs file
	ignoreRevsPath := ignoreRevsPath(gitRootPath)
	_, err = os.Stat(ignoreRevsPath)
	if err == nil {
		files.IgnoreRevsPath = ignoreRevsPath
	} else if !errors.Is(err, os.ErrNotExist) {
		return files, err
	}

	logger().Debug(
		"detected supplemental files",
		"mailmap",
		files.HasMailmap(),
		"ignoreRevs",
		files.HasIgnoreRevs(),
	)

	return files, nil
}
