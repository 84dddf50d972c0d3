// Picks the files a report covers.
package selector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Name of Git's metadata directory. Any path containing it is skipped.
const gitDirName = ".git"

// A path given to Select() that could not be read.
type RootError struct {
	Path string
	Err  error
}

func (err *RootError) Error() string {
	return fmt.Sprintf("error reading path %s: %v", err.Path, err.Err)
}

func (err *RootError) Unwrap() error {
	return err.Err
}

type Options struct {
	// Only keep files with one of these extensions, including the leading
	// ".". Matching is case-sensitive. Empty means keep everything.
	Extensions []string

	// Drop files this matches. May be nil.
	Exclude Matcher
}

func (o Options) keep(path string) bool {
	if strings.Contains(path, gitDirName) {
		return false
	}

	if len(o.Extensions) > 0 && !slices.Contains(o.Extensions, filepath.Ext(path)) {
		return false
	}

	if o.Exclude != nil && o.excluded(path) {
		return false
	}

	return true
}

// Walking "." gives "test/a.go", but patterns are often written the way a
// shell would show the path ("./test/"), so relative paths are also tried
// with a "./" prefix.
func (o Options) excluded(path string) bool {
	if o.Exclude.Match(path) {
		return true
	}

	if filepath.IsAbs(path) || path == ".." ||
		strings.HasPrefix(path, ".."+string(filepath.Separator)) {
		return false
	}

	return o.Exclude.Match("." + string(filepath.Separator) + path)
}

// Sorted, deduplicated file paths.
type Selection struct {
	paths []string
}

func (s Selection) Paths() []string {
	return slices.Clone(s.paths)
}

func (s Selection) Len() int {
	return len(s.paths)
}

// Expands root paths into the files they contain.
//
// Paths that are not directories are taken as they are. Directories are
// walked recursively, keeping only regular files. Every candidate then goes
// through the filters in opts.
//
// A root that cannot be read does not stop the others. Its error is joined
// into the returned error, which may be non-nil alongside a usable Selection.
func Select(roots []string, opts Options) (Selection, error) {
	var errs []error
	seen := map[string]bool{}
	paths := []string{}

	add := func(path string) {
		path = filepath.Clean(path)
		if seen[path] || !opts.keep(path) {
			return
		}

		seen[path] = true
		paths = append(paths, path)
	}

	for _, root := range roots {
		err := selectRoot(root, add)
		if err != nil {
			logger().Debug("could not read root", "path", root, "err", err)
			errs = append(errs, &RootError{Path: root, Err: err})
		}
	}

	slices.Sort(paths)

	logger().Debug(
		"selected files",
		"roots",
		len(roots),
		"files",
		len(paths),
	)

	return Selection{paths: paths}, errors.Join(errs...)
}

func selectRoot(root string, add func(string)) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		add(root)
		return nil
	}

	// Keep walking past unreadable subdirectories
	var walkErrs []error
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			walkErrs = append(walkErrs, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if d.Name() == gitDirName && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			add(path)
		}

		return nil
	})
	if err != nil {
		walkErrs = append(walkErrs, err)
	}

	return errors.Join(walkErrs...)
}
