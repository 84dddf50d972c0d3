package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	rev "github.com/sinclairtarget/git-kudos/internal/git/revision"
)

// Not .gitconfig files, but still configure Git behavior
type SupplementalFiles struct {
	RepoMailmapPath   string
	GlobalMailmapPath string
	IgnoreRevsPath    string
}

func (sf SupplementalFiles) HasMailmap() bool {
	return len(sf.RepoMailmapPath) > 0 || len(sf.GlobalMailmapPath) > 0
}

func (sf SupplementalFiles) HasIgnoreRevs() bool {
	return len(sf.IgnoreRevsPath) > 0
}

// Get git blame ignored revisions
func (sf SupplementalFiles) IgnoreRevs() (_ []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error reading git blame ignore revs: %w", err)
		}
	}()

	var revs []string

	if !sf.HasIgnoreRevs() {
		return revs, nil
	}

	f, err := os.Open(sf.IgnoreRevsPath)
	if err != nil {
		return revs, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Comments starting with "#" are allowed in the ignore revs file
		if rev.IsFullHash(line) {
			revs = append(revs, line)
		}
	}

	err = scanner.Err()
	if err != nil {
		return revs, err
	}

	return revs, nil
}

// Path to hand to git blame --ignore-revs-file, or "" if the file lists no
// revisions.
func (sf SupplementalFiles) BlameIgnoreRevsFile() string {
	revs, err := sf.IgnoreRevs()
	if err != nil {
		logger().Warn("ignoring unreadable ignore revs file", "err", err)
		return ""
	}

	if len(revs) == 0 {
		return ""
	}

	return sf.IgnoreRevsPath
}
