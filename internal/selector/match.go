package selector

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Decides whether a path is excluded from a report.
type Matcher interface {
	Match(path string) bool
}

type MatchMode int

const (
	SubstringMode MatchMode = iota
	GlobMode
	RegexMode
)

var ErrUnknownMatchMode = errors.New("unknown exclude mode")

func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring":
		return SubstringMode, nil
	case "glob":
		return GlobMode, nil
	case "regex", "regexp":
		return RegexMode, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMatchMode, s)
	}
}

func (m MatchMode) String() string {
	switch m {
	case SubstringMode:
		return "substring"
	case GlobMode:
		return "glob"
	case RegexMode:
		return "regex"
	default:
		panic("unrecognized match mode in switch")
	}
}

// Matches if any pattern occurs anywhere in the path string.
type Substring []string

func (s Substring) Match(path string) bool {
	for _, pattern := range s {
		if strings.Contains(path, pattern) {
			return true
		}
	}

	return false
}

// Matches doublestar glob patterns ("src/**/*_test.go").
//
// A pattern matches if it matches the whole slash-separated path or any
// suffix of it starting after a "/", so "*.pb.go" excludes generated files at
// any depth and "vendor/**" excludes every vendor directory.
type Glob []string

func (g Glob) Match(path string) bool {
	p := filepath.ToSlash(path)

	for {
		for _, pattern := range g {
			if ok, _ := doublestar.Match(pattern, p); ok {
				return true
			}
		}

		_, rest, found := strings.Cut(p, "/")
		if !found {
			return false
		}
		p = rest
	}
}

// Matches if any regular expression matches somewhere in the path.
type Regex []*regexp.Regexp

func (r Regex) Match(path string) bool {
	for _, re := range r {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Builds the matcher for the given mode. Returns nil if there are no
// patterns.
func NewMatcher(mode MatchMode, patterns []string) (Matcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	switch mode {
	case SubstringMode:
		return Substring(patterns), nil
	case GlobMode:
		for _, pattern := range patterns {
			if !doublestar.ValidatePattern(pattern) {
				return nil, fmt.Errorf("invalid glob pattern %q", pattern)
			}
		}
		return Glob(patterns), nil
	case RegexMode:
		regexes := make(Regex, 0, len(patterns))
		for _, pattern := range patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid exclude regex: %w", err)
			}
			regexes = append(regexes, re)
		}
		return regexes, nil
	default:
		panic("unrecognized match mode in switch")
	}
}
