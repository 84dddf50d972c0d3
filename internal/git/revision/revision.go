package revision

import (
	"regexp"
	"strings"
)

var commitHashRegexp *regexp.Regexp

func init() {
	commitHashRegexp = regexp.MustCompile(`^\^?[a-f0-9]+$`)
}

// Returns true if this is a (full-length) Git revision hash, false otherwise.
//
// We also need to handle a hash with "^" in front.
func IsFullHash(s string) bool {
	matched := commitHashRegexp.MatchString(s)
	return matched && (len(s) == 40 || len(s) == 41)
}

// Returns the commit hash at the start of a blame header line, e.g.
//
//	3f2a...c1 12 14 3
//
// The second return value is false if the line is not a header line. Content
// lines in blame output start with a tab, so they never match.
func BlameHeaderHash(line string) (string, bool) {
	hash, rest, found := strings.Cut(line, " ")
	if !found || len(rest) == 0 {
		return "", false
	}

	if !IsFullHash(hash) {
		return "", false
	}

	return strings.TrimPrefix(hash, "^"), true
}
