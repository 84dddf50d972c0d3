package git

import (
	"iter"
	"strings"

	"github.com/sinclairtarget/git-kudos/internal/git/revision"
)

const (
	authorMailMarker = "author-mail "
	contentPrefix    = "\t"
)

// The author responsible for one line of a file, as reported by git blame.
type Attribution struct {
	Email string // Raw, not canonicalized
}

// Extracts the email from an "author-mail <foo@bar.com>" line.
func parseAuthorMail(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, authorMailMarker)
	if !ok {
		return "", false
	}

	start := strings.IndexByte(rest, '<')
	if start < 0 {
		return "", false
	}

	end := strings.IndexByte(rest[start+1:], '>')
	if end < 0 {
		return "", false
	}

	return rest[start+1 : start+1+end], true
}

// Turns an iterator over lines from git blame --line-porcelain into an
// iterator of attributions, one per line of the blamed file.
//
// Each content line (prefixed with a tab) is attributed to the most recent
// author-mail line before it. Anything we don't recognize is skipped, so
// truncated or garbled input just yields fewer attributions.
//
// The plain --porcelain format only prints commit metadata the first time a
// commit appears. To handle that too, we remember the email for each commit
// hash and switch back to it when the hash shows up again in a header.
func ParseBlame(lines iter.Seq[string]) iter.Seq[Attribution] {
	return func(yield func(Attribution) bool) {
		var hash string
		var email string
		var haveEmail bool
		emailsByCommit := map[string]string{}

		for line := range lines {
			if strings.HasPrefix(line, contentPrefix) {
				if haveEmail {
					if !yield(Attribution{Email: email}) {
						return
					}
				}
				continue
			}

			if mail, ok := parseAuthorMail(line); ok {
				email = mail
				haveEmail = true
				if hash != "" {
					emailsByCommit[hash] = mail
				}
				continue
			}

			if h, ok := revision.BlameHeaderHash(line); ok {
				hash = h
				if known, ok := emailsByCommit[h]; ok {
					email = known
					haveEmail = true
				}
			}
		}
	}
}

// Like ParseBlame() but over the complete output of git blame.
//
// The returned sequence can be iterated more than once.
func ParseBlameText(text string) iter.Seq[Attribution] {
	return ParseBlame(splitLines(text))
}

func splitLines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(text) {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if !yield(line) {
				return
			}
		}
	}
}
