// Handles summations of blamed lines.
package tally

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/sinclairtarget/git-kudos/internal/git"
)

// What a Kudos record covers: a single path, or several merged together.
//
// The zero Scope means "unspecified" and takes on the scope of whatever it is
// merged with.
type Scope struct {
	Path      string
	Aggregate bool
}

var AggregateScope = Scope{Aggregate: true}

func PathScope(path string) Scope {
	return Scope{Path: path}
}

func (s Scope) IsZero() bool {
	return s == Scope{}
}

func (s Scope) String() string {
	if s.Aggregate {
		return "*"
	}

	return s.Path
}

func mergeScopes(a, b Scope) Scope {
	switch {
	case a == b:
		return a
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	default:
		return AggregateScope
	}
}

// Maps a raw blame email to a canonical author key.
type Resolver interface {
	Resolve(rawEmail string, localUserEmail string) string
}

// Lines owned by each author, in total and per file.
//
// Every counter only changes through Accumulate() and Merge(), which keep the
// totals consistent:
//
//	TotalLines() == sum of AuthorLines(a) over all authors
//	AuthorLines(a) == sum of FileLines(a, f) over all files
type Kudos struct {
	scope           Scope
	totalLines      int
	authorLines     map[string]int
	authorFileLines map[string]map[string]int
	spellings       map[string]string // Raw email per author, see Spelling()
}

func NewEmpty(scope Scope) *Kudos {
	return &Kudos{
		scope:           scope,
		authorLines:     map[string]int{},
		authorFileLines: map[string]map[string]int{},
		spellings:       map[string]string{},
	}
}

// Counts each attributed line of path toward its resolved author.
func (k *Kudos) Accumulate(
	path string,
	attributions iter.Seq[git.Attribution],
	resolver Resolver,
	localUserEmail string,
) {
	for a := range attributions {
		author := resolver.Resolve(a.Email, localUserEmail)
		k.add(author, path, 1)
		k.noteSpelling(author, a.Email)
	}
}

// Keeps the smallest raw spelling of author's email, so the choice does not
// depend on merge order. Emails remapped by the resolver (lines not committed
// yet) are not spellings of the author.
func (k *Kudos) noteSpelling(author string, rawEmail string) {
	raw := strings.TrimSpace(rawEmail)
	if !strings.EqualFold(raw, author) {
		return
	}

	if current, ok := k.spellings[author]; !ok || raw < current {
		k.spellings[author] = raw
	}
}

func (k *Kudos) add(author string, path string, lines int) {
	fileLines, ok := k.authorFileLines[author]
	if !ok {
		fileLines = map[string]int{}
		k.authorFileLines[author] = fileLines
	}

	k.totalLines += lines
	k.authorLines[author] += lines
	fileLines[path] += lines
}

// Returns a new record holding the sum of a and b. Neither input is modified.
//
// Merge is associative and commutative, and a record with the zero Scope and
// no lines is its identity.
func Merge(a, b *Kudos) *Kudos {
	merged := NewEmpty(Scope{})
	merged.Absorb(a)
	merged.Absorb(b)
	return merged
}

// In-place form of Merge: adds other's counters to k. Other is not modified.
//
// Used when folding many partial records into one running total, where
// copying the total for every file would be quadratic.
func (k *Kudos) Absorb(other *Kudos) {
	k.scope = mergeScopes(k.scope, other.scope)

	for author, fileLines := range other.authorFileLines {
		for path, lines := range fileLines {
			k.add(author, path, lines)
		}
	}

	for author, raw := range other.spellings {
		k.noteSpelling(author, raw)
	}
}

func (k *Kudos) Scope() Scope {
	return k.scope
}

func (k *Kudos) TotalLines() int {
	return k.totalLines
}

func (k *Kudos) AuthorLines(author string) int {
	return k.authorLines[author]
}

func (k *Kudos) FileLines(author string, path string) int {
	return k.authorFileLines[author][path]
}

// The author's email as git blame printed it, for showing authors we have no
// name for. Falls back to the canonical key.
func (k *Kudos) Spelling(author string) string {
	if raw, ok := k.spellings[author]; ok {
		return raw
	}

	return author
}

func (k *Kudos) NumAuthors() int {
	return len(k.authorLines)
}

// Iterates over authors in no particular order.
func (k *Kudos) Authors() iter.Seq[string] {
	return maps.Keys(k.authorLines)
}

// Whether both records have the same scope and counters. Used by go-cmp.
func (k *Kudos) Equal(other *Kudos) bool {
	if k == nil || other == nil {
		return k == other
	}

	return k.scope == other.scope &&
		k.totalLines == other.totalLines &&
		maps.Equal(k.authorLines, other.authorLines) &&
		maps.Equal(k.spellings, other.spellings) &&
		maps.EqualFunc(
			k.authorFileLines,
			other.authorFileLines,
			func(a, b map[string]int) bool { return maps.Equal(a, b) },
		)
}

type AuthorLines struct {
	Author string
	Lines  int
}

type FileLines struct {
	Path  string
	Lines int
}

// Authors ranked by lines owned, most first. Ties go to the smaller key.
func (k *Kudos) SortedAuthorsByLines() []AuthorLines {
	ranked := make([]AuthorLines, 0, len(k.authorLines))
	for author, lines := range k.authorLines {
		ranked = append(ranked, AuthorLines{Author: author, Lines: lines})
	}

	slices.SortFunc(ranked, func(a, b AuthorLines) int {
		return cmp.Or(
			cmp.Compare(b.Lines, a.Lines),
			cmp.Compare(a.Author, b.Author),
		)
	})
	return ranked
}

// Files ranked by lines owned by author, most first. Ties go to the smaller
// path.
//
// Panics if the author owns no lines in this record.
func (k *Kudos) SortedFilesForAuthor(author string) []FileLines {
	fileLines, ok := k.authorFileLines[author]
	if !ok {
		panic("SortedFilesForAuthor called with unknown author " + author)
	}

	ranked := make([]FileLines, 0, len(fileLines))
	for path, lines := range fileLines {
		ranked = append(ranked, FileLines{Path: path, Lines: lines})
	}

	slices.SortFunc(ranked, func(a, b FileLines) int {
		return cmp.Or(
			cmp.Compare(b.Lines, a.Lines),
			strings.Compare(a.Path, b.Path),
		)
	})
	return ranked
}
