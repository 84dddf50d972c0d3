// Writes reports out in the supported output formats.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sinclairtarget/git-kudos/internal/format"
	"github.com/sinclairtarget/git-kudos/internal/kudos"
)

type SortOrder int

const (
	ByLines SortOrder = iota
	ByName
)

var ErrUnknownSortOrder = errors.New("unknown sort order")

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lines":
		return ByLines, nil
	case "name":
		return ByName, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
	}
}

func (o SortOrder) String() string {
	switch o {
	case ByLines:
		return "lines"
	case ByName:
		return "name"
	default:
		panic("unrecognized sort order in switch")
	}
}

type FileRow struct {
	Path  string `json:"path" yaml:"path"`
	Lines int    `json:"lines" yaml:"lines"`
}

type AuthorRow struct {
	Email   string    `json:"email" yaml:"email"`
	Name    string    `json:"name" yaml:"name"`
	Aliases []string  `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Lines   int       `json:"lines" yaml:"lines"`
	Share   float64   `json:"share" yaml:"share"` // Percent of all lines
	Files   []FileRow `json:"files,omitempty" yaml:"files,omitempty"`
}

// Flattened, ordered view of a report. What every format writes out.
type Summary struct {
	Files   int         `json:"files" yaml:"files"`
	Lines   int         `json:"lines" yaml:"lines"`
	Authors []AuthorRow `json:"authors" yaml:"authors"`
	Failed  []string    `json:"failed,omitempty" yaml:"failed,omitempty"`

	detailed bool
}

type Options struct {
	Detailed bool // Include per-file lines for each author
	Sort     SortOrder
}

func Summarize(report *kudos.Report, opts Options) Summary {
	k := report.Kudos
	ranked := k.SortedAuthorsByLines()

	authors := make([]string, 0, len(ranked))
	for _, a := range ranked {
		authors = append(authors, a.Author)
	}

	switch opts.Sort {
	case ByLines:
	case ByName:
		report.Identities.SortByName(authors)
	default:
		panic("unrecognized sort order in switch")
	}

	rows := make([]AuthorRow, 0, len(authors))
	for _, author := range authors {
		row := AuthorRow{
			Email: author,
			Name:  displayName(report, author),
			Lines: k.AuthorLines(author),
			Share: format.Share(k.AuthorLines(author), k.TotalLines()),
		}

		if id, ok := report.Identities.Lookup(author); ok {
			if aliases := id.Aliases(); len(aliases) > 1 {
				row.Aliases = aliases
			}
		}

		if opts.Detailed {
			for _, f := range k.SortedFilesForAuthor(author) {
				row.Files = append(row.Files, FileRow{Path: f.Path, Lines: f.Lines})
			}
		}

		rows = append(rows, row)
	}

	return Summary{
		Files:    report.Selection.Len(),
		Lines:    k.TotalLines(),
		Authors:  rows,
		Failed:   report.Failed,
		detailed: opts.Detailed,
	}
}

// Authors missing from the history we read (or without a name in it) are
// shown by their email as blame printed it.
func displayName(report *kudos.Report, author string) string {
	if id, ok := report.Identities.Lookup(author); ok && id.DefaultName() != "" {
		return id.DefaultName()
	}

	return report.Kudos.Spelling(author)
}
