package pretty

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/sinclairtarget/git-kudos/internal/format"
)

const barWidth = 30
const maxPathWidth = 40

func AllowDynamic(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// One-line progress indicator, redrawn in place.
//
//	Processing [+++++++-------] 12/25 files 48.00% src/main.go
type ProgressBar struct {
	w       io.Writer
	enabled bool
	drawn   bool
}

// Returns a progress bar that only draws if f is a terminal.
func NewProgressBar(f *os.File) *ProgressBar {
	return NewProgressBarTo(f, AllowDynamic(f))
}

// Returns a progress bar drawing to w, or doing nothing if enabled is false.
func NewProgressBarTo(w io.Writer, enabled bool) *ProgressBar {
	return &ProgressBar{w: w, enabled: enabled}
}

// Matches the OnProgress signature of kudos.Options.
func (p *ProgressBar) Update(done int, total int, path string) {
	if !p.enabled {
		return
	}

	fmt.Fprintf(p.w, "\r%s%s", EraseLine, RenderBar(done, total, path))
	p.drawn = true
}

// Erases the bar so that regular output can follow.
func (p *ProgressBar) Clear() {
	if !p.drawn {
		return
	}

	fmt.Fprintf(p.w, "\r%s", EraseLine)
	p.drawn = false
}

// The bar line, without the leading erase code.
func RenderBar(done int, total int, path string) string {
	share := format.Share(done, total)
	filled := 0
	if total > 0 {
		filled = min(barWidth, done*barWidth/total)
	}

	var b strings.Builder
	b.WriteString("Processing [")
	b.WriteString(Green())
	b.WriteString(strings.Repeat("+", filled))
	b.WriteString(Red())
	b.WriteString(strings.Repeat("-", barWidth-filled))
	b.WriteString(Reset())
	b.WriteString("] ")
	fmt.Fprintf(
		&b,
		"%s%d/%d files%s %s%s%s %s",
		Cyan(),
		done,
		total,
		Reset(),
		Green(),
		format.Percent(share),
		Reset(),
		format.Abbrev(path, maxPathWidth),
	)

	return b.String()
}
