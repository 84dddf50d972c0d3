package pretty_test

import (
	"strings"
	"testing"

	"github.com/sinclairtarget/git-kudos/internal/pretty"
)

func TestRenderBar(t *testing.T) {
	pretty.SetColorEnabled(false)
	defer pretty.SetColorEnabled(true)

	tests := []struct {
		done     int
		total    int
		expected string
	}{
		{
			0,
			4,
			"Processing [------------------------------] 0/4 files 0.00% a.go",
		},
		{
			1,
			4,
			"Processing [+++++++-----------------------] 1/4 files 25.00% a.go",
		},
		{
			4,
			4,
			"Processing [++++++++++++++++++++++++++++++] 4/4 files 100.00% a.go",
		},
		{
			0,
			0,
			"Processing [------------------------------] 0/0 files 0.00% a.go",
		},
	}

	for _, test := range tests {
		got := pretty.RenderBar(test.done, test.total, "a.go")
		if got != test.expected {
			t.Errorf("expected:\n%q\nbut got:\n%q", test.expected, got)
		}
	}
}

func TestProgressBarDisabled(t *testing.T) {
	var b strings.Builder
	bar := pretty.NewProgressBarTo(&b, false)

	bar.Update(1, 2, "a.go")
	bar.Clear()

	if b.Len() != 0 {
		t.Errorf("disabled bar wrote output: %q", b.String())
	}
}

func TestProgressBarRedraws(t *testing.T) {
	pretty.SetColorEnabled(false)
	defer pretty.SetColorEnabled(true)

	var b strings.Builder
	bar := pretty.NewProgressBarTo(&b, true)

	bar.Update(1, 2, "a.go")
	bar.Update(2, 2, "b.go")
	bar.Clear()
	bar.Clear()

	out := b.String()
	if strings.Count(out, pretty.EraseLine) != 3 {
		t.Errorf("expected 3 erase codes, got output %q", out)
	}

	if !strings.HasSuffix(out, "\r"+pretty.EraseLine) {
		t.Errorf("expected bar to be cleared, got output %q", out)
	}
}
