package kudos_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-kudos/internal/identity"
	"github.com/sinclairtarget/git-kudos/internal/kudos"
	"github.com/sinclairtarget/git-kudos/internal/selector"
	"github.com/sinclairtarget/git-kudos/internal/tally"
)

// Serves canned blame output keyed by file name.
type fakeSource struct {
	blames    map[string]string
	records   []string
	userEmail string

	mu      sync.Mutex
	blamed  []string
	block   bool // Blame waits until its context is done
	failing map[string]error
}

func (s *fakeSource) Blame(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	s.blamed = append(s.blamed, filepath.Base(path))
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}

	if err, ok := s.failing[filepath.Base(path)]; ok {
		return "", err
	}

	text, ok := s.blames[filepath.Base(path)]
	if !ok {
		return "", errors.New("no such path in HEAD")
	}
	return text, nil
}

func (s *fakeSource) AuthorRecords(
	ctx context.Context,
	paths []string,
) ([]string, error) {
	return s.records, nil
}

func (s *fakeSource) UserEmail(ctx context.Context) (string, error) {
	return s.userEmail, nil
}

func porcelain(emails ...string) string {
	var b strings.Builder
	for i, email := range emails {
		fmt.Fprintf(&b, "%040x %d %d 1\n", i+1, i+1, i+1)
		fmt.Fprintf(&b, "author Someone\nauthor-mail <%s>\nfilename f\n", email)
		fmt.Fprintf(&b, "\tline %d\n", i+1)
	}
	return b.String()
}

func repeat(email string, n int) []string {
	emails := make([]string, n)
	for i := range emails {
		emails[i] = email
	}
	return emails
}

func makeFiles(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range names {
		err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644)
		require.NoError(t, err)
	}

	return dir
}

func TestBuildReportEndToEnd(t *testing.T) {
	dir := makeFiles(t, "file1.cpp", "file2.cpp")

	src := &fakeSource{
		blames: map[string]string{
			"file1.cpp": porcelain(repeat("X@mail.com", 10)...),
			"file2.cpp": porcelain(append(
				repeat("y@mail.com", 5),
				repeat(" x@MAIL.com ", 5)...,
			)...),
		},
		records: []string{"Xavier <x@mail.com>", "Yolanda <y@mail.com>"},
	}

	report, err := kudos.BuildReport(
		context.Background(),
		src,
		[]string{dir},
		kudos.Options{Workers: 2},
	)
	require.NoError(t, err)

	k := report.Kudos
	require.Equal(t, 20, k.TotalLines())
	require.Equal(t, tally.AggregateScope, k.Scope())
	require.Empty(t, report.Failed)

	expectedAuthors := []tally.AuthorLines{
		{Author: "x@mail.com", Lines: 15},
		{Author: "y@mail.com", Lines: 5},
	}
	if diff := cmp.Diff(expectedAuthors, k.SortedAuthorsByLines()); diff != "" {
		t.Errorf("authors are wrong:\n%s", diff)
	}

	expectedFiles := []tally.FileLines{
		{Path: filepath.Join(dir, "file1.cpp"), Lines: 10},
		{Path: filepath.Join(dir, "file2.cpp"), Lines: 5},
	}
	if diff := cmp.Diff(expectedFiles, k.SortedFilesForAuthor("x@mail.com")); diff != "" {
		t.Errorf("files are wrong:\n%s", diff)
	}

	require.Equal(t, "Xavier", report.Identities.DisplayName("x@mail.com"))
	require.Equal(t, 2, report.Selection.Len())
}

func TestBuildReportFiltersFiles(t *testing.T) {
	dir := makeFiles(t, "a.cpp", "b.h", "c.cpp", "c_test.cpp")

	src := &fakeSource{
		blames: map[string]string{
			"a.cpp":      porcelain("x@mail.com"),
			"b.h":        porcelain("x@mail.com"),
			"c.cpp":      porcelain("x@mail.com"),
			"c_test.cpp": porcelain("x@mail.com"),
		},
	}

	matcher, err := selector.NewMatcher(selector.GlobMode, []string{"*_test.cpp"})
	require.NoError(t, err)

	report, err := kudos.BuildReport(
		context.Background(),
		src,
		[]string{dir},
		kudos.Options{Extensions: []string{".cpp"}, Exclude: matcher},
	)
	require.NoError(t, err)

	require.Equal(t, 2, report.Kudos.TotalLines())
	require.ElementsMatch(t, []string{"a.cpp", "c.cpp"}, src.blamed)
}

func TestBuildReportFailedFileCountsZero(t *testing.T) {
	dir := makeFiles(t, "good.go", "untracked.go", "binary.go")

	src := &fakeSource{
		blames: map[string]string{
			"good.go": porcelain("x@mail.com", "x@mail.com"),
		},
		failing: map[string]error{
			"binary.go": errors.New("exit status 128"),
		},
	}

	report, err := kudos.BuildReport(
		context.Background(),
		src,
		[]string{dir},
		kudos.Options{},
	)
	require.NoError(t, err)

	require.Equal(t, 2, report.Kudos.TotalLines())
	require.Equal(t, 1, report.Kudos.NumAuthors())

	expectedFailed := []string{
		filepath.Join(dir, "binary.go"),
		filepath.Join(dir, "untracked.go"),
	}
	if diff := cmp.Diff(expectedFailed, report.Failed); diff != "" {
		t.Errorf("failed files are wrong:\n%s", diff)
	}
}

func TestBuildReportUncommittedLines(t *testing.T) {
	dir := makeFiles(t, "a.go")

	src := &fakeSource{
		blames: map[string]string{
			"a.go": porcelain(
				"me@mail.com",
				identity.NotCommittedYet,
				identity.NotCommittedYet,
			),
		},
		userEmail: "Me@Mail.com",
	}

	report, err := kudos.BuildReport(
		context.Background(),
		src,
		[]string{dir},
		kudos.Options{},
	)
	require.NoError(t, err)

	require.Equal(t, 3, report.Kudos.AuthorLines("me@mail.com"))
	require.Equal(t, 1, report.Kudos.NumAuthors())
	require.Equal(t, "Me@Mail.com", report.LocalUserEmail)
}

func TestBuildReportMissingRoot(t *testing.T) {
	dir := makeFiles(t, "a.go")

	src := &fakeSource{
		blames: map[string]string{"a.go": porcelain("x@mail.com")},
	}

	report, err := kudos.BuildReport(
		context.Background(),
		src,
		[]string{filepath.Join(dir, "missing"), dir},
		kudos.Options{},
	)
	require.NoError(t, err)
	require.Equal(t, 1, report.Kudos.TotalLines())
}

func TestBuildReportNoFiles(t *testing.T) {
	dir := makeFiles(t)

	report, err := kudos.BuildReport(
		context.Background(),
		&fakeSource{},
		[]string{dir},
		kudos.Options{},
	)
	require.NoError(t, err)

	require.Equal(t, 0, report.Kudos.TotalLines())
	require.Empty(t, report.Kudos.SortedAuthorsByLines())
}

func TestBuildReportBlameTimeout(t *testing.T) {
	dir := makeFiles(t, "slow.go")

	src := &fakeSource{block: true}

	report, err := kudos.BuildReport(
		context.Background(),
		src,
		[]string{dir},
		kudos.Options{BlameTimeout: 10 * time.Millisecond},
	)
	require.NoError(t, err)

	require.Equal(t, 0, report.Kudos.TotalLines())
	require.Equal(t, []string{filepath.Join(dir, "slow.go")}, report.Failed)
}

func TestBuildReportCancelled(t *testing.T) {
	dir := makeFiles(t, "a.go", "b.go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := kudos.BuildReport(ctx, &fakeSource{}, []string{dir}, kudos.Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildReportProgress(t *testing.T) {
	dir := makeFiles(t, "a.go", "b.go", "c.go")

	src := &fakeSource{
		blames: map[string]string{
			"a.go": porcelain("x@mail.com"),
			"b.go": porcelain("x@mail.com"),
			"c.go": porcelain("x@mail.com"),
		},
	}

	var done []int
	_, err := kudos.BuildReport(
		context.Background(),
		src,
		[]string{dir},
		kudos.Options{
			OnProgress: func(n int, total int, path string) {
				require.Equal(t, 3, total)
				done = append(done, n)
			},
		},
	)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, done)
}
