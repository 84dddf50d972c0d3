// Helpers for tests that need a real Git repository.
package repotest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const (
	UserName  = "Kudos Tester"
	UserEmail = "tester@example.com"
)

type Repo struct {
	t   testing.TB
	Dir string
}

// Creates an empty repository in a temporary directory.
//
// Skips the test if there is no git executable. Global and system git config
// are ignored for the rest of the test so that the user's settings (signing,
// hooks, mailmap) cannot change the results.
func New(t testing.TB) *Repo {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not found")
	}

	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("could not resolve temp dir: %v", err)
	}

	r := &Repo{t: t, Dir: dir}
	r.Git("init", "--quiet")
	r.Git("config", "user.name", UserName)
	r.Git("config", "user.email", UserEmail)
	r.Git("config", "commit.gpgsign", "false")
	return r
}

// Runs git in the repository and returns its trimmed stdout.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}

	return strings.TrimSpace(string(out))
}

// Writes a file relative to the repository root, creating directories.
func (r *Repo) Write(path string, content string) string {
	r.t.Helper()

	p := filepath.Join(r.Dir, path)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		r.t.Fatalf("could not create directory for %s: %v", path, err)
	}

	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		r.t.Fatalf("could not write %s: %v", path, err)
	}

	return p
}

// Writes the given files and commits them as the given author, which has the
// form "Name <email>".
func (r *Repo) Commit(author string, files map[string]string) {
	r.t.Helper()

	for path, content := range files {
		r.Write(path, content)
		r.Git("add", "--", path)
	}

	r.Git("commit", "--quiet", "--author", author, "-m", "commit by "+author)
}

// Returns n numbered lines of text.
func Lines(prefix string, n int) string {
	var b strings.Builder
	for i := range n {
		b.WriteString(prefix)
		b.WriteString(" ")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString("\n")
	}

	return b.String()
}
