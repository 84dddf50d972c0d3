package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-kudos/internal/config"
	"github.com/sinclairtarget/git-kudos/internal/render"
	"github.com/sinclairtarget/git-kudos/internal/selector"
)

func validConfig() config.Config {
	return config.Config{
		Workers:       4,
		BlameTimeout:  time.Second,
		MaxBlameBytes: "1MiB",
		ExcludeMode:   "glob",
		Format:        "json",
		Sort:          "name",
		Color:         "never",
		LogLevel:      "debug",
	}
}

// Runs the test in an empty directory with an empty $HOME, so no real config
// file is picked up.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	return dir
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		modify func(c *config.Config)
		target error
	}{
		{"workers", func(c *config.Config) { c.Workers = -1 }, config.ErrInvalidWorkers},
		{"timeout", func(c *config.Config) { c.BlameTimeout = 0 }, config.ErrInvalidBlameTimeout},
		{"max bytes", func(c *config.Config) { c.MaxBlameBytes = "lots" }, config.ErrInvalidMaxBlameBytes},
		{"zero bytes", func(c *config.Config) { c.MaxBlameBytes = "0" }, config.ErrInvalidMaxBlameBytes},
		{"exclude mode", func(c *config.Config) { c.ExcludeMode = "fuzzy" }, selector.ErrUnknownMatchMode},
		{"format", func(c *config.Config) { c.Format = "xml" }, render.ErrUnknownFormat},
		{"sort", func(c *config.Config) { c.Sort = "date" }, render.ErrUnknownSortOrder},
		{"color", func(c *config.Config) { c.Color = "sometimes" }, config.ErrInvalidColor},
		{"log level", func(c *config.Config) { c.LogLevel = "trace" }, config.ErrInvalidLogLevel},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validConfig()
			test.modify(&cfg)
			require.ErrorIs(t, cfg.Validate(), test.target)
		})
	}
}

func TestMaxBlameBytesValue(t *testing.T) {
	cfg := validConfig()

	n, err := cfg.MaxBlameBytesValue()
	require.NoError(t, err)
	require.Equal(t, int64(1<<20), n)

	cfg.MaxBlameBytes = "500kB"
	n, err = cfg.MaxBlameBytesValue()
	require.NoError(t, err)
	require.Equal(t, int64(500_000), n)
}

func TestExcludeMatcher(t *testing.T) {
	cfg := validConfig()

	matcher, err := cfg.ExcludeMatcher()
	require.NoError(t, err)
	require.Nil(t, matcher)

	cfg.Exclude = []string{"vendor/**"}
	matcher, err = cfg.ExcludeMatcher()
	require.NoError(t, err)
	require.True(t, matcher.Match("src/vendor/lib/a.go"))
	require.False(t, matcher.Match("src/lib/a.go"))
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	require.Empty(t, cfg.Extensions)
	require.Empty(t, cfg.Exclude)
	require.Equal(t, "substring", cfg.ExcludeMode)
	require.Equal(t, 0, cfg.Workers)
	require.Equal(t, config.DefaultBlameTimeout, cfg.BlameTimeout)
	require.Equal(t, "text", cfg.Format)
	require.Equal(t, "lines", cfg.Sort)
	require.Equal(t, "auto", cfg.Color)
	require.False(t, cfg.Detailed)

	n, err := cfg.MaxBlameBytesValue()
	require.NoError(t, err)
	require.Equal(t, int64(64<<20), n)
}

func TestLoadConfigFromWorkingDirectory(t *testing.T) {
	dir := isolate(t)

	content := `
extensions: [".go", ".cpp"]
exclude: ["vendor/**"]
exclude_mode: glob
workers: 2
blame_timeout: 5s
detailed: true
format: table
`
	err := os.WriteFile(filepath.Join(dir, ".git-kudos.yaml"), []byte(content), 0o644)
	require.NoError(t, err)

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, []string{".go", ".cpp"}, cfg.Extensions)
	require.Equal(t, []string{"vendor/**"}, cfg.Exclude)
	require.Equal(t, "glob", cfg.ExcludeMode)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, 5*time.Second, cfg.BlameTimeout)
	require.True(t, cfg.Detailed)
	require.Equal(t, "table", cfg.Format)
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "kudos.yaml")
	err := os.WriteFile(path, []byte("sort: name\n"), 0o644)
	require.NoError(t, err)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "name", cfg.Sort)
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	dir := isolate(t)

	_, err := config.LoadConfig(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigEnv(t *testing.T) {
	isolate(t)
	t.Setenv("GIT_KUDOS_WORKERS", "3")
	t.Setenv("GIT_KUDOS_FORMAT", "csv")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, "csv", cfg.Format)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := isolate(t)

	err := os.WriteFile(
		filepath.Join(dir, ".git-kudos.yaml"),
		[]byte("workers: -2\n"),
		0o644,
	)
	require.NoError(t, err)

	_, err = config.LoadConfig("")
	require.ErrorIs(t, err, config.ErrInvalidWorkers)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":       slog.LevelInfo,
		"debug":  slog.LevelDebug,
		" WARN ": slog.LevelWarn,
		"error":  slog.LevelError,
		"Info":   slog.LevelInfo,
	}

	for name, expected := range tests {
		cfg := validConfig()
		cfg.LogLevel = name
		require.NoError(t, cfg.Validate(), "log level %q", name)

		level, err := cfg.SlogLevel()
		require.NoError(t, err)
		require.Equal(t, expected, level, "log level %q", name)
	}

	cfg := validConfig()
	cfg.LogLevel = "trace"
	_, err := cfg.SlogLevel()
	require.ErrorIs(t, err, config.ErrInvalidLogLevel)
}
