package main

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-kudos/internal/config"
	"github.com/sinclairtarget/git-kudos/internal/render"
)

func baseConfig() config.Config {
	return config.Config{
		Extensions:    []string{".go"},
		ExcludeMode:   "substring",
		Workers:       2,
		BlameTimeout:  time.Minute,
		MaxBlameBytes: "1MiB",
		Format:        "text",
		Sort:          "lines",
		Color:         "auto",
		LogLevel:      "info",
	}
}

func parse(t *testing.T, args ...string) (*reportFlags, *pflag.FlagSet) {
	t.Helper()

	f := &reportFlags{}
	set := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(set)
	require.NoError(t, set.Parse(args))

	return f, set
}

func TestApplyOnlyChangedFlags(t *testing.T) {
	f, set := parse(t)

	cfg, err := f.apply(set, baseConfig())
	require.NoError(t, err)

	if diff := cmp.Diff(baseConfig(), cfg); diff != "" {
		t.Errorf("unset flags changed config:\n%s", diff)
	}
}

func TestApplyOverrides(t *testing.T) {
	f, set := parse(
		t,
		"-d",
		"-x", "vendor/**",
		"-x", "*_test.go",
		"-e", ".cpp,.h",
		"--exclude-mode=glob",
		"-j", "8",
		"--timeout", "5s",
		"-f", "json",
		"--sort", "name",
	)

	cfg, err := f.apply(set, baseConfig())
	require.NoError(t, err)

	expected := baseConfig()
	expected.Detailed = true
	expected.Exclude = []string{"vendor/**", "*_test.go"}
	expected.Extensions = []string{".cpp", ".h"}
	expected.ExcludeMode = "glob"
	expected.Workers = 8
	expected.BlameTimeout = 5 * time.Second
	expected.Format = "json"
	expected.Sort = "name"

	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("config is wrong:\n%s", diff)
	}
}

func TestApplyInvalid(t *testing.T) {
	f, set := parse(t, "-f", "xml")

	_, err := f.apply(set, baseConfig())
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestKudosOptions(t *testing.T) {
	f, set := parse(t, "-e", "cpp", "-x", "test", "-f", "csv", "-d")
	base := baseConfig()

	opts, err := f.kudosOptions(set, &base)
	require.NoError(t, err)

	require.Equal(t, []string{".cpp"}, opts.Report.Extensions)
	require.NotNil(t, opts.Report.Exclude)
	require.True(t, opts.Report.Exclude.Match("src/test/a.cpp"))
	require.Equal(t, 2, opts.Report.Workers)
	require.Equal(t, time.Minute, opts.Report.BlameTimeout)
	require.Equal(t, render.CSV, opts.Format)
	require.True(t, opts.Render.Detailed)
	require.Equal(t, int64(1<<20), opts.MaxBlameBytes)
}

func TestNormalizeExtensions(t *testing.T) {
	got := normalizeExtensions([]string{"go", ".cpp", " h ", ""})
	require.Equal(t, []string{".go", ".cpp", ".h"}, got)
}
