package main

import (
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/sinclairtarget/git-kudos/internal/config"
	"github.com/sinclairtarget/git-kudos/internal/kudos"
	"github.com/sinclairtarget/git-kudos/internal/render"
	"github.com/sinclairtarget/git-kudos/internal/subcommands"
)

// Flags of the report command. Each one overrides the matching config value,
// but only if it was given on the command line.
type reportFlags struct {
	detailed    bool
	exclude     []string
	extensions  []string
	excludeMode string
	workers     int
	timeout     time.Duration
	format      string
	sort        string
}

func (f *reportFlags) register(set *pflag.FlagSet) {
	set.BoolVarP(&f.detailed, "detailed", "d", false, "Output detailed list of files")
	set.StringSliceVarP(
		&f.exclude,
		"exclude",
		"x",
		nil,
		"Exclude paths matching these patterns. Can be specified multiple times",
	)
	set.StringSliceVarP(
		&f.extensions,
		"ext",
		"e",
		nil,
		"Only count files with these extensions, e.g. \".go\". Can be specified multiple times",
	)
	set.StringVar(
		&f.excludeMode,
		"exclude-mode",
		"substring",
		"How exclude patterns match: substring, glob or regex",
	)
	set.IntVarP(&f.workers, "workers", "j", 0, "Number of files to blame at once (default: one per CPU)")
	set.DurationVar(
		&f.timeout,
		"timeout",
		config.DefaultBlameTimeout,
		"Give up on blaming a single file after this long",
	)
	set.StringVarP(&f.format, "format", "f", "text", "Output format: text, table, csv, json or yaml")
	set.StringVar(&f.sort, "sort", "lines", "Sort authors by: lines or name")
}

// Applies the flags that were set on top of cfg.
func (f *reportFlags) apply(set *pflag.FlagSet, cfg config.Config) (config.Config, error) {
	if set.Changed("detailed") {
		cfg.Detailed = f.detailed
	}
	if set.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if set.Changed("ext") {
		cfg.Extensions = f.extensions
	}
	if set.Changed("exclude-mode") {
		cfg.ExcludeMode = f.excludeMode
	}
	if set.Changed("workers") {
		cfg.Workers = f.workers
	}
	if set.Changed("timeout") {
		cfg.BlameTimeout = f.timeout
	}
	if set.Changed("format") {
		cfg.Format = f.format
	}
	if set.Changed("sort") {
		cfg.Sort = f.sort
	}

	return cfg, cfg.Validate()
}

func (f *reportFlags) kudosOptions(
	set *pflag.FlagSet,
	base *config.Config,
) (subcommands.KudosOptions, error) {
	cfg, err := f.apply(set, *base)
	if err != nil {
		return subcommands.KudosOptions{}, err
	}

	exclude, err := cfg.ExcludeMatcher()
	if err != nil {
		return subcommands.KudosOptions{}, err
	}

	maxBytes, err := cfg.MaxBlameBytesValue()
	if err != nil {
		return subcommands.KudosOptions{}, err
	}

	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return subcommands.KudosOptions{}, err
	}

	sort, err := render.ParseSortOrder(cfg.Sort)
	if err != nil {
		return subcommands.KudosOptions{}, err
	}

	return subcommands.KudosOptions{
		Report: kudos.Options{
			Extensions:   normalizeExtensions(cfg.Extensions),
			Exclude:      exclude,
			Workers:      cfg.Workers,
			BlameTimeout: cfg.BlameTimeout,
		},
		Render: render.Options{
			Detailed: cfg.Detailed,
			Sort:     sort,
		},
		Format:        format,
		MaxBlameBytes: maxBytes,
	}, nil
}

// Accepts "go" as well as ".go".
func normalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}

	return normalized
}
