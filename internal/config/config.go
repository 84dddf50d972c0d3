// Settings read from config files and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sinclairtarget/git-kudos/internal/render"
	"github.com/sinclairtarget/git-kudos/internal/selector"
)

const (
	DefaultBlameTimeout  = 30 * time.Second
	DefaultMaxBlameBytes = "64MiB"
	DefaultColor         = "auto"
	DefaultLogLevel      = "info"
)

var (
	ErrInvalidWorkers       = errors.New("workers must be non-negative")
	ErrInvalidBlameTimeout  = errors.New("blame_timeout must be positive")
	ErrInvalidMaxBlameBytes = errors.New("max_blame_bytes must be a positive size")
	ErrInvalidColor         = errors.New("color must be one of auto, always, never")
	ErrInvalidLogLevel      = errors.New("log_level must be one of debug, info, warn, error")
)

// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Extensions    []string      `mapstructure:"extensions"`
	Exclude       []string      `mapstructure:"exclude"`
	ExcludeMode   string        `mapstructure:"exclude_mode"`
	Workers       int           `mapstructure:"workers"`
	BlameTimeout  time.Duration `mapstructure:"blame_timeout"`
	MaxBlameBytes string        `mapstructure:"max_blame_bytes"` // "64MiB", "500kB"
	Detailed      bool          `mapstructure:"detailed"`
	Format        string        `mapstructure:"format"`
	Sort          string        `mapstructure:"sort"`
	Color         string        `mapstructure:"color"`
	LogLevel      string        `mapstructure:"log_level"`
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return ErrInvalidWorkers
	}

	if c.BlameTimeout <= 0 {
		return ErrInvalidBlameTimeout
	}

	if _, err := c.MaxBlameBytesValue(); err != nil {
		return err
	}

	if _, err := selector.ParseMatchMode(c.ExcludeMode); err != nil {
		return err
	}

	if _, err := render.ParseFormat(c.Format); err != nil {
		return err
	}

	if _, err := render.ParseSortOrder(c.Sort); err != nil {
		return err
	}

	switch strings.ToLower(c.Color) {
	case "", "auto", "always", "never":
	default:
		return ErrInvalidColor
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// An empty log level means DefaultLogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(c.LogLevel))
	if name == "" {
		name = DefaultLogLevel
	}

	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
}

func (c *Config) MaxBlameBytesValue() (int64, error) {
	n, err := humanize.ParseBytes(c.MaxBlameBytes)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMaxBlameBytes, err)
	}

	if n == 0 || n > 1<<62 {
		return 0, ErrInvalidMaxBlameBytes
	}

	return int64(n), nil
}

// Builds the exclusion matcher described by Exclude and ExcludeMode.
func (c *Config) ExcludeMatcher() (selector.Matcher, error) {
	mode, err := selector.ParseMatchMode(c.ExcludeMode)
	if err != nil {
		return nil, err
	}

	return selector.NewMatcher(mode, c.Exclude)
}
