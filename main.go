package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sinclairtarget/git-kudos/internal/config"
	"github.com/sinclairtarget/git-kudos/internal/pretty"
	"github.com/sinclairtarget/git-kudos/internal/subcommands"
)

var Commit = "unknown"
var Version = "unknown"

// Main builds the command tree and runs it.
//
// If no subcommand was specified, we print the kudos report for the given
// paths.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// Settings shared by every command, filled in before any command runs.
type globals struct {
	configPath string
	verbose    bool
	noColor    bool

	cfg *config.Config
}

// -v- Command definitions -----------------------------------------------------

func rootCmd() *cobra.Command {
	g := &globals{}
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "git-kudos [options...] [paths...]",
		Short: "git-kudos counts the lines each author owns",
		Long: strings.TrimSpace(`
git-kudos counts the lines each author owns in the given files and
directories, according to git blame. With no paths it reports on the current
directory.

Exclude patterns match by substring by default, so "-x test" drops every path
containing "test". Use --exclude-mode=glob for "**" glob patterns or
--exclude-mode=regex for regular expressions.
		`),
		Example: strings.Join([]string{
			"  git-kudos                              Kudos for current path",
			"  git-kudos include/menu/ file.txt       Kudos for specified files and folders",
			"  git-kudos -e .h -e .cpp src/           Kudos for C/C++ files in src/",
			"  git-kudos -x test/                     Exclude paths containing \"test/\"",
			"  git-kudos --exclude-mode=glob -x '**/*_test.go'",
			"  git-kudos -d -f json                   Detailed kudos as JSON",
		}, "\n"),
		Version:       fmt.Sprintf("%s %s", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.kudosOptions(cmd.Flags(), g.cfg)
			if err != nil {
				return err
			}
			opts.ShowProgress = !g.verbose

			return subcommands.Kudos(cmd.Context(), os.Stdout, args, opts)
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.StringVar(
		&g.configPath,
		"config",
		"",
		"Config file (default: .git-kudos.yaml in the working directory or $HOME)",
	)
	persistent.BoolVarP(&g.verbose, "verbose", "v", false, "Enables debug logging")
	persistent.BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	flags.register(cmd.Flags())

	cmd.AddCommand(authorsCmd())
	cmd.AddCommand(dumpCmd(g))
	cmd.AddCommand(parseCmd(g))

	return cmd
}

func authorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authors [paths...]",
		Short: "List authors and the names they have committed under",
		RunE: func(cmd *cobra.Command, args []string) error {
			return subcommands.Authors(cmd.Context(), os.Stdout, args)
		},
	}
}

func dumpCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:    "dump <file>",
		Short:  "Print the raw git blame output for a file",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxBytes, err := g.cfg.MaxBlameBytesValue()
			if err != nil {
				return err
			}

			return subcommands.Dump(cmd.Context(), os.Stdout, args[0], maxBytes)
		},
	}
}

func parseCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:    "parse <file>",
		Short:  "Print the author each line of a file counts toward",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxBytes, err := g.cfg.MaxBlameBytesValue()
			if err != nil {
				return err
			}

			return subcommands.Parse(cmd.Context(), os.Stdout, args[0], maxBytes)
		},
	}
}

// -^---------------------------------------------------------------------------

func (g *globals) load() error {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	if g.verbose {
		level = slog.LevelDebug
	}
	configureLogging(level)
	logger().Debug("log level set", "level", level)

	colorMode := strings.ToLower(cfg.Color)
	if g.noColor {
		colorMode = "never"
	}
	configureColor(colorMode)

	return nil
}

func configureLogging(level slog.Level) {
	handler := slog.NewTextHandler(
		os.Stderr,
		&slog.HandlerOptions{
			Level: level,
		},
	)
	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// "auto" keeps color's own check of stdout and NO_COLOR.
func configureColor(mode string) {
	switch mode {
	case "", "auto":
		pretty.SetColorEnabled(pretty.AllowDynamic(os.Stderr))
	case "always":
		color.NoColor = false
		pretty.SetColorEnabled(true)
	case "never":
		color.NoColor = true
		pretty.SetColorEnabled(false)
	default:
		panic("unrecognized color mode in switch")
	}
}
