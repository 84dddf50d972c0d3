package render

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/sinclairtarget/git-kudos/internal/format"
)

type Format int

const (
	Text Format = iota
	Table
	CSV
	JSON
	YAML
)

var ErrUnknownFormat = errors.New("unknown output format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return Text, nil
	case "table":
		return Table, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case Table:
		return "table"
	case CSV:
		return "csv"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		panic("unrecognized format in switch")
	}
}

func Write(w io.Writer, f Format, s Summary) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error writing %s output: %w", f, err)
		}
	}()

	switch f {
	case Text:
		return writeText(w, s)
	case Table:
		return writeTable(w, s)
	case CSV:
		return writeCsv(w, s)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		panic("unrecognized format in switch")
	}
}

var (
	headerColor = color.New(color.Bold, color.FgYellow, color.Underline)
	nameColor   = color.New(color.Bold, color.FgBlue)
	shareColor  = color.New(color.FgGreen)
	pathColor   = color.New(color.FgCyan)
)

//	Kudos for 2 files 20 lines
//	    Xavier 15 lines (75.00%)
//	        src/a.go 10 lines
func writeText(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(
		w,
		"%s %s\n",
		headerColor.Sprintf("Kudos for %s", format.Count(s.Files, "file")),
		format.Count(s.Lines, "line"),
	)
	if err != nil {
		return err
	}

	for _, a := range s.Authors {
		_, err := fmt.Fprintf(
			w,
			"    %s %s %s\n",
			nameColor.Sprint(a.Name),
			format.Count(a.Lines, "line"),
			shareColor.Sprintf("(%s)", format.Percent(a.Share)),
		)
		if err != nil {
			return err
		}

		for _, f := range a.Files {
			_, err := fmt.Fprintf(
				w,
				"        %s %s\n",
				pathColor.Sprint(f.Path),
				format.Count(f.Lines, "line"),
			)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func writeTable(w io.Writer, s Summary) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"Author", "Email", "Lines", "Share"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for _, a := range s.Authors {
		tbl.AppendRow(table.Row{
			a.Name,
			format.GitEmail(a.Email),
			format.Number(a.Lines),
			format.Percent(a.Share),
		})

		for _, f := range a.Files {
			tbl.AppendRow(table.Row{
				"  " + f.Path,
				"",
				format.Number(f.Lines),
				"",
			})
		}
	}

	tbl.AppendFooter(table.Row{
		format.Count(s.Files, "file"),
		"",
		format.Number(s.Lines),
		"",
	})

	tbl.Render()
	return nil
}

func writeCsv(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)

	if s.detailed {
		cw.Write([]string{"name", "email", "path", "lines"})
		for _, a := range s.Authors {
			for _, f := range a.Files {
				err := cw.Write([]string{
					a.Name,
					a.Email,
					f.Path,
					strconv.Itoa(f.Lines),
				})
				if err != nil {
					return fmt.Errorf("error writing CSV record: %w", err)
				}
			}
		}
	} else {
		cw.Write([]string{"name", "email", "lines", "share"})
		for _, a := range s.Authors {
			err := cw.Write([]string{
				a.Name,
				a.Email,
				strconv.Itoa(a.Lines),
				strconv.FormatFloat(a.Share, 'f', 2, 64),
			})
			if err != nil {
				return fmt.Errorf("error writing CSV record: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error flushing CSV writer: %w", err)
	}

	return nil
}
