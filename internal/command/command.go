// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package command implements the jfmt command-line tool.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/creachadair/jfmt/ast"
	"github.com/creachadair/jfmt/format"
	"github.com/creachadair/jfmt/internal/config"
	"github.com/creachadair/jfmt/pretty"
	"github.com/creachadair/jfmt/report"
)

// ErrFailed is returned by Run when one or more inputs could not be formatted
// or, in check mode, were not already formatted. The details have already been
// written to the error output.
var ErrFailed = errors.New("one or more inputs failed")

const stdinName = "<stdin>"

// Runner executes the formatting command.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// Options holds the options for the formatting command.
type Options struct {
	Files    []string       // inputs; none means standard input
	Format   format.Options // formatting settings
	Path     []any          // select this sub-value before printing
	MaxBytes int64          // maximum input size

	Check bool // list inputs that are not formatted
	Diff  bool // print diffs rather than formatted text
	Write bool // rewrite files in place
}

// Command returns the root command.
func Command() *cli.Command {
	return &cli.Command{
		Name:      "jfmt",
		Usage:     "Format JSON documents",
		ArgsUsage: "[file ...]",
		Description: `Parse each JSON file (or standard input if none are named) and print it
canonically indented. Object members keep their order; numbers are printed
exactly as written. Invalid input is reported with its line and column.

Settings are read from the file named by --config or $JFMT_CONFIG (YAML or
JSON with comments), and may be overridden by flags.

EXAMPLES:
   jfmt data.json                 Print data.json with two-space indents
   jfmt -i tab < data.json        Format standard input with tabs
   jfmt -l *.json                 List files that are not formatted
   jfmt -d config.json            Show what formatting would change
   jfmt --write config.json       Reformat config.json in place
   jfmt -p items.0 data.json      Print the first element of "items"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "indent",
				Aliases: []string{"i"},
				Value:   "space",
				Usage:   `Indent with "space" or "tab"`,
			},
			&cli.IntFlag{
				Name:    "width",
				Aliases: []string{"w"},
				Value:   pretty.DefaultWidth,
				Usage:   "Spaces per indent level (1 to 8)",
			},
			&cli.BoolFlag{
				Name:  "relaxed",
				Usage: "Accept comments and trailing commas",
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   `Print only the value at this dotted path (e.g. "items.0.name")`,
			},
			&cli.BoolFlag{
				Name:    "check",
				Aliases: []string{"l"},
				Usage:   "List inputs whose formatting differs, and fail if any do",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "Print a unified diff of the changes formatting would make",
			},
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Rewrite files in place",
			},
			&cli.IntFlag{
				Name:  "max-bytes",
				Value: config.DefaultMaxBytes,
				Usage: "Reject inputs larger than this many bytes",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Read settings from this file (default $" + config.EnvVar + ")",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: action,
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	root := cmd.Root()
	stderr := lo.CoalesceOrEmpty[io.Writer](root.ErrWriter, os.Stderr)

	r := &Runner{
		Stdin:  lo.CoalesceOrEmpty[io.Reader](root.Reader, os.Stdin),
		Stdout: lo.CoalesceOrEmpty[io.Writer](root.Writer, os.Stdout),
		Stderr: stderr,
		Logger: NewLogger(stderr, cmd.Bool("debug")),
	}

	cfgPath := config.Path(cmd.String("config"))
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cfgPath != "" {
		level.Debug(r.Logger).Log("msg", "loaded config", "path", cfgPath,
			"indent", cfg.Indent, "width", cfg.Width, "relaxed", cfg.Relaxed)
	}
	if cmd.IsSet("indent") {
		cfg.Indent = cmd.String("indent")
	}
	if cmd.IsSet("width") {
		cfg.Width = int(cmd.Int("width"))
	}
	if cmd.IsSet("relaxed") {
		cfg.Relaxed = cmd.Bool("relaxed")
	}
	if cmd.IsSet("max-bytes") {
		cfg.MaxBytes = int64(cmd.Int("max-bytes"))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fopts, err := cfg.Options()
	if err != nil {
		return err
	}

	opts := Options{
		Files:    cmd.Args().Slice(),
		Format:   fopts,
		Path:     ast.SplitPath(cmd.String("path")),
		MaxBytes: cfg.MaxBytes,
		Check:    cmd.Bool("check"),
		Diff:     cmd.Bool("diff"),
		Write:    cmd.Bool("write"),
	}
	return r.Run(ctx, opts)
}

// NewLogger returns a logfmt logger writing to w that discards debug
// messages unless debug is true.
func NewLogger(w io.Writer, debug bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return level.NewFilter(logger, lo.Ternary(debug, level.AllowDebug(), level.AllowInfo()))
}

// Run executes the formatting command.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if len(opts.Path) != 0 && (opts.Check || opts.Diff || opts.Write) {
		return errors.New("--path cannot be combined with --check, --diff, or --write")
	}
	if opts.Write && len(opts.Files) == 0 {
		return errors.New("--write requires at least one file")
	}
	logger := lo.CoalesceOrEmpty(r.Logger, log.NewNopLogger())

	if len(opts.Files) == 0 {
		src, err := readLimited(r.Stdin, opts.MaxBytes)
		if err != nil {
			return fmt.Errorf("%s: %w", stdinName, err)
		}
		if !r.process(logger, stdinName, src, opts) {
			return ErrFailed
		}
		return nil
	}

	var failed bool
	for _, name := range opts.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, err := readFile(name, opts.MaxBytes)
		if err != nil {
			Error(r.Stderr, "%v", err)
			failed = true
			continue
		}
		if !r.process(logger, name, src, opts) {
			failed = true
		}
	}
	if failed {
		return ErrFailed
	}
	return nil
}

// process formats one input and reports whether it succeeded.
func (r *Runner) process(logger log.Logger, name string, src []byte, opts Options) bool {
	if len(opts.Path) != 0 {
		return r.printPath(name, src, opts)
	}
	start := time.Now()
	res := format.JSON(string(src), opts.Format)
	if !res.OK {
		level.Debug(logger).Log("msg", "format failed", "input", name, "bytes", len(src))
		Error(r.Stderr, "%s: %s", name, res.Text)
		return false
	}
	level.Debug(logger).Log("msg", "formatted", "input", name, "bytes", len(src),
		"lines", pretty.Lines(res.Text), "elapsed", time.Since(start))

	want := res.Text
	if want != "" {
		want += "\n"
	}
	changed := !bytes.Equal(src, []byte(want))

	switch {
	case opts.Check || opts.Diff || opts.Write:
		if opts.Check && changed {
			fmt.Fprintln(r.Stdout, name)
		}
		if opts.Diff && changed {
			fmt.Fprint(r.Stdout, Diff(name, name+" (formatted)", string(src), want, IsTerminal(r.Stdout)))
		}
		if opts.Write && changed {
			if err := writeFile(name, []byte(want)); err != nil {
				Error(r.Stderr, "%v", err)
				return false
			}
			level.Info(logger).Log("msg", "rewrote file", "input", name)
		}
		if opts.Check && changed {
			return false
		}

	default:
		fmt.Fprint(r.Stdout, want)
	}
	return true
}

// printPath prints the value at opts.Path in src.
func (r *Runner) printPath(name string, src []byte, opts Options) bool {
	v, err := ast.ParseWith(bytes.NewReader(src), ast.Options{
		Relaxed:  opts.Format.Relaxed,
		MaxDepth: opts.Format.MaxDepth,
	})
	if err != nil {
		Error(r.Stderr, "%s: %s", name, report.Describe(err, string(src)))
		return false
	}
	sub, err := ast.Path(v, opts.Path...)
	if err != nil {
		Error(r.Stderr, "%s: %v", name, err)
		return false
	}
	f := pretty.Formatter{Indent: opts.Format.Indent}
	fmt.Fprintln(r.Stdout, f.FormatToString(sub))
	return true
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = config.DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	} else if int64(len(data)) > limit {
		return nil, fmt.Errorf("input exceeds %d bytes", limit)
	}
	return data, nil
}

func readFile(name string, limit int64) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := readLimited(f, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

func writeFile(name string, data []byte) error {
	fi, err := os.Stat(name)
	if err != nil {
		return err
	}
	return os.WriteFile(name, data, fi.Mode().Perm())
}
