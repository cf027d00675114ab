// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether w is connected to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// SetColor enables colored output if w is a terminal, and disables it
// otherwise.
func SetColor(w io.Writer) { color.NoColor = !IsTerminal(w) }

// Error prints an error message to w, in red when color is enabled.
func Error(w io.Writer, format string, args ...any) {
	red := color.New(color.FgRed).SprintFunc()
	msg := fmt.Sprintf(format, args...)
	first, rest, _ := strings.Cut(msg, "\n")
	if rest != "" {
		rest = "\n" + rest
	}
	_, _ = fmt.Fprintln(w, red("Error: "+first)+rest)
}

// Diff returns a unified diff from oldContent to newContent. It returns "" if
// the contents are equal. The diff is colored only if useColor is true and
// color is enabled.
func Diff(oldName, newName, oldContent, newContent string, useColor bool) string {
	edits := udiff.Strings(oldContent, newContent)
	unified, _ := udiff.ToUnifiedDiff(oldName, newName, oldContent, edits, udiff.DefaultContextLines)
	return colorDiff(unified.String(), useColor)
}

func colorDiff(diff string, useColor bool) string {
	if diff == "" {
		return ""
	}
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	if !useColor {
		red.DisableColor()
		green.DisableColor()
		cyan.DisableColor()
	}

	var sb strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		text, nl := strings.CutSuffix(line, "\n")
		switch {
		case text == "":
		case strings.HasPrefix(text, "---"), strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "@@"):
			text = cyan.Sprint(text)
		case strings.HasPrefix(text, "-"):
			text = red.Sprint(text)
		case strings.HasPrefix(text, "+"):
			text = green.Sprint(text)
		}
		sb.WriteString(text)
		if nl {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
