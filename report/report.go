// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package report renders parse errors as short human-readable messages.
//
// A message has the form
//
//	<problem> at line <L>, column <C>
//	  <source line>
//	  <caret under column C>
//
// where the source excerpt is omitted if the offending line is blank.
package report

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/creachadair/jfmt"
)

// MaxSnippet is the maximum number of characters of source text shown in a
// message. Longer lines are shortened around the error column.
const MaxSnippet = 120

const ellipsis = "..."

// Describe renders err, which was produced by parsing src, as a message for
// display to a user. Errors that do not carry a source position are rendered
// as their text.
func Describe(err error, src string) string {
	msg, pos, off, ok := position(err)
	if !ok {
		return err.Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at line %d, column %d", msg, pos.Line, pos.Column)

	if line, caret := Snippet(src, off, pos.Column); line != "" {
		sb.WriteString("\n  ")
		sb.WriteString(line)
		sb.WriteString("\n  ")
		sb.WriteString(strings.Repeat(" ", caret))
		sb.WriteString("^")
	}
	return sb.String()
}

// position extracts the message and location from a positioned error.
func position(err error) (string, jfmt.LineCol, int, bool) {
	var lerr *jfmt.LexError
	if errors.As(err, &lerr) {
		return lerr.Message, lerr.Location, lerr.Offset, true
	}
	var serr *jfmt.SyntaxError
	if errors.As(err, &serr) {
		return serr.Message, serr.Location, serr.Offset, true
	}
	return "", jfmt.LineCol{}, 0, false
}

// Snippet returns the text of the line of src containing byte offset off,
// prepared for display, and the number of characters that precede column
// col (1-based) in the returned text. Leading and trailing whitespace is
// removed, tabs and other control characters are shown as spaces, and lines
// longer than MaxSnippet are shortened around col. If the line is blank,
// Snippet returns "", 0.
func Snippet(src string, off, col int) (string, int) {
	off = min(max(off, 0), len(src))
	start := strings.LastIndexByte(src[:off], '\n') + 1
	end := strings.IndexByte(src[off:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += off
	}
	runes := []rune(src[start:end])
	for i, r := range runes {
		if unicode.IsControl(r) {
			runes[i] = ' '
		}
	}

	// Trim surrounding space, keeping the caret aligned.
	caret := col - 1
	lead := 0
	for lead < len(runes) && runes[lead] == ' ' {
		lead++
	}
	runes = runes[lead:]
	for n := len(runes); n > 0 && runes[n-1] == ' '; n-- {
		runes = runes[:n-1]
	}
	if len(runes) == 0 {
		return "", 0
	}
	caret = max(caret-lead, 0)

	if len(runes) <= MaxSnippet {
		return string(runes), caret
	}

	// Show a window of the line around the caret, marking the elided parts.
	width := MaxSnippet - 2*len(ellipsis)
	lo := max(caret-width/2, 0)
	hi := min(lo+width, len(runes))
	lo = max(hi-width, 0)

	var sb strings.Builder
	if lo > 0 {
		sb.WriteString(ellipsis)
		caret += len(ellipsis) - lo
	}
	sb.WriteString(string(runes[lo:hi]))
	if hi < len(runes) {
		sb.WriteString(ellipsis)
	}
	return sb.String(), caret
}
