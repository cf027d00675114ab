// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package pretty renders JSON syntax trees as canonically indented text.
//
// The layout is fixed: each member of a non-empty object and each element of
// a non-empty array goes on its own line, indented one level deeper than the
// enclosing brackets, and the closing bracket goes on its own line at the
// indentation of the opening line. Empty objects and arrays are rendered as
// {} and []. Object members are written as "key": value, in the order the
// object stores them. Numbers are written exactly as stored, and strings are
// re-escaped from their decoded contents. There is no trailing newline.
package pretty

import (
	"io"
	"strings"

	"github.com/creachadair/jfmt/ast"
)

// A Formatter carries the settings for pretty-printing JSON values.
// A zero value is ready for use with default settings.
type Formatter struct {
	Indent Indent
}

// Format renders a pretty-printed representation of v to w with default
// settings.
func Format(w io.Writer, v ast.Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatToString formats v to a string with default settings.
func FormatToString(v ast.Value) string {
	var f Formatter
	return f.FormatToString(v)
}

// Format renders a pretty-printed representation of v to w using the settings
// from f.
func (f Formatter) Format(w io.Writer, v ast.Value) error {
	_, err := w.Write(f.Append(nil, v))
	return err
}

// FormatToString formats v to a string using the settings from f.
func (f Formatter) FormatToString(v ast.Value) string { return string(f.Append(nil, v)) }

// Append appends the pretty-printed representation of v to buf and returns
// the extended slice.
func (f Formatter) Append(buf []byte, v ast.Value) []byte {
	p := &printer{buf: buf, unit: f.Indent.Unit()}
	p.value(v, 0)
	return p.buf
}

type printer struct {
	buf  []byte
	unit string
}

func (p *printer) put(s string) { p.buf = append(p.buf, s...) }

// newline ends the current line and indents the next by depth levels.
func (p *printer) newline(depth int) {
	p.buf = append(p.buf, '\n')
	for range depth {
		p.put(p.unit)
	}
}

// value writes v at the given nesting depth. The caller has already written
// the indentation for the first line.
func (p *printer) value(v ast.Value, depth int) {
	switch t := v.(type) {
	case ast.Object:
		if len(t) == 0 {
			p.put("{}")
			return
		}
		p.put("{")
		for i, m := range t {
			if i > 0 {
				p.put(",")
			}
			p.newline(depth + 1)
			p.put(ast.String(m.Key).JSON())
			p.put(": ")
			p.value(m.Value, depth+1)
		}
		p.newline(depth)
		p.put("}")

	case ast.Array:
		if len(t) == 0 {
			p.put("[]")
			return
		}
		p.put("[")
		for i, elt := range t {
			if i > 0 {
				p.put(",")
			}
			p.newline(depth + 1)
			p.value(elt, depth+1)
		}
		p.newline(depth)
		p.put("]")

	case nil:
		p.put("null")

	default:
		p.put(t.JSON())
	}
}

// Lines reports the number of lines in the pretty-printed text s.
func Lines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
