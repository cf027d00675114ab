// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package format is the entry point for formatting JSON text.
//
// Formatting is a pure function of the input text and options: it parses the
// text, and either renders the resulting value with the requested indentation
// or describes why the text is not valid JSON. It keeps no state between
// calls and is safe for concurrent use.
//
//	res := format.Text(input, "space", 2)
//	if res.OK {
//	   show(res.Text)
//	} else {
//	   showError(res.Text)
//	}
package format

import (
	"strings"
	"unicode"

	"github.com/creachadair/jfmt/ast"
	"github.com/creachadair/jfmt/pretty"
	"github.com/creachadair/jfmt/report"
)

// Options control formatting. The zero value formats strict JSON with the
// default indentation.
type Options struct {
	Indent pretty.Indent

	// Accept comments and trailing commas in the input. Comments are not
	// preserved in the output.
	Relaxed bool

	// Maximum nesting depth of objects and arrays; zero means
	// jfmt.DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns options for strict JSON indented by two spaces.
func DefaultOptions() Options { return Options{Indent: pretty.Spaces(pretty.DefaultWidth)} }

// NewOptions returns options for strict JSON with the indentation described
// by indentType ("space" or "tab") and indentWidth (1 to 8, ignored for tabs).
func NewOptions(indentType string, indentWidth int) (Options, error) {
	in, err := pretty.ParseIndent(indentType, indentWidth)
	if err != nil {
		return Options{}, err
	}
	return Options{Indent: in}, nil
}

// A Result is the outcome of formatting. If OK is true, Text is the formatted
// document; otherwise Text describes why the input could not be formatted.
type Result struct {
	Text string
	OK   bool
}

// Ok returns a successful Result with the given text.
func Ok(text string) Result { return Result{Text: text, OK: true} }

// Err returns a failed Result with the given message.
func Err(msg string) Result { return Result{Text: msg} }

// JSON formats src according to opts. Input that is empty or consists only
// of Unicode white space and byte order marks yields an empty successful
// result.
func JSON(src string, opts Options) Result {
	if isBlank(src) {
		return Ok("")
	}
	if err := opts.Indent.Validate(); err != nil {
		return Err(err.Error())
	}
	v, err := ast.ParseWith(strings.NewReader(src), ast.Options{
		Relaxed:  opts.Relaxed,
		MaxDepth: opts.MaxDepth,
	})
	if err != nil {
		return Err(report.Describe(err, src))
	}
	f := pretty.Formatter{Indent: opts.Indent}
	return Ok(f.FormatToString(v))
}

func isBlank(src string) bool {
	return strings.TrimFunc(src, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	}) == ""
}

// Text formats src with the indentation described by indentType ("space" or
// "tab") and indentWidth (1 to 8, ignored for tabs). Invalid settings are
// reported as a failed Result.
func Text(src, indentType string, indentWidth int) Result {
	opts, err := NewOptions(indentType, indentWidth)
	if err != nil {
		return Err(err.Error())
	}
	return JSON(src, opts)
}
