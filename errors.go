// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfmt

import (
	"fmt"
	"unicode"
)

// LexError is the concrete type of errors reported by the scanner for
// malformed tokens.
type LexError struct {
	Location LineCol // where the problem was found
	Offset   int     // byte offset of Location, 0-based
	Message  string  // human-readable description of the problem
}

func newLexError(m mark, msg string, args ...any) *LexError {
	return &LexError{
		Location: LineCol{Line: m.line, Column: m.col},
		Offset:   m.off,
		Message:  fmt.Sprintf(msg, args...),
	}
}

// Error satisfies the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("at %s: %s", e.Location, e.Message)
}

// SyntaxError is the concrete type of errors reported by the stream parser
// for input that violates the JSON grammar.
type SyntaxError struct {
	Location LineCol // where the offending token begins
	Offset   int     // byte offset of Location, 0-based
	Message  string  // human-readable description of the problem
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// describeRune renders ch for inclusion in an error message.
func describeRune(ch rune) string {
	if ch == '\'' || !unicode.IsPrint(ch) {
		return fmt.Sprintf("%U", ch)
	}
	return fmt.Sprintf("'%c'", ch)
}
