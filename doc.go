// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jfmt implements a JSON scanner and stream parser that track the
// position of every token, for use by a formatter that must report precisely
// where an input goes wrong.
//
// The ast package builds a value tree from a Stream, the pretty package renders
// a tree as indented text, and the format package ties these together with
// error reporting.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and returns nil, or reports an error:
//
//	s := jfmt.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v at %v", s.Token(), s.Location())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// is a *jfmt.LexError giving the line, column, and byte offset of the fault.
//
// Lines and columns are 1-based, and each Unicode character counts as one
// column. A CRLF pair ends a single line.
//
// # Streaming
//
// The Stream type implements an event-driven stream parser for JSON.  The
// parser works by calling methods on a Handler value to report the structure
// of the input. In case of error, parsing is terminated and an error of
// concrete type *jfmt.SyntaxError is returned.
//
//	s := jfmt.NewStream(input)
//	if err := s.ParseSingle(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// ParseSingle requires the input to hold exactly one value, optionally
// surrounded by whitespace. Parse accepts a sequence of values, and ParseOne
// consumes a single value from the front of the input and returns io.EOF if
// none remains.
//
// By default the parser accepts only strict JSON. AllowComments and
// AllowTrailingCommas relax this, and SetMaxDepth bounds the nesting of
// objects and arrays (DefaultMaxDepth if unset).
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The methods of
// a handler correspond to the syntax of JSON values:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Each method is passed an Anchor that reports the token type, raw text and
// location. The Anchor is only valid for the duration of the call; a handler
// must copy any data it needs to keep. If a handler method reports an error,
// parsing stops and that error is returned as-is.
package jfmt
