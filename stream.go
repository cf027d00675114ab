// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfmt

import (
	"cmp"
	"fmt"
	"io"
	"slices"
)

// DefaultMaxDepth is the default limit on nesting of objects and arrays
// accepted by a Stream.
const DefaultMaxDepth = 1000

// An Anchor represents a location in source text. The methods of an Anchor
// will report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // Returns the token type of the anchor
	Text() []byte       // Returns a view of the raw (undecoded) text of the anchor
	Copy() []byte       // Returns a copy of the raw text of the anchor
	Location() Location // Returns the full location of the anchor
}

// A Handler handles events from parsing an input stream.  If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call. If the method needs to retain information about the
// location after it returns, it must copy the relevant data.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc.  The text of the key is
	// still quoted; the handler is responsible for unescaping key values if the
	// plain string is required (see jfmt.Unquote).
	BeginMember(loc Anchor) error

	// End the current object member giving the location and type of the token
	// that terminated the member (either Comma or RBrace).
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type of the value can be
	// recovered from the token. String tokens are quoted.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input stream.
	EndOfInput(loc Anchor)
}

// CommentHandler is an optional interface that a Handler may implement to
// handle comment tokens. If a handler implements this method and comments are
// enabled in the scanner, Comment will be called for each comment token that
// occurs in the input. If the handler does not provide this method, comments
// will be silently discarded.
type CommentHandler interface {
	// Process the line or block comment at the specified location.
	Comment(loc Anchor)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input.
type Stream struct {
	s      *Scanner
	tcomma bool // allow trailing commas in objects and arrays
	max    int  // maximum nesting depth
	depth  int  // current nesting depth
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return NewStreamWithScanner(NewScanner(r)) }

// NewStreamWithScanner constructs a new Stream that consumes input from s.
func NewStreamWithScanner(s *Scanner) *Stream { return &Stream{s: s, max: DefaultMaxDepth} }

// AllowComments configures the scanner associated with s to report (true) or
// reject (false) comment tokens.
func (s *Stream) AllowComments(ok bool) { s.s.AllowComments(ok) }

// AllowTrailingCommas configures the parser to allow (true) or reject (false)
// trailing commas in objects and arrays.
func (s *Stream) AllowTrailingCommas(ok bool) { s.tcomma = ok }

// SetMaxDepth sets the maximum nesting depth of objects and arrays.  If n <=
// 0, the limit is reset to DefaultMaxDepth.
func (s *Stream) SetMaxDepth(n int) {
	if n <= 0 {
		n = DefaultMaxDepth
	}
	s.max = n
}

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case *LexError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses the input stream and delivers events to h until either an error
// occurs or the input is exhausted. In case of a syntax error, the returned
// error has type [*SyntaxError] or [*LexError].
func (s *Stream) Parse(h Handler) (err error) {
	defer s.recoverParseError(&err)

	for {
		s.depth = 0
		if err := s.nextToken(h); err == io.EOF {
			h.EndOfInput(s.s)
			return nil
		} else if err != nil {
			s.fail(err)
		}
		s.parseElement(h)
	}
}

// ParseOne parses a single value from the input stream and delivers events to
// h until the value is complete or an error occurs. If no further value is
// available from the input, ParseOne returns io.EOF. In case of a syntax
// error, the returned error has type [*SyntaxError] or [*LexError].
func (s *Stream) ParseOne(h Handler) (err error) {
	defer s.recoverParseError(&err)

	s.depth = 0
	if err := s.nextToken(h); err == io.EOF {
		h.EndOfInput(s.s)
		return err
	} else if err != nil {
		s.fail(err)
	}
	s.parseElement(h)
	return nil
}

// ParseSingle parses exactly one value from the input stream, which must be
// followed only by whitespace (and comments, if enabled). Empty input and
// trailing content are reported as syntax errors.
func (s *Stream) ParseSingle(h Handler) (err error) {
	defer s.recoverParseError(&err)

	s.depth = 0
	s.next(h, "value")
	s.parseElement(h)
	if err := s.nextToken(h); err == io.EOF {
		h.EndOfInput(s.s)
		return nil
	} else if err != nil {
		s.fail(err)
	}
	s.syntaxError("unexpected trailing content, found %v", s.s.Token())
	return nil // unreachable
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (s *Stream) parseElement(h Handler) {
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.enter()
		s.checkError(h.BeginObject(s.s))
		s.parseMembers(h)
		s.checkError(h.EndObject(s.s))
		s.depth--
	case LSquare:
		s.enter()
		s.checkError(h.BeginArray(s.s))
		s.parseElements(h)
		s.checkError(h.EndArray(s.s))
		s.depth--
	case Number, String, True, False, Null:
		s.checkError(h.Value(s.s))
	default:
		s.syntaxError("expected value, found %v", tok)
	}
}

// parseMembers consumes zero of more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Handler) {
	if tok := s.expect(h, "string key or '}'", String, RBrace); tok == RBrace {
		return // end of object
	}
	for {
		// Parse a single member: "key": value
		s.checkError(h.BeginMember(s.s))
		s.expect(h, "':' after object key", Colon)
		s.next(h, "value")
		s.parseElement(h)

		// Check whether we have more members (",") or are done ("}").
		tok := s.expect(h, "',' or '}' after object member", Comma, RBrace)
		s.checkError(h.EndMember(s.s))
		if tok == RBrace {
			return // end of object
		} else if s.tcomma {
			// If trailing commas are allowed and the next token is a close
			// bracket, consider this a valid end of the object. Otherwise, it
			// must be a key for a subsequent element.
			if next := s.expect(h, "string key or '}'", String, RBrace); next == RBrace {
				return // end of object with trailing comma
			}
		} else {
			s.expect(h, "string key", String) // advance to next key
		}
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream) parseElements(h Handler) {
	if tok := s.next(h, "value or ']'"); tok == RSquare {
		return // end of array
	}
	s.parseElement(h)
	for {
		tok := s.expect(h, "',' or ']' after array element", Comma, RSquare)
		if tok == RSquare {
			return // end of array
		}

		// If trailing commas are allowed and the next token is a close bracket,
		// consider this a valid end of the array; otherwise it will fail on the
		// next element.
		if next := s.next(h, "value"); s.tcomma && next == RSquare {
			return // end of array with trailing comma
		}
		s.parseElement(h)
	}
}

// enter records the opening of a nested object or array.
func (s *Stream) enter() {
	s.depth++
	if s.depth > s.max {
		s.syntaxError("maximum nesting depth exceeded")
	}
}

func (s *Stream) nextToken(h Handler) error {
	for s.s.Next() == nil {
		// If we see a comment token, pass it to the handler if it implements
		// CommentHandler. Either way, discard the comment and fetch the next
		// available comment for the rest of the parser.
		if tok := s.s.Token(); tok == LineComment || tok == BlockComment {
			if ch, ok := h.(CommentHandler); ok {
				ch.Comment(s.s)
			}
			continue // skip to the next token for the parser
		}
		return nil
	}
	return cmp.Or(s.s.Err(), io.EOF)
}

// next advances to the next token and returns its type. If the input ends
// first, it reports a syntax error saying want was expected.
func (s *Stream) next(h Handler, want string) Token {
	if err := s.nextToken(h); err == io.EOF {
		s.syntaxError("unexpected end of input, expected %s", want)
	} else if err != nil {
		s.fail(err)
	}
	return s.s.Token()
}

// expect advances to the next token, which must be one of tokens.
func (s *Stream) expect(h Handler, want string, tokens ...Token) Token {
	tok := s.next(h, want)
	if !slices.Contains(tokens, tok) {
		s.syntaxError("expected %s, found %v", want, tok)
	}
	return tok
}

func (s *Stream) syntaxError(msg string, args ...any) {
	panic(&SyntaxError{
		Location: s.s.Location().First,
		Offset:   s.s.Span().Pos,
		Message:  fmt.Sprintf(msg, args...),
	})
}

// fail aborts parsing with an error reported by the scanner.
func (s *Stream) fail(err error) {
	if lerr, ok := err.(*LexError); ok {
		panic(lerr)
	}
	panic(handlerError{err})
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }
