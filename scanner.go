// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfmt

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Number               // number, kept as its literal text
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... <LF>
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  "'{'",
	RBrace:  "'}'",
	LSquare: "'['",
	RSquare: "']'",
	Comma:   "','",
	Colon:   "':'",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",

	BlockComment: "block comment",
	LineComment:  "line comment",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// IsValue reports whether t begins or is a complete JSON value.
func (t Token) IsValue() bool {
	switch t {
	case LBrace, LSquare, Number, String, True, False, Null:
		return true
	}
	return false
}

// A Scanner reads lexical tokens from an input stream.  Each call to Next
// advances the scanner to the next token, or reports an error.
type Scanner struct {
	r        *bufio.Reader
	comments bool         // allow comments
	buf      bytes.Buffer // current token
	tok      Token
	err      error
	rerr     error // first non-EOF read error

	pos, end int  // start and end offsets of current token
	last     int  // size in bytes of last-read input rune
	prev     mark // position of the last-read input rune

	// Apparent line and column (1-based) of the token start and end.
	pline, pcol int
	eline, ecol int
}

// A mark records a position in the input.
type mark struct{ off, line, col int }

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br, pline: 1, pcol: 1, eline: 1, ecol: 1}
}

// AllowComments configures the scanner to report (true) or reject (false)
// comment tokens. Comments are a non-standard exension of the JSON spec.  If
// enabled, C++ style block comments (/* ... */) and line comments (// ...)
// are recognized and emitted as tokens.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF. A lexical error in the input
// is reported as a *LexError.
func (s *Scanner) Next() error {
	s.buf.Reset()
	s.err = nil
	s.tok = Invalid

	for {
		s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
		ch, err := s.rune()
		if err != nil {
			return s.setErr(err)
		}

		// Discard whitespace.
		if isSpace(ch) {
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return nil
		}

		switch {
		case isNumStart(ch):
			return s.checkRead(s.scanNumber(ch))
		case ch == '"':
			return s.checkRead(s.scanString())
		case ch == '/' && s.comments:
			return s.checkRead(s.scanComment())
		case isNameStart(ch):
			return s.checkRead(s.scanName(ch))
		case ch == utf8.RuneError && s.last == 1:
			return s.failAt(s.prev, "invalid UTF-8 encoding")
		default:
			return s.failAt(s.prev, "unexpected character %s", describeRune(ch))
		}
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return bytes.Clone(s.buf.Bytes()) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
// After Next reports an error, the location is that of the point where the
// failed token began.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline, Column: s.pcol},
		Last:  LineCol{Line: s.eline, Column: s.ecol},
	}
}

func (s *Scanner) scanString() error {
	open := s.start()
	s.buf.WriteByte('"')
	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.failAt(open, "unterminated string")
		} else if err != nil {
			return err
		}
		switch {
		case ch == '"':
			s.buf.WriteByte('"')
			s.tok = String
			return nil
		case ch == '\\':
			s.buf.WriteByte('\\')
			if err := s.scanEscape(); err != nil {
				return err
			}
		case ch < ' ':
			return s.failAt(s.prev, "unterminated string: unescaped control character %U", ch)
		case ch == utf8.RuneError && s.last == 1:
			return s.failAt(s.prev, "invalid UTF-8 encoding")
		default:
			s.buf.WriteRune(ch)
		}
	}
}

// scanEscape consumes the remainder of an escape sequence whose backslash has
// already been read.
func (s *Scanner) scanEscape() error {
	ch, err := s.rune()
	if err == io.EOF {
		return s.failAt(s.here(), "incomplete escape sequence")
	} else if err != nil {
		return err
	}
	switch ch {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		s.buf.WriteByte(byte(ch))
	case 'u':
		s.buf.WriteByte('u')
		for range 4 {
			h, err := s.rune()
			if err == io.EOF {
				return s.failAt(s.here(), "incomplete unicode escape")
			} else if err != nil {
				return err
			} else if !isHexDigit(h) {
				return s.failAt(s.prev, "invalid unicode escape: %s is not a hex digit", describeRune(h))
			}
			s.buf.WriteRune(h)
		}
	default:
		return s.failAt(s.prev, "invalid escape character %s", describeRune(ch))
	}
	return nil
}

func (s *Scanner) scanNumber(start rune) error {
	s.buf.WriteRune(start)

	first := start
	if start == '-' {
		// A leading sign must be followed by at least one digit.
		ch, ok := s.accept(isDigit)
		if !ok {
			return s.failAt(s.here(), "invalid number: expected digit after '-'")
		}
		first = ch
	}

	// A zero integer part must stand alone: 0.12 is OK, 01.2 is not.
	if first == '0' {
		if _, ok := s.accept(isDigit); ok {
			return s.failAt(s.prev, "invalid number: leading zero")
		}
	} else {
		s.acceptRun(isDigit)
	}

	// If a decimal point follows, consume a fractional part.
	if _, ok := s.accept(isDot); ok {
		if s.acceptRun(isDigit) == 0 {
			return s.failAt(s.here(), "invalid number: expected digit after '.'")
		}
	}

	// If an exponent follows, consume it.
	if _, ok := s.accept(isExpMark); ok {
		s.accept(isSign)
		if s.acceptRun(isDigit) == 0 {
			return s.failAt(s.here(), "invalid number: expected digit in exponent")
		}
	}
	s.tok = Number
	return nil
}

func (s *Scanner) scanComment() error {
	s.buf.WriteByte('/')
	ch, err := s.rune()
	if err == io.EOF {
		return s.failAt(s.start(), "unexpected character '/'")
	} else if err != nil {
		return err
	}
	switch ch {
	case '/': // line comment to LF
		s.buf.WriteRune(ch)
		for {
			ch, err := s.rune()
			if err == io.EOF {
				break
			} else if err != nil {
				return err
			}
			s.buf.WriteRune(ch)
			if ch == '\n' {
				break
			}
		}
		s.tok = LineComment
		return nil

	case '*': // block comment
		s.buf.WriteRune(ch)
		var star bool
		for {
			ch, err := s.rune()
			if err == io.EOF {
				return s.failAt(s.start(), "unterminated comment")
			} else if err != nil {
				return err
			}
			s.buf.WriteRune(ch)
			if star && ch == '/' {
				s.tok = BlockComment
				return nil
			}
			star = ch == '*'
		}

	default:
		return s.failAt(s.prev, "invalid %s in comment", describeRune(ch))
	}
}

var (
	nameTrue  = mem.S("true")
	nameFalse = mem.S("false")
	nameNull  = mem.S("null")
)

func (s *Scanner) scanName(first rune) error {
	s.buf.WriteRune(first)
	s.acceptRun(isNameRune)
	switch got := mem.B(s.buf.Bytes()); {
	case got.Equal(nameTrue):
		s.tok = True
	case got.Equal(nameFalse):
		s.tok = False
	case got.Equal(nameNull):
		s.tok = Null
	default:
		return s.failAt(s.start(), "invalid literal '%s'", got.StringCopy())
	}
	return nil
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	if err != nil {
		if err != io.EOF && s.rerr == nil {
			s.rerr = err
		}
		s.last = 0
		return 0, err
	}
	s.prev = s.here()
	s.last = nb
	s.end += nb
	if ch == '\n' {
		s.eline++
		s.ecol = 1
	} else {
		s.ecol++
	}
	return ch, nil
}

func (s *Scanner) unrune() {
	if s.last == 0 {
		return
	}
	s.end, s.eline, s.ecol = s.prev.off, s.prev.line, s.prev.col
	s.last = 0
	s.r.UnreadRune()
}

// accept reads a single rune matching f and adds it to the current token.
// If the next rune does not match f it is left unread.
func (s *Scanner) accept(f func(rune) bool) (rune, bool) {
	ch, err := s.rune()
	if err != nil {
		return 0, false
	} else if !f(ch) {
		s.unrune()
		return 0, false
	}
	s.buf.WriteRune(ch)
	return ch, true
}

// acceptRun consumes runes matching f until EOF or a non-matching rune, and
// reports how many were consumed.
func (s *Scanner) acceptRun(f func(rune) bool) int {
	var nr int
	for {
		if _, ok := s.accept(f); !ok {
			return nr
		}
		nr++
	}
}

func (s *Scanner) here() mark  { return mark{s.end, s.eline, s.ecol} }
func (s *Scanner) start() mark { return mark{s.pos, s.pline, s.pcol} }

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

// checkRead reports a pending read error, if any, in preference to err.
func (s *Scanner) checkRead(err error) error {
	if s.rerr != nil {
		return s.setErr(s.rerr)
	} else if err != nil {
		return s.setErr(err)
	}
	return nil
}

func (s *Scanner) failAt(m mark, msg string, args ...any) error {
	return s.setErr(newLexError(m, msg, args...))
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool  { return ch == '-' || isDigit(ch) }
func isDigit(ch rune) bool     { return '0' <= ch && ch <= '9' }
func isDot(ch rune) bool       { return ch == '.' }
func isExpMark(ch rune) bool   { return ch == 'e' || ch == 'E' }
func isSign(ch rune) bool      { return ch == '-' || ch == '+' }
func isNameStart(ch rune) bool { return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') }
func isNameRune(ch rune) bool  { return isNameStart(ch) || isDigit(ch) }

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}

// A Lexeme is a single token of the input with its text and location.
type Lexeme struct {
	Token    Token
	Text     string // undecoded
	Location Location
}

// Tokenize scans all the tokens of src in order. In case of error, the tokens
// scanned before the error are returned along with a *LexError.
func Tokenize(src string) ([]Lexeme, error) {
	s := NewScanner(strings.NewReader(src))
	var out []Lexeme
	for {
		if err := s.Next(); err == io.EOF {
			return out, nil
		} else if err != nil {
			return out, err
		}
		out = append(out, Lexeme{
			Token:    s.Token(),
			Text:     string(s.Text()),
			Location: s.Location(),
		})
	}
}
