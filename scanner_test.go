// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfmt_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jfmt"
	"github.com/google/go-cmp/cmp"
)

// scanAll returns the tokens of input, failing t if the scanner reports an
// error other than io.EOF.
func scanAll(t *testing.T, input string, comments bool, each func(*jfmt.Scanner)) []jfmt.Token {
	t.Helper()
	var got []jfmt.Token
	s := jfmt.NewScanner(strings.NewReader(input))
	s.AllowComments(comments)
	for {
		err := s.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Errorf("Input %#q: Next failed: %v", input, err)
			break
		}
		got = append(got, s.Token())
		if each != nil {
			each(s)
		}
	}
	return got
}

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []jfmt.Token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t  \r\n \t  \r\n", nil},

		// Constants
		{"true false null", []jfmt.Token{jfmt.True, jfmt.False, jfmt.Null}},

		// Punctuation
		{"{ [ ] } , :", []jfmt.Token{
			jfmt.LBrace, jfmt.LSquare, jfmt.RSquare, jfmt.RBrace, jfmt.Comma, jfmt.Colon,
		}},

		// Strings
		{`"" "a b c" "a\nb\tc"`, []jfmt.Token{jfmt.String, jfmt.String, jfmt.String}},
		{`"\"\\\/\b\f\n\r\t"`, []jfmt.Token{jfmt.String}},
		{`"\u0000\u01fc\uAA9c"`, []jfmt.Token{jfmt.String}},
		{`"ünïcødé ☃"`, []jfmt.Token{jfmt.String}},

		// Numbers
		{`0 -1 5139 2.3 5e+9 3.6E+4 -0.001E-100 1.50`, []jfmt.Token{
			jfmt.Number, jfmt.Number, jfmt.Number, jfmt.Number,
			jfmt.Number, jfmt.Number, jfmt.Number, jfmt.Number,
		}},

		// Mixed types
		{`{true,"false":-15 null[]}`, []jfmt.Token{
			jfmt.LBrace, jfmt.True, jfmt.Comma, jfmt.String, jfmt.Colon,
			jfmt.Number, jfmt.Null, jfmt.LSquare, jfmt.RSquare, jfmt.RBrace,
		}},
		{`{"a": true, "b":[null, 1, 0.5]}`, []jfmt.Token{
			jfmt.LBrace,
			jfmt.String, jfmt.Colon, jfmt.True, jfmt.Comma,
			jfmt.String, jfmt.Colon,
			jfmt.LSquare,
			jfmt.Null, jfmt.Comma, jfmt.Number, jfmt.Comma, jfmt.Number,
			jfmt.RSquare,
			jfmt.RBrace,
		}},
		{`"a",1,true
       false["b"]
       `, []jfmt.Token{
			jfmt.String, jfmt.Comma, jfmt.Number, jfmt.Comma, jfmt.True,
			jfmt.False, jfmt.LSquare, jfmt.String, jfmt.RSquare,
		}},
	}

	for _, test := range tests {
		got := scanAll(t, test.input, false, nil)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScanner_numberText(t *testing.T) {
	const input = `0 -0 1.50 -0.001E-100 1e10 25`
	var got []string
	scanAll(t, input, false, func(s *jfmt.Scanner) {
		got = append(got, string(s.Text()))
	})
	want := strings.Fields(input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Number text: (-want, +got)\n%s", diff)
	}
}

func TestScanner_withComments(t *testing.T) {
	tests := []struct {
		input string
		want  []jfmt.Token
		coms  []string
	}{
		{"/* block comment */\n\n\n", []jfmt.Token{jfmt.BlockComment},
			[]string{"/* block comment */"}},
		{"// line 1\n\n// line 2\n", []jfmt.Token{jfmt.LineComment, jfmt.LineComment},
			[]string{"// line 1\n", "// line 2\n"}}, // N.B. includes terminating newline, if present
		{"// line at EOF", []jfmt.Token{jfmt.LineComment},
			[]string{"// line at EOF"}},
		{`{
 "x": 1, // howdy do
 "y" /* hide me */ : 2.0 }`, []jfmt.Token{
			jfmt.LBrace, jfmt.String, jfmt.Colon, jfmt.Number, jfmt.Comma, jfmt.LineComment,
			jfmt.String, jfmt.BlockComment, jfmt.Colon, jfmt.Number, jfmt.RBrace,
		}, []string{
			"// howdy do\n", "/* hide me */",
		}},

		{"/* x */\n{\n}//foo", []jfmt.Token{
			jfmt.BlockComment, jfmt.LBrace, jfmt.RBrace, jfmt.LineComment,
		}, []string{
			"/* x */", "//foo",
		}},

		{"/**\n*/", []jfmt.Token{jfmt.BlockComment}, []string{"/**\n*/"}},

		{`/**/"foo"/***/"bar"/****/false/*x*/null`, []jfmt.Token{
			jfmt.BlockComment, jfmt.String,
			jfmt.BlockComment, jfmt.String,
			jfmt.BlockComment, jfmt.False,
			jfmt.BlockComment, jfmt.Null,
		}, []string{
			"/**/", "/***/", "/****/", "/*x*/",
		}},
	}

	for _, test := range tests {
		var coms []string
		got := scanAll(t, test.input, true, func(s *jfmt.Scanner) {
			if tok := s.Token(); tok == jfmt.LineComment || tok == jfmt.BlockComment {
				coms = append(coms, string(s.Text()))
			}
		})
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
		if diff := cmp.Diff(test.coms, coms); diff != "" {
			t.Errorf("Input: %#q\nComments: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScannerLoc(t *testing.T) {
	type tokPos struct {
		Tok jfmt.Token
		Pos string
	}
	tests := []struct {
		input string
		want  []tokPos
	}{
		{"", nil},
		{"{ }", []tokPos{{jfmt.LBrace, "1:1-2"}, {jfmt.RBrace, "1:3-4"}}},
		{`"foo" // bar`, []tokPos{{jfmt.String, "1:1-6"}, {jfmt.LineComment, "1:7-13"}}},
		{"/* ok */\ntrue\n false\n", []tokPos{{jfmt.BlockComment, "1:1-9"}, {jfmt.True, "2:1-5"}, {jfmt.False, "3:2-7"}}},
		{"/* ok\n*/\n null", []tokPos{{jfmt.BlockComment, "1:1-2:3"}, {jfmt.Null, "3:2-6"}}},
		{"\t\"ü\"", []tokPos{{jfmt.String, "1:2-5"}}},
		{"// first\n[1, /*x*/, 2\n]", []tokPos{
			{jfmt.LineComment, "1:1-2:1"}, {jfmt.LSquare, "2:1-2"}, {jfmt.Number, "2:2-3"},
			{jfmt.Comma, "2:3-4"}, {jfmt.BlockComment, "2:5-10"}, {jfmt.Comma, "2:10-11"},
			{jfmt.Number, "2:12-13"}, {jfmt.RSquare, "3:1-2"},
		}},
	}
	for _, tc := range tests {
		var got []tokPos
		scanAll(t, tc.input, true, func(s *jfmt.Scanner) {
			got = append(got, tokPos{s.Token(), s.Location().String()})
		})
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestScannerSpan(t *testing.T) {
	const input = "{\"é\": 10}"
	var got []jfmt.Span
	scanAll(t, input, false, func(s *jfmt.Scanner) { got = append(got, s.Span()) })
	want := []jfmt.Span{
		{Pos: 0, End: 1},  // {
		{Pos: 1, End: 5},  // "é" (é is two bytes)
		{Pos: 5, End: 6},  // :
		{Pos: 7, End: 9},  // 10
		{Pos: 9, End: 10}, // }
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Spans: (-want, +got)\n%s", diff)
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		input    string
		comments bool
		line     int
		col      int
		off      int
		msg      string
	}{
		{`{"a": tru}`, false, 1, 7, 6, "invalid literal 'tru'"},
		{`True`, false, 1, 1, 0, "invalid literal 'True'"},
		{`"abc`, false, 1, 1, 0, "unterminated string"},
		{"[\n  \"abc", false, 2, 3, 4, "unterminated string"},
		{`[1, @]`, false, 1, 5, 4, "unexpected character '@'"},
		{`01`, false, 1, 2, 1, "invalid number: leading zero"},
		{`-x`, false, 1, 2, 1, "invalid number: expected digit after '-'"},
		{`1.`, false, 1, 3, 2, "invalid number: expected digit after '.'"},
		{`1.e5`, false, 1, 3, 2, "invalid number: expected digit after '.'"},
		{`1e+`, false, 1, 4, 3, "invalid number: expected digit in exponent"},
		{`"a\qb"`, false, 1, 4, 3, "invalid escape character 'q'"},
		{`"\u12G4"`, false, 1, 6, 5, "invalid unicode escape: 'G' is not a hex digit"},
		{`"\u12`, false, 1, 6, 5, "incomplete unicode escape"},
		{`"\`, false, 1, 3, 2, "incomplete escape sequence"},
		{"\"a\tb\"", false, 1, 3, 2, "unterminated string: unescaped control character U+0009"},
		{"\"ab\ncd\"", false, 1, 4, 3, "unterminated string: unescaped control character U+000A"},
		{"\xff", false, 1, 1, 0, "invalid UTF-8 encoding"},
		{"\"a\xffb\"", false, 1, 3, 2, "invalid UTF-8 encoding"},
		{`/* x`, true, 1, 1, 0, "unterminated comment"},
		{`/ x`, true, 1, 2, 1, "invalid ' ' in comment"},
		{`// ok` + "\n/", true, 2, 1, 6, "unexpected character '/'"},
		{`[] // no`, false, 1, 4, 3, "unexpected character '/'"},
		{`'x'`, false, 1, 1, 0, "unexpected character U+0027"},
	}
	for _, tc := range tests {
		s := jfmt.NewScanner(strings.NewReader(tc.input))
		s.AllowComments(tc.comments)
		var err error
		for err == nil {
			err = s.Next()
		}
		var lerr *jfmt.LexError
		if !errors.As(err, &lerr) {
			t.Errorf("Input %#q: got error %v, want *LexError", tc.input, err)
			continue
		}
		want := &jfmt.LexError{
			Location: jfmt.LineCol{Line: tc.line, Column: tc.col},
			Offset:   tc.off,
			Message:  tc.msg,
		}
		if diff := cmp.Diff(want, lerr); diff != "" {
			t.Errorf("Input %#q: error (-want, +got)\n%s", tc.input, diff)
		}
		if s.Err() != err {
			t.Errorf("Input %#q: Err() = %v, want %v", tc.input, s.Err(), err)
		}
	}
}

func TestTokenize(t *testing.T) {
	got, err := jfmt.Tokenize("{\"a\":\n [1.50, null]}")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	type lex struct {
		Tok  jfmt.Token
		Text string
		Pos  string
	}
	var gotLex []lex
	for _, g := range got {
		gotLex = append(gotLex, lex{g.Token, g.Text, g.Location.First.String()})
	}
	want := []lex{
		{jfmt.LBrace, "{", "1:1"},
		{jfmt.String, `"a"`, "1:2"},
		{jfmt.Colon, ":", "1:5"},
		{jfmt.LSquare, "[", "2:2"},
		{jfmt.Number, "1.50", "2:3"},
		{jfmt.Comma, ",", "2:7"},
		{jfmt.Null, "null", "2:9"},
		{jfmt.RSquare, "]", "2:13"},
		{jfmt.RBrace, "}", "2:14"},
	}
	if diff := cmp.Diff(want, gotLex); diff != "" {
		t.Errorf("Tokenize: (-want, +got)\n%s", diff)
	}

	t.Run("Error", func(t *testing.T) {
		got, err := jfmt.Tokenize(`[1, 2, x]`)
		var lerr *jfmt.LexError
		if !errors.As(err, &lerr) {
			t.Fatalf("Tokenize: got error %v, want *LexError", err)
		}
		if got := lerr.Error(); got != "at 1:8: invalid literal 'x'" {
			t.Errorf("Error: got %q", got)
		}
		if len(got) != 5 {
			t.Errorf("Got %d tokens before the error, want 5", len(got))
		}
	})
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  jfmt.Token
		want string
	}{
		{jfmt.LBrace, "'{'"},
		{jfmt.RSquare, "']'"},
		{jfmt.Colon, "':'"},
		{jfmt.String, "string"},
		{jfmt.Number, "number"},
		{jfmt.Null, "null"},
		{jfmt.Token(200), "invalid token"},
	}
	for _, tc := range tests {
		if got := tc.tok.String(); got != tc.want {
			t.Errorf("Token(%d).String(): got %q, want %q", tc.tok, got, tc.want)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{"\x00\x01\x02", `"\u0000\u0001\u0002"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{`\ufffd`, `"\\ufffd"`},
		{"\u2028 \u2029 \ufffd", "\"\u2028 \u2029 \ufffd\""},
		{"This is the end\v", `"This is the end\u000b"`},
		{"<\x1e>", `"<\u001e>"`},
		{"/", `"/"`},
		{"héllo, 世界 😀", `"héllo, 世界 😀"`},
		{"bad \xff byte", `"bad \ufffd byte"`},
		{"lone \xed\xa0\x80", `"lone \ud800"`},
		{"\xed\xbf\xbf!", `"\udfff!"`},
	}
	for _, test := range tests {
		got := jfmt.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, true},                                        // missing quotes
		{`"missing quote`, ``, true},                          // missing quotes
		{`missing quote"`, ``, true},                          // missing quotes
		{`""`, ``, false},                                     // ok
		{`"ok go"`, "ok go", false},                           // ok
		{`"abc\ndef"`, "abc\ndef", false},                     // C escapes
		{`"\b\f\n\r\t"`, "\b\f\n\r\t", false},                 // C escapes
		{`"a \u0026 b"`, "a & b", false},                      // short Unicode escape
		{`"\u0041\u00e9"`, "A\u00e9", false},                  // Unicode escapes
		{`"\/"`, "/", false},                                  // solidus
		{`"\u"`, ``, true},                                    // incomplete Unicode escape
		{`"\u00"`, ``, true},                                  // incomplete Unicode escape
		{`"\u00x9"`, "\ufffd", false},                         // invalid Unicode escape
		{`"a\"b"`, `a"b`, false},                              // ok
		{`"a\\b\\cd"`, `a\b\cd`, false},                       // ok
		{`"\ud83d\ude00"`, "\U0001f600", false},               // surrogate pair
		{`"\uD83D\uDE00!"`, "\U0001f600!", false},             // surrogate pair, upper case
		{`"\ud800"`, "\xed\xa0\x80", false},                   // lone high surrogate
		{`"\udc00x"`, "\xed\xb0\x80x", false},                 // lone low surrogate
		{`"\ud800A"`, "\xed\xa0\x80A", false},                 // high surrogate, then not low
		{`"\ude00\ud83d"`, "\xed\xb8\x80\xed\xa0\xbd", false}, // reversed pair
	}

	for _, test := range tests {
		got, err := jfmt.Unquote([]byte(test.input))
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if err == nil && test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if cmp := string(got); cmp != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, cmp, test.want)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	tests := []string{
		"", "plain", "tab\there", `quote " and \ slash`,
		"héllo, 世界", "emoji 😀 pair", "\x00\x1f\x7f", " ",
		"lone \xed\xa0\x80 high", "lone \xed\xb0\x80 low",
	}
	for _, s := range tests {
		q := jfmt.Quote(s)
		got, err := jfmt.Unquote([]byte(q))
		if err != nil {
			t.Errorf("Unquote(%#q) failed: %v", q, err)
			continue
		}
		if string(got) != s {
			t.Errorf("Round trip %#q: got %#q via %#q", s, got, q)
		}
	}

	// Escape spellings are normalized but the decoded text is preserved.
	for _, in := range []string{`"\u0041"`, `"\ud83d\ude00"`, `"\ud800"`, `"\/"`} {
		dec, err := jfmt.Unquote([]byte(in))
		if err != nil {
			t.Fatalf("Unquote(%#q) failed: %v", in, err)
		}
		again, err := jfmt.Unquote([]byte(jfmt.Quote(string(dec))))
		if err != nil {
			t.Fatalf("Unquote(Quote(%#q)) failed: %v", dec, err)
		}
		if string(again) != string(dec) {
			t.Errorf("Re-encoding %#q: got %#q, want %#q", in, again, dec)
		}
	}
}
