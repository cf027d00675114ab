// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Append appends the escaped contents of src to buf, without quotation
// marks, and returns the extended slice.
//
// Double quotes, backslashes, and control characters are escaped. All other
// characters are copied as literal UTF-8, except that a WTF-8 encoded
// surrogate is written as a \u escape and any other invalid byte is written
// as �.
func Append(buf []byte, src mem.RO) []byte {
	putByte := func(bs ...byte) { buf = append(buf, bs...) }
	putHex4 := func(v int) {
		putByte('\\', 'u', hexDigit[v>>12&15], hexDigit[v>>8&15], hexDigit[v>>4&15], hexDigit[v&15])
	}

	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		switch {
		case r < ' ':
			if b := controlEsc[r]; b != 0 {
				putByte('\\', b)
			} else {
				putHex4(int(r))
			}
		case r == '\\' || r == '"':
			putByte('\\', byte(r))
		case r < utf8.RuneSelf:
			putByte(byte(r))
		case r == utf8.RuneError && n <= 1:
			if v, ok := decodeSurrogate(src); ok {
				putHex4(int(v))
				n = 3
			} else {
				putHex4(utf8.RuneError)
				n = 1
			}
		default:
			buf = mem.Append(buf, src.SliceTo(n))
		}
		src = src.SliceFrom(n)
	}
	return buf
}

// Quote encodes a string to escape characters for inclusion in a JSON string.
func Quote(src mem.RO) []byte { return Append(make([]byte, 0, src.Len()), src) }

// decodeSurrogate reports whether src begins with the WTF-8 encoding of a
// UTF-16 surrogate, and if so returns its value.
func decodeSurrogate(src mem.RO) (rune, bool) {
	if src.Len() < 3 {
		return 0, false
	}
	b0, b1, b2 := src.At(0), src.At(1), src.At(2)
	if b0 != 0xed || b1 < 0xa0 || b1 > 0xbf || b2 < 0x80 || b2 > 0xbf {
		return 0, false
	}
	return 0xd000 | rune(b1&0x3f)<<6 | rune(b2&0x3f), true
}
