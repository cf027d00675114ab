// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfmt

import (
	"errors"

	"github.com/creachadair/jfmt/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added. Non-ASCII characters are emitted as
// literal UTF-8.
func Quote(src string) string {
	buf := make([]byte, 0, len(src)+2)
	buf = append(buf, '"')
	buf = escape.Append(buf, mem.S(src))
	return string(append(buf, '"'))
}

// Unquote decodes a JSON string value.  Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// An unpaired UTF-16 surrogate escape is decoded to the WTF-8 encoding of
// that surrogate, which Quote turns back into the same escape.
func Unquote(src []byte) ([]byte, error) {
	n := len(src)
	if n < 2 || src[0] != '"' || src[n-1] != '"' {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.B(src[1 : n-1]))
}
