// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package pretty

import (
	"cmp"
	"fmt"
	"strings"
)

// Limits on the width of a space indent.
const (
	MinWidth     = 1
	MaxWidth     = 8
	DefaultWidth = 2
)

// An Indent is the whitespace added once per level of nesting: either Width
// spaces, or a single tab. The zero value is DefaultWidth spaces.
type Indent struct {
	Tab   bool // indent with one tab per level; Width is ignored
	Width int  // spaces per level, MinWidth to MaxWidth
}

// Spaces returns an Indent of n spaces per level.
func Spaces(n int) Indent { return Indent{Width: n} }

// Tabs returns an Indent of one tab per level.
func Tabs() Indent { return Indent{Tab: true} }

// ParseIndent returns the Indent described by kind, which is "space" or
// "tab" (ignoring case), and width. An empty kind means "space". The width
// is only checked for space indents.
func ParseIndent(kind string, width int) (Indent, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "tab":
		return Tabs(), nil
	case "space", "":
		in := Spaces(width)
		if width == 0 {
			return in, fmt.Errorf("invalid indent width %d: must be %d to %d", width, MinWidth, MaxWidth)
		}
		return in, in.Validate()
	default:
		return Indent{}, fmt.Errorf("invalid indent type %q (want \"space\" or \"tab\")", kind)
	}
}

// Validate reports an error if in has a width out of range.
// A zero width is accepted and means DefaultWidth.
func (in Indent) Validate() error {
	if in.Tab || in.Width == 0 {
		return nil
	}
	if in.Width < MinWidth || in.Width > MaxWidth {
		return fmt.Errorf("invalid indent width %d: must be %d to %d", in.Width, MinWidth, MaxWidth)
	}
	return nil
}

// Unit returns the whitespace inserted for one level of nesting.
func (in Indent) Unit() string {
	if in.Tab {
		return "\t"
	}
	return strings.Repeat(" ", cmp.Or(in.Width, DefaultWidth))
}

func (in Indent) String() string {
	if in.Tab {
		return "tab"
	}
	w := cmp.Or(in.Width, DefaultWidth)
	if w == 1 {
		return "1 space"
	}
	return fmt.Sprintf("%d spaces", w)
}
