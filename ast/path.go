// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Path traverses a sequential path through the structure of a value starting
// at v, where path elements are either strings (denoting object keys) or
// integers (denoting offsets into arrays).  If the path is valid, the element
// reached is returned. In case of error, the input v is returned along with
// the error.
//
// If a path element is a string, the corresponding value must be an object,
// and the string resolves an object member with that name.
//
// If a path element is an integer and the corresponding value is an array,
// the integer resolves to an index in the array. Negative indices count
// backward from the end of the array (-1 is last, -2 second last, etc.).
// If the value is an object, the integer resolves an object member whose
// name is its decimal text.
func Path(v Value, path ...any) (Value, error) {
	cur := v
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			o, ok := cur.(Object)
			if !ok {
				return v, fmt.Errorf("cannot look up key %q in %s", t, kindOf(cur))
			}
			m := o.Find(t)
			if m == nil {
				return v, fmt.Errorf("key %q not found", t)
			}
			cur = m.Value
		case int:
			if o, ok := cur.(Object); ok {
				key := strconv.Itoa(t)
				m := o.Find(key)
				if m == nil {
					return v, fmt.Errorf("key %q not found", key)
				}
				cur = m.Value
				continue
			}
			a, ok := cur.(Array)
			if !ok {
				return v, fmt.Errorf("cannot index %s with %d", kindOf(cur), t)
			}
			i, ok := fixArrayBound(len(a), t)
			if !ok {
				return v, fmt.Errorf("array index %d out of bounds (n=%d)", t, len(a))
			}
			cur = a[i]
		default:
			return v, fmt.Errorf("invalid path element %T", elt)
		}
	}
	return cur, nil
}

// SplitPath splits a dotted path expression like "items.0.name" into path
// elements suitable for Path. Elements that parse as integers are array
// offsets, all others are object keys. Only integers in canonical form are
// converted, so "01" and "+1" remain keys. An empty string yields no elements.
func SplitPath(s string) []any {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	out := make([]any, len(parts))
	for i, p := range parts {
		if z, err := strconv.Atoi(p); err == nil && strconv.Itoa(z) == p {
			out[i] = z
		} else {
			out[i] = p
		}
	}
	return out
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

func kindOf(v Value) string {
	switch v.(type) {
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	default:
		return "null"
	}
}
