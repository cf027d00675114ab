// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSON values,
// and a parser that constructs syntax trees from JSON source.
package ast

import (
	"strconv"
	"strings"

	"github.com/creachadair/jfmt"
)

// A Value is an arbitrary JSON value. The concrete type is one of Object,
// Array, String, Number, Bool, or the type of Null.
type Value interface {
	// JSON renders the value as compact JSON text.
	JSON() string
}

// An Object is an ordered collection of key-value members.
// Keys are unique within an object constructed by the parser.
type Object []*Member

// Len reports the number of members in o.
func (o Object) Len() int { return len(o) }

// Find returns the member of o with the given key, or nil. If o has more than
// one member with that key, the last one is returned.
func (o Object) Find(key string) *Member {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i]
		}
	}
	return nil
}

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	if len(o) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string // decoded
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, value Value) *Member { return &Member{Key: key, Value: value} }

// JSON renders the member as a key-value pair.
func (m *Member) JSON() string { return jfmt.Quote(m.Key) + ":" + m.Value.JSON() }

// An Array is a sequence of values.
type Array []Value

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	if len(a) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// A String is a string value. The contents are stored decoded.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return jfmt.Quote(string(s)) }

// A Number is a numeric value, stored as its literal text so that rendering
// reproduces the original digits.
type Number string

// Int returns the Number for the integer z.
func Int(z int64) Number { return Number(strconv.FormatInt(z, 10)) }

// Float returns the Number for the shortest representation of f.
func Float(f float64) Number { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// JSON satisfies the Value interface.
func (n Number) JSON() string { return string(n) }

// IsInt reports whether n is written as an integer, without a fraction or an
// exponent.
func (n Number) IsInt() bool { return !strings.ContainsAny(string(n), ".eE") }

// Float64 returns the floating-point value nearest to n.
func (n Number) Float64() (float64, error) { return strconv.ParseFloat(string(n), 64) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

type null struct{}

// Null is the null constant.
var Null Value = null{}

func (null) JSON() string { return "null" }
