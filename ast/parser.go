// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/creachadair/jfmt"
)

// Options control the behaviour of the parser. A zero value gives strict JSON
// with the default nesting limit.
type Options struct {
	// Accept comments and trailing commas. Comments are discarded.
	Relaxed bool

	// Maximum nesting depth of objects and arrays; zero means
	// jfmt.DefaultMaxDepth.
	MaxDepth int
}

func (o Options) stream(r io.Reader) *jfmt.Stream {
	st := jfmt.NewStream(r)
	st.AllowComments(o.Relaxed)
	st.AllowTrailingCommas(o.Relaxed)
	st.SetMaxDepth(o.MaxDepth)
	return st
}

// Parse parses and returns the JSON values from r. In case of error, any
// complete values already parsed are returned along with the error.
func Parse(r io.Reader) ([]Value, error) {
	h := new(parseHandler)
	st := Options{}.stream(r)
	for {
		if err := st.ParseOne(h); err == io.EOF {
			return h.out, nil
		} else if err != nil {
			return h.out, err
		}
	}
}

// ParseSingle parses and returns a single JSON value from r. It is an error if
// r is empty, or contains anything other than whitespace after the value.
func ParseSingle(r io.Reader) (Value, error) { return ParseWith(r, Options{}) }

// ParseWith parses and returns a single JSON value from r using the given
// options. Errors in the input are reported as *jfmt.LexError or
// *jfmt.SyntaxError values.
func ParseWith(r io.Reader, opts Options) (Value, error) {
	h := new(parseHandler)
	if err := opts.stream(r).ParseSingle(h); err != nil {
		return nil, err
	} else if len(h.out) != 1 {
		return nil, errors.New("incomplete value")
	}
	return h.out[0], nil
}

// A parseHandler implements the jfmt.Handler interface to construct abstract
// syntax trees for JSON values.
type parseHandler struct {
	stk []*frame
	out []Value
}

// A frame is an object or array under construction.
type frame struct {
	obj   Object
	arr   Array
	isObj bool

	key  string         // key of the pending object member
	keys map[string]int // offsets of keys already in obj
}

// add adds v to the object or array in f. A member whose key is already
// present replaces the value of the earlier member, keeping its position.
func (f *frame) add(v Value) {
	if !f.isObj {
		f.arr = append(f.arr, v)
		return
	}
	if i, ok := f.keys[f.key]; ok {
		f.obj[i].Value = v
		return
	}
	if f.keys == nil {
		f.keys = make(map[string]int)
	}
	f.keys[f.key] = len(f.obj)
	f.obj = append(f.obj, &Member{Key: f.key, Value: v})
}

func (h *parseHandler) top() *frame { return h.stk[len(h.stk)-1] }

func (h *parseHandler) pop() *frame {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(f *frame) { h.stk = append(h.stk, f) }

// reduce adds a completed value to the enclosing frame, or to the output if
// v is at the top level.
func (h *parseHandler) reduce(v Value) {
	if len(h.stk) == 0 {
		h.out = append(h.out, v)
	} else {
		h.top().add(v)
	}
}

func (h *parseHandler) BeginObject(loc jfmt.Anchor) error {
	h.push(&frame{obj: Object{}, isObj: true})
	return nil
}

func (h *parseHandler) EndObject(loc jfmt.Anchor) error {
	h.reduce(h.pop().obj)
	return nil
}

func (h *parseHandler) BeginArray(loc jfmt.Anchor) error {
	h.push(&frame{arr: Array{}})
	return nil
}

func (h *parseHandler) EndArray(loc jfmt.Anchor) error {
	h.reduce(h.pop().arr)
	return nil
}

func (h *parseHandler) BeginMember(loc jfmt.Anchor) error {
	key, err := jfmt.Unquote(loc.Text())
	if err != nil {
		return err
	}
	h.top().key = string(key)
	return nil
}

func (h *parseHandler) EndMember(loc jfmt.Anchor) error { return nil }

func (h *parseHandler) Value(loc jfmt.Anchor) error {
	v, err := AnchorValue(loc)
	if err != nil {
		return err
	}
	h.reduce(v)
	return nil
}

func (h *parseHandler) EndOfInput(loc jfmt.Anchor) {}

// AnchorValue returns the value described by the current token of loc, which
// must be a string, number, or constant.
func AnchorValue(loc jfmt.Anchor) (Value, error) {
	switch loc.Token() {
	case jfmt.String:
		dec, err := jfmt.Unquote(loc.Text())
		if err != nil {
			return nil, err
		}
		return String(dec), nil
	case jfmt.Number:
		return Number(loc.Text()), nil
	case jfmt.True, jfmt.False:
		return Bool(loc.Token() == jfmt.True), nil
	case jfmt.Null:
		return Null, nil
	default:
		return nil, fmt.Errorf("unknown value %v", loc.Token())
	}
}
