/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package decode implements the schema-driven binary decoder: a
// position-tracked cursor over a byte slice that interprets a type AST
// (see package schema) and produces a generic, JSON-like value tree.
package decode

import (
	"math"
	"sort"
	"strconv"
)

// Kind tags the concrete type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is the decoded value tree: Null | Bool | Number | String | Array | Object.
// It mirrors the "polymorphic value tree" design note: a tagged sum rather
// than subclassing, implemented here as a small closed interface.
type Value interface {
	Kind() Kind
}

type Null struct{}

func (Null) Kind() Kind { return KindNull }

type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Number holds decoded integers and floats as float64, matching the
// reference decoder's number representation: exact up to 2^53, after which
// values that still fit in int64 lose precision the same way a JS-style
// decoder would. Integers whose magnitude exceeds math.MaxInt64 are never
// represented as Number -- see NumberOrString.
type Number float64

func (Number) Kind() Kind { return KindNumber }

// String holds decoded strings, hex-rendered buffers ("0x<hex>"),
// tagged native blobs ("[native: 0x<hex>]"), and big-integer literals for
// values above the Number boundary.
type String string

func (String) Kind() Kind { return KindString }

type Array []Value

func (Array) Kind() Kind { return KindArray }

// Object is an insertion-order-preserving string-keyed map. Wire field order
// is preserved here for display; callers that need deterministic iteration
// (the differ) use SortedKeys explicitly rather than relying on Keys order.
type Object struct {
	keys []string
	vals map[string]Value
}

func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

func (*Object) Kind() Kind { return KindObject }

// Set inserts or overwrites a key, preserving first-insertion order.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Keys returns field names in wire (insertion) order.
func (o *Object) Keys() []string {
	return o.keys
}

// SortedKeys returns field names sorted lexically, for deterministic
// iteration by the differ.
func (o *Object) SortedKeys() []string {
	ks := make([]string, len(o.keys))
	copy(ks, o.keys)
	sort.Strings(ks)
	return ks
}

func (o *Object) Len() int { return len(o.keys) }

// NumberOrString implements the Open Question (b) decision pinned in
// SPEC_FULL.md: unsigned 64-bit magnitudes above math.MaxInt64 are rendered
// as a decimal string (the JSON-number/BigInt split a JS-hosted decoder
// would need); everything else becomes a Number.
func NumberOrString(u uint64) Value {
	if u > math.MaxInt64 {
		return String(strconv.FormatUint(u, 10))
	}
	return Number(float64(u))
}

// SignedNumberOrString applies the same boundary to a signed magnitude.
func SignedNumberOrString(i int64) Value {
	return Number(float64(i))
}

func ErrorMarker(msg string) String {
	return String("[decode_error: " + msg + "]")
}
