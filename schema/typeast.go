/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package schema implements the Schema Model and Type Resolver: parsing a
// declarative protocol document into packet definitions, type aliases, and
// container definitions, and normalizing type expressions into a Type AST
// that package decode interprets one node at a time.
package schema

// Kind tags a Type AST node.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindVarint
	KindZigzag
	KindString
	KindBuffer
	KindArray
	KindUUID
	KindVec2F
	KindVec3F
	KindEncapsulated
	KindContainer
	KindNative
	KindRestBuffer
)

// StringVariant distinguishes the named string encodings of spec.md §3.
type StringVariant int

const (
	StringGeneric StringVariant = iota // "string": utf8, varint-prefixed
	StringLittle                       // "LittleString": utf8, li32-prefixed
	StringShort                        // "ShortString": utf8, li16-prefixed
	StringLatin                        // "LatinString": latin-1, varint-prefixed
)

// CountKind tags a CountType.
type CountKind int

const (
	CountVarint CountKind = iota
	CountZigzag32
	CountLI16
	CountLI32
	CountLI64
	CountLU16
	CountLU32
	CountFixed
)

// CountType is one of varint, zigzag32, li16, li32, li64, lu16, lu32, or a
// fixed literal count. Reading a count always yields a non-negative 32-bit
// magnitude.
type CountType struct {
	Kind  CountKind
	Fixed uint32 // only meaningful when Kind == CountFixed
}

var DefaultCountType = CountType{Kind: CountVarint}

// Type is the normalized type-expression AST. Exactly one Kind-specific
// field group is meaningful for a given Kind.
type Type struct {
	Kind Kind

	// KindInt
	IntWidth  int // 8, 16, 32, 64
	IntSigned bool

	// KindFloat
	FloatWidth int // 32, 64

	// KindVarint, KindZigzag
	VarWidth int // 32 or 64

	// KindString
	StrVariant StringVariant
	CountType  CountType

	// KindBuffer
	BufCountType CountType

	// KindArray
	ElemType  *Type
	ArrCount  CountType

	// KindEncapsulated
	Inner *Type

	// KindContainer
	ContainerName string

	// KindNative
	NativeTag string
}
