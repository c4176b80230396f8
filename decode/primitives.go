/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package decode

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/gravwell/bedrockcap/schema"
)

// DecodeValue decodes one value per type-AST node, per spec.md §4.2.
func DecodeValue(t *schema.Type, c *Cursor, doc *schema.Document) (Value, error) {
	switch t.Kind {
	case schema.KindInt:
		return decodeInt(t, c)
	case schema.KindFloat:
		return decodeFloat(t, c)
	case schema.KindBool:
		return decodeBool(c)
	case schema.KindVarint:
		return decodeVarint(t, c)
	case schema.KindZigzag:
		return decodeZigzag(t, c)
	case schema.KindString:
		return decodeString(t, c)
	case schema.KindBuffer:
		return decodeBuffer(t, c)
	case schema.KindArray:
		return decodeArray(t, c, doc)
	case schema.KindUUID:
		return decodeUUID(c)
	case schema.KindVec2F:
		return decodeVec(c, 2)
	case schema.KindVec3F:
		return decodeVec(c, 3)
	case schema.KindEncapsulated:
		return decodeEncapsulated(t, c, doc)
	case schema.KindContainer:
		return decodeContainer(t, c, doc)
	case schema.KindNative:
		return decodeNative(t, c)
	case schema.KindRestBuffer:
		return String("0x" + hex.EncodeToString(c.Rest())), nil
	}
	return nil, fmt.Errorf("decode: unhandled type kind %v", t.Kind)
}

func decodeInt(t *schema.Type, c *Cursor) (Value, error) {
	n := t.IntWidth / 8
	b, err := c.Take(n)
	if err != nil {
		return nil, err
	}
	switch t.IntWidth {
	case 8:
		if t.IntSigned {
			return SignedNumberOrString(int64(int8(b[0]))), nil
		}
		return NumberOrString(uint64(b[0])), nil
	case 16:
		u := binary.LittleEndian.Uint16(b)
		if t.IntSigned {
			return SignedNumberOrString(int64(int16(u))), nil
		}
		return NumberOrString(uint64(u)), nil
	case 32:
		u := binary.LittleEndian.Uint32(b)
		if t.IntSigned {
			return SignedNumberOrString(int64(int32(u))), nil
		}
		return NumberOrString(uint64(u)), nil
	case 64:
		u := binary.LittleEndian.Uint64(b)
		if t.IntSigned {
			return SignedNumberOrString(int64(u)), nil
		}
		return NumberOrString(u), nil
	}
	return nil, fmt.Errorf("decode: invalid int width %d", t.IntWidth)
}

func decodeFloat(t *schema.Type, c *Cursor) (Value, error) {
	if t.FloatWidth == 32 {
		b, err := c.Take(4)
		if err != nil {
			return nil, err
		}
		bits := binary.LittleEndian.Uint32(b)
		return Number(float64(math.Float32frombits(bits))), nil
	}
	b, err := c.Take(8)
	if err != nil {
		return nil, err
	}
	bits := binary.LittleEndian.Uint64(b)
	return Number(math.Float64frombits(bits)), nil
}

func decodeBool(c *Cursor) (Value, error) {
	b, err := c.Take(1)
	if err != nil {
		return nil, err
	}
	return Bool(b[0] != 0), nil
}

func decodeVarint(t *schema.Type, c *Cursor) (Value, error) {
	if t.VarWidth == 32 {
		v, err := ReadVarint32(c)
		if err != nil {
			return nil, err
		}
		return NumberOrString(uint64(v)), nil
	}
	v, err := ReadVarint64(c)
	if err != nil {
		return nil, err
	}
	return NumberOrString(v), nil
}

func decodeZigzag(t *schema.Type, c *Cursor) (Value, error) {
	if t.VarWidth == 32 {
		v, err := ReadVarint32(c)
		if err != nil {
			return nil, err
		}
		return SignedNumberOrString(int64(Zigzag32(v))), nil
	}
	v, err := ReadVarint64(c)
	if err != nil {
		return nil, err
	}
	return SignedNumberOrString(Zigzag64(v)), nil
}

func decodeString(t *schema.Type, c *Cursor) (Value, error) {
	n, err := ReadCount(c, t.CountType)
	if err != nil {
		return nil, err
	}
	if int(n) > c.Remaining() {
		return nil, ErrLengthExceeds
	}
	b, err := c.Take(int(n))
	if err != nil {
		return nil, err
	}
	if t.StrVariant == schema.StringLatin {
		// latin-1: each byte is a codepoint.
		rs := make([]rune, len(b))
		for i, by := range b {
			rs[i] = rune(by)
		}
		return String(string(rs)), nil
	}
	return String(string(b)), nil
}

func decodeBuffer(t *schema.Type, c *Cursor) (Value, error) {
	n, err := ReadCount(c, t.BufCountType)
	if err != nil {
		return nil, err
	}
	if int(n) > c.Remaining() {
		return nil, ErrLengthExceeds
	}
	b, err := c.Take(int(n))
	if err != nil {
		return nil, err
	}
	return String("0x" + hex.EncodeToString(b)), nil
}

func decodeArray(t *schema.Type, c *Cursor, doc *schema.Document) (Value, error) {
	n, err := ReadCount(c, t.ArrCount)
	if err != nil {
		return nil, err
	}
	// Guard against adversarial/corrupt counts: cap at remaining bytes,
	// since every element must consume at least one byte.
	if int(n) > c.Remaining() {
		n = uint32(c.Remaining())
	}
	arr := make(Array, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := DecodeValue(t.ElemType, c, doc)
		if err != nil {
			return arr, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func decodeUUID(c *Cursor) (Value, error) {
	b, err := c.Take(16)
	if err != nil {
		return nil, err
	}
	s := fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
	return String(s), nil
}

func decodeVec(c *Cursor, n int) (Value, error) {
	o := NewObject()
	names := []string{"x", "y", "z"}
	for i := 0; i < n; i++ {
		b, err := c.Take(4)
		if err != nil {
			return o, err
		}
		bits := binary.LittleEndian.Uint32(b)
		o.Set(names[i], Number(float64(math.Float32frombits(bits))))
	}
	return o, nil
}

func decodeEncapsulated(t *schema.Type, c *Cursor, doc *schema.Document) (Value, error) {
	n, err := ReadVarint32(c)
	if err != nil {
		return nil, err
	}
	if int(n) > c.Remaining() {
		return nil, ErrLengthExceeds
	}
	sub, err := c.Sub(int(n))
	if err != nil {
		return nil, err
	}
	// The parent cursor has already advanced past the N bytes (Sub/Take
	// semantics), regardless of how much the inner decode below consumes --
	// this is the length-containment guarantee spec.md §4.2 requires.
	v, err := DecodeValue(t.Inner, sub, doc)
	return v, err // an inner decode error is returned like any other field error; the parent cursor is already past the N bytes
}

func decodeContainer(t *schema.Type, c *Cursor, doc *schema.Document) (Value, error) {
	cdef, ok := doc.Containers[t.ContainerName]
	if !ok {
		return nil, &UnknownContainerError{Name: t.ContainerName}
	}
	obj, _, err := DecodeFields(cdef.Fields, c, doc)
	return obj, err
}

func decodeNative(t *schema.Type, c *Cursor) (Value, error) {
	b := c.Rest()
	return String(fmt.Sprintf("[native: 0x%s]", hex.EncodeToString(b))), nil
}

// UnknownContainerError is returned when a Container(name) type AST node
// references a name absent from the document's container table.
type UnknownContainerError struct{ Name string }

func (e *UnknownContainerError) Error() string {
	return fmt.Sprintf("decode: unknown container %q", e.Name)
}
