/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gravwell/bedrockcap/schema"
)

func TestReadCountVarint(t *testing.T) {
	c := NewCursor([]byte{0x05})
	n, err := ReadCount(c, schema.CountType{Kind: schema.CountVarint})
	require.NoError(t, err)
	require.Equal(t, uint32(5), n)
}

func TestReadCountZigzag32IsBitCastNotSignExtended(t *testing.T) {
	// varint-encoded 1 zigzag-decodes to -1, which ReadCount reinterprets
	// bit-for-bit as uint32(4294967295) rather than clamping/erroring.
	c := NewCursor([]byte{0x01})
	n, err := ReadCount(c, schema.CountType{Kind: schema.CountZigzag32})
	require.NoError(t, err)
	require.Equal(t, uint32(4294967295), n)
}

func TestReadCountLI16(t *testing.T) {
	c := NewCursor([]byte{0x34, 0x12})
	n, err := ReadCount(c, schema.CountType{Kind: schema.CountLI16})
	require.NoError(t, err)
	require.Equal(t, uint32(0x1234), n)
}

func TestReadCountLU16(t *testing.T) {
	c := NewCursor([]byte{0xFF, 0xFF})
	n, err := ReadCount(c, schema.CountType{Kind: schema.CountLU16})
	require.NoError(t, err)
	require.Equal(t, uint32(0xFFFF), n)
}

func TestReadCountLI32(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x00, 0x00, 0x00})
	n, err := ReadCount(c, schema.CountType{Kind: schema.CountLI32})
	require.NoError(t, err)
	require.Equal(t, uint32(1), n)
}

func TestReadCountLI64TruncatesToU32(t *testing.T) {
	c := NewCursor([]byte{0x05, 0, 0, 0, 0, 0, 0, 0})
	n, err := ReadCount(c, schema.CountType{Kind: schema.CountLI64})
	require.NoError(t, err)
	require.Equal(t, uint32(5), n)
}

func TestReadCountFixedConsumesNoBytes(t *testing.T) {
	c := NewCursor(nil)
	n, err := ReadCount(c, schema.CountType{Kind: schema.CountFixed, Fixed: 42})
	require.NoError(t, err)
	require.Equal(t, uint32(42), n)
}

func TestReadCountTruncated(t *testing.T) {
	c := NewCursor([]byte{0x01})
	_, err := ReadCount(c, schema.CountType{Kind: schema.CountLI32})
	require.ErrorIs(t, err, ErrTruncatedRead)
}
