/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package decode

import (
	"encoding/binary"

	"github.com/gravwell/bedrockcap/schema"
)

// ReadCount reads a CountType and returns a non-negative 32-bit magnitude,
// per spec.md §3/§4.1: signed widenings are reinterpreted bit-for-bit rather
// than sign-extended, so a length never comes out negative.
func ReadCount(c *Cursor, ct schema.CountType) (uint32, error) {
	switch ct.Kind {
	case schema.CountVarint:
		return ReadVarint32(c)
	case schema.CountZigzag32:
		v, err := ReadVarint32(c)
		if err != nil {
			return 0, err
		}
		return uint32(Zigzag32(v)), nil
	case schema.CountLI16, schema.CountLU16:
		b, err := c.Take(2)
		if err != nil {
			return 0, err
		}
		return uint32(binary.LittleEndian.Uint16(b)), nil
	case schema.CountLI32, schema.CountLU32:
		b, err := c.Take(4)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint32(b), nil
	case schema.CountLI64:
		b, err := c.Take(8)
		if err != nil {
			return 0, err
		}
		return uint32(binary.LittleEndian.Uint64(b)), nil
	case schema.CountFixed:
		return ct.Fixed, nil
	}
	return ReadVarint32(c)
}
