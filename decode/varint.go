/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package decode

// ReadVarint32 reads an LEB128-style variable-length unsigned integer of up
// to 5 bytes (7 data bits per byte, MSB continuation). A continuation bit
// still set on the 5th byte is ErrVarintOverflow.
func ReadVarint32(c *Cursor) (uint32, error) {
	v, _, err := readVarint(c, 5)
	return uint32(v), err
}

// ReadVarint64 reads up to 10 bytes.
func ReadVarint64(c *Cursor) (uint64, error) {
	v, _, err := readVarint(c, 10)
	return v, err
}

func readVarint(c *Cursor, maxBytes int) (result uint64, consumed int, err error) {
	var shift uint
	for i := 0; i < maxBytes; i++ {
		b, e := c.Take(1)
		if e != nil {
			return 0, i, ErrTruncatedRead
		}
		consumed++
		result |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			return result, consumed, nil
		}
		shift += 7
	}
	return 0, consumed, ErrVarintOverflow
}

// Zigzag32 maps an unsigned varint-decoded magnitude back to its signed
// 32-bit source value: n -> (n >> 1) XOR -(n & 1).
func Zigzag32(n uint32) int32 {
	return int32(n>>1) ^ -int32(n&1)
}

// Zigzag64 is the 64-bit analogue.
func Zigzag64(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

// PeekPacketID extracts the leading varint32 packet id without requiring a
// full 5-byte budget failure to be fatal: per spec.md §4.3, if parsing runs
// past 5 bytes with the continuation bit still set, the first byte is
// returned as an 8-bit id with consumed=1 (best-effort for unknown framings).
func PeekPacketID(buf []byte) (id uint32, consumed int) {
	c := NewCursor(buf)
	v, n, err := readVarint(c, 5)
	if err != nil {
		if len(buf) > 0 {
			return uint32(buf[0]), 1
		}
		return 0, 0
	}
	return uint32(v), n
}
