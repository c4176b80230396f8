/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package decode

import "errors"

// Error taxonomy per spec.md §7. DecodeFields records each of these as a
// field marker, truncates the record, and also returns the error; the
// dispatcher's DecodePacket keeps it in PartialErrors rather than failing
// the packet.
var (
	ErrTruncatedRead  = errors.New("truncated read")
	ErrVarintOverflow = errors.New("varint overflow")
	ErrLengthExceeds  = errors.New("length exceeds remaining bytes")
)
