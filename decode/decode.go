/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package decode

import (
	"strings"

	"github.com/gravwell/bedrockcap/schema"
)

// DecodeFields implements decode_fields of spec.md §4.2: fields are decoded
// in schema order; `_` and any `!`-prefixed field name are reserved and
// skipped; on the first field error, a "[decode_error: ...]" marker is
// inserted under that field's name and decoding stops -- downstream field
// positions are unreliable once alignment is lost, but the fields decoded
// so far (and the packet id/name, handled by the caller) are still
// returned. The returned error is the same condition recorded in the
// marker, surfaced so callers (e.g. the dispatcher) can log it.
func DecodeFields(fields []schema.Field, c *Cursor, doc *schema.Document) (*Object, bool, error) {
	obj := NewObject()
	for _, f := range fields {
		if f.Name == "_" || strings.HasPrefix(f.Name, "!") {
			continue
		}
		if f.ResolveErr != nil {
			obj.Set(f.Name, ErrorMarker(f.ResolveErr.Error()))
			return obj, true, f.ResolveErr
		}
		v, err := DecodeValue(f.Type, c, doc)
		if err != nil {
			obj.Set(f.Name, ErrorMarker(err.Error()))
			return obj, true, err
		}
		obj.Set(f.Name, v)
	}
	return obj, false, nil
}
