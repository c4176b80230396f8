/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package dispatch implements the Packet Dispatcher of spec.md §4.3/§4.2:
// extracting the leading packet id, looking up its definition, and invoking
// the binary decoder on the remaining bytes.
package dispatch

import (
	"fmt"

	"github.com/gravwell/bedrockcap/decode"
	"github.com/gravwell/bedrockcap/schema"
)

// DecodedPacket is decode_packet's result: id, name, fields, partial_errors.
type DecodedPacket struct {
	ID            uint32
	Name          string
	Known         bool // false => UnknownPacketId: name is unset, fields empty, not an error
	Fields        *decode.Object
	PartialErrors []error
}

// DecodePacket implements decode_packet(bytes, direction) of spec.md §4.2.
func DecodePacket(doc *schema.Document, raw []byte, dir schema.Direction) *DecodedPacket {
	id, consumed := decode.PeekPacketID(raw)
	dp := &DecodedPacket{ID: id}

	pd, ok := doc.LookupPacket(id, dir)
	if !ok {
		return dp // UnknownPacketId: name unset, fields empty, not an error.
	}
	dp.Name = pd.Name
	dp.Known = true

	sub := decode.NewCursor(raw[consumed:])
	fields, failed, err := decode.DecodeFields(pd.Fields, sub, doc)
	dp.Fields = fields
	if failed && err != nil {
		dp.PartialErrors = append(dp.PartialErrors, err)
	}
	return dp
}

// Dispatcher selects the protocol Document to decode against based on a
// packet record's own server_version tag, so a single capture spanning a
// server upgrade mid-session still decodes every packet against the schema
// that was actually in effect when it was captured, per spec.md §3's
// per-record server_version field.
type Dispatcher struct {
	byVersion map[string]*schema.Document
	fallback  *schema.Document
}

// NewDispatcher builds a Dispatcher over docs (as returned by
// schema.LoadVersions), falling back to docs[fallbackVersion] for an empty
// or unrecognized version tag. fallbackVersion must be present in docs.
func NewDispatcher(docs map[string]*schema.Document, fallbackVersion string) (*Dispatcher, error) {
	fb, ok := docs[fallbackVersion]
	if !ok {
		return nil, fmt.Errorf("dispatch: fallback version %q not found among %d loaded versions", fallbackVersion, len(docs))
	}
	return &Dispatcher{byVersion: docs, fallback: fb}, nil
}

// Dispatch decodes raw against the Document registered for version,
// falling back to the Dispatcher's default version when version is empty
// or unrecognized -- an unrecognized version is never fatal, matching
// UnknownPacketId's "not an error" treatment of unrecognized input.
func (d *Dispatcher) Dispatch(version string, raw []byte, dir schema.Direction) *DecodedPacket {
	doc, ok := d.byVersion[version]
	if !ok {
		doc = d.fallback
	}
	return DecodePacket(doc, raw, dir)
}
