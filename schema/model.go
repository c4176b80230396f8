/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package schema

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Field is one entry of a packet or container's ordered field list. Type is
// nil when resolution failed with ErrUnknownType; ResolveErr then carries
// the reason. A nil Type never fails schema load -- only the field's own
// decode.
type Field struct {
	Name       string
	RawExpr    DocNode
	Type       *Type
	ResolveErr error
}

// Container is a named struct reference: a field-name -> type-expression
// mapping, resolved lazily by the decoder via Document.Containers lookup.
type Container struct {
	Name   string
	Fields []Field
}

// PacketDef is a parsed `packet_*` top-level entry.
type PacketDef struct {
	Name   string
	ID     uint32
	Bound  Bound
	Fields []Field
}

// Document is the resolved schema: packet definitions keyed by id (allowing
// duplicates disambiguated by Bound), type aliases, and containers.
type Document struct {
	packetsByID map[uint32][]*PacketDef
	Containers  map[string]*Container
	aliasRaw    map[string]DocNode
}

// LookupPacket finds the packet definition matching id for the given
// direction. Per spec.md §4.1, duplicate ids across bounds are allowed; the
// direction disambiguates. Returns nil, false if nothing matches ("not an
// error" per spec.md §7 -- UnknownPacketId).
func (d *Document) LookupPacket(id uint32, dir Direction) (*PacketDef, bool) {
	for _, pd := range d.packetsByID[id] {
		if pd.Bound.Matches(dir) {
			return pd, true
		}
	}
	return nil, false
}

// Load reads a YAML protocol document from disk and resolves it.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return LoadBytes(b)
}

// LoadBytes parses and resolves a YAML protocol document already in memory.
func LoadBytes(b []byte) (*Document, error) {
	root, err := parseDocument(b)
	if err != nil {
		return nil, fmt.Errorf("schema: parse document: %w", err)
	}
	return Resolve(root)
}

// Resolve implements the Type Resolver of spec.md §4.1: a single walk of the
// document building packets_by_id, type_aliases, and containers, followed by
// eager (but non-fatal on UnknownType) field type resolution.
func Resolve(root DocNode) (*Document, error) {
	if root.Kind != NodeMapping {
		return nil, fmt.Errorf("schema: document root must be a mapping")
	}

	doc := &Document{
		packetsByID: make(map[uint32][]*PacketDef),
		Containers:  make(map[string]*Container),
		aliasRaw:    make(map[string]DocNode),
	}

	type rawPacket struct {
		name string
		node DocNode
	}
	var rawPackets []rawPacket
	containerRaw := make(map[string][]struct {
		name string
		expr DocNode
	})

	// First pass: classify every top-level key.
	for _, key := range root.Keys {
		val := root.Map[key]
		switch {
		case strings.HasPrefix(key, "!"):
			// reserved for future document-level metadata; ignored.
			continue
		case strings.HasPrefix(key, "packet_"):
			rawPackets = append(rawPackets, rawPacket{name: key, node: val})
		case val.Kind == NodeMapping:
			// container: ordered field-name -> type-expression mapping.
			var fields []struct {
				name string
				expr DocNode
			}
			for _, fk := range val.Keys {
				if fk == "_" || strings.HasPrefix(fk, "!") {
					continue
				}
				fields = append(fields, struct {
					name string
					expr DocNode
				}{fk, val.Map[fk]})
			}
			containerRaw[key] = fields
			doc.Containers[key] = &Container{Name: key}
		default:
			// type alias: right-hand side is a scalar or sequence type expr.
			doc.aliasRaw[key] = val
		}
	}

	tbl := &tables{aliases: doc.aliasRaw, containers: doc.Containers}

	// Resolve container field types.
	for name, fields := range containerRaw {
		c := doc.Containers[name]
		for _, f := range fields {
			field := Field{Name: f.name, RawExpr: f.expr}
			t, err := parseType(f.expr, tbl, map[string]bool{})
			if err != nil {
				if _, cyclic := err.(*ErrCyclicAlias); cyclic {
					return nil, fmt.Errorf("schema: container %s field %s: %w", name, f.name, err)
				}
				field.ResolveErr = err
			} else {
				field.Type = t
			}
			c.Fields = append(c.Fields, field)
		}
	}

	// Resolve packet definitions and their field types.
	for _, rp := range rawPackets {
		if rp.node.Kind != NodeMapping {
			return nil, fmt.Errorf("schema: %s must be a mapping", rp.name)
		}
		pd := &PacketDef{Name: rp.name}
		idSet := false
		for _, key := range rp.node.Keys {
			val := rp.node.Map[key]
			switch key {
			case "!id":
				id, err := parseIntLiteral(val.Scalar)
				if err != nil {
					return nil, fmt.Errorf("schema: %s !id: %w", rp.name, err)
				}
				pd.ID = id
				idSet = true
			case "!bound":
				switch val.Scalar {
				case "client":
					pd.Bound = BoundClient
				case "server":
					pd.Bound = BoundServer
				case "both", "":
					pd.Bound = BoundBoth
				default:
					return nil, fmt.Errorf("schema: %s !bound: invalid value %q", rp.name, val.Scalar)
				}
			default:
				if key == "_" || strings.HasPrefix(key, "!") {
					continue
				}
				field := Field{Name: key, RawExpr: val}
				t, err := parseType(val, tbl, map[string]bool{})
				if err != nil {
					if _, cyclic := err.(*ErrCyclicAlias); cyclic {
						return nil, fmt.Errorf("schema: %s field %s: %w", rp.name, key, err)
					}
					field.ResolveErr = err
				} else {
					field.Type = t
				}
				pd.Fields = append(pd.Fields, field)
			}
		}
		if !idSet {
			return nil, fmt.Errorf("schema: %s missing !id", rp.name)
		}
		doc.packetsByID[pd.ID] = append(doc.packetsByID[pd.ID], pd)
	}

	return doc, nil
}

// parseIntLiteral accepts hex ("0x01") or decimal ("1") packet ids.
func parseIntLiteral(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseUint(s[2:], 16, 32)
		return uint32(n), err
	}
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}
