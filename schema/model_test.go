/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadBytesBasicPacketAndField(t *testing.T) {
	doc, err := LoadBytes([]byte(`
packet_login:
  '!id': 0x01
  '!bound': server
  username: string
`))
	require.NoError(t, err)

	pd, ok := doc.LookupPacket(1, Serverbound)
	require.True(t, ok)
	require.Equal(t, "packet_login", pd.Name)
	require.Len(t, pd.Fields, 1)
	require.Equal(t, "username", pd.Fields[0].Name)
	require.NotNil(t, pd.Fields[0].Type)
	require.Equal(t, KindString, pd.Fields[0].Type.Kind)
}

func TestLookupPacketDisambiguatesByBound(t *testing.T) {
	doc, err := LoadBytes([]byte(`
packet_move:
  '!id': 5
  '!bound': client
  x: f32
packet_move_ack:
  '!id': 5
  '!bound': server
  seq: varint32
`))
	require.NoError(t, err)

	client, ok := doc.LookupPacket(5, Clientbound)
	require.True(t, ok)
	require.Equal(t, "packet_move", client.Name)

	server, ok := doc.LookupPacket(5, Serverbound)
	require.True(t, ok)
	require.Equal(t, "packet_move_ack", server.Name)
}

func TestLookupPacketUnknownIDNotAnError(t *testing.T) {
	doc, err := LoadBytes([]byte(`
packet_ping:
  '!id': 1
`))
	require.NoError(t, err)
	_, ok := doc.LookupPacket(999, Clientbound)
	require.False(t, ok)
}

func TestResolveUnknownFieldTypeFailsOnlyThatField(t *testing.T) {
	doc, err := LoadBytes([]byte(`
packet_weird:
  '!id': 2
  good: u8
  bad: some_nonexistent_type
`))
	require.NoError(t, err)
	pd, ok := doc.LookupPacket(2, Clientbound)
	require.True(t, ok)
	require.Len(t, pd.Fields, 2)
	require.NotNil(t, pd.Fields[0].Type)
	require.Nil(t, pd.Fields[1].Type)
	require.Error(t, pd.Fields[1].ResolveErr)
	var unk *ErrUnknownType
	require.ErrorAs(t, pd.Fields[1].ResolveErr, &unk)
}

func TestResolveCyclicAliasFailsWholeLoad(t *testing.T) {
	_, err := LoadBytes([]byte(`
alias_a: alias_b
alias_b: alias_a
packet_uses_cycle:
  '!id': 3
  field: alias_a
`))
	require.Error(t, err)
}

func TestResolveContainerFieldOrderPreserved(t *testing.T) {
	doc, err := LoadBytes([]byte(`
vec3:
  x: f32
  y: f32
  z: f32
packet_pos:
  '!id': 4
  position: vec3
`))
	require.NoError(t, err)
	c, ok := doc.Containers["vec3"]
	require.True(t, ok)
	require.Equal(t, []string{"x", "y", "z"}, []string{c.Fields[0].Name, c.Fields[1].Name, c.Fields[2].Name})
}

func TestParseIntLiteralHexAndDecimal(t *testing.T) {
	n, err := parseIntLiteral("0x0A")
	require.NoError(t, err)
	require.Equal(t, uint32(10), n)

	n, err = parseIntLiteral("10")
	require.NoError(t, err)
	require.Equal(t, uint32(10), n)
}

func TestResolveMissingIDFails(t *testing.T) {
	_, err := LoadBytes([]byte(`
packet_no_id:
  field: u8
`))
	require.Error(t, err)
}

func TestResolveInvalidBoundFails(t *testing.T) {
	_, err := LoadBytes([]byte(`
packet_bad_bound:
  '!id': 1
  '!bound': sideways
`))
	require.Error(t, err)
}

func TestResolveDefaultBoundIsBoth(t *testing.T) {
	doc, err := LoadBytes([]byte(`
packet_any:
  '!id': 9
`))
	require.NoError(t, err)
	pd, ok := doc.LookupPacket(9, Clientbound)
	require.True(t, ok)
	require.Equal(t, BoundBoth, pd.Bound)
	_, ok = doc.LookupPacket(9, Serverbound)
	require.True(t, ok)
}
