/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gravwell/bedrockcap/schema"
)

const pingDoc = `
packet_ping:
  '!id': 1
  '!bound': client
  seq: u8
`

func TestDecodePacketVarintIDAndU8Field(t *testing.T) {
	doc, err := schema.LoadBytes([]byte(pingDoc))
	require.NoError(t, err)

	// id=1 (single-byte varint), followed by one u8 field.
	raw := []byte{0x01, 0x2A}
	dp := DecodePacket(doc, raw, schema.Clientbound)

	require.True(t, dp.Known)
	require.Equal(t, uint32(1), dp.ID)
	require.Equal(t, "packet_ping", dp.Name)
	require.Empty(t, dp.PartialErrors)
	seq, ok := dp.Fields.Get("seq")
	require.True(t, ok)
	require.EqualValues(t, 42, seq)
}

func TestDecodePacketUnknownIDIsNotAnError(t *testing.T) {
	doc, err := schema.LoadBytes([]byte(pingDoc))
	require.NoError(t, err)

	dp := DecodePacket(doc, []byte{0x63}, schema.Clientbound)
	require.False(t, dp.Known)
	require.Empty(t, dp.Name)
	require.Nil(t, dp.Fields)
	require.Empty(t, dp.PartialErrors)
}

func TestDecodePacketBoundMismatchIsUnknown(t *testing.T) {
	doc, err := schema.LoadBytes([]byte(pingDoc))
	require.NoError(t, err)

	// packet_ping is client-bound only; looking it up as serverbound must
	// miss, same as an unrecognized id.
	dp := DecodePacket(doc, []byte{0x01, 0x2A}, schema.Serverbound)
	require.False(t, dp.Known)
}

func TestDecodePacketPartialErrorOnTruncatedField(t *testing.T) {
	doc, err := schema.LoadBytes([]byte(pingDoc))
	require.NoError(t, err)

	dp := DecodePacket(doc, []byte{0x01}, schema.Clientbound) // missing the u8 field
	require.True(t, dp.Known)
	require.Len(t, dp.PartialErrors, 1)
	_, ok := dp.Fields.Get("seq")
	require.True(t, ok) // error marker still recorded under the field name
}

// pongDoc reassigns id 1 to a different packet shape, standing in for a
// later protocol revision that renumbers/retypes packets.
const pongDoc = `
packet_pong:
  '!id': 1
  '!bound': client
  code: u16
`

func TestDispatcherRoutesByVersion(t *testing.T) {
	v1, err := schema.LoadBytes([]byte(pingDoc))
	require.NoError(t, err)
	v2, err := schema.LoadBytes([]byte(pongDoc))
	require.NoError(t, err)

	d, err := NewDispatcher(map[string]*schema.Document{"v1": v1, "v2": v2}, "v1")
	require.NoError(t, err)

	dp1 := d.Dispatch("v1", []byte{0x01, 0x2A}, schema.Clientbound)
	require.Equal(t, "packet_ping", dp1.Name)

	dp2 := d.Dispatch("v2", []byte{0x01, 0x00, 0x01}, schema.Clientbound)
	require.Equal(t, "packet_pong", dp2.Name)
}

func TestDispatcherFallsBackOnUnknownVersion(t *testing.T) {
	v1, err := schema.LoadBytes([]byte(pingDoc))
	require.NoError(t, err)

	d, err := NewDispatcher(map[string]*schema.Document{"v1": v1}, "v1")
	require.NoError(t, err)

	// an unrecognized version string never panics or errors -- it decodes
	// against the configured fallback, same as UnknownPacketId.
	dp := d.Dispatch("does-not-exist", []byte{0x01, 0x2A}, schema.Clientbound)
	require.True(t, dp.Known)
	require.Equal(t, "packet_ping", dp.Name)
}

func TestNewDispatcherRejectsMissingFallback(t *testing.T) {
	_, err := NewDispatcher(map[string]*schema.Document{}, "v1")
	require.Error(t, err)
}

// FuzzDecodePacket covers spec.md §8's "decode_packet never panics on
// truncated or arbitrary byte input" property: seeded from the scenario
// corpus above (valid packet, truncated field, unknown id), it hands
// arbitrary mutated byte strings to DecodePacket against both directions
// and only asserts the call returns -- any panic fails the fuzz run.
func FuzzDecodePacket(f *testing.F) {
	doc, err := schema.LoadBytes([]byte(pingDoc))
	require.NoError(f, err)

	seeds := [][]byte{
		{0x01, 0x2A},                         // valid packet_ping
		{0x01},                               // truncated field
		{0x63},                               // unknown id
		{},                                   // empty
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x2A}, // varint-id overflow
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, raw []byte) {
		for _, dir := range []schema.Direction{schema.Clientbound, schema.Serverbound} {
			dp := DecodePacket(doc, raw, dir)
			if dp == nil {
				t.Fatal("DecodePacket returned nil")
			}
		}
	})
}
