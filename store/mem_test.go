/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gravwell/bedrockcap/schema"
)

func TestMemCreateAndListSessions(t *testing.T) {
	m := NewMem()
	ctx := context.Background()

	id1, err := m.CreateSession(ctx, "127.0.0.1:1", time.Unix(100, 0))
	require.NoError(t, err)
	id2, err := m.CreateSession(ctx, "127.0.0.1:2", time.Unix(200, 0))
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	sessions, err := m.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// newest first
	require.Equal(t, id2, sessions[0].ID)
	require.Equal(t, id1, sessions[1].ID)
}

func TestMemAppendPacketUnknownSession(t *testing.T) {
	m := NewMem()
	err := m.AppendPacket(context.Background(), PacketRecord{SessionID: 999})
	require.ErrorIs(t, err, ErrStore)
}

func TestMemListPacketsOrderAndFilter(t *testing.T) {
	m := NewMem()
	ctx := context.Background()
	id, err := m.CreateSession(ctx, "127.0.0.1:1", time.Now())
	require.NoError(t, err)

	require.NoError(t, m.AppendPacket(ctx, PacketRecord{SessionID: id, PacketNumber: 2, Direction: schema.Serverbound}))
	require.NoError(t, m.AppendPacket(ctx, PacketRecord{SessionID: id, PacketNumber: 1, Direction: schema.Clientbound}))

	all, err := m.ListPackets(ctx, id, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, uint64(1), all[0].PacketNumber)
	require.Equal(t, uint64(2), all[1].PacketNumber)

	fs, err := ParseFilterSet("c")
	require.NoError(t, err)
	only, err := m.ListPackets(ctx, id, fs)
	require.NoError(t, err)
	require.Len(t, only, 1)
	require.Equal(t, schema.Clientbound, only[0].Direction)
}

func TestMemCountPackets(t *testing.T) {
	m := NewMem()
	ctx := context.Background()
	id, err := m.CreateSession(ctx, "a", time.Now())
	require.NoError(t, err)
	require.NoError(t, m.AppendPacket(ctx, PacketRecord{SessionID: id, PacketNumber: 1}))
	require.NoError(t, m.AppendPacket(ctx, PacketRecord{SessionID: id, PacketNumber: 2}))
	n, err := m.CountPackets(ctx, id)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)
}

func TestMemTags(t *testing.T) {
	m := NewMem()
	ctx := context.Background()
	id, err := m.CreateSession(ctx, "a", time.Now())
	require.NoError(t, err)

	require.NoError(t, m.AddTag(ctx, id, "interesting"))
	require.NoError(t, m.AddTag(ctx, id, "interesting")) // idempotent
	require.NoError(t, m.AddTag(ctx, id, "bug"))

	tags, err := m.ListTags(ctx, id)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"interesting", "bug"}, tags)

	require.NoError(t, m.RemoveTag(ctx, id, "interesting"))
	tags, err = m.ListTags(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"bug"}, tags)
}
