/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package main

import (
	"context"

	"github.com/gravwell/bedrockcap/applog"
	"github.com/gravwell/bedrockcap/store"
)

// applogStore wraps a store.Store and additionally mirrors every appended
// packet to an applog.Writer, so a capture can be replayed from the flat
// file even if the durable store is unavailable or needs to be rebuilt.
type applogStore struct {
	store.Store
	w *applog.Writer
}

func (s *applogStore) AppendPacket(ctx context.Context, rec store.PacketRecord) error {
	if err := s.Store.AppendPacket(ctx, rec); err != nil {
		return err
	}
	return s.w.Append(applog.Record{
		SessionID:     rec.SessionID,
		PacketNumber:  rec.PacketNumber,
		TS:            rec.TS,
		SessionTimeMs: rec.SessionTimeMs,
		ServerVersion: rec.ServerVersion,
		Direction:     rec.Direction,
		Packet:        rec.Packet,
	})
}
