/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package store implements the Store Query API of spec.md §6: the abstract
// interface the inspector uses to list sessions, count packets, and page
// packets with filters, plus two concrete backings (store.Mem for tests,
// store.Bolt for durable capture).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/gravwell/bedrockcap/schema"
)

// ErrStore wraps any backend failure surfaced to the inspector, per
// spec.md §7's StoreError policy: "Surface to caller".
var ErrStore = errors.New("store error")

// Session is the persisted session shape of spec.md §3.
type Session struct {
	ID        int64
	StartedAt time.Time
	EndedAt   *time.Time // nil: open-ended, per Open Question (c)
}

// PacketRecord is the persisted packet record of spec.md §3. Packet holds
// the raw captured bytes; decoding against a schema is done on demand by
// the caller (decoded trees are ephemeral, per spec.md §3 Lifecycle).
type PacketRecord struct {
	SessionID     int64
	PacketNumber  uint64
	TS            time.Time
	SessionTimeMs int64
	ServerVersion string
	Direction     schema.Direction
	Packet        []byte
}

// Store is the abstract interface the inspector (and any future TUI)
// consumes; it never depends on a specific database.
type Store interface {
	ListSessions(ctx context.Context) ([]Session, error)
	CountPackets(ctx context.Context, sessionID int64) (uint64, error)
	ListPackets(ctx context.Context, sessionID int64, filters FilterSet) ([]PacketRecord, error)
	ListTags(ctx context.Context, sessionID int64) ([]string, error)
	AddTag(ctx context.Context, sessionID int64, tag string) error
	RemoveTag(ctx context.Context, sessionID int64, tag string) error

	// CreateSession and AppendPacket are the capture-side half of the
	// interface: the pipeline that populates what the query API reads.
	CreateSession(ctx context.Context, clientAddr string, startedAt time.Time) (int64, error)
	AppendPacket(ctx context.Context, rec PacketRecord) error
}
