/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package capture implements the Capture Session component: the per-client
// bookkeeping (packet numbering, session-relative timing) that sits between
// the UDP proxy loop and the Store.
package capture

import (
	"context"
	"sync"
	"time"

	"github.com/gravwell/bedrockcap/schema"
	"github.com/gravwell/bedrockcap/store"
)

// Session tracks one client<->upstream conversation. A Session is safe for
// concurrent use: the proxy loop may call Log from both the client-read and
// upstream-read goroutines simultaneously.
type Session struct {
	ID            int64
	ClientAddr    string
	StartedAt     time.Time
	ServerVersion string

	mtx     sync.Mutex
	nextNum uint64
	store   store.Store
}

// NewSession registers a new session with the store and returns a Session
// ready to log packets against it.
func NewSession(ctx context.Context, st store.Store, clientAddr string) (*Session, error) {
	now := time.Now().UTC()
	id, err := st.CreateSession(ctx, clientAddr, now)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:         id,
		ClientAddr: clientAddr,
		StartedAt:  now,
		store:      st,
	}, nil
}

// Log records one packet, assigning it the next 1-based packet number and a
// timestamp relative to session start, then appends it to the store. The
// store write happens under the session mutex, so records reach the store
// in packet-number order.
func (s *Session) Log(ctx context.Context, dir schema.Direction, raw []byte) (packetNumber uint64, ts time.Time, err error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.nextNum++
	packetNumber = s.nextNum
	ts = time.Now().UTC()
	sessionStart := s.StartedAt
	serverVersion := s.ServerVersion

	rec := store.PacketRecord{
		SessionID:     s.ID,
		PacketNumber:  packetNumber,
		TS:            ts,
		SessionTimeMs: ts.Sub(sessionStart).Milliseconds(),
		ServerVersion: serverVersion,
		Direction:     dir,
		Packet:        append([]byte(nil), raw...),
	}
	if err = s.store.AppendPacket(ctx, rec); err != nil {
		return packetNumber, ts, err
	}
	return packetNumber, ts, nil
}

// SetServerVersion records the server's reported version string once the
// proxy has observed it in the login handshake; subsequent Log calls
// persist it alongside each packet.
func (s *Session) SetServerVersion(v string) {
	s.mtx.Lock()
	s.ServerVersion = v
	s.mtx.Unlock()
}
