/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Mem is an in-memory Store, used by the capture and proxy tests in place
// of a real database (per spec.md §9 design note: "tests substitute an
// in-memory implementation").
type Mem struct {
	mtx      sync.Mutex
	nextID   int64
	sessions map[int64]*Session
	order    []int64 // insertion order, for deterministic ListSessions tie-break
	packets  map[int64][]PacketRecord
	tags     map[int64][]string
}

func NewMem() *Mem {
	return &Mem{
		sessions: make(map[int64]*Session),
		packets:  make(map[int64][]PacketRecord),
		tags:     make(map[int64][]string),
	}
}

func (m *Mem) CreateSession(_ context.Context, _ string, startedAt time.Time) (int64, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.nextID++
	id := m.nextID
	m.sessions[id] = &Session{ID: id, StartedAt: startedAt}
	m.order = append(m.order, id)
	return id, nil
}

func (m *Mem) AppendPacket(_ context.Context, rec PacketRecord) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if _, ok := m.sessions[rec.SessionID]; !ok {
		return ErrStore
	}
	m.packets[rec.SessionID] = append(m.packets[rec.SessionID], rec)
	return nil
}

func (m *Mem) ListSessions(_ context.Context) ([]Session, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	out := make([]Session, 0, len(m.sessions))
	for _, id := range m.order {
		out = append(out, *m.sessions[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

func (m *Mem) CountPackets(_ context.Context, sessionID int64) (uint64, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return uint64(len(m.packets[sessionID])), nil
}

func (m *Mem) ListPackets(_ context.Context, sessionID int64, filters FilterSet) ([]PacketRecord, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	recs := m.packets[sessionID]
	out := make([]PacketRecord, 0, len(recs))
	for _, r := range recs {
		if filters.AllowsDirection(r.Direction) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PacketNumber < out[j].PacketNumber })
	return out, nil
}

func (m *Mem) ListTags(_ context.Context, sessionID int64) ([]string, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	out := make([]string, len(m.tags[sessionID]))
	copy(out, m.tags[sessionID])
	return out, nil
}

func (m *Mem) AddTag(_ context.Context, sessionID int64, tag string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for _, t := range m.tags[sessionID] {
		if t == tag {
			return nil
		}
	}
	m.tags[sessionID] = append(m.tags[sessionID], tag)
	return nil
}

func (m *Mem) RemoveTag(_ context.Context, sessionID int64, tag string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	ts := m.tags[sessionID]
	for i, t := range ts {
		if t == tag {
			m.tags[sessionID] = append(ts[:i], ts[i+1:]...)
			return nil
		}
	}
	return nil
}
