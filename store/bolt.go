/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/gravwell/bedrockcap/schema"
)

// Bolt is a durable, single-file embedded implementation of Store, backed
// by go.etcd.io/bbolt -- the in-process stand-in spec.md §1/§6 explicitly
// allows in place of a full relational engine ("the core requires only the
// query operations"). Sessions, packets (nested per session), and tags
// (nested per session) are each their own top-level/nested bucket.
type Bolt struct {
	db *bbolt.DB
}

var (
	bucketSessions = []byte("sessions")
	bucketPackets  = []byte("packets") // nested: packets/<sessionID> -> packetNumber(BE u64) -> gob(packetRow)
	bucketTags     = []byte("tags")    // nested: tags/<sessionID> -> tag -> {}
	bucketMeta     = []byte("meta")
	keyNextSession = []byte("next_session_id")
)

func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSessions, bucketPackets, bucketTags, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

type sessionRow struct {
	StartedAt time.Time
	EndedAt   *time.Time
}

type packetRow struct {
	TS            time.Time
	SessionTimeMs int64
	ServerVersion string
	Direction     schema.Direction
	Packet        []byte
}

func be64(v int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	return buf
}

func (b *Bolt) CreateSession(_ context.Context, _ string, startedAt time.Time) (int64, error) {
	var id int64
	err := b.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		next := int64(1)
		if v := meta.Get(keyNextSession); v != nil {
			next = int64(binary.BigEndian.Uint64(v)) + 1
		}
		if err := meta.Put(keyNextSession, be64(next)); err != nil {
			return err
		}
		id = next

		sessions := tx.Bucket(bucketSessions)
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(sessionRow{StartedAt: startedAt}); err != nil {
			return err
		}
		if err := sessions.Put(be64(id), buf.Bytes()); err != nil {
			return err
		}
		if _, err := tx.Bucket(bucketPackets).CreateBucketIfNotExists(be64(id)); err != nil {
			return err
		}
		_, err := tx.Bucket(bucketTags).CreateBucketIfNotExists(be64(id))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return id, nil
}

func (b *Bolt) AppendPacket(_ context.Context, rec PacketRecord) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		sb := tx.Bucket(bucketPackets).Bucket(be64(rec.SessionID))
		if sb == nil {
			return fmt.Errorf("unknown session %d", rec.SessionID)
		}
		var buf bytes.Buffer
		row := packetRow{
			TS:            rec.TS,
			SessionTimeMs: rec.SessionTimeMs,
			ServerVersion: rec.ServerVersion,
			Direction:     rec.Direction,
			Packet:        rec.Packet,
		}
		if err := gob.NewEncoder(&buf).Encode(row); err != nil {
			return err
		}
		return sb.Put(be64(int64(rec.PacketNumber)), buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

func (b *Bolt) ListSessions(_ context.Context) ([]Session, error) {
	var out []Session
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).ForEach(func(k, v []byte) error {
			var row sessionRow
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&row); err != nil {
				return err
			}
			out = append(out, Session{
				ID:        int64(binary.BigEndian.Uint64(k)),
				StartedAt: row.StartedAt,
				EndedAt:   row.EndedAt,
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (b *Bolt) CountPackets(_ context.Context, sessionID int64) (uint64, error) {
	var n uint64
	err := b.db.View(func(tx *bbolt.Tx) error {
		sb := tx.Bucket(bucketPackets).Bucket(be64(sessionID))
		if sb == nil {
			return nil
		}
		n = uint64(sb.Stats().KeyN)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return n, nil
}

func (b *Bolt) ListPackets(_ context.Context, sessionID int64, filters FilterSet) ([]PacketRecord, error) {
	var out []PacketRecord
	err := b.db.View(func(tx *bbolt.Tx) error {
		sb := tx.Bucket(bucketPackets).Bucket(be64(sessionID))
		if sb == nil {
			return nil
		}
		c := sb.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var row packetRow
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&row); err != nil {
				return err
			}
			if !filters.AllowsDirection(row.Direction) {
				continue
			}
			out = append(out, PacketRecord{
				SessionID:     sessionID,
				PacketNumber:  binary.BigEndian.Uint64(k),
				TS:            row.TS,
				SessionTimeMs: row.SessionTimeMs,
				ServerVersion: row.ServerVersion,
				Direction:     row.Direction,
				Packet:        row.Packet,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return out, nil // bbolt cursor iteration is already key-ordered: packet_number ascending.
}

func (b *Bolt) ListTags(_ context.Context, sessionID int64) ([]string, error) {
	var tags []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		tb := tx.Bucket(bucketTags).Bucket(be64(sessionID))
		if tb == nil {
			return nil
		}
		return tb.ForEach(func(k, _ []byte) error {
			tags = append(tags, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return tags, nil
}

func (b *Bolt) AddTag(_ context.Context, sessionID int64, tag string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		tb := tx.Bucket(bucketTags).Bucket(be64(sessionID))
		if tb == nil {
			return fmt.Errorf("unknown session %d", sessionID)
		}
		return tb.Put([]byte(tag), []byte{1})
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

func (b *Bolt) RemoveTag(_ context.Context, sessionID int64, tag string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		tb := tx.Bucket(bucketTags).Bucket(be64(sessionID))
		if tb == nil {
			return nil
		}
		return tb.Delete([]byte(tag))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}
