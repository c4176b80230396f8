/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package applog implements the self-describing append-log framing used to
// persist captured packets to a flat file as a durability/replay channel
// alongside the Store: each record is normally stored as a little-endian
// u32 length prefix followed by that many bytes of payload, with a legacy
// unprefixed format also readable for older captures.
package applog

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/gravwell/bedrockcap/schema"
)

const (
	lengthPrefixSize = 4
	// maxRecordSize bounds a single record at 10MB; a length prefix beyond
	// this is almost certainly a misidentified (legacy or foreign) file
	// rather than a real oversized capture record.
	maxRecordSize = 10 * 1024 * 1024

	previewBytes = 16
)

var (
	// ErrUnrecognizedFormat is returned when a file is neither a valid
	// length-prefixed append-log nor a valid legacy unprefixed one.
	ErrUnrecognizedFormat = errors.New("applog: unrecognized file format")
	ErrRecordTooLarge     = errors.New("applog: record exceeds maximum size")
)

// Record is one entry in the append log: a captured packet plus enough
// context to replay it into a Store without a live session.
type Record struct {
	RunID         uuid.UUID
	SessionID     int64
	PacketNumber  uint64
	TS            time.Time
	SessionTimeMs int64
	ServerVersion string
	Direction     schema.Direction
	Packet        []byte
}

// Writer appends Records to an underlying file, one per call, each tagged
// with the same RunID for the lifetime of the Writer. Writer always uses
// the length-prefixed format; the legacy format is read-only.
type Writer struct {
	f     *os.File
	bw    *bufio.Writer
	runID uuid.UUID
}

// Create opens (or creates) path for appending and returns a Writer stamped
// with a fresh RunID for this process run.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("applog: open %s: %w", path, err)
	}
	return &Writer{f: f, bw: bufio.NewWriter(f), runID: uuid.New()}, nil
}

func (w *Writer) RunID() uuid.UUID { return w.runID }

// Append encodes rec with gob, prefixes it with its little-endian u32
// length, and writes it to the log.
func (w *Writer) Append(rec Record) error {
	rec.RunID = w.runID

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("applog: encode record: %w", err)
	}
	payload := buf.Bytes()
	if len(payload) > maxRecordSize {
		return ErrRecordTooLarge
	}

	var hdr [lengthPrefixSize]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := w.bw.Write(hdr[:]); err != nil {
		return fmt.Errorf("applog: write length prefix: %w", err)
	}
	if _, err := w.bw.Write(payload); err != nil {
		return fmt.Errorf("applog: write payload: %w", err)
	}
	return w.bw.Flush()
}

func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// Reader replays Records from either framing: the normal length-prefixed
// format, or (read-only) the legacy sequential gob stream some early
// captures used.
type Reader struct {
	framed bool
	br     *bufio.Reader // framed mode
	dec    *gob.Decoder  // legacy mode

	pending    *Record // first legacy record, consumed during format sniffing
	legacyDone bool
}

// Open decides which framing path applies and returns a Reader positioned
// at the first record. It first tries length-framed parsing; if the first
// length value is zero, exceeds the 10MB ceiling, or exceeds the remaining
// file size, it falls back to legacy sequential decoding starting from
// byte 0. If neither strategy can produce a single record from a
// non-empty file, Open fails with ErrUnrecognizedFormat.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("applog: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &Reader{framed: true, br: bufio.NewReader(f)}, nil
	}

	br := bufio.NewReader(f)
	if peek, perr := br.Peek(lengthPrefixSize); perr == nil {
		n := binary.LittleEndian.Uint32(peek)
		if n != 0 && int64(n) <= maxRecordSize && int64(n)+lengthPrefixSize <= size {
			return &Reader{framed: true, br: br}, nil
		}
	}

	// Not a valid framed header; fall back to legacy sequential decode
	// from the start of the file.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	dec := gob.NewDecoder(f)
	var first Record
	if err := dec.Decode(&first); err != nil {
		preview := make([]byte, previewBytes)
		f.Seek(0, io.SeekStart)
		n, _ := f.Read(preview)
		f.Close()
		return nil, fmt.Errorf("%w: size=%d preview=%x", ErrUnrecognizedFormat, size, preview[:n])
	}
	return &Reader{framed: false, dec: dec, pending: &first}, nil
}

// Next decodes the next Record, returning io.EOF when the log is exhausted.
func (r *Reader) Next() (Record, error) {
	if r.pending != nil {
		rec := *r.pending
		r.pending = nil
		return rec, nil
	}
	if r.framed {
		return r.nextFramed()
	}
	if r.legacyDone {
		return Record{}, io.EOF
	}
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			r.legacyDone = true
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("applog: legacy decode: %w", err)
	}
	return rec, nil
}

func (r *Reader) nextFramed() (Record, error) {
	var hdr [lengthPrefixSize]byte
	if _, err := io.ReadFull(r.br, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Record{}, fmt.Errorf("applog: truncated length prefix: %w", err)
		}
		return Record{}, err
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > maxRecordSize {
		return Record{}, ErrRecordTooLarge
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r.br, payload); err != nil {
		return Record{}, fmt.Errorf("applog: truncated record payload: %w", err)
	}
	var rec Record
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("applog: decode record: %w", err)
	}
	return rec, nil
}
