/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package rlog is a small leveled, structured logger adapted from the
// teacher's ingest/log package: a writer-backed logger with Debug/Info/
// Warn/Error/Critical levels and rfc5424 structured-data key/value fields,
// trimmed to what the proxy and inspector need (no syslog relay, no log
// rotation -- those concerns belong to the out-of-scope deployment layer).
package rlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/crewjam/rfc5424"
)

type Level int

const (
	OFF Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	CRITICAL
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case CRITICAL:
		return "CRITICAL"
	}
	return "OFF"
}

func ParseLevel(s string) (Level, bool) {
	switch s {
	case "DEBUG", "debug":
		return DEBUG, true
	case "INFO", "info":
		return INFO, true
	case "WARN", "warn":
		return WARN, true
	case "ERROR", "error":
		return ERROR, true
	case "CRITICAL", "critical":
		return CRITICAL, true
	case "OFF", "off":
		return OFF, true
	}
	return 0, false
}

// Logger writes leveled, structured log lines to an io.Writer. Safe for
// concurrent use from multiple goroutines (the proxy logs from its
// client-read and upstream-read loops concurrently).
type Logger struct {
	mtx   sync.Mutex
	wtr   io.Writer
	level Level
}

func New(w io.Writer) *Logger {
	return &Logger{wtr: w, level: INFO}
}

// NewStderr returns the default logger used by both binaries when no log
// file is configured, matching ingest/log's stderr-logger default.
func NewStderr() *Logger {
	return New(os.Stderr)
}

func (l *Logger) SetLevel(lvl Level) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.level = lvl
}

func (l *Logger) enabled(lvl Level) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.level != OFF && lvl >= l.level
}

func (l *Logger) output(lvl Level, msg string, sds []rfc5424.SDParam) {
	if !l.enabled(lvl) {
		return
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	ts := time.Now().UTC().Format(time.RFC3339)
	fmt.Fprintf(l.wtr, "%s [%s] %s", ts, lvl, msg)
	for _, sd := range sds {
		fmt.Fprintf(l.wtr, " %s=%q", sd.Name, sd.Value)
	}
	fmt.Fprintln(l.wtr)
}

func (l *Logger) Debug(msg string, sds ...rfc5424.SDParam) { l.output(DEBUG, msg, sds) }
func (l *Logger) Info(msg string, sds ...rfc5424.SDParam)  { l.output(INFO, msg, sds) }
func (l *Logger) Warn(msg string, sds ...rfc5424.SDParam)  { l.output(WARN, msg, sds) }
func (l *Logger) Error(msg string, sds ...rfc5424.SDParam) { l.output(ERROR, msg, sds) }
func (l *Logger) Critical(msg string, sds ...rfc5424.SDParam) {
	l.output(CRITICAL, msg, sds)
}

func (l *Logger) Debugf(f string, args ...interface{}) { l.output(DEBUG, fmt.Sprintf(f, args...), nil) }
func (l *Logger) Infof(f string, args ...interface{})  { l.output(INFO, fmt.Sprintf(f, args...), nil) }
func (l *Logger) Warnf(f string, args ...interface{})  { l.output(WARN, fmt.Sprintf(f, args...), nil) }
func (l *Logger) Errorf(f string, args ...interface{}) { l.output(ERROR, fmt.Sprintf(f, args...), nil) }

func (l *Logger) Fatalf(f string, args ...interface{}) {
	l.output(CRITICAL, fmt.Sprintf(f, args...), nil)
	os.Exit(1)
}

// KVLogger is a Logger pre-bound to a set of structured fields, matching
// ingest/log/kvlog.go's KVLogger -- useful for a per-session logger that
// always wants to stamp session_id.
type KVLogger struct {
	*Logger
	sds []rfc5424.SDParam
}

func NewKVLogger(l *Logger, sds ...rfc5424.SDParam) *KVLogger {
	return &KVLogger{Logger: l, sds: sds}
}

func (k *KVLogger) Debug(msg string, sds ...rfc5424.SDParam) {
	k.Logger.output(DEBUG, msg, append(append([]rfc5424.SDParam{}, k.sds...), sds...))
}
func (k *KVLogger) Info(msg string, sds ...rfc5424.SDParam) {
	k.Logger.output(INFO, msg, append(append([]rfc5424.SDParam{}, k.sds...), sds...))
}
func (k *KVLogger) Warn(msg string, sds ...rfc5424.SDParam) {
	k.Logger.output(WARN, msg, append(append([]rfc5424.SDParam{}, k.sds...), sds...))
}
func (k *KVLogger) Error(msg string, sds ...rfc5424.SDParam) {
	k.Logger.output(ERROR, msg, append(append([]rfc5424.SDParam{}, k.sds...), sds...))
}

func KV(name string, value interface{}) rfc5424.SDParam {
	if s, ok := value.(string); ok {
		return rfc5424.SDParam{Name: name, Value: s}
	}
	return rfc5424.SDParam{Name: name, Value: fmt.Sprintf("%v", value)}
}

func KVErr(err error) rfc5424.SDParam {
	return KV("error", err)
}
