/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Command bedrockinspect is a scriptable inspector over a bedrockcap
// capture: it lists sessions, decodes and prints packets against a
// protocol schema, and renders structural diffs between two packets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gravwell/bedrockcap/decode"
	"github.com/gravwell/bedrockcap/diff"
	"github.com/gravwell/bedrockcap/dispatch"
	"github.com/gravwell/bedrockcap/schema"
	"github.com/gravwell/bedrockcap/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	var err error
	switch os.Args[1] {
	case "list-sessions":
		err = runListSessions(os.Args[2:])
	case "show":
		err = runShow(os.Args[2:])
	case "diff":
		err = runDiff(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "bedrockinspect:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bedrockinspect <command> [flags]

commands:
  list-sessions -db <path>
  show          -db <path> {-schema <path> | -schema-dir <dir> -default-version <v>} -session <id> [-filter <expr>]
  diff          -db <path> {-schema <path> | -schema-dir <dir> -default-version <v>} -session <id> -baseline <n> -against <n>

-schema-dir loads every proto-<version>.yml/.yaml file in <dir> and picks the
document matching each packet's own recorded server_version, falling back to
-default-version for a capture whose server_version doesn't match any loaded
file. -schema loads a single document used for every packet regardless of
server_version; it is mutually exclusive with -schema-dir.`)
}

// schemaFlags holds the three flags common to show/diff for selecting either
// a single schema document or a version-aware directory of them.
type schemaFlags struct {
	schemaPath     *string
	schemaDir      *string
	defaultVersion *string
}

func addSchemaFlags(fs *flag.FlagSet) schemaFlags {
	return schemaFlags{
		schemaPath:     fs.String("schema", "", "path to a single protocol schema document"),
		schemaDir:      fs.String("schema-dir", "", "directory of proto-<version>.yml/.yaml documents"),
		defaultVersion: fs.String("default-version", "", "version to fall back to when a packet's server_version isn't in -schema-dir"),
	}
}

// loadDispatcher builds a dispatch.Dispatcher from whichever of -schema /
// -schema-dir was given. A single -schema document is served for every
// server_version by registering it as its own fallback.
func loadDispatcher(f schemaFlags) (*dispatch.Dispatcher, error) {
	switch {
	case *f.schemaPath != "" && *f.schemaDir != "":
		return nil, fmt.Errorf("-schema and -schema-dir are mutually exclusive")
	case *f.schemaPath != "":
		doc, err := schema.Load(*f.schemaPath)
		if err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
		return dispatch.NewDispatcher(map[string]*schema.Document{"": doc}, "")
	case *f.schemaDir != "":
		if *f.defaultVersion == "" {
			return nil, fmt.Errorf("-default-version is required with -schema-dir")
		}
		docs, err := schema.LoadVersions(*f.schemaDir)
		if err != nil {
			return nil, fmt.Errorf("load schema versions: %w", err)
		}
		return dispatch.NewDispatcher(docs, *f.defaultVersion)
	default:
		return nil, fmt.Errorf("one of -schema or -schema-dir is required")
	}
}

func runListSessions(args []string) error {
	fs := flag.NewFlagSet("list-sessions", flag.ExitOnError)
	dbPath := fs.String("db", "bedrockcap.db", "path to the bbolt capture database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := store.OpenBolt(*dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, s := range sessions {
		ended := "open"
		if s.EndedAt != nil {
			ended = s.EndedAt.Format("2006-01-02T15:04:05Z")
		}
		count, err := st.CountPackets(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("count packets for session %d: %w", s.ID, err)
		}
		fmt.Printf("%d\t%s\t%s\t%d packets\n", s.ID, s.StartedAt.Format("2006-01-02T15:04:05Z"), ended, count)
	}
	return nil
}

func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	dbPath := fs.String("db", "bedrockcap.db", "path to the bbolt capture database")
	sf := addSchemaFlags(fs)
	sessionID := fs.Int64("session", 0, "session id to show")
	filterExpr := fs.String("filter", "", "filter expression, e.g. c.start_game,s.*action*")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := loadDispatcher(sf)
	if err != nil {
		return err
	}
	fset, err := store.ParseFilterSet(*filterExpr)
	if err != nil {
		return fmt.Errorf("parse filter: %w", err)
	}

	st, err := store.OpenBolt(*dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	records, err := st.ListPackets(ctx, *sessionID, fset)
	if err != nil {
		return fmt.Errorf("list packets: %w", err)
	}
	for _, rec := range records {
		dp := d.Dispatch(rec.ServerVersion, rec.Packet, rec.Direction)
		name := dp.Name
		if !dp.Known {
			name = fmt.Sprintf("unknown(0x%x)", dp.ID)
		}
		if !fset.Matches(rec.Direction, name) {
			continue
		}
		fmt.Printf("#%d %s %s %s\n", rec.PacketNumber, rec.TS.Format("15:04:05.000"), rec.Direction, name)
		if dp.Fields != nil {
			for _, line := range diff.Render(diff.Diff(nil, dp.Fields)) {
				fmt.Println(" ", line.Text)
			}
		}
		for _, perr := range dp.PartialErrors {
			fmt.Println("  ! partial decode error:", perr)
		}
	}
	return nil
}

func runDiff(args []string) error {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	dbPath := fs.String("db", "bedrockcap.db", "path to the bbolt capture database")
	sf := addSchemaFlags(fs)
	sessionID := fs.Int64("session", 0, "session id containing both packets")
	baseline := fs.Uint64("baseline", 0, "baseline packet number")
	against := fs.Uint64("against", 0, "packet number to compare against the baseline")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := loadDispatcher(sf)
	if err != nil {
		return err
	}

	st, err := store.OpenBolt(*dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	records, err := st.ListPackets(ctx, *sessionID, nil)
	if err != nil {
		return fmt.Errorf("list packets: %w", err)
	}

	var baseRec, curRec *store.PacketRecord
	for i := range records {
		switch records[i].PacketNumber {
		case *baseline:
			baseRec = &records[i]
		case *against:
			curRec = &records[i]
		}
	}
	if baseRec == nil {
		return fmt.Errorf("packet #%d not found in session %d", *baseline, *sessionID)
	}
	if curRec == nil {
		return fmt.Errorf("packet #%d not found in session %d", *against, *sessionID)
	}

	baseDP := d.Dispatch(baseRec.ServerVersion, baseRec.Packet, baseRec.Direction)
	curDP := d.Dispatch(curRec.ServerVersion, curRec.Packet, curRec.Direction)

	n := diff.Diff(valueOrNil(baseDP.Fields), valueOrNil(curDP.Fields))
	for _, line := range diff.Render(n) {
		prefix := "  "
		switch line.Color {
		case diff.ColorRed:
			prefix = "\033[31m"
		case diff.ColorGreen:
			prefix = "\033[32m"
		}
		if line.Color == diff.ColorNone {
			fmt.Println(line.Text)
		} else {
			fmt.Printf("%s%s\033[0m\n", prefix, line.Text)
		}
	}
	return nil
}

// valueOrNil converts a possibly-nil *decode.Object into a decode.Value,
// avoiding the typed-nil-interface pitfall: a nil *decode.Object assigned
// directly to a decode.Value interface would compare unequal to a bare
// nil, which would defeat Diff's Added/Removed detection for a packet
// whose fields failed to decode at all.
func valueOrNil(o *decode.Object) decode.Value {
	if o == nil {
		return nil
	}
	return o
}
