/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Command bedrockproxy relays UDP datagrams between game clients and a
// single upstream server, capturing every datagram through the Store (and
// optionally an append-log file) for later inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gravwell/bedrockcap/applog"
	"github.com/gravwell/bedrockcap/config"
	"github.com/gravwell/bedrockcap/proxy"
	"github.com/gravwell/bedrockcap/rlog"
	"github.com/gravwell/bedrockcap/store"
)

var (
	flagListen    = flag.String("listen", "", "override BEDROCKCAP_LISTEN_ADDR (host:port to bind for clients)")
	flagUpstream  = flag.String("upstream", "", "override BEDROCKCAP_UPSTREAM_ADDR (host:port of the real server)")
	flagDBPath    = flag.String("db", "bedrockcap.db", "path to the bbolt capture database")
	flagAppendLog = flag.String("append-log", "", "override BEDROCKCAP_APPEND_LOG (flat-file capture mirror)")
	ver           = flag.Bool("version", false, "print version information and exit")
)

const version = "bedrockcap-0.1.0"

func main() {
	flag.Parse()
	if *ver {
		fmt.Println(version)
		return
	}

	lg := rlog.NewStderr()

	cfg, err := config.LoadProxy()
	if err != nil {
		lg.Fatalf("bedrockproxy: load config: %v", err)
	}
	if *flagListen != "" {
		cfg.ListenAddr = *flagListen
	}
	if *flagUpstream != "" {
		cfg.UpstreamAddr = config.AppendDefaultPort(*flagUpstream, 19132)
	}
	if *flagAppendLog != "" {
		cfg.AppendLog = *flagAppendLog
	}

	if lvl, ok := rlog.ParseLevel(cfg.LogLevel); ok {
		lg.SetLevel(lvl)
	} else {
		lg.Warnf("bedrockproxy: unrecognized log level %q, defaulting to INFO", cfg.LogLevel)
	}

	st, err := store.OpenBolt(*flagDBPath)
	if err != nil {
		lg.Fatalf("bedrockproxy: open store %s: %v", *flagDBPath, err)
	}
	defer st.Close()

	var backing store.Store = st
	if cfg.AppendLog != "" {
		w, err := applog.Create(cfg.AppendLog)
		if err != nil {
			lg.Fatalf("bedrockproxy: open append log %s: %v", cfg.AppendLog, err)
		}
		defer w.Close()
		backing = &applogStore{Store: st, w: w}
		lg.Infof("bedrockproxy: mirroring captures to %s (run %s)", cfg.AppendLog, w.RunID())
	}

	px, err := proxy.New(cfg.UpstreamAddr, backing, lg)
	if err != nil {
		lg.Fatalf("bedrockproxy: %v", err)
	}
	if err := px.Listen(cfg.ListenAddr); err != nil {
		lg.Fatalf("bedrockproxy: %v", err)
	}
	defer px.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lg.Infof("bedrockproxy: relaying %s -> %s", cfg.ListenAddr, cfg.UpstreamAddr)
	if err := px.Run(ctx); err != nil && ctx.Err() == nil {
		lg.Errorf("bedrockproxy: %v", err)
		os.Exit(1)
	}
	lg.Infof("bedrockproxy: shut down")
}
