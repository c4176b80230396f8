/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package proxy implements the UDP Proxy Loop: a client-facing listening
// socket plus one connected upstream socket relay datagrams between game
// clients and one upstream server, handing every datagram to a
// capture.Session before forwarding it. Upstream replies are not
// demultiplexed per client; each goes to the first session opened.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gravwell/bedrockcap/capture"
	"github.com/gravwell/bedrockcap/rlog"
	"github.com/gravwell/bedrockcap/schema"
	"github.com/gravwell/bedrockcap/store"
)

var (
	ErrAlreadyListening = errors.New("proxy: already listening")
	ErrNotReady         = errors.New("proxy: not ready")
)

const maxDatagram = 65535

// Proxy relays UDP datagrams between clients and a single upstream address
// over a single shared upstream socket, logging every datagram through the
// Store. Because all upstream replies share one local socket and one remote
// peer, a reply can't be demultiplexed to a client purely by source
// address; with more than one active client the proxy falls back to the
// first session opened against this proxy and logs a warning, per the
// deterministic first-session routing rule.
type Proxy struct {
	bind     *net.UDPAddr
	upstream *net.UDPAddr
	store    store.Store
	log      *rlog.Logger

	mtx    sync.Mutex
	conn   *net.UDPConn
	upstrm *net.UDPConn

	sessMtx     sync.RWMutex
	sessions    map[string]*clientSession // keyed by client addr string
	sessionList []*clientSession          // insertion order, for the first-session fallback
}

type clientSession struct {
	addr *net.UDPAddr
	sess *capture.Session
}

// New constructs a Proxy that relays to upstream and persists every
// datagram via st.
func New(upstream string, st store.Store, log *rlog.Logger) (*Proxy, error) {
	addr, err := net.ResolveUDPAddr("udp", upstream)
	if err != nil {
		return nil, fmt.Errorf("proxy: resolve upstream %q: %w", upstream, err)
	}
	return &Proxy{
		upstream: addr,
		store:    st,
		log:      log,
		sessions: make(map[string]*clientSession),
	}, nil
}

// Listen binds the proxy's client-facing socket and dials the single
// upstream socket. It must be called before Run.
func (p *Proxy) Listen(bind string) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.conn != nil {
		return ErrAlreadyListening
	}
	a, err := net.ResolveUDPAddr("udp", bind)
	if err != nil {
		return fmt.Errorf("proxy: resolve bind %q: %w", bind, err)
	}
	conn, err := net.ListenUDP("udp", a)
	if err != nil {
		return fmt.Errorf("proxy: listen %q: %w", bind, err)
	}
	upstrm, err := net.DialUDP("udp", nil, p.upstream)
	if err != nil {
		conn.Close()
		return fmt.Errorf("proxy: dial upstream %s: %w", p.upstream, err)
	}
	p.bind = a
	p.conn = conn
	p.upstrm = upstrm
	return nil
}

// Close shuts down both sockets.
func (p *Proxy) Close() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.conn == nil {
		return ErrNotReady
	}
	err := p.conn.Close()
	if uerr := p.upstrm.Close(); err == nil {
		err = uerr
	}
	return err
}

// Run drives both the client-facing and upstream-facing read loops until
// ctx is cancelled or a socket errors. The two loops are supervised by an
// errgroup so a fatal error on either side tears down the other.
func (p *Proxy) Run(ctx context.Context) error {
	p.mtx.Lock()
	conn, upstrm := p.conn, p.upstrm
	p.mtx.Unlock()
	if conn == nil || upstrm == nil {
		return ErrNotReady
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		<-ctx.Done()
		conn.Close()
		upstrm.Close()
		return nil
	})
	eg.Go(func() error { return p.clientLoop(ctx, conn, upstrm) })
	eg.Go(func() error { return p.upstreamLoop(ctx, conn, upstrm) })
	return eg.Wait()
}

// clientLoop reads datagrams from clients, logs them serverbound, and
// forwards them upstream.
func (p *Proxy) clientLoop(ctx context.Context, conn, upstrm *net.UDPConn) error {
	buf := make([]byte, maxDatagram)
	for {
		n, clientAddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("proxy: read from client: %w", err)
		}
		datagram := make([]byte, n)
		copy(datagram, buf[:n])

		cs, err := p.sessionFor(ctx, clientAddr)
		if err != nil {
			p.log.Errorf("proxy: create session for %s: %v", clientAddr, err)
			continue
		}
		if _, _, err := cs.sess.Log(ctx, schema.Serverbound, datagram); err != nil {
			p.log.Errorf("proxy: log serverbound packet: %v", err)
		}
		if _, err := upstrm.Write(datagram); err != nil {
			p.log.Warnf("proxy: write to upstream: %v", err)
		}
	}
}

// upstreamLoop reads datagrams from the upstream server, logs them
// clientbound against the appropriate session, and forwards them to that
// client.
func (p *Proxy) upstreamLoop(ctx context.Context, conn, upstrm *net.UDPConn) error {
	buf := make([]byte, maxDatagram)
	for {
		n, err := upstrm.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("proxy: read from upstream: %w", err)
		}
		datagram := make([]byte, n)
		copy(datagram, buf[:n])

		cs, ambiguous := p.routeReply()
		if cs == nil {
			continue // no client has sent anything yet; nothing to route to
		}
		if ambiguous {
			p.log.Warnf("proxy: ambiguous upstream reply with %d active sessions, routing to first (%s)", len(p.sessionList), cs.addr)
		}

		if _, _, err := cs.sess.Log(ctx, schema.Clientbound, datagram); err != nil {
			p.log.Errorf("proxy: log clientbound packet: %v", err)
		}
		if _, err := conn.WriteToUDP(datagram, cs.addr); err != nil {
			p.log.Warnf("proxy: write to client %s: %v", cs.addr, err)
		}
	}
}

// sessionFor returns the session for clientAddr, creating one on first
// sight.
func (p *Proxy) sessionFor(ctx context.Context, clientAddr *net.UDPAddr) (*clientSession, error) {
	key := clientAddr.String()

	p.sessMtx.RLock()
	cs, ok := p.sessions[key]
	p.sessMtx.RUnlock()
	if ok {
		return cs, nil
	}

	sess, err := capture.NewSession(ctx, p.store, key)
	if err != nil {
		return nil, err
	}

	p.sessMtx.Lock()
	defer p.sessMtx.Unlock()
	if existing, ok := p.sessions[key]; ok {
		return existing, nil // address was registered between the read-locked check and this write lock
	}
	cs = &clientSession{addr: clientAddr, sess: sess}
	p.sessions[key] = cs
	p.sessionList = append(p.sessionList, cs)
	return cs, nil
}

// routeReply picks the session an ambiguous upstream reply should be
// delivered to: the first session opened against this proxy. It reports
// ambiguous=true whenever more than one session is active, since in that
// case the choice is a guess rather than a certainty.
func (p *Proxy) routeReply() (cs *clientSession, ambiguous bool) {
	p.sessMtx.RLock()
	defer p.sessMtx.RUnlock()
	if len(p.sessionList) == 0 {
		return nil, false
	}
	return p.sessionList[0], len(p.sessionList) > 1
}
