/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package proxy

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gravwell/bedrockcap/rlog"
	"github.com/gravwell/bedrockcap/store"
)

func startFakeUpstream(t *testing.T) (*net.UDPConn, string) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, conn.LocalAddr().String()
}

func TestProxyRelaysClientToUpstreamAndBack(t *testing.T) {
	upConn, upAddr := startFakeUpstream(t)

	st := store.NewMem()
	p, err := New(upAddr, st, rlog.New(discardWriter{}))
	require.NoError(t, err)
	require.NoError(t, p.Listen("127.0.0.1:0"))
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	// echo server: read one datagram, send it back to whoever it came from
	go func() {
		buf := make([]byte, 1500)
		n, addr, err := upConn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		upConn.WriteToUDP(buf[:n], addr)
	}()

	client, err := net.DialUDP("udp", nil, p.conn.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("hello"))
	require.NoError(t, err)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1500)
	n, err := client.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf[:n]))

	sessions, err := st.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	recs, err := st.ListPackets(context.Background(), sessions[0].ID, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
