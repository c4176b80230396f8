/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadProxyDefaultsAndRequired(t *testing.T) {
	os.Unsetenv(envListenAddr)
	os.Unsetenv(envUpstreamAddr)
	_, err := LoadProxy()
	require.ErrorIs(t, err, ErrMissingRequired)

	os.Setenv(envUpstreamAddr, "upstream.example")
	defer os.Unsetenv(envUpstreamAddr)
	p, err := LoadProxy()
	require.NoError(t, err)
	require.Equal(t, ":19132", p.ListenAddr)
	require.Equal(t, "upstream.example:19132", p.UpstreamAddr)
	require.Equal(t, "INFO", p.LogLevel)
}

func TestLoadEnvVarFileFallback(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "secret")
	require.NoError(t, os.WriteFile(fp, []byte("s3cret\n"), 0600))

	os.Unsetenv(envAppendLog)
	os.Setenv(envAppendLog+"_FILE", fp)
	defer os.Unsetenv(envAppendLog + "_FILE")

	os.Setenv(envUpstreamAddr, "upstream.example")
	defer os.Unsetenv(envUpstreamAddr)

	p, err := LoadProxy()
	require.NoError(t, err)
	require.Equal(t, "s3cret", p.AppendLog)
}

func TestLoadEnvVarEmptyFileIsError(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(fp, []byte(""), 0600))

	os.Unsetenv(envAppendLog)
	os.Setenv(envAppendLog+"_FILE", fp)
	defer os.Unsetenv(envAppendLog + "_FILE")

	os.Setenv(envUpstreamAddr, "upstream.example")
	defer os.Unsetenv(envUpstreamAddr)

	_, err := LoadProxy()
	require.ErrorIs(t, err, ErrEmptySecretFile)
}

func TestAppendDefaultPort(t *testing.T) {
	require.Equal(t, "host:1234", AppendDefaultPort("host", 1234))
	require.Equal(t, "host:80", AppendDefaultPort("host:80", 1234))
}
