/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package config loads bedrockcap's environment-variable configuration,
// adapted from the teacher's config/env.go and config/parse.go: every
// variable may instead be supplied as NAME_FILE pointing at a file whose
// first line holds the secret (so passwords never need to sit directly in
// the process environment), and bare hostnames get a default port appended.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

var (
	ErrEmptySecretFile = errors.New("config: secret file is empty")
	ErrMissingRequired = errors.New("config: missing required environment variable")
)

// Proxy holds the listen/upstream configuration for cmd/bedrockproxy.
type Proxy struct {
	ListenAddr   string
	UpstreamAddr string
	LogLevel     string
	AppendLog    string // optional file path for the append-log capture store
}

const (
	envListenAddr   = "BEDROCKCAP_LISTEN_ADDR"
	envUpstreamAddr = "BEDROCKCAP_UPSTREAM_ADDR"
	envLogLevel     = "BEDROCKCAP_LOG_LEVEL"
	envAppendLog    = "BEDROCKCAP_APPEND_LOG"
)

const defaultGamePort = 19132

// LoadProxy reads the proxy's env-var configuration.
func LoadProxy() (Proxy, error) {
	var p Proxy
	var err error
	if p.ListenAddr, err = loadEnvVar(envListenAddr, ":19132"); err != nil {
		return p, err
	}
	if p.UpstreamAddr, err = loadEnvVar(envUpstreamAddr, ""); err != nil {
		return p, err
	}
	if p.UpstreamAddr == "" {
		return p, fmt.Errorf("%w: %s", ErrMissingRequired, envUpstreamAddr)
	}
	p.UpstreamAddr = AppendDefaultPort(p.UpstreamAddr, defaultGamePort)
	if p.LogLevel, err = loadEnvVar(envLogLevel, "INFO"); err != nil {
		return p, err
	}
	if p.AppendLog, err = loadEnvVar(envAppendLog, ""); err != nil {
		return p, err
	}
	return p, nil
}

// loadEnvVar reads envName directly; if unset, it tries envName+"_FILE" and
// reads the first line of that file. Mirrors config/env.go's loadEnv.
func loadEnvVar(envName, defVal string) (string, error) {
	if v, ok := os.LookupEnv(envName); ok {
		return v, nil
	}
	if fp, ok := os.LookupEnv(envName + "_FILE"); ok {
		return loadEnvFile(fp)
	}
	return defVal, nil
}

func loadEnvFile(path string) (string, error) {
	fin, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("config: open %s: %w", path, err)
	}
	defer fin.Close()
	s := bufio.NewScanner(fin)
	s.Scan()
	if err := s.Err(); err != nil {
		return "", err
	}
	v := s.Text()
	if v == "" {
		return "", ErrEmptySecretFile
	}
	return v, nil
}

// AppendDefaultPort appends defPort to bstr if it has no port already,
// adapted from config/parse.go.
func AppendDefaultPort(bstr string, defPort uint16) string {
	if _, _, err := net.SplitHostPort(bstr); err != nil {
		if strings.HasSuffix(err.Error(), "missing port in address") {
			return fmt.Sprintf("%s:%d", bstr, defPort)
		}
	}
	return bstr
}
