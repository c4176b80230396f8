/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// versionFilePrefix/versionFileExts match the naming convention reference
// decoders use for per-version protocol documents: proto-<version>.yml (or
// .yaml), one file per protocol revision, all living in one directory.
const versionFilePrefix = "proto-"

var versionFileExts = []string{".yml", ".yaml"}

// LoadVersions reads every proto-<version>.yml/.yaml file in dir and
// resolves each into a Document, keyed by the <version> portion of its
// filename. A directory with no matching files is not an error -- it
// resolves to an empty, non-nil map, matching LoadConfigOverlays's
// "nothing to load is fine" behavior.
func LoadVersions(dir string) (map[string]*Document, error) {
	docs := make(map[string]*Document)

	dents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("schema: read versions dir %s: %w", dir, err)
	}
	for _, dent := range dents {
		if dent.IsDir() {
			continue
		}
		version, ok := versionFromFilename(dent.Name())
		if !ok {
			continue
		}
		doc, err := Load(filepath.Join(dir, dent.Name()))
		if err != nil {
			return nil, fmt.Errorf("schema: load version %q: %w", version, err)
		}
		docs[version] = doc
	}
	return docs, nil
}

// versionFromFilename extracts <version> from proto-<version>.yml/.yaml,
// reporting ok=false for anything that doesn't match the convention.
func versionFromFilename(name string) (version string, ok bool) {
	if !strings.HasPrefix(name, versionFilePrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(name, versionFilePrefix)
	for _, ext := range versionFileExts {
		if strings.HasSuffix(rest, ext) {
			return strings.TrimSuffix(rest, ext), true
		}
	}
	return "", false
}
