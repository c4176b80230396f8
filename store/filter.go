/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package store

import (
	"fmt"
	"strings"

	"github.com/gravwell/bedrockcap/schema"
)

// Filter is one conjunction of optional predicates: direction (nil = any)
// and an exact or wildcard packet-name match, per spec.md §6.
type Filter struct {
	Direction *schema.Direction
	Name      string
	Wildcard  bool
}

// Matches reports whether this single filter accepts (dir, name).
func (f Filter) Matches(dir schema.Direction, name string) bool {
	if f.Direction != nil && *f.Direction != dir {
		return false
	}
	if f.Name == "" {
		return true
	}
	if !f.Wildcard {
		return f.Name == name
	}
	return globMatch(f.Name, name)
}

func (f Filter) String() string {
	letter := "a"
	if f.Direction != nil {
		if *f.Direction == schema.Clientbound {
			letter = "c"
		} else {
			letter = "s"
		}
	}
	if f.Name == "" {
		return letter
	}
	return letter + "." + f.Name
}

// FilterSet is a disjunction (OR) of Filters. An empty set means "all
// packets".
type FilterSet []Filter

// Matches reports whether any filter in the set accepts (dir, name); an
// empty set always matches.
func (fs FilterSet) Matches(dir schema.Direction, name string) bool {
	if len(fs) == 0 {
		return true
	}
	for _, f := range fs {
		if f.Matches(dir, name) {
			return true
		}
	}
	return false
}

// AllowsDirection reports whether some filter in the set could possibly
// match dir, ignoring each filter's name predicate. Store backends persist
// only raw bytes, not a decoded packet name, so this is the prefilter they
// can apply server-side; full (direction AND name) filtering happens once
// the caller has decoded a record's packet name (see cmd/bedrockinspect).
func (fs FilterSet) AllowsDirection(dir schema.Direction) bool {
	if len(fs) == 0 {
		return true
	}
	for _, f := range fs {
		if f.Direction == nil || *f.Direction == dir {
			return true
		}
	}
	return false
}

func (fs FilterSet) String() string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// ParseFilterSet parses the filter-string grammar of spec.md §6:
//
//	filter_set  := filter ("," filter)*
//	filter      := direction ("." packet_name)?
//	direction   := "c" | "s" | "a" | ""
//	packet_name := any characters, may contain "*"
func ParseFilterSet(s string) (FilterSet, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	fs := make(FilterSet, 0, len(parts))
	for _, part := range parts {
		f, err := parseFilter(part)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return fs, nil
}

func parseFilter(s string) (Filter, error) {
	dirStr, name := s, ""
	if idx := strings.Index(s, "."); idx >= 0 {
		dirStr, name = s[:idx], s[idx+1:]
	}
	var dir *schema.Direction
	switch dirStr {
	case "c":
		d := schema.Clientbound
		dir = &d
	case "s":
		d := schema.Serverbound
		dir = &d
	case "a", "":
		dir = nil
	default:
		return Filter{}, fmt.Errorf("store: invalid filter direction %q", dirStr)
	}
	return Filter{Direction: dir, Name: name, Wildcard: strings.Contains(name, "*")}, nil
}

// globMatch implements the decoder-level wildcard semantics of spec.md §6:
// "*" is per-character equivalent to ".*".
func globMatch(pattern, s string) bool {
	segs := strings.Split(pattern, "*")
	if len(segs) == 1 {
		return pattern == s
	}
	pos := 0
	for i, seg := range segs {
		if seg == "" {
			continue
		}
		idx := strings.Index(s[pos:], seg)
		if idx < 0 {
			return false
		}
		if i == 0 && idx != 0 {
			return false
		}
		pos += idx + len(seg)
	}
	last := segs[len(segs)-1]
	return last == "" || strings.HasSuffix(s, last)
}
