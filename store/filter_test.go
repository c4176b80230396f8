/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gravwell/bedrockcap/schema"
)

func TestParseFilterSetRoundTrip(t *testing.T) {
	fs, err := ParseFilterSet("c.start_game,s.*action*")
	require.NoError(t, err)
	require.Len(t, fs, 2)
	require.Equal(t, "c.start_game,s.*action*", fs.String())
}

func TestParseFilterSetEmpty(t *testing.T) {
	fs, err := ParseFilterSet("")
	require.NoError(t, err)
	require.Nil(t, fs)
	require.True(t, fs.Matches(schema.Clientbound, "anything"))
}

func TestParseFilterSetInvalidDirection(t *testing.T) {
	_, err := ParseFilterSet("x.foo")
	require.Error(t, err)
}

func TestFilterMatchesExact(t *testing.T) {
	fs, err := ParseFilterSet("c.start_game")
	require.NoError(t, err)
	require.True(t, fs.Matches(schema.Clientbound, "start_game"))
	require.False(t, fs.Matches(schema.Serverbound, "start_game"))
	require.False(t, fs.Matches(schema.Clientbound, "move_player"))
}

func TestFilterMatchesWildcard(t *testing.T) {
	fs, err := ParseFilterSet("s.*action*")
	require.NoError(t, err)
	require.True(t, fs.Matches(schema.Serverbound, "player_action"))
	require.True(t, fs.Matches(schema.Serverbound, "action"))
	require.False(t, fs.Matches(schema.Serverbound, "move_player"))
}

func TestFilterMatchesAnyDirection(t *testing.T) {
	fs, err := ParseFilterSet("a.move_player")
	require.NoError(t, err)
	require.True(t, fs.Matches(schema.Clientbound, "move_player"))
	require.True(t, fs.Matches(schema.Serverbound, "move_player"))
}

func TestAllowsDirection(t *testing.T) {
	fs, err := ParseFilterSet("c.start_game")
	require.NoError(t, err)
	require.True(t, fs.AllowsDirection(schema.Clientbound))
	require.False(t, fs.AllowsDirection(schema.Serverbound))

	empty, err := ParseFilterSet("")
	require.NoError(t, err)
	require.True(t, empty.AllowsDirection(schema.Serverbound))
}

func TestGlobMatch(t *testing.T) {
	require.True(t, globMatch("*", "anything"))
	require.True(t, globMatch("start*", "start_game"))
	require.False(t, globMatch("start*", "game_start"))
	require.True(t, globMatch("*game", "start_game"))
	require.True(t, globMatch("*act*", "player_action_result"))
	require.False(t, globMatch("*zzz*", "player_action_result"))
}
