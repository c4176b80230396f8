/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDocumentPreservesMappingKeyOrder(t *testing.T) {
	root, err := parseDocument([]byte(`
zeta: u8
alpha: u16
middle: u32
`))
	require.NoError(t, err)
	require.Equal(t, NodeMapping, root.Kind)
	require.Equal(t, []string{"zeta", "alpha", "middle"}, root.Keys)
}

func TestParseDocumentEmptyYieldsEmptyMapping(t *testing.T) {
	root, err := parseDocument([]byte(``))
	require.NoError(t, err)
	require.Equal(t, NodeMapping, root.Kind)
	require.Empty(t, root.Keys)
}

func TestParseDocumentSequenceNode(t *testing.T) {
	root, err := parseDocument([]byte(`
top:
  - a
  - b
`))
	require.NoError(t, err)
	seq := root.Map["top"]
	require.Equal(t, NodeSequence, seq.Kind)
	require.Len(t, seq.Seq, 2)
	require.Equal(t, "a", seq.Seq[0].Scalar)
	require.Equal(t, "b", seq.Seq[1].Scalar)
}

func TestDocNodeIsZero(t *testing.T) {
	require.True(t, DocNode{}.IsZero())
	require.False(t, DocNode{Kind: NodeScalar, Scalar: "x"}.IsZero())
}
