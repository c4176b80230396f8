/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package schema

import "gopkg.in/yaml.v3"

// NodeKind tags a raw document node, matching spec.md §4.1's description of
// the input as "a tree of (mapping | sequence | string | number | bool)".
type NodeKind int

const (
	NodeScalar NodeKind = iota
	NodeSequence
	NodeMapping
)

// DocNode is a generic parsed-document node. Mapping order is preserved
// (Keys is parallel to the yaml mapping's original key order) since the
// resolver requires it for packet field wire order.
type DocNode struct {
	Kind   NodeKind
	Scalar string
	Seq    []DocNode
	Keys   []string
	Map    map[string]DocNode
}

func (n DocNode) IsZero() bool {
	return n.Kind == NodeScalar && n.Scalar == "" && n.Seq == nil && n.Map == nil
}

// parseDocument parses a YAML mapping document into a DocNode tree that
// preserves mapping key order.
func parseDocument(b []byte) (DocNode, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return DocNode{}, err
	}
	if len(root.Content) == 0 {
		return DocNode{Kind: NodeMapping, Map: map[string]DocNode{}}, nil
	}
	return nodeFromYAML(root.Content[0]), nil
}

func nodeFromYAML(n *yaml.Node) DocNode {
	switch n.Kind {
	case yaml.MappingNode:
		keys := make([]string, 0, len(n.Content)/2)
		m := make(map[string]DocNode, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i].Value
			v := nodeFromYAML(n.Content[i+1])
			if _, exists := m[k]; !exists {
				keys = append(keys, k)
			}
			m[k] = v
		}
		return DocNode{Kind: NodeMapping, Keys: keys, Map: m}
	case yaml.SequenceNode:
		seq := make([]DocNode, 0, len(n.Content))
		for _, c := range n.Content {
			seq = append(seq, nodeFromYAML(c))
		}
		return DocNode{Kind: NodeSequence, Seq: seq}
	default:
		return DocNode{Kind: NodeScalar, Scalar: n.Value}
	}
}
