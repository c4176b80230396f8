/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package schema

import (
	"strconv"
	"strings"
)

// tables bundles the lookups parse_type needs to resolve aliases and
// recognize container references (rules d/e of spec.md §4.1).
type tables struct {
	aliases    map[string]DocNode
	containers map[string]*Container
}

// parseType implements parse_type(expr) from spec.md §4.1.
func parseType(expr DocNode, t *tables, visited map[string]bool) (*Type, error) {
	switch expr.Kind {
	case NodeSequence:
		return parseSequenceType(expr, t, visited)
	case NodeScalar:
		return parseScalarType(expr.Scalar, t, visited)
	default:
		return nil, &ErrUnknownType{Expr: "<mapping>"}
	}
}

// parseSequenceType handles rule 1: [head, ...].
func parseSequenceType(expr DocNode, t *tables, visited map[string]bool) (*Type, error) {
	if len(expr.Seq) == 0 || expr.Seq[0].Kind != NodeScalar {
		return nil, &ErrUnknownType{Expr: "<empty sequence>"}
	}
	head := expr.Seq[0].Scalar
	switch head {
	case "buffer":
		ct := DefaultCountType
		if len(expr.Seq) > 1 {
			ct = parseCountTypeMapping(expr.Seq[1])
		}
		return &Type{Kind: KindBuffer, BufCountType: ct}, nil
	case "pstring":
		ct := DefaultCountType
		if len(expr.Seq) > 1 {
			ct = parseCountTypeMapping(expr.Seq[1])
		}
		return &Type{Kind: KindString, StrVariant: StringGeneric, CountType: ct}, nil
	case "encapsulated":
		if len(expr.Seq) < 2 {
			return nil, &ErrUnknownType{Expr: "encapsulated: missing inner type"}
		}
		inner, err := parseType(expr.Seq[1], t, visited)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindEncapsulated, Inner: inner}, nil
	default:
		return nil, &ErrUnknownType{Expr: head}
	}
}

// parseCountTypeMapping reads {countType: <str>} out of a mapping node.
func parseCountTypeMapping(n DocNode) CountType {
	if n.Kind != NodeMapping {
		return DefaultCountType
	}
	v, ok := n.Map["countType"]
	if !ok || v.Kind != NodeScalar {
		return DefaultCountType
	}
	return countTypeFromString(v.Scalar)
}

func countTypeFromString(s string) CountType {
	switch s {
	case "varint":
		return CountType{Kind: CountVarint}
	case "zigzag32":
		return CountType{Kind: CountZigzag32}
	case "li16":
		return CountType{Kind: CountLI16}
	case "li32":
		return CountType{Kind: CountLI32}
	case "li64":
		return CountType{Kind: CountLI64}
	case "lu16":
		return CountType{Kind: CountLU16}
	case "lu32":
		return CountType{Kind: CountLU32}
	}
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return CountType{Kind: CountFixed, Fixed: uint32(n)}
	}
	// default (unrecognized countType token) to varint, per spec.md §4.1.
	return DefaultCountType
}

// parseScalarType implements rules a-f of spec.md §4.1.
func parseScalarType(s string, t *tables, visited map[string]bool) (*Type, error) {
	// rule a: "T[]countType" array suffix form.
	if idx := strings.Index(s, "[]"); idx >= 0 {
		prefix, countStr := s[:idx], s[idx+2:]
		elem, err := parseScalarType(prefix, t, visited)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: KindArray, ElemType: elem, ArrCount: countTypeFromString(countStr)}, nil
	}
	// rule b: native: prefix.
	if strings.HasPrefix(s, "native:") {
		return &Type{Kind: KindNative, NativeTag: strings.TrimPrefix(s, "native:")}, nil
	}
	// rule c: primitive keyword.
	if pt, ok := primitiveType(s); ok {
		return pt, nil
	}
	// rule d: type alias, with cycle protection.
	if aliasExpr, ok := t.aliases[s]; ok {
		if visited[s] {
			return nil, &ErrCyclicAlias{Path: append(visitedOrder(visited), s)}
		}
		next := make(map[string]bool, len(visited)+1)
		for k := range visited {
			next[k] = true
		}
		next[s] = true
		return parseType(aliasExpr, t, next)
	}
	// rule e: container reference (lazy; resolved at decode time).
	if _, ok := t.containers[s]; ok {
		return &Type{Kind: KindContainer, ContainerName: s}, nil
	}
	// rule f: unresolved.
	return nil, &ErrUnknownType{Expr: s}
}

func visitedOrder(visited map[string]bool) []string {
	out := make([]string, 0, len(visited))
	for k := range visited {
		out = append(out, k)
	}
	return out
}

func primitiveType(s string) (*Type, bool) {
	switch s {
	case "i8":
		return &Type{Kind: KindInt, IntWidth: 8, IntSigned: true}, true
	case "u8":
		return &Type{Kind: KindInt, IntWidth: 8, IntSigned: false}, true
	case "i16", "li16":
		return &Type{Kind: KindInt, IntWidth: 16, IntSigned: true}, true
	case "u16", "lu16":
		return &Type{Kind: KindInt, IntWidth: 16, IntSigned: false}, true
	case "i32", "li32":
		return &Type{Kind: KindInt, IntWidth: 32, IntSigned: true}, true
	case "u32", "lu32":
		return &Type{Kind: KindInt, IntWidth: 32, IntSigned: false}, true
	case "i64", "li64":
		return &Type{Kind: KindInt, IntWidth: 64, IntSigned: true}, true
	case "u64", "lu64":
		return &Type{Kind: KindInt, IntWidth: 64, IntSigned: false}, true
	case "f32":
		return &Type{Kind: KindFloat, FloatWidth: 32}, true
	case "f64":
		return &Type{Kind: KindFloat, FloatWidth: 64}, true
	case "bool":
		return &Type{Kind: KindBool}, true
	case "varint32":
		return &Type{Kind: KindVarint, VarWidth: 32}, true
	case "varint64":
		return &Type{Kind: KindVarint, VarWidth: 64}, true
	case "zigzag32":
		return &Type{Kind: KindZigzag, VarWidth: 32}, true
	case "zigzag64":
		return &Type{Kind: KindZigzag, VarWidth: 64}, true
	case "string":
		return &Type{Kind: KindString, StrVariant: StringGeneric, CountType: DefaultCountType}, true
	case "LittleString":
		return &Type{Kind: KindString, StrVariant: StringLittle, CountType: CountType{Kind: CountLI32}}, true
	case "ShortString":
		return &Type{Kind: KindString, StrVariant: StringShort, CountType: CountType{Kind: CountLI16}}, true
	case "LatinString":
		return &Type{Kind: KindString, StrVariant: StringLatin, CountType: DefaultCountType}, true
	case "buffer":
		return &Type{Kind: KindBuffer, BufCountType: DefaultCountType}, true
	case "uuid", "UUID":
		return &Type{Kind: KindUUID}, true
	case "Vec2F":
		return &Type{Kind: KindVec2F}, true
	case "Vec3F":
		return &Type{Kind: KindVec3F}, true
	case "RestBuffer":
		return &Type{Kind: KindRestBuffer}, true
	}
	return nil, false
}
