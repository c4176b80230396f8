/*************************************************************************
 * Copyright 2026 bedrockcap authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package diff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gravwell/bedrockcap/decode"
)

// Color tags the display color of a rendered diff line.
type Color int

const (
	ColorNone Color = iota
	ColorRed         // removed
	ColorGreen       // added
)

// Line is one rendered diff line: display text paired with a color hint.
// Unchanged nodes never produce a Line.
type Line struct {
	Text  string
	Color Color
}

// Render flattens a diff tree into display lines along dotted paths
// (parent.child[0].field), skipping Unchanged nodes entirely. Removed
// lines are colored red, Added green, and Modified emits both an old
// (red) and new (green) line.
func Render(n Node) []Line {
	var lines []Line
	render(n, "", &lines)
	return lines
}

func render(n Node, path string, lines *[]Line) {
	switch n.Kind {
	case KindUnchanged:
		return
	case KindAdded:
		*lines = append(*lines, Line{Text: fmt.Sprintf("+ %s: %s", path, valueString(n.Value)), Color: ColorGreen})
	case KindRemoved:
		*lines = append(*lines, Line{Text: fmt.Sprintf("- %s: %s", path, valueString(n.Value)), Color: ColorRed})
	case KindModified:
		*lines = append(*lines, Line{Text: fmt.Sprintf("- %s: %s", path, valueString(n.Old)), Color: ColorRed})
		*lines = append(*lines, Line{Text: fmt.Sprintf("+ %s: %s", path, valueString(n.New)), Color: ColorGreen})
	case KindObjectDiff:
		for _, f := range n.Fields {
			childPath := f.Key
			if path != "" {
				childPath = path + "." + f.Key
			}
			render(f.Node, childPath, lines)
		}
	case KindArrayDiff:
		for _, e := range n.Elements {
			render(e.Node, path+"["+strconv.Itoa(e.Index)+"]", lines)
		}
	}
}

func valueString(v decode.Value) string {
	if v == nil {
		return "null"
	}
	switch t := v.(type) {
	case decode.String:
		return strconv.Quote(string(t))
	case decode.Number:
		return formatNumber(float64(t))
	case decode.Bool:
		return strings.ToLower(fmt.Sprintf("%v", bool(t)))
	case decode.Null:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
