// Package render turns a roadmap graph into positioned markers and curved
// connectors. It is pure geometry: the terminal canvas, SVG and PNG writers
// all consume the same Scene.
package render

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// Mode selects which coordinate pair of a node is drawn.
type Mode int

const (
	ModeTree Mode = iota
	ModeTimeline
)

func (m Mode) String() string {
	if m == ModeTimeline {
		return "timeline"
	}
	return "tree"
}

// Toggle returns the other layout mode.
func (m Mode) Toggle() Mode {
	if m == ModeTimeline {
		return ModeTree
	}
	return ModeTimeline
}

// ParseMode parses "tree" (also "map") or "timeline". Empty input is tree.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tree", "map":
		return ModeTree, nil
	case "timeline":
		return ModeTimeline, nil
	default:
		return ModeTree, fmt.Errorf("unknown layout %q (want tree or timeline)", s)
	}
}

// Curve is a cubic Bezier in percentage space.
type Curve struct {
	Start, C1, C2, End roadmap.Point
}

// Connector builds the S-curve between two node positions. In tree mode the
// control points sit on the vertical midpoint; in timeline mode on the
// horizontal midpoint.
func Connector(from, to roadmap.Point, mode Mode) Curve {
	if mode == ModeTimeline {
		midX := (from.X + to.X) / 2
		return Curve{
			Start: from,
			C1:    roadmap.Point{X: midX, Y: from.Y},
			C2:    roadmap.Point{X: midX, Y: to.Y},
			End:   to,
		}
	}
	midY := (from.Y + to.Y) / 2
	return Curve{
		Start: from,
		C1:    roadmap.Point{X: from.X, Y: midY},
		C2:    roadmap.Point{X: to.X, Y: midY},
		End:   to,
	}
}

// Path renders the curve as SVG path data.
func (c Curve) Path() string {
	return fmt.Sprintf("M %g %g C %g %g, %g %g, %g %g",
		c.Start.X, c.Start.Y, c.C1.X, c.C1.Y, c.C2.X, c.C2.Y, c.End.X, c.End.Y)
}

// At evaluates the curve at t in [0, 1].
func (c Curve) At(t float64) roadmap.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return roadmap.Point{
		X: a*c.Start.X + b*c.C1.X + d*c.C2.X + e*c.End.X,
		Y: a*c.Start.Y + b*c.C1.Y + d*c.C2.Y + e*c.End.Y,
	}
}

// Sample returns n+1 evenly spaced points along the curve, endpoints included.
func (c Curve) Sample(n int) []roadmap.Point {
	if n < 1 {
		n = 1
	}
	out := make([]roadmap.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, c.At(float64(i)/float64(n)))
	}
	return out
}

// Scale maps a percentage point onto a box of the given size.
func Scale(p roadmap.Point, width, height float64) (float64, float64) {
	return p.X / 100 * width, p.Y / 100 * height
}

// Positions returns every node's position for mode. Timeline mode uses the
// authored timeline pair when present and otherwise derives one from the
// node's depth: columns left to right by depth, rows spread by order within
// the column.
func Positions(g roadmap.Graph, mode Mode) map[string]roadmap.Point {
	out := make(map[string]roadmap.Point, len(g.Nodes))
	if mode == ModeTree {
		for _, n := range g.Nodes {
			out[n.ID] = n.Tree
		}
		return out
	}

	depths := roadmap.Depths(g)
	maxDepth := 0
	columns := make(map[int][]string)
	for _, n := range g.Nodes {
		d := depths[n.ID]
		if d > maxDepth {
			maxDepth = d
		}
		columns[d] = append(columns[d], n.ID)
	}
	row := make(map[string]int, len(g.Nodes))
	for _, ids := range columns {
		for i, id := range ids {
			row[id] = i
		}
	}

	for _, n := range g.Nodes {
		if n.Timeline != nil {
			out[n.ID] = *n.Timeline
			continue
		}
		d := depths[n.ID]
		x := 50.0
		if maxDepth > 0 {
			x = 10 + float64(d)*80/float64(maxDepth)
		}
		count := len(columns[d])
		y := float64(row[n.ID]+1) * 100 / float64(count+1)
		out[n.ID] = roadmap.Point{X: x, Y: y}
	}
	return out
}
