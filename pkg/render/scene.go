package render

import (
	"github.com/vanderheijden86/roadmap/pkg/debug"
	"github.com/vanderheijden86/roadmap/pkg/metrics"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// Marker is a node placed on the canvas.
type Marker struct {
	Node     roadmap.Node
	Pos      roadmap.Point
	Index    int
	Selected bool
}

// Link is an edge drawn as a curve.
type Link struct {
	Edge      roadmap.Edge
	Curve     Curve
	Highlight bool
}

// Scene is everything a renderer draws for one graph. Draw order is array
// order: links first, then markers.
type Scene struct {
	Role    roadmap.RoleID
	Mode    Mode
	Markers []Marker
	Links   []Link
	// Skipped holds edges with an endpoint that is not in the graph. They
	// are never drawn.
	Skipped []roadmap.Edge
}

// Options tunes scene construction.
type Options struct {
	Selected  string
	Highlight *roadmap.Edge
}

// BuildScene positions every node and curves every resolvable edge.
func BuildScene(g roadmap.Graph, mode Mode, opts Options) Scene {
	defer metrics.Timer(metrics.SceneBuild)()

	pos := Positions(g, mode)
	s := Scene{
		Role:    g.Role,
		Mode:    mode,
		Markers: make([]Marker, 0, len(g.Nodes)),
		Links:   make([]Link, 0, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		s.Markers = append(s.Markers, Marker{
			Node:     n,
			Pos:      pos[n.ID],
			Index:    i,
			Selected: opts.Selected != "" && n.ID == opts.Selected,
		})
	}
	for _, e := range g.Edges {
		from, ok1 := pos[e.From]
		to, ok2 := pos[e.To]
		if !ok1 || !ok2 {
			s.Skipped = append(s.Skipped, e)
			continue
		}
		s.Links = append(s.Links, Link{
			Edge:      e,
			Curve:     Connector(from, to, mode),
			Highlight: opts.Highlight != nil && *opts.Highlight == e,
		})
	}
	debug.LogIf(len(s.Skipped) > 0, "render: %s skipped %d dangling edges", g.Role, len(s.Skipped))
	return s
}

// Marker returns the marker for id.
func (s Scene) Marker(id string) (Marker, bool) {
	for _, m := range s.Markers {
		if m.Node.ID == id {
			return m, true
		}
	}
	return Marker{}, false
}
