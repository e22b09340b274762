package render

import (
	"math"
	"testing"

	"github.com/vanderheijden86/roadmap/pkg/roadmap"
	"pgregory.net/rapid"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestConnectorTreeUsesVerticalMidpoint(t *testing.T) {
	c := Connector(roadmap.Point{X: 50, Y: 85}, roadmap.Point{X: 50, Y: 70}, ModeTree)
	if c.C1 != (roadmap.Point{X: 50, Y: 77.5}) || c.C2 != (roadmap.Point{X: 50, Y: 77.5}) {
		t.Fatalf("unexpected control points %+v %+v", c.C1, c.C2)
	}
	want := "M 50 85 C 50 77.5, 50 77.5, 50 70"
	if got := c.Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestConnectorTimelineUsesHorizontalMidpoint(t *testing.T) {
	c := Connector(roadmap.Point{X: 10, Y: 50}, roadmap.Point{X: 25, Y: 30}, ModeTimeline)
	if c.C1 != (roadmap.Point{X: 17.5, Y: 50}) || c.C2 != (roadmap.Point{X: 17.5, Y: 30}) {
		t.Fatalf("unexpected control points %+v %+v", c.C1, c.C2)
	}
}

func TestCurveEndpointsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := func(label string) roadmap.Point {
			return roadmap.Point{
				X: rapid.Float64Range(0, 100).Draw(t, label+"x"),
				Y: rapid.Float64Range(0, 100).Draw(t, label+"y"),
			}
		}
		from, to := p("from"), p("to")
		mode := Mode(rapid.IntRange(0, 1).Draw(t, "mode"))
		c := Connector(from, to, mode)

		start, end := c.At(0), c.At(1)
		if !near(start.X, from.X) || !near(start.Y, from.Y) || !near(end.X, to.X) || !near(end.Y, to.Y) {
			t.Fatalf("curve does not join its endpoints: %+v -> %+v", start, end)
		}
		// The curve stays inside the box spanned by its control polygon,
		// which for these curves is the endpoint bounding box.
		for _, q := range c.Sample(16) {
			if q.X < math.Min(from.X, to.X)-1e-9 || q.X > math.Max(from.X, to.X)+1e-9 ||
				q.Y < math.Min(from.Y, to.Y)-1e-9 || q.Y > math.Max(from.Y, to.Y)+1e-9 {
				t.Fatalf("sample %+v escapes endpoint box", q)
			}
		}
	})
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeTree, "tree": ModeTree, "Map": ModeTree, "timeline": ModeTimeline} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("radial"); err == nil {
		t.Error("expected error for unknown layout")
	}
	if ModeTree.Toggle() != ModeTimeline || ModeTimeline.Toggle() != ModeTree {
		t.Error("Toggle should alternate modes")
	}
}

func TestBuildSceneSDE(t *testing.T) {
	g := roadmap.Builtin().Graph(roadmap.RoleSDE)
	s := BuildScene(g, ModeTree, Options{Selected: "dsa"})
	if len(s.Links) != 6 {
		t.Fatalf("expected 6 links, got %d", len(s.Links))
	}
	if len(s.Skipped) != 0 {
		t.Fatalf("expected no skipped edges, got %v", s.Skipped)
	}
	for i, m := range s.Markers {
		if m.Index != i || m.Node.ID != g.Nodes[i].ID {
			t.Fatalf("markers must follow array order")
		}
		if m.Selected != (m.Node.ID == "dsa") {
			t.Errorf("marker %s selected=%v", m.Node.ID, m.Selected)
		}
	}
	m, ok := s.Marker("prog")
	if !ok || m.Pos != (roadmap.Point{X: 50, Y: 85}) {
		t.Errorf("prog marker = %+v, %v", m, ok)
	}
}

func TestBuildSceneSkipsDanglingEdges(t *testing.T) {
	g := roadmap.Graph{
		Nodes: []roadmap.Node{{ID: "a"}, {ID: "b", Tree: roadmap.Point{X: 10, Y: 10}}},
		Edges: []roadmap.Edge{{From: "a", To: "b"}, {From: "b", To: "ghost"}},
	}
	s := BuildScene(g, ModeTree, Options{})
	if len(s.Links) != 1 || len(s.Skipped) != 1 || s.Skipped[0].To != "ghost" {
		t.Fatalf("expected one link and one skipped edge, got %d / %v", len(s.Links), s.Skipped)
	}
}

func TestBuildSceneHighlight(t *testing.T) {
	g := roadmap.Builtin().Graph(roadmap.RoleSample)
	hl := roadmap.Edge{From: "root", To: "b2"}
	s := BuildScene(g, ModeTimeline, Options{Selected: "b2", Highlight: &hl})
	count := 0
	for _, l := range s.Links {
		if l.Highlight {
			count++
			if l.Edge != hl {
				t.Errorf("wrong link highlighted: %s", l.Edge)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one highlighted link, got %d", count)
	}
}

// Derived and authored timeline positions stay within the box for every
// built-in graph.
func TestPositionsInRange(t *testing.T) {
	ds := roadmap.Builtin()
	for _, id := range ds.GraphIDs() {
		g := ds.Graph(id)
		for _, mode := range []Mode{ModeTree, ModeTimeline} {
			pos := Positions(g, mode)
			if len(pos) != len(g.Nodes) {
				t.Fatalf("%s/%s: expected %d positions, got %d", id, mode, len(g.Nodes), len(pos))
			}
			for nid, p := range pos {
				if !p.InRange() {
					t.Errorf("%s/%s: %s at %+v out of range", id, mode, nid, p)
				}
			}
		}
	}
}

func TestDerivedTimelineColumnsFollowDepth(t *testing.T) {
	g := roadmap.Builtin().Graph(roadmap.RoleSDE)
	pos := Positions(g, ModeTimeline)
	if pos["prog"].X != 10 || pos["sys"].X != 90 {
		t.Errorf("expected roots at x=10 and deepest at x=90, got %v and %v", pos["prog"].X, pos["sys"].X)
	}
	if pos["oop"].X != pos["db"].X || pos["oop"].Y == pos["db"].Y {
		t.Errorf("siblings should share a column and differ in row: %+v %+v", pos["oop"], pos["db"])
	}
}

func TestScale(t *testing.T) {
	x, y := Scale(roadmap.Point{X: 50, Y: 25}, 800, 400)
	if x != 400 || y != 100 {
		t.Errorf("Scale = %v, %v", x, y)
	}
}
