package roadmap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuiltinHasTenCareerRoles(t *testing.T) {
	ds := Builtin()
	if len(ds.Roles) != 10 {
		t.Fatalf("expected 10 roles, got %d", len(ds.Roles))
	}
	for _, r := range ds.Roles {
		if !ds.Has(r.ID) {
			t.Errorf("role %s has no graph", r.ID)
		}
		if r.ID == RoleSample {
			t.Errorf("showcase map should not be listed as a career role")
		}
	}
	if !ds.Has(RoleSample) {
		t.Error("expected showcase map to be reachable by id")
	}
}

// Every edge in every built-in graph must resolve to a node of that graph.
func TestBuiltinEdgesResolve(t *testing.T) {
	ds := Builtin()
	for _, id := range ds.GraphIDs() {
		g := ds.Graph(id)
		for _, e := range g.Edges {
			if g.Index(e.From) < 0 || g.Index(e.To) < 0 {
				t.Errorf("%s: edge %s references a missing node", id, e)
			}
		}
	}
}

func TestBuiltinCoordinatesInRange(t *testing.T) {
	ds := Builtin()
	for _, id := range ds.GraphIDs() {
		for _, n := range ds.Graph(id).Nodes {
			if !n.Tree.InRange() {
				t.Errorf("%s/%s: tree position %+v out of range", id, n.ID, n.Tree)
			}
			if n.Timeline != nil && !n.Timeline.InRange() {
				t.Errorf("%s/%s: timeline position %+v out of range", id, n.ID, *n.Timeline)
			}
		}
	}
}

func TestBuiltinValidates(t *testing.T) {
	problems := ValidateDataset(Builtin())
	if len(problems) != 0 {
		for _, p := range problems {
			t.Errorf("unexpected problem: %s", p)
		}
	}
}

func TestGraphUnknownRoleFallsBackToDefault(t *testing.T) {
	ds := Builtin()
	g := ds.Graph("astronaut")
	if g.Role != RoleSDE {
		t.Fatalf("expected fallback to %s, got %s", RoleSDE, g.Role)
	}
	if diff := cmp.Diff(ds.Graph(RoleSDE), g); diff != "" {
		t.Errorf("fallback graph differs from default (-want +got):\n%s", diff)
	}
}

func TestSDEGraphShape(t *testing.T) {
	g := Builtin().Graph(RoleSDE)
	if len(g.Nodes) != 6 || len(g.Edges) != 6 {
		t.Fatalf("expected 6 nodes and 6 edges, got %d and %d", len(g.Nodes), len(g.Edges))
	}
	want := []string{"oop", "db"}
	if diff := cmp.Diff(want, g.Children("dsa")); diff != "" {
		t.Errorf("dsa children mismatch (-want +got):\n%s", diff)
	}
	if got := g.Parents("os"); len(got) != 2 {
		t.Errorf("expected os to have 2 parents, got %v", got)
	}
}

func TestDefaultSelection(t *testing.T) {
	ds := Builtin()
	tests := []struct {
		role RoleID
		want string
	}{
		{RoleSDE, "dsa"},
		{RoleFrontend, "js"},
		{RoleBackend, "db"}, // db and api are both active; db comes first
		{RoleSample, "root"},
	}
	for _, tt := range tests {
		if got := ds.Graph(tt.role).DefaultSelection(); got != tt.want {
			t.Errorf("%s: default selection = %q, want %q", tt.role, got, tt.want)
		}
	}

	noActive := Graph{Nodes: []Node{
		{ID: "a", Status: StatusCompleted},
		{ID: "b", Status: StatusLocked},
	}}
	if got := noActive.DefaultSelection(); got != "a" {
		t.Errorf("expected first node without an active one, got %q", got)
	}
	if got := (Graph{}).DefaultSelection(); got != "" {
		t.Errorf("expected no selection for empty graph, got %q", got)
	}
}

func TestNormalizeDerivesParentEdges(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			{ID: "root"},
			{ID: "a", Parent: "root"},
			{ID: "b", Parent: "root"},
		},
		Edges: []Edge{{From: "root", To: "a"}},
	}
	got := g.Normalize()
	want := []Edge{{From: "root", To: "a"}, {From: "root", To: "b"}}
	if diff := cmp.Diff(want, got.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if len(g.Edges) != 1 {
		t.Error("Normalize must not modify its receiver")
	}
}

func TestSampleGraphEdgesFromParents(t *testing.T) {
	g := Builtin().Graph(RoleSample)
	if len(g.Edges) != len(g.Nodes)-1 {
		t.Fatalf("expected a tree with %d edges, got %d", len(g.Nodes)-1, len(g.Edges))
	}
	for _, n := range g.Nodes {
		if n.Timeline == nil {
			t.Errorf("showcase node %s should carry timeline coordinates", n.ID)
		}
	}
}

func TestMergeOverridesAndAppends(t *testing.T) {
	base := Builtin()
	other := &Dataset{
		Roles: []Role{
			{ID: RoleFrontend, Label: "Web Engineer"},
			{ID: "sre", Label: "Site Reliability"},
		},
		Graphs: map[RoleID]Graph{
			RoleFrontend: {Nodes: []Node{{ID: "x", Status: StatusActive}}},
			"sre":        {Nodes: []Node{{ID: "oncall", Status: StatusActive}}},
			"game":       {Nodes: []Node{{ID: "engine", Status: StatusPending}}},
		},
	}
	merged := base.Merge(other)

	if got := merged.RoleLabel(RoleFrontend); got != "Web Engineer" {
		t.Errorf("expected overridden label, got %q", got)
	}
	if got := merged.Graph(RoleFrontend); len(got.Nodes) != 1 || got.Role != RoleFrontend {
		t.Errorf("expected overridden frontend graph, got %+v", got)
	}
	if merged.RoleIndex("sre") != len(base.Roles) {
		t.Errorf("expected sre appended after built-in roles")
	}
	if merged.RoleIndex("game") < 0 {
		t.Errorf("expected unlisted graph to gain a role entry")
	}
	if len(base.Graph(RoleFrontend).Nodes) != 6 {
		t.Error("Merge must not modify the base dataset")
	}
}

func TestLearningOrderRespectsEdges(t *testing.T) {
	ds := Builtin()
	for _, id := range ds.GraphIDs() {
		g := ds.Graph(id)
		order, err := LearningOrder(g)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if len(order) != len(g.Nodes) {
			t.Fatalf("%s: expected %d nodes in order, got %d", id, len(g.Nodes), len(order))
		}
		pos := make(map[string]int, len(order))
		for i, n := range order {
			pos[n.ID] = i
		}
		for _, e := range g.Edges {
			if pos[e.From] >= pos[e.To] {
				t.Errorf("%s: %s must come before %s", id, e.From, e.To)
			}
		}
	}
}

func TestLearningOrderDetectsCycle(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}},
	}
	if _, err := LearningOrder(g); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestDepths(t *testing.T) {
	d := Depths(Builtin().Graph(RoleSDE))
	want := map[string]int{"prog": 0, "dsa": 1, "oop": 2, "db": 2, "os": 3, "sys": 4}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("depths mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" Locked "); err != nil || s != StatusLocked {
		t.Errorf("ParseStatus(Locked) = %q, %v", s, err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("expected error for unknown status")
	}
}
