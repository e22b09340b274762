package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// AssertNodeCount verifies the expected number of nodes.
func AssertNodeCount(t *testing.T, g roadmap.Graph, expected int) {
	t.Helper()
	if len(g.Nodes) != expected {
		t.Errorf("expected %d nodes, got %d", expected, len(g.Nodes))
	}
}

// AssertNoDuplicateIDs verifies all node IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, g roadmap.Graph) {
	t.Helper()
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			t.Errorf("duplicate node ID: %s", n.ID)
		}
		seen[n.ID] = true
	}
}

// AssertEdgesResolve verifies both endpoints of every edge exist.
func AssertEdgesResolve(t *testing.T, g roadmap.Graph) {
	t.Helper()
	for _, e := range g.Edges {
		if g.Index(e.From) < 0 || g.Index(e.To) < 0 {
			t.Errorf("%s: edge %s has a missing endpoint", g.Role, e)
		}
	}
}

// AssertCoordinatesInRange verifies every authored coordinate lies within
// [0, 100].
func AssertCoordinatesInRange(t *testing.T, g roadmap.Graph) {
	t.Helper()
	for _, n := range g.Nodes {
		if !n.Tree.InRange() {
			t.Errorf("%s/%s: tree position %+v out of range", g.Role, n.ID, n.Tree)
		}
		if n.Timeline != nil && !n.Timeline.InRange() {
			t.Errorf("%s/%s: timeline position %+v out of range", g.Role, n.ID, *n.Timeline)
		}
	}
}

// AssertStatusCounts verifies the number of nodes per status.
func AssertStatusCounts(t *testing.T, g roadmap.Graph, completed, active, pending, locked int) {
	t.Helper()
	got := g.StatusCounts()
	want := map[roadmap.Status]int{
		roadmap.StatusCompleted: completed,
		roadmap.StatusActive:    active,
		roadmap.StatusPending:   pending,
		roadmap.StatusLocked:    locked,
	}
	for s, n := range want {
		if got[s] != n {
			t.Errorf("status %s: expected %d, got %d", s, n, got[s])
		}
	}
}

// AssertGraphEqual compares two graphs structurally.
func AssertGraphEqual(t *testing.T, want, got roadmap.Graph) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// NodeIDs returns the node IDs of g in array order.
func NodeIDs(g roadmap.Graph) []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}
