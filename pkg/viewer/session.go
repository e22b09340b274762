// Package viewer holds the view-scoped state of a roadmap: which role is
// shown, which node is selected, and whether the autoplay tour is running.
//
// A Session is owned by exactly one view and is not safe for concurrent use.
// Its state is ephemeral; nothing here is ever persisted.
package viewer

import (
	"github.com/vanderheijden86/roadmap/pkg/debug"
	"github.com/vanderheijden86/roadmap/pkg/render"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// Token identifies one run of the tour. Ticks carrying an older token are
// stale and are ignored. The zero Token never matches a running tour.
type Token uint64

// Session is the selection and tour state machine for one view.
//
// States are Idle(selection) and TourRunning(selection). Role changes,
// reloads and StopTour always return to Idle.
type Session struct {
	ds       *roadmap.Dataset
	role     roadmap.RoleID
	graph    roadmap.Graph
	selected string
	mode     render.Mode
	policy   TourPolicy

	touring   bool
	gen       Token
	highlight *roadmap.Edge
}

// NewSession opens role from ds (unknown roles fall back to the default)
// and selects the role's default node.
func NewSession(ds *roadmap.Dataset, role roadmap.RoleID, policy TourPolicy) *Session {
	if ds == nil {
		ds = roadmap.Builtin()
	}
	s := &Session{ds: ds, policy: policy.normalized()}
	s.load(role)
	return s
}

func (s *Session) load(role roadmap.RoleID) {
	s.graph = s.ds.Graph(role)
	s.role = s.graph.Role
	s.selected = s.graph.DefaultSelection()
	s.highlight = nil
}

// Dataset returns the dataset the session reads from.
func (s *Session) Dataset() *roadmap.Dataset { return s.ds }

// Role returns the resolved role being shown.
func (s *Session) Role() roadmap.RoleID { return s.role }

// Graph returns the graph being shown.
func (s *Session) Graph() roadmap.Graph { return s.graph }

// Policy returns the tour policy.
func (s *Session) Policy() TourPolicy { return s.policy }

// Mode returns the layout mode.
func (s *Session) Mode() render.Mode { return s.mode }

// SetMode switches the layout. It does not touch selection or the tour.
func (s *Session) SetMode(m render.Mode) { s.mode = m }

// ToggleMode flips between tree and timeline layouts.
func (s *Session) ToggleMode() render.Mode {
	s.mode = s.mode.Toggle()
	return s.mode
}

// Selected returns the selected node id, or "" when nothing is selected.
func (s *Session) Selected() string { return s.selected }

// SelectedNode returns the selected node.
func (s *Session) SelectedNode() (roadmap.Node, bool) {
	if s.selected == "" {
		return roadmap.Node{}, false
	}
	return s.graph.Node(s.selected)
}

// SelectedIndex returns the array position of the selection, or -1.
func (s *Session) SelectedIndex() int {
	if s.selected == "" {
		return -1
	}
	return s.graph.Index(s.selected)
}

// Touring reports whether the tour is running.
func (s *Session) Touring() bool { return s.touring }

// Token returns the token of the running tour, or zero when idle.
func (s *Session) Token() Token {
	if !s.touring {
		return 0
	}
	return s.gen
}

// Highlight returns the connector the tour travelled on its last step.
func (s *Session) Highlight() *roadmap.Edge { return s.highlight }

// Select picks the node with the given id. Lock status does not matter.
// Ids that are not in the graph are ignored. Returns whether the selection
// was applied.
func (s *Session) Select(id string) bool {
	if s.graph.Index(id) < 0 {
		debug.Log("viewer: ignoring selection of unknown node %q in %s", id, s.role)
		return false
	}
	if s.touring && s.policy.StopOnSelect {
		s.StopTour()
	}
	s.selected = id
	s.highlight = nil
	return true
}

// SelectIndex selects the node at array position i.
func (s *Session) SelectIndex(i int) bool {
	if i < 0 || i >= len(s.graph.Nodes) {
		return false
	}
	return s.Select(s.graph.Nodes[i].ID)
}

// Move shifts the selection by delta positions in array order, clamped to
// the graph. With nothing selected it starts from the first node.
func (s *Session) Move(delta int) bool {
	n := len(s.graph.Nodes)
	if n == 0 {
		return false
	}
	i := s.SelectedIndex()
	if i < 0 {
		return s.SelectIndex(0)
	}
	next := i + delta
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	if next == i {
		return false
	}
	return s.SelectIndex(next)
}

// Clear drops the selection. A running tour is stopped.
func (s *Session) Clear() {
	if s.touring {
		s.StopTour()
	}
	s.selected = ""
	s.highlight = nil
}

// SetRole cancels any tour and shows role with its default selection.
func (s *Session) SetRole(role roadmap.RoleID) {
	s.StopTour()
	s.load(role)
	debug.Log("viewer: role %s selected %q", s.role, s.selected)
}

// Reload swaps the dataset. The tour is cancelled. The current role and
// selection are kept when they still exist; otherwise defaults apply.
func (s *Session) Reload(ds *roadmap.Dataset) {
	if ds == nil {
		return
	}
	s.StopTour()
	prev := s.selected
	s.ds = ds
	s.load(s.role)
	if prev != "" && s.graph.Index(prev) >= 0 {
		s.selected = prev
	}
}

// StartTour selects the first node and starts a new tour run. It returns
// the run's token, or zero for an empty graph.
func (s *Session) StartTour() Token {
	if len(s.graph.Nodes) == 0 {
		return 0
	}
	s.gen++
	s.touring = true
	s.selected = s.graph.Nodes[0].ID
	s.highlight = nil
	debug.Log("viewer: tour %d started on %s", s.gen, s.role)
	return s.gen
}

// StopTour ends the tour and leaves the selection in place. Any token
// handed out before is invalidated.
func (s *Session) StopTour() {
	if !s.touring {
		return
	}
	s.touring = false
	s.gen++
	debug.Log("viewer: tour stopped at %q", s.selected)
}

// ToggleTour starts an idle tour or stops a running one. It returns the
// new token when a tour was started.
func (s *Session) ToggleTour() Token {
	if s.touring {
		s.StopTour()
		return 0
	}
	return s.StartTour()
}

// Tick advances a running tour by one node. Stale tokens are ignored. After
// the last node the tour wraps or halts according to the policy. It returns
// whether the tick was applied.
func (s *Session) Tick(tok Token) bool {
	if !s.touring || tok != s.gen {
		return false
	}
	n := len(s.graph.Nodes)
	if n == 0 {
		s.StopTour()
		return true
	}
	i := s.SelectedIndex()
	next := i + 1
	if next >= n {
		if s.policy.End == EndHalt {
			s.StopTour()
			return true
		}
		next = 0
	}
	from := s.selected
	s.selected = s.graph.Nodes[next].ID
	s.highlight = s.travelled(from, s.selected)
	return true
}

// travelled picks the connector to light up when moving to id: the edge
// from its parent, preferring the node we came from.
func (s *Session) travelled(from, to string) *roadmap.Edge {
	parents := s.graph.Parents(to)
	if len(parents) == 0 {
		return nil
	}
	e := roadmap.Edge{From: parents[0], To: to}
	for _, p := range parents {
		if p == from {
			e.From = from
			break
		}
	}
	return &e
}

// Detail returns the detail payload of the selected node.
func (s *Session) Detail() (Detail, bool) {
	n, ok := s.SelectedNode()
	if !ok {
		return Detail{}, false
	}
	return NewDetail(s.role, n), true
}

// Scene builds the render scene for the current state.
func (s *Session) Scene() render.Scene {
	return render.BuildScene(s.graph, s.mode, render.Options{
		Selected:  s.selected,
		Highlight: s.highlight,
	})
}
