package roadmap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vanderheijden86/roadmap/pkg/metrics"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Severity ranks a validation problem.
type Severity int

const (
	// SeverityWarning marks problems the viewer tolerates (the element is skipped).
	SeverityWarning Severity = iota
	// SeverityError marks data that should be fixed at the source.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// Problem is a single validation finding for a graph.
type Problem struct {
	Role     RoleID   `json:"role"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", p.Role, p.Severity, p.Code, p.Message)
}

// Problem codes.
const (
	CodeEmptyID        = "empty-id"
	CodeDuplicateID    = "duplicate-id"
	CodeBadStatus      = "bad-status"
	CodeOutOfRange     = "out-of-range"
	CodeDanglingEdge   = "dangling-edge"
	CodeSelfLoop       = "self-loop"
	CodeCycle          = "cycle"
	CodeDuplicateEdge  = "duplicate-edge"
	CodeUnknownDefault = "unknown-default"
)

// ErrCycle is returned by LearningOrder when the graph is not a DAG.
var ErrCycle = errors.New("roadmap graph contains a cycle")

// Validate checks a graph's structural invariants. Dangling edges are
// warnings because renderers skip them; everything else is an error.
func Validate(g Graph) []Problem {
	var problems []Problem
	report := func(sev Severity, code, format string, args ...any) {
		problems = append(problems, Problem{
			Role:     g.Role,
			Severity: sev,
			Code:     code,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	ids := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			report(SeverityError, CodeEmptyID, "node %d has no id", i)
			continue
		}
		if ids[n.ID] {
			report(SeverityError, CodeDuplicateID, "node id %q appears more than once", n.ID)
		}
		ids[n.ID] = true
		if !n.Status.IsValid() {
			report(SeverityError, CodeBadStatus, "node %q has unknown status %q", n.ID, n.Status)
		}
		if !n.Tree.InRange() {
			report(SeverityError, CodeOutOfRange, "node %q tree position (%g, %g) outside 0-100", n.ID, n.Tree.X, n.Tree.Y)
		}
		if n.Timeline != nil && !n.Timeline.InRange() {
			report(SeverityError, CodeOutOfRange, "node %q timeline position (%g, %g) outside 0-100", n.ID, n.Timeline.X, n.Timeline.Y)
		}
	}

	seen := make(map[Edge]bool, len(g.Edges))
	for _, e := range g.Edges {
		if !ids[e.From] || !ids[e.To] {
			report(SeverityWarning, CodeDanglingEdge, "edge %s references a missing node", e)
			continue
		}
		if e.From == e.To {
			report(SeverityError, CodeSelfLoop, "edge %s is a self loop", e)
			continue
		}
		if seen[e] {
			report(SeverityWarning, CodeDuplicateEdge, "edge %s is listed more than once", e)
		}
		seen[e] = true
	}

	if _, err := LearningOrder(g); err != nil {
		report(SeverityError, CodeCycle, "%v", err)
	}
	return problems
}

// ValidateDataset validates every graph in the dataset, in role listing order
// followed by any unlisted graphs.
func ValidateDataset(d *Dataset) []Problem {
	defer metrics.Timer(metrics.Validation)()
	if d == nil {
		return nil
	}
	var problems []Problem
	if d.Default != "" && !d.Has(d.Default) {
		problems = append(problems, Problem{
			Role:     d.Default,
			Severity: SeverityError,
			Code:     CodeUnknownDefault,
			Message:  fmt.Sprintf("default role %q has no graph", d.Default),
		})
	}
	for _, id := range d.GraphIDs() {
		problems = append(problems, Validate(d.Graphs[id])...)
	}
	return problems
}

// HasErrors reports whether any problem has error severity.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// directed builds a gonum graph over the resolvable, non-looping edges of g.
// Node ids in gonum are array indexes.
func directed(g Graph) *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	index := make(map[string]int64, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := index[n.ID]; dup {
			continue
		}
		index[n.ID] = int64(i)
		dg.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges {
		from, ok1 := index[e.From]
		to, ok2 := index[e.To]
		if !ok1 || !ok2 || from == to {
			continue
		}
		dg.SetEdge(dg.NewEdge(dg.Node(from), dg.Node(to)))
	}
	return dg
}

// LearningOrder returns the nodes in a dependency-respecting order: every
// node appears after all of its parents. The order is deterministic for a
// given graph.
func LearningOrder(g Graph) ([]Node, error) {
	defer metrics.Timer(metrics.LearningOrder)()
	dg := directed(g)
	sorted, err := topo.SortStabilized(dg, func(nodes []graph.Node) {
		sortByID(nodes)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycle, err)
	}
	out := make([]Node, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, g.Nodes[n.ID()])
	}
	return out, nil
}

func sortByID(nodes []graph.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
}

// Depths returns, for every node, the length of the longest parent chain
// leading to it (roots are depth 0). Nodes on a cycle keep depth 0.
func Depths(g Graph) map[string]int {
	depth := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		depth[n.ID] = 0
	}
	order, err := LearningOrder(g)
	if err != nil {
		return depth
	}
	for _, n := range order {
		for _, child := range g.Children(n.ID) {
			if _, ok := depth[child]; !ok {
				continue
			}
			if d := depth[n.ID] + 1; d > depth[child] {
				depth[child] = d
			}
		}
	}
	return depth
}
