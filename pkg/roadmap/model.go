// Package roadmap holds the career roadmap data model: roles, their skill
// graphs, and the built-in dataset the viewer falls back to.
package roadmap

import (
	"fmt"
	"strings"
)

// RoleID identifies a career track. Each role owns exactly one graph.
type RoleID string

// Built-in role identifiers.
const (
	RoleSDE           RoleID = "sde"
	RoleFrontend      RoleID = "frontend"
	RoleBackend       RoleID = "backend"
	RoleFullstack     RoleID = "fullstack"
	RoleDataAnalyst   RoleID = "data-analyst"
	RoleDataScientist RoleID = "data-scientist"
	RoleML            RoleID = "ml"
	RoleDevOps        RoleID = "devops"
	RoleMobile        RoleID = "mobile"
	RoleUIUX          RoleID = "uiux"

	// RoleSample is the showcase map shown to visitors. It is reachable by id
	// but is not listed among the career roles.
	RoleSample RoleID = "sample"
)

// DefaultRole is used whenever a requested role is unknown.
const DefaultRole = RoleSDE

// Role describes a career track for the role picker.
type Role struct {
	ID          RoleID `json:"id" yaml:"id" toml:"id"`
	Label       string `json:"label" yaml:"label" toml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Status is the display state of a node. It never gates selection.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusLocked    Status = "locked"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusActive, StatusPending, StatusLocked:
		return true
	}
	return false
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Kind is the optional structural role of a node in showcase maps.
type Kind string

const (
	KindNone   Kind = ""
	KindRoot   Kind = "root"
	KindBranch Kind = "branch"
	KindLeaf   Kind = "leaf"
)

// Point is a position expressed as percentages (0-100) of the containing box.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// InRange reports whether both coordinates lie within [0, 100].
func (p Point) InRange() bool {
	return p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100
}

// Details is the descriptive payload of a node. Every field is optional:
// dashboard roadmaps fill Description/Why/Time/Tip, showcase maps fill
// Description/Skills/Outcome.
type Details struct {
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Why         string   `json:"why,omitempty" yaml:"why,omitempty" toml:"why,omitempty"`
	Time        string   `json:"time,omitempty" yaml:"time,omitempty" toml:"time,omitempty"`
	Tip         string   `json:"tip,omitempty" yaml:"tip,omitempty" toml:"tip,omitempty"`
	Skills      []string `json:"skills,omitempty" yaml:"skills,omitempty" toml:"skills,omitempty"`
	Outcome     string   `json:"outcome,omitempty" yaml:"outcome,omitempty" toml:"outcome,omitempty"`
}

// IsZero reports whether no detail field is set.
func (d Details) IsZero() bool {
	return d.Description == "" && d.Why == "" && d.Time == "" && d.Tip == "" &&
		len(d.Skills) == 0 && d.Outcome == ""
}

// Node is a single skill or phase in a roadmap graph.
type Node struct {
	ID       string  `json:"id" yaml:"id" toml:"id"`
	Label    string  `json:"label" yaml:"label" toml:"label"`
	Tree     Point   `json:"tree" yaml:"tree" toml:"tree"`
	Timeline *Point  `json:"timeline,omitempty" yaml:"timeline,omitempty" toml:"timeline,omitempty"`
	Status   Status  `json:"status" yaml:"status" toml:"status"`
	Kind     Kind    `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Parent   string  `json:"parent,omitempty" yaml:"parent,omitempty" toml:"parent,omitempty"`
	Phase    string  `json:"phase,omitempty" yaml:"phase,omitempty" toml:"phase,omitempty"`
	Details  Details `json:"details" yaml:"details" toml:"details"`
}

// IsLocked reports whether the node is displayed with a lock affordance.
func (n Node) IsLocked() bool {
	return n.Status == StatusLocked
}

// Edge is a directed parent -> child relationship.
type Edge struct {
	From string `json:"from" yaml:"from" toml:"from"`
	To   string `json:"to" yaml:"to" toml:"to"`
}

func (e Edge) String() string {
	return e.From + "->" + e.To
}

// Graph is the node and edge set owned by one role.
type Graph struct {
	Role  RoleID `json:"role" yaml:"role" toml:"role"`
	Nodes []Node `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" toml:"edges"`
}

// Index returns the array position of the node with the given id, or -1.
func (g Graph) Index(id string) int {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	if i := g.Index(id); i >= 0 {
		return g.Nodes[i], true
	}
	return Node{}, false
}

// Children returns the ids of the nodes reached by edges leaving id, in edge order.
func (g Graph) Children(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// Parents returns the ids of the nodes with an edge into id, in edge order.
func (g Graph) Parents(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	return out
}

// DefaultSelection returns the node a fresh view selects: the first node with
// status active, otherwise the first node. It returns "" for an empty graph.
func (g Graph) DefaultSelection() string {
	for _, n := range g.Nodes {
		if n.Status == StatusActive {
			return n.ID
		}
	}
	if len(g.Nodes) > 0 {
		return g.Nodes[0].ID
	}
	return ""
}

// Normalize derives edges from Parent references that are not already listed
// as edges. It returns a copy and leaves g untouched.
func (g Graph) Normalize() Graph {
	out := Graph{
		Role:  g.Role,
		Nodes: append([]Node(nil), g.Nodes...),
		Edges: append([]Edge(nil), g.Edges...),
	}
	seen := make(map[Edge]bool, len(out.Edges))
	for _, e := range out.Edges {
		seen[e] = true
	}
	for _, n := range out.Nodes {
		if n.Parent == "" {
			continue
		}
		e := Edge{From: n.Parent, To: n.ID}
		if seen[e] {
			continue
		}
		seen[e] = true
		out.Edges = append(out.Edges, e)
	}
	return out
}

// StatusCounts tallies nodes by status.
func (g Graph) StatusCounts() map[Status]int {
	counts := make(map[Status]int, 4)
	for _, n := range g.Nodes {
		counts[n.Status]++
	}
	return counts
}
