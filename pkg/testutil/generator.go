// Package testutil provides test fixture generators for various graph topologies.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// GraphFixture represents an abstract graph for testing graph algorithms.
type GraphFixture struct {
	Description string     `json:"description"`
	Nodes       []string   `json:"nodes"`
	Edges       [][2]int   `json:"edges"` // [parent_idx, child_idx]
	Properties  Properties `json:"properties,omitempty"`
}

// Properties holds optional metadata about the fixture.
type Properties struct {
	HasCycles     bool `json:"has_cycles,omitempty"`
	IsConnected   bool `json:"is_connected,omitempty"`
	ExpectedDepth int  `json:"expected_depth,omitempty"`
}

// GeneratorConfig controls graph generation.
type GeneratorConfig struct {
	Seed         int64            // Random seed for determinism (0 = fixed default)
	Role         roadmap.RoleID   // Role of generated graphs (default: "fixture")
	StatusMix    []roadmap.Status // Status distribution (nil = all pending)
	WithTimeline bool             // Author timeline coordinates too
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		Role:      "fixture",
		StatusMix: []roadmap.Status{roadmap.StatusPending},
	}
}

// Generator creates test fixtures with various topologies.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.Role == "" {
		cfg.Role = "fixture"
	}
	if len(cfg.StatusMix) == 0 {
		cfg.StatusMix = []roadmap.Status{roadmap.StatusPending}
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// ============================================================================
// Graph Topology Generators
// ============================================================================

// Chain creates a linear chain: n0 -> n1 -> ... -> n{size-1}
// Properties: DAG, depth = size-1, single path
func (g *Generator) Chain(size int) GraphFixture {
	nodes := make([]string, size)
	edges := make([][2]int, 0, size)
	for i := 0; i < size; i++ {
		nodes[i] = fmt.Sprintf("n%d", i)
		if i > 0 {
			edges = append(edges, [2]int{i - 1, i})
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("Linear chain of %d nodes", size),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{IsConnected: true, ExpectedDepth: max(size-1, 0)},
	}
}

// Star creates a hub with `spokes` children.
// Properties: DAG, depth = 1
func (g *Generator) Star(spokes int) GraphFixture {
	nodes := []string{"hub"}
	edges := make([][2]int, 0, spokes)
	for i := 1; i <= spokes; i++ {
		nodes = append(nodes, fmt.Sprintf("spoke%d", i))
		edges = append(edges, [2]int{0, i})
	}
	return GraphFixture{
		Description: fmt.Sprintf("Star with %d spokes", spokes),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{IsConnected: true, ExpectedDepth: 1},
	}
}

// Diamond creates a diamond pattern: top fans out to `width` middle nodes,
// which all lead to bottom.
func (g *Generator) Diamond(width int) GraphFixture {
	if width < 1 {
		width = 1
	}
	nodes := []string{"top"}
	var edges [][2]int
	for i := 1; i <= width; i++ {
		nodes = append(nodes, fmt.Sprintf("mid%d", i))
		edges = append(edges, [2]int{0, i})
	}
	bottom := len(nodes)
	nodes = append(nodes, "bottom")
	for i := 1; i <= width; i++ {
		edges = append(edges, [2]int{i, bottom})
	}
	return GraphFixture{
		Description: fmt.Sprintf("Diamond with %d middle nodes", width),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{IsConnected: true, ExpectedDepth: 2},
	}
}

// Cycle creates a circular dependency (invalid roadmap).
// Shape: n0 -> n1 -> ... -> n{size-1} -> n0
func (g *Generator) Cycle(size int) GraphFixture {
	f := g.Chain(size)
	if size > 0 {
		f.Edges = append(f.Edges, [2]int{size - 1, 0})
	}
	f.Description = fmt.Sprintf("Cycle of %d nodes", size)
	f.Properties = Properties{HasCycles: true, IsConnected: true}
	return f
}

// SelfLoop creates a single node with a self-referential edge.
func (g *Generator) SelfLoop() GraphFixture {
	return GraphFixture{
		Description: "Single node pointing at itself",
		Nodes:       []string{"self"},
		Edges:       [][2]int{{0, 0}},
		Properties:  Properties{HasCycles: true, IsConnected: true},
	}
}

// Tree creates a tree with given depth and branching factor.
// Each non-leaf node has `breadth` children.
func (g *Generator) Tree(depth, breadth int) GraphFixture {
	if depth < 1 {
		depth = 1
	}
	if breadth < 1 {
		breadth = 1
	}

	nodes := []string{"n0"}
	var edges [][2]int
	currentLevel := []int{0}
	for d := 0; d < depth; d++ {
		var nextLevel []int
		for _, parent := range currentLevel {
			for b := 0; b < breadth; b++ {
				child := len(nodes)
				nodes = append(nodes, fmt.Sprintf("n%d", child))
				edges = append(edges, [2]int{parent, child})
				nextLevel = append(nextLevel, child)
			}
		}
		currentLevel = nextLevel
	}

	return GraphFixture{
		Description: fmt.Sprintf("Tree with depth=%d, breadth=%d (%d nodes)", depth, breadth, len(nodes)),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{IsConnected: true, ExpectedDepth: depth},
	}
}

// RandomDAG creates a random DAG: each pair (i, j) with i < j is an edge
// with probability p. Edges always point forward so there are no cycles.
func (g *Generator) RandomDAG(size int, p float64) GraphFixture {
	nodes := make([]string, size)
	var edges [][2]int
	for i := 0; i < size; i++ {
		nodes[i] = fmt.Sprintf("n%d", i)
	}
	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			if g.rng.Float64() < p {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return GraphFixture{
		Description: fmt.Sprintf("Random DAG with %d nodes (p=%.2f)", size, p),
		Nodes:       nodes,
		Edges:       edges,
	}
}

// ============================================================================
// Conversion
// ============================================================================

// ToGraph converts a fixture into a roadmap graph. Nodes are spread over
// the canvas in array order, statuses are drawn from the status mix.
func (g *Generator) ToGraph(f GraphFixture) roadmap.Graph {
	out := roadmap.Graph{
		Role:  g.cfg.Role,
		Nodes: make([]roadmap.Node, 0, len(f.Nodes)),
		Edges: make([]roadmap.Edge, 0, len(f.Edges)),
	}
	n := len(f.Nodes)
	for i, id := range f.Nodes {
		node := roadmap.Node{
			ID:     id,
			Label:  fmt.Sprintf("Node %s", id),
			Tree:   spread(i, n),
			Status: g.cfg.StatusMix[g.rng.Intn(len(g.cfg.StatusMix))],
			Details: roadmap.Details{
				Description: fmt.Sprintf("Fixture node %d of %d", i+1, n),
			},
		}
		if g.cfg.WithTimeline {
			tl := roadmap.Point{X: node.Tree.Y, Y: node.Tree.X}
			node.Timeline = &tl
		}
		out.Nodes = append(out.Nodes, node)
	}
	for _, e := range f.Edges {
		out.Edges = append(out.Edges, roadmap.Edge{From: f.Nodes[e[0]], To: f.Nodes[e[1]]})
	}
	return out
}

// spread places node i of n bottom to top with a deterministic horizontal
// zig-zag, always within [10, 90].
func spread(i, n int) roadmap.Point {
	y := 50.0
	if n > 1 {
		y = 90 - 80*float64(i)/float64(n-1)
	}
	x := 10 + float64((i*37)%81)
	return roadmap.Point{X: x, Y: y}
}

// WithDangling returns a copy of graph with an extra edge to a node that
// does not exist.
func WithDangling(graph roadmap.Graph, from string) roadmap.Graph {
	out := graph
	out.Edges = append(append([]roadmap.Edge(nil), graph.Edges...), roadmap.Edge{From: from, To: "ghost"})
	return out
}

// Dataset wraps graphs into a dataset listing each as a role.
func Dataset(graphs ...roadmap.Graph) *roadmap.Dataset {
	ds := &roadmap.Dataset{Graphs: make(map[roadmap.RoleID]roadmap.Graph, len(graphs))}
	for _, g := range graphs {
		ds.Roles = append(ds.Roles, roadmap.Role{ID: g.Role, Label: string(g.Role)})
		ds.Graphs[g.Role] = g
	}
	if len(graphs) > 0 {
		ds.Default = graphs[0].Role
	}
	return ds
}

// ============================================================================
// Quick functions
// ============================================================================

// QuickChain returns a chain graph with default config.
func QuickChain(size int) roadmap.Graph {
	g := NewDefault()
	return g.ToGraph(g.Chain(size))
}

// QuickTree returns a tree graph with default config.
func QuickTree(depth, breadth int) roadmap.Graph {
	g := NewDefault()
	return g.ToGraph(g.Tree(depth, breadth))
}
