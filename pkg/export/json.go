package export

import (
	"io"

	"github.com/vanderheijden86/roadmap/pkg/render"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"

	json "github.com/goccy/go-json"
)

// GraphDocument is the JSON rendition of a scene: positioned nodes and
// connector paths in percentage space, ready for a web canvas.
type GraphDocument struct {
	Role       roadmap.RoleID      `json:"role"`
	Title      string              `json:"title"`
	Layout     string              `json:"layout"`
	Selected   string              `json:"selected,omitempty"`
	Nodes      []NodeDocument      `json:"nodes"`
	Connectors []ConnectorDocument `json:"connectors"`
	Skipped    []roadmap.Edge      `json:"skipped,omitempty"`
	Counts     map[string]int      `json:"counts"`
}

// NodeDocument is one positioned node.
type NodeDocument struct {
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	Status  roadmap.Status  `json:"status"`
	Kind    roadmap.Kind    `json:"kind,omitempty"`
	Phase   string          `json:"phase,omitempty"`
	Locked  bool            `json:"locked"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Details roadmap.Details `json:"details"`
}

// ConnectorDocument is one drawn edge with its SVG path data.
type ConnectorDocument struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Path      string `json:"path"`
	Highlight bool   `json:"highlight,omitempty"`
}

// NewGraphDocument builds the document for g.
func NewGraphDocument(g roadmap.Graph, scene render.Scene, opts Options) GraphDocument {
	doc := GraphDocument{
		Role:       scene.Role,
		Title:      opts.title(scene),
		Layout:     scene.Mode.String(),
		Selected:   opts.Selected,
		Nodes:      make([]NodeDocument, 0, len(scene.Markers)),
		Connectors: make([]ConnectorDocument, 0, len(scene.Links)),
		Skipped:    scene.Skipped,
		Counts:     make(map[string]int),
	}
	for _, m := range scene.Markers {
		doc.Nodes = append(doc.Nodes, NodeDocument{
			ID:      m.Node.ID,
			Label:   m.Node.Label,
			Status:  m.Node.Status,
			Kind:    m.Node.Kind,
			Phase:   m.Node.Phase,
			Locked:  m.Node.IsLocked(),
			X:       m.Pos.X,
			Y:       m.Pos.Y,
			Details: m.Node.Details,
		})
	}
	for _, l := range scene.Links {
		doc.Connectors = append(doc.Connectors, ConnectorDocument{
			From:      l.Edge.From,
			To:        l.Edge.To,
			Path:      l.Curve.Path(),
			Highlight: l.Highlight,
		})
	}
	for s, n := range g.StatusCounts() {
		doc.Counts[string(s)] = n
	}
	return doc
}

func writeJSON(w io.Writer, g roadmap.Graph, scene render.Scene, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewGraphDocument(g, scene, opts))
}
