// Package loader reads roadmap datasets from YAML, JSON or TOML files and
// layers them over the built-in data.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vanderheijden86/roadmap/pkg/debug"
	"github.com/vanderheijden86/roadmap/pkg/metrics"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// DatasetEnvVar overrides the dataset path from configuration.
const DatasetEnvVar = "ROADMAP_DATASET"

// PreferredDatasetNames are tried in order when discovering a dataset.
var PreferredDatasetNames = []string{"roadmap.yaml", "roadmap.yml", "roadmap.json", "roadmap.toml"}

var (
	// ErrUnsupportedFormat is returned for files that are not YAML, JSON or TOML.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrNoDataset is returned when discovery finds no dataset file.
	ErrNoDataset = errors.New("no dataset file found")
)

// fileDataset is the on-disk shape. Coordinates are flat fields so files
// stay easy to write by hand.
type fileDataset struct {
	Default string               `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Roles   []fileRole           `json:"roles,omitempty" yaml:"roles,omitempty" toml:"roles,omitempty"`
	Graphs  map[string]fileGraph `json:"graphs,omitempty" yaml:"graphs,omitempty" toml:"graphs,omitempty"`
}

type fileRole struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

type fileGraph struct {
	Nodes []fileNode `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges []fileEdge `json:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty"`
}

type fileNode struct {
	ID        string          `json:"id" yaml:"id" toml:"id"`
	Label     string          `json:"label" yaml:"label" toml:"label"`
	X         float64         `json:"x" yaml:"x" toml:"x"`
	Y         float64         `json:"y" yaml:"y" toml:"y"`
	TimelineX *float64        `json:"timeline_x,omitempty" yaml:"timeline_x,omitempty" toml:"timeline_x,omitempty"`
	TimelineY *float64        `json:"timeline_y,omitempty" yaml:"timeline_y,omitempty" toml:"timeline_y,omitempty"`
	Status    string          `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	Kind      string          `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Parent    string          `json:"parent,omitempty" yaml:"parent,omitempty" toml:"parent,omitempty"`
	Phase     string          `json:"phase,omitempty" yaml:"phase,omitempty" toml:"phase,omitempty"`
	Details   roadmap.Details `json:"details,omitempty" yaml:"details,omitempty" toml:"details,omitempty"`
}

type fileEdge struct {
	From string `json:"from" yaml:"from" toml:"from"`
	To   string `json:"to" yaml:"to" toml:"to"`
}

// ResolvePath picks the dataset path: an explicit path wins, then the
// ROADMAP_DATASET environment variable, then the configured path, then
// discovery in dir. It returns "" when none apply.
func ResolvePath(explicit, configured, dir string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(DatasetEnvVar); env != "" {
		return env
	}
	if configured != "" {
		return configured
	}
	if dir == "" {
		return ""
	}
	path, err := FindDataset(dir)
	if err != nil {
		return ""
	}
	return path
}

// FindDataset looks for a non-empty dataset file in dir and dir/.roadmap.
func FindDataset(dir string) (string, error) {
	for _, base := range []string{dir, filepath.Join(dir, ".roadmap")} {
		for _, name := range PreferredDatasetNames {
			path := filepath.Join(base, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() && info.Size() > 0 {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoDataset, dir)
}

// LoadDataset returns the built-in dataset with the file at path layered
// over it. An empty path returns the built-in dataset.
func LoadDataset(path string) (*roadmap.Dataset, error) {
	if path == "" {
		return roadmap.Builtin(), nil
	}
	ds, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return roadmap.Builtin().Merge(ds), nil
}

// LoadFile reads a dataset file on its own, without the built-in data.
func LoadFile(path string) (*roadmap.Dataset, error) {
	defer metrics.Timer(metrics.DatasetLoad)()

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	data = stripBOM(data)
	ds, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	debug.Log("loader: %s has %d graphs", path, len(ds.Graphs))
	return ds, nil
}

// Parse decodes a dataset from r.
func Parse(r io.Reader, format Format) (*roadmap.Dataset, error) {
	var f fileDataset
	if err := decode(r, format, &f); err != nil {
		return nil, fmt.Errorf("failed to decode %s dataset: %w", format, err)
	}
	return f.toDataset()
}

// Encode writes ds in the file shape, suitable for editing and loading back.
func Encode(w io.Writer, ds *roadmap.Dataset, format Format) error {
	return encode(w, format, fromDataset(ds))
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}

func (f fileDataset) toDataset() (*roadmap.Dataset, error) {
	ds := &roadmap.Dataset{
		Default: roadmap.RoleID(f.Default),
		Graphs:  make(map[roadmap.RoleID]roadmap.Graph, len(f.Graphs)),
	}
	for i, r := range f.Roles {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("role %d has no id", i)
		}
		ds.Roles = append(ds.Roles, roadmap.Role{ID: roadmap.RoleID(r.ID), Label: r.Label, Description: r.Description})
	}
	for id, fg := range f.Graphs {
		g := roadmap.Graph{Role: roadmap.RoleID(id)}
		for _, fn := range fg.Nodes {
			n, err := fn.toNode()
			if err != nil {
				return nil, fmt.Errorf("graph %s: %w", id, err)
			}
			g.Nodes = append(g.Nodes, n)
		}
		for _, fe := range fg.Edges {
			g.Edges = append(g.Edges, roadmap.Edge{From: fe.From, To: fe.To})
		}
		ds.Graphs[g.Role] = g.Normalize()
	}
	return ds, nil
}

func (fn fileNode) toNode() (roadmap.Node, error) {
	n := roadmap.Node{
		ID:      fn.ID,
		Label:   fn.Label,
		Tree:    roadmap.Point{X: fn.X, Y: fn.Y},
		Status:  roadmap.StatusPending,
		Parent:  fn.Parent,
		Phase:   fn.Phase,
		Details: fn.Details,
	}
	if fn.Status != "" {
		st, err := roadmap.ParseStatus(fn.Status)
		if err != nil {
			return n, fmt.Errorf("node %q: %w", fn.ID, err)
		}
		n.Status = st
	}
	switch k := roadmap.Kind(strings.ToLower(fn.Kind)); k {
	case roadmap.KindNone, roadmap.KindRoot, roadmap.KindBranch, roadmap.KindLeaf:
		n.Kind = k
	default:
		return n, fmt.Errorf("node %q: unknown kind %q", fn.ID, fn.Kind)
	}
	switch {
	case fn.TimelineX != nil && fn.TimelineY != nil:
		n.Timeline = &roadmap.Point{X: *fn.TimelineX, Y: *fn.TimelineY}
	case fn.TimelineX != nil || fn.TimelineY != nil:
		return n, fmt.Errorf("node %q: timeline_x and timeline_y must be set together", fn.ID)
	}
	return n, nil
}

func fromDataset(ds *roadmap.Dataset) fileDataset {
	f := fileDataset{Graphs: make(map[string]fileGraph)}
	if ds == nil {
		return f
	}
	f.Default = string(ds.Default)
	for _, r := range ds.Roles {
		f.Roles = append(f.Roles, fileRole{ID: string(r.ID), Label: r.Label, Description: r.Description})
	}
	ids := make([]string, 0, len(ds.Graphs))
	for id := range ds.Graphs {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		g := ds.Graphs[roadmap.RoleID(id)]
		var fg fileGraph
		for _, n := range g.Nodes {
			fn := fileNode{
				ID:      n.ID,
				Label:   n.Label,
				X:       n.Tree.X,
				Y:       n.Tree.Y,
				Status:  string(n.Status),
				Kind:    string(n.Kind),
				Parent:  n.Parent,
				Phase:   n.Phase,
				Details: n.Details,
			}
			if n.Timeline != nil {
				tx, ty := n.Timeline.X, n.Timeline.Y
				fn.TimelineX, fn.TimelineY = &tx, &ty
			}
			fg.Nodes = append(fg.Nodes, fn)
		}
		for _, e := range g.Edges {
			// Parent references imply their edge; listing it again is noise.
			if n, ok := g.Node(e.To); ok && n.Parent == e.From {
				continue
			}
			fg.Edges = append(fg.Edges, fileEdge{From: e.From, To: e.To})
		}
		f.Graphs[id] = fg
	}
	return f
}
