package loader_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vanderheijden86/roadmap/pkg/loader"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

const yamlDataset = `
default: platform
roles:
  - id: platform
    label: Platform Engineer
  - id: sde
    label: Software Engineer (custom)
graphs:
  platform:
    nodes:
      - id: go
        label: Go
        x: 50
        y: 85
        status: completed
      - id: k8s
        label: Kubernetes
        x: 50
        y: 50
        timeline_x: 60
        timeline_y: 50
        status: active
        parent: go
        details:
          description: Operate clusters
          skills: [kubectl, helm]
    edges: []
`

const jsonDataset = `{
  "graphs": {
    "frontend": {
      "nodes": [
        {"id": "html", "label": "HTML", "x": 50, "y": 85, "status": "ACTIVE"},
        {"id": "css", "label": "CSS", "x": 50, "y": 60}
      ],
      "edges": [{"from": "html", "to": "css"}]
    }
  }
}`

const tomlDataset = `
default = "ops"

[[roles]]
id = "ops"
label = "Operations"

[[graphs.ops.nodes]]
id = "linux"
label = "Linux"
x = 50.0
y = 80.0
status = "active"

[[graphs.ops.nodes]]
id = "bash"
label = "Bash"
x = 50.0
y = 40.0
kind = "leaf"
parent = "linux"
phase = "Week 2"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileYAML(t *testing.T) {
	ds, err := loader.LoadFile(writeFile(t, "roadmap.yaml", yamlDataset))
	if err != nil {
		t.Fatal(err)
	}
	if ds.Default != "platform" || len(ds.Roles) != 2 {
		t.Fatalf("unexpected dataset header: %+v", ds.Roles)
	}
	g := ds.Graph("platform")
	want := []roadmap.Edge{{From: "go", To: "k8s"}}
	if diff := cmp.Diff(want, g.Edges); diff != "" {
		t.Errorf("parent edge not derived (-want +got):\n%s", diff)
	}
	k8s, _ := g.Node("k8s")
	if k8s.Timeline == nil || *k8s.Timeline != (roadmap.Point{X: 60, Y: 50}) {
		t.Errorf("timeline not decoded: %+v", k8s.Timeline)
	}
	if diff := cmp.Diff([]string{"kubectl", "helm"}, k8s.Details.Skills); diff != "" {
		t.Errorf("skills mismatch:\n%s", diff)
	}
}

func TestLoadFileJSON(t *testing.T) {
	ds, err := loader.LoadFile(writeFile(t, "roadmap.json", jsonDataset))
	if err != nil {
		t.Fatal(err)
	}
	g := ds.Graph("frontend")
	if len(g.Nodes) != 2 || g.Nodes[0].Status != roadmap.StatusActive {
		t.Fatalf("unexpected nodes %+v", g.Nodes)
	}
	if g.Nodes[1].Status != roadmap.StatusPending {
		t.Errorf("missing status should default to pending, got %q", g.Nodes[1].Status)
	}
}

func TestLoadFileTOML(t *testing.T) {
	ds, err := loader.LoadFile(writeFile(t, "roadmap.toml", tomlDataset))
	if err != nil {
		t.Fatal(err)
	}
	g := ds.Graph("ops")
	if len(g.Edges) != 1 || g.Edges[0] != (roadmap.Edge{From: "linux", To: "bash"}) {
		t.Errorf("unexpected edges %v", g.Edges)
	}
	bash, _ := g.Node("bash")
	if bash.Kind != roadmap.KindLeaf || bash.Phase != "Week 2" {
		t.Errorf("unexpected node %+v", bash)
	}
}

func TestLoadDatasetMergesOverBuiltin(t *testing.T) {
	ds, err := loader.LoadDataset(writeFile(t, "roadmap.yml", yamlDataset))
	if err != nil {
		t.Fatal(err)
	}
	if !ds.Has(roadmap.RoleFrontend) || !ds.Has("platform") {
		t.Error("merged dataset should keep builtin roles and add new ones")
	}
	if ds.RoleLabel(roadmap.RoleSDE) != "Software Engineer (custom)" {
		t.Errorf("role label override not applied: %q", ds.RoleLabel(roadmap.RoleSDE))
	}
	if got := ds.Graph("unknown").Role; got != "platform" {
		t.Errorf("file default should win, got %s", got)
	}
}

func TestLoadDatasetEmptyPathIsBuiltin(t *testing.T) {
	ds, err := loader.LoadDataset("")
	if err != nil {
		t.Fatal(err)
	}
	if ds != roadmap.Builtin() {
		t.Error("expected the builtin dataset")
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unsupported", "roadmap.ini", "x", "unsupported"},
		{"bad status", "r.yaml", "graphs:\n  a:\n    nodes:\n      - {id: n, label: N, status: done}\n", "unknown status"},
		{"bad kind", "r.yaml", "graphs:\n  a:\n    nodes:\n      - {id: n, label: N, kind: trunk}\n", "unknown kind"},
		{"half timeline", "r.json", `{"graphs":{"a":{"nodes":[{"id":"n","label":"N","timeline_x":5}]}}}`, "set together"},
		{"unknown field", "r.yaml", "colour: red\n", "colour"},
		{"unknown toml field", "r.toml", "colour = \"red\"\n", "colour"},
		{"bad json", "r.json", "{", "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.LoadFile(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	_, err := loader.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	_, err = loader.LoadFile("roadmap.xml")
	if !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadFileStripsBOM(t *testing.T) {
	ds, err := loader.LoadFile(writeFile(t, "r.json", "\xef\xbb\xbf"+jsonDataset))
	if err != nil {
		t.Fatal(err)
	}
	if !ds.Has("frontend") {
		t.Error("expected frontend graph")
	}
}

func TestFindDataset(t *testing.T) {
	dir := t.TempDir()
	if _, err := loader.FindDataset(dir); !errors.Is(err, loader.ErrNoDataset) {
		t.Fatalf("expected ErrNoDataset, got %v", err)
	}

	hidden := filepath.Join(dir, ".roadmap")
	if err := os.MkdirAll(hidden, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(hidden, "roadmap.toml"), []byte(tomlDataset), 0644); err != nil {
		t.Fatal(err)
	}
	// Empty files are skipped.
	if err := os.WriteFile(filepath.Join(dir, "roadmap.yaml"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	got, err := loader.FindDataset(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(hidden, "roadmap.toml") {
		t.Errorf("unexpected path %s", got)
	}
}

func TestResolvePathPrecedence(t *testing.T) {
	dir := t.TempDir()
	found := filepath.Join(dir, "roadmap.json")
	if err := os.WriteFile(found, []byte(jsonDataset), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(loader.DatasetEnvVar, "")
	if got := loader.ResolvePath("", "", dir); got != found {
		t.Errorf("discovery: got %q", got)
	}
	if got := loader.ResolvePath("", "cfg.yaml", dir); got != "cfg.yaml" {
		t.Errorf("config: got %q", got)
	}
	t.Setenv(loader.DatasetEnvVar, "env.yaml")
	if got := loader.ResolvePath("", "cfg.yaml", dir); got != "env.yaml" {
		t.Errorf("env: got %q", got)
	}
	if got := loader.ResolvePath("flag.yaml", "cfg.yaml", dir); got != "flag.yaml" {
		t.Errorf("flag: got %q", got)
	}
	t.Setenv(loader.DatasetEnvVar, "")
	if got := loader.ResolvePath("", "", t.TempDir()); got != "" {
		t.Errorf("nothing found: got %q", got)
	}
}

func TestEncodeLoadsBack(t *testing.T) {
	for _, format := range []loader.Format{loader.FormatYAML, loader.FormatJSON, loader.FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := loader.Encode(&buf, roadmap.Builtin(), format); err != nil {
				t.Fatal(err)
			}
			back, err := loader.Parse(&buf, format)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			for _, id := range roadmap.Builtin().GraphIDs() {
				want := roadmap.Builtin().Graph(id)
				if diff := cmp.Diff(want, back.Graph(id)); diff != "" {
					t.Errorf("%s mismatch (-want +got):\n%s", id, diff)
				}
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := loader.ParseFormat("YML"); err != nil || f != loader.FormatYAML {
		t.Errorf("ParseFormat(YML) = %v, %v", f, err)
	}
	if _, err := loader.ParseFormat("csv"); !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func FuzzParseYAML(f *testing.F) {
	f.Add(yamlDataset)
	f.Add("graphs: {a: {nodes: [{id: x}]}}")
	f.Add("")
	f.Add("::")
	f.Fuzz(func(t *testing.T, input string) {
		ds, err := loader.Parse(strings.NewReader(input), loader.FormatYAML)
		if err != nil {
			return
		}
		for _, id := range ds.GraphIDs() {
			_ = roadmap.Validate(ds.Graph(id))
		}
	})
}
