package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/roadmap/pkg/config"
	"github.com/vanderheijden86/roadmap/pkg/export"
	"github.com/vanderheijden86/roadmap/pkg/loader"
	"github.com/vanderheijden86/roadmap/pkg/metrics"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
	"github.com/vanderheijden86/roadmap/pkg/testutil"
	"github.com/vanderheijden86/roadmap/pkg/version"
	"github.com/vanderheijden86/roadmap/pkg/viewer"

	json "github.com/goccy/go-json"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes a fresh command tree with an isolated config directory and
// no dataset discovery from the environment.
func run(t *testing.T, args ...string) result {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(loader.DatasetEnvVar, "")

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	r := run(t, args...)
	if r.err != nil {
		t.Fatalf("roadmap %s: %v\nstderr: %s", strings.Join(args, " "), r.err, r.stderr)
	}
	return r.stdout
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.HasPrefix(out, "roadmap "+version.Version) {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestRolesTable(t *testing.T) {
	out := mustRun(t, "roles")
	for _, want := range []string{"sde*", "Frontend Engineer", "Design System", "1/6"} {
		if !strings.Contains(out, want) {
			t.Errorf("roles output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "sample") {
		t.Error("the showcase map is not a listed role")
	}
}

func TestRolesJSON(t *testing.T) {
	var rows []roleSummary
	if err := json.Unmarshal([]byte(mustRun(t, "roles", "--json")), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 roles, got %d", len(rows))
	}
	if rows[0].ID != roadmap.RoleSDE || !rows[0].Default || rows[0].Nodes != 6 {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[9].ID != roadmap.RoleUIUX {
		t.Errorf("last role = %s", rows[9].ID)
	}
}

func TestShowGraph(t *testing.T) {
	out := mustRun(t, "show", "sde")
	for _, want := range []string{"Software Engineer (sde)", "DSA & Algos", "active", "oop, db"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestShowGraphJSON(t *testing.T) {
	var doc export.GraphDocument
	if err := json.Unmarshal([]byte(mustRun(t, "show", "sample", "--json", "--layout", "timeline")), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Layout != "timeline" || len(doc.Nodes) != 10 || len(doc.Connectors) != 9 {
		t.Errorf("unexpected document: layout %s, %d nodes, %d connectors", doc.Layout, len(doc.Nodes), len(doc.Connectors))
	}
}

func TestShowLockedNode(t *testing.T) {
	out := mustRun(t, "show", "sample", "b3-2")
	for _, want := range []string{"System Design", viewer.LockNotice, "Scalability", "Load Balancing", "L5 Level"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}

	var d viewer.Detail
	if err := json.Unmarshal([]byte(mustRun(t, "show", "sample", "b3-2", "--json")), &d); err != nil {
		t.Fatal(err)
	}
	if !d.Locked || d.Status != roadmap.StatusLocked {
		t.Errorf("locked node should report locked, got %+v", d)
	}
}

func TestShowErrors(t *testing.T) {
	if r := run(t, "show", "astronaut"); r.err == nil || !strings.Contains(r.err.Error(), "unknown role") {
		t.Errorf("expected unknown role error, got %v", r.err)
	}
	if r := run(t, "show", "sde", "nope"); r.err == nil || !strings.Contains(r.err.Error(), "no stage") {
		t.Errorf("expected missing stage error, got %v", r.err)
	}
}

func TestOrder(t *testing.T) {
	var ids []string
	if err := json.Unmarshal([]byte(mustRun(t, "order", "sde", "--json")), &ids); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 6 || ids[0] != "prog" || ids[1] != "dsa" || ids[5] != "sys" {
		t.Errorf("unexpected learning order %v", ids)
	}

	// Default role when omitted.
	if out := mustRun(t, "order"); !strings.Contains(out, " 1. prog") {
		t.Errorf("unexpected default order output:\n%s", out)
	}
}

func TestCheckBuiltin(t *testing.T) {
	var rep checkReport
	if err := json.Unmarshal([]byte(mustRun(t, "check", "--json")), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Errors != 0 || rep.Warnings != 0 {
		t.Errorf("built-in roadmaps should be clean, got %+v", rep.Problems)
	}
	if rep.Graphs != 11 {
		t.Errorf("expected 11 graphs, got %d", rep.Graphs)
	}
}

const cyclicDataset = `
graphs:
  loop:
    nodes:
      - {id: a, label: A, x: 20, y: 80}
      - {id: b, label: B, x: 50, y: 50}
      - {id: c, label: C, x: 80, y: 20}
    edges:
      - {from: a, to: b}
      - {from: b, to: c}
      - {from: c, to: a}
      - {from: c, to: ghost}
`

func TestCheckReportsCycle(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "roadmap.yaml", cyclicDataset)
	r := run(t, "check", "--dataset", path)
	if !errors.Is(r.err, errCheckFailed) {
		t.Fatalf("expected check failure, got %v", r.err)
	}
	for _, want := range []string{"loop [error] cycle", "loop [warning] dangling-edge", "1 errors, 1 warnings"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("report missing %q:\n%s", want, r.stdout)
		}
	}

	if r := run(t, "order", "loop", "--dataset", path); !errors.Is(r.err, roadmap.ErrCycle) {
		t.Errorf("order of a cyclic graph should fail with ErrCycle, got %v", r.err)
	}
}

const danglingDataset = `
graphs:
  solo:
    nodes:
      - {id: a, label: A, x: 50, y: 50}
    edges:
      - {from: a, to: ghost}
`

func TestCheckStrict(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "roadmap.yaml", danglingDataset)
	if r := run(t, "check", "--dataset", path); r.err != nil {
		t.Errorf("warnings alone should pass: %v", r.err)
	}
	if r := run(t, "check", "--strict", "--dataset", path); !errors.Is(r.err, errCheckFailed) {
		t.Errorf("--strict should fail on warnings, got %v", r.err)
	}
}

func TestExportMermaidToStdout(t *testing.T) {
	out := mustRun(t, "export", "frontend", "-f", "mermaid")
	if !strings.HasPrefix(out, "flowchart BT") || !strings.Contains(out, "htmlcss --> js") {
		t.Errorf("unexpected mermaid output:\n%s", out)
	}
}

func TestExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sde.svg")
	r := run(t, "export", "sde", "-o", path, "--select", "dsa", "--width", "800", "--height", "600")
	if r.err != nil {
		t.Fatal(r.err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`width="800"`)) {
		t.Error("snapshot should use the requested size")
	}
	if !strings.Contains(r.stderr, "Wrote ") {
		t.Errorf("expected a confirmation on stderr, got %q", r.stderr)
	}
}

func TestExportErrors(t *testing.T) {
	dir := t.TempDir()
	cases := [][]string{
		{"export", "sde", "-f", "pdf"},
		{"export", "sde", "-o", filepath.Join(dir, "x.doc")},
		{"export", "sde", "--select", "nope"},
		{"export", "sde", "--all"},
		{"export", "-f", "sqlite"},
		{"export", "sde", "--width", "0"},
		{"export", "sde", "-o", filepath.Join(dir, "small.svg"), "--height", "200"},
	}
	for _, args := range cases {
		if r := run(t, args...); r.err == nil {
			t.Errorf("roadmap %s should fail", strings.Join(args, " "))
		}
	}
}

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, "export", "--all", "--dir", dir, "-f", "json")
	paths := strings.Fields(out)
	if len(paths) != 11 {
		t.Fatalf("expected 11 files, got %d:\n%s", len(paths), out)
	}
	if paths[0] != filepath.Join(dir, "sde.json") {
		t.Errorf("first file = %s", paths[0])
	}
}

func TestExportSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roadmap.sqlite3")
	out := mustRun(t, "export", "-o", path)
	if !strings.Contains(out, "(11 roles)") {
		t.Errorf("unexpected output %q", out)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("database not written: %v", err)
	}
}

func TestTourSteps(t *testing.T) {
	out := mustRun(t, "tour", "sde", "--interval", "1ms", "--steps", "3", "--json")
	dec := json.NewDecoder(strings.NewReader(out))
	var got []string
	for {
		var st tourStep
		if err := dec.Decode(&st); err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		got = append(got, st.ID)
	}
	if strings.Join(got, ",") != "prog,dsa,oop" {
		t.Errorf("unexpected tour %v", got)
	}
}

func TestTourHaltsOnLast(t *testing.T) {
	out := mustRun(t, "tour", "sde", "--interval", "1ms", "--halt")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.Contains(lines[0], "halt") {
		t.Errorf("header should name the policy: %q", lines[0])
	}
	if len(lines) != 7 {
		t.Errorf("expected header plus 6 stops, got:\n%s", out)
	}
	if last := lines[len(lines)-1]; !strings.Contains(last, "6. sys") {
		t.Errorf("tour should end on sys, got %q", last)
	}
}

func TestTourWrapMarksRestart(t *testing.T) {
	out := mustRun(t, "tour", "sde", "--interval", "1ms", "--steps", "8")
	if !strings.Contains(out, "(back to the start)") {
		t.Errorf("wrapped tour should mark the restart:\n%s", out)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	out := mustRun(t, "dump", "--role", "sde", "--role", "sample", "-f", "json")
	ds, err := loader.Parse(strings.NewReader(out), loader.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Graphs) != 2 || ds.Default != roadmap.RoleSDE {
		t.Fatalf("unexpected dump: default %s, %d graphs", ds.Default, len(ds.Graphs))
	}
	testutil.AssertStatusCounts(t, ds.Graph(roadmap.RoleSample), 3, 3, 0, 4)

	path := filepath.Join(t.TempDir(), "roadmap.toml")
	mustRun(t, "dump", "-o", path)
	if _, err := loader.LoadFile(path); err != nil {
		t.Errorf("dumped TOML should load back: %v", err)
	}
}

func TestConfigInitShowPath(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	if out := mustRun(t, "config", "path", "--config", cfgPath); strings.TrimSpace(out) != cfgPath {
		t.Errorf("config path = %q", out)
	}
	mustRun(t, "config", "init", "--config", cfgPath)
	if r := run(t, "config", "init", "--config", cfgPath); r.err == nil {
		t.Error("init should refuse to overwrite")
	}
	mustRun(t, "config", "init", "--force", "--config", cfgPath)

	out := mustRun(t, "config", "show", "--config", cfgPath)
	for _, want := range []string{"default_role: sde", "interval: 3s", "end: wrap"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestBrokenConfigFallsBack(t *testing.T) {
	cfgPath := testutil.WriteFile(t, t.TempDir(), "config.yaml", "tour:\n  end: sometimes\n")
	r := run(t, "roles", "--config", cfgPath)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.Contains(r.stderr, "Warning") {
		t.Errorf("expected a warning, got %q", r.stderr)
	}
}

func TestConfiguredDefaultRole(t *testing.T) {
	cfgPath := testutil.WriteFile(t, t.TempDir(), "config.yaml", "roadmap:\n  default_role: frontend\n")
	out := mustRun(t, "order", "--config", cfgPath)
	if !strings.Contains(out, " 1. htmlcss") {
		t.Errorf("order should use the configured role:\n%s", out)
	}
}

func TestTourPolicy(t *testing.T) {
	stopOnSelect := true
	a := &app{cfg: config.DefaultConfig()}
	a.cfg.Tour = config.TourConfig{Interval: "5s", End: "halt", StopOnSelect: &stopOnSelect}

	p, err := a.tourPolicy(viewFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Interval != 5*time.Second || p.End != viewer.EndHalt || !p.StopOnSelect {
		t.Errorf("config not applied: %+v", p)
	}

	p, err = a.tourPolicy(viewFlags{interval: time.Second, keepTourOnSelect: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.Interval != time.Second || p.StopOnSelect {
		t.Errorf("flags should win: %+v", p)
	}

	if _, err := a.tourPolicy(viewFlags{interval: -time.Second}); err == nil {
		t.Error("negative interval should fail")
	}
}

func TestLayoutAndFavorites(t *testing.T) {
	a := &app{cfg: config.DefaultConfig()}
	a.cfg.Roadmap.Layout = "timeline"
	if m, err := a.layout(""); err != nil || m.String() != "timeline" {
		t.Errorf("configured layout = %v, %v", m, err)
	}
	if m, _ := a.layout("tree"); m.String() != "tree" {
		t.Error("flag should override config")
	}
	if _, err := a.layout("radial"); err == nil {
		t.Error("unknown layout should fail")
	}

	a.cfg.SetFavorite(1, "ml")
	a.cfg.SetFavorite(2, "")
	fav := a.favorites()
	if len(fav) != 1 || fav[1] != roadmap.RoleML {
		t.Errorf("unexpected favorites %v", fav)
	}
}

func TestRoleOptions(t *testing.T) {
	opts := roleOptions(roadmap.Builtin())
	if len(opts) != 10 {
		t.Fatalf("expected 10 options, got %d", len(opts))
	}
	if opts[0].Value != roadmap.RoleSDE || !strings.Contains(opts[0].Key, "Generalist") {
		t.Errorf("unexpected first option %+v", opts[0])
	}
}

func TestExportRunsHooks(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, ".roadmap"), "hooks.yaml", `hooks:
  pre-export:
    - name: announce
      command: echo "$ROADMAP_EXPORT_FORMAT $ROADMAP_ROLES $ROADMAP_NODE_COUNT" > hook.log
  post-export:
    - name: verify
      command: test -s "$ROADMAP_EXPORT_PATH"
`)
	t.Chdir(dir)

	r := run(t, "export", "sde", "-o", "sde.mmd")
	if r.err != nil {
		t.Fatalf("export: %v\n%s", r.err, r.stderr)
	}
	if !strings.Contains(r.stderr, "Hooks: 2 succeeded, 0 failed") {
		t.Errorf("expected hook summary on stderr, got %q", r.stderr)
	}
	logged, err := os.ReadFile(filepath.Join(dir, "hook.log"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(logged)); got != "mermaid sde 6" {
		t.Errorf("hook saw %q", got)
	}
}

func TestExportPreHookCancels(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, ".roadmap"), "hooks.yaml", "hooks:\n  pre-export:\n    - name: gate\n      command: exit 1\n")
	t.Chdir(dir)

	r := run(t, "export", "sde", "-o", "sde.svg")
	if r.err == nil || !strings.Contains(r.err.Error(), `"gate"`) {
		t.Fatalf("expected the gate hook to cancel the export, got %v", r.err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sde.svg")); !os.IsNotExist(err) {
		t.Errorf("export should not be written, stat err = %v", err)
	}

	mustRun(t, "export", "sde", "-o", "sde.svg", "--no-hooks")
	if _, err := os.Stat(filepath.Join(dir, "sde.svg")); err != nil {
		t.Errorf("--no-hooks export missing: %v", err)
	}
}

func TestTimingsReport(t *testing.T) {
	metrics.ResetAll()
	r := run(t, "order", "sde", "--timings")
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.Contains(r.stderr, "OPERATION") || !strings.Contains(r.stderr, "learning_order") {
		t.Errorf("expected timing table on stderr, got %q", r.stderr)
	}
}
