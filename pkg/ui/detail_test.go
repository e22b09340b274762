package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/roadmap/pkg/roadmap"
	"github.com/vanderheijden86/roadmap/pkg/viewer"
)

func sampleDetail(t *testing.T, id string) viewer.Detail {
	t.Helper()
	g := roadmap.Builtin().Graph(roadmap.RoleSample)
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("sample node %q missing", id)
	}
	return viewer.NewDetail(g.Role, n)
}

func TestDetailPanelPlain(t *testing.T) {
	p := NewDetailPanel(50, 20, false, TestTheme())

	p.Show(sampleDetail(t, "b3-2"), true)
	content := p.Content()
	for _, want := range []string{"System Design", viewer.LockNotice, "Scalability", "Load Balancing", "L5 Level"} {
		if !strings.Contains(content, want) {
			t.Errorf("plain detail missing %q:\n%s", want, content)
		}
	}

	p.Show(sampleDetail(t, "b1"), true)
	if strings.Contains(p.Content(), viewer.LockNotice) {
		t.Error("unlocked node should not show the lock notice")
	}
	if !strings.Contains(p.Content(), "Month 1") {
		t.Error("phase heading missing")
	}
}

func TestDetailPanelPlaceholder(t *testing.T) {
	p := NewDetailPanel(50, 20, false, TestTheme())
	p.Show(viewer.Detail{}, false)
	if !strings.Contains(p.Content(), "Select a stage") {
		t.Errorf("unexpected placeholder %q", p.Content())
	}
}

func TestDetailPanelMarkdown(t *testing.T) {
	p := NewDetailPanel(60, 30, true, TestTheme())
	p.Show(sampleDetail(t, "root"), true)
	content := p.Content()
	for _, want := range []string{"Student", "Profile", "Outcome"} {
		if !strings.Contains(content, want) {
			t.Errorf("markdown detail missing %q:\n%s", want, content)
		}
	}
}

func TestDetailPanelSkipsRerender(t *testing.T) {
	p := NewDetailPanel(50, 20, false, TestTheme())
	d := sampleDetail(t, "b2")
	p.Show(d, true)
	first := p.Content()

	d.Details.Description = "changed"
	p.Show(d, true)
	if p.Content() != first {
		t.Error("same node should not be re-rendered")
	}

	p.SetSize(40, 10)
	p.Show(d, true)
	if !strings.Contains(p.Content(), "changed") {
		t.Error("resize should force a re-render")
	}
}

func TestMarkdownRendererMinimumWidth(t *testing.T) {
	r := NewMarkdownRendererWithTheme(5, TestTheme())
	if r.Width() != 20 {
		t.Errorf("expected width clamped to 20, got %d", r.Width())
	}
	out, err := r.Render("**bold**")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "bold") {
		t.Errorf("render lost text: %q", out)
	}
}
