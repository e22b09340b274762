package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vanderheijden86/roadmap/pkg/viewer"
)

// DetailPanel shows the selected node's details in a scrollable viewport.
type DetailPanel struct {
	viewport viewport.Model
	renderer *MarkdownRenderer
	theme    Theme
	markdown bool

	current string // role/id of the rendered detail
	content string
}

// NewDetailPanel creates a panel of the given size. With markdown false the
// detail is shown as plain text.
func NewDetailPanel(width, height int, markdown bool, theme Theme) DetailPanel {
	vp := viewport.New(width, height)
	p := DetailPanel{viewport: vp, theme: theme, markdown: markdown}
	if markdown {
		p.renderer = NewMarkdownRendererWithTheme(width-2, theme)
	}
	return p
}

// SetSize resizes the panel and forces a re-render.
func (p *DetailPanel) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if p.viewport.Width == width && p.viewport.Height == height {
		return
	}
	p.viewport.Width = width
	p.viewport.Height = height
	if p.renderer != nil {
		p.renderer.SetWidth(width - 2)
	}
	p.current = ""
}

// Invalidate drops the cached render so the next Show redraws even when
// the same node is selected.
func (p *DetailPanel) Invalidate() {
	p.current = ""
}

// Show renders d unless it is already on screen. ok false shows the empty
// placeholder.
func (p *DetailPanel) Show(d viewer.Detail, ok bool) {
	key := ""
	if ok {
		key = string(d.Role) + "/" + d.ID
	}
	if key == p.current && p.content != "" {
		return
	}
	p.current = key
	if !ok {
		p.setContent(p.theme.MutedText.Render("Select a stage to see its details."))
		return
	}
	p.setContent(p.render(d))
	p.viewport.GotoTop()
}

func (p *DetailPanel) render(d viewer.Detail) string {
	if p.markdown && p.renderer != nil {
		out, err := p.renderer.Render(d.Markdown())
		if err == nil {
			return out
		}
		return fmt.Sprintf("Error rendering markdown: %v\n\n%s", err, strings.Join(d.Plain(), "\n"))
	}

	lines := d.Plain()
	var sb strings.Builder
	sb.WriteString(p.theme.PrimaryBold.Render(lines[0]))
	sb.WriteString("\n")
	sb.WriteString(RenderStatusBadge(d.Status))
	sb.WriteString(" ")
	sb.WriteString(p.theme.MutedText.Render(d.Heading))
	sb.WriteString("\n")
	rest := lines[2:]
	if d.Locked {
		sb.WriteString(p.theme.LockBanner.Render(viewer.LockNotice))
		sb.WriteString("\n")
		rest = rest[1:]
	}
	for _, l := range rest {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (p *DetailPanel) setContent(s string) {
	p.content = s
	p.viewport.SetContent(s)
}

// Content returns the rendered text.
func (p DetailPanel) Content() string { return p.content }

// Update forwards scroll keys to the viewport.
func (p DetailPanel) Update(msg tea.Msg) (DetailPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the viewport.
func (p DetailPanel) View() string { return p.viewport.View() }
