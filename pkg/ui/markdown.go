package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/vanderheijden86/roadmap/pkg/debug"
)

// MarkdownRenderer renders Markdown with glamour at a fixed word-wrap width.
// When glamour cannot be initialized it passes text through unchanged.
type MarkdownRenderer struct {
	width int
	tr    *glamour.TermRenderer
	theme Theme
}

// NewMarkdownRendererWithTheme creates a renderer wrapping at width.
func NewMarkdownRendererWithTheme(width int, theme Theme) *MarkdownRenderer {
	r := &MarkdownRenderer{theme: theme}
	r.SetWidth(width)
	return r
}

// SetWidth rebuilds the underlying renderer when the width changes.
func (r *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if r.tr != nil && width == r.width {
		return
	}
	r.width = width
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		debug.Log("ui: glamour unavailable: %v", err)
		r.tr = nil
		return
	}
	r.tr = tr
}

// Width returns the wrap width.
func (r *MarkdownRenderer) Width() int { return r.width }

// Render renders md. Errors fall back to the raw text.
func (r *MarkdownRenderer) Render(md string) (string, error) {
	if r.tr == nil {
		return md, nil
	}
	out, err := r.tr.Render(md)
	if err != nil {
		return md, err
	}
	return strings.Trim(out, "\n"), nil
}
