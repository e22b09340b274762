package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Status colors
	ColorStatusCompleted = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorStatusActive    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorStatusPending   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorStatusLocked    = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"}

	// Status background colors (for badges)
	ColorStatusCompletedBg = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
	ColorStatusActiveBg    = lipgloss.AdaptiveColor{Light: "#D1ECF1", Dark: "#1A3344"}
	ColorStatusPendingBg   = lipgloss.AdaptiveColor{Light: "#FFE8CC", Dark: "#3D2A1A"}
	ColorStatusLockedBg    = lipgloss.AdaptiveColor{Light: "#E2E3E5", Dark: "#2A2A3D"}
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES - For split view layouts
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE RENDERING
// ══════════════════════════════════════════════════════════════════════════════

// RenderStatusBadge returns a styled four-letter status badge
func RenderStatusBadge(status roadmap.Status) string {
	var fg, bg lipgloss.AdaptiveColor
	var label string

	switch status {
	case roadmap.StatusCompleted:
		fg, bg, label = ColorStatusCompleted, ColorStatusCompletedBg, "DONE"
	case roadmap.StatusActive:
		fg, bg, label = ColorStatusActive, ColorStatusActiveBg, "NOW "
	case roadmap.StatusPending:
		fg, bg, label = ColorStatusPending, ColorStatusPendingBg, "NEXT"
	case roadmap.StatusLocked:
		fg, bg, label = ColorStatusLocked, ColorStatusLockedBg, "LOCK"
	default:
		fg, bg, label = ColorMuted, ColorBgSubtle, "????"
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Render(label)
}

// RenderProgressBar renders a horizontal bar for a value between 0 and 1
func RenderProgressBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	switch {
	case value >= 0.75:
		barColor = t.Completed
	case value >= 0.5:
		barColor = t.Pending
	case value >= 0.25:
		barColor = t.Active
	default:
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// RenderDivider renders a horizontal rule separating sidebar sections.
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}
