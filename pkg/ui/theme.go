package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Status
	Completed lipgloss.AdaptiveColor
	Active    lipgloss.AdaptiveColor
	Pending   lipgloss.AdaptiveColor
	Locked    lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Glow      lipgloss.AdaptiveColor // connector the tour just travelled

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed canvas styles, created once instead of per frame
	Link          lipgloss.Style
	LinkGlow      lipgloss.Style
	Label         lipgloss.Style
	LabelSelected lipgloss.Style
	MutedText     lipgloss.Style
	PrimaryBold   lipgloss.Style
	LockBanner    lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Completed: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Active:    lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan
		Pending:   lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Locked:    lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"}, // Muted gray

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Glow:      lipgloss.AdaptiveColor{Light: "#C2185B", Dark: "#FF79C6"}, // Pink
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Link = r.NewStyle().Foreground(t.Border)
	t.LinkGlow = r.NewStyle().Foreground(t.Glow).Bold(true)
	t.Label = r.NewStyle().Foreground(t.Subtext)
	t.LabelSelected = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.LockBanner = r.NewStyle().Foreground(ThemeFg("#FFB86C")).Bold(true)

	return t
}

// StatusColor returns the color for a node status.
func (t Theme) StatusColor(s roadmap.Status) lipgloss.AdaptiveColor {
	switch s {
	case roadmap.StatusCompleted:
		return t.Completed
	case roadmap.StatusActive:
		return t.Active
	case roadmap.StatusPending:
		return t.Pending
	case roadmap.StatusLocked:
		return t.Locked
	default:
		return t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
