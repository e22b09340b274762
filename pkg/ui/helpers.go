package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// padRight pads string s with spaces on the right to visual width
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate truncates string s to maxWidth cells
func truncate(s string, maxWidth int) string {
	return truncateRunesHelper(s, maxWidth, "…")
}

// StatusGlyph returns the single-cell marker drawn for a node on the canvas.
func StatusGlyph(s roadmap.Status) rune {
	switch s {
	case roadmap.StatusCompleted:
		return '●'
	case roadmap.StatusActive:
		return '◉'
	case roadmap.StatusPending:
		return '○'
	case roadmap.StatusLocked:
		return '⊘'
	default:
		return '·'
	}
}

// StatusLabel returns a short human label for a status.
func StatusLabel(s roadmap.Status) string {
	switch s {
	case roadmap.StatusCompleted:
		return "Completed"
	case roadmap.StatusActive:
		return "In progress"
	case roadmap.StatusPending:
		return "Up next"
	case roadmap.StatusLocked:
		return "Locked"
	default:
		return string(s)
	}
}
