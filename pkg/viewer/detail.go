package viewer

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// Heading fallbacks for the detail panel.
const (
	HeadingStart   = "Start Point"
	HeadingDefault = "Phase Detail"
)

// Detail is the payload the detail panel displays for one node. Fields are
// copied verbatim from the node; nothing is computed.
type Detail struct {
	Role    roadmap.RoleID  `json:"role"`
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	Status  roadmap.Status  `json:"status"`
	Locked  bool            `json:"locked"`
	Heading string          `json:"heading"`
	Details roadmap.Details `json:"details"`
}

// NewDetail builds the payload for n.
func NewDetail(role roadmap.RoleID, n roadmap.Node) Detail {
	return Detail{
		Role:    role,
		ID:      n.ID,
		Label:   n.Label,
		Status:  n.Status,
		Locked:  n.IsLocked(),
		Heading: heading(n),
		Details: n.Details,
	}
}

func heading(n roadmap.Node) string {
	switch {
	case n.Kind == roadmap.KindRoot:
		return HeadingStart
	case n.Phase != "":
		return n.Phase
	default:
		return HeadingDefault
	}
}

// LockNotice is shown alongside the details of locked nodes.
const LockNotice = "Locked: finish the earlier steps to unlock this stage."

// Markdown renders the detail as a Markdown document.
func (d Detail) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", d.Label)
	fmt.Fprintf(&sb, "_%s_ · **%s**\n\n", d.Heading, d.Status)
	if d.Locked {
		fmt.Fprintf(&sb, "> %s\n\n", LockNotice)
	}
	det := d.Details
	if det.Description != "" {
		sb.WriteString(det.Description)
		sb.WriteString("\n\n")
	}
	section := func(title, body string) {
		if body == "" {
			return
		}
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", title, body)
	}
	section("Why it matters", det.Why)
	section("Time", det.Time)
	section("Tip", det.Tip)
	if len(det.Skills) > 0 {
		sb.WriteString("## Skills\n\n")
		for _, s := range det.Skills {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
		sb.WriteString("\n")
	}
	section("Outcome", det.Outcome)
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// Plain renders the detail as unstyled text lines, for terminals without
// Markdown rendering and for the CLI.
func (d Detail) Plain() []string {
	lines := []string{d.Label, fmt.Sprintf("%s | %s", d.Heading, d.Status)}
	if d.Locked {
		lines = append(lines, LockNotice)
	}
	det := d.Details
	add := func(title, body string) {
		if body == "" {
			return
		}
		lines = append(lines, "", title+":", body)
	}
	add("Description", det.Description)
	add("Why", det.Why)
	add("Time", det.Time)
	add("Tip", det.Tip)
	if len(det.Skills) > 0 {
		lines = append(lines, "", "Skills:")
		for _, s := range det.Skills {
			lines = append(lines, "  - "+s)
		}
	}
	add("Outcome", det.Outcome)
	return lines
}
