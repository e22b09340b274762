package export

import (
	"fmt"
	"hash/fnv"
	"io"
	"strings"
	"unicode"

	"github.com/vanderheijden86/roadmap/pkg/render"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// GenerateMermaid returns a Mermaid flowchart of g. Tree layouts grow
// bottom to top like the canvas; timelines read left to right. Edges with
// a missing endpoint are left out.
func GenerateMermaid(g roadmap.Graph, opts Options) string {
	var sb strings.Builder

	dir := "BT"
	if opts.Mode == render.ModeTimeline {
		dir = "LR"
	}
	sb.WriteString("flowchart " + dir + "\n")

	sb.WriteString("    classDef completed fill:#50FA7B,stroke:#333,color:#000\n")
	sb.WriteString("    classDef active fill:#8BE9FD,stroke:#333,color:#000\n")
	sb.WriteString("    classDef pending fill:#FFB86C,stroke:#333,color:#000\n")
	sb.WriteString("    classDef locked fill:#6272A4,stroke:#333,color:#fff,stroke-dasharray:4 3\n")
	sb.WriteString("\n")

	// Deterministic, collision-free Mermaid IDs
	safeIDMap := make(map[string]string, len(g.Nodes))
	usedSafe := make(map[string]bool, len(g.Nodes))
	getSafeID := func(orig string) string {
		if safe, ok := safeIDMap[orig]; ok {
			return safe
		}
		base := sanitizeMermaidID(orig)
		safe := base
		if usedSafe[safe] {
			h := fnv.New32a()
			_, _ = h.Write([]byte(orig))
			safe = fmt.Sprintf("%s_%x", base, h.Sum32())
		}
		usedSafe[safe] = true
		safeIDMap[orig] = safe
		return safe
	}

	for _, n := range g.Nodes {
		safeID := getSafeID(n.ID)
		label := sanitizeMermaidText(n.Label)
		if n.Phase != "" {
			label += "<br/>" + sanitizeMermaidText(n.Phase)
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, label))
		if n.Status.IsValid() {
			sb.WriteString(fmt.Sprintf("    class %s %s\n", safeID, n.Status))
		}
	}

	sb.WriteString("\n")

	linkIndex := 0
	for _, e := range g.Edges {
		if g.Index(e.From) < 0 || g.Index(e.To) < 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", getSafeID(e.From), getSafeID(e.To)))
		if opts.Highlight != nil && *opts.Highlight == e {
			sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:#FF79C6,stroke-width:4px\n", linkIndex))
		}
		linkIndex++
	}

	return sb.String()
}

func writeMermaid(w io.Writer, g roadmap.Graph, opts Options) error {
	_, err := io.WriteString(w, GenerateMermaid(g, opts))
	return err
}

// sanitizeMermaidID keeps letters, digits, dashes and underscores.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	result := sb.String()
	if result == "" {
		return "node"
	}
	return result
}

// sanitizeMermaidText prepares text for use in Mermaid node labels.
// Removes/escapes characters that break Mermaid syntax.
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"`", "'",
		"\n", " ",
		"\r", "",
	)
	result := replacer.Replace(text)

	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)

	return strings.TrimSpace(result)
}
