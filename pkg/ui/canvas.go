package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/vanderheijden86/roadmap/pkg/metrics"
	"github.com/vanderheijden86/roadmap/pkg/render"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// MaxCanvasLabel caps label width on the canvas.
const MaxCanvasLabel = 18

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellLink
	cellLinkGlow
	cellLabel
	cellLabelSelected
	cellMarker
	cellMarkerSelected
	cellWide // right half of a double-width rune
)

type cell struct {
	r      rune
	kind   cellKind
	status roadmap.Status
}

// Canvas rasterizes a render.Scene onto a character grid. Percentages map
// onto the grid, curves are sampled, markers and labels are drawn on top.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
}

// NewCanvas draws scene into a width x height grid.
func NewCanvas(scene render.Scene, width, height int) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c := &Canvas{width: width, height: height, cells: make([][]cell, height)}
	for y := range c.cells {
		c.cells[y] = make([]cell, width)
	}

	for _, l := range scene.Links {
		c.drawCurve(l.Curve, l.Highlight)
	}
	for _, m := range scene.Markers {
		c.drawLabel(m)
	}
	for _, m := range scene.Markers {
		col, row := c.project(m.Pos)
		kind := cellMarker
		if m.Selected {
			kind = cellMarkerSelected
		}
		c.set(col, row, cell{r: StatusGlyph(m.Node.Status), kind: kind, status: m.Node.Status})
	}
	return c
}

// project maps a percentage point to a grid cell.
func (c *Canvas) project(p roadmap.Point) (int, int) {
	col := int(math.Round(p.X / 100 * float64(c.width-1)))
	row := int(math.Round(p.Y / 100 * float64(c.height-1)))
	return clamp(col, 0, c.width-1), clamp(row, 0, c.height-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (c *Canvas) set(col, row int, v cell) {
	if row < 0 || row >= c.height || col < 0 || col >= c.width {
		return
	}
	c.cells[row][col] = v
}

func (c *Canvas) at(col, row int) cell {
	if row < 0 || row >= c.height || col < 0 || col >= c.width {
		return cell{}
	}
	return c.cells[row][col]
}

func (c *Canvas) drawCurve(curve render.Curve, glow bool) {
	kind, r := cellLink, '·'
	if glow {
		kind, r = cellLinkGlow, '•'
	}
	steps := 2 * (c.width + c.height)
	for _, p := range curve.Sample(steps) {
		col, row := c.project(p)
		existing := c.at(col, row)
		if existing.kind == cellLinkGlow && !glow {
			continue
		}
		c.set(col, row, cell{r: r, kind: kind})
	}
}

// drawLabel writes the node label right of its marker, or left when it
// would run off the edge. Labels never overwrite other markers' labels.
func (c *Canvas) drawLabel(m render.Marker) {
	col, row := c.project(m.Pos)
	label := truncate(m.Node.Label, MaxCanvasLabel)
	w := runewidth.StringWidth(label)
	if w == 0 {
		return
	}

	start := col + 2
	if start+w > c.width {
		start = col - 1 - w
	}
	if start < 0 {
		label = truncate(m.Node.Label, c.width-col-2)
		start = col + 2
		w = runewidth.StringWidth(label)
	}
	if w <= 0 {
		return
	}
	for x := start; x < start+w; x++ {
		k := c.at(x, row).kind
		if k == cellLabel || k == cellLabelSelected || k == cellWide {
			return
		}
	}

	kind := cellLabel
	if m.Selected {
		kind = cellLabelSelected
	}
	x := start
	for _, r := range label {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		c.set(x, row, cell{r: r, kind: kind})
		if rw == 2 {
			c.set(x+1, row, cell{kind: cellWide})
		}
		x += rw
	}
}

// PlainLines returns the grid without styling.
func (c *Canvas) PlainLines() []string {
	out := make([]string, c.height)
	for y, row := range c.cells {
		var sb strings.Builder
		for _, cl := range row {
			switch {
			case cl.kind == cellWide:
			case cl.r == 0:
				sb.WriteByte(' ')
			default:
				sb.WriteRune(cl.r)
			}
		}
		out[y] = sb.String()
	}
	return out
}

// Render returns the styled grid. Runs of cells with the same style are
// rendered together.
func (c *Canvas) Render(t Theme) string {
	defer metrics.Timer(metrics.CanvasRender)()

	lines := make([]string, c.height)
	for y, row := range c.cells {
		var sb strings.Builder
		var run strings.Builder
		var runStyle *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle == nil {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(runStyle.Render(run.String()))
			}
			run.Reset()
		}
		var prev cell
		for i, cl := range row {
			if cl.kind == cellWide {
				continue
			}
			if i == 0 || cl.kind != prev.kind || cl.status != prev.status {
				flush()
				runStyle = c.style(cl, t)
			}
			if cl.r == 0 {
				run.WriteByte(' ')
			} else {
				run.WriteRune(cl.r)
			}
			prev = cl
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func (c *Canvas) style(cl cell, t Theme) *lipgloss.Style {
	var s lipgloss.Style
	switch cl.kind {
	case cellLink:
		s = t.Link
	case cellLinkGlow:
		s = t.LinkGlow
	case cellLabel:
		s = t.Label
	case cellLabelSelected:
		s = t.LabelSelected
	case cellMarker:
		s = t.Renderer.NewStyle().Foreground(t.StatusColor(cl.status))
	case cellMarkerSelected:
		s = t.Renderer.NewStyle().Foreground(t.StatusColor(cl.status)).Background(t.Highlight).Bold(true)
	default:
		return nil
	}
	return &s
}
