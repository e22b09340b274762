package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/vanderheijden86/roadmap/pkg/metrics"
	"github.com/vanderheijden86/roadmap/pkg/render"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

// Default snapshot size in pixels.
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
)

const (
	headerHeight = 96.0
	plotMargin   = 64.0
	markerRadius = 12.0
)

// Smallest snapshot sizes that leave a 64px plot area inside the header and
// margins. Smaller requests are raised to these.
const (
	MinWidth  = int(2*plotMargin) + 64
	MinHeight = int(headerHeight+2*plotMargin) + 64
)

var (
	colorCompleted = color.RGBA{0x50, 0xfa, 0x7b, 0xff}
	colorActive    = color.RGBA{0x8b, 0xe9, 0xfd, 0xff}
	colorPending   = color.RGBA{0xff, 0xb8, 0x6c, 0xff}
	colorLocked    = color.RGBA{0xcf, 0xd8, 0xdc, 0xff}
	colorStroke    = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge      = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorGlow      = color.RGBA{0xff, 0x79, 0xc6, 0xff}
	colorText      = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle    = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG  = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorLegendBG  = color.RGBA{0xee, 0xee, 0xee, 0xff}
)

func statusColor(s roadmap.Status) color.RGBA {
	switch s {
	case roadmap.StatusCompleted:
		return colorCompleted
	case roadmap.StatusActive:
		return colorActive
	case roadmap.StatusLocked:
		return colorLocked
	default:
		return colorPending
	}
}

var legendRows = []struct {
	status roadmap.Status
	label  string
}{
	{roadmap.StatusCompleted, "Completed"},
	{roadmap.StatusActive, "In progress"},
	{roadmap.StatusPending, "Up next"},
	{roadmap.StatusLocked, "Locked"},
}

// box maps scene percentages onto the plot area below the header.
type box struct {
	width, height int
}

func newBox(opts Options) box {
	b := box{width: opts.Width, height: opts.Height}
	if b.width <= 0 {
		b.width = DefaultWidth
	}
	if b.height <= 0 {
		b.height = DefaultHeight
	}
	b.width = max(b.width, MinWidth)
	b.height = max(b.height, MinHeight)
	return b
}

func (b box) px(p roadmap.Point) (float64, float64) {
	w := float64(b.width) - 2*plotMargin
	h := float64(b.height) - headerHeight - 2*plotMargin
	x, y := render.Scale(p, w, h)
	return plotMargin + x, headerHeight + plotMargin + y
}

func (b box) ipx(p roadmap.Point) (int, int) {
	x, y := b.px(p)
	return int(math.Round(x)), int(math.Round(y))
}

func summaryLine(scene render.Scene) string {
	return fmt.Sprintf("nodes: %d  connectors: %d  layout: %s", len(scene.Markers), len(scene.Links), scene.Mode)
}

// writeSVG renders scene as an SVG document.
func writeSVG(w io.Writer, scene render.Scene, opts Options) error {
	defer metrics.Timer(metrics.SnapshotSVG)()

	b := newBox(opts)
	title := opts.title(scene)

	canvas := svg.New(w)
	canvas.Start(b.width, b.height)
	canvas.Title(title)
	canvas.Rect(0, 0, b.width, b.height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, b.width-32, int(headerHeight-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(32, 48, title, fmt.Sprintf("fill:%s;font-size:18px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 70, summaryLine(scene), fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	drawLegendSVG(canvas, b)

	canvas.Gid("connectors")
	for _, l := range scene.Links {
		sx, sy := b.ipx(l.Curve.Start)
		c1x, c1y := b.ipx(l.Curve.C1)
		c2x, c2y := b.ipx(l.Curve.C2)
		ex, ey := b.ipx(l.Curve.End)
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(colorEdge))
		if l.Highlight {
			style = fmt.Sprintf("fill:none;stroke:%s;stroke-width:4", css(colorGlow))
		}
		canvas.Bezier(sx, sy, c1x, c1y, c2x, c2y, ex, ey, style)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, m := range scene.Markers {
		x, y := b.ipx(m.Pos)
		r := int(markerRadius)
		stroke := fmt.Sprintf("stroke:%s;stroke-width:1.5", css(colorStroke))
		if m.Selected {
			r += 4
			stroke = fmt.Sprintf("stroke:%s;stroke-width:3", css(colorGlow))
		}
		if m.Node.IsLocked() {
			stroke += ";stroke-dasharray:4,3"
		}
		canvas.Circle(x, y, r, fmt.Sprintf("fill:%s;%s", css(statusColor(m.Node.Status)), stroke))
		canvas.Text(x, y+r+16, truncate(m.Node.Label, 28),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:middle", css(colorText)))
	}
	canvas.Gend()

	canvas.End()
	return nil
}

func drawLegendSVG(canvas *svg.SVG, b box) {
	boxW := 160
	boxH := 84
	x := b.width - boxW - 24
	y := 8
	canvas.Roundrect(x, y, boxW, boxH, 10, 10, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	for i, row := range legendRows {
		ry := y + 18 + i*17
		canvas.Circle(x+18, ry-4, 6, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(statusColor(row.status)), css(colorStroke)))
		canvas.Text(x+32, ry, row.label, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
}

// writePNG renders scene as a PNG image.
func writePNG(w io.Writer, scene render.Scene, opts Options) error {
	defer metrics.Timer(metrics.SnapshotPNG)()

	b := newBox(opts)
	dc := gg.NewContext(b.width, b.height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(b.width)-32, headerHeight-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(opts.title(scene), 32, 44, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(summaryLine(scene), 32, 66, 0, 0.5)
	drawLegend(dc, b)

	for _, l := range scene.Links {
		sx, sy := b.px(l.Curve.Start)
		c1x, c1y := b.px(l.Curve.C1)
		c2x, c2y := b.px(l.Curve.C2)
		ex, ey := b.px(l.Curve.End)
		dc.SetColor(colorEdge)
		dc.SetLineWidth(2)
		if l.Highlight {
			dc.SetColor(colorGlow)
			dc.SetLineWidth(4)
		}
		dc.NewSubPath()
		dc.MoveTo(sx, sy)
		dc.CubicTo(c1x, c1y, c2x, c2y, ex, ey)
		dc.Stroke()
	}

	for _, m := range scene.Markers {
		drawMarker(dc, b, m)
	}

	return dc.EncodePNG(w)
}

func drawMarker(dc *gg.Context, b box, m render.Marker) {
	x, y := b.px(m.Pos)
	r := markerRadius
	if m.Selected {
		r += 4
	}
	dc.SetColor(statusColor(m.Node.Status))
	dc.DrawCircle(x, y, r)
	dc.Fill()

	dc.SetColor(colorStroke)
	dc.SetLineWidth(1.5)
	if m.Selected {
		dc.SetColor(colorGlow)
		dc.SetLineWidth(3)
	}
	if m.Node.IsLocked() {
		dc.SetDash(4, 3)
	}
	dc.DrawCircle(x, y, r)
	dc.Stroke()
	dc.SetDash()

	dc.SetColor(colorText)
	dc.DrawStringAnchored(truncate(m.Node.Label, 28), x, y+r+12, 0.5, 0.5)
}

func drawLegend(dc *gg.Context, b box) {
	boxW := 160.0
	boxH := 84.0
	x := float64(b.width) - boxW - 24
	y := 8.0
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	for i, row := range legendRows {
		ry := y + 18 + float64(i)*17
		dc.SetColor(statusColor(row.status))
		dc.DrawCircle(x+18, ry-4, 6)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(row.label, x+32, ry-4, 0, 0.5)
	}
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
