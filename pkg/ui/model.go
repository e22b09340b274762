package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vanderheijden86/roadmap/pkg/debug"
	"github.com/vanderheijden86/roadmap/pkg/render"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
	"github.com/vanderheijden86/roadmap/pkg/viewer"
	"github.com/vanderheijden86/roadmap/pkg/watcher"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View width thresholds for adaptive layout
const (
	SplitViewThreshold = 100
	SidebarThreshold   = 80
	SidebarWidth       = 26
	MinDetailPaneWidth = 36
)

const (
	defaultWidth  = 120
	defaultHeight = 36
)

// focus represents which UI element has keyboard focus
type focus int

const (
	focusCanvas focus = iota
	focusDetail
	focusHelp
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// TourTickMsg advances the tour run identified by Token.
type TourTickMsg struct {
	Token viewer.Token
}

// FileChangedMsg is sent when the dataset file changes on disk
type FileChangedMsg struct{}

// tourTickCmd schedules the next tour step.
func tourTickCmd(d time.Duration, tok viewer.Token) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TourTickMsg{Token: tok}
	})
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Options configures a Model.
type Options struct {
	Role        roadmap.RoleID
	Mode        render.Mode
	Policy      viewer.TourPolicy
	Markdown    bool
	ShowSidebar bool
	// Watcher, when set, triggers Reload on file changes.
	Watcher *watcher.Watcher
	// Reload re-reads the dataset for "r" and file changes.
	Reload func() (*roadmap.Dataset, error)
	// Favorites maps digit keys to roles. Unmapped digits pick roles by
	// position.
	Favorites map[int]roadmap.RoleID
	// Autoplay starts the tour as soon as the program starts.
	Autoplay bool
}

// Model is the main Bubble Tea model for the roadmap viewer
type Model struct {
	session *viewer.Session
	theme   Theme

	width  int
	height int
	ready  bool

	focused     focus
	showHelp    bool
	showSidebar bool
	detail      DetailPanel

	watcher   *watcher.Watcher
	reload    func() (*roadmap.Dataset, error)
	favorites map[int]roadmap.RoleID

	statusMsg     string
	statusIsError bool
	exited        bool
}

// NewModel creates the viewer model over ds.
func NewModel(ds *roadmap.Dataset, opts Options) Model {
	theme := DefaultTheme(lipgloss.NewRenderer(os.Stdout))
	s := viewer.NewSession(ds, opts.Role, opts.Policy)
	s.SetMode(opts.Mode)

	m := Model{
		session:     s,
		theme:       theme,
		width:       defaultWidth,
		height:      defaultHeight,
		ready:       true,
		showSidebar: opts.ShowSidebar,
		watcher:     opts.Watcher,
		reload:      opts.Reload,
		favorites:   opts.Favorites,
	}
	m.detail = NewDetailPanel(MinDetailPaneWidth, defaultHeight/2, opts.Markdown, theme)
	m.layout()
	if opts.Autoplay {
		s.StartTour()
	}
	m.refreshDetail()
	return m
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	if tok := m.session.Token(); tok != 0 {
		cmds = append(cmds, tourTickCmd(m.session.Policy().Interval, tok))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.refreshDetail()
		return m, nil

	case TourTickMsg:
		if !m.session.Tick(msg.Token) {
			return m, nil
		}
		m.refreshDetail()
		if m.session.Touring() {
			return m, tourTickCmd(m.session.Policy().Interval, msg.Token)
		}
		m.setStatus("Tour finished", false)
		return m, nil

	case FileChangedMsg:
		m.reloadDataset("File changed, reloaded")
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	// Any key dismisses the help overlay
	if m.showHelp {
		m.showHelp = false
		m.focused = focusCanvas
		return m, nil
	}

	if m.focused == focusDetail {
		switch key {
		case "esc", "enter", "tab":
			m.focused = focusCanvas
			return m, nil
		case "q":
			return m.quit()
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	m.statusMsg = ""
	switch key {
	case "q":
		return m.quit()
	case "esc":
		if m.session.Selected() == "" && !m.session.Touring() {
			return m.quit()
		}
		m.session.Clear()
	case "j", "down", "l", "right":
		m.session.Move(1)
	case "k", "up", "h", "left":
		m.session.Move(-1)
	case "g", "home":
		m.session.SelectIndex(0)
	case "G", "end":
		m.session.SelectIndex(len(m.session.Graph().Nodes) - 1)
	case " ", "p":
		if tok := m.session.ToggleTour(); tok != 0 {
			m.setStatus("Tour started", false)
			m.refreshDetail()
			return m, tourTickCmd(m.session.Policy().Interval, tok)
		}
		m.setStatus("Tour stopped", false)
	case "t":
		mode := m.session.ToggleMode()
		m.setStatus("Layout: "+mode.String(), false)
	case "]":
		m.cycleRole(1)
	case "[":
		m.cycleRole(-1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
		m.selectRoleKey(int(key[0] - '0'))
	case "enter", "tab":
		if _, ok := m.session.SelectedNode(); ok {
			m.focused = focusDetail
		}
	case "y":
		m.copySelected()
	case "b":
		m.showSidebar = !m.showSidebar
		m.layout()
	case "r":
		m.reloadDataset("Reloaded")
	case "?":
		m.showHelp = true
		m.focused = focusHelp
	}
	m.refreshDetail()
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.session.StopTour()
	m.exited = true
	return m, tea.Quit
}

func (m *Model) setStatus(s string, isErr bool) {
	m.statusMsg = s
	m.statusIsError = isErr
}

// roles returns the roles offered by the picker.
func (m Model) roles() []roadmap.Role {
	return m.session.Dataset().Roles
}

func (m *Model) cycleRole(delta int) {
	roles := m.roles()
	if len(roles) == 0 {
		return
	}
	i := m.session.Dataset().RoleIndex(m.session.Role())
	if i < 0 {
		// unlisted roles such as the showcase map sit outside the ring
		i = -1
		if delta < 0 {
			i = len(roles)
		}
	}
	next := ((i+delta)%len(roles) + len(roles)) % len(roles)
	m.switchRole(roles[next].ID)
}

// selectRoleKey handles a digit key: a configured favorite, else the n-th
// listed role (0 is the tenth).
func (m *Model) selectRoleKey(n int) {
	if id, ok := m.favorites[n]; ok && id != "" {
		m.switchRole(id)
		return
	}
	pos := n - 1
	if n == 0 {
		pos = 9
	}
	roles := m.roles()
	if pos < 0 || pos >= len(roles) {
		return
	}
	m.switchRole(roles[pos].ID)
}

func (m *Model) switchRole(id roadmap.RoleID) {
	m.session.SetRole(id)
	m.setStatus("Role: "+m.session.Dataset().RoleLabel(m.session.Role()), false)
}

func (m *Model) copySelected() {
	d, ok := m.session.Detail()
	if !ok {
		m.setStatus("Nothing selected", true)
		return
	}
	if err := writeClipboard(d.Markdown()); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("📋 Copied %s to clipboard", d.Label), false)
}

func (m *Model) reloadDataset(ok string) {
	if m.reload == nil {
		m.setStatus("Nothing to reload: showing built-in roadmap", false)
		return
	}
	start := time.Now()
	ds, err := m.reload()
	if err != nil {
		debug.Log("ui: reload failed: %v", err)
		m.setStatus(fmt.Sprintf("Reload failed: %v", err), true)
		return
	}
	m.session.Reload(ds)
	debug.LogTiming("ui.reload", time.Since(start))
	m.setStatus(ok, false)
	m.detail.Invalidate()
	m.refreshDetail()
}

// Session returns the view state.
func (m Model) Session() *viewer.Session { return m.session }

// Exited reports whether the user asked to leave the view.
func (m Model) Exited() bool { return m.exited }

// StatusMessage returns the footer message.
func (m Model) StatusMessage() string { return m.statusMsg }

// FocusDetail reports whether the detail panel has focus.
func (m Model) FocusDetail() bool { return m.focused == focusDetail }

// HelpVisible reports whether the help overlay is open.
func (m Model) HelpVisible() bool { return m.showHelp }

// SidebarVisible reports whether the role sidebar is drawn.
func (m Model) SidebarVisible() bool { return m.showSidebar && m.width >= SidebarThreshold }

// DetailContent returns the rendered detail text.
func (m Model) DetailContent() string { return m.detail.Content() }

func (m *Model) refreshDetail() {
	m.detail.Show(m.session.Detail())
}

// ══════════════════════════════════════════════════════════════════════════════
// LAYOUT
// ══════════════════════════════════════════════════════════════════════════════

type panes struct {
	sidebarW int
	canvasW  int
	canvasH  int
	detailW  int
	detailH  int
	split    bool // detail right of the canvas rather than below it
}

func (m Model) bodyHeight() int {
	h := m.height - 2 // header + footer
	if h < 4 {
		h = 4
	}
	return h
}

// panes computes outer sizes including borders.
func (m Model) panes() panes {
	var p panes
	w := m.width
	if m.SidebarVisible() {
		p.sidebarW = SidebarWidth
		w -= SidebarWidth
	}
	body := m.bodyHeight()
	if m.width >= SplitViewThreshold {
		p.split = true
		p.detailW = w * 2 / 5
		if p.detailW < MinDetailPaneWidth {
			p.detailW = MinDetailPaneWidth
		}
		p.canvasW = w - p.detailW
		p.canvasH = body
		p.detailH = body
		return p
	}
	p.canvasW = w
	p.detailW = w
	p.canvasH = body * 3 / 5
	p.detailH = body - p.canvasH
	return p
}

func (m *Model) layout() {
	p := m.panes()
	m.detail.SetSize(p.detailW-2, p.detailH-2)
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEW
// ══════════════════════════════════════════════════════════════════════════════

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	if m.showHelp {
		body = m.renderHelpOverlay()
	} else {
		body = m.renderBody()
	}

	out := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
	lines := strings.Split(out, "\n")
	if len(lines) > m.height && m.height > 0 {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader() string {
	t := m.theme
	ds := m.session.Dataset()
	title := fmt.Sprintf("Roadmap · %s", ds.RoleLabel(m.session.Role()))
	mode := m.session.Mode().String()
	right := mode
	if m.session.Touring() {
		right = "▶ touring · " + mode
	}
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return t.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + right)
}

func (m Model) renderBody() string {
	p := m.panes()
	t := m.theme

	canvasStyle := PanelStyle
	detailStyle := PanelStyle
	if m.focused == focusDetail {
		detailStyle = FocusedPanelStyle
	} else {
		canvasStyle = FocusedPanelStyle
	}

	canvas := NewCanvas(m.session.Scene(), max(p.canvasW-2, 1), max(p.canvasH-2, 1))
	canvasView := canvasStyle.
		Width(p.canvasW - 2).
		Height(p.canvasH - 2).
		Render(canvas.Render(t))

	detailView := detailStyle.
		Width(p.detailW - 2).
		Height(p.detailH - 2).
		Render(m.detail.View())

	var main string
	if p.split {
		main = lipgloss.JoinHorizontal(lipgloss.Top, canvasView, detailView)
	} else {
		main = lipgloss.JoinVertical(lipgloss.Left, canvasView, detailView)
	}
	if p.sidebarW == 0 {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(p.sidebarW, m.bodyHeight()), main)
}

func (m Model) renderSidebar(width, height int) string {
	t := m.theme
	inner := width - 4
	var sb strings.Builder
	sb.WriteString(t.PrimaryBold.Render("Roles"))
	sb.WriteString("\n")

	current := m.session.Role()
	for i, r := range m.roles() {
		key := " "
		switch {
		case i < 9:
			key = fmt.Sprintf("%d", i+1)
		case i == 9:
			key = "0"
		}
		line := truncate(fmt.Sprintf("%s %s", key, r.Label), inner)
		if r.ID == current {
			sb.WriteString(t.LabelSelected.Render("▸ " + truncate(line, inner-2)))
		} else {
			sb.WriteString(t.MutedText.Render("  " + truncate(line, inner-2)))
		}
		sb.WriteString("\n")
	}

	g := m.session.Graph()
	counts := g.StatusCounts()
	total := len(g.Nodes)
	sb.WriteString(RenderDivider(inner))
	sb.WriteString("\n")
	sb.WriteString(t.PrimaryBold.Render("Progress"))
	sb.WriteString("\n")
	done := 0.0
	if total > 0 {
		done = float64(counts[roadmap.StatusCompleted]) / float64(total)
	}
	sb.WriteString(RenderProgressBar(done, inner, t))
	sb.WriteString("\n")
	for _, s := range []roadmap.Status{roadmap.StatusCompleted, roadmap.StatusActive, roadmap.StatusPending, roadmap.StatusLocked} {
		glyph := t.Renderer.NewStyle().Foreground(t.StatusColor(s)).Render(string(StatusGlyph(s)))
		sb.WriteString(fmt.Sprintf("%s %s %d\n", glyph, padRight(StatusLabel(s), inner-6), counts[s]))
	}

	return PanelStyle.
		Width(width - 2).
		Height(height - 2).
		Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) renderFooter() string {
	t := m.theme
	if m.statusMsg != "" {
		style := t.MutedText
		if m.statusIsError {
			style = t.Renderer.NewStyle().Foreground(ColorDanger).Bold(true)
		}
		return style.Width(m.width).Render(truncate(m.statusMsg, m.width))
	}

	var hint string
	switch {
	case m.showHelp:
		hint = "? / esc close help"
	case m.focused == focusDetail:
		hint = "↑/↓ scroll · esc back · q quit"
	default:
		hint = "j/k move · space tour · t layout · [ ] role · enter detail · ? help · q quit"
	}
	pos := ""
	if i := m.session.SelectedIndex(); i >= 0 {
		pos = fmt.Sprintf(" %d/%d ", i+1, len(m.session.Graph().Nodes))
	}
	gap := m.width - lipgloss.Width(hint) - lipgloss.Width(pos)
	if gap < 1 {
		return t.MutedText.Render(truncate(hint, m.width))
	}
	return t.MutedText.Render(hint + strings.Repeat(" ", gap) + pos)
}

func (m Model) renderHelpOverlay() string {
	t := m.theme

	colors := []lipgloss.AdaptiveColor{
		{Light: "#7D56F4", Dark: "#BD93F9"}, // Purple
		{Light: "#FF79C6", Dark: "#FF79C6"}, // Pink
		{Light: "#8BE9FD", Dark: "#8BE9FD"}, // Cyan
	}
	colWidth := 36

	renderPanel := func(title string, colorIdx int, shortcuts []struct{ key, desc string }) string {
		color := colors[colorIdx%len(colors)]

		headerStyle := t.Renderer.NewStyle().
			Foreground(color).
			Bold(true).
			BorderStyle(lipgloss.Border{Bottom: "─"}).
			BorderBottom(true).
			BorderForeground(color).
			Width(colWidth-4).
			Padding(0, 1)
		keyStyle := t.Renderer.NewStyle().Foreground(color).Bold(true).Width(10)
		descStyle := t.Renderer.NewStyle().Foreground(t.Base.GetForeground()).Width(colWidth - 16)

		var content strings.Builder
		content.WriteString(headerStyle.Render(title))
		content.WriteString("\n")
		for _, s := range shortcuts {
			content.WriteString(keyStyle.Render(s.key))
			content.WriteString(descStyle.Render(s.desc))
			content.WriteString("\n")
		}
		return t.Renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1).
			Width(colWidth).
			Render(content.String())
	}

	navSection := []struct{ key, desc string }{
		{"j / ↓", "Next stage"},
		{"k / ↑", "Previous stage"},
		{"g / G", "First / last stage"},
		{"Enter", "Focus details"},
		{"Esc", "Clear / back"},
	}
	tourSection := []struct{ key, desc string }{
		{"Space / p", "Start or stop tour"},
		{"t", "Tree / timeline"},
		{"[ / ]", "Previous / next role"},
		{"1-9, 0", "Jump to role"},
	}
	globalSection := []struct{ key, desc string }{
		{"y", "Copy details"},
		{"b", "Toggle sidebar"},
		{"r", "Reload dataset"},
		{"?", "This help"},
		{"q", "Quit"},
	}

	panels := []string{
		renderPanel("Navigation", 0, navSection),
		renderPanel("Tour & Roles", 1, tourSection),
		renderPanel("General", 2, globalSection),
	}
	var grid string
	if m.width >= 3*(colWidth+2) {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	} else {
		grid = lipgloss.JoinVertical(lipgloss.Left, panels...)
	}
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Top, grid)
}
