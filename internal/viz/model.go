package viz

import (
	"fmt"
	"image"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fractsim/internal/config"
	"github.com/san-kum/fractsim/internal/session"
	"github.com/san-kum/fractsim/internal/viewport"
)

const (
	width      = 80
	height     = 24
	statsWidth = 40
)

type viewMode int

const (
	modeColor viewMode = iota
	modeMembership
)

func (v viewMode) String() string {
	if v == modeMembership {
		return "membership"
	}
	return "color"
}

type frameMsg struct{}

// Model is the live terminal view of one session.
type Model struct {
	sess          *session.Session
	title         string
	home          viewport.Viewport
	mode          viewMode
	width, height int
	frame         string
	showHelp      bool
	recording     bool
	recorded      []*image.RGBA
	presets       []entry
	preset        int
	err           error
}

// NewModel shows s. A title of the form kind/name positions the preset
// cycle on that preset.
func NewModel(s *session.Session, title string) Model {
	m := Model{
		sess:    s,
		title:   title,
		home:    s.View,
		width:   width,
		height:  height,
		presets: presetEntries(),
		preset:  -1,
	}
	for i, e := range m.presets {
		if e.String() == title {
			m.preset = i
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return frameMsg{} }
}

// Update maps keys onto session commands and re-renders when the view moved.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "m":
			if m.mode == modeColor {
				m.mode = modeMembership
			} else {
				m.mode = modeColor
			}
			m.redraw()
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
			m.redraw()
		case "g":
			m.recording = !m.recording
			if m.recording {
				m.recorded = []*image.RGBA{m.sess.Snapshot()}
			}
		case "r":
			m.sess.SetView(m.home)
			m.refresh()
		case "n":
			m.err = m.nextPreset()
			m.refresh()
		default:
			cmd, ok := session.ParseCommand(msg.String())
			if !ok {
				return m, nil
			}
			m.sess.Apply(cmd)
			if !m.sess.Running {
				return m, tea.Quit
			}
			m.refresh()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.redraw()
	case frameMsg:
		m.refresh()
	}
	return m, nil
}

// nextPreset swaps the session to the following preset, keeping the grid.
func (m *Model) nextPreset() error {
	if len(m.presets) == 0 {
		return nil
	}
	m.preset = (m.preset + 1) % len(m.presets)
	e := m.presets[m.preset]
	cfg := config.GetPreset(e.kind, e.preset)

	params, err := cfg.Params()
	if err != nil {
		return err
	}
	view, err := cfg.View()
	if err != nil {
		return err
	}
	if err := m.sess.SetParams(params); err != nil {
		return err
	}
	if err := m.sess.SetView(view); err != nil {
		return err
	}
	m.home = view
	m.title = e.String()
	return nil
}

func (m *Model) refresh() {
	if _, rendered := m.sess.RenderIfDirty(); !rendered && m.frame != "" {
		return
	}
	m.redraw()
	if m.recording {
		m.recorded = append(m.recorded, m.sess.Snapshot())
	}
}

func (m *Model) redraw() {
	if m.sess.Frames() == 0 {
		return
	}
	cols, rows := m.canvasSize()
	img := m.sess.Snapshot()
	if m.mode == modeColor {
		m.frame = HalfBlocks(img, cols, rows)
		return
	}
	canvas := NewCanvas(cols, rows)
	canvas.Plot(img)
	canvas.Crosshair(4)
	m.frame = lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(canvas.String())
}

func (m Model) canvasSize() (int, int) {
	cols := m.width - statsWidth - 4
	if cols < 10 {
		cols = 10
	}
	rows := m.height - 1
	if rows < 5 {
		rows = 5
	}
	return cols, rows
}

// Recorded returns the frames captured while recording was on.
func (m Model) Recorded() []*image.RGBA { return m.recorded }

func (m Model) View() string {
	stats := m.sess.LastStats()
	var s strings.Builder

	s.WriteString(GradientText(strings.ToUpper(m.title), CurrentTheme.Primary, CurrentTheme.Accent) + "\n")
	status := m.mode.String()
	if m.recording {
		status += "  " + StatusRecording.Render(fmt.Sprintf("REC %d", len(m.recorded)))
	}
	if m.err != nil {
		status += "  " + StatusRecording.Render(m.err.Error())
	}
	s.WriteString(status + "\n\n")

	cx, cy := m.sess.View.Center()
	s.WriteString(labelStyle.Render("Center") + valueStyle.Render(fmt.Sprintf("%.6g%+.6gi", cx, cy)) + "\n")
	s.WriteString(labelStyle.Render("Extent") + valueStyle.Render(fmt.Sprintf("%.4g x %.4g", m.sess.View.W, m.sess.View.H)) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.3gx", m.home.W/m.sess.View.W)) + "\n")
	s.WriteString(labelStyle.Render("Fractal") + valueStyle.Render(m.sess.Params.String()) + "\n")
	s.WriteString(labelStyle.Render("Grid") + valueStyle.Render(fmt.Sprintf("%dx%d", m.sess.Grid.Width, m.sess.Grid.Height)) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("#%d in %s", m.sess.Frames(), stats.Elapsed.Round(1e5))) + "\n")

	coverage := stats.Metrics["coverage"]
	s.WriteString(labelStyle.Render("Bounded") + ProgressBar(coverage, 14) + valueStyle.Render(fmt.Sprintf(" %.1f%%", coverage*100)) + "\n")
	s.WriteString(labelStyle.Render("Mean esc") + valueStyle.Render(fmt.Sprintf("%.2f", stats.Metrics["mean_escape"])) + "\n")

	if hist := m.sess.Histogram().Snapshot(); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(statsWidth-12), asciigraph.Caption("escape steps"))
		s.WriteString(graphStyle.Render(chart) + "\n")
		s.WriteString(SparklineChart(hist, statsWidth-6) + "\n")
	}

	s.WriteString(helpStyle.Foreground(CurrentTheme.Muted).Render("─────────────────────\n+/-:Zoom ←↑↓→:Pan Q:Quit\nM:Mode R:Reset N:Preset G:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.frame), statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  + / =     - Zoom in                 ║
║  -         - Zoom out                ║
║  Arrows    - Pan (or h/j/k/l)        ║
║  M         - Color / membership view ║
║  R         - Reset the view          ║
║  N         - Next preset             ║
║  T         - Cycle themes            ║
║  G         - Toggle GIF recording    ║
║  Q         - Quit                    ║
║  ?         - Toggle this help        ║
╚══════════════════════════════════════╝
`

// Run shows s until the user quits and returns the final model.
func Run(s *session.Session, title string) (Model, error) {
	final, err := tea.NewProgram(NewModel(s, title), tea.WithAltScreen()).Run()
	if err != nil {
		return Model{}, err
	}
	return final.(Model), nil
}
