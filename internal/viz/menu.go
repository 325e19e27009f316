package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/fractsim/internal/config"
	"github.com/san-kum/fractsim/internal/session"
)

var kindInfo = map[string]string{
	"mandelbrot": "z -> z^2 + p",
	"julia":      "z -> z^n + c",
}

type entry struct {
	kind, preset string
}

func (e entry) String() string { return e.kind + "/" + e.preset }

// App is the preset picker shown before a live view.
type App struct {
	entries       []entry
	cursor        int
	live          *Model
	err           error
	width, height int
	gridW, gridH  int
	log           *slog.Logger
}

// NewApp lists every preset. A non-zero grid size overrides the presets'.
func NewApp(logger *slog.Logger, gridW, gridH int) App {
	return App{entries: presetEntries(), width: width, height: height, gridW: gridW, gridH: gridH, log: logger}
}

func presetEntries() []entry {
	entries := make([]entry, 0)
	for _, kind := range []string{"mandelbrot", "julia"} {
		for _, name := range config.ListPresets(kind) {
			entries = append(entries, entry{kind: kind, preset: name})
		}
	}
	return entries
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		a.width, a.height = size.Width, size.Height
	}
	if a.live != nil {
		next, cmd := a.live.Update(msg)
		live := next.(Model)
		a.live = &live
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.entries)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a.start()
	}
	return a, nil
}

func (a App) start() (tea.Model, tea.Cmd) {
	e := a.entries[a.cursor]
	cfg := config.GetPreset(e.kind, e.preset)
	if a.gridW > 0 {
		cfg.Grid.Width = a.gridW
	}
	if a.gridH > 0 {
		cfg.Grid.Height = a.gridH
	}

	opts, err := cfg.SessionOptions(a.log)
	if err != nil {
		a.err = err
		return a, nil
	}
	s, err := session.New(opts)
	if err != nil {
		a.err = err
		return a, nil
	}

	live := NewModel(s, e.String())
	next, _ := live.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	live = next.(Model)
	a.live = &live
	return a, live.Init()
}

func (a App) View() string {
	if a.live != nil {
		return a.live.View()
	}

	var b strings.Builder
	h, sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true), lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	b.WriteString("\n\n    " + h.Render("FRACTSIM") + "\n    " + sub.Render("escape-time fractal explorer") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, e := range a.entries {
		desc := kindInfo[e.kind]
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true).Render("▸"), lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Render(fmt.Sprintf("%-28s", e)), lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", lipgloss.NewStyle().Foreground(lipgloss.Color("#555566")).Render(fmt.Sprintf("  %-28s", e)), lipgloss.NewStyle().Foreground(lipgloss.Color("#444455")).Render(desc)))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(a.err.Error()) + "\n")
	}
	key, hint := lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true), lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	b.WriteString("\n    " + key.Render("j/k") + hint.Render(" navigate  ") + key.Render("enter") + hint.Render(" select  ") + key.Render("q") + hint.Render(" quit") + "\n")
	return b.String()
}

func RunInteractive(logger *slog.Logger, gridW, gridH int) error {
	_, err := tea.NewProgram(NewApp(logger, gridW, gridH), tea.WithAltScreen()).Run()
	return err
}
