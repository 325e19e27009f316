package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(statsWidth)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))

	StatusRecording = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444")).
			Blink(true)
)

// GradientText colors each rune of text along a Lab blend between two hex colors.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	start, err := colorful.Hex(string(startColor))
	if err != nil {
		return text
	}
	end, err := colorful.Hex(string(endColor))
	if err != nil {
		return text
	}

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		col := start.BlendLab(end, t).Clamped()
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex()))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

// ProgressBar renders a fraction in [0, 1] as a colored bar.
func ProgressBar(frac float64, width int) string {
	filled := min(max(int(frac*float64(width)), 0), width)
	return levelStyle(frac).Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

func levelStyle(frac float64) lipgloss.Style {
	switch {
	case frac > 0.7:
		return SparkHigh
	case frac > 0.3:
		return SparkMid
	default:
		return SparkLow
	}
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// SparklineChart draws values in width columns. Each column shows the
// largest value of its bucket so narrow histogram peaks survive.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	cols := make([]float64, min(width, len(values)))
	for c := range cols {
		cols[c] = math.Inf(-1)
	}
	for i, v := range values {
		c := i * len(cols) / len(values)
		cols[c] = max(cols[c], v)
	}

	lo, hi := cols[0], cols[0]
	for _, v := range cols {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range cols {
		frac := (v - lo) / span
		idx := min(int(frac*float64(len(sparkRunes)-1)), len(sparkRunes)-1)
		b.WriteString(levelStyle(frac).Render(string(sparkRunes[idx])))
	}
	return b.String()
}
