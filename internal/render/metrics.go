package render

import "github.com/san-kum/fractsim/internal/fractal"

// Coverage is the fraction of pixels classified Bounded.
type Coverage struct {
	bounded, total int
}

func NewCoverage() *Coverage { return &Coverage{} }

func (c *Coverage) Name() string { return "coverage" }

func (c *Coverage) Observe(px, py int, r fractal.EscapeResult) {
	c.total++
	if r.IsBounded() {
		c.bounded++
	}
}

func (c *Coverage) Value() float64 {
	if c.total == 0 {
		return 0
	}
	return float64(c.bounded) / float64(c.total)
}

func (c *Coverage) Reset() { c.bounded, c.total = 0, 0 }

// MeanEscape is the average escape step over escaped pixels.
type MeanEscape struct {
	sum, count int
}

func NewMeanEscape() *MeanEscape { return &MeanEscape{} }

func (m *MeanEscape) Name() string { return "mean_escape" }

func (m *MeanEscape) Observe(px, py int, r fractal.EscapeResult) {
	if i, ok := r.Iterations(); ok {
		m.sum += i
		m.count++
	}
}

func (m *MeanEscape) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.count)
}

func (m *MeanEscape) Reset() { m.sum, m.count = 0, 0 }

// DefaultMetrics returns the metrics attached to every session renderer.
func DefaultMetrics() []Metric {
	return []Metric{NewCoverage(), NewMeanEscape()}
}
