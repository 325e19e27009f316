package render

import "github.com/san-kum/fractsim/internal/fractal"

// Histogram counts escaped pixels per escape step.
type Histogram struct {
	Counts  []int
	Bounded int
}

func NewHistogram() *Histogram {
	return &Histogram{Counts: make([]int, 0, fractal.MaxIter)}
}

func (h *Histogram) OnPixel(px, py int, r fractal.EscapeResult) {
	i, ok := r.Iterations()
	if !ok {
		h.Bounded++
		return
	}
	for len(h.Counts) <= i {
		h.Counts = append(h.Counts, 0)
	}
	h.Counts[i]++
}

func (h *Histogram) Reset() {
	h.Counts = h.Counts[:0]
	h.Bounded = 0
}

// Snapshot returns a copy of the counts as floats, for plotting and storage.
func (h *Histogram) Snapshot() []float64 {
	out := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		out[i] = float64(c)
	}
	return out
}
