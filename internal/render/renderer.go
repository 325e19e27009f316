package render

import (
	"time"

	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/viewport"
)

type Observer interface {
	OnPixel(px, py int, r fractal.EscapeResult)
}

type Metric interface {
	Name() string
	Observe(px, py int, r fractal.EscapeResult)
	Value() float64
	Reset()
}

// Stats summarizes one render pass.
type Stats struct {
	Width, Height int
	Bounded       int
	Escaped       int
	Elapsed       time.Duration
	Metrics       map[string]float64
}

func (s Stats) Pixels() int { return s.Width * s.Height }

type Renderer struct {
	metrics   []Metric
	observers []Observer
}

func New() *Renderer {
	return &Renderer{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Renderer) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Renderer) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Render overwrites every pixel of grid with the fractal seen through view.
// It runs to completion; there is no cancellation.
func (r *Renderer) Render(grid *PixelGrid, view viewport.Viewport, params fractal.Params) Stats {
	start := time.Now()
	stats := Stats{
		Width:   grid.Width,
		Height:  grid.Height,
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}
	for _, o := range r.observers {
		if rs, ok := o.(interface{ Reset() }); ok {
			rs.Reset()
		}
	}

	eval := params.Evaluator()
	maxIter := params.MaxIter

	for px := 0; px < grid.Width; px++ {
		for py := 0; py < grid.Height; py++ {
			x, y := view.MapPixelToPlane(px, py, grid.Width, grid.Height)
			res := eval.Classify(complex(x, y), maxIter)

			if res.IsBounded() {
				stats.Bounded++
			} else {
				stats.Escaped++
			}
			for _, m := range r.metrics {
				m.Observe(px, py, res)
			}
			for _, o := range r.observers {
				o.OnPixel(px, py, res)
			}

			grid.Set(px, py, Colorize(res, maxIter))
		}
	}

	for _, m := range r.metrics {
		stats.Metrics[m.Name()] = m.Value()
	}
	stats.Elapsed = time.Since(start)

	return stats
}
