package render

import (
	"testing"

	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/viewport"
)

func TestRender_MatchesEvaluator(t *testing.T) {
	for _, params := range []fractal.Params{fractal.DefaultMandelbrot(), fractal.DefaultJulia()} {
		g, _ := NewPixelGrid(32, 15)
		view := viewport.Default()
		eval := params.Evaluator()

		New().Render(g, view, params)

		for px := 0; px < g.Width; px++ {
			for py := 0; py < g.Height; py++ {
				x, y := view.MapPixelToPlane(px, py, g.Width, g.Height)
				want := Colorize(eval.Classify(complex(x, y), params.MaxIter), params.MaxIter)
				if got := g.At(px, py); got != want {
					t.Fatalf("%s: pixel (%d,%d) = %#08x, want %#08x", params, px, py, got, want)
				}
			}
		}
	}
}

func TestRender_OverwritesWholeGrid(t *testing.T) {
	g, _ := NewPixelGrid(20, 10)
	g.Fill(0x12345678)

	New().Render(g, viewport.Default(), fractal.DefaultMandelbrot())

	for i, c := range g.Pixels() {
		if c>>24 != 0xff {
			t.Fatalf("pixel %d not overwritten: %#08x", i, c)
		}
	}
}

func TestRender_JuliaCornerScenario(t *testing.T) {
	g, _ := NewPixelGrid(1280, 1)
	New().Render(g, viewport.Viewport{X: -2, Y: -1, W: 3, H: 2}, fractal.DefaultJulia())

	// (-2,-1) escapes on the first step: Escaped(0) is opaque black.
	if got := g.At(0, 0); got != Black {
		t.Errorf("pixel (0,0) = %#08x, want black", got)
	}
}

func TestRender_MandelbrotOriginIsWhite(t *testing.T) {
	g, _ := NewPixelGrid(3, 3)
	view := viewport.Viewport{X: -0.1, Y: -0.1, W: 0.3, H: 0.3}
	New().Render(g, view, fractal.DefaultMandelbrot())

	// pixel (1,1) maps to the origin
	if got := g.At(1, 1); got != White {
		t.Errorf("origin pixel = %#08x, want white", got)
	}
}

func TestRender_Stats(t *testing.T) {
	g, _ := NewPixelGrid(40, 20)
	r := New()
	hist := NewHistogram()
	r.AddObserver(hist)
	for _, m := range DefaultMetrics() {
		r.AddMetric(m)
	}

	stats := r.Render(g, viewport.Default(), fractal.DefaultMandelbrot())

	if stats.Bounded+stats.Escaped != stats.Pixels() {
		t.Errorf("bounded %d + escaped %d != %d", stats.Bounded, stats.Escaped, stats.Pixels())
	}
	if stats.Bounded == 0 || stats.Escaped == 0 {
		t.Errorf("default view should contain both classes: %+v", stats)
	}
	if hist.Bounded != stats.Bounded {
		t.Errorf("histogram bounded %d, stats %d", hist.Bounded, stats.Bounded)
	}

	sum := 0
	for _, c := range hist.Counts {
		sum += c
	}
	if sum != stats.Escaped {
		t.Errorf("histogram escaped %d, stats %d", sum, stats.Escaped)
	}

	cov, ok := stats.Metrics["coverage"]
	if !ok {
		t.Fatal("coverage metric missing")
	}
	want := float64(stats.Bounded) / float64(stats.Pixels())
	if cov != want {
		t.Errorf("coverage = %f, want %f", cov, want)
	}
	if _, ok := stats.Metrics["mean_escape"]; !ok {
		t.Error("mean_escape metric missing")
	}
}

func TestRender_ResetsObserversBetweenPasses(t *testing.T) {
	g, _ := NewPixelGrid(10, 10)
	r := New()
	hist := NewHistogram()
	r.AddObserver(hist)

	first := r.Render(g, viewport.Default(), fractal.DefaultMandelbrot())
	r.Render(g, viewport.Default(), fractal.DefaultMandelbrot())

	if hist.Bounded != first.Bounded {
		t.Errorf("histogram accumulated across renders: %d vs %d", hist.Bounded, first.Bounded)
	}
}

func BenchmarkRender(b *testing.B) {
	g, _ := NewPixelGrid(128, 60)
	r := New()
	view := viewport.Default()
	params := fractal.DefaultJulia()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Render(g, view, params)
	}
}
