package fractal

import "math/cmplx"

// Mandelbrot iterates z <- z² + p from z = 0.
type Mandelbrot struct{}

// Classify rejects |p| > 2 as Escaped(0) before iterating. The true escape
// step may differ; the rendered palette depends on this shortcut.
func (Mandelbrot) Classify(p complex128, maxIter int) EscapeResult {
	if cmplx.Abs(p) > EscapeRadius {
		return Escaped(0)
	}
	var v complex128
	for i := 0; i < maxIter; i++ {
		v = v*v + p
		if escaped(v) {
			return Escaped(i)
		}
	}
	return Bounded()
}
