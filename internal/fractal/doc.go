// Package fractal provides escape-time evaluation for Mandelbrot and Julia sets.
//
// The package defines the classification primitives used by the renderer:
//
//   - [EscapeResult]: Bounded or Escaped(i) outcome of one orbit
//   - [Evaluator]: interface classifying a plane point under a budget
//   - [Mandelbrot]: z <- z² + p from z = 0, with the |p| > 2 pre-check
//   - [Julia]: z <- z^n + c from z = p, no pre-check
//   - [Params]: tagged variant selecting the evaluator for a render
//
// # Example
//
//	params := fractal.DefaultJulia()
//	eval := params.Evaluator()
//	res := eval.Classify(complex(-2, -1), params.MaxIter)
//	if i, ok := res.Iterations(); ok {
//	    // escaped after i steps
//	}
//
// Evaluators are stateless values and safe to share.
package fractal
