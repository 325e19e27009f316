// Package render drives an escape-time evaluator over a pixel grid.
//
// A [Renderer] walks every pixel of a [PixelGrid], maps it to the complex
// plane through a viewport, classifies it and writes the packed color given
// by [Colorize]. Rendering is sequential and always overwrites the whole
// grid.
//
// Packed colors use a fixed channel order: bits 0-7 red, 8-15 green,
// 16-23 blue, 24-31 alpha. In memory this is the byte order of
// image.RGBA, which [PixelGrid.Image] relies on.
//
// # Hooks
//
// Observers see every classified pixel; metrics reduce a render to a scalar:
//
//	r := render.New()
//	hist := render.NewHistogram()
//	r.AddObserver(hist)
//	r.AddMetric(render.NewCoverage())
//	stats := r.Render(grid, view, params)
package render
