// Package viewport maps a pixel grid onto a rectangle of the complex plane.
package viewport

import (
	"errors"
	"fmt"
)

var ErrInvalidSize = errors.New("viewport: width and height must be positive")

// Viewport is the visible rectangle; (X, Y) is the plane point under pixel (0, 0).
type Viewport struct {
	X, Y float64
	W, H float64
}

// Default is the rectangle shown at startup.
func Default() Viewport {
	return Viewport{X: -2, Y: -1, W: 3, H: 2}
}

func New(x, y, w, h float64) (Viewport, error) {
	if !(w > 0) || !(h > 0) {
		return Viewport{}, fmt.Errorf("%w, got %gx%g", ErrInvalidSize, w, h)
	}
	return Viewport{X: x, Y: y, W: w, H: h}, nil
}

// MapPixelToPlane returns the plane coordinates of pixel (px, py) on a
// gridWidth x gridHeight grid.
func (v Viewport) MapPixelToPlane(px, py, gridWidth, gridHeight int) (float64, float64) {
	x := v.X + float64(px)/float64(gridWidth)*v.W
	y := v.Y + float64(py)/float64(gridHeight)*v.H
	return x, y
}

// Zoom scales the extent in place. factor < 1 zooms in. Unbounded.
func (v *Viewport) Zoom(factor float64) {
	v.W *= factor
	v.H *= factor
}

// Pan moves the origin by a fraction of the current extent, so the step
// shrinks as the view zooms in.
func (v *Viewport) Pan(dxFraction, dyFraction float64) {
	v.X += dxFraction * v.W
	v.Y += dyFraction * v.H
}

func (v Viewport) Center() (float64, float64) {
	return v.X + v.W/2, v.Y + v.H/2
}

func (v Viewport) Bounds() (xmin, xmax, ymin, ymax float64) {
	return v.X, v.X + v.W, v.Y, v.Y + v.H
}

func (v Viewport) String() string {
	return fmt.Sprintf("x=%.6g y=%.6g w=%.6g h=%.6g", v.X, v.Y, v.W, v.H)
}
