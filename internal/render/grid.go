package render

import (
	"errors"
	"fmt"
	"image"
)

var ErrInvalidSize = errors.New("render: grid dimensions must be positive")

// PixelGrid is a fixed-size buffer of packed 32-bit colors, row-major.
type PixelGrid struct {
	Width, Height int
	pix           []uint32
}

func NewPixelGrid(width, height int) (*PixelGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w, got %dx%d", ErrInvalidSize, width, height)
	}
	return &PixelGrid{
		Width:  width,
		Height: height,
		pix:    make([]uint32, width*height),
	}, nil
}

func (g *PixelGrid) Set(x, y int, c uint32) {
	g.pix[y*g.Width+x] = c
}

func (g *PixelGrid) At(x, y int) uint32 {
	return g.pix[y*g.Width+x]
}

// Pixels exposes the backing slice. Callers outside the renderer must not write to it.
func (g *PixelGrid) Pixels() []uint32 { return g.pix }

func (g *PixelGrid) Fill(c uint32) {
	for i := range g.pix {
		g.pix[i] = c
	}
}

// Image copies the grid into a new RGBA image.
func (g *PixelGrid) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, c := range g.pix {
		o := i * 4
		img.Pix[o] = uint8(c)
		img.Pix[o+1] = uint8(c >> 8)
		img.Pix[o+2] = uint8(c >> 16)
		img.Pix[o+3] = uint8(c >> 24)
	}
	return img
}
