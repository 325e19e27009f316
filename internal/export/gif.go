package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"log/slog"

	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/render"
	"github.com/san-kum/fractsim/internal/viewport"
	"golang.org/x/image/draw"
)

var ErrNoFrames = errors.New("export: no frames to encode")

// ZoomOptions describes a zoom animation toward the center of View.
type ZoomOptions struct {
	Params        fractal.Params
	View          viewport.Viewport
	Width, Height int
	Frames        int
	// Factor scales the extent between frames; below 1 zooms in.
	Factor float64
	Logger *slog.Logger
}

// ZoomAbout scales v by factor while keeping its center fixed.
func ZoomAbout(v *viewport.Viewport, factor float64) {
	v.Zoom(factor)
	d := (1 - factor) / (2 * factor)
	v.Pan(d, d)
}

// ZoomFrames renders opts.Frames frames, the first at opts.View.
func ZoomFrames(opts ZoomOptions) ([]*image.RGBA, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if opts.Frames <= 0 {
		return nil, fmt.Errorf("%w: frame count %d", ErrNoFrames, opts.Frames)
	}
	if !(opts.Factor > 0) {
		return nil, fmt.Errorf("export: zoom factor must be positive, got %g", opts.Factor)
	}
	grid, err := render.NewPixelGrid(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := render.New()
	view := opts.View
	frames := make([]*image.RGBA, 0, opts.Frames)
	for i := 0; i < opts.Frames; i++ {
		stats := r.Render(grid, view, opts.Params)
		frames = append(frames, grid.Image())
		logger.Debug("zoom frame", "frame", i, "view", view.String(), "elapsed", stats.Elapsed)
		ZoomAbout(&view, opts.Factor)
	}
	return frames, nil
}

// Palette returns the exact colors of img when there are at most 256 of
// them, otherwise the Plan 9 palette. A fractal frame never has more than
// 256 distinct colors.
func Palette(img image.Image) color.Palette {
	seen := make(map[color.RGBA]struct{})
	pal := make(color.Palette, 0, 256)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == 256 {
				return palette.Plan9
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal
}

// Paletted converts img to its palette image.
func Paletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, Palette(img))
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}

// WriteGIF encodes frames as a looping animation. delay is in 100ths of a second.
func WriteGIF(w io.Writer, frames []*image.RGBA, delay int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, Paletted(frame))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
