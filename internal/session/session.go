// Package session holds the render-loop context shared by the viewers.
//
// A Session owns the viewport, the fractal parameters and the pixel grid,
// and tracks whether the view changed since the last render. Viewers feed
// it commands and call RenderIfDirty on every refresh; the grid is only
// recomputed when a command actually moved the view.
//
// A Session is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/render"
	"github.com/san-kum/fractsim/internal/viewport"
)

// Controls sets how far one command moves the view.
type Controls struct {
	ZoomIn  float64
	ZoomOut float64
	PanStep float64
}

// ErrInvalidControls indicates a zoom factor or pan step that is not a
// positive finite number.
var ErrInvalidControls = errors.New("session: controls must be positive")

func DefaultControls() Controls {
	return Controls{ZoomIn: 0.8, ZoomOut: 1.25, PanStep: 0.1}
}

// Validate rejects factors that would collapse or flip the view.
func (c Controls) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"zoom_in", c.ZoomIn}, {"zoom_out", c.ZoomOut}, {"pan_step", c.PanStep}} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidControls, f.name, f.v)
		}
	}
	return nil
}

// withDefaults fills unset fields from DefaultControls.
func (c Controls) withDefaults() Controls {
	d := DefaultControls()
	if c.ZoomIn == 0 {
		c.ZoomIn = d.ZoomIn
	}
	if c.ZoomOut == 0 {
		c.ZoomOut = d.ZoomOut
	}
	if c.PanStep == 0 {
		c.PanStep = d.PanStep
	}
	return c
}

type Options struct {
	View     viewport.Viewport
	Params   fractal.Params
	Width    int
	Height   int
	Controls Controls
	Logger   *slog.Logger
}

type Session struct {
	View     viewport.Viewport
	Params   fractal.Params
	Grid     *render.PixelGrid
	Controls Controls

	// Dirty is set by every command that moved the view and cleared by a render.
	Dirty   bool
	Running bool

	renderer *render.Renderer
	hist     *render.Histogram
	last     render.Stats
	frames   int
	log      *slog.Logger
}

func New(opts Options) (*Session, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if _, err := viewport.New(opts.View.X, opts.View.Y, opts.View.W, opts.View.H); err != nil {
		return nil, err
	}
	grid, err := render.NewPixelGrid(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	controls := opts.Controls.withDefaults()
	if err := controls.Validate(); err != nil {
		return nil, err
	}

	r := render.New()
	hist := render.NewHistogram()
	r.AddObserver(hist)
	for _, m := range render.DefaultMetrics() {
		r.AddMetric(m)
	}

	return &Session{
		View:     opts.View,
		Params:   opts.Params,
		Grid:     grid,
		Controls: controls,
		Dirty:    true,
		Running:  true,
		renderer: r,
		hist:     hist,
		log:      logger,
	}, nil
}

// Apply performs the view mutation for cmd and reports whether the view
// is now dirty. Quit stops the loop without touching the view; None and
// unknown commands are ignored.
func (s *Session) Apply(cmd Command) bool {
	switch cmd {
	case ZoomIn:
		s.View.Zoom(s.Controls.ZoomIn)
	case ZoomOut:
		s.View.Zoom(s.Controls.ZoomOut)
	case PanLeft:
		s.View.Pan(-s.Controls.PanStep, 0)
	case PanRight:
		s.View.Pan(s.Controls.PanStep, 0)
	case PanUp:
		s.View.Pan(0, -s.Controls.PanStep)
	case PanDown:
		s.View.Pan(0, s.Controls.PanStep)
	case Quit:
		s.Running = false
		return false
	default:
		return false
	}
	s.Dirty = true
	s.log.Debug("view changed", "command", cmd.String(), "view", s.View.String())
	return true
}

// RenderIfDirty renders only when the view changed since the last render.
func (s *Session) RenderIfDirty() (render.Stats, bool) {
	if !s.Dirty {
		return s.last, false
	}
	return s.Render(), true
}

// Render recomputes the whole grid unconditionally and clears Dirty.
func (s *Session) Render() render.Stats {
	s.last = s.renderer.Render(s.Grid, s.View, s.Params)
	s.Dirty = false
	s.frames++
	s.log.Info("rendered frame",
		"frame", s.frames,
		"fractal", s.Params.Kind.String(),
		"size", fmt.Sprintf("%dx%d", s.Grid.Width, s.Grid.Height),
		"bounded", s.last.Bounded,
		"elapsed", s.last.Elapsed,
	)
	return s.last
}

// SetParams swaps the fractal and marks the view dirty.
func (s *Session) SetParams(p fractal.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.Params = p
	s.Dirty = true
	return nil
}

// SetView replaces the viewport and marks it dirty.
func (s *Session) SetView(v viewport.Viewport) error {
	if _, err := viewport.New(v.X, v.Y, v.W, v.H); err != nil {
		return err
	}
	s.View = v
	s.Dirty = true
	return nil
}

func (s *Session) LastStats() render.Stats { return s.last }

func (s *Session) Frames() int { return s.frames }

// Histogram is the escape histogram of the last render.
func (s *Session) Histogram() *render.Histogram { return s.hist }

// Snapshot returns a read-only copy of the current frame.
func (s *Session) Snapshot() *image.RGBA { return s.Grid.Image() }
