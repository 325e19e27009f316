package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/session"
	"github.com/san-kum/fractsim/internal/viewport"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth   = 1280
	DefaultHeight  = 600
	DefaultMaxIter = fractal.MaxIter
	DefaultZoomIn  = 0.8
	DefaultZoomOut = 1.25
	DefaultPanStep = 0.1
)

type Config struct {
	Fractal  FractalConfig  `yaml:"fractal"`
	Viewport ViewportConfig `yaml:"viewport"`
	Grid     GridConfig     `yaml:"grid"`
	Controls ControlsConfig `yaml:"controls"`
}

type FractalConfig struct {
	Kind     string  `yaml:"kind"`
	Exponent int     `yaml:"exponent"`
	CReal    float64 `yaml:"c_real"`
	CImag    float64 `yaml:"c_imag"`
	MaxIter  int     `yaml:"max_iter"`
}

type ViewportConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ControlsConfig struct {
	ZoomIn  float64 `yaml:"zoom_in"`
	ZoomOut float64 `yaml:"zoom_out"`
	PanStep float64 `yaml:"pan_step"`
}

func DefaultConfig() *Config {
	v := viewport.Default()
	return &Config{
		Fractal: FractalConfig{
			Kind:     "julia",
			Exponent: 2,
			CReal:    0.285,
			CImag:    0.01,
			MaxIter:  DefaultMaxIter,
		},
		Viewport: ViewportConfig{X: v.X, Y: v.Y, Width: v.W, Height: v.H},
		Grid:     GridConfig{Width: DefaultWidth, Height: DefaultHeight},
		Controls: ControlsConfig{
			ZoomIn:  DefaultZoomIn,
			ZoomOut: DefaultZoomOut,
			PanStep: DefaultPanStep,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto overlays the YAML file at path onto a copy of base.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, err := c.View(); err != nil {
		return err
	}
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	return c.SessionControls().Validate()
}

func (c *Config) Params() (fractal.Params, error) {
	kind, err := fractal.ParseKind(c.Fractal.Kind)
	if err != nil {
		return fractal.Params{}, err
	}
	p := fractal.Params{
		Kind:     kind,
		Exponent: c.Fractal.Exponent,
		C:        complex(c.Fractal.CReal, c.Fractal.CImag),
		MaxIter:  c.Fractal.MaxIter,
	}
	if err := p.Validate(); err != nil {
		return fractal.Params{}, err
	}
	return p, nil
}

func (c *Config) View() (viewport.Viewport, error) {
	return viewport.New(c.Viewport.X, c.Viewport.Y, c.Viewport.Width, c.Viewport.Height)
}

func (c *Config) SessionControls() session.Controls {
	return session.Controls{
		ZoomIn:  c.Controls.ZoomIn,
		ZoomOut: c.Controls.ZoomOut,
		PanStep: c.Controls.PanStep,
	}
}

// SessionOptions assembles everything a session needs from the config.
func (c *Config) SessionOptions(logger *slog.Logger) (session.Options, error) {
	params, err := c.Params()
	if err != nil {
		return session.Options{}, err
	}
	view, err := c.View()
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		View:     view,
		Params:   params,
		Width:    c.Grid.Width,
		Height:   c.Grid.Height,
		Controls: c.SessionControls(),
		Logger:   logger,
	}, nil
}
