package main

import (
	"fmt"
	"strings"

	"github.com/san-kum/fractsim/internal/config"
	"github.com/san-kum/fractsim/internal/session"
	"github.com/spf13/cobra"
)

// The terminal shows far fewer cells than a window, so it renders a smaller grid.
const (
	tuiGridWidth  = 400
	tuiGridHeight = 200
)

// findPreset accepts "kind/name" or a bare name searched in every kind.
func findPreset(name string) (*config.Config, error) {
	if kind, p, ok := strings.Cut(name, "/"); ok {
		if cfg := config.GetPreset(kind, p); cfg != nil {
			return cfg, nil
		}
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	for _, kind := range []string{"mandelbrot", "julia"} {
		if cfg := config.GetPreset(kind, name); cfg != nil {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("unknown preset: %s", name)
}

// resolveConfig layers defaults, preset, config file and changed flags,
// later layers winning.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := findPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("fractal") {
		cfg.Fractal.Kind = fractalKind
	}
	if flags.Changed("exponent") {
		cfg.Fractal.Exponent = exponent
	}
	if flags.Changed("c-real") {
		cfg.Fractal.CReal = cReal
	}
	if flags.Changed("c-imag") {
		cfg.Fractal.CImag = cImag
	}
	if flags.Changed("max-iter") {
		cfg.Fractal.MaxIter = maxIter
	}
	if flags.Changed("x") {
		cfg.Viewport.X = viewX
	}
	if flags.Changed("y") {
		cfg.Viewport.Y = viewY
	}
	if flags.Changed("view-width") {
		cfg.Viewport.Width = viewW
	}
	if flags.Changed("view-height") {
		cfg.Viewport.Height = viewH
	}
	if flags.Changed("width") {
		cfg.Grid.Width = gridW
	}
	if flags.Changed("height") {
		cfg.Grid.Height = gridH
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSession(cmd *cobra.Command) (*session.Session, *config.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.SessionOptions(logger)
	if err != nil {
		return nil, nil, err
	}
	s, err := session.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

// viewFlags select what to look at; the grid size flags are not among them.
var viewFlags = []string{
	"config", "preset", "fractal", "exponent", "c-real", "c-imag", "max-iter",
	"x", "y", "view-width", "view-height",
}

// viewFlagsChanged reports whether the command line already picked a view,
// in which case the preset picker is skipped.
func viewFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range viewFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
