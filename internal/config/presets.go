package config

import "sort"

// region builds a mandelbrot preset from plane bounds.
func region(xmin, xmax, ymin, ymax float64) *Config {
	cfg := DefaultConfig()
	cfg.Fractal = FractalConfig{Kind: "mandelbrot", MaxIter: DefaultMaxIter}
	cfg.Viewport = ViewportConfig{X: xmin, Y: ymin, Width: xmax - xmin, Height: ymax - ymin}
	return cfg
}

func julia(n int, re, im float64) *Config {
	cfg := DefaultConfig()
	cfg.Fractal = FractalConfig{Kind: "julia", Exponent: n, CReal: re, CImag: im, MaxIter: DefaultMaxIter}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"mandelbrot": {
		"full":            region(-2, 1, -1, 1),
		"seahorse":        region(-0.8, -0.7, 0.05, 0.15),
		"elephant":        region(-1.85, -1.75, -0.10, -0.02),
		"spiral_minibrot": region(-0.7435, -0.7420, 0.1310, 0.1325),
		"triple_spiral":   region(-0.7480, -0.7450, 0.0950, 0.0980),
		"dragon":          region(-0.7400, -0.7350, 0.1800, 0.1850),
	},
	"julia": {
		"original": julia(2, 0.285, 0.01),
		"dendrite": julia(2, 0, 1),
		"rabbit":   julia(2, -0.123, 0.745),
		"siegel":   julia(2, -0.391, -0.587),
		"cubic":    julia(3, -0.54, 0.25),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
