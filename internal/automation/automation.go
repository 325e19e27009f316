// Package automation runs scripted and batch renders: YAML tours through
// presets and view commands, Julia constant sweeps and Monte Carlo area
// estimates.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/fractsim/internal/config"
	"github.com/san-kum/fractsim/internal/export"
	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/render"
	"github.com/san-kum/fractsim/internal/session"
	"github.com/san-kum/fractsim/internal/storage"
	"github.com/san-kum/fractsim/internal/viewport"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted tour: each step starts from a preset, replays
// view commands and renders the result.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Kind     string   `yaml:"kind"`
	Preset   string   `yaml:"preset"`
	MaxIter  int      `yaml:"max_iter"`
	Width    int      `yaml:"width"`
	Height   int      `yaml:"height"`
	Commands []string `yaml:"commands"`
	SaveAs   string   `yaml:"save_as"`
	Store    bool     `yaml:"store"`
}

type StepResult struct {
	Step     int
	View     viewport.Viewport
	Stats    render.Stats
	RenderID string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &scenario, nil
}

func (step ScenarioStep) resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		kind := step.Kind
		if kind == "" {
			kind = "mandelbrot"
		}
		cfg = config.GetPreset(kind, step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", kind, step.Preset)
		}
	} else if step.Kind != "" {
		cfg.Fractal.Kind = step.Kind
	}
	if step.MaxIter > 0 {
		cfg.Fractal.MaxIter = step.MaxIter
	}
	if step.Width > 0 {
		cfg.Grid.Width = step.Width
	}
	if step.Height > 0 {
		cfg.Grid.Height = step.Height
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. st may be nil when no step
// asks to be stored.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		opts, err := cfg.SessionOptions(logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		s, err := session.New(opts)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		for _, name := range step.Commands {
			cmd, ok := session.ParseCommand(name)
			if !ok {
				return results, fmt.Errorf("step %d: unknown command %q", i+1, name)
			}
			s.Apply(cmd)
		}

		stats, _ := s.RenderIfDirty()
		res := StepResult{Step: i + 1, View: s.View, Stats: stats}

		if step.SaveAs != "" {
			if err := export.SavePNG(step.SaveAs, s.Snapshot()); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		if step.Store {
			if st == nil {
				return results, fmt.Errorf("step %d: no store configured", i+1)
			}
			id, err := st.Save(storage.Record{
				Params:    s.Params,
				View:      s.View,
				Stats:     stats,
				Image:     s.Snapshot(),
				Histogram: s.Histogram().Snapshot(),
			})
			if err != nil {
				return results, fmt.Errorf("step %d store: %w", i+1, err)
			}
			res.RenderID = id
		}

		results = append(results, res)
	}

	return results, nil
}

// JuliaSweep renders Julia sets for constants evenly spaced from From to To.
// A zero Exponent means the quadratic family.
type JuliaSweep struct {
	Exponent      int
	From, To      complex128
	NumSteps      int
	MaxIter       int
	View          viewport.Viewport
	Width, Height int
}

type SweepResult struct {
	C          complex128
	Coverage   float64
	MeanEscape float64
	Elapsed    time.Duration
}

func RunSweep(ctx context.Context, sweep *JuliaSweep, logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	grid, err := render.NewPixelGrid(sweep.Width, sweep.Height)
	if err != nil {
		return nil, err
	}

	r := render.New()
	for _, m := range render.DefaultMetrics() {
		r.AddMetric(m)
	}

	exponent := sweep.Exponent
	if exponent == 0 {
		exponent = 2
	}

	step := (sweep.To - sweep.From) / complex(float64(sweep.NumSteps-1), 0)
	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		c := sweep.From + complex(float64(i), 0)*step
		p := fractal.Params{Kind: fractal.KindJulia, Exponent: exponent, C: c, MaxIter: sweep.MaxIter}
		if err := p.Validate(); err != nil {
			return nil, err
		}

		stats := r.Render(grid, sweep.View, p)
		results = append(results, SweepResult{
			C:          c,
			Coverage:   stats.Metrics["coverage"],
			MeanEscape: stats.Metrics["mean_escape"],
			Elapsed:    stats.Elapsed,
		})
		logger.Debug("sweep step", "step", i+1, "of", sweep.NumSteps, "c", c)
	}

	return results, nil
}

// MonteCarloConfig estimates the area of the bounded set inside View by
// uniform random sampling.
type MonteCarloConfig struct {
	Params  fractal.Params
	View    viewport.Viewport
	Samples int
	Seed    int64
}

type MonteCarloResult struct {
	Samples int
	Bounded int
	Area    float64
	// StdErr is the binomial standard error of Area.
	StdErr float64
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) (MonteCarloResult, error) {
	if err := cfg.Params.Validate(); err != nil {
		return MonteCarloResult{}, err
	}
	if cfg.Samples <= 0 {
		return MonteCarloResult{}, fmt.Errorf("sample count must be positive, got %d", cfg.Samples)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	eval := cfg.Params.Evaluator()
	bounded := 0
	for i := 0; i < cfg.Samples; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return MonteCarloResult{}, err
			}
		}
		x := cfg.View.X + rng.Float64()*cfg.View.W
		y := cfg.View.Y + rng.Float64()*cfg.View.H
		if eval.Classify(complex(x, y), cfg.Params.MaxIter).IsBounded() {
			bounded++
		}
	}

	frac := float64(bounded) / float64(cfg.Samples)
	total := cfg.View.W * cfg.View.H
	return MonteCarloResult{
		Samples: cfg.Samples,
		Bounded: bounded,
		Area:    frac * total,
		StdErr:  math.Sqrt(frac*(1-frac)/float64(cfg.Samples)) * total,
	}, nil
}
