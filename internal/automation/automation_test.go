package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fractsim/internal/config"
	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/storage"
	"github.com/san-kum/fractsim/internal/viewport"
)

const tour = `name: tour
description: zoom into seahorse valley
steps:
  - preset: full
    width: 40
    height: 20
    max_iter: 50
  - preset: seahorse
    width: 40
    height: 20
    commands: ["+", "+", "left"]
    store: true
  - kind: julia
    preset: rabbit
    width: 20
    height: 10
    save_as: %s
`

func writeTour(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	png := filepath.Join(dir, "rabbit.png")
	path := filepath.Join(dir, "tour.yaml")
	if err := os.WriteFile(path, []byte(fmt.Sprintf(tour, png)), 0644); err != nil {
		t.Fatal(err)
	}
	return path, png
}

func TestLoadAndRunScenario(t *testing.T) {
	path, png := writeTour(t)
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "tour" || len(sc.Steps) != 3 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	st := storage.New(t.TempDir())
	results, err := RunScenario(context.Background(), sc, st, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Stats.Pixels() != 800 {
		t.Errorf("unexpected first render size %d", results[0].Stats.Pixels())
	}

	want, err := config.GetPreset("mandelbrot", "seahorse").View()
	if err != nil {
		t.Fatal(err)
	}
	want.Zoom(0.8)
	want.Zoom(0.8)
	want.Pan(-0.1, 0)
	if results[1].View != want {
		t.Errorf("commands not replayed: got %v want %v", results[1].View, want)
	}
	if results[1].RenderID == "" {
		t.Error("stored step should have a render id")
	}
	if _, err := st.Load(results[1].RenderID); err != nil {
		t.Errorf("stored render missing: %v", err)
	}

	if _, err := os.Stat(png); err != nil {
		t.Errorf("expected png: %v", err)
	}
}

func TestRunScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
	}{
		{"unknown preset", ScenarioStep{Preset: "nowhere"}},
		{"unknown kind", ScenarioStep{Kind: "newton"}},
		{"unknown command", ScenarioStep{Width: 4, Height: 4, Commands: []string{"spin"}}},
		{"store without store", ScenarioStep{Width: 4, Height: 4, Store: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &Scenario{Steps: []ScenarioStep{tt.step}}
			if _, err := RunScenario(context.Background(), sc, nil, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunScenarioCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc := &Scenario{Steps: []ScenarioStep{{Width: 4, Height: 4}}}
	if _, err := RunScenario(ctx, sc, nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	results, err := RunSweep(context.Background(), &JuliaSweep{
		Exponent: 2,
		From:     complex(0, 0),
		To:       complex(1, 0),
		NumSteps: 3,
		MaxIter:  100,
		View:     viewport.Viewport{X: -1.5, Y: -1.5, W: 3, H: 3},
		Width:    30,
		Height:   30,
	}, nil)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].C != complex(0.5, 0) {
		t.Errorf("unexpected midpoint %v", results[1].C)
	}
	// c = 0 gives the filled unit disc; c = 1 lies outside the Mandelbrot
	// set, so its Julia set is dust.
	if results[0].Coverage <= results[2].Coverage {
		t.Errorf("coverage should shrink: %v vs %v", results[0].Coverage, results[2].Coverage)
	}
	if results[2].Coverage > 0.01 {
		t.Errorf("expected almost no bounded pixels at c=1, got %v", results[2].Coverage)
	}

	if _, err := RunSweep(context.Background(), &JuliaSweep{NumSteps: 1}, nil); err == nil {
		t.Error("expected error for a single step")
	}
}

func TestRunMonteCarloMandelbrotArea(t *testing.T) {
	res, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Params:  fractal.DefaultMandelbrot(),
		View:    viewport.Viewport{X: -2, Y: -1.5, W: 2.5, H: 3},
		Samples: 20000,
		Seed:    42,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Area < 1.35 || res.Area > 1.75 {
		t.Errorf("area estimate %v outside expected range", res.Area)
	}
	if res.StdErr <= 0 || res.StdErr > 0.05 {
		t.Errorf("unexpected standard error %v", res.StdErr)
	}
}

func TestRunMonteCarloInvalid(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Params: fractal.DefaultMandelbrot(), Samples: 0})
	if err == nil {
		t.Error("expected error for zero samples")
	}
	_, err = RunMonteCarlo(context.Background(), &MonteCarloConfig{Params: fractal.Params{MaxIter: 0}, Samples: 1})
	if !errors.Is(err, fractal.ErrInvalidBudget) {
		t.Errorf("expected ErrInvalidBudget, got %v", err)
	}
}
