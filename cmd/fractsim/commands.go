package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fractsim/internal/analysis"
	"github.com/san-kum/fractsim/internal/automation"
	"github.com/san-kum/fractsim/internal/config"
	"github.com/san-kum/fractsim/internal/export"
	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/gui"
	"github.com/san-kum/fractsim/internal/remote"
	"github.com/san-kum/fractsim/internal/render"
	"github.com/san-kum/fractsim/internal/storage"
	"github.com/san-kum/fractsim/internal/viz"
	"github.com/spf13/cobra"
)

func renderFrame(cmd *cobra.Command, args []string) error {
	s, _, err := newSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "rendering %s at %dx%d...\n", s.Params, s.Grid.Width, s.Grid.Height)
	stats := s.Render()
	img := s.Snapshot()

	if outPath != "" {
		var frame image.Image = img
		if outScale != 1 {
			w := max(int(float64(s.Grid.Width)*outScale), 1)
			h := max(int(float64(s.Grid.Height)*outScale), 1)
			frame = export.Resize(img, w, h, outScale < 1)
		}
		if err := export.SavePNG(outPath, frame); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", outPath)
	}
	if svgPath != "" {
		svg := export.MembershipSVG(img, max(s.Grid.Width/8, 1), max(s.Grid.Height/16, 1), 4)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", svgPath)
	}

	fmt.Fprintf(out, "completed in %v\n", stats.Elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		renderID, err := st.Save(storage.Record{
			Params:    s.Params,
			View:      s.View,
			Stats:     stats,
			Image:     img,
			Histogram: s.Histogram().Snapshot(),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "render id: %s\n", renderID)
	}

	fmt.Fprintf(out, "bounded: %d\nescaped: %d\n", stats.Bounded, stats.Escaped)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range []string{"coverage", "mean_escape"} {
		fmt.Fprintf(out, "  %s: %.6f\n", name, stats.Metrics[name])
	}
	return nil
}

func listRenders(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	renders, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(renders) == 0 {
		fmt.Fprintln(out, "no renders found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFRACTAL\tTIME\tSIZE\tITER\tBOUNDED\tELAPSED")
	for _, r := range renders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\t%.1fms\n",
			r.ID,
			r.Fractal,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Width, r.Height,
			r.MaxIter,
			r.Bounded,
			r.ElapsedMS,
		)
	}
	return w.Flush()
}

func showRender(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	img, err := st.LoadImage(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "render: %s\n", meta.ID)
	if p, err := meta.Params(); err == nil {
		fmt.Fprintf(out, "fractal: %s\n", p)
	}
	if v, err := meta.Viewport(); err == nil {
		fmt.Fprintf(out, "view: %s\n", v)
	}
	fmt.Fprintf(out, "size: %dx%d\n\n", meta.Width, meta.Height)

	canvas := viz.NewCanvas(60, 15)
	canvas.Plot(img)
	fmt.Fprintln(out, canvas.String())
	return nil
}

func analyzeRender(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	hist, err := st.LoadHistogram(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "escape analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "fractal: %s  budget: %d\n\n", meta.Fractal, meta.MaxIter)

	sum := analysis.Summarize(hist, meta.Bounded)
	if sum.Escaped > 0 {
		fmt.Fprintln(out, asciigraph.Plot(analysis.Rebin(hist, 80),
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("escapes per step"),
		))
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(analysis.Cumulative(hist),
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption("cumulative share"),
		))
		fmt.Fprintln(out)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "pixels\t%d\n", sum.Pixels)
	fmt.Fprintf(w, "bounded\t%d (%.2f%%)\n", sum.Bounded, sum.Coverage*100)
	fmt.Fprintf(w, "escaped\t%d\n", sum.Escaped)
	fmt.Fprintf(w, "mean step\t%.3f\n", sum.Mean)
	fmt.Fprintf(w, "std dev\t%.3f\n", sum.StdDev)
	fmt.Fprintf(w, "median\t%d\n", sum.Median)
	fmt.Fprintf(w, "p90\t%d\n", sum.P90)
	fmt.Fprintf(w, "mode\t%d\n", sum.Mode)
	fmt.Fprintf(w, "max step\t%d\n", sum.MaxStep)
	return w.Flush()
}

func exportRender(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	hist, err := st.LoadHistogram(args[0])
	if err != nil {
		return err
	}

	data := export.NewExportData(*meta, hist)
	if outPath != "" {
		return export.ExportJSON(outPath, data)
	}
	return export.WriteJSON(cmd.OutOrStdout(), data)
}

func benchRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	view, err := cfg.View()
	if err != nil {
		return err
	}

	sizes := [][2]int{{160, 75}, {320, 150}, {640, 300}}
	budgets := []int{100, 200, 500}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %s\n\n", params.Kind)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tITER\tBOUNDED\tTIME\tMPIX/SEC")

	r := render.New()
	for _, size := range sizes {
		grid, err := render.NewPixelGrid(size[0], size[1])
		if err != nil {
			return err
		}
		for _, budget := range budgets {
			p := params
			p.MaxIter = budget
			stats := r.Render(grid, view, p)
			mpix := float64(stats.Pixels()) / stats.Elapsed.Seconds() / 1e6
			fmt.Fprintf(w, "%dx%d\t%d\t%d\t%v\t%.2f\n",
				size[0], size[1], budget, stats.Bounded, stats.Elapsed.Round(time.Microsecond), mpix)
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	reg := fractal.NewRegistry()
	kinds := reg.List()
	if len(args) == 1 {
		kinds = []string{args[0]}
	}

	out := cmd.OutOrStdout()
	for _, kind := range kinds {
		defaults, err := reg.Get(kind)
		presets := config.ListPresets(kind)
		if err != nil || len(presets) == 0 {
			fmt.Fprintf(out, "no presets for fractal: %s\n", kind)
			continue
		}
		fmt.Fprintf(out, "presets for %s (defaults: %s):\n", kind, defaults)
		for _, p := range presets {
			cfg := config.GetPreset(kind, p)
			v, _ := cfg.View()
			cx, cy := v.Center()
			fmt.Fprintf(out, "  %-16s center %.5f%+.5fi  width %.4g\n", p, cx, cy, v.W)
		}
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("width") {
		cmd.Flags().Set("width", strconv.Itoa(tuiGridWidth))
	}
	if !cmd.Flags().Changed("height") {
		cmd.Flags().Set("height", strconv.Itoa(tuiGridHeight))
	}
	s, _, err := newSession(cmd)
	if err != nil {
		return err
	}

	title := s.Params.Kind.String()
	if preset != "" {
		title = preset
	}
	final, err := viz.Run(s, title)
	if err != nil {
		return err
	}

	if recorded := final.Recorded(); len(recorded) > 0 {
		f, err := os.Create(recordPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteGIF(f, recorded, 10); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d frames to %s\n", len(recorded), recordPath)
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	s, _, err := newSession(cmd)
	if err != nil {
		return err
	}
	return gui.Run(s, logger)
}

func serve(cmd *cobra.Command, args []string) error {
	s, _, err := newSession(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", addr)
	return remote.New(s, logger).ListenAndServe(ctx, addr)
}

func zoomGIF(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	view, err := cfg.View()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rendering %d frames of %s...\n", frames, params)
	start := time.Now()
	imgs, err := export.ZoomFrames(export.ZoomOptions{
		Params: params,
		View:   view,
		Width:  cfg.Grid.Width,
		Height: cfg.Grid.Height,
		Frames: frames,
		Factor: zoomFactor,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteGIF(f, imgs, delay); err != nil {
		return err
	}

	last := view
	for i := 1; i < frames; i++ {
		export.ZoomAbout(&last, zoomFactor)
	}
	fmt.Fprintf(out, "wrote %s in %v\nfinal view: %s\n", args[0], time.Since(start).Round(time.Millisecond), last)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Fprintf(out, "  %s\n", scenario.Description)
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, st, logger)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tVIEW\tCOVERAGE\tTIME\tID")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%.2f%%\t%v\t%s\n", r.Step, r.View,
			r.Stats.Metrics["coverage"]*100,
			r.Stats.Elapsed.Round(time.Microsecond), r.RenderID)
	}
	w.Flush()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	view, err := cfg.View()
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.JuliaSweep{
		Exponent: cfg.Fractal.Exponent,
		From:     complex(cfg.Fractal.CReal, cfg.Fractal.CImag),
		To:       complex(sweepToReal, sweepToImag),
		NumSteps: sweepSteps,
		MaxIter:  cfg.Fractal.MaxIter,
		View:     view,
		Width:    cfg.Grid.Width,
		Height:   cfg.Grid.Height,
	}, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "C\tCOVERAGE\tMEAN ESCAPE")
	coverage := make([]float64, len(results))
	for i, r := range results {
		coverage[i] = r.Coverage * 100
		fmt.Fprintf(w, "%.4f%+.4fi\t%.2f%%\t%.2f\n", real(r.C), imag(r.C), r.Coverage*100, r.MeanEscape)
	}
	w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(coverage, asciigraph.Height(8), asciigraph.Caption("coverage % along the sweep")))
	return nil
}

func estimateArea(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	view, err := cfg.View()
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Params:  params,
		View:    view,
		Samples: samples,
		Seed:    seed,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s in %s\n  samples: %d (%d bounded)\n  area:    %.5f ± %.5f\n  time:    %v\n",
		params, view, res.Samples, res.Bounded, res.Area, res.StdErr, time.Since(start).Round(time.Millisecond))
	return nil
}
