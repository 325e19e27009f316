package main

import (
	"log/slog"
	"os"

	"github.com/san-kum/fractsim/internal/logging"
	"github.com/san-kum/fractsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	// Fractal and view overrides
	fractalKind string
	exponent    int
	cReal       float64
	cImag       float64
	maxIter     int
	viewX       float64
	viewY       float64
	viewW       float64
	viewH       float64
	gridW       int
	gridH       int
	// Command options
	outPath    string
	svgPath    string
	noSave     bool
	outScale   float64
	addr       string
	frames     int
	zoomFactor float64
	delay      int
	recordPath string
	// Batch options
	sweepToReal float64
	sweepToImag float64
	sweepSteps  int
	samples     int
	seed        int64

	logger = slog.New(slog.DiscardHandler)
)

// main runs the fractsim CLI and exits with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fractsim",
		Short: "escape-time fractal explorer",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(os.Stderr, logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if viewFlagsChanged(cmd) {
				return runTUI(cmd, args)
			}
			w, h := tuiGridWidth, tuiGridHeight
			if cmd.Flags().Changed("width") {
				w = gridW
			}
			if cmd.Flags().Changed("height") {
				h = gridH
			}
			return viz.RunInteractive(logger, w, h)
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".fractsim", "data directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "preset name, optionally kind/name")
	pf.StringVar(&fractalKind, "fractal", "", "fractal kind (mandelbrot|julia)")
	pf.IntVar(&exponent, "exponent", 2, "julia exponent n")
	pf.Float64Var(&cReal, "c-real", 0.285, "julia constant, real part")
	pf.Float64Var(&cImag, "c-imag", 0.01, "julia constant, imaginary part")
	pf.IntVar(&maxIter, "max-iter", 200, "iteration budget")
	pf.Float64Var(&viewX, "x", -2, "viewport origin x")
	pf.Float64Var(&viewY, "y", -1, "viewport origin y")
	pf.Float64Var(&viewW, "view-width", 3, "viewport width")
	pf.Float64Var(&viewH, "view-height", 2, "viewport height")
	pf.IntVar(&gridW, "width", 1280, "grid width in pixels")
	pf.IntVar(&gridH, "height", 600, "grid height in pixels")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render one frame and store it",
		Args:  cobra.NoArgs,
		RunE:  renderFrame,
	}
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "also write the frame as png")
	renderCmd.Flags().StringVar(&svgPath, "svg", "", "also write the membership outline as svg")
	renderCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the render")
	renderCmd.Flags().Float64Var(&outScale, "scale", 1, "scale the -o png (smooth when shrinking)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored renders",
		Args:  cobra.NoArgs,
		RunE:  listRenders,
	}

	showCmd := &cobra.Command{
		Use:   "show [render_id]",
		Short: "preview a stored render",
		Args:  cobra.ExactArgs(1),
		RunE:  showRender,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [render_id]",
		Short: "escape step distribution",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRender,
	}

	exportCmd := &cobra.Command{
		Use:   "export [render_id]",
		Short: "export render metadata and histogram as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRender,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the renderer",
		Args:  cobra.NoArgs,
		RunE:  benchRender,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "explore in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&recordPath, "record", "frames.gif", "where G-recordings are written")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "explore in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the view over http and websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")

	zoomCmd := &cobra.Command{
		Use:   "zoom-gif [output]",
		Short: "render a zoom animation toward the view center",
		Args:  cobra.ExactArgs(1),
		RunE:  zoomGIF,
	}
	zoomCmd.Flags().IntVar(&frames, "frames", 30, "number of frames")
	zoomCmd.Flags().Float64Var(&zoomFactor, "factor", 0.9, "extent scale per frame")
	zoomCmd.Flags().IntVar(&delay, "delay", 8, "frame delay in 100ths of a second")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted tour of presets and view commands",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the julia constant from --c-real/--c-imag to --to-real/--to-imag",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepToReal, "to-real", 0.4, "final julia constant, real part")
	sweepCmd.Flags().Float64Var(&sweepToImag, "to-imag", 0.01, "final julia constant, imaginary part")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of constants")

	areaCmd := &cobra.Command{
		Use:   "area",
		Short: "estimate the bounded area of the view by random sampling",
		Args:  cobra.NoArgs,
		RunE:  estimateArea,
	}
	areaCmd.Flags().IntVar(&samples, "samples", 100000, "number of random points")
	areaCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	rootCmd.AddCommand(renderCmd, listCmd, showCmd, analyzeCmd, exportCmd, benchCmd,
		presetsCmd, tuiCmd, guiCmd, serveCmd, zoomCmd, scriptCmd, sweepCmd, areaCmd)
	return rootCmd
}
