package gui

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/fractsim/internal/render"
	"github.com/san-kum/fractsim/internal/session"
)

var ErrWindowInit = errors.New("gui: window could not be created")

var (
	ColPanel   = rl.NewColor(10, 10, 10, 200)
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(120, 120, 120, 255)
)

// keyBindings follows the keypad layout of the classic viewer.
var keyBindings = []struct {
	key int32
	cmd session.Command
}{
	{rl.KeyKpAdd, session.ZoomIn},
	{rl.KeyEqual, session.ZoomIn},
	{rl.KeyKpSubtract, session.ZoomOut},
	{rl.KeyMinus, session.ZoomOut},
	{rl.KeyLeft, session.PanLeft},
	{rl.KeyRight, session.PanRight},
	{rl.KeyUp, session.PanUp},
	{rl.KeyDown, session.PanDown},
	{rl.KeyQ, session.Quit},
}

type App struct {
	Session *session.Session
	ShowHUD bool

	tex    rl.Texture2D
	pixels []color.RGBA
	log    *slog.Logger
}

func initWindow(w, h int) error {
	rl.InitWindow(int32(w), int32(h), "fractsim")
	if !rl.IsWindowReady() {
		return ErrWindowInit
	}
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
	return nil
}

// Run opens a window the size of the session grid and blocks until the
// user quits or closes it.
func Run(s *session.Session, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := initWindow(s.Grid.Width, s.Grid.Height); err != nil {
		return err
	}
	defer rl.CloseWindow()

	a := &App{Session: s, ShowHUD: true, log: logger}
	s.RenderIfDirty()
	a.pixels = texturePixels(s.Grid, nil)
	img := rl.NewImageFromImage(s.Snapshot())
	a.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(a.tex)

	logger.Info("window opened", "width", s.Grid.Width, "height", s.Grid.Height)
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for a.Session.Running && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// Update applies pressed keys and refreshes the texture when the view moved.
func (a *App) Update() {
	for _, b := range keyBindings {
		if rl.IsKeyPressed(b.key) {
			a.Session.Apply(b.cmd)
		}
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if !a.Session.Running {
		return
	}
	if _, rendered := a.Session.RenderIfDirty(); rendered {
		a.pixels = texturePixels(a.Session.Grid, a.pixels)
		rl.UpdateTexture(a.tex, a.pixels)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	rl.DrawTexture(a.tex, 0, 0, rl.White)
	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	s := a.Session
	stats := s.LastStats()
	rl.DrawRectangle(10, 10, 420, 92, ColPanel)
	rl.DrawText(s.Params.String(), 20, 18, 16, ColText)
	rl.DrawText(s.View.String(), 20, 40, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("frame %d  %s  bounded %.1f%%", s.Frames(), stats.Elapsed, stats.Metrics["coverage"]*100), 20, 60, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("[+/-] ZOOM  [ARROWS] PAN  [H] HUD  [Q] QUIT  %d FPS", rl.GetFPS()), 20, 80, 12, ColTextDim)
}

// texturePixels unpacks the grid into dst, reusing it when large enough.
func texturePixels(g *render.PixelGrid, dst []color.RGBA) []color.RGBA {
	pix := g.Pixels()
	if cap(dst) < len(pix) {
		dst = make([]color.RGBA, len(pix))
	}
	dst = dst[:len(pix)]
	for i, c := range pix {
		dst[i] = color.RGBA{R: uint8(c), G: uint8(c >> 8), B: uint8(c >> 16), A: uint8(c >> 24)}
	}
	return dst
}
