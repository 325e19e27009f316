package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/gif"
	"image/png"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/render"
	"github.com/san-kum/fractsim/internal/storage"
	"github.com/san-kum/fractsim/internal/viewport"
	"github.com/san-kum/fractsim/internal/viz"
)

func testFrame(t *testing.T, w, h int) *image.RGBA {
	t.Helper()
	grid, err := render.NewPixelGrid(w, h)
	if err != nil {
		t.Fatal(err)
	}
	render.New().Render(grid, viewport.Default(), fractal.DefaultMandelbrot())
	return grid.Image()
}

func TestPNGRoundTrip(t *testing.T) {
	img := testFrame(t, 30, 20)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("save: %v", err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("bounds %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestZoomAboutKeepsCenter(t *testing.T) {
	v := viewport.Default()
	cx, cy := v.Center()

	ZoomAbout(&v, 0.5)
	nx, ny := v.Center()
	if math.Abs(nx-cx) > 1e-12 || math.Abs(ny-cy) > 1e-12 {
		t.Errorf("center moved from (%v,%v) to (%v,%v)", cx, cy, nx, ny)
	}
	if v.W != 1.5 || v.H != 1 {
		t.Errorf("unexpected extent %vx%v", v.W, v.H)
	}
}

func TestZoomFrames(t *testing.T) {
	frames, err := ZoomFrames(ZoomOptions{
		Params: fractal.DefaultJulia(),
		View:   viewport.Default(),
		Width:  16,
		Height: 8,
		Frames: 3,
		Factor: 0.8,
	})
	if err != nil {
		t.Fatalf("zoom frames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if bytes.Equal(frames[0].Pix, frames[2].Pix) {
		t.Error("zoomed frames should differ")
	}
}

func TestZoomFramesInvalid(t *testing.T) {
	base := ZoomOptions{Params: fractal.DefaultMandelbrot(), View: viewport.Default(), Width: 4, Height: 4, Frames: 1, Factor: 0.5}

	noFrames := base
	noFrames.Frames = 0
	if _, err := ZoomFrames(noFrames); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}

	badFactor := base
	badFactor.Factor = 0
	if _, err := ZoomFrames(badFactor); err == nil {
		t.Error("expected error for zero factor")
	}

	badGrid := base
	badGrid.Width = 0
	if _, err := ZoomFrames(badGrid); !errors.Is(err, render.ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestPaletteIsExact(t *testing.T) {
	img := testFrame(t, 64, 32)
	p := Paletted(img)

	if len(p.Palette) > 256 {
		t.Fatalf("palette too large: %d", len(p.Palette))
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			r1, g1, b1, a1 := img.At(x, y).RGBA()
			r2, g2, b2, a2 := p.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("pixel (%d,%d) changed in palette conversion", x, y)
			}
		}
	}
}

func TestPaletteFallback(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 1))
	for x := 0; x < 300; x++ {
		o := x * 4
		img.Pix[o] = uint8(x)
		img.Pix[o+1] = uint8(x / 256)
		img.Pix[o+3] = 0xff
	}
	if pal := Palette(img); len(pal) != 256 {
		t.Errorf("expected plan9 fallback, got %d colors", len(pal))
	}
}

func TestWriteGIF(t *testing.T) {
	frames := []*image.RGBA{testFrame(t, 12, 8), testFrame(t, 12, 8)}

	var buf bytes.Buffer
	if err := WriteGIF(&buf, frames, 5); err != nil {
		t.Fatalf("write gif: %v", err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(anim.Image) != 2 || anim.Delay[0] != 5 {
		t.Errorf("unexpected animation: %d frames, delay %v", len(anim.Image), anim.Delay)
	}

	if err := WriteGIF(&buf, nil, 5); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestResize(t *testing.T) {
	img := testFrame(t, 40, 20)
	small := Resize(img, 10, 5, false)
	if small.Bounds().Dx() != 10 || small.Bounds().Dy() != 5 {
		t.Errorf("unexpected bounds %v", small.Bounds())
	}
	smooth := Resize(img, 80, 40, true)
	if smooth.Bounds().Dx() != 80 {
		t.Errorf("unexpected bounds %v", smooth.Bounds())
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1, "#fff") != "" {
		t.Error("expected empty output for nil canvas")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 10, "#ffffff")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("malformed svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 circles, got %d", n)
	}
	if !strings.Contains(svg, `cx="35.0" cy="35.0"`) {
		t.Error("expected dot at sub-pixel (3,3)")
	}
}

func TestMembershipSVG(t *testing.T) {
	img := testFrame(t, 40, 20)
	svg := MembershipSVG(img, 20, 5, 2)
	if !strings.Contains(svg, "<circle") {
		t.Error("mandelbrot interior should produce dots")
	}
}

func TestWriteJSON(t *testing.T) {
	meta := storage.RenderMetadata{ID: "julia_1", Fractal: "julia", MaxIter: 200, Bounded: 2}
	data := NewExportData(meta, []float64{0, 3, 1})

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Render.ID != "julia_1" || decoded.Summary.Escaped != 4 || decoded.Summary.Pixels != 6 {
		t.Errorf("unexpected export %+v", decoded)
	}

	empty := NewExportData(meta, nil)
	if empty.Histogram == nil {
		t.Error("histogram should encode as an empty list")
	}
}
