package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/render"
	"github.com/san-kum/fractsim/internal/viewport"
)

func sampleRecord(t *testing.T) Record {
	t.Helper()
	grid, err := render.NewPixelGrid(8, 4)
	if err != nil {
		t.Fatal(err)
	}
	grid.Fill(render.White)
	grid.Set(0, 0, 0xff003dc0)

	return Record{
		Params: fractal.DefaultJulia(),
		View:   viewport.Default(),
		Stats: render.Stats{
			Width:   8,
			Height:  4,
			Bounded: 31,
			Escaped: 1,
			Elapsed: 3 * time.Millisecond,
			Metrics: map[string]float64{"coverage": 31.0 / 32.0},
		},
		Image:     grid.Image(),
		Histogram: []float64{0, 0, 1},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	renderID, err := st.Save(sampleRecord(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if renderID == "" {
		t.Fatal("expected non-empty render id")
	}

	meta, err := st.Load(renderID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Fractal != "julia" || meta.Exponent != 2 {
		t.Errorf("unexpected fractal %s n=%d", meta.Fractal, meta.Exponent)
	}
	if meta.CReal != 0.285 || meta.CImag != 0.01 {
		t.Errorf("unexpected c %v+%vi", meta.CReal, meta.CImag)
	}
	if meta.Bounded != 31 || meta.Escaped != 1 {
		t.Errorf("unexpected counts %d/%d", meta.Bounded, meta.Escaped)
	}
	if meta.ElapsedMS != 3 {
		t.Errorf("expected 3ms, got %v", meta.ElapsedMS)
	}

	p, err := meta.Params()
	if err != nil || p != fractal.DefaultJulia() {
		t.Errorf("params round trip: %+v, %v", p, err)
	}
	v, err := meta.Viewport()
	if err != nil || v != viewport.Default() {
		t.Errorf("viewport round trip: %v, %v", v, err)
	}
}

func TestStoreImageAndHistogram(t *testing.T) {
	st := New(t.TempDir())
	st.Init()

	renderID, err := st.Save(sampleRecord(t))
	if err != nil {
		t.Fatal(err)
	}

	img, err := st.LoadImage(renderID)
	if err != nil {
		t.Fatalf("load image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("unexpected bounds %v", b)
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if r>>8 != 0xc0 || g>>8 != 0x3d || b>>8 != 0 || a>>8 != 0xff {
		t.Errorf("pixel (0,0) = %x %x %x %x", r>>8, g>>8, b>>8, a>>8)
	}

	hist, err := st.LoadHistogram(renderID)
	if err != nil {
		t.Fatalf("load histogram: %v", err)
	}
	if len(hist) != 3 || hist[2] != 1 {
		t.Errorf("unexpected histogram %v", hist)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	st.Init()

	first, _ := st.Save(sampleRecord(t))
	rec := sampleRecord(t)
	rec.Params = fractal.DefaultMandelbrot()
	second, _ := st.Save(rec)

	os.MkdirAll(filepath.Join(dir, "junk"), 0755)

	renders, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(renders) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(renders))
	}
	if renders[0].ID != first || renders[1].ID != second {
		t.Errorf("expected oldest first, got %s, %s", renders[0].ID, renders[1].ID)
	}
	if renders[1].Exponent != 0 {
		t.Error("mandelbrot render should not record an exponent")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	renders, err := st.List()
	if err != nil || len(renders) != 0 {
		t.Errorf("expected empty list, got %v, %v", renders, err)
	}
}

func TestStoreLoadNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.LoadImage("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
