package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fractsim/internal/fractal"
	"github.com/san-kum/fractsim/internal/render"
	"github.com/san-kum/fractsim/internal/viewport"
)

var ErrNotFound = errors.New("storage: render not found")

const (
	metadataFile  = "metadata.json"
	imageFile     = "image.png"
	histogramFile = "histogram.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ViewMetadata struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type RenderMetadata struct {
	ID        string             `json:"id"`
	Fractal   string             `json:"fractal"`
	Exponent  int                `json:"exponent,omitempty"`
	CReal     float64            `json:"c_real,omitempty"`
	CImag     float64            `json:"c_imag,omitempty"`
	MaxIter   int                `json:"max_iter"`
	View      ViewMetadata       `json:"view"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Timestamp time.Time          `json:"timestamp"`
	ElapsedMS float64            `json:"elapsed_ms"`
	Bounded   int                `json:"bounded"`
	Escaped   int                `json:"escaped"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Params rebuilds the fractal parameters the render was made with.
func (m *RenderMetadata) Params() (fractal.Params, error) {
	kind, err := fractal.ParseKind(m.Fractal)
	if err != nil {
		return fractal.Params{}, err
	}
	return fractal.Params{
		Kind:     kind,
		Exponent: m.Exponent,
		C:        complex(m.CReal, m.CImag),
		MaxIter:  m.MaxIter,
	}, nil
}

func (m *RenderMetadata) Viewport() (viewport.Viewport, error) {
	return viewport.New(m.View.X, m.View.Y, m.View.Width, m.View.Height)
}

// Record is everything Save needs from one finished render.
type Record struct {
	Params    fractal.Params
	View      viewport.Viewport
	Stats     render.Stats
	Image     image.Image
	Histogram []float64
}

func (s *Store) Save(rec Record) (string, error) {
	now := time.Now()
	renderID := fmt.Sprintf("%s_%d", rec.Params.Kind, now.UnixNano())
	renderDir := filepath.Join(s.baseDir, renderID)

	if err := os.MkdirAll(renderDir, 0755); err != nil {
		return "", err
	}

	meta := RenderMetadata{
		ID:        renderID,
		Fractal:   rec.Params.Kind.String(),
		MaxIter:   rec.Params.MaxIter,
		View:      ViewMetadata{X: rec.View.X, Y: rec.View.Y, Width: rec.View.W, Height: rec.View.H},
		Width:     rec.Stats.Width,
		Height:    rec.Stats.Height,
		Timestamp: now,
		ElapsedMS: float64(rec.Stats.Elapsed.Microseconds()) / 1000,
		Bounded:   rec.Stats.Bounded,
		Escaped:   rec.Stats.Escaped,
		Metrics:   rec.Stats.Metrics,
	}
	if rec.Params.Kind == fractal.KindJulia {
		meta.Exponent = rec.Params.Exponent
		meta.CReal = real(rec.Params.C)
		meta.CImag = imag(rec.Params.C)
	}

	if err := writeJSON(filepath.Join(renderDir, metadataFile), meta); err != nil {
		return "", err
	}
	if rec.Image != nil {
		if err := writePNG(filepath.Join(renderDir, imageFile), rec.Image); err != nil {
			return "", err
		}
	}
	if err := writeHistogram(filepath.Join(renderDir, histogramFile), rec.Histogram); err != nil {
		return "", err
	}

	return renderID, nil
}

func writeJSON(path string, meta RenderMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeHistogram(path string, counts []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"iteration", "count"}); err != nil {
		return err
	}
	for i, c := range counts {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(c, 'f', -1, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable render, oldest first.
func (s *Store) List() ([]RenderMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RenderMetadata{}, nil
		}
		return nil, err
	}

	renders := make([]RenderMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		renders = append(renders, *meta)
	}

	sort.Slice(renders, func(i, j int) bool {
		return renders[i].Timestamp.Before(renders[j].Timestamp)
	})
	return renders, nil
}

func (s *Store) Load(renderID string) (*RenderMetadata, error) {
	data, err := os.ReadFile(s.path(renderID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, renderID)
		}
		return nil, err
	}

	var meta RenderMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", renderID, err)
	}
	return &meta, nil
}

func (s *Store) LoadImage(renderID string) (image.Image, error) {
	f, err := os.Open(s.path(renderID, imageFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s has no image", ErrNotFound, renderID)
		}
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func (s *Store) LoadHistogram(renderID string) ([]float64, error) {
	f, err := os.Open(s.path(renderID, histogramFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s has no histogram", ErrNotFound, renderID)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []float64{}, nil
	}

	counts := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		c, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		counts = append(counts, c)
	}
	return counts, nil
}

func (s *Store) path(renderID, name string) string {
	return filepath.Join(s.baseDir, renderID, name)
}
