package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/fractsim/internal/analysis"
	"github.com/san-kum/fractsim/internal/storage"
)

type ExportData struct {
	Render    storage.RenderMetadata `json:"render"`
	Summary   analysis.Summary       `json:"summary"`
	Histogram []float64              `json:"histogram"`
}

func NewExportData(meta storage.RenderMetadata, hist []float64) ExportData {
	if hist == nil {
		hist = []float64{}
	}
	return ExportData{
		Render:    meta,
		Summary:   analysis.Summarize(hist, meta.Bounded),
		Histogram: hist,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
