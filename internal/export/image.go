package export

import (
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Resize scales img to w x h. Smooth scaling blends neighboring palette
// bands; use it for previews, not for data.
func Resize(img image.Image, w, h int, smooth bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	var scaler draw.Scaler = draw.NearestNeighbor
	if smooth {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
