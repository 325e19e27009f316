package viz

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// downscale resizes img to w x h with nearest-neighbor sampling, so
// every output pixel is an exact palette color of the source.
func downscale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// packed reads pixel (x, y) of an RGBA image back into the grid's packed form.
func packed(img *image.RGBA, x, y int) uint32 {
	o := img.PixOffset(x, y)
	p := img.Pix[o : o+4 : o+4]
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}

func rgba(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c), G: uint8(c >> 8), B: uint8(c >> 16), A: uint8(c >> 24)}
}

// Hex formats a packed grid color for lipgloss.
func Hex(c uint32) string {
	col, _ := colorful.MakeColor(rgba(c))
	return col.Hex()
}

// HalfBlocks renders img into cols x rows terminal cells. Each cell shows
// two vertically stacked pixels as an upper half block.
func HalfBlocks(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	small := downscale(img, cols, rows*2)
	styles := make(map[[2]uint32]lipgloss.Style)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			key := [2]uint32{packed(small, col, row*2), packed(small, col, row*2+1)}
			st, ok := styles[key]
			if !ok {
				st = lipgloss.NewStyle().
					Foreground(lipgloss.Color(Hex(key[0]))).
					Background(lipgloss.Color(Hex(key[1])))
				styles[key] = st
			}
			b.WriteString(st.Render("▀"))
		}
	}
	return b.String()
}
