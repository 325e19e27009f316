package render

import "github.com/san-kum/fractsim/internal/fractal"

const (
	White uint32 = 0xffffffff
	Black uint32 = 0xff000000
)

// Colorize maps a classification to a packed color. Bounded points are
// white. Escaped points get an overlay on opaque black:
//
//	fill = 255*i/maxIter
//	red  = uint8(fill*100), blue = uint8(fill*10)
//	red<<4 | blue<<6
//
// Both channels wrap at the byte boundary and the shifted values overlap;
// the banding of the palette comes from exactly this.
func Colorize(r fractal.EscapeResult, maxIter int) uint32 {
	i, ok := r.Iterations()
	if !ok {
		return White
	}
	fill := 255 * i / maxIter
	blue := uint8(fill * 10)
	red := uint8(fill * 100)
	return Black | uint32(red)<<4 | uint32(blue)<<6
}
