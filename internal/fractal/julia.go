package fractal

import "math/cmplx"

// Julia iterates z <- z^N + C starting from the plane point itself.
type Julia struct {
	N int
	C complex128
}

func (j Julia) Classify(p complex128, maxIter int) EscapeResult {
	v := p
	for i := 0; i < maxIter; i++ {
		v = j.pow(v) + j.C
		if escaped(v) {
			return Escaped(i)
		}
	}
	return Bounded()
}

// pow is the principal complex power; the square stays a plain multiply.
func (j Julia) pow(v complex128) complex128 {
	if j.N == 2 {
		return v * v
	}
	return cmplx.Pow(v, complex(float64(j.N), 0))
}
