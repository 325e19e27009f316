package fractal

import (
	"fmt"
	"math/cmplx"
)

const (
	// MaxIter is the default iteration budget.
	MaxIter = 200

	// EscapeRadius is the modulus beyond which an orbit diverges.
	EscapeRadius = 2.0
)

// EscapeResult is the classification of a single plane point.
// The zero value is Bounded.
type EscapeResult struct {
	escaped bool
	iter    int
}

// Bounded reports an orbit that stayed inside the escape radius for the whole budget.
func Bounded() EscapeResult { return EscapeResult{} }

// Escaped reports an orbit that left the escape radius at step i.
func Escaped(i int) EscapeResult { return EscapeResult{escaped: true, iter: i} }

func (r EscapeResult) IsBounded() bool { return !r.escaped }

// Iterations returns the escape step and true, or 0 and false for Bounded.
func (r EscapeResult) Iterations() (int, bool) {
	return r.iter, r.escaped
}

func (r EscapeResult) String() string {
	if !r.escaped {
		return "Bounded"
	}
	return fmt.Sprintf("Escaped(%d)", r.iter)
}

type Evaluator interface {
	Classify(p complex128, maxIter int) EscapeResult
}

func escaped(v complex128) bool {
	return cmplx.Abs(v) > EscapeRadius
}

type Kind int

const (
	KindMandelbrot Kind = iota
	KindJulia
)

func (k Kind) String() string {
	switch k {
	case KindMandelbrot:
		return "mandelbrot"
	case KindJulia:
		return "julia"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a fractal name.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "mandelbrot":
		return KindMandelbrot, nil
	case "julia":
		return KindJulia, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Params selects the fractal for a render. Exponent and C are only
// meaningful for Julia.
type Params struct {
	Kind     Kind
	Exponent int
	C        complex128
	MaxIter  int
}

func DefaultMandelbrot() Params {
	return Params{Kind: KindMandelbrot, MaxIter: MaxIter}
}

func DefaultJulia() Params {
	return Params{Kind: KindJulia, Exponent: 2, C: complex(0.285, 0.01), MaxIter: MaxIter}
}

func (p Params) Validate() error {
	if p.Kind != KindMandelbrot && p.Kind != KindJulia {
		return fmt.Errorf("%w: %s", ErrUnknownKind, p.Kind)
	}
	if p.MaxIter <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidBudget, p.MaxIter)
	}
	return nil
}

// Evaluator returns the evaluator for the selected variant.
// Unknown kinds fall back to Mandelbrot; call Validate first.
func (p Params) Evaluator() Evaluator {
	if p.Kind == KindJulia {
		return Julia{N: p.Exponent, C: p.C}
	}
	return Mandelbrot{}
}

func (p Params) String() string {
	if p.Kind == KindJulia {
		return fmt.Sprintf("julia n=%d c=%v iter=%d", p.Exponent, p.C, p.MaxIter)
	}
	return fmt.Sprintf("mandelbrot iter=%d", p.MaxIter)
}
