package fractal

import "errors"

// Configuration errors. Evaluation itself never fails.
var (
	// ErrUnknownKind indicates a fractal name or kind with no evaluator.
	ErrUnknownKind = errors.New("fractal: unknown fractal kind")

	// ErrInvalidBudget indicates a non-positive iteration budget.
	ErrInvalidBudget = errors.New("fractal: iteration budget must be positive")
)
