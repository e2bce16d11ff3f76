// Package engine defines the error taxonomy shared by the quoting services.
//
// Only two classes of failure ever reach a caller: an identifier that cannot
// be resolved (region, port, destination city) and input that is invalid
// before any work starts. External service failures are absorbed by the
// distance fallback ladder and never surface here.
package engine

import "errors"

var (
	// ErrNotFound marks an unresolvable region, port or location.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks out-of-range load/weight or identical endpoints.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCalculation marks a pipeline that cannot price safely, e.g. a
	// non-positive or non-finite distance. The engine fails closed instead
	// of quoting zero.
	ErrCalculation = errors.New("calculation failed")
)
