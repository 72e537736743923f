// Package rootfind implements fixed-iteration Newton-Raphson root finding.
//
// The iteration is independent of any expression engine: callers supply
// the function and its derivative as evaluators, or hand a Backend to
// Solve, which parses and differentiates once and evaluates on every step.
package rootfind

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"strconv"
)

var (
	// ErrZeroDerivative is returned when f'(x) evaluates to exactly zero
	// at an iterate. No partial result accompanies it.
	ErrZeroDerivative = errors.New("rootfind: derivative is zero")

	// ErrInvalidIterations is returned for a negative iteration bound.
	ErrInvalidIterations = errors.New("rootfind: iteration count must not be negative")
)

// Scalar is the set of numeric types an iterate can take.
type Scalar interface {
	float64 | complex128
}

// Func evaluates a function at a point.
type Func[T Scalar] func(x T) (T, error)

// Options tune FindRootWith. The zero value plus MaxIterations reproduces
// FindRoot exactly.
type Options struct {
	MaxIterations int

	// Tolerance, when positive, stops the iteration early once two
	// consecutive iterates differ by at most Tolerance.
	Tolerance float64
}

// Step performs one Newton-Raphson update x - f(x)/f'(x).
func Step[T Scalar](f, fPrime Func[T], x T) (T, error) {
	var zero T
	fx, err := f(x)
	if err != nil {
		return zero, fmt.Errorf("rootfind: evaluate f(%v): %w", x, err)
	}
	dfx, err := fPrime(x)
	if err != nil {
		return zero, fmt.Errorf("rootfind: evaluate f'(%v): %w", x, err)
	}
	if dfx == zero {
		return zero, fmt.Errorf("%w at x=%v", ErrZeroDerivative, x)
	}
	return x - fx/dfx, nil
}

// FindRoot refines x0 with exactly maxIterations Newton-Raphson steps and
// returns the final iterate. It stops early only when the derivative is
// zero, in which case it returns ErrZeroDerivative and no estimate.
func FindRoot[T Scalar](f, fPrime Func[T], x0 T, maxIterations int) (T, error) {
	return FindRootWith(f, fPrime, x0, Options{MaxIterations: maxIterations})
}

// FindRootWith is FindRoot with an optional step-size tolerance.
func FindRootWith[T Scalar](f, fPrime Func[T], x0 T, opts Options) (T, error) {
	var zero T
	if opts.MaxIterations < 0 {
		return zero, fmt.Errorf("%w: %d", ErrInvalidIterations, opts.MaxIterations)
	}
	x := x0
	for i := 0; i < opts.MaxIterations; i++ {
		next, err := Step(f, fPrime, x)
		if err != nil {
			return zero, fmt.Errorf("iteration %d: %w", i+1, err)
		}
		done := opts.Tolerance > 0 && distance(next, x) <= opts.Tolerance
		x = next
		if done {
			break
		}
	}
	return x, nil
}

func distance[T Scalar](a, b T) float64 {
	switch v := any(a - b).(type) {
	case float64:
		return math.Abs(v)
	case complex128:
		return cmplx.Abs(v)
	}
	return math.Inf(1)
}

// Round rounds x to the given number of significant digits. Non-finite
// values and digits <= 0 are returned unchanged.
func Round(x float64, digits int) float64 {
	if digits <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'g', digits, 64), 64)
	if err != nil {
		return x
	}
	return r
}
