package ccalc

import "errors"

var (
	// ErrParse reports malformed expression text.
	ErrParse = errors.New("parse error")

	// ErrUnsupported is returned when no rule of the kernel applies,
	// for example an integral with no known antiderivative.
	ErrUnsupported = errors.New("unsupported")

	// ErrNotNumeric is returned when an expression does not reduce to a
	// finite number at the requested point.
	ErrNotNumeric = errors.New("expression is not numeric")

	// ErrNoSolution is returned by Solve when no root could be found.
	ErrNoSolution = errors.New("no solution")

	// ErrInfiniteSolutions is returned by Solve for identities such as x = x.
	ErrInfiniteSolutions = errors.New("every value is a solution")

	// ErrNoLimit is returned by Limit when the limit does not exist or
	// cannot be determined.
	ErrNoLimit = errors.New("limit could not be determined")
)
