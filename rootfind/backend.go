package rootfind

import "fmt"

// Backend is the expression capability Solve consumes. E is opaque to
// this package; it is only handed back to the backend.
type Backend[E any] interface {
	Parse(text string) (E, error)
	Differentiate(expr E, variable string) (E, error)
	Evaluate(expr E, variable string, point float64) (float64, error)
}

// Functions parses text, differentiates it once with respect to variable
// and returns numeric evaluators for the expression and its derivative.
func Functions[E any](b Backend[E], text, variable string) (f, fPrime Func[float64], err error) {
	expr, err := b.Parse(text)
	if err != nil {
		return nil, nil, err
	}
	deriv, err := b.Differentiate(expr, variable)
	if err != nil {
		return nil, nil, fmt.Errorf("differentiate %q: %w", text, err)
	}
	f = func(x float64) (float64, error) { return b.Evaluate(expr, variable, x) }
	fPrime = func(x float64) (float64, error) { return b.Evaluate(deriv, variable, x) }
	return f, fPrime, nil
}

// Solve runs FindRootWith on the function described by text.
func Solve[E any](b Backend[E], text, variable string, x0 float64, opts Options) (float64, error) {
	f, fPrime, err := Functions(b, text, variable)
	if err != nil {
		return 0, err
	}
	return FindRootWith(f, fPrime, x0, opts)
}
