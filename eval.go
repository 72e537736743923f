package ccalc

import (
	"fmt"
	"math"
)

// Evaluate returns the value of e at name = x. It fails with
// ErrNotNumeric when e has other free variables, leaves the real domain
// or divides by zero.
func Evaluate(e Expr, name string, x float64) (float64, error) {
	v, ok := evalFloat(e, name, x)
	if !ok {
		return 0, fmt.Errorf("%w: %s at %s = %v", ErrNotNumeric, e, name, x)
	}
	return v, nil
}

// evalFloat walks the tree in float64 arithmetic. It is the fast path
// for numeric work (quadrature, root scans, limit sampling).
func evalFloat(e Expr, name string, x float64) (float64, bool) {
	var r float64
	switch v := e.(type) {
	case *Num:
		r = v.Float64()
	case *Sym:
		if v.name != name {
			return 0, false
		}
		r = x
	case *Const:
		r = v.value
	case *Add:
		for _, t := range v.terms {
			tv, ok := evalFloat(t, name, x)
			if !ok {
				return 0, false
			}
			r += tv
		}
	case *Mul:
		r = 1
		for _, f := range v.factors {
			fv, ok := evalFloat(f, name, x)
			if !ok {
				return 0, false
			}
			r *= fv
		}
	case *Pow:
		b, ok := evalFloat(v.base, name, x)
		if !ok {
			return 0, false
		}
		p, ok := evalFloat(v.exp, name, x)
		if !ok {
			return 0, false
		}
		if b == 0 && p < 0 {
			return 0, false
		}
		r = math.Pow(b, p)
	case *Func:
		a, ok := evalFloat(v.arg, name, x)
		if !ok {
			return 0, false
		}
		fn, ok := floatFuncs[v.name]
		if !ok {
			return 0, false
		}
		r = fn(a)
	default:
		return 0, false
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// floatFunc adapts e to a plain numeric function of name.
func floatFunc(e Expr, name string) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return Evaluate(e, name, x) }
}
