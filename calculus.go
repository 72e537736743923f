package ccalc

import (
	"fmt"
	"math"
)

// ============================================================
// Differentiation
// ============================================================

// Diff returns d(e)/d(name).
func Diff(e Expr, name string) Expr { return e.Diff(name).Simplify() }

// DiffN returns the n-th derivative of e. n <= 0 returns e simplified.
func DiffN(e Expr, name string, n int) Expr {
	out := e.Simplify()
	for i := 0; i < n; i++ {
		out = Diff(out, name)
	}
	return out
}

// ============================================================
// Integration
// ============================================================

// Integrate returns an antiderivative of e with respect to name, without
// the constant of integration. It fails with ErrUnsupported when none of
// its rules apply.
func Integrate(e Expr, name string) (Expr, error) {
	r, ok := integrate(e.Simplify(), name)
	if !ok {
		return nil, fmt.Errorf("%w: cannot integrate %s with respect to %s", ErrUnsupported, e, name)
	}
	return r.Simplify(), nil
}

func integrate(e Expr, name string) (Expr, bool) {
	x := S(name)
	if !hasSymbol(e, name) {
		return MulOf(e, x), true
	}
	switch v := e.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(x, N(2))), true
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			it, ok := integrate(t, name)
			if !ok {
				return nil, false
			}
			terms[i] = it
		}
		return AddOf(terms...), true
	case *Mul:
		var consts, deps []Expr
		for _, f := range v.factors {
			if hasSymbol(f, name) {
				deps = append(deps, f)
			} else {
				consts = append(consts, f)
			}
		}
		if len(deps) == 1 {
			inner, ok := integrate(deps[0], name)
			if !ok {
				return nil, false
			}
			return MulOf(append(consts, inner)...), true
		}
		if expanded := Expand(e); expanded.String() != e.String() {
			return integrate(expanded, name)
		}
		return nil, false
	case *Pow:
		if !hasSymbol(v.exp, name) {
			a, ok := linearSlope(v.base, name)
			if !ok {
				return nil, false
			}
			if isNumEqual(v.exp, -1) {
				return MulOf(PowOf(a, N(-1)), LogOf(v.base)), true
			}
			n1 := AddOf(v.exp, N(1))
			return MulOf(PowOf(MulOf(a, n1), N(-1)), PowOf(v.base, n1)), true
		}
		if !hasSymbol(v.base, name) {
			a, ok := linearSlope(v.exp, name)
			if !ok {
				return nil, false
			}
			return MulOf(e, PowOf(MulOf(a, LogOf(v.base)), N(-1))), true
		}
		return nil, false
	case *Func:
		return integrateFunc(v, name)
	}
	return nil, false
}

// linearSlope returns a when e = a*name + b with a constant and non-zero.
func linearSlope(e Expr, name string) (Expr, bool) {
	a := Diff(e, name)
	if hasSymbol(a, name) {
		return nil, false
	}
	if n, ok := a.(*Num); ok && n.IsZero() {
		return nil, false
	}
	return a, true
}

func integrateFunc(f *Func, name string) (Expr, bool) {
	u := f.arg
	x := S(name)
	if sym, ok := u.(*Sym); ok && sym.name == name {
		switch f.name {
		case "asin":
			return AddOf(MulOf(x, AsinOf(x)), SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(x, N(2)))))), true
		case "acos":
			return AddOf(MulOf(x, AcosOf(x)), MulOf(N(-1), SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(x, N(2))))))), true
		case "atan":
			return AddOf(MulOf(x, AtanOf(x)), MulOf(F(-1, 2), LogOf(AddOf(N(1), PowOf(x, N(2)))))), true
		}
	}
	a, ok := linearSlope(u, name)
	if !ok {
		return nil, false
	}
	var r Expr
	switch f.name {
	case "sin":
		r = MulOf(N(-1), CosOf(u))
	case "cos":
		r = SinOf(u)
	case "tan":
		r = MulOf(N(-1), LogOf(CosOf(u)))
	case "exp":
		r = ExpOf(u)
	case "log":
		r = AddOf(MulOf(u, LogOf(u)), MulOf(N(-1), u))
	case "sinh":
		r = CoshOf(u)
	case "cosh":
		r = SinhOf(u)
	case "tanh":
		r = LogOf(CoshOf(u))
	default:
		return nil, false
	}
	return MulOf(PowOf(a, N(-1)), r), true
}

// 10-point Gauss-Legendre nodes and weights on [-1, 1].
var (
	glNodes = [10]float64{
		-0.9739065285171717, -0.8650633666889845, -0.6794095682990244,
		-0.4333953941292472, -0.1488743389816312, 0.1488743389816312,
		0.4333953941292472, 0.6794095682990244, 0.8650633666889845, 0.9739065285171717,
	}
	glWeights = [10]float64{
		0.0666713443086881, 0.1494513491505806, 0.2190863625159820,
		0.2692667193099963, 0.2955242247147529, 0.2955242247147529,
		0.2692667193099963, 0.2190863625159820, 0.1494513491505806, 0.0666713443086881,
	}
)

const quadPanels = 16

// DefiniteIntegrate approximates the integral of e over [a, b] with
// composite 10-point Gauss-Legendre quadrature. It fails with
// ErrNotNumeric when e cannot be evaluated at a node or changes sign
// across a pole inside the interval.
func DefiniteIntegrate(e Expr, name string, a, b float64) (float64, error) {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return 0, fmt.Errorf("%w: integration bounds must be finite", ErrUnsupported)
	}
	e = e.Simplify()
	width := (b - a) / quadPanels
	xs := make([]float64, 0, quadPanels*len(glNodes))
	vs := make([]float64, 0, quadPanels*len(glNodes))
	sum := 0.0
	for k := 0; k < quadPanels; k++ {
		lo := a + float64(k)*width
		mid := lo + width/2
		half := width / 2
		panel := 0.0
		for i, t := range glNodes {
			x := mid + half*t
			v, ok := evalFloat(e, name, x)
			if !ok {
				return 0, fmt.Errorf("%w: %s at %s = %v", ErrNotNumeric, e, name, x)
			}
			xs, vs = append(xs, x), append(vs, v)
			panel += glWeights[i] * v
		}
		sum += half * panel
	}

	scale := 0.0
	for _, v := range vs {
		scale = math.Max(scale, math.Abs(v))
	}
	for i := 1; i < len(vs); i++ {
		if (vs[i-1] < 0) != (vs[i] < 0) && vs[i-1] != 0 && vs[i] != 0 && poleBetween(e, name, xs[i-1], xs[i], vs[i-1], vs[i], scale) {
			return 0, fmt.Errorf("%w: %s has a pole between %s = %v and %v", ErrNotNumeric, e, name, xs[i-1], xs[i])
		}
	}
	return sum, nil
}

// poleBetween bisects the sign change of e between x0 and x1 and reports
// whether it is an unbounded jump rather than a root. Values beyond a
// million times scale count as unbounded.
func poleBetween(e Expr, name string, x0, x1, v0, v1, scale float64) bool {
	for {
		m := x0 + (x1-x0)/2
		if m == x0 || m == x1 {
			break
		}
		v, ok := evalFloat(e, name, m)
		switch {
		case !ok:
			return true
		case v == 0:
			return false
		case (v < 0) == (v0 < 0):
			x0, v0 = m, v
		default:
			x1, v1 = m, v
		}
	}
	return math.Min(math.Abs(v0), math.Abs(v1)) > 1e6*math.Max(scale, 1)
}

// ============================================================
// Taylor series
// ============================================================

// TaylorSeries returns the Taylor polynomial of e around a up to and
// including the term of degree order, lowest degree first.
func TaylorSeries(e Expr, name string, a Expr, order int) Expr {
	terms := taylorTerms(e, name, a, order)
	switch len(terms) {
	case 0:
		return N(0)
	case 1:
		return terms[0]
	}
	return &Add{terms: terms}
}

// TaylorSeriesWithRemainder appends the O((name - a)**(order+1)) term.
func TaylorSeriesWithRemainder(e Expr, name string, a Expr, order int) Expr {
	terms := append(taylorTerms(e, name, a, order), OTerm(name, a, order+1))
	if len(terms) == 1 {
		return terms[0]
	}
	return &Add{terms: terms}
}

func taylorTerms(e Expr, name string, a Expr, order int) []Expr {
	var terms []Expr
	current := e.Simplify()
	factorial := N(1)
	shift := AddOf(S(name), MulOf(N(-1), a))
	for k := 0; k <= order; k++ {
		if k > 0 {
			factorial = numMul(factorial, N(int64(k)))
			current = Diff(current, name)
		}
		coeff := MulOf(current.Subs(name, a), numRecip(factorial))
		if n, ok := coeff.(*Num); ok && n.IsZero() {
			continue
		}
		terms = append(terms, MulOf(coeff, PowOf(shift, N(int64(k)))))
	}
	return terms
}
