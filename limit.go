package ccalc

import (
	"fmt"
	"math"
	"math/big"
)

const maxLHopital = 6

// Limit computes the limit of e as name approaches point, which may be
// Oo or NegOo. Finite points are approached from the right, so 1/x at 0
// gives oo.
//
// The strategy is direct substitution, polynomial cancellation,
// L'Hopital's rule on 0/0 quotients, sign analysis for c/0, combining
// the limits of sums, products and function arguments, a Taylor
// expansion and finally numeric sampling.
func Limit(e Expr, name string, point Expr) (Expr, error) {
	e = e.Simplify()
	point = point.Simplify()
	if inf, ok := point.(*Inf); ok {
		return limitAtInfinity(e, name, inf.neg, maxLHopital)
	}
	p, ok := evalFloat(point, "", 0)
	if !ok {
		return nil, fmt.Errorf("%w: limit point %s is not a number", ErrNotNumeric, point)
	}
	return limitAt(e, name, point, p, maxLHopital)
}

func limitAt(e Expr, name string, point Expr, p float64, depth int) (Expr, error) {
	if !hasSymbol(e, name) {
		return e, nil
	}
	if sub, ok := safeSubs(e, name, point); ok && isFinite(sub) {
		return sub, nil
	}

	if num, den, ok := extractQuotient(e); ok {
		if c := Cancel(e, name); c.String() != e.String() {
			return limitAt(c, name, point, p, depth)
		}
		nv, nok := evalFloat(num, name, p)
		dv, dok := evalFloat(den, name, p)
		switch {
		case depth > 0 && nok && dok && nv == 0 && dv == 0:
			next := MulOf(Diff(num, name), PowOf(Diff(den, name), N(-1)))
			return limitAt(next, name, point, p, depth-1)
		case nok && nv != 0 && dok && dv == 0:
			return blowUp(e, name, p)
		}
	}

	sub := func(s Expr, d int) (Expr, error) { return limitAt(s, name, point, p, d) }
	near := func(s Expr) (float64, bool) { return evalFloat(s, name, p+1e-9*math.Max(1, math.Abs(p))) }
	if r, ok := limitByParts(e, name, depth, sub, near); ok {
		return r, nil
	}

	if depth > 0 {
		series := TaylorSeries(e, name, point, 4)
		if s, ok := safeSubs(series, name, point); ok && isFinite(s) {
			return s, nil
		}
	}
	return sampleLimit(e, name, p)
}

// safeSubs substitutes point for name, failing when a denominator or a
// logarithm argument becomes zero along the way.
func safeSubs(e Expr, name string, point Expr) (Expr, bool) {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			s, ok := safeSubs(t, name, point)
			if !ok {
				return nil, false
			}
			terms[i] = s
		}
		return AddOf(terms...), true
	case *Mul:
		fs := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			s, ok := safeSubs(f, name, point)
			if !ok {
				return nil, false
			}
			fs[i] = s
		}
		return MulOf(fs...), true
	case *Pow:
		b, ok := safeSubs(v.base, name, point)
		if !ok {
			return nil, false
		}
		x, ok := safeSubs(v.exp, name, point)
		if !ok {
			return nil, false
		}
		if bn, isNum := b.(*Num); isNum && bn.IsZero() {
			if xn, isNum := x.(*Num); !isNum || !xn.IsPositive() {
				return nil, false
			}
		}
		return PowOf(b, x), true
	case *Func:
		a, ok := safeSubs(v.arg, name, point)
		if !ok {
			return nil, false
		}
		if n, isNum := a.(*Num); isNum && v.name == "log" && !n.IsPositive() {
			return nil, false
		}
		return funcOf(v.name, a).Simplify(), true
	}
	return e.Subs(name, point), true
}

// isFinite reports whether a substituted value is a finite number or
// still depends on other variables.
func isFinite(e Expr) bool {
	if _, ok := e.(*Inf); ok {
		return false
	}
	if len(FreeSymbols(e)) > 0 {
		return true
	}
	if _, ok := e.Eval(); ok {
		return true
	}
	return hasConst(e, I)
}

func hasConst(e Expr, c *Const) bool {
	switch v := e.(type) {
	case *Const:
		return v == c
	case *Add:
		for _, t := range v.terms {
			if hasConst(t, c) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if hasConst(f, c) {
				return true
			}
		}
	case *Pow:
		return hasConst(v.base, c) || hasConst(v.exp, c)
	case *Func:
		return hasConst(v.arg, c)
	}
	return false
}

// blowUp resolves c/0 by the sign just to the right of p.
func blowUp(e Expr, name string, p float64) (Expr, error) {
	h := 1e-9 * math.Max(1, math.Abs(p))
	v, ok := evalFloat(e, name, p+h)
	if !ok || v == 0 {
		return nil, fmt.Errorf("%w: %s as %s -> %v", ErrNoLimit, e, name, p)
	}
	if v < 0 {
		return NegOo, nil
	}
	return Oo, nil
}

// sampleLimit approaches p numerically from the right.
func sampleLimit(e Expr, name string, p float64) (Expr, error) {
	var vals []float64
	for _, h := range []float64{1e-3, 1e-5, 1e-7} {
		v, ok := evalFloat(e, name, p+h*math.Max(1, math.Abs(p)))
		if !ok {
			return nil, fmt.Errorf("%w: %s as %s -> %v", ErrNoLimit, e, name, p)
		}
		vals = append(vals, v)
	}
	return settle(e, vals)
}

func limitAtInfinity(e Expr, name string, neg bool, depth int) (Expr, error) {
	if !hasSymbol(e, name) {
		return e, nil
	}
	num, den := e, Expr(N(1))
	if n, d, ok := extractQuotient(e); ok {
		num, den = n, d
	}
	pn, ok1 := polyOf(num, name)
	pd, ok2 := polyOf(den, name)
	if ok1 && ok2 && len(pd) > 0 {
		if len(pn) == 0 {
			return N(0), nil
		}
		ratio := new(big.Rat).Quo(pn.lead(), pd.lead())
		diff := pn.degree() - pd.degree()
		switch {
		case diff < 0:
			return N(0), nil
		case diff == 0:
			return ratNum(ratio), nil
		}
		sign := ratio.Sign()
		if neg && diff%2 == 1 {
			sign = -sign
		}
		if sign < 0 {
			return NegOo, nil
		}
		return Oo, nil
	}

	s := 1.0
	if neg {
		s = -1
	}
	sub := func(t Expr, d int) (Expr, error) { return limitAtInfinity(t, name, neg, d) }
	near := func(t Expr) (float64, bool) { return evalFloat(t, name, s*1e6) }
	if r, ok := limitByParts(e, name, depth, sub, near); ok {
		return r, nil
	}

	var vals []float64
	for _, x := range []float64{1e3, 1e6, 1e9} {
		v, ok := evalFloat(e, name, s*x)
		if !ok {
			// overflow to infinity counts as divergence in that direction
			if inf := growth(e, name, s*x); inf != nil {
				return inf, nil
			}
			return nil, fmt.Errorf("%w: %s as %s -> %s", ErrNoLimit, e, name, &Inf{neg: neg})
		}
		vals = append(vals, v)
	}
	if a, b, c := math.Abs(vals[0]), math.Abs(vals[1]), math.Abs(vals[2]); c > 1e8 && c > b && b > a {
		if vals[2] < 0 {
			return NegOo, nil
		}
		return Oo, nil
	}
	return settle(e, vals)
}

// growth reports an infinite value when evaluation overflowed with a
// definite sign.
func growth(e Expr, name string, x float64) Expr {
	var r float64
	switch v := e.(type) {
	case *Func:
		switch v.name {
		case "exp":
			a, ok := evalFloat(v.arg, name, x)
			if !ok || a < 0 {
				return nil
			}
		case "log":
			if growth(v.arg, name, x) != Oo {
				return nil
			}
		default:
			return nil
		}
		r = math.Inf(1)
	case *Mul:
		sign := 1.0
		for _, f := range v.factors {
			if fv, ok := evalFloat(f, name, x); ok {
				if fv == 0 {
					return nil
				}
				sign *= math.Copysign(1, fv)
				continue
			}
			if growth(f, name, x) == nil {
				return nil
			}
		}
		r = math.Copysign(math.Inf(1), sign)
	default:
		return nil
	}
	if r < 0 {
		return NegOo
	}
	return Oo
}

// limitByParts combines the limits of the parts of e, computed with lim.
// near evaluates an expression just inside the approach. A product of
// vanishing and unbounded parts is rewritten as the unbounded parts over
// the reciprocals of the vanishing ones and passed to L'Hopital's rule.
func limitByParts(e Expr, name string, depth int, lim func(Expr, int) (Expr, error), near func(Expr) (float64, bool)) (Expr, bool) {
	switch v := e.(type) {
	case *Add:
		var finite []Expr
		var inf *Inf
		for _, t := range v.terms {
			l, err := lim(t, depth)
			if err != nil {
				return nil, false
			}
			if i, ok := l.(*Inf); ok {
				if inf != nil && inf.neg != i.neg {
					return nil, false
				}
				inf = i
				continue
			}
			finite = append(finite, l)
		}
		if inf != nil {
			return inf, true
		}
		return AddOf(finite...), true

	case *Mul:
		var zeros, infs, rest []Expr
		neg := false
		for _, f := range v.factors {
			l, err := lim(f, depth)
			if err != nil {
				return nil, false
			}
			if i, ok := l.(*Inf); ok {
				infs = append(infs, f)
				neg = neg != i.neg
				continue
			}
			if n, ok := l.(*Num); ok && n.IsZero() {
				zeros = append(zeros, f)
				continue
			}
			rest = append(rest, l)
		}
		switch {
		case len(zeros) > 0 && len(infs) == 0:
			return N(0), true
		case len(infs) > 0 && len(zeros) == 0:
			return scaleLimit(rest, &Inf{neg: neg})
		case len(zeros) == 0:
			return MulOf(rest...), true
		case depth <= 0:
			return nil, false
		}
		recips := make([]Expr, len(zeros))
		for i, z := range zeros {
			recips[i] = PowOf(z, N(-1))
		}
		num, den := MulOf(infs...), MulOf(recips...)
		l, err := lim(MulOf(Diff(num, name), PowOf(Diff(den, name), N(-1))), depth-1)
		if err != nil {
			return nil, false
		}
		return scaleLimit(rest, l)

	case *Pow:
		en, ok := v.exp.(*Num)
		if !ok {
			return nil, false
		}
		b, err := lim(v.base, depth)
		if err != nil {
			return nil, false
		}
		if i, ok := b.(*Inf); ok {
			switch {
			case en.IsNegative():
				return N(0), true
			case !i.neg:
				return Oo, true
			case en.IsInteger() && !en.inexact:
				if new(big.Int).And(en.val.Num(), big.NewInt(1)).Sign() == 0 {
					return Oo, true
				}
				return NegOo, true
			}
			return nil, false
		}
		if bn, ok := b.(*Num); ok && bn.IsZero() {
			if en.IsPositive() {
				return N(0), true
			}
			return nil, false
		}
		r := PowOf(b, en)
		return r, isFinite(r)

	case *Func:
		inner, err := lim(v.arg, depth)
		if err != nil {
			return nil, false
		}
		return funcLimit(v, inner, near)
	}
	return nil, false
}

// funcLimit is the limit of f when its argument tends to inner.
func funcLimit(f *Func, inner Expr, near func(Expr) (float64, bool)) (Expr, bool) {
	if i, ok := inner.(*Inf); ok {
		switch f.name {
		case "exp":
			if i.neg {
				return N(0), true
			}
			return Oo, true
		case "log":
			if !i.neg {
				return Oo, true
			}
		case "atan":
			if i.neg {
				return MulOf(F(-1, 2), Pi), true
			}
			return MulOf(F(1, 2), Pi), true
		case "tanh":
			if i.neg {
				return N(-1), true
			}
			return N(1), true
		}
		return nil, false
	}
	switch f.name {
	case "floor", "ceil", "sign":
		// not continuous
		return nil, false
	case "log":
		if n, ok := inner.(*Num); ok && n.IsZero() {
			if v, ok := near(f.arg); ok && v > 0 {
				return NegOo, true
			}
			return nil, false
		}
	}
	r := funcOf(f.name, inner).Simplify()
	return r, isFinite(r)
}

// scaleLimit multiplies the limit l by the product of the finite limits
// in factors.
func scaleLimit(factors []Expr, l Expr) (Expr, bool) {
	if len(factors) == 0 {
		return l, true
	}
	k := MulOf(factors...)
	if inf, ok := l.(*Inf); ok {
		v, ok := evalFloat(k, "", 0)
		if !ok || v == 0 {
			return nil, false
		}
		return &Inf{neg: inf.neg != (v < 0)}, true
	}
	return MulOf(k, l), true
}

// settle turns a converging numeric sequence into a value. Values that
// land on an integer or a simple fraction are reported exactly.
func settle(e Expr, vals []float64) (Expr, error) {
	last := vals[len(vals)-1]
	prev := vals[len(vals)-2]
	if math.Abs(last-prev) > 1e-4*math.Max(1, math.Abs(last)) {
		return nil, fmt.Errorf("%w: %s does not settle", ErrNoLimit, e)
	}
	if math.Abs(last) < 1e-6 {
		return N(0), nil
	}
	for _, c := range []*Const{E, Pi} {
		if math.Abs(last-c.value) < 1e-6 {
			return c, nil
		}
	}
	for q := int64(1); q <= 12; q++ {
		pq := last * float64(q)
		if r := math.Round(pq); math.Abs(pq-r) < 1e-6*float64(q) {
			return F(int64(r), q), nil
		}
	}
	return NFloat(roundSig(last, 6)), nil
}

func roundSig(x float64, digits int) float64 {
	if x == 0 {
		return 0
	}
	scale := math.Pow(10, float64(digits)-math.Ceil(math.Log10(math.Abs(x))))
	return math.Round(x*scale) / scale
}
