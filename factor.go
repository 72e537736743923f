package ccalc

import "math/big"

// FactorResult holds the result of a factoring attempt. Factors multiply
// back to the input; Success is false when nothing could be split off.
type FactorResult struct {
	Factors []Expr
	Success bool
}

// Expr returns the factored product in display order.
func (r FactorResult) Expr() Expr {
	switch len(r.Factors) {
	case 0:
		return N(1)
	case 1:
		return r.Factors[0]
	}
	return &Mul{factors: r.Factors}
}

// Factor factors a polynomial in name over the rationals. It pulls out
// the content, then every rational root (zero roots, differences of
// squares, perfect squares and sums or differences of cubes all reduce
// to this), and leaves any irreducible remainder as a single factor.
// Quotients are factored in numerator and denominator separately.
func Factor(e Expr, name string) FactorResult {
	e = e.Simplify()
	if num, den, ok := extractQuotient(e); ok {
		fn := Factor(num, name)
		fd := Factor(den, name)
		if !fn.Success && !fd.Success {
			return FactorResult{Factors: []Expr{e}}
		}
		fs := append([]Expr{}, fn.Factors...)
		for _, f := range fd.Factors {
			fs = append(fs, invert(f))
		}
		return FactorResult{Factors: fs, Success: true}
	}
	p, ok := polyOf(e, name)
	if !ok || p.degree() < 1 {
		return FactorResult{Factors: []Expr{e}}
	}

	roots, mult, rest := p.rationalRoots()
	x := S(name)
	var factors []Expr
	// lead(p) = c * prod(q_i**m_i) * lead(primitive rest)
	c := new(big.Rat).Set(p.lead())
	for i, r := range roots {
		q := new(big.Int).Set(r.Denom())
		lin := AddOf(MulOf(ratNum(new(big.Rat).SetInt(q)), x), ratNum(new(big.Rat).Neg(new(big.Rat).SetInt(r.Num()))))
		qm := new(big.Rat).SetInt(new(big.Int).Exp(q, big.NewInt(int64(mult[i])), nil))
		c.Quo(c, qm)
		factors = append(factors, rawPow(lin, N(int64(mult[i]))))
	}
	if rest.degree() >= 1 {
		_, prim := rest.primitive()
		c.Quo(c, prim.lead())
		factors = append(factors, prim.toExpr(name))
	}
	if len(roots) == 0 || (len(roots) == 1 && mult[0] == 1 && rest.degree() < 1) {
		if c.Cmp(big.NewRat(1, 1)) == 0 {
			return FactorResult{Factors: []Expr{e}}
		}
	}
	if c.Cmp(big.NewRat(1, 1)) != 0 {
		factors = append([]Expr{ratNum(c)}, factors...)
	}
	return FactorResult{Factors: factors, Success: true}
}

func invert(f Expr) Expr {
	switch v := f.(type) {
	case *Num:
		return numRecip(v)
	case *Pow:
		if n, ok := v.exp.(*Num); ok {
			return &Pow{base: v.base, exp: numNeg(n)}
		}
	}
	return &Pow{base: f, exp: N(-1)}
}
