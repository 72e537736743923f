package ccalc

import (
	"math/big"
	"sort"
)

// poly is a univariate polynomial with rational coefficients; index i
// holds the coefficient of x**i.
type poly []*big.Rat

// polyOf converts e into a polynomial in name. ok is false when e is not
// a polynomial in name with exact rational coefficients.
func polyOf(e Expr, name string) (poly, bool) {
	var p poly
	for _, t := range addTerms(Expand(e)) {
		coeff, deg, ok := monomial(t, name)
		if !ok {
			return nil, false
		}
		for len(p) <= deg {
			p = append(p, new(big.Rat))
		}
		p[deg].Add(p[deg], coeff)
	}
	return p.trim(), true
}

func monomial(t Expr, name string) (*big.Rat, int, bool) {
	coeff := big.NewRat(1, 1)
	deg := 0
	factors := []Expr{t}
	if m, ok := t.(*Mul); ok {
		factors = m.factors
	}
	for _, f := range factors {
		switch v := f.(type) {
		case *Num:
			if v.inexact {
				return nil, 0, false
			}
			coeff.Mul(coeff, v.val)
		case *Sym:
			if v.name != name {
				return nil, 0, false
			}
			deg++
		case *Pow:
			s, ok := v.base.(*Sym)
			n, ok2 := v.exp.(*Num)
			if !ok || !ok2 || s.name != name || !n.IsInteger() || n.IsNegative() || !n.val.Num().IsInt64() {
				return nil, 0, false
			}
			deg += int(n.val.Num().Int64())
		default:
			return nil, 0, false
		}
	}
	return coeff, deg, true
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

func (p poly) trim() poly {
	for len(p) > 0 && p[len(p)-1].Sign() == 0 {
		p = p[:len(p)-1]
	}
	return p
}

// degree is -1 for the zero polynomial.
func (p poly) degree() int { return len(p) - 1 }

func (p poly) lead() *big.Rat {
	if len(p) == 0 {
		return new(big.Rat)
	}
	return p[len(p)-1]
}

func (p poly) eval(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[i])
	}
	return acc
}

func (p poly) scale(c *big.Rat) poly {
	out := make(poly, len(p))
	for i, v := range p {
		out[i] = new(big.Rat).Mul(v, c)
	}
	return out.trim()
}

// divmod divides p by d, which must be non-zero.
func (p poly) divmod(d poly) (q, r poly) {
	r = make(poly, len(p))
	for i, v := range p {
		r[i] = new(big.Rat).Set(v)
	}
	r = r.trim()
	if len(r) < len(d) {
		return poly{}, r
	}
	q = make(poly, len(r)-len(d)+1)
	for i := range q {
		q[i] = new(big.Rat)
	}
	for len(r) >= len(d) && len(r) > 0 {
		shift := len(r) - len(d)
		c := new(big.Rat).Quo(r.lead(), d.lead())
		q[shift] = c
		for i, dv := range d {
			t := new(big.Rat).Mul(c, dv)
			r[i+shift].Sub(r[i+shift], t)
		}
		r = r[:len(r)-1].trim()
	}
	return q.trim(), r
}

// gcd returns the monic greatest common divisor of p and q.
func (p poly) gcd(q poly) poly {
	a, b := p, q
	for len(b) > 0 {
		_, r := a.divmod(b)
		a, b = b, r
	}
	if len(a) == 0 {
		return a
	}
	return a.scale(new(big.Rat).Inv(a.lead()))
}

// deflate divides p by (x - r), assuming r is a root.
func (p poly) deflate(r *big.Rat) poly {
	q, _ := p.divmod(poly{new(big.Rat).Neg(r), big.NewRat(1, 1)})
	return q
}

// toExpr renders p as an expression in name.
func (p poly) toExpr(name string) Expr {
	terms := make([]Expr, 0, len(p))
	for i, c := range p {
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, MulOf(ratNum(new(big.Rat).Set(c)), PowOf(S(name), N(int64(i)))))
	}
	return AddOf(terms...)
}

// primitive splits p into content*q where q has coprime integer
// coefficients and a positive leading coefficient.
func (p poly) primitive() (*big.Rat, poly) {
	if len(p) == 0 {
		return big.NewRat(1, 1), p
	}
	lcm := big.NewInt(1)
	for _, c := range p {
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	g := new(big.Int)
	for _, c := range p {
		n := new(big.Int).Mul(c.Num(), new(big.Int).Quo(lcm, c.Denom()))
		g.GCD(nil, nil, g, new(big.Int).Abs(n))
	}
	content := new(big.Rat).SetFrac(g, lcm)
	if p.lead().Sign() < 0 {
		content.Neg(content)
	}
	return content, p.scale(new(big.Rat).Inv(content))
}

// rationalRoots finds every rational root of p with its multiplicity,
// largest root first, and returns what is left after dividing them out.
// Candidates come from the rational root theorem and are only tried when
// the constant and leading coefficients are small enough to enumerate.
func (p poly) rationalRoots() (roots []*big.Rat, mult []int, rest poly) {
	rest = p
	add := func(r *big.Rat) {
		for i, have := range roots {
			if have.Cmp(r) == 0 {
				mult[i]++
				return
			}
		}
		roots = append(roots, r)
		mult = append(mult, 1)
	}
	for rest.degree() > 0 && rest[0].Sign() == 0 {
		add(new(big.Rat))
		rest = rest[1:]
	}
	for rest.degree() > 0 {
		_, prim := rest.primitive()
		a0 := new(big.Int).Abs(prim[0].Num())
		an := new(big.Int).Abs(prim.lead().Num())
		if !a0.IsInt64() || !an.IsInt64() || a0.Int64() > 1e6 || an.Int64() > 1e6 {
			break
		}
		found := false
		for _, ps := range divisors(a0.Int64()) {
			for _, qs := range divisors(an.Int64()) {
				for _, sign := range []int64{1, -1} {
					r := big.NewRat(sign*ps, qs)
					if rest.eval(r).Sign() == 0 {
						add(r)
						rest = rest.deflate(r)
						found = true
						break
					}
				}
				if found {
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			break
		}
	}
	order := make([]int, len(roots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return roots[order[i]].Cmp(roots[order[j]]) > 0 })
	sortedRoots := make([]*big.Rat, len(roots))
	sortedMult := make([]int, len(roots))
	for i, k := range order {
		sortedRoots[i] = roots[k]
		sortedMult[i] = mult[k]
	}
	return sortedRoots, sortedMult, rest
}

func divisors(n int64) []int64 {
	var small, large []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			small = append(small, d)
			if d*d != n {
				large = append([]int64{n / d}, large...)
			}
		}
	}
	return append(small, large...)
}

// Degree returns the degree of e as a polynomial in name, or -1 when e
// is not such a polynomial.
func Degree(e Expr, name string) int {
	p, ok := polyOf(e, name)
	if !ok {
		return -1
	}
	if len(p) == 0 {
		return 0
	}
	return p.degree()
}

// PolyCoeffs returns the non-zero coefficients of e by degree.
func PolyCoeffs(e Expr, name string) (map[int]*Num, bool) {
	p, ok := polyOf(e, name)
	if !ok {
		return nil, false
	}
	out := map[int]*Num{}
	for i, c := range p {
		if c.Sign() != 0 {
			out[i] = ratNum(new(big.Rat).Set(c))
		}
	}
	return out, true
}
