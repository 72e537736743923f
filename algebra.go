package ccalc

// ============================================================
// Expansion
// ============================================================

// Expand distributes products over sums and expands small integer powers
// of sums.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()) }

const maxExpandPower = 16

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = expandExpr(t)
		}
		return AddOf(terms...)
	case *Mul:
		acc := Expr(N(1))
		for _, f := range v.factors {
			acc = expandProduct(acc, expandExpr(f))
		}
		return acc
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && !n.inexact {
			k := n.val.Num().Int64()
			if _, isAdd := base.(*Add); isAdd && k >= 2 && k <= maxExpandPower {
				acc := base
				for i := int64(1); i < k; i++ {
					acc = expandProduct(acc, base)
				}
				return acc
			}
		}
		return PowOf(base, v.exp)
	case *Func:
		return funcOf(v.name, expandExpr(v.arg)).Simplify()
	}
	return e
}

// expandProduct multiplies two expanded expressions term by term.
func expandProduct(a, b Expr) Expr {
	at, bt := addTerms(a), addTerms(b)
	out := make([]Expr, 0, len(at)*len(bt))
	for _, x := range at {
		for _, y := range bt {
			out = append(out, MulOf(x, y))
		}
	}
	return AddOf(out...)
}

// Collect regroups a polynomial in name by descending powers.
func Collect(e Expr, name string) Expr {
	p, ok := polyOf(e, name)
	if !ok {
		return e.Simplify()
	}
	return p.toExpr(name)
}

// ============================================================
// Trig identities and repeated simplification
// ============================================================

// TrigSimplify applies sin(u)**2 + cos(u)**2 = 1 and
// cosh(u)**2 - sinh(u)**2 = 1 throughout e.
func TrigSimplify(e Expr) Expr {
	return trigSimplifyExpr(e.Simplify()).Simplify()
}

func trigSimplifyExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = trigSimplifyExpr(t)
		}
		return trigFindPythagorean(AddOf(terms...))
	case *Mul:
		fs := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			fs[i] = trigSimplifyExpr(f)
		}
		return MulOf(fs...)
	case *Pow:
		return PowOf(trigSimplifyExpr(v.base), v.exp)
	case *Func:
		return funcOf(v.name, trigSimplifyExpr(v.arg)).Simplify()
	}
	return e
}

func trigFindPythagorean(e Expr) Expr {
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	type trigTerm struct {
		name  string
		arg   string
		coeff *Num
		idx   int
	}
	var found []trigTerm
	for idx, t := range add.terms {
		coeff, inner := extractCoefficient(t)
		p, ok := inner.(*Pow)
		if !ok {
			continue
		}
		fn, ok := p.base.(*Func)
		if !ok || !isNumEqual(p.exp, 2) {
			continue
		}
		switch fn.name {
		case "sin", "cos", "sinh", "cosh":
			found = append(found, trigTerm{fn.name, fn.arg.String(), coeff, idx})
		}
	}
	// pairs (a, b, sign) such that a**2 + sign*b**2 = 1
	pairs := map[[2]string]int64{
		{"sin", "cos"}:   1,
		{"cos", "sin"}:   1,
		{"cosh", "sinh"}: -1,
	}
	for i := range found {
		for j := range found {
			if i == j || found[i].arg != found[j].arg {
				continue
			}
			sign, ok := pairs[[2]string{found[i].name, found[j].name}]
			if !ok || numCmp(numMul(found[i].coeff, N(sign)), found[j].coeff) != 0 {
				continue
			}
			terms := []Expr{}
			for idx, t := range add.terms {
				if idx != found[i].idx && idx != found[j].idx {
					terms = append(terms, t)
				}
			}
			terms = append(terms, found[i].coeff)
			return trigFindPythagorean(AddOf(terms...))
		}
	}
	return e
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}

// DeepSimplify repeats simplification and trig passes until the printed
// form stops changing.
func DeepSimplify(e Expr) Expr {
	prev := ""
	curr := e.Simplify()
	for i := 0; i < 10; i++ {
		s := curr.String()
		if s == prev {
			break
		}
		prev = s
		curr = TrigSimplify(curr)
	}
	return curr
}

// ============================================================
// Rational functions
// ============================================================

// Cancel removes the polynomial greatest common divisor from the
// numerator and denominator of e, a quotient of polynomials in name.
// Anything else is returned simplified but otherwise unchanged.
func Cancel(e Expr, name string) Expr {
	e = e.Simplify()
	num, den, ok := extractQuotient(e)
	if !ok {
		return e
	}
	pn, ok1 := polyOf(num, name)
	pd, ok2 := polyOf(den, name)
	if !ok1 || !ok2 || len(pd) == 0 {
		return e
	}
	g := pn.gcd(pd)
	if g.degree() < 1 {
		return e
	}
	qn, _ := pn.divmod(g)
	qd, _ := pd.divmod(g)
	if qd.degree() == 0 {
		return MulOf(qn.toExpr(name), numRecip(ratNum(qd[0])))
	}
	return MulOf(qn.toExpr(name), PowOf(qd.toExpr(name), N(-1)))
}

// SimplifyFull tries the available rewrites (trig identities, expansion,
// polynomial cancellation) and keeps the shortest result.
func SimplifyFull(e Expr) Expr {
	base := e.Simplify()
	candidates := []Expr{base}
	trig := DeepSimplify(base)
	candidates = append(candidates, trig, Expand(trig))
	if syms := SortedSymbols(trig); len(syms) == 1 {
		candidates = append(candidates, Cancel(trig, syms[0]))
		if Degree(trig, syms[0]) > 0 {
			candidates = append(candidates, Collect(trig, syms[0]))
		}
	}
	best := candidates[0]
	bestLen := len(best.String())
	for _, c := range candidates[1:] {
		if l := len(c.String()); l < bestLen {
			best, bestLen = c, l
		}
	}
	return best
}
