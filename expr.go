package ccalc

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// Expr is a node of a symbolic expression tree. Values are immutable;
// every operation returns a new tree.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Subs(name string, value Expr) Expr
	Diff(name string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]any
}

// ============================================================
// Sym
// ============================================================

// Sym is a free variable.
type Sym struct{ name string }

// S returns the symbol name.
func S(name string) *Sym               { return &Sym{name: name} }
func (s *Sym) Simplify() Expr          { return s }
func (s *Sym) String() string          { return s.name }
func (s *Sym) LaTeX() string           { return s.name }
func (s *Sym) Eval() (*Num, bool)      { return nil, false }
func (s *Sym) Equal(other Expr) bool   { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string        { return "sym" }
func (s *Sym) Name() string            { return s.name }
func (s *Sym) toJSON() map[string]any  { return map[string]any{"type": "sym", "name": s.name} }
func (s *Sym) Subs(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}
func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const
// ============================================================

// Const is a named mathematical constant.
type Const struct {
	name  string
	latex string
	value float64
}

var (
	Pi = &Const{name: "pi", latex: `\pi`, value: math.Pi}
	E  = &Const{name: "E", latex: "e", value: math.E}
	// I is the imaginary unit. It has no real value, so Eval fails on it.
	I = &Const{name: "I", latex: "i", value: math.NaN()}
)

func (c *Const) Simplify() Expr         { return c }
func (c *Const) String() string         { return c.name }
func (c *Const) LaTeX() string          { return c.latex }
func (c *Const) Subs(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr       { return N(0) }
func (c *Const) Eval() (*Num, bool)     { return floatNum(c.value) }
func (c *Const) Equal(other Expr) bool  { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string       { return "const" }
func (c *Const) toJSON() map[string]any { return map[string]any{"type": "const", "name": c.name} }

// ============================================================
// Inf
// ============================================================

// Inf is positive or negative infinity. It only appears as a limit point
// or a limit value.
type Inf struct{ neg bool }

var (
	Oo    = &Inf{}
	NegOo = &Inf{neg: true}
)

func (n *Inf) Simplify() Expr         { return n }
func (n *Inf) Subs(string, Expr) Expr { return n }
func (n *Inf) Diff(string) Expr       { return N(0) }
func (n *Inf) Eval() (*Num, bool)     { return nil, false }
func (n *Inf) Equal(other Expr) bool  { o, ok := other.(*Inf); return ok && n.neg == o.neg }
func (n *Inf) exprType() string       { return "inf" }
func (n *Inf) Negative() bool         { return n.neg }
func (n *Inf) toJSON() map[string]any { return map[string]any{"type": "inf", "negative": n.neg} }
func (n *Inf) String() string {
	if n.neg {
		return "-oo"
	}
	return "oo"
}
func (n *Inf) LaTeX() string {
	if n.neg {
		return `-\infty`
	}
	return `\infty`
}

// ============================================================
// Add
// ============================================================

// Add is a sum of terms.
type Add struct{ terms []Expr }

// AddOf returns the simplified sum of terms.
func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	type group struct {
		coeff *Num
		rest  Expr
	}
	numAccum := N(0)
	var inf *Inf
	var orders []Expr
	groups := map[string]*group{}
	keys := []string{}
	for _, t := range flat {
		switch v := t.(type) {
		case *Num:
			numAccum = numAdd(numAccum, v)
			continue
		case *Inf:
			if inf != nil && inf.neg != v.neg {
				return &Add{terms: flat}
			}
			inf = v
			continue
		case *BigO:
			orders = append(orders, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		g, ok := groups[key]
		if !ok {
			g = &group{coeff: N(0), rest: rest}
			groups[key] = g
			keys = append(keys, key)
		}
		g.coeff = numAdd(g.coeff, coeff)
	}
	if inf != nil {
		return inf
	}

	result := make([]Expr, 0, len(keys)+1)
	for _, key := range keys {
		g := groups[key]
		if g.coeff.IsZero() {
			continue
		}
		result = append(result, scaleTerm(g.coeff, g.rest))
	}
	sortTerms(result)
	if !numAccum.IsZero() || len(result) == 0 {
		symbolic := false
		for _, t := range result {
			if len(FreeSymbols(t)) > 0 {
				symbolic = true
				break
			}
		}
		if symbolic || len(result) == 0 {
			result = append(result, numAccum)
		} else {
			result = append([]Expr{numAccum}, result...)
		}
	}
	if len(orders) > 0 {
		if n, ok := result[0].(*Num); ok && n.IsZero() && len(result) == 1 {
			result = result[:0]
		}
		result = append(result, orders...)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

// scaleTerm builds coeff*rest for an already simplified rest.
func scaleTerm(coeff *Num, rest Expr) Expr {
	if coeff.IsOne() {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{factors: append([]Expr{coeff}, m.factors...)}
	}
	return &Mul{factors: []Expr{coeff, rest}}
}

// sortTerms orders terms by descending total degree, then by text.
func sortTerms(terms []Expr) {
	type keyed struct {
		e   Expr
		deg float64
		key string
	}
	ks := make([]keyed, len(terms))
	for i, t := range terms {
		_, rest := extractCoefficient(t)
		ks[i] = keyed{e: t, deg: termDegree(t), key: rest.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].deg != ks[j].deg {
			return ks[i].deg > ks[j].deg
		}
		return ks[i].key < ks[j].key
	})
	for i := range ks {
		terms[i] = ks[i].e
	}
}

func termDegree(e Expr) float64 {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if n, ok := v.exp.(*Num); ok {
			return termDegree(v.base) * n.Float64()
		}
		return termDegree(v.base)
	case *Mul:
		d := 0.0
		for _, f := range v.factors {
			d += termDegree(f)
		}
		return d
	case *Add:
		d := 0.0
		for _, t := range v.terms {
			d = math.Max(d, termDegree(t))
		}
		return d
	}
	return 0
}

// splitSign reports whether t prints with a leading minus and returns
// its negation when it does.
func splitSign(t Expr) (bool, Expr) {
	switch v := t.(type) {
	case *Num:
		if v.IsNegative() {
			return true, numNeg(v)
		}
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok && c.IsNegative() {
			pos := numNeg(c)
			rest := v.factors[1:]
			if pos.IsOne() {
				if len(rest) == 1 {
					return true, rest[0]
				}
				return true, &Mul{factors: rest}
			}
			return true, &Mul{factors: append([]Expr{pos}, rest...)}
		}
	}
	return false, t
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			sb.WriteString(t.String())
			continue
		}
		if neg, abs := splitSign(t); neg {
			sb.WriteString(" - " + abs.String())
		} else {
			sb.WriteString(" + " + t.String())
		}
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			sb.WriteString(t.LaTeX())
			continue
		}
		if neg, abs := splitSign(t); neg {
			sb.WriteString(" - " + abs.LaTeX())
		} else {
			sb.WriteString(" + " + t.LaTeX())
		}
	}
	return sb.String()
}

func (a *Add) Subs(name string, value Expr) Expr {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Subs(name, value)
	}
	return AddOf(terms...)
}

func (a *Add) Diff(name string) Expr {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Diff(name)
	}
	return AddOf(terms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]any {
	ts := make([]map[string]any, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]any{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return a.terms }

// ============================================================
// Mul
// ============================================================

// Mul is a product of factors. A simplified Mul keeps its numeric
// coefficient, if any, as the first factor.
type Mul struct{ factors []Expr }

// MulOf returns the simplified product of factors.
func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	var inf *Inf
	others := []Expr{}
	for _, f := range flat {
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Inf:
			if inf == nil {
				inf = v
			} else {
				inf = &Inf{neg: inf.neg != v.neg}
			}
		default:
			others = append(others, f)
		}
	}
	if coeff.IsZero() {
		return coeff
	}
	others, coeff = groupPowers(others, coeff)
	if coeff.IsZero() {
		return coeff
	}
	if inf != nil {
		if len(others) == 0 {
			return &Inf{neg: inf.neg != coeff.IsNegative()}
		}
		others = append(others, inf)
	}
	if len(others) == 0 {
		return coeff
	}
	sortFactors(others)
	if len(others) == 1 {
		if add, ok := others[0].(*Add); ok && !coeff.IsOne() {
			terms := make([]Expr, len(add.terms))
			for i, t := range add.terms {
				terms[i] = MulOf(coeff, t)
			}
			return AddOf(terms...)
		}
		if coeff.IsOne() {
			return others[0]
		}
	}
	if coeff.IsOne() {
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// groupPowers merges factors with a common base by adding exponents.
func groupPowers(factors []Expr, coeff *Num) ([]Expr, *Num) {
	type group struct {
		base  Expr
		exps  []Expr
		first Expr
	}
	groups := map[string]*group{}
	keys := []string{}
	for _, f := range factors {
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		g, ok := groups[key]
		if !ok {
			g = &group{base: base, first: f}
			groups[key] = g
			keys = append(keys, key)
		}
		g.exps = append(g.exps, exp)
	}
	out := make([]Expr, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		r := g.first
		if len(g.exps) > 1 {
			r = PowOf(g.base, AddOf(g.exps...))
		}
		switch v := r.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			for _, f := range v.factors {
				if n, ok := f.(*Num); ok {
					coeff = numMul(coeff, n)
				} else {
					out = append(out, f)
				}
			}
		default:
			out = append(out, r)
		}
	}
	return out, coeff
}

func sortFactors(fs []Expr) {
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(fs))
	for i, e := range fs {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		fs[i] = ks[i].e
	}
}

// parts splits a product into its numeric coefficient, numerator factors
// and denominator factors (negative numeric powers, made positive).
func (m *Mul) parts() (coeff *Num, numer, denom []Expr) {
	coeff = N(1)
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
			continue
		case *Pow:
			if n, ok := v.exp.(*Num); ok && n.IsNegative() {
				denom = append(denom, rawPow(v.base, numNeg(n)))
				continue
			}
		}
		numer = append(numer, f)
	}
	return coeff, numer, denom
}

func rawPow(base Expr, exp *Num) Expr {
	if exp.IsOne() {
		return base
	}
	return &Pow{base: base, exp: exp}
}

func factorString(f Expr) string {
	if _, ok := f.(*Add); ok {
		return "(" + f.String() + ")"
	}
	return f.String()
}

func (m *Mul) String() string {
	coeff, numer, denom := m.parts()
	neg := coeff.IsNegative()
	c := numAbs(coeff)
	var ns, ds []string
	switch {
	case c.inexact:
		if !c.IsOne() {
			ns = append(ns, c.String())
		}
	default:
		if p := c.val.Num(); !p.IsInt64() || p.Int64() != 1 {
			ns = append(ns, p.String())
		}
		if q := c.val.Denom(); !q.IsInt64() || q.Int64() != 1 {
			ds = append(ds, q.String())
		}
	}
	for _, f := range numer {
		ns = append(ns, factorString(f))
	}
	for _, f := range denom {
		ds = append(ds, factorString(f))
	}
	s := "1"
	if len(ns) > 0 {
		s = strings.Join(ns, "*")
	}
	switch len(ds) {
	case 0:
	case 1:
		s += "/" + ds[0]
	default:
		s += "/(" + strings.Join(ds, "*") + ")"
	}
	if neg {
		s = "-" + s
	}
	return s
}

func (m *Mul) LaTeX() string {
	coeff, numer, denom := m.parts()
	neg := coeff.IsNegative()
	c := numAbs(coeff)
	latexFactor := func(f Expr) string {
		if _, ok := f.(*Add); ok {
			return `\left(` + f.LaTeX() + `\right)`
		}
		return f.LaTeX()
	}
	var ns, ds []string
	if c.inexact {
		if !c.IsOne() {
			ns = append(ns, c.String())
		}
	} else {
		if p := c.val.Num(); !p.IsInt64() || p.Int64() != 1 {
			ns = append(ns, p.String())
		}
		if q := c.val.Denom(); !q.IsInt64() || q.Int64() != 1 {
			ds = append(ds, q.String())
		}
	}
	for _, f := range numer {
		ns = append(ns, latexFactor(f))
	}
	for _, f := range denom {
		ds = append(ds, latexFactor(f))
	}
	s := "1"
	if len(ns) > 0 {
		s = strings.Join(ns, ` \cdot `)
	}
	if len(ds) > 0 {
		s = `\frac{` + s + `}{` + strings.Join(ds, ` \cdot `) + `}`
	}
	if neg {
		s = "-" + s
	}
	return s
}

func (m *Mul) Subs(name string, value Expr) Expr {
	fs := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.Subs(name, value)
	}
	return MulOf(fs...)
}

func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		rest := make([]Expr, 0, len(m.factors))
		rest = append(rest, fi.Diff(name))
		for j, fj := range m.factors {
			if j != i {
				rest = append(rest, fj)
			}
		}
		terms[i] = MulOf(rest...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]any {
	fs := make([]map[string]any, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]any{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return m.factors }

// ============================================================
// Pow
// ============================================================

// Pow is base**exp.
type Pow struct{ base, exp Expr }

// PowOf returns the simplified power base**exp.
func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// SqrtOf returns arg**(1/2).
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()
	en, expNum := exp.(*Num)
	if expNum && en.IsZero() {
		return N(1)
	}
	if expNum && en.IsOne() {
		return base
	}
	switch b := base.(type) {
	case *Num:
		if r, ok := powNum(b, exp); ok {
			return r
		}
	case *Const:
		if b == E {
			return ExpOf(exp)
		}
		if b == I && expNum && en.IsInteger() && !en.inexact {
			k := new(big.Int).Mod(en.val.Num(), big.NewInt(4)).Int64()
			return []Expr{N(1), I, N(-1), MulOf(N(-1), I)}[k]
		}
	case *Pow:
		if expNum && en.IsInteger() && !en.inexact {
			return PowOf(b.base, MulOf(b.exp, en))
		}
	case *Mul:
		if expNum && en.IsInteger() && !en.inexact {
			fs := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				fs[i] = PowOf(f, en)
			}
			return MulOf(fs...)
		}
	case *Func:
		if b.name == "exp" && expNum && en.IsInteger() {
			return ExpOf(MulOf(en, b.arg))
		}
	}
	return &Pow{base: base, exp: exp}
}

// powNum folds a numeric base raised to exp when the result is exact or
// either side is inexact.
func powNum(b *Num, exp Expr) (Expr, bool) {
	if b.IsOne() && !b.inexact {
		return N(1), true
	}
	en, ok := exp.(*Num)
	if !ok {
		return nil, false
	}
	if b.IsZero() {
		if en.IsPositive() {
			return N(0), true
		}
		return nil, false
	}
	if b.inexact || en.inexact {
		if b.IsNegative() && !en.IsInteger() {
			return nil, false
		}
		n, ok := floatNum(math.Pow(b.Float64(), en.Float64()))
		if !ok {
			return nil, false
		}
		return n, true
	}
	p, q := en.val.Num(), en.val.Denom()
	if !p.IsInt64() || abs64(p.Int64()) > 1024 {
		return nil, false
	}
	if en.IsInteger() {
		r, ok := numPowInt(b, p.Int64())
		if !ok {
			return nil, false
		}
		return r, true
	}
	if !q.IsInt64() || q.Int64() > 16 || b.IsNegative() {
		return nil, false
	}
	k := int(q.Int64())
	rn, ok1 := intRoot(b.val.Num(), k)
	rd, ok2 := intRoot(b.val.Denom(), k)
	if ok1 && ok2 {
		r, ok := numPowInt(ratNum(new(big.Rat).SetFrac(rn, rd)), p.Int64())
		if ok {
			return r, true
		}
	}
	if k == 2 && b.IsInteger() && b.val.Num().IsInt64() && b.val.Num().Int64() <= 1<<40 {
		a, s := squareFactor(b.val.Num().Int64())
		if a > 1 {
			if ap, ok := numPowInt(N(a), p.Int64()); ok {
				return MulOf(ap, &Pow{base: N(s), exp: en}), true
			}
		}
	}
	return nil, false
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func powOperand(b Expr) string {
	switch v := b.(type) {
	case *Add, *Mul, *Pow:
		return "(" + b.String() + ")"
	case *Num:
		if v.IsNegative() || (!v.inexact && !v.IsInteger()) {
			return "(" + b.String() + ")"
		}
	case *Inf:
		if v.neg {
			return "(" + b.String() + ")"
		}
	}
	return b.String()
}

func powExponent(e Expr) string {
	switch v := e.(type) {
	case *Num:
		if !v.IsNegative() && (v.inexact || v.IsInteger()) {
			return v.String()
		}
	case *Sym, *Const, *Func:
		return e.String()
	}
	return "(" + e.String() + ")"
}

func (p *Pow) String() string {
	if n, ok := p.exp.(*Num); ok && !n.inexact {
		if n.IsNegative() {
			return "1/" + factorString(rawPow(p.base, numNeg(n)))
		}
		if n.val.Cmp(big.NewRat(1, 2)) == 0 {
			return "sqrt(" + p.base.String() + ")"
		}
	}
	return powOperand(p.base) + "**" + powExponent(p.exp)
}

func (p *Pow) LaTeX() string {
	if n, ok := p.exp.(*Num); ok && !n.inexact {
		if n.IsNegative() {
			return `\frac{1}{` + rawPow(p.base, numNeg(n)).LaTeX() + `}`
		}
		if n.val.Cmp(big.NewRat(1, 2)) == 0 {
			return `\sqrt{` + p.base.LaTeX() + `}`
		}
	}
	base := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		base = `\left(` + base + `\right)`
	}
	return base + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Subs(name string, value Expr) Expr {
	return PowOf(p.base.Subs(name, value), p.exp.Subs(name, value))
}

func (p *Pow) Diff(name string) Expr {
	du := p.base.Diff(name)
	dv := p.exp.Diff(name)
	if !hasSymbol(p.exp, name) {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if !hasSymbol(p.base, name) {
		return MulOf(PowOf(p.base, p.exp), LogOf(p.base), dv)
	}
	logTerm := MulOf(dv, LogOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if r, ok := powNum(b, e); ok {
		if n, isNum := r.(*Num); isNum {
			return n, true
		}
	}
	return floatNum(math.Pow(b.Float64(), e.Float64()))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]any {
	return map[string]any{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr     { return p.base }
func (p *Pow) Exponent() Expr { return p.exp }

// ============================================================
// Equation
// ============================================================

// Equation is LHS = RHS.
type Equation struct{ LHS, RHS Expr }

// Eq returns the equation lhs = rhs.
func Eq(lhs, rhs Expr) *Equation { return &Equation{LHS: lhs, RHS: rhs} }

func (e *Equation) String() string { return e.LHS.String() + " = " + e.RHS.String() }
func (e *Equation) LaTeX() string  { return e.LHS.LaTeX() + " = " + e.RHS.LaTeX() }

// Residual returns LHS - RHS.
func (e *Equation) Residual() Expr {
	return AddOf(e.LHS, MulOf(N(-1), e.RHS))
}

// ============================================================
// BigO
// ============================================================

// BigO is the remainder term of a truncated series around point.
type BigO struct {
	varName string
	point   Expr
	order   int
}

// OTerm returns O((varName - point)**order).
func OTerm(varName string, point Expr, order int) *BigO {
	return &BigO{varName: varName, point: point, order: order}
}

func (o *BigO) shifted() Expr {
	return AddOf(S(o.varName), MulOf(N(-1), o.point))
}

func (o *BigO) atZero() bool { n, ok := o.point.(*Num); return ok && n.IsZero() }

func (o *BigO) String() string {
	body := PowOf(o.shifted(), N(int64(o.order))).String()
	if o.atZero() {
		return "O(" + body + ")"
	}
	return fmt.Sprintf("O(%s, (%s, %s))", body, o.varName, o.point)
}

func (o *BigO) LaTeX() string {
	return `\mathcal{O}\left(` + PowOf(o.shifted(), N(int64(o.order))).LaTeX() + `\right)`
}

func (o *BigO) Simplify() Expr         { return o }
func (o *BigO) Subs(string, Expr) Expr { return o }
func (o *BigO) Diff(string) Expr       { return N(0) }
func (o *BigO) Eval() (*Num, bool)     { return nil, false }
func (o *BigO) Equal(other Expr) bool {
	ob, ok := other.(*BigO)
	return ok && ob.varName == o.varName && ob.order == o.order && ob.point.Equal(o.point)
}
func (o *BigO) exprType() string { return "order" }
func (o *BigO) toJSON() map[string]any {
	return map[string]any{"type": "order", "var": o.varName, "point": o.point.toJSON(), "order": o.order}
}
func (o *BigO) Order() int { return o.order }

// ============================================================
// Tree helpers
// ============================================================

// extractCoefficient splits a simplified term into its numeric
// coefficient and the remaining product.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok := m.factors[0].(*Num); ok {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// extractQuotient splits e into numerator and denominator. ok is false
// when e has no factor with a negative numeric exponent.
func extractQuotient(e Expr) (num, denom Expr, ok bool) {
	var factors []Expr
	switch v := e.(type) {
	case *Mul:
		factors = v.factors
	case *Pow:
		factors = []Expr{v}
	default:
		return nil, nil, false
	}
	var ns, ds []Expr
	for _, f := range factors {
		if p, isPow := f.(*Pow); isPow {
			if en, isNum := p.exp.(*Num); isNum && en.IsNegative() {
				ds = append(ds, PowOf(p.base, numNeg(en)))
				continue
			}
		}
		ns = append(ns, f)
	}
	if len(ds) == 0 {
		return nil, nil, false
	}
	return MulOf(ns...), MulOf(ds...), true
}

// FreeSymbols returns the names of the variables in e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

func hasSymbol(e Expr, name string) bool {
	_, ok := FreeSymbols(e)[name]
	return ok
}

// SortedSymbols returns the free variable names of e in order.
func SortedSymbols(e Expr) []string {
	syms := FreeSymbols(e)
	out := make([]string, 0, len(syms))
	for s := range syms {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ============================================================
// Convenience wrappers
// ============================================================

// Simplify, String and LaTeX call the method of the same name on e.
func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

// Subs replaces every occurrence of name in e with value.
func Subs(e Expr, name string, value Expr) Expr { return e.Subs(name, value).Simplify() }
