package ccalc

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"sort"

	"github.com/njchilds90/ccalc/rootfind"
)

// Solve returns the solutions of eq for name in ascending order, complex
// roots ordered by real then imaginary part.
//
// Polynomials with rational coefficients are solved exactly as far as
// their rational roots and a remaining quadratic allow; anything of
// higher degree, and non-polynomial equations, fall back to a
// Newton-Raphson scan that reports only the real roots inside
// [-solveWindow, solveWindow], so periodic equations such as sin(x) = 0
// list every root in that window and none outside it. Equations linear
// in name with symbolic coefficients are solved symbolically.
func Solve(eq *Equation, name string) ([]Expr, error) {
	res := eq.Residual().Simplify()
	num, den := res, Expr(nil)
	if n, d, ok := extractQuotient(res); ok {
		num, den = n, d
	}
	if !hasSymbol(num, name) {
		if n, ok := num.(*Num); ok && n.IsZero() {
			return nil, fmt.Errorf("%w: %s", ErrInfiniteSolutions, eq)
		}
		return nil, fmt.Errorf("%w: %s", ErrNoSolution, eq)
	}

	var roots []Expr
	if p, ok := polyOf(num, name); ok {
		roots = polyRoots(p, name)
	} else if r, ok := linearRoot(num, name); ok {
		roots = []Expr{r}
	} else {
		roots = numericRoots(num, name)
	}

	if den != nil {
		kept := roots[:0]
		for _, r := range roots {
			if d, ok := den.Subs(name, r).Eval(); ok && d.IsZero() {
				continue
			}
			kept = append(kept, r)
		}
		roots = kept
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSolution, eq)
	}
	sortRoots(roots)
	return roots, nil
}

// SolveExpr solves e = 0.
func SolveExpr(e Expr, name string) ([]Expr, error) { return Solve(Eq(e, N(0)), name) }

func polyRoots(p poly, name string) []Expr {
	rs, _, rest := p.rationalRoots()
	roots := make([]Expr, 0, p.degree())
	for _, r := range rs {
		roots = append(roots, ratNum(r))
	}
	switch rest.degree() {
	case 1:
		roots = append(roots, ratNum(new(big.Rat).Neg(new(big.Rat).Quo(rest[0], rest[1]))))
	case 2:
		roots = append(roots, quadraticRoots(rest[2], rest[1], rest[0])...)
	default:
		if rest.degree() > 2 {
			roots = append(roots, numericRoots(rest.toExpr(name), name)...)
		}
	}
	return roots
}

// quadraticRoots solves a*x**2 + b*x + c = 0 with surds, using I for a
// negative discriminant.
func quadraticRoots(a, b, c *big.Rat) []Expr {
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	sq := SqrtOf(ratNum(new(big.Rat).Abs(disc)))
	if disc.Sign() < 0 {
		sq = MulOf(I, sq)
	}
	half := ratNum(new(big.Rat).Inv(new(big.Rat).Mul(big.NewRat(2, 1), a)))
	negB := ratNum(new(big.Rat).Neg(b))
	return []Expr{
		MulOf(half, AddOf(negB, MulOf(N(-1), sq))),
		MulOf(half, AddOf(negB, sq)),
	}
}

// linearRoot solves a*name + b = 0 where a and b may hold other symbols.
func linearRoot(e Expr, name string) (Expr, bool) {
	a := Diff(Expand(e), name)
	if hasSymbol(a, name) {
		return nil, false
	}
	if n, ok := a.(*Num); ok && n.IsZero() {
		return nil, false
	}
	b := e.Subs(name, N(0))
	return MulOf(N(-1), b, PowOf(a, N(-1))), true
}

// solveWindow bounds the numeric root scan.
const solveWindow = 10

// numericRoots scans starting points across the solve window and keeps
// the distinct points inside it that Newton-Raphson converges to.
func numericRoots(e Expr, name string) []Expr {
	var f rootfind.Func[float64] = floatFunc(e, name)
	var df rootfind.Func[float64] = floatFunc(Diff(e, name), name)
	opts := rootfind.Options{MaxIterations: 100, Tolerance: 1e-13}

	var found []float64
	for i := 0; i <= 20*solveWindow; i++ {
		r, err := rootfind.FindRootWith(f, df, -solveWindow+float64(i)/10, opts)
		if err != nil || math.Abs(r) > solveWindow {
			continue
		}
		if v, err := f(r); err != nil || math.Abs(v) > 1e-9 {
			continue
		}
		r = rootfind.Round(r, 12)
		if math.Abs(r) < 1e-12 {
			r = 0
		}
		dup := false
		for _, g := range found {
			if math.Abs(g-r) < 1e-7 {
				dup = true
				break
			}
		}
		if !dup {
			found = append(found, r)
		}
	}
	out := make([]Expr, len(found))
	for i, r := range found {
		if r == math.Trunc(r) && math.Abs(r) < 1<<53 {
			out[i] = N(int64(r))
		} else {
			out[i] = NFloat(r)
		}
	}
	return out
}

func sortRoots(roots []Expr) {
	key := func(e Expr) complex128 {
		v, ok := complexValue(e)
		if !ok {
			return complex(math.Inf(1), 0)
		}
		return v
	}
	sort.SliceStable(roots, func(i, j int) bool {
		a, b := key(roots[i]), key(roots[j])
		if real(a) != real(b) {
			return real(a) < real(b)
		}
		return imag(a) < imag(b)
	})
}

// complexValue evaluates a closed-form expression that may contain I.
func complexValue(e Expr) (complex128, bool) {
	switch v := e.(type) {
	case *Num:
		return complex(v.Float64(), 0), true
	case *Const:
		if v == I {
			return 1i, true
		}
		return complex(v.value, 0), true
	case *Add:
		var acc complex128
		for _, t := range v.terms {
			tv, ok := complexValue(t)
			if !ok {
				return 0, false
			}
			acc += tv
		}
		return acc, true
	case *Mul:
		acc := complex(1, 0)
		for _, f := range v.factors {
			fv, ok := complexValue(f)
			if !ok {
				return 0, false
			}
			acc *= fv
		}
		return acc, true
	case *Pow:
		b, ok1 := complexValue(v.base)
		x, ok2 := complexValue(v.exp)
		if !ok1 || !ok2 {
			return 0, false
		}
		return cmplx.Pow(b, x), true
	}
	if f, ok := evalFloat(e, "", 0); ok {
		return complex(f, 0), true
	}
	return 0, false
}
