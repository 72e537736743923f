package ccalc

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Num is a rational number. Numbers produced by floating-point evaluation
// or written with a decimal point are marked inexact and print as floats;
// their value is still held as a big.Rat so arithmetic stays exact.
type Num struct {
	val     *big.Rat
	inexact bool
}

// N returns the integer n.
func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F returns the fraction p/q. It panics when q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("ccalc: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat returns an inexact number holding f. It panics on NaN and
// infinities; use floatNum when f may not be finite.
func NFloat(f float64) *Num {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic(fmt.Sprintf("ccalc: non-finite float %v", f))
	}
	return &Num{val: r, inexact: true}
}

func floatNum(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return NFloat(f), true
}

func ratNum(r *big.Rat) *Num { return &Num{val: r} }

// parseRat is big.Rat.SetString for text whose exponent, if any, stays
// within the float64 range. SetString would expand 1e99999999 exactly.
// Exponents that underflow give zero.
func parseRat(text string) (*big.Rat, bool) {
	if strings.ContainsAny(text, "eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, false
		}
		if f == 0 {
			return new(big.Rat), true
		}
	}
	return new(big.Rat).SetString(text)
}

// parseDecimal reads a numeric literal. Literals with a fraction or an
// exponent are inexact but keep their exact decimal value; they must fit
// a float64, so that they print back as a number.
func parseDecimal(text string) (*Num, bool) {
	r, ok := parseRat(text)
	if !ok {
		return nil, false
	}
	if !strings.ContainsAny(text, ".eE") {
		return &Num{val: r}, true
	}
	if f, _ := r.Float64(); math.IsInf(f, 0) {
		return nil, false
	}
	return &Num{val: r, inexact: true}, true
}

func (n *Num) Simplify() Expr         { return n }
func (n *Num) Subs(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr       { return N(0) }
func (n *Num) Eval() (*Num, bool)     { return n, true }
func (n *Num) Equal(other Expr) bool  { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string       { return "num" }
func (n *Num) Float64() float64       { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool           { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool            { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool         { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool        { return n.val.IsInt() }
func (n *Num) IsPositive() bool       { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool       { return n.val.Sign() < 0 }
func (n *Num) IsExact() bool          { return !n.inexact }
func (n *Num) Rat() *big.Rat          { return new(big.Rat).Set(n.val) }

func (n *Num) String() string {
	if n.inexact {
		return strconv.FormatFloat(n.Float64(), 'g', 15, 64)
	}
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.inexact || n.val.IsInt() {
		return n.String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]any {
	m := map[string]any{"type": "num", "value": n.String()}
	if n.inexact {
		m["inexact"] = true
	}
	return m
}

func numAdd(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Add(a.val, b.val), inexact: a.inexact || b.inexact}
}
func numSub(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Sub(a.val, b.val), inexact: a.inexact || b.inexact}
}
func numMul(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Mul(a.val, b.val), inexact: a.inexact || b.inexact}
}
func numNeg(a *Num) *Num { return &Num{val: new(big.Rat).Neg(a.val), inexact: a.inexact} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("ccalc: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val), inexact: a.inexact}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numAbs(a *Num) *Num {
	r := new(big.Rat).Abs(a.val)
	return &Num{val: r, inexact: a.inexact}
}
func numCmp(a, b *Num) int { return a.val.Cmp(b.val) }

// maxExactBits bounds the size of an exact power.
const maxExactBits = 1 << 16

// numPowInt raises a to an integer power exactly. ok is false for 0 to a
// negative power and for results wider than maxExactBits.
func numPowInt(a *Num, e int64) (*Num, bool) {
	if e == 0 {
		return N(1), true
	}
	if a.IsZero() {
		if e < 0 {
			return nil, false
		}
		return N(0), true
	}
	abs := e
	if abs < 0 {
		abs = -abs
	}
	bits := max(a.val.Num().BitLen(), a.val.Denom().BitLen())
	if int64(bits-1)*abs > maxExactBits {
		return nil, false
	}
	k := big.NewInt(abs)
	num := new(big.Int).Exp(a.val.Num(), k, nil)
	den := new(big.Int).Exp(a.val.Denom(), k, nil)
	if e < 0 {
		num, den = den, num
	}
	return &Num{val: new(big.Rat).SetFrac(num, den), inexact: a.inexact}, true
}

// intRoot returns the exact k-th root of a non-negative integer, if any.
func intRoot(n *big.Int, k int) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	switch k {
	case 1:
		return new(big.Int).Set(n), true
	case 2:
		r := new(big.Int).Sqrt(n)
		if new(big.Int).Mul(r, r).Cmp(n) == 0 {
			return r, true
		}
		return nil, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	guess := int64(math.Round(math.Pow(f, 1/float64(k))))
	for d := int64(-1); d <= 1; d++ {
		r := big.NewInt(guess + d)
		if r.Sign() < 0 {
			continue
		}
		if new(big.Int).Exp(r, big.NewInt(int64(k)), nil).Cmp(n) == 0 {
			return r, true
		}
	}
	return nil, false
}

// squareFactor splits a positive integer n into a*a*b with b square-free.
func squareFactor(n int64) (a, b int64) {
	a, b = 1, n
	for p := int64(2); p*p <= b; p++ {
		for b%(p*p) == 0 {
			b /= p * p
			a *= p
		}
	}
	return a, b
}

func gcdInt(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
