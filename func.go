package ccalc

import (
	"math"
	"math/big"
)

// Func is a named elementary function applied to one argument.
type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

// The constructors below build a function application and simplify it.
func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LogOf(arg Expr) Expr   { return funcOf("log", arg).Simplify() }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr  { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr  { return funcOf("sign", arg).Simplify() }

// floatFuncs evaluates each function on float64. Results outside the
// real domain come back as NaN.
var floatFuncs = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"exp":   math.Exp,
	"abs":   math.Abs,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"log": func(v float64) float64 {
		if v <= 0 {
			return math.NaN()
		}
		return math.Log(v)
	},
	"sign": func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	},
}

// Functions lists the function names Parse accepts besides the aliases
// ln, sqrt and ceiling.
func Functions() []string {
	return []string{"sin", "cos", "tan", "asin", "acos", "atan", "sinh", "cosh", "tanh",
		"exp", "log", "abs", "floor", "ceil", "sign"}
}

// odd and even functions pull a negative coefficient out of the argument.
var (
	oddFuncs  = map[string]bool{"sin": true, "tan": true, "asin": true, "atan": true, "sinh": true, "tanh": true}
	evenFuncs = map[string]bool{"cos": true, "cosh": true, "abs": true}
)

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		if r, ok := f.exactValue(n); ok {
			return r
		}
		if n.inexact {
			if r, ok := floatNum(floatFuncs[f.name](n.Float64())); ok {
				return r
			}
		}
	}
	if r, ok := piMultipleValue(f.name, arg); ok {
		return r
	}
	switch f.name {
	case "log":
		if arg == Expr(E) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "log" {
			return inner.arg
		}
	}
	if coeff, rest := extractCoefficient(arg); coeff.IsNegative() {
		pos := scaleTerm(numNeg(coeff), rest)
		switch {
		case oddFuncs[f.name]:
			return MulOf(N(-1), funcOf(f.name, pos).Simplify())
		case evenFuncs[f.name]:
			return funcOf(f.name, pos).Simplify()
		}
	}
	return &Func{name: f.name, arg: arg}
}

// exactValue handles exact rational arguments that have an exact image.
func (f *Func) exactValue(n *Num) (Expr, bool) {
	if n.inexact {
		return nil, false
	}
	switch f.name {
	case "sin", "tan", "asin", "atan", "sinh", "tanh":
		if n.IsZero() {
			return N(0), true
		}
	case "cos", "cosh", "exp":
		if n.IsZero() {
			return N(1), true
		}
	case "acos":
		if n.IsOne() {
			return N(0), true
		}
	case "log":
		if n.IsOne() {
			return N(0), true
		}
	case "abs":
		return numAbs(n), true
	case "sign":
		return N(int64(n.val.Sign())), true
	case "floor", "ceil":
		q, m := new(big.Int).DivMod(n.val.Num(), n.val.Denom(), new(big.Int))
		if f.name == "ceil" && m.Sign() != 0 {
			q.Add(q, big.NewInt(1))
		}
		return ratNum(new(big.Rat).SetInt(q)), true
	}
	return nil, false
}

// piMultipleValue evaluates sin and cos at integer and half-integer
// multiples of pi.
func piMultipleValue(name string, arg Expr) (Expr, bool) {
	if name != "sin" && name != "cos" {
		return nil, false
	}
	var q *Num
	switch v := arg.(type) {
	case *Const:
		if v != Pi {
			return nil, false
		}
		q = N(1)
	case *Mul:
		if len(v.factors) != 2 || v.factors[1] != Expr(Pi) {
			return nil, false
		}
		c, ok := v.factors[0].(*Num)
		if !ok || c.inexact {
			return nil, false
		}
		q = c
	default:
		return nil, false
	}
	twice := numMul(q, N(2))
	if !twice.IsInteger() {
		return nil, false
	}
	k := new(big.Int).Mod(twice.val.Num(), big.NewInt(4)).Int64()
	sin := []int64{0, 1, 0, -1}
	cos := []int64{1, 0, -1, 0}
	if name == "sin" {
		return N(sin[k]), true
	}
	return N(cos[k]), true
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	switch f.name {
	case "sin", "cos", "tan", "exp", "log", "sinh", "cosh", "tanh":
		return `\` + f.name + `\left(` + arg + `\right)`
	case "asin", "acos", "atan":
		return `\arc` + f.name[1:] + `\left(` + arg + `\right)`
	case "abs":
		return `\left|` + arg + `\right|`
	case "floor":
		return `\lfloor ` + arg + ` \rfloor`
	case "ceil":
		return `\lceil ` + arg + ` \rceil`
	}
	return `\operatorname{` + f.name + `}\left(` + arg + `\right)`
}

func (f *Func) Subs(name string, value Expr) Expr {
	return funcOf(f.name, f.arg.Subs(name, value)).Simplify()
}

func (f *Func) Diff(name string) Expr {
	du := f.arg.Diff(name)
	u := f.arg
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(u)
	case "cos":
		outer = MulOf(N(-1), SinOf(u))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(u), N(2)))
	case "exp":
		outer = ExpOf(u)
	case "log":
		outer = PowOf(u, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(u)
	case "cosh":
		outer = SinhOf(u)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(u), N(2))))
	case "abs":
		outer = SignOf(u)
	default:
		// floor, ceil and sign are piecewise constant.
		return N(0)
	}
	return MulOf(outer, du)
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	if r, ok := f.exactValue(n); ok {
		if rn, isNum := r.(*Num); isNum {
			return rn, true
		}
	}
	fn, ok := floatFuncs[f.name]
	if !ok {
		return nil, false
	}
	return floatNum(fn(n.Float64()))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]any {
	return map[string]any{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) Name() string { return f.name }
func (f *Func) Arg() Expr    { return f.arg }
