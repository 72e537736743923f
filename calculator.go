package ccalc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/njchilds90/ccalc/rootfind"
)

// Options configure a Calculator.
type Options struct {
	// Variable is the symbol operations work in.
	Variable string
	// Precision is the number of significant digits numeric results are
	// reported with.
	Precision int
	// Iterations is the Newton-Raphson step count.
	Iterations int
	// Tolerance enables an early Newton-Raphson stop when positive.
	Tolerance float64
}

// DefaultOptions returns x, 12 digits, 6 iterations and no tolerance.
func DefaultOptions() Options {
	return Options{Variable: "x", Precision: 12, Iterations: 6}
}

// Calculator is the string-in, string-out facade over the kernel. Every
// operation parses its input, runs one kernel function and prints the
// result. It is safe for concurrent use.
type Calculator struct {
	opts Options
	log  *slog.Logger
	ctx  context.Context
}

// NewCalculator returns a Calculator. An empty Variable or non-positive
// Precision falls back to the default; logger may be nil.
func NewCalculator(opts Options, logger *slog.Logger) *Calculator {
	def := DefaultOptions()
	if opts.Variable == "" {
		opts.Variable = def.Variable
	}
	if opts.Precision <= 0 {
		opts.Precision = def.Precision
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Calculator{opts: opts, log: logger, ctx: context.Background()}
}

// Options returns the calculator's settings.
func (c *Calculator) Options() Options { return c.opts }

// WithVariable returns a copy of c working in name.
func (c *Calculator) WithVariable(name string) *Calculator {
	cp := *c
	if name != "" {
		cp.opts.Variable = name
	}
	return &cp
}

// WithContext returns a copy of c whose operations stop with ctx.Err()
// once ctx is done. Newton-Raphson checks it on every evaluation.
func (c *Calculator) WithContext(ctx context.Context) *Calculator {
	cp := *c
	cp.ctx = ctx
	return &cp
}

// WithNewton returns a copy of c with other Newton-Raphson settings.
func (c *Calculator) WithNewton(iterations int, tolerance float64) *Calculator {
	cp := *c
	cp.opts.Iterations = iterations
	cp.opts.Tolerance = tolerance
	return &cp
}

// Result is the outcome of one calculator operation.
type Result struct {
	Input string
	// Expr is the symbolic result, nil for numeric and multi-valued ones.
	Expr Expr
	// Values holds the solutions of Solve.
	Values []Expr
	// Number holds numeric results, rounded to the calculator precision.
	Number float64
	Text   string
}

func (r Result) String() string { return r.Text }

// LaTeX renders the result for typesetting.
func (r Result) LaTeX() string {
	switch {
	case r.Expr != nil:
		return r.Expr.LaTeX()
	case r.Values != nil:
		parts := make([]string, len(r.Values))
		for i, v := range r.Values {
			parts[i] = v.LaTeX()
		}
		return `\left[` + strings.Join(parts, ", ") + `\right]`
	}
	return r.Text
}

func exprResult(input string, e Expr) Result {
	return Result{Input: input, Expr: e, Text: e.String()}
}

// FormatFloat prints x with the given number of significant digits.
func FormatFloat(x float64, precision int) string {
	return strconv.FormatFloat(x, 'g', precision, 64)
}

func (c *Calculator) numberResult(input string, x float64) Result {
	return Result{Input: input, Number: rootfind.Round(x, c.opts.Precision), Text: FormatFloat(x, c.opts.Precision)}
}

// guard runs one operation, turning kernel panics into ErrUnsupported.
func guard[T any](c *Calculator, op, input string, fn func() (T, error)) (res T, err error) {
	if err := c.ctx.Err(); err != nil {
		return res, err
	}
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res, err = zero, fmt.Errorf("%w: %s: %v", ErrUnsupported, op, r)
		}
		if err != nil {
			c.log.Debug("operation failed", "op", op, "input", input, "error", err)
			return
		}
		c.log.Debug("operation done", "op", op, "input", input)
	}()
	return fn()
}

// Parse parses text. Together with Differentiate and Evaluate it makes
// Calculator a rootfind.Backend.
func (c *Calculator) Parse(text string) (Expr, error) {
	return Parse(strings.TrimSpace(text))
}

// Differentiate returns the derivative of e, recovering kernel panics.
func (c *Calculator) Differentiate(e Expr, variable string) (Expr, error) {
	return guard(c, "differentiate", e.String(), func() (Expr, error) { return Diff(e, variable), nil })
}

// Evaluate returns the value of e at variable = point, or the context
// error once the calculator's context is done.
func (c *Calculator) Evaluate(e Expr, variable string, point float64) (float64, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return Evaluate(e, variable, point)
}

var _ rootfind.Backend[Expr] = (*Calculator)(nil)

func (c *Calculator) unary(op, text string, fn func(Expr) (Expr, error)) (Result, error) {
	return guard(c, op, text, func() (Result, error) {
		e, err := c.Parse(text)
		if err != nil {
			return Result{}, err
		}
		r, err := fn(e)
		if err != nil {
			return Result{}, err
		}
		return exprResult(text, r), nil
	})
}

// Simplify rewrites text into its simplest known form.
func (c *Calculator) Simplify(text string) (Result, error) {
	return c.unary("simplify", text, func(e Expr) (Expr, error) { return SimplifyFull(e), nil })
}

// Diff differentiates text once.
func (c *Calculator) Diff(text string) (Result, error) {
	return c.unary("diff", text, func(e Expr) (Expr, error) { return Diff(e, c.opts.Variable), nil })
}

// Integrate returns an antiderivative of text.
func (c *Calculator) Integrate(text string) (Result, error) {
	return c.unary("integrate", text, func(e Expr) (Expr, error) { return Integrate(e, c.opts.Variable) })
}

// Factor factors text over the rationals.
func (c *Calculator) Factor(text string) (Result, error) {
	return c.unary("factor", text, func(e Expr) (Expr, error) { return Factor(e, c.opts.Variable).Expr(), nil })
}

// Expand multiplies out text.
func (c *Calculator) Expand(text string) (Result, error) {
	return c.unary("expand", text, func(e Expr) (Expr, error) { return Expand(e), nil })
}

// Solve solves the equation text ("lhs = rhs", or an expression equal to
// zero). Text lists the solutions as [a, b].
func (c *Calculator) Solve(text string) (Result, error) {
	return guard(c, "solve", text, func() (Result, error) {
		eq, err := ParseEquation(strings.TrimSpace(text))
		if err != nil {
			return Result{}, err
		}
		roots, err := Solve(eq, c.opts.Variable)
		if err != nil {
			return Result{}, err
		}
		parts := make([]string, len(roots))
		for i, r := range roots {
			parts[i] = r.String()
		}
		return Result{Input: text, Values: roots, Text: "[" + strings.Join(parts, ", ") + "]"}, nil
	})
}

// Limit evaluates the limit of text as the variable tends to point,
// which may be "oo" or "-oo".
func (c *Calculator) Limit(text, point string) (Result, error) {
	return guard(c, "limit", text, func() (Result, error) {
		e, err := c.Parse(text)
		if err != nil {
			return Result{}, err
		}
		p, err := c.Parse(point)
		if err != nil {
			return Result{}, fmt.Errorf("limit point: %w", err)
		}
		r, err := Limit(e, c.opts.Variable, p)
		if err != nil {
			return Result{}, err
		}
		return exprResult(text, r), nil
	})
}

// Series expands text around point up to an O term of the given order.
func (c *Calculator) Series(text, point string, order int) (Result, error) {
	return guard(c, "series", text, func() (Result, error) {
		if order < 1 {
			return Result{}, fmt.Errorf("%w: series order must be positive, got %d", ErrUnsupported, order)
		}
		e, err := c.Parse(text)
		if err != nil {
			return Result{}, err
		}
		p, err := c.Parse(point)
		if err != nil {
			return Result{}, fmt.Errorf("series point: %w", err)
		}
		return exprResult(text, TaylorSeriesWithRemainder(e, c.opts.Variable, p, order-1)), nil
	})
}

// NewtonRaphson refines x0 towards a root of text.
func (c *Calculator) NewtonRaphson(text string, x0 float64) (Result, error) {
	return guard(c, "newton", text, func() (Result, error) {
		opts := rootfind.Options{MaxIterations: c.opts.Iterations, Tolerance: c.opts.Tolerance}
		x, err := rootfind.Solve[Expr](c, text, c.opts.Variable, x0, opts)
		if err != nil {
			return Result{}, err
		}
		return c.numberResult(text, x), nil
	})
}

// NewtonStep records one Newton-Raphson update.
type NewtonStep struct {
	Iteration int     `json:"iteration"`
	X         float64 `json:"x"`
	FX        float64 `json:"fx"`
	DFX       float64 `json:"dfx"`
	Next      float64 `json:"next"`
}

// NewtonTrace runs the same iteration as NewtonRaphson and records every
// step. On failure it returns the steps completed so far with the error.
func (c *Calculator) NewtonTrace(text string, x0 float64) ([]NewtonStep, error) {
	return guard(c, "newton_trace", text, func() ([]NewtonStep, error) {
		if c.opts.Iterations < 0 {
			return nil, fmt.Errorf("%w: %d", rootfind.ErrInvalidIterations, c.opts.Iterations)
		}
		f, df, err := rootfind.Functions[Expr](c, text, c.opts.Variable)
		if err != nil {
			return nil, err
		}
		var steps []NewtonStep
		x := x0
		for i := 1; i <= c.opts.Iterations; i++ {
			fx, err := f(x)
			if err != nil {
				return steps, fmt.Errorf("iteration %d: %w", i, err)
			}
			dfx, err := df(x)
			if err != nil {
				return steps, fmt.Errorf("iteration %d: %w", i, err)
			}
			next, err := rootfind.Step(f, df, x)
			if err != nil {
				return steps, fmt.Errorf("iteration %d: %w", i, err)
			}
			steps = append(steps, NewtonStep{Iteration: i, X: x, FX: fx, DFX: dfx, Next: next})
			done := c.opts.Tolerance > 0 && math.Abs(next-x) <= c.opts.Tolerance
			x = next
			if done {
				break
			}
		}
		return steps, nil
	})
}

// EvaluateAt returns the numeric value of text at the variable = x.
func (c *Calculator) EvaluateAt(text string, x float64) (Result, error) {
	return guard(c, "evaluate", text, func() (Result, error) {
		e, err := c.Parse(text)
		if err != nil {
			return Result{}, err
		}
		v, err := Evaluate(e, c.opts.Variable, x)
		if err != nil {
			return Result{}, err
		}
		return c.numberResult(text, v), nil
	})
}

// DefiniteIntegrate integrates text numerically over [a, b].
func (c *Calculator) DefiniteIntegrate(text string, a, b float64) (Result, error) {
	return guard(c, "definite_integrate", text, func() (Result, error) {
		e, err := c.Parse(text)
		if err != nil {
			return Result{}, err
		}
		v, err := DefiniteIntegrate(e, c.opts.Variable, a, b)
		if err != nil {
			return Result{}, err
		}
		return c.numberResult(text, v), nil
	})
}
