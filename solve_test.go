package ccalc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/ccalc"
)

func strs(es []ccalc.Expr) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.String()
	}
	return out
}

// ============================================================
// Factoring
// ============================================================

func TestFactor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		success bool
	}{
		{"x**2 - 1", "(x - 1)*(x + 1)", true},
		{"x**2 + 2*x + 1", "(x + 1)**2", true},
		{"2*x**2 - 2", "2*(x - 1)*(x + 1)", true},
		{"x**2 + 1", "x**2 + 1", false},
		{"sin(x)", "sin(x)", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := ccalc.Factor(ccalc.MustParse(tt.in), "x")
			assert.Equal(t, tt.success, r.Success)
			assert.Equal(t, tt.want, r.Expr().String())
		})
	}
}

func TestFactor_MultipliesBack(t *testing.T) {
	for _, in := range []string{"x**3 - x", "6*x**2 - 5*x + 1", "x**3 - 8"} {
		t.Run(in, func(t *testing.T) {
			e := ccalc.MustParse(in)
			r := ccalc.Factor(e, "x")
			require.True(t, r.Success)
			assert.Equal(t, e.String(), ccalc.Expand(r.Expr()).String())
		})
	}
}

func TestCancel(t *testing.T) {
	assert.Equal(t, "x + 1", ccalc.Cancel(ccalc.MustParse("(x**2 - 1)/(x - 1)"), "x").String())
	assert.Equal(t, "sin(x)/x", ccalc.Cancel(ccalc.MustParse("sin(x)/x"), "x").String())
}

// ============================================================
// Solving
// ============================================================

func TestSolve(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"x**2 - 4", []string{"-2", "2"}},
		{"x**2 = 4", []string{"-2", "2"}},
		{"2*x + 3 = 7", []string{"2"}},
		{"x**3 - x", []string{"-1", "0", "1"}},
		{"x**2 + 1", []string{"-I", "I"}},
		{"(x**2 - 1)/(x - 1)", []string{"-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			eq, err := ccalc.ParseEquation(tt.in)
			require.NoError(t, err)
			roots, err := ccalc.Solve(eq, "x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, strs(roots))
		})
	}
}

func TestSolve_Surds(t *testing.T) {
	roots, err := ccalc.SolveExpr(ccalc.MustParse("x**2 + 2*x - 1"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	for _, r := range roots {
		v := ccalc.Subs(ccalc.MustParse("x**2 + 2*x - 1"), "x", r)
		f, err := ccalc.Evaluate(v, "x", 0)
		require.NoError(t, err)
		assert.InDelta(t, 0, f, 1e-12)
	}
	lo, _ := ccalc.Evaluate(roots[0], "x", 0)
	hi, _ := ccalc.Evaluate(roots[1], "x", 0)
	assert.Less(t, lo, hi)
}

func TestSolve_Symbolic(t *testing.T) {
	roots, err := ccalc.SolveExpr(ccalc.MustParse("a*x + b"), "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"-b/a"}, strs(roots))
}

func TestSolve_Numeric(t *testing.T) {
	roots, err := ccalc.SolveExpr(ccalc.MustParse("cos(x) - x"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	v, err := ccalc.Evaluate(roots[0], "x", 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.739085133215, v, 1e-9)
}

func TestSolve_PeriodicStaysInWindow(t *testing.T) {
	roots, err := ccalc.SolveExpr(ccalc.MustParse("sin(x)"), "x")
	require.NoError(t, err)
	require.Len(t, roots, 7)
	for i, r := range roots {
		v, err := ccalc.Evaluate(r, "x", 0)
		require.NoError(t, err)
		assert.InDelta(t, float64(i-3)*math.Pi, v, 1e-9)
	}
	assert.Equal(t, "0", roots[3].String())
}

func TestSolve_Degenerate(t *testing.T) {
	_, err := ccalc.Solve(ccalc.Eq(ccalc.S("x"), ccalc.S("x")), "x")
	assert.ErrorIs(t, err, ccalc.ErrInfiniteSolutions)

	_, err = ccalc.SolveExpr(ccalc.N(1), "x")
	assert.ErrorIs(t, err, ccalc.ErrNoSolution)

	_, err = ccalc.SolveExpr(ccalc.MustParse("1/x"), "x")
	assert.ErrorIs(t, err, ccalc.ErrNoSolution)
}
