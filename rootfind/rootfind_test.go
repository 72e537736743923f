package rootfind_test

import (
	"errors"
	"math"
	"math/cmplx"
	"strconv"
	"testing"

	"github.com/njchilds90/ccalc/rootfind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(a, b float64) (rootfind.Func[float64], rootfind.Func[float64]) {
	f := func(x float64) (float64, error) { return a*x + b, nil }
	df := func(float64) (float64, error) { return a, nil }
	return f, df
}

func square(c float64) (rootfind.Func[float64], rootfind.Func[float64]) {
	f := func(x float64) (float64, error) { return x*x - c, nil }
	df := func(x float64) (float64, error) { return 2 * x, nil }
	return f, df
}

func TestFindRoot_LinearOneStep(t *testing.T) {
	cases := []struct {
		a, b, x0 float64
	}{
		{2, -4, 10},
		{2, -4, -3},
		{-0.5, 3, 0},
		{4, 1, 1e3},
	}
	for _, tc := range cases {
		f, df := linear(tc.a, tc.b)
		got, err := rootfind.FindRoot(f, df, tc.x0, 1)
		require.NoError(t, err)
		assert.InDelta(t, -tc.b/tc.a, got, 1e-12, "a=%v b=%v x0=%v", tc.a, tc.b, tc.x0)
	}
}

func TestFindRoot_Sqrt2(t *testing.T) {
	f, df := square(2)
	got, err := rootfind.FindRoot(f, df, 1.0, 4)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, got, 1e-8)
	assert.Equal(t, "1.41421356237", strconv.FormatFloat(rootfind.Round(got, 12), 'g', -1, 64))
}

func TestFindRoot_ZeroDerivative(t *testing.T) {
	f := func(x float64) (float64, error) { return x * x, nil }
	df := func(x float64) (float64, error) { return 2 * x, nil }

	got, err := rootfind.FindRoot(f, df, 0.0, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rootfind.ErrZeroDerivative))
	assert.Zero(t, got)
}

func TestFindRoot_ZeroDerivativeMidway(t *testing.T) {
	// derivative vanishes on the second iterate only
	calls := 0
	f := func(x float64) (float64, error) { return x - 1, nil }
	df := func(x float64) (float64, error) {
		calls++
		if calls == 2 {
			return 0, nil
		}
		return 1, nil
	}
	got, err := rootfind.FindRoot(f, df, 5.0, 4)
	require.ErrorIs(t, err, rootfind.ErrZeroDerivative)
	assert.Contains(t, err.Error(), "iteration 2")
	assert.Zero(t, got)
}

func TestFindRoot_ZeroIterations(t *testing.T) {
	f, df := square(2)
	got, err := rootfind.FindRoot(f, df, 7.25, 0)
	require.NoError(t, err)
	assert.Equal(t, 7.25, got)
}

func TestFindRoot_NegativeIterations(t *testing.T) {
	f, df := square(2)
	_, err := rootfind.FindRoot(f, df, 1.0, -1)
	assert.ErrorIs(t, err, rootfind.ErrInvalidIterations)
}

func TestFindRoot_Idempotent(t *testing.T) {
	f, df := square(5)
	a, err := rootfind.FindRoot(f, df, 3.0, 6)
	require.NoError(t, err)
	b, err := rootfind.FindRoot(f, df, 3.0, 6)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFindRoot_EvaluatorError(t *testing.T) {
	boom := errors.New("boom")
	f := func(float64) (float64, error) { return 0, boom }
	df := func(float64) (float64, error) { return 1, nil }
	_, err := rootfind.FindRoot(f, df, 1.0, 3)
	assert.ErrorIs(t, err, boom)
}

func TestFindRoot_Complex(t *testing.T) {
	// x^2 + 1 has no real root; from 1+1i the iteration heads to i.
	f := func(x complex128) (complex128, error) { return x*x + 1, nil }
	df := func(x complex128) (complex128, error) { return 2 * x, nil }
	got, err := rootfind.FindRoot(f, df, complex(1, 1), 8)
	require.NoError(t, err)
	assert.InDelta(t, 0, cmplx.Abs(got-1i), 1e-9)
}

func TestFindRootWith_Tolerance(t *testing.T) {
	steps := 0
	f := func(x float64) (float64, error) { steps++; return x*x - 2, nil }
	df := func(x float64) (float64, error) { return 2 * x, nil }

	got, err := rootfind.FindRootWith(f, df, 1.0, rootfind.Options{MaxIterations: 50, Tolerance: 1e-12})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, got, 1e-12)
	assert.Less(t, steps, 50)
}

func TestFindRootWith_ZeroToleranceIsFixedCount(t *testing.T) {
	steps := 0
	f := func(x float64) (float64, error) { steps++; return x*x - 2, nil }
	df := func(x float64) (float64, error) { return 2 * x, nil }

	_, err := rootfind.FindRootWith(f, df, 1.0, rootfind.Options{MaxIterations: 9})
	require.NoError(t, err)
	assert.Equal(t, 9, steps)
}

func TestStep(t *testing.T) {
	f, df := square(2)
	got, err := rootfind.Step(f, df, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.41421356237, rootfind.Round(math.Sqrt2, 12))
	assert.Equal(t, 123000.0, rootfind.Round(123456, 3))
	assert.Equal(t, -0.00123, rootfind.Round(-0.0012345, 3))
	assert.Equal(t, 0.0, rootfind.Round(0, 5))
	assert.True(t, math.IsInf(rootfind.Round(math.Inf(1), 5), 1))
	assert.Equal(t, 3.14159, rootfind.Round(3.14159, 0))
}
