package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/ccalc"
)

func run(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(ccalc.NewCalculator(ccalc.DefaultOptions(), nil), strings.NewReader(input), &out, Options{Theme: "notty"})
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestRun_ExitImmediately(t *testing.T) {
	out := run(t, "exit\n")
	assert.Contains(t, out, "WELCOME TO C-CALC")
	assert.Contains(t, out, "Thanks for using our Calculator!")
}

func TestRun_EndOfInputIsNotAnError(t *testing.T) {
	out := run(t, "x**2\n")
	assert.Contains(t, out, "[SELECT]: ")
}

func TestRun_Simplify(t *testing.T) {
	out := run(t, "2*x + 3*x\n2\nexit\n")
	assert.Contains(t, out, "Original Expression: 2*x + 3*x")
	assert.Contains(t, out, "Simplified Expression: 5*x")
}

func TestRun_Differentiate(t *testing.T) {
	out := run(t, "x**3\n3\nexit\n")
	assert.Contains(t, out, "The derivative of x**3 with respect to x is: 3*x**2")
}

func TestRun_NewtonRaphson(t *testing.T) {
	out := run(t, "x**2 - 2\n4\n1\nexit\n")
	assert.Contains(t, out, "==> f(1) = -1")
	assert.Contains(t, out, "==> f'(1) = 2")
	assert.Contains(t, out, "NEW ROOT after 1 iteration: 1.5")
	assert.Contains(t, out, "NEW ROOT after 6 iteration:")
	assert.Contains(t, out, "Newton-Raphson root (approx): 1.41421356237")
}

func TestRun_NewtonZeroDerivative(t *testing.T) {
	out := run(t, "x**2\n4\n0\nexit\n")
	assert.Contains(t, out, "Derivative is zero. Equation ended.")
	assert.NotContains(t, out, "NEW ROOT")
	assert.Contains(t, out, "Thanks for using our Calculator!")
}

func TestRun_NewtonBadInitialRoot(t *testing.T) {
	out := run(t, "x**2 - 2\n4\nabc(\nexit\n")
	assert.Contains(t, out, "NRM Error")
}

func TestRun_Limit(t *testing.T) {
	out := run(t, "sin(x)/x\n5\n0\nexit\n")
	assert.Contains(t, out, "==> Simplified expression: sin(x)/x")
	assert.Contains(t, out, "x tends to: ")
	assert.Contains(t, out, "LIMIT as x tends to 0 is: 1")
}

func TestRun_LimitAtInfinity(t *testing.T) {
	out := run(t, "1/x\n5\noo\nexit\n")
	assert.Contains(t, out, "LIMIT as x tends to oo is: 0")
}

func TestRun_IntegrateFactorSolve(t *testing.T) {
	out := run(t, "2*x\n6\nx**2 - 1\n7\nx**2 - 4 = 0\n8\nexit\n")
	assert.Contains(t, out, "Integral with respect to x: x**2")
	assert.Contains(t, out, "Factored form: (x - 1)*(x + 1)")
	assert.Contains(t, out, "Solve result: [-2, 2]")
}

func TestRun_InvalidChoicesKeepLooping(t *testing.T) {
	out := run(t, "x\nabc\nx\n9\nexit\n")
	assert.Contains(t, out, "Invalid input! Please enter a number between 1 and 8")
	assert.Contains(t, out, "Invalid option! Please enter a number between 1 and 8.")
	assert.Contains(t, out, "Thanks for using our Calculator!")
}

func TestRun_ErrorsKeepLooping(t *testing.T) {
	out := run(t, "2*x +\n2\nx*exp(x)\n6\nexit\n")
	assert.Contains(t, out, "check your equation")
	assert.Contains(t, out, "Integration Error")
	assert.Contains(t, out, "Thanks for using our Calculator!")
}

func TestRun_Instructions(t *testing.T) {
	out := run(t, "x\n1\nexit\n")
	assert.Contains(t, out, "Menu selection")
}

func TestRun_ExitAtMenu(t *testing.T) {
	out := run(t, "x\nexit\n")
	assert.Contains(t, out, "Thanks for using our Calculator!")
}

func TestCommands_LoadAndSave(t *testing.T) {
	dir := t.TempDir()
	exprFile := filepath.Join(dir, "expr.txt")
	saveFile := filepath.Join(dir, "session.txt")
	require.NoError(t, os.WriteFile(exprFile, []byte("# cubic\n\nx**3\n"), 0o644))

	out := run(t, ":load "+exprFile+"\n3\n:save "+saveFile+"\n:quit\n")
	assert.Contains(t, out, "Loaded expression: x**3")
	assert.Contains(t, out, "3*x**2")
	assert.Contains(t, out, "Transcript saved to "+saveFile)

	saved, err := os.ReadFile(saveFile)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "3*x**2")
}

func TestCommands_Errors(t *testing.T) {
	out := run(t, ":bogus\n:load\n:load /does/not/exist\n:help\n:theme\n:theme neon\n:clear\n:quit\n")
	assert.Contains(t, out, "unknown command :bogus")
	assert.Contains(t, out, "usage: :load FILE")
	assert.Contains(t, out, "load expression:")
	assert.Contains(t, out, ":save FILE")
	assert.Contains(t, out, "Theme set to light")
	assert.Contains(t, out, `unknown theme "neon"`)
	assert.Contains(t, out, "Transcript cleared.")
}

func TestCommands_FailedThemeKeepsCurrent(t *testing.T) {
	out := run(t, ":theme light\n:theme neon\n:theme\n:quit\n")
	assert.Contains(t, out, `unknown theme "neon"`)
	assert.NotContains(t, out, "Theme set to neon")
	assert.Contains(t, out, "Theme set to dark")
}

func TestStyles_SetThemeValidatesWithoutTTY(t *testing.T) {
	s := newStyles(false, "notty")
	for _, theme := range []string{"auto", "dark", "light", "notty"} {
		assert.NoError(t, s.setTheme(theme), theme)
	}
	err := s.setTheme("neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "neon"`)
}

func TestCommands_QuotedPath(t *testing.T) {
	dir := t.TempDir()
	exprFile := filepath.Join(dir, "my expr.txt")
	require.NoError(t, os.WriteFile(exprFile, []byte("x + x\n"), 0o644))

	out := run(t, `:load "`+exprFile+`"`+"\n2\nexit\n")
	assert.Contains(t, out, "Simplified Expression: 2*x")
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	c := New(ccalc.NewCalculator(ccalc.DefaultOptions(), nil), strings.NewReader("x\n"), &out, Options{})
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}

func TestReadNumber(t *testing.T) {
	v, err := readNumber("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = readNumber("pi/2")
	require.NoError(t, err)
	assert.InDelta(t, 1.5707963267948966, v, 1e-15)

	_, err = readNumber("x + 1")
	assert.Error(t, err)
}
