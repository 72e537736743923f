package ccalc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/ccalc"
)

func TestLimit(t *testing.T) {
	tests := []struct {
		expr  string
		point ccalc.Expr
		want  string
	}{
		{"x**2 + 1", ccalc.N(2), "5"},
		{"sin(x)/x", ccalc.N(0), "1"},
		{"(x**2 - 1)/(x - 1)", ccalc.N(1), "2"},
		{"(1 - cos(x))/x**2", ccalc.N(0), "1/2"},
		{"1/x**2", ccalc.N(0), "oo"},
		{"1/x", ccalc.Oo, "0"},
		{"x**3", ccalc.NegOo, "-oo"},
		{"exp(x)", ccalc.Oo, "oo"},
		{"exp(-x)", ccalc.Oo, "0"},
		{"sin(x)/x", ccalc.Oo, "0"},
		{"(2*x**2 + 1)/(x**2 - 3)", ccalc.Oo, "2"},
		{"log(x)", ccalc.N(0), "-oo"},
		{"x*log(x)", ccalc.N(0), "0"},
		{"x**2*log(x)", ccalc.N(0), "0"},
		{"log(x)/x", ccalc.N(0), "-oo"},
		{"exp(-1/x)", ccalc.N(0), "0"},
		{"log(x)", ccalc.Oo, "oo"},
		{"log(x)/x", ccalc.Oo, "0"},
		{"x*exp(-x)", ccalc.Oo, "0"},
		{"atan(x)", ccalc.Oo, "pi/2"},
	}
	for _, tt := range tests {
		t.Run(tt.expr+" -> "+tt.point.String(), func(t *testing.T) {
			got, err := ccalc.Limit(ccalc.MustParse(tt.expr), "x", tt.point)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestLimit_Constants(t *testing.T) {
	got, err := ccalc.Limit(ccalc.MustParse("(1 + x)**(1/x)"), "x", ccalc.N(0))
	require.NoError(t, err)
	assert.Equal(t, "E", got.String())
}
