package ccalc_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/ccalc"
)

func call(tool string, params map[string]any) ccalc.ToolResponse {
	return newCalc().HandleToolCall(context.Background(), ccalc.ToolRequest{Tool: tool, Params: params})
}

func TestHandleToolCall_Results(t *testing.T) {
	tests := []struct {
		tool   string
		params map[string]any
		want   any
	}{
		{"simplify", map[string]any{"expr": "x + x"}, "2*x"},
		{"diff", map[string]any{"expr": "x**3"}, "3*x**2"},
		{"diff", map[string]any{"expr": "t**2", "var": "t"}, "2*t"},
		{"integrate", map[string]any{"expr": "cos(x)"}, "sin(x)"},
		{"factor", map[string]any{"expr": "x**2 - 1"}, "(x - 1)*(x + 1)"},
		{"expand", map[string]any{"expr": "(x + 1)**2"}, "x**2 + 2*x + 1"},
		{"solve", map[string]any{"equation": "x**2 = 4"}, []string{"-2", "2"}},
		{"limit", map[string]any{"expr": "sin(x)/x", "point": "0"}, "1"},
		{"limit", map[string]any{"expr": "1/x", "point": "oo"}, "0"},
		{"series", map[string]any{"expr": "exp(x)", "order": 3}, "1 + x + x**2/2 + O(x**3)"},
		{"newton", map[string]any{"expr": "x**2 - 2", "x0": 1}, 1.41421356237},
		{"newton", map[string]any{"expr": "x**2 - 2", "x0": "1", "iterations": "1"}, 1.5},
		{"newton", map[string]any{"expr": "x**2 - 2", "x0": 1, "iterations": 0}, 1.0},
		{"evaluate", map[string]any{"expr": "x**2 + 1", "x": 3}, 10.0},
		{"evaluate", map[string]any{"expr": "x**2 + 1", "x": "0.5"}, 1.25},
		{"definite_integrate", map[string]any{"expr": "2*x", "a": 0, "b": 1}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			resp := call(tt.tool, tt.params)
			require.Empty(t, resp.Error)
			if diff := cmp.Diff(tt.want, resp.Result); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
			assert.NotEmpty(t, resp.String)
		})
	}
}

func TestHandleToolCall_ExprFields(t *testing.T) {
	resp := call("diff", map[string]any{"expr": "x**3"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "3*x**2", resp.String)
	assert.Equal(t, "3 \\cdot x^{2}", resp.LaTeX)
	assert.Equal(t, "mul", resp.Tree["type"])
}

func TestHandleToolCall_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tool   string
		params map[string]any
		want   string
	}{
		{"unknown tool", "matrix", nil, `unknown tool: "matrix"`},
		{"missing expr", "diff", nil, "missing param: expr"},
		{"missing equation", "solve", map[string]any{}, "missing param: equation"},
		{"missing point", "limit", map[string]any{"expr": "x"}, "missing param: point"},
		{"unknown param", "diff", map[string]any{"expr": "x", "bogus": 1}, "invalid params"},
		{"bad number", "newton", map[string]any{"expr": "x", "x0": "abc"}, "invalid params"},
		{"parse error", "simplify", map[string]any{"expr": "2*x +"}, "parse error"},
		{"zero derivative", "newton", map[string]any{"expr": "x**2", "x0": 0}, "derivative is zero"},
		{"bad order", "series", map[string]any{"expr": "x", "order": 0}, "order must be positive"},
		{"unsupported", "integrate", map[string]any{"expr": "x*exp(x)"}, "unsupported"},
		{"missing x0", "newton", map[string]any{"expr": "x**2 - 2"}, "missing param: x0"},
		{"missing x", "evaluate", map[string]any{"expr": "x + 1"}, "missing param: x"},
		{"missing a", "definite_integrate", map[string]any{"expr": "x", "b": 1}, "missing param: a"},
		{"missing b", "definite_integrate", map[string]any{"expr": "x", "a": 0}, "missing param: b"},
		{"too many iterations", "newton", map[string]any{"expr": "x**2 - 2", "x0": 1, "iterations": 20000000}, "iterations must be at most 1000"},
		{"order too high", "series", map[string]any{"expr": "exp(x)", "order": 65}, "order must be at most 64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(tt.tool, tt.params)
			assert.Contains(t, resp.Error, tt.want)
			assert.Nil(t, resp.Result)
		})
	}
}

func TestHandleToolCall_ZeroIsAValue(t *testing.T) {
	resp := call("evaluate", map[string]any{"expr": "x + 1", "x": 0})
	require.Empty(t, resp.Error)
	assert.Equal(t, 1.0, resp.Result)

	resp = call("newton", map[string]any{"expr": "x - 2", "x0": 0, "iterations": ccalc.MaxToolIterations})
	require.Empty(t, resp.Error)
	assert.Equal(t, 2.0, resp.Result)
}

func TestHandleToolCall_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp := newCalc().HandleToolCall(ctx, ccalc.ToolRequest{
		Tool:   "newton",
		Params: map[string]any{"expr": "x**2 - 2", "x0": 1},
	})
	assert.Contains(t, resp.Error, context.Canceled.Error())
	assert.Nil(t, resp.Result)
}

func TestToolResponse_JSON(t *testing.T) {
	data, err := json.Marshal(call("matrix", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"unknown tool: \"matrix\""}`, string(data))
}

func TestToolSpecs(t *testing.T) {
	specs := ccalc.ToolSpecs()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	want := []string{
		"definite_integrate", "diff", "evaluate", "expand", "factor",
		"integrate", "limit", "newton", "series", "simplify", "solve",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("tool names mismatch (-want +got):\n%s", diff)
	}

	// every advertised tool is handled
	for _, s := range specs {
		resp := call(s.Name, nil)
		assert.NotContains(t, resp.Error, "unknown tool", s.Name)
	}

	specs[0].Name = "changed"
	assert.Equal(t, "definite_integrate", ccalc.ToolSpecs()[0].Name)
}

func TestSchemaJSON(t *testing.T) {
	data, err := ccalc.SchemaJSON()
	require.NoError(t, err)
	var doc struct {
		Tools []ccalc.ToolSpec `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	if diff := cmp.Diff(ccalc.ToolSpecs(), doc.Tools); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
}
