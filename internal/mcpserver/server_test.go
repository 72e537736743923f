package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/ccalc"
)

func newServer() *Server {
	return New(ccalc.NewCalculator(ccalc.DefaultOptions(), nil), "test", nil)
}

func call(t *testing.T, s *Server, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	st := s.MCP().GetTool(tool)
	require.NotNil(t, st, tool)
	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: tool, Arguments: args}}
	res, err := st.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestRegistersEveryTool(t *testing.T) {
	tools := newServer().MCP().ListTools()
	require.Len(t, tools, len(ccalc.ToolSpecs()))
	for _, spec := range ccalc.ToolSpecs() {
		st, ok := tools[spec.Name]
		require.True(t, ok, spec.Name)
		assert.Equal(t, spec.Description, st.Tool.Description)
		for _, p := range spec.Params {
			assert.Contains(t, st.Tool.InputSchema.Properties, p.Name)
			if p.Required {
				assert.Contains(t, st.Tool.InputSchema.Required, p.Name)
			}
		}
	}
}

func TestDiffTool(t *testing.T) {
	res := call(t, newServer(), "diff", map[string]any{"expr": "x**3"})
	assert.False(t, res.IsError)

	var resp ccalc.ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &resp))
	assert.Equal(t, "3*x**2", resp.String)
	assert.Equal(t, "3*x**2", resp.Result)
}

func TestNewtonToolNumberArgs(t *testing.T) {
	res := call(t, newServer(), "newton", map[string]any{"expr": "x**2 - 2", "x0": 1.0, "iterations": 20.0, "tol": 1e-12})
	require.False(t, res.IsError, text(t, res))

	var resp ccalc.ToolResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &resp))
	assert.Equal(t, "1.41421356237", resp.String)
}

func TestToolErrorsAreResults(t *testing.T) {
	s := newServer()

	res := call(t, s, "solve", map[string]any{})
	assert.True(t, res.IsError)
	assert.Equal(t, "missing param: equation", text(t, res))

	res = call(t, s, "simplify", map[string]any{"expr": "2*x +"})
	assert.True(t, res.IsError)

	res = call(t, s, "limit", map[string]any{"expr": "1/x", "point": "0", "bogus": "1"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "invalid params")
}
