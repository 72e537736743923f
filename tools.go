package ccalc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// ============================================================
// Tool protocol
// ============================================================

// ToolRequest names a tool and its parameters. Parameters are decoded
// weakly, so numbers may also arrive as strings.
type ToolRequest struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// ToolResponse carries either a result or an error message.
type ToolResponse struct {
	Result any            `json:"result,omitempty"`
	String string         `json:"string,omitempty"`
	LaTeX  string         `json:"latex,omitempty"`
	Tree   map[string]any `json:"tree,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// ErrUnknownTool is returned for a tool name HandleToolCall does not know.
var ErrUnknownTool = errors.New("unknown tool")

type exprParams struct {
	Expr string `mapstructure:"expr"`
	Var  string `mapstructure:"var"`
}

type solveParams struct {
	Equation string `mapstructure:"equation"`
	Var      string `mapstructure:"var"`
}

type limitParams struct {
	Expr  string `mapstructure:"expr"`
	Var   string `mapstructure:"var"`
	Point string `mapstructure:"point"`
}

type seriesParams struct {
	Expr  string `mapstructure:"expr"`
	Var   string `mapstructure:"var"`
	Point string `mapstructure:"point"`
	Order int    `mapstructure:"order"`
}

type newtonParams struct {
	Expr       string   `mapstructure:"expr"`
	Var        string   `mapstructure:"var"`
	X0         *float64 `mapstructure:"x0"`
	Iterations *int     `mapstructure:"iterations"`
	Tolerance  float64  `mapstructure:"tol"`
}

type evaluateParams struct {
	Expr string   `mapstructure:"expr"`
	Var  string   `mapstructure:"var"`
	X    *float64 `mapstructure:"x"`
}

type definiteParams struct {
	Expr string   `mapstructure:"expr"`
	Var  string   `mapstructure:"var"`
	A    *float64 `mapstructure:"a"`
	B    *float64 `mapstructure:"b"`
}

// Limits on tool workloads.
const (
	MaxToolIterations  = 1000
	MaxToolSeriesOrder = 64
)

func decodeParams(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return fmt.Errorf("missing param: %s", name)
	}
	return nil
}

func requiredNumber(name string, value *float64) (float64, error) {
	if value == nil {
		return 0, fmt.Errorf("missing param: %s", name)
	}
	return *value, nil
}

func atMost(name string, value, limit int) error {
	if value > limit {
		return fmt.Errorf("%w: %s must be at most %d, got %d", ErrUnsupported, name, limit, value)
	}
	return nil
}

// HandleToolCall runs one tool under ctx. Failures are reported in
// ToolResponse.Error; it never panics.
func (c *Calculator) HandleToolCall(ctx context.Context, req ToolRequest) ToolResponse {
	resp, err := c.WithContext(ctx).handleTool(req)
	if err != nil {
		c.log.Debug("tool call failed", "tool", req.Tool, "error", err)
		return ToolResponse{Error: err.Error()}
	}
	return resp
}

func exprResponse(r Result) ToolResponse {
	return ToolResponse{Result: r.Text, String: r.Text, LaTeX: r.LaTeX(), Tree: Tree(r.Expr)}
}

func numberResponse(r Result) ToolResponse {
	return ToolResponse{Result: r.Number, String: r.Text, LaTeX: r.Text}
}

func (c *Calculator) handleTool(req ToolRequest) (ToolResponse, error) {
	if req.Params == nil {
		req.Params = map[string]any{}
	}
	switch req.Tool {
	case "simplify", "diff", "integrate", "factor", "expand":
		var p exprParams
		if err := decodeParams(req.Params, &p); err != nil {
			return ToolResponse{}, err
		}
		if err := required("expr", p.Expr); err != nil {
			return ToolResponse{}, err
		}
		calc := c.WithVariable(p.Var)
		op := map[string]func(string) (Result, error){
			"simplify":  calc.Simplify,
			"diff":      calc.Diff,
			"integrate": calc.Integrate,
			"factor":    calc.Factor,
			"expand":    calc.Expand,
		}[req.Tool]
		r, err := op(p.Expr)
		if err != nil {
			return ToolResponse{}, err
		}
		return exprResponse(r), nil

	case "solve":
		var p solveParams
		if err := decodeParams(req.Params, &p); err != nil {
			return ToolResponse{}, err
		}
		if err := required("equation", p.Equation); err != nil {
			return ToolResponse{}, err
		}
		r, err := c.WithVariable(p.Var).Solve(p.Equation)
		if err != nil {
			return ToolResponse{}, err
		}
		sols := make([]string, len(r.Values))
		for i, v := range r.Values {
			sols[i] = v.String()
		}
		return ToolResponse{Result: sols, String: r.Text, LaTeX: r.LaTeX()}, nil

	case "limit":
		var p limitParams
		if err := decodeParams(req.Params, &p); err != nil {
			return ToolResponse{}, err
		}
		if err := required("expr", p.Expr); err != nil {
			return ToolResponse{}, err
		}
		if err := required("point", p.Point); err != nil {
			return ToolResponse{}, err
		}
		r, err := c.WithVariable(p.Var).Limit(p.Expr, p.Point)
		if err != nil {
			return ToolResponse{}, err
		}
		return exprResponse(r), nil

	case "series":
		p := seriesParams{Point: "0", Order: 6}
		if err := decodeParams(req.Params, &p); err != nil {
			return ToolResponse{}, err
		}
		if err := required("expr", p.Expr); err != nil {
			return ToolResponse{}, err
		}
		if err := atMost("order", p.Order, MaxToolSeriesOrder); err != nil {
			return ToolResponse{}, err
		}
		r, err := c.WithVariable(p.Var).Series(p.Expr, p.Point, p.Order)
		if err != nil {
			return ToolResponse{}, err
		}
		return exprResponse(r), nil

	case "newton":
		var p newtonParams
		if err := decodeParams(req.Params, &p); err != nil {
			return ToolResponse{}, err
		}
		if err := required("expr", p.Expr); err != nil {
			return ToolResponse{}, err
		}
		x0, err := requiredNumber("x0", p.X0)
		if err != nil {
			return ToolResponse{}, err
		}
		iterations := c.opts.Iterations
		if p.Iterations != nil {
			iterations = *p.Iterations
		}
		if err := atMost("iterations", iterations, MaxToolIterations); err != nil {
			return ToolResponse{}, err
		}
		r, err := c.WithVariable(p.Var).WithNewton(iterations, p.Tolerance).NewtonRaphson(p.Expr, x0)
		if err != nil {
			return ToolResponse{}, err
		}
		return numberResponse(r), nil

	case "evaluate":
		var p evaluateParams
		if err := decodeParams(req.Params, &p); err != nil {
			return ToolResponse{}, err
		}
		if err := required("expr", p.Expr); err != nil {
			return ToolResponse{}, err
		}
		x, err := requiredNumber("x", p.X)
		if err != nil {
			return ToolResponse{}, err
		}
		r, err := c.WithVariable(p.Var).EvaluateAt(p.Expr, x)
		if err != nil {
			return ToolResponse{}, err
		}
		return numberResponse(r), nil

	case "definite_integrate":
		var p definiteParams
		if err := decodeParams(req.Params, &p); err != nil {
			return ToolResponse{}, err
		}
		if err := required("expr", p.Expr); err != nil {
			return ToolResponse{}, err
		}
		a, err := requiredNumber("a", p.A)
		if err != nil {
			return ToolResponse{}, err
		}
		b, err := requiredNumber("b", p.B)
		if err != nil {
			return ToolResponse{}, err
		}
		r, err := c.WithVariable(p.Var).DefiniteIntegrate(p.Expr, a, b)
		if err != nil {
			return ToolResponse{}, err
		}
		return numberResponse(r), nil
	}
	return ToolResponse{}, fmt.Errorf("%w: %q", ErrUnknownTool, req.Tool)
}

// ============================================================
// Tool descriptions
// ============================================================

// ToolParam describes one tool parameter. Type is "string", "number" or
// "integer".
type ToolParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

// ToolSpec describes a tool for schema endpoints and MCP registration.
type ToolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ToolParam `json:"params"`
}

var (
	exprParam = ToolParam{Name: "expr", Type: "string", Description: "Expression, e.g. x**2 - 2*x + 1", Required: true}
	varParam  = ToolParam{Name: "var", Type: "string", Description: "Variable name (default x)"}
)

var toolSpecs = []ToolSpec{
	{Name: "simplify", Description: "Simplify an expression", Params: []ToolParam{exprParam, varParam}},
	{Name: "diff", Description: "Differentiate an expression", Params: []ToolParam{exprParam, varParam}},
	{Name: "integrate", Description: "Find an antiderivative", Params: []ToolParam{exprParam, varParam}},
	{Name: "definite_integrate", Description: "Integrate numerically over [a, b]", Params: []ToolParam{
		exprParam, varParam,
		{Name: "a", Type: "number", Description: "Lower bound", Required: true},
		{Name: "b", Type: "number", Description: "Upper bound", Required: true},
	}},
	{Name: "factor", Description: "Factor a polynomial over the rationals", Params: []ToolParam{exprParam, varParam}},
	{Name: "expand", Description: "Expand products and powers", Params: []ToolParam{exprParam, varParam}},
	{Name: "solve", Description: "Solve an equation such as x**2 = 4", Params: []ToolParam{
		{Name: "equation", Type: "string", Description: "Equation lhs = rhs, or an expression equal to zero", Required: true},
		varParam,
	}},
	{Name: "limit", Description: "Limit as the variable tends to a point", Params: []ToolParam{
		exprParam, varParam,
		{Name: "point", Type: "string", Description: "Limit point, oo or -oo allowed", Required: true},
	}},
	{Name: "series", Description: "Taylor series with remainder term", Params: []ToolParam{
		exprParam, varParam,
		{Name: "point", Type: "string", Description: "Expansion point (default 0)"},
		{Name: "order", Type: "integer", Description: "Order of the O term (default 6, at most 64)"},
	}},
	{Name: "newton", Description: "Newton-Raphson root refinement", Params: []ToolParam{
		exprParam, varParam,
		{Name: "x0", Type: "number", Description: "Initial guess", Required: true},
		{Name: "iterations", Type: "integer", Description: "Iteration count (at most 1000)"},
		{Name: "tol", Type: "number", Description: "Early-stop step tolerance (0 disables)"},
	}},
	{Name: "evaluate", Description: "Evaluate an expression at a point", Params: []ToolParam{
		exprParam, varParam,
		{Name: "x", Type: "number", Description: "Value of the variable", Required: true},
	}},
}

// ToolSpecs returns the tool descriptions sorted by name.
func ToolSpecs() []ToolSpec {
	out := make([]ToolSpec, len(toolSpecs))
	copy(out, toolSpecs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SchemaJSON encodes ToolSpecs as {"tools": [...]}.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(map[string]any{"tools": ToolSpecs()}, "", "  ")
}
