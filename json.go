package ccalc

import (
	"encoding/json"
	"fmt"
)

// ============================================================
// JSON trees
// ============================================================

// Tree returns the JSON-ready tree of e. Every node carries a "type"
// field: num, sym, const, inf, add, mul, pow, func or order.
func Tree(e Expr) map[string]any { return e.toJSON() }

// ToJSON encodes the tree of e.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// ParseJSON decodes a tree written by ToJSON.
func ParseJSON(data []byte) (Expr, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return FromTree(m)
}

// FromTree rebuilds an expression from a tree produced by Tree.
func FromTree(data map[string]any) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: expression must be an object", ErrParse)
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: field 'type' must be a non-empty string", ErrParse)
	}

	str := func(field string) (string, error) {
		s, ok := data[field].(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%w: %s: %q must be a non-empty string", ErrParse, typ, field)
		}
		return s, nil
	}
	sub := func(field string) (Expr, error) {
		m, ok := data[field].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q must be an object", ErrParse, typ, field)
		}
		e, err := FromTree(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}
	list := func(field string) ([]Expr, error) {
		raw, ok := data[field].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q must be an array", ErrParse, typ, field)
		}
		out := make([]Expr, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s: %q[%d] must be an object", ErrParse, typ, field, i)
			}
			e, err := FromTree(m)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = e
		}
		return out, nil
	}

	switch typ {
	case "num":
		val, err := str("value")
		if err != nil {
			return nil, err
		}
		r, ok := parseRat(val)
		if !ok {
			return nil, fmt.Errorf("%w: invalid num value %q", ErrParse, val)
		}
		inexact, _ := data["inexact"].(bool)
		return &Num{val: r, inexact: inexact}, nil
	case "sym":
		name, err := str("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil
	case "const":
		name, err := str("name")
		if err != nil {
			return nil, err
		}
		for _, c := range []*Const{Pi, E, I} {
			if c.name == name {
				return c, nil
			}
		}
		return nil, fmt.Errorf("%w: unknown constant %q", ErrParse, name)
	case "inf":
		neg, _ := data["negative"].(bool)
		if neg {
			return NegOo, nil
		}
		return Oo, nil
	case "add":
		terms, err := list("terms")
		if err != nil {
			return nil, err
		}
		return AddOf(terms...), nil
	case "mul":
		factors, err := list("factors")
		if err != nil {
			return nil, err
		}
		return MulOf(factors...), nil
	case "pow":
		base, err := sub("base")
		if err != nil {
			return nil, err
		}
		exp, err := sub("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	case "func":
		name, err := str("name")
		if err != nil {
			return nil, err
		}
		if _, ok := floatFuncs[name]; !ok {
			return nil, fmt.Errorf("%w: unknown function %q", ErrParse, name)
		}
		arg, err := sub("arg")
		if err != nil {
			return nil, err
		}
		return funcOf(name, arg).Simplify(), nil
	case "order":
		v, err := str("var")
		if err != nil {
			return nil, err
		}
		point, err := sub("point")
		if err != nil {
			return nil, err
		}
		order, ok := data["order"].(float64)
		if !ok {
			if n, isInt := data["order"].(int); isInt {
				order, ok = float64(n), true
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: order: \"order\" must be a number", ErrParse)
		}
		return OTerm(v, point, int(order)), nil
	}
	return nil, fmt.Errorf("%w: unknown expression type %q", ErrParse, typ)
}
