package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/njchilds90/ccalc"
)

// exprCmds are the one-argument symbolic operations.
func (a *app) exprCmds() []*cobra.Command {
	ops := []struct {
		name, alias, short string
	}{
		{"simplify", "s", "Simplify an expression"},
		{"diff", "d", "Differentiate an expression"},
		{"integrate", "i", "Find an antiderivative"},
		{"factor", "", "Factor a polynomial over the rationals"},
		{"expand", "", "Multiply out products and powers"},
	}
	cmds := make([]*cobra.Command, 0, len(ops))
	for _, op := range ops {
		cmd := &cobra.Command{
			Use:   op.name + " [EXPR]",
			Short: op.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				expr, err := a.input(args)
				if err != nil {
					return err
				}
				return a.runTool(cmd, op.name, map[string]any{"expr": expr})
			},
		}
		if op.alias != "" {
			cmd.Aliases = []string{op.alias}
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (a *app) solveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve [EQUATION]",
		Short: "Solve an equation such as x**2 = 4",
		Long:  "Solve an equation lhs = rhs. Without '=' the expression is set equal to zero.",
		RunE: func(cmd *cobra.Command, args []string) error {
			eq, err := a.input(args)
			if err != nil {
				return err
			}
			return a.runTool(cmd, "solve", map[string]any{"equation": eq})
		},
	}
}

func (a *app) limitCmd() *cobra.Command {
	var point string
	cmd := &cobra.Command{
		Use:   "limit [EXPR]",
		Short: "Limit as the variable tends to a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := a.input(args)
			if err != nil {
				return err
			}
			return a.runTool(cmd, "limit", map[string]any{"expr": expr, "point": point})
		},
	}
	cmd.Flags().StringVar(&point, "point", "", "limit point; oo and -oo are allowed")
	_ = cmd.MarkFlagRequired("point")
	return cmd
}

func (a *app) seriesCmd() *cobra.Command {
	var (
		point string
		order int
	)
	cmd := &cobra.Command{
		Use:   "series [EXPR]",
		Short: "Taylor series with a remainder term",
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := a.input(args)
			if err != nil {
				return err
			}
			return a.runTool(cmd, "series", map[string]any{"expr": expr, "point": point, "order": order})
		},
	}
	cmd.Flags().StringVar(&point, "point", "0", "expansion point")
	cmd.Flags().IntVar(&order, "order", 6, "order of the O term")
	return cmd
}

func (a *app) newtonCmd() *cobra.Command {
	var (
		x0         float64
		iterations int
		tol        float64
		trace      bool
	)
	cmd := &cobra.Command{
		Use:   "newton [EXPR]",
		Short: "Refine a root with Newton-Raphson",
		Long: `Run a fixed number of Newton-Raphson steps from x0. A positive
--tol stops early once a step moves less than tol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := a.input(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("iterations") {
				iterations = a.cfg.Newton.Iterations
			}
			if !cmd.Flags().Changed("tol") {
				tol = a.cfg.Newton.Tolerance
			}
			if trace {
				return a.newtonTrace(cmd, expr, x0, iterations, tol)
			}
			return a.runTool(cmd, "newton", map[string]any{
				"expr":       expr,
				"x0":         x0,
				"iterations": iterations,
				"tol":        tol,
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&x0, "x0", 0, "initial guess")
	f.IntVar(&iterations, "iterations", 0, "number of steps (default from config)")
	f.Float64Var(&tol, "tol", 0, "early-stop tolerance, 0 disables")
	f.BoolVar(&trace, "trace", false, "print every step")
	_ = cmd.MarkFlagRequired("x0")
	return cmd
}

func (a *app) newtonTrace(cmd *cobra.Command, expr string, x0 float64, iterations int, tol float64) error {
	steps, err := a.calc.WithNewton(iterations, tol).NewtonTrace(expr, x0)
	if a.jsonOut {
		if jerr := a.printJSON(cmd, steps); jerr != nil {
			return jerr
		}
		return err
	}
	prec := a.cfg.Precision
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITER\tX\tF(X)\tF'(X)\tNEXT")
	for _, s := range steps {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.Iteration,
			ccalc.FormatFloat(s.X, prec), ccalc.FormatFloat(s.FX, prec),
			ccalc.FormatFloat(s.DFX, prec), ccalc.FormatFloat(s.Next, prec))
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func (a *app) evaluateCmd() *cobra.Command {
	var at float64
	cmd := &cobra.Command{
		Use:   "evaluate [EXPR]",
		Short: "Evaluate an expression at a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := a.input(args)
			if err != nil {
				return err
			}
			return a.runTool(cmd, "evaluate", map[string]any{"expr": expr, "x": at})
		},
	}
	cmd.Flags().Float64Var(&at, "at", 0, "value of the variable")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func (a *app) definiteCmd() *cobra.Command {
	var from, to float64
	cmd := &cobra.Command{
		Use:   "definite-integrate [EXPR]",
		Short: "Integrate numerically over an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := a.input(args)
			if err != nil {
				return err
			}
			return a.runTool(cmd, "definite_integrate", map[string]any{"expr": expr, "a": from, "b": to})
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "lower bound")
	cmd.Flags().Float64Var(&to, "to", 0, "upper bound")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
