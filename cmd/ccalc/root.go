package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/ccalc"
	"github.com/njchilds90/ccalc/internal/config"
	"github.com/njchilds90/ccalc/internal/console"
	"github.com/njchilds90/ccalc/internal/logging"
)

// app holds the global flags and the state every subcommand shares.
type app struct {
	configPath string
	logLevel   string
	precision  int
	variable   string
	jsonOut    bool
	file       string

	cfg  *config.Config
	log  *slog.Logger
	calc *ccalc.Calculator
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ccalc",
		Short: "Symbolic calculator with a Newton-Raphson root finder",
		Long: `ccalc simplifies, differentiates, integrates, factors and solves
expressions written as text (x**3 + 2*x), computes limits and series,
and refines roots with Newton-Raphson. Run "ccalc console" for the
interactive menu, "ccalc serve" for the HTTP API or "ccalc mcp" for an
MCP server on stdio.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "config file (YAML)")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.IntVar(&a.precision, "precision", 0, "significant digits of numeric results")
	f.StringVar(&a.variable, "var", "", "variable to work in")
	f.BoolVar(&a.jsonOut, "json", false, "print results as JSON")
	f.StringVarP(&a.file, "file", "f", "", "read the expression from a file")

	root.AddCommand(a.exprCmds()...)
	root.AddCommand(
		a.solveCmd(),
		a.limitCmd(),
		a.seriesCmd(),
		a.newtonCmd(),
		a.evaluateCmd(),
		a.definiteCmd(),
		a.consoleCmd(),
		a.serveCmd(),
		a.mcpCmd(),
		a.schemaCmd(),
		a.configCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads the config, applies flag overrides and builds the calculator.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("precision") {
		cfg.Precision = a.precision
	}
	if flags.Changed("var") {
		cfg.Variable = a.variable
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.NewWriter(cmd.ErrOrStderr(), level)
	a.calc = ccalc.NewCalculator(cfg.CalculatorOptions(), a.log)
	a.log.Debug("calculator ready", "variable", cfg.Variable, "precision", cfg.Precision, "config", a.configPath)
	return nil
}

// input returns the expression from the arguments or from --file.
func (a *app) input(args []string) (string, error) {
	if a.file != "" {
		if len(args) > 0 {
			return "", errors.New("give an expression or --file, not both")
		}
		return console.LoadExpression(a.file)
	}
	if len(args) == 0 {
		return "", errors.New("missing expression")
	}
	return strings.Join(args, " "), nil
}

// runTool runs one tool call and prints its text, or the whole response
// with --json.
func (a *app) runTool(cmd *cobra.Command, tool string, params map[string]any) error {
	resp := a.calc.HandleToolCall(cmd.Context(), ccalc.ToolRequest{Tool: tool, Params: params})
	if a.jsonOut {
		if err := a.printJSON(cmd, resp); err != nil {
			return err
		}
	} else if resp.Error == "" {
		fmt.Fprintln(cmd.OutOrStdout(), resp.String)
	}
	if resp.Error != "" {
		return errors.New(resp.Error)
	}
	return nil
}

func (a *app) printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
