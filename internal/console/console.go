// Package console implements the interactive menu-driven calculator.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/njchilds90/ccalc"
	"github.com/njchilds90/ccalc/rootfind"
)

const rule = "============================================================"

// Options configure a Console.
type Options struct {
	// Theme is auto, dark, light or notty.
	Theme  string
	Logger *slog.Logger
}

// Console reads expressions and menu choices from an input stream and
// writes results to an output stream. Everything written is kept in a
// transcript that :save stores.
type Console struct {
	calc       *ccalc.Calculator
	in         *bufio.Scanner
	out        io.Writer
	tty        bool
	log        *slog.Logger
	theme      string
	styles     *styles
	transcript strings.Builder
}

// New returns a Console running calc.
func New(calc *ccalc.Calculator, in io.Reader, out io.Writer, opts Options) *Console {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Theme == "" {
		opts.Theme = "auto"
	}
	c := &Console{
		calc:  calc,
		in:    bufio.NewScanner(in),
		tty:   isTerminal(out),
		log:   opts.Logger,
		theme: opts.Theme,
	}
	c.out = io.MultiWriter(out, &c.transcript)
	c.styles = newStyles(c.tty, c.theme)
	return c
}

var errQuit = errors.New("quit")

func (c *Console) printf(format string, args ...any) { fmt.Fprintf(c.out, format, args...) }
func (c *Console) println(args ...any)               { fmt.Fprintln(c.out, args...) }

// prompt writes p and reads one line. It returns io.EOF when input ends.
func (c *Console) prompt(p string) (string, error) {
	c.printf("%s", p)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := c.in.Text()
	c.transcript.WriteString(line + "\n")
	return strings.TrimSpace(line), nil
}

// Run drives the read-menu-compute loop until exit, :quit, end of input
// or ctx cancellation. Calculation errors are reported and never end
// the loop.
func (c *Console) Run(ctx context.Context) error {
	c.banner()
	variable := c.calc.Options().Variable
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := c.prompt(fmt.Sprintf("To quit the program, type %s\nEnter function in terms of %s (2*%s**3): ",
			c.styles.alert("exit"), variable, variable))
		if err != nil {
			return eofOK(err)
		}
		if strings.EqualFold(line, "exit") {
			c.goodbye()
			return nil
		}
		if strings.HasPrefix(line, ":") {
			expr, err := c.command(line)
			if errors.Is(err, errQuit) {
				c.goodbye()
				return nil
			}
			if err != nil {
				c.println(c.styles.alert(err.Error()))
				c.println()
				continue
			}
			if expr == "" {
				continue
			}
			line = expr
			c.printf("Loaded expression: %s\n", line)
		}
		if line == "" {
			continue
		}

		c.menu()
		choice, err := c.prompt("[SELECT]: ")
		if err != nil {
			return eofOK(err)
		}
		if strings.EqualFold(choice, "exit") {
			c.goodbye()
			return nil
		}
		option, err := strconv.Atoi(choice)
		if err != nil {
			c.println(c.styles.alert("Invalid input! Please enter a number between 1 and 8, or 'exit' to quit."))
			c.println()
			continue
		}
		if option < 1 || option > 8 {
			c.println(c.styles.alert("Invalid option! Please enter a number between 1 and 8."))
			c.println()
			continue
		}
		if err := c.dispatch(option, line); err != nil {
			return eofOK(err)
		}
	}
}

func eofOK(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) banner() {
	c.println()
	c.println(c.styles.title("=====WELCOME TO C-CALC===="))
	c.println()
	c.println(c.styles.alert("Please read the instructions before using this calculator. Enter any expression and select option 1."))
	c.println()
}

func (c *Console) goodbye() {
	c.println(c.styles.alert("Thanks for using our Calculator!"))
}

func (c *Console) menu() {
	c.println("Please, select an option (1-8)")
	c.println(rule)
	c.println("1. Instructions and guidelines")
	c.println("2. Perform Algebraic Simplification")
	c.println("3. Perform Differentiation")
	c.println("4. Perform NRM (Newton-Raphson)")
	c.println("5. Calculate limit")
	c.println("6. Perform Integration")
	c.println("7. Factor")
	c.println("8. Solve equation")
	c.println(rule)
}

// dispatch runs one menu option. Only input errors are returned.
func (c *Console) dispatch(option int, expr string) error {
	c.log.Debug("menu option", "option", option, "expr", expr)
	variable := c.calc.Options().Variable
	switch option {
	case 1:
		c.instructions()
	case 2:
		r, err := c.calc.Simplify(expr)
		if err != nil {
			c.fail("check your equation", err)
			return nil
		}
		c.printf("\nOriginal Expression: %s\n", expr)
		c.printf("%s %s\n\n", c.styles.ok("Simplified Expression:"), r)
	case 3:
		r, err := c.calc.Diff(expr)
		if err != nil {
			c.fail("Invalid function. Please check your syntax.", err)
			return nil
		}
		c.printf("%s %s with respect to %s is: %s\n\n", c.styles.ok("The derivative of"), expr, variable, r)
	case 4:
		return c.newton(expr)
	case 5:
		return c.limit(expr)
	case 6:
		r, err := c.calc.Integrate(expr)
		if err != nil {
			c.fail("Integration Error", err)
			return nil
		}
		c.printf("%s %s\n\n", c.styles.ok(fmt.Sprintf("Integral with respect to %s:", variable)), r)
	case 7:
		r, err := c.calc.Factor(expr)
		if err != nil {
			c.fail("check your equation", err)
			return nil
		}
		c.printf("%s %s\n\n", c.styles.ok("Factored form:"), r)
	case 8:
		r, err := c.calc.Solve(expr)
		if err != nil {
			c.fail("Solve Error", err)
			return nil
		}
		c.printf("%s %s\n\n", c.styles.ok("Solve result:"), r)
	}
	return nil
}

func (c *Console) fail(msg string, err error) {
	c.log.Debug("operation failed", "msg", msg, "error", err)
	c.printf("%s: %v\n\n", c.styles.alert(msg), err)
}

// readNumber accepts a plain number or a constant expression such as pi/2.
func readNumber(s string) (float64, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	e, err := ccalc.Parse(s)
	if err != nil {
		return 0, err
	}
	return ccalc.Evaluate(e, "", 0)
}

func (c *Console) newton(expr string) error {
	text, err := c.prompt("Enter initial root: ")
	if err != nil {
		return err
	}
	x0, err := readNumber(text)
	if err != nil {
		c.fail("NRM Error", err)
		return nil
	}
	if d, err := c.calc.Diff(expr); err == nil {
		c.printf("%s %s\n", c.styles.ok("Derivative:"), d)
	}
	steps, err := c.calc.NewtonTrace(expr, x0)
	precision := c.calc.Options().Precision
	for _, s := range steps {
		c.printf("==> f(%s) = %s\n", ccalc.FormatFloat(s.X, precision), ccalc.FormatFloat(s.FX, precision))
		c.printf("==> f'(%s) = %s\n", ccalc.FormatFloat(s.X, precision), ccalc.FormatFloat(s.DFX, precision))
		c.println(rule)
		c.printf("%s %s\n", c.styles.ok(fmt.Sprintf("NEW ROOT after %d iteration:", s.Iteration)), ccalc.FormatFloat(s.Next, precision))
		c.println(rule)
	}
	switch {
	case errors.Is(err, rootfind.ErrZeroDerivative):
		c.println(c.styles.alert("Derivative is zero. Equation ended."))
		c.println()
		return nil
	case err != nil:
		c.fail("NRM Error", err)
		return nil
	}
	root := x0
	if len(steps) > 0 {
		root = steps[len(steps)-1].Next
	}
	c.printf("%s %s\n\n", c.styles.ok("Newton-Raphson root (approx):"), ccalc.FormatFloat(root, precision))
	return nil
}

func (c *Console) limit(expr string) error {
	variable := c.calc.Options().Variable
	simplified, err := c.calc.Simplify(expr)
	if err != nil {
		c.fail("limit Error check equation", err)
		return nil
	}
	c.printf("==> Simplified expression: %s\n", simplified)
	if factored, err := c.calc.Factor(simplified.Text); err == nil {
		c.printf("==> Factored Expression: %s\n", factored)
	}
	point, err := c.prompt(fmt.Sprintf("%s tends to: ", variable))
	if err != nil {
		return err
	}
	r, err := c.calc.Limit(expr, point)
	if err != nil {
		c.fail("limit Error check equation", err)
		return nil
	}
	c.println(rule)
	c.printf("%s %s\n", c.styles.ok(fmt.Sprintf("LIMIT as %s tends to %s is:", variable, point)), r)
	c.println(rule)
	c.println()
	return nil
}

// command runs a colon command. A non-empty expr result is an expression
// to continue with.
func (c *Console) command(line string) (expr string, err error) {
	args, err := shlex.Split(line)
	if err != nil {
		return "", fmt.Errorf("invalid command: %w", err)
	}
	if len(args) == 0 {
		return "", nil
	}
	switch args[0] {
	case ":help":
		c.println(":help           show this list")
		c.println(":theme [NAME]   switch between dark and light, or set auto, dark, light, notty")
		c.println(":load FILE      read the expression from FILE")
		c.println(":save FILE      write this session's transcript to FILE")
		c.println(":clear          clear the screen and the transcript")
		c.println(":quit           leave the calculator")
		c.println()
	case ":theme":
		next := "light"
		switch {
		case len(args) > 1:
			next = args[1]
		case c.theme == "light":
			next = "dark"
		}
		if err := c.styles.setTheme(next); err != nil {
			return "", err
		}
		c.theme = next
		c.printf("Theme set to %s\n\n", c.theme)
	case ":load":
		if len(args) != 2 {
			return "", errors.New("usage: :load FILE")
		}
		return LoadExpression(args[1])
	case ":save":
		if len(args) != 2 {
			return "", errors.New("usage: :save FILE")
		}
		if err := os.WriteFile(args[1], []byte(c.transcript.String()), 0o644); err != nil {
			return "", fmt.Errorf("save transcript: %w", err)
		}
		c.printf("Transcript saved to %s\n\n", args[1])
	case ":clear":
		c.transcript.Reset()
		if c.tty {
			c.printf("\033[H\033[2J")
		}
		c.println("Transcript cleared.")
	case ":quit", ":q":
		return "", errQuit
	default:
		return "", fmt.Errorf("unknown command %s (try :help)", args[0])
	}
	return "", nil
}

// LoadExpression returns the first non-blank, non-comment line of path.
func LoadExpression(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load expression: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return line, nil
		}
	}
	return "", fmt.Errorf("load expression: %s is empty", path)
}
