package console

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/njchilds90/ccalc/internal/config"
)

const instructionsMarkdown = `# C-Calculator: instructions and guidelines

## Functions

Type functions the way a program reads them, otherwise the result will
be wrong or the input rejected. To enter x⁴ + 3x³ - 2x + 1 write
` + "`x**4 + 3*x**3 - 2*x + 1`" + `.

Special functions are written as ` + "`log(x)`, `cos(x)`, `sin(x)`, `sin(3*x**2)`, `E**3`, `exp(4*x)`" + `.
Use brackets: ` + "`(x+3)-(x+4)/(2*x)`" + ` is not ` + "`((x+3)-(x+4))/(2*x)`" + `.

## Error messages

- **check your equation**: check the operators (*, +, -, /).
- **Invalid function. Please check your syntax.**: check the operators and how the function is written.
- **Derivative is zero. Equation ended.**: the derivative vanished at an iterate, so Newton-Raphson cannot continue from that point.
- **NRM Error**: the Newton-Raphson calculation failed.

## Menu selection

Select an option with its number (1, 2, 3 ...). Limits accept ` + "`oo`" + ` and ` + "`-oo`" + `.

## Commands

` + "`:help`, `:theme`, `:load FILE`, `:save FILE`, `:clear`, `:quit`" + `
`

// styles colours console output and renders markdown for the chosen
// theme. Output that is not a terminal gets plain text.
type styles struct {
	profile  termenv.Profile
	tty      bool
	renderer *glamour.TermRenderer
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newStyles(tty bool, theme string) *styles {
	s := &styles{tty: tty}
	s.profile = termenv.Ascii
	if tty && theme != "notty" {
		s.profile = termenv.EnvColorProfile()
	}
	if err := s.setTheme(theme); err != nil {
		_ = s.setTheme("notty")
	}
	return s
}

// setTheme validates theme before anything else; output that is not a
// terminal always renders with notty.
func (s *styles) setTheme(theme string) error {
	if !slices.Contains(config.Themes, theme) {
		return fmt.Errorf("unknown theme %q (valid: %s)", theme, strings.Join(config.Themes, ", "))
	}
	var opt glamour.TermRendererOption
	switch {
	case theme == "notty" || !s.tty:
		opt = glamour.WithStandardStyle("notty")
	case theme == "auto":
		opt = glamour.WithAutoStyle()
	default:
		opt = glamour.WithStandardStyle(theme)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	s.renderer = r
	return nil
}

func (s *styles) color(text, hex string, bold bool) string {
	st := s.profile.String(text).Foreground(s.profile.Color(hex))
	if bold {
		st = st.Bold()
	}
	return st.String()
}

func (s *styles) title(text string) string { return s.color(text, "#c084fc", true) }
func (s *styles) alert(text string) string { return s.color(text, "#f87171", true) }
func (s *styles) ok(text string) string    { return s.color(text, "#4ade80", false) }

func (s *styles) markdown(md string) string {
	out, err := s.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (c *Console) instructions() {
	c.println(c.styles.markdown(instructionsMarkdown))
}
