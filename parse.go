package ccalc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPow
	tokLParen
	tokRParen
	tokComma
	tokAssign
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
	pos  int
	num  *Num
}

type lexer struct {
	s string
	i int
}

// peek decodes the rune at the current offset. Invalid UTF-8 decodes as
// utf8.RuneError with width 1.
func (l *lexer) peek() (rune, int) {
	return utf8.DecodeRuneInString(l.s[l.i:])
}

func (l *lexer) next() token {
	for l.i < len(l.s) {
		r, w := l.peek()
		if !unicode.IsSpace(r) {
			break
		}
		l.i += w
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF, pos: l.i}
	}
	start := l.i
	single := func(kind tokenKind) token {
		l.i++
		return token{kind: kind, text: l.s[start:l.i], pos: start}
	}
	switch l.s[l.i] {
	case '+':
		return single(tokPlus)
	case '-':
		return single(tokMinus)
	case '*':
		if l.i+1 < len(l.s) && l.s[l.i+1] == '*' {
			l.i += 2
			return token{kind: tokPow, text: "**", pos: start}
		}
		return single(tokStar)
	case '/':
		return single(tokSlash)
	case '^':
		return single(tokPow)
	case '(', '[':
		return single(tokLParen)
	case ')', ']':
		return single(tokRParen)
	case ',':
		return single(tokComma)
	case '=':
		if l.i+1 < len(l.s) && l.s[l.i+1] == '=' {
			l.i += 2
			return token{kind: tokAssign, text: "==", pos: start}
		}
		return single(tokAssign)
	}

	ch, width := l.peek()
	if ch == utf8.RuneError && width == 1 {
		l.i++
		return token{kind: tokInvalid, text: l.s[start:l.i], pos: start}
	}
	if isIdentStart(ch) {
		l.i += width
		for l.i < len(l.s) {
			r, w := l.peek()
			if !isIdentContinue(r) {
				break
			}
			l.i += w
		}
		return token{kind: tokIdent, text: l.s[start:l.i], pos: start}
	}
	if ch == '.' || isDigit(ch) {
		l.i = scanNumber(l.s, l.i)
		txt := l.s[start:l.i]
		n, ok := parseDecimal(txt)
		if !ok {
			return token{kind: tokInvalid, text: txt, pos: start}
		}
		return token{kind: tokNumber, text: txt, pos: start, num: n}
	}
	l.i += width
	return token{kind: tokInvalid, text: string(ch), pos: start}
}

func scanNumber(s string, i int) int {
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(rune(s[i])) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(rune(s[k])) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(r rune) bool         { return '0' <= r && r <= '9' }
func isIdentStart(r rune) bool    { return r == '_' || unicode.IsLetter(r) }
func isIdentContinue(r rune) bool { return isIdentStart(r) || unicode.IsDigit(r) }

type parser struct {
	lx  lexer
	tok token
}

// Parse reads an expression such as "x**2 - 2*x + sin(x)/3". Powers may
// be written ** or ^ and associate to the right. Errors wrap ErrParse and
// name the offending position.
func Parse(text string) (Expr, error) {
	p := &parser{lx: lexer{s: text}}
	p.advance()
	if p.tok.kind == tokEOF {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected()
	}
	return e.Simplify(), nil
}

// ParseEquation reads "lhs = rhs". Text without '=' is read as expr = 0.
func ParseEquation(text string) (*Equation, error) {
	lhsText, rhsText, found := strings.Cut(text, "=")
	rhsText = strings.TrimPrefix(rhsText, "=")
	if !found {
		lhs, err := Parse(text)
		if err != nil {
			return nil, err
		}
		return Eq(lhs, N(0)), nil
	}
	lhs, err := Parse(lhsText)
	if err != nil {
		return nil, fmt.Errorf("left side: %w", err)
	}
	rhs, err := Parse(rhsText)
	if err != nil {
		return nil, fmt.Errorf("right side: %w", err)
	}
	return Eq(lhs, rhs), nil
}

// MustParse is Parse for tests and examples. It panics on error.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) advance() { p.tok = p.lx.next() }

func (p *parser) unexpected() error {
	switch p.tok.kind {
	case tokEOF:
		return fmt.Errorf("%w: unexpected end of input", ErrParse)
	case tokInvalid:
		if r := p.tok.text[0]; r == '.' || isDigit(rune(r)) {
			return fmt.Errorf("%w: invalid number %q at position %d", ErrParse, p.tok.text, p.tok.pos+1)
		}
		return fmt.Errorf("%w: invalid character %q at position %d", ErrParse, p.tok.text, p.tok.pos+1)
	}
	return fmt.Errorf("%w: unexpected %q at position %d", ErrParse, p.tok.text, p.tok.pos+1)
}

func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	terms := []Expr{left}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		neg := p.tok.kind == tokMinus
		p.advance()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if neg {
			right = &Mul{factors: []Expr{N(-1), right}}
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return &Add{terms: terms}, nil
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{left}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		div := p.tok.kind == tokSlash
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if div {
			right = &Pow{base: right, exp: N(-1)}
		}
		factors = append(factors, right)
	}
	if len(factors) == 1 {
		return left, nil
	}
	return &Mul{factors: factors}, nil
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.tok.kind {
	case tokPlus:
		p.advance()
		return p.parseUnary()
	case tokMinus:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Mul{factors: []Expr{N(-1), x}}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokPow {
		return base, nil
	}
	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Pow{base: base, exp: exp}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok.kind {
	case tokNumber:
		n := p.tok.num
		p.advance()
		return n, nil
	case tokIdent:
		name := p.tok.text
		pos := p.tok.pos
		p.advance()
		if p.tok.kind == tokLParen {
			return p.parseCall(name, pos)
		}
		return identifier(name), nil
	case tokLParen:
		p.advance()
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' at position %d", ErrParse, p.tok.pos+1)
		}
		p.advance()
		return e, nil
	}
	return nil, p.unexpected()
}

func identifier(name string) Expr {
	switch name {
	case "pi", "π":
		return Pi
	case "E", "e":
		return E
	case "I":
		return I
	case "oo":
		return Oo
	}
	return S(name)
}

var funcAliases = map[string]string{"ln": "log", "Abs": "abs", "ceiling": "ceil"}

func (p *parser) parseCall(name string, pos int) (Expr, error) {
	p.advance() // (
	var args []Expr
	if p.tok.kind != tokRParen {
		for {
			a, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.tok.kind != tokComma {
				break
			}
			p.advance()
		}
	}
	if p.tok.kind != tokRParen {
		return nil, fmt.Errorf("%w: expected ')' at position %d", ErrParse, p.tok.pos+1)
	}
	p.advance()

	if alias, ok := funcAliases[name]; ok {
		name = alias
	}
	if name == "log" && len(args) == 2 {
		return &Mul{factors: []Expr{funcOf("log", args[0]), &Pow{base: funcOf("log", args[1]), exp: N(-1)}}}, nil
	}
	if name == "sqrt" {
		if len(args) != 1 {
			return nil, arityError(name, pos, len(args))
		}
		return &Pow{base: args[0], exp: F(1, 2)}, nil
	}
	if _, ok := floatFuncs[name]; !ok {
		return nil, fmt.Errorf("%w: unknown function %q at position %d", ErrParse, name, pos+1)
	}
	if len(args) != 1 {
		return nil, arityError(name, pos, len(args))
	}
	return funcOf(name, args[0]), nil
}

func arityError(name string, pos, got int) error {
	return fmt.Errorf("%w: %s takes 1 argument, got %d at position %d", ErrParse, name, got, pos+1)
}
