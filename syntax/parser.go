package syntax

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd"
)

// ErrNotANumber is returned when a text is expected to be a number but it isn't.
var ErrNotANumber = errors.New("not a number")

// Parser turns tokens into terms.
type Parser struct {
	Operators Operators

	lexer   *Lexer
	current Token
	started bool
}

// NewParser creates a parser which reads from input with the default operators.
func NewParser(input *bufio.Reader) *Parser {
	return &Parser{
		Operators: DefaultOperators,
		lexer:     NewLexer(input),
	}
}

// UnexpectedTokenError is returned when the parser finds a token which doesn't fit the grammar.
type UnexpectedTokenError struct {
	Expected TokenKind
	Actual   Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("expected: %s, actual: %s", e.Expected, e.Actual)
}

func (p *Parser) advance() error {
	t, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.current = t
	return nil
}

func (p *Parser) expect(k TokenKind) error {
	if p.current.Kind != k {
		return &UnexpectedTokenError{Expected: k, Actual: p.current}
	}
	return p.advance()
}

// Term reads a term ended by a period or the end of the input. It returns io.EOF if there's no more term.
func (p *Parser) Term() (Term, error) {
	if !p.started {
		p.started = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.current.Kind == TokenEOS {
		return nil, io.EOF
	}

	t, err := p.expr(1200)
	if err != nil {
		return nil, err
	}

	switch p.current.Kind {
	case TokenEnd:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return t, nil
	case TokenEOS:
		return t, nil
	default:
		return nil, &UnexpectedTokenError{Expected: TokenEnd, Actual: p.current}
	}
}

// based on Pratt parser explained in this article: https://matklad.github.io/2020/04/13/simple-but-powerful-pratt-parsing.html
func (p *Parser) expr(max int) (Term, error) {
	lhs, prec, err := p.lhs(max)
	if err != nil {
		return nil, err
	}

	for {
		var name Atom
		switch p.current.Kind {
		case TokenAtom:
			name = Atom(p.current.Val)
		case TokenComma:
			name = ","
		default:
			return lhs, nil
		}

		if op, ok := p.Operators.infix(name); ok {
			l, r := op.leftRight()
			if op.Priority > max || prec > l {
				return lhs, nil
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			rhs, err := p.expr(r)
			if err != nil {
				return nil, err
			}
			lhs, prec = &Compound{Functor: name, Args: []Term{lhs, rhs}}, op.Priority
			continue
		}

		if op, ok := p.Operators.postfix(name); ok {
			l, _ := op.leftRight()
			if op.Priority > max || prec > l {
				return lhs, nil
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			lhs, prec = &Compound{Functor: name, Args: []Term{lhs}}, op.Priority
			continue
		}

		return lhs, nil
	}
}

func (p *Parser) lhs(max int) (Term, int, error) {
	t := p.current
	switch t.Kind {
	case TokenInteger:
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		n, err := parseInteger(t.Val)
		return n, 0, err
	case TokenFloat:
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		f, err := strconv.ParseFloat(t.Val, 64)
		return Float(f), 0, err
	case TokenVariable:
		return Variable(t.Val), 0, p.advance()
	case TokenString:
		return String(t.Val), 0, p.advance()
	case TokenOpen, TokenOpenCT:
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		x, err := p.expr(1200)
		if err != nil {
			return nil, 0, err
		}
		return x, 0, p.expect(TokenClose)
	case TokenOpenList:
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		if p.current.Kind == TokenCloseList {
			if err := p.advance(); err != nil {
				return nil, 0, err
			}
			return p.atom("[]", max)
		}
		l, err := p.list()
		return l, 0, err
	case TokenOpenCurly:
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		if p.current.Kind == TokenCloseCurly {
			if err := p.advance(); err != nil {
				return nil, 0, err
			}
			return p.atom("{}", max)
		}
		x, err := p.expr(1200)
		if err != nil {
			return nil, 0, err
		}
		return &Compound{Functor: "{}", Args: []Term{x}}, 0, p.expect(TokenCloseCurly)
	case TokenAtom:
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		return p.atom(Atom(t.Val), max)
	default:
		return nil, 0, &UnexpectedTokenError{Expected: TokenAtom, Actual: t}
	}
}

// atom continues after a name. It may be a compound in functional notation, a prefix operator or an atom.
func (p *Parser) atom(name Atom, max int) (Term, int, error) {
	if p.current.Kind == TokenOpenCT {
		if err := p.advance(); err != nil {
			return nil, 0, err
		}
		args, err := p.args()
		if err != nil {
			return nil, 0, err
		}
		return &Compound{Functor: name, Args: args}, 0, nil
	}

	if name == "-" {
		switch t := p.current; t.Kind {
		case TokenInteger, TokenFloat:
			if err := p.advance(); err != nil {
				return nil, 0, err
			}
			n, err := parseNumber(t)
			if err != nil {
				return nil, 0, err
			}
			return negate(n), 0, nil
		}
	}

	if op, ok := p.Operators.prefix(name); ok && p.startsTerm() {
		_, r := op.leftRight()
		prec := op.Priority
		if prec > max {
			prec, r = 999, 999
		}
		x, err := p.expr(r)
		if err != nil {
			return nil, 0, err
		}
		return &Compound{Functor: name, Args: []Term{x}}, prec, nil
	}

	return name, 0, nil
}

func (p *Parser) startsTerm() bool {
	switch p.current.Kind {
	case TokenEOS, TokenEnd, TokenClose, TokenCloseList, TokenCloseCurly, TokenComma, TokenBar:
		return false
	case TokenAtom:
		name := Atom(p.current.Val)
		_, infix := p.Operators.infix(name)
		_, prefix := p.Operators.prefix(name)
		return !infix || prefix
	default:
		return true
	}
}

func (p *Parser) args() ([]Term, error) {
	var args []Term
	for {
		x, err := p.expr(999)
		if err != nil {
			return nil, err
		}
		args = append(args, x)

		switch p.current.Kind {
		case TokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TokenClose:
			return args, p.advance()
		default:
			return nil, &UnexpectedTokenError{Expected: TokenClose, Actual: p.current}
		}
	}
}

func (p *Parser) list() (Term, error) {
	var elems []Term
	for {
		x, err := p.expr(999)
		if err != nil {
			return nil, err
		}
		elems = append(elems, x)

		switch p.current.Kind {
		case TokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TokenBar:
			if err := p.advance(); err != nil {
				return nil, err
			}
			tail, err := p.expr(999)
			if err != nil {
				return nil, err
			}
			return List(elems, tail), p.expect(TokenCloseList)
		case TokenCloseList:
			return List(elems, nil), p.advance()
		default:
			return nil, &UnexpectedTokenError{Expected: TokenCloseList, Actual: p.current}
		}
	}
}

func parseNumber(t Token) (Term, error) {
	switch t.Kind {
	case TokenInteger:
		return parseInteger(t.Val)
	case TokenFloat:
		f, err := strconv.ParseFloat(t.Val, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotANumber, t.Val)
		}
		return Float(f), nil
	default:
		return nil, ErrNotANumber
	}
}

func parseInteger(s string) (Term, error) {
	base := 10
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xob", rune(s[1])) {
		base = 0
	}
	n, err := strconv.ParseInt(s, base, 64)
	if err == nil {
		return Integer(n), nil
	}
	var b big.Int
	if _, ok := b.SetString(s, base); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotANumber, s)
	}
	return BigInt{Value: apd.NewWithBigInt(&b, 0)}, nil
}

func negate(t Term) Term {
	switch n := t.(type) {
	case Integer:
		return -n
	case Float:
		return -n
	case BigInt:
		var d apd.Decimal
		d.Neg(n.Value)
		if i, err := d.Int64(); err == nil {
			return Integer(i)
		}
		return BigInt{Value: &d}
	default:
		return t
	}
}

// ParseNumber parses a text as a number. Leading layout is allowed but nothing may follow the number.
func ParseNumber(s string) (Term, error) {
	l := NewLexer(bufio.NewReader(strings.NewReader(s)))

	t, err := l.Next()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotANumber, err)
	}
	neg := false
	if t.Kind == TokenAtom && t.Val == "-" {
		neg = true
		if t, err = l.Next(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotANumber, err)
		}
	}

	n, err := parseNumber(t)
	if err != nil {
		return nil, err
	}

	// the number must be the last thing in the text.
	if r, err := l.next(); err != nil || r != etx || l.state != nil || len(l.tokens) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotANumber, s)
	}

	if neg {
		return negate(n), nil
	}
	return n, nil
}
