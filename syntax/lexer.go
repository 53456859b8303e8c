package syntax

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Lexer turns runes into tokens.
type Lexer struct {
	input  *bufio.Reader
	state  lexState
	tokens []Token
	pos    int
	width  int
}

// NewLexer creates a lexer which reads from input.
func NewLexer(input *bufio.Reader) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	for len(l.tokens) == 0 {
		if l.state == nil {
			l.state = l.layout
		}
		r, err := l.next()
		if err != nil {
			return Token{}, err
		}
		l.state, err = l.state(r)
		if err != nil {
			l.state = nil
			return Token{}, err
		}
	}

	var t Token
	t, l.tokens = l.tokens[0], l.tokens[1:]
	return t, nil
}

const etx = 0x3

func (l *Lexer) next() (rune, error) {
	r, w, err := l.input.ReadRune()
	switch err {
	case nil:
		break
	case io.EOF:
		r, w = etx, 0
	default:
		return 0, err
	}
	l.width = w
	l.pos += w
	return r, nil
}

func (l *Lexer) backup() {
	if l.width == 0 {
		return
	}
	_ = l.input.UnreadRune()
	l.pos -= l.width
}

func (l *Lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}

// Token is a smallest meaningful unit of a term text.
type Token struct {
	Kind TokenKind
	Val  string
}

func (t Token) String() string {
	return fmt.Sprintf("<%s %s>", t.Kind, t.Val)
}

// TokenKind is a type of Token.
type TokenKind byte

const (
	// TokenEOS represents an end of token stream.
	TokenEOS TokenKind = iota
	TokenVariable
	TokenInteger
	TokenFloat
	TokenAtom
	TokenString
	// TokenOpenCT represents an open parenthesis right after a name.
	TokenOpenCT
	TokenOpen
	TokenClose
	TokenOpenList
	TokenCloseList
	TokenOpenCurly
	TokenCloseCurly
	TokenComma
	TokenBar
	// TokenEnd represents the period which ends a term.
	TokenEnd

	tokenLen
)

func (k TokenKind) String() string {
	return [tokenLen]string{
		TokenEOS:        "eos",
		TokenVariable:   "variable",
		TokenInteger:    "integer",
		TokenFloat:      "float",
		TokenAtom:       "atom",
		TokenString:     "string",
		TokenOpenCT:     "open ct",
		TokenOpen:       "open",
		TokenClose:      "close",
		TokenOpenList:   "open list",
		TokenCloseList:  "close list",
		TokenOpenCurly:  "open curly",
		TokenCloseCurly: "close curly",
		TokenComma:      "comma",
		TokenBar:        "bar",
		TokenEnd:        "end",
	}[k]
}

// UnexpectedRuneError is returned when the lexer finds a rune which doesn't start or continue a token.
type UnexpectedRuneError struct {
	Rune rune
	Pos  int
}

func (e UnexpectedRuneError) Error() string {
	return fmt.Sprintf("unexpected rune %q at %d", e.Rune, e.Pos)
}

type lexState func(rune) (lexState, error)

func (l *Lexer) layout(r rune) (lexState, error) {
	switch {
	case r == etx:
		l.emit(Token{Kind: TokenEOS})
		return nil, nil
	case unicode.IsSpace(r):
		return l.layout, nil
	case r == '%':
		return l.lineComment, nil
	case r == '/':
		return l.slash, nil
	case unicode.IsLower(r):
		var b strings.Builder
		b.WriteRune(r)
		return l.name(&b), nil
	case unicode.IsUpper(r), r == '_':
		var b strings.Builder
		b.WriteRune(r)
		return l.variable(&b), nil
	case unicode.IsDigit(r):
		var b strings.Builder
		b.WriteRune(r)
		if r == '0' {
			return l.zero(&b), nil
		}
		return l.integer(&b), nil
	case r == '\'':
		var b strings.Builder
		return l.quoted('\'', &b, func(s string) (lexState, error) {
			return l.afterName(Token{Kind: TokenAtom, Val: s}), nil
		}), nil
	case r == '"':
		var b strings.Builder
		return l.quoted('"', &b, func(s string) (lexState, error) {
			l.emit(Token{Kind: TokenString, Val: s})
			return nil, nil
		}), nil
	case r == '.':
		return l.period, nil
	case r == '(':
		l.emit(Token{Kind: TokenOpen, Val: "("})
	case r == ')':
		l.emit(Token{Kind: TokenClose, Val: ")"})
	case r == '[':
		l.emit(Token{Kind: TokenOpenList, Val: "["})
	case r == ']':
		l.emit(Token{Kind: TokenCloseList, Val: "]"})
	case r == '{':
		l.emit(Token{Kind: TokenOpenCurly, Val: "{"})
	case r == '}':
		l.emit(Token{Kind: TokenCloseCurly, Val: "}"})
	case r == ',':
		l.emit(Token{Kind: TokenComma, Val: ","})
	case r == '|':
		l.emit(Token{Kind: TokenBar, Val: "|"})
	case r == '!', r == ';':
		return l.afterName(Token{Kind: TokenAtom, Val: string(r)}), nil
	case isGraphic(r):
		var b strings.Builder
		b.WriteRune(r)
		return l.graphic(&b), nil
	default:
		return nil, UnexpectedRuneError{Rune: r, Pos: l.pos}
	}
	return nil, nil
}

// afterName emits t and tells a functional notation from a plain atom.
func (l *Lexer) afterName(t Token) lexState {
	return func(r rune) (lexState, error) {
		l.emit(t)
		if r == '(' {
			l.emit(Token{Kind: TokenOpenCT, Val: "("})
			return nil, nil
		}
		l.backup()
		return nil, nil
	}
}

func (l *Lexer) lineComment(r rune) (lexState, error) {
	switch r {
	case '\n':
		return l.layout, nil
	case etx:
		return l.layout(r)
	default:
		return l.lineComment, nil
	}
}

func (l *Lexer) slash(r rune) (lexState, error) {
	if r == '*' {
		return l.blockComment(false), nil
	}
	l.backup()
	var b strings.Builder
	b.WriteRune('/')
	return l.graphic(&b), nil
}

func (l *Lexer) blockComment(star bool) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case r == etx:
			return nil, UnexpectedRuneError{Rune: r, Pos: l.pos}
		case star && r == '/':
			return l.layout, nil
		default:
			return l.blockComment(r == '*'), nil
		}
	}
}

func (l *Lexer) period(r rune) (lexState, error) {
	switch {
	case r == etx, unicode.IsSpace(r), r == '%':
		l.backup()
		l.emit(Token{Kind: TokenEnd, Val: "."})
		return nil, nil
	default:
		l.backup()
		var b strings.Builder
		b.WriteRune('.')
		return l.graphic(&b), nil
	}
}

func (l *Lexer) name(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		if isAlnum(r) {
			b.WriteRune(r)
			return l.name(b), nil
		}
		return l.afterName(Token{Kind: TokenAtom, Val: b.String()})(r)
	}
}

func (l *Lexer) graphic(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		if isGraphic(r) {
			b.WriteRune(r)
			return l.graphic(b), nil
		}
		return l.afterName(Token{Kind: TokenAtom, Val: b.String()})(r)
	}
}

func (l *Lexer) variable(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		if isAlnum(r) {
			b.WriteRune(r)
			return l.variable(b), nil
		}
		l.backup()
		l.emit(Token{Kind: TokenVariable, Val: b.String()})
		return nil, nil
	}
}

func (l *Lexer) zero(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch r {
		case '\'':
			return l.charCode, nil
		case 'x':
			return l.based(16, "0x"), nil
		case 'o':
			return l.based(8, "0o"), nil
		case 'b':
			return l.based(2, "0b"), nil
		default:
			return l.integer(b)(r)
		}
	}
}

func (l *Lexer) charCode(r rune) (lexState, error) {
	switch r {
	case '\\':
		return l.escape(func(c rune) (lexState, error) {
			l.emit(Token{Kind: TokenInteger, Val: strconv.Itoa(int(c))})
			return nil, nil
		}), nil
	case '\'':
		return func(r rune) (lexState, error) {
			if r != '\'' {
				l.backup()
			}
			l.emit(Token{Kind: TokenInteger, Val: strconv.Itoa('\'')})
			return nil, nil
		}, nil
	case etx:
		return nil, UnexpectedRuneError{Rune: r, Pos: l.pos}
	default:
		l.emit(Token{Kind: TokenInteger, Val: strconv.Itoa(int(r))})
		return nil, nil
	}
}

// based reads the digits of a binary, octal or hexadecimal integer. The token keeps the prefix.
func (l *Lexer) based(base int, prefix string) lexState {
	var b strings.Builder
	b.WriteString(prefix)
	var state lexState
	state = func(r rune) (lexState, error) {
		if d, ok := digitValue(r); ok && d < base {
			b.WriteRune(r)
			return state, nil
		}
		if b.Len() == len(prefix) {
			return nil, UnexpectedRuneError{Rune: r, Pos: l.pos}
		}
		l.backup()
		l.emit(Token{Kind: TokenInteger, Val: b.String()})
		return nil, nil
	}
	return state
}

func (l *Lexer) integer(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case unicode.IsDigit(r), r == '_':
			if r != '_' {
				b.WriteRune(r)
			}
			return l.integer(b), nil
		case r == '.':
			return l.fraction(b), nil
		default:
			l.backup()
			l.emit(Token{Kind: TokenInteger, Val: b.String()})
			return nil, nil
		}
	}
}

// fraction has seen "<digits>." and decides between a float and an integer followed by a period.
func (l *Lexer) fraction(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		if !unicode.IsDigit(r) {
			l.backup()
			l.emit(Token{Kind: TokenInteger, Val: b.String()})
			return l.period, nil
		}
		b.WriteRune('.')
		b.WriteRune(r)
		return l.float(b), nil
	}
}

func (l *Lexer) float(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			return l.float(b), nil
		case r == 'e', r == 'E':
			b.WriteRune('e')
			return l.exponentSign(b), nil
		default:
			l.backup()
			l.emit(Token{Kind: TokenFloat, Val: b.String()})
			return nil, nil
		}
	}
}

func (l *Lexer) exponentSign(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		switch {
		case r == '+', r == '-':
			b.WriteRune(r)
			return l.exponent(b), nil
		case unicode.IsDigit(r):
			b.WriteRune(r)
			return l.exponent(b), nil
		default:
			return nil, UnexpectedRuneError{Rune: r, Pos: l.pos}
		}
	}
}

func (l *Lexer) exponent(b *strings.Builder) lexState {
	return func(r rune) (lexState, error) {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
			return l.exponent(b), nil
		}
		l.backup()
		l.emit(Token{Kind: TokenFloat, Val: b.String()})
		return nil, nil
	}
}

// quoted reads a quoted text up to the closing quote q. A doubled quote stands for itself.
func (l *Lexer) quoted(q rune, b *strings.Builder, done func(string) (lexState, error)) lexState {
	return func(r rune) (lexState, error) {
		switch r {
		case etx:
			return nil, UnexpectedRuneError{Rune: r, Pos: l.pos}
		case q:
			return func(r rune) (lexState, error) {
				if r == q {
					b.WriteRune(q)
					return l.quoted(q, b, done), nil
				}
				l.backup()
				return done(b.String())
			}, nil
		case '\\':
			return func(r rune) (lexState, error) {
				if r == '\n' {
					return l.quoted(q, b, done), nil
				}
				return l.escape(func(c rune) (lexState, error) {
					b.WriteRune(c)
					return l.quoted(q, b, done), nil
				})(r)
			}, nil
		default:
			b.WriteRune(r)
			return l.quoted(q, b, done), nil
		}
	}
}

// escape reads an escape sequence after a backslash.
func (l *Lexer) escape(k func(rune) (lexState, error)) lexState {
	return func(r rune) (lexState, error) {
		switch r {
		case 'a':
			return k('\a')
		case 'b':
			return k('\b')
		case 'f':
			return k('\f')
		case 'n':
			return k('\n')
		case 'r':
			return k('\r')
		case 't':
			return k('\t')
		case 'v':
			return k('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			var v strings.Builder
			v.WriteRune(r)
			return l.escapeCode(8, &v, k), nil
		case 'x':
			var v strings.Builder
			return l.escapeCode(16, &v, k), nil
		case '\\', '\'', '"', '`':
			return k(r)
		default:
			return nil, UnexpectedRuneError{Rune: r, Pos: l.pos}
		}
	}
}

func (l *Lexer) escapeCode(base int, v *strings.Builder, k func(rune) (lexState, error)) lexState {
	return func(r rune) (lexState, error) {
		if d, ok := digitValue(r); ok && d < base {
			v.WriteRune(r)
			return l.escapeCode(base, v, k), nil
		}
		if r != '\\' {
			return nil, UnexpectedRuneError{Rune: r, Pos: l.pos}
		}
		c, err := strconv.ParseInt(v.String(), base, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid escape sequence: %w", err)
		}
		return k(rune(c))
	}
}

func digitValue(r rune) (int, bool) {
	switch {
	case '0' <= r && r <= '9':
		return int(r - '0'), true
	case 'a' <= r && r <= 'f':
		return int(r-'a') + 10, true
	case 'A' <= r && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isGraphic(r rune) bool {
	return strings.ContainsRune("#$&*+-./:<=>?@^~\\", r)
}
