package engine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// WriteOptions specify how to write a term.
type WriteOptions struct {
	// Quoted writes atoms and strings so that they read back as the same term.
	Quoted bool
	// MaxDepth elides subterms nested deeper than this. Zero means no limit.
	MaxDepth int
}

// WriteTerm writes a term to w. Cyclic parts are written as ....
func (vm *VM) WriteTerm(w io.Writer, a Addr, opts WriteOptions) error {
	bw := bufio.NewWriter(w)
	tw := termWriter{vm: vm, w: bw, opts: opts, path: map[Addr]struct{}{}}
	tw.write(a, 0)
	if tw.err != nil {
		return tw.err
	}
	return bw.Flush()
}

type termWriter struct {
	vm   *VM
	w    *bufio.Writer
	opts WriteOptions
	path map[Addr]struct{}
	err  error
}

func (t *termWriter) str(s string) {
	if t.err != nil {
		return
	}
	_, t.err = t.w.WriteString(s)
}

func (t *termWriter) write(a Addr, depth int) {
	a = t.vm.Deref(a)
	if t.opts.MaxDepth > 0 && depth > t.opts.MaxDepth {
		t.str("...")
		return
	}

	switch a := a.(type) {
	case HeapCell:
		t.str(fmt.Sprintf("_%d", int(a)))
	case AttrVar:
		t.str(fmt.Sprintf("_%d", int(a)))
	case StackCell:
		t.str(fmt.Sprintf("_S%d_%d", a.Frame, a.Slot))
	case Atom:
		t.atom(string(a))
	case Char:
		t.atom(string(rune(a)))
	case EmptyList:
		t.str("[]")
	case Integer:
		t.str(strconv.FormatInt(int64(a), 10))
	case CharCode:
		t.str(strconv.Itoa(int(a)))
	case BigInt:
		t.str(a.Value.Text('f'))
	case Float:
		t.str(formatFloat(float64(a)))
	case Rational:
		t.str(strings.Replace(a.Value.RatString(), "/", "r", 1))
	case String:
		t.text(string(a))
	case Structure:
		t.compound(a, depth)
	case ListCell, PartialString:
		t.list(a, depth)
	default:
		t.str(fmt.Sprint(a))
	}
}

func (t *termWriter) enter(a Addr) bool {
	if _, ok := t.path[a]; ok {
		t.str("...")
		return false
	}
	t.path[a] = struct{}{}
	return true
}

func (t *termWriter) leave(a Addr) {
	delete(t.path, a)
}

func (t *termWriter) compound(s Structure, depth int) {
	if !t.enter(s) {
		return
	}
	defer t.leave(s)

	f := t.vm.Functor(s)
	if f.Name == "{}" && f.Arity == 1 {
		t.str("{")
		t.write(t.vm.Arg(s, 1), depth+1)
		t.str("}")
		return
	}
	t.atom(string(f.Name))
	t.str("(")
	for i := 1; i <= f.Arity; i++ {
		if i > 1 {
			t.str(",")
		}
		t.write(t.vm.Arg(s, i), depth+1)
	}
	t.str(")")
}

func (t *termWriter) list(a Addr, depth int) {
	var entered []Addr
	defer func() {
		for _, e := range entered {
			t.leave(e)
		}
	}()

	if _, ok := t.path[a]; ok {
		t.str("...")
		return
	}
	t.str("[")
	for i := 0; ; i++ {
		if _, ok := t.path[a]; ok {
			t.str("|...]")
			return
		}
		t.path[a] = struct{}{}
		entered = append(entered, a)

		head, tail, _ := t.vm.listParts(a)
		if i > 0 {
			t.str(",")
		}
		t.write(head, depth+1)

		switch tl := t.vm.Deref(tail).(type) {
		case EmptyList:
			t.str("]")
			return
		case ListCell, PartialString:
			if t.opts.MaxDepth > 0 && i+1 >= t.opts.MaxDepth {
				t.str("|...]")
				return
			}
			a = tl
		case String:
			for _, r := range string(tl) {
				t.str(",")
				t.atom(string(r))
			}
			t.str("]")
			return
		default:
			t.str("|")
			t.write(tl, depth+1)
			t.str("]")
			return
		}
	}
}

func (t *termWriter) atom(s string) {
	if !t.opts.Quoted || !needsQuote(s) {
		t.str(s)
		return
	}
	t.str(quote(s, '\''))
}

func (t *termWriter) text(s string) {
	if !t.opts.Quoted {
		t.str(s)
		return
	}
	t.str(quote(s, '"'))
}

func needsQuote(s string) bool {
	switch s {
	case "", ",", "|":
		return true
	case "[]", "{}", "!", ";":
		return false
	}

	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsLower(r) {
		for _, r := range s {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				return true
			}
		}
		return false
	}

	for _, r := range s {
		if !strings.ContainsRune("#$&*+-./:<=>?@^~\\", r) {
			return true
		}
	}
	return false
}

func quote(s string, q rune) string {
	var sb strings.Builder
	sb.WriteRune(q)
	for _, r := range s {
		switch r {
		case q, '\\':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		case '\v':
			sb.WriteString(`\v`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(q)
	return sb.String()
}
