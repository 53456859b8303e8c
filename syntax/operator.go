package syntax

// OperatorType is an associativity of an operator.
type OperatorType byte

const (
	XF OperatorType = iota
	YF
	XFX
	XFY
	YFX
	FX
	FY
)

func (t OperatorType) String() string {
	return [...]string{
		XF:  "xf",
		YF:  "yf",
		XFX: "xfx",
		XFY: "xfy",
		YFX: "yfx",
		FX:  "fx",
		FY:  "fy",
	}[t]
}

// Operator is an operator definition.
type Operator struct {
	Priority int // 1 ~ 1200
	Type     OperatorType
	Name     Atom
}

func (o Operator) prefix() bool {
	return o.Type == FX || o.Type == FY
}

func (o Operator) postfix() bool {
	return o.Type == XF || o.Type == YF
}

// leftRight returns the maximum priorities of the left and the right operands. -1 means no operand.
func (o Operator) leftRight() (int, int) {
	switch o.Type {
	case XF:
		return o.Priority - 1, -1
	case YF:
		return o.Priority, -1
	case XFX:
		return o.Priority - 1, o.Priority - 1
	case XFY:
		return o.Priority - 1, o.Priority
	case YFX:
		return o.Priority, o.Priority - 1
	case FX:
		return -1, o.Priority - 1
	case FY:
		return -1, o.Priority
	default:
		return -1, -1
	}
}

// Operators is a table of operators.
type Operators []Operator

func (os Operators) prefix(name Atom) (Operator, bool) {
	for _, o := range os {
		if o.Name == name && o.prefix() {
			return o, true
		}
	}
	return Operator{}, false
}

func (os Operators) infix(name Atom) (Operator, bool) {
	for _, o := range os {
		if o.Name == name && !o.prefix() && !o.postfix() {
			return o, true
		}
	}
	return Operator{}, false
}

func (os Operators) postfix(name Atom) (Operator, bool) {
	for _, o := range os {
		if o.Name == name && o.postfix() {
			return o, true
		}
	}
	return Operator{}, false
}

// DefaultOperators is the fixed operator table the reader understands.
var DefaultOperators = Operators{
	{Priority: 1200, Type: XFX, Name: `:-`},
	{Priority: 1200, Type: XFX, Name: `-->`},
	{Priority: 1200, Type: FX, Name: `:-`},
	{Priority: 1200, Type: FX, Name: `?-`},
	{Priority: 1100, Type: XFY, Name: `;`},
	{Priority: 1050, Type: XFY, Name: `->`},
	{Priority: 1050, Type: XFY, Name: `*->`},
	{Priority: 1000, Type: XFY, Name: `,`},
	{Priority: 900, Type: FY, Name: `\+`},
	{Priority: 700, Type: XFX, Name: `=`},
	{Priority: 700, Type: XFX, Name: `\=`},
	{Priority: 700, Type: XFX, Name: `==`},
	{Priority: 700, Type: XFX, Name: `\==`},
	{Priority: 700, Type: XFX, Name: `@<`},
	{Priority: 700, Type: XFX, Name: `@=<`},
	{Priority: 700, Type: XFX, Name: `@>`},
	{Priority: 700, Type: XFX, Name: `@>=`},
	{Priority: 700, Type: XFX, Name: `=..`},
	{Priority: 700, Type: XFX, Name: `is`},
	{Priority: 700, Type: XFX, Name: `=:=`},
	{Priority: 700, Type: XFX, Name: `=\=`},
	{Priority: 700, Type: XFX, Name: `<`},
	{Priority: 700, Type: XFX, Name: `=<`},
	{Priority: 700, Type: XFX, Name: `>`},
	{Priority: 700, Type: XFX, Name: `>=`},
	{Priority: 600, Type: XFY, Name: `:`},
	{Priority: 500, Type: YFX, Name: `+`},
	{Priority: 500, Type: YFX, Name: `-`},
	{Priority: 500, Type: YFX, Name: `/\`},
	{Priority: 500, Type: YFX, Name: `\/`},
	{Priority: 400, Type: YFX, Name: `*`},
	{Priority: 400, Type: YFX, Name: `/`},
	{Priority: 400, Type: YFX, Name: `//`},
	{Priority: 400, Type: YFX, Name: `rem`},
	{Priority: 400, Type: YFX, Name: `mod`},
	{Priority: 400, Type: YFX, Name: `<<`},
	{Priority: 400, Type: YFX, Name: `>>`},
	{Priority: 200, Type: XFX, Name: `**`},
	{Priority: 200, Type: XFY, Name: `^`},
	{Priority: 200, Type: FY, Name: `-`},
	{Priority: 200, Type: FY, Name: `+`},
	{Priority: 200, Type: FY, Name: `\`},
}
