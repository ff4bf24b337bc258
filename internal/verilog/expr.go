package verilog

// Binary operator precedence, higher binds tighter. The ternary operator sits
// below all of them.
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4, "^~": 4, "~^": 4,
	"&":  5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8, "<<<": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

const (
	precTernary = 0
	precUnary   = 12
	precPrimary = 13
)

var unaryOps = map[string]bool{
	"+": true, "-": true, "!": true, "~": true,
	"&": true, "~&": true, "|": true, "~|": true, "^": true, "~^": true, "^~": true,
}

func (p *parser) expr() (Node, error) {
	cond, err := p.binary(1)
	if err != nil {
		return nil, err
	}

	if !p.accept(OP, "?") {
		return cond, nil
	}

	whenTrue, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OP, ":"); err != nil {
		return nil, err
	}

	whenFalse, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &Cond{Cond: cond, True: whenTrue, False: whenFalse}, nil
}

// binary is a precedence climber over binaryPrec. All operators are left
// associative except **.
func (p *parser) binary(minPrec int) (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Kind != OP {
			return left, nil
		}

		prec, ok := binaryPrec[tok.Text]
		if !ok || prec < minPrec {
			return left, nil
		}

		p.nextTok()

		next := prec + 1
		if tok.Text == "**" {
			next = prec
		}

		right, err := p.binary(next)
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: tok.Text, Left: left, Right: right}
	}
}

func (p *parser) unary() (Node, error) {
	tok := p.peek()
	if tok.Kind == OP && unaryOps[tok.Text] {
		p.nextTok()

		operand, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: tok.Text, Right: operand}, nil
	}

	return p.primary()
}

//nolint:cyclop // one branch per primary kind
func (p *parser) primary() (Node, error) {
	tok := p.peek()

	switch tok.Kind {
	case NUMBER:
		p.nextTok()
		return &IntConst{Value: tok.Text}, nil
	case REAL:
		p.nextTok()
		return &FloatConst{Value: tok.Text}, nil
	case STRING:
		p.nextTok()
		return &StringConst{Value: tok.Text}, nil
	case SYSIDENT:
		p.nextTok()

		call := &FuncCall{Name: tok.Text}

		if p.accept(OP, "(") {
			args, err := p.exprList(")")
			if err != nil {
				return nil, err
			}

			call.Args = args
		}

		return call, nil
	case IDENT:
		p.nextTok()

		if p.accept(OP, "(") {
			args, err := p.exprList(")")
			if err != nil {
				return nil, err
			}

			return &FuncCall{Name: tok.Text, Args: args}, nil
		}

		return p.selects(&Identifier{Name: tok.Text})
	case OP:
		switch tok.Text {
		case "(":
			return p.parenExpr()
		case "{":
			return p.concat()
		}
	}

	return nil, p.errorf("unexpected %s in expression", describe(tok))
}

// selects parses trailing [i], [m:l], [b+:w] and [b-:w] selects.
func (p *parser) selects(base Node) (Node, error) {
	for p.accept(OP, "[") {
		first, err := p.expr()
		if err != nil {
			return nil, err
		}

		op := ""

		switch {
		case p.accept(OP, ":"):
			op = ":"
		case p.accept(OP, "+:"):
			op = "+:"
		case p.accept(OP, "-:"):
			op = "-:"
		}

		if op == "" {
			if _, err := p.expect(OP, "]"); err != nil {
				return nil, err
			}

			base = &Pointer{Var: base, Ptr: first}

			continue
		}

		second, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(OP, "]"); err != nil {
			return nil, err
		}

		sel := &Partselect{Var: base, MSB: first, LSB: second}
		if op != ":" {
			sel.Op = op
		}

		base = sel
	}

	return base, nil
}

// concat parses {a, b} and the replication {n{a, b}}.
func (p *parser) concat() (Node, error) {
	if _, err := p.expect(OP, "{"); err != nil {
		return nil, err
	}

	first, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.atOp("{") {
		inner, err := p.concat()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(OP, "}"); err != nil {
			return nil, err
		}

		value, ok := inner.(*Concat)
		if !ok {
			value = &Concat{List: []Node{inner}}
		}

		return &Repeat{Times: first, Value: value}, nil
	}

	list := []Node{first}

	for p.accept(OP, ",") {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}

		list = append(list, e)
	}

	if _, err := p.expect(OP, "}"); err != nil {
		return nil, err
	}

	return &Concat{List: list}, nil
}

// precedence returns the binding strength of an expression node for printing.
func precedence(n Node) int {
	switch e := n.(type) {
	case *Cond:
		return precTernary
	case *Binary:
		return binaryPrec[e.Op]
	case *Unary:
		return precUnary
	}

	return precPrimary
}
