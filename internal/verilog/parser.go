package verilog

import (
	"fmt"
)

// ParseError reports a lexical or syntax error with its location.
type ParseError struct {
	File string
	Pos  Pos
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Pos.Line, e.Pos.Column, e.Msg)
}

type parser struct {
	file string
	toks []Token
	i    int
}

// Parse parses one Verilog source file.
func Parse(file string, src []byte) (*Source, error) {
	toks, directives, err := Lex(file, string(src))
	if err != nil {
		return nil, err
	}

	p := &parser{file: file, toks: toks}

	source := &Source{Directives: directives}

	for !p.at(EOF, "") {
		mod, err := p.module()
		if err != nil {
			return nil, err
		}

		source.Modules = append(source.Modules, mod)
	}

	return source, nil
}

// ParseFiles parses several files into a single Source, keeping file order.
func ParseFiles(files map[string][]byte, order []string) (*Source, error) {
	merged := &Source{}

	for _, name := range order {
		src, err := Parse(name, files[name])
		if err != nil {
			return nil, err
		}

		merged.Directives = append(merged.Directives, src.Directives...)
		merged.Modules = append(merged.Modules, src.Modules...)
	}

	return merged, nil
}

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) nextTok() Token {
	tok := p.toks[p.i]
	if tok.Kind != EOF {
		p.i++
	}

	return tok
}

// at reports whether the current token has the given kind and, when text is
// not empty, the given text.
func (p *parser) at(kind TokenKind, text string) bool {
	tok := p.peek()
	return tok.Kind == kind && (text == "" || tok.Text == text)
}

func (p *parser) atOp(text string) bool { return p.at(OP, text) }

func (p *parser) atKeyword(text string) bool { return p.at(KEYWORD, text) }

func (p *parser) accept(kind TokenKind, text string) bool {
	if p.at(kind, text) {
		p.nextTok()
		return true
	}

	return false
}

func (p *parser) expect(kind TokenKind, text string) (Token, error) {
	if p.at(kind, text) {
		return p.nextTok(), nil
	}

	want := kind.String()
	if text != "" {
		want = fmt.Sprintf("%q", text)
	}

	return Token{}, p.errorf("expected %s, found %s", want, describe(p.peek()))
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{File: p.file, Pos: p.peek().Pos, Msg: fmt.Sprintf(format, args...)}
}

func describe(tok Token) string {
	if tok.Kind == EOF {
		return "end of file"
	}

	return fmt.Sprintf("%q", tok.Text)
}

func (p *parser) module() (*Module, error) {
	start, err := p.expect(KEYWORD, "module")
	if err != nil {
		return nil, err
	}

	name, err := p.expect(IDENT, "")
	if err != nil {
		return nil, err
	}

	mod := &Module{Pos: start.Pos, Name: name.Text}

	if p.accept(OP, "#") {
		if mod.Params, err = p.headerParams(); err != nil {
			return nil, err
		}
	}

	if p.accept(OP, "(") {
		if mod.Ports, err = p.portList(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(OP, ";"); err != nil {
		return nil, err
	}

	for !p.accept(KEYWORD, "endmodule") {
		if p.at(EOF, "") {
			return nil, p.errorf("missing endmodule for module %s", mod.Name)
		}

		items, err := p.moduleItem()
		if err != nil {
			return nil, err
		}

		mod.Items = append(mod.Items, items...)
	}

	return mod, nil
}

// headerParams parses #(parameter A = 1, B = 2, parameter [3:0] C = 4'h0).
func (p *parser) headerParams() ([]Node, error) {
	if _, err := p.expect(OP, "("); err != nil {
		return nil, err
	}

	var (
		params []Node
		proto  = &Parameter{}
	)

	for {
		if p.atKeyword("parameter") || p.atKeyword("localparam") {
			head, err := p.paramHead()
			if err != nil {
				return nil, err
			}

			proto = head
		}

		param, err := p.paramAssignment(proto)
		if err != nil {
			return nil, err
		}

		params = append(params, param)

		if !p.accept(OP, ",") {
			break
		}
	}

	if _, err := p.expect(OP, ")"); err != nil {
		return nil, err
	}

	return params, nil
}

// paramHead consumes parameter|localparam [signed] [range].
func (p *parser) paramHead() (*Parameter, error) {
	tok := p.nextTok()
	head := &Parameter{Pos: tok.Pos, Local: tok.Text == "localparam"}
	head.Signed = p.accept(KEYWORD, "signed")

	if p.atOp("[") {
		width, err := p.width()
		if err != nil {
			return nil, err
		}

		head.Width = width
	}

	return head, nil
}

func (p *parser) paramAssignment(proto *Parameter) (*Parameter, error) {
	name, err := p.expect(IDENT, "")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OP, "="); err != nil {
		return nil, err
	}

	value, err := p.expr()
	if err != nil {
		return nil, err
	}

	pos := proto.Pos
	if pos.Line == 0 {
		pos = name.Pos
	}

	return &Parameter{
		Pos:    pos,
		Local:  proto.Local,
		Signed: proto.Signed,
		Width:  cloneWidth(proto.Width),
		Name:   name.Text,
		Value:  value,
	}, nil
}

func isDirection(text string) bool {
	return text == "input" || text == "output" || text == "inout"
}

func (p *parser) portList() ([]Node, error) {
	if p.accept(OP, ")") {
		return nil, nil
	}

	var ports []Node

	if tok := p.peek(); tok.Kind == KEYWORD && isDirection(tok.Text) {
		var proto *Port

		for {
			if tok := p.peek(); tok.Kind == KEYWORD && isDirection(tok.Text) {
				head, err := p.portHead()
				if err != nil {
					return nil, err
				}

				proto = head
			}

			name, err := p.expect(IDENT, "")
			if err != nil {
				return nil, err
			}

			port := *proto
			port.Name = name.Text
			port.Pos = name.Pos
			port.Width = cloneWidth(proto.Width)
			ports = append(ports, &port)

			if !p.accept(OP, ",") {
				break
			}
		}
	} else {
		for {
			name, err := p.expect(IDENT, "")
			if err != nil {
				return nil, err
			}

			ports = append(ports, &Identifier{Name: name.Text})

			if !p.accept(OP, ",") {
				break
			}
		}
	}

	if _, err := p.expect(OP, ")"); err != nil {
		return nil, err
	}

	return ports, nil
}

func (p *parser) portHead() (*Port, error) {
	dir := p.nextTok()
	port := &Port{Pos: dir.Pos, Direction: dir.Text}

	if p.atKeyword("wire") || p.atKeyword("reg") {
		port.Kind = p.nextTok().Text
	}

	port.Signed = p.accept(KEYWORD, "signed")

	if p.atOp("[") {
		width, err := p.width()
		if err != nil {
			return nil, err
		}

		port.Width = width
	}

	return port, nil
}

// width parses [msb:lsb].
func (p *parser) width() (*Width, error) {
	if _, err := p.expect(OP, "["); err != nil {
		return nil, err
	}

	msb, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OP, ":"); err != nil {
		return nil, err
	}

	lsb, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OP, "]"); err != nil {
		return nil, err
	}

	return &Width{MSB: msb, LSB: lsb}, nil
}

//nolint:cyclop // one branch per module item kind
func (p *parser) moduleItem() ([]Node, error) {
	tok := p.peek()

	switch {
	case tok.Kind == KEYWORD && (isDirection(tok.Text) || tok.Text == "wire" || tok.Text == "reg" || tok.Text == "integer"):
		decl, err := p.decl()
		if err != nil {
			return nil, err
		}

		return []Node{decl}, nil
	case tok.Kind == KEYWORD && (tok.Text == "parameter" || tok.Text == "localparam"):
		return p.paramDecl()
	case tok.Kind == KEYWORD && tok.Text == "assign":
		return p.assign()
	case tok.Kind == KEYWORD && tok.Text == "always":
		always, err := p.always()
		if err != nil {
			return nil, err
		}

		return []Node{always}, nil
	case tok.Kind == KEYWORD && tok.Text == "initial":
		p.nextTok()

		stmt, err := p.stmt()
		if err != nil {
			return nil, err
		}

		return []Node{&Initial{Pos: tok.Pos, Stmt: stmt}}, nil
	case tok.Kind == IDENT:
		return p.instances()
	case tok.Kind == OP && tok.Text == ";":
		p.nextTok()
		return nil, nil
	}

	return nil, p.errorf("unexpected %s in module body", describe(tok))
}

func (p *parser) decl() (*Decl, error) {
	kind := p.nextTok()
	decl := &Decl{Pos: kind.Pos, Kind: kind.Text}

	if isDirection(kind.Text) && (p.atKeyword("wire") || p.atKeyword("reg")) {
		decl.Net = p.nextTok().Text
	}

	decl.Signed = p.accept(KEYWORD, "signed")

	if p.atOp("[") {
		width, err := p.width()
		if err != nil {
			return nil, err
		}

		decl.Width = width
	}

	for {
		name, err := p.expect(IDENT, "")
		if err != nil {
			return nil, err
		}

		variable := &Variable{Name: name.Text}

		if p.atOp("[") {
			if variable.Dim, err = p.width(); err != nil {
				return nil, err
			}
		}

		if p.accept(OP, "=") {
			if variable.Init, err = p.expr(); err != nil {
				return nil, err
			}
		}

		decl.Vars = append(decl.Vars, variable)

		if !p.accept(OP, ",") {
			break
		}
	}

	if _, err := p.expect(OP, ";"); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *parser) paramDecl() ([]Node, error) {
	head, err := p.paramHead()
	if err != nil {
		return nil, err
	}

	var params []Node

	for {
		param, err := p.paramAssignment(head)
		if err != nil {
			return nil, err
		}

		params = append(params, param)

		if !p.accept(OP, ",") {
			break
		}
	}

	if _, err := p.expect(OP, ";"); err != nil {
		return nil, err
	}

	return params, nil
}

// assign parses assign a = x, b = y; into one Assign per target.
func (p *parser) assign() ([]Node, error) {
	start := p.nextTok()

	var assigns []Node

	for {
		left, err := p.lvalue()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(OP, "="); err != nil {
			return nil, err
		}

		right, err := p.expr()
		if err != nil {
			return nil, err
		}

		assigns = append(assigns, &Assign{
			Pos:   start.Pos,
			Left:  &Lvalue{Var: left},
			Right: &Rvalue{Var: right},
		})

		if !p.accept(OP, ",") {
			break
		}
	}

	if _, err := p.expect(OP, ";"); err != nil {
		return nil, err
	}

	return assigns, nil
}

func (p *parser) always() (*Always, error) {
	start := p.nextTok()
	always := &Always{Pos: start.Pos}

	if p.accept(OP, "@") {
		sens, err := p.sensList()
		if err != nil {
			return nil, err
		}

		always.Sens = sens
	}

	stmt, err := p.stmt()
	if err != nil {
		return nil, err
	}

	always.Stmt = stmt

	return always, nil
}

// sensList parses the part after @: *, (*), or (a or posedge b, c).
func (p *parser) sensList() (*SensList, error) {
	if p.accept(OP, "*") {
		return &SensList{List: []Node{&Sens{Edge: EdgeAll}}}, nil
	}

	if _, err := p.expect(OP, "("); err != nil {
		return nil, err
	}

	if p.accept(OP, "*") {
		if _, err := p.expect(OP, ")"); err != nil {
			return nil, err
		}

		return &SensList{List: []Node{&Sens{Edge: EdgeAll}}}, nil
	}

	list := &SensList{}

	for {
		edge := EdgeLevel

		switch {
		case p.accept(KEYWORD, "posedge"):
			edge = EdgePos
		case p.accept(KEYWORD, "negedge"):
			edge = EdgeNeg
		}

		sig, err := p.expr()
		if err != nil {
			return nil, err
		}

		list.List = append(list.List, &Sens{Edge: edge, Sig: sig})

		if !p.accept(KEYWORD, "or") && !p.accept(OP, ",") {
			break
		}
	}

	if _, err := p.expect(OP, ")"); err != nil {
		return nil, err
	}

	return list, nil
}

// instances parses Mod [#(...)] u0 (...), u1 (...);
func (p *parser) instances() ([]Node, error) {
	modTok := p.nextTok()

	var (
		params []Node
		err    error
	)

	if p.accept(OP, "#") {
		if _, err := p.expect(OP, "("); err != nil {
			return nil, err
		}

		if params, err = p.connections(); err != nil {
			return nil, err
		}
	}

	var instances []Node

	for {
		name, err := p.expect(IDENT, "")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(OP, "("); err != nil {
			return nil, err
		}

		ports, err := p.connections()
		if err != nil {
			return nil, err
		}

		instances = append(instances, &Instance{
			Pos:    modTok.Pos,
			Module: modTok.Text,
			Name:   name.Text,
			Params: params,
			Ports:  ports,
		})

		if !p.accept(OP, ",") {
			break
		}
	}

	if _, err = p.expect(OP, ";"); err != nil {
		return nil, err
	}

	return instances, nil
}

// connections parses the inside of an instance argument list up to and
// including the closing parenthesis.
func (p *parser) connections() ([]Node, error) {
	if p.accept(OP, ")") {
		return nil, nil
	}

	var args []Node

	for {
		arg := &PortArg{}

		if p.accept(OP, ".") {
			name, err := p.expect(IDENT, "")
			if err != nil {
				return nil, err
			}

			arg.Name = name.Text

			if _, err := p.expect(OP, "("); err != nil {
				return nil, err
			}

			if !p.atOp(")") {
				if arg.Arg, err = p.expr(); err != nil {
					return nil, err
				}
			}

			if _, err := p.expect(OP, ")"); err != nil {
				return nil, err
			}
		} else {
			value, err := p.expr()
			if err != nil {
				return nil, err
			}

			arg.Arg = value
		}

		args = append(args, arg)

		if !p.accept(OP, ",") {
			break
		}
	}

	if _, err := p.expect(OP, ")"); err != nil {
		return nil, err
	}

	return args, nil
}

// stmt parses a procedural statement. A lone ";" yields a nil statement.
//
//nolint:cyclop // one branch per statement kind
func (p *parser) stmt() (Node, error) {
	tok := p.peek()

	switch {
	case tok.Kind == OP && tok.Text == ";":
		p.nextTok()
		return nil, nil
	case tok.Kind == KEYWORD && tok.Text == "begin":
		return p.block()
	case tok.Kind == KEYWORD && tok.Text == "if":
		return p.ifStmt()
	case tok.Kind == KEYWORD && (tok.Text == "case" || tok.Text == "casex" || tok.Text == "casez"):
		return p.caseStmt()
	case tok.Kind == KEYWORD && tok.Text == "for":
		return p.forStmt()
	case tok.Kind == KEYWORD && tok.Text == "while":
		return p.whileStmt()
	case tok.Kind == SYSIDENT:
		return p.systemTask()
	}

	sub, err := p.substitution()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OP, ";"); err != nil {
		return nil, err
	}

	return sub, nil
}

func (p *parser) block() (Node, error) {
	p.nextTok()

	block := &Block{}

	if p.accept(OP, ":") {
		name, err := p.expect(IDENT, "")
		if err != nil {
			return nil, err
		}

		block.Name = name.Text
	}

	for !p.accept(KEYWORD, "end") {
		if p.at(EOF, "") {
			return nil, p.errorf("missing end for begin block")
		}

		stmt, err := p.stmt()
		if err != nil {
			return nil, err
		}

		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}

	return block, nil
}

func (p *parser) parenExpr() (Node, error) {
	if _, err := p.expect(OP, "("); err != nil {
		return nil, err
	}

	e, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OP, ")"); err != nil {
		return nil, err
	}

	return e, nil
}

func (p *parser) ifStmt() (Node, error) {
	start := p.nextTok()

	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}

	then, err := p.stmt()
	if err != nil {
		return nil, err
	}

	stmt := &IfStatement{Pos: start.Pos, Cond: cond, Then: then}

	if p.accept(KEYWORD, "else") {
		if stmt.Else, err = p.stmt(); err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

func (p *parser) caseStmt() (Node, error) {
	start := p.nextTok()

	comp, err := p.parenExpr()
	if err != nil {
		return nil, err
	}

	stmt := &CaseStatement{Pos: start.Pos, Kind: start.Text, Comp: comp}

	for !p.accept(KEYWORD, "endcase") {
		if p.at(EOF, "") {
			return nil, p.errorf("missing endcase")
		}

		item := &Case{}

		if p.accept(KEYWORD, "default") {
			p.accept(OP, ":")
		} else {
			for {
				cond, err := p.expr()
				if err != nil {
					return nil, err
				}

				item.Conds = append(item.Conds, cond)

				if !p.accept(OP, ",") {
					break
				}
			}

			if _, err := p.expect(OP, ":"); err != nil {
				return nil, err
			}
		}

		if item.Stmt, err = p.stmt(); err != nil {
			return nil, err
		}

		stmt.Items = append(stmt.Items, item)
	}

	return stmt, nil
}

func (p *parser) forStmt() (Node, error) {
	start := p.nextTok()

	if _, err := p.expect(OP, "("); err != nil {
		return nil, err
	}

	pre, err := p.substitution()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OP, ";"); err != nil {
		return nil, err
	}

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OP, ";"); err != nil {
		return nil, err
	}

	post, err := p.substitution()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(OP, ")"); err != nil {
		return nil, err
	}

	body, err := p.stmt()
	if err != nil {
		return nil, err
	}

	return &ForStatement{Pos: start.Pos, Pre: pre, Cond: cond, Post: post, Stmt: body}, nil
}

func (p *parser) whileStmt() (Node, error) {
	start := p.nextTok()

	cond, err := p.parenExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.stmt()
	if err != nil {
		return nil, err
	}

	return &WhileStatement{Pos: start.Pos, Cond: cond, Stmt: body}, nil
}

func (p *parser) systemTask() (Node, error) {
	name := p.nextTok()
	task := &SystemTask{Pos: name.Pos, Name: name.Text}

	if p.accept(OP, "(") {
		args, err := p.exprList(")")
		if err != nil {
			return nil, err
		}

		task.Args = args
	}

	if _, err := p.expect(OP, ";"); err != nil {
		return nil, err
	}

	return task, nil
}

// substitution parses lvalue = expr or lvalue <= expr without the semicolon.
func (p *parser) substitution() (*Substitution, error) {
	start := p.peek()

	left, err := p.lvalue()
	if err != nil {
		return nil, err
	}

	sub := &Substitution{Pos: start.Pos, Left: &Lvalue{Var: left}}

	switch {
	case p.accept(OP, "="):
		sub.Blocking = true
	case p.accept(OP, "<="):
	default:
		return nil, p.errorf("expected \"=\" or \"<=\", found %s", describe(p.peek()))
	}

	right, err := p.expr()
	if err != nil {
		return nil, err
	}

	sub.Right = &Rvalue{Var: right}

	return sub, nil
}

// lvalue parses an assignment target: an identifier with selects or a concatenation.
func (p *parser) lvalue() (Node, error) {
	if p.atOp("{") {
		return p.concat()
	}

	name, err := p.expect(IDENT, "")
	if err != nil {
		return nil, err
	}

	return p.selects(&Identifier{Name: name.Text})
}

// exprList parses comma separated expressions up to and including closer.
func (p *parser) exprList(closer string) ([]Node, error) {
	if p.accept(OP, closer) {
		return nil, nil
	}

	var list []Node

	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}

		list = append(list, e)

		if !p.accept(OP, ",") {
			break
		}
	}

	if _, err := p.expect(OP, closer); err != nil {
		return nil, err
	}

	return list, nil
}
