package verilog

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

// Generate renders a syntax tree back to Verilog source. Parentheses are
// emitted only where operator precedence requires them, so the output parses
// back to an equal tree.
func Generate(n Node) string {
	pr := &printer{}
	pr.node(n)

	return pr.b.String()
}

type printer struct {
	b strings.Builder
}

func (pr *printer) write(parts ...string) {
	for _, s := range parts {
		pr.b.WriteString(s)
	}
}

func (pr *printer) indent(level int) { pr.b.WriteString(strings.Repeat(indentUnit, level)) }

func (pr *printer) node(n Node) {
	switch v := n.(type) {
	case *Source:
		pr.source(v)
	case *Module:
		pr.module(v)
	default:
		if isStatement(n) {
			pr.stmt(n, 0)
			pr.write("\n")

			return
		}

		if isModuleItem(n) {
			pr.item(n, 0)
			return
		}

		pr.write(Expr(n))
	}
}

func (pr *printer) source(src *Source) {
	for _, d := range src.Directives {
		pr.write(d, "\n")
	}

	if len(src.Directives) > 0 && len(src.Modules) > 0 {
		pr.write("\n")
	}

	for i, mod := range src.Modules {
		if i > 0 {
			pr.write("\n")
		}

		pr.node(mod)
	}
}

func (pr *printer) module(m *Module) {
	pr.write("module ", m.Name)

	if len(m.Params) > 0 {
		pr.write(" #(\n")

		for i, param := range m.Params {
			pr.indent(1)
			pr.write(paramText(param.(*Parameter)))

			if i < len(m.Params)-1 {
				pr.write(",")
			}

			pr.write("\n")
		}

		pr.write(")")
	}

	switch {
	case len(m.Ports) == 0:
	case isANSI(m.Ports):
		pr.write(" (\n")

		for i, port := range m.Ports {
			pr.indent(1)
			pr.write(portText(port.(*Port)))

			if i < len(m.Ports)-1 {
				pr.write(",")
			}

			pr.write("\n")
		}

		pr.write(")")
	default:
		names := make([]string, 0, len(m.Ports))
		for _, port := range m.Ports {
			names = append(names, Expr(port))
		}

		pr.write(" (", strings.Join(names, ", "), ")")
	}

	pr.write(";\n")

	for _, item := range m.Items {
		pr.item(item, 1)
	}

	pr.write("endmodule\n")
}

func isANSI(ports []Node) bool {
	_, ok := ports[0].(*Port)
	return ok
}

func isModuleItem(n Node) bool {
	switch n.(type) {
	case *Decl, *Parameter, *Assign, *Always, *Initial, *Instance:
		return true
	}

	return false
}

func isStatement(n Node) bool {
	switch n.(type) {
	case *Block, *IfStatement, *CaseStatement, *ForStatement, *WhileStatement, *Substitution, *SystemTask:
		return true
	}

	return false
}

func (pr *printer) item(n Node, level int) {
	pr.indent(level)

	switch v := n.(type) {
	case *Decl:
		pr.write(declText(v), ";\n")
	case *Parameter:
		pr.write(paramText(v), ";\n")
	case *Assign:
		pr.write("assign ", Expr(v.Left), " = ", Expr(v.Right), ";\n")
	case *Always:
		pr.write("always")

		if v.Sens != nil {
			pr.write(" ", sensText(v.Sens))
		}

		pr.clause(v.Stmt, level)
		pr.write("\n")
	case *Initial:
		pr.write("initial")
		pr.clause(v.Stmt, level)
		pr.write("\n")
	case *Instance:
		pr.write(v.Module)

		if len(v.Params) > 0 {
			pr.write(" #(", argsText(v.Params), ")")
		}

		pr.write(" ", v.Name, " (", argsText(v.Ports), ");\n")
	default:
		pr.write(fmt.Sprintf("/* unsupported item %T */\n", n))
	}
}

// stmt writes an indented statement without a trailing newline.
func (pr *printer) stmt(n Node, level int) {
	pr.indent(level)

	if isNil(n) {
		pr.write(";")
		return
	}

	switch v := n.(type) {
	case *Block:
		pr.write("begin")
		pr.blockBody(v, level)
	case *IfStatement:
		pr.ifChain(v, level)
	case *CaseStatement:
		pr.write(v.Kind, " (", Expr(v.Comp), ")\n")

		for _, it := range v.Items {
			item := it.(*Case)

			pr.indent(level + 1)

			if len(item.Conds) == 0 {
				pr.write("default:")
			} else {
				conds := make([]string, 0, len(item.Conds))
				for _, c := range item.Conds {
					conds = append(conds, Expr(c))
				}

				pr.write(strings.Join(conds, ", "), ":")
			}

			pr.clause(item.Stmt, level+1)
			pr.write("\n")
		}

		pr.indent(level)
		pr.write("endcase")
	case *ForStatement:
		pr.write("for (", substText(v.Pre), "; ", Expr(v.Cond), "; ", substText(v.Post), ")")
		pr.clause(v.Stmt, level)
	case *WhileStatement:
		pr.write("while (", Expr(v.Cond), ")")
		pr.clause(v.Stmt, level)
	case *Substitution:
		pr.write(substText(v), ";")
	case *SystemTask:
		pr.write(taskText(v), ";")
	default:
		pr.write(fmt.Sprintf("/* unsupported statement %T */;", n))
	}
}

func (pr *printer) blockBody(b *Block, level int) {
	if b.Name != "" {
		pr.write(" : ", b.Name)
	}

	pr.write("\n")

	for _, s := range b.Stmts {
		pr.stmt(s, level+1)
		pr.write("\n")
	}

	pr.indent(level)
	pr.write("end")
}

// clause writes the statement that follows a header such as if (...) or
// always @(...). Blocks and simple statements stay on the header line.
func (pr *printer) clause(n Node, level int) {
	switch v := n.(type) {
	case nil:
		pr.write(";")
	case *Block:
		if v == nil {
			pr.write(";")
			return
		}

		pr.write(" begin")
		pr.blockBody(v, level)
	case *Substitution:
		pr.write(" ", substText(v), ";")
	case *SystemTask:
		pr.write(" ", taskText(v), ";")
	default:
		if isNil(n) {
			pr.write(";")
			return
		}

		pr.write("\n")
		pr.stmt(n, level+1)
	}
}

func (pr *printer) ifChain(s *IfStatement, level int) {
	pr.write("if (", Expr(s.Cond), ")")

	then := s.Then
	if _, nested := then.(*IfStatement); nested && !isNil(s.Else) {
		// keep the else bound to this if
		then = &Block{Stmts: []Node{then}}
	}

	pr.clause(then, level)

	if isNil(s.Else) {
		return
	}

	if _, ok := then.(*Block); ok && !isNil(then) {
		pr.write(" else")
	} else {
		pr.write("\n")
		pr.indent(level)
		pr.write("else")
	}

	if elseIf, ok := s.Else.(*IfStatement); ok {
		pr.write(" ")
		pr.ifChain(elseIf, level)

		return
	}

	pr.clause(s.Else, level)
}

func declText(d *Decl) string {
	parts := []string{d.Kind}
	if d.Net != "" {
		parts = append(parts, d.Net)
	}

	if d.Signed {
		parts = append(parts, "signed")
	}

	if d.Width != nil {
		parts = append(parts, widthText(d.Width))
	}

	vars := make([]string, 0, len(d.Vars))

	for _, n := range d.Vars {
		v := n.(*Variable)
		text := v.Name

		if v.Dim != nil {
			text += " " + widthText(v.Dim)
		}

		if !isNil(v.Init) {
			text += " = " + Expr(v.Init)
		}

		vars = append(vars, text)
	}

	return strings.Join(parts, " ") + " " + strings.Join(vars, ", ")
}

func paramText(p *Parameter) string {
	kind := "parameter"
	if p.Local {
		kind = "localparam"
	}

	parts := []string{kind}
	if p.Signed {
		parts = append(parts, "signed")
	}

	if p.Width != nil {
		parts = append(parts, widthText(p.Width))
	}

	parts = append(parts, p.Name, "=", Expr(p.Value))

	return strings.Join(parts, " ")
}

func portText(p *Port) string {
	parts := []string{p.Direction}
	if p.Kind != "" {
		parts = append(parts, p.Kind)
	}

	if p.Signed {
		parts = append(parts, "signed")
	}

	if p.Width != nil {
		parts = append(parts, widthText(p.Width))
	}

	parts = append(parts, p.Name)

	return strings.Join(parts, " ")
}

func widthText(w *Width) string {
	return "[" + Expr(w.MSB) + ":" + Expr(w.LSB) + "]"
}

func sensText(s *SensList) string {
	items := make([]string, 0, len(s.List))

	for _, n := range s.List {
		sens := n.(*Sens)

		switch sens.Edge {
		case EdgeAll:
			return "@(*)"
		case EdgePos, EdgeNeg:
			items = append(items, sens.Edge+" "+Expr(sens.Sig))
		default:
			items = append(items, Expr(sens.Sig))
		}
	}

	return "@(" + strings.Join(items, " or ") + ")"
}

func substText(s Node) string {
	sub, ok := s.(*Substitution)
	if !ok || sub == nil {
		return ""
	}

	op := " <= "
	if sub.Blocking {
		op = " = "
	}

	return Expr(sub.Left) + op + Expr(sub.Right)
}

func taskText(t *SystemTask) string {
	if len(t.Args) == 0 {
		return t.Name
	}

	return t.Name + "(" + exprList(t.Args) + ")"
}

func argsText(args []Node) string {
	parts := make([]string, 0, len(args))

	for _, n := range args {
		arg := n.(*PortArg)

		value := ""
		if !isNil(arg.Arg) {
			value = Expr(arg.Arg)
		}

		if arg.Name == "" {
			parts = append(parts, value)
			continue
		}

		parts = append(parts, "."+arg.Name+"("+value+")")
	}

	return strings.Join(parts, ", ")
}

func exprList(list []Node) string {
	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, Expr(e))
	}

	return strings.Join(parts, ", ")
}

// Expr renders an expression node.
//
//nolint:cyclop // one case per expression kind
func Expr(n Node) string {
	if isNil(n) {
		return ""
	}

	switch v := n.(type) {
	case *Lvalue:
		return Expr(v.Var)
	case *Rvalue:
		return Expr(v.Var)
	case *Identifier:
		return v.Name
	case *IntConst:
		return v.Value
	case *FloatConst:
		return v.Value
	case *StringConst:
		return `"` + v.Value + `"`
	case *Unary:
		operand := Expr(v.Right)
		if precedence(v.Right) <= precUnary {
			operand = "(" + operand + ")"
		}

		return v.Op + operand
	case *Binary:
		prec := binaryPrec[v.Op]
		left := Expr(v.Left)

		if lp := precedence(v.Left); lp < prec || (lp == prec && v.Op == "**") {
			left = "(" + left + ")"
		}

		right := Expr(v.Right)
		if rp := precedence(v.Right); rp < prec || (rp == prec && v.Op != "**") {
			right = "(" + right + ")"
		}

		return left + " " + v.Op + " " + right
	case *Cond:
		cond := Expr(v.Cond)
		if precedence(v.Cond) == precTernary {
			cond = "(" + cond + ")"
		}

		return cond + " ? " + Expr(v.True) + " : " + Expr(v.False)
	case *Concat:
		return "{" + exprList(v.List) + "}"
	case *Repeat:
		return "{" + Expr(v.Times) + Expr(v.Value) + "}"
	case *Pointer:
		return Expr(v.Var) + "[" + Expr(v.Ptr) + "]"
	case *Partselect:
		op := v.Op
		if op == "" {
			op = ":"
		}

		return Expr(v.Var) + "[" + Expr(v.MSB) + op + Expr(v.LSB) + "]"
	case *FuncCall:
		if len(v.Args) == 0 && strings.HasPrefix(v.Name, "$") {
			return v.Name
		}

		return v.Name + "(" + exprList(v.Args) + ")"
	}

	return fmt.Sprintf("/* %T */", n)
}
