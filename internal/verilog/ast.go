// Package verilog provides a syntax tree, parser and code generator for the
// synthesizable subset of Verilog-2001 that vfault mutates.
package verilog

import "reflect"

// Node is implemented by every syntax tree node.
//
// Children returns the node-valued fields in declaration order. Single node
// fields and list fields are flattened; nil entries are omitted. Leaf data
// such as names and literal text is never returned.
type Node interface {
	Children() []Node
}

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

func appendNodes(out []Node, nodes ...Node) []Node {
	for _, n := range nodes {
		if isNil(n) {
			continue
		}

		out = append(out, n)
	}

	return out
}

// isNil reports whether n is nil or a typed nil pointer such as an absent *Width.
func isNil(n Node) bool {
	if n == nil {
		return true
	}

	v := reflect.ValueOf(n)

	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Source is the root of a parsed program: every module of every input file.
type Source struct {
	Directives []string // compiler directive lines such as `timescale, in input order
	Modules    []Node
}

// Children implements Node.
func (s *Source) Children() []Node { return appendNodes(nil, s.Modules...) }

// Module is a module declaration.
type Module struct {
	Pos    Pos
	Name   string
	Params []Node // *Parameter from the #( ... ) header
	Ports  []Node // *Port (ANSI) or *Identifier (non-ANSI port list)
	Items  []Node
}

// Children implements Node.
func (m *Module) Children() []Node {
	out := appendNodes(nil, m.Params...)
	out = appendNodes(out, m.Ports...)

	return appendNodes(out, m.Items...)
}

// Port is an ANSI-style port declaration in a module header.
type Port struct {
	Pos       Pos
	Direction string // input, output, inout
	Kind      string // wire, reg or empty
	Signed    bool
	Width     *Width
	Name      string
}

// Children implements Node.
func (p *Port) Children() []Node { return appendNodes(nil, p.Width) }

// Width is a packed range [MSB:LSB].
type Width struct {
	MSB Node
	LSB Node
}

// Children implements Node.
func (w *Width) Children() []Node { return appendNodes(nil, w.MSB, w.LSB) }

// Decl declares nets, variables or non-ANSI ports:
// wire, reg, integer, input, output, inout.
type Decl struct {
	Pos    Pos
	Kind   string
	Net    string // optional net kind following a direction, e.g. "output reg"
	Signed bool
	Width  *Width
	Vars   []Node // *Variable
}

// Children implements Node.
func (d *Decl) Children() []Node {
	out := appendNodes(nil, d.Width)
	return appendNodes(out, d.Vars...)
}

// Variable is a single name inside a Decl, with an optional unpacked
// dimension and initializer.
type Variable struct {
	Name string
	Dim  *Width
	Init Node
}

// Children implements Node.
func (v *Variable) Children() []Node { return appendNodes(nil, v.Dim, v.Init) }

// Parameter is a parameter or localparam declaration.
type Parameter struct {
	Pos    Pos
	Local  bool
	Signed bool
	Width  *Width
	Name   string
	Value  Node
}

// Children implements Node.
func (p *Parameter) Children() []Node { return appendNodes(nil, p.Width, p.Value) }

// Assign is a continuous assignment: assign Left = Right;
//
// The parser wraps both sides: Left is an *Lvalue and Right an *Rvalue.
// Trees built by hand may hold a bare expression in Right.
type Assign struct {
	Pos   Pos
	Left  Node
	Right Node
}

// Children implements Node.
func (a *Assign) Children() []Node { return appendNodes(nil, a.Left, a.Right) }

// Lvalue wraps the target of an assignment.
type Lvalue struct {
	Var Node
}

// Children implements Node.
func (l *Lvalue) Children() []Node { return appendNodes(nil, l.Var) }

// Rvalue wraps the value expression of an assignment.
type Rvalue struct {
	Var Node
}

// Children implements Node.
func (r *Rvalue) Children() []Node { return appendNodes(nil, r.Var) }

// Always is an always block.
type Always struct {
	Pos  Pos
	Sens *SensList
	Stmt Node
}

// Children implements Node.
func (a *Always) Children() []Node { return appendNodes(nil, a.Sens, a.Stmt) }

// SensList is the @(...) event control of an always block.
type SensList struct {
	List []Node // *Sens
}

// Children implements Node.
func (s *SensList) Children() []Node { return appendNodes(nil, s.List...) }

// Sensitivity edge kinds.
const (
	EdgePos   = "posedge"
	EdgeNeg   = "negedge"
	EdgeLevel = "level"
	EdgeAll   = "all"
)

// Sens is one entry of a sensitivity list.
type Sens struct {
	Edge string
	Sig  Node // nil for @*
}

// Children implements Node.
func (s *Sens) Children() []Node { return appendNodes(nil, s.Sig) }

// Initial is an initial block.
type Initial struct {
	Pos  Pos
	Stmt Node
}

// Children implements Node.
func (i *Initial) Children() []Node { return appendNodes(nil, i.Stmt) }

// Block is a begin ... end sequential block.
type Block struct {
	Name  string
	Stmts []Node
}

// Children implements Node.
func (b *Block) Children() []Node { return appendNodes(nil, b.Stmts...) }

// IfStatement is a procedural if with an optional else branch.
type IfStatement struct {
	Pos  Pos
	Cond Node
	Then Node
	Else Node
}

// Children implements Node.
func (i *IfStatement) Children() []Node { return appendNodes(nil, i.Cond, i.Then, i.Else) }

// CaseStatement is case, casex or casez.
type CaseStatement struct {
	Pos   Pos
	Kind  string
	Comp  Node
	Items []Node // *Case
}

// Children implements Node.
func (c *CaseStatement) Children() []Node {
	out := appendNodes(nil, c.Comp)
	return appendNodes(out, c.Items...)
}

// Case is one case item. Empty Conds marks the default item.
type Case struct {
	Conds []Node
	Stmt  Node
}

// Children implements Node.
func (c *Case) Children() []Node {
	out := appendNodes(nil, c.Conds...)
	return appendNodes(out, c.Stmt)
}

// ForStatement is a procedural for loop.
type ForStatement struct {
	Pos  Pos
	Pre  Node // *Substitution
	Cond Node
	Post Node // *Substitution
	Stmt Node
}

// Children implements Node.
func (f *ForStatement) Children() []Node {
	return appendNodes(nil, f.Pre, f.Cond, f.Post, f.Stmt)
}

// WhileStatement is a procedural while loop.
type WhileStatement struct {
	Pos  Pos
	Cond Node
	Stmt Node
}

// Children implements Node.
func (w *WhileStatement) Children() []Node { return appendNodes(nil, w.Cond, w.Stmt) }

// Substitution is a procedural assignment, blocking (=) or non-blocking (<=).
type Substitution struct {
	Pos      Pos
	Left     Node // *Lvalue
	Right    Node // *Rvalue
	Blocking bool
}

// Children implements Node.
func (s *Substitution) Children() []Node { return appendNodes(nil, s.Left, s.Right) }

// SystemTask is a system task call statement such as $display(...);
type SystemTask struct {
	Pos  Pos
	Name string
	Args []Node
}

// Children implements Node.
func (s *SystemTask) Children() []Node { return appendNodes(nil, s.Args...) }

// Instance is a module instantiation.
type Instance struct {
	Pos    Pos
	Module string
	Name   string
	Params []Node // *PortArg
	Ports  []Node // *PortArg
}

// Children implements Node.
func (i *Instance) Children() []Node {
	out := appendNodes(nil, i.Params...)
	return appendNodes(out, i.Ports...)
}

// PortArg is a positional (Name == "") or named connection.
type PortArg struct {
	Name string
	Arg  Node
}

// Children implements Node.
func (p *PortArg) Children() []Node { return appendNodes(nil, p.Arg) }

// Identifier references a net, variable or parameter.
type Identifier struct {
	Name string
}

// Children implements Node.
func (*Identifier) Children() []Node { return nil }

// IntConst is an integer literal kept in its lexical form, e.g. 8'hF0.
type IntConst struct {
	Value string
}

// Children implements Node.
func (*IntConst) Children() []Node { return nil }

// FloatConst is a real literal.
type FloatConst struct {
	Value string
}

// Children implements Node.
func (*FloatConst) Children() []Node { return nil }

// StringConst is a string literal without its quotes.
type StringConst struct {
	Value string
}

// Children implements Node.
func (*StringConst) Children() []Node { return nil }

// Unary operators that negate their operand.
const (
	OpBitNot = "~"
	OpNot    = "!"
)

// Unary is a prefix operator expression, including reductions.
type Unary struct {
	Op    string
	Right Node
}

// Children implements Node.
func (u *Unary) Children() []Node { return appendNodes(nil, u.Right) }

// IsNegation reports whether n is a bitwise or logical negation.
func IsNegation(n Node) bool {
	u, ok := n.(*Unary)
	return ok && u != nil && (u.Op == OpBitNot || u.Op == OpNot)
}

// Binary is an infix operator expression.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Children implements Node.
func (b *Binary) Children() []Node { return appendNodes(nil, b.Left, b.Right) }

// Cond is the ternary expression Cond ? True : False.
type Cond struct {
	Cond  Node
	True  Node
	False Node
}

// Children implements Node.
func (c *Cond) Children() []Node { return appendNodes(nil, c.Cond, c.True, c.False) }

// Concat is {a, b, ...}.
type Concat struct {
	List []Node
}

// Children implements Node.
func (c *Concat) Children() []Node { return appendNodes(nil, c.List...) }

// Repeat is the replication {Times{Value}}.
type Repeat struct {
	Times Node
	Value *Concat
}

// Children implements Node.
func (r *Repeat) Children() []Node { return appendNodes(nil, r.Times, r.Value) }

// Pointer is a bit or word select: Var[Ptr].
type Pointer struct {
	Var Node
	Ptr Node
}

// Children implements Node.
func (p *Pointer) Children() []Node { return appendNodes(nil, p.Var, p.Ptr) }

// Partselect is Var[MSB:LSB], or an indexed part-select Var[MSB+:LSB] /
// Var[MSB-:LSB] when Op is "+:" or "-:".
type Partselect struct {
	Var Node
	MSB Node
	LSB Node
	Op  string
}

// Children implements Node.
func (p *Partselect) Children() []Node { return appendNodes(nil, p.Var, p.MSB, p.LSB) }

// FuncCall is a function or system function call inside an expression.
type FuncCall struct {
	Name string
	Args []Node
}

// Children implements Node.
func (f *FuncCall) Children() []Node { return appendNodes(nil, f.Args...) }
