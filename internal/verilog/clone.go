package verilog

// Clone returns a deep copy of n. The copy shares no nodes with n.
//
//nolint:cyclop,gocyclo,funlen // one case per node kind
func Clone(n Node) Node {
	if isNil(n) {
		return nil
	}

	switch v := n.(type) {
	case *Source:
		return &Source{Directives: append([]string(nil), v.Directives...), Modules: cloneList(v.Modules)}
	case *Module:
		return &Module{Pos: v.Pos, Name: v.Name, Params: cloneList(v.Params), Ports: cloneList(v.Ports), Items: cloneList(v.Items)}
	case *Port:
		c := *v
		c.Width = cloneWidth(v.Width)

		return &c
	case *Width:
		return cloneWidth(v)
	case *Decl:
		c := *v
		c.Width = cloneWidth(v.Width)
		c.Vars = cloneList(v.Vars)

		return &c
	case *Variable:
		return &Variable{Name: v.Name, Dim: cloneWidth(v.Dim), Init: Clone(v.Init)}
	case *Parameter:
		c := *v
		c.Width = cloneWidth(v.Width)
		c.Value = Clone(v.Value)

		return &c
	case *Assign:
		return &Assign{Pos: v.Pos, Left: Clone(v.Left), Right: Clone(v.Right)}
	case *Lvalue:
		return &Lvalue{Var: Clone(v.Var)}
	case *Rvalue:
		return &Rvalue{Var: Clone(v.Var)}
	case *Always:
		c := &Always{Pos: v.Pos, Stmt: Clone(v.Stmt)}
		if v.Sens != nil {
			c.Sens = &SensList{List: cloneList(v.Sens.List)}
		}

		return c
	case *SensList:
		return &SensList{List: cloneList(v.List)}
	case *Sens:
		return &Sens{Edge: v.Edge, Sig: Clone(v.Sig)}
	case *Initial:
		return &Initial{Pos: v.Pos, Stmt: Clone(v.Stmt)}
	case *Block:
		return &Block{Name: v.Name, Stmts: cloneList(v.Stmts)}
	case *IfStatement:
		return &IfStatement{Pos: v.Pos, Cond: Clone(v.Cond), Then: Clone(v.Then), Else: Clone(v.Else)}
	case *CaseStatement:
		return &CaseStatement{Pos: v.Pos, Kind: v.Kind, Comp: Clone(v.Comp), Items: cloneList(v.Items)}
	case *Case:
		return &Case{Conds: cloneList(v.Conds), Stmt: Clone(v.Stmt)}
	case *ForStatement:
		return &ForStatement{Pos: v.Pos, Pre: Clone(v.Pre), Cond: Clone(v.Cond), Post: Clone(v.Post), Stmt: Clone(v.Stmt)}
	case *WhileStatement:
		return &WhileStatement{Pos: v.Pos, Cond: Clone(v.Cond), Stmt: Clone(v.Stmt)}
	case *Substitution:
		return &Substitution{Pos: v.Pos, Left: Clone(v.Left), Right: Clone(v.Right), Blocking: v.Blocking}
	case *SystemTask:
		return &SystemTask{Pos: v.Pos, Name: v.Name, Args: cloneList(v.Args)}
	case *Instance:
		return &Instance{Pos: v.Pos, Module: v.Module, Name: v.Name, Params: cloneList(v.Params), Ports: cloneList(v.Ports)}
	case *PortArg:
		return &PortArg{Name: v.Name, Arg: Clone(v.Arg)}
	case *Identifier:
		return &Identifier{Name: v.Name}
	case *IntConst:
		return &IntConst{Value: v.Value}
	case *FloatConst:
		return &FloatConst{Value: v.Value}
	case *StringConst:
		return &StringConst{Value: v.Value}
	case *Unary:
		return &Unary{Op: v.Op, Right: Clone(v.Right)}
	case *Binary:
		return &Binary{Op: v.Op, Left: Clone(v.Left), Right: Clone(v.Right)}
	case *Cond:
		return &Cond{Cond: Clone(v.Cond), True: Clone(v.True), False: Clone(v.False)}
	case *Concat:
		return &Concat{List: cloneList(v.List)}
	case *Repeat:
		c := &Repeat{Times: Clone(v.Times)}
		if v.Value != nil {
			c.Value = &Concat{List: cloneList(v.Value.List)}
		}

		return c
	case *Pointer:
		return &Pointer{Var: Clone(v.Var), Ptr: Clone(v.Ptr)}
	case *Partselect:
		return &Partselect{Var: Clone(v.Var), MSB: Clone(v.MSB), LSB: Clone(v.LSB), Op: v.Op}
	case *FuncCall:
		return &FuncCall{Name: v.Name, Args: cloneList(v.Args)}
	}

	return n
}

// CloneSource deep-copies a whole program.
func CloneSource(src *Source) *Source {
	if src == nil {
		return nil
	}

	clone, _ := Clone(src).(*Source)

	return clone
}

func cloneList(list []Node) []Node {
	if list == nil {
		return nil
	}

	out := make([]Node, len(list))
	for i, n := range list {
		out[i] = Clone(n)
	}

	return out
}

func cloneWidth(w *Width) *Width {
	if w == nil {
		return nil
	}

	return &Width{MSB: Clone(w.MSB), LSB: Clone(w.LSB)}
}
