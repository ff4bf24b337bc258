package mutagens

import "vfault.dev/pkg/vfault/internal/verilog"

// FlipAssigns wraps the right-hand side of every continuous assignment below
// root in a bitwise negation. Right-hand sides that are already negated are
// left alone, so running it twice changes nothing the second time. It returns
// the number of assignments it changed.
func FlipAssigns(root verilog.Node) int {
	flipped := 0

	Walk(root, func(w *Walker, n verilog.Node) bool {
		assign, ok := n.(*verilog.Assign)
		if !ok {
			return false
		}

		if flipAssign(assign) {
			flipped++
		}

		w.Walk(assign.Left)
		w.WalkChildren(assign, assign.Left, assign.Right)

		return true
	})

	return flipped
}

// flipAssign negates the right-hand side unless it already is a bitwise (~) or
// logical (!) negation.
func flipAssign(assign *verilog.Assign) bool {
	if rv, ok := assign.Right.(*verilog.Rvalue); ok {
		if rv == nil || rv.Var == nil || verilog.IsNegation(rv.Var) {
			return false
		}

		rv.Var = &verilog.Unary{Op: verilog.OpBitNot, Right: rv.Var}

		return true
	}

	if assign.Right == nil || verilog.IsNegation(assign.Right) {
		return false
	}

	assign.Right = &verilog.Unary{Op: verilog.OpBitNot, Right: assign.Right}

	return true
}
