package mutagens

import "vfault.dev/pkg/vfault/internal/verilog"

// InvertLogic wraps the condition of every if statement below root in a
// logical negation unless it is already negated. Nested if statements are
// inverted independently in the same pass. It returns the number of
// conditions it changed.
func InvertLogic(root verilog.Node) int {
	inverted := 0

	Walk(root, func(w *Walker, n verilog.Node) bool {
		stmt, ok := n.(*verilog.IfStatement)
		if !ok {
			return false
		}

		if stmt.Cond != nil && !verilog.IsNegation(stmt.Cond) {
			stmt.Cond = &verilog.Unary{Op: verilog.OpNot, Right: stmt.Cond}
			inverted++
		}

		w.WalkChildren(stmt, stmt.Cond)

		return true
	})

	return inverted
}
