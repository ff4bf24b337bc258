package mutagens

import (
	"strconv"

	"vfault.dev/pkg/vfault/internal/verilog"
)

// RandomizeProbability is the chance that an assignment gets a random value.
const RandomizeProbability = 0.5

// RandomizeAssignments visits every continuous assignment below root and,
// with probability RandomizeProbability, replaces its right-hand side by a
// fresh constant 0 or 1. One sample is drawn per assignment in traversal
// order, plus one more for the constant when it is replaced, so the outcome
// depends only on the tree and the state of rng. It returns the number of
// assignments it replaced.
func RandomizeAssignments(root verilog.Node, rng RandomSource) int {
	replaced := 0

	Walk(root, func(_ *Walker, n verilog.Node) bool {
		assign, ok := n.(*verilog.Assign)
		if !ok {
			return false
		}

		if rng.Float64() >= RandomizeProbability {
			return false
		}

		bit := &verilog.IntConst{Value: strconv.Itoa(rng.IntN(2))}
		if replaceRight(assign, bit) {
			replaced++
		}

		return false
	})

	return replaced
}

func replaceRight(assign *verilog.Assign, value verilog.Node) bool {
	if rv, ok := assign.Right.(*verilog.Rvalue); ok {
		if rv == nil {
			return false
		}

		rv.Var = value

		return true
	}

	if assign.Right == nil {
		return false
	}

	assign.Right = value

	return true
}
