package mutagens

import "vfault.dev/pkg/vfault/internal/verilog"

// ChangeConstants flips the bits of every integer constant below root, see
// FlipLiteral. Literals it does not recognize are kept as they are. It
// returns the number of constants it changed.
func ChangeConstants(root verilog.Node) int {
	changed := 0

	Walk(root, func(_ *Walker, n verilog.Node) bool {
		c, ok := n.(*verilog.IntConst)
		if !ok {
			return false
		}

		if value, ok := FlipLiteral(c.Value); ok {
			c.Value = value
			changed++
		}

		return true
	})

	return changed
}
