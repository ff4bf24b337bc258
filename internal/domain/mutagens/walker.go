// Package mutagens implements the tree rewriting operators used for fault
// injection. Each operator is one depth-first pre-order walk that rewrites
// matching nodes in place.
package mutagens

import "vfault.dev/pkg/vfault/internal/verilog"

// Handler handles the node kinds an operator cares about. It returns false
// when it does not handle n, in which case the walker descends into the
// children of n. A handler that returns true decides itself which children to
// visit, usually through Walker.WalkChildren.
type Handler func(w *Walker, n verilog.Node) bool

// Walker drives a Handler over a syntax tree.
type Walker struct {
	handle Handler
}

// Walk visits root and everything below it with h.
func Walk(root verilog.Node, h Handler) {
	w := &Walker{handle: h}
	w.Walk(root)
}

// Walk visits n. Nil nodes are ignored.
func (w *Walker) Walk(n verilog.Node) {
	if n == nil {
		return
	}

	if w.handle != nil && w.handle(w, n) {
		return
	}

	w.WalkChildren(n)
}

// WalkChildren visits the children of n in declaration order, leaving out
// the children listed in skip. Skipped children are compared by identity.
func (w *Walker) WalkChildren(n verilog.Node, skip ...verilog.Node) {
	for _, child := range n.Children() {
		if skipped(child, skip) {
			continue
		}

		w.Walk(child)
	}
}

func skipped(n verilog.Node, skip []verilog.Node) bool {
	for _, s := range skip {
		if s == n {
			return true
		}
	}

	return false
}

// Count returns how many nodes below root satisfy match.
func Count(root verilog.Node, match func(verilog.Node) bool) int {
	count := 0

	Walk(root, func(_ *Walker, n verilog.Node) bool {
		if match(n) {
			count++
		}

		return false
	})

	return count
}
