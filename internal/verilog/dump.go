package verilog

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

// DefaultDumpDepth is the number of tree levels Dump prints before eliding.
const DefaultDumpDepth = 5

// Dump writes an indented outline of the tree rooted at n, one node kind per
// line, annotated with names and literal values. Levels deeper than maxDepth
// are shown as "...".
func Dump(w io.Writer, n Node, maxDepth int) error {
	return dump(w, n, 0, maxDepth)
}

func dump(w io.Writer, n Node, level, maxDepth int) error {
	pad := strings.Repeat("  ", level)

	if level > maxDepth {
		_, err := fmt.Fprintf(w, "%s...\n", pad)
		return err
	}

	line := pad + kindName(n)

	if name, ok := nodeName(n); ok {
		line += fmt.Sprintf(" (name=%s)", name)
	}

	if value, ok := nodeValue(n); ok {
		line += fmt.Sprintf(" (value=%s)", value)
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for _, child := range n.Children() {
		if err := dump(w, child, level+1, maxDepth); err != nil {
			return err
		}
	}

	return nil
}

// kindName returns the Go type name of the node without package or pointer.
func kindName(n Node) string {
	t := reflect.TypeOf(n)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name()
}

func nodeName(n Node) (string, bool) {
	switch v := n.(type) {
	case *Module:
		return v.Name, true
	case *Port:
		return v.Name, true
	case *Variable:
		return v.Name, true
	case *Parameter:
		return v.Name, true
	case *Identifier:
		return v.Name, true
	case *Instance:
		return v.Name, true
	case *SystemTask:
		return v.Name, true
	case *FuncCall:
		return v.Name, true
	case *PortArg:
		return v.Name, v.Name != ""
	case *Block:
		return v.Name, v.Name != ""
	}

	return "", false
}

func nodeValue(n Node) (string, bool) {
	switch v := n.(type) {
	case *IntConst:
		return v.Value, true
	case *FloatConst:
		return v.Value, true
	case *StringConst:
		return v.Value, true
	case *Unary:
		return v.Op, true
	case *Binary:
		return v.Op, true
	}

	return "", false
}
