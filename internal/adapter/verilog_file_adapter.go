package adapter

import (
	"context"
	"fmt"
	"io"

	m "vfault.dev/pkg/vfault/internal/model"
	"vfault.dev/pkg/vfault/internal/verilog"
)

// VerilogFileAdapter turns Verilog source into a syntax tree and back. The
// workflow never touches the parser or code generator directly.
type VerilogFileAdapter interface {
	// Parse builds one syntax tree from the given files, in order. contents[i]
	// holds the text of paths[i].
	Parse(ctx context.Context, paths []m.Path, contents [][]byte) (*verilog.Source, error)

	// Generate renders a syntax tree back to source text.
	Generate(ctx context.Context, tree verilog.Node) ([]byte, error)

	// Dump writes an outline of the tree, at most depth levels deep.
	Dump(ctx context.Context, w io.Writer, tree verilog.Node, depth int) error
}

// LocalVerilogFileAdapter implements VerilogFileAdapter with the built-in
// Verilog parser.
type LocalVerilogFileAdapter struct{}

// NewLocalVerilogFileAdapter constructs a LocalVerilogFileAdapter.
func NewLocalVerilogFileAdapter() *LocalVerilogFileAdapter {
	return &LocalVerilogFileAdapter{}
}

// Parse parses every file and merges their modules into one tree.
func (a *LocalVerilogFileAdapter) Parse(ctx context.Context, paths []m.Path, contents [][]byte) (*verilog.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(paths) != len(contents) {
		return nil, fmt.Errorf("got %d paths for %d file contents", len(paths), len(contents))
	}

	files := make(map[string][]byte, len(paths))
	order := make([]string, 0, len(paths))

	for i, path := range paths {
		files[string(path)] = contents[i]
		order = append(order, string(path))
	}

	return verilog.ParseFiles(files, order)
}

// Generate renders tree as Verilog source.
func (a *LocalVerilogFileAdapter) Generate(ctx context.Context, tree verilog.Node) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if tree == nil {
		return nil, fmt.Errorf("missing syntax tree")
	}

	return []byte(verilog.Generate(tree)), nil
}

// Dump writes the tree outline to w.
func (a *LocalVerilogFileAdapter) Dump(ctx context.Context, w io.Writer, tree verilog.Node, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth <= 0 {
		depth = verilog.DefaultDumpDepth
	}

	return verilog.Dump(w, tree, depth)
}
