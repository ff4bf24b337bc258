package adapter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "vfault.dev/pkg/vfault/internal/model"
	"vfault.dev/pkg/vfault/internal/verilog"
)

func TestLocalVerilogFileAdapter_ParseAndGenerate(t *testing.T) {
	adapter := NewLocalVerilogFileAdapter()
	ctx := context.Background()

	src := "module top (\n  input wire a,\n  output wire y\n);\n  assign y = a;\nendmodule\n"

	tree, err := adapter.Parse(ctx, []m.Path{"top.v"}, [][]byte{[]byte(src)})
	require.NoError(t, err)
	require.Len(t, tree.Modules, 1)

	out, err := adapter.Generate(ctx, tree)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestLocalVerilogFileAdapter_ParseMultipleFiles(t *testing.T) {
	adapter := NewLocalVerilogFileAdapter()

	tree, err := adapter.Parse(context.Background(),
		[]m.Path{"a.v", "b.v"},
		[][]byte{[]byte("module a;\nendmodule\n"), []byte("module b;\nendmodule\n")})
	require.NoError(t, err)
	require.Len(t, tree.Modules, 2)
	assert.Equal(t, "b", tree.Modules[1].(*verilog.Module).Name)
}

func TestLocalVerilogFileAdapter_ParseErrors(t *testing.T) {
	adapter := NewLocalVerilogFileAdapter()

	t.Run("invalid source carries the file name", func(t *testing.T) {
		_, err := adapter.Parse(context.Background(), []m.Path{"broken.v"}, [][]byte{[]byte("module m;\n  assign = ;\n")})
		require.Error(t, err)

		var parseErr *verilog.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "broken.v", parseErr.File)
		assert.True(t, strings.HasPrefix(err.Error(), "broken.v:2:"))
	})

	t.Run("mismatched inputs", func(t *testing.T) {
		_, err := adapter.Parse(context.Background(), []m.Path{"a.v", "b.v"}, [][]byte{nil})
		require.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := adapter.Parse(ctx, []m.Path{"a.v"}, [][]byte{[]byte("module a;\nendmodule\n")})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalVerilogFileAdapter_Dump(t *testing.T) {
	adapter := NewLocalVerilogFileAdapter()
	ctx := context.Background()

	tree, err := adapter.Parse(ctx, []m.Path{"top.v"}, [][]byte{[]byte("module top;\n  assign y = a;\nendmodule\n")})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, adapter.Dump(ctx, &buf, tree, 0))
	assert.Contains(t, buf.String(), "  Module (name=top)\n")
	assert.Contains(t, buf.String(), "Identifier (name=a)")

	buf.Reset()
	require.NoError(t, adapter.Dump(ctx, &buf, tree, 1))
	assert.Equal(t, "Source\n  Module (name=top)\n    ...\n", buf.String())
}

func TestLocalVerilogFileAdapter_GenerateMissingTree(t *testing.T) {
	_, err := NewLocalVerilogFileAdapter().Generate(context.Background(), nil)
	require.Error(t, err)
}
