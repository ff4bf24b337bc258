package mutagens

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vfault.dev/pkg/vfault/internal/verilog"
)

func parse(t *testing.T, src string) *verilog.Source {
	t.Helper()

	tree, err := verilog.Parse("test.v", []byte(src))
	require.NoError(t, err)

	return tree
}

func module(body string) string {
	return "module m;\n" + body + "endmodule\n"
}

// scriptedSource replays fixed samples and fails the test when it runs out.
type scriptedSource struct {
	t      *testing.T
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	s.t.Helper()
	require.NotEmpty(s.t, s.floats, "unexpected Float64 draw")

	f := s.floats[0]
	s.floats = s.floats[1:]

	return f
}

func (s *scriptedSource) IntN(n int) int {
	s.t.Helper()
	require.NotEmpty(s.t, s.ints, "unexpected IntN draw")

	v := s.ints[0]
	s.ints = s.ints[1:]

	require.Less(s.t, v, n)

	return v
}
