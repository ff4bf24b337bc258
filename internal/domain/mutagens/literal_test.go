package mutagens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		text string
		want Literal
	}{
		{text: "42", want: Literal{Digits: "42"}},
		{text: "1_000", want: Literal{Digits: "1_000"}},
		{text: "4'b0110", want: Literal{Width: 4, Sized: true, Base: BaseBinary, Tag: "b", Digits: "0110"}},
		{text: "8'HF0", want: Literal{Width: 8, Sized: true, Base: BaseHex, Tag: "H", Digits: "F0"}},
		{text: "16'd65_535", want: Literal{Width: 16, Sized: true, Base: BaseDecimal, Tag: "d", Digits: "65_535"}},
		{text: "'hff", want: Literal{Base: BaseHex, Tag: "h", Digits: "ff"}},
		{text: "8'sd5", want: Literal{Width: 8, Sized: true, Signed: true, Base: BaseDecimal, Tag: "sd", Digits: "5"}},
		{text: "6'o17", want: Literal{Width: 6, Sized: true, Base: BaseOctal, Tag: "o", Digits: "17"}},
		{text: "65536'h1", want: Literal{Width: 1 << 16, Sized: true, Base: BaseHex, Tag: "h", Digits: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseLiteral(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
		})
	}

	for _, bad := range []string{"", "abc", "8'q12", "8'h", "4'b01 1", "1.5", "65537'h1", "99999999999999999999'b1"} {
		_, ok := ParseLiteral(bad)
		assert.False(t, ok, bad)
	}
}

func TestFlipLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "zero", in: "0", want: "1"},
		{name: "one", in: "1", want: "0"},
		{name: "zero with leading zero", in: "00", want: "1"},
		{name: "zero with separator", in: "0_0", want: "1"},
		{name: "one with leading zero", in: "01", want: "0"},
		{name: "one with separator", in: "0_1", want: "0"},
		{name: "plain decimal inverts within its bit length", in: "5", want: "2"},
		{name: "plain decimal all ones", in: "7", want: "0"},
		{name: "plain decimal ten", in: "10", want: "5"},
		{name: "plain decimal with underscores", in: "1_000", want: "23"},
		{name: "binary", in: "4'b0110", want: "4'b1001"},
		{name: "binary keeps unknown digits and separators", in: "6'B01x_z1", want: "6'B10x_z0"},
		{name: "binary string length wins over width", in: "2'b0110", want: "2'b1001"},
		{name: "hex pads to width", in: "8'hF0", want: "8'h0f"},
		{name: "hex keeps base letter case", in: "8'HF0", want: "8'H0f"},
		{name: "hex odd width", in: "12'habc", want: "12'h543"},
		{name: "hex partial nibble", in: "6'h3", want: "6'h3c"},
		{name: "hex value wider than width", in: "4'hff", want: "4'hf0"},
		{name: "hex wider than 64 bits", in: "72'h0", want: "72'hffffffffffffffffff"},
		{name: "sized decimal", in: "8'd5", want: "8'd250"},
		{name: "sized decimal with underscores", in: "8'D1_0", want: "8'D245"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FlipLiteral(tt.in)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlipLiteral_LeavesUnsupportedUnchanged(t *testing.T) {
	for _, in := range []string{
		"'hff",
		"'b1",
		"8'o17",
		"8'sd5",
		"8'sb0110",
		"8'hx0",
		"8'dz",
		"4'b0121",
		"0'h1",
		"65537'h1",
		"1000000000000'hF",
		"abc",
		"3.14",
	} {
		t.Run(in, func(t *testing.T) {
			got, ok := FlipLiteral(in)
			assert.False(t, ok)
			assert.Equal(t, in, got)
		})
	}
}

func TestFlipLiteral_FixedWidthIsReversible(t *testing.T) {
	for _, in := range []string{"4'b0110", "3'b1_0x", "8'hf0", "12'habc", "1'h1", "8'd5", "16'd0", "32'hdeadbeef"} {
		t.Run(in, func(t *testing.T) {
			once, ok := FlipLiteral(in)
			require.True(t, ok)
			assert.NotEqual(t, in, once)

			twice, ok := FlipLiteral(once)
			require.True(t, ok)
			assert.Equal(t, in, twice)
		})
	}
}

func TestFlipLiteral_PreservesWidthAndBase(t *testing.T) {
	for _, in := range []string{"4'b0110", "8'HF0", "12'habc", "8'd5", "72'h0"} {
		t.Run(in, func(t *testing.T) {
			before, ok := ParseLiteral(in)
			require.True(t, ok)

			out, ok := FlipLiteral(in)
			require.True(t, ok)

			after, ok := ParseLiteral(out)
			require.True(t, ok)
			assert.Equal(t, before.Width, after.Width)
			assert.Equal(t, before.Base, after.Base)
			assert.Equal(t, before.Tag, after.Tag)
		})
	}
}

func TestFlipLiteral_PlainDecimalIsNotSelfInverse(t *testing.T) {
	once, ok := FlipLiteral("5")
	require.True(t, ok)
	assert.Equal(t, "2", once)

	twice, ok := FlipLiteral(once)
	require.True(t, ok)
	assert.Equal(t, "1", twice)
}
