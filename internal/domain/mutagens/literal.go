package mutagens

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Base is the radix letter of a sized literal, lowercased. BaseNone marks a
// plain decimal token.
type Base byte

const (
	BaseNone    Base = 0
	BaseBinary  Base = 'b'
	BaseHex     Base = 'h'
	BaseDecimal Base = 'd'
	BaseOctal   Base = 'o'
)

// Literal is the lexical breakdown of an integer constant such as 8'hF0.
type Literal struct {
	Width  int    // 0 when the literal has no size
	Sized  bool   // an explicit width was written
	Signed bool   // 's' marker after the apostrophe
	Base   Base   // BaseNone for plain decimal tokens
	Tag    string // base marker as written, e.g. "h", "H" or "sd"
	Digits string // value digits as written, underscores included
}

// maxLiteralWidth is the widest sized literal that is flipped. Wider sizes are
// treated as unsupported.
const maxLiteralWidth = 1 << 16

var (
	plainDecimal = regexp.MustCompile(`^[0-9][0-9_]*$`)
	basedLiteral = regexp.MustCompile(`^([0-9][0-9_]*)?'([sS]?)([bBoOdDhH])([0-9a-fA-FxXzZ?_]+)$`)
)

// ParseLiteral splits an integer constant into its width, base and digits.
// It reports false for text that is not an integer literal.
func ParseLiteral(text string) (Literal, bool) {
	if plainDecimal.MatchString(text) {
		return Literal{Digits: text}, true
	}

	match := basedLiteral.FindStringSubmatch(text)
	if match == nil {
		return Literal{}, false
	}

	lit := Literal{
		Signed: match[2] != "",
		Base:   Base(strings.ToLower(match[3])[0]),
		Tag:    match[2] + match[3],
		Digits: match[4],
	}

	if match[1] != "" {
		width, err := strconv.Atoi(stripUnderscores(match[1]))
		if err != nil || width > maxLiteralWidth {
			return Literal{}, false
		}

		lit.Width = width
		lit.Sized = true
	}

	return lit, true
}

// String renders the literal in the lexical form it was parsed from.
func (l Literal) String() string {
	if l.Base == BaseNone {
		return l.Digits
	}

	width := ""
	if l.Sized {
		width = strconv.Itoa(l.Width)
	}

	return width + "'" + l.Tag + l.Digits
}

// FlipLiteral returns the bit-flipped form of an integer constant and
// whether it changed anything. Width, base and base letter case are kept.
//
// Plain decimals flip 0 and 1 and otherwise invert within their own bit
// length. Sized binary literals invert each 0/1 digit. Sized hex and decimal
// literals are XORed with a mask of width one-bits. Everything else is
// returned unchanged.
func FlipLiteral(text string) (string, bool) {
	lit, ok := ParseLiteral(text)
	if !ok {
		return text, false
	}

	var digits string

	switch {
	case lit.Base == BaseNone:
		digits, ok = flipPlainDecimal(lit.Digits)
	case !lit.Sized || lit.Signed || lit.Width <= 0:
		ok = false
	case lit.Base == BaseBinary:
		digits, ok = flipBinary(lit.Digits)
	case lit.Base == BaseHex:
		digits, ok = flipMasked(lit.Digits, 16, lit.Width)
	case lit.Base == BaseDecimal:
		digits, ok = flipMasked(lit.Digits, 10, lit.Width)
	default:
		ok = false
	}

	if !ok {
		return text, false
	}

	lit.Digits = digits

	return lit.String(), true
}

// flipPlainDecimal maps the values 0 and 1 onto each other, however they are
// spelled, and inverts any other value within its own bit length.
func flipPlainDecimal(digits string) (string, bool) {
	value, ok := new(big.Int).SetString(stripUnderscores(digits), 10)
	if !ok {
		return "", false
	}

	switch {
	case value.Sign() == 0:
		return "1", true
	case value.IsInt64() && value.Int64() == 1:
		return "0", true
	}

	value.Xor(value, ones(value.BitLen()))

	return value.String(), true
}

func flipBinary(digits string) (string, bool) {
	var b strings.Builder

	for _, c := range digits {
		switch c {
		case '0':
			b.WriteByte('1')
		case '1':
			b.WriteByte('0')
		case '_', 'x', 'X', 'z', 'Z', '?':
			b.WriteRune(c)
		default:
			return "", false
		}
	}

	return b.String(), true
}

// flipMasked XORs digits in the given radix with a mask of width one-bits.
// Digits holding x, z or ? have no numeric value and are not flipped.
func flipMasked(digits string, radix, width int) (string, bool) {
	value, ok := new(big.Int).SetString(stripUnderscores(digits), radix)
	if !ok {
		return "", false
	}

	value.Xor(value, ones(width))

	if radix == 16 {
		return fmt.Sprintf("%0*x", (width+3)/4, value), true
	}

	return value.String(), true
}

// ones returns 2^n - 1.
func ones(n int) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(n))
	return mask.Sub(mask, big.NewInt(1))
}

func stripUnderscores(s string) string { return strings.ReplaceAll(s, "_", "") }
