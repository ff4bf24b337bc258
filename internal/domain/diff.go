package domain

import (
	"github.com/pmezard/go-difflib/difflib"
)

const diffContextLines = 3

// UnifiedDiff returns the unified diff turning original into mutated, or an
// empty string when they are equal.
func UnifiedDiff(original, mutated []byte, fromFile, toFile string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  diffContextLines,
	})
}
