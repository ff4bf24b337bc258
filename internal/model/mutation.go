// Package model defines the data structures shared by the fault injection
// workflow, its adapters and the command line.
package model

// OperatorType names a mutation operator. The value doubles as its
// configuration key.
type OperatorType string

const (
	// OperatorFlipAssigns negates the right-hand side of continuous assignments.
	OperatorFlipAssigns OperatorType = "flip_assigns"
	// OperatorInvertLogic negates the condition of if statements.
	OperatorInvertLogic OperatorType = "invert_logic"
	// OperatorChangeConstants flips the bits of integer literals.
	OperatorChangeConstants OperatorType = "change_constants"
	// OperatorRandomizeAssignments replaces right-hand sides with random 0/1 constants.
	OperatorRandomizeAssignments OperatorType = "randomize_assignments"
)

// Operators lists every operator in pipeline order.
var Operators = []OperatorType{
	OperatorFlipAssigns,
	OperatorInvertLogic,
	OperatorChangeConstants,
	OperatorRandomizeAssignments,
}

// MutationConfig selects the operators of one run. It is built once and
// never changed while the run is in progress.
type MutationConfig struct {
	FlipAssigns          bool   `json:"flip_assigns" yaml:"flip_assigns"`
	InvertLogic          bool   `json:"invert_logic" yaml:"invert_logic"`
	ChangeConstants      bool   `json:"change_constants" yaml:"change_constants"`
	RandomizeAssignments bool   `json:"randomize_assignments" yaml:"randomize_assignments"`
	SVM                  bool   `json:"svm" yaml:"svm"`
	SVMCommand           string `json:"svm_command,omitempty" yaml:"svm_command,omitempty"`
	Seed                 *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultMutationConfig returns the configuration used when nothing is set.
func DefaultMutationConfig() MutationConfig {
	return MutationConfig{
		FlipAssigns:     true,
		InvertLogic:     true,
		ChangeConstants: true,
	}
}

// Enabled reports whether the given operator runs under this configuration.
func (c MutationConfig) Enabled(op OperatorType) bool {
	switch op {
	case OperatorFlipAssigns:
		return c.FlipAssigns
	case OperatorInvertLogic:
		return c.InvertLogic
	case OperatorChangeConstants:
		return c.ChangeConstants
	case OperatorRandomizeAssignments:
		return c.RandomizeAssignments
	}

	return false
}

// EnabledOperators returns the enabled operators in pipeline order.
func (c MutationConfig) EnabledOperators() []OperatorType {
	var ops []OperatorType

	for _, op := range Operators {
		if c.Enabled(op) {
			ops = append(ops, op)
		}
	}

	return ops
}

// WithSeed returns a copy of the configuration carrying seed.
func (c MutationConfig) WithSeed(seed int64) MutationConfig {
	c.Seed = &seed
	return c
}

// InjectionResult describes one completed run of the operator pipeline.
type InjectionResult struct {
	// Seed is the seed the random source was built from, drawn from entropy
	// when the configuration had none. It is nil when no operator needed one.
	Seed   *int64
	Counts map[OperatorType]int
}

// Total returns the number of mutations applied by all operators.
func (r InjectionResult) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}

	return total
}
