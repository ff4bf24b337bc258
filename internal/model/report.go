package model

import "time"

// RunStatus records how a run ended.
type RunStatus string

const (
	// StatusMutated means the operators ran and the mutant was written.
	StatusMutated RunStatus = "mutated"
	// StatusDelegated means the smart mutation harness produced the mutants.
	StatusDelegated RunStatus = "delegated"
	// StatusFailed means the run stopped with an error.
	StatusFailed RunStatus = "failed"
)

// RunReport is the persisted record of one mutant generation.
type RunReport struct {
	RunID     string               `yaml:"run_id"`
	Timestamp time.Time            `yaml:"timestamp"`
	Status    RunStatus            `yaml:"status"`
	Inputs    []File               `yaml:"inputs"`
	Output    *File                `yaml:"output,omitempty"`
	Seed      *int64               `yaml:"seed,omitempty"`
	Config    MutationConfig       `yaml:"config"`
	Counts    map[OperatorType]int `yaml:"counts,omitempty"`
	Mutants   int                  `yaml:"mutants,omitempty"`
	Error     string               `yaml:"error,omitempty"`
}

// Estimate is the number of sites each operator would mutate in a source.
type Estimate struct {
	Source Source
	Counts map[OperatorType]int
}
