package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vfault.dev/pkg/vfault/internal/domain/mutagens"
	m "vfault.dev/pkg/vfault/internal/model"
	"vfault.dev/pkg/vfault/internal/verilog"
)

// ErrMissingTree is returned when Inject is called without a syntax tree.
var ErrMissingTree = errors.New("missing syntax tree")

// Stage is one operator of the injection pipeline. Apply rewrites the tree in
// place and returns the number of mutations it made. rng is nil unless Random
// is set.
type Stage struct {
	Operator m.OperatorType
	Random   bool
	Apply    func(tree verilog.Node, rng mutagens.RandomSource) int
}

// DefaultStages returns the built-in operators in pipeline order.
func DefaultStages() []Stage {
	return []Stage{
		{
			Operator: m.OperatorFlipAssigns,
			Apply:    func(tree verilog.Node, _ mutagens.RandomSource) int { return mutagens.FlipAssigns(tree) },
		},
		{
			Operator: m.OperatorInvertLogic,
			Apply:    func(tree verilog.Node, _ mutagens.RandomSource) int { return mutagens.InvertLogic(tree) },
		},
		{
			Operator: m.OperatorChangeConstants,
			Apply:    func(tree verilog.Node, _ mutagens.RandomSource) int { return mutagens.ChangeConstants(tree) },
		},
		{
			Operator: m.OperatorRandomizeAssignments,
			Random:   true,
			Apply:    mutagens.RandomizeAssignments,
		},
	}
}

// Injector runs the enabled operators of a configuration over a syntax tree.
type Injector interface {
	// Inject mutates tree in place. Every enabled stage runs as one full
	// traversal, in pipeline order, and sees the changes of the stages before
	// it. Nothing is mutated when an error is returned.
	Inject(ctx context.Context, tree verilog.Node, cfg m.MutationConfig) (m.InjectionResult, error)
}

type injector struct {
	stages  []Stage
	entropy func() (int64, error)
}

// NewInjector creates an Injector running stages in the given order. Without
// stages it runs DefaultStages.
func NewInjector(stages ...Stage) Injector {
	if len(stages) == 0 {
		stages = DefaultStages()
	}

	return &injector{
		stages:  stages,
		entropy: mutagens.EntropySeed,
	}
}

func (inj *injector) Inject(ctx context.Context, tree verilog.Node, cfg m.MutationConfig) (m.InjectionResult, error) {
	result := m.InjectionResult{Counts: map[m.OperatorType]int{}}

	if tree == nil {
		return result, ErrMissingTree
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	enabled := inj.enabledStages(cfg)

	var rng mutagens.RandomSource

	if needsRandom(enabled) {
		seed, err := inj.resolveSeed(cfg)
		if err != nil {
			slog.Error("Failed to seed random source", "error", err)
			return result, err
		}

		result.Seed = &seed
		rng = mutagens.NewRandomSource(seed)

		slog.Debug("Seeded random source", "seed", seed, "configured", cfg.Seed != nil)
	}

	for _, stage := range enabled {
		var stageRNG mutagens.RandomSource
		if stage.Random {
			stageRNG = rng
		}

		n := stage.Apply(tree, stageRNG)
		result.Counts[stage.Operator] += n

		slog.Debug("Applied operator", "operator", stage.Operator, "mutations", n)
	}

	return result, nil
}

func (inj *injector) enabledStages(cfg m.MutationConfig) []Stage {
	enabled := make([]Stage, 0, len(inj.stages))

	for _, stage := range inj.stages {
		if cfg.Enabled(stage.Operator) {
			enabled = append(enabled, stage)
		}
	}

	return enabled
}

func needsRandom(stages []Stage) bool {
	for _, stage := range stages {
		if stage.Random {
			return true
		}
	}

	return false
}

func (inj *injector) resolveSeed(cfg m.MutationConfig) (int64, error) {
	if cfg.Seed != nil {
		return *cfg.Seed, nil
	}

	seed, err := inj.entropy()
	if err != nil {
		return 0, fmt.Errorf("failed to seed random source: %w", err)
	}

	return seed, nil
}

// EstimateSites returns how many sites each operator would mutate if it ran
// alone on tree. The randomizer is counted by its candidate assignments. tree
// is not modified.
func EstimateSites(tree verilog.Node) map[m.OperatorType]int {
	counts := map[m.OperatorType]int{}

	for _, stage := range DefaultStages() {
		if stage.Random {
			counts[stage.Operator] = mutagens.Count(tree, isAssign)
			continue
		}

		counts[stage.Operator] = stage.Apply(verilog.Clone(tree), nil)
	}

	return counts
}

func isAssign(n verilog.Node) bool {
	_, ok := n.(*verilog.Assign)
	return ok
}
