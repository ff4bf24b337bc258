package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vfault.dev/pkg/vfault/internal/domain"
	m "vfault.dev/pkg/vfault/internal/model"
)

const injectLongDescription = `Parse the input Verilog files, apply the enabled mutation operators and
write the mutated design to --output, or to stdout when no output is given.

Operators run in a fixed order: flip_assigns, invert_logic, change_constants,
randomize_assignments. A seed makes randomize_assignments reproducible; an
unseeded run draws one and records it in the run report.

With --count N the design is mutated N times into <output>_<i>.v, using
seed+i for mutant i when a seed is set.`

type injectFlags struct {
	mutationFlags

	inputs   []string
	output   string
	diff     bool
	printAST bool
	count    int
	parallel int
}

// injectCmd represents the inject command.
var injectCmd = newInjectCmd()

func newInjectCmd() *cobra.Command {
	flags := &injectFlags{}

	cmd := &cobra.Command{
		Use:   "inject -i input.v [-i more.v] [-o output.v]",
		Short: "Inject faults into Verilog sources",
		Long:  injectLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			injectArgs, err := flags.injectArgs(cmd, args)
			if err != nil {
				return err
			}

			return workflow.Inject(cmd.Context(), injectArgs)
		},
	}

	configureInjectFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.printAST, printASTFlagName, false, "print the syntax tree of the inputs and exit")
	cmd.Flags().IntVar(&flags.count, countFlagName, defaultCount, "number of mutants to generate")
	cmd.Flags().IntVarP(&flags.parallel, parallelFlagName, "p", defaultParallel, "maximum mutants generated at once (0 means no limit)")

	return cmd
}

func init() {
	rootCmd.AddCommand(injectCmd)
}

// configureInjectFlags defines the flags inject and watch have in common.
func configureInjectFlags(cmd *cobra.Command, flags *injectFlags) {
	cmd.Flags().StringArrayVarP(&flags.inputs, inputFlagName, "i", nil, "input Verilog file or directory, dir/... includes sub-directories (can be repeated)")
	cmd.Flags().StringVarP(&flags.output, outputFlagName, "o", "", "output Verilog file, or directory with --svm")
	cmd.Flags().BoolVar(&flags.diff, diffFlagName, false, "show a unified diff of each mutant")
	configureMutationFlags(cmd, &flags.mutationFlags)
}

// injectArgs collects the workflow arguments. Positional arguments are
// accepted as further inputs.
func (f *injectFlags) injectArgs(cmd *cobra.Command, args []string) (domain.InjectArgs, error) {
	cfg, err := loadMutationConfig(cmd.Flags(), f.configPath)
	if err != nil {
		return domain.InjectArgs{}, err
	}

	parallel := f.parallel
	if !cmd.Flags().Changed(parallelFlagName) {
		parallel = viper.GetInt(parallelConfigKey)
	}

	return domain.InjectArgs{
		Inputs:   parsePaths(append(append([]string{}, f.inputs...), args...)),
		Output:   m.Path(f.output),
		Config:   cfg,
		Diff:     f.diff,
		PrintAST: f.printAST,
		Count:    f.count,
		Parallel: parallel,
		Reports:  m.Path(viper.GetString(reportsConfigKey)),
	}, nil
}
