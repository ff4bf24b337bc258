package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vfault.dev/pkg/vfault/internal/domain"
)

const listLongDescription = `Parse each input Verilog file and print, per operator, how many sites it
would mutate. Nothing is written.`

var listInputs []string
var listParallelFlag int

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list -i input.v [-i more.v]",
		Short: "List mutation sites per operator",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			parallel := listParallelFlag
			if !cmd.Flags().Changed(parallelFlagName) {
				parallel = viper.GetInt(parallelConfigKey)
			}

			return workflow.Estimate(cmd.Context(), domain.EstimateArgs{
				Inputs:   parsePaths(append(append([]string{}, listInputs...), args...)),
				Parallel: parallel,
			})
		},
	}

	cmd.Flags().StringArrayVarP(&listInputs, inputFlagName, "i", nil, "input Verilog file or directory, dir/... includes sub-directories (can be repeated)")
	cmd.Flags().IntVarP(&listParallelFlag, parallelFlagName, "p", defaultParallel, "maximum files parsed at once (0 means no limit)")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
