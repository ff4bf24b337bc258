package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const watchLongDescription = `Run inject once, then again every time one of the input files changes,
until interrupted. A run that fails, for example on a half-saved file, is
reported and watching continues.`

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	flags := &injectFlags{count: defaultCount}

	cmd := &cobra.Command{
		Use:   "watch -i input.v [-i more.v] [-o output.v]",
		Short: "Re-inject faults whenever the inputs change",
		Long:  watchLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			injectArgs, err := flags.injectArgs(cmd, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return workflow.Watch(ctx, injectArgs)
		},
	}

	configureInjectFlags(cmd, flags)

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
