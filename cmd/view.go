package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vfault.dev/pkg/vfault/internal/domain"
	m "vfault.dev/pkg/vfault/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previous fault injection runs",
		Long:  "View the run reports stored in the reports directory, oldest first.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reportsPath := m.Path(viper.GetString(reportsConfigKey))
			return workflow.View(cmd.Context(), domain.ViewArgs{Reports: reportsPath})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
