// Package cmd provides the root command and CLI setup for vfault.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vfault.dev/pkg/vfault/internal/adapter"
	"vfault.dev/pkg/vfault/internal/controller"
	"vfault.dev/pkg/vfault/internal/domain"
	m "vfault.dev/pkg/vfault/internal/model"
)

var sourceFSAdapter adapter.SourceFSAdapter
var verilogFileAdapter adapter.VerilogFileAdapter
var reportStore adapter.ReportStore
var smartMutationAdapter adapter.SmartMutationAdapter
var watchAdapter adapter.WatchAdapter
var injector domain.Injector
var workflow domain.Workflow
var ui controller.UI

// reportsDirFlag is a root-level flag shared by commands that read/write reports.
var reportsDirFlag string

var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	sourceFSAdapter = adapter.NewLocalSourceFSAdapter()
	verilogFileAdapter = adapter.NewLocalVerilogFileAdapter()
	reportStore = adapter.NewReportStore()
	smartMutationAdapter = adapter.NewLocalSmartMutationAdapter()
	watchAdapter = adapter.NewFSNotifyWatchAdapter(adapter.DefaultWatchDebounce)
	injector = domain.NewInjector()
	workflow = domain.NewWorkflow(
		sourceFSAdapter,
		verilogFileAdapter,
		reportStore,
		smartMutationAdapter,
		watchAdapter,
		ui,
		injector,
	)
}

const rootLongDescription = `vfault injects faults into Verilog designs. It parses the input files,
applies the enabled mutation operators (flip_assigns, invert_logic,
change_constants, randomize_assignments) and writes the mutated design back
out as Verilog, so testbenches and formal tools can be checked against it.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vfault",
		Short: "Verilog fault injection tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsDirFlag, reportsFlagName, "r",
			defaultReportsDir,
			"directory for run reports (empty disables reports)",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(reportsFlagName), reportsConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file (default from log.filename)")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
