package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	m "vfault.dev/pkg/vfault/internal/model"
)

// mutationFlags holds the operator selection flags shared by inject and watch.
type mutationFlags struct {
	configPath string
	seed       string
	svm        bool
}

// flagName returns the flag spelling of a configuration key.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func configureMutationFlags(cmd *cobra.Command, flags *mutationFlags) {
	defaults := m.DefaultMutationConfig()

	cmd.Flags().StringVarP(&flags.configPath, configFlagName, "c", "", "YAML or JSON file with operator settings")
	cmd.Flags().StringVar(&flags.seed, seedFlagName, "", "seed for random operators (overrides the config file)")

	for _, op := range m.Operators {
		cmd.Flags().Bool(flagName(string(op)), defaults.Enabled(op), fmt.Sprintf("enable the %s operator", op))
	}

	cmd.Flags().BoolVar(&flags.svm, svmConfigKey, defaults.SVM, "delegate to the smart mutation harness; --output names a directory")
}

// bindMutationFlags points the operator keys at this command's flags. Inject
// and watch define the same flags, so the binding happens when one of them runs.
func bindMutationFlags(flags *pflag.FlagSet) {
	for _, op := range m.Operators {
		bindFlagToConfig(flags.Lookup(flagName(string(op))), string(op))
	}

	bindFlagToConfig(flags.Lookup(svmConfigKey), svmConfigKey)
	bindFlagToConfig(flags.Lookup(seedFlagName), seedConfigKey)
}

// loadMutationConfig resolves the operator settings. A flag set on the command
// line wins over the --config file, which wins over the environment and
// vfault.yaml.
func loadMutationConfig(flags *pflag.FlagSet, configPath string) (m.MutationConfig, error) {
	bindMutationFlags(flags)

	var file *viper.Viper

	if configPath != "" {
		file = viper.New()
		file.SetConfigFile(configPath)

		if err := file.ReadInConfig(); err != nil {
			return m.MutationConfig{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	setting := func(key string) any {
		if file != nil && file.IsSet(key) && !flags.Changed(flagName(key)) {
			return file.Get(key)
		}

		return viper.Get(key)
	}

	var cfg m.MutationConfig

	enabled := map[m.OperatorType]*bool{
		m.OperatorFlipAssigns:          &cfg.FlipAssigns,
		m.OperatorInvertLogic:          &cfg.InvertLogic,
		m.OperatorChangeConstants:      &cfg.ChangeConstants,
		m.OperatorRandomizeAssignments: &cfg.RandomizeAssignments,
	}

	for _, op := range m.Operators {
		v, err := cast.ToBoolE(setting(string(op)))
		if err != nil {
			return m.MutationConfig{}, fmt.Errorf("invalid %s: %w", op, err)
		}

		*enabled[op] = v
	}

	svm, err := cast.ToBoolE(setting(svmConfigKey))
	if err != nil {
		return m.MutationConfig{}, fmt.Errorf("invalid %s: %w", svmConfigKey, err)
	}

	cfg.SVM = svm

	command, err := cast.ToStringE(setting(svmCommandConfigKey))
	if err != nil {
		return m.MutationConfig{}, fmt.Errorf("invalid %s: %w", svmCommandConfigKey, err)
	}

	cfg.SVMCommand = strings.TrimSpace(command)

	seed, err := parseSeed(setting(seedConfigKey))
	if err != nil {
		return m.MutationConfig{}, err
	}

	if seed != nil {
		cfg = cfg.WithSeed(*seed)
	}

	return cfg, nil
}

// parseSeed returns nil for an absent seed and an error for anything that is
// not an integer.
func parseSeed(value any) (*int64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("invalid seed %v: not an integer", v)
		}
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return nil, fmt.Errorf("invalid seed %v: not an integer", v)
		}
	case bool:
		return nil, fmt.Errorf("invalid seed %v: not an integer", v)
	}

	seed, err := cast.ToInt64E(value)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %v: %w", value, err)
	}

	return &seed, nil
}
