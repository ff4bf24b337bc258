// Package controller provides output adapters for displaying fault injection results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "vfault.dev/pkg/vfault/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeInject StartMode = iota
	ModeEstimate
	ModeWatch
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithInjectMode sets the UI to a single injection run.
func WithInjectMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeInject
	}
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithWatchMode sets the UI to watch mode, where output must not block.
func WithWatchMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeWatch
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	var cfg StartConfig
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying workflow output.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayConfig(ctx context.Context, cfg m.MutationConfig)
	DisplayTree(ctx context.Context, outline string)
	DisplaySource(ctx context.Context, source []byte) error
	DisplayDiff(ctx context.Context, path m.Path, diff string) error
	DisplayInjection(ctx context.Context, report m.RunReport)
	DisplayEstimation(ctx context.Context, estimates []m.Estimate, err error) error
	DisplayReports(ctx context.Context, reports []m.RunReport) error
	DisplayWatching(ctx context.Context, paths []m.Path)
	DisplayError(ctx context.Context, err error)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewUI returns the interactive UI for terminals and the plain one otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}
