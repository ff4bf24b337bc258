package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	domainmocks "vfault.dev/pkg/vfault/internal/domain/mocks"
)

// useMockWorkflow swaps the package workflow for a mock until the test ends.
func useMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

// executeSubcommand runs sub under a fresh root command with args.
func executeSubcommand(sub *cobra.Command, args ...string) (string, error) {
	cmd := newRootCmd()
	cmd.AddCommand(sub)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}
