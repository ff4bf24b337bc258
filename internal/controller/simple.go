package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "vfault.dev/pkg/vfault/internal/model"
)

// SimpleUI implements UI with plain text. Results and mutated source go to
// the command's output, status lines to its error stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayConfig prints the effective operator configuration.
func (s *SimpleUI) DisplayConfig(ctx context.Context, cfg m.MutationConfig) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.statusf("Loaded config:\n%s", renderConfigTable(cfg))
}

// DisplayTree prints a syntax tree outline.
func (s *SimpleUI) DisplayTree(ctx context.Context, outline string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s", outline)
}

// DisplaySource writes mutated source to the output stream.
func (s *SimpleUI) DisplaySource(ctx context.Context, source []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.cmd.OutOrStdout().Write(source)

	return err
}

// DisplayDiff prints a unified diff.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		s.statusf("No changes in %s\n", path)
		return nil
	}

	s.printf("%s", diff)

	return nil
}

// DisplayInjection prints the outcome of one run.
func (s *SimpleUI) DisplayInjection(ctx context.Context, report m.RunReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.statusf("%s\n", describeRun(report))
}

// DisplayEstimation prints the estimation results or error.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, estimates []m.Estimate, err error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err != nil {
		s.statusf("estimation error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderEstimationTable(estimates))

	return nil
}

// DisplayReports prints stored run reports, oldest first.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(reports) == 0 {
		s.statusf("No reports found\n")
		return nil
	}

	s.printf("%s", renderReportsTable(reports))

	return nil
}

// DisplayWatching announces the watched files.
func (s *SimpleUI) DisplayWatching(ctx context.Context, paths []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.statusf("Watching %s (press Ctrl+C to stop)\n", joinPaths(paths))
}

// DisplayError prints an error that did not stop the workflow.
func (s *SimpleUI) DisplayError(ctx context.Context, err error) {
	if ctx.Err() != nil || err == nil {
		return
	}

	s.statusf("error: %v\n", err)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) statusf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}

func describeRun(report m.RunReport) string {
	var b strings.Builder

	switch report.Status {
	case m.StatusDelegated:
		fmt.Fprintf(&b, "Smart mutation wrote %d mutant(s)", report.Mutants)
		if report.Output != nil {
			fmt.Fprintf(&b, " to %s", report.Output.Path)
		}

		return b.String()
	case m.StatusFailed:
		return fmt.Sprintf("Run %s failed: %s", shortID(report.RunID), report.Error)
	}

	if report.Output != nil {
		fmt.Fprintf(&b, "Mutated Verilog written to %s", report.Output.Path)
	} else {
		b.WriteString("Mutated Verilog written to stdout")
	}

	var parts []string

	for _, op := range m.Operators {
		if n, ok := report.Counts[op]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", op, n))
		}
	}

	if len(parts) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}

	if report.Seed != nil {
		fmt.Fprintf(&b, " seed=%d", *report.Seed)
	}

	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

func joinPaths(paths []m.Path) string {
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		parts = append(parts, string(p))
	}

	return strings.Join(parts, ", ")
}

func renderConfigTable(cfg m.MutationConfig) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer)
	table.SetHeader([]string{"Key", "Value"})

	for _, op := range m.Operators {
		table.Append([]string{string(op), fmt.Sprintf("%t", cfg.Enabled(op))})
	}

	table.Append([]string{"svm", fmt.Sprintf("%t", cfg.SVM)})

	seed := "random"
	if cfg.Seed != nil {
		seed = fmt.Sprintf("%d", *cfg.Seed)
	}

	table.Append([]string{"seed", seed})
	table.Render()

	return tableBuffer.String()
}

func renderEstimationTable(estimates []m.Estimate) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer)

	header := []string{"Path"}
	for _, op := range m.Operators {
		header = append(header, string(op))
	}

	table.SetHeader(header)

	totals := make([]int, len(m.Operators))

	for _, est := range estimates {
		row := []string{joinPaths(est.Source.Paths())}

		for i, op := range m.Operators {
			row = append(row, fmt.Sprintf("%d", est.Counts[op]))
			totals[i] += est.Counts[op]
		}

		table.Append(row)
	}

	footer := []string{fmt.Sprintf("Total Files %d", len(estimates))}
	for _, total := range totals {
		footer = append(footer, fmt.Sprintf("%d", total))
	}

	table.SetFooter(footer)
	table.Render()

	return tableBuffer.String()
}

func renderReportsTable(reports []m.RunReport) string {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer)
	table.SetHeader([]string{"Run", "Time", "Status", "Inputs", "Output", "Seed", "Mutations"})

	for _, report := range reports {
		inputs := make([]m.Path, 0, len(report.Inputs))
		for _, f := range report.Inputs {
			inputs = append(inputs, f.Path)
		}

		output := "-"
		if report.Output != nil {
			output = string(report.Output.Path)
		}

		seed := "-"
		if report.Seed != nil {
			seed = fmt.Sprintf("%d", *report.Seed)
		}

		mutations := report.Mutants
		if report.Status != m.StatusDelegated {
			mutations = m.InjectionResult{Counts: report.Counts}.Total()
		}

		table.Append([]string{
			shortID(report.RunID),
			report.Timestamp.Format("2006-01-02 15:04:05"),
			string(report.Status),
			joinPaths(inputs),
			output,
			seed,
			fmt.Sprintf("%d", mutations),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Runs %d", len(reports)), "", "", "", "", "", ""})
	table.Render()

	return tableBuffer.String()
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	return table
}
