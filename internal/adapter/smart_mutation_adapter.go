package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	m "vfault.dev/pkg/vfault/internal/model"
)

// DefaultSmartMutationTimeout bounds one run of the smart mutation harness.
const DefaultSmartMutationTimeout = 5 * time.Minute

// SmartMutationAdapter delegates mutant generation to an external harness.
type SmartMutationAdapter interface {
	// Generate runs the harness command on input, writing mutants into
	// outDir, and returns the number of mutant files it produced.
	Generate(ctx context.Context, command string, input m.Path, outDir m.Path) (int, error)
}

// LocalSmartMutationAdapter runs the harness as a local executable. The
// command is split on white space and invoked as `<command...> <input> <outDir>`.
type LocalSmartMutationAdapter struct {
	timeout time.Duration
}

// NewLocalSmartMutationAdapter constructs a LocalSmartMutationAdapter with
// the default timeout.
func NewLocalSmartMutationAdapter() *LocalSmartMutationAdapter {
	return &LocalSmartMutationAdapter{timeout: DefaultSmartMutationTimeout}
}

// WithTimeout returns a copy of the adapter using timeout.
func (a *LocalSmartMutationAdapter) WithTimeout(timeout time.Duration) *LocalSmartMutationAdapter {
	c := *a
	c.timeout = timeout

	return &c
}

// Generate runs the harness and counts the Verilog files it added to outDir.
func (a *LocalSmartMutationAdapter) Generate(ctx context.Context, command string, input m.Path, outDir m.Path) (int, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return 0, errors.New("smart mutation command is not configured")
	}

	if err := os.MkdirAll(string(outDir), 0o750); err != nil {
		return 0, fmt.Errorf("failed to create output dir %s: %w", outDir, err)
	}

	before, err := countVerilogFiles(outDir)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := append(fields[1:], string(input), string(outDir))
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stdout.String() + stderr.String())
		if output != "" {
			return 0, fmt.Errorf("smart mutation of %s failed: %w: %s", input, err, output)
		}

		return 0, fmt.Errorf("smart mutation of %s failed: %w", input, err)
	}

	after, err := countVerilogFiles(outDir)
	if err != nil {
		return 0, err
	}

	return max(after-before, 0), nil
}

func countVerilogFiles(dir m.Path) (int, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return 0, fmt.Errorf("failed to read output dir %s: %w", dir, err)
	}

	count := 0

	for _, entry := range entries {
		if !entry.IsDir() && IsVerilogFile(entry.Name()) {
			count++
		}
	}

	return count, nil
}
