package domain_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vfault.dev/pkg/vfault/internal/adapter"
	adaptermocks "vfault.dev/pkg/vfault/internal/adapter/mocks"
	controllermocks "vfault.dev/pkg/vfault/internal/controller/mocks"
	"vfault.dev/pkg/vfault/internal/domain"
	domainmocks "vfault.dev/pkg/vfault/internal/domain/mocks"
	m "vfault.dev/pkg/vfault/internal/model"
	"vfault.dev/pkg/vfault/internal/verilog"
)

var fixedNow = time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

type workflowFixture struct {
	wf      domain.Workflow
	ui      *controllermocks.MockUI
	reports *adaptermocks.MockReportStore
	smart   *adaptermocks.MockSmartMutationAdapter
	watcher *adaptermocks.MockWatchAdapter
}

func newWorkflowFixture(t *testing.T) workflowFixture {
	t.Helper()

	f := workflowFixture{
		ui:      controllermocks.NewMockUI(t),
		reports: adaptermocks.NewMockReportStore(t),
		smart:   adaptermocks.NewMockSmartMutationAdapter(t),
		watcher: adaptermocks.NewMockWatchAdapter(t),
	}

	f.wf = domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewLocalVerilogFileAdapter(),
		f.reports,
		f.smart,
		f.watcher,
		f.ui,
		domain.NewInjectorWithEntropy(func() (int64, error) { return 99, nil }),
	)

	var ids atomic.Int64

	domain.SetWorkflowClock(f.wf,
		func() time.Time { return fixedNow },
		func() string { return fmt.Sprintf("run-%d", ids.Add(1)) },
	)

	return f
}

// expectSession registers the calls every successful injection makes.
func (f workflowFixture) expectSession(cfg m.MutationConfig) {
	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().DisplayConfig(mock.Anything, cfg).Return()
	f.ui.EXPECT().Wait(mock.Anything).Return()
	f.ui.EXPECT().Close(mock.Anything).Return()
}

func writeSource(t *testing.T, dir, name, content string) m.Path {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return m.Path(path)
}

func readOutput(t *testing.T, path m.Path) string {
	t.Helper()

	data, err := os.ReadFile(string(path))
	require.NoError(t, err)

	return string(data)
}

func TestWorkflow_Inject_WritesMutant(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	input := writeSource(t, dir, "counter.v", counterSrc)
	output := m.Path(filepath.Join(dir, "out", "counter_mut.v"))
	reportsDir := m.Path(filepath.Join(dir, "reports"))
	cfg := m.DefaultMutationConfig()

	f.expectSession(cfg)
	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.MatchedBy(func(r m.RunReport) bool {
		return r.Status == m.StatusMutated &&
			r.Output != nil && r.Output.Path == output &&
			r.Counts[m.OperatorFlipAssigns] == 1 &&
			r.Counts[m.OperatorInvertLogic] == 1
	})).Return()

	var saved m.RunReport
	f.reports.EXPECT().SaveReport(mock.Anything, reportsDir, mock.Anything).
		Run(func(_ context.Context, _ m.Path, report m.RunReport) { saved = report }).
		Return(nil)

	err := f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs:  []m.Path{input},
		Output:  output,
		Config:  cfg,
		Count:   1,
		Reports: reportsDir,
	})
	require.NoError(t, err)

	got := readOutput(t, output)
	assert.Contains(t, got, "assign y = ~q[1];")
	assert.Contains(t, got, "if (!rst) q <= 4'b1111;")
	assert.Contains(t, got, "else q <= q + 0;")

	assert.Equal(t, "run-1", saved.RunID)
	assert.Equal(t, fixedNow, saved.Timestamp)
	assert.Equal(t, m.StatusMutated, saved.Status)
	require.Len(t, saved.Inputs, 1)
	assert.Equal(t, input, saved.Inputs[0].Path)
	assert.Len(t, saved.Inputs[0].Hash, 64)
	assert.Len(t, saved.Output.Hash, 64)
	assert.Nil(t, saved.Seed, "no operator needed a seed")
	assert.Equal(t, cfg, saved.Config)
}

func TestWorkflow_Inject_Stdout(t *testing.T) {
	f := newWorkflowFixture(t)
	input := writeSource(t, t.TempDir(), "top.v", "module top;\n  assign y = a;\nendmodule\n")
	cfg := m.MutationConfig{FlipAssigns: true}

	f.expectSession(cfg)
	f.ui.EXPECT().DisplaySource(mock.Anything, []byte("module top;\n  assign y = ~a;\nendmodule\n")).Return(nil)
	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.MatchedBy(func(r m.RunReport) bool {
		return r.Output == nil && r.Counts[m.OperatorFlipAssigns] == 1
	})).Return()

	err := f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs: []m.Path{input},
		Config: cfg,
		Count:  1,
	})
	require.NoError(t, err)
}

func TestWorkflow_Inject_MultipleInputsFormOneTree(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	a := writeSource(t, dir, "a.v", "module a;\n  assign x = p;\nendmodule\n")
	b := writeSource(t, dir, "b.v", "module b;\n  assign y = q;\nendmodule\n")
	cfg := m.MutationConfig{FlipAssigns: true}

	f.expectSession(cfg)
	f.ui.EXPECT().DisplaySource(mock.Anything,
		[]byte("module a;\n  assign x = ~p;\nendmodule\n\nmodule b;\n  assign y = ~q;\nendmodule\n")).Return(nil)
	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.MatchedBy(func(r m.RunReport) bool {
		return len(r.Inputs) == 2 && r.Counts[m.OperatorFlipAssigns] == 2
	})).Return()

	require.NoError(t, f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs: []m.Path{a, b},
		Config: cfg,
		Count:  1,
	}))
}

func TestWorkflow_Inject_Diff(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	input := writeSource(t, dir, "counter.v", counterSrc)
	output := m.Path(filepath.Join(dir, "counter_mut.v"))
	cfg := m.MutationConfig{FlipAssigns: true}

	f.expectSession(cfg)
	f.ui.EXPECT().DisplayDiff(mock.Anything, output, mock.MatchedBy(func(diff string) bool {
		return strings.Contains(diff, "-  assign y = q[0];\n") &&
			strings.Contains(diff, "+  assign y = ~q[0];\n") &&
			strings.Count(diff, "\n+") == 2 // the +++ header and one changed line
	})).Return(nil)
	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.Anything).Return()

	require.NoError(t, f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs: []m.Path{input},
		Output: output,
		Config: cfg,
		Diff:   true,
		Count:  1,
	}))
}

func TestWorkflow_Inject_PrintAST(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	input := writeSource(t, dir, "counter.v", counterSrc)
	output := m.Path(filepath.Join(dir, "never.v"))
	cfg := m.DefaultMutationConfig()

	f.expectSession(cfg)
	f.ui.EXPECT().DisplayTree(mock.Anything, mock.MatchedBy(func(outline string) bool {
		return strings.HasPrefix(outline, "Source\n") && strings.Contains(outline, "Module (name=counter)")
	})).Return()

	require.NoError(t, f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs:   []m.Path{input},
		Output:   output,
		Config:   cfg,
		PrintAST: true,
		Count:    1,
	}))

	_, err := os.Stat(string(output))
	assert.True(t, os.IsNotExist(err), "printing the tree must not write a mutant")
}

func TestWorkflow_Inject_UnseededRunRecordsSeed(t *testing.T) {
	f := newWorkflowFixture(t)
	input := writeSource(t, t.TempDir(), "top.v", "module top;\n  assign y = a;\nendmodule\n")
	cfg := m.MutationConfig{RandomizeAssignments: true}

	f.expectSession(cfg)
	f.ui.EXPECT().DisplaySource(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.MatchedBy(func(r m.RunReport) bool {
		return r.Seed != nil && *r.Seed == 99 &&
			r.Config.Seed != nil && *r.Config.Seed == 99
	})).Return()

	require.NoError(t, f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs: []m.Path{input},
		Config: cfg,
		Count:  1,
	}))
}

func TestWorkflow_Inject_Batch(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()

	var body strings.Builder
	for i := range 16 {
		fmt.Fprintf(&body, "  assign y%d = a;\n", i)
	}

	src := "module m;\n" + body.String() + "endmodule\n"
	input := writeSource(t, dir, "m.v", src)
	output := m.Path(filepath.Join(dir, "out.v"))
	cfg := m.MutationConfig{RandomizeAssignments: true}.WithSeed(5)

	f.expectSession(cfg)

	var (
		mu    sync.Mutex
		shown []m.RunReport
	)

	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.Anything).
		Run(func(_ context.Context, report m.RunReport) {
			mu.Lock()
			defer mu.Unlock()
			shown = append(shown, report)
		}).
		Return().
		Times(3)

	require.NoError(t, f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs:   []m.Path{input},
		Output:   output,
		Config:   cfg,
		Count:    3,
		Parallel: 2,
	}))

	require.Len(t, shown, 3)

	for i, report := range shown {
		want := m.Path(filepath.Join(dir, fmt.Sprintf("out_%d.v", i)))
		require.NotNil(t, report.Output)
		assert.Equal(t, want, report.Output.Path, "results are shown in job order")
		require.NotNil(t, report.Seed)
		assert.Equal(t, int64(5+i), *report.Seed)

		// each mutant replays from its own seed
		tree, err := verilog.Parse("m.v", []byte(src))
		require.NoError(t, err)
		_, err = domain.NewInjector().Inject(context.Background(), tree, m.MutationConfig{RandomizeAssignments: true}.WithSeed(int64(5+i)))
		require.NoError(t, err)
		assert.Equal(t, verilog.Generate(tree), readOutput(t, want))
	}

	assert.Equal(t, src, readOutput(t, input), "the input is never modified")
}

func TestWorkflow_Inject_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args domain.InjectArgs
	}{
		{name: "no inputs", args: domain.InjectArgs{Count: 1}},
		{name: "empty input", args: domain.InjectArgs{Inputs: []m.Path{""}, Count: 1}},
		{name: "zero count", args: domain.InjectArgs{Inputs: []m.Path{"a.v"}}},
		{name: "batch without output", args: domain.InjectArgs{Inputs: []m.Path{"a.v"}, Count: 2}},
		{name: "negative parallel", args: domain.InjectArgs{Inputs: []m.Path{"a.v"}, Count: 1, Parallel: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkflowFixture(t)

			err := f.wf.Inject(context.Background(), tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid inject arguments")
		})
	}
}

func TestWorkflow_Inject_ParseErrorIsReported(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	input := writeSource(t, dir, "broken.v", "module m;\n  assign = ;\n")
	reportsDir := m.Path(filepath.Join(dir, "reports"))
	cfg := m.DefaultMutationConfig()

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().DisplayConfig(mock.Anything, cfg).Return()
	f.ui.EXPECT().Close(mock.Anything).Return()
	f.reports.EXPECT().SaveReport(mock.Anything, reportsDir, mock.MatchedBy(func(r m.RunReport) bool {
		return r.Status == m.StatusFailed && strings.Contains(r.Error, "broken.v:2:")
	})).Return(nil)

	err := f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs:  []m.Path{input},
		Output:  m.Path(filepath.Join(dir, "out.v")),
		Config:  cfg,
		Count:   1,
		Reports: reportsDir,
	})
	require.Error(t, err)

	var parseErr *verilog.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestWorkflow_Inject_ReportSaveFailure(t *testing.T) {
	f := newWorkflowFixture(t)
	input := writeSource(t, t.TempDir(), "top.v", "module top;\n  assign y = a;\nendmodule\n")
	cfg := m.MutationConfig{FlipAssigns: true}
	boom := errors.New("disk full")

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().DisplayConfig(mock.Anything, cfg).Return()
	f.ui.EXPECT().Close(mock.Anything).Return()
	f.ui.EXPECT().DisplaySource(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.Anything).Return()
	f.reports.EXPECT().SaveReport(mock.Anything, m.Path("reports"), mock.Anything).Return(boom)

	err := f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs:  []m.Path{input},
		Config:  cfg,
		Count:   1,
		Reports: "reports",
	})
	require.ErrorIs(t, err, boom)
}

func TestWorkflow_Inject_SmartMutation(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	a := writeSource(t, dir, "a.v", "module a;\nendmodule\n")
	b := writeSource(t, dir, "b.v", "module b;\nendmodule\n")
	outDir := m.Path(filepath.Join(dir, "mutants"))
	cfg := m.MutationConfig{SVM: true, SVMCommand: "python3 harness.py"}

	f.expectSession(cfg)
	f.smart.EXPECT().Generate(mock.Anything, "python3 harness.py", a, outDir).Return(3, nil)
	f.smart.EXPECT().Generate(mock.Anything, "python3 harness.py", b, outDir).Return(2, nil)
	f.reports.EXPECT().SaveReport(mock.Anything, m.Path("reports"), mock.MatchedBy(func(r m.RunReport) bool {
		return r.Status == m.StatusDelegated && len(r.Inputs) == 1 && r.Inputs[0].Hash != "" &&
			r.Config.SVMCommand == "python3 harness.py"
	})).Return(nil).Times(2)

	var mutants []int

	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.Anything).
		Run(func(_ context.Context, report m.RunReport) { mutants = append(mutants, report.Mutants) }).
		Return().
		Times(2)

	require.NoError(t, f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs:  []m.Path{a, b},
		Output:  outDir,
		Config:  cfg,
		Count:   1,
		Reports: "reports",
	}))

	assert.Equal(t, []int{3, 2}, mutants)
}

func TestWorkflow_Inject_SmartMutationErrors(t *testing.T) {
	t.Run("needs an output directory", func(t *testing.T) {
		f := newWorkflowFixture(t)
		cfg := m.MutationConfig{SVM: true}

		f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
		f.ui.EXPECT().DisplayConfig(mock.Anything, cfg).Return()
		f.ui.EXPECT().Close(mock.Anything).Return()

		err := f.wf.Inject(context.Background(), domain.InjectArgs{
			Inputs: []m.Path{"a.v"},
			Config: cfg,
			Count:  1,
		})
		require.ErrorIs(t, err, domain.ErrNoOutputDir)
	})

	t.Run("harness failure", func(t *testing.T) {
		f := newWorkflowFixture(t)
		input := writeSource(t, t.TempDir(), "a.v", "module a;\nendmodule\n")
		cfg := m.MutationConfig{SVM: true}
		boom := errors.New("harness crashed")

		f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
		f.ui.EXPECT().DisplayConfig(mock.Anything, cfg).Return()
		f.ui.EXPECT().Close(mock.Anything).Return()
		f.smart.EXPECT().Generate(mock.Anything, "", input, m.Path("mutants")).Return(0, boom)
		f.ui.EXPECT().DisplayInjection(mock.Anything, mock.MatchedBy(func(r m.RunReport) bool {
			return r.Status == m.StatusFailed && strings.Contains(r.Error, "harness crashed")
		})).Return()

		err := f.wf.Inject(context.Background(), domain.InjectArgs{
			Inputs: []m.Path{input},
			Output: "mutants",
			Config: cfg,
			Count:  1,
		})
		require.ErrorIs(t, err, boom)
	})
}

func TestWorkflow_Estimate(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	counter := writeSource(t, dir, "counter.v", counterSrc)
	top := writeSource(t, dir, "top.v", "module top;\n  assign y = a;\n  assign z = b;\nendmodule\n")

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().Close(mock.Anything).Return()
	f.ui.EXPECT().Wait(mock.Anything).Return()

	var estimates []m.Estimate
	f.ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything, nil).
		Run(func(_ context.Context, got []m.Estimate, _ error) { estimates = got }).
		Return(nil)

	require.NoError(t, f.wf.Estimate(context.Background(), domain.EstimateArgs{
		Inputs:   []m.Path{counter, top},
		Parallel: 2,
	}))

	require.Len(t, estimates, 2)
	assert.Equal(t, []m.Path{counter}, estimates[0].Source.Paths())
	assert.Equal(t, map[m.OperatorType]int{
		m.OperatorFlipAssigns:          1,
		m.OperatorInvertLogic:          1,
		m.OperatorChangeConstants:      5,
		m.OperatorRandomizeAssignments: 1,
	}, estimates[0].Counts)
	assert.Equal(t, []m.Path{top}, estimates[1].Source.Paths())
	assert.Equal(t, 2, estimates[1].Counts[m.OperatorFlipAssigns])

	assert.Equal(t, counterSrc, readOutput(t, counter), "estimation leaves the input alone")
}

func TestWorkflow_Estimate_MissingFile(t *testing.T) {
	f := newWorkflowFixture(t)

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().Close(mock.Anything).Return()
	f.ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ []m.Estimate, err error) error { return err })

	err := f.wf.Estimate(context.Background(), domain.EstimateArgs{
		Inputs: []m.Path{m.Path(filepath.Join(t.TempDir(), "missing.v"))},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.v")
}

// writeTree lays out rtl/a.v, rtl/notes.txt and rtl/sub/b.v under a temp dir.
func writeTree(t *testing.T) (rtl string, a, b m.Path) {
	t.Helper()

	rtl = filepath.Join(t.TempDir(), "rtl")
	require.NoError(t, os.MkdirAll(filepath.Join(rtl, "sub"), 0o755))

	a = writeSource(t, rtl, "a.v", "module a;\n  assign y = x;\nendmodule\n")
	writeSource(t, rtl, "notes.txt", "not verilog")
	b = writeSource(t, filepath.Join(rtl, "sub"), "b.v", "module b;\n  assign p = q;\n  assign r = s;\nendmodule\n")

	return rtl, a, b
}

func TestWorkflow_Estimate_DirectoryInputs(t *testing.T) {
	tests := []struct {
		name  string
		input func(rtl string) m.Path
		want  func(a, b m.Path) []m.Path
	}{
		{
			name:  "directory",
			input: func(rtl string) m.Path { return m.Path(rtl) },
			want:  func(a, _ m.Path) []m.Path { return []m.Path{a} },
		},
		{
			name:  "recursive directory",
			input: func(rtl string) m.Path { return m.Path(rtl + "/...") },
			want:  func(a, b m.Path) []m.Path { return []m.Path{a, b} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkflowFixture(t)
			rtl, a, b := writeTree(t)

			f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
			f.ui.EXPECT().Close(mock.Anything).Return()
			f.ui.EXPECT().Wait(mock.Anything).Return()

			var estimates []m.Estimate
			f.ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything, nil).
				Run(func(_ context.Context, got []m.Estimate, _ error) { estimates = got }).
				Return(nil)

			require.NoError(t, f.wf.Estimate(context.Background(), domain.EstimateArgs{
				Inputs: []m.Path{tt.input(rtl)},
			}))

			want := tt.want(a, b)
			require.Len(t, estimates, len(want))

			for i, path := range want {
				assert.Equal(t, []m.Path{path}, estimates[i].Source.Paths())
			}
		})
	}
}

func TestWorkflow_Estimate_EmptyDirectory(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	writeSource(t, dir, "README", "nothing here")

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().Close(mock.Anything).Return()
	f.ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ []m.Estimate, err error) error { return err })

	err := f.wf.Estimate(context.Background(), domain.EstimateArgs{Inputs: []m.Path{m.Path(dir)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Verilog files")
}

func TestWorkflow_Inject_RecursiveDirectoryFormsOneTree(t *testing.T) {
	f := newWorkflowFixture(t)
	rtl, a, b := writeTree(t)
	output := m.Path(filepath.Join(t.TempDir(), "design_mut.v"))
	cfg := m.MutationConfig{FlipAssigns: true}

	f.expectSession(cfg)
	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.MatchedBy(func(r m.RunReport) bool {
		return r.Status == m.StatusMutated &&
			len(r.Inputs) == 2 &&
			r.Inputs[0].Path == a &&
			r.Inputs[1].Path == b &&
			r.Counts[m.OperatorFlipAssigns] == 3
	})).Return()

	require.NoError(t, f.wf.Inject(context.Background(), domain.InjectArgs{
		Inputs: []m.Path{m.Path(rtl + "/...")},
		Output: output,
		Config: cfg,
		Count:  1,
	}))

	got := readOutput(t, output)
	assert.Contains(t, got, "module a")
	assert.Contains(t, got, "module b")
	assert.NotContains(t, got, "not verilog")
}

func TestWorkflow_Watch(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	input := writeSource(t, dir, "top.v", "module top;\n  assign y = a;\nendmodule\n")
	output := m.Path(filepath.Join(dir, "out.v"))
	cfg := m.MutationConfig{FlipAssigns: true}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan m.Path, 1)
	errs := make(chan error)

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().Close(mock.Anything).Return()
	f.ui.EXPECT().DisplayConfig(mock.Anything, cfg).Return()
	f.watcher.EXPECT().Watch(mock.Anything, []m.Path{input}).Return(changes, errs, nil)

	f.ui.EXPECT().DisplayWatching(mock.Anything, []m.Path{input}).
		Run(func(context.Context, []m.Path) {
			writeSource(t, dir, "top.v", "module top;\n  assign y = b;\nendmodule\n")
			changes <- input
		}).
		Return()

	runs := 0
	f.ui.EXPECT().DisplayInjection(mock.Anything, mock.Anything).
		Run(func(context.Context, m.RunReport) {
			runs++
			if runs == 2 {
				cancel()
			}
		}).
		Return().
		Times(2)

	require.NoError(t, f.wf.Watch(ctx, domain.InjectArgs{
		Inputs: []m.Path{input},
		Output: output,
		Config: cfg,
		Count:  1,
	}))

	assert.Equal(t, 2, runs)
	assert.Equal(t, "module top;\n  assign y = ~b;\nendmodule\n", readOutput(t, output))
}

func TestWorkflow_Watch_KeepsGoingAfterFailure(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	input := writeSource(t, dir, "top.v", "module top;\n  assign = ;\n")
	cfg := m.MutationConfig{FlipAssigns: true}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan m.Path)
	errs := make(chan error, 1)

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().Close(mock.Anything).Return()
	f.ui.EXPECT().DisplayConfig(mock.Anything, cfg).Return()
	f.watcher.EXPECT().Watch(mock.Anything, []m.Path{input}).Return(changes, errs, nil)
	f.ui.EXPECT().DisplayError(mock.Anything, mock.MatchedBy(func(err error) bool {
		return strings.Contains(err.Error(), "parse:")
	})).Return().Once()
	f.ui.EXPECT().DisplayWatching(mock.Anything, []m.Path{input}).
		Run(func(context.Context, []m.Path) { errs <- errors.New("watch overflow") }).
		Return()
	f.ui.EXPECT().DisplayError(mock.Anything, mock.MatchedBy(func(err error) bool {
		return err.Error() == "watch overflow"
	})).Run(func(context.Context, error) { cancel() }).Return().Once()

	require.NoError(t, f.wf.Watch(ctx, domain.InjectArgs{
		Inputs: []m.Path{input},
		Config: cfg,
		Count:  1,
	}))
}

func TestWorkflow_Watch_WatcherFails(t *testing.T) {
	f := newWorkflowFixture(t)
	input := writeSource(t, t.TempDir(), "top.v", "module top;\nendmodule\n")
	boom := errors.New("too many open files")

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	f.ui.EXPECT().Close(mock.Anything).Return()
	f.watcher.EXPECT().Watch(mock.Anything, []m.Path{input}).Return(nil, nil, boom)

	err := f.wf.Watch(context.Background(), domain.InjectArgs{
		Inputs: []m.Path{input},
		Config: m.DefaultMutationConfig(),
		Count:  1,
	})
	require.ErrorIs(t, err, boom)
}

func TestWorkflow_View(t *testing.T) {
	f := newWorkflowFixture(t)
	reports := []m.RunReport{{RunID: "a", Status: m.StatusMutated}, {RunID: "b", Status: m.StatusFailed}}

	f.reports.EXPECT().LoadReports(mock.Anything, m.Path(".vfault-reports")).Return(reports, nil)
	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close(mock.Anything).Return()
	f.ui.EXPECT().Wait(mock.Anything).Return()
	f.ui.EXPECT().DisplayReports(mock.Anything, reports).Return(nil)

	require.NoError(t, f.wf.View(context.Background(), domain.ViewArgs{Reports: ".vfault-reports"}))
}

func TestWorkflow_View_Errors(t *testing.T) {
	t.Run("missing reports dir", func(t *testing.T) {
		f := newWorkflowFixture(t)
		require.Error(t, f.wf.View(context.Background(), domain.ViewArgs{}))
	})

	t.Run("load failure", func(t *testing.T) {
		f := newWorkflowFixture(t)
		boom := errors.New("corrupt")

		f.reports.EXPECT().LoadReports(mock.Anything, m.Path("r")).Return(nil, boom)

		require.ErrorIs(t, f.wf.View(context.Background(), domain.ViewArgs{Reports: "r"}), boom)
	})
}

func TestWorkflow_Inject_InjectorFailure(t *testing.T) {
	ui := controllermocks.NewMockUI(t)
	reports := adaptermocks.NewMockReportStore(t)
	inj := domainmocks.NewMockInjector(t)
	boom := errors.New("entropy unavailable")

	wf := domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewLocalVerilogFileAdapter(),
		reports,
		adaptermocks.NewMockSmartMutationAdapter(t),
		adaptermocks.NewMockWatchAdapter(t),
		ui,
		inj,
	)

	dir := t.TempDir()
	input := writeSource(t, dir, "top.v", "module top;\n  assign y = a;\nendmodule\n")
	output := m.Path(filepath.Join(dir, "out.v"))
	cfg := m.MutationConfig{RandomizeAssignments: true}

	inj.EXPECT().Inject(mock.Anything, mock.Anything, cfg).Return(m.InjectionResult{}, boom)
	ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil)
	ui.EXPECT().DisplayConfig(mock.Anything, cfg).Return()
	ui.EXPECT().Close(mock.Anything).Return()
	ui.EXPECT().DisplayInjection(mock.Anything, mock.MatchedBy(func(r m.RunReport) bool {
		return r.Status == m.StatusFailed && strings.Contains(r.Error, "entropy unavailable")
	})).Return()
	reports.EXPECT().SaveReport(mock.Anything, m.Path("reports"), mock.MatchedBy(func(r m.RunReport) bool {
		return r.Status == m.StatusFailed && r.Output == nil
	})).Return(nil)

	err := wf.Inject(context.Background(), domain.InjectArgs{
		Inputs:  []m.Path{input},
		Output:  output,
		Config:  cfg,
		Count:   1,
		Reports: "reports",
	})
	require.ErrorIs(t, err, boom)

	_, statErr := os.Stat(string(output))
	assert.True(t, os.IsNotExist(statErr), "nothing is written when injection fails")
}
