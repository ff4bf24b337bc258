package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vfault.dev/pkg/vfault/internal/adapter"
	"vfault.dev/pkg/vfault/internal/controller"
	m "vfault.dev/pkg/vfault/internal/model"
	"vfault.dev/pkg/vfault/internal/verilog"
)

const outputFileMode = 0o644

// recursiveSuffix marks a directory input whose sub-directories are searched too.
const recursiveSuffix = "/..."

// ErrNoOutputDir is returned when smart mutation is requested without an
// output directory.
var ErrNoOutputDir = errors.New("smart mutation needs an output directory")

// InjectArgs contains the arguments of one injection run. With Count above
// one, Output names the pattern of the numbered mutant files.
type InjectArgs struct {
	Inputs   []m.Path `validate:"required,min=1,dive,required"`
	Output   m.Path   `validate:"required_unless=Count 1"`
	Config   m.MutationConfig
	Diff     bool
	PrintAST bool
	Count    int `validate:"min=1"`
	Parallel int `validate:"min=0"`
	Reports  m.Path
}

// EstimateArgs contains the arguments for estimating mutation sites.
type EstimateArgs struct {
	Inputs   []m.Path `validate:"required,min=1,dive,required"`
	Parallel int      `validate:"min=0"`
}

// ViewArgs contains the arguments for viewing stored reports.
type ViewArgs struct {
	Reports m.Path `validate:"required"`
}

// Workflow ties file access, parsing, injection and reporting together.
type Workflow interface {
	Inject(ctx context.Context, args InjectArgs) error
	Estimate(ctx context.Context, args EstimateArgs) error
	Watch(ctx context.Context, args InjectArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	fs       adapter.SourceFSAdapter
	parser   adapter.VerilogFileAdapter
	reports  adapter.ReportStore
	smart    adapter.SmartMutationAdapter
	watcher  adapter.WatchAdapter
	ui       controller.UI
	injector Injector

	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	verilogAdapter adapter.VerilogFileAdapter,
	reportStore adapter.ReportStore,
	smartAdapter adapter.SmartMutationAdapter,
	watchAdapter adapter.WatchAdapter,
	ui controller.UI,
	injector Injector,
) Workflow {
	return &workflow{
		fs:       fsAdapter,
		parser:   verilogAdapter,
		reports:  reportStore,
		smart:    smartAdapter,
		watcher:  watchAdapter,
		ui:       ui,
		injector: injector,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Inject generates the mutants described by args.
func (w *workflow) Inject(ctx context.Context, args InjectArgs) error {
	if err := w.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid inject arguments: %w", err)
	}

	if err := w.ui.Start(ctx, controller.WithInjectMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.ui.Close(ctx)

	w.ui.DisplayConfig(ctx, args.Config)

	if err := w.run(ctx, args); err != nil {
		slog.Error("Injection failed", "error", err)
		return err
	}

	w.ui.Wait(ctx)

	return nil
}

// Estimate reports, per input file, how many sites each operator would mutate.
func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid estimate arguments: %w", err)
	}

	if err := w.ui.Start(ctx, controller.WithEstimateMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.ui.Close(ctx)

	inputs, err := w.expandInputs(ctx, args.Inputs)
	if err != nil {
		_ = w.ui.DisplayEstimation(ctx, nil, err)
		return fmt.Errorf("estimate: %w", err)
	}

	estimates := make([]m.Estimate, len(inputs))

	var group errgroup.Group
	if args.Parallel > 0 {
		group.SetLimit(args.Parallel)
	}

	for i, input := range inputs {
		group.Go(func() error {
			src, tree, err := w.load(ctx, []m.Path{input})
			if err != nil {
				return err
			}

			estimates[i] = m.Estimate{Source: src, Counts: EstimateSites(tree)}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		_ = w.ui.DisplayEstimation(ctx, nil, err)
		slog.Error("Failed to estimate mutation sites", "error", err)

		return fmt.Errorf("estimate: %w", err)
	}

	if err := w.ui.DisplayEstimation(ctx, estimates, nil); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.ui.Wait(ctx)

	return nil
}

// Watch runs the injection once, then again each time an input changes,
// until ctx is done. Failed runs are displayed and do not stop watching.
func (w *workflow) Watch(ctx context.Context, args InjectArgs) error {
	if err := w.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid watch arguments: %w", err)
	}

	if err := w.ui.Start(ctx, controller.WithWatchMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.ui.Close(ctx)

	inputs, err := w.expandInputs(ctx, args.Inputs)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	changes, errs, err := w.watcher.Watch(ctx, inputs)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	w.ui.DisplayConfig(ctx, args.Config)
	w.rerun(ctx, args)
	w.ui.DisplayWatching(ctx, inputs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-changes:
			if !ok {
				return nil
			}

			slog.Info("Input changed", "path", path)
			w.rerun(ctx, args)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}

			slog.Error("Watcher error", "error", err)
			w.ui.DisplayError(ctx, err)
		}
	}
}

// View displays the reports stored in a directory.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if err := w.validate.Struct(args); err != nil {
		return fmt.Errorf("invalid view arguments: %w", err)
	}

	reports, err := w.reports.LoadReports(ctx, args.Reports)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.ui.Start(ctx); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	if err := w.ui.DisplayReports(ctx, reports); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.ui.Wait(ctx)

	return nil
}

func (w *workflow) rerun(ctx context.Context, args InjectArgs) {
	if err := w.run(ctx, args); err != nil {
		slog.Error("Injection failed", "error", err)
		w.ui.DisplayError(ctx, err)
	}
}

func (w *workflow) run(ctx context.Context, args InjectArgs) error {
	if args.Config.SVM {
		return w.delegate(ctx, args)
	}

	src, tree, err := w.load(ctx, args.Inputs)
	if err != nil {
		w.saveFailure(ctx, args.Reports, w.newReport(m.Source{Files: pathFiles(args.Inputs)}, args.Config), err)
		return err
	}

	if args.PrintAST {
		var outline bytes.Buffer
		if err := w.parser.Dump(ctx, &outline, tree, verilog.DefaultDumpDepth); err != nil {
			return fmt.Errorf("dump syntax tree: %w", err)
		}

		w.ui.DisplayTree(ctx, outline.String())

		return nil
	}

	var original []byte
	if args.Diff {
		original, err = w.parser.Generate(ctx, tree)
		if err != nil {
			return fmt.Errorf("generate original source: %w", err)
		}
	}

	jobs := planJobs(args)
	results := make([]jobResult, len(jobs))

	if len(jobs) == 1 {
		results[0], err = w.mutate(ctx, args, src, tree, original, jobs[0])
	} else {
		var group errgroup.Group
		if args.Parallel > 0 {
			group.SetLimit(args.Parallel)
		}

		for i, job := range jobs {
			group.Go(func() error {
				var jobErr error
				results[i], jobErr = w.mutate(ctx, args, src, verilog.CloneSource(tree), original, job)

				return jobErr
			})
		}

		err = group.Wait()
	}

	for _, result := range results {
		w.show(ctx, args, result)
	}

	return err
}

type injectJob struct {
	cfg    m.MutationConfig
	output m.Path
}

type jobResult struct {
	report m.RunReport
	source []byte
	diff   string
}

// planJobs derives one job per requested mutant. Batch job i writes
// <output>_<i><ext> and, when the run is seeded, uses seed+i.
func planJobs(args InjectArgs) []injectJob {
	if args.Count <= 1 {
		return []injectJob{{cfg: args.Config, output: args.Output}}
	}

	jobs := make([]injectJob, args.Count)

	for i := range jobs {
		cfg := args.Config
		if cfg.Seed != nil {
			cfg = cfg.WithSeed(*cfg.Seed + int64(i))
		}

		jobs[i] = injectJob{cfg: cfg, output: numberedPath(args.Output, i)}
	}

	return jobs
}

func numberedPath(path m.Path, i int) m.Path {
	ext := filepath.Ext(string(path))
	base := strings.TrimSuffix(string(path), ext)

	return m.Path(fmt.Sprintf("%s_%d%s", base, i, ext))
}

func (w *workflow) mutate(
	ctx context.Context,
	args InjectArgs,
	src m.Source,
	tree *verilog.Source,
	original []byte,
	job injectJob,
) (jobResult, error) {
	report := w.newReport(src, job.cfg)

	result, err := w.injector.Inject(ctx, tree, job.cfg)
	if err != nil {
		err = fmt.Errorf("inject: %w", err)
		return jobResult{report: w.saveFailure(ctx, args.Reports, report, err)}, err
	}

	report.Counts = result.Counts
	report.Seed = result.Seed

	if result.Seed != nil {
		report.Config = job.cfg.WithSeed(*result.Seed)
	}

	mutated, err := w.parser.Generate(ctx, tree)
	if err != nil {
		err = fmt.Errorf("generate mutated source: %w", err)
		return jobResult{report: w.saveFailure(ctx, args.Reports, report, err)}, err
	}

	out := jobResult{}

	if job.output == "" {
		out.source = mutated
	} else {
		output, err := w.writeOutput(ctx, job.output, mutated)
		if err != nil {
			return jobResult{report: w.saveFailure(ctx, args.Reports, report, err)}, err
		}

		report.Output = &output
	}

	if args.Diff {
		to := "stdout"
		if job.output != "" {
			to = string(job.output)
		}

		out.diff, err = UnifiedDiff(original, mutated, sourceName(src), to)
		if err != nil {
			err = fmt.Errorf("diff: %w", err)
			return jobResult{report: w.saveFailure(ctx, args.Reports, report, err)}, err
		}
	}

	report.Status = m.StatusMutated

	slog.Info("Mutated source", "inputs", sourceName(src), "output", job.output,
		"mutations", result.Total(), "seed", report.Seed)

	out.report = report

	return out, w.saveReport(ctx, args.Reports, report)
}

func (w *workflow) show(ctx context.Context, args InjectArgs, result jobResult) {
	if result.report.RunID == "" {
		return
	}

	if result.source != nil {
		if err := w.ui.DisplaySource(ctx, result.source); err != nil {
			slog.Error("Failed to display source", "error", err)
		}
	}

	if args.Diff && result.report.Status == m.StatusMutated {
		path := m.Path("stdout")
		if result.report.Output != nil {
			path = result.report.Output.Path
		}

		if err := w.ui.DisplayDiff(ctx, path, result.diff); err != nil {
			slog.Error("Failed to display diff", "error", err)
		}
	}

	w.ui.DisplayInjection(ctx, result.report)
}

func (w *workflow) delegate(ctx context.Context, args InjectArgs) error {
	if args.Output == "" {
		return ErrNoOutputDir
	}

	inputs, err := w.expandInputs(ctx, args.Inputs)
	if err != nil {
		w.ui.DisplayInjection(ctx, w.saveFailure(ctx, args.Reports, w.newReport(m.Source{Files: pathFiles(args.Inputs)}, args.Config), err))
		return err
	}

	for _, input := range inputs {
		file := m.File{Path: input}

		hash, err := w.fs.HashFile(ctx, input)
		if err != nil {
			err = fmt.Errorf("hash %s: %w", input, err)
			w.ui.DisplayInjection(ctx, w.saveFailure(ctx, args.Reports, w.newReport(m.Source{Files: []m.File{file}}, args.Config), err))

			return err
		}

		file.Hash = hash
		report := w.newReport(m.Source{Files: []m.File{file}}, args.Config)

		n, err := w.smart.Generate(ctx, args.Config.SVMCommand, input, args.Output)
		if err != nil {
			err = fmt.Errorf("smart mutation: %w", err)
			w.ui.DisplayInjection(ctx, w.saveFailure(ctx, args.Reports, report, err))

			return err
		}

		report.Status = m.StatusDelegated
		report.Mutants = n
		report.Output = &m.File{Path: args.Output}

		slog.Info("Delegated to smart mutation", "input", input, "output", args.Output, "mutants", n)

		if err := w.saveReport(ctx, args.Reports, report); err != nil {
			return err
		}

		w.ui.DisplayInjection(ctx, report)
	}

	return nil
}

// load reads and parses inputs into one tree.
func (w *workflow) load(ctx context.Context, inputs []m.Path) (m.Source, *verilog.Source, error) {
	inputs, err := w.expandInputs(ctx, inputs)
	if err != nil {
		return m.Source{}, nil, err
	}

	src := m.Source{Files: make([]m.File, 0, len(inputs))}
	contents := make([][]byte, 0, len(inputs))

	for _, input := range inputs {
		data, err := w.fs.ReadFile(ctx, input)
		if err != nil {
			return src, nil, fmt.Errorf("read %s: %w", input, err)
		}

		hash, err := w.fs.HashFile(ctx, input)
		if err != nil {
			return src, nil, fmt.Errorf("hash %s: %w", input, err)
		}

		src.Files = append(src.Files, m.File{Path: input, Hash: hash})
		contents = append(contents, data)
	}

	tree, err := w.parser.Parse(ctx, inputs, contents)
	if err != nil {
		return src, nil, fmt.Errorf("parse: %w", err)
	}

	return src, tree, nil
}

// expandInputs replaces each directory input by the Verilog files directly
// inside it, in lexical order. A "dir/..." input also searches sub-directories.
// Other inputs are kept as given.
func (w *workflow) expandInputs(ctx context.Context, inputs []m.Path) ([]m.Path, error) {
	expanded := make([]m.Path, 0, len(inputs))

	for _, input := range inputs {
		root, recursive := string(input), false
		if strings.HasSuffix(root, recursiveSuffix) {
			root, recursive = filepath.Clean(strings.TrimSuffix(root, "...")), true
		}

		info, err := w.fs.FileInfo(ctx, m.Path(root))
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			expanded = append(expanded, m.Path(root))
			continue
		}

		found := 0
		err = w.fs.Walk(ctx, m.Path(root), recursive, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !fi.IsDir() && adapter.IsVerilogFile(path) {
				expanded = append(expanded, m.Path(path))
				found++
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}

		if found == 0 {
			return nil, fmt.Errorf("no Verilog files in %s", input)
		}

		slog.Debug("Expanded input directory", "input", input, "files", found)
	}

	return expanded, nil
}

func (w *workflow) writeOutput(ctx context.Context, path m.Path, content []byte) (m.File, error) {
	if dir := filepath.Dir(string(path)); dir != "." {
		if err := w.fs.MkdirAll(ctx, m.Path(dir)); err != nil {
			return m.File{}, fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}

	if err := w.fs.WriteFile(ctx, path, content, outputFileMode); err != nil {
		return m.File{}, fmt.Errorf("write %s: %w", path, err)
	}

	hash, err := w.fs.HashFile(ctx, path)
	if err != nil {
		return m.File{}, fmt.Errorf("hash %s: %w", path, err)
	}

	return m.File{Path: path, Hash: hash}, nil
}

func (w *workflow) newReport(src m.Source, cfg m.MutationConfig) m.RunReport {
	return m.RunReport{
		RunID:     w.newID(),
		Timestamp: w.now().UTC(),
		Inputs:    src.Files,
		Config:    cfg,
	}
}

func (w *workflow) saveReport(ctx context.Context, dir m.Path, report m.RunReport) error {
	if dir == "" {
		return nil
	}

	if err := w.reports.SaveReport(ctx, dir, report); err != nil {
		slog.Error("Failed to save report", "run", report.RunID, "error", err)
		return fmt.Errorf("save report: %w", err)
	}

	return nil
}

// saveFailure records a failed run. The failure itself is what the caller
// returns, so a report that cannot be saved is only logged.
func (w *workflow) saveFailure(ctx context.Context, dir m.Path, report m.RunReport, cause error) m.RunReport {
	report.Status = m.StatusFailed
	report.Error = cause.Error()

	_ = w.saveReport(ctx, dir, report)

	return report
}

func sourceName(src m.Source) string {
	paths := make([]string, 0, len(src.Files))
	for _, f := range src.Files {
		paths = append(paths, string(f.Path))
	}

	return strings.Join(paths, ",")
}

func pathFiles(paths []m.Path) []m.File {
	files := make([]m.File, 0, len(paths))
	for _, p := range paths {
		files = append(files, m.File{Path: p})
	}

	return files
}
