package core

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"selenictia/internal/fsutil"
	"selenictia/internal/logging"
	"selenictia/internal/props"
)

// WorkDirName is the scratch directory created under the build directory.
const WorkDirName = "covtool"

// Request is everything one invocation needs besides the operation.
type Request struct {
	Installation Installation
	Coverage     Coverage
	// Java is an explicit launcher; empty means resolve it.
	Java string
	// BuildDir is the build output directory, e.g. target/.
	BuildDir string
}

// Result describes what an invocation did, as far as it got.
type Result struct {
	Installation ResolvedInstallation
	Command      []string
	WorkDir      string
}

// Runner orchestrates validation, command assembly, execution and result
// handling for one operation.
type Runner struct {
	Executor *Executor
	Logger   *slog.Logger
	// Getenv reads JAVA_HOME; defaults to os.Getenv.
	Getenv func(string) string
}

// NewRunner returns a Runner with inherited standard streams.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Executor: NewExecutor(logger), Logger: logger, Getenv: os.Getenv}
}

// Check runs only the preconditions: installation, settings, coverage inputs
// and operation inputs, in that order.
func Check(req Request, op Operation) (ResolvedInstallation, error) {
	inst, err := req.Installation.Resolve()
	if err != nil {
		return ResolvedInstallation{}, err
	}
	if err := req.Coverage.Validate(); err != nil {
		return inst, err
	}
	if err := op.Validate(); err != nil {
		return inst, err
	}
	return inst, nil
}

// Run executes op. The returned Result is non-nil once validation passed and
// is filled as far as the invocation progressed. store is only written by
// op.AfterRun, which runs only after the tool succeeded.
func (r *Runner) Run(ctx context.Context, req Request, op Operation, store props.Store) (*Result, error) {
	logger := r.logger()

	inst, err := Check(req, op)
	if err != nil {
		return nil, err
	}
	res := &Result{Installation: inst}
	if inst.SettingsFile != "" {
		logger.Debug("using settings file", "path", inst.SettingsFile)
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	java, err := ResolveJava(req.Java, getenv)
	if err != nil {
		return res, err
	}

	res.Command = Assemble(java, inst, req.Coverage, op, store)

	buildDir := req.BuildDir
	if buildDir == "" {
		buildDir = "target"
	}
	workDir := filepath.Join(absPath(buildDir), WorkDirName)
	res.WorkDir = workDir
	if err := fsutil.RemoveAllAndRecreate(workDir, 0o755); err != nil {
		logger.Debug("preparing work dir failed", "dir", workDir, "error", err)
		return res, filesystemError("workdir.failed", err)
	}

	executor := r.Executor
	if executor == nil {
		executor = NewExecutor(logger)
	}
	logger.Info("running coverage tool", "operation", op.Name(), "workdir", workDir)
	if err := executor.Execute(ctx, workDir, res.Command); err != nil {
		return res, err
	}
	if err := op.AfterRun(ctx, workDir, store); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.Discard()
}
