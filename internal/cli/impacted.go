package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"selenictia/internal/core"
	"selenictia/internal/props"
	"selenictia/internal/state"
	"selenictia/internal/tia"
)

func (a *app) impactedTestsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "impacted-tests",
		Short: "Run impact analysis and select the impacted tests",
		Long: `Runs jtestcov "impacted" in <build-dir>/covtool and sets the test and
it.test build properties to the impacted tests. When nothing is impacted the
properties select no tests and failIfNoSpecifiedTests is disabled for both
Surefire and Failsafe.

Changed properties are printed to stdout (see --emit) and, with
--properties-file, written back to that file.`,
		Example: `  mvn test $(selenictia impacted-tests --home /opt/selenic --app target/app.war --baseline coverage.xml)`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runImpactedTests(cmd)
		},
	}
}

func (a *app) runImpactedTests(cmd *cobra.Command) error {
	emit, err := props.ParseFormat(a.opts.emit)
	if err != nil {
		return invalidInvocationf("--emit: %v", err)
	}
	build, err := a.opts.buildStore()
	if err != nil {
		return err
	}
	loaded, err := a.opts.resolve(cmd.Flags(), build)
	if err != nil {
		return err
	}
	cfg := loaded.Config
	logger, err := a.logger(a.opts.debug || cfg.ShowDetails)
	if err != nil {
		return err
	}
	if loaded.File != "" {
		logger.Debug("loaded configuration", "file", loaded.File)
	}

	op := &tia.ImpactedTests{Baseline: cfg.Baseline, Logger: logger}
	req := cfg.Request()
	// A failed precondition touches nothing, run records included.
	if _, err := core.Check(req, op); err != nil {
		return err
	}
	if req.Java, err = core.ResolveJava(req.Java, loaded.Getenv); err != nil {
		return err
	}
	rec, run := a.startRun(cfg.BuildDir, op.Name(), logger)

	tracked := props.Track(build)
	runner := core.NewRunner(logger)
	runner.Executor.Stdin = a.io.Stdin
	runner.Executor.Stdout = a.io.Stdout
	if emit != props.FormatNone {
		// stdout carries the emitted properties.
		runner.Executor.Stdout = a.io.Stderr
	}
	runner.Executor.Stderr = a.io.Stderr
	runner.Getenv = loaded.Getenv

	res, runErr := runner.Run(cmd.Context(), req, op, tracked)
	if runErr == nil && a.opts.propertiesFile != "" {
		if err := build.Save(); err != nil {
			runErr = core.FilesystemError("properties.write.failed", err)
		}
	}
	if runErr == nil {
		runErr = props.Emit(a.io.Stdout, emit, tracked, tracked.Changed())
	}

	if rec != nil {
		if res != nil {
			run.Command = res.Command
			run.WorkDir = res.WorkDir
			if len(res.Command) > 0 {
				fp, err := state.Fingerprint(res.Command, cfg.Baseline, res.Installation.SettingsFile)
				if err != nil {
					logger.Debug("fingerprint failed", "error", err)
				}
				run.Fingerprint = fp
			}
		}
		if runErr == nil {
			n := len(op.Tests)
			run.SelectedTests = &n
		}
		if err := rec.FinishRun(run, runErr); err != nil {
			logger.Warn("recording run failed", "run_id", run.RunID, "error", err)
		}
	}
	return runErr
}

// startRun records a running invocation. Recording is best effort: on
// failure it returns a nil recorder and the invocation proceeds unrecorded.
func (a *app) startRun(buildDir, operation string, logger *slog.Logger) (*state.Recorder, state.Run) {
	store, err := state.NewStore(buildDir)
	if err != nil {
		logger.Warn("run records disabled", "error", err)
		return nil, state.Run{}
	}
	rec := &state.Recorder{Store: store}
	run, err := rec.StartRun(operation)
	if err != nil {
		logger.Warn("run records disabled", "error", err)
		return nil, state.Run{}
	}
	a.runID = run.RunID
	logger.Debug("run started", "run_id", run.RunID)
	return rec, run
}
