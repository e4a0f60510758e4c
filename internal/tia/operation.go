// Package tia implements the impacted-tests operation: it runs jtestcov's
// "impacted" analysis against a baseline coverage report and narrows the
// build's unit and integration test selection to the impacted tests.
package tia

import (
	"context"
	"log/slog"

	"selenictia/internal/core"
	"selenictia/internal/props"
)

// Build properties written after a successful analysis.
const (
	TestProperty              = "test"
	IntegrationTestProperty   = "it.test"
	SurefireFailIfNoSpecified = "surefire.failIfNoSpecifiedTests"
	FailsafeFailIfNoSpecified = "it.failIfNoSpecifiedTests"
)

// ImpactedTests is the core.Operation for jtestcov's "impacted" sub-command.
type ImpactedTests struct {
	// Baseline is a coverage report from a previous run.
	Baseline string
	Logger   *slog.Logger

	// Tests holds the impacted test identifiers after AfterRun.
	Tests []string
}

var _ core.Operation = (*ImpactedTests)(nil)

func (op *ImpactedTests) Name() string { return "impacted" }

func (op *ImpactedTests) Validate() error {
	if op.Baseline == "" {
		return &core.Error{Kind: core.ErrConfig, Key: "baseline.not.set"}
	}
	if !core.IsFile(op.Baseline) {
		return &core.Error{Kind: core.ErrConfig, Key: "baseline.missing", Args: []any{op.Baseline}}
	}
	return nil
}

func (op *ImpactedTests) AppendArguments(cmd *core.Command) {
	cmd.AddPath("-baseline", op.Baseline)
}

func (op *ImpactedTests) AfterRun(_ context.Context, workDir string, store props.Store) error {
	tests, err := ReadResult(workDir)
	if err != nil {
		return core.FilesystemError("result.read.failed", err)
	}
	op.Tests = tests
	Apply(store, tests)
	if op.Logger != nil {
		if len(tests) == 0 {
			op.Logger.Info("no impacted tests")
		} else {
			op.Logger.Info("impacted tests selected", "count", len(tests))
		}
	}
	return nil
}

// Apply writes the test selection for tests into store. No tests selects
// nothing and relaxes both failIfNoSpecifiedTests checks, which would
// otherwise fail the build on an empty selection.
func Apply(store props.Store, tests []string) {
	pattern := FormatPattern(tests)
	if pattern == "" {
		store.Set(TestProperty, RunNothing)
		store.Set(IntegrationTestProperty, RunNothing)
		store.Set(SurefireFailIfNoSpecified, "false")
		store.Set(FailsafeFailIfNoSpecified, "false")
		return
	}
	store.Set(TestProperty, pattern)
	store.Set(IntegrationTestProperty, pattern)
}
