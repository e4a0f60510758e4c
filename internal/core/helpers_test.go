package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"selenictia/internal/props"
)

// newInstallation lays out a minimal Selenic installation.
func newInstallation(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	touch(t, filepath.Join(home, AgentJar))
	touch(t, filepath.Join(home, AnalyzerJar))
	touch(t, filepath.Join(home, "coverage", "Java", "jtestcov", "jtestcov.jar"))
	return home
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

type fakeOp struct {
	name        string
	validateErr error
	trailing    []string
	afterRunErr error

	afterRunCalls int
	workDir       string
}

func (f *fakeOp) Name() string {
	if f.name == "" {
		return "impacted"
	}
	return f.name
}

func (f *fakeOp) Validate() error { return f.validateErr }

func (f *fakeOp) AppendArguments(cmd *Command) { cmd.AddRaw(f.trailing...) }

func (f *fakeOp) AfterRun(_ context.Context, workDir string, store props.Store) error {
	f.afterRunCalls++
	f.workDir = workDir
	if f.afterRunErr != nil {
		return f.afterRunErr
	}
	store.Set("after.run", "done")
	return nil
}
