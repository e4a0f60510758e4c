//go:build unix

package core

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selenictia/internal/props"
)

type runnerFixture struct {
	runner *Runner
	req    Request
	out    string
}

func newRunnerFixture(t *testing.T) runnerFixture {
	t.Helper()
	out := t.TempDir()
	t.Setenv("FAKE_OUT", out)
	t.Setenv("FAKE_EXIT", "")
	t.Setenv("FAKE_TESTS", "")
	var sink bytes.Buffer
	return runnerFixture{
		runner: &Runner{Executor: &Executor{Stdout: &sink, Stderr: &sink}},
		req: Request{
			Installation: Installation{Home: newInstallation(t)},
			Coverage:     Coverage{App: t.TempDir()},
			Java:         writeFakeJava(t),
			BuildDir:     filepath.Join(t.TempDir(), "target"),
		},
		out: out,
	}
}

func (f runnerFixture) launched() bool {
	_, err := os.Stat(filepath.Join(f.out, "args"))
	return err == nil
}

func TestRun_Success(t *testing.T) {
	f := newRunnerFixture(t)
	stale := filepath.Join(f.req.BuildDir, WorkDirName, "stale.txt")
	touch(t, stale)

	op := &fakeOp{trailing: []string{"-baseline", "b.xml"}}
	store := props.NewMap(nil)
	res, err := f.runner.Run(context.Background(), f.req, op, store)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.req.BuildDir, WorkDirName), res.WorkDir)
	assert.NoFileExists(t, stale)
	assert.Equal(t, 1, op.afterRunCalls)
	assert.Equal(t, res.WorkDir, op.workDir)
	v, _ := store.Get("after.run")
	assert.Equal(t, "done", v)

	args, err := os.ReadFile(filepath.Join(f.out, "args"))
	require.NoError(t, err)
	assert.Equal(t, strings.Join(res.Command[1:], "\n")+"\n", string(args))
}

func TestRun_MissingMarkerLaunchesNothing(t *testing.T) {
	f := newRunnerFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.req.Installation.Home, AgentJar)))

	res, err := f.runner.Run(context.Background(), f.req, &fakeOp{}, props.NewMap(nil))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "selenic.missing", KeyOf(err))
	assert.Contains(t, err.Error(), f.req.Installation.Home)
	assert.False(t, f.launched())
	assert.NoDirExists(t, filepath.Join(f.req.BuildDir, WorkDirName))
}

func TestRun_MissingSettingsLaunchesNothing(t *testing.T) {
	f := newRunnerFixture(t)
	f.req.Installation.Settings = filepath.Join(t.TempDir(), "missing.properties")

	_, err := f.runner.Run(context.Background(), f.req, &fakeOp{}, props.NewMap(nil))
	assert.Equal(t, "settings.missing", KeyOf(err))
	assert.Contains(t, err.Error(), f.req.Installation.Settings)
	assert.False(t, f.launched())
}

func TestRun_OperationValidationRunsLast(t *testing.T) {
	f := newRunnerFixture(t)
	opErr := &Error{Kind: ErrConfig, Key: "baseline.not.set"}

	_, err := f.runner.Run(context.Background(), f.req, &fakeOp{validateErr: opErr}, props.NewMap(nil))
	assert.Equal(t, "baseline.not.set", KeyOf(err))

	f.req.Coverage.App = ""
	_, err = f.runner.Run(context.Background(), f.req, &fakeOp{validateErr: opErr}, props.NewMap(nil))
	assert.Equal(t, "app.not.set", KeyOf(err))
	assert.False(t, f.launched())
}

func TestRun_NonZeroExitMutatesNothing(t *testing.T) {
	f := newRunnerFixture(t)
	t.Setenv("FAKE_EXIT", "7")
	t.Setenv("FAKE_TESTS", "FooTest\n")

	op := &fakeOp{}
	store := props.NewMap(map[string]string{"keep": "me"})
	res, err := f.runner.Run(context.Background(), f.req, op, store)
	require.Error(t, err)
	assert.NotNil(t, res)
	assert.Contains(t, err.Error(), "7")
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 7, e.ExitCode)

	assert.Equal(t, 0, op.afterRunCalls)
	assert.Equal(t, []string{"keep"}, store.Keys())
}

func TestRun_WorkDirFailure(t *testing.T) {
	f := newRunnerFixture(t)
	// A regular file where the build directory should be.
	blocker := filepath.Join(t.TempDir(), "target")
	touch(t, blocker)
	f.req.BuildDir = blocker

	_, err := f.runner.Run(context.Background(), f.req, &fakeOp{}, props.NewMap(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFilesystem)
	assert.Equal(t, "workdir.failed", KeyOf(err))
	assert.False(t, f.launched())
}

func TestRun_AfterRunErrorPropagates(t *testing.T) {
	f := newRunnerFixture(t)
	boom := FilesystemError("result.read.failed", errors.New("boom"))

	_, err := f.runner.Run(context.Background(), f.req, &fakeOp{afterRunErr: boom}, props.NewMap(nil))
	assert.ErrorIs(t, err, ErrFilesystem)
	assert.Contains(t, err.Error(), "boom")
}

func TestCheck_ReturnsResolvedInstallation(t *testing.T) {
	f := newRunnerFixture(t)
	touch(t, filepath.Join(f.req.Installation.Home, DefaultSettingsFile))

	inst, err := Check(f.req, &fakeOp{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.req.Installation.Home, DefaultSettingsFile), inst.SettingsFile)
}
