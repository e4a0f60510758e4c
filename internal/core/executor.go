package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"selenictia/internal/logging"
)

// Executor launches the coverage tool and waits for it.
//
// Standard streams default to the parent's own, so the tool's console output
// reaches the build log unchanged. Tests substitute writers.
//
// On Unix the tool runs in its own process group, which is killed as a whole
// on cancellation. When Stdin is a terminal the tool shares our process group
// instead, so that reading the terminal does not stop it with SIGTTIN; only
// the tool process itself is then killed on cancellation.
type Executor struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// NewExecutor returns an Executor with inherited standard streams.
func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

// Execute runs command in dir and blocks until it exits.
//
//   - Launch failure: ErrProcess, key covtool.launch.failed.
//   - Non-zero exit: ErrProcess, key covtool.returned.exit.code, ExitCode set.
//   - ctx done first: the child's process group is killed, then
//     ErrInterrupted, key covtool.interrupted.
func (e *Executor) Execute(ctx context.Context, dir string, command []string) error {
	if len(command) == 0 {
		return &Error{Kind: ErrProcess, Key: "covtool.launch.failed", Args: []any{"empty command"}}
	}
	logger := e.logger()
	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.Debug("command:\n" + strings.Join(command, "\n"))
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	group := setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return &Error{Kind: ErrProcess, Key: "covtool.launch.failed", Args: []any{err}, Cause: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		killProcess(cmd, group)
		<-done
		logger.Debug("coverage tool killed", "pid", cmd.Process.Pid)
		return &Error{Kind: ErrInterrupted, Key: "covtool.interrupted", Cause: ctx.Err()}
	case err = <-done:
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			return &Error{Kind: ErrProcess, Key: "covtool.returned.exit.code", Args: []any{code}, ExitCode: code}
		}
		return &Error{Kind: ErrProcess, Key: "covtool.launch.failed", Args: []any{err}, Cause: err}
	}
	return nil
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.Discard()
}
