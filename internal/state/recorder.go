package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"selenictia/internal/core"
)

// Recorder writes run.json and failure.json for invocations.
type Recorder struct {
	Store *Store
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRunID returns a time-ordered (UUIDv7) run ID.
func (r *Recorder) NewRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// StartRun persists a running record for operation and returns it.
func (r *Recorder) StartRun(operation string) (Run, error) {
	if r == nil || r.Store == nil {
		return Run{}, errors.New("Store is required")
	}
	id, err := r.NewRunID()
	if err != nil {
		return Run{}, fmt.Errorf("run id: %w", err)
	}
	run := Run{
		RunID:     id,
		Operation: operation,
		StartTime: r.now(),
		Status:    RunStatusRunning,
	}
	if err := r.Store.SaveRun(run); err != nil {
		return Run{}, err
	}
	return run, nil
}

// FinishRun marks run finished. A non-nil cause marks it failed and writes
// its classified failure.
func (r *Recorder) FinishRun(run Run, cause error) error {
	if r == nil || r.Store == nil {
		return errors.New("Store is required")
	}
	end := r.now()
	if end.Before(run.StartTime) {
		end = run.StartTime
	}
	run.EndTime = &end
	run.Status = RunStatusSucceeded
	if cause != nil {
		run.Status = RunStatusFailed
	}
	if err := r.Store.SaveRun(run); err != nil {
		return err
	}
	if cause == nil {
		return nil
	}
	return r.Store.SaveFailure(run.RunID, FailureFromError(cause))
}

func (r *Recorder) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

// FailureFromError classifies err by its core error kind. Errors without a
// kind are system failures.
func FailureFromError(err error) Failure {
	f := Failure{
		FailureClass: classOf(core.KindOf(err)),
		MessageKey:   core.KeyOf(err),
		ErrorMessage: "unknown error",
	}
	if err != nil && err.Error() != "" {
		f.ErrorMessage = err.Error()
	}
	var ce *core.Error
	if f.FailureClass == FailureClassProcess && errors.As(err, &ce) && ce.Key == "covtool.returned.exit.code" {
		code := ce.ExitCode
		f.ExitCode = &code
	}
	return f
}

func classOf(kind error) FailureClass {
	switch kind {
	case core.ErrConfig:
		return FailureClassConfig
	case core.ErrFilesystem:
		return FailureClassFilesystem
	case core.ErrProcess:
		return FailureClassProcess
	case core.ErrInterrupted:
		return FailureClassInterrupted
	default:
		return FailureClassSystem
	}
}
