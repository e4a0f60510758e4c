package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the persisted record of one invocation.
type Run struct {
	RunID     string     `json:"run_id"`
	Operation string     `json:"operation"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Status    RunStatus  `json:"status"`

	// Command is the assembled coverage tool command line, once known.
	Command []string `json:"command"`
	WorkDir string   `json:"work_dir,omitempty"`

	// Fingerprint identifies the analyzed inputs; see Fingerprint.
	Fingerprint string `json:"fingerprint,omitempty"`

	// SelectedTests is the number of impacted tests applied to the build.
	SelectedTests *int `json:"selected_tests"`
}

func (r Run) Validate() error {
	var errs []error
	if strings.TrimSpace(r.RunID) == "" {
		errs = append(errs, errors.New("run_id is required"))
	}
	if strings.TrimSpace(r.Operation) == "" {
		errs = append(errs, errors.New("operation is required"))
	}
	if r.StartTime.IsZero() {
		errs = append(errs, errors.New("start_time is required"))
	}
	switch r.Status {
	case RunStatusRunning, RunStatusSucceeded, RunStatusFailed:
	default:
		errs = append(errs, fmt.Errorf("invalid status %q", r.Status))
	}
	if r.Status != RunStatusRunning && r.EndTime == nil {
		errs = append(errs, errors.New("end_time is required once finished"))
	}
	if r.EndTime != nil && r.EndTime.Before(r.StartTime) {
		errs = append(errs, errors.New("end_time precedes start_time"))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

type FailureClass string

const (
	FailureClassConfig      FailureClass = "config"
	FailureClassFilesystem  FailureClass = "filesystem"
	FailureClassProcess     FailureClass = "process"
	FailureClassInterrupted FailureClass = "interrupted"
	FailureClassSystem      FailureClass = "system"
)

// Failure is the persisted cause of a failed run.
type Failure struct {
	FailureClass FailureClass `json:"failure_class"`
	// MessageKey is the catalog key of the reported message, if any.
	MessageKey   string `json:"message_key"`
	ErrorMessage string `json:"error_message"`
	ExitCode     *int   `json:"exit_code"`
}

func (f Failure) Validate() error {
	var errs []error
	switch f.FailureClass {
	case FailureClassConfig, FailureClassFilesystem, FailureClassProcess, FailureClassInterrupted, FailureClassSystem:
	default:
		errs = append(errs, fmt.Errorf("invalid failure_class %q", f.FailureClass))
	}
	if strings.TrimSpace(f.ErrorMessage) == "" {
		errs = append(errs, errors.New("error_message is required"))
	}
	if f.ExitCode != nil && f.FailureClass != FailureClassProcess {
		errs = append(errs, errors.New("exit_code is only valid for process failures"))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
