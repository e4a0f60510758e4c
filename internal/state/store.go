// Package state persists a record of each invocation under
// <buildDir>/selenic-tia/runs/<run-id>/: run.json always, failure.json when
// the invocation failed.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"selenictia/internal/fsutil"
)

const (
	runFile     = "run.json"
	failureFile = "failure.json"
)

// ErrNoFailure is returned by LoadFailure for runs that did not fail.
var ErrNoFailure = errors.New("run has no failure record")

// Store reads and writes run records. Writes are atomic.
type Store struct {
	dir string
}

// NewStore returns the store of the build directory buildDir.
func NewStore(buildDir string) (*Store, error) {
	if strings.TrimSpace(buildDir) == "" {
		return nil, errors.New("build directory is required")
	}
	return &Store{dir: filepath.Join(buildDir, "selenic-tia", "runs")}, nil
}

// Record is one run as listed by List.
type Record struct {
	ID  string
	Run Run
	// Failure is nil for runs that did not fail.
	Failure *Failure
	// Err is set when the run's files could not be read.
	Err error
}

// List returns every run, ordered by ID. Run IDs are time-ordered, so this is
// oldest first. Unreadable runs are listed with Err set.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		rec := Record{ID: e.Name()}
		rec.Run, rec.Err = s.LoadRun(rec.ID)
		if rec.Err == nil {
			switch f, err := s.LoadFailure(rec.ID); {
			case err == nil:
				rec.Failure = &f
			case !errors.Is(err, ErrNoFailure):
				rec.Err = err
			}
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *Store) SaveRun(run Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid run: %w", err)
	}
	if run.Command == nil {
		run.Command = []string{}
	}
	return s.write(run.RunID, runFile, run)
}

func (s *Store) LoadRun(runID string) (Run, error) {
	var run Run
	if err := s.read(runID, runFile, &run); err != nil {
		return Run{}, err
	}
	if err := run.Validate(); err != nil {
		return Run{}, fmt.Errorf("%s: %w", runID, err)
	}
	return run, nil
}

func (s *Store) SaveFailure(runID string, failure Failure) error {
	if err := failure.Validate(); err != nil {
		return fmt.Errorf("invalid failure: %w", err)
	}
	return s.write(runID, failureFile, failure)
}

// LoadFailure returns the failure of runID, or ErrNoFailure.
func (s *Store) LoadFailure(runID string) (Failure, error) {
	var f Failure
	if err := s.read(runID, failureFile, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Failure{}, ErrNoFailure
		}
		return Failure{}, err
	}
	if err := f.Validate(); err != nil {
		return Failure{}, fmt.Errorf("%s: %w", runID, err)
	}
	return f, nil
}

func (s *Store) write(runID, name string, v any) error {
	if strings.TrimSpace(runID) == "" {
		return errors.New("run id is required")
	}
	dir := filepath.Join(s.dir, runID)
	if err := fsutil.EnsureDirDurable(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(filepath.Join(dir, name), append(data, '\n'), 0o644)
}

// read decodes one JSON document, rejecting unknown fields and trailing data.
func (s *Store) read(runID, name string, v any) error {
	if strings.TrimSpace(runID) == "" {
		return errors.New("run id is required")
	}
	data, err := os.ReadFile(filepath.Join(s.dir, runID, name))
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s/%s: %w", runID, name, err)
	}
	if dec.More() {
		return fmt.Errorf("%s/%s: trailing data", runID, name)
	}
	return nil
}
