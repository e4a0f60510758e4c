package state

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"selenictia/internal/core"
)

func newRecorder(t *testing.T) *Recorder {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Recorder{Store: store, Now: func() time.Time {
		now = now.Add(time.Second)
		return now
	}}
}

func TestRecorder_SuccessfulRun(t *testing.T) {
	r := newRecorder(t)
	run, err := r.StartRun("impacted")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if run.Status != RunStatusRunning || run.RunID == "" {
		t.Fatalf("unexpected started run: %+v", run)
	}

	n := 2
	run.SelectedTests = &n
	run.Command = []string{"java", "-jar", "jtestcov.jar", "impacted"}
	if err := r.FinishRun(run, nil); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	loaded, err := r.Store.LoadRun(run.RunID)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if loaded.Status != RunStatusSucceeded || loaded.EndTime == nil || *loaded.SelectedTests != 2 {
		t.Fatalf("unexpected finished run: %+v", loaded)
	}
	if _, err := r.Store.LoadFailure(run.RunID); !errors.Is(err, ErrNoFailure) {
		t.Fatalf("successful run must not have a failure record")
	}
}

func TestRecorder_FailedRunRecordsExitCode(t *testing.T) {
	r := newRecorder(t)
	run, err := r.StartRun("impacted")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	cause := &core.Error{Kind: core.ErrProcess, Key: "covtool.returned.exit.code", Args: []any{3}, ExitCode: 3}
	if err := r.FinishRun(run, fmt.Errorf("wrapped: %w", cause)); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	f, err := r.Store.LoadFailure(run.RunID)
	if err != nil {
		t.Fatalf("LoadFailure: %v", err)
	}
	if f.FailureClass != FailureClassProcess || f.MessageKey != "covtool.returned.exit.code" {
		t.Fatalf("unexpected failure: %+v", f)
	}
	if f.ExitCode == nil || *f.ExitCode != 3 {
		t.Fatalf("expected exit code 3; got %v", f.ExitCode)
	}
}

func TestRecorder_RunIDsAreTimeOrdered(t *testing.T) {
	r := newRecorder(t)
	first, err := r.StartRun("impacted")
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := r.StartRun("impacted")
	if err != nil {
		t.Fatal(err)
	}
	records, err := r.Store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].ID != first.RunID || records[1].ID != second.RunID {
		t.Fatalf("expected %s then %s; got %+v", first.RunID, second.RunID, records)
	}
}

func TestFailureFromError_Classes(t *testing.T) {
	cases := []struct {
		err  error
		want FailureClass
		key  string
	}{
		{&core.Error{Kind: core.ErrConfig, Key: "selenic.home.not.set"}, FailureClassConfig, "selenic.home.not.set"},
		{core.FilesystemError("workdir.failed", errors.New("denied")), FailureClassFilesystem, "workdir.failed"},
		{&core.Error{Kind: core.ErrProcess, Key: "covtool.launch.failed", Args: []any{"x"}}, FailureClassProcess, "covtool.launch.failed"},
		{&core.Error{Kind: core.ErrInterrupted, Key: "covtool.interrupted"}, FailureClassInterrupted, "covtool.interrupted"},
		{errors.New("boom"), FailureClassSystem, ""},
	}
	for _, tc := range cases {
		f := FailureFromError(tc.err)
		if f.FailureClass != tc.want || f.MessageKey != tc.key {
			t.Fatalf("%v: got class=%s key=%q", tc.err, f.FailureClass, f.MessageKey)
		}
		if f.ExitCode != nil {
			t.Fatalf("%v: unexpected exit code", tc.err)
		}
		if err := f.Validate(); err != nil {
			t.Fatalf("%v: invalid failure: %v", tc.err, err)
		}
	}
}
