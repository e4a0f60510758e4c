package state

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStore_SaveAndLoadRun_NullableFields(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	run := Run{
		RunID:     "run-123",
		Operation: "impacted",
		StartTime: time.Unix(1, 2).UTC(),
		Status:    RunStatusRunning,
	}
	if err := store.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "selenic-tia", "runs", "run-123", "run.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{`"end_time": null`, `"selected_tests": null`, `"command": []`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %s in run.json; got: %s", want, data)
		}
	}

	loaded, err := store.LoadRun("run-123")
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if loaded.RunID != run.RunID || loaded.Operation != run.Operation || !loaded.StartTime.Equal(run.StartTime) {
		t.Fatalf("loaded run mismatch: %+v", loaded)
	}
	if loaded.EndTime != nil || loaded.SelectedTests != nil {
		t.Fatalf("expected nil end time and selected tests; got %+v", loaded)
	}
}

func TestStore_SaveRun_RejectsInvalid(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	err = store.SaveRun(Run{RunID: "r", Operation: "impacted", StartTime: time.Unix(1, 0), Status: RunStatusSucceeded})
	if err == nil || !strings.Contains(err.Error(), "end_time") {
		t.Fatalf("expected end_time error; got %v", err)
	}
}

func TestStore_LoadRun_RejectsUnknownFields(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	dir := filepath.Join(base, "selenic-tia", "runs", "r1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := `{"run_id":"r1","operation":"impacted","start_time":"2020-01-01T00:00:00Z","end_time":null,"status":"running","command":[],"selected_tests":null,"extra":1}`
	if err := os.WriteFile(filepath.Join(dir, "run.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadRun("r1"); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestStore_LoadFailure_NoFailure(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.LoadFailure("nope"); !errors.Is(err, ErrNoFailure) {
		t.Fatalf("expected ErrNoFailure; got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	records, err := store.List()
	if err != nil || len(records) != 0 {
		t.Fatalf("expected no runs; got %v, %v", records, err)
	}
	for _, id := range []string{"b", "a", "c"} {
		if err := store.SaveRun(Run{RunID: id, Operation: "impacted", StartTime: time.Unix(1, 0), Status: RunStatusRunning}); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	if err := store.SaveFailure("b", Failure{FailureClass: FailureClassConfig, ErrorMessage: "bad"}); err != nil {
		t.Fatalf("SaveFailure: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(base, "selenic-tia", "runs", "d"), 0o755); err != nil {
		t.Fatal(err)
	}

	records, err = store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	if strings.Join(ids, ",") != "a,b,c,d" {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if records[0].Failure != nil || records[0].Err != nil {
		t.Fatalf("run a: unexpected %+v", records[0])
	}
	if records[1].Failure == nil || records[1].Failure.FailureClass != FailureClassConfig {
		t.Fatalf("run b: expected config failure; got %+v", records[1])
	}
	if records[3].Err == nil {
		t.Fatalf("run d has no run.json and must be listed with an error")
	}
}
