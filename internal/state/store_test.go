package state

import (
	"fmt"
	"testing"

	"github.com/lexam-dev/lexview/internal/lexam"
)

func TestStore_UpdateAndSnapshot(t *testing.T) {
	store := &Store{}

	dash := &lexam.Dashboard{TotalQuestions: 340}
	exps := []lexam.Experiment{{ID: 1, Name: "baseline"}, {ID: 2, Name: "cot"}}
	store.Update(dash, exps, nil)

	snap := store.Snapshot()
	if !snap.HasDashboard || snap.Dashboard.TotalQuestions != 340 {
		t.Fatalf("snapshot dashboard = %#v", snap.Dashboard)
	}
	if len(snap.Experiments) != 2 {
		t.Fatalf("snapshot experiments = %d, want 2", len(snap.Experiments))
	}
	if snap.LastUpdated.IsZero() {
		t.Fatalf("LastUpdated not set")
	}

	// Mutating the returned slice must not leak into the store.
	snap.Experiments[0].Name = "mutated"
	if store.Snapshot().Experiments[0].Name != "baseline" {
		t.Fatalf("snapshot is not a defensive copy")
	}
}

func TestStore_ErrorKeepsPreviousData(t *testing.T) {
	store := &Store{}
	store.Update(&lexam.Dashboard{TotalQuestions: 10}, []lexam.Experiment{{ID: 1}}, nil)

	store.Update(nil, nil, fmt.Errorf("connection refused"))
	snap := store.Snapshot()
	if snap.LastError == nil {
		t.Fatalf("LastError not recorded")
	}
	if !snap.HasDashboard || len(snap.Experiments) != 1 {
		t.Fatalf("error update dropped previous data: %#v", snap)
	}
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("one failure should not be offline: %#v", snap)
	}

	store.Update(nil, nil, fmt.Errorf("connection refused"))
	if !store.Snapshot().IsOffline() {
		t.Fatalf("two consecutive failures should report offline")
	}

	// Recovery resets the failure counter.
	store.Update(&lexam.Dashboard{}, nil, nil)
	snap = store.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.LastError != nil {
		t.Fatalf("successful update did not clear failure state: %#v", snap)
	}
}

func TestSnapshot_ExperimentLookup(t *testing.T) {
	snap := Snapshot{Experiments: []lexam.Experiment{{ID: 3, Name: "x"}}}
	if exp, ok := snap.Experiment(3); !ok || exp.Name != "x" {
		t.Fatalf("Experiment(3) = %#v, %v", exp, ok)
	}
	if _, ok := snap.Experiment(99); ok {
		t.Fatalf("Experiment(99) should not be found")
	}
}
