package memory

import (
	"context"
	"errors"
	"testing"

	"burncast/internal/forecast"
	"burncast/internal/project"
)

func TestStore_ProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	p := &project.Project{Name: "apollo", Unit: "points", PeriodLengthDays: 14, RemainingBacklog: 150}
	if err := store.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected an assigned ID")
	}

	if err := store.CreateProject(ctx, &project.Project{Name: "apollo"}); !errors.Is(err, project.ErrDuplicateKey) {
		t.Errorf("duplicate name: expected ErrDuplicateKey, got %v", err)
	}

	got, err := store.GetProjectByName(ctx, "apollo")
	if err != nil {
		t.Fatalf("GetProjectByName: %v", err)
	}
	if got.RemainingBacklog != 150 {
		t.Errorf("expected backlog 150, got %v", got.RemainingBacklog)
	}

	got.RemainingBacklog = 120
	if err := store.UpdateProject(ctx, got); err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	refetched, _ := store.GetProject(ctx, p.ID)
	if refetched.RemainingBacklog != 120 {
		t.Errorf("update not persisted: %v", refetched.RemainingBacklog)
	}

	if err := store.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, err := store.GetProject(ctx, p.ID); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_PeriodsSortedByNumber(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	p := &project.Project{Name: "apollo", PeriodLengthDays: 14, RemainingBacklog: 100}
	if err := store.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	periods := []forecast.PeriodRecord{
		{Number: 3, Throughput: 30, IncludedInBaseline: true},
		{Number: 1, Throughput: 10, IncludedInBaseline: true},
	}
	if err := store.ReplacePeriods(ctx, p.ID, periods); err != nil {
		t.Fatalf("ReplacePeriods: %v", err)
	}
	if err := store.AppendPeriods(ctx, p.ID, []forecast.PeriodRecord{{Number: 2, Throughput: 20, IncludedInBaseline: true}}); err != nil {
		t.Fatalf("AppendPeriods: %v", err)
	}

	got, err := store.GetPeriods(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPeriods: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].Number != want {
			t.Errorf("period %d: expected number %d, got %d", i, want, got[i].Number)
		}
	}
}

func TestStore_UnknownProject(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if _, err := store.GetPeriods(ctx, 99); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.ReplaceAdjustments(ctx, 99, nil); !errors.Is(err, project.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	p := &project.Project{Name: "apollo", PeriodLengthDays: 14, RemainingBacklog: 100}
	if err := store.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := store.ReplacePeriods(ctx, p.ID, []forecast.PeriodRecord{
		{Number: 1, Throughput: 25, IncludedInBaseline: true},
		{Number: 2, Throughput: 35, IncludedInBaseline: true},
	}); err != nil {
		t.Fatalf("ReplacePeriods: %v", err)
	}

	snap, err := project.LoadSnapshot(ctx, store, p.ID)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	stats := snap.VelocityStats()
	if stats.Count != 2 || stats.Mean != 30 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if samples := snap.BootstrapSamples(); len(samples) != 2 {
		t.Errorf("expected 2 bootstrap samples, got %v", samples)
	}
}
