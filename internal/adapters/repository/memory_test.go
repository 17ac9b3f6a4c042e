package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/teamiq/internal/domain/analysis"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newJob(id, practice string, offset int) analysis.Job {
	return analysis.Job{ID: id, PracticeID: practice, SubmittedAt: epoch.Add(time.Duration(offset) * time.Second)}
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithClock(func() time.Time { return epoch }))
	defer store.Close()

	rec, err := store.Create(ctx, newJob("j1", "acme", 0), "v1:abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != StatusQueued || rec.Fingerprint != "v1:abc" {
		t.Errorf("unexpected record %+v", rec)
	}
	if _, err := store.Create(ctx, newJob("j1", "acme", 1), ""); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	if err := store.MarkRunning(ctx, "j1"); err != nil {
		t.Fatalf("mark running: %v", err)
	}
	got, _ := store.Get(ctx, "j1")
	if got.Status != StatusRunning || got.StartedAt == nil {
		t.Errorf("expected running with start time, got %+v", got)
	}

	if err := store.Complete(ctx, "j1", analysis.Report{PracticeID: "acme", Fingerprint: "v1:abc"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, _ = store.Get(ctx, "j1")
	if got.Status != StatusCompleted || got.Report == nil || got.Report.PracticeID != "acme" {
		t.Errorf("expected completed report, got %+v", got)
	}
	if err := store.Fail(ctx, "j1", errors.New("late")); !errors.Is(err, ErrFinished) {
		t.Errorf("expected ErrFinished, got %v", err)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer store.Close()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.MarkRunning(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Remove(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Fail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer store.Close()

	if _, err := store.Create(ctx, newJob("j1", "acme", 0), ""); err != nil {
		t.Fatal(err)
	}
	if err := store.Fail(ctx, "j1", errors.New("boom")); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Get(ctx, "j1")
	if got.Status != StatusFailed || got.Error != "boom" || got.CompletedAt == nil {
		t.Errorf("expected failed record, got %+v", got)
	}
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer store.Close()

	for i, p := range []string{"acme", "beta", "acme", "acme"} {
		if _, err := store.Create(ctx, newJob(fmt.Sprintf("j%d", i), p, i), ""); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[0].ID != "j3" || all[3].ID != "j0" {
		t.Errorf("expected newest first, got %v", ids(all))
	}

	acme, _ := store.List(ctx, "acme", 2)
	if len(acme) != 2 || acme[0].ID != "j3" || acme[1].ID != "j2" {
		t.Errorf("expected two newest acme jobs, got %v", ids(acme))
	}

	if _, err := store.List(ctx, "", 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestMemoryStore_Retention(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithRetention(2))
	defer store.Close()

	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("j%d", i)
		if _, err := store.Create(ctx, newJob(id, "acme", i), ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Complete(ctx, "j1", analysis.Report{}); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Create(ctx, newJob("j2", "acme", 2), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "j1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected oldest finished job to be evicted, got %v", err)
	}
	if _, err := store.Get(ctx, "j0"); err != nil {
		t.Errorf("queued job must not be evicted: %v", err)
	}

	if _, err := store.Create(ctx, newJob("j3", "acme", 3), ""); err != nil {
		t.Fatal(err)
	}
	if c := store.Count(ctx); c != 3 {
		t.Errorf("unfinished jobs may exceed retention, expected 3, got %d", c)
	}

	counts := store.Counts(ctx)
	if counts[StatusQueued] != 3 || counts[StatusCompleted] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestMemoryStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx)
	defer store.Close()

	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, newJob(fmt.Sprintf("j%d", i), "acme", i), ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Remove(ctx, "j1"); err != nil {
		t.Fatal(err)
	}
	all, _ := store.List(ctx, "", 10)
	if len(all) != 2 || all[0].ID != "j2" || all[1].ID != "j0" {
		t.Errorf("expected list to skip removed job, got %v", ids(all))
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithRetention(50), WithMetricsUpdateInterval(time.Millisecond))
	defer store.Close()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("%d-%d", w, i)
				if _, err := store.Create(ctx, newJob(id, "acme", i), ""); err != nil {
					t.Errorf("create: %v", err)
					return
				}
				_ = store.MarkRunning(ctx, id)
				_ = store.Complete(ctx, id, analysis.Report{})
				_, _ = store.List(ctx, "acme", 5)
			}
		}(w)
	}
	wg.Wait()

	if c := store.Count(ctx); c > 50+8 {
		t.Errorf("expected retention to bound the store, got %d", c)
	}
}

func ids(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
