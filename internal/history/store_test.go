package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lameta/internal/history"
	"lameta/internal/testsupport"
)

func TestStartAndFinishRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return base.Add(90 * time.Second) })

	run, err := store.Start(ctx, history.Run{
		Kind:        "rocrate",
		Project:     "edolo",
		Destination: "/tmp/out",
		StartedAt:   base,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if run.Status != history.StatusRunning {
		t.Fatalf("expected running status, got %q", run.Status)
	}

	fetched, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.FinishedAt != nil {
		t.Fatalf("expected unfinished run, got %#v", fetched)
	}

	err = store.Finish(ctx, run.ID, history.Outcome{
		Status:   "succeeded",
		Warnings: 2,
		Files:    7,
		Bytes:    4096,
	})
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	fetched, err = store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Status != "succeeded" || fetched.Warnings != 2 || fetched.Files != 7 || fetched.Bytes != 4096 {
		t.Fatalf("unexpected finished run: %#v", fetched)
	}
	if fetched.Message != "" {
		t.Fatalf("expected empty message, got %q", fetched.Message)
	}
	if got := fetched.Duration(); got != 90*time.Second {
		t.Fatalf("expected 90s duration, got %s", got)
	}
	if !fetched.StartedAt.Equal(base) {
		t.Fatalf("started_at = %s, want %s", fetched.StartedAt, base)
	}
}

func TestStartRequiresKind(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	if _, err := store.Start(context.Background(), history.Run{Project: "edolo"}); err == nil {
		t.Fatal("expected error for missing kind")
	}
}

func TestFinishValidation(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()

	err := store.Finish(ctx, "missing", history.Outcome{Status: "failed"})
	if !errors.Is(err, history.ErrUnknownRun) {
		t.Fatalf("expected ErrUnknownRun, got %v", err)
	}

	run, err := store.Start(ctx, history.Run{Kind: "imdi"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := store.Finish(ctx, run.ID, history.Outcome{Status: history.StatusRunning}); err == nil {
		t.Fatal("expected error when finishing with running status")
	}
	if err := store.Finish(ctx, run.ID, history.Outcome{}); err == nil {
		t.Fatal("expected error when finishing without status")
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	kinds := []string{"rocrate", "imdi", "csv", "paradisec"}
	for i, kind := range kinds {
		started := base.Add(time.Duration(i) * 500 * time.Millisecond)
		if _, err := store.Start(ctx, history.Run{Kind: kind, StartedAt: started}); err != nil {
			t.Fatalf("Start %s failed: %v", kind, err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != len(kinds) {
		t.Fatalf("expected %d runs, got %d", len(kinds), len(runs))
	}
	for i, run := range runs {
		want := kinds[len(kinds)-1-i]
		if run.Kind != want {
			t.Fatalf("runs[%d].Kind = %q, want %q", i, run.Kind, want)
		}
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 || limited[0].Kind != "paradisec" {
		t.Fatalf("unexpected limited list: %#v", limited)
	}
}

func TestPruneKeepsRunningExports(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	finished, err := store.Start(ctx, history.Run{Kind: "csv", StartedAt: old})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := store.Finish(ctx, finished.ID, history.Outcome{Status: "failed", Message: "disk full"}); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if _, err := store.Start(ctx, history.Run{Kind: "csv", StartedAt: old}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	removed, err := store.Prune(ctx, old.Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned run, got %d", removed)
	}
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != history.StatusRunning {
		t.Fatalf("expected only the running export to remain, got %#v", runs)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	run, err := store.Start(context.Background(), history.Run{Kind: "rocrate"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), run.ID)
	if err != nil || got == nil {
		t.Fatalf("expected run after reopen, got %#v err=%v", got, err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
	var nilStore *history.Store
	if err := nilStore.Close(); err != nil {
		t.Fatalf("nil Close should be a no-op, got %v", err)
	}
}
