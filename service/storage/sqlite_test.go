package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	svc, err := NewService(dbPath)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestSaveRunAndQueries(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	now := time.Now().UTC()
	runID, err := svc.SaveRun(ctx, SaveRunInput{
		RunUUID:     "run-1",
		Package:     "tukio",
		Version:     "1.2.3",
		Repository:  "https://index.example.com/upload/",
		ArchivePath: "dist/tukio-1.2.3.tar.gz",
		ArchiveSize: 2048,
		Duration:    1500 * time.Millisecond,
		Status:      "SUCCEEDED",
		CLIVersion:  "dev",
		Steps: []StepRecord{
			{Name: "credentials", State: "DONE", StartedAt: now, FinishedAt: now},
			{Name: "stamp", State: "DONE", StartedAt: now, FinishedAt: now},
			{Name: "sdist", State: "DONE", StartedAt: now, FinishedAt: now},
			{Name: "upload", State: "DONE", StartedAt: now, FinishedAt: now},
		},
	})
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if runID <= 0 {
		t.Fatalf("expected positive runID, got %d", runID)
	}

	runs, err := svc.GetRecentRuns("", 10)
	if err != nil {
		t.Fatalf("GetRecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Package != "tukio" || runs[0].Version != "1.2.3" || runs[0].Status != "SUCCEEDED" {
		t.Fatalf("unexpected run: %+v", runs[0])
	}

	steps, err := svc.GetRunSteps(runID)
	if err != nil {
		t.Fatalf("GetRunSteps failed: %v", err)
	}
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	if steps[0].Name != "credentials" || steps[3].Name != "upload" {
		t.Fatalf("steps out of order: %+v", steps)
	}
}

func TestGetRecentRunsPackageFilter(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	for i, pkg := range []string{"tukio", "other", "tukio"} {
		_, err := svc.SaveRun(ctx, SaveRunInput{
			RunUUID: string(rune('a' + i)),
			Package: pkg,
			Version: "1.0",
			Status:  "SUCCEEDED",
		})
		if err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	runs, err := svc.GetRecentRuns("tukio", 10)
	if err != nil {
		t.Fatalf("GetRecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 tukio runs, got %d", len(runs))
	}
	for _, r := range runs {
		if r.Package != "tukio" {
			t.Fatalf("filter leaked package %q", r.Package)
		}
	}
}

func TestSaveRunValidation(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	if _, err := svc.SaveRun(ctx, SaveRunInput{Version: "1.0", Status: "FAILED"}); err == nil {
		t.Fatal("expected missing package to fail")
	}
	if _, err := svc.SaveRun(ctx, SaveRunInput{Package: "p", Status: "FAILED"}); err == nil {
		t.Fatal("expected missing version to fail")
	}
}

func TestPurgeOlderThan(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	if _, err := svc.SaveRun(ctx, SaveRunInput{
		RunUUID: "recent", Package: "p", Version: "1.0", Status: "SUCCEEDED",
	}); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	count, err := svc.PurgeOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("PurgeOlderThan failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected recent run to survive, purged %d", count)
	}
	if _, err := svc.PurgeOlderThan(ctx, 0); err == nil {
		t.Fatal("expected error for non-positive days")
	}
}

func TestVacuumAndReindex(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()
	if err := svc.Vacuum(ctx); err != nil {
		t.Fatalf("Vacuum failed: %v", err)
	}
	if err := svc.Reindex(ctx); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
}
