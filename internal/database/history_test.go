package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/chronoscan/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// newRun builds a finished report for target at the given time.
func newRun(target string, at time.Time, urls map[model.Category][]string, order []model.Category) *model.ScanReport {
	report := model.NewScanReport(target)
	report.GeneratedAt = at
	report.SetSnapshots(make([]string, 10))
	for _, c := range order {
		for _, u := range urls[c] {
			report.AddFinding(model.NewFinding(c, u))
		}
	}
	if report.HasFindings() {
		report.SetOutcome(model.OutcomeFindings)
	} else {
		report.SetOutcome(model.OutcomeNoFindings)
	}
	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false fails for missing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = db.Close()
	})
}

// TestSaveAndGetRun tests that a stored run round-trips with findings in order.
func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	report := newRun("example.com", at, map[model.Category][]string{
		model.CategoryDatabase:      {"http://example.com/backup.sql", "http://example.com/db.sqlite"},
		model.CategoryConfiguration: {"http://example.com/.env"},
	}, []model.Category{model.CategoryDatabase, model.CategoryConfiguration})
	report.ReportPath = "chronos_report_example.com.txt"

	id, err := db.SaveRun(ctx, report)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	got, err := db.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if got.Target != "example.com" {
		t.Errorf("unexpected target %q", got.Target)
	}
	if !got.GeneratedAt.Equal(at) {
		t.Errorf("expected timestamp %v, got %v", at, got.GeneratedAt)
	}
	if got.Outcome != model.OutcomeFindings {
		t.Errorf("expected findings outcome, got %v", got.Outcome)
	}
	if got.SnapshotCount != 10 {
		t.Errorf("expected 10 snapshots, got %d", got.SnapshotCount)
	}
	if got.ReportPath != report.ReportPath {
		t.Errorf("unexpected report path %q", got.ReportPath)
	}
	if len(got.Findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(got.Findings))
	}
	for i := range report.Findings {
		if got.Findings[i] != report.Findings[i] {
			t.Errorf("finding %d: expected %+v, got %+v", i, report.Findings[i], got.Findings[i])
		}
	}
}

// TestGetRunNotFound tests the missing-run error.
func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	if _, err := db.GetRun(context.Background(), 42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

// TestListRuns tests listing runs newest first with metadata.
func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := newRun("example.com", base, nil, nil)
	second := newRun("example.com", base.Add(24*time.Hour), map[model.Category][]string{
		model.CategorySourceCode: {"http://example.com/app.js"},
	}, []model.Category{model.CategorySourceCode})
	other := newRun("other.org", base, nil, nil)

	for _, r := range []*model.ScanReport{first, second, other} {
		if _, err := db.SaveRun(ctx, r); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	runs, err := db.ListRuns(ctx, "example.com")
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].Timestamp.After(runs[1].Timestamp) {
		t.Error("expected newest run first")
	}
	if runs[0].Outcome != model.OutcomeFindings || runs[0].FindingCount != 1 {
		t.Errorf("unexpected newest run %+v", runs[0])
	}
	if runs[0].SeveritySummary["sensitive"] != 1 {
		t.Errorf("unexpected severity summary %v", runs[0].SeveritySummary)
	}
	if runs[1].Outcome != model.OutcomeNoFindings {
		t.Errorf("expected no_findings outcome, got %v", runs[1].Outcome)
	}

	targets, err := db.ListTargets(ctx)
	if err != nil {
		t.Fatalf("failed to list targets: %v", err)
	}
	if len(targets) != 2 || targets[0] != "example.com" || targets[1] != "other.org" {
		t.Errorf("unexpected targets %v", targets)
	}
}

// TestCompareRuns tests finding differences between two runs.
func TestCompareRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	oldRun := newRun("example.com", at, map[model.Category][]string{
		model.CategoryConfiguration: {"http://example.com/.env"},
		model.CategoryDocuments:     {"http://example.com/a.pdf"},
	}, []model.Category{model.CategoryConfiguration, model.CategoryDocuments})
	newRunReport := newRun("example.com", at.Add(time.Hour), map[model.Category][]string{
		model.CategoryConfiguration: {"http://example.com/.env"},
		model.CategoryDatabase:      {"http://example.com/dump.sql"},
	}, []model.Category{model.CategoryConfiguration, model.CategoryDatabase})

	baseID, err := db.SaveRun(ctx, oldRun)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	headID, err := db.SaveRun(ctx, newRunReport)
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	diff, err := db.CompareRuns(ctx, baseID, headID)
	if err != nil {
		t.Fatalf("failed to compare runs: %v", err)
	}

	if !diff.HasChanges() {
		t.Fatal("expected changes")
	}
	if len(diff.Added) != 1 || diff.Added[0].URL != "http://example.com/dump.sql" {
		t.Errorf("unexpected added %v", diff.Added)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].URL != "http://example.com/a.pdf" {
		t.Errorf("unexpected removed %v", diff.Removed)
	}

	same, err := db.CompareRuns(ctx, headID, headID)
	if err != nil {
		t.Fatalf("failed to compare runs: %v", err)
	}
	if same.HasChanges() {
		t.Error("expected no changes comparing a run with itself")
	}

	if _, err := db.CompareRuns(ctx, baseID, 999); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

// TestParseTimestamp tests the multi-format timestamp parser.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-02 03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"garbage", time.Time{}},
	}

	for _, tt := range tests {
		if got := parseTimestamp(tt.in); !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
