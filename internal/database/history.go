package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/chronoscan/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "chronoscan.db"

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores scan runs and their findings.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file. Concurrent runs wait for
	// the write lock instead of failing with SQLITE_BUSY.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}
	dsn += "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		outcome TEXT NOT NULL,
		snapshot_count INTEGER NOT NULL DEFAULT 0,
		finding_count INTEGER NOT NULL DEFAULT 0,
		severity_summary TEXT,
		report_path TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);

	-- position keeps discovery order within a run
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		category TEXT NOT NULL,
		severity TEXT NOT NULL,
		url TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a finished scan and returns the new run ID.
func (h *HistoryDB) SaveRun(ctx context.Context, report *model.ScanReport) (id int64, err error) {
	summary, err := json.Marshal(report.SeveritySummary())
	if err != nil {
		return 0, fmt.Errorf("failed to serialize severity summary: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (target, timestamp, outcome, snapshot_count, finding_count, severity_summary, report_path, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.Target,
		report.GeneratedAt.UTC().Format(timestampFormats[0]),
		report.Outcome.String(),
		report.SnapshotCount,
		len(report.Findings),
		string(summary),
		report.ReportPath,
		report.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO findings (run_id, position, category, severity, url)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare finding insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range report.Findings {
		if _, err = stmt.ExecContext(ctx, id, i, string(f.Category), f.Severity.String(), f.URL); err != nil {
			return 0, fmt.Errorf("failed to save finding: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return id, nil
}

// RunMetadata contains summary information about a stored run.
type RunMetadata struct {
	// ID is the unique identifier of the run.
	ID int64

	// Target is the scanned host.
	Target string

	// Timestamp is when the scan started, in UTC.
	Timestamp time.Time

	// Outcome is the terminal state of the run.
	Outcome model.Outcome

	// SnapshotCount is the number of archived URLs retrieved.
	SnapshotCount int

	// FindingCount is the number of findings.
	FindingCount int

	// SeveritySummary holds finding counts keyed by lower-case severity.
	SeveritySummary map[string]int
}

// ListRuns returns the runs for target, newest first.
func (h *HistoryDB) ListRuns(ctx context.Context, target string) ([]RunMetadata, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT id, target, timestamp, outcome, snapshot_count, finding_count, severity_summary
	FROM runs
	WHERE target = ?
	ORDER BY timestamp DESC, id DESC
	`, target)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp, outcome string
		var summary sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Target, &timestamp, &outcome,
			&meta.SnapshotCount, &meta.FindingCount, &summary); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.Outcome = model.ParseOutcome(outcome)
		meta.SeveritySummary = make(map[string]int)
		if summary.Valid && summary.String != "" {
			_ = json.Unmarshal([]byte(summary.String), &meta.SeveritySummary) //nolint:errcheck // malformed summary shows as empty
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListTargets returns every target with at least one stored run.
func (h *HistoryDB) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT DISTINCT target FROM runs ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}

	return targets, rows.Err()
}

// GetRun rebuilds the report stored under id.
// It returns ErrRunNotFound if there is no such run.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*model.ScanReport, error) {
	var (
		timestamp, outcome string
		reportPath, errMsg sql.NullString
	)

	report := &model.ScanReport{}
	err := h.db.QueryRowContext(ctx, `
	SELECT target, timestamp, outcome, snapshot_count, report_path, error
	FROM runs WHERE id = ?
	`, id).Scan(&report.Target, &timestamp, &outcome, &report.SnapshotCount, &reportPath, &errMsg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	report.GeneratedAt = parseTimestamp(timestamp)
	report.SetOutcome(model.ParseOutcome(outcome))
	report.ReportPath = reportPath.String
	report.Error = errMsg.String

	findings, err := h.findings(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Findings = findings

	return report, nil
}

// findings loads the findings of a run in discovery order.
func (h *HistoryDB) findings(ctx context.Context, runID int64) ([]model.Finding, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT category, url FROM findings
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get findings: %w", err)
	}
	defer rows.Close()

	findings := make([]model.Finding, 0)
	for rows.Next() {
		var category, url string
		if err := rows.Scan(&category, &url); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, model.NewFinding(model.Category(category), url))
	}

	return findings, rows.Err()
}

// RunDiff lists how the findings of two runs differ.
type RunDiff struct {
	// BaseID is the older run.
	BaseID int64

	// HeadID is the newer run.
	HeadID int64

	// Added are findings present in head but not in base.
	Added []model.Finding

	// Removed are findings present in base but not in head.
	Removed []model.Finding
}

// HasChanges reports whether the runs differ.
func (d *RunDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// CompareRuns compares the findings of two runs by category and URL.
func (h *HistoryDB) CompareRuns(ctx context.Context, baseID, headID int64) (*RunDiff, error) {
	base, err := h.GetRun(ctx, baseID)
	if err != nil {
		return nil, err
	}
	head, err := h.GetRun(ctx, headID)
	if err != nil {
		return nil, err
	}

	return &RunDiff{
		BaseID:  baseID,
		HeadID:  headID,
		Added:   difference(head.Findings, base.Findings),
		Removed: difference(base.Findings, head.Findings),
	}, nil
}

// difference returns the findings of a that are not in b, keeping a's order.
func difference(a, b []model.Finding) []model.Finding {
	seen := make(map[model.Finding]struct{}, len(b))
	for _, f := range b {
		seen[f] = struct{}{}
	}

	out := make([]model.Finding, 0)
	for _, f := range a {
		if _, ok := seen[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// It returns the zero time if no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
