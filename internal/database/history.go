package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/rbpscraper/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "rbpscraper.db"

// HistoryDB stores crawl runs and their libraries.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if needed.
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
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so they go in the DSN.
	dsn := dbPath + "?mode=rw&_pragma=foreign_keys(1)"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
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

func (h *HistoryDB) createTables() error {
	schema := `
	-- One row per crawl run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		descriptor TEXT NOT NULL,
		label TEXT NOT NULL,
		search_url TEXT NOT NULL,
		started_at TEXT,
		finished_at TEXT,
		total_pages INTEGER DEFAULT 0,
		indexed INTEGER DEFAULT 0,
		archived INTEGER DEFAULT 0,
		skipped INTEGER DEFAULT 0,
		error TEXT,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_label ON runs(label);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Library rows produced by a run
	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		article_id TEXT NOT NULL,
		title TEXT,
		author TEXT,
		source TEXT,
		date TEXT,
		subjects TEXT,
		topic TEXT,
		type TEXT,
		href TEXT,
		UNIQUE(run_id, article_id)
	);

	CREATE INDEX IF NOT EXISTS idx_articles_run ON articles(run_id);
	CREATE INDEX IF NOT EXISTS idx_articles_href ON articles(href);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored run.
type RunRecord struct {
	// ID is the database id of the run.
	ID int64

	// Summary is the run summary as saved.
	Summary model.RunSummary
}

// SaveRun stores a run summary and its library rows in one transaction
// and returns the run id.
func (h *HistoryDB) SaveRun(ctx context.Context, summary model.RunSummary, rows []model.LibraryRow) (int64, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (descriptor, label, search_url, started_at, finished_at,
		total_pages, indexed, archived, skipped, error, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.Descriptor,
		summary.Label,
		summary.SearchURL,
		formatTimestamp(summary.StartedAt),
		formatTimestamp(summary.FinishedAt),
		summary.TotalPages,
		summary.Indexed,
		summary.Archived,
		summary.SkippedCount(),
		summary.Error,
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO articles (run_id, article_id, title, author, source, date, subjects, topic, type, href)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare article insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, runID, r.ID, r.Title, r.Author, r.Source, r.Date,
			strings.Join(r.Subjects, model.SubjectSeparator), r.Topic, r.Type, r.Href); err != nil {
			return 0, fmt.Errorf("failed to save article %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs first. An empty label matches every
// run. A limit of zero or less returns every matching run.
func (h *HistoryDB) ListRuns(ctx context.Context, label string, limit int) ([]RunRecord, error) {
	query := `SELECT id, summary_json FROM runs`
	args := []any{}
	if label != "" {
		query += ` WHERE label = ?`
		args = append(args, label)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var summaryJSON string
		if err := rows.Scan(&rec.ID, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
			continue // Skip malformed summaries
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id, or nil if there is none.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	var summaryJSON string
	err := h.db.QueryRowContext(ctx, `SELECT summary_json FROM runs WHERE id = ?`, id).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rec := &RunRecord{ID: id}
	if err := json.Unmarshal([]byte(summaryJSON), &rec.Summary); err != nil {
		return nil, fmt.Errorf("failed to parse run summary: %w", err)
	}
	return rec, nil
}

// RunArticles returns the library rows of a run in article id order.
func (h *HistoryDB) RunArticles(ctx context.Context, runID int64) ([]model.LibraryRow, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT article_id, title, author, source, date, subjects, topic, type, href
	FROM articles WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}
	defer rows.Close()

	var out []model.LibraryRow
	for rows.Next() {
		var r model.LibraryRow
		var subjects sql.NullString
		if err := rows.Scan(&r.ID, &r.Title, &r.Author, &r.Source, &r.Date, &subjects, &r.Topic, &r.Type, &r.Href); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		r.Subjects = splitSubjects(subjects.String)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its articles. It reports whether a run was deleted.
func (h *HistoryDB) DeleteRun(ctx context.Context, id int64) (bool, error) {
	result, err := h.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete run: %w", err)
	}
	return n > 0, nil
}

func splitSubjects(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, model.SubjectSeparator)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
