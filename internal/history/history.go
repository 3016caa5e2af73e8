// Package history records past exports in a SQLite database so they can be
// listed and searched with `schemaviz history`.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sadopc/schemaviz/internal/config"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS exports (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	source        TEXT NOT NULL,
	adapter       TEXT,
	database_name TEXT,
	models        INTEGER,
	edges         INTEGER,
	output        TEXT,
	format        TEXT,
	exported_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
	duration_ms   INTEGER,
	is_error      BOOLEAN DEFAULT FALSE
)`

const selectColumns = `SELECT id, source, adapter, database_name, models, edges, output, format, exported_at, duration_ms, is_error
	 FROM exports`

// Entry is one export run.
type Entry struct {
	ID int64
	// Source is the sanitized DSN or the model file path.
	Source       string
	Adapter      string
	DatabaseName string
	Models       int
	Edges        int
	Output       string
	Format       string
	ExportedAt   time.Time
	DurationMS   int64
	IsError      bool
}

// History provides SQLite-backed export history storage.
type History struct {
	db *sql.DB
}

// New opens (or creates) the history database at ConfigDir()/history.db.
func New() (*History, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("history: config dir: %w", err)
	}
	return Open(filepath.Join(dir, "history.db"))
}

// Open opens (or creates) the history database at path and ensures the
// schema exists.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create table: %w", err)
	}
	return &History{db: db}, nil
}

// Add inserts a new history entry. A zero ExportedAt is set to now.
func (h *History) Add(ctx context.Context, e Entry) error {
	if e.ExportedAt.IsZero() {
		e.ExportedAt = time.Now().UTC()
	}
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO exports (source, adapter, database_name, models, edges, output, format, exported_at, duration_ms, is_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Source,
		e.Adapter,
		e.DatabaseName,
		e.Models,
		e.Edges,
		e.Output,
		e.Format,
		e.ExportedAt,
		e.DurationMS,
		e.IsError,
	)
	if err != nil {
		return fmt.Errorf("history add: %w", err)
	}
	return nil
}

// Search returns entries whose source, database or output matches pattern
// using SQL LIKE, most recent first. A pattern without % is matched as a
// substring.
func (h *History) Search(ctx context.Context, pattern string, limit int) ([]Entry, error) {
	like := likePattern(pattern)
	rows, err := h.db.QueryContext(ctx,
		selectColumns+`
		 WHERE source LIKE ? OR database_name LIKE ? OR output LIKE ?
		 ORDER BY exported_at DESC, id DESC
		 LIMIT ?`,
		like, like, like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history search: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Recent returns the most recent entries, limited to limit rows.
func (h *History) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := h.db.QueryContext(ctx,
		selectColumns+`
		 ORDER BY exported_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history recent: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Clear deletes all history entries and returns how many were removed.
func (h *History) Clear(ctx context.Context) (int64, error) {
	res, err := h.db.ExecContext(ctx, `DELETE FROM exports`)
	if err != nil {
		return 0, fmt.Errorf("history clear: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	return h.db.Close()
}

func likePattern(p string) string {
	for _, r := range p {
		if r == '%' || r == '_' {
			return p
		}
	}
	return "%" + p + "%"
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e                           Entry
			adapter, dbName, out, fmtNm sql.NullString
			models, edges, duration     sql.NullInt64
		)
		if err := rows.Scan(
			&e.ID,
			&e.Source,
			&adapter,
			&dbName,
			&models,
			&edges,
			&out,
			&fmtNm,
			&e.ExportedAt,
			&duration,
			&e.IsError,
		); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		e.Adapter = adapter.String
		e.DatabaseName = dbName.String
		e.Models = int(models.Int64)
		e.Edges = int(edges.Int64)
		e.Output = out.String
		e.Format = fmtNm.String
		e.DurationMS = duration.Int64
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return entries, nil
}
