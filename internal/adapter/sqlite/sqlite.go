package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sadopc/schemaviz/internal/adapter"
	"github.com/sadopc/schemaviz/internal/schema"

	_ "modernc.org/sqlite"
)

func init() {
	adapter.Register(&sqliteAdapter{})
}

// sqliteAdapter implements adapter.Adapter for SQLite databases.
type sqliteAdapter struct{}

func (a *sqliteAdapter) Name() string     { return "sqlite" }
func (a *sqliteAdapter) DefaultPort() int { return 0 }

func (a *sqliteAdapter) Connect(ctx context.Context, dsn string) (adapter.Connection, error) {
	dsn = normalizeDSN(dsn)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	dbName := dsn
	if dsn != ":memory:" {
		dbName = filepath.Base(dsn)
	}

	return &sqliteConn{
		db:     db,
		dbName: dbName,
	}, nil
}

// normalizeDSN strips common SQLite URI prefixes.
func normalizeDSN(dsn string) string {
	if strings.HasPrefix(dsn, "sqlite://") {
		return strings.TrimPrefix(dsn, "sqlite://")
	}
	if strings.HasPrefix(dsn, "file:") {
		return strings.TrimPrefix(dsn, "file:")
	}
	return dsn
}

// quoteIdent quotes name as an SQL identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqliteConn implements adapter.Connection.
type sqliteConn struct {
	db     *sql.DB
	dbName string
}

func (c *sqliteConn) AdapterName() string   { return "sqlite" }
func (c *sqliteConn) DatabaseName() string  { return c.dbName }
func (c *sqliteConn) DefaultSchema() string { return "main" }

func (c *sqliteConn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *sqliteConn) Close() error {
	return c.db.Close()
}

// Tables returns all user tables in the database.
func (c *sqliteConn) Tables(ctx context.Context, db, schemaName string) ([]schema.Table, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("sqlite tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite tables scan: %w", err)
		}
		tables = append(tables, schema.Table{Name: name})
	}
	return tables, rows.Err()
}

// Columns returns column metadata for the given table using PRAGMA table_info.
func (c *sqliteConn) Columns(ctx context.Context, db, schemaName, table string) ([]schema.Column, error) {
	rows, err := c.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("sqlite columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("sqlite columns scan: %w", err)
		}
		col := schema.Column{
			Name:     name,
			Type:     colType,
			Nullable: notNull == 0,
			IsPK:     pk > 0,
		}
		if dfltValue.Valid {
			col.Default = dfltValue.String
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// ForeignKeys returns foreign key constraints for the given table.
func (c *sqliteConn) ForeignKeys(ctx context.Context, db, schemaName, table string) ([]schema.ForeignKey, error) {
	rows, err := c.db.QueryContext(ctx, "PRAGMA foreign_key_list("+quoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("sqlite foreign_key_list: %w", err)
	}
	defer rows.Close()

	// Group by id since a single FK can span multiple columns.
	type fkEntry struct {
		refTable   string
		columns    []string
		refColumns []string
	}
	fkMap := make(map[int]*fkEntry)
	var fkOrder []int

	for rows.Next() {
		var (
			id       int
			seq      int
			refTable string
			from     string
			to       sql.NullString
			onUpdate string
			onDelete string
			match    string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("sqlite foreign_key_list scan: %w", err)
		}
		entry, ok := fkMap[id]
		if !ok {
			entry = &fkEntry{refTable: refTable}
			fkMap[id] = entry
			fkOrder = append(fkOrder, id)
		}
		entry.columns = append(entry.columns, from)
		// "to" is NULL when the reference targets the implicit primary key.
		entry.refColumns = append(entry.refColumns, to.String)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var fks []schema.ForeignKey
	for _, id := range fkOrder {
		entry := fkMap[id]
		fks = append(fks, schema.ForeignKey{
			Name:       fmt.Sprintf("fk_%s_%d", table, id),
			Columns:    entry.columns,
			RefTable:   entry.refTable,
			RefColumns: entry.refColumns,
		})
	}
	return fks, nil
}
