//go:build duckdb

package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/sadopc/schemaviz/internal/adapter"
	"github.com/sadopc/schemaviz/internal/schema"
)

func init() {
	adapter.Register(&duckdbAdapter{})
}

// ---------------------------------------------------------------------------
// Adapter
// ---------------------------------------------------------------------------

type duckdbAdapter struct{}

func (a *duckdbAdapter) Name() string     { return "duckdb" }
func (a *duckdbAdapter) DefaultPort() int { return 0 }

func (a *duckdbAdapter) Connect(ctx context.Context, dsn string) (adapter.Connection, error) {
	// Strip the "duckdb://" prefix if present.
	dsn = strings.TrimPrefix(dsn, "duckdb://")
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("duckdb: open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("duckdb: ping: %w", err)
	}

	// information_schema filters on the catalog name, which is the file's
	// base name without extension (or "memory").
	var catalog string
	if err := db.QueryRowContext(ctx, "SELECT current_database()").Scan(&catalog); err != nil {
		db.Close()
		return nil, fmt.Errorf("duckdb: current database: %w", err)
	}

	return &duckdbConn{
		db:      db,
		catalog: catalog,
	}, nil
}

// ---------------------------------------------------------------------------
// Connection
// ---------------------------------------------------------------------------

type duckdbConn struct {
	db      *sql.DB
	catalog string
}

func (c *duckdbConn) DatabaseName() string  { return c.catalog }
func (c *duckdbConn) AdapterName() string   { return "duckdb" }
func (c *duckdbConn) DefaultSchema() string { return "main" }

func (c *duckdbConn) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *duckdbConn) Close() error {
	return c.db.Close()
}

// ---------------------------------------------------------------------------
// Introspection
// ---------------------------------------------------------------------------

func (c *duckdbConn) Tables(ctx context.Context, db, schemaName string) ([]schema.Table, error) {
	query := `SELECT table_name
		FROM information_schema.tables
		WHERE table_catalog = ? AND table_schema = ?
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`
	rows, err := c.db.QueryContext(ctx, query, db, schemaName)
	if err != nil {
		return nil, fmt.Errorf("duckdb: tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("duckdb: tables scan: %w", err)
		}
		tables = append(tables, schema.Table{Name: name})
	}
	return tables, rows.Err()
}

func (c *duckdbConn) Columns(ctx context.Context, db, schemaName, table string) ([]schema.Column, error) {
	query := `SELECT column_name,
			data_type,
			CASE WHEN is_nullable = 'YES' THEN true ELSE false END,
			COALESCE(column_default, ''),
			CASE WHEN column_name IN (
				SELECT kcu.column_name
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
				  ON tc.constraint_name = kcu.constraint_name
				  AND tc.table_catalog = kcu.table_catalog
				  AND tc.table_schema = kcu.table_schema
				WHERE tc.constraint_type = 'PRIMARY KEY'
				  AND tc.table_catalog = ?
				  AND tc.table_schema = ?
				  AND tc.table_name = ?
			) THEN true ELSE false END
		FROM information_schema.columns
		WHERE table_catalog = ? AND table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`
	rows, err := c.db.QueryContext(ctx, query, db, schemaName, table, db, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("duckdb: columns: %w", err)
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var col schema.Column
		if err := rows.Scan(&col.Name, &col.Type, &col.Nullable, &col.Default, &col.IsPK); err != nil {
			return nil, fmt.Errorf("duckdb: columns scan: %w", err)
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (c *duckdbConn) ForeignKeys(ctx context.Context, db, schemaName, table string) ([]schema.ForeignKey, error) {
	query := `SELECT
			rc.constraint_name,
			kcu.column_name,
			kcu2.table_name AS ref_table,
			kcu2.column_name AS ref_column
		FROM information_schema.referential_constraints rc
		JOIN information_schema.key_column_usage kcu
		  ON rc.constraint_catalog = kcu.constraint_catalog
		  AND rc.constraint_schema = kcu.constraint_schema
		  AND rc.constraint_name = kcu.constraint_name
		JOIN information_schema.key_column_usage kcu2
		  ON rc.unique_constraint_catalog = kcu2.constraint_catalog
		  AND rc.unique_constraint_schema = kcu2.constraint_schema
		  AND rc.unique_constraint_name = kcu2.constraint_name
		  AND kcu.ordinal_position = kcu2.ordinal_position
		WHERE kcu.table_catalog = ? AND kcu.table_schema = ? AND kcu.table_name = ?
		ORDER BY rc.constraint_name, kcu.ordinal_position`
	rows, err := c.db.QueryContext(ctx, query, db, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("duckdb: foreign keys: %w", err)
	}
	defer rows.Close()

	fkMap := map[string]*schema.ForeignKey{}
	var fkOrder []string
	for rows.Next() {
		var name, col, refTable, refCol string
		if err := rows.Scan(&name, &col, &refTable, &refCol); err != nil {
			return nil, fmt.Errorf("duckdb: foreign keys scan: %w", err)
		}
		fk, ok := fkMap[name]
		if !ok {
			fk = &schema.ForeignKey{Name: name, RefTable: refTable}
			fkMap[name] = fk
			fkOrder = append(fkOrder, name)
		}
		fk.Columns = append(fk.Columns, col)
		fk.RefColumns = append(fk.RefColumns, refCol)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fks := make([]schema.ForeignKey, 0, len(fkOrder))
	for _, name := range fkOrder {
		fks = append(fks, *fkMap[name])
	}
	return fks, nil
}

