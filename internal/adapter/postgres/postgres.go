package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sadopc/schemaviz/internal/adapter"
	"github.com/sadopc/schemaviz/internal/schema"
)

func init() {
	adapter.Register(&postgresAdapter{})
}

// postgresAdapter implements adapter.Adapter for PostgreSQL.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string     { return "postgres" }
func (a *postgresAdapter) DefaultPort() int { return 5432 }

func (a *postgresAdapter) Connect(ctx context.Context, dsn string) (adapter.Connection, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	dbName := extractDBName(dsn)
	if dbName == "" {
		if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres current database: %w", err)
		}
	}

	return &pgConn{
		pool:   pool,
		dbName: dbName,
	}, nil
}

// extractDBName parses the database name from the DSN.
func extractDBName(dsn string) string {
	if dsn == "" {
		return ""
	}
	// Try URL format first (postgres://... or postgresql://...)
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" {
		return strings.TrimPrefix(u.Path, "/")
	}
	// Fallback: keyword=value format (e.g. "host=localhost dbname=myapp")
	for _, part := range strings.Fields(dsn) {
		if strings.HasPrefix(part, "dbname=") {
			return strings.TrimPrefix(part, "dbname=")
		}
	}
	return ""
}

// pgConn implements adapter.Connection for PostgreSQL.
type pgConn struct {
	pool   *pgxpool.Pool
	dbName string
}

func (c *pgConn) DatabaseName() string  { return c.dbName }
func (c *pgConn) AdapterName() string   { return "postgres" }
func (c *pgConn) DefaultSchema() string { return "public" }

func (c *pgConn) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *pgConn) Close() error {
	c.pool.Close()
	return nil
}

func (c *pgConn) Tables(ctx context.Context, db, schemaName string) ([]schema.Table, error) {
	if schemaName == "" {
		schemaName = "public"
	}

	rows, err := c.pool.Query(ctx,
		`SELECT table_name
		 FROM information_schema.tables
		 WHERE table_catalog = $1
		   AND table_schema  = $2
		   AND table_type    = 'BASE TABLE'
		 ORDER BY table_name`, db, schemaName)
	if err != nil {
		return nil, fmt.Errorf("tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("tables scan: %w", err)
		}
		tables = append(tables, schema.Table{Name: name})
	}
	return tables, rows.Err()
}

func (c *pgConn) Columns(ctx context.Context, db, schemaName, table string) ([]schema.Column, error) {
	if schemaName == "" {
		schemaName = "public"
	}

	pkSet, err := c.primaryKeyColumns(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}

	rows, err := c.pool.Query(ctx,
		`SELECT column_name,
		        data_type,
		        is_nullable,
		        COALESCE(column_default, '')
		 FROM information_schema.columns
		 WHERE table_catalog = $1
		   AND table_schema  = $2
		   AND table_name    = $3
		 ORDER BY ordinal_position`, db, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var (
			name, dtype, nullable, dflt string
		)
		if err := rows.Scan(&name, &dtype, &nullable, &dflt); err != nil {
			return nil, fmt.Errorf("columns scan: %w", err)
		}
		cols = append(cols, schema.Column{
			Name:     name,
			Type:     dtype,
			Nullable: nullable == "YES",
			Default:  dflt,
			IsPK:     pkSet[name],
		})
	}
	return cols, rows.Err()
}

// primaryKeyColumns returns a set of column names that belong to the primary key.
func (c *pgConn) primaryKeyColumns(ctx context.Context, schemaName, table string) (map[string]bool, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT a.attname
		 FROM pg_index i
		 JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
		 WHERE i.indrelid = (quote_ident($1) || '.' || quote_ident($2))::regclass
		   AND i.indisprimary`, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("primary keys: %w", err)
	}
	defer rows.Close()

	pk := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("primary keys scan: %w", err)
		}
		pk[name] = true
	}
	return pk, rows.Err()
}

// ForeignKeys reads constraints from pg_constraint so that composite keys keep
// their column pairing and self references are reported once per column.
func (c *pgConn) ForeignKeys(ctx context.Context, db, schemaName, table string) ([]schema.ForeignKey, error) {
	if schemaName == "" {
		schemaName = "public"
	}

	rows, err := c.pool.Query(ctx,
		`SELECT con.conname,
		        src.attname,
		        ref.relname,
		        dst.attname
		 FROM pg_constraint con
		 JOIN pg_class      rel ON rel.oid = con.conrelid
		 JOIN pg_namespace  ns  ON ns.oid  = rel.relnamespace
		 JOIN pg_class      ref ON ref.oid = con.confrelid
		 JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS k(src_num, dst_num, n) ON true
		 JOIN pg_attribute  src ON src.attrelid = con.conrelid  AND src.attnum = k.src_num
		 JOIN pg_attribute  dst ON dst.attrelid = con.confrelid AND dst.attnum = k.dst_num
		 WHERE con.contype = 'f'
		   AND ns.nspname  = $1
		   AND rel.relname = $2
		 ORDER BY con.conname, k.n`, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("foreign keys: %w", err)
	}
	defer rows.Close()

	// Group by constraint name.
	fkMap := make(map[string]*schema.ForeignKey)
	var fkOrder []string
	for rows.Next() {
		var cname, col, refTable, refCol string
		if err := rows.Scan(&cname, &col, &refTable, &refCol); err != nil {
			return nil, fmt.Errorf("foreign keys scan: %w", err)
		}
		fk, ok := fkMap[cname]
		if !ok {
			fk = &schema.ForeignKey{Name: cname, RefTable: refTable}
			fkMap[cname] = fk
			fkOrder = append(fkOrder, cname)
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
