package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sadopc/schemaviz/internal/adapter"
)

// Default DSN for a local PostgreSQL.
// Override with SCHEMAVIZ_PG_DSN env var.
const defaultTestDSN = "postgres://localhost:5432/schemaviz_test?sslmode=disable"

func testDSN() string {
	if dsn := os.Getenv("SCHEMAVIZ_PG_DSN"); dsn != "" {
		return dsn
	}
	return defaultTestDSN
}

// setupSchema creates an isolated schema with a small catalog and returns a
// connection plus the schema name.
func setupSchema(t *testing.T) (adapter.Connection, string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	raw, err := pgx.Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping: cannot connect to PostgreSQL: %v", err)
	}
	defer raw.Close(ctx)

	const ns = "schemaviz_it"
	ddl := []string{
		`DROP SCHEMA IF EXISTS ` + ns + ` CASCADE`,
		`CREATE SCHEMA ` + ns,
		`CREATE TABLE ` + ns + `.employees (
			id         SERIAL PRIMARY KEY,
			name       TEXT NOT NULL,
			manager_id INTEGER REFERENCES ` + ns + `.employees(id)
		)`,
		`CREATE TABLE ` + ns + `.badges (
			code        VARCHAR(16) PRIMARY KEY,
			employee_id INTEGER NOT NULL REFERENCES ` + ns + `.employees(id),
			issued_at   TIMESTAMPTZ DEFAULT NOW()
		)`,
	}
	for _, stmt := range ddl {
		if _, err := raw.Exec(ctx, stmt); err != nil {
			t.Fatalf("setup %q: %v", stmt, err)
		}
	}
	t.Cleanup(func() {
		ctx := context.Background()
		if c, err := pgx.Connect(ctx, testDSN()); err == nil {
			c.Exec(ctx, `DROP SCHEMA IF EXISTS `+ns+` CASCADE`)
			c.Close(ctx)
		}
	})

	conn, err := (&postgresAdapter{}).Connect(ctx, testDSN())
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, ns
}

func TestIntegration_Introspect(t *testing.T) {
	conn, ns := setupSchema(t)

	tables, err := adapter.Introspect(context.Background(), conn, ns)
	if err != nil {
		t.Fatalf("Introspect() error: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("Introspect() returned %d tables, want 2", len(tables))
	}
	if tables[0].Name != "badges" || tables[1].Name != "employees" {
		t.Fatalf("tables = %s, %s; want badges, employees", tables[0].Name, tables[1].Name)
	}

	badges := tables[0]
	if len(badges.Columns) != 3 {
		t.Fatalf("badges has %d columns, want 3", len(badges.Columns))
	}
	if !badges.Columns[0].IsPK {
		t.Error("badges.code should be the primary key")
	}
	fk, ok := badges.ForeignKeyFor("employee_id")
	if !ok || fk.RefTable != "employees" {
		t.Errorf("badges.employee_id fk = %+v, %v; want ref employees", fk, ok)
	}

	employees := tables[1]
	if len(employees.FKs) != 1 {
		t.Fatalf("employees has %d fks, want 1", len(employees.FKs))
	}
	self := employees.FKs[0]
	if self.RefTable != "employees" || self.Columns[0] != "manager_id" || self.RefColumns[0] != "id" {
		t.Errorf("self reference = %+v", self)
	}
}
