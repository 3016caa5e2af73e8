package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sadopc/schemaviz/internal/schema"
)

var (
	ErrNotConnected   = errors.New("not connected to database")
	ErrUnknownAdapter = errors.New("unknown adapter")
)

// Adapter creates database connections.
type Adapter interface {
	Connect(ctx context.Context, dsn string) (Connection, error)
	Name() string
	DefaultPort() int
}

// Connection represents an open catalog connection.
type Connection interface {
	// Introspection
	Tables(ctx context.Context, db, schemaName string) ([]schema.Table, error)
	Columns(ctx context.Context, db, schemaName, table string) ([]schema.Column, error)
	ForeignKeys(ctx context.Context, db, schemaName, table string) ([]schema.ForeignKey, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Info
	DatabaseName() string
	AdapterName() string
	DefaultSchema() string
}

// BatchIntrospector is implemented by connections that can load the columns
// and foreign keys of a whole schema in one query each.
type BatchIntrospector interface {
	AllColumns(ctx context.Context, db, schemaName string) (map[string][]schema.Column, error)
	AllForeignKeys(ctx context.Context, db, schemaName string) (map[string][]schema.ForeignKey, error)
}

// Registry holds registered adapters by name.
var Registry = map[string]Adapter{}

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	Registry[a.Name()] = a
}

// Get returns the adapter registered under name.
func Get(name string) (Adapter, error) {
	a, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownAdapter, name, Names())
	}
	return a, nil
}

// Names returns the registered adapter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Introspect loads every table of schemaName together with its columns and
// foreign keys. An empty schemaName selects the connection's default schema.
// Tables are returned sorted by name.
func Introspect(ctx context.Context, conn Connection, schemaName string) ([]schema.Table, error) {
	if conn == nil {
		return nil, ErrNotConnected
	}
	if schemaName == "" {
		schemaName = conn.DefaultSchema()
	}
	db := conn.DatabaseName()

	tables, err := conn.Tables(ctx, db, schemaName)
	if err != nil {
		return nil, fmt.Errorf("introspect tables: %w", err)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })

	if batch, ok := conn.(BatchIntrospector); ok {
		cols, err := batch.AllColumns(ctx, db, schemaName)
		if err != nil {
			return nil, fmt.Errorf("introspect columns: %w", err)
		}
		fks, err := batch.AllForeignKeys(ctx, db, schemaName)
		if err != nil {
			return nil, fmt.Errorf("introspect foreign keys: %w", err)
		}
		for i := range tables {
			tables[i].Columns = cols[tables[i].Name]
			tables[i].FKs = fks[tables[i].Name]
		}
		return tables, nil
	}

	for i := range tables {
		name := tables[i].Name
		cols, err := conn.Columns(ctx, db, schemaName, name)
		if err != nil {
			return nil, fmt.Errorf("introspect columns of %s: %w", name, err)
		}
		fks, err := conn.ForeignKeys(ctx, db, schemaName, name)
		if err != nil {
			return nil, fmt.Errorf("introspect foreign keys of %s: %w", name, err)
		}
		tables[i].Columns = cols
		tables[i].FKs = fks
	}
	return tables, nil
}
