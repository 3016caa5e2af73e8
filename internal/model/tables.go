package model

import (
	"fmt"

	"github.com/sadopc/schemaviz/internal/schema"
)

// FromTables builds a registry from introspected tables, in the order given.
// A column that leads a foreign key becomes a foreign-key field referencing
// the key's table. The source type stays available in Field.Type.
func FromTables(tables []schema.Table) (*Registry, error) {
	reg := NewRegistry()
	for _, t := range tables {
		m := Model{Name: t.Name, Fields: make([]Field, 0, len(t.Columns))}
		for _, c := range t.Columns {
			f := Field{
				Name:       c.Name,
				Type:       c.Type,
				Kind:       KindOf(c.Type),
				PrimaryKey: c.IsPK,
			}
			if fk, ok := t.ForeignKeyFor(c.Name); ok {
				f.Kind = KindForeignKey
				f.Ref = fk.RefTable
			}
			m.Fields = append(m.Fields, f)
		}
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	return reg, nil
}
