// Package schema holds the catalog structures returned by database
// introspection, before they are turned into models.
package schema

// Table represents a database table.
type Table struct {
	Name    string
	Columns []Column
	FKs     []ForeignKey
}

// Column represents a table column.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
	IsPK     bool
}

// ForeignKey represents a foreign key constraint.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
}

// ForeignKeyFor returns the foreign key whose first column is col.
// Composite keys are reported on their leading column only.
func (t Table) ForeignKeyFor(col string) (ForeignKey, bool) {
	for _, fk := range t.FKs {
		if len(fk.Columns) > 0 && fk.Columns[0] == col {
			return fk, true
		}
	}
	return ForeignKey{}, false
}
