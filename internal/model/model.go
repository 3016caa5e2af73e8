// Package model holds the declared schema models that get drawn: an ordered
// registry of models, each with an ordered list of fields, where foreign-key
// fields point at another model by name.
package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateModel is returned when a model name is registered twice.
	ErrDuplicateModel = errors.New("duplicate model")
	// ErrInvalidModel is returned for models or fields without a name.
	ErrInvalidModel = errors.New("invalid model")
)

// Model is one schema model (a table).
type Model struct {
	Name   string
	Fields []Field
}

// Field is a single column of a model.
type Field struct {
	Name string
	// Type is the type as declared by the source, e.g. "VARCHAR(255)".
	Type       string
	Kind       Kind
	PrimaryKey bool
	// Ref names the referenced model. Only set for foreign keys.
	Ref string
}

// IsForeignKey reports whether the field references another model.
func (f Field) IsForeignKey() bool {
	return f.Ref != ""
}

// DisplayType is the type label shown next to the field name.
func (f Field) DisplayType() string {
	if f.Type != "" {
		return f.Type
	}
	return string(f.Kind)
}

// ForeignKeys returns the foreign-key fields of m in declaration order.
func (m Model) ForeignKeys() []Field {
	var fks []Field
	for _, f := range m.Fields {
		if f.IsForeignKey() {
			fks = append(fks, f)
		}
	}
	return fks
}

// Registry is an ordered set of models keyed by name.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	models []Model
	index  map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends m to the registry.
func (r *Registry) Register(m Model) error {
	if m.Name == "" {
		return fmt.Errorf("%w: model without a name", ErrInvalidModel)
	}
	if _, ok := r.index[m.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, m.Name)
	}
	seen := make(map[string]bool, len(m.Fields))
	for i, f := range m.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: %s field #%d has no name", ErrInvalidModel, m.Name, i+1)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %s.%s declared twice", ErrInvalidModel, m.Name, f.Name)
		}
		if f.Kind == KindForeignKey && f.Ref == "" {
			return fmt.Errorf("%w: %s.%s is a foreign key without a reference", ErrInvalidModel, m.Name, f.Name)
		}
		seen[f.Name] = true
	}
	r.index[m.Name] = len(r.models)
	r.models = append(r.models, m)
	return nil
}

// Models returns the registered models in registration order.
// The returned slice is a copy.
func (r *Registry) Models() []Model {
	out := make([]Model, len(r.models))
	copy(out, r.models)
	return out
}

// Lookup returns the model registered under name.
func (r *Registry) Lookup(name string) (Model, bool) {
	i, ok := r.index[name]
	if !ok {
		return Model{}, false
	}
	return r.models[i], true
}

// Len returns the number of registered models.
func (r *Registry) Len() int { return len(r.models) }

// Names returns the model names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.models))
	for i, m := range r.models {
		names[i] = m.Name
	}
	return names
}

// Dangling describes a foreign key whose target is not registered.
type Dangling struct {
	Model string
	Field string
	Ref   string
}

// DanglingRefs lists foreign keys that point at models missing from r.
func (r *Registry) DanglingRefs() []Dangling {
	var out []Dangling
	for _, m := range r.models {
		for _, f := range m.ForeignKeys() {
			if _, ok := r.index[f.Ref]; !ok {
				out = append(out, Dangling{Model: m.Name, Field: f.Name, Ref: f.Ref})
			}
		}
	}
	return out
}
