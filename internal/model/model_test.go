package model

import (
	"errors"
	"testing"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Model{Name: "User"}); err != nil {
		t.Fatalf("Register(User) error: %v", err)
	}
	if err := reg.Register(Model{Name: "Tweet", Fields: []Field{{Name: "user", Kind: KindForeignKey, Ref: "User"}}}); err != nil {
		t.Fatalf("Register(Tweet) error: %v", err)
	}

	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
	names := reg.Names()
	if names[0] != "User" || names[1] != "Tweet" {
		t.Errorf("Names() = %v, want registration order [User Tweet]", names)
	}
	m, ok := reg.Lookup("Tweet")
	if !ok || len(m.Fields) != 1 {
		t.Errorf("Lookup(Tweet) = %+v, %v", m, ok)
	}
	if _, ok := reg.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) should report false")
	}
}

func TestRegistry_RegisterErrors(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		want  error
	}{
		{"empty name", Model{}, ErrInvalidModel},
		{"unnamed field", Model{Name: "B", Fields: []Field{{Type: "int"}}}, ErrInvalidModel},
		{"repeated field", Model{Name: "C", Fields: []Field{{Name: "id"}, {Name: "id"}}}, ErrInvalidModel},
		{"fk without ref", Model{Name: "D", Fields: []Field{{Name: "x", Kind: KindForeignKey}}}, ErrInvalidModel},
		{"duplicate", Model{Name: "A"}, ErrDuplicateModel},
	}

	reg := NewRegistry()
	if err := reg.Register(Model{Name: "A"}); err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.model)
			if !errors.Is(err, tt.want) {
				t.Errorf("Register() error = %v, want %v", err, tt.want)
			}
		})
	}
	if reg.Len() != 1 {
		t.Errorf("failed registrations changed Len() to %d", reg.Len())
	}
}

func TestRegistry_ModelsIsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Model{Name: "A"})
	models := reg.Models()
	models[0].Name = "changed"
	if m, _ := reg.Lookup("A"); m.Name != "A" {
		t.Error("mutating Models() result changed the registry")
	}
}

func TestDanglingRefs(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Model{Name: "Post", Fields: []Field{
		{Name: "author", Kind: KindForeignKey, Ref: "Author"},
		{Name: "parent", Kind: KindForeignKey, Ref: "Post"},
	}})

	got := reg.DanglingRefs()
	if len(got) != 1 {
		t.Fatalf("DanglingRefs() = %v, want one entry", got)
	}
	want := Dangling{Model: "Post", Field: "author", Ref: "Author"}
	if got[0] != want {
		t.Errorf("DanglingRefs()[0] = %+v, want %+v", got[0], want)
	}
}

func TestField_DisplayType(t *testing.T) {
	if got := (Field{Type: "VARCHAR(32)", Kind: KindText}).DisplayType(); got != "VARCHAR(32)" {
		t.Errorf("DisplayType() = %q, want source type", got)
	}
	if got := (Field{Kind: KindBoolean}).DisplayType(); got != "boolean" {
		t.Errorf("DisplayType() = %q, want kind", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"INTEGER", KindInteger},
		{"bigint unsigned", KindInteger},
		{"varchar(255)", KindText},
		{"character varying", KindText},
		{"CHARACTER VARYING(64)", KindText},
		{"numeric(10,2)", KindFloat},
		{"double precision", KindFloat},
		{"BOOLEAN", KindBoolean},
		{"timestamp(6) with time zone", KindDateTime},
		{"timestamptz", KindDateTime},
		{"bytea", KindBinary},
		{"jsonb", KindJSON},
		{"uuid", KindUUID},
		{"integer[]", KindInteger},
		{"INTEGER PRIMARY KEY AUTOINCREMENT", KindInteger},
		{"foreign_key", KindForeignKey},
		{"geometry", KindOther},
		{"", KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := KindOf(tt.in); got != tt.want {
				t.Errorf("KindOf(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
