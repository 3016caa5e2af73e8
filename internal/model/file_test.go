package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const blogModels = `
models:
  - name: User
    fields:
      - {name: id, type: integer, primary_key: true}
      - {name: username, type: varchar(64)}
      - {name: manager, ref: User}
  - name: Tweet
    fields:
      - {name: id, type: integer, primary_key: true}
      - {name: user, type: foreign_key, ref: User}
      - {name: content, type: text}
  - name: Empty
`

func TestParse(t *testing.T) {
	reg, err := Parse(strings.NewReader(blogModels))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := reg.Names(); len(got) != 3 || got[0] != "User" || got[2] != "Empty" {
		t.Fatalf("Names() = %v", got)
	}

	user, _ := reg.Lookup("User")
	if f := user.Fields[0]; !f.PrimaryKey || f.Kind != KindInteger || f.DisplayType() != "integer" {
		t.Errorf("User.id = %+v", f)
	}
	if f := user.Fields[1]; f.Kind != KindText || f.DisplayType() != "varchar(64)" {
		t.Errorf("User.username = %+v", f)
	}
	if f := user.Fields[2]; f.Kind != KindForeignKey || f.Ref != "User" {
		t.Errorf("ref without type should be a foreign key, got %+v", f)
	}

	tweet, _ := reg.Lookup("Tweet")
	if f := tweet.Fields[1]; f.DisplayType() != "foreign_key" || f.Ref != "User" {
		t.Errorf("Tweet.user = %+v", f)
	}

	empty, _ := reg.Lookup("Empty")
	if len(empty.Fields) != 0 {
		t.Errorf("Empty has %d fields, want 0", len(empty.Fields))
	}
}

func TestParse_Empty(t *testing.T) {
	reg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse(empty) error: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "models:\n  - name: A\n    colour: red\n"},
		{"bad yaml", "models: [\n"},
		{"duplicate model", "models:\n  - name: A\n  - name: A\n"},
		{"fk without ref", "models:\n  - name: A\n    fields:\n      - {name: b, type: foreign_key}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.doc)); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}

	_, err := Parse(strings.NewReader("models:\n  - name: A\n  - name: A\n"))
	if !errors.Is(err, ErrDuplicateModel) {
		t.Errorf("duplicate error = %v, want ErrDuplicateModel", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte(blogModels), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFile() on a missing file should fail")
	}
}
