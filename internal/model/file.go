package model

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a model file.
//
//	models:
//	  - name: User
//	    fields:
//	      - {name: id, type: integer, primary_key: true}
//	      - {name: manager, ref: User}
type File struct {
	Models []FileModel `yaml:"models"`
}

// FileModel is one model entry of a model file.
type FileModel struct {
	Name   string      `yaml:"name"`
	Fields []FileField `yaml:"fields"`
}

// FileField is one field entry of a model file.
type FileField struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	PrimaryKey bool   `yaml:"primary_key"`
	Ref        string `yaml:"ref"`
}

// LoadFile reads a YAML model file from path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	reg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes a YAML model document and registers its models in file order.
func Parse(r io.Reader) (*Registry, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing model file: %w", err)
	}

	reg := NewRegistry()
	for _, fm := range f.Models {
		m := Model{Name: fm.Name, Fields: make([]Field, 0, len(fm.Fields))}
		for _, ff := range fm.Fields {
			field := Field{
				Name:       ff.Name,
				PrimaryKey: ff.PrimaryKey,
				Ref:        ff.Ref,
			}
			switch {
			case ff.Ref != "":
				field.Kind = KindForeignKey
			case ff.Type == "":
				field.Kind = KindOther
			default:
				field.Kind = KindOf(ff.Type)
			}
			// A bare tag like "integer" is shown as the tag itself.
			if ff.Type != "" && Kind(ff.Type) != field.Kind {
				field.Type = ff.Type
			}
			m.Fields = append(m.Fields, field)
		}
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
