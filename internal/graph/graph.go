// Package graph turns schema models into a Graphviz dot document. Each model
// becomes a plaintext node with an HTML-like table label listing its fields,
// and each foreign-key field becomes an edge from the referencing model to
// the referenced one.
package graph

import (
	"github.com/sadopc/schemaviz/internal/model"
)

// DefaultName is the digraph identifier used when Graph.Name is empty.
const DefaultName = "schema_models"

// Graph is the in-memory form of a diagram.
type Graph struct {
	Name  string
	Nodes []Node
	Edges []Edge
}

// Node is one model box.
type Node struct {
	Name   string
	Fields []model.Field
}

// Edge is a foreign key from From.Field to To.
type Edge struct {
	From  string
	To    string
	Field string
}

// SelfLoop reports whether the edge references its own model.
func (e Edge) SelfLoop() bool { return e.From == e.To }

// Build creates a graph with one node per model and one edge per foreign-key
// field, both in input order. Edges to models missing from the input are kept.
func Build(models []model.Model) *Graph {
	g := &Graph{
		Name:  DefaultName,
		Nodes: make([]Node, 0, len(models)),
	}
	for _, m := range models {
		fields := make([]model.Field, len(m.Fields))
		copy(fields, m.Fields)
		g.Nodes = append(g.Nodes, Node{Name: m.Name, Fields: fields})

		for _, f := range m.Fields {
			if f.IsForeignKey() {
				g.Edges = append(g.Edges, Edge{From: m.Name, To: f.Ref, Field: f.Name})
			}
		}
	}
	return g
}

// OutDegree returns the number of edges leaving the named node.
func (g *Graph) OutDegree(name string) int {
	n := 0
	for _, e := range g.Edges {
		if e.From == name {
			n++
		}
	}
	return n
}
