package jskema

import (
	js "github.com/reoring/jskema/jsonschema"
)

// Node is one element of an immutable JSON Schema tree.
//
// JSONSchema projects the node into its wire document; it is pure and returns a
// fresh value on every call. Validate checks a decoded JSON value (nil, bool,
// string, json.Number or float64, []any, map[string]any) and reports every
// violation relative to vc's path. Neither method mutates the node, so one tree
// may be shared by any number of goroutines.
type Node interface {
	JSONSchema() *js.Schema
	Validate(v any, vc Context) Result
	Meta() Meta
}

// Meta holds annotation keywords. Wrapped nodes resolve Meta by delegating to
// the inner node and overlaying their own values.
type Meta struct {
	Title       string
	Description string
	Default     any
	HasDefault  bool
	Examples    []any
	ReadOnly    bool
	WriteOnly   bool
	Deprecated  bool
}

// Apply writes the metadata onto a document.
func (m Meta) Apply(s *js.Schema) {
	if s == nil || s.IsBool() {
		return
	}
	if m.Title != "" {
		s.Title = m.Title
	}
	if m.Description != "" {
		s.Description = m.Description
	}
	if m.HasDefault {
		s.Default = js.Lit(m.Default)
	}
	if len(m.Examples) > 0 {
		s.Examples = append([]any(nil), m.Examples...)
	}
	if m.ReadOnly {
		s.ReadOnly = true
	}
	if m.WriteOnly {
		s.WriteOnly = true
	}
	if m.Deprecated {
		s.Deprecated = true
	}
}

// Validate checks v against n starting at the root path, with n as the root
// for "#" references.
func Validate(n Node, v any) Result {
	return n.Validate(v, NewContext().WithRoot(n))
}

// Is reports whether v conforms to n.
func Is(n Node, v any) bool { return Validate(n, v).IsValid() }

// Document renders n as canonical JSON.
func Document(n Node) ([]byte, error) { return js.Marshal(n.JSONSchema()) }

// DocumentYAML renders n as YAML.
func DocumentYAML(n Node) ([]byte, error) { return js.ToYAML(n.JSONSchema()) }
