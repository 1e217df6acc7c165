package dsl

import (
	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/internal/jsonvalue"
	js "github.com/reoring/jskema/jsonschema"
)

// DecoratedKind classifies a Decorated node.
type DecoratedKind int

const (
	Annotated DecoratedKind = iota // metadata only
	OptionalKind
	NullableKind
	OptionalNullableKind
)

func (k DecoratedKind) String() string {
	switch k {
	case OptionalKind:
		return "Optional"
	case NullableKind:
		return "Nullable"
	case OptionalNullableKind:
		return "OptionalNullable"
	default:
		return "Annotated"
	}
}

// Modifiers are the decorations a Decorated node applies over its inner
// node. Meta values override the inner node's metadata field by field.
type Modifiers struct {
	Optional      bool
	Nullable      bool
	Meta          jskema.Meta
	SchemaVersion string
	ID            string
	DynamicAnchor string
	Comment       string
	Defs          map[string]jskema.Node
}

// Decorated wraps exactly one node with Modifiers. Every modifier function
// applied to a Decorated node returns a new Decorated over the same inner
// node, so decorations merge instead of nesting: Nullable(Optional(n)) is a
// single node of kind OptionalNullable.
type Decorated struct {
	inner jskema.Node
	mods  Modifiers
}

// Inner returns the undecorated node.
func (d Decorated) Inner() jskema.Node { return d.inner }

// Modifiers returns a copy of the decorations.
func (d Decorated) Modifiers() Modifiers { return d.mods.clone() }

// WithInner returns d's modifiers applied to another node.
func (d Decorated) WithInner(n jskema.Node) Decorated {
	return Decorated{inner: Unwrap(n), mods: d.mods.clone()}
}

// Kind reports the optional/nullable combination.
func (d Decorated) Kind() DecoratedKind {
	switch {
	case d.mods.Optional && d.mods.Nullable:
		return OptionalNullableKind
	case d.mods.Optional:
		return OptionalKind
	case d.mods.Nullable:
		return NullableKind
	default:
		return Annotated
	}
}

// DynamicAnchor implements jskema.Anchored.
func (d Decorated) DynamicAnchor() string { return d.mods.DynamicAnchor }

// Meta returns the inner metadata overlaid with this node's overrides.
func (d Decorated) Meta() jskema.Meta {
	m := d.inner.Meta()
	o := d.mods.Meta
	if o.Title != "" {
		m.Title = o.Title
	}
	if o.Description != "" {
		m.Description = o.Description
	}
	if o.HasDefault {
		m.Default, m.HasDefault = o.Default, true
	}
	if o.Examples != nil {
		m.Examples = append([]any(nil), o.Examples...)
	}
	m.ReadOnly = m.ReadOnly || o.ReadOnly
	m.WriteOnly = m.WriteOnly || o.WriteOnly
	m.Deprecated = m.Deprecated || o.Deprecated
	return m
}

// JSONSchema renders the inner document, widens it to accept null when
// nullable, then attaches metadata and core keywords. Optional leaves no
// trace in the node's own document; it only affects the parent's required
// list.
func (d Decorated) JSONSchema() *js.Schema {
	s := d.inner.JSONSchema()
	if d.mods.Nullable {
		s = nullable(s)
	}
	if !d.mods.annotates() {
		return s
	}
	s = objectify(s)
	d.Meta().Apply(s)
	if d.mods.SchemaVersion != "" {
		s.SchemaURI = d.mods.SchemaVersion
	}
	if d.mods.ID != "" {
		s.ID = d.mods.ID
	}
	if d.mods.DynamicAnchor != "" {
		s.DynamicAnchor = d.mods.DynamicAnchor
	}
	if d.mods.Comment != "" {
		s.Comment = d.mods.Comment
	}
	s.Defs = renderDefs(d.mods.Defs, s.Defs)
	return s
}

// nullable widens a document to accept null: a single type gains "null"
// (and enum gains null), anything else is wrapped in anyOf.
func nullable(s *js.Schema) *js.Schema {
	if s.IsBool() && *s.Bool {
		return s
	}
	if !s.IsBool() && len(s.Type) == 1 && s.Const == nil {
		if s.Type[0] == jsonvalue.Null {
			return s
		}
		s.Type = js.Types{s.Type[0], jsonvalue.Null}
		if s.Enum != nil && !contains(s.Enum, nil) {
			s.Enum = append(s.Enum, nil)
		}
		return s
	}
	return &js.Schema{AnyOf: []*js.Schema{s, {Type: js.Types{jsonvalue.Null}}}}
}

func (d Decorated) Validate(v any, vc jskema.Context) jskema.Result {
	if d.mods.Nullable && v == nil {
		return jskema.Valid()
	}
	return d.inner.Validate(v, vc.WithDefs(d.mods.Defs))
}

// annotates reports whether m carries anything besides optional/nullable.
func (m Modifiers) annotates() bool {
	meta := m.Meta
	return meta.Title != "" || meta.Description != "" || meta.HasDefault || meta.Examples != nil ||
		meta.ReadOnly || meta.WriteOnly || meta.Deprecated ||
		m.SchemaVersion != "" || m.ID != "" || m.DynamicAnchor != "" || m.Comment != "" || len(m.Defs) > 0
}

func (m Modifiers) clone() Modifiers {
	if m.Meta.Examples != nil {
		m.Meta.Examples = append([]any(nil), m.Meta.Examples...)
	}
	m.Defs = copyDefs(m.Defs)
	return m
}

// decorate applies f to the modifiers of n, reusing n's inner node when n is
// already Decorated.
func decorate(n jskema.Node, f func(*Modifiers)) Decorated {
	d, ok := n.(Decorated)
	if !ok {
		d = Decorated{inner: n}
	}
	d.mods = d.mods.clone()
	f(&d.mods)
	return d
}

// IsOptional reports whether n is excluded from its parent's required list.
func IsOptional(n jskema.Node) bool {
	d, ok := n.(Decorated)
	return ok && d.mods.Optional
}

// IsNullable reports whether n accepts null through a Nullable decoration.
func IsNullable(n jskema.Node) bool {
	d, ok := n.(Decorated)
	return ok && d.mods.Nullable
}

// Unwrap returns the node under any decoration.
func Unwrap(n jskema.Node) jskema.Node {
	if d, ok := n.(Decorated); ok {
		return d.inner
	}
	return n
}

// Optional marks n as not required in its parent object.
func Optional(n jskema.Node) Decorated { return decorate(n, func(m *Modifiers) { m.Optional = true }) }

// Nullable lets n accept null.
func Nullable(n jskema.Node) Decorated { return decorate(n, func(m *Modifiers) { m.Nullable = true }) }

// OptionalNullable combines Optional and Nullable.
func OptionalNullable(n jskema.Node) Decorated {
	return decorate(n, func(m *Modifiers) { m.Optional, m.Nullable = true, true })
}

// Default sets the default value. A property with a default is not required.
func Default(n jskema.Node, v any) Decorated {
	return decorate(n, func(m *Modifiers) { m.Meta.Default, m.Meta.HasDefault = v, true })
}

// Title sets the title annotation.
func Title(n jskema.Node, title string) Decorated {
	return decorate(n, func(m *Modifiers) { m.Meta.Title = title })
}

// Description sets the description annotation.
func Description(n jskema.Node, desc string) Decorated {
	return decorate(n, func(m *Modifiers) { m.Meta.Description = desc })
}

// Examples replaces the example values.
func Examples(n jskema.Node, examples ...any) Decorated {
	return decorate(n, func(m *Modifiers) { m.Meta.Examples = append([]any{}, examples...) })
}

// ReadOnly marks the value as managed by the owner of the data.
func ReadOnly(n jskema.Node) Decorated {
	return decorate(n, func(m *Modifiers) { m.Meta.ReadOnly = true })
}

// WriteOnly marks the value as never returned by the owner of the data.
func WriteOnly(n jskema.Node) Decorated {
	return decorate(n, func(m *Modifiers) { m.Meta.WriteOnly = true })
}

// Deprecated marks the value as deprecated.
func Deprecated(n jskema.Node) Decorated {
	return decorate(n, func(m *Modifiers) { m.Meta.Deprecated = true })
}

// SchemaVersion sets $schema, normally js.Draft202012 on a root node.
func SchemaVersion(n jskema.Node, uri string) Decorated {
	return decorate(n, func(m *Modifiers) { m.SchemaVersion = uri })
}

// ID sets $id.
func ID(n jskema.Node, id string) Decorated {
	return decorate(n, func(m *Modifiers) { m.ID = id })
}

// DynamicAnchor sets $dynamicAnchor; DynamicRef nodes resolve against it.
func DynamicAnchor(n jskema.Node, anchor string) Decorated {
	return decorate(n, func(m *Modifiers) { m.DynamicAnchor = anchor })
}

// Comment sets $comment.
func Comment(n jskema.Node, c string) Decorated {
	return decorate(n, func(m *Modifiers) { m.Comment = c })
}

// WithDefs adds definitions to n; they are in scope for references inside n.
func WithDefs(n jskema.Node, defs map[string]jskema.Node) Decorated {
	return decorate(n, func(m *Modifiers) {
		if m.Defs == nil {
			m.Defs = map[string]jskema.Node{}
		}
		for k, v := range defs {
			m.Defs[k] = v
		}
	})
}
