package dsl

import (
	"strings"

	jskema "github.com/reoring/jskema"
	js "github.com/reoring/jskema/jsonschema"
)

// RefNode points at another node through a JSON Pointer. Supported forms are
// "#" (the root passed to jskema.Validate) and "#/$defs/<name>" or
// "#/definitions/<name>", looked up in the enclosing $defs scopes from the
// innermost outwards.
type RefNode struct{ pointer string }

// Ref returns a reference to pointer.
func Ref(pointer string) RefNode { return RefNode{pointer: pointer} }

// DefRef returns a reference to the definition called name.
func DefRef(name string) RefNode { return RefNode{pointer: "#/$defs/" + jskema.EscapePointerToken(name)} }

// Pointer returns the referenced pointer.
func (n RefNode) Pointer() string { return n.pointer }

func (RefNode) Meta() jskema.Meta        { return jskema.Meta{} }
func (n RefNode) JSONSchema() *js.Schema { return &js.Schema{Ref: n.pointer} }

func (n RefNode) Validate(v any, vc jskema.Context) jskema.Result {
	target, reason := resolvePointer(n.pointer, vc)
	if target == nil {
		return jskema.Invalid(referenceIssue(vc, "$ref", n.pointer, reason))
	}
	return follow(target, "$ref", n.pointer, v, vc)
}

func resolvePointer(pointer string, vc jskema.Context) (jskema.Node, string) {
	if pointer == "#" || pointer == "" {
		if root := vc.Root(); root != nil {
			return root, ""
		}
		return nil, "no root schema"
	}
	frag, ok := strings.CutPrefix(pointer, "#/")
	if !ok {
		return nil, "unsupported pointer"
	}
	section, name, ok := strings.Cut(frag, "/")
	if !ok || (section != "$defs" && section != "definitions") || strings.Contains(name, "/") {
		return nil, "unsupported pointer"
	}
	if target, ok := vc.LookupDef(jskema.UnescapePointerToken(name)); ok {
		return target, ""
	}
	return nil, "unknown definition"
}

// follow validates v against target unless the same reference is already
// being expanded at this instance location.
func follow(target jskema.Node, keyword, pointer string, v any, vc jskema.Context) jskema.Result {
	inner, ok := vc.EnterRef(pointer)
	if !ok {
		return jskema.Invalid(referenceIssue(vc, keyword, pointer, "cyclic reference"))
	}
	return target.Validate(v, inner)
}

func referenceIssue(vc jskema.Context, keyword, pointer, reason string) jskema.Issue {
	return vc.At().Issue(jskema.CodeReference, keyword, "pointer", pointer, "reason", reason)
}

// DynamicRefNode resolves "#anchor" against the outermost $defs scope that
// declares a definition with that $dynamicAnchor (or that name).
type DynamicRefNode struct{ ref string }

// DynamicRef returns a dynamic reference to anchor; a leading '#' is added
// when missing.
func DynamicRef(anchor string) DynamicRefNode {
	if !strings.HasPrefix(anchor, "#") {
		anchor = "#" + anchor
	}
	return DynamicRefNode{ref: anchor}
}

// Anchor returns the anchor name without '#'.
func (n DynamicRefNode) Anchor() string { return strings.TrimPrefix(n.ref, "#") }

func (DynamicRefNode) Meta() jskema.Meta        { return jskema.Meta{} }
func (n DynamicRefNode) JSONSchema() *js.Schema { return &js.Schema{DynamicRef: n.ref} }

func (n DynamicRefNode) Validate(v any, vc jskema.Context) jskema.Result {
	anchor := n.Anchor()
	target, ok := vc.LookupDynamic(anchor)
	if !ok {
		if a, isAnchored := vc.Root().(jskema.Anchored); isAnchored && a.DynamicAnchor() == anchor {
			target, ok = vc.Root(), true
		}
	}
	if !ok {
		return jskema.Invalid(referenceIssue(vc, "$dynamicRef", n.ref, "unknown anchor"))
	}
	return follow(target, "$dynamicRef", n.ref, v, vc)
}

// DefsNode attaches $defs to a body node. During validation the definitions
// are in scope for references inside the body.
type DefsNode struct {
	body jskema.Node
	defs map[string]jskema.Node
}

// Defs returns body with the given definitions. A nil body accepts every
// value.
func Defs(body jskema.Node, defs map[string]jskema.Node) DefsNode {
	if body == nil {
		body = Any()
	}
	return DefsNode{body: body, defs: copyDefs(defs)}
}

// Body returns the wrapped node.
func (n DefsNode) Body() jskema.Node { return n.body }

// Definitions returns a copy of the definitions.
func (n DefsNode) Definitions() map[string]jskema.Node { return copyDefs(n.defs) }

func (n DefsNode) Meta() jskema.Meta { return n.body.Meta() }

func (n DefsNode) JSONSchema() *js.Schema {
	s := objectify(n.body.JSONSchema())
	s.Defs = renderDefs(n.defs, s.Defs)
	return s
}

func (n DefsNode) Validate(v any, vc jskema.Context) jskema.Result {
	return n.body.Validate(v, vc.WithDefs(n.defs))
}

func copyDefs(defs map[string]jskema.Node) map[string]jskema.Node {
	if len(defs) == 0 {
		return nil
	}
	out := make(map[string]jskema.Node, len(defs))
	for k, v := range defs {
		out[k] = v
	}
	return out
}

// renderDefs merges defs over existing document definitions.
func renderDefs(defs map[string]jskema.Node, existing map[string]*js.Schema) map[string]*js.Schema {
	if len(defs) == 0 {
		return existing
	}
	out := make(map[string]*js.Schema, len(defs)+len(existing))
	for k, v := range existing {
		out[k] = v
	}
	for k, d := range defs {
		out[k] = d.JSONSchema()
	}
	return out
}

// objectify turns a boolean schema into its object equivalent so that
// keywords can be attached.
func objectify(s *js.Schema) *js.Schema {
	switch {
	case s == nil:
		return &js.Schema{}
	case !s.IsBool():
		return s
	case *s.Bool:
		return &js.Schema{}
	default:
		return &js.Schema{Not: &js.Schema{}}
	}
}
