package dsl

import (
	"regexp"
	"sort"

	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/internal/jsonvalue"
	js "github.com/reoring/jskema/jsonschema"
)

type property struct {
	name string
	node jskema.Node
}

type patternProperty struct {
	re   *regexp.Regexp
	node jskema.Node
}

type dependentRequired struct {
	trigger string
	names   []string
}

type dependentSchema struct {
	trigger string
	node    jskema.Node
}

// ObjectNode validates JSON objects. Properties keep their declaration
// order in both the document and the reported issues.
type ObjectNode struct {
	props         []property
	required      []string
	minProps      *int
	maxProps      *int
	additional    boolOrNode
	patterns      []patternProperty
	propertyNames jskema.Node
	depRequired   []dependentRequired
	depSchemas    []dependentSchema
	unevaluated   boolOrNode
}

// Object returns an object node with no properties.
func Object() ObjectNode { return ObjectNode{} }

// Field declares a property. The property is required unless node is
// Optional (or OptionalNullable) or carries a default. Redeclaring a name
// replaces the previous declaration in place.
func (n ObjectNode) Field(name string, node jskema.Node) ObjectNode {
	n = n.Property(name, node)
	req := make([]string, 0, len(n.required)+1)
	for _, r := range n.required {
		if r != name {
			req = append(req, r)
		}
	}
	if !IsOptional(node) && !node.Meta().HasDefault {
		req = append(req, name)
	}
	n.required = req
	return n
}

// Property declares a property without touching the required list.
func (n ObjectNode) Property(name string, node jskema.Node) ObjectNode {
	props := make([]property, 0, len(n.props)+1)
	replaced := false
	for _, p := range n.props {
		if p.name == name {
			p.node = node
			replaced = true
		}
		props = append(props, p)
	}
	if !replaced {
		props = append(props, property{name: name, node: node})
	}
	n.props = props
	return n
}

// Required marks names as required, keeping first-declaration order.
func (n ObjectNode) Required(names ...string) ObjectNode {
	req := append([]string(nil), n.required...)
	for _, name := range names {
		if !hasString(req, name) {
			req = append(req, name)
		}
	}
	n.required = req
	return n
}

// NotRequired removes names from the required list.
func (n ObjectNode) NotRequired(names ...string) ObjectNode {
	req := n.required
	for _, name := range names {
		req = without(req, name)
	}
	n.required = req
	return n
}

// MinProperties sets the minimum number of keys.
func (n ObjectNode) MinProperties(c int) ObjectNode { n.minProps = intPtr(c); return n }

// MaxProperties sets the maximum number of keys.
func (n ObjectNode) MaxProperties(c int) ObjectNode { n.maxProps = intPtr(c); return n }

// AdditionalProperties allows or forbids keys matched by neither properties
// nor patternProperties.
func (n ObjectNode) AdditionalProperties(allow bool) ObjectNode {
	n.additional = allowOnly(allow)
	return n
}

// AdditionalPropertiesSchema validates leftover keys against s.
func (n ObjectNode) AdditionalPropertiesSchema(s jskema.Node) ObjectNode {
	n.additional = schemaOnly(s)
	return n
}

// Strict forbids additional properties.
func (n ObjectNode) Strict() ObjectNode { return n.AdditionalProperties(false) }

// PatternProperty validates undeclared keys matching the regular expression
// against node. It panics when the expression does not compile.
func (n ObjectNode) PatternProperty(expr string, node jskema.Node) ObjectNode {
	re := mustPattern("patternProperties", expr)
	pats := make([]patternProperty, 0, len(n.patterns)+1)
	for _, p := range n.patterns {
		if p.re.String() != expr {
			pats = append(pats, p)
		}
	}
	n.patterns = append(pats, patternProperty{re: re, node: node})
	return n
}

// PropertyNames validates every key, as a string, against node.
func (n ObjectNode) PropertyNames(node jskema.Node) ObjectNode { n.propertyNames = node; return n }

// DependentRequired requires names whenever trigger is present.
func (n ObjectNode) DependentRequired(trigger string, names ...string) ObjectNode {
	deps := make([]dependentRequired, 0, len(n.depRequired)+1)
	for _, d := range n.depRequired {
		if d.trigger != trigger {
			deps = append(deps, d)
		}
	}
	n.depRequired = append(deps, dependentRequired{trigger: trigger, names: append([]string(nil), names...)})
	return n
}

// DependentSchema validates the whole object against node whenever trigger
// is present.
func (n ObjectNode) DependentSchema(trigger string, node jskema.Node) ObjectNode {
	deps := make([]dependentSchema, 0, len(n.depSchemas)+1)
	for _, d := range n.depSchemas {
		if d.trigger != trigger {
			deps = append(deps, d)
		}
	}
	n.depSchemas = append(deps, dependentSchema{trigger: trigger, node: node})
	return n
}

// UnevaluatedProperties allows or forbids keys not covered by properties,
// patternProperties or additionalProperties of this node.
func (n ObjectNode) UnevaluatedProperties(allow bool) ObjectNode {
	n.unevaluated = allowOnly(allow)
	return n
}

// UnevaluatedPropertiesSchema validates uncovered keys against s.
func (n ObjectNode) UnevaluatedPropertiesSchema(s jskema.Node) ObjectNode {
	n.unevaluated = schemaOnly(s)
	return n
}

// PropertyNamesInOrder returns the declared property names.
func (n ObjectNode) PropertyNamesInOrder() []string {
	out := make([]string, len(n.props))
	for i, p := range n.props {
		out[i] = p.name
	}
	return out
}

// Lookup returns the node declared for name.
func (n ObjectNode) Lookup(name string) (jskema.Node, bool) {
	for _, p := range n.props {
		if p.name == name {
			return p.node, true
		}
	}
	return nil, false
}

// RequiredNames returns the required list in order.
func (n ObjectNode) RequiredNames() []string { return append([]string(nil), n.required...) }

func (n ObjectNode) Meta() jskema.Meta { return jskema.Meta{} }

func (n ObjectNode) JSONSchema() *js.Schema {
	s := &js.Schema{
		Type:                  js.Types{jsonvalue.Object},
		MinProperties:         copyInt(n.minProps),
		MaxProperties:         copyInt(n.maxProps),
		AdditionalProperties:  n.additional.schema(),
		UnevaluatedProperties: n.unevaluated.schema(),
	}
	if len(n.props) > 0 {
		s.Properties = js.NewProperties()
		for _, p := range n.props {
			s.Properties.Set(p.name, p.node.JSONSchema())
		}
	}
	if len(n.required) > 0 {
		s.Required = append([]string(nil), n.required...)
	}
	if len(n.patterns) > 0 {
		s.PatternProperties = js.NewProperties()
		for _, p := range n.patterns {
			s.PatternProperties.Set(p.re.String(), p.node.JSONSchema())
		}
	}
	if n.propertyNames != nil {
		s.PropertyNames = n.propertyNames.JSONSchema()
	}
	if len(n.depRequired) > 0 {
		s.DependentRequired = make(map[string][]string, len(n.depRequired))
		for _, d := range n.depRequired {
			s.DependentRequired[d.trigger] = append([]string{}, d.names...)
		}
	}
	if len(n.depSchemas) > 0 {
		s.DependentSchemas = make(map[string]*js.Schema, len(n.depSchemas))
		for _, d := range n.depSchemas {
			s.DependentSchemas[d.trigger] = d.node.JSONSchema()
		}
	}
	return s
}

// Validate reports, in order: property count bounds, missing required keys,
// declared properties, undeclared keys in sorted order (patternProperties,
// then additionalProperties), propertyNames, dependencies and unevaluated
// keys. Missing and additional keys are reported at the object's own path.
func (n ObjectNode) Validate(v any, vc jskema.Context) jskema.Result {
	obj, ok := jsonvalue.AsObject(v)
	if !ok {
		return typeMismatch(vc, jsonvalue.Object, v)
	}
	at := vc.At()
	var iss jskema.Issues

	if n.minProps != nil && len(obj) < *n.minProps {
		iss = append(iss, at.Issue(jskema.CodeMinProperties, "minProperties", "min", *n.minProps, "got", len(obj)))
	}
	if n.maxProps != nil && len(obj) > *n.maxProps {
		iss = append(iss, at.Issue(jskema.CodeMaxProperties, "maxProperties", "max", *n.maxProps, "got", len(obj)))
	}
	for _, name := range n.required {
		if _, ok := obj[name]; !ok {
			iss = append(iss, at.Issue(jskema.CodeRequired, "required", "field", name))
		}
	}

	res := jskema.Invalid(iss...)
	declared := make(map[string]bool, len(n.props))
	for _, p := range n.props {
		declared[p.name] = true
		if pv, ok := obj[p.name]; ok {
			res = res.Combine(p.node.Validate(pv, vc.WithProperty(p.name)))
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var unevaluated []string
	for _, k := range keys {
		if declared[k] {
			continue
		}
		kc := vc.WithProperty(k)
		matched := false
		for _, p := range n.patterns {
			if p.re.MatchString(k) {
				matched = true
				res = res.Combine(p.node.Validate(obj[k], kc))
			}
		}
		switch {
		case matched:
		case n.additional.node != nil:
			res = res.Combine(n.additional.node.Validate(obj[k], kc))
		case n.additional.forbids():
			res = res.Combine(jskema.Invalid(at.Issue(jskema.CodeUnknownKey, "additionalProperties", "key", k)))
		case n.additional.set:
		default:
			unevaluated = append(unevaluated, k)
		}
	}

	if n.propertyNames != nil {
		for _, k := range keys {
			res = res.Combine(n.propertyNames.Validate(k, vc.WithProperty(k)))
		}
	}
	for _, d := range n.depRequired {
		if _, ok := obj[d.trigger]; !ok {
			continue
		}
		for _, name := range d.names {
			if _, ok := obj[name]; !ok {
				res = res.Combine(jskema.Invalid(at.Issue(jskema.CodeRequired, "dependentRequired", "field", name, "trigger", d.trigger)))
			}
		}
	}
	for _, d := range n.depSchemas {
		if _, ok := obj[d.trigger]; ok {
			res = res.Combine(d.node.Validate(v, vc))
		}
	}

	if n.unevaluated.constrains() {
		for _, k := range unevaluated {
			if n.unevaluated.node != nil {
				res = res.Combine(n.unevaluated.node.Validate(obj[k], vc.WithProperty(k)))
				continue
			}
			res = res.Combine(jskema.Invalid(at.Issue(jskema.CodeUnknownKey, "unevaluatedProperties", "key", k)))
		}
	}
	return res
}

func hasString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// without returns ss minus s, copying only when s is present.
func without(ss []string, s string) []string {
	if !hasString(ss, s) {
		return ss
	}
	out := make([]string, 0, len(ss)-1)
	for _, x := range ss {
		if x != s {
			out = append(out, x)
		}
	}
	return out
}
