package importer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/dsl"
	"github.com/reoring/jskema/internal/jsonvalue"
	js "github.com/reoring/jskema/jsonschema"
)

// builder converts one document. at is the JSON Pointer of the current
// subschema inside the document ("#/properties/name"), used in warnings and
// errors.
type builder struct {
	opts Options
	diag *simpleDiag
}

func (b *builder) node(s *js.Schema, at string) (jskema.Node, error) {
	if s == nil {
		return dsl.Any(), nil
	}
	if s.IsBool() {
		if *s.Bool {
			return dsl.Any(), nil
		}
		return dsl.Nothing(), nil
	}
	if err := b.unknown(s, at); err != nil {
		return nil, err
	}

	parts, err := b.typed(s, at)
	if err != nil {
		return nil, err
	}
	if s.Ref != "" {
		parts = append(parts, dsl.Ref(s.Ref))
	}
	if s.DynamicRef != "" {
		parts = append(parts, dsl.DynamicRef(s.DynamicRef))
	}
	comp, err := b.composition(s, at)
	if err != nil {
		return nil, err
	}
	parts = append(parts, comp...)

	var n jskema.Node
	switch len(parts) {
	case 0:
		n = dsl.Any()
	case 1:
		n = parts[0]
	default:
		n = dsl.AllOf(parts...)
	}
	return b.decorate(n, s, at)
}

// unknown reports keywords outside the 2020-12 vocabulary.
func (b *builder) unknown(s *js.Schema, at string) error {
	for _, k := range s.Unknown {
		if strings.HasPrefix(k, "x-") && !b.opts.WarnExtensions {
			continue
		}
		if b.opts.StrictKeywords {
			return fmt.Errorf("importer: %s: unknown keyword %q", at, k)
		}
		b.diag.warnf(at, "unknown keyword %q ignored", k)
	}
	return nil
}

// typed builds the nodes for the type keyword and the type-specific
// keywords. Without a type, each keyword family present applies only to
// values of its own type, expressed as if/then.
func (b *builder) typed(s *js.Schema, at string) ([]jskema.Node, error) {
	nullable := s.Type.Has(jsonvalue.Null)
	var types []string
	for _, t := range s.Type {
		if t != jsonvalue.Null {
			types = append(types, t)
		}
	}
	// A nullable node accepts null before const and enum are checked, so
	// they are only folded into it when they admit null themselves.
	values := valueKeywords{cnst: s.Const, enum: s.Enum}
	var keepConst, keepEnum bool
	if nullable {
		keepConst, values.cnst = s.Const != nil, nil
		if hasNull(s.Enum) {
			values.enum = withoutNull(s.Enum)
		} else {
			keepEnum, values.enum = s.Enum != nil, nil
		}
	}

	var parts []jskema.Node
	switch len(types) {
	case 0:
		if nullable {
			parts = append(parts, dsl.Null())
			break
		}
		for _, fam := range []string{jsonvalue.String, jsonvalue.Number, jsonvalue.Array, jsonvalue.Object} {
			if !hasFamily(s, fam) {
				continue
			}
			fn, err := b.family(fam, s, at, &valueKeywords{})
			if err != nil {
				return nil, err
			}
			cond, _ := b.family(fam, &js.Schema{}, at, &valueKeywords{})
			parts = append(parts, dsl.If(cond).Then(fn))
		}
	case 1:
		core, err := b.family(types[0], s, at, &values)
		if err != nil {
			return nil, err
		}
		if nullable {
			core = dsl.Nullable(core)
		}
		parts = append(parts, core)
	default:
		alts := make([]jskema.Node, 0, len(s.Type))
		for _, t := range types {
			fn, err := b.family(t, s, at, &valueKeywords{})
			if err != nil {
				return nil, err
			}
			alts = append(alts, fn)
		}
		if nullable {
			alts = append(alts, dsl.Null())
		}
		parts = append(parts, dsl.AnyOf(alts...))
	}

	if values.cnst != nil || keepConst {
		parts = append(parts, dsl.Const(s.Const.Value))
	}
	if values.enum != nil || keepEnum {
		parts = append(parts, dsl.Enum(s.Enum...))
	}
	return parts, nil
}

// valueKeywords are const and enum not yet absorbed into a typed node.
type valueKeywords struct {
	cnst *js.Literal
	enum []any
}

func hasNull(vs []any) bool {
	for _, v := range vs {
		if v == nil {
			return true
		}
	}
	return false
}

func withoutNull(vs []any) []any {
	if vs == nil {
		return nil
	}
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func hasFamily(s *js.Schema, fam string) bool {
	switch fam {
	case jsonvalue.String:
		return s.MinLength != nil || s.MaxLength != nil || s.Pattern != "" || s.Format != "" || s.ContentEncoding != ""
	case jsonvalue.Number:
		return s.Minimum != nil || s.Maximum != nil || s.ExclusiveMinimum != nil || s.ExclusiveMaximum != nil || s.MultipleOf != nil
	case jsonvalue.Array:
		return s.Items != nil || s.PrefixItems != nil || s.Contains != nil || s.MinContains != nil || s.MaxContains != nil ||
			s.MinItems != nil || s.MaxItems != nil || s.UniqueItems || s.UnevaluatedItems != nil
	case jsonvalue.Object:
		return s.Properties != nil || s.Required != nil || s.MinProperties != nil || s.MaxProperties != nil ||
			s.AdditionalProperties != nil || s.PatternProperties != nil || s.PropertyNames != nil ||
			s.DependentRequired != nil || s.DependentSchemas != nil || s.UnevaluatedProperties != nil
	}
	return false
}

// family builds the node for one JSON type from the keywords of s. const and
// enum that the node can hold are moved out of values.
func (b *builder) family(t string, s *js.Schema, at string, values *valueKeywords) (jskema.Node, error) {
	switch t {
	case jsonvalue.String:
		return b.stringNode(s, at, values)
	case jsonvalue.Number, jsonvalue.Integer:
		n := dsl.Number()
		if t == jsonvalue.Integer {
			n = dsl.Integer()
		}
		return numberNode(n, s, values), nil
	case jsonvalue.Boolean:
		n := dsl.Bool()
		if values.cnst != nil {
			if v, ok := values.cnst.Value.(bool); ok {
				n, values.cnst = n.Const(v), nil
			}
		}
		return n, nil
	case jsonvalue.Null:
		return dsl.Null(), nil
	case jsonvalue.Array:
		return b.arrayNode(s, at)
	case jsonvalue.Object:
		return b.objectNode(s, at)
	}
	return nil, fmt.Errorf("importer: %s: unknown type %q", at, t)
}

func (b *builder) stringNode(s *js.Schema, at string, values *valueKeywords) (jskema.Node, error) {
	n := dsl.String().Format(s.Format).ContentEncoding(s.ContentEncoding)
	if s.MinLength != nil {
		n = n.MinLength(*s.MinLength)
	}
	if s.MaxLength != nil {
		n = n.MaxLength(*s.MaxLength)
	}
	if s.Pattern != "" {
		if err := compile(s.Pattern, at+"/pattern"); err != nil {
			return nil, err
		}
		n = n.Pattern(s.Pattern)
	}
	if s.Format != "" && !dsl.KnownFormat(s.Format) {
		b.diag.warnf(at, "format %q is not checked", s.Format)
	}
	if values.cnst != nil {
		if v, ok := values.cnst.Value.(string); ok {
			n, values.cnst = n.Const(v), nil
		}
	}
	if strs, ok := allStrings(values.enum); ok {
		n, values.enum = n.Enum(strs...), nil
	}
	return n, nil
}

func numberNode(n dsl.NumberNode, s *js.Schema, values *valueKeywords) dsl.NumberNode {
	if s.Minimum != nil {
		n = n.Minimum(*s.Minimum)
	}
	if s.Maximum != nil {
		n = n.Maximum(*s.Maximum)
	}
	if s.ExclusiveMinimum != nil {
		n = n.ExclusiveMinimum(*s.ExclusiveMinimum)
	}
	if s.ExclusiveMaximum != nil {
		n = n.ExclusiveMaximum(*s.ExclusiveMaximum)
	}
	if s.MultipleOf != nil {
		n = n.MultipleOf(*s.MultipleOf)
	}
	if values.cnst != nil {
		if f, ok := jsonvalue.AsFloat(values.cnst.Value); ok {
			n, values.cnst = n.Const(f), nil
		}
	}
	if fs, ok := allNumbers(values.enum); ok {
		n, values.enum = n.Enum(fs...), nil
	}
	return n
}

func (b *builder) arrayNode(s *js.Schema, at string) (jskema.Node, error) {
	n := dsl.Array(nil)
	if s.Items != nil {
		items, err := b.node(s.Items, at+"/items")
		if err != nil {
			return nil, err
		}
		n = n.Items(items)
	}
	if len(s.PrefixItems) > 0 {
		prefix, err := b.nodes(s.PrefixItems, at+"/prefixItems")
		if err != nil {
			return nil, err
		}
		n = n.PrefixItems(prefix...)
	}
	if s.Contains != nil {
		c, err := b.node(s.Contains, at+"/contains")
		if err != nil {
			return nil, err
		}
		n = n.Contains(c)
	}
	if s.MinContains != nil {
		n = n.MinContains(*s.MinContains)
	}
	if s.MaxContains != nil {
		n = n.MaxContains(*s.MaxContains)
	}
	if s.MinItems != nil {
		n = n.MinItems(*s.MinItems)
	}
	if s.MaxItems != nil {
		n = n.MaxItems(*s.MaxItems)
	}
	if s.UniqueItems {
		n = n.UniqueItems()
	}
	switch u := s.UnevaluatedItems; {
	case u == nil:
	case u.IsBool():
		n = n.UnevaluatedItems(*u.Bool)
	default:
		un, err := b.node(u, at+"/unevaluatedItems")
		if err != nil {
			return nil, err
		}
		n = n.UnevaluatedItemsSchema(un)
	}
	return n, nil
}

func (b *builder) objectNode(s *js.Schema, at string) (jskema.Node, error) {
	n := dsl.Object()
	if s.Properties != nil {
		for _, k := range s.Properties.Keys() {
			ps, _ := s.Properties.Get(k)
			pn, err := b.node(ps, at+"/properties/"+jskema.EscapePointerToken(k))
			if err != nil {
				return nil, err
			}
			n = n.Property(k, pn)
		}
	}
	n = n.Required(s.Required...)
	if s.MinProperties != nil {
		n = n.MinProperties(*s.MinProperties)
	}
	if s.MaxProperties != nil {
		n = n.MaxProperties(*s.MaxProperties)
	}
	switch ap := s.AdditionalProperties; {
	case ap == nil:
	case ap.IsBool():
		n = n.AdditionalProperties(*ap.Bool)
	default:
		an, err := b.node(ap, at+"/additionalProperties")
		if err != nil {
			return nil, err
		}
		n = n.AdditionalPropertiesSchema(an)
	}
	if s.PatternProperties != nil {
		for _, expr := range s.PatternProperties.Keys() {
			where := at + "/patternProperties/" + jskema.EscapePointerToken(expr)
			if err := compile(expr, where); err != nil {
				return nil, err
			}
			ps, _ := s.PatternProperties.Get(expr)
			pn, err := b.node(ps, where)
			if err != nil {
				return nil, err
			}
			n = n.PatternProperty(expr, pn)
		}
	}
	if s.PropertyNames != nil {
		pn, err := b.node(s.PropertyNames, at+"/propertyNames")
		if err != nil {
			return nil, err
		}
		n = n.PropertyNames(pn)
	}
	for _, trigger := range sortedKeys(s.DependentRequired) {
		n = n.DependentRequired(trigger, s.DependentRequired[trigger]...)
	}
	for _, trigger := range sortedKeys(s.DependentSchemas) {
		dn, err := b.node(s.DependentSchemas[trigger], at+"/dependentSchemas/"+jskema.EscapePointerToken(trigger))
		if err != nil {
			return nil, err
		}
		n = n.DependentSchema(trigger, dn)
	}
	switch u := s.UnevaluatedProperties; {
	case u == nil:
	case u.IsBool():
		n = n.UnevaluatedProperties(*u.Bool)
	default:
		un, err := b.node(u, at+"/unevaluatedProperties")
		if err != nil {
			return nil, err
		}
		n = n.UnevaluatedPropertiesSchema(un)
	}
	return n, nil
}

func (b *builder) composition(s *js.Schema, at string) ([]jskema.Node, error) {
	var parts []jskema.Node
	if s.AllOf != nil {
		cs, err := b.nodes(s.AllOf, at+"/allOf")
		if err != nil {
			return nil, err
		}
		parts = append(parts, dsl.AllOf(cs...))
	}
	if s.AnyOf != nil {
		cs, err := b.nodes(s.AnyOf, at+"/anyOf")
		if err != nil {
			return nil, err
		}
		parts = append(parts, dsl.AnyOf(cs...))
	}
	if s.OneOf != nil {
		cs, err := b.nodes(s.OneOf, at+"/oneOf")
		if err != nil {
			return nil, err
		}
		parts = append(parts, dsl.OneOf(cs...))
	}
	if s.Not != nil {
		c, err := b.node(s.Not, at+"/not")
		if err != nil {
			return nil, err
		}
		parts = append(parts, dsl.Not(c))
	}
	if s.If == nil {
		if s.Then != nil || s.Else != nil {
			b.diag.warnf(at, "then/else without if ignored")
		}
		return parts, nil
	}
	cond, err := b.node(s.If, at+"/if")
	if err != nil {
		return nil, err
	}
	in := dsl.If(cond)
	if s.Then != nil {
		t, err := b.node(s.Then, at+"/then")
		if err != nil {
			return nil, err
		}
		in = in.Then(t)
	}
	if s.Else != nil {
		e, err := b.node(s.Else, at+"/else")
		if err != nil {
			return nil, err
		}
		in = in.Else(e)
	}
	return append(parts, in), nil
}

// decorate attaches metadata, core keywords and $defs.
func (b *builder) decorate(n jskema.Node, s *js.Schema, at string) (jskema.Node, error) {
	if s.Title != "" {
		n = dsl.Title(n, s.Title)
	}
	if s.Description != "" {
		n = dsl.Description(n, s.Description)
	}
	if s.Default != nil {
		n = dsl.Default(n, s.Default.Value)
	}
	if s.Examples != nil {
		n = dsl.Examples(n, s.Examples...)
	}
	if s.ReadOnly {
		n = dsl.ReadOnly(n)
	}
	if s.WriteOnly {
		n = dsl.WriteOnly(n)
	}
	if s.Deprecated {
		n = dsl.Deprecated(n)
	}
	if s.SchemaURI != "" {
		if s.SchemaURI != js.Draft202012 {
			b.diag.warnf(at, "$schema %q treated as 2020-12", s.SchemaURI)
		}
		n = dsl.SchemaVersion(n, s.SchemaURI)
	}
	if s.ID != "" {
		n = dsl.ID(n, s.ID)
	}
	if s.DynamicAnchor != "" {
		n = dsl.DynamicAnchor(n, s.DynamicAnchor)
	}
	if s.Comment != "" {
		n = dsl.Comment(n, s.Comment)
	}
	if len(s.Defs) > 0 {
		defs := make(map[string]jskema.Node, len(s.Defs))
		for _, name := range sortedKeys(s.Defs) {
			dn, err := b.node(s.Defs[name], at+"/$defs/"+jskema.EscapePointerToken(name))
			if err != nil {
				return nil, err
			}
			defs[name] = dn
		}
		n = dsl.WithDefs(n, defs)
	}
	return n, nil
}

func (b *builder) nodes(ss []*js.Schema, at string) ([]jskema.Node, error) {
	out := make([]jskema.Node, len(ss))
	for i, s := range ss {
		n, err := b.node(s, at+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func compile(expr, at string) error {
	if _, err := regexp.Compile(expr); err != nil {
		return fmt.Errorf("importer: %s: invalid regex %q: %w", at, expr, err)
	}
	return nil
}

func allStrings(vs []any) ([]string, bool) {
	if len(vs) == 0 {
		return nil, false
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func allNumbers(vs []any) ([]float64, bool) {
	if len(vs) == 0 {
		return nil, false
	}
	out := make([]float64, len(vs))
	for i, v := range vs {
		f, ok := jsonvalue.AsFloat(v)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
