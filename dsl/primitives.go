package dsl

import (
	"math"
	"regexp"
	"unicode/utf8"

	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/internal/jsonvalue"
	js "github.com/reoring/jskema/jsonschema"
)

// StringNode validates JSON strings.
type StringNode struct {
	minLength *int
	maxLength *int
	pattern   *regexp.Regexp
	format    string
	encoding  string
	values    valueChecks
}

// String returns an unconstrained string node.
func String() StringNode { return StringNode{} }

// MinLength sets the minimum length in Unicode code points.
func (n StringNode) MinLength(l int) StringNode { n.minLength = intPtr(l); return n }

// MaxLength sets the maximum length in Unicode code points.
func (n StringNode) MaxLength(l int) StringNode { n.maxLength = intPtr(l); return n }

// Pattern sets a regular expression (RE2 syntax, unanchored). It panics when
// the expression does not compile.
func (n StringNode) Pattern(expr string) StringNode {
	n.pattern = mustPattern("pattern", expr)
	return n
}

// Format sets the format keyword. See KnownFormat for the enforced names.
func (n StringNode) Format(name string) StringNode { n.format = name; return n }

// ContentEncoding annotates the string's encoding, for example base64.
func (n StringNode) ContentEncoding(enc string) StringNode { n.encoding = enc; return n }

// Const restricts the value to s.
func (n StringNode) Const(s string) StringNode { n.values.cnst = js.Lit(s); return n }

// Enum restricts the value to one of vs.
func (n StringNode) Enum(vs ...string) StringNode {
	n.values.enum = make([]any, len(vs))
	for i, v := range vs {
		n.values.enum[i] = v
	}
	return n
}

func (n StringNode) Meta() jskema.Meta { return jskema.Meta{} }

func (n StringNode) JSONSchema() *js.Schema {
	s := &js.Schema{Type: js.Types{jsonvalue.String}, MinLength: copyInt(n.minLength), MaxLength: copyInt(n.maxLength), Format: n.format, ContentEncoding: n.encoding}
	if n.pattern != nil {
		s.Pattern = n.pattern.String()
	}
	n.values.apply(s)
	return s
}

func (n StringNode) Validate(v any, vc jskema.Context) jskema.Result {
	str, ok := v.(string)
	if !ok {
		return typeMismatch(vc, jsonvalue.String, v)
	}
	at := vc.At()
	var iss jskema.Issues
	l := utf8.RuneCountInString(str)
	if n.minLength != nil && l < *n.minLength {
		iss = append(iss, at.Issue(jskema.CodeMinLength, "minLength", "min", *n.minLength, "got", l))
	}
	if n.maxLength != nil && l > *n.maxLength {
		iss = append(iss, at.Issue(jskema.CodeMaxLength, "maxLength", "max", *n.maxLength, "got", l))
	}
	if n.pattern != nil && !n.pattern.MatchString(str) {
		iss = append(iss, at.Issue(jskema.CodePattern, "pattern", "pattern", n.pattern.String()))
	}
	if check, ok := formatCheckers[n.format]; ok && !check(str) {
		iss = append(iss, at.Issue(jskema.CodeInvalidFormat, "format", "format", n.format))
	}
	iss = append(iss, n.values.check(v, vc)...)
	return jskema.Invalid(iss...)
}

// NumberNode validates JSON numbers; built with Integer it also requires a
// zero fractional part.
type NumberNode struct {
	integer          bool
	minimum          *float64
	maximum          *float64
	exclusiveMinimum *float64
	exclusiveMaximum *float64
	multipleOf       *float64
	values           valueChecks
}

// Number returns an unconstrained number node.
func Number() NumberNode { return NumberNode{} }

// Integer returns a node accepting integral numbers only.
func Integer() NumberNode { return NumberNode{integer: true} }

// IsInteger reports whether the node was built with Integer.
func (n NumberNode) IsInteger() bool { return n.integer }

// Minimum requires value >= f.
func (n NumberNode) Minimum(f float64) NumberNode { n.minimum = floatPtr(f); return n }

// Maximum requires value <= f.
func (n NumberNode) Maximum(f float64) NumberNode { n.maximum = floatPtr(f); return n }

// ExclusiveMinimum requires value > f.
func (n NumberNode) ExclusiveMinimum(f float64) NumberNode { n.exclusiveMinimum = floatPtr(f); return n }

// ExclusiveMaximum requires value < f.
func (n NumberNode) ExclusiveMaximum(f float64) NumberNode { n.exclusiveMaximum = floatPtr(f); return n }

// MultipleOf requires value/m to be integral. The check is a direct float64
// modulo, so values like 0.3 with m=0.1 can be rejected by rounding error.
func (n NumberNode) MultipleOf(m float64) NumberNode { n.multipleOf = floatPtr(m); return n }

// Const restricts the value to f.
func (n NumberNode) Const(f float64) NumberNode { n.values.cnst = js.Lit(f); return n }

// Enum restricts the value to one of fs.
func (n NumberNode) Enum(fs ...float64) NumberNode {
	n.values.enum = make([]any, len(fs))
	for i, f := range fs {
		n.values.enum[i] = f
	}
	return n
}

func (n NumberNode) Meta() jskema.Meta { return jskema.Meta{} }

func (n NumberNode) typeName() string {
	if n.integer {
		return jsonvalue.Integer
	}
	return jsonvalue.Number
}

func (n NumberNode) JSONSchema() *js.Schema {
	s := &js.Schema{
		Type:             js.Types{n.typeName()},
		Minimum:          copyFloat(n.minimum),
		Maximum:          copyFloat(n.maximum),
		ExclusiveMinimum: copyFloat(n.exclusiveMinimum),
		ExclusiveMaximum: copyFloat(n.exclusiveMaximum),
		MultipleOf:       copyFloat(n.multipleOf),
	}
	n.values.apply(s)
	return s
}

func (n NumberNode) Validate(v any, vc jskema.Context) jskema.Result {
	f, ok := jsonvalue.AsFloat(v)
	if !ok || (n.integer && !jsonvalue.IsInteger(v)) {
		return typeMismatch(vc, n.typeName(), v)
	}
	at := vc.At()
	var iss jskema.Issues
	if n.minimum != nil && f < *n.minimum {
		iss = append(iss, at.Issue(jskema.CodeOutOfRange, "minimum", "limit", *n.minimum, "got", f, "exclusive", false))
	}
	if n.maximum != nil && f > *n.maximum {
		iss = append(iss, at.Issue(jskema.CodeOutOfRange, "maximum", "limit", *n.maximum, "got", f, "exclusive", false))
	}
	if n.exclusiveMinimum != nil && f <= *n.exclusiveMinimum {
		iss = append(iss, at.Issue(jskema.CodeOutOfRange, "exclusiveMinimum", "limit", *n.exclusiveMinimum, "got", f, "exclusive", true))
	}
	if n.exclusiveMaximum != nil && f >= *n.exclusiveMaximum {
		iss = append(iss, at.Issue(jskema.CodeOutOfRange, "exclusiveMaximum", "limit", *n.exclusiveMaximum, "got", f, "exclusive", true))
	}
	if n.multipleOf != nil && *n.multipleOf != 0 && math.Mod(f, *n.multipleOf) != 0 {
		iss = append(iss, at.Issue(jskema.CodeMultipleOf, "multipleOf", "multipleOf", *n.multipleOf, "got", f))
	}
	iss = append(iss, n.values.check(v, vc)...)
	return jskema.Invalid(iss...)
}

// BoolNode validates JSON booleans.
type BoolNode struct {
	values valueChecks
}

// Bool returns a boolean node.
func Bool() BoolNode { return BoolNode{} }

// Const restricts the value to b.
func (n BoolNode) Const(b bool) BoolNode { n.values.cnst = js.Lit(b); return n }

func (n BoolNode) Meta() jskema.Meta { return jskema.Meta{} }

func (n BoolNode) JSONSchema() *js.Schema {
	s := &js.Schema{Type: js.Types{jsonvalue.Boolean}}
	n.values.apply(s)
	return s
}

func (n BoolNode) Validate(v any, vc jskema.Context) jskema.Result {
	if _, ok := v.(bool); !ok {
		return typeMismatch(vc, jsonvalue.Boolean, v)
	}
	return jskema.Invalid(n.values.check(v, vc)...)
}

// NullNode accepts only null.
type NullNode struct{}

// Null returns the null node.
func Null() NullNode { return NullNode{} }

func (NullNode) Meta() jskema.Meta      { return jskema.Meta{} }
func (NullNode) JSONSchema() *js.Schema { return &js.Schema{Type: js.Types{jsonvalue.Null}} }

func (NullNode) Validate(v any, vc jskema.Context) jskema.Result {
	if v != nil {
		return typeMismatch(vc, jsonvalue.Null, v)
	}
	return jskema.Valid()
}

// AnyNode accepts every value and renders as the empty schema.
type AnyNode struct{}

// Any returns the unconstrained node.
func Any() AnyNode { return AnyNode{} }

func (AnyNode) Meta() jskema.Meta                          { return jskema.Meta{} }
func (AnyNode) JSONSchema() *js.Schema                     { return &js.Schema{} }
func (AnyNode) Validate(any, jskema.Context) jskema.Result { return jskema.Valid() }

// NothingNode rejects every value and renders as the false schema.
type NothingNode struct{}

// Nothing returns the node that accepts no value.
func Nothing() NothingNode { return NothingNode{} }

func (NothingNode) Meta() jskema.Meta      { return jskema.Meta{} }
func (NothingNode) JSONSchema() *js.Schema { return js.False() }

func (NothingNode) Validate(v any, vc jskema.Context) jskema.Result {
	return jskema.Invalid(vc.At().Issue(jskema.CodeComposition, "false", "combinator", "false", "matched", 0))
}

// EnumNode accepts one of a fixed list of JSON values.
type EnumNode struct {
	values []any
}

// Enum returns a node accepting exactly the given values.
func Enum(values ...any) EnumNode { return EnumNode{values: append([]any(nil), values...)} }

// Values returns a copy of the allowed values.
func (n EnumNode) Values() []any { return append([]any(nil), n.values...) }

func (n EnumNode) Meta() jskema.Meta { return jskema.Meta{} }

// JSONSchema adds "type": "string" when every value is a string.
func (n EnumNode) JSONSchema() *js.Schema {
	s := &js.Schema{Enum: append([]any{}, n.values...)}
	allStrings := len(n.values) > 0
	for _, v := range n.values {
		if _, ok := v.(string); !ok {
			allStrings = false
			break
		}
	}
	if allStrings {
		s.Type = js.Types{jsonvalue.String}
	}
	return s
}

func (n EnumNode) Validate(v any, vc jskema.Context) jskema.Result {
	if contains(n.values, v) {
		return jskema.Valid()
	}
	return jskema.Invalid(vc.At().Issue(jskema.CodeInvalidEnum, "enum", "allowed", jsonvalue.Render(n.values)))
}

// ConstNode accepts a single JSON value of any type.
type ConstNode struct {
	value any
}

// Const returns a node accepting only v.
func Const(v any) ConstNode { return ConstNode{value: v} }

func (n ConstNode) Meta() jskema.Meta      { return jskema.Meta{} }
func (n ConstNode) JSONSchema() *js.Schema { return &js.Schema{Const: js.Lit(n.value)} }

func (n ConstNode) Validate(v any, vc jskema.Context) jskema.Result {
	if jsonvalue.Equal(v, n.value) {
		return jskema.Valid()
	}
	return jskema.Invalid(vc.At().Issue(jskema.CodeInvalidConst, "const", "const", jsonvalue.Render(n.value)))
}
