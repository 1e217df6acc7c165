package dsl

import (
	"regexp"

	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/internal/jsonvalue"
	js "github.com/reoring/jskema/jsonschema"
)

// valueChecks holds the const and enum keywords shared by the primitive
// nodes.
type valueChecks struct {
	cnst *js.Literal
	enum []any
}

func (c valueChecks) check(v any, vc jskema.Context) jskema.Issues {
	var iss jskema.Issues
	if c.cnst != nil && !jsonvalue.Equal(v, c.cnst.Value) {
		iss = append(iss, vc.At().Issue(jskema.CodeInvalidConst, "const", "const", jsonvalue.Render(c.cnst.Value)))
	}
	if c.enum != nil && !contains(c.enum, v) {
		iss = append(iss, vc.At().Issue(jskema.CodeInvalidEnum, "enum", "allowed", jsonvalue.Render(c.enum)))
	}
	return iss
}

func (c valueChecks) apply(s *js.Schema) {
	if c.cnst != nil {
		s.Const = js.Lit(c.cnst.Value)
	}
	if c.enum != nil {
		s.Enum = append([]any(nil), c.enum...)
	}
}

func contains(values []any, v any) bool {
	for _, x := range values {
		if jsonvalue.Equal(x, v) {
			return true
		}
	}
	return false
}

func typeMismatch(vc jskema.Context, expected string, v any) jskema.Result {
	return jskema.Invalid(vc.At().Issue(jskema.CodeInvalidType, "type", "expected", expected, "actual", jsonvalue.Kind(v)))
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

// copyInt and copyFloat keep rendered documents from sharing storage with
// the node.
func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	return intPtr(*p)
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return floatPtr(*p)
}

// mustPattern compiles a regular expression for a builder. Builders share
// regexp.MustCompile's contract: an invalid pattern is a programming error.
func mustPattern(keyword, pattern string) *regexp.Regexp {
	re, err := regexp.Compile(pattern)
	if err != nil {
		panic("dsl: invalid " + keyword + " " + pattern + ": " + err.Error())
	}
	return re
}

// nodeOrTrue renders an optional child, using the boolean true schema when
// the child is absent.
func nodeOrTrue(n jskema.Node) *js.Schema {
	if n == nil {
		return js.True()
	}
	return n.JSONSchema()
}

func schemas(ns []jskema.Node) []*js.Schema {
	if len(ns) == 0 {
		return nil
	}
	out := make([]*js.Schema, len(ns))
	for i, n := range ns {
		out[i] = n.JSONSchema()
	}
	return out
}

// boolOrNode is the value of additionalProperties, unevaluatedProperties and
// unevaluatedItems: unset, a boolean, or a schema.
type boolOrNode struct {
	set   bool
	allow bool
	node  jskema.Node
}

func allowOnly(b bool) boolOrNode         { return boolOrNode{set: true, allow: b} }
func schemaOnly(n jskema.Node) boolOrNode { return boolOrNode{set: true, allow: true, node: n} }
func (b boolOrNode) forbids() bool        { return b.set && !b.allow }
func (b boolOrNode) constrains() bool     { return b.set && (b.node != nil || !b.allow) }

func (b boolOrNode) schema() *js.Schema {
	switch {
	case !b.set:
		return nil
	case b.node != nil:
		return b.node.JSONSchema()
	case b.allow:
		return js.True()
	default:
		return js.False()
	}
}
