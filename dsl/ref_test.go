package dsl_test

import (
	"reflect"
	"testing"

	jskema "github.com/reoring/jskema"
	g "github.com/reoring/jskema/dsl"
)

func TestRef_Definitions(t *testing.T) {
	positive := g.Integer().ExclusiveMinimum(0)
	s := g.WithDefs(g.Object().Field("n", g.DefRef("positive")), map[string]jskema.Node{"positive": positive})
	if !jskema.Is(s, map[string]any{"n": 1.0}) {
		t.Fatalf("expected valid")
	}
	res := jskema.Validate(s, map[string]any{"n": 0.0})
	if got := paths(res); !reflect.DeepEqual(got, []string{"/n"}) || codes(res)[0] != jskema.CodeOutOfRange {
		t.Fatalf("unexpected: %v", res.Errors())
	}
	legacy := g.Defs(g.Ref("#/definitions/positive"), map[string]jskema.Node{"positive": positive})
	if jskema.Is(legacy, -1.0) {
		t.Fatalf("#/definitions pointers resolve against the same scope")
	}
}

func TestRef_InnermostScopeWins(t *testing.T) {
	inner := g.WithDefs(g.DefRef("x"), map[string]jskema.Node{"x": g.String()})
	outer := g.WithDefs(g.Object().Field("v", inner).Field("w", g.DefRef("x")), map[string]jskema.Node{"x": g.Integer()})
	if !jskema.Is(outer, map[string]any{"v": "s", "w": 1.0}) {
		t.Fatalf("unexpected: %v", jskema.Validate(outer, map[string]any{"v": "s", "w": 1.0}).Errors())
	}
	if jskema.Is(outer, map[string]any{"v": 1.0, "w": 1.0}) {
		t.Fatalf("v should resolve to the inner string definition")
	}
}

func TestRef_RootRecursion(t *testing.T) {
	tree := g.Object().
		Field("value", g.Integer()).
		Field("children", g.Optional(g.Array(g.Ref("#"))))
	v := map[string]any{
		"value": 1.0,
		"children": []any{
			map[string]any{"value": 2.0, "children": []any{map[string]any{"value": "x"}}},
		},
	}
	res := jskema.Validate(tree, v)
	if got := paths(res); !reflect.DeepEqual(got, []string{"/children/0/children/0/value"}) {
		t.Fatalf("paths = %v", got)
	}
}

func TestRef_UnresolvableAndCyclic(t *testing.T) {
	res := jskema.Validate(g.DefRef("missing"), 1.0)
	if got := codes(res); !reflect.DeepEqual(got, []string{jskema.CodeReference}) {
		t.Fatalf("codes = %v", got)
	}
	if res.Errors()[0].Params["reason"] != "unknown definition" {
		t.Fatalf("params = %v", res.Errors()[0].Params)
	}
	if got := codes(jskema.Validate(g.Ref("http://example.com/s.json"), 1.0)); !reflect.DeepEqual(got, []string{jskema.CodeReference}) {
		t.Fatalf("remote refs are unsupported: %v", got)
	}

	loop := g.WithDefs(g.DefRef("a"), map[string]jskema.Node{
		"a": g.DefRef("b"),
		"b": g.DefRef("a"),
	})
	res = jskema.Validate(loop, 1.0)
	if got := codes(res); !reflect.DeepEqual(got, []string{jskema.CodeReference}) {
		t.Fatalf("codes = %v", got)
	}
	if res.Errors()[0].Params["reason"] != "cyclic reference" {
		t.Fatalf("params = %v", res.Errors()[0].Params)
	}
}

func TestDynamicRef(t *testing.T) {
	node := g.DynamicAnchor(g.Object().
		Field("name", g.String()).
		Field("child", g.Optional(g.DynamicRef("node"))), "node")
	res := jskema.Validate(node, map[string]any{"name": "a", "child": map[string]any{"name": 1.0}})
	if got := paths(res); !reflect.DeepEqual(got, []string{"/child/name"}) {
		t.Fatalf("paths = %v", got)
	}

	// an outer scope declaring the anchor overrides the inner one
	strict := g.DynamicAnchor(g.Object().Field("name", g.String()).Strict(), "node")
	base := g.WithDefs(g.DynamicRef("node"), map[string]jskema.Node{"node": g.DynamicAnchor(g.Object(), "node")})
	outer := g.Defs(base, map[string]jskema.Node{"override": strict})
	if jskema.Is(outer, map[string]any{"extra": 1.0}) {
		t.Fatalf("expected the outer strict definition to apply")
	}
	if got := codes(jskema.Validate(g.DynamicRef("nowhere"), 1.0)); !reflect.DeepEqual(got, []string{jskema.CodeReference}) {
		t.Fatalf("codes = %v", got)
	}
}
