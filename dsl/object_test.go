package dsl_test

import (
	"reflect"
	"testing"

	jskema "github.com/reoring/jskema"
	g "github.com/reoring/jskema/dsl"
)

func paths(res jskema.Result) []string {
	out := make([]string, 0, len(res.Errors()))
	for _, it := range res.Errors() {
		out = append(out, it.Path)
	}
	return out
}

func TestObject_RequiredAndAdditionalReportedAtObject(t *testing.T) {
	s := g.Object().Field("name", g.String()).Strict()
	res := jskema.Validate(s, map[string]any{"zzz": 1.0})
	if got := codes(res); !reflect.DeepEqual(got, []string{jskema.CodeRequired, jskema.CodeUnknownKey}) {
		t.Fatalf("codes = %v", got)
	}
	if got := paths(res); !reflect.DeepEqual(got, []string{"/", "/"}) {
		t.Fatalf("paths = %v", got)
	}
	if res.Errors()[0].Params["field"] != "name" || res.Errors()[1].Params["key"] != "zzz" {
		t.Fatalf("params = %v / %v", res.Errors()[0].Params, res.Errors()[1].Params)
	}
	if res.Errors()[0].Message != "required property name is missing" {
		t.Fatalf("message = %q", res.Errors()[0].Message)
	}
}

func TestObject_NestedPaths(t *testing.T) {
	address := g.Object().Field("street", g.String().MinLength(1))
	user := g.Object().Field("name", g.String()).Field("address", address)
	res := jskema.Validate(user, map[string]any{"name": "x", "address": map[string]any{"street": ""}})
	if got := paths(res); !reflect.DeepEqual(got, []string{"/address/street"}) {
		t.Fatalf("paths = %v", got)
	}
	res = jskema.Validate(user, map[string]any{"name": "x", "address": map[string]any{}})
	if got := paths(res); !reflect.DeepEqual(got, []string{"/address"}) || codes(res)[0] != jskema.CodeRequired {
		t.Fatalf("missing nested field: %v", res.Errors())
	}
	odd := g.Object().Field("a/b", g.Object().Field("c~d", g.Integer()))
	res = jskema.Validate(odd, map[string]any{"a/b": map[string]any{"c~d": "x"}})
	if got := paths(res); !reflect.DeepEqual(got, []string{"/a~1b/c~0d"}) {
		t.Fatalf("escaped paths = %v", got)
	}
}

func TestObject_FieldRequiredness(t *testing.T) {
	s := g.Object().
		Field("a", g.String()).
		Field("b", g.Optional(g.String())).
		Field("c", g.Default(g.String(), "x")).
		Field("d", g.Nullable(g.String())).
		Field("e", g.OptionalNullable(g.String()))
	if got := s.RequiredNames(); !reflect.DeepEqual(got, []string{"a", "d"}) {
		t.Fatalf("required = %v", got)
	}
	if !jskema.Is(s, map[string]any{"a": "x", "d": nil}) {
		t.Fatalf("nullable required field accepts null")
	}
	if jskema.Is(s, map[string]any{"a": "x", "d": "y", "b": nil}) {
		t.Fatalf("optional field does not accept null")
	}

	// redeclaring keeps the position and updates requiredness
	s = s.Field("a", g.Optional(g.Integer()))
	if got := s.PropertyNamesInOrder(); !reflect.DeepEqual(got, []string{"a", "b", "c", "d", "e"}) {
		t.Fatalf("order = %v", got)
	}
	if got := s.RequiredNames(); !reflect.DeepEqual(got, []string{"d"}) {
		t.Fatalf("required = %v", got)
	}
	s = s.Required("b").NotRequired("d")
	if got := s.RequiredNames(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("required = %v", got)
	}
}

func TestObject_BuildersDoNotMutate(t *testing.T) {
	base := g.Object().Field("a", g.String())
	ext := base.Field("b", g.String()).Strict()
	if got := base.PropertyNamesInOrder(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("base changed: %v", got)
	}
	if !jskema.Is(base, map[string]any{"a": "x", "z": 1.0}) {
		t.Fatalf("base must stay open")
	}
	if jskema.Is(ext, map[string]any{"a": "x", "b": "y", "z": 1.0}) {
		t.Fatalf("ext is strict")
	}
}

func TestObject_PatternAndAdditionalProperties(t *testing.T) {
	s := g.Object().
		Field("id", g.String()).
		PatternProperty("^x-", g.Bool()).
		AdditionalPropertiesSchema(g.Integer())
	// "x-id" matches the pattern, "id" is declared so the pattern skips it
	ok := map[string]any{"id": "1", "x-debug": true, "n": 2.0}
	if res := jskema.Validate(s, ok); !res.IsValid() {
		t.Fatalf("unexpected issues: %v", res.Errors())
	}
	res := jskema.Validate(s, map[string]any{"id": "1", "x-debug": "yes", "n": "two"})
	if got := paths(res); !reflect.DeepEqual(got, []string{"/n", "/x-debug"}) {
		t.Fatalf("paths = %v", got)
	}
	declaredMatchesPattern := g.Object().Field("x-id", g.String()).PatternProperty("^x-", g.Bool())
	if !jskema.Is(declaredMatchesPattern, map[string]any{"x-id": "s"}) {
		t.Fatalf("patternProperties must not apply to declared keys")
	}
}

func TestObject_CountsNamesAndDependencies(t *testing.T) {
	s := g.Object().MinProperties(1).MaxProperties(2)
	if got := codes(jskema.Validate(s, map[string]any{})); !reflect.DeepEqual(got, []string{jskema.CodeMinProperties}) {
		t.Fatalf("codes = %v", got)
	}
	if got := codes(jskema.Validate(s, map[string]any{"a": 1.0, "b": 1.0, "c": 1.0})); !reflect.DeepEqual(got, []string{jskema.CodeMaxProperties}) {
		t.Fatalf("codes = %v", got)
	}

	names := g.Object().PropertyNames(g.String().Pattern("^[a-z]+$"))
	res := jskema.Validate(names, map[string]any{"ok": 1.0, "Bad": 1.0})
	if got := paths(res); !reflect.DeepEqual(got, []string{"/Bad"}) {
		t.Fatalf("paths = %v", got)
	}

	dep := g.Object().
		DependentRequired("card", "billing").
		DependentSchema("card", g.Object().Field("cvv", g.String()))
	res = jskema.Validate(dep, map[string]any{"card": "4111"})
	if got := codes(res); !reflect.DeepEqual(got, []string{jskema.CodeRequired, jskema.CodeRequired}) {
		t.Fatalf("codes = %v", got)
	}
	if res.Errors()[0].Params["field"] != "billing" || res.Errors()[1].Params["field"] != "cvv" {
		t.Fatalf("unexpected issues: %v", res.Errors())
	}
	if !jskema.Is(dep, map[string]any{"name": "no card"}) {
		t.Fatalf("dependencies apply only when the trigger is present")
	}
}

func TestObject_UnevaluatedProperties(t *testing.T) {
	s := g.Object().Field("a", g.String()).PatternProperty("^x-", g.Any()).UnevaluatedProperties(false)
	res := jskema.Validate(s, map[string]any{"a": "1", "x-y": 1.0, "b": 1.0, "c": 1.0})
	if got := codes(res); !reflect.DeepEqual(got, []string{jskema.CodeUnknownKey, jskema.CodeUnknownKey}) {
		t.Fatalf("codes = %v", got)
	}
	if res.Errors()[0].Keyword != "unevaluatedProperties" || res.Errors()[0].Params["key"] != "b" {
		t.Fatalf("first issue = %+v", res.Errors()[0])
	}
	typed := g.Object().UnevaluatedPropertiesSchema(g.Integer())
	if got := paths(jskema.Validate(typed, map[string]any{"n": "x"})); !reflect.DeepEqual(got, []string{"/n"}) {
		t.Fatalf("paths = %v", got)
	}
}

func TestObject_WrongTypeStopsKeywordChecks(t *testing.T) {
	s := g.Object().Field("a", g.String()).MinProperties(3)
	res := jskema.Validate(s, []any{})
	if got := codes(res); !reflect.DeepEqual(got, []string{jskema.CodeInvalidType}) {
		t.Fatalf("codes = %v", got)
	}
}
