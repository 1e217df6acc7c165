package dsl_test

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	jskema "github.com/reoring/jskema"
	g "github.com/reoring/jskema/dsl"
)

func userSchema() g.ObjectNode {
	return g.Object().
		Field("name", g.String().MinLength(1)).
		Field("age", g.OptionalNullable(g.Integer().Minimum(0))).
		Field("tags", g.Array(g.String()).UniqueItems()).
		Strict()
}

func TestDocument_Snapshot(t *testing.T) {
	want := `{"type":"object","properties":{` +
		`"name":{"type":"string","minLength":1},` +
		`"age":{"type":["integer","null"],"minimum":0},` +
		`"tags":{"type":"array","items":{"type":"string"},"uniqueItems":true}},` +
		`"required":["name","tags"],"additionalProperties":false}`
	if got := doc(t, userSchema()); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestDocument_DefsAndRefs(t *testing.T) {
	n := g.WithDefs(g.Object().Field("n", g.DefRef("p")), map[string]jskema.Node{"p": g.Integer()})
	want := `{"$defs":{"p":{"type":"integer"}},"type":"object","properties":{"n":{"$ref":"#/$defs/p"}},"required":["n"]}`
	if got := doc(t, n); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	tuple := g.Tuple(g.String(), g.Integer()).Items(g.Bool()).Contains(g.Integer()).MinContains(1)
	want = `{"type":"array","items":{"type":"boolean"},"prefixItems":[{"type":"string"},{"type":"integer"}],"contains":{"type":"integer"},"minContains":1}`
	if got := doc(t, tuple); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	cond := g.If(g.Object().Field("a", g.Const(true))).Then(g.Object().Field("b", g.String()))
	want = `{"if":{"type":"object","properties":{"a":{"const":true}},"required":["a"]},"then":{"type":"object","properties":{"b":{"type":"string"}},"required":["b"]}}`
	if got := doc(t, cond); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestDocument_YAML(t *testing.T) {
	out, err := jskema.DocumentYAML(userSchema())
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "type: object\n") || !strings.Contains(text, "additionalProperties: false") {
		t.Fatalf("yaml:\n%s", text)
	}
	if strings.Index(text, "name:") > strings.Index(text, "age:") || strings.Index(text, "age:") > strings.Index(text, "tags:") {
		t.Fatalf("property order lost:\n%s", text)
	}
}

func TestDocument_FreshOnEveryCall(t *testing.T) {
	n := userSchema()
	a := n.JSONSchema()
	a.Required = append(a.Required, "hacked")
	a.Type[0] = "string"
	if got := n.JSONSchema(); !reflect.DeepEqual(got.Required, []string{"name", "tags"}) || got.Type[0] != "object" {
		t.Fatalf("mutating a document leaked into the node: %+v", got)
	}
}

func TestConcurrentValidateAndDocument(t *testing.T) {
	n := userSchema()
	value := map[string]any{"name": "", "age": -1.0, "tags": []any{"a", "a"}, "x": true}
	want := jskema.Validate(n, value).Errors()
	wantDoc := doc(t, n)
	if len(want) != 4 {
		t.Fatalf("expected 4 issues, got %v", want)
	}

	var wg sync.WaitGroup
	fail := make(chan string, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := jskema.Validate(n, value).Errors(); !reflect.DeepEqual(got, want) {
				fail <- "issues differ"
			}
			if b, err := jskema.Document(n); err != nil || string(b) != wantDoc {
				fail <- "document differs"
			}
		}()
	}
	wg.Wait()
	close(fail)
	for msg := range fail {
		t.Fatalf("%s", msg)
	}
}
