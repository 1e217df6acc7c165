package importer_test

import (
	"errors"
	"strings"
	"testing"

	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/dsl"
	"github.com/reoring/jskema/importer"
)

func TestImport_Minimal_ObjectRequired_StrictUnknown(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required":             []any{"name"},
		"additionalProperties": false,
	}
	n, diag, err := importer.Import(schema, importer.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}
	if !jskema.Is(n, map[string]any{"name": "ok"}) {
		t.Fatalf("expected valid")
	}
	res := jskema.Validate(n, map[string]any{"name": "ok", "zzz": 1})
	if res.IsValid() {
		t.Fatalf("expected unknown_key error")
	}
	it := res.Errors()[0]
	if it.Code != jskema.CodeUnknownKey || it.Path != "/" {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func userNode() jskema.Node {
	return dsl.Object().
		Field("name", dsl.String().MinLength(1)).
		Field("age", dsl.OptionalNullable(dsl.Integer().Minimum(0))).
		Field("tags", dsl.Array(dsl.String()).UniqueItems()).
		Field("role", dsl.Default(dsl.String().Enum("admin", "member"), "member")).
		Strict()
}

func TestImport_RoundTripDocument(t *testing.T) {
	n := userNode()
	want, err := jskema.Document(n)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	m, _, err := importer.Import(n.JSONSchema(), importer.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	got, err := jskema.Document(m)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("round trip differs:\n got %s\nwant %s", got, want)
	}

	// Also through bytes.
	m2, _, err := importer.Import(want, importer.Options{})
	if err != nil {
		t.Fatalf("import bytes err: %v", err)
	}
	if got2, _ := jskema.Document(m2); string(got2) != string(want) {
		t.Fatalf("bytes round trip differs:\n got %s\nwant %s", got2, want)
	}
}

func TestImport_RoundTripValidatesTheSame(t *testing.T) {
	n := dsl.Object().
		Field("id", dsl.String().Format(dsl.FormatUUID)).
		Field("items", dsl.Tuple(dsl.String(), dsl.Integer()).MinItems(1)).
		Field("kind", dsl.OneOf(dsl.Const("a"), dsl.Const("b"))).
		Field("note", dsl.Optional(dsl.Not(dsl.String().MaxLength(0)))).
		PatternProperty("^x-", dsl.Bool()).
		DependentRequired("card", "billing")
	m, _, err := importer.Import(n.JSONSchema(), importer.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	values := []any{
		map[string]any{"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "items": []any{"a", 1}, "kind": "a"},
		map[string]any{"id": "nope", "items": []any{}, "kind": "c"},
		map[string]any{"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "items": []any{1}, "kind": "b", "x-flag": "yes"},
		map[string]any{"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "items": []any{"a"}, "kind": "a", "card": 1, "note": ""},
		"not an object",
	}
	for i, v := range values {
		a, b := jskema.Validate(n, v), jskema.Validate(m, v)
		if a.IsValid() != b.IsValid() || len(a.Errors()) != len(b.Errors()) {
			t.Fatalf("value %d: original %v, imported %v", i, a.Errors(), b.Errors())
		}
		for j := range a.Errors() {
			if a.Errors()[j].Path != b.Errors()[j].Path || a.Errors()[j].Code != b.Errors()[j].Code {
				t.Fatalf("value %d issue %d: %+v vs %+v", i, j, a.Errors()[j], b.Errors()[j])
			}
		}
	}
}

func TestImport_DefsAndRefs(t *testing.T) {
	doc := []byte(`{
		"$defs": {"positive": {"type": "integer", "exclusiveMinimum": 0}},
		"type": "object",
		"properties": {"n": {"$ref": "#/$defs/positive"}}
	}`)
	n, _, err := importer.Import(doc, importer.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	res := jskema.Validate(n, map[string]any{"n": 0})
	if res.IsValid() || res.Errors()[0].Path != "/n" || res.Errors()[0].Code != jskema.CodeOutOfRange {
		t.Fatalf("unexpected result: %v", res.Errors())
	}
	if !jskema.Is(n, map[string]any{"n": 3}) {
		t.Fatalf("expected valid")
	}
}

func TestImport_UntypedKeywordsApplyToTheirType(t *testing.T) {
	n, _, err := importer.Import([]byte(`{"minLength": 2}`), importer.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	if !jskema.Is(n, 5.0) {
		t.Fatalf("numbers ignore minLength")
	}
	if jskema.Is(n, "a") {
		t.Fatalf("short string should fail")
	}
}

func TestImport_UnknownKeywords(t *testing.T) {
	doc := []byte(`{"type": "string", "nullable": true, "x-kubernetes-int-or-string": true}`)
	_, diag, err := importer.Import(doc, importer.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	ws := diag.Warnings()
	if len(ws) != 1 || !strings.Contains(ws[0], `"nullable"`) {
		t.Fatalf("warnings = %v", ws)
	}
	if _, _, err := importer.Import(doc, importer.Options{StrictKeywords: true}); err == nil {
		t.Fatalf("expected strict keyword error")
	}
}

func TestImport_InvalidRegex(t *testing.T) {
	for _, doc := range []string{
		`{"type": "string", "pattern": "["}`,
		`{"type": "object", "patternProperties": {"(": {}}}`,
	} {
		if _, _, err := importer.Import([]byte(doc), importer.Options{}); err == nil {
			t.Fatalf("expected error for %s", doc)
		}
	}
}

func TestImport_UnwrapsCRD(t *testing.T) {
	crd := map[string]any{
		"kind": "CustomResourceDefinition",
		"spec": map[string]any{
			"versions": []any{
				map[string]any{"name": "v1alpha1", "served": false, "schema": map[string]any{
					"openAPIV3Schema": map[string]any{"type": "string"},
				}},
				map[string]any{"name": "v1", "served": true, "schema": map[string]any{
					"openAPIV3Schema": map[string]any{"type": "object"},
				}},
			},
		},
	}
	n, _, err := importer.Import(crd, importer.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	if !jskema.Is(n, map[string]any{}) || jskema.Is(n, "s") {
		t.Fatalf("expected the served version's object schema")
	}
}

func TestImportYAML(t *testing.T) {
	doc := []byte(`
type: object
properties:
  replicas:
    type: integer
    minimum: 1
required: [replicas]
`)
	n, _, err := importer.ImportYAML(doc, importer.Options{})
	if err != nil {
		t.Fatalf("import err: %v", err)
	}
	res := jskema.Validate(n, map[string]any{"replicas": 0})
	if res.IsValid() || res.Errors()[0].Path != "/replicas" {
		t.Fatalf("unexpected result: %v", res.Errors())
	}

	dup := []byte("type: object\ntype: string\n")
	_, _, err = importer.ImportYAML(dup, importer.Options{})
	var de *importer.DuplicateKeyError
	if !errors.As(err, &de) || de.Key != "type" || de.Line != 2 {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestImport_RejectsUnsupportedInput(t *testing.T) {
	if _, _, err := importer.Import(42, importer.Options{}); err == nil {
		t.Fatalf("expected error")
	}
	if _, _, err := importer.Import(nil, importer.Options{}); err == nil {
		t.Fatalf("expected error")
	}
}
