// Package jskema models JSON Schema 2020-12 documents as immutable node trees
// and validates decoded JSON values against them.
//
// The root package holds the shared contract:
//
//   - Node: every schema element projects itself into a jsonschema.Schema
//     document and validates a value under a Context.
//   - Result and Issues: validation outcomes with JSON Pointer paths and stable
//     codes (invalid_type, required, out_of_range, composition, reference, ...).
//   - Context: the instance path, the root node and the $defs scopes used by
//     reference nodes.
//   - Source and JSONDriver: streaming JSON input with duplicate-key, depth and
//     size enforcement (ValidateFrom, StreamValidate).
//
// Node variants live in dsl/, reflection-based derivation in derive/, the
// document importer in importer/, and the CLI in cmd/jskema.
//
// Typical usage:
//
//	user := dsl.Object().
//		Field("name", dsl.String().MinLength(1)).
//		Field("age", dsl.Optional(dsl.Integer().Minimum(0)))
//	doc, err := jskema.Document(user)
//	res := jskema.Validate(user, map[string]any{"name": ""})
//	res, err = jskema.ValidateFrom(ctx, user, jskema.JSONBytes(data))
package jskema
