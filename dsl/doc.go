// Package dsl provides the JSON Schema node variants and their builders.
//
// Overview
//   - Primitives: String(), Number(), Integer(), Bool(), Null(), Any(), Nothing(),
//     Enum(values...), Const(v).
//   - Structure: Array(items) / Tuple(prefix...), Object().Field(name, node).
//   - Composition: AnyOf, OneOf, AllOf, Not, If(cond).Then(t).Else(e).
//   - References: Ref("#/$defs/x"), DefRef("x"), DynamicRef("anchor"), Defs(body, defs).
//   - Modifiers: Optional, Nullable, OptionalNullable, Default, Title, Description,
//     Examples, ReadOnly, WriteOnly, Deprecated, SchemaVersion, ID, DynamicAnchor,
//     Comment, WithDefs. Each returns a Decorated node; decorating a Decorated
//     node merges the modifiers instead of nesting another wrapper.
//
// Every builder method has a value receiver and returns a modified copy, so a
// node can be extended without affecting the original and shared freely
// between goroutines.
//
// Validation semantics
//   - A value of the wrong JSON type yields exactly one invalid_type issue and
//     no keyword checks for that node. Keyword checks are independent and all
//     violations are collected.
//   - Object issues for missing and additional keys are reported at the
//     object's path; child violations at the child's path (/address/street).
//   - patternProperties apply to keys not declared in properties.
//   - contains without minContains and maxContains accepts any match count.
//   - unevaluatedProperties and unevaluatedItems only see what this node's own
//     keywords evaluated; sibling applicators (allOf, $ref) are not tracked.
//
// Example
//
//	address := dsl.Object().
//		Field("street", dsl.String().MinLength(1)).
//		Field("zip", dsl.Optional(dsl.String().Pattern(`^\d{5}$`)))
//	user := dsl.Object().
//		Field("name", dsl.String()).
//		Field("address", address).
//		Strict()
//	res := jskema.Validate(user, value)
package dsl
