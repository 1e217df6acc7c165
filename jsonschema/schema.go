// Package jsonschema is the wire model of a JSON Schema 2020-12 document.
//
// Schema values are plain data: the node tree in package dsl projects itself
// into a Schema, and the importer reads a Schema back into nodes. Marshal
// output is deterministic: keywords follow the struct field order, properties
// and patternProperties keep their declaration order, other maps are sorted.
package jsonschema

// Draft202012 is the $schema URI of the 2020-12 dialect.
const Draft202012 = "https://json-schema.org/draft/2020-12/schema"

// Schema is a JSON Schema document or subschema. When Bool is set the schema
// is a boolean schema (true or false) and every other field is ignored.
type Schema struct {
	Bool *bool `json:"-" yaml:"-"`

	// Core
	SchemaURI     string             `json:"$schema,omitempty" yaml:"$schema,omitempty"`
	ID            string             `json:"$id,omitempty" yaml:"$id,omitempty"`
	Ref           string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	DynamicRef    string             `json:"$dynamicRef,omitempty" yaml:"$dynamicRef,omitempty"`
	DynamicAnchor string             `json:"$dynamicAnchor,omitempty" yaml:"$dynamicAnchor,omitempty"`
	Comment       string             `json:"$comment,omitempty" yaml:"$comment,omitempty"`
	Defs          map[string]*Schema `json:"$defs,omitempty" yaml:"$defs,omitempty"`

	// Type and metadata
	Type        Types    `json:"type,omitempty" yaml:"type,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Default     *Literal `json:"default,omitempty" yaml:"default,omitempty"`
	Examples    []any    `json:"examples,omitempty" yaml:"examples,omitempty"`
	ReadOnly    bool     `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	WriteOnly   bool     `json:"writeOnly,omitempty" yaml:"writeOnly,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`

	// Any instance
	Enum  []any    `json:"enum,omitempty" yaml:"enum,omitempty"`
	Const *Literal `json:"const,omitempty" yaml:"const,omitempty"`

	// String
	Format          string `json:"format,omitempty" yaml:"format,omitempty"`
	ContentEncoding string `json:"contentEncoding,omitempty" yaml:"contentEncoding,omitempty"`
	MinLength       *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength       *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern         string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty" yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty" yaml:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty" yaml:"multipleOf,omitempty"`

	// Array
	Items            *Schema   `json:"items,omitempty" yaml:"items,omitempty"`
	PrefixItems      []*Schema `json:"prefixItems,omitempty" yaml:"prefixItems,omitempty"`
	Contains         *Schema   `json:"contains,omitempty" yaml:"contains,omitempty"`
	MinContains      *int      `json:"minContains,omitempty" yaml:"minContains,omitempty"`
	MaxContains      *int      `json:"maxContains,omitempty" yaml:"maxContains,omitempty"`
	MinItems         *int      `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems         *int      `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	UniqueItems      bool      `json:"uniqueItems,omitempty" yaml:"uniqueItems,omitempty"`
	UnevaluatedItems *Schema   `json:"unevaluatedItems,omitempty" yaml:"unevaluatedItems,omitempty"`

	// Object
	Properties            *Properties         `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required              []string            `json:"required,omitempty" yaml:"required,omitempty"`
	MinProperties         *int                `json:"minProperties,omitempty" yaml:"minProperties,omitempty"`
	MaxProperties         *int                `json:"maxProperties,omitempty" yaml:"maxProperties,omitempty"`
	AdditionalProperties  *Schema             `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	PatternProperties     *Properties         `json:"patternProperties,omitempty" yaml:"patternProperties,omitempty"`
	PropertyNames         *Schema             `json:"propertyNames,omitempty" yaml:"propertyNames,omitempty"`
	DependentRequired     map[string][]string `json:"dependentRequired,omitempty" yaml:"dependentRequired,omitempty"`
	DependentSchemas      map[string]*Schema  `json:"dependentSchemas,omitempty" yaml:"dependentSchemas,omitempty"`
	UnevaluatedProperties *Schema             `json:"unevaluatedProperties,omitempty" yaml:"unevaluatedProperties,omitempty"`

	// Composition and conditionals
	AnyOf []*Schema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty" yaml:"allOf,omitempty"`
	Not   *Schema   `json:"not,omitempty" yaml:"not,omitempty"`
	If    *Schema   `json:"if,omitempty" yaml:"if,omitempty"`
	Then  *Schema   `json:"then,omitempty" yaml:"then,omitempty"`
	Else  *Schema   `json:"else,omitempty" yaml:"else,omitempty"`

	// Unknown lists keywords seen while decoding that this model does not
	// know about. It is never serialized.
	Unknown []string `json:"-" yaml:"-"`
}

// True returns the boolean schema that accepts everything.
func True() *Schema { b := true; return &Schema{Bool: &b} }

// False returns the boolean schema that rejects everything.
func False() *Schema { b := false; return &Schema{Bool: &b} }

// IsBool reports whether s is a boolean schema.
func (s *Schema) IsBool() bool { return s != nil && s.Bool != nil }

// SetType replaces the type keyword with a single type name.
func (s *Schema) SetType(t string) { s.Type = Types{t} }

// Literal holds an arbitrary JSON value for const and default. A nil
// *Literal means the keyword is absent; a Literal holding nil is JSON null.
type Literal struct {
	Value any
}

// Lit wraps v.
func Lit(v any) *Literal { return &Literal{Value: v} }

// Types is the type keyword: a single name serializes as a string, several
// as an array.
type Types []string

// Has reports whether name is listed.
func (t Types) Has(name string) bool {
	for _, x := range t {
		if x == name {
			return true
		}
	}
	return false
}

// Ptr returns a pointer to x.
func Ptr[T any](x T) *T { return &x }
