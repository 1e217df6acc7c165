package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// schemaFields has the same layout as Schema without its methods, so the
// codecs below can delegate to the default struct encoding.
type schemaFields Schema

var knownKeywords = func() map[string]bool {
	out := map[string]bool{}
	t := reflect.TypeOf(schemaFields{})
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			out[name] = true
		}
	}
	return out
}()

// IsKnownKeyword reports whether k is a keyword of this model.
func IsKnownKeyword(k string) bool { return knownKeywords[k] }

// Marshal encodes s as compact JSON.
func Marshal(s *Schema) ([]byte, error) {
	if s == nil {
		return []byte("true"), nil
	}
	return gojson.Marshal(s)
}

// MarshalIndent encodes s as indented JSON.
func MarshalIndent(s *Schema, prefix, indent string) ([]byte, error) {
	if s == nil {
		return []byte("true"), nil
	}
	return gojson.MarshalIndent(s, prefix, indent)
}

// Unmarshal decodes a JSON document. Numbers in enum, const, default and
// examples are kept as json.Number.
func Unmarshal(data []byte) (*Schema, error) {
	var s Schema
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return &s, nil
}

// ToYAML encodes s as a YAML document.
func ToYAML(s *Schema) ([]byte, error) {
	if s == nil {
		s = True()
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromYAML decodes a single YAML document.
func FromYAML(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s Schema) MarshalJSON() ([]byte, error) {
	if s.Bool != nil {
		return gojson.Marshal(*s.Bool)
	}
	return gojson.Marshal(schemaFields(s))
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	t := bytes.TrimSpace(data)
	switch string(t) {
	case "true":
		*s = *True()
		return nil
	case "false":
		*s = *False()
		return nil
	}
	var raw map[string]gojson.RawMessage
	if err := gojson.Unmarshal(t, &raw); err != nil {
		return fmt.Errorf("jsonschema: schema must be an object or boolean: %w", err)
	}
	var f schemaFields
	dec := gojson.NewDecoder(bytes.NewReader(t))
	dec.UseNumber()
	if err := dec.Decode(&f); err != nil {
		return err
	}
	*s = Schema(f)
	s.Unknown = unknownOf(raw)
	return nil
}

func unknownOf[V any](m map[string]V) []string {
	var out []string
	for k := range m {
		if !knownKeywords[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (s Schema) MarshalYAML() (any, error) {
	if s.Bool != nil {
		return *s.Bool, nil
	}
	f := schemaFields(s)
	f.Enum = yamlValues(f.Enum)
	f.Examples = yamlValues(f.Examples)
	return f, nil
}

func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("jsonschema: schema must be a mapping or boolean (line %d)", node.Line)
		}
		*s = Schema{Bool: &b}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("jsonschema: schema must be a mapping or boolean (line %d)", node.Line)
	}
	var f schemaFields
	if err := node.Decode(&f); err != nil {
		return err
	}
	*s = Schema(f)
	keys := map[string]struct{}{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = struct{}{}
	}
	s.Unknown = unknownOf(keys)
	return nil
}

func (t Types) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return gojson.Marshal(t[0])
	}
	return gojson.Marshal([]string(t))
}

func (t *Types) UnmarshalJSON(data []byte) error {
	var one string
	if err := gojson.Unmarshal(data, &one); err == nil {
		*t = Types{one}
		return nil
	}
	var many []string
	if err := gojson.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("jsonschema: type must be a string or array of strings")
	}
	*t = many
	return nil
}

func (t Types) MarshalYAML() (any, error) {
	if len(t) == 1 {
		return t[0], nil
	}
	return []string(t), nil
}

func (t *Types) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = Types{node.Value}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*t = many
		return nil
	}
	return fmt.Errorf("jsonschema: type must be a string or sequence (line %d)", node.Line)
}

func (l Literal) MarshalJSON() ([]byte, error) { return gojson.Marshal(l.Value) }

func (l *Literal) UnmarshalJSON(data []byte) error {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(&l.Value)
}

func (l Literal) MarshalYAML() (any, error) { return yamlValue(l.Value), nil }

func (l *Literal) UnmarshalYAML(node *yaml.Node) error { return node.Decode(&l.Value) }

// yamlValue rewrites json.Number leaves into int64 or float64 so YAML emits
// them as plain scalars rather than quoted strings.
func yamlValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		return yamlValues(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = yamlValue(e)
		}
		return out
	}
	return v
}

func yamlValues(vs []any) []any {
	if vs == nil {
		return nil
	}
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = yamlValue(v)
	}
	return out
}
