// Package importer turns JSON Schema documents back into schema nodes.
//
// Every 2020-12 keyword the dsl package renders maps back to its node, so a
// document produced by Node.JSONSchema imports into a node that validates
// the same values. Documents wrapped as an OpenAPI schema
// ({"openAPIV3Schema": ...}) or a Kubernetes CustomResourceDefinition are
// unwrapped first.
package importer

import (
	"bytes"
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"
	jskema "github.com/reoring/jskema"
	js "github.com/reoring/jskema/jsonschema"
)

// Import compiles a schema document into a node. doc may be raw JSON bytes,
// a decoded map[string]any (or bool), or a *jsonschema.Schema.
func Import(doc any, opts Options) (jskema.Node, Diag, error) {
	d := &simpleDiag{}
	if doc == nil {
		return nil, d, errors.New("importer: nil document")
	}
	var (
		s   *js.Schema
		err error
	)
	switch t := doc.(type) {
	case *js.Schema:
		s = t
	case js.Schema:
		s = &t
	case []byte:
		var v any
		if v, err = decodeJSON(t); err != nil {
			return nil, d, fmt.Errorf("importer: invalid JSON: %w", err)
		}
		if m, ok := v.(map[string]any); ok && unwrapOpenAPI(m) != nil {
			s, err = toSchema(m)
			break
		}
		// Decode the bytes directly to keep the order of properties.
		if s, err = js.Unmarshal(t); err != nil {
			err = fmt.Errorf("importer: invalid schema: %w", err)
		}
	case map[string]any, bool:
		s, err = toSchema(t)
	default:
		return nil, d, fmt.Errorf("importer: unsupported document type %T", doc)
	}
	if err != nil {
		return nil, d, err
	}
	b := &builder{opts: opts, diag: d}
	n, err := b.node(s, "#")
	if err != nil {
		return nil, d, err
	}
	return n, d, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// toSchema re-encodes a decoded document so the jsonschema codecs see the
// canonical keyword set.
func toSchema(v any) (*js.Schema, error) {
	if m, ok := v.(map[string]any); ok {
		if inner := unwrapOpenAPI(m); inner != nil {
			v = inner
		}
	}
	raw, err := gojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("importer: cannot encode document: %w", err)
	}
	s, err := js.Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("importer: invalid schema: %w", err)
	}
	return s, nil
}

// unwrapOpenAPI returns the schema inside {"openAPIV3Schema": ...} or inside
// a CRD's spec.versions[].schema.openAPIV3Schema (preferring a served
// version), or nil when root is a plain schema.
func unwrapOpenAPI(root map[string]any) map[string]any {
	if oas, ok := root["openAPIV3Schema"].(map[string]any); ok {
		return oas
	}
	if kind, _ := root["kind"].(string); kind != "CustomResourceDefinition" {
		return nil
	}
	spec, _ := root["spec"].(map[string]any)
	if spec == nil {
		return nil
	}
	var fallback map[string]any
	vers, _ := spec["versions"].([]any)
	for _, v := range vers {
		vm, _ := v.(map[string]any)
		sch, _ := vm["schema"].(map[string]any)
		oas, _ := sch["openAPIV3Schema"].(map[string]any)
		if oas == nil {
			continue
		}
		if served, ok := vm["served"].(bool); !ok || served {
			return oas
		}
		if fallback == nil {
			fallback = oas
		}
	}
	if fallback != nil {
		return fallback
	}
	if val, ok := spec["validation"].(map[string]any); ok {
		if oas, ok := val["openAPIV3Schema"].(map[string]any); ok {
			return oas
		}
	}
	return nil
}
