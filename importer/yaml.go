package importer

import (
	"errors"
	"fmt"
	"strconv"

	jskema "github.com/reoring/jskema"
	js "github.com/reoring/jskema/jsonschema"
	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a key repeated within one YAML mapping.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// ImportYAML imports a YAML schema document. Duplicate mapping keys are
// rejected with a *DuplicateKeyError.
func ImportYAML(data []byte, opts Options) (jskema.Node, Diag, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("importer: invalid YAML: %w", err)
	}
	v, err := yamlToValue(&root)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	if v == nil {
		return nil, &simpleDiag{}, errors.New("importer: empty YAML document")
	}
	if m, ok := v.(map[string]any); ok && unwrapOpenAPI(m) == nil {
		// Decode the document directly to keep the order of properties.
		s, err := js.FromYAML(data)
		if err != nil {
			return nil, &simpleDiag{}, fmt.Errorf("importer: invalid schema: %w", err)
		}
		return Import(s, opts)
	}
	return Import(v, opts)
}

// yamlToValue converts a YAML node tree into JSON-shaped values
// (map[string]any, []any, string, bool, int64, float64, nil).
func yamlToValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlToValue(n.Content[0])
	case yaml.AliasNode:
		return yamlToValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if pos, dup := first[k.Value]; dup {
				return nil, &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			val, err := yamlToValue(v)
			if err != nil {
				return nil, err
			}
			m[k.Value] = val
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlToValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil, nil
		case "!!bool":
			if b, err := strconv.ParseBool(n.Value); err == nil {
				return b, nil
			}
		case "!!int":
			if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
				return i, nil
			}
		case "!!float":
			if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
				return f, nil
			}
		}
		return n.Value, nil
	default:
		return nil, nil
	}
}
