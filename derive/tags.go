package derive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/dsl"
)

// annotation is one key[=value] item of a jskema struct tag.
type annotation struct {
	key   string
	value string
}

// flags are annotations without a value.
var flags = map[string]bool{
	"deprecated":  true,
	"readOnly":    true,
	"writeOnly":   true,
	"uniqueItems": true,
	"required":    true,
	"optional":    true,
	"nullable":    true,
}

// parseTag splits a jskema tag on unescaped commas. `\,` stands for a
// literal comma inside a value.
func parseTag(tag string) ([]annotation, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, nil
	}
	var (
		out  []annotation
		part strings.Builder
	)
	emit := func() error {
		item := strings.TrimSpace(part.String())
		part.Reset()
		if item == "" {
			return nil
		}
		key, value, hasValue := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if flags[key] {
			if hasValue {
				return fmt.Errorf("annotation %q takes no value", key)
			}
		} else if !hasValue {
			return fmt.Errorf("annotation %q needs a value", key)
		}
		out = append(out, annotation{key: key, value: value})
		return nil
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c == '\\' && i+1 < len(tag) && tag[i+1] == ',':
			part.WriteByte(',')
			i++
		case c == ',':
			if err := emit(); err != nil {
				return nil, err
			}
		default:
			part.WriteByte(c)
		}
	}
	if err := emit(); err != nil {
		return nil, err
	}
	return out, nil
}

// fold applies annotations to n in order. Constraints reach the node under
// any decoration, which is kept.
func fold(n jskema.Node, anns []annotation) (jskema.Node, error) {
	var err error
	for _, a := range anns {
		if n, err = apply(n, a); err != nil {
			return nil, fmt.Errorf("%s: %w", a.key, err)
		}
	}
	return n, nil
}

func apply(n jskema.Node, a annotation) (jskema.Node, error) {
	switch a.key {
	case "name", "required", "optional":
		return n, nil
	case "nullable":
		return dsl.Nullable(n), nil
	case "title":
		return dsl.Title(n, a.value), nil
	case "description":
		return dsl.Description(n, a.value), nil
	case "deprecated":
		return dsl.Deprecated(n), nil
	case "readOnly":
		return dsl.ReadOnly(n), nil
	case "writeOnly":
		return dsl.WriteOnly(n), nil
	case "default":
		v, err := literal(dsl.Unwrap(n), a.value)
		if err != nil {
			return nil, err
		}
		return dsl.Default(n, v), nil
	case "examples":
		parts := strings.Split(a.value, "|")
		vs := make([]any, len(parts))
		for i, p := range parts {
			v, err := literal(dsl.Unwrap(n), p)
			if err != nil {
				return nil, err
			}
			vs[i] = v
		}
		return dsl.Examples(n, vs...), nil
	}
	inner, err := constrain(dsl.Unwrap(n), a)
	if err != nil {
		return nil, err
	}
	if d, ok := n.(dsl.Decorated); ok {
		return d.WithInner(inner), nil
	}
	return inner, nil
}

// constrain applies a validation keyword to an undecorated node.
func constrain(n jskema.Node, a annotation) (jskema.Node, error) {
	switch a.key {
	case "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum", "multipleOf":
		num, ok := n.(dsl.NumberNode)
		if !ok {
			return nil, inapplicable(a.key, n)
		}
		f, err := strconv.ParseFloat(a.value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", a.value)
		}
		switch a.key {
		case "minimum":
			return num.Minimum(f), nil
		case "maximum":
			return num.Maximum(f), nil
		case "exclusiveMinimum":
			return num.ExclusiveMinimum(f), nil
		case "exclusiveMaximum":
			return num.ExclusiveMaximum(f), nil
		default:
			return num.MultipleOf(f), nil
		}

	case "minLength", "maxLength", "pattern", "format":
		str, ok := n.(dsl.StringNode)
		if !ok {
			return nil, inapplicable(a.key, n)
		}
		switch a.key {
		case "pattern":
			if _, err := regexp.Compile(a.value); err != nil {
				return nil, fmt.Errorf("invalid regex %q: %v", a.value, err)
			}
			return str.Pattern(a.value), nil
		case "format":
			return str.Format(a.value), nil
		}
		l, err := count(a.value)
		if err != nil {
			return nil, err
		}
		if a.key == "minLength" {
			return str.MinLength(l), nil
		}
		return str.MaxLength(l), nil

	case "minItems", "maxItems", "uniqueItems":
		arr, ok := n.(dsl.ArrayNode)
		if !ok {
			return nil, inapplicable(a.key, n)
		}
		if a.key == "uniqueItems" {
			return arr.UniqueItems(), nil
		}
		c, err := count(a.value)
		if err != nil {
			return nil, err
		}
		if a.key == "minItems" {
			return arr.MinItems(c), nil
		}
		return arr.MaxItems(c), nil

	case "minProperties", "maxProperties":
		obj, ok := n.(dsl.ObjectNode)
		if !ok {
			return nil, inapplicable(a.key, n)
		}
		c, err := count(a.value)
		if err != nil {
			return nil, err
		}
		if a.key == "minProperties" {
			return obj.MinProperties(c), nil
		}
		return obj.MaxProperties(c), nil

	case "enum":
		parts := strings.Split(a.value, "|")
		switch x := n.(type) {
		case dsl.StringNode:
			return x.Enum(parts...), nil
		case dsl.NumberNode:
			fs := make([]float64, len(parts))
			for i, p := range parts {
				f, err := strconv.ParseFloat(p, 64)
				if err != nil {
					return nil, fmt.Errorf("bad number %q", p)
				}
				fs[i] = f
			}
			return x.Enum(fs...), nil
		}
		return nil, inapplicable(a.key, n)

	case "const":
		switch x := n.(type) {
		case dsl.StringNode:
			return x.Const(a.value), nil
		case dsl.NumberNode:
			f, err := strconv.ParseFloat(a.value, 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q", a.value)
			}
			return x.Const(f), nil
		case dsl.BoolNode:
			b, err := strconv.ParseBool(a.value)
			if err != nil {
				return nil, fmt.Errorf("bad boolean %q", a.value)
			}
			return x.Const(b), nil
		}
		return nil, inapplicable(a.key, n)
	}
	return nil, fmt.Errorf("unknown annotation")
}

// literal parses a default or example for the kind of n. Strings are taken
// verbatim; other nodes accept a JSON literal.
func literal(n jskema.Node, s string) (any, error) {
	switch x := n.(type) {
	case dsl.StringNode:
		return s, nil
	case dsl.BoolNode:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("bad boolean %q", s)
		}
		return b, nil
	case dsl.NumberNode:
		if x.IsInteger() {
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad integer %q", s)
			}
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", s)
		}
		return f, nil
	}
	var v any
	if err := gojson.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("bad JSON literal %q", s)
	}
	return v, nil
}

func count(s string) (int, error) {
	c, err := strconv.Atoi(s)
	if err != nil || c < 0 {
		return 0, fmt.Errorf("bad count %q", s)
	}
	return c, nil
}

func inapplicable(key string, n jskema.Node) error {
	return fmt.Errorf("%s does not apply to %T", key, n)
}
