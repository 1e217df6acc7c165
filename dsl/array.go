package dsl

import (
	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/internal/jsonvalue"
	js "github.com/reoring/jskema/jsonschema"
)

// ArrayNode validates JSON arrays.
type ArrayNode struct {
	items            jskema.Node
	prefix           []jskema.Node
	minItems         *int
	maxItems         *int
	unique           bool
	contains         jskema.Node
	minContains      *int
	maxContains      *int
	unevaluatedItems boolOrNode
}

// Array returns an array node whose elements validate against items. A nil
// items leaves elements unconstrained.
func Array(items jskema.Node) ArrayNode { return ArrayNode{items: items} }

// Tuple returns an array node with positional prefixItems and no items
// keyword; positions beyond the prefix are unconstrained.
func Tuple(prefix ...jskema.Node) ArrayNode {
	return ArrayNode{prefix: append([]jskema.Node(nil), prefix...)}
}

// Items replaces the items node. With prefixItems it applies to the
// positions after the prefix.
func (n ArrayNode) Items(items jskema.Node) ArrayNode { n.items = items; return n }

// PrefixItems sets the positional nodes.
func (n ArrayNode) PrefixItems(prefix ...jskema.Node) ArrayNode {
	n.prefix = append([]jskema.Node(nil), prefix...)
	return n
}

// MinItems sets the minimum array length.
func (n ArrayNode) MinItems(c int) ArrayNode { n.minItems = intPtr(c); return n }

// MaxItems sets the maximum array length.
func (n ArrayNode) MaxItems(c int) ArrayNode { n.maxItems = intPtr(c); return n }

// UniqueItems requires all elements to be distinct under JSON equality.
func (n ArrayNode) UniqueItems() ArrayNode { n.unique = true; return n }

// Contains sets the node counted by minContains and maxContains. Without
// either bound any number of matches, including zero, is accepted.
func (n ArrayNode) Contains(c jskema.Node) ArrayNode { n.contains = c; return n }

// MinContains sets the least number of elements that must match Contains.
func (n ArrayNode) MinContains(c int) ArrayNode { n.minContains = intPtr(c); return n }

// MaxContains sets the most elements that may match Contains.
func (n ArrayNode) MaxContains(c int) ArrayNode { n.maxContains = intPtr(c); return n }

// UnevaluatedItems allows or forbids elements not covered by prefixItems,
// items or a contains match.
func (n ArrayNode) UnevaluatedItems(allow bool) ArrayNode {
	n.unevaluatedItems = allowOnly(allow)
	return n
}

// UnevaluatedItemsSchema validates elements not covered by prefixItems,
// items or a contains match against s.
func (n ArrayNode) UnevaluatedItemsSchema(s jskema.Node) ArrayNode {
	n.unevaluatedItems = schemaOnly(s)
	return n
}

// IsUnique reports whether uniqueItems is set.
func (n ArrayNode) IsUnique() bool { return n.unique }

func (n ArrayNode) Meta() jskema.Meta { return jskema.Meta{} }

func (n ArrayNode) JSONSchema() *js.Schema {
	s := &js.Schema{
		Type:             js.Types{jsonvalue.Array},
		PrefixItems:      schemas(n.prefix),
		MinItems:         copyInt(n.minItems),
		MaxItems:         copyInt(n.maxItems),
		UniqueItems:      n.unique,
		MinContains:      copyInt(n.minContains),
		MaxContains:      copyInt(n.maxContains),
		UnevaluatedItems: n.unevaluatedItems.schema(),
	}
	if n.items != nil {
		s.Items = n.items.JSONSchema()
	}
	if n.contains != nil {
		s.Contains = n.contains.JSONSchema()
	}
	return s
}

// Validate reports, in order: size bounds, duplicates, per-position
// violations, the contains count and unevaluated elements.
func (n ArrayNode) Validate(v any, vc jskema.Context) jskema.Result {
	arr, ok := jsonvalue.AsArray(v)
	if !ok {
		return typeMismatch(vc, jsonvalue.Array, v)
	}
	at := vc.At()
	var iss jskema.Issues

	if n.minItems != nil && len(arr) < *n.minItems {
		iss = append(iss, at.Issue(jskema.CodeMinItems, "minItems", "min", *n.minItems, "got", len(arr)))
	}
	if n.maxItems != nil && len(arr) > *n.maxItems {
		iss = append(iss, at.Issue(jskema.CodeMaxItems, "maxItems", "max", *n.maxItems, "got", len(arr)))
	}
	if n.unique {
		iss = append(iss, duplicates(arr, vc)...)
	}

	evaluated := make([]bool, len(arr))
	res := jskema.Invalid(iss...)
	for i, e := range arr {
		var child jskema.Node
		switch {
		case i < len(n.prefix):
			child = n.prefix[i]
		case n.items != nil:
			child = n.items
		default:
			continue
		}
		evaluated[i] = true
		res = res.Combine(child.Validate(e, vc.WithIndex(i)))
	}

	if n.contains != nil {
		matched := 0
		for i, e := range arr {
			if n.contains.Validate(e, vc.WithIndex(i)).IsValid() {
				matched++
				evaluated[i] = true
			}
		}
		low := n.minContains != nil && matched < *n.minContains
		high := n.maxContains != nil && matched > *n.maxContains
		if low || high {
			kv := []any{"matched", matched}
			if n.minContains != nil {
				kv = append(kv, "min", *n.minContains)
			}
			if n.maxContains != nil {
				kv = append(kv, "max", *n.maxContains)
			}
			res = res.Combine(jskema.Invalid(at.Issue(jskema.CodeContains, "contains", kv...)))
		}
	}

	if n.unevaluatedItems.constrains() {
		for i, e := range arr {
			if evaluated[i] {
				continue
			}
			ec := vc.WithIndex(i)
			if n.unevaluatedItems.node != nil {
				res = res.Combine(n.unevaluatedItems.node.Validate(e, ec))
				continue
			}
			res = res.Combine(jskema.Invalid(ec.At().Issue(jskema.CodeUnevaluated, "unevaluatedItems", "index", i)))
		}
	}
	return res
}

// duplicates reports each element equal to an earlier one, once, against
// the first earlier occurrence.
func duplicates(arr []any, vc jskema.Context) jskema.Issues {
	var iss jskema.Issues
	for j := 1; j < len(arr); j++ {
		for i := 0; i < j; i++ {
			if jsonvalue.Equal(arr[i], arr[j]) {
				iss = append(iss, vc.At().Issue(jskema.CodeUniqueness, "uniqueItems", "first", i, "second", j))
				break
			}
		}
	}
	return iss
}
