package jskema

import (
	"reflect"
	"strings"
)

// ResolveStructKey resolves the JSON property name of a struct field.
// Priority: jskema:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("jskema"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			if name, ok := strings.CutPrefix(strings.TrimSpace(p), "name="); ok {
				return name
			}
		}
	}
	if jt, ok := sf.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(jt, ",")
		if name != "" {
			return name
		}
	}
	return sf.Name
}

// HasOmitEmpty reports whether the json tag carries omitempty or omitzero.
func HasOmitEmpty(sf reflect.StructField) bool {
	jt, ok := sf.Tag.Lookup("json")
	if !ok {
		return false
	}
	_, opts, _ := strings.Cut(jt, ",")
	for _, o := range strings.Split(opts, ",") {
		if o == "omitempty" || o == "omitzero" {
			return true
		}
	}
	return false
}
