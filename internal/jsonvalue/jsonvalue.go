// Package jsonvalue inspects decoded JSON values: the shapes produced by
// encoding/json and go-json (with or without UseNumber), YAML decoding, and
// plain Go values handed to Validate directly.
package jsonvalue

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// JSON type names as used by the type keyword.
const (
	Null    = "null"
	Boolean = "boolean"
	Integer = "integer"
	Number  = "number"
	String  = "string"
	Array   = "array"
	Object  = "object"
)

// Kind returns the JSON type name of v. Integral numbers report "number";
// use IsInteger to refine. Values with no JSON shape report their Go type.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return Null
	case bool:
		return Boolean
	case string:
		return String
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return Number
	case []any:
		return Array
	case map[string]any:
		return Object
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return Array
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return Object
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return Null
		}
		return Kind(rv.Elem().Interface())
	}
	return rv.Type().String()
}

// AsFloat returns the numeric value of v.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// asRat returns the exact value of an integer or json.Number. Floats have
// none: they compare as float64 so that 0.1 equals json.Number("0.1").
func asRat(v any) (*big.Rat, bool) {
	switch x := v.(type) {
	case json.Number:
		return new(big.Rat).SetString(string(x))
	case int:
		return new(big.Rat).SetInt64(int64(x)), true
	case int8:
		return new(big.Rat).SetInt64(int64(x)), true
	case int16:
		return new(big.Rat).SetInt64(int64(x)), true
	case int32:
		return new(big.Rat).SetInt64(int64(x)), true
	case int64:
		return new(big.Rat).SetInt64(x), true
	case uint:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(x)), true
	case uint64:
		return new(big.Rat).SetUint64(x), true
	}
	return nil, false
}

// IsNumber reports whether v is a JSON number.
func IsNumber(v any) bool {
	_, ok := AsFloat(v)
	return ok
}

// IsInteger reports whether v is a number with no fractional part. 1.0 is an
// integer.
func IsInteger(v any) bool {
	switch x := v.(type) {
	case json.Number:
		if _, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return true
		}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	f, ok := AsFloat(v)
	return ok && !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
}

// AsArray returns v as a slice of elements.
func AsArray(v any) ([]any, bool) {
	if a, ok := v.([]any); ok {
		return a, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// AsObject returns v as a string-keyed map.
func AsObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		out[it.Key().String()] = it.Value().Interface()
	}
	return out, true
}

// Equal reports JSON equality: numbers compare by exact value regardless of
// their Go representation, arrays element-wise, objects by key set and values.
func Equal(a, b any) bool {
	if fa, ok := AsFloat(a); ok {
		fb, ok := AsFloat(b)
		if !ok {
			return false
		}
		if ra, ok := asRat(a); ok {
			if rb, ok := asRat(b); ok {
				return ra.Cmp(rb) == 0
			}
		}
		return fa == fb
	}
	switch ka := Kind(a); ka {
	case Null:
		return Kind(b) == Null
	case Boolean, String:
		return Kind(b) == ka && a == b
	case Array:
		xa, _ := AsArray(a)
		xb, ok := AsArray(b)
		if !ok || len(xa) != len(xb) {
			return false
		}
		for i := range xa {
			if !Equal(xa[i], xb[i]) {
				return false
			}
		}
		return true
	case Object:
		ma, _ := AsObject(a)
		mb, ok := AsObject(b)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Render encodes v as compact JSON for messages. Unencodable values fall
// back to their Kind.
func Render(v any) string {
	b, err := gojson.Marshal(v)
	if err != nil {
		return Kind(v)
	}
	return string(b)
}
