package derive

import (
	"bytes"
	"sort"

	gojson "github.com/goccy/go-json"
)

// Set is a set of comparable values whose JSON form is an array. Fields of
// this type derive as an array with uniqueItems; a plain map[K]struct{}
// encodes as an object and derives as one.
//
// Elements are encoded in the byte order of their JSON encodings, so equal
// sets always marshal identically. A nil Set marshals as [].
type Set[T comparable] map[T]struct{}

// NewSet returns a set holding vs.
func NewSet[T comparable](vs ...T) Set[T] {
	s := make(Set[T], len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has reports whether v is in the set.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (Set[T]) jsonArraySet() {}

// MarshalJSON encodes the set as a JSON array.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	elems := make([][]byte, 0, len(s))
	for v := range s {
		b, err := gojson.Marshal(v)
		if err != nil {
			return nil, err
		}
		elems = append(elems, b)
	}
	sort.Slice(elems, func(i, j int) bool { return bytes.Compare(elems[i], elems[j]) < 0 })
	return append(append([]byte{'['}, bytes.Join(elems, []byte{','})...), ']'), nil
}

// UnmarshalJSON decodes a JSON array; repeated elements collapse.
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*s = nil
		return nil
	}
	var vs []T
	if err := gojson.Unmarshal(data, &vs); err != nil {
		return err
	}
	*s = NewSet(vs...)
	return nil
}
