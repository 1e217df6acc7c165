// Package gojson provides a JSON driver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	jskema "github.com/reoring/jskema"
	eng "github.com/reoring/jskema/internal/engine"
)

// Driver returns a jskema.JSONDriver backed by goccy/go-json.
func Driver() jskema.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) jskema.Source {
	return jskema.SourceFromEngine(NewReader(r), jskema.NumberJSONNumber)
}
func (driverGoJSON) NewBytes(b []byte) jskema.Source {
	return jskema.SourceFromEngine(NewBytes(b), jskema.NumberJSONNumber)
}
func (driverGoJSON) Name() string { return "go-json" }

type source struct {
	dec   *j.Decoder
	track eng.Tracker
}

// NewReader wraps an io.Reader into an engine.TokenSource using go-json.
// go-json does not expose input offsets, so Location is always -1 and
// MaxBytes enforcement relies on the caller limiting the reader.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	out := eng.Token{Kind: eng.KindNull, Offset: -1}

	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.track.Open(true)
			out.Kind = eng.KindBeginObject
		case '[':
			s.track.Open(false)
			out.Kind = eng.KindBeginArray
		case '}':
			s.track.Close()
			out.Kind = eng.KindEndObject
		case ']':
			s.track.Close()
			out.Kind = eng.KindEndArray
		}
		return out, nil
	case string:
		out.Kind, out.String = eng.KindString, v
		if s.track.Text() {
			out.Kind = eng.KindKey
		}
		return out, nil
	case bool:
		out.Kind, out.Bool = eng.KindBool, v
	case j.Number:
		out.Kind, out.Number = eng.KindNumber, string(v)
	case float64:
		out.Kind, out.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	}
	s.track.Value()
	return out, nil
}

func (s *source) Location() int64 { return -1 }
