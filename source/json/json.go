// Package json adapts encoding/json's streaming decoder to the engine's
// token source.
package json

import (
	"bytes"
	"encoding/json"
	"io"

	eng "github.com/reoring/jskema/internal/engine"
)

type jsonSource struct {
	dec        *json.Decoder
	track      eng.Tracker
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()
	out := eng.Token{Kind: eng.KindNull, Offset: s.lastOffset}

	switch v := tok.(type) {
	case json.Delim:
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
	case json.Number:
		out.Kind, out.Number = eng.KindNumber, string(v)
	}
	s.track.Value()
	return out, nil
}

func (s *jsonSource) Location() int64 { return s.lastOffset }
