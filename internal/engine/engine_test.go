package engine_test

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"

	eng "github.com/reoring/jskema/internal/engine"
	jsonsrc "github.com/reoring/jskema/source/json"
)

func TestDecode_Values(t *testing.T) {
	v, err := eng.Decode(jsonsrc.NewBytes([]byte(`{"a":[1,"x",true,null],"b":{}}`)), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"a": []any{json.Number("1"), "x", true, nil},
		"b": map[string]any{},
	}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v", v)
	}
	f, err := eng.Decode(jsonsrc.NewBytes([]byte(`2.5`)), eng.AsFloat64)
	if err != nil || f != 2.5 {
		t.Fatalf("float decode = %v, %v", f, err)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := eng.Decode(jsonsrc.NewBytes(nil), nil); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("empty input: %v", err)
	}
	if _, err := eng.Decode(jsonsrc.NewBytes([]byte(`[1`)), nil); err == nil {
		t.Fatalf("expected error for unterminated array")
	}
	if _, err := eng.Decode(jsonsrc.NewBytes([]byte(`1 2`)), nil); !errors.Is(err, eng.ErrTrailingData) {
		t.Fatalf("trailing data: %v", err)
	}
}

func TestEnforcement_DuplicateKeys(t *testing.T) {
	var seen []eng.SimpleIssue
	src := eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`{"x":{"k~/":1,"k~/":2},"y":[{"a":1,"a":2}]}`)), eng.EnforceOptions{
		OnDuplicate: eng.DupWarn,
		IssueSink:   func(si eng.SimpleIssue) { seen = append(seen, si) },
	})
	if _, err := eng.Decode(src, nil); err != nil {
		t.Fatalf("warn must not fail: %v", err)
	}
	if len(seen) != 2 || seen[0].Path != "/x/k~0~1" || seen[1].Path != "/y/0/a" {
		t.Fatalf("issues = %+v", seen)
	}

	src = eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`{"a":1,"a":2}`)), eng.EnforceOptions{OnDuplicate: eng.DupError})
	_, err := eng.Decode(src, nil)
	var ie eng.IssueError
	if !errors.As(err, &ie) || ie.Code != "duplicate_key" || ie.Path != "/a" {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestEnforcement_DepthAndBytes(t *testing.T) {
	src := eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`[[[1]]]`)), eng.EnforceOptions{MaxDepth: 2})
	_, err := eng.Decode(src, nil)
	var ie eng.IssueError
	if !errors.As(err, &ie) || ie.Path != "/0/0" {
		t.Fatalf("expected depth error at /0/0, got %v", err)
	}

	src = eng.WrapWithEnforcement(jsonsrc.NewBytes([]byte(`["aaaaaaaaaa","bbbbbbbbbb"]`)), eng.EnforceOptions{MaxBytes: 5})
	_, err = eng.Decode(src, nil)
	if !errors.As(err, &ie) || ie.Code != "truncated" {
		t.Fatalf("expected truncated, got %v", err)
	}
	if (eng.EnforceOptions{}).Enabled() {
		t.Fatalf("zero options should be disabled")
	}
}

func TestTracker_KeysAndStrings(t *testing.T) {
	var tr eng.Tracker
	tr.Open(true)
	if !tr.Text() {
		t.Fatalf("first string in an object is a key")
	}
	if tr.Text() {
		t.Fatalf("second string is the value")
	}
	if !tr.Text() {
		t.Fatalf("third string is the next key")
	}
	tr.Open(false)
	if tr.Text() {
		t.Fatalf("strings in arrays are values")
	}
	tr.Close()
	if !tr.Text() {
		t.Fatalf("after the nested array closes the object expects a key")
	}
}
