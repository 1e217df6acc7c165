package jskema_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	jskema "github.com/reoring/jskema"
	js "github.com/reoring/jskema/jsonschema"
)

// acceptAll is a node that records nothing and accepts every value.
type acceptAll struct{}

func (acceptAll) JSONSchema() *js.Schema                     { return js.True() }
func (acceptAll) Validate(any, jskema.Context) jskema.Result { return jskema.Valid() }
func (acceptAll) Meta() jskema.Meta                          { return jskema.Meta{} }

func firstIssue(t *testing.T, res jskema.Result) jskema.Issue {
	t.Helper()
	if res.IsValid() {
		t.Fatalf("expected an invalid result")
	}
	return res.Errors()[0]
}

func TestStreamValidate_DuplicateKey_Error(t *testing.T) {
	opt := jskema.ParseOpt{Strictness: jskema.Strictness{OnDuplicateKey: jskema.Error}}
	res, err := jskema.StreamValidate(context.Background(), acceptAll{}, bytes.NewReader([]byte(`{"a":1,"a":2}`)), opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := firstIssue(t, res)
	if it.Code != jskema.CodeDuplicateKey || it.Path != "/a" {
		t.Fatalf("expected duplicate_key at /a, got %+v", it)
	}
}

func TestStreamValidate_DuplicateKey_NestedPath(t *testing.T) {
	opt := jskema.ParseOpt{Strictness: jskema.Strictness{OnDuplicateKey: jskema.Error}}
	res, err := jskema.StreamValidate(context.Background(), acceptAll{}, bytes.NewReader([]byte(`[{"a":1,"a":2}]`)), opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it := firstIssue(t, res); it.Path != "/0/a" {
		t.Fatalf("expected path=/0/a, got: %s", it.Path)
	}
}

func TestStreamValidate_MaxDepth_Exceeded(t *testing.T) {
	// depth = 3 for { a: { b: { c: 1 } } }
	res, err := jskema.StreamValidate(context.Background(), acceptAll{}, bytes.NewReader([]byte(`{"a":{"b":{"c":1}}}`)), jskema.ParseOpt{MaxDepth: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it := firstIssue(t, res); it.Path != "/a/b" {
		t.Fatalf("expected path=/a/b for max depth, got: %+v", it)
	}
}

func TestStreamValidate_MaxBytes_Exceeded(t *testing.T) {
	data := append([]byte("{}"), bytes.Repeat([]byte(" "), 1024)...)
	res, err := jskema.StreamValidate(context.Background(), acceptAll{}, bytes.NewReader(data), jskema.ParseOpt{MaxBytes: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := firstIssue(t, res)
	if it.Code != jskema.CodeTruncated || it.Path != "/" {
		t.Fatalf("expected truncated at /, got: %+v", it)
	}
}

func TestValidateFrom_MalformedAndTrailingData(t *testing.T) {
	for _, in := range []string{`{"a":`, `{"a":1} {"b":2}`, `[1,]`} {
		res, err := jskema.ValidateFrom(context.Background(), acceptAll{}, jskema.JSONBytes([]byte(in)))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if it := firstIssue(t, res); it.Code != jskema.CodeParseError {
			t.Fatalf("%s: expected parse_error, got %+v", in, it)
		}
	}
}

func TestValidateFrom_NilNodeAndCancelledContext(t *testing.T) {
	if _, err := jskema.ValidateFrom(context.Background(), nil, jskema.JSONBytes([]byte(`1`))); err == nil {
		t.Fatalf("expected error for nil node")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := jskema.ValidateFrom(ctx, acceptAll{}, jskema.JSONBytes([]byte(`1`))); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDecodeFrom_WarnCollectsDuplicates(t *testing.T) {
	opt := jskema.ParseOpt{Strictness: jskema.Strictness{OnDuplicateKey: jskema.Warn}}
	v, warnings, err := jskema.DecodeFrom(context.Background(), jskema.JSONBytes([]byte(`{"a":1,"a":2,"b":[1.5]}`)), opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Path != "/a" {
		t.Fatalf("warnings = %v", warnings)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("unexpected value %T", v)
	}
	if _, ok := m["b"].([]any)[0].(json.Number); !ok {
		t.Fatalf("numbers should decode as json.Number by default, got %T", m["b"].([]any)[0])
	}
}

func TestDecodeFrom_NumberModeFloat64(t *testing.T) {
	src := jskema.WithNumberMode(jskema.JSONBytes([]byte(`[1, 2.5]`)), jskema.NumberFloat64)
	v, _, err := jskema.DecodeFrom(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr := v.([]any)
	if arr[0] != 1.0 || arr[1] != 2.5 {
		t.Fatalf("unexpected values: %#v", arr)
	}
}
