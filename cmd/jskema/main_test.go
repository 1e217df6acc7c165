package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const userSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "integer", "minimum": 0}
  },
  "required": ["name"],
  "additionalProperties": false
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestValidateCmd_Valid(t *testing.T) {
	schema := writeFile(t, "user.json", userSchema)
	var out bytes.Buffer
	code := validateCmd([]string{"-schema", schema}, strings.NewReader(`{"name":"Reo","age":3}`), &out)
	if code != 0 || strings.TrimSpace(out.String()) != "valid" {
		t.Fatalf("code=%d out=%q", code, out.String())
	}
}

func TestValidateCmd_ReportsIssues(t *testing.T) {
	schema := writeFile(t, "user.json", userSchema)
	data := writeFile(t, "data.json", `{"name":"","age":-1,"extra":true}`)
	for _, driver := range []string{"encoding/json", "go-json"} {
		var out bytes.Buffer
		code := validateCmd([]string{"-schema", schema, "-data", data, "-driver", driver}, nil, &out)
		if code != 1 {
			t.Fatalf("%s: code=%d out=%q", driver, code, out.String())
		}
		got := out.String()
		for _, want := range []string{"/: unknown_key", "/name: min_length", "/age: out_of_range"} {
			if !strings.Contains(got, want) {
				t.Fatalf("%s: output %q lacks %q", driver, got, want)
			}
		}
	}
}

func TestValidateCmd_DuplicateKeyError(t *testing.T) {
	schema := writeFile(t, "user.yaml", "type: object\n")
	var out bytes.Buffer
	code := validateCmd([]string{"-schema", schema, "-dup", "error"}, strings.NewReader(`{"a":1,"a":2}`), &out)
	if code != 1 || !strings.Contains(out.String(), "duplicate_key") {
		t.Fatalf("code=%d out=%q", code, out.String())
	}
}

func TestValidateCmd_MaxBytes(t *testing.T) {
	schema := writeFile(t, "any.json", `true`)
	var out bytes.Buffer
	code := validateCmd([]string{"-schema", schema, "-max-bytes", "4"}, strings.NewReader(`"0123456789"`), &out)
	if code != 1 || !strings.Contains(out.String(), "truncated") {
		t.Fatalf("code=%d out=%q", code, out.String())
	}
}

func TestValidateCmd_UsageErrors(t *testing.T) {
	var out bytes.Buffer
	if code := validateCmd(nil, nil, &out); code != 2 {
		t.Fatalf("missing -schema: code=%d", code)
	}
	schema := writeFile(t, "user.json", userSchema)
	if code := validateCmd([]string{"-schema", schema, "-driver", "nope"}, strings.NewReader(`{}`), &out); code != 2 {
		t.Fatalf("bad driver: code=%d", code)
	}
}

func TestExportCmd_YAML(t *testing.T) {
	schema := writeFile(t, "user.json", userSchema)
	var out bytes.Buffer
	if code := exportCmd([]string{"-schema", schema, "-format", "yaml"}, &out); code != 0 {
		t.Fatalf("code=%d", code)
	}
	got := out.String()
	if !strings.HasPrefix(got, "type: object\n") || !strings.Contains(got, "minLength: 1") {
		t.Fatalf("unexpected yaml:\n%s", got)
	}
	if strings.Index(got, "name:") > strings.Index(got, "age:") {
		t.Fatalf("property order lost:\n%s", got)
	}
}
