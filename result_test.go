package jskema_test

import (
	"errors"
	"reflect"
	"testing"

	jskema "github.com/reoring/jskema"
)

func issueAt(path, code string) jskema.Issue { return jskema.Issue{Path: path, Code: code} }

func TestResult_CombineIdentityAndOrder(t *testing.T) {
	a := jskema.Invalid(issueAt("/a", jskema.CodeRequired))
	b := jskema.Invalid(issueAt("/b", jskema.CodePattern), issueAt("/c", jskema.CodeMinLength))
	c := jskema.Invalid(issueAt("/d", jskema.CodeUnknownKey))

	if got := jskema.Valid().Combine(a); !reflect.DeepEqual(got.Errors(), a.Errors()) {
		t.Fatalf("left identity: %v", got.Errors())
	}
	if got := a.Combine(jskema.Valid()); !reflect.DeepEqual(got.Errors(), a.Errors()) {
		t.Fatalf("right identity: %v", got.Errors())
	}
	left := a.Combine(b).Combine(c)
	right := a.Combine(b.Combine(c))
	if !reflect.DeepEqual(left.Errors(), right.Errors()) {
		t.Fatalf("combine is not associative: %v vs %v", left.Errors(), right.Errors())
	}
	paths := make([]string, 0, 4)
	for _, it := range left.Errors() {
		paths = append(paths, it.Path)
	}
	if want := []string{"/a", "/b", "/c", "/d"}; !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	if got := jskema.Collect(a, b, c); !reflect.DeepEqual(got.Errors(), left.Errors()) {
		t.Fatalf("collect differs from combine: %v", got.Errors())
	}
}

func TestResult_ValidAndErr(t *testing.T) {
	if !jskema.Invalid().IsValid() || jskema.Valid().Err() != nil || !jskema.Collect().IsValid() {
		t.Fatalf("empty results must be valid")
	}
	err := jskema.Invalid(issueAt("/x", jskema.CodeRequired)).Err()
	iss, ok := jskema.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "/x" {
		t.Fatalf("AsIssues = %v, %v", iss, ok)
	}
	var target jskema.Issues
	if !errors.As(err, &target) {
		t.Fatalf("errors.As should find Issues")
	}
	if err.Error() != "required at /x" {
		t.Fatalf("error text = %q", err.Error())
	}
}

func TestResult_InvalidCopiesIssues(t *testing.T) {
	src := []jskema.Issue{issueAt("/a", jskema.CodeRequired)}
	r := jskema.Invalid(src...)
	src[0].Path = "/mutated"
	if r.Errors()[0].Path != "/a" {
		t.Fatalf("result shares the caller's slice")
	}
}

func TestIssues_ErrorSummarizes(t *testing.T) {
	var iss jskema.Issues
	for _, p := range []string{"/a", "/b", "/c", "/d", "/e"} {
		iss = jskema.AppendIssues(iss, issueAt(p, jskema.CodeInvalidType))
	}
	want := "invalid_type at /a; invalid_type at /b; invalid_type at /c; ... (total 5)"
	if iss.Error() != want {
		t.Fatalf("got %q", iss.Error())
	}
}
