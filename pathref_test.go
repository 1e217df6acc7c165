package jskema_test

import (
	"testing"

	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/i18n"
)

func TestPathRef_Pointer(t *testing.T) {
	root := jskema.RootPath()
	if root.Pointer() != "/" || !root.IsRoot() {
		t.Fatalf("root = %q", root.Pointer())
	}
	p := root.Field("items").Index(2).Field("a/b~c")
	if got := p.Pointer(); got != "/items/2/a~1b~0c" {
		t.Fatalf("pointer = %q", got)
	}
	// appending to a shared parent leaves siblings intact
	parent := root.Field("x")
	left, right := parent.Field("l"), parent.Index(0)
	if left.Pointer() != "/x/l" || right.Pointer() != "/x/0" || parent.Pointer() != "/x" {
		t.Fatalf("siblings = %q %q %q", left.Pointer(), right.Pointer(), parent.Pointer())
	}
}

func TestParsePath_RoundTrip(t *testing.T) {
	for _, p := range []string{"/", "/a", "/a/0/b~1c", "/~0tilde"} {
		if got := jskema.ParsePath(p).Pointer(); got != p {
			t.Fatalf("ParsePath(%q).Pointer() = %q", p, got)
		}
	}
	if !jskema.ParsePath("").IsRoot() {
		t.Fatalf("empty pointer should be the root")
	}
	if jskema.UnescapePointerToken(jskema.EscapePointerToken("~1/")) != "~1/" {
		t.Fatalf("escape round trip failed")
	}
}

func TestPathRef_IssueMessageAndParams(t *testing.T) {
	it := jskema.RootPath().Field("name").Issue(jskema.CodeMinLength, "minLength", "min", 3, "got", 1)
	if it.Path != "/name" || it.Keyword != "minLength" {
		t.Fatalf("issue = %+v", it)
	}
	if it.Message != "expected length >= 3, got 1" {
		t.Fatalf("message = %q", it.Message)
	}
	if it.Params["min"] != 3 || it.Params["got"] != 1 {
		t.Fatalf("params = %v", it.Params)
	}

	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	ja := jskema.RootPath().Issue(jskema.CodeRequired, "required", "field", "id")
	if ja.Message != "必須プロパティ id がありません" {
		t.Fatalf("ja message = %q", ja.Message)
	}
}
