package jskema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/jskema/i18n"
)

// PathRef is an immutable JSON Pointer (RFC 6901) built one token at a time.
// Appending shares the parent, so building a child path never copies or
// mutates the parent's tokens.
type PathRef struct {
	parent *PathRef
	token  string
	depth  int
}

// RootPath returns the pointer to the whole document.
func RootPath() PathRef { return PathRef{} }

// ParsePath splits a JSON Pointer such as "/a/0/b~1c" into a PathRef.
// "" and "/" both denote the root.
func ParsePath(p string) PathRef {
	out := RootPath()
	if p == "" || p == "/" {
		return out
	}
	for _, tok := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		out = out.Field(UnescapePointerToken(tok))
	}
	return out
}

// Field appends an object member name, escaping '~' and '/'.
func (p PathRef) Field(name string) PathRef {
	parent := p
	return PathRef{parent: &parent, token: EscapePointerToken(name), depth: p.depth + 1}
}

// Index appends an array index.
func (p PathRef) Index(i int) PathRef {
	parent := p
	return PathRef{parent: &parent, token: strconv.Itoa(i), depth: p.depth + 1}
}

// IsRoot reports whether p points at the document root.
func (p PathRef) IsRoot() bool { return p.depth == 0 }

// Pointer renders the path. The root renders as "/".
func (p PathRef) Pointer() string {
	if p.depth == 0 {
		return "/"
	}
	toks := make([]string, p.depth)
	cur := &p
	for i := p.depth - 1; i >= 0; i-- {
		toks[i] = cur.token
		cur = cur.parent
	}
	return "/" + strings.Join(toks, "/")
}

// Issue creates an Issue located at p with a localized message. kv are
// alternating param keys and values; they become Params and are substituted
// into the message template.
func (p PathRef) Issue(code, keyword string, kv ...any) Issue {
	var params map[string]any
	var data map[string]string
	if len(kv) >= 2 {
		params = make(map[string]any, len(kv)/2)
		data = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			k, _ := kv[i].(string)
			params[k] = kv[i+1]
			data[k] = fmt.Sprint(kv[i+1])
		}
	}
	return Issue{Path: p.Pointer(), Code: code, Keyword: keyword, Message: i18n.T(code, data), Params: params}
}

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// EscapePointerToken escapes a reference token per RFC 6901.
func EscapePointerToken(s string) string { return pointerEscaper.Replace(s) }

// UnescapePointerToken reverses EscapePointerToken.
func UnescapePointerToken(s string) string { return pointerUnescaper.Replace(s) }
