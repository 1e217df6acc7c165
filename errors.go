package jskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes. Each code is one variant of the validation error union; Params
// carries the variant's payload (bounds, expected/actual, offending key).
const (
	CodeInvalidType   = "invalid_type"   // expected, actual
	CodeRequired      = "required"       // field
	CodeInvalidFormat = "invalid_format" // format
	CodeOutOfRange    = "out_of_range"   // limit, got, exclusive
	CodePattern       = "pattern"        // pattern
	CodeUnknownKey    = "unknown_key"    // key
	CodeUniqueness    = "uniqueness"     // first, second
	CodeMinItems      = "min_items"      // min, got
	CodeMaxItems      = "max_items"      // max, got
	CodeContains      = "contains"       // matched, min, max
	CodeMinLength     = "min_length"     // min, got
	CodeMaxLength     = "max_length"     // max, got
	CodeMinProperties = "min_properties" // min, got
	CodeMaxProperties = "max_properties" // max, got
	CodeMultipleOf    = "multiple_of"    // multipleOf, got
	CodeComposition   = "composition"    // combinator, matched
	CodeReference     = "reference"      // pointer
	CodeParseError    = "parse_error"
	CodeInvalidEnum   = "invalid_enum"  // allowed
	CodeInvalidConst  = "invalid_const" // const
	CodeDuplicateKey  = "duplicate_key"
	CodeTruncated     = "truncated"
	CodeUnevaluated   = "unevaluated" // index
)

// Issue represents a single validation error.
type Issue struct {
	Path    string // JSON Pointer into the validated value (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Keyword string // Schema keyword that produced the issue (for example: minLength).
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input source (-1 or 0 when unknown).
	// Params carries structured parameters (e.g., {"min":1, "got":0}) for
	// i18n and diagnostics without re-walking the schema.
	Params map[string]any
}

// String renders the issue as "code at path: message".
func (it Issue) String() string {
	if it.Message == "" {
		return it.Code + " at " + it.Path
	}
	return it.Code + " at " + it.Path + ": " + it.Message
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Codes returns the issue codes in order. Handy in tests and logs.
func (iss Issues) Codes() []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
