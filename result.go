package jskema

// Result is the outcome of validating one value: Valid, or Invalid with an
// ordered list of issues. IsValid is true exactly when Errors is empty.
type Result struct {
	issues Issues
}

// Valid returns the passing result.
func Valid() Result { return Result{} }

// Invalid returns a failing result carrying iss. With no issues it is Valid.
func Invalid(iss ...Issue) Result {
	if len(iss) == 0 {
		return Result{}
	}
	out := make(Issues, len(iss))
	copy(out, iss)
	return Result{issues: out}
}

// IsValid reports whether no issue was produced.
func (r Result) IsValid() bool { return len(r.issues) == 0 }

// Errors returns the issues in the order they were produced.
func (r Result) Errors() Issues { return r.issues }

// Err returns the issues as an error, or nil when valid.
func (r Result) Err() error {
	if len(r.issues) == 0 {
		return nil
	}
	return r.issues
}

// Combine merges two results. Valid is the identity; issue lists are
// concatenated in order, so Combine is associative.
func (r Result) Combine(o Result) Result {
	switch {
	case len(o.issues) == 0:
		return r
	case len(r.issues) == 0:
		return o
	}
	out := make(Issues, 0, len(r.issues)+len(o.issues))
	out = append(out, r.issues...)
	out = append(out, o.issues...)
	return Result{issues: out}
}

// Collect combines results left to right.
func Collect(rs ...Result) Result {
	n := 0
	for _, r := range rs {
		n += len(r.issues)
	}
	if n == 0 {
		return Result{}
	}
	out := make(Issues, 0, n)
	for _, r := range rs {
		out = append(out, r.issues...)
	}
	return Result{issues: out}
}
