package engine

// Tracker classifies raw decoder tokens. Streaming JSON decoders report
// object keys and string values the same way; Tracker keeps the container
// stack needed to tell them apart.
type Tracker struct {
	stack []frame
}

type frame struct {
	object       bool
	expectingKey bool
}

// Open records a '{' or '['.
func (t *Tracker) Open(object bool) {
	t.stack = append(t.stack, frame{object: object, expectingKey: object})
}

// Close records a '}' or ']'. The closed container is a complete value of
// its parent.
func (t *Tracker) Close() {
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
	t.Value()
}

// Value records a scalar value.
func (t *Tracker) Value() {
	if n := len(t.stack); n > 0 {
		if top := &t.stack[n-1]; top.object {
			top.expectingKey = true
		}
	}
}

// Text records a string token and reports whether it is an object key.
func (t *Tracker) Text() (isKey bool) {
	if n := len(t.stack); n > 0 {
		if top := &t.stack[n-1]; top.object && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	t.Value()
	return false
}
