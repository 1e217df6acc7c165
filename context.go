package jskema

import "sort"

// Context carries the per-call validation state: the current instance path,
// the root node, the lexical $defs scopes and the references being expanded.
// Context is a value; every With* method returns a new Context and leaves the
// receiver untouched, so one Context can fan out into sibling branches.
type Context struct {
	at     PathRef
	root   Node
	scope  *defsScope
	active *refFrame
}

type defsScope struct {
	parent *defsScope
	defs   map[string]Node
	keys   []string
}

type refFrame struct {
	parent  *refFrame
	pointer string
	at      string
}

// Anchored is implemented by nodes that declare a $dynamicAnchor.
type Anchored interface {
	DynamicAnchor() string
}

// NewContext returns a Context positioned at the document root ("/").
func NewContext() Context { return Context{at: RootPath()} }

// Path returns the current JSON Pointer.
func (c Context) Path() string { return c.at.Pointer() }

// At returns the current location as a PathRef.
func (c Context) At() PathRef { return c.at }

// WithProperty descends into an object member.
func (c Context) WithProperty(name string) Context {
	c.at = c.at.Field(name)
	return c
}

// WithIndex descends into an array element.
func (c Context) WithIndex(i int) Context {
	c.at = c.at.Index(i)
	return c
}

// WithPath replaces the current location.
func (c Context) WithPath(p PathRef) Context {
	c.at = p
	return c
}

// WithRoot sets the root node used to resolve "#" references.
func (c Context) WithRoot(n Node) Context {
	c.root = n
	return c
}

// Root returns the root node, or nil when none was set.
func (c Context) Root() Node { return c.root }

// WithDefs opens a new $defs scope. Lookups search the innermost scope first.
func (c Context) WithDefs(defs map[string]Node) Context {
	if len(defs) == 0 {
		return c
	}
	keys := make([]string, 0, len(defs))
	for k := range defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	c.scope = &defsScope{parent: c.scope, defs: defs, keys: keys}
	return c
}

// LookupDef resolves a definition name against the enclosing scopes,
// innermost first.
func (c Context) LookupDef(name string) (Node, bool) {
	for s := c.scope; s != nil; s = s.parent {
		if n, ok := s.defs[name]; ok {
			return n, true
		}
	}
	return nil, false
}

// LookupDynamic resolves a $dynamicRef anchor. The outermost scope that
// declares a matching $dynamicAnchor wins; a definition whose name equals the
// anchor is used as a fallback, again outermost first.
func (c Context) LookupDynamic(anchor string) (Node, bool) {
	var chain []*defsScope
	for s := c.scope; s != nil; s = s.parent {
		chain = append(chain, s)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		s := chain[i]
		for _, k := range s.keys {
			if a, ok := s.defs[k].(Anchored); ok && a.DynamicAnchor() == anchor {
				return s.defs[k], true
			}
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if n, ok := chain[i].defs[anchor]; ok {
			return n, true
		}
	}
	return nil, false
}

// EnterRef marks pointer as being expanded at the current instance location.
// It reports false when the same pointer is already being expanded at the
// same location, which means the reference chain cannot make progress.
func (c Context) EnterRef(pointer string) (Context, bool) {
	at := c.at.Pointer()
	for f := c.active; f != nil; f = f.parent {
		if f.pointer == pointer && f.at == at {
			return c, false
		}
	}
	c.active = &refFrame{parent: c.active, pointer: pointer, at: at}
	return c, true
}
