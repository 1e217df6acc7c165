package dsl

import (
	jskema "github.com/reoring/jskema"
	js "github.com/reoring/jskema/jsonschema"
)

// AnyOfNode is valid when at least one child is valid.
type AnyOfNode struct{ children []jskema.Node }

// OneOfNode is valid when exactly one child is valid.
type OneOfNode struct{ children []jskema.Node }

// AllOfNode is valid when every child is valid.
type AllOfNode struct{ children []jskema.Node }

// AnyOf accepts a value valid against at least one child.
func AnyOf(children ...jskema.Node) AnyOfNode {
	return AnyOfNode{children: append([]jskema.Node(nil), children...)}
}

// OneOf accepts a value valid against exactly one child.
func OneOf(children ...jskema.Node) OneOfNode {
	return OneOfNode{children: append([]jskema.Node(nil), children...)}
}

// AllOf accepts a value valid against every child.
func AllOf(children ...jskema.Node) AllOfNode {
	return AllOfNode{children: append([]jskema.Node(nil), children...)}
}

// Children returns a copy of the branches.
func (n AnyOfNode) Children() []jskema.Node { return append([]jskema.Node(nil), n.children...) }
func (n OneOfNode) Children() []jskema.Node { return append([]jskema.Node(nil), n.children...) }
func (n AllOfNode) Children() []jskema.Node { return append([]jskema.Node(nil), n.children...) }

func (AnyOfNode) Meta() jskema.Meta { return jskema.Meta{} }
func (OneOfNode) Meta() jskema.Meta { return jskema.Meta{} }
func (AllOfNode) Meta() jskema.Meta { return jskema.Meta{} }

func (n AnyOfNode) JSONSchema() *js.Schema { return &js.Schema{AnyOf: schemas(n.children)} }
func (n OneOfNode) JSONSchema() *js.Schema { return &js.Schema{OneOf: schemas(n.children)} }
func (n AllOfNode) JSONSchema() *js.Schema { return &js.Schema{AllOf: schemas(n.children)} }

// Validate returns Valid on the first passing child; otherwise the issues of
// every child in order. With no children nothing can match, so the result is
// a single composition issue.
func (n AnyOfNode) Validate(v any, vc jskema.Context) jskema.Result {
	if len(n.children) == 0 {
		return jskema.Invalid(compositionIssue(vc, "anyOf", 0))
	}
	all := jskema.Valid()
	for _, c := range n.children {
		r := c.Validate(v, vc)
		if r.IsValid() {
			return r
		}
		all = all.Combine(r)
	}
	return all
}

// Validate evaluates every child. Zero matches yields a composition issue
// followed by every child's issues; two or more yields one composition issue
// and nothing else.
func (n OneOfNode) Validate(v any, vc jskema.Context) jskema.Result {
	matched := 0
	failures := jskema.Valid()
	for _, c := range n.children {
		r := c.Validate(v, vc)
		if r.IsValid() {
			matched++
			continue
		}
		failures = failures.Combine(r)
	}
	switch matched {
	case 1:
		return jskema.Valid()
	case 0:
		return jskema.Invalid(compositionIssue(vc, "oneOf", 0)).Combine(failures)
	default:
		return jskema.Invalid(compositionIssue(vc, "oneOf", matched))
	}
}

// Validate concatenates the issues of all failing children.
func (n AllOfNode) Validate(v any, vc jskema.Context) jskema.Result {
	rs := make([]jskema.Result, len(n.children))
	for i, c := range n.children {
		rs[i] = c.Validate(v, vc)
	}
	return jskema.Collect(rs...)
}

func compositionIssue(vc jskema.Context, combinator string, matched int) jskema.Issue {
	return vc.At().Issue(jskema.CodeComposition, combinator, "combinator", combinator, "matched", matched)
}

// NotNode inverts its child.
type NotNode struct{ child jskema.Node }

// Not accepts a value only when child rejects it.
func Not(child jskema.Node) NotNode { return NotNode{child: child} }

// Child returns the negated node.
func (n NotNode) Child() jskema.Node { return n.child }

func (NotNode) Meta() jskema.Meta        { return jskema.Meta{} }
func (n NotNode) JSONSchema() *js.Schema { return &js.Schema{Not: n.child.JSONSchema()} }

func (n NotNode) Validate(v any, vc jskema.Context) jskema.Result {
	if n.child.Validate(v, vc).IsValid() {
		return jskema.Invalid(compositionIssue(vc, "not", 1))
	}
	return jskema.Valid()
}

// IfNode applies then or else depending on whether the condition validates.
// The condition's own issues are never reported.
type IfNode struct {
	cond jskema.Node
	then jskema.Node
	els  jskema.Node
}

// If starts a conditional on cond.
func If(cond jskema.Node) IfNode { return IfNode{cond: cond} }

// Then sets the node applied when the condition validates.
func (n IfNode) Then(t jskema.Node) IfNode { n.then = t; return n }

// Else sets the node applied when the condition does not validate.
func (n IfNode) Else(e jskema.Node) IfNode { n.els = e; return n }

// Parts returns the condition and the optional branches.
func (n IfNode) Parts() (cond, then, els jskema.Node) { return n.cond, n.then, n.els }

func (IfNode) Meta() jskema.Meta { return jskema.Meta{} }

func (n IfNode) JSONSchema() *js.Schema {
	s := &js.Schema{If: n.cond.JSONSchema()}
	if n.then != nil {
		s.Then = n.then.JSONSchema()
	}
	if n.els != nil {
		s.Else = n.els.JSONSchema()
	}
	return s
}

func (n IfNode) Validate(v any, vc jskema.Context) jskema.Result {
	branch := n.els
	if n.cond.Validate(v, vc).IsValid() {
		branch = n.then
	}
	if branch == nil {
		return jskema.Valid()
	}
	return branch.Validate(v, vc)
}
