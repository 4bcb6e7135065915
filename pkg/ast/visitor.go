package ast

// A Visitor's Visit method is invoked for each artifact encountered by Walk.
// If the result visitor w is not nil, Walk visits each child of the artifact
// with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(a Artifact) (w Visitor)
}

// Walk traverses an artifact in depth-first order: a namespace's types, then
// its functions; a type's methods and properties in declaration order.
// Callables and properties have no artifact children.
func Walk(v Visitor, a Artifact) {
	if v = v.Visit(a); v == nil {
		return
	}

	switch n := a.(type) {
	case *Namespace:
		for _, t := range n.types {
			Walk(v, t)
		}
		for _, f := range n.functions {
			Walk(v, f)
		}
	case *Type:
		for _, m := range n.members {
			Walk(v, m)
		}
	case *Callable, *Property:
		// leaves
	}

	v.Visit(nil)
}

// WalkNamespaces walks each namespace in order.
func WalkNamespaces(v Visitor, namespaces []*Namespace) {
	for _, ns := range namespaces {
		Walk(v, ns)
	}
}

type inspector func(Artifact) bool

func (f inspector) Visit(a Artifact) Visitor {
	if f(a) {
		return f
	}
	return nil
}

// Inspect traverses an artifact in the order of Walk, calling f for every
// artifact and f(nil) after the children of an artifact whose call returned
// true.
func Inspect(a Artifact, f func(Artifact) bool) {
	Walk(inspector(f), a)
}
