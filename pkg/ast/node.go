package ast

import "errors"

// ErrNodeAttached is returned when a node that already has a parent is
// attached to a second one.
var ErrNodeAttached = errors.New("node already attached to a parent")

// NodeKind is the closed set of statement and expression kinds in a
// callable body. Analyzers switch over it exhaustively.
type NodeKind string

const (
	NodeScope      NodeKind = "scope"
	NodeStatement  NodeKind = "statement"
	NodeExpression NodeKind = "expression"

	NodeIf          NodeKind = "if"
	NodeElseIf      NodeKind = "elseif"
	NodeFor         NodeKind = "for"
	NodeForInit     NodeKind = "for_init"
	NodeForUpdate   NodeKind = "for_update"
	NodeForeach     NodeKind = "foreach"
	NodeWhile       NodeKind = "while"
	NodeDoWhile     NodeKind = "do_while"
	NodeSwitch      NodeKind = "switch"
	NodeSwitchLabel NodeKind = "switch_label"
	NodeTry         NodeKind = "try"
	NodeCatch       NodeKind = "catch"
	NodeFinally     NodeKind = "finally"
	NodeReturn      NodeKind = "return"
	NodeThrow       NodeKind = "throw"
	NodeBreak       NodeKind = "break"
	NodeContinue    NodeKind = "continue"
	NodeGoto        NodeKind = "goto"
	NodeLabel       NodeKind = "label"

	NodeConditional NodeKind = "conditional"
	NodeBooleanAnd  NodeKind = "boolean_and"
	NodeBooleanOr   NodeKind = "boolean_or"
	NodeLogicalAnd  NodeKind = "logical_and"
	NodeLogicalOr   NodeKind = "logical_or"
	NodeLogicalXor  NodeKind = "logical_xor"
	NodeAssignment  NodeKind = "assignment"
	NodeVariable    NodeKind = "variable"
	NodeLiteral     NodeKind = "literal"
	NodeConstant    NodeKind = "constant"
	NodeIdentifier  NodeKind = "identifier"

	NodeInvocation      NodeKind = "invocation"
	NodeMemberPrefix    NodeKind = "member_prefix"
	NodePropertyPostfix NodeKind = "property_postfix"
	NodeClassReference  NodeKind = "class_reference"
	NodeAllocation      NodeKind = "allocation"
	NodeInstanceOf      NodeKind = "instanceof"
	NodeArguments       NodeKind = "arguments"
	NodeClosure         NodeKind = "closure"
)

var statementKinds = map[NodeKind]bool{
	NodeScope: true, NodeStatement: true,
	NodeIf: true, NodeElseIf: true, NodeFor: true, NodeForeach: true,
	NodeWhile: true, NodeDoWhile: true, NodeSwitch: true,
	NodeTry: true, NodeCatch: true, NodeFinally: true,
	NodeReturn: true, NodeThrow: true, NodeBreak: true, NodeContinue: true,
	NodeGoto: true, NodeLabel: true,
}

var nodeKinds = map[NodeKind]bool{
	NodeExpression: true, NodeForInit: true, NodeForUpdate: true, NodeSwitchLabel: true,
	NodeConditional: true, NodeBooleanAnd: true, NodeBooleanOr: true,
	NodeLogicalAnd: true, NodeLogicalOr: true, NodeLogicalXor: true,
	NodeAssignment: true, NodeVariable: true, NodeLiteral: true, NodeConstant: true,
	NodeIdentifier: true, NodeInvocation: true, NodeMemberPrefix: true,
	NodePropertyPostfix: true, NodeClassReference: true, NodeAllocation: true,
	NodeInstanceOf: true, NodeArguments: true, NodeClosure: true,
}

// String returns the string representation.
func (k NodeKind) String() string { return string(k) }

// Valid reports whether k belongs to the grammar.
func (k NodeKind) Valid() bool { return statementKinds[k] || nodeKinds[k] }

// IsStatement reports whether nodes of this kind are statements.
func (k NodeKind) IsStatement() bool { return statementKinds[k] }

// IsShortCircuit reports whether k is a boolean or logical and/or operator.
func (k NodeKind) IsShortCircuit() bool {
	switch k {
	case NodeBooleanAnd, NodeBooleanOr, NodeLogicalAnd, NodeLogicalOr:
		return true
	default:
		return false
	}
}

// Node is a generic tree node. A node owns its children; the parent pointer
// is a back-reference set once, when the node is attached.
type Node struct {
	Kind        NodeKind
	Image       string
	Comment     string
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int

	// Default marks the default label of a switch.
	Default bool

	// Ref is the type named by a class reference node.
	Ref *Type

	children []*Node
	parent   *Node
}

// NewNode creates a detached node.
func NewNode(kind NodeKind, image string) *Node {
	return &Node{Kind: kind, Image: image}
}

// NewTree creates a node with the given children attached in order. It
// panics if a child is already attached elsewhere.
func NewTree(kind NodeKind, image string, children ...*Node) *Node {
	n := NewNode(kind, image)
	for _, c := range children {
		if err := n.AddChild(c); err != nil {
			panic(err)
		}
	}
	return n
}

// AddChild appends child to n's children. It fails when child already has
// a parent or is n itself or one of n's ancestors.
func (n *Node) AddChild(child *Node) error {
	if child.parent != nil {
		return ErrNodeAttached
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return ErrNodeAttached
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// Children returns the children in declaration order. The slice must not
// be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// FirstChildOfKind returns the first descendant of the given kind in
// pre-order: each child is tested before its own subtree is searched.
func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, c := range n.children {
		if c.Kind == kind {
			return c
		}
		if found := c.FirstChildOfKind(kind); found != nil {
			return found
		}
	}
	return nil
}

// FindChildrenOfKind appends every descendant of the given kind to dst in
// pre-order and returns the extended slice. Matches nested inside other
// matches are included.
func (n *Node) FindChildrenOfKind(kind NodeKind, dst []*Node) []*Node {
	for _, c := range n.children {
		if c.Kind == kind {
			dst = append(dst, c)
		}
		dst = c.FindChildrenOfKind(kind, dst)
	}
	return dst
}

// ParentsOfKind returns the ancestors of the given kind, nearest to the
// root first.
func (n *Node) ParentsOfKind(kind NodeKind) []*Node {
	var parents []*Node
	for p := n.parent; p != nil; p = p.parent {
		if p.Kind == kind {
			parents = append([]*Node{p}, parents...)
		}
	}
	return parents
}
