package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() (*Node, map[string]*Node) {
	named := make(map[string]*Node)
	mk := func(name string, kind NodeKind, children ...*Node) *Node {
		n := NewTree(kind, name, children...)
		named[name] = n
		return n
	}
	root := mk("root", NodeScope,
		mk("s1", NodeStatement,
			mk("e1", NodeExpression,
				mk("v1", NodeVariable),
			),
		),
		mk("v2", NodeVariable,
			mk("v3", NodeVariable),
		),
		mk("e2", NodeExpression),
	)
	return root, named
}

func TestAddChildSetsParentOnce(t *testing.T) {
	parent := NewNode(NodeScope, "")
	other := NewNode(NodeScope, "")
	child := NewNode(NodeStatement, "")

	require.NoError(t, parent.AddChild(child))
	assert.Same(t, parent, child.Parent())
	assert.ErrorIs(t, other.AddChild(child), ErrNodeAttached)
	assert.Empty(t, other.Children())
	assert.ErrorIs(t, parent.AddChild(parent), ErrNodeAttached)
}

func TestAddChildRejectsAncestor(t *testing.T) {
	leaf := NewNode(NodeVariable, "$a")
	mid := NewTree(NodeExpression, "", leaf)
	root := NewTree(NodeStatement, "", mid)

	assert.ErrorIs(t, leaf.AddChild(root), ErrNodeAttached)
	assert.ErrorIs(t, mid.AddChild(root), ErrNodeAttached)
	assert.Nil(t, root.Parent())
	assert.Empty(t, leaf.Children())
	assert.Empty(t, root.ParentsOfKind(NodeStatement))
	assert.Nil(t, root.FirstChildOfKind(NodeScope))
}

func TestNewTreePanicsOnAttachedChild(t *testing.T) {
	child := NewNode(NodeVariable, "$a")
	NewTree(NodeExpression, "", child)
	assert.Panics(t, func() { NewTree(NodeExpression, "", child) })
}

func TestChild(t *testing.T) {
	root, named := sampleTree()
	assert.Same(t, named["s1"], root.Child(0))
	assert.Nil(t, root.Child(3))
	assert.Nil(t, root.Child(-1))
}

func TestFirstChildOfKindIsPreOrder(t *testing.T) {
	root, named := sampleTree()

	// v1 is nested under the first child and precedes v2 in pre-order.
	assert.Same(t, named["v1"], root.FirstChildOfKind(NodeVariable))
	assert.Same(t, named["e1"], root.FirstChildOfKind(NodeExpression))
	assert.Nil(t, root.FirstChildOfKind(NodeIf))
}

func TestFindChildrenOfKindIncludesNestedMatches(t *testing.T) {
	root, named := sampleTree()

	found := root.FindChildrenOfKind(NodeVariable, nil)
	require.Len(t, found, 3)
	assert.Same(t, named["v1"], found[0])
	assert.Same(t, named["v2"], found[1])
	assert.Same(t, named["v3"], found[2])

	acc := []*Node{named["root"]}
	acc = root.FindChildrenOfKind(NodeExpression, acc)
	assert.Len(t, acc, 3)
	assert.Same(t, named["root"], acc[0])

	assert.Empty(t, root.FindChildrenOfKind(NodeReturn, nil))
}

func TestParentsOfKindNearestRootFirst(t *testing.T) {
	outer := NewNode(NodeMemberPrefix, "outer")
	inner := NewNode(NodeMemberPrefix, "inner")
	leaf := NewNode(NodeInvocation, "call")
	NewTree(NodeScope, "", NewTree(NodeStatement, "", outer))
	require.NoError(t, inner.AddChild(leaf))
	require.NoError(t, outer.AddChild(inner))

	parents := leaf.ParentsOfKind(NodeMemberPrefix)
	require.Len(t, parents, 2)
	assert.Same(t, outer, parents[0])
	assert.Same(t, inner, parents[1])

	assert.Empty(t, leaf.ParentsOfKind(NodeIf))
	assert.Empty(t, outer.ParentsOfKind(NodeMemberPrefix))
}

func TestNodeKindClassification(t *testing.T) {
	assert.True(t, NodeIf.IsStatement())
	assert.True(t, NodeScope.IsStatement())
	assert.False(t, NodeExpression.IsStatement())
	assert.False(t, NodeSwitchLabel.IsStatement())
	assert.True(t, NodeBooleanOr.IsShortCircuit())
	assert.False(t, NodeLogicalXor.IsShortCircuit())
	assert.True(t, NodeClosure.Valid())
	assert.False(t, NodeKind("lambda").Valid())
}
