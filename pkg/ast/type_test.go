package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParentClasses(t *testing.T) {
	b := NewBuilder()
	ns := b.Namespace("app")
	base := b.Class(ns, "Base")
	mid := b.Class(ns, "Mid")
	leaf := b.Class(ns, "Leaf")
	mid.SetParentClass(base)
	leaf.SetParentClass(mid)

	parents, err := leaf.ParentClasses()
	require.NoError(t, err)
	assert.Equal(t, []*Type{mid, base}, parents)

	parents, err = base.ParentClasses()
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestRecursiveInheritanceIsReported(t *testing.T) {
	b := NewBuilder()
	ns := b.Namespace("app")
	a := b.Class(ns, "A")
	bb := b.Class(ns, "B")
	a.SetParentClass(bb)
	bb.SetParentClass(a)

	_, err := a.ParentClasses()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecursiveInheritance))

	var rie *RecursiveInheritanceError
	require.ErrorAs(t, err, &rie)
	assert.Equal(t, "app.A", rie.Type)
	assert.Equal(t, "app.A", rie.Repeated)

	_, err = a.AllMethods()
	assert.ErrorIs(t, err, ErrRecursiveInheritance)
	_, err = a.Interfaces()
	assert.ErrorIs(t, err, ErrRecursiveInheritance)
	_, err = a.IsSubtypeOf(b.Class(ns, "C"))
	assert.ErrorIs(t, err, ErrRecursiveInheritance)
	_, err = a.AllProperties()
	assert.ErrorIs(t, err, ErrRecursiveInheritance)
}

func TestSelfParentIsRecursive(t *testing.T) {
	b := NewBuilder()
	a := b.Class(b.Namespace("app"), "A")
	a.SetParentClass(a)

	_, err := a.ParentClasses()
	assert.ErrorIs(t, err, ErrRecursiveInheritance)
}

func TestRecursiveInterfacesAreReported(t *testing.T) {
	b := NewBuilder()
	ns := b.Namespace("app")
	i1 := b.Interface(ns, "I1")
	i2 := b.Interface(ns, "I2")
	i1.AddInterface(i2)
	i2.AddInterface(i1)

	_, err := i1.Interfaces()
	assert.ErrorIs(t, err, ErrRecursiveInheritance)
}

func TestDiamondInterfacesAreNotRecursive(t *testing.T) {
	b := NewBuilder()
	ns := b.Namespace("app")
	root := b.Interface(ns, "Root")
	left := b.Interface(ns, "Left")
	right := b.Interface(ns, "Right")
	left.AddInterface(root)
	right.AddInterface(root)
	impl := b.Class(ns, "Impl")
	impl.AddInterface(left)
	impl.AddInterface(right)

	interfaces, err := impl.Interfaces()
	require.NoError(t, err)
	assert.Equal(t, []*Type{left, root, right}, interfaces)
}

func TestIsSubtypeOf(t *testing.T) {
	b := NewBuilder()
	ns := b.Namespace("app")
	iface := b.Interface(ns, "Repository")
	base := b.Class(ns, "Base")
	base.AddInterface(iface)
	child := b.Class(ns, "Child")
	child.SetParentClass(base)
	other := b.Class(ns, "Other")

	cases := []struct {
		name string
		sub  *Type
		sup  *Type
		want bool
	}{
		{"self", child, child, true},
		{"parent", child, base, true},
		{"inherited interface", child, iface, true},
		{"reverse", base, child, false},
		{"unrelated", child, other, false},
		{"nil", child, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.sub.IsSubtypeOf(tc.sup)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAllMethodsPrefersRedeclaration(t *testing.T) {
	b := NewBuilder()
	ns := b.Namespace("app")
	base := b.Class(ns, "Base")
	baseRun := b.Method(base, "run")
	baseStop := b.Method(base, "stop")
	child := b.Class(ns, "Child")
	child.SetParentClass(base)
	childRun := b.Method(child, "run")

	all, err := child.AllMethods()
	require.NoError(t, err)
	assert.Equal(t, []*Callable{childRun, baseStop}, all)
	assert.NotContains(t, all, baseRun)
}

func TestAllMethodsOfInterfaceFollowsExtends(t *testing.T) {
	b := NewBuilder()
	ns := b.Namespace("app")
	parent := b.Interface(ns, "Reader")
	read := b.Method(parent, "read")
	child := b.Interface(ns, "ReadCloser")
	child.AddInterface(parent)
	closeM := b.Method(child, "close")

	all, err := child.AllMethods()
	require.NoError(t, err)
	assert.Equal(t, []*Callable{closeM, read}, all)
	assert.True(t, read.IsAbstract())
	assert.True(t, child.IsAbstract())
}
