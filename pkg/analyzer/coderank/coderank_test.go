package coderank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/depend/pkg/ast"
)

type fixture struct {
	namespaces    []*ast.Namespace
	base, a, b, c *ast.Type
	value         *ast.Type
}

func newFixture() fixture {
	bld := ast.NewBuilder()
	ns := bld.Namespace("app")
	var f fixture
	f.base = bld.Class(ns, "Base")
	f.a = bld.Class(ns, "A")
	f.b = bld.Class(ns, "B")
	f.c = bld.Class(ns, "C")
	for _, child := range []*ast.Type{f.a, f.b, f.c} {
		child.SetParentClass(f.base)
	}
	f.value = bld.Class(ns, "Value")
	bld.Property(f.a, "value").SetType(f.value)
	bld.Method(f.b, "make").SetReturnType(f.value)
	f.namespaces = bld.Namespaces()
	return f
}

func metric(a *Analyzer, t *ast.Type, key string) float64 {
	v, _ := a.Metric(t.ID(), key)
	return v
}

func sum(a *Analyzer, key string, types ...*ast.Type) float64 {
	total := 0.0
	for _, t := range types {
		total += metric(a, t, key)
	}
	return total
}

func TestInheritanceStrategy(t *testing.T) {
	f := newFixture()
	a := New()
	require.NoError(t, a.Analyze(context.Background(), f.namespaces))

	all := []*ast.Type{f.base, f.a, f.b, f.c, f.value}
	assert.InDelta(t, 5, sum(a, MetricCR, all...), 1e-6)
	assert.InDelta(t, 5, sum(a, MetricRCR, all...), 1e-6)

	assert.Greater(t, metric(a, f.base, MetricCR), metric(a, f.a, MetricCR))
	assert.Greater(t, metric(a, f.a, MetricRCR), metric(a, f.base, MetricRCR))
	assert.InDelta(t, metric(a, f.a, MetricCR), metric(a, f.c, MetricCR), 1e-6)
	// Value is referenced only through members, which this strategy ignores.
	assert.InDelta(t, metric(a, f.a, MetricCR), metric(a, f.value, MetricCR), 1e-6)
}

func TestMemberStrategies(t *testing.T) {
	f := newFixture()
	a := New(WithStrategies(StrategyProperty, StrategyMethod))
	require.NoError(t, a.Analyze(context.Background(), f.namespaces))

	assert.Greater(t, metric(a, f.value, MetricCR), metric(a, f.base, MetricCR))
	assert.InDelta(t, metric(a, f.base, MetricCR), metric(a, f.c, MetricCR), 1e-6)
}

func TestUnconnectedTypesShareRankEvenly(t *testing.T) {
	bld := ast.NewBuilder()
	ns := bld.Namespace("app")
	x := bld.Class(ns, "X")
	y := bld.Class(ns, "Y")

	a := New()
	require.NoError(t, a.Analyze(context.Background(), bld.Namespaces()))
	assert.InDelta(t, 1, metric(a, x, MetricCR), 1e-6)
	assert.InDelta(t, 1, metric(a, y, MetricRCR), 1e-6)
}

func TestEmptyForest(t *testing.T) {
	a := New()
	require.NoError(t, a.Analyze(context.Background(), nil))
	assert.True(t, a.Done())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("Method")
	require.NoError(t, err)
	assert.Equal(t, StrategyMethod, s)

	_, err = ParseStrategy("calls")
	assert.Error(t, err)
}
