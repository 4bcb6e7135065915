package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

func TestHierarchy(t *testing.T) {
	b := ast.NewBuilder()
	app := b.Namespace("app")
	root := b.Class(app, "Root")
	root.SetModifiers(ast.ModAbstract)
	left := b.Class(app, "Left")
	left.SetParentClass(root)
	right := b.Class(app, "Right")
	right.SetParentClass(root)
	grand := b.Class(app, "Grand")
	grand.SetParentClass(left)
	b.Method(grand, "run")
	b.Method(grand, "stop")

	lib := b.Namespace("lib")
	plugin := b.Class(lib, "Plugin")
	plugin.SetParentClass(b.Reference("vendor.Base"))
	iface := b.Interface(lib, "Runner")
	b.Method(iface, "run")
	b.Trait(lib, "Helpers")
	b.Function(lib, "boot")

	a := New()
	require.NoError(t, a.Analyze(context.Background(), b.Namespaces()))

	assert.Equal(t, analyzer.Metrics{MetricNOC: 2}, a.NodeMetrics(root))
	assert.Equal(t, analyzer.Metrics{MetricNOC: 1}, a.NodeMetrics(left))
	assert.Equal(t, analyzer.Metrics{MetricNOC: 0}, a.NodeMetrics(grand))
	assert.Empty(t, a.NodeMetrics(iface))

	assert.Equal(t, analyzer.Metrics{
		MetricCLSA:  1,
		MetricCLSC:  4,
		MetricRoots: 1,
		MetricLeafs: 3,
		MetricNOI:   1,
		MetricNOM:   3,
		MetricNOF:   1,
		MetricNOP:   2,
	}, a.ProjectMetrics())
}

func TestEmptyProject(t *testing.T) {
	a := New()
	require.NoError(t, a.Analyze(context.Background(), nil))
	for key, v := range a.ProjectMetrics() {
		assert.Zero(t, v, key)
	}
}
