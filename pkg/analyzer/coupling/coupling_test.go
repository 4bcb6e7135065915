package coupling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tu "github.com/panbanda/depend/internal/testutil"
	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

type fixture struct {
	namespaces []*ast.Namespace
	base       *ast.Type
	child      *ast.Type
	service    *ast.Type
	repo       *ast.Type
	appError   *ast.Type
	lonely     *ast.Type
	handle     *ast.Callable
	helper     *ast.Callable
}

func newFixture(t *testing.T) fixture {
	b := ast.NewBuilder()
	ns := b.Namespace("app")
	var f fixture

	f.base = b.Class(ns, "Base")
	f.child = b.Class(ns, "Child")
	f.child.SetParentClass(f.base)
	m := b.Method(f.child, "parent")
	m.SetReturnType(f.base)
	b.Property(f.child, "peer").SetType(f.base)
	b.Property(f.child, "self").SetType(f.child)

	f.repo = b.Class(ns, "Repo")
	f.appError = b.Class(ns, "AppError")
	f.service = b.Class(ns, "Service")
	f.handle = b.Method(f.service, "handle")
	f.handle.SetReturnType(f.repo)
	f.handle.AddException(f.appError)
	tu.Body(t, f.handle, tu.Scope(
		tu.Stmt(tu.ClassRef(f.repo)),
		tu.Stmt(tu.Chain(tu.Var("$this"), tu.Chain(tu.Prop("repo"), tu.Call("find")))),
		tu.Stmt(tu.Chain(tu.Var("$this"), tu.Chain(tu.Prop("repo"), tu.Call("find")))),
		tu.Stmt(tu.Chain(tu.Var("$other"), tu.Call("find"))),
		tu.Stmt(tu.Call("strlen")),
	))

	f.lonely = b.Class(ns, "Lonely")
	b.Method(f.lonely, "noop")

	f.helper = b.Function(ns, "helper")
	f.helper.SetReturnType(f.repo)
	f.helper.AddException(f.appError)
	f.helper.AddDependency(f.repo)

	f.namespaces = b.Namespaces()
	return f
}

func analyze(t *testing.T, f fixture) *Analyzer {
	t.Helper()
	a := New()
	require.NoError(t, a.Analyze(context.Background(), f.namespaces))
	return a
}

func TestSubtypePairsAreExcluded(t *testing.T) {
	f := newFixture(t)
	a := analyze(t, f)

	assert.Equal(t, analyzer.Metrics{"ca": 0, "ce": 0, "cbo": 0}, a.NodeMetrics(f.child))
	assert.Equal(t, analyzer.Metrics{"ca": 0, "ce": 0, "cbo": 0}, a.NodeMetrics(f.base))
}

func TestTypeWithoutReferencesHasNoEfferents(t *testing.T) {
	f := newFixture(t)
	a := analyze(t, f)

	assert.Equal(t, 0.0, a.NodeMetrics(f.lonely)[MetricCE])
	assert.Equal(t, 0.0, a.NodeMetrics(f.lonely)[MetricCA])
}

func TestCouplingCounts(t *testing.T) {
	f := newFixture(t)
	a := analyze(t, f)

	svc := a.NodeMetrics(f.service)
	assert.Equal(t, 2.0, svc[MetricCE], "repo counted once across return type and body")
	assert.Equal(t, 2.0, svc[MetricCBO])
	assert.Equal(t, 0.0, svc[MetricCA])

	assert.Equal(t, 2.0, a.NodeMetrics(f.repo)[MetricCA], "service and helper")
	assert.Equal(t, 2.0, a.NodeMetrics(f.appError)[MetricCA])
	assert.Equal(t, 2.0, a.NodeMetrics(f.helper)[MetricFanout])
}

func TestProjectMetrics(t *testing.T) {
	f := newFixture(t)
	a := analyze(t, f)

	// service ce 2 plus helper fanout 2
	assert.Equal(t, 4.0, a.ProjectMetrics()[MetricFanout])
	assert.Equal(t, 3.0, a.ProjectMetrics()[MetricCalls])

	require.NoError(t, a.Analyze(context.Background(), f.namespaces))
	assert.Equal(t, 4.0, a.ProjectMetrics()[MetricFanout], "second pass does not double count")
}

func TestCallsAreDeduplicatedBySignature(t *testing.T) {
	f := newFixture(t)
	a := analyze(t, f)

	// $this.repo.find, $other.find, strlen
	assert.Equal(t, 3.0, a.NodeMetrics(f.handle)[MetricCalls])
	assert.Equal(t, 3, CountCalls(f.handle.Body()))
	assert.Zero(t, CountCalls(nil))
}

func TestCallSignatureSkipsInvocationAsPrefixHead(t *testing.T) {
	body := tu.Scope(
		tu.Stmt(tu.Chain(tu.Call("factory"), tu.Call("build"))),
		tu.Stmt(tu.Call("factory")),
	)
	// factory appears as its own chain head and standalone; build is factory.build
	assert.Equal(t, 2, CountCalls(body))
}

func TestRecursiveInheritancePropagates(t *testing.T) {
	b := ast.NewBuilder()
	ns := b.Namespace("app")
	x := b.Class(ns, "X")
	y := b.Class(ns, "Y")
	x.SetParentClass(y)
	y.SetParentClass(x)
	other := b.Class(ns, "Other")
	b.Method(x, "m").SetReturnType(other)

	a := New()
	err := a.Analyze(context.Background(), b.Namespaces())
	assert.ErrorIs(t, err, ast.ErrRecursiveInheritance)
	assert.False(t, a.Done())
}
