package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/depend/internal/cache"
	tu "github.com/panbanda/depend/internal/testutil"
	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/coderank"
	"github.com/panbanda/depend/pkg/ast"
)

type fixedReport float64

func (r fixedReport) Coverage(*ast.Callable) float64 { return float64(r) }

func names(as []ast.Artifact) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.Name())
	}
	return out
}

// forest builds three namespaces whose classes depend on each other in a
// ring: a.A extends b.B, b.B holds a c.C and c.C throws a.A.
func forest(t *testing.T) ([]*ast.Namespace, *ast.Type, *ast.Callable) {
	b := ast.NewBuilder()
	nsA, nsB, nsC := b.Namespace("a"), b.Namespace("b"), b.Namespace("c")
	typeA, typeB, typeC := b.Class(nsA, "A"), b.Class(nsB, "B"), b.Class(nsC, "C")
	typeA.SetParentClass(typeB)
	b.Property(typeB, "c").SetType(typeC)

	run := b.Method(typeC, "run")
	run.AddException(typeA)
	run.SetTokens(tu.Tokens(1, "open_curly", "{", "if", "if", "variable", "$x", "close_curly", "}"))
	run.SetLines(1, 1)
	tu.Body(t, run, tu.Scope(tu.If(tu.Expr(tu.Var("$x")), tu.Scope())))
	return b.Namespaces(), typeC, run
}

func TestNewResolvesRequirements(t *testing.T) {
	tests := []struct {
		name  string
		kinds []analyzer.Kind
		want  []analyzer.Kind
	}{
		{
			"maintainability",
			[]analyzer.Kind{analyzer.KindMaintainability},
			[]analyzer.Kind{analyzer.KindCCN, analyzer.KindHalstead, analyzer.KindLOC, analyzer.KindMaintainability},
		},
		{
			"shared dependency",
			[]analyzer.Kind{analyzer.KindClassLevel, analyzer.KindCRAP},
			[]analyzer.Kind{analyzer.KindCCN, analyzer.KindCRAP, analyzer.KindClassLevel},
		},
		{
			"independent",
			[]analyzer.Kind{analyzer.KindNodeCount, analyzer.KindDependency},
			[]analyzer.Kind{analyzer.KindDependency, analyzer.KindNodeCount},
		},
		{"everything", nil, analyzer.Kinds()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.kinds)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Order())
			for _, k := range tt.want {
				assert.NotNil(t, e.Analyzer(k), k)
			}
		})
	}
}

func TestNewRejectsUnknownAnalyzer(t *testing.T) {
	_, err := New([]analyzer.Kind{analyzer.KindCCN, "rfc"})
	assert.ErrorIs(t, err, ErrUnknownAnalyzer)
}

func TestNewDeduplicatesRequests(t *testing.T) {
	e, err := New([]analyzer.Kind{analyzer.KindCCN, analyzer.KindCCN})
	require.NoError(t, err)
	assert.Equal(t, []analyzer.Kind{analyzer.KindCCN}, e.Requested())
	assert.Nil(t, e.Analyzer(analyzer.KindNPath))
}

func TestRunSkipsDisabledAnalyzers(t *testing.T) {
	namespaces, _, run := forest(t)
	var started []analyzer.Kind
	e, err := New([]analyzer.Kind{analyzer.KindCRAP}, WithListener(analyzer.ListenerFuncs{
		OnStartAnalyzer: func(k analyzer.Kind) { started = append(started, k) },
	}))
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background(), namespaces))

	assert.Equal(t, []analyzer.Kind{analyzer.KindCCN}, started)
	assert.False(t, analyzer.IsEnabled(e.Analyzer(analyzer.KindCRAP)))
	res := e.Results(namespaces)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, run, res.Artifacts[0].Artifact)
	assert.Equal(t, analyzer.Metrics{"ccn": 2, "ccn2": 2}, res.Artifacts[0].Metrics)
}

func TestRunWithCoverage(t *testing.T) {
	namespaces, _, run := forest(t)
	e, err := New([]analyzer.Kind{analyzer.KindCRAP}, WithCoverage(fixedReport(100)))
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background(), namespaces))

	res := e.Results(namespaces)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, run, res.Artifacts[0].Artifact)
	assert.Equal(t, analyzer.Metrics{"ccn": 2, "ccn2": 2, "cov": 100, "crap": 2}, res.Artifacts[0].Metrics)
}

func TestRunStopsAtFirstError(t *testing.T) {
	b := ast.NewBuilder()
	ns := b.Namespace("app")
	first, second := b.Class(ns, "A"), b.Class(ns, "B")
	first.SetParentClass(second)
	second.SetParentClass(first)

	e, err := New([]analyzer.Kind{analyzer.KindInheritance, analyzer.KindNodeCount})
	require.NoError(t, err)
	err = e.Run(context.Background(), b.Namespaces())
	assert.ErrorIs(t, err, ast.ErrRecursiveInheritance)
	assert.Contains(t, err.Error(), "inheritance")
	var re *RunError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, analyzer.KindInheritance, re.Kind)
	assert.False(t, e.Analyzer(analyzer.KindNodeCount).(interface{ Done() bool }).Done())
}

func TestRunHonoursCancelledContext(t *testing.T) {
	namespaces, _, _ := forest(t)
	e, err := New([]analyzer.Kind{analyzer.KindCCN})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Run(ctx, namespaces), context.Canceled)
}

func TestResultsMergeAndCycles(t *testing.T) {
	namespaces, typeC, _ := forest(t)
	e, err := New(nil, WithCodeRankStrategies(coderank.StrategyProperty))
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background(), namespaces))

	res := e.Results(namespaces)
	require.Len(t, res.NamespaceCycles, 1)
	assert.Equal(t, []string{"a", "b", "c", "a"}, names(res.NamespaceCycles[0]))
	require.Len(t, res.TypeCycles, 1)
	assert.Equal(t, []string{"A", "B", "C", "A"}, names(res.TypeCycles[0]))

	var c *ArtifactResult
	for i := range res.Artifacts {
		if res.Artifacts[i].Artifact == typeC {
			c = &res.Artifacts[i]
		}
	}
	require.NotNil(t, c)
	assert.Equal(t, "class", c.Kind)
	assert.Equal(t, "c.C", c.Name)
	// Coupling reports C -> A first; the type graph adds its own counts.
	assert.Equal(t, float64(1), c.Metrics["ce"])
	assert.Equal(t, float64(1), c.Metrics["classdependency.ce"])
	assert.Contains(t, c.Metrics, "cr")
	assert.Contains(t, c.Metrics, "lcom4")

	assert.Equal(t, float64(3), res.Project["nop"])
	assert.Contains(t, res.Project, "nodecount.nop")
	assert.NotContains(t, res.Project, "crap")

	kinds := map[string]bool{}
	for _, a := range res.Artifacts {
		kinds[a.Kind] = true
	}
	assert.Equal(t, map[string]bool{"namespace": true, "class": true, "method": true}, kinds)
}

func TestRunUsesCache(t *testing.T) {
	namespaces, _, _ := forest(t)
	mem := cache.NewMemory()
	kinds := []analyzer.Kind{analyzer.KindCCN, analyzer.KindNPath, analyzer.KindHalstead}

	e, err := New(kinds, WithCache(mem))
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background(), namespaces))
	assert.Equal(t, 3, mem.Sets())
	assert.Zero(t, mem.Hits())

	e, err = New(kinds, WithCache(mem))
	require.NoError(t, err)
	require.NoError(t, e.Run(context.Background(), namespaces))
	assert.Equal(t, 3, mem.Hits())
}
