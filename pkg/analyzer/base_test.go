package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/depend/pkg/ast"
)

type counting struct {
	Base
	runs int
}

func (c *counting) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := c.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	c.runs++
	c.Inspect(namespaces, func(a ast.Artifact) bool {
		if t, ok := a.(*ast.Type); ok {
			c.Set(t.ID(), "seen", 1)
		}
		return true
	})
	return c.Finish(nil)
}

func forest() ([]*ast.Namespace, *ast.Type, *ast.Callable) {
	b := ast.NewBuilder()
	ns := b.Namespace("app")
	c := b.Class(ns, "C")
	m := b.Method(c, "run")
	b.Function(ns, "f")
	return b.Namespaces(), c, m
}

func TestBeginRunsOnce(t *testing.T) {
	namespaces, c, _ := forest()
	a := &counting{Base: NewBase(KindCCN)}

	require.NoError(t, a.Analyze(context.Background(), namespaces))
	require.NoError(t, a.Analyze(context.Background(), namespaces))
	assert.Equal(t, 1, a.runs)
	assert.True(t, a.Done())
	assert.Equal(t, Metrics{"seen": 1}, a.NodeMetrics(c))
}

func TestBeginRejectsCancelledContext(t *testing.T) {
	namespaces, _, _ := forest()
	a := &counting{Base: NewBase(KindCCN)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, a.Analyze(ctx, namespaces), context.Canceled)
	assert.Zero(t, a.runs)
	assert.False(t, a.Done())
}

func TestFinishWithErrorResets(t *testing.T) {
	b := NewBase(KindLOC)
	ok, err := b.Begin(context.Background())
	require.True(t, ok)
	require.NoError(t, err)
	b.Set(1, "loc", 3)

	assert.EqualError(t, b.Finish(assert.AnError), assert.AnError.Error())
	assert.False(t, b.Done())
	assert.False(t, b.Has(1))
}

func TestNodeMetricsUnknownIsEmptyCopy(t *testing.T) {
	_, c, m := forest()
	b := NewBase(KindCCN)
	b.Set(m.ID(), "ccn", 2)

	unknown := b.NodeMetrics(c)
	require.NotNil(t, unknown)
	assert.Empty(t, unknown)
	assert.Empty(t, b.NodeMetrics(nil))

	got := b.NodeMetrics(m)
	got["ccn"] = 99
	v, ok := b.Metric(m.ID(), "ccn")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestListenersBracketVisits(t *testing.T) {
	namespaces, _, _ := forest()
	var events []string
	a := &counting{Base: NewBase(KindNodeCount)}
	a.AddListener(ListenerFuncs{
		OnStartAnalyzer: func(k Kind) { events = append(events, "start:"+k.String()) },
		OnEndAnalyzer:   func(k Kind) { events = append(events, "end:"+k.String()) },
		OnStartVisit:    func(_ Kind, a ast.Artifact) { events = append(events, "+"+a.Name()) },
		OnEndVisit:      func(_ Kind, a ast.Artifact) { events = append(events, "-"+a.Name()) },
	})

	require.NoError(t, a.Analyze(context.Background(), namespaces))
	assert.Equal(t, []string{
		"start:nodecount",
		"+app", "+C", "+run", "-run", "-C", "+f", "-f", "-app",
		"end:nodecount",
	}, events)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("lcom")
	assert.False(t, ok)
}
