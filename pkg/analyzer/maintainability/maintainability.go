// Package maintainability computes the maintainability index of callables
// from their Halstead volume, CCN2 and executable lines.
package maintainability

import (
	"context"
	"math"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/ccn"
	"github.com/panbanda/depend/pkg/analyzer/halstead"
	"github.com/panbanda/depend/pkg/analyzer/loc"
	"github.com/panbanda/depend/pkg/ast"
)

const MetricMI = "mi"

var _ analyzer.NodeAware = (*Analyzer)(nil)

// Analyzer computes the maintainability index.
type Analyzer struct {
	analyzer.Base

	ccn      *ccn.Analyzer
	halstead *halstead.Analyzer
	loc      *loc.Analyzer
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a maintainability analyzer over the given dependencies.
func New(c *ccn.Analyzer, h *halstead.Analyzer, l *loc.Analyzer, opts ...Option) *Analyzer {
	a := &Analyzer{
		Base:     analyzer.NewBase(analyzer.KindMaintainability),
		ccn:      c,
		halstead: h,
		loc:      l,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the index of every callable in namespaces.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	err := analyzer.RequireAll(ctx, analyzer.KindMaintainability, namespaces,
		analyzer.Dep(analyzer.KindCCN, a.ccn),
		analyzer.Dep(analyzer.KindHalstead, a.halstead),
		analyzer.Dep(analyzer.KindLOC, a.loc),
	)
	if err != nil {
		return err
	}

	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.Inspect(namespaces, func(n ast.Artifact) bool {
		if fn, ok := n.(*ast.Callable); ok {
			mi := Index(a.halstead.Volume(fn), a.ccn.CCN2(fn), a.loc.ELOC(fn))
			a.Set(fn.ID(), MetricMI, mi)
		}
		return true
	})
	return a.Finish(nil)
}

// Index computes 171 - 5.2 ln(volume) - 0.23 ccn2 - 16.2 ln(eloc), rescaled
// to 0..100. A zero volume or eloc drives the raw value to +Inf, which
// clamps to 100.
func Index(volume float64, ccn2, eloc int) float64 {
	mi := 171 - 5.2*math.Log(volume) - 0.23*float64(ccn2) - 16.2*math.Log(float64(eloc))
	mi = mi * 100 / 171
	if math.IsNaN(mi) {
		return 0
	}
	return math.Min(100, math.Max(0, mi))
}
