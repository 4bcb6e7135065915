// Package engine wires analyzers together. It resolves the analyzers a
// request needs, builds them once in dependency order with their
// dependencies passed to the constructors, runs them over a forest and
// collects the merged results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/ccn"
	"github.com/panbanda/depend/pkg/analyzer/classdependency"
	"github.com/panbanda/depend/pkg/analyzer/classlevel"
	"github.com/panbanda/depend/pkg/analyzer/coderank"
	"github.com/panbanda/depend/pkg/analyzer/cohesion"
	"github.com/panbanda/depend/pkg/analyzer/coupling"
	"github.com/panbanda/depend/pkg/analyzer/crap"
	"github.com/panbanda/depend/pkg/analyzer/dependency"
	"github.com/panbanda/depend/pkg/analyzer/halstead"
	"github.com/panbanda/depend/pkg/analyzer/hierarchy"
	"github.com/panbanda/depend/pkg/analyzer/inheritance"
	"github.com/panbanda/depend/pkg/analyzer/loc"
	"github.com/panbanda/depend/pkg/analyzer/maintainability"
	"github.com/panbanda/depend/pkg/analyzer/nodecount"
	"github.com/panbanda/depend/pkg/analyzer/npath"
	"github.com/panbanda/depend/pkg/ast"
	"github.com/panbanda/depend/pkg/coverage"
	"github.com/panbanda/depend/pkg/logger"
)

// ErrUnknownAnalyzer is returned for a requested kind no analyzer provides.
var ErrUnknownAnalyzer = errors.New("unknown analyzer")

// RunError reports the analyzer whose pass failed.
type RunError struct {
	Kind analyzer.Kind
	Err  error
}

func (e *RunError) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }

func (e *RunError) Unwrap() error { return e.Err }

// requirements lists the analyzers each analyzer consumes.
var requirements = map[analyzer.Kind][]analyzer.Kind{
	analyzer.KindMaintainability: {analyzer.KindCCN, analyzer.KindHalstead, analyzer.KindLOC},
	analyzer.KindCRAP:            {analyzer.KindCCN},
	analyzer.KindClassLevel:      {analyzer.KindCCN},
}

// Requirements returns the analyzers kind consumes directly.
func Requirements(kind analyzer.Kind) []analyzer.Kind {
	return slices.Clone(requirements[kind])
}

// Engine runs a fixed set of analyzers.
type Engine struct {
	requested  []analyzer.Kind
	order      []analyzer.Kind
	analyzers  map[analyzer.Kind]analyzer.Analyzer
	cache      analyzer.CacheDriver
	coverage   coverage.Report
	strategies []coderank.Strategy
	listeners  []analyzer.Listener
}

// Option is a functional option for configuring Engine.
type Option func(*Engine)

// WithCache sets the cache driver used by the caching analyzers.
func WithCache(d analyzer.CacheDriver) Option {
	return func(e *Engine) {
		e.cache = d
	}
}

// WithCoverage sets the coverage report. Without one the CRAP analyzer is
// disabled.
func WithCoverage(r coverage.Report) Option {
	return func(e *Engine) {
		e.coverage = r
	}
}

// WithCodeRankStrategies selects the CodeRank edge strategies.
func WithCodeRankStrategies(strategies ...coderank.Strategy) Option {
	return func(e *Engine) {
		e.strategies = strategies
	}
}

// WithListener registers a lifecycle listener on every analyzer.
func WithListener(l analyzer.Listener) Option {
	return func(e *Engine) {
		e.listeners = append(e.listeners, l)
	}
}

// New builds the analyzers for kinds and everything they require. No kinds
// means every analyzer.
func New(kinds []analyzer.Kind, opts ...Option) (*Engine, error) {
	e := &Engine{analyzers: make(map[analyzer.Kind]analyzer.Analyzer)}
	for _, opt := range opts {
		opt(e)
	}

	if len(kinds) == 0 {
		kinds = analyzer.Kinds()
	}
	for _, k := range kinds {
		if _, ok := analyzer.ParseKind(string(k)); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAnalyzer, k)
		}
		if !slices.Contains(e.requested, k) {
			e.requested = append(e.requested, k)
		}
	}

	order, err := resolve(e.requested)
	if err != nil {
		return nil, err
	}
	e.order = order
	for _, k := range e.order {
		e.analyzers[k] = e.build(k)
	}
	return e, nil
}

// resolve returns kinds and their transitive requirements, dependencies
// first. Ties keep the order of analyzer.Kinds.
func resolve(kinds []analyzer.Kind) ([]analyzer.Kind, error) {
	all := analyzer.Kinds()
	index := make(map[analyzer.Kind]int64, len(all))
	for i, k := range all {
		index[k] = int64(i)
	}

	g := simple.NewDirectedGraph()
	var visit func(analyzer.Kind)
	visit = func(k analyzer.Kind) {
		if g.Node(index[k]) != nil {
			return
		}
		g.AddNode(simple.Node(index[k]))
		for _, dep := range requirements[k] {
			visit(dep)
			g.SetEdge(simple.Edge{F: simple.Node(index[dep]), T: simple.Node(index[k])})
		}
	}
	for _, k := range kinds {
		visit(k)
	}

	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		slices.SortFunc(nodes, func(a, b graph.Node) int { return int(a.ID() - b.ID()) })
	})
	if err != nil {
		return nil, fmt.Errorf("order analyzers: %w", err)
	}
	order := make([]analyzer.Kind, 0, len(sorted))
	for _, n := range sorted {
		order = append(order, all[n.ID()])
	}
	return order, nil
}

func (e *Engine) build(k analyzer.Kind) analyzer.Analyzer {
	switch k {
	case analyzer.KindCCN:
		opts := []ccn.Option{ccn.WithCache(e.cache)}
		for _, l := range e.listeners {
			opts = append(opts, ccn.WithListener(l))
		}
		return ccn.New(opts...)
	case analyzer.KindNPath:
		opts := []npath.Option{npath.WithCache(e.cache)}
		for _, l := range e.listeners {
			opts = append(opts, npath.WithListener(l))
		}
		return npath.New(opts...)
	case analyzer.KindHalstead:
		opts := []halstead.Option{halstead.WithCache(e.cache)}
		for _, l := range e.listeners {
			opts = append(opts, halstead.WithListener(l))
		}
		return halstead.New(opts...)
	case analyzer.KindLOC:
		var opts []loc.Option
		for _, l := range e.listeners {
			opts = append(opts, loc.WithListener(l))
		}
		return loc.New(opts...)
	case analyzer.KindMaintainability:
		var opts []maintainability.Option
		for _, l := range e.listeners {
			opts = append(opts, maintainability.WithListener(l))
		}
		return maintainability.New(e.ccn(), e.analyzers[analyzer.KindHalstead].(*halstead.Analyzer),
			e.analyzers[analyzer.KindLOC].(*loc.Analyzer), opts...)
	case analyzer.KindCRAP:
		var opts []crap.Option
		for _, l := range e.listeners {
			opts = append(opts, crap.WithListener(l))
		}
		return crap.New(e.ccn(), e.coverage, opts...)
	case analyzer.KindCoupling:
		var opts []coupling.Option
		for _, l := range e.listeners {
			opts = append(opts, coupling.WithListener(l))
		}
		return coupling.New(opts...)
	case analyzer.KindCohesion:
		var opts []cohesion.Option
		for _, l := range e.listeners {
			opts = append(opts, cohesion.WithListener(l))
		}
		return cohesion.New(opts...)
	case analyzer.KindClassLevel:
		var opts []classlevel.Option
		for _, l := range e.listeners {
			opts = append(opts, classlevel.WithListener(l))
		}
		return classlevel.New(e.ccn(), opts...)
	case analyzer.KindDependency:
		var opts []dependency.Option
		for _, l := range e.listeners {
			opts = append(opts, dependency.WithListener(l))
		}
		return dependency.New(opts...)
	case analyzer.KindClassDependency:
		var opts []classdependency.Option
		for _, l := range e.listeners {
			opts = append(opts, classdependency.WithListener(l))
		}
		return classdependency.New(opts...)
	case analyzer.KindInheritance:
		var opts []inheritance.Option
		for _, l := range e.listeners {
			opts = append(opts, inheritance.WithListener(l))
		}
		return inheritance.New(opts...)
	case analyzer.KindHierarchy:
		var opts []hierarchy.Option
		for _, l := range e.listeners {
			opts = append(opts, hierarchy.WithListener(l))
		}
		return hierarchy.New(opts...)
	case analyzer.KindNodeCount:
		var opts []nodecount.Option
		for _, l := range e.listeners {
			opts = append(opts, nodecount.WithListener(l))
		}
		return nodecount.New(opts...)
	case analyzer.KindCodeRank:
		opts := []coderank.Option{coderank.WithStrategies(e.strategies...)}
		for _, l := range e.listeners {
			opts = append(opts, coderank.WithListener(l))
		}
		return coderank.New(opts...)
	default:
		panic(fmt.Sprintf("engine: no constructor for analyzer %q", k))
	}
}

func (e *Engine) ccn() *ccn.Analyzer {
	return e.analyzers[analyzer.KindCCN].(*ccn.Analyzer)
}

// Order returns the analyzers in run order.
func (e *Engine) Order() []analyzer.Kind { return slices.Clone(e.order) }

// Requested returns the kinds passed to New, without duplicates.
func (e *Engine) Requested() []analyzer.Kind { return slices.Clone(e.requested) }

// Analyzer returns the analyzer of kind, or nil if it is not part of the
// engine.
func (e *Engine) Analyzer(kind analyzer.Kind) analyzer.Analyzer { return e.analyzers[kind] }

// Run runs every enabled analyzer over namespaces in order and stops at the
// first error.
func (e *Engine) Run(ctx context.Context, namespaces []*ast.Namespace) error {
	for _, k := range e.order {
		a := e.analyzers[k]
		if !analyzer.IsEnabled(a) {
			logger.Debug("Skipping disabled analyzer", "analyzer", k)
			continue
		}
		start := time.Now()
		logger.Debug("Running analyzer", "analyzer", k)
		if err := a.Analyze(ctx, namespaces); err != nil {
			return &RunError{Kind: k, Err: err}
		}
		logger.Debug("Analyzer finished", "analyzer", k, "elapsed", time.Since(start))
	}
	return nil
}
