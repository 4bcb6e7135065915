// Package analyzer defines the metric analyzer contracts and the shared
// machinery every analyzer embeds: the run-once guard, the per-artifact
// metric store, listener fan-out and the bracketed cache session.
package analyzer

import (
	"context"
	"maps"

	"github.com/panbanda/depend/pkg/ast"
)

// Kind names an analyzer.
type Kind string

const (
	KindCCN             Kind = "ccn"
	KindNPath           Kind = "npath"
	KindHalstead        Kind = "halstead"
	KindLOC             Kind = "loc"
	KindMaintainability Kind = "maintainability"
	KindCRAP            Kind = "crap"
	KindCoupling        Kind = "coupling"
	KindCohesion        Kind = "cohesion"
	KindClassLevel      Kind = "classlevel"
	KindDependency      Kind = "dependency"
	KindClassDependency Kind = "classdependency"
	KindInheritance     Kind = "inheritance"
	KindHierarchy       Kind = "hierarchy"
	KindNodeCount       Kind = "nodecount"
	KindCodeRank        Kind = "coderank"
)

var allKinds = []Kind{
	KindCCN, KindNPath, KindHalstead, KindLOC, KindMaintainability, KindCRAP,
	KindCoupling, KindCohesion, KindClassLevel, KindDependency, KindClassDependency,
	KindInheritance, KindHierarchy, KindNodeCount, KindCodeRank,
}

// String returns the string representation.
func (k Kind) String() string { return string(k) }

// Kinds returns every analyzer kind in a fixed order.
func Kinds() []Kind {
	return append([]Kind(nil), allKinds...)
}

// ParseKind returns the kind named by s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range allKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Metrics maps metric names to values.
type Metrics map[string]float64

// Clone returns a copy of m. The copy is never nil.
func (m Metrics) Clone() Metrics {
	out := make(Metrics, len(m))
	maps.Copy(out, m)
	return out
}

// Analyzer computes metrics over a forest of namespaces. A second call to
// Analyze on the same instance is a no-op.
type Analyzer interface {
	Kind() Kind
	Analyze(ctx context.Context, namespaces []*ast.Namespace) error
}

// NodeAware analyzers report per-artifact metrics. NodeMetrics returns an
// empty, non-nil map for artifacts the analyzer has not processed.
type NodeAware interface {
	Analyzer
	NodeMetrics(a ast.Artifact) Metrics
}

// ProjectAware analyzers report one project-wide summary.
type ProjectAware interface {
	Analyzer
	ProjectMetrics() Metrics
}

// Enabler is implemented by analyzers that depend on an optional
// collaborator and stay inert without it.
type Enabler interface {
	Enabled() bool
}

// GraphAware analyzers expose the dependency graph they computed.
type GraphAware interface {
	Analyzer
	Afferents(a ast.Artifact) []ast.Artifact
	Efferents(a ast.Artifact) []ast.Artifact
	// Cycle returns the first dependency cycle reachable from a, in
	// visitation order with the repeated node at both ends, or nil.
	Cycle(a ast.Artifact) []ast.Artifact
}

// IsEnabled reports whether a is enabled; analyzers without the Enabler
// method always are.
func IsEnabled(a Analyzer) bool {
	if e, ok := a.(Enabler); ok {
		return e.Enabled()
	}
	return true
}
