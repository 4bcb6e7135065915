// Package inheritance computes inheritance metrics for classes: depth of
// inheritance tree, added and overwritten methods and derived classes, and
// the project averages over them.
package inheritance

import (
	"context"
	"fmt"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

const (
	MetricDIT  = "dit"
	MetricNOAM = "noam"
	MetricNOOM = "noom"
	MetricNOCC = "nocc"

	MetricANDC   = "andc"
	MetricAHH    = "ahh"
	MetricMaxDIT = "maxDIT"
)

var (
	_ analyzer.NodeAware    = (*Analyzer)(nil)
	_ analyzer.ProjectAware = (*Analyzer)(nil)
)

// Analyzer computes inheritance metrics.
type Analyzer struct {
	analyzer.Base

	classes []*ast.Type
	derived map[ast.ID]int
	// roots maps a hierarchy root to the deepest DIT found below it.
	roots     map[ast.ID]int
	rootOrder []ast.ID
	maxDIT    int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates an inheritance analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{Base: analyzer.NewBase(analyzer.KindInheritance)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the metrics of every class in namespaces. A cyclic
// parent chain fails the pass with an error wrapping
// ast.ErrRecursiveInheritance.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.classes = nil
	a.derived = make(map[ast.ID]int)
	a.roots = make(map[ast.ID]int)
	a.rootOrder = nil
	a.maxDIT = 0

	var visitErr error
	a.Inspect(namespaces, func(n ast.Artifact) bool {
		if visitErr != nil {
			return false
		}
		switch n := n.(type) {
		case *ast.Namespace:
			return true
		case *ast.Type:
			if n.IsClass() {
				visitErr = a.visitClass(n)
			}
		}
		return false
	})
	if visitErr != nil {
		return a.Finish(visitErr)
	}

	for _, c := range a.classes {
		a.Set(c.ID(), MetricNOCC, float64(a.derived[c.ID()]))
	}
	return a.Finish(nil)
}

func (a *Analyzer) visitClass(c *ast.Type) error {
	a.classes = append(a.classes, c)

	dit, root, err := depth(c)
	if err != nil {
		return fmt.Errorf("inheritance of %s: %w", c.QualifiedName(), err)
	}
	if _, seen := a.roots[root]; !seen {
		a.rootOrder = append(a.rootOrder, root)
	}
	a.roots[root] = max(a.roots[root], dit)
	a.maxDIT = max(a.maxDIT, dit)
	a.Set(c.ID(), MetricDIT, float64(dit))

	added, overwritten, err := methodChanges(c)
	if err != nil {
		return fmt.Errorf("inheritance of %s: %w", c.QualifiedName(), err)
	}
	a.Set(c.ID(), MetricNOAM, float64(added))
	a.Set(c.ID(), MetricNOOM, float64(overwritten))

	if p := c.ParentClass(); p != nil {
		a.derived[p.ID()]++
	}
	return nil
}

// depth returns the DIT of c and the id of its hierarchy root. An ancestor
// that is not user defined stands for an unknown hierarchy and adds one
// more level.
func depth(c *ast.Type) (int, ast.ID, error) {
	parents, err := c.ParentClasses()
	if err != nil {
		return 0, 0, err
	}
	dit, root := 0, c.ID()
	for _, p := range parents {
		if !p.IsUserDefined() {
			dit++
		}
		dit++
		root = p.ID()
	}
	return dit, root, nil
}

// methodChanges classifies the methods c declares against the full method
// set of its parent. Implementing an abstract parent method is neither an
// addition nor an overwrite.
func methodChanges(c *ast.Type) (added, overwritten int, err error) {
	parent := c.ParentClass()
	if parent == nil {
		return 0, 0, nil
	}
	inherited, err := parent.AllMethods()
	if err != nil {
		return 0, 0, err
	}
	abstract := make(map[string]bool, len(inherited))
	for _, m := range inherited {
		abstract[m.Name()] = m.IsAbstract()
	}
	for _, m := range c.Methods() {
		isAbstract, ok := abstract[m.Name()]
		switch {
		case !ok:
			added++
		case !isAbstract:
			overwritten++
		}
	}
	return added, overwritten, nil
}

// ProjectMetrics returns the average number of derived classes, the average
// hierarchy height and the maximum DIT.
func (a *Analyzer) ProjectMetrics() analyzer.Metrics {
	var andc, ahh float64
	if len(a.classes) > 0 {
		total := 0
		for _, n := range a.derived {
			total += n
		}
		andc = float64(total) / float64(len(a.classes))
	}
	if len(a.rootOrder) > 0 {
		total := 0
		for _, id := range a.rootOrder {
			total += a.roots[id]
		}
		ahh = float64(total) / float64(len(a.rootOrder))
	}
	return analyzer.Metrics{
		MetricANDC:   andc,
		MetricAHH:    ahh,
		MetricMaxDIT: float64(a.maxDIT),
	}
}
