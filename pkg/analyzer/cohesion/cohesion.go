// Package cohesion computes LCOM4 (lack of cohesion in methods) for classes:
// the number of connected components of the graph whose nodes are the
// class's concrete methods and whose edges join methods that use a common
// property or call one another through $this, self or static.
package cohesion

import (
	"context"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

const MetricLCOM4 = "lcom4"

var _ analyzer.NodeAware = (*Analyzer)(nil)

var selfReceivers = map[string]bool{"$this": true, "self": true, "static": true}

// Analyzer computes LCOM4 per class, trait and enum.
type Analyzer struct {
	analyzer.Base
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a cohesion analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{Base: analyzer.NewBase(analyzer.KindCohesion)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes LCOM4 for every non-interface type in namespaces.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.Inspect(namespaces, func(n ast.Artifact) bool {
		switch n := n.(type) {
		case *ast.Namespace:
			return true
		case *ast.Type:
			if !n.IsInterface() {
				a.Set(n.ID(), MetricLCOM4, float64(LCOM4(n)))
			}
		}
		return false
	})
	return a.Finish(nil)
}

// methodUsage holds the names a method body touches on its own type.
type methodUsage struct {
	properties map[string]bool
	calls      map[string]bool
}

// LCOM4 returns the number of connected method components of t. A type
// without concrete methods has LCOM4 0.
func LCOM4(t *ast.Type) int {
	var methods []*ast.Callable
	for _, m := range t.Methods() {
		if !m.IsAbstract() {
			methods = append(methods, m)
		}
	}
	if len(methods) == 0 {
		return 0
	}

	g := simple.NewUndirectedGraph()
	index := make(map[string]int64, len(methods))
	usage := make([]methodUsage, len(methods))
	for i, m := range methods {
		g.AddNode(simple.Node(i))
		index[m.Name()] = int64(i)
		usage[i] = collect(m.Body())
	}

	users := make(map[string][]int64)
	for i, u := range usage {
		for p := range u.properties {
			users[p] = append(users[p], int64(i))
		}
		for callee := range u.calls {
			if j, ok := index[callee]; ok && j != int64(i) {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}
	for _, ids := range users {
		for k := 1; k < len(ids); k++ {
			g.SetEdge(simple.Edge{F: simple.Node(ids[0]), T: simple.Node(ids[k])})
		}
	}

	return len(topo.ConnectedComponents(g))
}

func collect(body *ast.Node) methodUsage {
	u := methodUsage{properties: make(map[string]bool), calls: make(map[string]bool)}
	if body == nil {
		return u
	}
	for _, prefix := range body.FindChildrenOfKind(ast.NodeMemberPrefix, nil) {
		receiver, member := prefix.Child(0), prefix.Child(1)
		if receiver == nil || member == nil || !selfReceivers[receiver.Image] {
			continue
		}
		switch member.Kind {
		case ast.NodePropertyPostfix:
			u.properties[strings.TrimPrefix(member.Image, "$")] = true
		case ast.NodeInvocation:
			u.calls[member.Image] = true
		case ast.NodeMemberPrefix:
			// $this->items->count(): the head of the nested chain is ours
			if head := member.Child(0); head != nil {
				switch head.Kind {
				case ast.NodePropertyPostfix:
					u.properties[strings.TrimPrefix(head.Image, "$")] = true
				case ast.NodeInvocation:
					u.calls[head.Image] = true
				}
			}
		}
	}
	return u
}
