package analyzer

import "github.com/panbanda/depend/pkg/ast"

// Listener receives lifecycle events from analyzers.
type Listener interface {
	StartAnalyzer(kind Kind)
	EndAnalyzer(kind Kind)
	StartVisit(kind Kind, a ast.Artifact)
	EndVisit(kind Kind, a ast.Artifact)
}

// ListenerFuncs adapts optional functions to Listener. Nil fields are
// ignored.
type ListenerFuncs struct {
	OnStartAnalyzer func(Kind)
	OnEndAnalyzer   func(Kind)
	OnStartVisit    func(Kind, ast.Artifact)
	OnEndVisit      func(Kind, ast.Artifact)
}

// StartAnalyzer implements Listener.
func (l ListenerFuncs) StartAnalyzer(kind Kind) {
	if l.OnStartAnalyzer != nil {
		l.OnStartAnalyzer(kind)
	}
}

// EndAnalyzer implements Listener.
func (l ListenerFuncs) EndAnalyzer(kind Kind) {
	if l.OnEndAnalyzer != nil {
		l.OnEndAnalyzer(kind)
	}
}

// StartVisit implements Listener.
func (l ListenerFuncs) StartVisit(kind Kind, a ast.Artifact) {
	if l.OnStartVisit != nil {
		l.OnStartVisit(kind, a)
	}
}

// EndVisit implements Listener.
func (l ListenerFuncs) EndVisit(kind Kind, a ast.Artifact) {
	if l.OnEndVisit != nil {
		l.OnEndVisit(kind, a)
	}
}
