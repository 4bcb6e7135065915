package analyzer

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/panbanda/depend/pkg/ast"
)

// ErrMissingDependency is wrapped by MissingDependencyError.
var ErrMissingDependency = errors.New("missing analyzer dependency")

// MissingDependencyError reports an analyzer constructed without one of the
// analyzers it requires.
type MissingDependencyError struct {
	Analyzer   Kind
	Dependency Kind
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("analyzer %s requires %s, which was not supplied", e.Analyzer, e.Dependency)
}

// Unwrap returns ErrMissingDependency.
func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}

// Dependency pairs a required kind with the analyzer supplied for it.
type Dependency struct {
	Kind     Kind
	Analyzer Analyzer
}

// Dep builds a Dependency.
func Dep(kind Kind, a Analyzer) Dependency {
	return Dependency{Kind: kind, Analyzer: a}
}

// RequireAll checks that every dependency of kind was supplied and runs each
// of them over namespaces. Dependencies that already ran are not recomputed.
func RequireAll(ctx context.Context, kind Kind, namespaces []*ast.Namespace, deps ...Dependency) error {
	for _, d := range deps {
		if isNil(d.Analyzer) {
			return &MissingDependencyError{Analyzer: kind, Dependency: d.Kind}
		}
	}
	for _, d := range deps {
		if err := d.Analyzer.Analyze(ctx, namespaces); err != nil {
			return fmt.Errorf("%s: dependency %s: %w", kind, d.Kind, err)
		}
	}
	return nil
}

func isNil(a Analyzer) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
