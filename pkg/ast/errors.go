package ast

import (
	"errors"
	"fmt"
)

// ErrRecursiveInheritance is wrapped by every error reported when a parent or
// interface chain revisits a type already on the walk.
var ErrRecursiveInheritance = errors.New("recursive inheritance")

// RecursiveInheritanceError names the type whose chain was being walked and
// the type that was reached twice.
type RecursiveInheritanceError struct {
	Type     string
	Repeated string
}

func (e *RecursiveInheritanceError) Error() string {
	return fmt.Sprintf("recursive inheritance: walking %s reached %s twice", e.Type, e.Repeated)
}

// Unwrap returns ErrRecursiveInheritance.
func (e *RecursiveInheritanceError) Unwrap() error {
	return ErrRecursiveInheritance
}
