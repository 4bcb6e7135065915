package forest

import "github.com/panbanda/depend/pkg/ast"

// Document is the JSON form of a parsed code base, as written by a
// language front-end. Type references are qualified names using "." as
// the namespace separator; names that no declaration resolves become
// placeholder types.
type Document struct {
	Version    int         `json:"version,omitempty"`
	Namespaces []Namespace `json:"namespaces"`
}

// Namespace lists the types and functions declared under one name.
type Namespace struct {
	Name      string     `json:"name"`
	Types     []Type     `json:"types,omitempty"`
	Functions []Callable `json:"functions,omitempty"`
}

// Type is a class, interface, trait or enum declaration.
type Type struct {
	Kind       string      `json:"kind"`
	Name       string      `json:"name"`
	File       string      `json:"file,omitempty"`
	StartLine  int         `json:"start_line,omitempty"`
	EndLine    int         `json:"end_line,omitempty"`
	Comment    string      `json:"comment,omitempty"`
	Modifiers  []string    `json:"modifiers,omitempty"`
	Parent     string      `json:"parent,omitempty"`
	Interfaces []string    `json:"interfaces,omitempty"`
	Constants  []Constant  `json:"constants,omitempty"`
	Tokens     []ast.Token `json:"tokens,omitempty"`
	Members    []Member    `json:"members,omitempty"`
}

// Constant is a type constant.
type Constant struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Member is a method or a property, told apart by Member.
type Member struct {
	Member string `json:"member"`
	Callable
	Type string `json:"type,omitempty"`
	Line int    `json:"line,omitempty"`
}

// Member kinds.
const (
	MemberMethod   = "method"
	MemberProperty = "property"
)

// Callable is a method or function declaration.
type Callable struct {
	Name         string      `json:"name"`
	File         string      `json:"file,omitempty"`
	StartLine    int         `json:"start_line,omitempty"`
	EndLine      int         `json:"end_line,omitempty"`
	Comment      string      `json:"comment,omitempty"`
	Modifiers    []string    `json:"modifiers,omitempty"`
	Parameters   []Parameter `json:"parameters,omitempty"`
	ReturnType   string      `json:"return_type,omitempty"`
	Exceptions   []string    `json:"exceptions,omitempty"`
	Dependencies []string    `json:"dependencies,omitempty"`
	Tokens       []ast.Token `json:"tokens,omitempty"`
	Body         *Node       `json:"body,omitempty"`
}

// Parameter is a formal parameter.
type Parameter struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// Node is a body node. Operators are leaves placed between their operands:
// a && b is an expression with the children a, boolean_and and b.
type Node struct {
	Kind        string  `json:"kind"`
	Image       string  `json:"image,omitempty"`
	Comment     string  `json:"comment,omitempty"`
	StartLine   int     `json:"start_line,omitempty"`
	EndLine     int     `json:"end_line,omitempty"`
	StartColumn int     `json:"start_column,omitempty"`
	EndColumn   int     `json:"end_column,omitempty"`
	Default     bool    `json:"default,omitempty"`
	Ref         string  `json:"ref,omitempty"`
	Children    []*Node `json:"children,omitempty"`
}
