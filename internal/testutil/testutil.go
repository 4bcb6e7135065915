// Package testutil holds helpers shared by tests: temporary files and short
// constructors for callable bodies.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/depend/pkg/ast"
)

// WriteFile writes content to a file in the real filesystem.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// TempDir creates a temporary directory and returns its path.
// The directory is automatically cleaned up when the test ends.
func TempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "depend-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp error: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

// Body attaches body to fn and fails the test on error.
func Body(t *testing.T, fn *ast.Callable, body *ast.Node) {
	t.Helper()
	if err := fn.SetBody(body); err != nil {
		t.Fatalf("SetBody(%s) error: %v", fn.Name(), err)
	}
}

func Scope(children ...*ast.Node) *ast.Node { return ast.NewTree(ast.NodeScope, "", children...) }
func Stmt(children ...*ast.Node) *ast.Node  { return ast.NewTree(ast.NodeStatement, "", children...) }
func Expr(children ...*ast.Node) *ast.Node  { return ast.NewTree(ast.NodeExpression, "", children...) }
func Var(name string) *ast.Node             { return ast.NewNode(ast.NodeVariable, name) }
func Lit(image string) *ast.Node            { return ast.NewNode(ast.NodeLiteral, image) }

// Operators are leaves placed between their operands.
func And() *ast.Node { return ast.NewNode(ast.NodeBooleanAnd, "&&") }
func Or() *ast.Node  { return ast.NewNode(ast.NodeBooleanOr, "||") }
func Xor() *ast.Node { return ast.NewNode(ast.NodeLogicalXor, "xor") }

// If builds an if statement; a third argument is the else branch.
func If(cond, then *ast.Node, otherwise ...*ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeIf, "if", append([]*ast.Node{cond, then}, otherwise...)...)
}

// ElseIf builds an elseif link.
func ElseIf(cond, then *ast.Node, otherwise ...*ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeElseIf, "elseif", append([]*ast.Node{cond, then}, otherwise...)...)
}

// For builds a for loop with the given header expressions.
func For(init, cond, update, body *ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeFor, "for",
		ast.NewTree(ast.NodeForInit, "", init),
		cond,
		ast.NewTree(ast.NodeForUpdate, "", update),
		body,
	)
}

func Foreach(expr, body *ast.Node) *ast.Node { return ast.NewTree(ast.NodeForeach, "foreach", expr, body) }
func While(cond, body *ast.Node) *ast.Node   { return ast.NewTree(ast.NodeWhile, "while", cond, body) }
func DoWhile(body, cond *ast.Node) *ast.Node { return ast.NewTree(ast.NodeDoWhile, "do", body, cond) }

// Switch builds a switch over selector with the given labels.
func Switch(selector *ast.Node, labels ...*ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeSwitch, "switch", append([]*ast.Node{selector}, labels...)...)
}

// Case builds a non-default switch label.
func Case(value *ast.Node, body ...*ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeSwitchLabel, "case", append([]*ast.Node{value}, body...)...)
}

// Default builds the default switch label.
func Default(body ...*ast.Node) *ast.Node {
	n := ast.NewTree(ast.NodeSwitchLabel, "default", body...)
	n.Default = true
	return n
}

// Try builds a try statement; handlers are catch and finally nodes.
func Try(body *ast.Node, handlers ...*ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeTry, "try", append([]*ast.Node{body}, handlers...)...)
}

// Catch builds a catch clause for the given type.
func Catch(t *ast.Type, body *ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeCatch, "catch", ClassRef(t), Var("$e"), body)
}

func Finally(body *ast.Node) *ast.Node { return ast.NewTree(ast.NodeFinally, "finally", body) }

// Return builds a return statement with an optional expression.
func Return(expr ...*ast.Node) *ast.Node { return ast.NewTree(ast.NodeReturn, "return", expr...) }

// Cond builds a ternary conditional expression.
func Cond(cond, then, otherwise *ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeConditional, "?", cond, then, otherwise)
}

// Elvis builds the short conditional form without a then branch.
func Elvis(cond, otherwise *ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeConditional, "?:", cond, otherwise)
}

// ClassRef builds a reference to t.
func ClassRef(t *ast.Type) *ast.Node {
	n := ast.NewNode(ast.NodeClassReference, t.Name())
	n.Ref = t
	return n
}

// Call builds an invocation of name.
func Call(name string, args ...*ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeInvocation, name, ast.NewTree(ast.NodeArguments, "", args...))
}

// Chain builds the member prefix for receiver.member, nesting when member is
// itself a prefix.
func Chain(receiver, member *ast.Node) *ast.Node {
	return ast.NewTree(ast.NodeMemberPrefix, "->", receiver, member)
}

// Prop builds a property postfix access.
func Prop(name string) *ast.Node { return ast.NewNode(ast.NodePropertyPostfix, name) }

// Tokens builds a single-line token stream from kind/image pairs.
func Tokens(line int, pairs ...string) []ast.Token {
	tokens := make([]ast.Token, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		tokens = append(tokens, ast.NewToken(ast.TokenKind(pairs[i]), pairs[i+1], line))
	}
	return tokens
}
