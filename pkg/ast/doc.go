// Package ast provides the read-only artifact model consumed by the metric
// analyzers: namespaces holding types and functions, types holding methods,
// properties and constants, and callables carrying their token stream and a
// generic statement/expression tree.
//
// Artifacts are created by a Builder, which assigns every artifact a stable
// ID. All analyzer results are keyed by that ID, never by position.
//
// Usage:
//
//	b := ast.NewBuilder()
//	ns := b.Namespace("app")
//	cls := b.Class(ns, "Service")
//	m := b.Method(cls, "run")
//	m.SetBody(ast.NewTree(ast.NodeScope, "",
//	    ast.NewTree(ast.NodeReturn, ""),
//	))
//
//	ast.WalkNamespaces(visitor, b.Namespaces())
package ast
