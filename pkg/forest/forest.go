// Package forest decodes the JSON document a language front-end writes for
// a parsed code base into the artifact forest the analyzers consume.
// Documents are validated against an embedded JSON schema before they are
// built.
package forest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/panbanda/depend/pkg/ast"
)

// ErrInvalidDocument is wrapped by every error caused by the content of a
// document rather than by reading it.
var ErrInvalidDocument = errors.New("invalid forest document")

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/panbanda/depend/forest.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse forest schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add forest schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// DecodeFile reads and builds the document at path.
func DecodeFile(path string) ([]*ast.Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forest: %w", err)
	}
	return DecodeBytes(data)
}

// Decode reads and builds a document from r.
func Decode(r io.Reader) ([]*ast.Namespace, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read forest: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes validates and builds a document.
func DecodeBytes(data []byte) ([]*ast.Namespace, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return Build(&doc)
}

// Validate checks data against the forest schema.
func Validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return nil
}

// Build creates the artifacts of doc with a fresh ast.Builder. Every type
// and function is declared before any reference is resolved, so references
// may point forward.
func Build(doc *Document) ([]*ast.Namespace, error) {
	b := ast.NewBuilder()
	types := make([][]*ast.Type, len(doc.Namespaces))
	functions := make([][]*ast.Callable, len(doc.Namespaces))

	for i, nd := range doc.Namespaces {
		ns := b.Namespace(nd.Name)
		for _, td := range nd.Types {
			b.SetFile(td.File)
			t := b.Declare(ns, td.Name, ast.TypeKind(td.Kind))
			types[i] = append(types[i], t)
		}
		for _, fd := range nd.Functions {
			b.SetFile(fd.File)
			functions[i] = append(functions[i], b.Function(ns, fd.Name))
		}
	}

	for i, nd := range doc.Namespaces {
		for j, td := range nd.Types {
			if err := buildType(b, types[i][j], &td); err != nil {
				return nil, err
			}
		}
		for j := range nd.Functions {
			if err := buildCallable(b, functions[i][j], &nd.Functions[j]); err != nil {
				return nil, err
			}
		}
	}
	return b.Namespaces(), nil
}

func buildType(b *ast.Builder, t *ast.Type, td *Type) error {
	t.SetModifiers(modifiers(td.Modifiers))
	t.SetLines(td.StartLine, td.EndLine)
	t.SetComment(td.Comment)
	if td.Parent != "" {
		t.SetParentClass(b.Reference(td.Parent))
	}
	for _, name := range td.Interfaces {
		t.AddInterface(b.Reference(name))
	}
	for _, c := range td.Constants {
		b.Constant(t, c.Name, c.Value)
	}
	tokens, err := checkTokens(t.QualifiedName(), td.Tokens)
	if err != nil {
		return err
	}
	t.SetTokens(tokens)

	b.SetFile(td.File)
	for k := range td.Members {
		md := &td.Members[k]
		switch md.Member {
		case MemberMethod:
			file := md.File
			if file == "" {
				file = td.File
			}
			b.SetFile(file)
			if err := buildCallable(b, b.Method(t, md.Name), &md.Callable); err != nil {
				return err
			}
			b.SetFile(td.File)
		case MemberProperty:
			p := b.Property(t, md.Name)
			p.SetModifiers(modifiers(md.Modifiers))
			p.SetLine(md.Line)
			p.SetComment(md.Comment)
			if md.Type != "" {
				p.SetType(b.Reference(md.Type))
			}
		default:
			return fmt.Errorf("%w: %s: unknown member kind %q", ErrInvalidDocument, t.QualifiedName(), md.Member)
		}
	}
	return nil
}

func buildCallable(b *ast.Builder, fn *ast.Callable, fd *Callable) error {
	fn.SetModifiers(modifiers(fd.Modifiers))
	fn.SetLines(fd.StartLine, fd.EndLine)
	fn.SetComment(fd.Comment)
	for _, p := range fd.Parameters {
		fn.AddParameter(p.Name, b.Reference(p.Type), p.Default)
	}
	fn.SetReturnType(b.Reference(fd.ReturnType))
	for _, name := range fd.Exceptions {
		fn.AddException(b.Reference(name))
	}
	for _, name := range fd.Dependencies {
		fn.AddDependency(b.Reference(name))
	}

	tokens, err := checkTokens(fn.QualifiedName(), fd.Tokens)
	if err != nil {
		return err
	}
	fn.SetTokens(tokens)

	if fd.Body == nil {
		return nil
	}
	body, err := buildNode(b, fd.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", fn.QualifiedName(), err)
	}
	return fn.SetBody(body)
}

func buildNode(b *ast.Builder, nd *Node) (*ast.Node, error) {
	kind := ast.NodeKind(nd.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown node kind %q", ErrInvalidDocument, nd.Kind)
	}
	n := ast.NewNode(kind, nd.Image)
	n.Comment = nd.Comment
	n.StartLine, n.EndLine = nd.StartLine, nd.EndLine
	n.StartColumn, n.EndColumn = nd.StartColumn, nd.EndColumn
	n.Default = nd.Default
	n.Ref = b.Reference(nd.Ref)
	for _, cd := range nd.Children {
		child, err := buildNode(b, cd)
		if err != nil {
			return nil, err
		}
		if err := n.AddChild(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func checkTokens(owner string, tokens []ast.Token) ([]ast.Token, error) {
	for i := range tokens {
		if !tokens[i].Kind.Valid() {
			return nil, fmt.Errorf("%w: %s: unknown token kind %q", ErrInvalidDocument, owner, tokens[i].Kind)
		}
		if tokens[i].EndLine == 0 {
			tokens[i].EndLine = tokens[i].StartLine
		}
	}
	return tokens, nil
}

func modifiers(names []string) ast.Modifier {
	var m ast.Modifier
	for _, name := range names {
		m |= ast.ParseModifier(name)
	}
	return m
}
