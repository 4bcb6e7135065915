package ast

// CallableKind distinguishes methods from free functions.
type CallableKind string

const (
	CallableFunction CallableKind = "function"
	CallableMethod   CallableKind = "method"
)

// String returns the string representation.
func (k CallableKind) String() string { return string(k) }

// Parameter is a formal parameter of a callable.
type Parameter struct {
	Name       string
	Position   int
	Type       *Type
	HasDefault bool

	optional bool
}

// Optional reports whether the parameter and every parameter after it
// declare a default value.
func (p *Parameter) Optional() bool { return p.optional }

// Callable is a method or a function.
type Callable struct {
	id           ID
	name         string
	kind         CallableKind
	namespace    *Namespace
	parent       *Type
	modifiers    Modifier
	params       []*Parameter
	returnType   *Type
	exceptions   []*Type
	dependencies []*Type
	body         *Node
	tokens       []Token
	file         string
	startLine    int
	endLine      int
	comment      string
}

func (c *Callable) artifact() {}

// ID returns the callable id.
func (c *Callable) ID() ID { return c.id }

// Name returns the unqualified name.
func (c *Callable) Name() string { return c.name }

// QualifiedName returns Namespace.Type.method for methods and
// Namespace.function for functions.
func (c *Callable) QualifiedName() string {
	if c.parent != nil {
		return c.parent.QualifiedName() + "." + c.name
	}
	return qualify(c.namespace, c.name)
}

// Kind returns the callable kind.
func (c *Callable) Kind() CallableKind { return c.kind }

// IsMethod reports whether c is declared on a type.
func (c *Callable) IsMethod() bool { return c.kind == CallableMethod }

// Namespace returns the namespace the callable lives in; for methods, the
// namespace of the declaring type.
func (c *Callable) Namespace() *Namespace {
	if c.parent != nil {
		return c.parent.namespace
	}
	return c.namespace
}

// Parent returns the declaring type of a method, or nil for functions.
func (c *Callable) Parent() *Type { return c.parent }

// Modifiers returns the declaration modifiers.
func (c *Callable) Modifiers() Modifier { return c.modifiers }

// IsPublic reports whether the callable is part of the public interface.
func (c *Callable) IsPublic() bool { return c.modifiers.IsPublic() }

// IsPrivate reports whether the callable is private.
func (c *Callable) IsPrivate() bool { return c.modifiers.IsPrivate() }

// IsStatic reports whether the callable is static.
func (c *Callable) IsStatic() bool { return c.modifiers.IsStatic() }

// IsAbstract reports whether the method is declared abstract or belongs to
// an interface.
func (c *Callable) IsAbstract() bool {
	if c.modifiers.Has(ModAbstract) {
		return true
	}
	return c.parent != nil && c.parent.kind == TypeInterface
}

// Parameters returns the formal parameters in declaration order.
func (c *Callable) Parameters() []*Parameter { return c.params }

// ReturnType returns the declared return type, or nil.
func (c *Callable) ReturnType() *Type { return c.returnType }

// ExceptionTypes returns the declared thrown exception types.
func (c *Callable) ExceptionTypes() []*Type { return c.exceptions }

// Dependencies returns the types referenced by class reference nodes in the
// body followed by explicitly registered references, each once.
func (c *Callable) Dependencies() []*Type {
	seen := make(map[ID]bool)
	var deps []*Type
	add := func(t *Type) {
		if t == nil || seen[t.id] {
			return
		}
		seen[t.id] = true
		deps = append(deps, t)
	}
	if c.body != nil {
		if c.body.Kind == NodeClassReference {
			add(c.body.Ref)
		}
		for _, ref := range c.body.FindChildrenOfKind(NodeClassReference, nil) {
			add(ref.Ref)
		}
	}
	for _, t := range c.dependencies {
		add(t)
	}
	return deps
}

// Body returns the body's root node, or nil for abstract callables.
func (c *Callable) Body() *Node { return c.body }

// Tokens returns the callable's token stream.
func (c *Callable) Tokens() []Token { return c.tokens }

// File returns the source file.
func (c *Callable) File() string { return c.file }

// StartLine returns the first line of the declaration.
func (c *Callable) StartLine() int { return c.startLine }

// EndLine returns the last line of the declaration.
func (c *Callable) EndLine() int { return c.endLine }

// Comment returns the doc comment.
func (c *Callable) Comment() string { return c.comment }

// SetModifiers sets the declaration modifiers.
func (c *Callable) SetModifiers(m Modifier) { c.modifiers = m }

// AddParameter appends a parameter and recomputes the optional flags.
func (c *Callable) AddParameter(name string, typ *Type, hasDefault bool) *Parameter {
	p := &Parameter{Name: name, Position: len(c.params), Type: typ, HasDefault: hasDefault}
	c.params = append(c.params, p)

	optional := true
	for i := len(c.params) - 1; i >= 0; i-- {
		optional = optional && c.params[i].HasDefault
		c.params[i].optional = optional
	}
	return p
}

// SetReturnType sets the declared return type.
func (c *Callable) SetReturnType(t *Type) { c.returnType = t }

// AddException appends a declared thrown exception type.
func (c *Callable) AddException(t *Type) { c.exceptions = append(c.exceptions, t) }

// AddDependency registers a referenced type that has no class reference
// node in the body, such as an instanceof or catch operand.
func (c *Callable) AddDependency(t *Type) { c.dependencies = append(c.dependencies, t) }

// SetBody sets the body's root node. The node must not be attached elsewhere.
func (c *Callable) SetBody(body *Node) error {
	if body != nil && body.parent != nil {
		return ErrNodeAttached
	}
	c.body = body
	return nil
}

// SetTokens sets the callable's token stream.
func (c *Callable) SetTokens(tokens []Token) { c.tokens = tokens }

// SetLines sets the declaration's line range.
func (c *Callable) SetLines(start, end int) { c.startLine, c.endLine = start, end }

// SetComment sets the doc comment.
func (c *Callable) SetComment(comment string) { c.comment = comment }
