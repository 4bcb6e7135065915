package ast

// TypeKind distinguishes classes, interfaces, traits and enums.
type TypeKind string

const (
	TypeClass     TypeKind = "class"
	TypeInterface TypeKind = "interface"
	TypeTrait     TypeKind = "trait"
	TypeEnum      TypeKind = "enum"
)

// String returns the string representation.
func (k TypeKind) String() string { return string(k) }

// Type is a class, interface, trait or enum.
type Type struct {
	id          ID
	name        string
	kind        TypeKind
	namespace   *Namespace
	modifiers   Modifier
	parent      *Type
	interfaces  []*Type
	methods     []*Callable
	properties  []*Property
	members     []Artifact
	constants   []*Constant
	userDefined bool
	file        string
	startLine   int
	endLine     int
	tokens      []Token
	comment     string
}

func (t *Type) artifact() {}

// ID returns the type id.
func (t *Type) ID() ID { return t.id }

// Name returns the unqualified name.
func (t *Type) Name() string { return t.name }

// QualifiedName returns the name prefixed by its namespace.
func (t *Type) QualifiedName() string { return qualify(t.namespace, t.name) }

// Kind returns the type kind.
func (t *Type) Kind() TypeKind { return t.kind }

// Namespace returns the owning namespace.
func (t *Type) Namespace() *Namespace { return t.namespace }

// Modifiers returns the declaration modifiers.
func (t *Type) Modifiers() Modifier { return t.modifiers }

// IsClass reports whether t is a class.
func (t *Type) IsClass() bool { return t.kind == TypeClass }

// IsInterface reports whether t is an interface.
func (t *Type) IsInterface() bool { return t.kind == TypeInterface }

// IsAbstract reports whether t is declared abstract. Interfaces are always
// abstract.
func (t *Type) IsAbstract() bool {
	return t.kind == TypeInterface || t.modifiers.Has(ModAbstract)
}

// IsUserDefined is false for placeholder types created for references that
// no declaration resolved.
func (t *Type) IsUserDefined() bool { return t.userDefined }

// File returns the source file.
func (t *Type) File() string { return t.file }

// StartLine returns the first line of the declaration.
func (t *Type) StartLine() int { return t.startLine }

// EndLine returns the last line of the declaration.
func (t *Type) EndLine() int { return t.endLine }

// Tokens returns the declaration's token stream.
func (t *Type) Tokens() []Token { return t.tokens }

// Comment returns the doc comment.
func (t *Type) Comment() string { return t.comment }

// ParentClass returns the direct parent class, or nil.
func (t *Type) ParentClass() *Type { return t.parent }

// DeclaredInterfaces returns the directly implemented (or, for interfaces,
// extended) interfaces.
func (t *Type) DeclaredInterfaces() []*Type { return t.interfaces }

// Methods returns the declared methods in declaration order.
func (t *Type) Methods() []*Callable { return t.methods }

// Properties returns the declared properties in declaration order.
func (t *Type) Properties() []*Property { return t.properties }

// Members returns methods and properties interleaved in declaration order.
func (t *Type) Members() []Artifact { return t.members }

// Constants returns the declared constants.
func (t *Type) Constants() []*Constant { return t.constants }

// Method returns the declared method with the given name, or nil.
func (t *Type) Method(name string) *Callable {
	for _, m := range t.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

// ParentClasses returns the parent chain, nearest parent first.
func (t *Type) ParentClasses() ([]*Type, error) {
	seen := map[ID]bool{t.id: true}
	var parents []*Type
	for p := t.parent; p != nil; p = p.parent {
		if seen[p.id] {
			return nil, t.recursion(p)
		}
		seen[p.id] = true
		parents = append(parents, p)
	}
	return parents, nil
}

// Interfaces returns every interface t implements or extends, directly or
// through its parents, each once, in discovery order.
func (t *Type) Interfaces() ([]*Type, error) {
	var out []*Type
	collected := make(map[ID]bool)
	if err := t.collectInterfaces(t, make(map[ID]bool), collected, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Type) collectInterfaces(origin *Type, path, collected map[ID]bool, out *[]*Type) error {
	path[t.id] = true
	defer delete(path, t.id)

	next := t.interfaces
	if t.parent != nil {
		next = append(next[:len(next):len(next)], t.parent)
	}
	for _, n := range next {
		if path[n.id] {
			return origin.recursion(n)
		}
		if collected[n.id] {
			continue
		}
		collected[n.id] = true
		if n.kind == TypeInterface {
			*out = append(*out, n)
		}
		if err := n.collectInterfaces(origin, path, collected, out); err != nil {
			return err
		}
	}
	return nil
}

// IsSubtypeOf reports whether t is other, extends it or implements it.
func (t *Type) IsSubtypeOf(other *Type) (bool, error) {
	if other == nil {
		return false, nil
	}
	if other.id == t.id {
		return true, nil
	}
	parents, err := t.ParentClasses()
	if err != nil {
		return false, err
	}
	for _, p := range parents {
		if p.id == other.id {
			return true, nil
		}
	}
	interfaces, err := t.Interfaces()
	if err != nil {
		return false, err
	}
	for _, i := range interfaces {
		if i.id == other.id {
			return true, nil
		}
	}
	return false, nil
}

// AllMethods returns the declared methods followed by inherited methods not
// redeclared lower in the hierarchy. Interfaces inherit from the interfaces
// they extend; other types from their parent chain.
func (t *Type) AllMethods() ([]*Callable, error) {
	var ancestors []*Type
	var err error
	if t.kind == TypeInterface {
		ancestors, err = t.Interfaces()
	} else {
		ancestors, err = t.ParentClasses()
	}
	if err != nil {
		return nil, err
	}

	names := make(map[string]bool)
	var all []*Callable
	for _, owner := range append([]*Type{t}, ancestors...) {
		for _, m := range owner.methods {
			if names[m.name] {
				continue
			}
			names[m.name] = true
			all = append(all, m)
		}
	}
	return all, nil
}

// AllProperties returns the declared properties followed by those inherited
// through the parent chain and not redeclared.
func (t *Type) AllProperties() ([]*Property, error) {
	parents, err := t.ParentClasses()
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool)
	var all []*Property
	for _, owner := range append([]*Type{t}, parents...) {
		for _, p := range owner.properties {
			if names[p.name] {
				continue
			}
			names[p.name] = true
			all = append(all, p)
		}
	}
	return all, nil
}

func (t *Type) recursion(repeated *Type) error {
	return &RecursiveInheritanceError{Type: t.QualifiedName(), Repeated: repeated.QualifiedName()}
}

// SetParentClass sets the direct parent class.
func (t *Type) SetParentClass(parent *Type) { t.parent = parent }

// AddInterface appends a directly implemented or extended interface.
func (t *Type) AddInterface(i *Type) { t.interfaces = append(t.interfaces, i) }

// SetModifiers sets the declaration modifiers.
func (t *Type) SetModifiers(m Modifier) { t.modifiers = m }

// SetLines sets the declaration's line range.
func (t *Type) SetLines(start, end int) { t.startLine, t.endLine = start, end }

// SetTokens sets the declaration's token stream.
func (t *Type) SetTokens(tokens []Token) { t.tokens = tokens }

// SetComment sets the doc comment.
func (t *Type) SetComment(c string) { t.comment = c }

func qualify(ns *Namespace, name string) string {
	if ns == nil || ns.name == "" {
		return name
	}
	return ns.name + "." + name
}
