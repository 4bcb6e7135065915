package ast

import "strings"

// Builder creates artifacts and assigns their ids. It is used only during
// the build phase; analyzers treat the resulting forest as read-only.
type Builder struct {
	ids        *idBuilder
	file       string
	namespaces []*Namespace
	byName     map[string]*Namespace
	types      map[string]*Type
	listed     map[ID]bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		ids:    newIDBuilder(),
		byName: make(map[string]*Namespace),
		types:  make(map[string]*Type),
		listed: make(map[ID]bool),
	}
}

// SetFile sets the source file recorded on artifacts created afterwards.
func (b *Builder) SetFile(path string) { b.file = path }

// Namespace returns the namespace with the given name, creating it if needed.
func (b *Builder) Namespace(name string) *Namespace {
	if ns, ok := b.byName[name]; ok {
		return ns
	}
	ns := &Namespace{id: b.ids.next("namespace", "", name), name: name}
	b.byName[name] = ns
	return ns
}

// Namespaces returns the namespaces that declare at least one type or
// function, in the order their first declaration was built.
func (b *Builder) Namespaces() []*Namespace {
	return b.namespaces
}

// Class declares a class.
func (b *Builder) Class(ns *Namespace, name string) *Type { return b.declare(ns, name, TypeClass) }

// Interface declares an interface.
func (b *Builder) Interface(ns *Namespace, name string) *Type {
	return b.declare(ns, name, TypeInterface)
}

// Trait declares a trait.
func (b *Builder) Trait(ns *Namespace, name string) *Type { return b.declare(ns, name, TypeTrait) }

// Enum declares an enum.
func (b *Builder) Enum(ns *Namespace, name string) *Type { return b.declare(ns, name, TypeEnum) }

// Declare declares a type of the given kind.
func (b *Builder) Declare(ns *Namespace, name string, kind TypeKind) *Type {
	return b.declare(ns, name, kind)
}

func (b *Builder) declare(ns *Namespace, name string, kind TypeKind) *Type {
	qname := qualify(ns, name)

	// A placeholder created by an earlier reference becomes the declaration,
	// so references made before it keep pointing at the right type.
	t, ok := b.types[qname]
	if !ok || t.userDefined {
		t = &Type{id: b.ids.next("type", b.file, qname), name: name, namespace: ns}
		if !ok {
			b.types[qname] = t
		}
	}
	t.kind = kind
	t.userDefined = true
	t.file = b.file

	ns.types = append(ns.types, t)
	b.list(ns)
	return t
}

// Reference resolves a qualified type name. Unknown names yield a
// placeholder that is not user defined until a declaration claims it.
func (b *Builder) Reference(qualifiedName string) *Type {
	if qualifiedName == "" {
		return nil
	}
	if t, ok := b.types[qualifiedName]; ok {
		return t
	}
	nsName, name := "", qualifiedName
	if i := strings.LastIndex(qualifiedName, "."); i >= 0 {
		nsName, name = qualifiedName[:i], qualifiedName[i+1:]
	}
	t := &Type{
		id:        b.ids.next("type", "", qualifiedName),
		name:      name,
		kind:      TypeClass,
		namespace: b.Namespace(nsName),
	}
	b.types[qualifiedName] = t
	return t
}

// Method declares a method on t.
func (b *Builder) Method(t *Type, name string) *Callable {
	m := &Callable{
		id:     b.ids.next("method", b.file, t.QualifiedName()+"."+name),
		name:   name,
		kind:   CallableMethod,
		parent: t,
		file:   b.file,
	}
	t.methods = append(t.methods, m)
	t.members = append(t.members, m)
	return m
}

// Function declares a function in ns.
func (b *Builder) Function(ns *Namespace, name string) *Callable {
	f := &Callable{
		id:        b.ids.next("function", b.file, qualify(ns, name)),
		name:      name,
		kind:      CallableFunction,
		namespace: ns,
		file:      b.file,
	}
	ns.functions = append(ns.functions, f)
	b.list(ns)
	return f
}

// Property declares a property on t.
func (b *Builder) Property(t *Type, name string) *Property {
	p := &Property{
		id:        b.ids.next("property", b.file, t.QualifiedName()+"."+name),
		name:      name,
		declaring: t,
	}
	t.properties = append(t.properties, p)
	t.members = append(t.members, p)
	return p
}

// Constant declares a constant on t.
func (b *Builder) Constant(t *Type, name, value string) *Constant {
	c := &Constant{Name: name, Value: value}
	t.constants = append(t.constants, c)
	return c
}

func (b *Builder) list(ns *Namespace) {
	if b.listed[ns.id] {
		return
	}
	b.listed[ns.id] = true
	b.namespaces = append(b.namespaces, ns)
}
