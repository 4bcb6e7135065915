package ast

// Artifact is a named, independently identifiable unit: *Namespace, *Type,
// *Callable or *Property.
type Artifact interface {
	ID() ID
	Name() string
	artifact()
}

// Modifier is a bit set of declaration modifiers.
type Modifier uint16

const (
	ModPublic Modifier = 1 << iota
	ModProtected
	ModPrivate
	ModStatic
	ModAbstract
	ModFinal
)

const visibilityMask = ModPublic | ModProtected | ModPrivate

// Has reports whether all bits of f are set.
func (m Modifier) Has(f Modifier) bool { return m&f == f }

// IsPublic treats a declaration without explicit visibility as public.
func (m Modifier) IsPublic() bool { return m.Has(ModPublic) || m&visibilityMask == 0 }

// IsPrivate reports whether the private bit is set.
func (m Modifier) IsPrivate() bool { return m.Has(ModPrivate) }

// IsStatic reports whether the static bit is set.
func (m Modifier) IsStatic() bool { return m.Has(ModStatic) }

// ParseModifier maps a modifier keyword to its bit. Unknown keywords map to 0.
func ParseModifier(s string) Modifier {
	switch s {
	case "public":
		return ModPublic
	case "protected":
		return ModProtected
	case "private":
		return ModPrivate
	case "static":
		return ModStatic
	case "abstract":
		return ModAbstract
	case "final":
		return ModFinal
	default:
		return 0
	}
}

// Namespace holds the top-level types and functions declared under a name.
type Namespace struct {
	id        ID
	name      string
	types     []*Type
	functions []*Callable
}

func (n *Namespace) artifact() {}

// ID returns the namespace id.
func (n *Namespace) ID() ID { return n.id }

// Name returns the namespace name.
func (n *Namespace) Name() string { return n.name }

// Types returns the declared types in declaration order.
func (n *Namespace) Types() []*Type { return n.types }

// Functions returns the declared functions in declaration order.
func (n *Namespace) Functions() []*Callable { return n.functions }

// ClassCount returns the number of declared classes.
func (n *Namespace) ClassCount() int { return n.countKind(TypeClass) }

// InterfaceCount returns the number of declared interfaces.
func (n *Namespace) InterfaceCount() int { return n.countKind(TypeInterface) }

// TraitCount returns the number of declared traits.
func (n *Namespace) TraitCount() int { return n.countKind(TypeTrait) }

// MethodCount returns the number of methods declared by the namespace's types.
func (n *Namespace) MethodCount() int {
	count := 0
	for _, t := range n.types {
		count += len(t.methods)
	}
	return count
}

// FunctionCount returns the number of declared functions.
func (n *Namespace) FunctionCount() int { return len(n.functions) }

func (n *Namespace) countKind(kind TypeKind) int {
	count := 0
	for _, t := range n.types {
		if t.kind == kind {
			count++
		}
	}
	return count
}

// Property is a field declared on a type.
type Property struct {
	id        ID
	name      string
	modifiers Modifier
	typ       *Type
	declaring *Type
	line      int
	comment   string
}

func (p *Property) artifact() {}

// ID returns the property id.
func (p *Property) ID() ID { return p.id }

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// Type returns the declared type, or nil when untyped or scalar.
func (p *Property) Type() *Type { return p.typ }

// DeclaringType returns the owning type.
func (p *Property) DeclaringType() *Type { return p.declaring }

// Modifiers returns the declaration modifiers.
func (p *Property) Modifiers() Modifier { return p.modifiers }

// IsPublic reports whether the property is part of the public interface.
func (p *Property) IsPublic() bool { return p.modifiers.IsPublic() }

// IsPrivate reports whether the property is private.
func (p *Property) IsPrivate() bool { return p.modifiers.IsPrivate() }

// IsStatic reports whether the property is static.
func (p *Property) IsStatic() bool { return p.modifiers.IsStatic() }

// Line returns the declaration line.
func (p *Property) Line() int { return p.line }

// Comment returns the doc comment.
func (p *Property) Comment() string { return p.comment }

// SetType sets the declared type.
func (p *Property) SetType(t *Type) { p.typ = t }

// SetModifiers sets the declaration modifiers.
func (p *Property) SetModifiers(m Modifier) { p.modifiers = m }

// SetLine sets the declaration line.
func (p *Property) SetLine(line int) { p.line = line }

// SetComment sets the doc comment.
func (p *Property) SetComment(c string) { p.comment = c }

// Constant is a named constant declared on a type.
type Constant struct {
	Name      string
	Value     string
	Modifiers Modifier
}
