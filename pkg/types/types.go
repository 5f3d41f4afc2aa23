package types

// Kind distinguishes the four special types from user-declared classes.
type Kind int

const (
	KindClass Kind = iota
	KindVoid
	KindInt
	KindDouble
	KindNull
)

// String returns the keyword for a special kind and "class" otherwise.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindNull:
		return "null"
	default:
		return "invalid"
	}
}

// Type represents a compile-time type understood by the checker.
type Type interface {
	Name() string
	Kind() Kind
	isType()
}

// SpecialType is one of void, int, double or null. Each exists exactly once.
type SpecialType struct {
	kind Kind
}

func (s *SpecialType) Name() string { return s.kind.String() }
func (s *SpecialType) Kind() Kind   { return s.kind }
func (*SpecialType) isType()        {}

var (
	Void   = &SpecialType{kind: KindVoid}
	Int    = &SpecialType{kind: KindInt}
	Double = &SpecialType{kind: KindDouble}
	Null   = &SpecialType{kind: KindNull}
)

// MethodSignature describes the single method a class declares under a name.
type MethodSignature struct {
	Name          string
	ArgumentTypes []Type
	ReturnType    Type
}

// ConstructorSignature describes the argument list accepted by `new C(...)`.
type ConstructorSignature struct {
	ArgumentTypes []Type
}

// ClassType is a nominal class. Identity is pointer identity; a ClassType is
// only created by a Builder and never changes after Build returns.
type ClassType struct {
	name        string
	supertype   *ClassType
	methods     map[string]*MethodSignature
	methodOrder []string
	constructor *ConstructorSignature
}

func (c *ClassType) Name() string { return c.name }
func (*ClassType) Kind() Kind     { return KindClass }
func (*ClassType) isType()        {}

// Supertype returns the direct superclass, or nil for the root.
func (c *ClassType) Supertype() *ClassType { return c.supertype }

// Constructor returns the declared constructor, or nil when the class has none.
func (c *ClassType) Constructor() *ConstructorSignature { return c.constructor }

// DeclaredMethods returns the methods declared directly on c, in declaration order.
func (c *ClassType) DeclaredMethods() []*MethodSignature {
	out := make([]*MethodSignature, 0, len(c.methodOrder))
	for _, name := range c.methodOrder {
		out = append(out, c.methods[name])
	}
	return out
}

// Object is the implicit root of every class hierarchy.
var Object = &ClassType{
	name:        "Object",
	methods:     map[string]*MethodSignature{},
	constructor: &ConstructorSignature{},
}

// IsSpecial reports whether t is one of void, int, double or null.
func IsSpecial(t Type) bool {
	return t != nil && t.Kind() != KindClass
}

// IsPrimitive reports whether t is void, int or double.
func IsPrimitive(t Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case KindVoid, KindInt, KindDouble:
		return true
	default:
		return false
	}
}

// IsNull reports whether t is the null type.
func IsNull(t Type) bool {
	return t != nil && t.Kind() == KindNull
}
