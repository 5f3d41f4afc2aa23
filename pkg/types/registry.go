package types

import "fmt"

var specialTypes = map[string]*SpecialType{
	"void":   Void,
	"int":    Int,
	"double": Double,
	"null":   Null,
}

// ClassDecl declares a class by name. Type references are by name so classes
// may refer to each other in any order.
type ClassDecl struct {
	Name        string
	Extends     string // empty means Object
	Methods     []MethodDecl
	Constructor *ConstructorDecl // nil means the class cannot be instantiated
}

// MethodDecl declares a method; an empty Returns means void.
type MethodDecl struct {
	Name    string
	Params  []string
	Returns string
}

// ConstructorDecl declares the constructor's parameter types.
type ConstructorDecl struct {
	Params []string
}

// Builder collects class declarations and produces an immutable Registry.
type Builder struct {
	decls []ClassDecl
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Declare queues a class declaration. Validation is deferred to Build.
func (b *Builder) Declare(decls ...ClassDecl) *Builder {
	b.decls = append(b.decls, decls...)
	return b
}

// Build validates every declaration and links the class hierarchy. All
// problems are reported together in a *DeclarationError.
func (b *Builder) Build() (*Registry, error) {
	r := &Registry{
		classes: map[string]*ClassType{Object.name: Object},
		order:   []*ClassType{Object},
	}
	var issues []string
	addIssue := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	pending := make([]ClassDecl, 0, len(b.decls))
	for _, decl := range b.decls {
		switch {
		case decl.Name == "":
			addIssue("class declaration without a name")
			continue
		case specialTypes[decl.Name] != nil || decl.Name == Object.name:
			addIssue("class %s: name is reserved", decl.Name)
			continue
		case r.classes[decl.Name] != nil:
			addIssue("class %s: declared more than once", decl.Name)
			continue
		}
		class := &ClassType{name: decl.Name, methods: make(map[string]*MethodSignature)}
		r.classes[decl.Name] = class
		r.order = append(r.order, class)
		pending = append(pending, decl)
	}

	for _, decl := range pending {
		class := r.classes[decl.Name]
		parent := decl.Extends
		if parent == "" {
			parent = Object.name
		}
		super, ok := r.classes[parent]
		if !ok {
			addIssue("class %s: unknown superclass %s", decl.Name, parent)
			continue
		}
		class.supertype = super
	}

	cyclic := make(map[*ClassType]bool)
	for _, class := range r.order {
		if hasCycle(class, len(r.order)) {
			cyclic[class] = true
			addIssue("class %s: inheritance cycle", class.name)
		}
	}

	for _, decl := range pending {
		class := r.classes[decl.Name]
		if cyclic[class] {
			continue
		}
		for _, m := range decl.Methods {
			if m.Name == "" {
				addIssue("class %s: method without a name", decl.Name)
				continue
			}
			if _, dup := class.methods[m.Name]; dup {
				addIssue("class %s: method %s declared more than once", decl.Name, m.Name)
				continue
			}
			args, ok := r.resolveParams(decl.Name+"."+m.Name, m.Params, addIssue)
			ret, retOK := r.resolveReturn(decl.Name+"."+m.Name, m.Returns, addIssue)
			if !ok || !retOK {
				continue
			}
			class.methods[m.Name] = &MethodSignature{Name: m.Name, ArgumentTypes: args, ReturnType: ret}
			class.methodOrder = append(class.methodOrder, m.Name)
		}
		if decl.Constructor != nil {
			args, ok := r.resolveParams(decl.Name+" constructor", decl.Constructor.Params, addIssue)
			if ok {
				class.constructor = &ConstructorSignature{ArgumentTypes: args}
			}
		}
	}

	if len(issues) > 0 {
		return nil, &DeclarationError{Issues: issues}
	}
	return r, nil
}

func hasCycle(class *ClassType, limit int) bool {
	steps := 0
	for cur := class.supertype; cur != nil; cur = cur.supertype {
		if cur == class || steps > limit {
			return true
		}
		steps++
	}
	return false
}

func (r *Registry) resolveParams(owner string, names []string, addIssue func(string, ...any)) ([]Type, bool) {
	args := make([]Type, 0, len(names))
	ok := true
	for i, name := range names {
		t, found := r.Lookup(name)
		switch {
		case !found:
			addIssue("%s: parameter %d has unknown type %s", owner, i, name)
			ok = false
		case t == Void || t == Null:
			addIssue("%s: parameter %d cannot have type %s", owner, i, name)
			ok = false
		default:
			args = append(args, t)
		}
	}
	return args, ok
}

func (r *Registry) resolveReturn(owner, name string, addIssue func(string, ...any)) (Type, bool) {
	if name == "" {
		return Void, true
	}
	t, found := r.Lookup(name)
	if !found {
		addIssue("%s: unknown return type %s", owner, name)
		return nil, false
	}
	if t == Null {
		addIssue("%s: return type cannot be null", owner)
		return nil, false
	}
	return t, true
}

// Registry is the read-only table of types a checker works against. It is
// safe for concurrent use once built.
type Registry struct {
	classes map[string]*ClassType
	order   []*ClassType
}

// Lookup resolves a special type name or a class name.
func (r *Registry) Lookup(name string) (Type, bool) {
	if special, ok := specialTypes[name]; ok {
		return special, true
	}
	if class, ok := r.classes[name]; ok {
		return class, true
	}
	return nil, false
}

// Class resolves a class name; special types are not classes.
func (r *Registry) Class(name string) (*ClassType, bool) {
	class, ok := r.classes[name]
	return class, ok
}

// Classes returns every class in declaration order, Object first.
func (r *Registry) Classes() []*ClassType {
	out := make([]*ClassType, len(r.order))
	copy(out, r.order)
	return out
}

// IsSubtypeOf reports whether a may be used where b is expected.
func (r *Registry) IsSubtypeOf(a, b Type) bool { return IsSubtypeOf(a, b) }

// MethodNamed resolves name on t or its superclasses.
func (r *Registry) MethodNamed(t Type, name string) (*MethodSignature, error) {
	return MethodNamed(t, name)
}

// ConstructorOf returns the constructor t itself declares.
func (r *Registry) ConstructorOf(t Type) (*ConstructorSignature, error) {
	return ConstructorOf(t)
}

// Name returns the display name of t.
func (r *Registry) Name(t Type) string { return Name(t) }
