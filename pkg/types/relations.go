package types

import "strings"

// Name returns a human-readable identifier for a type, tolerating nil.
func Name(t Type) string {
	if t == nil {
		return "unknown"
	}
	return t.Name()
}

// Names renders a parenthesised, comma separated list of type names, e.g. "(int, Dog)".
func Names(ts []Type) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range ts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Name(t))
	}
	b.WriteByte(')')
	return b.String()
}

// IsSubtypeOf reports whether a value of type a may be used where b is expected.
// Primitives only match themselves; null matches itself and every class.
func IsSubtypeOf(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	if IsNull(a) {
		return b.Kind() == KindClass
	}
	from, ok := a.(*ClassType)
	if !ok {
		return false
	}
	to, ok := b.(*ClassType)
	if !ok {
		return false
	}
	for cur := from.supertype; cur != nil; cur = cur.supertype {
		if cur == to {
			return true
		}
	}
	return false
}

// MethodNamed resolves name on t, searching t and then its superclasses.
func MethodNamed(t Type, name string) (*MethodSignature, error) {
	class, ok := t.(*ClassType)
	if !ok {
		return nil, &NoSuchMethodError{TypeName: Name(t), MethodName: name, OnNull: IsNull(t)}
	}
	for cur := class; cur != nil; cur = cur.supertype {
		if sig, ok := cur.methods[name]; ok {
			return sig, nil
		}
	}
	return nil, &NoSuchMethodError{TypeName: class.name, MethodName: name}
}

// ConstructorOf returns the constructor declared by t. Constructors are not inherited.
func ConstructorOf(t Type) (*ConstructorSignature, error) {
	class, ok := t.(*ClassType)
	if !ok || class.constructor == nil {
		return nil, &NotInstantiableError{TypeName: Name(t)}
	}
	return class.constructor, nil
}
