package types

import (
	"fmt"
	"strings"
)

// NoSuchMethodError reports a method name that cannot be resolved on a type,
// including any attempt to call a method on null.
type NoSuchMethodError struct {
	TypeName   string
	MethodName string
	OnNull     bool
}

func (e *NoSuchMethodError) Error() string {
	if e.OnNull {
		return fmt.Sprintf("Cannot invoke method %s() on null", e.MethodName)
	}
	return fmt.Sprintf("%s has no method named %s", e.TypeName, e.MethodName)
}

// NotInstantiableError reports a type that has no constructor.
type NotInstantiableError struct {
	TypeName string
}

func (e *NotInstantiableError) Error() string {
	return fmt.Sprintf("Type %s is not instantiable", e.TypeName)
}

// DeclarationError aggregates the problems found while building a Registry.
type DeclarationError struct {
	Issues []string
}

func (e *DeclarationError) Error() string {
	if len(e.Issues) == 0 {
		return "types: invalid class declarations"
	}
	var b strings.Builder
	b.WriteString("class declarations are invalid:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}
