package ast

import (
	"strings"

	"javacheck/pkg/types"
)

// String renders an expression in Java-like source form, e.g. `new Dog(5).speak()`.
func String(expr Expression) string {
	var b strings.Builder
	write(&b, expr)
	return b.String()
}

func write(b *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Variable:
		b.WriteString(e.Name)
	case *Literal:
		b.WriteString(e.Value)
	case *NullLiteral:
		b.WriteString(e.Value())
	case *MethodCall:
		write(b, e.Receiver)
		b.WriteByte('.')
		b.WriteString(e.MethodName)
		writeArgs(b, e.Args)
	case *ConstructorCall:
		b.WriteString("new ")
		b.WriteString(types.Name(e.InstantiatedType))
		writeArgs(b, e.Args)
	default:
		b.WriteString("<" + string(expr.NodeType()) + ">")
	}
}

func writeArgs(b *strings.Builder, args []Expression) {
	b.WriteByte('(')
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		write(b, arg)
	}
	b.WriteByte(')')
}
