package ast

import "javacheck/pkg/types"

// Short constructors for building expression trees by hand.

func Var(name string, declaredType types.Type) *Variable {
	return NewVariable(name, declaredType)
}

func Lit(value string, typ types.Type) *Literal {
	return NewLiteral(value, typ)
}

func Int(value string) *Literal {
	return NewLiteral(value, types.Int)
}

func Double(value string) *Literal {
	return NewLiteral(value, types.Double)
}

func Null() *NullLiteral {
	return NewNullLiteral()
}

func Call(receiver Expression, methodName string, args ...Expression) *MethodCall {
	return NewMethodCall(receiver, methodName, args)
}

func New(instantiatedType types.Type, args ...Expression) *ConstructorCall {
	return NewConstructorCall(instantiatedType, args)
}
