package ast

import "javacheck/pkg/types"

type NodeType string

const (
	NodeVariable        NodeType = "Variable"
	NodeLiteral         NodeType = "Literal"
	NodeNullLiteral     NodeType = "NullLiteral"
	NodeMethodCall      NodeType = "MethodCall"
	NodeConstructorCall NodeType = "ConstructorCall"
)

// Node is implemented by every tree node.
type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Expression is the closed set of expression nodes: *Variable, *Literal,
// *NullLiteral, *MethodCall and *ConstructorCall.
type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// Variable reads a variable, e.g. `x` in `x.foo()`.
type Variable struct {
	nodeImpl
	expressionMarker

	Name         string     `json:"name"`
	DeclaredType types.Type `json:"-"`
}

func NewVariable(name string, declaredType types.Type) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name, DeclaredType: declaredType}
}

// Literal is a value written in the source, kept in its string form.
type Literal struct {
	nodeImpl
	expressionMarker

	Value string     `json:"value"`
	Type  types.Type `json:"-"`
}

func NewLiteral(value string, typ types.Type) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value, Type: typ}
}

// NullLiteral is the `null` keyword.
type NullLiteral struct {
	nodeImpl
	expressionMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

// Value is always "null".
func (*NullLiteral) Value() string { return "null" }

// MethodCall is `receiver.method(args...)`.
type MethodCall struct {
	nodeImpl
	expressionMarker

	Receiver   Expression   `json:"receiver"`
	MethodName string       `json:"methodName"`
	Args       []Expression `json:"args"`
}

func NewMethodCall(receiver Expression, methodName string, args []Expression) *MethodCall {
	return &MethodCall{nodeImpl: newNodeImpl(NodeMethodCall), Receiver: receiver, MethodName: methodName, Args: args}
}

// ConstructorCall is `new T(args...)`.
type ConstructorCall struct {
	nodeImpl
	expressionMarker

	InstantiatedType types.Type   `json:"-"`
	Args             []Expression `json:"args"`
}

func NewConstructorCall(instantiatedType types.Type, args []Expression) *ConstructorCall {
	return &ConstructorCall{nodeImpl: newNodeImpl(NodeConstructorCall), InstantiatedType: instantiatedType, Args: args}
}
