package typechecker

import (
	"fmt"

	"javacheck/pkg/ast"
	"javacheck/pkg/types"
)

// Checker computes static types and validates expression trees. It holds no
// state between calls and may be shared between goroutines.
type Checker struct {
	checkReceivers bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithReceiverChecks makes method calls validate their receiver subtree
// before any of their own checks.
func WithReceiverChecks(enabled bool) Option {
	return func(c *Checker) {
		c.checkReceivers = enabled
	}
}

// New returns a checker instance.
func New(opts ...Option) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultChecker = New()

// StaticType reports the compile-time type of expr using the default checker.
func StaticType(expr ast.Expression) (types.Type, error) {
	return defaultChecker.StaticType(expr)
}

// CheckTypes validates expr using the default checker.
func CheckTypes(expr ast.Expression) error {
	return defaultChecker.CheckTypes(expr)
}

// StaticType reports the compile-time type of expr without validating it. A
// method call whose method cannot be resolved yields a *types.NoSuchMethodError.
func (c *Checker) StaticType(expr ast.Expression) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.Variable:
		return e.DeclaredType, nil
	case *ast.Literal:
		return e.Type, nil
	case *ast.NullLiteral:
		return types.Null, nil
	case *ast.MethodCall:
		receiverType, err := c.StaticType(e.Receiver)
		if err != nil {
			return nil, err
		}
		sig, err := types.MethodNamed(receiverType, e.MethodName)
		if err != nil {
			return nil, err
		}
		return sig.ReturnType, nil
	case *ast.ConstructorCall:
		return e.InstantiatedType, nil
	case nil:
		return nil, fmt.Errorf("typechecker: expression is nil")
	default:
		return nil, fmt.Errorf("typechecker: unsupported expression %s", expr.NodeType())
	}
}

// CheckTypes validates expr and its children, returning the first violation.
func (c *Checker) CheckTypes(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.Variable, *ast.Literal, *ast.NullLiteral:
		return nil
	case *ast.MethodCall:
		return c.checkMethodCall(e)
	case *ast.ConstructorCall:
		return c.checkConstructorCall(e)
	case nil:
		return fmt.Errorf("typechecker: expression is nil")
	default:
		return fmt.Errorf("typechecker: unsupported expression %s", expr.NodeType())
	}
}

func (c *Checker) checkArguments(args []ast.Expression) error {
	for _, arg := range args {
		if err := c.CheckTypes(arg); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) argumentTypes(args []ast.Expression) ([]types.Type, error) {
	out := make([]types.Type, len(args))
	for i, arg := range args {
		typ, err := c.StaticType(arg)
		if err != nil {
			return nil, err
		}
		out[i] = typ
	}
	return out, nil
}
