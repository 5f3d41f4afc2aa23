package typechecker

import (
	"fmt"

	"javacheck/pkg/ast"
	"javacheck/pkg/types"
)

// Environment maps variable names to declared types for whoever builds
// expression trees. The checker itself never consults it.
type Environment struct {
	parent  *Environment
	symbols map[string]types.Type
}

// NewEnvironment creates a new environment with an optional parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent:  parent,
		symbols: make(map[string]types.Type),
	}
}

// Define binds a name to a type in the current scope.
func (e *Environment) Define(name string, typ types.Type) error {
	if _, exists := e.symbols[name]; exists {
		return fmt.Errorf("redefinition of %q", name)
	}
	e.symbols[name] = typ
	return nil
}

// Lookup searches for a name in the current scope chain.
func (e *Environment) Lookup(name string) (types.Type, bool) {
	if typ, ok := e.symbols[name]; ok {
		return typ, true
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return nil, false
}

// Extend returns a child environment.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}

// Variable builds a variable reference typed by its binding.
func (e *Environment) Variable(name string) (*ast.Variable, error) {
	typ, ok := e.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("undefined variable %q", name)
	}
	return ast.NewVariable(name, typ), nil
}
