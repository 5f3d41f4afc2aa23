package typechecker

import (
	"javacheck/pkg/ast"
	"javacheck/pkg/types"
)

func (c *Checker) checkConstructorCall(call *ast.ConstructorCall) error {
	if err := c.checkArguments(call.Args); err != nil {
		return err
	}

	target := call.InstantiatedType
	if target == nil || types.IsSpecial(target) {
		cause := &types.NotInstantiableError{TypeName: types.Name(target)}
		return &JavaTypeError{Message: cause.Error(), Cause: cause}
	}
	ctor, err := types.ConstructorOf(target)
	if err != nil {
		return &JavaTypeError{Message: err.Error(), Cause: err}
	}

	owner := target.Name() + " constructor"
	if len(call.Args) != len(ctor.ArgumentTypes) {
		return wrongArgumentCount(owner, len(ctor.ArgumentTypes), len(call.Args))
	}
	argTypes, err := c.argumentTypes(call.Args)
	if err != nil {
		return err
	}
	// Constructor arguments must match exactly; only null may stand in for a class.
	for i, argType := range argTypes {
		expected := ctor.ArgumentTypes[i]
		if argType == expected {
			continue
		}
		if types.IsNull(argType) && !types.IsSpecial(expected) {
			continue
		}
		return incorrectArgumentTypes(owner, ctor.ArgumentTypes, argTypes)
	}
	return nil
}
