package typechecker

import (
	"fmt"

	"javacheck/pkg/ast"
	"javacheck/pkg/types"
)

func (c *Checker) checkMethodCall(call *ast.MethodCall) error {
	if c.checkReceivers {
		if err := c.CheckTypes(call.Receiver); err != nil {
			return err
		}
	}
	receiverType, err := c.StaticType(call.Receiver)
	if err != nil {
		return err
	}
	if types.IsNull(receiverType) {
		return &types.NoSuchMethodError{TypeName: receiverType.Name(), MethodName: call.MethodName, OnNull: true}
	}
	if types.IsPrimitive(receiverType) {
		return &JavaTypeError{Message: fmt.Sprintf("Type %s does not have methods", receiverType.Name())}
	}
	sig, err := types.MethodNamed(receiverType, call.MethodName)
	if err != nil {
		return err
	}

	owner := fmt.Sprintf("%s.%s()", types.Name(receiverType), call.MethodName)
	if len(call.Args) != len(sig.ArgumentTypes) {
		return wrongArgumentCount(owner, len(sig.ArgumentTypes), len(call.Args))
	}
	argTypes, err := c.argumentTypes(call.Args)
	if err != nil {
		return err
	}
	for i, argType := range argTypes {
		expected := sig.ArgumentTypes[i]
		if !types.IsSubtypeOf(argType, expected) || (types.IsNull(argType) && types.IsPrimitive(expected)) {
			return incorrectArgumentTypes(owner, sig.ArgumentTypes, argTypes)
		}
	}

	// The receiver's own subtree is only revisited under WithReceiverChecks.
	return c.checkArguments(call.Args)
}
