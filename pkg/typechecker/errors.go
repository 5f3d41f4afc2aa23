package typechecker

import (
	"errors"
	"fmt"

	"javacheck/pkg/types"
)

// JavaTypeError reports any type violation other than an unresolvable method.
type JavaTypeError struct {
	Message string
	Cause   error
}

func (e *JavaTypeError) Error() string { return e.Message }

func (e *JavaTypeError) Unwrap() error { return e.Cause }

func wrongArgumentCount(owner string, expected, got int) error {
	return &JavaTypeError{
		Message: fmt.Sprintf("Wrong number of arguments for %s: expected %d, got %d", owner, expected, got),
	}
}

func incorrectArgumentTypes(owner string, expected, got []types.Type) error {
	return &JavaTypeError{
		Message: fmt.Sprintf("Incorrect argument type for %s: expected %s, got %s", owner, types.Names(expected), types.Names(got)),
	}
}

// ErrorKind classifies the result of a check.
type ErrorKind string

const (
	ErrorNone          ErrorKind = "none"
	ErrorNoSuchMethod  ErrorKind = "NoSuchMethod"
	ErrorJavaTypeError ErrorKind = "JavaTypeError"
	ErrorOther         ErrorKind = "Other"
)

// KindOf classifies err; errors that are neither checker error type are ErrorOther.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrorNone
	}
	var typeErr *JavaTypeError
	if errors.As(err, &typeErr) {
		return ErrorJavaTypeError
	}
	var noMethod *types.NoSuchMethodError
	if errors.As(err, &noMethod) {
		return ErrorNoSuchMethod
	}
	return ErrorOther
}
