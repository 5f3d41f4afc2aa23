package driver

import (
	"fmt"
	"strings"

	"javacheck/pkg/typechecker"
	"javacheck/pkg/types"
)

// Result is the outcome of checking one case.
type Result struct {
	Case *Case
	// Type is the static type of a case that checked cleanly.
	Type       types.Type
	Kind       typechecker.ErrorKind
	Err        error
	Mismatches []string
}

// Passed reports whether the case met its expectation.
func (r Result) Passed() bool { return len(r.Mismatches) == 0 }

// Run checks every case of program in order.
func Run(checker *typechecker.Checker, program *Program) []Result {
	if checker == nil {
		checker = typechecker.New()
	}
	results := make([]Result, 0, len(program.Cases))
	for _, c := range program.Cases {
		results = append(results, runCase(checker, c))
	}
	return results
}

func runCase(checker *typechecker.Checker, c *Case) Result {
	res := Result{Case: c}
	err := checker.CheckTypes(c.Expr)
	if err == nil {
		res.Type, err = checker.StaticType(c.Expr)
	}
	res.Err = err
	res.Kind = typechecker.KindOf(err)

	if res.Kind != c.Expect.Error {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("expected %s, got %s", describeKind(c.Expect.Error), describeOutcome(res)))
	}
	if c.Expect.Type != "" && err == nil && types.Name(res.Type) != c.Expect.Type {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("expected type %s, got %s", c.Expect.Type, types.Name(res.Type)))
	}
	if c.Expect.Message != "" && (err == nil || !strings.Contains(err.Error(), c.Expect.Message)) {
		res.Mismatches = append(res.Mismatches, fmt.Sprintf("expected message containing %q, got %s", c.Expect.Message, describeOutcome(res)))
	}
	return res
}

func describeKind(kind typechecker.ErrorKind) string {
	if kind == typechecker.ErrorNone {
		return "no error"
	}
	return string(kind)
}

func describeOutcome(res Result) string {
	if res.Err == nil {
		return "no error"
	}
	return fmt.Sprintf("%s %q", res.Kind, res.Err.Error())
}
