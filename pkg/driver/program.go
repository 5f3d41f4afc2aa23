package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"javacheck/pkg/ast"
	"javacheck/pkg/typechecker"
	"javacheck/pkg/types"
)

// Program is a parsed program file: a class registry plus the expression
// cases to check against it.
type Program struct {
	Path     string
	Registry *types.Registry
	Cases    []*Case
}

// Case is one named root expression and what checking it should produce.
type Case struct {
	Name   string
	Line   int
	Expr   ast.Expression
	Expect Expectation
}

// Expectation describes the outcome a case asserts. An empty Error means the
// expression must check cleanly; an empty Type skips the static type comparison.
type Expectation struct {
	Type    string
	Error   typechecker.ErrorKind
	Message string
}

// ValidationError aggregates program file problems that are not class
// declaration issues.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "program: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("program validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadProgram parses a program file from disk.
func LoadProgram(path string, logger log.Logger) (*Program, error) {
	if path == "" {
		return nil, errors.New("program: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "program: resolve %s", path)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, "program: open %s", absPath)
	}
	defer file.Close()

	program, err := ParseProgram(file, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "program %s", absPath)
	}
	program.Path = absPath
	return program, nil
}

// ParseProgram decodes a program document and builds its registry and cases.
func ParseProgram(r io.Reader, logger log.Logger) (*Program, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw programFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("document is empty")
		}
		return nil, errors.Wrap(err, "parse")
	}

	registry, err := types.NewBuilder().Declare(raw.classDecls()...).Build()
	if err != nil {
		return nil, err
	}
	level.Debug(logger).Log("msg", "built class registry", "classes", len(registry.Classes()))

	global := typechecker.NewEnvironment(nil)
	issues := defineVariables(global, registry, raw.Variables, "variables")

	program := &Program{Registry: registry}
	seen := make(map[string]int)
	for i, rc := range raw.Cases {
		name := rc.Name
		if name == "" {
			name = fmt.Sprintf("case %d", i+1)
		}
		if prev, dup := seen[name]; dup {
			issues = append(issues, fmt.Sprintf("case %q: duplicate name (first defined on line %d)", name, prev))
			continue
		}
		seen[name] = rc.Expr.Line

		env := global
		if len(rc.Variables) > 0 {
			env = global.Extend()
			if varIssues := defineVariables(env, registry, rc.Variables, fmt.Sprintf("case %q variables", name)); len(varIssues) > 0 {
				issues = append(issues, varIssues...)
				continue
			}
		}

		expect, err := rc.Expect.toExpectation(registry)
		if err != nil {
			issues = append(issues, fmt.Sprintf("case %q: %v", name, err))
			continue
		}

		dec := newExprDecoder(registry, env)
		expr, err := dec.decode(&rc.Expr)
		if err != nil {
			issues = append(issues, fmt.Sprintf("case %q: %v", name, err))
			continue
		}
		program.Cases = append(program.Cases, &Case{Name: name, Line: rc.Expr.Line, Expr: expr, Expect: expect})
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	level.Debug(logger).Log("msg", "decoded cases", "cases", len(program.Cases))
	return program, nil
}

func defineVariables(env *typechecker.Environment, registry *types.Registry, vars map[string]string, owner string) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []string
	for _, name := range names {
		typ, ok := registry.Lookup(vars[name])
		if !ok {
			issues = append(issues, fmt.Sprintf("%s: %s has unknown type %s", owner, name, vars[name]))
			continue
		}
		if err := env.Define(name, typ); err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", owner, err))
		}
	}
	return issues
}

type programFile struct {
	Classes   []classYAML       `yaml:"classes"`
	Variables map[string]string `yaml:"variables"`
	Cases     []caseYAML        `yaml:"cases"`
}

type classYAML struct {
	Name        string       `yaml:"name"`
	Extends     string       `yaml:"extends"`
	Constructor *[]string    `yaml:"constructor"`
	Methods     []methodYAML `yaml:"methods"`
}

type methodYAML struct {
	Name    string   `yaml:"name"`
	Params  []string `yaml:"params"`
	Returns string   `yaml:"returns"`
}

type caseYAML struct {
	Name      string            `yaml:"name"`
	Variables map[string]string `yaml:"variables"`
	Expr      yaml.Node         `yaml:"expr"`
	Expect    expectYAML        `yaml:"expect"`
}

type expectYAML struct {
	Type    string `yaml:"type"`
	Error   string `yaml:"error"`
	Message string `yaml:"message"`
}

func (f programFile) classDecls() []types.ClassDecl {
	decls := make([]types.ClassDecl, 0, len(f.Classes))
	for _, c := range f.Classes {
		decl := types.ClassDecl{Name: c.Name, Extends: c.Extends}
		if c.Constructor != nil {
			decl.Constructor = &types.ConstructorDecl{Params: append([]string{}, (*c.Constructor)...)}
		}
		for _, m := range c.Methods {
			decl.Methods = append(decl.Methods, types.MethodDecl{Name: m.Name, Params: m.Params, Returns: m.Returns})
		}
		decls = append(decls, decl)
	}
	return decls
}

func (e expectYAML) toExpectation(registry *types.Registry) (Expectation, error) {
	out := Expectation{Type: e.Type, Message: e.Message}
	if e.Type != "" {
		if _, ok := registry.Lookup(e.Type); !ok {
			return out, fmt.Errorf("expected type %s is unknown", e.Type)
		}
	}
	switch typechecker.ErrorKind(e.Error) {
	case "", typechecker.ErrorNone:
		out.Error = typechecker.ErrorNone
	case typechecker.ErrorNoSuchMethod, typechecker.ErrorJavaTypeError:
		out.Error = typechecker.ErrorKind(e.Error)
	default:
		return out, fmt.Errorf("unknown expected error %q (use %s or %s)", e.Error, typechecker.ErrorNoSuchMethod, typechecker.ErrorJavaTypeError)
	}
	if out.Error != typechecker.ErrorNone && out.Type != "" {
		return out, fmt.Errorf("expect cannot name both a type and an error")
	}
	return out, nil
}
