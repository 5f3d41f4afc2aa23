package types

import (
	"errors"
	"strings"
	"testing"
)

func buildIssues(t *testing.T, decls ...ClassDecl) []string {
	t.Helper()
	_, err := NewBuilder().Declare(decls...).Build()
	var declErr *DeclarationError
	if !errors.As(err, &declErr) {
		t.Fatalf("expected DeclarationError, got %v", err)
	}
	return declErr.Issues
}

func containsIssue(issues []string, fragment string) bool {
	for _, issue := range issues {
		if strings.Contains(issue, fragment) {
			return true
		}
	}
	return false
}

func TestBuildEmptyRegistryHasObject(t *testing.T) {
	reg, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	classes := reg.Classes()
	if len(classes) != 1 || classes[0] != Object {
		t.Fatalf("expected only Object, got %v", classes)
	}
	for _, name := range []string{"void", "int", "double", "null"} {
		typ, ok := reg.Lookup(name)
		if !ok || !IsSpecial(typ) || typ.Name() != name {
			t.Fatalf("special type %s not resolved", name)
		}
	}
	if _, ok := reg.Lookup("Missing"); ok {
		t.Fatalf("unexpected lookup hit for Missing")
	}
}

func TestBuildAllowsForwardAndSelfReferences(t *testing.T) {
	reg, err := NewBuilder().Declare(
		ClassDecl{
			Name:        "Node",
			Constructor: &ConstructorDecl{Params: []string{"Node", "Tree"}},
			Methods:     []MethodDecl{{Name: "next", Returns: "Node"}},
		},
		ClassDecl{Name: "Tree", Extends: "Forest"},
		ClassDecl{Name: "Forest"},
	).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree, _ := reg.Class("Tree")
	forest, _ := reg.Class("Forest")
	if tree.Supertype() != forest {
		t.Fatalf("Tree should extend Forest")
	}
	if forest.Supertype() != Object {
		t.Fatalf("Forest should default to extending Object")
	}
	node, _ := reg.Class("Node")
	if got := Names(node.Constructor().ArgumentTypes); got != "(Node, Tree)" {
		t.Fatalf("constructor = %s", got)
	}
	if methods := node.DeclaredMethods(); len(methods) != 1 || methods[0].ReturnType != node {
		t.Fatalf("unexpected methods %v", methods)
	}
}

func TestBuildMissingReturnMeansVoid(t *testing.T) {
	reg, err := NewBuilder().Declare(ClassDecl{Name: "A", Methods: []MethodDecl{{Name: "run"}}}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := reg.Class("A")
	sig, err := MethodNamed(a, "run")
	if err != nil || sig.ReturnType != Void {
		t.Fatalf("expected void return, got %v, %v", sig, err)
	}
}

func TestBuildRejectsInvalidDeclarations(t *testing.T) {
	cases := []struct {
		name     string
		decls    []ClassDecl
		fragment string
	}{
		{"empty name", []ClassDecl{{}}, "without a name"},
		{"reserved special", []ClassDecl{{Name: "int"}}, "class int: name is reserved"},
		{"reserved object", []ClassDecl{{Name: "Object"}}, "class Object: name is reserved"},
		{"duplicate", []ClassDecl{{Name: "A"}, {Name: "A"}}, "class A: declared more than once"},
		{"unknown superclass", []ClassDecl{{Name: "A", Extends: "B"}}, "class A: unknown superclass B"},
		{"self cycle", []ClassDecl{{Name: "A", Extends: "A"}}, "class A: inheritance cycle"},
		{"cycle", []ClassDecl{{Name: "A", Extends: "B"}, {Name: "B", Extends: "A"}}, "class B: inheritance cycle"},
		{"duplicate method", []ClassDecl{{Name: "A", Methods: []MethodDecl{{Name: "m"}, {Name: "m"}}}}, "method m declared more than once"},
		{"unknown param", []ClassDecl{{Name: "A", Methods: []MethodDecl{{Name: "m", Params: []string{"Nope"}}}}}, "A.m: parameter 0 has unknown type Nope"},
		{"void param", []ClassDecl{{Name: "A", Constructor: &ConstructorDecl{Params: []string{"void"}}}}, "A constructor: parameter 0 cannot have type void"},
		{"null return", []ClassDecl{{Name: "A", Methods: []MethodDecl{{Name: "m", Returns: "null"}}}}, "A.m: return type cannot be null"},
		{"unknown return", []ClassDecl{{Name: "A", Methods: []MethodDecl{{Name: "m", Returns: "Nope"}}}}, "A.m: unknown return type Nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := buildIssues(t, tc.decls...)
			if !containsIssue(issues, tc.fragment) {
				t.Fatalf("expected issue containing %q, got %v", tc.fragment, issues)
			}
		})
	}
}

func TestBuildReportsEveryIssue(t *testing.T) {
	issues := buildIssues(t,
		ClassDecl{Name: "A", Extends: "Missing"},
		ClassDecl{Name: "double"},
	)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %v", issues)
	}
	err := (&DeclarationError{Issues: issues}).Error()
	if !strings.HasPrefix(err, "class declarations are invalid:\n- ") {
		t.Fatalf("unexpected message %q", err)
	}
}

func TestSpecialTypesAreDistinctSingletons(t *testing.T) {
	specials := []Type{Void, Int, Double, Null}
	for i, a := range specials {
		if a.Kind() == KindClass {
			t.Fatalf("%s reports class kind", a.Name())
		}
		for j, b := range specials {
			if (i == j) != (a == b) {
				t.Fatalf("special types %s and %s identity mismatch", a.Name(), b.Name())
			}
		}
	}
	if !IsPrimitive(Int) || IsPrimitive(Null) || IsPrimitive(Object) || !IsNull(Null) || IsSpecial(Object) {
		t.Fatalf("special type predicates disagree")
	}
}
