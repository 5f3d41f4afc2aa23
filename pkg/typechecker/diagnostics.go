package typechecker

import "javacheck/pkg/ast"

// Diagnostic records the first violation found in one root expression.
type Diagnostic struct {
	Index   int
	Message string
	Node    ast.Expression
	Kind    ErrorKind
	Err     error
}

// CheckAll checks each root independently and returns one diagnostic per
// failing root, in input order.
func (c *Checker) CheckAll(roots []ast.Expression) []Diagnostic {
	var diags []Diagnostic
	for i, root := range roots {
		if err := c.CheckTypes(root); err != nil {
			diags = append(diags, Diagnostic{
				Index:   i,
				Message: err.Error(),
				Node:    root,
				Kind:    KindOf(err),
				Err:     err,
			})
		}
	}
	return diags
}
