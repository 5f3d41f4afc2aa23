package driver

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"javacheck/pkg/ast"
	"javacheck/pkg/typechecker"
	"javacheck/pkg/types"
)

// exprDecoder turns the YAML form of an expression into an ast tree:
//
//	{var: d}                                   variable bound in `variables`
//	{var: d, type: Dog}                        variable with an inline type
//	{literal: "5", type: int}                  literal
//	null  or  {null: true}                     null literal
//	{call: {receiver: E, method: m, args: [E]}}
//	{new: {type: Dog, args: [E]}}
//
// Aliases may reuse an anchored expression but never one that encloses them.
type exprDecoder struct {
	registry *types.Registry
	env      *typechecker.Environment

	active  map[*yaml.Node]bool
	decoded int
}

// maxExprNodes bounds one case's expression after alias expansion.
const maxExprNodes = 10000

func newExprDecoder(registry *types.Registry, env *typechecker.Environment) *exprDecoder {
	return &exprDecoder{registry: registry, env: env, active: make(map[*yaml.Node]bool)}
}

var exprForms = map[string][]string{
	"var":     {"var", "type"},
	"literal": {"literal", "type"},
	"null":    {"null"},
	"call":    {"call"},
	"new":     {"new"},
}

var formNames = sortedKeys(exprForms)

func (d *exprDecoder) errorf(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", node.Line, fmt.Sprintf(format, args...))
}

func (d *exprDecoder) decode(node *yaml.Node) (ast.Expression, error) {
	if node == nil || node.Kind == 0 {
		return nil, fmt.Errorf("missing expression")
	}
	if node.Kind == yaml.AliasNode {
		if d.active[node.Alias] {
			return nil, d.errorf(node, "recursive alias *%s", node.Value)
		}
		return d.decode(node.Alias)
	}
	if d.active[node] {
		return nil, d.errorf(node, "recursive alias")
	}
	d.decoded++
	if d.decoded > maxExprNodes {
		return nil, d.errorf(node, "expression exceeds %d nodes", maxExprNodes)
	}
	d.active[node] = true
	defer delete(d.active, node)

	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return ast.NewNullLiteral(), nil
		}
		return nil, d.errorf(node, "expression must be a mapping or null, got %q", node.Value)
	case yaml.MappingNode:
	default:
		return nil, d.errorf(node, "expression must be a mapping or null")
	}

	fields, err := d.mapping(node)
	if err != nil {
		return nil, err
	}
	form := ""
	for _, name := range formNames {
		if _, ok := fields[name]; ok {
			if form != "" {
				return nil, d.errorf(node, "expression mixes %s", joinSorted(form, name))
			}
			form = name
		}
	}
	if form == "" {
		return nil, d.errorf(node, "expression needs one of %s", strings.Join(formNames, ", "))
	}
	if err := d.allowOnly(node, fields, exprForms[form]...); err != nil {
		return nil, err
	}

	switch form {
	case "var":
		return d.decodeVariable(fields)
	case "literal":
		typ, err := d.requireType(node, fields["type"])
		if err != nil {
			return nil, err
		}
		value, err := d.scalar(fields["literal"])
		if err != nil {
			return nil, err
		}
		return ast.NewLiteral(value, typ), nil
	case "null":
		var flag bool
		if err := fields["null"].Decode(&flag); err != nil || !flag {
			return nil, d.errorf(fields["null"], "null must be true")
		}
		return ast.NewNullLiteral(), nil
	case "call":
		return d.decodeCall(fields["call"])
	default:
		return d.decodeNew(fields["new"])
	}
}

func (d *exprDecoder) decodeVariable(fields map[string]*yaml.Node) (ast.Expression, error) {
	name, err := d.scalar(fields["var"])
	if err != nil {
		return nil, err
	}
	if typeNode, ok := fields["type"]; ok {
		typ, err := d.requireType(fields["var"], typeNode)
		if err != nil {
			return nil, err
		}
		return ast.NewVariable(name, typ), nil
	}
	v, err := d.env.Variable(name)
	if err != nil {
		return nil, d.errorf(fields["var"], "%v", err)
	}
	return v, nil
}

func (d *exprDecoder) decodeCall(node *yaml.Node) (ast.Expression, error) {
	fields, err := d.mapping(node)
	if err != nil {
		return nil, err
	}
	if err := d.allowOnly(node, fields, "receiver", "method", "args"); err != nil {
		return nil, err
	}
	receiverNode, ok := fields["receiver"]
	if !ok {
		return nil, d.errorf(node, "call needs a receiver")
	}
	receiver, err := d.decode(receiverNode)
	if err != nil {
		return nil, err
	}
	methodNode, ok := fields["method"]
	if !ok {
		return nil, d.errorf(node, "call needs a method")
	}
	method, err := d.scalar(methodNode)
	if err != nil {
		return nil, err
	}
	args, err := d.decodeArgs(fields["args"])
	if err != nil {
		return nil, err
	}
	return ast.NewMethodCall(receiver, method, args), nil
}

func (d *exprDecoder) decodeNew(node *yaml.Node) (ast.Expression, error) {
	fields, err := d.mapping(node)
	if err != nil {
		return nil, err
	}
	if err := d.allowOnly(node, fields, "type", "args"); err != nil {
		return nil, err
	}
	typ, err := d.requireType(node, fields["type"])
	if err != nil {
		return nil, err
	}
	args, err := d.decodeArgs(fields["args"])
	if err != nil {
		return nil, err
	}
	return ast.NewConstructorCall(typ, args), nil
}

func (d *exprDecoder) decodeArgs(node *yaml.Node) ([]ast.Expression, error) {
	if node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, d.errorf(node, "args must be a list")
	}
	args := make([]ast.Expression, 0, len(node.Content))
	for _, item := range node.Content {
		arg, err := d.decode(item)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func (d *exprDecoder) requireType(owner, node *yaml.Node) (types.Type, error) {
	if node == nil {
		return nil, d.errorf(owner, "missing type")
	}
	name, err := d.scalar(node)
	if err != nil {
		return nil, err
	}
	typ, ok := d.registry.Lookup(name)
	if !ok {
		return nil, d.errorf(node, "unknown type %s", name)
	}
	return typ, nil
}

func (d *exprDecoder) scalar(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return "", d.errorf(node, "expected a scalar value")
	}
	return node.Value, nil
}

func (d *exprDecoder) mapping(node *yaml.Node) (map[string]*yaml.Node, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return nil, d.errorf(node, "expected a mapping")
	}
	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, dup := fields[key]; dup {
			return nil, d.errorf(node.Content[i], "duplicate key %q", key)
		}
		fields[key] = node.Content[i+1]
	}
	return fields, nil
}

func (d *exprDecoder) allowOnly(node *yaml.Node, fields map[string]*yaml.Node, allowed ...string) error {
	for _, key := range sortedKeys(fields) {
		ok := false
		for _, a := range allowed {
			if key == a {
				ok = true
				break
			}
		}
		if !ok {
			return d.errorf(node, "unexpected key %q (allowed: %s)", key, joinSorted(allowed...))
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func joinSorted(items ...string) string {
	sorted := append([]string{}, items...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
