package graphql

import (
	"fmt"

	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/errors"
)

// selectOperation resolves which operation in doc to run (picking the
// lone operation when operationName is empty, per spec.md's lone
// anonymous operation rule) and collects every fragment definition in
// doc, keyed by name, for later expansion.
func selectOperation(doc *ast.Document, operationName string) (*ast.OperationDefinition, map[string]*ast.FragmentDefinition, *errors.GraphQLError) {
	fragments := map[string]*ast.FragmentDefinition{}
	var ops []*ast.OperationDefinition
	for _, def := range doc.Definitions {
		switch def := def.(type) {
		case *ast.FragmentDefinition:
			fragments[def.Name.Name] = def
		case *ast.OperationDefinition:
			ops = append(ops, def)
		}
	}

	var op *ast.OperationDefinition
	if operationName == "" {
		if len(ops) != 1 {
			return nil, nil, errors.New("Must provide operation name if query contains multiple operations.")
		}
		op = ops[0]
	} else {
		for _, candidate := range ops {
			if candidate.Name != nil && candidate.Name.Name == operationName {
				op = candidate
				break
			}
		}
		if op == nil {
			return nil, nil, errors.New("Unknown operation named %q.", operationName)
		}
	}

	return op, fragments, nil
}

// flattenSelections walks selectionSet, expanding fragment spreads and
// inline fragments whose type condition matches typeName (or has no type
// condition), dropping selections skipped by @skip/@include, and merging
// same-response-key fields together. fragments is keyed by name; visiting
// tracks fragment names currently being expanded to guard against a
// spread cycle slipping past validation.
func flattenSelections(selectionSet *ast.SelectionSet, typeName string, fragments map[string]*ast.FragmentDefinition, variables map[string]interface{}, visiting map[string]bool) ([]*ast.Field, error) {
	var order []string
	byKey := map[string][]*ast.Field{}

	var walk func(set *ast.SelectionSet) error
	walk = func(set *ast.SelectionSet) error {
		for _, sel := range set.Selections {
			switch sel := sel.(type) {
			case *ast.Field:
				if !directivesInclude(sel.Directives, variables) {
					continue
				}
				key := sel.ResponseKey()
				if _, ok := byKey[key]; !ok {
					order = append(order, key)
				}
				byKey[key] = append(byKey[key], sel)
			case *ast.FragmentSpread:
				if !directivesInclude(sel.Directives, variables) {
					continue
				}
				frag, ok := fragments[sel.Name.Name]
				if !ok {
					return fmt.Errorf("unknown fragment %q", sel.Name.Name)
				}
				if frag.TypeCondition.Name.Name != typeName {
					continue
				}
				if visiting[frag.Name.Name] {
					return fmt.Errorf("fragment %q spreads itself", frag.Name.Name)
				}
				visiting[frag.Name.Name] = true
				if err := walk(frag.SelectionSet); err != nil {
					return err
				}
				visiting[frag.Name.Name] = false
			case *ast.InlineFragment:
				if !directivesInclude(sel.Directives, variables) {
					continue
				}
				if sel.TypeCondition != nil && sel.TypeCondition.Name.Name != typeName {
					continue
				}
				if err := walk(sel.SelectionSet); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(selectionSet); err != nil {
		return nil, err
	}

	fields := make([]*ast.Field, 0, len(order))
	for _, key := range order {
		group := byKey[key]
		merged := group[0]
		if len(group) > 1 {
			merged = mergeFields(group)
		}
		fields = append(fields, merged)
	}
	return fields, nil
}

// mergeFields combines the sub-selection sets of every field in group
// (which all share a response key) into one synthetic Field. The
// validator does not check that the grouped fields can be merged: the
// first field's name, arguments and directives are kept and the others'
// are dropped.
func mergeFields(group []*ast.Field) *ast.Field {
	first := group[0]
	if first.SelectionSet == nil {
		return first
	}
	merged := &ast.SelectionSet{Loc: first.SelectionSet.Loc}
	for _, f := range group {
		if f.SelectionSet != nil {
			merged.Selections = append(merged.Selections, f.SelectionSet.Selections...)
		}
	}
	return &ast.Field{
		Alias:        first.Alias,
		Name:         first.Name,
		Arguments:    first.Arguments,
		Directives:   first.Directives,
		SelectionSet: merged,
		Loc:          first.Loc,
	}
}

// directivesInclude evaluates the fixed @skip/@include semantics: a
// selection is excluded if any @skip has if=true, or any @include has
// if=false. Any other directive present is ignored.
func directivesInclude(directives []*ast.Directive, variables map[string]interface{}) bool {
	for _, d := range directives {
		switch d.Name.Name {
		case "skip":
			if directiveIfArg(d, variables) {
				return false
			}
		case "include":
			if !directiveIfArg(d, variables) {
				return false
			}
		}
	}
	return true
}

func directiveIfArg(d *ast.Directive, variables map[string]interface{}) bool {
	for _, arg := range d.Arguments {
		if arg.Name.Name != "if" {
			continue
		}
		if v, ok := arg.Value.(*ast.Variable); ok {
			if b, ok := variables[v.Name.Name].(bool); ok {
				return b
			}
			return false
		}
		if b, ok := arg.Value.(*ast.BooleanValue); ok {
			return b.Value
		}
	}
	return false
}
