// Package validation implements the fixed set of document-validation
// rules a request must pass before the executor ever sees it: every name
// used (type, field, argument, fragment, directive, variable) resolves
// against the schema, every fragment is reachable and acyclic, every
// value literal is of the type its position expects, and a handful of
// uniqueness constraints hold. A document that fails any rule here never
// executes; the caller gets back every violation found, not just the
// first.
package validation

import (
	"fmt"
	"strings"

	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/errors"
	"github.com/unrotten/graphql/system"
)

// context carries the schema registry and the error list every rule
// check appends to. Unlike the executor, a rule violation never stops
// the pass early: Validate always walks the whole document so a caller
// sees every mistake at once.
type context struct {
	registry *system.Registry
	errs     errors.MultiError
}

func (c *context) addErr(loc errors.Location, rule, format string, a ...interface{}) {
	c.addErrMultiLoc([]errors.Location{loc}, rule, format, a...)
}

func (c *context) addErrMultiLoc(locs []errors.Location, rule, format string, a ...interface{}) {
	c.errs.Add(&errors.GraphQLError{
		Message:   fmt.Sprintf(format, a...),
		Locations: locs,
		Rule:      rule,
	})
}

// Validate runs the fixed rule suite against doc. queryType and
// mutationType are the schema's root Object types (mutationType may be
// nil for a schema with no mutations); registry is the full type
// catalog every name in doc is checked against.
func Validate(registry *system.Registry, queryType, mutationType *system.Object, doc *ast.Document) errors.MultiError {
	c := &context{registry: registry}

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

	validateOperationNamesAndAnonymity(c, ops)

	usedFragments := map[string]bool{}
	for _, op := range ops {
		root := queryType
		if op.Operation == ast.Mutation {
			if mutationType == nil {
				c.addErr(op.Loc, "MutationRootExists", "Schema is not configured for mutations.")
				continue
			}
			root = mutationType
		}

		varDefs := map[string]*ast.VariableDefinition{}
		varNames := nameSet{}
		usedVars := map[string]bool{}
		for _, v := range op.Vars {
			validateName(c, varNames, v.Var.Name, "UniqueVariableNames", "variable")
			varDefs[v.Var.Name.Name] = v

			typ, err := resolveASTType(registry, v.Type)
			if err != nil {
				c.addErr(v.Loc, "KnownTypeNames", "%s", err)
				continue
			}
			if !isInputType(typ) {
				c.addErr(v.Loc, "VariablesAreInputTypes", "Variable %q cannot be non-input type %q.", "$"+v.Var.Name.Name, v.Type.String())
			}
			if v.DefaultValue != nil {
				if _, err := system.CoerceLiteral(v.DefaultValue, typ); err != nil {
					c.addErr(v.DefaultValue.Location(), "DefaultValuesOfCorrectType", "Variable %q has invalid default value: %s", "$"+v.Var.Name.Name, err)
				}
			}
		}

		validateSelectionSet(c, op.SelectionSet, root, fragments, varDefs, usedVars, usedFragments, map[string]bool{}, 1)

		for name, def := range varDefs {
			if !usedVars[name] {
				suffix := ""
				if op.Name != nil {
					suffix = fmt.Sprintf(" in operation %q", op.Name.Name)
				}
				c.addErr(def.Loc, "NoUnusedVariables", "Variable %q is never used%s.", "$"+name, suffix)
			}
		}
	}

	fragNames := nameSet{}
	for _, frag := range fragments {
		validateName(c, fragNames, frag.Name, "UniqueFragmentNames", "fragment")

		t := registry.Lookup(frag.TypeCondition.Name.Name)
		if t == nil || isPlaceholder(t) {
			c.addErr(frag.TypeCondition.Loc, "KnownTypeNames", "Unknown type %q.", frag.TypeCondition.Name.Name)
			continue
		}
		if !isComposite(t) {
			c.addErr(frag.TypeCondition.Loc, "FragmentsOnCompositeTypes", "Fragment %q cannot condition on non composite type %q.", frag.Name.Name, t.TypeName())
			continue
		}

		detectFragmentCycle(c, frag, fragments, map[string]bool{frag.Name.Name: true}, nil)
	}

	for name, frag := range fragments {
		if !usedFragments[name] {
			c.addErr(frag.Loc, "NoUnusedFragments", "Fragment %q is never used.", name)
		}
	}

	return c.errs
}

func validateOperationNamesAndAnonymity(c *context, ops []*ast.OperationDefinition) {
	names := nameSet{}
	for _, op := range ops {
		if op.Name != nil {
			validateName(c, names, op.Name, "UniqueOperationNames", "operation")
		}
		if op.Name == nil && len(ops) > 1 {
			c.addErr(op.Loc, "LoneAnonymousOperation", "This anonymous operation must be the only defined operation.")
		}
	}
}

// nameSet tracks the first location a name was seen at, so a second use
// can point at both occurrences.
type nameSet map[string]errors.Location

func validateName(c *context, set nameSet, name *ast.Name, rule, kind string) {
	if loc, ok := set[name.Name]; ok {
		c.addErrMultiLoc([]errors.Location{loc, name.Loc}, rule, "There can be only one %s named %q.", kind, name.Name)
		return
	}
	set[name.Name] = name.Loc
}

// validateSelectionSet walks one selection set under parentType, checking
// every field, fragment spread and inline fragment it contains, and
// recording which variables and fragments were actually reached along
// the way. visiting guards a named fragment against spreading itself,
// directly or through another fragment.
func validateSelectionSet(
	c *context,
	sels *ast.SelectionSet,
	parentType system.NamedType,
	fragments map[string]*ast.FragmentDefinition,
	varDefs map[string]*ast.VariableDefinition,
	usedVars map[string]bool,
	usedFragments map[string]bool,
	visiting map[string]bool,
	depth int,
) {
	if sels == nil {
		return
	}

	fieldNames := nameSet{}
	for _, sel := range sels.Selections {
		switch sel := sel.(type) {
		case *ast.Field:
			validateDirectives(c, "FIELD", sel.Directives, varDefs, usedVars)
			validateField(c, sel, parentType, fragments, varDefs, usedVars, usedFragments, visiting, depth, fieldNames)
		case *ast.FragmentSpread:
			validateDirectives(c, "FRAGMENT_SPREAD", sel.Directives, varDefs, usedVars)
			frag, ok := fragments[sel.Name.Name]
			if !ok {
				c.addErr(sel.Name.Loc, "KnownFragmentNames", "Unknown fragment %q.", sel.Name.Name)
				continue
			}
			usedFragments[sel.Name.Name] = true
			if visiting[sel.Name.Name] {
				// NoFragmentCycles already reports this; executing the
				// spread here would recurse forever.
				continue
			}
			fragType := c.registry.Lookup(frag.TypeCondition.Name.Name)
			if fragType != nil && parentType != nil && !typesOverlap(fragType, parentType) {
				c.addErr(sel.Loc, "PossibleFragmentSpreads", "Fragment %q cannot be spread here as objects of type %q can never be of type %q.", sel.Name.Name, parentType.TypeName(), fragType.TypeName())
				continue
			}
			visiting[sel.Name.Name] = true
			validateSelectionSet(c, frag.SelectionSet, fragType, fragments, varDefs, usedVars, usedFragments, visiting, depth+1)
			visiting[sel.Name.Name] = false
		case *ast.InlineFragment:
			validateDirectives(c, "INLINE_FRAGMENT", sel.Directives, varDefs, usedVars)
			condType := parentType
			if sel.TypeCondition != nil {
				t := c.registry.Lookup(sel.TypeCondition.Name.Name)
				if t == nil || isPlaceholder(t) {
					c.addErr(sel.TypeCondition.Loc, "KnownTypeNames", "Unknown type %q.", sel.TypeCondition.Name.Name)
					continue
				}
				if !isComposite(t) {
					c.addErr(sel.TypeCondition.Loc, "FragmentsOnCompositeTypes", "Fragment cannot condition on non composite type %q.", t.TypeName())
					continue
				}
				if parentType != nil && !typesOverlap(t, parentType) {
					c.addErr(sel.TypeCondition.Loc, "PossibleFragmentSpreads", "Fragment cannot be spread here as objects of type %q can never be of type %q.", parentType.TypeName(), t.TypeName())
					continue
				}
				condType = t
			}
			validateSelectionSet(c, sel.SelectionSet, condType, fragments, varDefs, usedVars, usedFragments, visiting, depth+1)
		}
	}
}

func validateField(
	c *context,
	field *ast.Field,
	parentType system.NamedType,
	fragments map[string]*ast.FragmentDefinition,
	varDefs map[string]*ast.VariableDefinition,
	usedVars map[string]bool,
	usedFragments map[string]bool,
	visiting map[string]bool,
	depth int,
	fieldNames nameSet,
) {
	key := field.ResponseKey()
	if _, ok := fieldNames[key]; !ok {
		// A later occurrence under the same response key is left to
		// mergeFields at execution time; rejecting it outright would
		// also reject the common, legitimate case of the same field
		// selected twice with different directives.
		fieldNames[key] = field.Name.Loc
	}

	fieldName := field.Name.Name
	if fieldName == "__typename" {
		validateArguments(c, field.Name.Loc, nil, field.Arguments, varDefs, usedVars, "field", fieldName)
	} else if parentType != nil {
		def, ok := fieldsOf(parentType)[fieldName]
		if !ok {
			c.addErr(field.Name.Loc, "FieldsOnCorrectType", "Cannot query field %q on type %q.", fieldName, parentType.TypeName())
		} else {
			validateArguments(c, field.Name.Loc, def.Args, field.Arguments, varDefs, usedVars, "field", fieldName)

			fieldType := def.Type
			leaf := isLeafType(fieldType)
			if leaf && field.SelectionSet != nil {
				c.addErr(field.SelectionSet.Loc, "ScalarLeafs", "Field %q must not have a selection since type %q has no subfields.", fieldName, fieldType.String())
			}
			if !leaf && field.SelectionSet == nil {
				c.addErr(field.Name.Loc, "ScalarLeafs", "Field %q of type %q must have a selection of subfields.", fieldName, fieldType.String())
			}
			if !leaf && field.SelectionSet != nil {
				next := namedOf(fieldType)
				validateSelectionSet(c, field.SelectionSet, next, fragments, varDefs, usedVars, usedFragments, visiting, depth+1)
			}
		}
	}
}

// validateDirectives checks every directive attached to one location:
// its name is one of the two this module gives meaning to, and it
// appears at most once per location.
func validateDirectives(c *context, location string, directives []*ast.Directive, varDefs map[string]*ast.VariableDefinition, usedVars map[string]bool) {
	seen := map[string]errors.Location{}
	for _, d := range directives {
		if loc, ok := seen[d.Name.Name]; ok {
			c.addErrMultiLoc([]errors.Location{loc, d.Name.Loc}, "UniqueDirectivesPerLocation", "The directive %q can only be used once at this location.", d.Name.Name)
		} else {
			seen[d.Name.Name] = d.Name.Loc
		}

		switch d.Name.Name {
		case "skip", "include":
			if arg := findArgument(d.Arguments, "if"); arg != nil {
				boolType := c.registry.Lookup("Boolean")
				checkArgumentValue(c, arg.Value, &system.NonNull{Type: boolType}, varDefs, usedVars, "if")
			} else {
				c.addErr(d.Name.Loc, "ProvidedRequiredArguments", "Directive %q argument %q of type \"Boolean!\" is required but not provided.", d.Name.Name, "if")
			}
		default:
			c.addErr(d.Name.Loc, "KnownDirectives", "Unknown directive %q.", d.Name.Name)
		}
	}
}

func findArgument(args []*ast.Argument, name string) *ast.Argument {
	for _, a := range args {
		if a.Name.Name == name {
			return a
		}
	}
	return nil
}

// validateArguments checks a field or directive's provided arguments
// against its declared signature: every name is known, every value is
// of the right type, and every required argument is present. decls is
// nil for `__typename`, which takes none.
func validateArguments(
	c *context,
	ownerLoc errors.Location,
	decls map[string]*system.Argument,
	provided []*ast.Argument,
	varDefs map[string]*ast.VariableDefinition,
	usedVars map[string]bool,
	ownerKind, ownerName string,
) {
	seen := nameSet{}
	for _, arg := range provided {
		validateName(c, seen, arg.Name, "UniqueArgumentNames", "argument")

		decl, ok := decls[arg.Name.Name]
		if !ok {
			c.addErr(arg.Name.Loc, "KnownArgumentNames", "Unknown argument %q on %s %q.", arg.Name.Name, ownerKind, ownerName)
			continue
		}
		checkArgumentValue(c, arg.Value, decl.Type, varDefs, usedVars, arg.Name.Name)
	}

	for name, decl := range decls {
		if _, isNonNull := decl.Type.(*system.NonNull); !isNonNull || decl.DefaultValue != nil {
			continue
		}
		if findArgument(provided, name) == nil {
			c.addErr(ownerLoc, "ProvidedRequiredArguments", "%s %q argument %q of type %q is required but not provided.", strings.Title(ownerKind), ownerName, name, decl.Type.String())
		}
	}
}

// checkArgumentValue validates one argument/directive value literal: a
// variable reference is checked for declared-type compatibility with the
// expected type (marking the variable used), anything else is coerced
// against the expected type to surface a ValuesOfCorrectType mismatch.
// argName is the argument's own name (not its owning field/directive),
// since that's what the pinned ValuesOfCorrectType wording names.
func checkArgumentValue(c *context, v ast.Value, expected system.Type, varDefs map[string]*ast.VariableDefinition, usedVars map[string]bool, argName string) {
	if variable, ok := v.(*ast.Variable); ok {
		usedVars[variable.Name.Name] = true
		def, ok := varDefs[variable.Name.Name]
		if !ok {
			c.addErr(variable.Loc, "NoUndefinedVariables", "Variable %q is not defined.", "$"+variable.Name.Name)
			return
		}
		if vtyp, err := resolveASTType(c.registry, def.Type); err == nil {
			if !variableSatisfies(vtyp, expected, def.DefaultValue != nil) {
				c.addErr(variable.Loc, "VariablesInAllowedPosition", "Variable %q of type %q used in position expecting type %q.", "$"+variable.Name.Name, vtyp.String(), expected.String())
			}
		}
		return
	}
	if _, ok := v.(*ast.NullValue); ok {
		if _, isNonNull := expected.(*system.NonNull); isNonNull {
			c.addErr(v.Location(), "ValuesOfCorrectType", "Expected value of type %q, found null.", expected.String())
		}
		return
	}
	if _, err := system.CoerceLiteral(v, expected); err != nil {
		c.addErr(v.Location(), "ValuesOfCorrectType", "Invalid value for argument %q, expected type %q", argName, expected.String())
	}
}

// variableSatisfies reports whether a variable declared as vtyp may be
// used where expected is required: the wrapped named types must match,
// and a nullable variable is only allowed in a non-null position when
// the variable's own definition declares a default value.
func variableSatisfies(vtyp, expected system.Type, hasDefault bool) bool {
	if nn, ok := expected.(*system.NonNull); ok {
		if vnn, ok := vtyp.(*system.NonNull); ok {
			return variableSatisfies(vnn.Type, nn.Type, hasDefault)
		}
		return hasDefault && variableSatisfies(vtyp, nn.Type, hasDefault)
	}
	if vnn, ok := vtyp.(*system.NonNull); ok {
		return variableSatisfies(vnn.Type, expected, hasDefault)
	}
	vl, vIsList := vtyp.(*system.List)
	el, eIsList := expected.(*system.List)
	if vIsList != eIsList {
		return false
	}
	if vIsList {
		return variableSatisfies(vl.Type, el.Type, hasDefault)
	}
	vn, vok := vtyp.(system.NamedType)
	en, eok := expected.(system.NamedType)
	return vok && eok && vn.TypeName() == en.TypeName()
}

func detectFragmentCycle(c *context, frag *ast.FragmentDefinition, fragments map[string]*ast.FragmentDefinition, visited map[string]bool, path []string) {
	var walk func(sels *ast.SelectionSet, path []string)
	walk = func(sels *ast.SelectionSet, path []string) {
		if sels == nil {
			return
		}
		for _, sel := range sels.Selections {
			switch sel := sel.(type) {
			case *ast.Field:
				walk(sel.SelectionSet, path)
			case *ast.InlineFragment:
				walk(sel.SelectionSet, path)
			case *ast.FragmentSpread:
				if sel.Name.Name == frag.Name.Name {
					via := ""
					if len(path) > 0 {
						via = fmt.Sprintf(" via %s", strings.Join(path, ", "))
					}
					c.addErr(sel.Loc, "NoFragmentCycles", "Cannot spread fragment %q within itself%s.", frag.Name.Name, via)
					continue
				}
				if visited[sel.Name.Name] {
					continue
				}
				next, ok := fragments[sel.Name.Name]
				if !ok {
					continue
				}
				visited[sel.Name.Name] = true
				walk(next.SelectionSet, append(path, sel.Name.Name))
			}
		}
	}
	walk(frag.SelectionSet, path)
}

func resolveASTType(registry *system.Registry, t ast.Type) (system.Type, error) {
	switch t := t.(type) {
	case *ast.Named:
		named := registry.Lookup(t.Name.Name)
		if named == nil || isPlaceholder(named) {
			return nil, fmt.Errorf("Unknown type %q.", t.Name.Name)
		}
		return named, nil
	case *ast.List:
		inner, err := resolveASTType(registry, t.Type)
		if err != nil {
			return nil, err
		}
		return &system.List{Type: inner}, nil
	case *ast.NonNull:
		inner, err := resolveASTType(registry, t.Type)
		if err != nil {
			return nil, err
		}
		return &system.NonNull{Type: inner}, nil
	default:
		return nil, fmt.Errorf("unknown type reference %q", t.String())
	}
}

func isPlaceholder(t system.NamedType) bool {
	_, ok := t.(*system.Placeholder)
	return ok
}

func isInputType(t system.Type) bool {
	switch t := t.(type) {
	case *system.NonNull:
		return isInputType(t.Type)
	case *system.List:
		return isInputType(t.Type)
	case *system.Scalar, *system.Enum, *system.InputObject:
		return true
	default:
		return false
	}
}

func isComposite(t system.NamedType) bool {
	switch t.(type) {
	case *system.Object, *system.Interface, *system.Union:
		return true
	default:
		return false
	}
}

// isLeafType reports whether typ, unwrapped to its named core, is a
// Scalar or Enum, the only two kinds that never carry a sub-selection.
func isLeafType(typ system.Type) bool {
	switch unwrap(typ).(type) {
	case *system.Scalar, *system.Enum:
		return true
	default:
		return false
	}
}

func namedOf(typ system.Type) system.NamedType {
	named, _ := unwrap(typ).(system.NamedType)
	return named
}

func unwrap(typ system.Type) system.Type {
	for {
		typ = system.Resolved(typ)
		switch t := typ.(type) {
		case *system.NonNull:
			typ = t.Type
		case *system.List:
			typ = t.Type
		default:
			return typ
		}
	}
}

// fieldsOf returns the selectable field map of a composite type: an
// Object's or Interface's own fields, or nil for a Union, which exposes
// no fields of its own beyond __typename (handled separately by
// validateField).
func fieldsOf(t system.NamedType) map[string]*system.Field {
	switch t := t.(type) {
	case *system.Object:
		return t.Fields
	case *system.Interface:
		return t.Fields
	default:
		return nil
	}
}

// typesOverlap reports whether a value could ever be simultaneously of
// type a and type b, the compatibility check a fragment spread or
// inline fragment's type condition must satisfy against the type it is
// spread into.
func typesOverlap(a, b system.NamedType) bool {
	if a.TypeName() == b.TypeName() {
		return true
	}
	as := possibleTypeNames(a)
	bs := possibleTypeNames(b)
	for name := range as {
		if bs[name] {
			return true
		}
	}
	return false
}

func possibleTypeNames(t system.NamedType) map[string]bool {
	out := map[string]bool{}
	switch t := t.(type) {
	case *system.Object:
		out[t.Name] = true
	case *system.Interface:
		for name := range t.PossibleTypes {
			out[name] = true
		}
	case *system.Union:
		for name := range t.Types {
			out[name] = true
		}
	}
	return out
}
