package graphql

import (
	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/errors"
	"github.com/unrotten/graphql/system"
)

// coerceVariableValues resolves an operation's declared $variables against
// the caller-supplied raw map, applying declared defaults and rejecting a
// missing value for a non-null variable with no default — spec.md's
// variable coercion step, run once per request before execution starts.
func coerceVariableValues(registry *system.Registry, defs []*ast.VariableDefinition, raw map[string]interface{}) (map[string]interface{}, *errors.GraphQLError) {
	values := make(map[string]interface{}, len(defs))
	for _, def := range defs {
		name := def.Var.Name.Name
		typ, err := resolveVariableType(registry, def.Type)
		if err != nil {
			return nil, errors.New("Variable %q: %s", "$"+name, err).At(def.Loc)
		}

		rawValue, present := raw[name]
		if !present {
			if def.DefaultValue != nil {
				coerced, derr := system.CoerceLiteral(def.DefaultValue, typ)
				if derr != nil {
					return nil, errors.New("Variable %q default value: %s", "$"+name, derr).At(def.Loc)
				}
				values[name] = coerced
				continue
			}
			if _, isNonNull := typ.(*system.NonNull); isNonNull {
				return nil, errors.New("Variable %q of required type %q was not provided.", "$"+name, typ.String()).At(def.Loc)
			}
			continue
		}

		coerced, cerr := system.CoerceValue(rawValue, typ)
		if cerr != nil {
			return nil, errors.New("Variable %q got invalid value. %s", "$"+name, cerr).At(def.Loc)
		}
		values[name] = coerced
	}
	return values, nil
}

// resolveVariableType resolves an ast.Type reference (Named/List/NonNull)
// against the registry's built NamedType catalog.
func resolveVariableType(registry *system.Registry, t ast.Type) (system.Type, error) {
	switch t := t.(type) {
	case *ast.Named:
		named := registry.Lookup(t.Name.Name)
		if named == nil {
			return nil, unknownTypeError(t.Name.Name)
		}
		if _, ok := named.(*system.Placeholder); ok {
			return nil, unknownTypeError(t.Name.Name)
		}
		return named, nil
	case *ast.List:
		inner, err := resolveVariableType(registry, t.Type)
		if err != nil {
			return nil, err
		}
		return &system.List{Type: inner}, nil
	case *ast.NonNull:
		inner, err := resolveVariableType(registry, t.Type)
		if err != nil {
			return nil, err
		}
		return &system.NonNull{Type: inner}, nil
	default:
		return nil, unknownTypeError(t.String())
	}
}

func unknownTypeError(name string) error {
	return errors.New("Unknown type %q.", name)
}
