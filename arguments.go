package graphql

import (
	"strconv"

	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/errors"
	"github.com/unrotten/graphql/system"
)

// coerceArgumentValues coerces a field or directive's argument list
// against its declared Argument map, substituting request variables and
// applying declared defaults for arguments the request omitted.
func coerceArgumentValues(args map[string]*system.Argument, provided []*ast.Argument, variables map[string]interface{}) (map[string]interface{}, *errors.GraphQLError) {
	byName := make(map[string]*ast.Argument, len(provided))
	for _, a := range provided {
		byName[a.Name.Name] = a
	}

	result := make(map[string]interface{}, len(args))
	for name, arg := range args {
		provided, present := byName[name]
		if !present {
			if arg.DefaultValue != nil {
				result[name] = arg.DefaultValue
			} else if _, isNonNull := arg.Type.(*system.NonNull); isNonNull {
				return nil, errors.New("Argument %q of required type %q was not provided.", name, arg.Type.String())
			}
			continue
		}

		value, ok := resolveArgumentValue(provided.Value, variables)
		if !ok {
			if arg.DefaultValue != nil {
				result[name] = arg.DefaultValue
				continue
			}
			if _, isNonNull := arg.Type.(*system.NonNull); isNonNull {
				return nil, errors.New("Argument %q of required type %q was not provided.", name, arg.Type.String()).At(provided.Loc)
			}
			continue
		}

		coerced, err := system.CoerceValue(value, arg.Type)
		if err != nil {
			return nil, errors.New("Argument %q got invalid value: %s", name, err).At(provided.Loc)
		}
		result[name] = coerced
	}
	return result, nil
}

// resolveArgumentValue substitutes a variable reference with its already-
// coerced request value and otherwise reduces an ast.Value literal to a
// plain Go value. The bool result is false when a variable reference has
// no bound value at all (distinct from a variable explicitly bound to
// null).
func resolveArgumentValue(v ast.Value, variables map[string]interface{}) (interface{}, bool) {
	if variable, ok := v.(*ast.Variable); ok {
		val, bound := variables[variable.Name.Name]
		return val, bound
	}
	if _, ok := v.(*ast.NullValue); ok {
		return nil, true
	}
	return literalValue(v, variables)
}

// literalValue mirrors system.CoerceLiteral's literal-reduction step as an
// unexported copy in this package, because the executor needs
// the reduced value before it knows the argument's exact wrapped type —
// CoerceValue is applied by the caller once the value is in hand.
func literalValue(v ast.Value, variables map[string]interface{}) (interface{}, bool) {
	switch v := v.(type) {
	case *ast.Variable:
		return resolveArgumentValue(v, variables)
	case *ast.IntValue:
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case *ast.FloatValue:
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case *ast.StringValue, *ast.BooleanValue, *ast.EnumValue:
		return v.GetValue(), true
	case *ast.NullValue:
		return nil, true
	case *ast.ListValue:
		out := make([]interface{}, 0, len(v.Values))
		for _, item := range v.Values {
			val, ok := resolveArgumentValue(item, variables)
			if !ok {
				return nil, false
			}
			out = append(out, val)
		}
		return out, true
	case *ast.ObjectValue:
		out := make(map[string]interface{}, len(v.Fields))
		for _, f := range v.Fields {
			val, ok := resolveArgumentValue(f.Value, variables)
			if !ok {
				return nil, false
			}
			out[f.Name.Name] = val
		}
		return out, true
	default:
		return nil, false
	}
}
