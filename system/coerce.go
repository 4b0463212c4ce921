package system

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/unrotten/graphql/ast"
)

// validate is the single validator.Validate instance used to run the
// struct-tag constraints of an InputObject's StructType after coercion; a
// plain package-level variable stands in for the teacher's
// sync.Once-guarded singleton.
var validate = validator.New()

func builtinScalars() []*Scalar {
	return []*Scalar{
		intScalar(),
		floatScalar(),
		stringScalar(),
		booleanScalar(),
		idScalar(),
	}
}

func intScalar() *Scalar {
	return &Scalar{
		Name: "Int",
		Desc: "The Int scalar type represents a signed 32-bit numeric non-fractional value.",
		Serialize: func(v interface{}) (interface{}, error) {
			switch v := v.(type) {
			case int32:
				return v, nil
			case int:
				return int32(v), nil
			case int64:
				return int32(v), nil
			default:
				return nil, fmt.Errorf("cannot serialize %v as Int", v)
			}
		},
		ParseValue: func(v interface{}) (interface{}, error) {
			switch v := v.(type) {
			case int32:
				return v, nil
			case int:
				return int32(v), nil
			case int64:
				return int32(v), nil
			case float64:
				if v != float64(int32(v)) {
					return nil, fmt.Errorf("not a 32-bit integer: %v", v)
				}
				return int32(v), nil
			case string:
				i, err := strconv.ParseInt(v, 10, 32)
				if err != nil {
					return nil, fmt.Errorf("not a valid Int: %q", v)
				}
				return int32(i), nil
			default:
				return nil, fmt.Errorf("not a valid Int: %v", v)
			}
		},
	}
}

func floatScalar() *Scalar {
	return &Scalar{
		Name: "Float",
		Desc: "The Float scalar type represents signed double-precision fractional values.",
		Serialize: func(v interface{}) (interface{}, error) {
			switch v := v.(type) {
			case float64:
				return v, nil
			case float32:
				return float64(v), nil
			case int32:
				return float64(v), nil
			default:
				return nil, fmt.Errorf("cannot serialize %v as Float", v)
			}
		},
		ParseValue: func(v interface{}) (interface{}, error) {
			switch v := v.(type) {
			case float64:
				return v, nil
			case float32:
				return float64(v), nil
			case int32:
				return float64(v), nil
			case string:
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("not a valid Float: %q", v)
				}
				return f, nil
			default:
				return nil, fmt.Errorf("not a valid Float: %v", v)
			}
		},
	}
}

func stringScalar() *Scalar {
	return &Scalar{
		Name: "String",
		Desc: "The String scalar type represents textual data, represented as UTF-8 character sequences.",
		Serialize: func(v interface{}) (interface{}, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("cannot serialize %v as String", v)
			}
			return s, nil
		},
		ParseValue: func(v interface{}) (interface{}, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("not a valid String: %v", v)
			}
			return s, nil
		},
	}
}

func booleanScalar() *Scalar {
	return &Scalar{
		Name: "Boolean",
		Desc: "The Boolean scalar type represents true or false.",
		Serialize: func(v interface{}) (interface{}, error) {
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("cannot serialize %v as Boolean", v)
			}
			return b, nil
		},
		ParseValue: func(v interface{}) (interface{}, error) {
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("not a valid Boolean: %v", v)
			}
			return b, nil
		},
	}
}

func idScalar() *Scalar {
	return &Scalar{
		Name: "ID",
		Desc: "The ID scalar type represents a unique identifier, serialized as a String.",
		Serialize: func(v interface{}) (interface{}, error) {
			switch v := v.(type) {
			case string:
				return v, nil
			case int32:
				return strconv.FormatInt(int64(v), 10), nil
			default:
				return nil, fmt.Errorf("cannot serialize %v as ID", v)
			}
		},
		ParseValue: func(v interface{}) (interface{}, error) {
			switch v := v.(type) {
			case string:
				return v, nil
			case float64:
				return strconv.FormatFloat(v, 'f', -1, 64), nil
			default:
				return nil, fmt.Errorf("not a valid ID: %v", v)
			}
		},
	}
}

// literalToValue converts an ast.Value node to the plain Go value ParseValue
// expects, substituting variables and recursing into lists/objects. It does
// not know the expected schema Type; CoerceLiteral applies that afterward.
func literalToValue(v ast.Value, variables map[string]interface{}) (interface{}, bool) {
	switch v := v.(type) {
	case *ast.Variable:
		val, ok := variables[v.Name.Name]
		return val, ok
	case *ast.NullValue:
		return nil, true
	case *ast.IntValue:
		i, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(v.Value, 64)
			if ferr != nil {
				return nil, false
			}
			return f, true
		}
		return float64(i), true
	case *ast.FloatValue:
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case *ast.StringValue:
		return v.Value, true
	case *ast.BooleanValue:
		return v.Value, true
	case *ast.EnumValue:
		return v.Value, true
	case *ast.ListValue:
		var out []interface{}
		for _, item := range v.Values {
			val, ok := literalToValue(item, variables)
			if !ok {
				return nil, false
			}
			out = append(out, val)
		}
		return out, true
	case *ast.ObjectValue:
		out := make(map[string]interface{}, len(v.Fields))
		for _, f := range v.Fields {
			val, ok := literalToValue(f.Value, variables)
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

// CoerceLiteral coerces a query-literal ast.Value (or the variable it
// references) against an expected schema Type, producing the Go value the
// executor hands resolvers. A bare `null` against a NonNull type is
// returned as an error, and so is any variable reference: variables must
// be substituted before a value reaches this function.
func CoerceLiteral(v ast.Value, typ Type) (interface{}, error) {
	if variable, ok := v.(*ast.Variable); ok {
		return nil, fmt.Errorf("variable $%s must be resolved before coercion", variable.Name.Name)
	}
	if nn, ok := typ.(*NonNull); ok {
		if _, isNull := v.(*ast.NullValue); isNull {
			return nil, fmt.Errorf("expected value of type %q, found null", typ.String())
		}
		return CoerceLiteral(v, nn.Type)
	}
	if _, ok := v.(*ast.NullValue); ok {
		return nil, nil
	}

	switch resolved := Resolved(typ).(type) {
	case *Enum:
		// A literal enum argument must be an unquoted EnumValue token.
		// literalToValue reduces both StringValue and EnumValue to the
		// same Go string, which would let a quoted "RED" through here as
		// readily as the bare RED token; checking the AST node kind
		// directly keeps that rejection working while CoerceValue (the
		// path a resolved variable takes) still accepts a plain string.
		ev, ok := v.(*ast.EnumValue)
		if !ok {
			return nil, fmt.Errorf("enum %q must be an unquoted name, not %s", resolved.Name, describeValueKind(v))
		}
		for _, m := range resolved.Values {
			if m == ev.Value {
				return ev.Value, nil
			}
		}
		return nil, fmt.Errorf("%q is not a valid value for enum %q", ev.Value, resolved.Name)
	case *List:
		lv, ok := v.(*ast.ListValue)
		if !ok {
			coerced, err := CoerceLiteral(v, resolved.Type)
			if err != nil {
				return nil, err
			}
			return []interface{}{coerced}, nil
		}
		out := make([]interface{}, len(lv.Values))
		for i, item := range lv.Values {
			coerced, err := CoerceLiteral(item, resolved.Type)
			if err != nil {
				return nil, err
			}
			out[i] = coerced
		}
		return out, nil
	default:
		raw, ok := literalToValue(v, nil)
		if !ok {
			return nil, fmt.Errorf("could not read value for type %q", typ.String())
		}
		return CoerceValue(raw, typ)
	}
}

// describeValueKind names the kind of literal v is, for the enum-literal
// mismatch error.
func describeValueKind(v ast.Value) string {
	switch v.(type) {
	case *ast.StringValue:
		return "a string"
	case *ast.IntValue, *ast.FloatValue:
		return "a number"
	case *ast.BooleanValue:
		return "a boolean"
	case *ast.ListValue:
		return "a list"
	case *ast.ObjectValue:
		return "an object"
	default:
		return "that literal"
	}
}

// CoerceValue coerces a plain Go value (already unwrapped from a literal or
// supplied directly as a request variable) against an expected schema
// Type.
func CoerceValue(raw interface{}, typ Type) (interface{}, error) {
	if nn, ok := typ.(*NonNull); ok {
		if raw == nil {
			return nil, fmt.Errorf("expected value of type %q, got null", typ.String())
		}
		return CoerceValue(raw, nn.Type)
	}
	if raw == nil {
		return nil, nil
	}

	switch typ := Resolved(typ).(type) {
	case *Scalar:
		return typ.ParseValue(raw)
	case *Enum:
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("Expected %q, found not a string or enum.", typ.Name)
		}
		for _, v := range typ.Values {
			if v == name {
				return name, nil
			}
		}
		return nil, fmt.Errorf("Invalid value for enum %q.", typ.Name)
	case *List:
		slice, ok := raw.([]interface{})
		if !ok {
			coerced, err := CoerceValue(raw, typ.Type)
			if err != nil {
				return nil, err
			}
			return []interface{}{coerced}, nil
		}
		out := make([]interface{}, len(slice))
		for i, item := range slice {
			coerced, err := CoerceValue(item, typ.Type)
			if err != nil {
				return nil, err
			}
			out[i] = coerced
		}
		return out, nil
	case *InputObject:
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected input object for %q, got %v", typ.Name, raw)
		}
		return coerceInputObject(obj, typ)
	default:
		return nil, fmt.Errorf("%q is not an input type", typ.String())
	}
}

func coerceInputObject(obj map[string]interface{}, typ *InputObject) (map[string]interface{}, error) {
	for name := range obj {
		if _, ok := typ.Fields[name]; !ok {
			return nil, fmt.Errorf("unknown field %q on input object %q", name, typ.Name)
		}
	}

	out := make(map[string]interface{}, len(typ.Fields))
	for name, field := range typ.Fields {
		raw, present := obj[name]
		if !present {
			if field.DefaultValue != nil {
				out[name] = field.DefaultValue
				continue
			}
			if _, isNonNull := field.Type.(*NonNull); isNonNull {
				return nil, fmt.Errorf("field %q of input object %q is required", name, typ.Name)
			}
			continue
		}
		coerced, err := CoerceValue(raw, field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q of input object %q: %w", name, typ.Name, err)
		}
		out[name] = coerced
	}

	if typ.StructType != nil {
		if err := validateAgainstStruct(out, typ.StructType); err != nil {
			return nil, fmt.Errorf("input object %q failed validation: %w", typ.Name, err)
		}
	}
	return out, nil
}

// validateAgainstStruct round-trips the coerced field map through an
// instance of the builder's original struct type so its `validate`
// struct tags run as a constraint layer on top of the plain type checks
// coerceInputObject already performed.
func validateAgainstStruct(fields map[string]interface{}, structType reflect.Type) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	instance := reflect.New(structType)
	if err := json.Unmarshal(raw, instance.Interface()); err != nil {
		return err
	}
	return validate.Struct(instance.Interface())
}
