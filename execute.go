package graphql

import (
	"context"
	"fmt"
	"reflect"
	"runtime"

	"go.uber.org/zap"

	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/errors"
	"github.com/unrotten/graphql/system"
)

// propagateNull is the internal sentinel an execution step returns once it
// has already recorded the GraphQLError responsible, signalling to its
// caller that this value must become null. executeValue is the only place
// that stops the bubble: a nullable position absorbs it (and yields a
// plain nil), a non-null position re-raises it one level further up,
// exactly mirroring the nearest-nullable-ancestor rule.
type propagateNull struct{}

func (propagateNull) Error() string { return "null propagated from a non-nullable field" }

// executor carries the per-request state threaded through one execution:
// the bound variables, the fragment definitions available for spreading,
// and the error list every field failure appends to.
type executor struct {
	variables map[string]interface{}
	fragments map[string]*ast.FragmentDefinition
	errs      errors.MultiError
	logger    *zap.Logger
}

// execute runs selectionSet against root starting from source (nil for
// the top-level Query/Mutation root), returning the ordered result object
// and the accumulated list of execution errors.
func (e *executor) execute(ctx context.Context, root *system.Object, source interface{}, selectionSet *ast.SelectionSet) (*OrderedMap, errors.MultiError) {
	result, err := e.executeObject(ctx, root, source, selectionSet, nil)
	if err != nil {
		return nil, e.errs
	}
	om, _ := result.(*OrderedMap)
	return om, e.errs
}

// executeValue resolves value against typ, stripping and re-checking a
// NonNull wrapper and dispatching to the right container executor for
// Object/Interface/Union/List, or serializing directly for Scalar/Enum.
func (e *executor) executeValue(ctx context.Context, typ system.Type, value interface{}, selectionSet *ast.SelectionSet, path []interface{}) (interface{}, error) {
	if nn, ok := typ.(*system.NonNull); ok {
		val, err := e.executeValue(ctx, nn.Type, value, selectionSet, path)
		if err != nil {
			return nil, err
		}
		if val == nil {
			e.errs.Add(errors.New("Cannot return null for non-nullable field.").WithPath(path))
			return nil, propagateNull{}
		}
		return val, nil
	}

	if value == nil {
		return nil, nil
	}

	val, err := e.dispatch(ctx, typ, value, selectionSet, path)
	if err != nil {
		if _, ok := err.(propagateNull); ok {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (e *executor) dispatch(ctx context.Context, typ system.Type, value interface{}, selectionSet *ast.SelectionSet, path []interface{}) (interface{}, error) {
	switch typ := system.Resolved(typ).(type) {
	case *system.Scalar:
		serialized, err := typ.Serialize(value)
		if err != nil {
			e.errs.Add(errors.New("%s", err.Error()).WithPath(path))
			return nil, propagateNull{}
		}
		return serialized, nil
	case *system.Enum:
		name, ok := e.enumName(typ, value)
		if !ok {
			e.errs.Add(errors.New("%q is not a valid value for enum %q.", value, typ.Name).WithPath(path))
			return nil, propagateNull{}
		}
		return name, nil
	case *system.Object:
		return e.executeObject(ctx, typ, value, selectionSet, path)
	case *system.Interface:
		return e.executeAbstract(ctx, typ.PossibleTypes, typ.ResolveType, typ.Name, value, selectionSet, path)
	case *system.Union:
		return e.executeAbstract(ctx, typ.Types, typ.ResolveType, typ.Name, value, selectionSet, path)
	case *system.List:
		return e.executeList(ctx, typ, value, selectionSet, path)
	default:
		panic(fmt.Sprintf("unsupported meta type %T", typ))
	}
}

func (e *executor) enumName(typ *system.Enum, value interface{}) (string, bool) {
	if name, ok := value.(string); ok {
		for _, v := range typ.Values {
			if v == name {
				return name, true
			}
		}
	}
	if typ.ReverseMap != nil {
		if name, ok := typ.ReverseMap[value]; ok {
			return name, true
		}
	}
	return "", false
}

func (e *executor) executeObject(ctx context.Context, typ *system.Object, source interface{}, selectionSet *ast.SelectionSet, path []interface{}) (interface{}, error) {
	fields, err := flattenSelections(selectionSet, typ.Name, e.fragments, e.variables, map[string]bool{})
	if err != nil {
		e.errs.Add(errors.New("%s", err.Error()))
		return nil, propagateNull{}
	}

	out := NewOrderedMap()
	for _, field := range fields {
		fieldPath := append(append([]interface{}{}, path...), field.ResponseKey())
		metaField, ok := typ.Fields[field.Name.Name]
		if !ok {
			// The validator already rejects unknown field names against a
			// real schema; a request executed without validation can still
			// reach here, so fail the field rather than panic.
			e.errs.Add(errors.New("Cannot query field %q on type %q.", field.Name.Name, typ.Name).At(field.Loc).WithPath(fieldPath))
			out.Set(field.ResponseKey(), nil)
			continue
		}

		val, ferr := e.executeField(ctx, metaField, source, field, fieldPath)
		if ferr != nil {
			return nil, propagateNull{}
		}
		out.Set(field.ResponseKey(), val)
	}
	return out, nil
}

func (e *executor) executeField(ctx context.Context, field *system.Field, source interface{}, astField *ast.Field, path []interface{}) (interface{}, error) {
	args, aerr := coerceArgumentValues(field.Args, astField.Arguments, e.variables)
	if aerr != nil {
		e.errs.Add(aerr.WithPath(path))
		if _, isNonNull := field.Type.(*system.NonNull); isNonNull {
			return nil, propagateNull{}
		}
		return nil, nil
	}

	result, rerr := e.callResolver(ctx, field, source, args)
	if rerr != nil {
		e.errs.Add(errors.New("%s", rerr.Error()).At(astField.Loc).WithPath(path))
		if _, isNonNull := field.Type.(*system.NonNull); isNonNull {
			return nil, propagateNull{}
		}
		return nil, nil
	}

	return e.executeValue(ctx, field.Type, result, astField.SelectionSet, path)
}

func (e *executor) callResolver(ctx context.Context, field *system.Field, source interface{}, args map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			err = fmt.Errorf("panic resolving field: %v\n%s", r, buf)
		}
	}()
	return field.Resolve(ctx, source, args)
}

func (e *executor) executeList(ctx context.Context, typ *system.List, value interface{}, selectionSet *ast.SelectionSet, path []interface{}) (interface{}, error) {
	slice, ok := value.([]interface{})
	if !ok {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			e.errs.Add(errors.New("Expected a list, got %T.", value).WithPath(path))
			return nil, propagateNull{}
		}
		slice = make([]interface{}, rv.Len())
		for i := range slice {
			slice[i] = rv.Index(i).Interface()
		}
	}

	items := make([]interface{}, len(slice))
	for i, item := range slice {
		itemPath := append(append([]interface{}{}, path...), i)
		val, err := e.executeValue(ctx, typ.Type, item, selectionSet, itemPath)
		if err != nil {
			return nil, propagateNull{}
		}
		items[i] = val
	}
	return items, nil
}

// executeAbstract resolves an Interface or Union field by determining the
// source value's concrete Object type and delegating to executeObject.
// The source value is asked first via InterfaceResolvable, since that is
// the capability model's own resolution mechanism, falling back to the
// meta type's own ResolveType function set by the builder. Neither
// finding nor matching a concrete type means the schema itself is wired
// wrong: it is logged as an internal fault and also recorded as an
// "Internal error" field error, after which null propagates as for any
// other failed field and execution of sibling fields continues.
func (e *executor) executeAbstract(ctx context.Context, possibleTypes map[string]*system.Object, resolveType system.ResolveTypeFunc, abstractName string, value interface{}, selectionSet *ast.SelectionSet, path []interface{}) (interface{}, error) {
	var concreteName string
	if resolvable, ok := value.(InterfaceResolvable); ok {
		concreteName = resolvable.ConcreteTypeName(ctx)
	}
	if concreteName == "" && resolveType != nil {
		concreteName = resolveType(ctx, value)
	}
	if concreteName == "" {
		e.logFatal(abstractName, "resolver returned no concrete type name")
		e.errs.Add(errors.New("Internal error: could not resolve concrete type for %q.", abstractName).WithPath(path))
		return nil, propagateNull{}
	}

	object, ok := possibleTypes[concreteName]
	if !ok {
		e.logFatal(abstractName, "resolved type is not a possible type of the abstract type")
		e.errs.Add(errors.New("Internal error: %q does not implement %q.", concreteName, abstractName).WithPath(path))
		return nil, propagateNull{}
	}

	return e.executeObject(ctx, object, value, selectionSet, path)
}

func (e *executor) logFatal(typeName, reason string) {
	if e.logger == nil {
		return
	}
	e.logger.Error("internal: abstract type resolution failed",
		zap.String("type", typeName),
		zap.String("reason", reason))
}
