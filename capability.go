package graphql

import (
	"context"

	"github.com/unrotten/graphql/system"
)

// Resolvable is implemented by every Go value that participates in a
// schema as a named type: it names itself and builds its own meta type
// against the registry, registering any type it references along the
// way. This is the one point where this package departs from a
// reflection/struct-tag builder: types describe themselves through this
// small interface rather than being inferred from arbitrary Go structs.
type Resolvable interface {
	// TypeName is the name this value publishes itself under in the
	// schema.
	TypeName() string
	// Meta builds this type's entry for the registry. ResolveType reserves
	// the name first and calls Meta at most once per name.
	Meta(r *system.Registry) (system.NamedType, error)
}

// FieldResolvable is a Resolvable that can also execute one of its own
// fields by name. The executor does not call ResolveField: it runs the
// system.Field.Resolve function registered for each field through
// ObjectBuilder.FieldFunc.
type FieldResolvable interface {
	Resolvable
	// ResolveField executes one field by name against args already
	// coerced to Go values.
	ResolveField(ctx context.Context, name string, args map[string]interface{}) (interface{}, error)
}

// InterfaceResolvable is implemented by a concrete value returned for an
// interface- or union-typed field when the value itself knows which
// concrete Object type it should be treated as. When a resolved value
// does not implement this, the Interface/Union meta type's own
// ResolveType function is consulted instead. If neither yields a
// possible type, the executor logs an internal fault and records an
// "Internal error" for that field, since it means the schema was built
// incorrectly rather than that the request was bad; the field becomes
// null and sibling fields still execute.
type InterfaceResolvable interface {
	// ConcreteTypeName returns the name of the Object type source should
	// be treated as for the purposes of field resolution.
	ConcreteTypeName(ctx context.Context) string
}
