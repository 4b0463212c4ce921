// Package system is the schema registry: the MetaType catalog that a
// built schema resolves against, mirroring the Type/NamedType model the
// teacher keeps in its internal type system but trimmed and extended to
// the capability-based resolution model described by the root package.
package system

import (
	"context"
	"reflect"
)

// Type is implemented by every meta type in a built schema: scalars,
// objects, interfaces, unions, enums, input objects and the List/NonNull
// wrapper types.
type Type interface {
	String() string
	isType()
}

var (
	_ Type = (*Scalar)(nil)
	_ Type = (*Object)(nil)
	_ Type = (*Interface)(nil)
	_ Type = (*Union)(nil)
	_ Type = (*Enum)(nil)
	_ Type = (*InputObject)(nil)
	_ Type = (*List)(nil)
	_ Type = (*NonNull)(nil)
)

// NamedType is any Type with an explicit schema name; everything but List
// and NonNull.
type NamedType interface {
	Type
	TypeName() string
	Description() string
}

var (
	_ NamedType = (*Scalar)(nil)
	_ NamedType = (*Object)(nil)
	_ NamedType = (*Interface)(nil)
	_ NamedType = (*Union)(nil)
	_ NamedType = (*Enum)(nil)
	_ NamedType = (*InputObject)(nil)
)

// Scalar is a leaf type with Serialize (output coercion) and ParseValue
// (input coercion) functions. Only the five built-in scalars spec.md pins
// are registered by NewRegistry; custom scalar I/O is out of scope.
type Scalar struct {
	Name       string
	Desc       string
	Serialize  func(interface{}) (interface{}, error)
	ParseValue func(interface{}) (interface{}, error)
}

func (t *Scalar) String() string        { return t.Name }
func (t *Scalar) isType()               {}
func (t *Scalar) TypeName() string      { return t.Name }
func (t *Scalar) Description() string   { return t.Desc }

// Object describes a concrete output type: its fields and the interfaces
// it implements.
type Object struct {
	Name       string
	Desc       string
	Interfaces map[string]*Interface
	Fields     map[string]*Field
}

func (t *Object) String() string      { return t.Name }
func (t *Object) isType()             {}
func (t *Object) TypeName() string    { return t.Name }
func (t *Object) Description() string { return t.Desc }

// ResolveTypeFunc is supplied by an Interface or Union meta type to map a
// resolved source value to the name of its concrete Object type. It is
// called only when the source value does not itself implement the
// InterfaceResolvable capability (root package), or when that returns an
// empty name. An empty result means "no concrete type could be
// determined," which the executor logs and records as an internal error
// for the field.
type ResolveTypeFunc func(ctx context.Context, value interface{}) string

// Interface describes a set of fields common to every implementing
// Object, plus the PossibleTypes it was observed to be implemented by
// during schema construction.
type Interface struct {
	Name          string
	Desc          string
	Fields        map[string]*Field
	PossibleTypes map[string]*Object
	ResolveType   ResolveTypeFunc
}

func (t *Interface) String() string      { return t.Name }
func (t *Interface) isType()             {}
func (t *Interface) TypeName() string    { return t.Name }
func (t *Interface) Description() string { return t.Desc }

// Union describes a set of possible concrete Object types with no common
// fields beyond `__typename`.
type Union struct {
	Name        string
	Desc        string
	Types       map[string]*Object
	ResolveType ResolveTypeFunc
}

func (t *Union) String() string      { return t.Name }
func (t *Union) isType()             {}
func (t *Union) TypeName() string    { return t.Name }
func (t *Union) Description() string { return t.Desc }

// Enum serializes as one of a fixed set of names; ReverseMap maps an
// internal Go value back to its published name when Values alone (a plain
// name->name identity) isn't the representation a resolver returns.
type Enum struct {
	Name       string
	Desc       string
	Values     []string
	ReverseMap map[interface{}]string
}

func (t *Enum) String() string      { return t.Name }
func (t *Enum) isType()             {}
func (t *Enum) TypeName() string    { return t.Name }
func (t *Enum) Description() string { return t.Desc }

// InputObject is a structured collection of input fields a caller may
// supply as an argument or variable value. StructType, when set by the
// builder that registered this InputObject, is the Go struct the builder
// was derived from; its `validate` struct tags (go-playground/validator)
// are re-applied after coercion as an additional constraint layer beyond
// plain type-checking.
type InputObject struct {
	Name       string
	Desc       string
	Fields     map[string]*InputField
	StructType reflect.Type
}

func (t *InputObject) String() string      { return t.Name }
func (t *InputObject) isType()             {}
func (t *InputObject) TypeName() string    { return t.Name }
func (t *InputObject) Description() string { return t.Desc }

// List wraps an element Type. An untyped nil value is null (an error in a
// NonNull position); a typed nil or empty slice is an empty list.
type List struct {
	Type Type
}

func (t *List) String() string { return "[" + t.Type.String() + "]" }
func (t *List) isType()        {}

// NonNull wraps a Type that may never resolve (or coerce) to null. The
// schema registry never produces a NonNull wrapping another NonNull.
type NonNull struct {
	Type Type
}

func (t *NonNull) String() string { return t.Type.String() + "!" }
func (t *NonNull) isType()        {}

// FieldResolve executes a single field's resolver against its parent
// result value, the coerced argument map and the request context.
type FieldResolve func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error)

// Field is one entry of an Object or Interface's field map.
type Field struct {
	Type    Type
	Args    map[string]*Argument
	Resolve FieldResolve
	Desc    string
}

// Argument describes one named, typed field or directive argument.
type Argument struct {
	Type         Type
	DefaultValue interface{}
	Desc         string
}

// InputField describes one named, typed field of an InputObject.
type InputField struct {
	Type         Type
	DefaultValue interface{}
	Desc         string
}

// Schema pins the two root operation types. Subscription root is
// intentionally absent: subscriptions are a documented non-goal.
type Schema struct {
	Query    *Object
	Mutation *Object
}
