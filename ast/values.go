package ast

import "github.com/unrotten/graphql/errors"

// Value is an input value literal: the Null/Int/Float/String/Boolean/Enum/
// Variable/List/Object grammar of spec.md §3, as written in a query
// document. Values supplied in the out-of-band variables map are plain Go
// values, not these nodes.
type Value interface {
	Node
	// GetValue returns the node's unwrapped Go value: a string for
	// Int/Float/String/Enum (so coercion controls the final numeric
	// type), a bool, a *Name for Variable, a []Value for List, or a
	// []*ObjectField for Object.
	GetValue() interface{}
}

var (
	_ Value = (*Variable)(nil)
	_ Value = (*IntValue)(nil)
	_ Value = (*FloatValue)(nil)
	_ Value = (*StringValue)(nil)
	_ Value = (*BooleanValue)(nil)
	_ Value = (*NullValue)(nil)
	_ Value = (*EnumValue)(nil)
	_ Value = (*ListValue)(nil)
	_ Value = (*ObjectValue)(nil)
)

// Variable is `$name`, resolved against the execution's variable map.
type Variable struct {
	Name *Name
	Loc  errors.Location
}

func (v *Variable) Kind() string             { return KindVariable }
func (v *Variable) Location() errors.Location { return v.Loc }
func (v *Variable) GetValue() interface{}     { return v.Name }

// IntValue holds the literal source digits; coercion parses to the
// destination numeric width.
type IntValue struct {
	Value string
	Loc   errors.Location
}

func (i *IntValue) Kind() string             { return KindIntValue }
func (i *IntValue) Location() errors.Location { return i.Loc }
func (i *IntValue) GetValue() interface{}     { return i.Value }

// FloatValue holds the literal source digits.
type FloatValue struct {
	Value string
	Loc   errors.Location
}

func (f *FloatValue) Kind() string             { return KindFloatValue }
func (f *FloatValue) Location() errors.Location { return f.Loc }
func (f *FloatValue) GetValue() interface{}     { return f.Value }

// StringValue is a double-quoted string literal with escapes already
// resolved by the lexer.
type StringValue struct {
	Value string
	Loc   errors.Location
}

func (s *StringValue) Kind() string             { return KindStringValue }
func (s *StringValue) Location() errors.Location { return s.Loc }
func (s *StringValue) GetValue() interface{}     { return s.Value }

// BooleanValue is the `true`/`false` keyword.
type BooleanValue struct {
	Value bool
	Loc   errors.Location
}

func (b *BooleanValue) Kind() string             { return KindBooleanValue }
func (b *BooleanValue) Location() errors.Location { return b.Loc }
func (b *BooleanValue) GetValue() interface{}     { return b.Value }

// NullValue is the `null` keyword.
type NullValue struct {
	Loc errors.Location
}

func (n *NullValue) Kind() string             { return KindNullValue }
func (n *NullValue) Location() errors.Location { return n.Loc }
func (n *NullValue) GetValue() interface{}     { return nil }

// EnumValue is an unquoted name that is neither `true`, `false` nor `null`.
type EnumValue struct {
	Value string
	Loc   errors.Location
}

func (e *EnumValue) Kind() string             { return KindEnumValue }
func (e *EnumValue) Location() errors.Location { return e.Loc }
func (e *EnumValue) GetValue() interface{}     { return e.Value }

// ListValue is `[ Value* ]`.
type ListValue struct {
	Values []Value
	Loc    errors.Location
}

func (l *ListValue) Kind() string             { return KindListValue }
func (l *ListValue) Location() errors.Location { return l.Loc }
func (l *ListValue) GetValue() interface{}     { return l.Values }

// ObjectValue is `{ Name: Value* }`.
type ObjectValue struct {
	Fields []*ObjectField
	Loc    errors.Location
}

func (o *ObjectValue) Kind() string             { return KindObjectValue }
func (o *ObjectValue) Location() errors.Location { return o.Loc }
func (o *ObjectValue) GetValue() interface{}     { return o.Fields }

// ObjectField is one `name: value` entry of an ObjectValue.
type ObjectField struct {
	Name  *Name
	Value Value
	Loc   errors.Location
}

func (o *ObjectField) Kind() string             { return KindObjectField }
func (o *ObjectField) Location() errors.Location { return o.Loc }
