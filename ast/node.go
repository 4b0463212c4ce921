// Package ast defines the located abstract syntax tree produced by the
// language package's parser: documents, operations, selections, fragments
// and the value literals used in arguments, variable defaults and
// variable bindings.
package ast

import "github.com/unrotten/graphql/errors"

// Node is implemented by every AST node; it exposes the node's kind (for
// diagnostics) and its source span.
type Node interface {
	Kind() string
	Location() errors.Location
}

// Kind tags, used only for diagnostics/introspection of the tree itself.
const (
	KindName                = "Name"
	KindDocument            = "Document"
	KindOperationDefinition = "OperationDefinition"
	KindFragmentDefinition  = "FragmentDefinition"
	KindVariableDefinition  = "VariableDefinition"
	KindSelectionSet        = "SelectionSet"
	KindField               = "Field"
	KindFragmentSpread      = "FragmentSpread"
	KindInlineFragment      = "InlineFragment"
	KindArgument            = "Argument"
	KindDirective           = "Directive"
	KindNamed               = "NamedType"
	KindList                = "ListType"
	KindNonNull             = "NonNullType"
	KindVariable            = "Variable"
	KindIntValue            = "IntValue"
	KindFloatValue          = "FloatValue"
	KindStringValue         = "StringValue"
	KindBooleanValue        = "BooleanValue"
	KindNullValue           = "NullValue"
	KindEnumValue           = "EnumValue"
	KindListValue           = "ListValue"
	KindObjectValue         = "ObjectValue"
	KindObjectField         = "ObjectField"
)

// Name is a bare identifier with its own span, since a misspelled name is
// frequently the thing a diagnostic needs to point at directly.
type Name struct {
	Name string
	Loc  errors.Location
}

func (n *Name) Kind() string             { return KindName }
func (n *Name) Location() errors.Location { return n.Loc }
