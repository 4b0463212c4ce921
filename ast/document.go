package ast

import "github.com/unrotten/graphql/errors"

// Document is the root of a parsed query/mutation source: a list of
// operation and fragment definitions in source order.
type Document struct {
	Definitions []Definition
}

// Definition is either an OperationDefinition or a FragmentDefinition;
// schema-definition-language definitions are out of scope (spec Non-goals).
type Definition interface {
	Node
	isDefinition()
}

var (
	_ Definition = (*OperationDefinition)(nil)
	_ Definition = (*FragmentDefinition)(nil)
)

// OperationType distinguishes query from mutation; subscriptions are a
// documented non-goal and are rejected by the parser.
type OperationType string

const (
	Query    OperationType = "QUERY"
	Mutation OperationType = "MUTATION"
)

// OperationDefinition is a named or shorthand anonymous query/mutation.
type OperationDefinition struct {
	Operation    OperationType
	Name         *Name
	Vars         []*VariableDefinition
	SelectionSet *SelectionSet
	Loc          errors.Location
}

func (o *OperationDefinition) Kind() string             { return KindOperationDefinition }
func (o *OperationDefinition) Location() errors.Location { return o.Loc }
func (o *OperationDefinition) isDefinition()             {}

// FragmentDefinition is a reusable named selection set scoped to a type
// condition.
type FragmentDefinition struct {
	Name          *Name
	TypeCondition *Named
	SelectionSet  *SelectionSet
	Loc           errors.Location
}

func (f *FragmentDefinition) Kind() string             { return KindFragmentDefinition }
func (f *FragmentDefinition) Location() errors.Location { return f.Loc }
func (f *FragmentDefinition) isDefinition()             {}

// VariableDefinition declares one `$name: Type = default` entry in an
// operation's variable list.
type VariableDefinition struct {
	Var          *Variable
	Type         Type
	DefaultValue Value
	Loc          errors.Location
}

func (v *VariableDefinition) Kind() string             { return KindVariableDefinition }
func (v *VariableDefinition) Location() errors.Location { return v.Loc }
