package ast

import "github.com/unrotten/graphql/errors"

// SelectionSet is the braced list of fields/fragments following a field or
// operation.
type SelectionSet struct {
	Selections []Selection
	Loc        errors.Location
}

func (s *SelectionSet) Kind() string             { return KindSelectionSet }
func (s *SelectionSet) Location() errors.Location { return s.Loc }

// Selection is one entry of a SelectionSet: a Field, FragmentSpread or
// InlineFragment.
type Selection interface {
	Node
	isSelection()
}

var (
	_ Selection = (*Field)(nil)
	_ Selection = (*FragmentSpread)(nil)
	_ Selection = (*InlineFragment)(nil)
)

// Field is `alias: name(args) @directives { selectionSet }`, with alias and
// selectionSet both optional.
type Field struct {
	Alias        *Name
	Name         *Name
	Arguments    []*Argument
	Directives   []*Directive
	SelectionSet *SelectionSet
	Loc          errors.Location
}

func (f *Field) Kind() string             { return KindField }
func (f *Field) Location() errors.Location { return f.Loc }
func (f *Field) isSelection()              {}

// ResponseKey is the alias if present, else the field name — the key used
// in the executor's output object.
func (f *Field) ResponseKey() string {
	if f.Alias != nil {
		return f.Alias.Name
	}
	return f.Name.Name
}

// FragmentSpread is `...Name @directives`, a reference to a
// FragmentDefinition.
type FragmentSpread struct {
	Name       *Name
	Directives []*Directive
	Loc        errors.Location
}

func (f *FragmentSpread) Kind() string             { return KindFragmentSpread }
func (f *FragmentSpread) Location() errors.Location { return f.Loc }
func (f *FragmentSpread) isSelection()              {}

// InlineFragment is `... on Type @directives { ... }` or the typeless
// `... { ... }`.
type InlineFragment struct {
	TypeCondition *Named
	Directives    []*Directive
	SelectionSet  *SelectionSet
	Loc           errors.Location
}

func (i *InlineFragment) Kind() string             { return KindInlineFragment }
func (i *InlineFragment) Location() errors.Location { return i.Loc }
func (i *InlineFragment) isSelection()              {}

// Argument is a `name: value` pair attached to a field or directive.
type Argument struct {
	Name  *Name
	Value Value
	Loc   errors.Location
}

func (a *Argument) Kind() string             { return KindArgument }
func (a *Argument) Location() errors.Location { return a.Loc }

// Directive is `@name(args)`. Only `skip` and `include` are given meaning
// by the executor; any other name is parsed, then rejected by the
// validator as an unknown directive.
type Directive struct {
	Name      *Name
	Arguments []*Argument
	Loc       errors.Location
}

func (d *Directive) Kind() string             { return KindDirective }
func (d *Directive) Location() errors.Location { return d.Loc }
