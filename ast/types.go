package ast

import (
	"fmt"

	"github.com/unrotten/graphql/errors"
)

// Type is the AST spelling of a variable's declared type: a bare name, a
// list of another Type, or a non-null wrapper of a Named or List.
type Type interface {
	Node
	String() string
}

var (
	_ Type = (*Named)(nil)
	_ Type = (*List)(nil)
	_ Type = (*NonNull)(nil)
)

// Named is a bare type reference, e.g. `String` or `Droid`.
type Named struct {
	Name *Name
	Loc  errors.Location
}

func (n *Named) Kind() string             { return KindNamed }
func (n *Named) Location() errors.Location { return n.Loc }
func (n *Named) String() string            { return n.Name.Name }

// List is `[Type]`.
type List struct {
	Type Type
	Loc  errors.Location
}

func (l *List) Kind() string             { return KindList }
func (l *List) Location() errors.Location { return l.Loc }
func (l *List) String() string            { return fmt.Sprintf("[%s]", l.Type.String()) }

// NonNull is `Type!`; it never wraps another NonNull (enforced by the
// parser, which only ever attaches `!` once).
type NonNull struct {
	Type Type
	Loc  errors.Location
}

func (n *NonNull) Kind() string             { return KindNonNull }
func (n *NonNull) Location() errors.Location { return n.Loc }
func (n *NonNull) String() string            { return fmt.Sprintf("%s!", n.Type.String()) }
