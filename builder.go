package graphql

import (
	"context"
	"fmt"

	"github.com/unrotten/graphql/system"
)

// SchemaBuilder assembles a Schema's root Query and Mutation object types
// before Build walks the registry and checks every Placeholder got
// resolved. Of the teacher's builder vocabulary it keeps only
// ObjectBuilder and InterfaceBuilder; enum, input object, scalar and
// union types are declared directly as system values. Since schema types
// here describe themselves through the Resolvable capability rather than
// through reflection over a Go struct, it only needs to own the two root
// ObjectBuilders and the shared Registry they and every referenced type
// register into.
type SchemaBuilder struct {
	registry *system.Registry
	query    *ObjectBuilder
	mutation *ObjectBuilder
}

// NewSchema returns an empty builder with a fresh registry pre-loaded
// with the five built-in scalars.
func NewSchema() *SchemaBuilder {
	return &SchemaBuilder{registry: system.NewRegistry()}
}

// Registry returns the registry this builder and every type it
// registers share. A Resolvable's Meta method needs it to call
// ResolveType on the types its own fields depend on; code assembling a
// schema typically resolves those same types once, up front, and passes
// the results into FieldFunc.
func (s *SchemaBuilder) Registry() *system.Registry {
	return s.registry
}

// Query returns the builder for the schema's root Query object, creating
// it on first use.
func (s *SchemaBuilder) Query() *ObjectBuilder {
	if s.query == nil {
		s.query = newObjectBuilder("Query", "", s.registry)
	}
	return s.query
}

// Mutation returns the builder for the schema's root Mutation object,
// creating it on first use. A schema with no mutations never needs to
// call this.
func (s *SchemaBuilder) Mutation() *ObjectBuilder {
	if s.mutation == nil {
		s.mutation = newObjectBuilder("Mutation", "", s.registry)
	}
	return s.mutation
}

// Build finishes construction: it materializes Query/Mutation into
// system.Object meta types and confirms every type referenced anywhere in
// the registry (via Resolvable.Meta) was actually built, not merely
// reserved as a Placeholder.
func (s *SchemaBuilder) Build() (*Schema, error) {
	if s.query == nil {
		return nil, fmt.Errorf("schema must define at least a Query root")
	}
	query, err := s.query.buildObject()
	if err != nil {
		return nil, err
	}

	var mutation *system.Object
	if s.mutation != nil {
		mutation, err = s.mutation.buildObject()
		if err != nil {
			return nil, err
		}
	}

	if err := s.registry.CheckComplete(); err != nil {
		return nil, err
	}

	return &Schema{
		meta:     &system.Schema{Query: query, Mutation: mutation},
		registry: s.registry,
	}, nil
}

// MustBuild is Build but panics on error, for schemas assembled at
// package init time where a build failure is a programming error.
func (s *SchemaBuilder) MustBuild() *Schema {
	schema, err := s.Build()
	if err != nil {
		panic(err)
	}
	return schema
}

// Schema is a built, immutable schema ready to execute requests against.
type Schema struct {
	meta     *system.Schema
	registry *system.Registry
}

// QueryType returns the schema's root Query object.
func (s *Schema) QueryType() *system.Object { return s.meta.Query }

// MutationType returns the schema's root Mutation object, or nil for a
// schema with no mutations.
func (s *Schema) MutationType() *system.Object { return s.meta.Mutation }

// Registry returns the schema's type registry, the catalog Validate
// checks every document name against.
func (s *Schema) Registry() *system.Registry { return s.registry }

// ResolveType returns v's entry in r, building it via v.Meta the first
// time v's TypeName is referenced. Every later reference to the same
// name — including one reached while the first v.Meta call is still
// running, i.e. v refers to itself directly or through another type —
// returns the same Placeholder or finished NamedType without calling
// Meta again. A field, argument or input field whose declared type is
// another Resolvable is built by calling this, not by calling Meta
// directly.
func ResolveType(r *system.Registry, v Resolvable) (system.NamedType, error) {
	name := v.TypeName()
	if !r.Reserve(name) {
		return r.Lookup(name), nil
	}
	meta, err := v.Meta(r)
	if err != nil {
		return nil, err
	}
	r.Resolve(name, meta)
	return meta, nil
}

// NewObject starts building an Object type other than the schema's own
// Query/Mutation root — in practice, every Object a Resolvable.Meta
// implementation returns.
func NewObject(name, desc string, r *system.Registry) *ObjectBuilder {
	return newObjectBuilder(name, desc, r)
}

// builderField is one field registered on an ObjectBuilder via FieldFunc.
type builderField struct {
	name    string
	desc    string
	typ     system.Type
	args    map[string]*system.Argument
	resolve system.FieldResolve
}

// ObjectBuilder collects the fields of one Object type (including the
// two root types) before Build walks it into a system.Object.
type ObjectBuilder struct {
	name       string
	desc       string
	registry   *system.Registry
	fields     []*builderField
	interfaces []*InterfaceBuilder
}

func newObjectBuilder(name, desc string, r *system.Registry) *ObjectBuilder {
	return &ObjectBuilder{name: name, desc: desc, registry: r}
}

// FieldFunc registers a field resolved by fn. typ is the field's schema
// type, already built (e.g. via another builder's Meta, or a wrapping
// List/NonNull of one). args, if non-nil, describes the field's coerced
// argument shape.
func (b *ObjectBuilder) FieldFunc(name string, typ system.Type, args map[string]*system.Argument, fn system.FieldResolve, desc ...string) *ObjectBuilder {
	b.fields = append(b.fields, &builderField{
		name:    name,
		desc:    firstOr(desc, ""),
		typ:     typ,
		args:    args,
		resolve: fn,
	})
	return b
}

// Implements records that this object implements the given interface; the
// interface's PossibleTypes is populated once buildObject runs.
func (b *ObjectBuilder) Implements(i *InterfaceBuilder) *ObjectBuilder {
	b.interfaces = append(b.interfaces, i)
	return b
}

// Build finishes this object's field list into a system.Object. A
// Resolvable whose Meta method builds an Object calls this last and
// returns its result directly.
func (b *ObjectBuilder) Build() (*system.Object, error) {
	return b.buildObject()
}

func (b *ObjectBuilder) buildObject() (*system.Object, error) {
	fields := make(map[string]*system.Field, len(b.fields))
	for _, f := range b.fields {
		fields[f.name] = &system.Field{Type: f.typ, Args: f.args, Resolve: f.resolve, Desc: f.desc}
	}
	fields["__typename"] = typenameField(b.name, b.registry)

	obj := &system.Object{Name: b.name, Desc: b.desc, Fields: fields, Interfaces: map[string]*system.Interface{}}
	for _, ib := range b.interfaces {
		iface, err := ib.buildInterface()
		if err != nil {
			return nil, err
		}
		obj.Interfaces[iface.Name] = iface
		iface.PossibleTypes[obj.Name] = obj
	}
	return obj, nil
}

func typenameField(typeName string, r *system.Registry) *system.Field {
	return &system.Field{
		Type: &system.NonNull{Type: r.Lookup("String")},
		Desc: "The name of the concrete type of this object.",
		Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
			return typeName, nil
		},
	}
}

// InterfaceBuilder collects the fields common to every implementing
// Object type.
type InterfaceBuilder struct {
	name        string
	desc        string
	fields      []*builderField
	resolveType system.ResolveTypeFunc
	built       *system.Interface
}

// NewInterface starts building an interface type. resolveType is used as
// a fallback when a concretely-resolved value doesn't itself implement
// InterfaceResolvable.
func NewInterface(name, desc string, resolveType system.ResolveTypeFunc) *InterfaceBuilder {
	return &InterfaceBuilder{name: name, desc: desc, resolveType: resolveType}
}

// Field registers a field in the interface's common field set. Concrete
// implementing Objects must register a field of the same name themselves
// via their own FieldFunc. This is not checked here, and the validator
// checks a selection only against the interface's own fields; a missing
// implementation surfaces at execution time as a "Cannot query field"
// error.
func (b *InterfaceBuilder) Field(name string, typ system.Type, desc ...string) *InterfaceBuilder {
	b.fields = append(b.fields, &builderField{name: name, typ: typ, desc: firstOr(desc, "")})
	return b
}

// Build finishes this interface's field list into a system.Interface. A
// Resolvable whose Meta method builds an Interface calls this last and
// returns its result directly.
func (b *InterfaceBuilder) Build() (*system.Interface, error) {
	return b.buildInterface()
}

func (b *InterfaceBuilder) buildInterface() (*system.Interface, error) {
	if b.built != nil {
		return b.built, nil
	}
	fields := make(map[string]*system.Field, len(b.fields))
	for _, f := range b.fields {
		fields[f.name] = &system.Field{Type: f.typ, Desc: f.desc}
	}
	b.built = &system.Interface{
		Name:          b.name,
		Desc:          b.desc,
		Fields:        fields,
		PossibleTypes: map[string]*system.Object{},
		ResolveType:   b.resolveType,
	}
	return b.built, nil
}

func firstOr(vals []string, def string) string {
	if len(vals) > 0 {
		return vals[0]
	}
	return def
}
