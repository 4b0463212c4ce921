package system

import "fmt"

// Registry is the build-time catalog of every NamedType known to a schema.
// Types register themselves (via the root package's Resolvable capability)
// the first time they're referenced, which means a type may reference
// itself, or another type that references it back, before either has
// finished building. Placeholder breaks that cycle: a type under
// construction is registered as a Placeholder immediately, and every
// reference to it resolves through the Placeholder until the real
// NamedType is substituted in once construction finishes.
type Registry struct {
	Types map[string]NamedType
}

// NewRegistry returns a Registry pre-populated with the five built-in
// scalars spec.md names: Int, Float, String, Boolean, ID.
func NewRegistry() *Registry {
	r := &Registry{Types: make(map[string]NamedType)}
	for _, s := range builtinScalars() {
		r.Types[s.Name] = s
	}
	return r
}

// Placeholder stands in for a NamedType that has started building but not
// finished; a reference taken out on a type while it is still building
// (the type refers to itself, or to another type that refers back to it)
// holds onto this Placeholder rather than the real type, since the real
// type doesn't exist as a Go value yet. Resolved is filled in once that
// build finishes; Resolved(Type) follows it so a caller holding one of
// these old references still reaches the finished type.
type Placeholder struct {
	Name     string
	Resolved NamedType
}

func (p *Placeholder) String() string {
	if p.Resolved != nil {
		return p.Resolved.String()
	}
	return p.Name
}
func (p *Placeholder) isType()          {}
func (p *Placeholder) TypeName() string { return p.Name }
func (p *Placeholder) Description() string {
	if p.Resolved != nil {
		return p.Resolved.Description()
	}
	return ""
}

// Reserve registers a Placeholder for name if nothing is registered yet,
// and reports whether the caller is the one responsible for building the
// real type (false means someone else already reserved or finished it,
// in which case the caller should use Lookup instead of building again).
func (r *Registry) Reserve(name string) (reserve bool) {
	if _, ok := r.Types[name]; ok {
		return false
	}
	r.Types[name] = &Placeholder{Name: name}
	return true
}

// Resolve records t as the finished type for name: the registry's own
// entry is replaced outright (so every Lookup from here on returns t
// directly), and any Placeholder a caller took a reference to earlier is
// updated in place so Resolved(Type) can still find t through it.
func (r *Registry) Resolve(name string, t NamedType) {
	if existing, ok := r.Types[name].(*Placeholder); ok {
		existing.Resolved = t
	}
	r.Types[name] = t
}

// Lookup returns the named type, or nil if nothing was ever reserved for
// that name.
func (r *Registry) Lookup(name string) NamedType {
	return r.Types[name]
}

// CheckComplete reports an error if any Placeholder never had its
// Resolved type filled in, meaning some type referenced by name was
// never actually built.
func (r *Registry) CheckComplete() error {
	for name, t := range r.Types {
		if p, ok := t.(*Placeholder); ok && p.Resolved == nil {
			return fmt.Errorf("type %q was referenced but never registered", name)
		}
	}
	return nil
}

// Resolved follows a Placeholder to the NamedType that finished building
// in its place. Any Type value captured while that build was still in
// progress (a Field's Type, a List's element Type, ...) may still be
// holding the Placeholder rather than the finished type; every place
// that dispatches on a Type's concrete kind calls this first. A type
// that isn't a Placeholder, or one that hasn't resolved yet, is returned
// unchanged.
func Resolved(t Type) Type {
	if p, ok := t.(*Placeholder); ok && p.Resolved != nil {
		return Resolved(p.Resolved)
	}
	return t
}
