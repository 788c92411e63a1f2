package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/km-arc/go-entob/framework/container"
	"github.com/km-arc/go-entob/framework/env"
	"github.com/km-arc/go-entob/framework/field"
)

// Values is a flat field-name keyed mapping: construction input and the
// projection returned by ToMap.
type Values map[string]any

// ── Members ──────────────────────────────────────────────────────────────────

type memberKind int

const (
	plainMember memberKind = iota
	envMember
	slotMember
)

// member is one declared name on a type: a field, an env-bound field or a
// dependency slot.
type member struct {
	name     string
	kind     memberKind
	attr     *field.Attribute
	env      *field.EnvAttribute
	provider container.Provider
}

// rebind returns m bound to owner. Descriptors are shared, never copied.
func (m *member) rebind(owner string) *member {
	out := &member{name: m.name, kind: m.kind, provider: m.provider}
	switch m.kind {
	case plainMember:
		out.attr = m.attr.Descriptor.Bind(owner, m.name)
	case envMember:
		out.env = m.env.Descriptor.BindEnv(owner, m.name, m.env.Key())
		out.attr = out.env.Attribute
	}
	return out
}

// ── Builder ──────────────────────────────────────────────────────────────────

// Builder declares an entity type.
//
//	var Money = entity.Define("Money").
//	    Field("amount", amountField).
//	    Field("currency", currencyField).
//	    MustBuild()
type Builder struct {
	name    string
	parent  *Type
	members []*member
	store   env.Store
	errs    []error
}

// Define starts the declaration of a type called name.
func Define(name string) *Builder {
	b := &Builder{name: name}
	if name == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: entity name is empty", field.ErrConfiguration))
	}
	return b
}

// Extends makes parent the direct ancestor. Parent fields are inherited;
// names declared on b shadow them entirely.
func (b *Builder) Extends(parent *Type) *Builder {
	if parent == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: %s extends a nil type", field.ErrConfiguration, b.name))
	}
	b.parent = parent
	return b
}

// Field declares a plain field.
func (b *Builder) Field(name string, d *field.Descriptor) *Builder {
	if b.check(name, d != nil, "descriptor") {
		a := d.Bind(b.name, name)
		b.members = append(b.members, &member{name: name, kind: plainMember, attr: a})
	}
	return b
}

// EnvField declares a field whose value falls back to the env store entry
// key when the construction data does not name it.
func (b *Builder) EnvField(name, key string, d *field.Descriptor) *Builder {
	if b.check(name, d != nil, "descriptor") {
		if key == "" {
			b.errs = append(b.errs, fmt.Errorf("%w: %s.%s has an empty env key", field.ErrConfiguration, b.name, name))
			return b
		}
		a := d.BindEnv(b.name, name, key)
		b.members = append(b.members, &member{name: name, kind: envMember, attr: a.Attribute, env: a})
	}
	return b
}

// Dependency declares a slot filled from p once per construction.
func (b *Builder) Dependency(name string, p container.Provider) *Builder {
	if b.check(name, p != nil, "provider") {
		b.members = append(b.members, &member{name: name, kind: slotMember, provider: p})
	}
	return b
}

// WithEnvStore sets the store env-bound fields read from. Without one a
// type uses its parent's store, and a root type uses env.OS().
func (b *Builder) WithEnvStore(s env.Store) *Builder {
	b.store = s
	return b
}

func (b *Builder) check(name string, present bool, what string) bool {
	switch {
	case name == "":
		b.errs = append(b.errs, fmt.Errorf("%w: %s declares a field with an empty name", field.ErrConfiguration, b.name))
	case !present:
		b.errs = append(b.errs, fmt.Errorf("%w: %s.%s has a nil %s", field.ErrConfiguration, b.name, name, what))
	default:
		for _, m := range b.members {
			if m.name == name {
				b.errs = append(b.errs, fmt.Errorf("%w: %s.%s is declared twice", field.ErrConfiguration, b.name, name))
				return false
			}
		}
		return true
	}
	return false
}

// Build merges the ancestry and freezes the schema.
func (b *Builder) Build() (*Type, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	t := &Type{name: b.name, parent: b.parent, store: b.store, index: make(map[string]int)}
	if b.parent != nil {
		for _, m := range b.parent.members {
			t.add(m.rebind(b.name))
		}
		if t.store == nil {
			t.store = b.parent.store
		}
	}
	for _, m := range b.members {
		t.add(m)
	}
	if t.store == nil {
		t.store = env.OS()
	}
	return t, nil
}

// MustBuild is like Build but panics on error. Meant for package-level
// type declarations.
func (b *Builder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// ── Type ─────────────────────────────────────────────────────────────────────

// Type is a frozen entity schema: the merged members of a type and its
// ancestors. It is safe for concurrent use.
type Type struct {
	name    string
	parent  *Type
	members []*member
	index   map[string]int
	store   env.Store
}

// add appends m, or replaces a same-named member in place.
func (t *Type) add(m *member) {
	if i, ok := t.index[m.name]; ok {
		t.members[i] = m
		return
	}
	t.index[m.name] = len(t.members)
	t.members = append(t.members, m)
}

func (t *Type) member(name string) (*member, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.members[i], true
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Parent returns the direct ancestor, or nil.
func (t *Type) Parent() *Type { return t.parent }

// Extends reports whether t is other or descends from it.
func (t *Type) Extends(other *Type) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Fields returns the declared field names, sorted. Dependency slots are not
// fields.
func (t *Type) Fields() []string {
	out := make([]string, 0, len(t.members))
	for _, m := range t.members {
		if m.kind != slotMember {
			out = append(out, m.name)
		}
	}
	sort.Strings(out)
	return out
}

// Dependencies returns the dependency slot names, sorted.
func (t *Type) Dependencies() []string {
	var out []string
	for _, m := range t.members {
		if m.kind == slotMember {
			out = append(out, m.name)
		}
	}
	sort.Strings(out)
	return out
}

// Attribute returns the bound attribute of a declared field.
func (t *Type) Attribute(name string) (*field.Attribute, bool) {
	m, ok := t.member(name)
	if !ok || m.kind == slotMember {
		return nil, false
	}
	return m.attr, true
}

func (t *Type) String() string { return t.name }
