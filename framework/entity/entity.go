package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/km-arc/go-entob/framework/field"
	"github.com/km-arc/go-entob/framework/shape"
)

// ErrSeed is returned by New for a seed that is neither nil, Values, a
// map[string]any nor an *Entity.
var ErrSeed = errors.New("entity: unsupported seed")

// Entity is one instance of a Type: a name-keyed value map plus the set of
// fields modified since construction. An Entity is not safe for concurrent
// mutation.
type Entity struct {
	typ      *Type
	values   map[string]any
	modified map[string]struct{}
}

// ── Construction ─────────────────────────────────────────────────────────────

// New constructs an instance from seed with overrides merged on top.
//
// Env-bound fields resolve first, then plain fields, then dependency slots.
// Input for a slot name is ignored. Any failure aborts construction. The
// returned entity has no modified fields.
//
//	m, err := Money.New(entity.Values{"amount": "35.125", "currency": "USD"})
//	copy, err := Money.New(m, entity.Values{"currency": "EUR"})
func (t *Type) New(seed any, overrides ...Values) (*Entity, error) {
	data, err := seedValues(seed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	for _, o := range overrides {
		for k, v := range o {
			data[k] = v
		}
	}

	e := &Entity{
		typ:      t,
		values:   make(map[string]any, len(t.members)),
		modified: make(map[string]struct{}),
	}

	for _, m := range t.members {
		if m.kind != envMember {
			continue
		}
		v, present := data[m.name]
		if err := m.env.Set(e, m.env.Resolve(t.store, v, present)); err != nil {
			return nil, err
		}
	}
	for _, m := range t.members {
		if m.kind != plainMember {
			continue
		}
		if err := m.attr.Set(e, data[m.name]); err != nil {
			return nil, err
		}
	}
	for _, m := range t.members {
		if m.kind != slotMember {
			continue
		}
		v, err := m.provider.Provide()
		if err != nil {
			return nil, fmt.Errorf("%s.%s: resolve dependency: %w", t.name, m.name, err)
		}
		e.values[m.name] = v
	}

	clear(e.modified)
	return e, nil
}

// Make constructs an instance from overrides alone.
func (t *Type) Make(overrides ...Values) (*Entity, error) {
	return t.New(nil, overrides...)
}

// MustNew is like New but panics on error.
func (t *Type) MustNew(seed any, overrides ...Values) *Entity {
	e, err := t.New(seed, overrides...)
	if err != nil {
		panic(err)
	}
	return e
}

func seedValues(seed any) (Values, error) {
	data := Values{}
	switch s := seed.(type) {
	case nil:
	case Values:
		for k, v := range s {
			data[k] = v
		}
	case map[string]any:
		for k, v := range s {
			data[k] = v
		}
	case *Entity:
		if s == nil {
			break
		}
		for k, v := range s.ToMap() {
			data[k] = clone(v)
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrSeed, seed)
	}
	return data, nil
}

// clone copies slices, maps and nested entities so that an entity built
// from another shares no mutable state with it.
func clone(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *Entity:
		if x == nil {
			return x
		}
		return x.Clone()
	case shape.Set:
		out := make(shape.Set, len(x))
		for k := range x {
			out[k] = struct{}{}
		}
		return out
	case shape.Tuple:
		out := make(shape.Tuple, len(x))
		for i, it := range x {
			out[i] = clone(it)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(cloneValue(rv.Index(i)))
		}
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return out.Interface()
	}
	return v
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.CanInterface() {
		return v
	}
	if v.Kind() == reflect.Interface && v.IsNil() {
		return v
	}
	c := clone(v.Interface())
	if c == nil {
		return reflect.Zero(v.Type())
	}
	return reflect.ValueOf(c)
}

// Clone returns an independent copy with the same values and an empty
// modified set. Dependency slots are shared, not rebuilt.
func (e *Entity) Clone() *Entity {
	out := &Entity{
		typ:      e.typ,
		values:   make(map[string]any, len(e.values)),
		modified: make(map[string]struct{}),
	}
	for k, v := range e.values {
		if m, ok := e.typ.member(k); ok && m.kind == slotMember {
			out.values[k] = v
			continue
		}
		out.values[k] = clone(v)
	}
	return out
}

// ── field.Storage ────────────────────────────────────────────────────────────

func (e *Entity) Lookup(name string) (any, bool) {
	v, ok := e.values[name]
	return v, ok
}

func (e *Entity) Store(name string, value any) { e.values[name] = value }

// SetModified marks name as modified without changing its value.
func (e *Entity) SetModified(name string) { e.modified[name] = struct{}{} }

func (e *Entity) TypeName() string { return e.typ.name }

// ── Access ───────────────────────────────────────────────────────────────────

// Type returns the entity's schema.
func (e *Entity) Type() *Type { return e.typ }

// Get returns the value of a field or dependency slot.
func (e *Entity) Get(name string) (any, error) {
	m, ok := e.typ.member(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no field %q", field.ErrUnresolved, e.typ.name, name)
	}
	if m.kind == slotMember {
		v, ok := e.values[name]
		if !ok {
			return nil, &field.Error{Kind: field.ErrUnresolved, Entity: e.typ.name, Field: name, Message: "dependency was never resolved"}
		}
		return v, nil
	}
	return m.attr.Get(e)
}

// Set validates value and assigns it, marking the field modified.
// Dependency slots reject every assignment after construction.
func (e *Entity) Set(name string, value any) error {
	m, ok := e.typ.member(name)
	if !ok {
		return fmt.Errorf("%w: %s has no field %q", field.ErrUnresolved, e.typ.name, name)
	}
	if m.kind == slotMember {
		return &field.Error{Kind: field.ErrReadonly, Entity: e.typ.name, Field: name, Message: "dependency slots are readonly"}
	}
	return m.attr.Set(e, value)
}

// Value returns a field as T.
//
//	amount, err := entity.Value[decimal.Decimal](m, "amount")
func Value[T any](e *Entity, name string) (T, error) {
	var zero T
	v, err := e.Get(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s.%s: holds %T, not %s", e.typ.name, name, v, reflect.TypeOf((*T)(nil)).Elem())
	}
	return typed, nil
}

// ── Modification tracking ────────────────────────────────────────────────────

// IsModified reports whether name was set since construction.
func (e *Entity) IsModified(name string) bool {
	_, ok := e.modified[name]
	return ok
}

// ModifiedFields returns the modified field names, sorted. The slice is a
// snapshot; use Modified for a live view.
func (e *Entity) ModifiedFields() []string { return e.Modified().Names() }

// Modified returns a read-only view of the modified set. The view follows
// later sets and the reset at the end of construction.
//
//	mod := payment.Modified()
//	_ = payment.Set("status", "settled")
//	mod.Has("status") // true
func (e *Entity) Modified() ModifiedSet { return ModifiedSet{e: e} }

// ModifiedSet is a live, read-only view of an entity's modified fields.
type ModifiedSet struct {
	e *Entity
}

// Has reports whether name is currently modified.
func (m ModifiedSet) Has(name string) bool { return m.e.IsModified(name) }

// Len returns the number of modified fields.
func (m ModifiedSet) Len() int { return len(m.e.modified) }

// Names returns the modified field names, sorted.
func (m ModifiedSet) Names() []string {
	out := make([]string, 0, len(m.e.modified))
	for name := range m.e.modified {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Fields returns the declared field names, sorted.
func (e *Entity) Fields() []string { return e.typ.Fields() }

// ── Projection ───────────────────────────────────────────────────────────────

// ToMap returns the declared fields and their current values. Nested
// entities are not expanded.
func (e *Entity) ToMap() Values {
	out := make(Values, len(e.typ.members))
	for _, m := range e.typ.members {
		if m.kind != slotMember {
			out[m.name] = e.values[m.name]
		}
	}
	return out
}

// Serialize is ToMap with each field's serializer applied. Nested entities
// are serialized recursively.
func (e *Entity) Serialize() (Values, error) {
	out := make(Values, len(e.typ.members))
	for _, m := range e.typ.members {
		if m.kind == slotMember {
			continue
		}
		v, err := m.attr.Serialize(e)
		if err != nil {
			return nil, err
		}
		if nested, ok := v.(*Entity); ok && nested != nil {
			if v, err = nested.Serialize(); err != nil {
				return nil, err
			}
		}
		out[m.name] = v
	}
	return out, nil
}

// MarshalJSON encodes Serialize.
func (e *Entity) MarshalJSON() ([]byte, error) {
	v, err := e.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any(v))
}

// Equal reports whether o has the same type and equal declared fields.
func (e *Entity) Equal(o *Entity) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.typ != o.typ {
		return false
	}
	for _, m := range e.typ.members {
		if m.kind == slotMember {
			continue
		}
		if !shape.Equal(e.values[m.name], o.values[m.name]) {
			return false
		}
	}
	return true
}

// String renders the entity as Name(field=value, ...) in declaration order.
func (e *Entity) String() string {
	var b strings.Builder
	b.WriteString(e.typ.name)
	b.WriteByte('(')
	first := true
	for _, m := range e.typ.members {
		if m.kind == slotMember {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(m.name)
		b.WriteByte('=')
		b.WriteString(repr(e.values[m.name]))
	}
	b.WriteByte(')')
	return b.String()
}

func repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}

var dumper = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true, DisableCapacities: true}

// Dump returns a detailed multi-line rendering of the entity's storage and
// modified set, for debugging.
func (e *Entity) Dump() string {
	return e.typ.name + " " + dumper.Sdump(struct {
		Values   map[string]any
		Modified []string
	}{e.values, e.ModifiedFields()})
}
