package field

import (
	"github.com/km-arc/go-entob/framework/shape"
)

// Storage is the per-instance side of a field: a name-keyed value map plus
// the instance's modified set. entity.Entity implements it.
type Storage interface {
	Lookup(name string) (any, bool)
	Store(name string, value any)
	SetModified(name string)
	TypeName() string
}

// Attribute is a Descriptor bound to a field name on an owning type. The
// name is the storage key.
type Attribute struct {
	*Descriptor
	owner string
	name  string
}

// Bind fixes the storage key of d for the owning type. d is shared, not
// copied, and stays untouched.
func (d *Descriptor) Bind(owner, name string) *Attribute {
	return &Attribute{Descriptor: d, owner: owner, name: name}
}

func (a *Attribute) Name() string  { return a.name }
func (a *Attribute) Owner() string { return a.owner }

// Get returns the stored value, or ErrUnresolved when nothing was stored.
func (a *Attribute) Get(s Storage) (any, error) {
	v, ok := s.Lookup(a.name)
	if !ok {
		return nil, newError(ErrUnresolved, s.TypeName(), a.name, "value was never set")
	}
	return v, nil
}

// Set validates raw and stores it, marking the field modified.
//
// Steps, in order: materialize the default for a nil value, coerce,
// required check, readonly check, store nil (nullable), shape check, enum
// check, validator, store.
func (a *Attribute) Set(s Storage, raw any) error {
	entity := s.TypeName()
	value := raw

	if value == nil && a.hasDefault {
		value = a.def
		if a.defFunc != nil {
			value = a.defFunc()
		}
		ok, err := shape.Match(value, a.types...)
		if err != nil || !ok {
			e := newError(ErrConfiguration, entity, a.name,
				"default value %#v must be one of %s", value, shape.Format(a.types))
			e.Cause = err
			return e
		}
	}

	if a.coerce != nil {
		coerced, err := a.coerce(value)
		if err != nil {
			e := newError(ErrInvalid, entity, a.name, "cannot coerce %#v", value)
			e.Cause = err
			return e
		}
		value = coerced
	}

	if value == nil && !a.nullable {
		return newError(ErrRequired, entity, a.name, "value is required")
	}

	if a.readonly {
		if held, ok := s.Lookup(a.name); ok && held != nil {
			return newError(ErrReadonly, entity, a.name, "attribute is readonly")
		}
	}

	if value == nil {
		s.Store(a.name, nil)
		s.SetModified(a.name)
		return nil
	}

	ok, err := shape.Match(value, a.types...)
	if err != nil {
		e := newError(shape.ErrUnsupportedShape, entity, a.name, "cannot check %T against %s", value, shape.Format(a.types))
		e.Cause = err
		return e
	}
	if !ok {
		return newError(ErrType, entity, a.name, "value %#v (%T) must be one of %s", value, value, shape.Format(a.types))
	}

	if a.enums != nil && !shape.Contains(a.enums, value) {
		return newError(ErrEnum, entity, a.name, "value %#v must be one of %v", value, a.enums)
	}

	if a.validate != nil && !a.validate(value) {
		return newError(ErrInvalid, entity, a.name, "value %#v is invalid", value)
	}

	s.Store(a.name, value)
	s.SetModified(a.name)
	return nil
}

// Serialize returns the stored value passed through the descriptor's
// serializer, or the value itself when none is configured.
func (a *Attribute) Serialize(s Storage) (any, error) {
	v, err := a.Get(s)
	if err != nil || a.serialize == nil || v == nil {
		return v, err
	}
	return a.serialize(v), nil
}
