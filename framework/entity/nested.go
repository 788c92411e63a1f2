package entity

import (
	"github.com/km-arc/go-entob/framework/field"
	"github.com/km-arc/go-entob/framework/shape"
)

// Is returns a validator accepting entities of t or of a type extending t.
func Is(t *Type) func(any) bool {
	return func(v any) bool {
		e, ok := v.(*Entity)
		return ok && e != nil && e.typ.Extends(t)
	}
}

// Build returns a coercer that constructs an entity of t from a mapping.
// Entities and nil pass through unchanged.
func Build(t *Type) func(any) (any, error) {
	return func(v any) (any, error) {
		switch x := v.(type) {
		case Values:
			return t.New(x)
		case map[string]any:
			return t.New(x)
		}
		return v, nil
	}
}

// Nested returns the descriptor options of a field holding an entity of t:
// the entity shape, construction from mappings and the type check.
//
//	money := field.MustDescribe(entity.Nested(Money)...)
func Nested(t *Type) []field.Option {
	return []field.Option{
		field.Types(shape.Of[*Entity]()),
		field.Coerce(Build(t)),
		field.Validate(Is(t)),
	}
}
