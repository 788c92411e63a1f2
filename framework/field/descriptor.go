package field

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/km-arc/go-entob/framework/shape"
)

// ── Descriptor ───────────────────────────────────────────────────────────────

// Descriptor is the validation contract of one field. It is the schema, not
// the data: one Descriptor is shared by every instance of the owning type and
// is never modified after Describe returns.
type Descriptor struct {
	types      []shape.Shape
	def        any
	defFunc    func() any
	hasDefault bool
	nullable   bool
	enums      []any
	validate   func(any) bool
	coerce     func(any) (any, error)
	serialize  func(any) any
	readonly   bool

	// option errors are collected and reported by Describe
	errs []error
}

// Option configures a Descriptor.
type Option func(d *Descriptor)

// Types sets the accepted shapes. At least one is required.
func Types(shapes ...shape.Shape) Option {
	return func(d *Descriptor) { d.types = append(d.types, shapes...) }
}

// Default sets a literal default used whenever the field is assigned nil.
// The literal must itself satisfy the declared types.
func Default(v any) Option {
	return func(d *Descriptor) {
		d.def, d.defFunc, d.hasDefault = v, nil, v != nil
	}
}

// DefaultFunc sets a producer invoked each time the field is assigned nil.
func DefaultFunc(fn func() any) Option {
	return func(d *Descriptor) {
		if fn == nil {
			d.errs = append(d.errs, configErr("default producer must not be nil"))
			return
		}
		d.def, d.defFunc, d.hasDefault = nil, fn, true
	}
}

// Nullable allows nil as a stored value.
func Nullable() Option {
	return func(d *Descriptor) { d.nullable = true }
}

// Readonly forbids reassigning the field once it holds a non-nil value.
func Readonly() Option {
	return func(d *Descriptor) { d.readonly = true }
}

// Enum restricts the field to the given values.
func Enum(values ...any) Option {
	return func(d *Descriptor) { d.enums = append([]any(nil), values...) }
}

// Enums restricts the field to the members of collection, which must be a
// slice, an array or a shape.Set. An empty collection leaves the field
// unrestricted, like Enum with no values.
func Enums(collection any) Option {
	return func(d *Descriptor) {
		values, err := members(collection)
		if err != nil {
			d.errs = append(d.errs, err)
			return
		}
		if len(values) == 0 {
			values = nil
		}
		d.enums = values
	}
}

// Validate adds a predicate run on the coerced, type-checked value.
func Validate(fn func(any) bool) Option {
	return func(d *Descriptor) {
		if fn == nil {
			d.errs = append(d.errs, configErr("validate must be a function"))
			return
		}
		d.validate = fn
	}
}

// Coerce adds a transform applied to the raw value before any check. It
// receives nil when no value and no default are available.
func Coerce(fn func(any) (any, error)) Option {
	return func(d *Descriptor) {
		if fn == nil {
			d.errs = append(d.errs, configErr("coerce must be a function"))
			return
		}
		d.coerce = fn
	}
}

// Serialize sets the function Entity.Serialize applies to the stored value.
func Serialize(fn func(any) any) Option {
	return func(d *Descriptor) {
		if fn == nil {
			d.errs = append(d.errs, configErr("serialize must be a function"))
			return
		}
		d.serialize = fn
	}
}

// Describe builds a Descriptor and fails fast on a malformed configuration.
//
//	amount, err := field.Describe(
//	    field.Types(shape.Of[decimal.Decimal]()),
//	    field.Coerce(toCents),
//	)
func Describe(opts ...Option) (*Descriptor, error) {
	d := &Descriptor{}
	for _, opt := range opts {
		opt(d)
	}
	if len(d.errs) > 0 {
		return nil, errors.Join(d.errs...)
	}
	d.errs = nil

	if len(d.types) == 0 {
		return nil, configErr("at least one type is required")
	}
	for _, s := range d.types {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	if d.hasDefault && d.defFunc == nil {
		ok, err := shape.Match(d.def, d.types...)
		if err != nil || !ok {
			return nil, configErr("default value %#v must be one of %s or a function", d.def, shape.Format(d.types))
		}
	}
	return d, nil
}

// MustDescribe is like Describe but panics on error. Use it for
// package-level schema declarations.
func MustDescribe(opts ...Option) *Descriptor {
	d, err := Describe(opts...)
	if err != nil {
		panic("field: " + err.Error())
	}
	return d
}

// ── Accessors ────────────────────────────────────────────────────────────────

func (d *Descriptor) Shapes() []shape.Shape { return append([]shape.Shape(nil), d.types...) }
func (d *Descriptor) IsNullable() bool      { return d.nullable }
func (d *Descriptor) IsReadonly() bool      { return d.readonly }
func (d *Descriptor) HasDefault() bool      { return d.hasDefault }

// Enums returns the allowed values, or nil when the field is unrestricted.
func (d *Descriptor) Enums() []any {
	if d.enums == nil {
		return nil
	}
	return append([]any(nil), d.enums...)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func members(collection any) ([]any, error) {
	if set, ok := collection.(shape.Set); ok {
		out := make([]any, 0, len(set))
		for v := range set {
			out = append(out, v)
		}
		return out, nil
	}
	rv := reflect.ValueOf(collection)
	if collection == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, configErr("enums must be a slice, an array or a shape.Set, got %T", collection)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
