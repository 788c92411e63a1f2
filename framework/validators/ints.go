package validators

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/km-arc/go-entob/framework/field"
	"github.com/km-arc/go-entob/framework/shape"
)

// ── Coercers ─────────────────────────────────────────────────────────────────

// ToInt converts strings, integer kinds and integral floats to int. nil
// passes through so that defaults and nullability still apply.
func ToInt(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int:
		return x, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	case float64:
		// JSON numbers decode as float64. float64(math.MaxInt) is 2^63,
		// which int cannot hold.
		if x != math.Trunc(x) || x >= math.MaxInt || x < math.MinInt {
			return nil, fmt.Errorf("%v is not an integer", x)
		}
		return int(x), nil
	case float32:
		return ToInt(float64(x))
	case bool:
		return nil, errors.New("bool is not an integer")
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt {
			return nil, fmt.Errorf("%v overflows int", v)
		}
		return int(rv.Uint()), nil
	}
	return nil, fmt.Errorf("cannot convert %T to int", v)
}

// ToBool converts bools and the strings true/false/1/0/yes/no/on/off.
func ToBool(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case string:
		return parseBool(x)
	}
	return nil, fmt.Errorf("cannot convert %T to bool", v)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

// ── Collections ──────────────────────────────────────────────────────────────

// Each returns a validator passing when every element of a slice, array,
// shape.Set or shape.Tuple passes fn. Empty collections pass.
func Each(fn func(any) bool) func(any) bool {
	return func(v any) bool {
		ok := true
		eachElem(v, func(e any) {
			if ok && !fn(e) {
				ok = false
			}
		})
		return ok
	}
}

// CoerceEach returns a coercer applying fn to every element of a slice or
// array, producing a []any. Other values pass through unchanged.
//
//	tags := field.MustDescribe(
//	    field.Types(shape.SliceOf(shape.Of[string]())),
//	    field.Coerce(validators.CoerceEach(validators.Trim)),
//	)
//
// The result is []any, so pair it with a conversion when the field's shape
// names a concrete slice type (see Strings).
func CoerceEach(fn func(any) (any, error)) func(any) (any, error) {
	return func(v any) (any, error) {
		rv := reflect.ValueOf(v)
		if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return v, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			c, err := fn(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	}
}

// Strings converts a []any of strings into []string. Other values pass
// through unchanged, so the shape check still rejects them.
func Strings(v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return v, nil
	}
	out := make([]string, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return v, nil
		}
		out[i] = s
	}
	return out, nil
}

// Chain composes coercers left to right.
func Chain(fns ...func(any) (any, error)) func(any) (any, error) {
	return func(v any) (any, error) {
		var err error
		for _, fn := range fns {
			if v, err = fn(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}

// Trim trims surrounding whitespace from strings.
func Trim(v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return v, nil
}

func eachElem(v any, fn func(any)) {
	switch x := v.(type) {
	case shape.Set:
		for k := range x {
			fn(k)
		}
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			fn(rv.Index(i).Interface())
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			fn(iter.Key().Interface())
		}
	}
}

// ── Bounded integers ─────────────────────────────────────────────────────────

// IntOption adjusts a bounded integer descriptor.
type IntOption func(*intConfig)

type intConfig struct {
	readonly bool
	coerce   func(any) (any, error)
}

// IntReadonly makes the field readonly.
func IntReadonly() IntOption { return func(c *intConfig) { c.readonly = true } }

// IntCoerce replaces the ToInt coercer.
func IntCoerce(fn func(any) (any, error)) IntOption {
	return func(c *intConfig) { c.coerce = fn }
}

// BoundedInt describes a required int field within [min, max].
//
//	quantity := validators.BoundedInt(1, 100)
func BoundedInt(min, max int, opts ...IntOption) (*field.Descriptor, error) {
	if min > max {
		return nil, fmt.Errorf("%w: bounds [%d, %d] are empty", field.ErrConfiguration, min, max)
	}
	cfg := intConfig{coerce: ToInt}
	for _, opt := range opts {
		opt(&cfg)
	}
	fo := []field.Option{
		field.Types(shape.Of[int]()),
		field.Coerce(cfg.coerce),
		field.Validate(func(v any) bool {
			n := v.(int)
			return min <= n && n <= max
		}),
	}
	if cfg.readonly {
		fo = append(fo, field.Readonly())
	}
	return field.Describe(fo...)
}

// MustBoundedInt is like BoundedInt but panics on error.
func MustBoundedInt(min, max int, opts ...IntOption) *field.Descriptor {
	d, err := BoundedInt(min, max, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// PositiveInt describes an int field ≥ 1.
func PositiveInt(opts ...IntOption) *field.Descriptor {
	return MustBoundedInt(1, math.MaxInt, opts...)
}

// NonNegativeInt describes an int field ≥ 0.
func NonNegativeInt(opts ...IntOption) *field.Descriptor {
	return MustBoundedInt(0, math.MaxInt, opts...)
}

// NegativeInt describes an int field ≤ -1.
func NegativeInt(opts ...IntOption) *field.Descriptor {
	return MustBoundedInt(math.MinInt, -1, opts...)
}

// NonPositiveInt describes an int field ≤ 0.
func NonPositiveInt(opts ...IntOption) *field.Descriptor {
	return MustBoundedInt(math.MinInt, 0, opts...)
}
