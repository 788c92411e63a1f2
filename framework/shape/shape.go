package shape

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrUnsupportedShape is returned when Match meets a shape it does not know
// how to destructure. It signals a broken schema, not bad input.
var ErrUnsupportedShape = errors.New("shape: unsupported shape")

// Kind identifies the variant of a Shape.
type Kind int

const (
	KindInvalid Kind = iota
	KindType
	KindOneOf
	KindSlice
	KindSet
	KindTuple
	KindMap

	// KindTotal is the number of kinds defined
	KindTotal = int(iota)
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindOneOf:
		return "one_of"
	case KindSlice:
		return "slice"
	case KindSet:
		return "set"
	case KindTuple:
		return "tuple"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Shape is a declared type constraint: a concrete type, a union of shapes
// or a single-level generic container of a shape.
type Shape struct {
	kind  Kind
	typ   reflect.Type
	elems []Shape
}

// ── Constructors ─────────────────────────────────────────────────────────────

// Of returns the shape of the static type T.
//
//	shape.Of[string]()
//	shape.Of[fmt.Stringer]()   // any value implementing fmt.Stringer
func Of[T any]() Shape {
	return TypeOf(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeOf returns the shape of t.
func TypeOf(t reflect.Type) Shape {
	if t == nil {
		return Shape{}
	}
	return Shape{kind: KindType, typ: t}
}

// OneOf accepts a value matching any of the given shapes.
func OneOf(shapes ...Shape) Shape {
	return Shape{kind: KindOneOf, elems: shapes}
}

// SliceOf accepts an unnamed slice whose elements all match elem.
func SliceOf(elem Shape) Shape {
	return Shape{kind: KindSlice, elems: []Shape{elem}}
}

// SetOf accepts a Set (or an unnamed map[K]struct{}) whose members all match elem.
func SetOf(elem Shape) Shape {
	return Shape{kind: KindSet, elems: []Shape{elem}}
}

// TupleOf accepts a Tuple of exactly len(elems) items matching positionally.
func TupleOf(elems ...Shape) Shape {
	return Shape{kind: KindTuple, elems: elems}
}

// MapOf describes a keyed container. Match does not destructure it and
// reports ErrUnsupportedShape.
func MapOf(key, value Shape) Shape {
	return Shape{kind: KindMap, elems: []Shape{key, value}}
}

// ── Accessors ────────────────────────────────────────────────────────────────

// Kind returns the variant of s.
func (s Shape) Kind() Kind { return s.kind }

// Type returns the concrete type of a KindType shape, nil otherwise.
func (s Shape) Type() reflect.Type { return s.typ }

// Elems returns the nested shapes of a union or container shape.
func (s Shape) Elems() []Shape { return s.elems }

// String renders the shape the way it is written in Go where possible.
func (s Shape) String() string {
	switch s.kind {
	case KindType:
		return s.typ.String()
	case KindOneOf:
		return join(s.elems, " | ")
	case KindSlice:
		return "[]" + s.elems[0].String()
	case KindSet:
		return "set[" + s.elems[0].String() + "]"
	case KindTuple:
		return "tuple[" + join(s.elems, ", ") + "]"
	case KindMap:
		return "map[" + s.elems[0].String() + "]" + s.elems[1].String()
	default:
		return "<invalid>"
	}
}

// Format renders a list of shapes as an accepted-set description.
func Format(shapes []Shape) string {
	return "(" + join(shapes, ", ") + ")"
}

func join(shapes []Shape, sep string) string {
	parts := make([]string, len(shapes))
	for i, s := range shapes {
		parts[i] = s.String()
	}
	return strings.Join(parts, sep)
}

// ── Containers ───────────────────────────────────────────────────────────────

// Set is the set container recognised by SetOf.
type Set map[any]struct{}

// NewSet builds a Set from items. Items must be comparable.
func NewSet(items ...any) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Has reports whether v is a member of s.
func (s Set) Has(v any) bool {
	_, ok := s[v]
	return ok
}

// Tuple is the fixed-size container recognised by TupleOf.
type Tuple []any

var (
	setType   = reflect.TypeOf(Set(nil))
	tupleType = reflect.TypeOf(Tuple(nil))
	emptyType = reflect.TypeOf(struct{}{})
)

// Validate reports ErrUnsupportedShape if s, or anything nested in it,
// can never be matched.
func (s Shape) Validate() error {
	switch s.kind {
	case KindType:
		return nil
	case KindOneOf, KindSlice, KindSet, KindTuple:
		for _, e := range s.elems {
			if err := e.Validate(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedShape, s)
	}
}
