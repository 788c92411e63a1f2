// Package shape describes and checks the runtime shape of field values.
//
// # Shapes
//
// A Shape is a small closed variant:
//
//	shape.Of[int]()                                  // exactly int
//	shape.Of[fmt.Stringer]()                         // anything implementing fmt.Stringer
//	shape.OneOf(shape.Of[int](), shape.Of[string]()) // int | string
//	shape.SliceOf(shape.Of[int]())                   // []int, []any{1, 2}
//	shape.SetOf(shape.Of[string]())                  // shape.Set, map[string]struct{}
//	shape.TupleOf(shape.Of[int](), shape.Of[int]())  // shape.Tuple{1, 2}
//
// MapOf exists so that schemas can name a keyed container, but Match refuses
// to destructure it and returns ErrUnsupportedShape instead of approving.
//
// # Container kinds
//
// Container checks are exact. A shape.Tuple is not a slice for SliceOf, a
// named slice type is not an unnamed one, and a Set never satisfies SliceOf
// even when its members would. Empty containers match any element shape.
//
// # Booleans
//
// Go keeps bool and the integer types apart and so does Match: true does not
// satisfy Of[int](). Declare OneOf(Of[int](), Of[bool]()) when both are wanted.
package shape
