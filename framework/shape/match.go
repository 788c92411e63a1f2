package shape

import (
	"fmt"
	"reflect"
)

// Match reports whether value conforms to any of shapes. Alternatives are
// tried in order and the first match wins, so an unsupported shape placed
// after a matching one is never inspected.
//
// A nil value never matches; nullability is the caller's concern.
//
// bool and the integer types are disjoint: true does not satisfy Of[int]().
func Match(value any, shapes ...Shape) (bool, error) {
	for _, s := range shapes {
		ok, err := match(value, s)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func match(value any, s Shape) (bool, error) {
	switch s.kind {
	case KindType:
		return matchType(value, s.typ), nil
	case KindOneOf:
		return Match(value, s.elems...)
	case KindSlice:
		return matchSlice(value, s.elems[0])
	case KindSet:
		return matchSet(value, s.elems[0])
	case KindTuple:
		return matchTuple(value, s.elems)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedShape, s)
	}
}

func matchType(value any, t reflect.Type) bool {
	if value == nil {
		return false
	}
	vt := reflect.TypeOf(value)
	if t.Kind() == reflect.Interface {
		return vt.Implements(t)
	}
	return vt == t
}

// matchSlice accepts only unnamed slice types; Tuple, arrays and named
// slice types are different container kinds.
func matchSlice(value any, elem Shape) (bool, error) {
	if value == nil {
		return false, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Type().Name() != "" {
		return false, nil
	}
	for i := 0; i < rv.Len(); i++ {
		ok, err := match(rv.Index(i).Interface(), elem)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchSet(value any, elem Shape) (bool, error) {
	if value == nil {
		return false, nil
	}
	rv := reflect.ValueOf(value)
	t := rv.Type()
	if t != setType && (t.Kind() != reflect.Map || t.Name() != "" || t.Elem() != emptyType) {
		return false, nil
	}
	iter := rv.MapRange()
	for iter.Next() {
		ok, err := match(iter.Key().Interface(), elem)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchTuple(value any, elems []Shape) (bool, error) {
	tup, ok := value.(Tuple)
	if !ok || len(tup) != len(elems) {
		return false, nil
	}
	for i, item := range tup {
		ok, err := match(item, elems[i])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
