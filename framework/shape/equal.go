package shape

import "reflect"

// Equal compares two field values. When the dynamic type of a declares an
// Equal method taking its own type and returning bool (decimal.Decimal,
// time.Time), that method decides; otherwise reflect.DeepEqual does.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if m := va.MethodByName("Equal"); m.IsValid() {
		mt := m.Type()
		if mt.NumIn() == 1 && mt.NumOut() == 1 &&
			mt.In(0) == va.Type() && mt.Out(0).Kind() == reflect.Bool {
			return m.Call([]reflect.Value{vb})[0].Bool()
		}
	}
	return reflect.DeepEqual(a, b)
}

// Contains reports whether v equals any member of values.
func Contains(values []any, v any) bool {
	for _, candidate := range values {
		if Equal(candidate, v) {
			return true
		}
	}
	return false
}
