package compose

import "reflect"

// defaultEquals uses == for common comparable types and reflect.DeepEqual
// for everything else.
func defaultEquals[T any](a, b T) bool {
	return valuesEqual(any(a), any(b))
}

// valuesEqual compares two dynamically typed values structurally.
func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case uint64:
		bv, ok := b.(uint64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// keysEqual reports whether two effect key lists are equal component-wise.
func keysEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valuesEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
