package cell

import "reflect"

// ShallowEqual reports whether two maps have the same keys and, per key,
// values that are == when comparable. Values of uncomparable types (slices,
// maps, funcs) are equal only if they are the same reference.
func ShallowEqual[K comparable, V any](a, b map[K]V) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !sameValue(av, bv) {
			return false
		}
	}
	return true
}

// ShallowEqualSlices reports whether two slices have pairwise equal elements
// under eq.
func ShallowEqualSlices[T any](a, b []T, eq func(T, T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Comparable() {
		return a == b
	}
	switch ra.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func, reflect.Pointer:
		if ra.Kind() == reflect.Slice && ra.Len() != rb.Len() {
			return false
		}
		return ra.Pointer() == rb.Pointer()
	}
	return false
}
