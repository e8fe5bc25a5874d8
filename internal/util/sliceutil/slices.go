// Package sliceutil has the slice helpers missing from the standard slices package.
package sliceutil

func Map[T any, U any, F ~func(T) U](items []T, f F) []U {
	res := make([]U, len(items))
	for i, item := range items {
		res[i] = f(item)
	}
	return res
}

// Filter returns the items for which keep holds, in their original order. items is not
// modified.
func Filter[T any, F ~func(T) bool](items []T, keep F) []T {
	var res []T
	for _, item := range items {
		if keep(item) {
			res = append(res, item)
		}
	}
	return res
}

