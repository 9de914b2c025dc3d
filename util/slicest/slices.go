// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package slicest holds small generic slice helpers.
package slicest

// Map returns fn applied to every element of s. A nil s yields an empty,
// non-nil result.
func Map[T, U any, S ~[]T](s S, fn func(T) U) []U {
	result := make([]U, len(s))
	for i, v := range s {
		result[i] = fn(v)
	}
	return result
}

// MapX is Map with error propagation; it stops at the first failure.
func MapX[T, U any, S ~[]T](s S, fn func(T) (U, error)) ([]U, error) {
	result := make([]U, len(s))
	for i, v := range s {
		out, err := fn(v)
		if err != nil {
			return nil, err
		}
		result[i] = out
	}
	return result, nil
}

// ToMap indexes s by the key returned from fn. Later elements win on
// duplicate keys.
func ToMap[T any, K comparable, V any, S ~[]T](s S, fn func(T) (K, V)) map[K]V {
	result := make(map[K]V, len(s))
	for _, t := range s {
		k, v := fn(t)
		result[k] = v
	}
	return result
}

// Find returns the first element matching fn.
func Find[T any, S ~[]T](s S, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
