// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the small
functional helpers the services use.
*/
package slice

// Map returns transform applied to every element of input.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter returns the elements for which keep is true, in order. The result
// is never nil so it encodes as [] rather than null.
func Filter[T any](input []T, keep func(T) bool) []T {
	result := make([]T, 0, len(input))
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// Any reports whether pred holds for at least one element.
func Any[T any](input []T, pred func(T) bool) bool {
	for _, v := range input {
		if pred(v) {
			return true
		}
	}
	return false
}

// Count returns how many elements satisfy pred.
func Count[T any](input []T, pred func(T) bool) int {
	n := 0
	for _, v := range input {
		if pred(v) {
			n++
		}
	}
	return n
}
