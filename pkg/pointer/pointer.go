// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer helps with the optional fields of partial-update payloads,
// where nil means "not provided".
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Fallback dereferences p, or returns fallback if p is nil.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// Assign copies *src into *dst when src is non-nil and reports whether it did.
func Assign[T any](dst *T, src *T) bool {
	if src == nil {
		return false
	}
	*dst = *src
	return true
}
