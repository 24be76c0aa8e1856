// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used for records and
uploaded files.

Version 7 values sort by creation time, so ids in the JSON files and in
postgres indexes follow insertion order.
*/
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Prefixed returns prefix + "_" + a compact UUIDv7, e.g. "prod_0190f6…".
func Prefixed(prefix string) string {
	return prefix + "_" + Compact()
}

// Compact returns a UUIDv7 without hyphens.
func Compact() string {
	return strings.ReplaceAll(New(), "-", "")
}
