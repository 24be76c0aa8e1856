// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-endpoint query parameters. Malformed values are
// treated as absent rather than rejected.
package query

import (
	"math"
	"strconv"
	"strings"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Float parses val as a float64. The second result is false when val is
// empty or not a finite number.
func Float(val string) (float64, bool) {
	if val == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Bool parses "true", "1", "false", "0" and the other forms strconv accepts.
// It returns false on an empty string or a parse error.
func Bool(val string) bool {
	b, err := strconv.ParseBool(val)
	return err == nil && b
}
