// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns display strings into ASCII identifiers: URL slugs for
// categories and safe names for uploaded files.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	nonFilename     = regexp.MustCompile(`[^a-z0-9.-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	multiHyphen     = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
//	From("New Arrivals")  // "new-arrivals"
//	From("Été Collection") // "ete-collection"
func From(s string) string {
	result := strings.ToLower(fold(s))

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Filename sanitises an uploaded file name. Accents are folded first, then:
// lowercase, whitespace runs become hyphens, everything outside [a-z0-9-.] is
// dropped, hyphen runs collapse and leading/trailing hyphens are trimmed.
//
//	Filename("My Summer Tee!!.PNG") // "my-summer-tee.png"
func Filename(name string) string {
	result := strings.ToLower(fold(name))
	result = whitespace.ReplaceAllString(result, "-")
	result = nonFilename.ReplaceAllString(result, "")
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// fold decomposes to NFD and drops combining marks (é -> e).
func fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
