// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package product implements the catalogue: the product store, the valid image
reference rule, the one-time legacy migration and the product HTTP API.

A product is publicly visible iff it has at least one valid image reference.
Admin listings see every product.
*/
package product

import (
	"errors"
	"strings"
	"time"

	"github.com/taibuivan/tastedees/pkg/slice"
)

// # Domain Entities

// Product is a catalogue record.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Category      string    `json:"category"`
	Colors        []string  `json:"colors"`
	Description   string    `json:"description"`
	Sizes         []string  `json:"sizes"`
	Stock         int       `json:"stock"`
	IsNew         bool      `json:"isNew"`
	IsBestseller  bool      `json:"isBestseller"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Visible reports whether the product may be shown on the storefront.
func (p *Product) Visible() bool {
	return slice.Any(p.Images, ValidImageRef)
}

// OnSale reports whether a reference price is set.
func (p *Product) OnSale() bool {
	return p.OriginalPrice != nil
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	c := *p
	c.Colors = append([]string(nil), p.Colors...)
	c.Sizes = append([]string(nil), p.Sizes...)
	c.Images = append([]string(nil), p.Images...)
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		c.OriginalPrice = &op
	}
	return &c
}

// # Image References

// ValidImageRef reports whether ref can be served to a browser: a site-local
// absolute path or an http(s) URL. Local file URIs, empty values and
// protocol-relative "//host/..." references never are.
func ValidImageRef(ref string) bool {
	switch {
	case ref == "":
		return false
	case strings.HasPrefix(ref, "file://"):
		return false
	case strings.HasPrefix(ref, "//"), strings.HasPrefix(ref, "/\\"):
		return false
	case strings.HasPrefix(ref, "/"):
		return true
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return true
	default:
		return false
	}
}

// FilterImages keeps the valid references of refs in order.
func FilterImages(refs []string) []string {
	return slice.Filter(refs, ValidImageRef)
}

// # Listing Scope

// Scope selects which products a listing returns.
type Scope string

const (
	// ScopePublic lists only visible products.
	ScopePublic Scope = "public"
	// ScopeAdmin lists everything.
	ScopeAdmin Scope = "admin"
)

// ScopeFromSource maps the ?source= query value; anything but "admin" is public.
func ScopeFromSource(source string) Scope {
	if source == string(ScopeAdmin) {
		return ScopeAdmin
	}
	return ScopePublic
}

// # Errors

// ErrProductNotFound is returned when no product has the requested id.
var ErrProductNotFound = errors.New("product: not found")

// # Field Identifiers

const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldPrice         = "price"
	FieldOriginalPrice = "originalPrice"
	FieldStock         = "stock"
	FieldProduct       = "product"
	FieldProducts      = "products"
	FieldCategories    = "categories"
)
