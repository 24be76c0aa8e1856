// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"cmp"
	"net/url"
	"slices"

	"github.com/taibuivan/tastedees/pkg/query"
	"github.com/taibuivan/tastedees/pkg/slice"
	"github.com/taibuivan/tastedees/pkg/slug"
)

// SortOrder is a storefront ordering.
type SortOrder string

const (
	SortInsertion SortOrder = ""
	SortFeatured  SortOrder = "featured"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortNewest    SortOrder = "newest"
)

// Filter narrows and orders a listing. The zero value keeps everything in
// insertion order.
type Filter struct {
	// Categories matches by name or slug. Empty or "all" matches every category.
	Categories []string
	MinPrice   *float64
	MaxPrice   *float64
	OnSale     bool
	Sort       SortOrder
}

// FilterFromQuery reads category, minPrice, maxPrice, sale and sort.
// Unknown sort values fall back to insertion order.
func FilterFromQuery(values url.Values) Filter {
	f := Filter{
		Categories: query.StringSlice(values.Get("category")),
		OnSale:     query.Bool(values.Get("sale")),
	}
	if v, ok := query.Float(values.Get("minPrice")); ok {
		f.MinPrice = &v
	}
	if v, ok := query.Float(values.Get("maxPrice")); ok {
		f.MaxPrice = &v
	}
	switch s := SortOrder(values.Get("sort")); s {
	case SortFeatured, SortPriceLow, SortPriceHigh, SortNewest:
		f.Sort = s
	}
	return f
}

// Apply returns the matching products. The input slice is not modified.
func (f Filter) Apply(products []*Product) []*Product {
	out := slice.Filter(products, f.matches)

	// stable so ties keep insertion order
	switch f.Sort {
	case SortFeatured:
		slices.SortStableFunc(out, func(a, b *Product) int { return flag(b.IsBestseller) - flag(a.IsBestseller) })
	case SortNewest:
		slices.SortStableFunc(out, func(a, b *Product) int { return flag(b.IsNew) - flag(a.IsNew) })
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b *Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b *Product) int { return cmp.Compare(b.Price, a.Price) })
	}
	return out
}

func (f Filter) matches(p *Product) bool {
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.OnSale && !p.OnSale() {
		return false
	}
	return f.matchesCategory(p.Category)
}

func (f Filter) matchesCategory(category string) bool {
	if len(f.Categories) == 0 {
		return true
	}
	want := slug.From(category)
	return slice.Any(f.Categories, func(c string) bool {
		return c == "all" || c == category || slug.From(c) == want
	})
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
