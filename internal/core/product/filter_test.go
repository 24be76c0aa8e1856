// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tastedees/internal/core/product"
	"github.com/taibuivan/tastedees/pkg/pointer"
)

func catalogue() []*product.Product {
	return []*product.Product{
		{ID: "a", Name: "Urban", Price: 29.99, Category: "Street Style", IsNew: true},
		{ID: "b", Name: "Line", Price: 24.99, Category: "Minimalist", IsBestseller: true},
		{ID: "c", Name: "Sunset", Price: 34.99, Category: "Vintage", OriginalPrice: pointer.To(44.99)},
		{ID: "d", Name: "Canvas", Price: 39.99, Category: "Art Series", IsBestseller: true},
	}
}

func ids(products []*product.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

/*
TestFilter_Apply covers the storefront filters and orderings.
*/
func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filter keeps insertion order", "", []string{"a", "b", "c", "d"}},
		{"category by slug", "category=art-series", []string{"d"}},
		{"category by name and slug", "category=Vintage,street-style", []string{"a", "c"}},
		{"all", "category=all", []string{"a", "b", "c", "d"}},
		{"price range", "minPrice=25&maxPrice=35", []string{"a", "c"}},
		{"malformed price ignored", "minPrice=cheap", []string{"a", "b", "c", "d"}},
		{"on sale", "sale=true", []string{"c"}},
		{"price low", "sort=price-low", []string{"b", "a", "c", "d"}},
		{"price high", "sort=price-high", []string{"d", "c", "a", "b"}},
		{"featured is stable", "sort=featured", []string{"b", "d", "a", "c"}},
		{"newest", "sort=newest", []string{"a", "b", "c", "d"}},
		{"unknown sort", "sort=random", []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			assert.Equal(t, tt.want, ids(product.FilterFromQuery(values).Apply(catalogue())))
		})
	}
}

func TestFilter_DoesNotReorderInput(t *testing.T) {
	in := catalogue()
	product.Filter{Sort: product.SortPriceHigh}.Apply(in)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(in))
}
