// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tastedees/internal/core/product"
)

/*
TestValidImageRef covers the accepted and rejected reference shapes.
*/
func TestValidImageRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"/images/x.png", true},
		{"http://a/b.png", true},
		{"https://a/b.png", true},
		{"file:///etc/passwd", false},
		{"", false},
		{"images/x.png", false},
		{"C:\\images\\x.png", false},
		{"ftp://a/b.png", false},
		{"//evil.example/x.png", false},
		{"/\\evil.example/x.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, product.ValidImageRef(tt.ref))
		})
	}
}

func TestFilterImages_KeepsOrder(t *testing.T) {
	got := product.FilterImages([]string{"https://cdn/b.png", "file:///tmp/a.png", "", "/images/a.png"})
	assert.Equal(t, []string{"https://cdn/b.png", "/images/a.png"}, got)
	assert.NotNil(t, product.FilterImages(nil))
}

func TestProduct_Visible(t *testing.T) {
	assert.True(t, (&product.Product{Images: []string{"file:///x", "/images/y.png"}}).Visible())
	assert.False(t, (&product.Product{Images: []string{"file:///x"}}).Visible())
	assert.False(t, (&product.Product{}).Visible())
}

func TestScopeFromSource(t *testing.T) {
	assert.Equal(t, product.ScopeAdmin, product.ScopeFromSource("admin"))
	assert.Equal(t, product.ScopePublic, product.ScopeFromSource(""))
	assert.Equal(t, product.ScopePublic, product.ScopeFromSource("ADMIN"))
}
