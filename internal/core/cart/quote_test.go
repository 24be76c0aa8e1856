// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tastedees/internal/core/cart"
	"github.com/taibuivan/tastedees/internal/core/product"
)

type stubCatalog map[string]*product.Product

func (s stubCatalog) Get(_ context.Context, id string) (*product.Product, error) {
	if id == "broken" {
		return nil, errors.New("disk unplugged")
	}
	p, ok := s[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func catalog() stubCatalog {
	hidden := tee("hidden", 10, 5)
	hidden.Images = nil
	return stubCatalog{
		"p1":       tee("p1", 20, 3),
		"p2":       tee("p2", 7.5, 10),
		"sold-out": tee("sold-out", 10, 0),
		"hidden":   hidden,
	}
}

/*
TestQuoter_Quote re-prices a cart and reports every change it made.
*/
func TestQuoter_Quote(t *testing.T) {
	q := cart.NewQuoter(catalog())

	quote, err := q.Quote(context.Background(), []cart.Line{
		{ProductID: "p1", SelectedColor: "#000", SelectedSize: "M", Quantity: 5},
		{ProductID: "p2", SelectedColor: "#FFF", SelectedSize: "S", Quantity: 2},
		{ProductID: "gone", SelectedColor: "#000", SelectedSize: "M", Quantity: 1},
		{ProductID: "sold-out", SelectedColor: "#000", SelectedSize: "M", Quantity: 1},
		{ProductID: "hidden", SelectedColor: "#000", SelectedSize: "M", Quantity: 1},
		{ProductID: "p2", SelectedColor: "#F0F", SelectedSize: "S", Quantity: 1},
		{ProductID: "p2", SelectedColor: "#FFF", SelectedSize: "S", Quantity: 0},
	})
	require.NoError(t, err)

	require.Len(t, quote.Items, 2)
	assert.Equal(t, 3, quote.Items[0].Quantity)
	assert.Equal(t, 5, quote.ItemCount)
	assert.Equal(t, 75.0, quote.TotalPrice)

	reasons := make(map[string]string)
	for _, a := range quote.Adjustments {
		reasons[a.ProductID+a.SelectedColor] = a.Reason
	}
	assert.Equal(t, map[string]string{
		"p1#000":       cart.ReasonQuantityReduced,
		"gone#000":     cart.ReasonUnavailable,
		"sold-out#000": cart.ReasonOutOfStock,
		"hidden#000":   cart.ReasonUnavailable,
		"p2#F0F":       cart.ReasonOptionUnavailable,
	}, reasons)
}

func TestQuoter_StorageFailure(t *testing.T) {
	_, err := cart.NewQuoter(catalog()).Quote(context.Background(), []cart.Line{{ProductID: "broken", Quantity: 1}})
	assert.Error(t, err)
}

func TestHandler_Quote(t *testing.T) {
	router := chi.NewRouter()
	router.Mount("/api/cart", cart.NewHandler(cart.NewQuoter(catalog())).Routes())

	request := httptest.NewRequest(http.MethodPost, "/api/cart/quote",
		strings.NewReader(`{"items":[{"productId":"p2","selectedColor":"#FFF","selectedSize":"S","quantity":2}]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, request)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"totalPrice":15`)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	request = httptest.NewRequest(http.MethodPost, "/api/cart/quote", strings.NewReader(`nope`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, request)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
