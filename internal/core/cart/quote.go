// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"context"
	"errors"
	"slices"

	"github.com/taibuivan/tastedees/internal/core/product"
	"github.com/taibuivan/tastedees/internal/platform/apperr"
	"github.com/taibuivan/tastedees/internal/platform/validate"
)

// Catalog looks up current product state.
type Catalog interface {
	Get(ctx context.Context, id string) (*product.Product, error)
}

// Line is a requested cart line.
type Line struct {
	ProductID     string `json:"productId"`
	SelectedColor string `json:"selectedColor"`
	SelectedSize  string `json:"selectedSize"`
	Quantity      int    `json:"quantity"`
}

// Adjustment reasons.
const (
	ReasonUnavailable       = "unavailable"
	ReasonOutOfStock        = "out_of_stock"
	ReasonOptionUnavailable = "option_unavailable"
	ReasonQuantityReduced   = "quantity_reduced"
)

// Adjustment records a line the quote changed or dropped.
type Adjustment struct {
	ProductID     string `json:"productId"`
	SelectedColor string `json:"selectedColor"`
	SelectedSize  string `json:"selectedSize"`
	Reason        string `json:"reason"`
	Requested     int    `json:"requested"`
	Granted       int    `json:"granted"`
}

// Quote is a cart priced against the live catalogue.
type Quote struct {
	Items       []Item       `json:"items"`
	ItemCount   int          `json:"itemCount"`
	TotalPrice  float64      `json:"totalPrice"`
	Adjustments []Adjustment `json:"adjustments"`
}

// maxQuoteLines bounds a single quote request.
const maxQuoteLines = 100

// Quoter prices carts.
type Quoter struct {
	catalog Catalog
}

func NewQuoter(catalog Catalog) *Quoter {
	return &Quoter{catalog: catalog}
}

/*
Quote rebuilds the cart from current product data. Lines for missing,
hidden or sold-out products are dropped, unknown colour or size options are
dropped, and quantities are re-bounded by current stock.

Returns:
  - error: VALIDATION_ERROR or StorageFailure
*/
func (q *Quoter) Quote(ctx context.Context, lines []Line) (*Quote, error) {
	v := &validate.Validator{}
	v.Custom("items", len(lines) > maxQuoteLines, "Too many cart lines")
	if err := v.Err(); err != nil {
		return nil, err
	}

	var (
		c           Cart
		adjustments = []Adjustment{}
	)

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		adjust := func(reason string, granted int) {
			adjustments = append(adjustments, Adjustment{
				ProductID:     line.ProductID,
				SelectedColor: line.SelectedColor,
				SelectedSize:  line.SelectedSize,
				Reason:        reason,
				Requested:     line.Quantity,
				Granted:       granted,
			})
		}

		p, err := q.catalog.Get(ctx, line.ProductID)
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			adjust(ReasonUnavailable, 0)
			continue
		case err != nil:
			return nil, apperr.StorageFailure("Failed to price cart", err)
		}

		switch {
		case !p.Visible():
			adjust(ReasonUnavailable, 0)
			continue
		case p.Stock <= 0:
			adjust(ReasonOutOfStock, 0)
			continue
		case !offers(p.Colors, line.SelectedColor) || !offers(p.Sizes, line.SelectedSize):
			adjust(ReasonOptionUnavailable, 0)
			continue
		}

		key := Key{ProductID: p.ID, Color: line.SelectedColor, Size: line.SelectedSize}
		before := c.Quantity(key)
		c = c.Apply(Action{Kind: ActionAdd, Product: p, Key: key, Quantity: line.Quantity})
		if granted := c.Quantity(key) - before; granted < line.Quantity {
			adjust(ReasonQuantityReduced, granted)
		}
	}

	items := c.Items()
	if items == nil {
		items = []Item{}
	}
	return &Quote{
		Items:       items,
		ItemCount:   c.ItemCount(),
		TotalPrice:  c.TotalPrice(),
		Adjustments: adjustments,
	}, nil
}

// offers reports whether choice is one of options. Products without options
// accept an empty choice only.
func offers(options []string, choice string) bool {
	if len(options) == 0 {
		return choice == ""
	}
	return slices.Contains(options, choice)
}
