// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/tastedees/internal/platform/apperr"
	"github.com/taibuivan/tastedees/internal/platform/clock"
	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/internal/platform/ctxutil"
	"github.com/taibuivan/tastedees/internal/platform/events"
	"github.com/taibuivan/tastedees/internal/platform/validate"
	"github.com/taibuivan/tastedees/pkg/pointer"
	"github.com/taibuivan/tastedees/pkg/slice"
	"github.com/taibuivan/tastedees/pkg/slug"
	"github.com/taibuivan/tastedees/pkg/uuid"
)

// # Inputs

// CreateInput carries a new product. Nil slices and a nil Stock take the
// catalogue defaults.
type CreateInput struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Category      string   `json:"category"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	Stock         *int     `json:"stock"`
	IsNew         bool     `json:"isNew"`
	IsBestseller  bool     `json:"isBestseller"`
	Images        []string `json:"images"`
}

// Patch is a partial update. A nil field keeps the stored value.
type Patch struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	Category      *string   `json:"category"`
	Colors        *[]string `json:"colors"`
	Sizes         *[]string `json:"sizes"`
	Stock         *int      `json:"stock"`
	IsNew         *bool     `json:"isNew"`
	IsBestseller  *bool     `json:"isBestseller"`
	Images        *[]string `json:"images"`
}

// Category is a derived catalogue category.
type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// # Events

const (
	EventCreated = "product.created"
	EventUpdated = "product.updated"
	EventDeleted = "product.deleted"
)

// Event is published after every committed catalogue mutation.
type Event struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"productId"`
	Product    *Product  `json:"product,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// # Service

// Service implements the catalogue use cases.
type Service struct {
	products Repository
	events   events.Publisher
	clock    clock.Clock
}

// NewService constructs a [Service]. A nil publisher discards events.
func NewService(products Repository, publisher events.Publisher, clk clock.Clock) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{products: products, events: publisher, clock: clk}
}

// List returns the catalogue in insertion order. The public scope drops
// products without a valid image.
func (service *Service) List(ctx context.Context, scope Scope) ([]*Product, error) {
	all, err := service.products.List(ctx)
	if err != nil {
		return nil, apperr.StorageFailure("Failed to fetch products", err)
	}
	if scope == ScopeAdmin {
		return all, nil
	}
	return slice.Filter(all, (*Product).Visible), nil
}

func (service *Service) Get(ctx context.Context, id string) (*Product, error) {
	p, err := service.products.Get(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Failed to fetch product")
	}
	return p, nil
}

/*
Create validates input, applies the defaults and appends the product.

Returns:
  - error: VALIDATION_ERROR or StorageFailure
*/
func (service *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	v := &validate.Validator{}
	v.Required(FieldName, in.Name).
		Required(FieldDescription, in.Description).
		Custom(FieldPrice, in.Price == nil, "Price is required")
	if in.Price != nil {
		v.NonNegative(FieldPrice, *in.Price)
	}
	if in.OriginalPrice != nil {
		v.NonNegative(FieldOriginalPrice, *in.OriginalPrice)
	}
	if in.Stock != nil {
		v.NonNegative(FieldStock, float64(*in.Stock))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := service.clock.Now()
	p := &Product{
		ID:            uuid.Prefixed("prod"),
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         *in.Price,
		OriginalPrice: in.OriginalPrice,
		Category:      orDefault(strings.TrimSpace(in.Category), constants.DefaultCategory),
		Colors:        sliceOrDefault(in.Colors, constants.DefaultColors),
		Sizes:         sliceOrDefault(in.Sizes, constants.DefaultSizes),
		Stock:         pointer.Fallback(in.Stock, constants.DefaultStock),
		IsNew:         in.IsNew,
		IsBestseller:  in.IsBestseller,
		Images:        FilterImages(in.Images),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := service.products.Create(ctx, p); err != nil {
		return nil, apperr.StorageFailure("Failed to create product", err)
	}

	service.publish(ctx, EventCreated, p.ID, p)
	return p, nil
}

/*
Update merges the provided fields into the stored product. Supplied images
pass through the valid-reference filter and updatedAt is always refreshed.

Returns:
  - error: NOT_FOUND, VALIDATION_ERROR or StorageFailure
*/
func (service *Service) Update(ctx context.Context, id string, patch Patch) (*Product, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	now := service.clock.Now()
	updated, err := service.products.Update(ctx, id, func(p *Product) error {
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			p.Description = strings.TrimSpace(*patch.Description)
		}
		pointer.Assign(&p.Price, patch.Price)
		if patch.OriginalPrice != nil {
			p.OriginalPrice = pointer.To(*patch.OriginalPrice)
		}
		if patch.Category != nil {
			p.Category = strings.TrimSpace(*patch.Category)
		}
		pointer.Assign(&p.Colors, patch.Colors)
		pointer.Assign(&p.Sizes, patch.Sizes)
		pointer.Assign(&p.Stock, patch.Stock)
		pointer.Assign(&p.IsNew, patch.IsNew)
		pointer.Assign(&p.IsBestseller, patch.IsBestseller)
		if patch.Images != nil {
			p.Images = FilterImages(*patch.Images)
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, "Failed to update product")
	}

	service.publish(ctx, EventUpdated, updated.ID, updated)
	return updated, nil
}

func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.products.Delete(ctx, id); err != nil {
		return mapRepoError(err, "Failed to delete product")
	}
	service.publish(ctx, EventDeleted, id, nil)
	return nil
}

// Categories derives the distinct categories of the listing in first-seen
// order.
func (service *Service) Categories(ctx context.Context, scope Scope) ([]Category, error) {
	products, err := service.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	out := []Category{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if i, ok := index[p.Category]; ok {
			out[i].Count++
			continue
		}
		index[p.Category] = len(out)
		out = append(out, Category{Name: p.Category, Slug: slug.From(p.Category), Count: 1})
	}
	return out, nil
}

// # Helpers

func (service *Service) publish(ctx context.Context, kind, id string, p *Product) {
	event := Event{Type: kind, ProductID: id, Product: p, OccurredAt: service.clock.Now()}
	if err := service.events.Publish(ctx, id, event); err != nil {
		ctxutil.GetLogger(ctx).Warn("product_event_publish_failed",
			slog.String("type", kind),
			slog.String("product_id", id),
			slog.Any("error", err),
		)
	}
}

func validatePatch(patch Patch) error {
	v := &validate.Validator{}
	if patch.Name != nil {
		v.Required(FieldName, *patch.Name)
	}
	if patch.Price != nil {
		v.NonNegative(FieldPrice, *patch.Price)
	}
	if patch.OriginalPrice != nil {
		v.NonNegative(FieldOriginalPrice, *patch.OriginalPrice)
	}
	if patch.Stock != nil {
		v.NonNegative(FieldStock, float64(*patch.Stock))
	}
	return v.Err()
}

func mapRepoError(err error, msg string) error {
	if errors.Is(err, ErrProductNotFound) {
		return apperr.NotFound("Product")
	}
	if ae := apperr.As(err); ae != nil {
		return ae
	}
	return apperr.StorageFailure(msg, err)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func sliceOrDefault(values, fallback []string) []string {
	if values == nil {
		return append([]string(nil), fallback...)
	}
	return values
}
