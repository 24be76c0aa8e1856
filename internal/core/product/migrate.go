// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/pkg/uuid"
)

//go:embed legacy_catalog.json
var legacyCatalog []byte

// legacyProduct is the single-image record shape of the bundled catalogue.
type legacyProduct struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Category      string   `json:"category"`
	Colors        []string `json:"colors"`
	Description   string   `json:"description"`
	Sizes         []string `json:"sizes"`
	Stock         int      `json:"stock"`
	IsNew         bool     `json:"isNew"`
	IsBestseller  bool     `json:"isBestseller"`
	Image         string   `json:"image"`
}

// # Migration

// Migrator seeds the catalogue once per deployment.
type Migrator struct {
	products Repository
	marker   Marker
	legacy   *LegacyList
	logger   *slog.Logger
	now      func() time.Time
}

// NewMigrator builds a migrator. legacy may be nil.
func NewMigrator(products Repository, marker Marker, legacy *LegacyList, logger *slog.Logger) *Migrator {
	return &Migrator{
		products: products,
		marker:   marker,
		legacy:   legacy,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

/*
MigrateIfEmpty seeds the store from the bundled catalogue and the optional
legacy list, then writes the marker.

It does nothing once the marker exists. A store that is already provisioned
without a marker (a deployment that predates the marker) only gets the marker
backfilled, so an emptied catalogue is never re-seeded.

An unreadable catalogue is moved aside and re-seeded, marker or not.

Returns:
  - int: number of products seeded
  - error: storage failures
*/
func (m *Migrator) MigrateIfEmpty(ctx context.Context) (int, error) {
	quarantined, err := m.products.QuarantineUnreadable(ctx)
	if err != nil {
		return 0, fmt.Errorf("product: check catalogue: %w", err)
	}

	if quarantined != "" {
		m.logger.Warn("product_catalogue_unreadable_reseeding", slog.String("moved_to", quarantined))
	} else {
		done, err := m.marker.Done(ctx)
		if err != nil {
			return 0, err
		}
		if done {
			return 0, nil
		}

		provisioned, err := m.products.Provisioned(ctx)
		if err != nil {
			return 0, err
		}
		if provisioned {
			m.logger.Info("product_migration_marker_backfilled")
			return 0, m.marker.Mark(ctx)
		}
	}

	seed, err := m.build()
	if err != nil {
		return 0, err
	}

	if err := m.products.Seed(ctx, seed); err != nil {
		return 0, fmt.Errorf("product: seed catalogue: %w", err)
	}
	if err := m.marker.Mark(ctx); err != nil {
		return 0, err
	}

	m.logger.Info("product_migration_completed", slog.Int("count", len(seed)))
	return len(seed), nil
}

func (m *Migrator) build() ([]*Product, error) {
	now := m.now()

	var bundled []legacyProduct
	if err := json.Unmarshal(legacyCatalog, &bundled); err != nil {
		return nil, fmt.Errorf("product: decode bundled catalogue: %w", err)
	}

	out := make([]*Product, 0, len(bundled))
	for _, old := range bundled {
		out = append(out, &Product{
			ID:            uuid.Prefixed("prod"),
			Name:          old.Name,
			Price:         old.Price,
			OriginalPrice: old.OriginalPrice,
			Category:      old.Category,
			Colors:        old.Colors,
			Description:   old.Description,
			Sizes:         old.Sizes,
			Stock:         old.Stock,
			IsNew:         old.IsNew,
			IsBestseller:  old.IsBestseller,
			Images:        FilterImages([]string{old.Image}),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	for _, item := range m.legacyItems() {
		category := item.Category
		if category == "" {
			category = constants.DefaultCategory
		}
		out = append(out, &Product{
			ID:          uuid.Prefixed("prod"),
			Name:        item.Name,
			Price:       item.Price,
			Category:    category,
			Colors:      append([]string(nil), constants.DefaultColors...),
			Description: item.Description,
			Sizes:       append([]string(nil), constants.DefaultSizes...),
			Stock:       constants.DefaultStock,
			IsNew:       true,
			Images:      FilterImages([]string{item.Image}),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	return out, nil
}

// legacyItems returns the flat legacy list. A corrupt list must not block
// startup, so it is logged and skipped.
func (m *Migrator) legacyItems() []LegacyItem {
	if m.legacy == nil {
		return nil
	}
	items, err := m.legacy.Items()
	if err != nil {
		m.logger.Warn("product_migration_legacy_skipped", slog.String("path", m.legacy.Path()), slog.Any("error", err))
		return nil
	}
	return items
}
