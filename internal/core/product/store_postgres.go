// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tastedees/internal/platform/database/schema"
)

// # Product Repository

// PostgresRepository implements [Repository] on shop.product. Insertion order
// is kept by the identity column "position".
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	productColumns = strings.Join(schema.ShopProduct.Columns(), ", ")
	productTable   = schema.ShopProduct.Table
	selectProduct  = fmt.Sprintf(`SELECT %s FROM %s`, productColumns, productTable)

	insertProduct = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		productTable, productColumns)
)

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.OriginalPrice, &p.Category, &p.Colors, &p.Description, &p.Sizes,
		&p.Stock, &p.IsNew, &p.IsBestseller, &p.Images, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (repository *PostgresRepository) List(ctx context.Context) ([]*Product, error) {
	rows, err := repository.pool.Query(ctx, selectProduct+` ORDER BY `+schema.ShopProduct.Position)
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_list_failed: %w", err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_list_failed: %w", err)
	}
	return products, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(repository.pool.QueryRow(ctx, selectProduct+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_get_failed: %w", err)
	}
	return p, nil
}

func insertArgs(p *Product) []any {
	return []any{
		p.ID, p.Name, p.Price, p.OriginalPrice, p.Category, p.Colors, p.Description, p.Sizes,
		p.Stock, p.IsNew, p.IsBestseller, p.Images, p.CreatedAt, p.UpdatedAt,
	}
}

func (repository *PostgresRepository) Create(ctx context.Context, p *Product) error {
	if _, err := repository.pool.Exec(ctx, insertProduct, insertArgs(p)...); err != nil {
		return fmt.Errorf("postgres_product_repo_create_failed: %w", err)
	}
	return nil
}

/*
Update locks the row, applies mutate in Go and writes every column back, all
inside one transaction.
*/
func (repository *PostgresRepository) Update(ctx context.Context, id string, mutate func(*Product) error) (*Product, error) {
	var result *Product

	err := pgx.BeginFunc(ctx, repository.pool, func(tx pgx.Tx) error {
		current, err := scanProduct(tx.QueryRow(ctx, selectProduct+` WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("postgres_product_repo_update_lookup_failed: %w", err)
		}

		if err := mutate(current); err != nil {
			return err
		}
		current.ID = id

		query := `
			UPDATE ` + productTable + ` SET
				name = $2, price = $3, originalprice = $4, category = $5, colors = $6,
				description = $7, sizes = $8, stock = $9, isnew = $10, isbestseller = $11,
				images = $12, updatedat = $14
			WHERE id = $1 AND createdat = $13`

		if _, err := tx.Exec(ctx, query, insertArgs(current)...); err != nil {
			return fmt.Errorf("postgres_product_repo_update_failed: %w", err)
		}
		result = current
		return nil
	})
	return result, err
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := repository.pool.Exec(ctx, `DELETE FROM `+productTable+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (repository *PostgresRepository) Provisioned(ctx context.Context) (bool, error) {
	var exists bool
	if err := repository.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+productTable+`)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_product_repo_provisioned_failed: %w", err)
	}
	return exists, nil
}

// Seed inserts products in order with a single batch round trip.
// QuarantineUnreadable is a no-op: rows that fail to scan surface as query
// errors instead.
func (repository *PostgresRepository) QuarantineUnreadable(_ context.Context) (string, error) {
	return "", nil
}

func (repository *PostgresRepository) Seed(ctx context.Context, products []*Product) error {
	return pgx.BeginFunc(ctx, repository.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, p := range products {
			batch.Queue(insertProduct, insertArgs(p)...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("postgres_product_repo_seed_failed: %w", err)
		}
		return nil
	})
}

// # Migration Marker

const legacyMigrationKey = "products.legacy_migrated_at"

// PostgresMarker stores the migration marker in shop.setting.
type PostgresMarker struct {
	pool *pgxpool.Pool
}

// NewPostgresMarker returns a marker backed by shop.setting.
func NewPostgresMarker(pool *pgxpool.Pool) *PostgresMarker {
	return &PostgresMarker{pool: pool}
}

func (m *PostgresMarker) Done(ctx context.Context) (bool, error) {
	var exists bool
	err := m.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+schema.ShopSetting.Table+` WHERE key = $1)`, legacyMigrationKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres_marker_done_failed: %w", err)
	}
	return exists, nil
}

func (m *PostgresMarker) Mark(ctx context.Context) error {
	query := `
		INSERT INTO ` + schema.ShopSetting.Table + ` (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING`

	if _, err := m.pool.Exec(ctx, query, legacyMigrationKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("postgres_marker_mark_failed: %w", err)
	}
	return nil
}
