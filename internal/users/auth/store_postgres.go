// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tastedees/internal/platform/database/schema"
	"github.com/taibuivan/tastedees/internal/platform/dberr"
	"github.com/taibuivan/tastedees/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on the shop.account table.
// Case-insensitive uniqueness is enforced by a unique index on lower(username).
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a PostgreSQL implementation of [UserRepository].
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var (
	accountColumns = strings.Join(schema.ShopAccount.Columns(), ", ")
	accountTable   = schema.ShopAccount.Table
	selectAccount  = fmt.Sprintf(`SELECT %s FROM %s`, accountColumns, accountTable)
	insertAccount  = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`, accountTable, accountColumns)
)

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	_, err := repository.pool.Exec(ctx, insertAccount, user.ID, user.Username, user.PasswordHash, user.Role, user.CreatedAt)
	if dberr.IsUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}
	return nil
}

/*
CreateFirst inserts user only when shop.account is empty.

The table lock serialises concurrent setups across processes; the loser sees a
non-empty table and gets ErrNotEmpty.
*/
func (repository *PostgresUserRepository) CreateFirst(ctx context.Context, user *User) error {
	return pgx.BeginFunc(ctx, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE `+accountTable+` IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("postgres_user_repo_lock_failed: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+accountTable+`)`).Scan(&exists); err != nil {
			return fmt.Errorf("postgres_user_repo_count_failed: %w", err)
		}
		if exists {
			return ErrNotEmpty
		}

		_, err := tx.Exec(ctx, insertAccount,
			user.ID, user.Username, user.PasswordHash, user.Role, user.CreatedAt)
		if err != nil {
			return fmt.Errorf("postgres_user_repo_create_first_failed: %w", err)
		}
		return nil
	})
}

func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := selectAccount + ` WHERE lower(username) = lower($1)`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := selectAccount + ` WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}
	return user, nil
}

/*
Delete removes an account, refusing to remove the last super admin.

Super admin rows are locked FOR UPDATE first so two concurrent deletes of the
final pair cannot both pass the count check.
*/
func (repository *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, repository.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id FROM `+accountTable+` WHERE role = $1 FOR UPDATE`, sec.RoleSuperAdmin)
		if err != nil {
			return fmt.Errorf("postgres_user_repo_lock_supers_failed: %w", err)
		}
		supers, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("postgres_user_repo_lock_supers_failed: %w", err)
		}

		target, err := scanUser(tx.QueryRow(ctx, selectAccount+` WHERE id = $1`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("postgres_user_repo_delete_lookup_failed: %w", err)
		}

		if target.Role == sec.RoleSuperAdmin && len(supers) <= 1 {
			return ErrLastSuperAdmin
		}

		if _, err := tx.Exec(ctx, `DELETE FROM `+accountTable+` WHERE id = $1`, id); err != nil {
			return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
		}
		return nil
	})
}

func (repository *PostgresUserRepository) List(ctx context.Context) ([]*User, error) {
	rows, err := repository.pool.Query(ctx, selectAccount+` ORDER BY createdat, id`)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	return users, nil
}

func (repository *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := repository.pool.QueryRow(ctx, `SELECT count(*) FROM `+accountTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}
	return n, nil
}
