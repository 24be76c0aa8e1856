// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository is the credential store contract. Usernames are unique
// ignoring case, and the store never holds zero super admins once it holds
// any account.
type UserRepository interface {

	/*
		Create persists a new account.

		Returns:
		  - error: ErrDuplicateUsername on a case-insensitive clash, or storage failures
	*/
	Create(ctx context.Context, user *User) error

	/*
		CreateFirst persists user only if the store is empty. Check and insert
		happen atomically so two concurrent setups cannot both succeed.

		Returns:
		  - error: ErrNotEmpty if any account already exists
	*/
	CreateFirst(ctx context.Context, user *User) error

	/*
		FindByUsername looks up an account ignoring case.

		Returns:
		  - error: ErrUserNotFound
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		FindByID looks up an account by id.

		Returns:
		  - error: ErrUserNotFound
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		Delete removes the account with id.

		Returns:
		  - error: ErrUserNotFound, or ErrLastSuperAdmin if id is the sole super admin
	*/
	Delete(ctx context.Context, id string) error

	// List returns every account in creation order, hashes included.
	List(ctx context.Context) ([]*User, error)

	// Count returns the number of accounts.
	Count(ctx context.Context) (int, error)
}
