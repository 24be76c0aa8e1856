// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the back-office identity layer: the credential store,
first-run setup, login and logout over the session cookie, and user
administration for super admins.

There is no self-registration. The first account is created by setup and is
always a super admin; every later account is created by a super admin.
*/
package auth

import (
	"errors"
	"time"

	"github.com/taibuivan/tastedees/internal/platform/sec"
)

// # Domain Entities

// User is a back-office account as persisted by a [UserRepository].
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"passwordHash"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Principal returns the identity embedded in this user's session tokens.
func (u *User) Principal() sec.Principal {
	return sec.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Account is the externally visible form of a [User]. It never carries the
// password hash.
type Account struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Role      sec.UserRole `json:"role"`
	CreatedAt *time.Time   `json:"createdAt,omitempty"`
}

// AccountOf strips the credential from u.
func AccountOf(u *User) Account {
	created := u.CreatedAt
	return Account{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: &created}
}

// Identity is the {id, username, role} triple returned by setup, login and me.
func Identity(p sec.Principal) Account {
	return Account{ID: p.UserID, Username: p.Username, Role: p.Role}
}

// # Repository Errors

var (
	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrDuplicateUsername is returned when a username already exists, ignoring case.
	ErrDuplicateUsername = errors.New("auth: username already exists")

	// ErrLastSuperAdmin is returned when a delete would leave no super admin.
	ErrLastSuperAdmin = errors.New("auth: cannot delete the last super admin")

	// ErrNotEmpty is returned by CreateFirst once any account exists.
	ErrNotEmpty = errors.New("auth: credential store is not empty")
)

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldRole     = "role"
	FieldUser     = "user"
	FieldUsers    = "users"
)
