// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/taibuivan/tastedees/internal/platform/apperr"
	"github.com/taibuivan/tastedees/internal/platform/clock"
	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/internal/platform/sec"
	"github.com/taibuivan/tastedees/internal/platform/validate"
	"github.com/taibuivan/tastedees/pkg/slice"
	"github.com/taibuivan/tastedees/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(p sec.Principal) (string, error)
}

// Session is an identity plus the signed token the handler binds to the cookie.
type Session struct {
	Token     string
	Principal sec.Principal
}

// Service implements the auth gateway use cases. Authorization is always
// decided from the principal the caller passes in, which handlers take from
// the verified token of the current request.
type Service struct {
	users  UserRepository
	tokens TokenIssuer
	clock  clock.Clock

	// dummyHash keeps login timing uniform for unknown usernames.
	dummyHash string
}

// NewService constructs a [Service].
func NewService(users UserRepository, tokens TokenIssuer, clk clock.Clock) (*Service, error) {
	if clk == nil {
		clk = clock.Real{}
	}
	dummy, err := sec.HashPassword("timing-equaliser-not-a-password")
	if err != nil {
		return nil, err
	}
	return &Service{users: users, tokens: tokens, clock: clk, dummyHash: dummy}, nil
}

// # Setup

/*
SetupRequired reports whether the credential store is empty.

Returns:
  - error: StorageFailure
*/
func (service *Service) SetupRequired(ctx context.Context) (bool, error) {
	n, err := service.users.Count(ctx)
	if err != nil {
		return false, apperr.StorageFailure("Failed to check setup status", err)
	}
	return n == 0, nil
}

/*
Bootstrap creates the first account, always as super admin, and opens a
session for it. It is the only path that creates a user without an
authenticated caller.

Returns:
  - error: SETUP_COMPLETE (403) once any account exists, VALIDATION_ERROR,
    or StorageFailure
*/
func (service *Service) Bootstrap(ctx context.Context, username, password string) (*Session, error) {
	required, err := service.SetupRequired(ctx)
	if err != nil {
		return nil, err
	}
	if !required {
		return nil, errSetupComplete()
	}

	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	user, err := service.newUser(username, password, sec.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}

	// A concurrent setup may have won between the check above and here.
	if err := service.users.CreateFirst(ctx, user); err != nil {
		if errors.Is(err, ErrNotEmpty) {
			return nil, errSetupComplete()
		}
		return nil, apperr.StorageFailure("Failed to create admin account", err)
	}

	return service.open(user)
}

// # Authentication Flow

/*
Login checks credentials and opens a session.

An unknown username and a wrong password produce the same INVALID_CREDENTIALS
error, and both paths run one bcrypt comparison.
*/
func (service *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := service.users.FindByUsername(ctx, strings.TrimSpace(username))
	switch {
	case errors.Is(err, ErrUserNotFound):
		sec.CheckPassword(password, service.dummyHash)
		return nil, apperr.InvalidCredentials()
	case err != nil:
		return nil, apperr.StorageFailure("Login failed", err)
	}

	if !sec.CheckPassword(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	return service.open(user)
}

// # User Administration

/*
ListUsers returns every account without password hashes.

Returns:
  - error: FORBIDDEN unless actor is a super admin
*/
func (service *Service) ListUsers(ctx context.Context, actor sec.Principal) ([]Account, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}

	users, err := service.users.List(ctx)
	if err != nil {
		return nil, apperr.StorageFailure("Failed to get users", err)
	}
	return slice.Map(users, AccountOf), nil
}

// CreateUserInput is the user administration form.
type CreateUserInput struct {
	Username string
	Password string
	Role     string
}

/*
CreateUser adds an account on behalf of a super admin.

Returns:
  - error: FORBIDDEN, VALIDATION_ERROR, DUPLICATE_USERNAME (400) or StorageFailure
*/
func (service *Service) CreateUser(ctx context.Context, actor sec.Principal, input CreateUserInput) (Account, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return Account{}, err
	}

	username := strings.TrimSpace(input.Username)
	v := &validate.Validator{}
	v.Required(FieldUsername, username).
		Required(FieldPassword, input.Password).
		Required(FieldRole, input.Role)
	if err := v.Err(); err != nil {
		return Account{}, err
	}
	if err := validateCredentials(username, input.Password); err != nil {
		return Account{}, err
	}
	if err := (&validate.Validator{}).OneOf(FieldRole, input.Role, string(sec.RoleAdmin), string(sec.RoleSuperAdmin)).Err(); err != nil {
		return Account{}, err
	}

	user, err := service.newUser(username, input.Password, sec.UserRole(input.Role))
	if err != nil {
		return Account{}, err
	}

	if err := service.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return Account{}, apperr.Conflict(http.StatusBadRequest, apperr.CodeDuplicateUsername, "Username already exists")
		}
		return Account{}, apperr.StorageFailure("Failed to create user", err)
	}

	return AccountOf(user), nil
}

/*
DeleteUser removes an account on behalf of a super admin. Self-deletion is
rejected before the store is consulted; the store separately protects the
last super admin.

Returns:
  - error: FORBIDDEN, CANNOT_DELETE_SELF (400), NOT_FOUND, LAST_SUPER_ADMIN (400)
*/
func (service *Service) DeleteUser(ctx context.Context, actor sec.Principal, id string) error {
	if err := requireSuperAdmin(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return apperr.Conflict(http.StatusBadRequest, apperr.CodeCannotDeleteSelf, "Cannot delete your own account")
	}

	err := service.users.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserNotFound):
		return apperr.NotFound("User")
	case errors.Is(err, ErrLastSuperAdmin):
		return apperr.Conflict(http.StatusBadRequest, apperr.CodeLastSuperAdmin, "Cannot delete the last super admin")
	default:
		return apperr.StorageFailure("Failed to delete user", err)
	}
}

// # Helpers

func (service *Service) newUser(username, password string, role sec.UserRole) (*User, error) {
	hash, err := sec.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &User{
		ID:           uuid.Prefixed("user"),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    service.clock.Now(),
	}, nil
}

func (service *Service) open(user *User) (*Session, error) {
	principal := user.Principal()
	token, err := service.tokens.Issue(principal)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Session{Token: token, Principal: principal}, nil
}

func validateCredentials(username, password string) error {
	v := &validate.Validator{}
	v.Required(FieldUsername, username).
		Required(FieldPassword, password).
		MinLen(FieldUsername, username, constants.UsernameMinLength).
		MaxLen(FieldUsername, username, constants.UsernameMaxLength).
		MinLen(FieldPassword, password, constants.PasswordMinLength).
		Custom(FieldPassword, len(password) > constants.PasswordMaxBytes, "Password must be at most 72 bytes")
	return v.Err()
}

func requireSuperAdmin(actor sec.Principal) error {
	if !actor.IsSuperAdmin() {
		return apperr.Forbidden("Super admin access required")
	}
	return nil
}

func errSetupComplete() error {
	return apperr.Conflict(http.StatusForbidden, apperr.CodeSetupComplete, "Setup already completed")
}
