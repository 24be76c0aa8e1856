// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tastedees/internal/platform/apperr"
	"github.com/taibuivan/tastedees/internal/platform/clock"
	"github.com/taibuivan/tastedees/internal/platform/sec"
	"github.com/taibuivan/tastedees/internal/users/auth"
)

func newService(t *testing.T) (*auth.Service, *sec.TokenService) {
	t.Helper()
	tokens, err := sec.NewTokenService("test-secret", "tastedees", 7*24*time.Hour, clock.Real{})
	require.NoError(t, err)

	svc, err := auth.NewService(newFileRepo(t), tokens, nil)
	require.NoError(t, err)
	return svc, tokens
}

func requireCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %v", err)
	assert.Equal(t, status, ae.HTTPStatus)
	assert.Equal(t, code, ae.Code)
}

/*
TestService_Bootstrap creates the first super admin exactly once.
*/
func TestService_Bootstrap(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newService(t)

	required, err := svc.SetupRequired(ctx)
	require.NoError(t, err)
	assert.True(t, required)

	session, err := svc.Bootstrap(ctx, "root", "longenough1")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleSuperAdmin, session.Principal.Role)

	principal, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Principal, principal)

	required, err = svc.SetupRequired(ctx)
	require.NoError(t, err)
	assert.False(t, required)

	_, err = svc.Bootstrap(ctx, "second", "longenough2")
	requireCode(t, err, http.StatusForbidden, apperr.CodeSetupComplete)
}

/*
TestService_BootstrapValidation enforces the username and password lengths.
*/
func TestService_BootstrapValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{"missing_username", "", "longenough1", "Username is required"},
		{"short_username", "ab", "longenough1", "Username must be at least 3 characters"},
		{"short_password", "root", "short", "Password must be at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			_, err := svc.Bootstrap(context.Background(), tt.username, tt.password)
			requireCode(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
			assert.Equal(t, tt.message, apperr.As(err).Message)
		})
	}
}

/*
TestService_Login returns the same error for an unknown user and a wrong password.
*/
func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.Bootstrap(ctx, "root", "longenough1")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "ROOT", "longenough1")
	require.NoError(t, err)
	assert.Equal(t, "root", session.Principal.Username)

	_, wrongPassword := svc.Login(ctx, "root", "wrong-password")
	_, unknownUser := svc.Login(ctx, "nobody", "longenough1")

	requireCode(t, wrongPassword, http.StatusUnauthorized, apperr.CodeInvalidCredentials)
	requireCode(t, unknownUser, http.StatusUnauthorized, apperr.CodeInvalidCredentials)
	assert.Equal(t, apperr.As(wrongPassword).Message, apperr.As(unknownUser).Message)
}

/*
TestService_UserAdministration covers role checks, duplicates, self-deletion and the last super admin.
*/
func TestService_UserAdministration(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	rootSession, err := svc.Bootstrap(ctx, "root", "longenough1")
	require.NoError(t, err)
	root := rootSession.Principal

	ops, err := svc.CreateUser(ctx, root, auth.CreateUserInput{Username: "Ops", Password: "longenough2", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, ops.Role)
	require.NotNil(t, ops.CreatedAt)

	t.Run("duplicate_username_ignores_case", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, root, auth.CreateUserInput{Username: "ops", Password: "longenough3", Role: "admin"})
		requireCode(t, err, http.StatusBadRequest, apperr.CodeDuplicateUsername)
	})

	t.Run("invalid_role", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, root, auth.CreateUserInput{Username: "owner", Password: "longenough3", Role: "owner"})
		requireCode(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("admin_is_forbidden", func(t *testing.T) {
		admin := sec.Principal{UserID: ops.ID, Username: ops.Username, Role: sec.RoleAdmin}

		_, err := svc.ListUsers(ctx, admin)
		requireCode(t, err, http.StatusForbidden, "FORBIDDEN")

		_, err = svc.CreateUser(ctx, admin, auth.CreateUserInput{Username: "x12", Password: "longenough3", Role: "admin"})
		requireCode(t, err, http.StatusForbidden, "FORBIDDEN")

		err = svc.DeleteUser(ctx, admin, root.UserID)
		requireCode(t, err, http.StatusForbidden, "FORBIDDEN")
	})

	t.Run("cannot_delete_self", func(t *testing.T) {
		err := svc.DeleteUser(ctx, root, root.UserID)
		requireCode(t, err, http.StatusBadRequest, apperr.CodeCannotDeleteSelf)
	})

	t.Run("last_super_admin", func(t *testing.T) {
		// A super admin whose account is gone still holds a valid token.
		stale := sec.Principal{UserID: "user_gone", Username: "gone", Role: sec.RoleSuperAdmin}
		err := svc.DeleteUser(ctx, stale, root.UserID)
		requireCode(t, err, http.StatusBadRequest, apperr.CodeLastSuperAdmin)
	})

	t.Run("unknown_user", func(t *testing.T) {
		err := svc.DeleteUser(ctx, root, "user_missing")
		requireCode(t, err, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("list_strips_hashes", func(t *testing.T) {
		accounts, err := svc.ListUsers(ctx, root)
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "root", accounts[0].Username)
		assert.Equal(t, "Ops", accounts[1].Username)
	})

	t.Run("delete_admin", func(t *testing.T) {
		require.NoError(t, svc.DeleteUser(ctx, root, ops.ID))
		accounts, err := svc.ListUsers(ctx, root)
		require.NoError(t, err)
		assert.Len(t, accounts, 1)
	})
}
