// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/tastedees/internal/platform/apperr"
	"github.com/taibuivan/tastedees/internal/platform/ctxutil"
	"github.com/taibuivan/tastedees/internal/platform/respond"
	"github.com/taibuivan/tastedees/internal/platform/sec"
)

// TokenVerifier verifies a session token and returns its principal.
type TokenVerifier interface {
	Verify(token string) (sec.Principal, error)
}

// TokenReader extracts the raw session token from a request.
type TokenReader interface {
	Read(request *http.Request) (string, bool)
}

// Authenticate derives the request's principal from the session cookie.
//
// # Flow
//  1. No cookie: the request proceeds anonymously.
//  2. Cookie present but the token fails verification: also anonymous. Public
//     pages must keep working with a stale cookie; protected routes reject
//     the request in [RequireAuth].
//  3. Valid token: the [sec.Principal] is attached to this request's context.
func Authenticate(reader TokenReader, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, ok := reader.Read(request)
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "session_token_rejected")
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			ctxutil.GetLogger(ctx).DebugContext(ctx, "session_verified", slog.String("user_id", principal.UserID))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests without a verified principal with 401.
//
// Must be registered after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if _, ok := ctxutil.GetPrincipal(request.Context()); !ok {
			respond.Error(writer, request, apperr.Unauthenticated("Not authenticated"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole answers 401 for anonymous callers and 403 when the principal's
// role is below role. It implies [RequireAuth].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal, ok := ctxutil.GetPrincipal(request.Context())
			if !ok {
				respond.Error(writer, request, apperr.Unauthenticated("Not authenticated"))
				return
			}

			if !principal.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden(role.Label() + " access required"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
