// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tastedees/internal/platform/ctxutil"
	"github.com/taibuivan/tastedees/internal/platform/middleware"
	"github.com/taibuivan/tastedees/internal/platform/sec"
	"github.com/taibuivan/tastedees/internal/platform/session"
)

type stubVerifier map[string]sec.Principal

func (s stubVerifier) Verify(token string) (sec.Principal, error) {
	if p, ok := s[token]; ok {
		return p, nil
	}
	return sec.Principal{}, errors.New("invalid")
}

var (
	cookies  = session.NewCookieAdapter("auth_token", time.Hour, session.SecureAuto)
	verifier = stubVerifier{
		"admin-token": {UserID: "user_a", Username: "alice", Role: sec.RoleAdmin},
		"super-token": {UserID: "user_s", Username: "root", Role: sec.RoleSuperAdmin},
		"guest-token": {UserID: "user_g", Username: "guest", Role: sec.UserRole("guest")},
	}
)

func withCookie(request *http.Request, token string) *http.Request {
	if token != "" {
		request.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	}
	return request
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

/*
TestAuthenticate_AttachesPrincipal covers the anonymous, stale and valid cookie paths.
*/
func TestAuthenticate_AttachesPrincipal(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expectID string
	}{
		{"no_cookie", "", ""},
		{"stale_cookie", "expired", ""},
		{"valid_cookie", "admin-token", "user_a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.Authenticate(cookies, verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if p, ok := ctxutil.GetPrincipal(r.Context()); ok {
					seen = p.UserID
				}
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/api/products", nil), tt.token))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expectID, seen)
		})
	}
}

/*
TestRequireRole maps missing and insufficient identities to 401 and 403.
*/
func TestRequireRole(t *testing.T) {
	chain := middleware.Authenticate(cookies, verifier)(middleware.RequireRole(sec.RoleSuperAdmin)(okHandler))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"admin", "admin-token", http.StatusForbidden},
		{"super_admin", "super-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/api/auth/users", nil), tt.token))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireRole_MessageNamesRole(t *testing.T) {
	tests := []struct {
		role  sec.UserRole
		token string
		want  string
	}{
		{sec.RoleSuperAdmin, "admin-token", "Super admin access required"},
		{sec.RoleAdmin, "guest-token", "Admin access required"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			chain := middleware.Authenticate(cookies, verifier)(middleware.RequireRole(tt.role)(okHandler))

			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, withCookie(httptest.NewRequest(http.MethodGet, "/api/auth/users", nil), tt.token))

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.JSONEq(t, `{"success":false,"error":"`+tt.want+`","code":"FORBIDDEN"}`, rec.Body.String())
		})
	}
}

/*
TestRequireAuth rejects anonymous calls with the failure envelope.
*/
func TestRequireAuth(t *testing.T) {
	chain := middleware.Authenticate(cookies, verifier)(middleware.RequireAuth(okHandler))

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not authenticated","code":"UNAUTHENTICATED"}`, rec.Body.String())
}

/*
TestEdgeGuard redirects admin navigation without a cookie.
*/
func TestEdgeGuard(t *testing.T) {
	guard := middleware.EdgeGuard(cookies, "/admin", "/admin/login", "/admin/setup")(okHandler)

	tests := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
	}{
		{"dashboard_without_cookie", "/admin", "", http.StatusFound, "/admin/login"},
		{"nested_without_cookie", "/admin/products/new", "", http.StatusFound, "/admin/login"},
		{"login_page", "/admin/login", "", http.StatusOK, ""},
		{"setup_page", "/admin/setup/", "", http.StatusOK, ""},
		{"cookie_present", "/admin", "anything", http.StatusOK, ""},
		{"public_page", "/shop", "", http.StatusOK, ""},
		{"lookalike_prefix", "/administrator", "", http.StatusOK, ""},
		{"double_slash", "//admin/", "", http.StatusFound, "/admin/login"},
		{"dot_segment", "/./admin/", "", http.StatusFound, "/admin/login"},
		{"dot_dot_segment", "/x/../admin/", "", http.StatusFound, "/admin/login"},
		{"escape_from_login", "/admin/login/../products", "", http.StatusFound, "/admin/login"},
		{"login_page_uncleaned", "//admin//login/", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.URL.Path = tt.path

			rec := httptest.NewRecorder()
			guard.ServeHTTP(rec, withCookie(request, tt.token))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

/*
TestRateLimit rejects requests beyond the burst for a single IP.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(okHandler)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		request.RemoteAddr = "203.0.113.7:5555"
		handler.ServeHTTP(rec, request)
		codes = append(codes, rec.Code)
	}

	require.Len(t, codes, 3)
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

/*
TestClientIP honours forwarding headers only from trusted proxies.
*/
func TestClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name      string
		remote    string
		forwarded string
		realIP    string
		want      string
	}{
		{"direct", "198.51.100.7:1234", "", "", "198.51.100.7"},
		{"untrusted peer spoofing forwarded", "198.51.100.7:1234", "1.2.3.4", "", "198.51.100.7"},
		{"untrusted peer spoofing real ip", "198.51.100.7:1234", "", "1.2.3.4", "198.51.100.7"},
		{"trusted proxy", "10.0.0.1:1234", "198.51.100.2", "", "198.51.100.2"},
		{"client prepends a fake hop", "10.0.0.1:1234", "1.2.3.4, 198.51.100.2, 10.0.0.9", "", "198.51.100.2"},
		{"trusted real ip", "10.0.0.1:1234", "", "198.51.100.9", "198.51.100.9"},
		{"garbage header", "10.0.0.1:1234", "not-an-ip", "", "10.0.0.1"},
		{"all hops trusted", "10.0.0.1:1234", "10.0.0.5", "", "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := middleware.ClientIP(trusted)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = middleware.RealIP(r)
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				request.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				request.Header.Set("X-Real-IP", tt.realIP)
			}
			handler.ServeHTTP(httptest.NewRecorder(), request)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRealIP_WithoutClientIPUsesPeer(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "198.51.100.7:1234"
	request.Header.Set("X-Forwarded-For", "1.2.3.4")

	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))
}
