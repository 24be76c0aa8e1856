// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values shared between layers.

Categories:

  - Server Timing: HTTP server timeouts.
  - Rate Limiting: global and login throttles.
  - Session: token lifetime and cookie identity.
  - Catalog and Upload: product defaults and image limits.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tastedees"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 15 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight requests get to finish.
	ShutdownTimeout = 20 * time.Second
)

// # Rate Limiting

const (
	DefaultRateLimitRPS   = 20.0
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often idle IP entries are swept.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// LoginAttemptsPerWindow bounds login and setup attempts per client IP.
	LoginAttemptsPerWindow = 5

	// LoginAttemptWindow is the throttle window for login and setup.
	LoginAttemptWindow = time.Minute
)

// # Session

const (
	// SessionIssuer is the 'iss' claim of session tokens.
	SessionIssuer = "tastedees"

	// SessionTTL is the validity window of a session token and its cookie.
	SessionTTL = 7 * 24 * time.Hour

	// SessionCookieName carries the session token.
	SessionCookieName = "auth_token"

	// AdminLoginPath is where the edge guard sends visitors without a session.
	AdminLoginPath = "/admin/login"

	// AdminSetupPath is the first-run bootstrap page.
	AdminSetupPath = "/admin/setup"
)

// # Accounts

const (
	UsernameMinLength = 3
	UsernameMaxLength = 64
	PasswordMinLength = 8
	PasswordMaxBytes  = 72 // bcrypt limit
)

// # Catalog

const (
	DefaultCategory = "New Arrivals"
	DefaultStock    = 50

	// ProductMigrationMarker is written under DATA_DIR once the legacy
	// catalogue has been imported.
	ProductMigrationMarker = ".products-migrated"
)

// DefaultColors and DefaultSizes are applied to products created without them.
var (
	DefaultColors = []string{"#1A1614", "#F5F0EB"}
	DefaultSizes  = []string{"S", "M", "L", "XL"}
)

// # Upload

const (
	// MaxUploadSize is the image size ceiling in bytes.
	MaxUploadSize = 5 << 20

	// UploadFormField is the multipart field holding the image.
	UploadFormField = "file"
)

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes

const (
	RedisPrefixLoginAttempts = "auth:login_attempts:"
)

// # HTTP Headers

const (
	HeaderXRequestID      = "X-Request-ID"
	HeaderXRealIP         = "X-Real-IP"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderXForwardedProto = "X-Forwarded-Proto"
	HeaderOrigin          = "Origin"
	HeaderRetryAfter      = "Retry-After"
)
