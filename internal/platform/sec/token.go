// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the security primitives: password hashing, session token
// signing and the role hierarchy.
//
// Session tokens are HS256 JWTs signed with a server-held secret. Nothing is
// stored server-side, so a token stays valid until it expires even after the
// cookie carrying it is deleted.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/tastedees/internal/platform/clock"
)

// ErrInvalidToken is the single verification failure. Malformed, forged,
// tampered and expired tokens are indistinguishable to callers.
var ErrInvalidToken = errors.New("sec: invalid session token")

// Principal is the identity carried by a session token.
type Principal struct {
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// IsSuperAdmin reports whether the principal may administer users.
func (p Principal) IsSuperAdmin() bool { return p.Role == RoleSuperAdmin }

// SessionClaims is the JWT payload.
type SessionClaims struct {
	jwt.RegisteredClaims
	Principal
}

// TokenService issues and verifies session tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clock.Clock
}

// NewTokenService builds a TokenService. An empty secret is rejected.
func NewTokenService(secret, issuer string, ttl time.Duration, clk clock.Clock) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: session secret must not be empty")
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl, clock: clk}, nil
}

// TTL returns the validity window embedded in issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for p that expires after the configured TTL.
func (s *TokenService) Issue(p Principal) (string, error) {
	now := s.clock.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Principal: p,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sec: sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the embedded principal.
// Every failure is reported as [ErrInvalidToken].
func (s *TokenService) Verify(token string) (Principal, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return Principal{}, ErrInvalidToken
	}
	return claims.Principal, nil
}
