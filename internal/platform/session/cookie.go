// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package session binds session tokens to the HTTP-only auth cookie.
//
// Detaching the cookie is the whole of logout: the token itself stays
// cryptographically valid until it expires.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/tastedees/internal/platform/constants"
)

// SecureMode controls the Secure attribute of the cookie.
type SecureMode string

const (
	// SecureAuto marks the cookie Secure when the request arrived over TLS,
	// directly or through a proxy that sets X-Forwarded-Proto.
	SecureAuto   SecureMode = "auto"
	SecureAlways SecureMode = "always"
	SecureNever  SecureMode = "never"
)

// CookieAdapter attaches, reads and deletes the session cookie.
type CookieAdapter struct {
	name   string
	maxAge time.Duration
	secure SecureMode
}

// NewCookieAdapter returns an adapter for the named cookie. maxAge should
// match the token validity window.
func NewCookieAdapter(name string, maxAge time.Duration, secure SecureMode) *CookieAdapter {
	if name == "" {
		name = constants.SessionCookieName
	}
	if secure == "" {
		secure = SecureAuto
	}
	return &CookieAdapter{name: name, maxAge: maxAge, secure: secure}
}

// Name returns the cookie name.
func (a *CookieAdapter) Name() string { return a.name }

// Attach sets the session cookie on the response.
func (a *CookieAdapter) Attach(writer http.ResponseWriter, request *http.Request, token string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     a.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.maxAge.Seconds()),
		Expires:  time.Now().Add(a.maxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.isSecure(request),
	})
}

// Detach deletes the session cookie.
func (a *CookieAdapter) Detach(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     a.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.isSecure(request),
	})
}

// Read returns the raw token carried by the request, if any.
func (a *CookieAdapter) Read(request *http.Request) (string, bool) {
	cookie, err := request.Cookie(a.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (a *CookieAdapter) isSecure(request *http.Request) bool {
	switch a.secure {
	case SecureAlways:
		return true
	case SecureNever:
		return false
	}
	if request == nil {
		return false
	}
	if request.TLS != nil {
		return true
	}
	return strings.EqualFold(request.Header.Get(constants.HeaderXForwardedProto), "https")
}
