// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tastedees/internal/platform/apperr"
	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/internal/platform/ctxutil"
	"github.com/taibuivan/tastedees/internal/platform/middleware"
	requestutil "github.com/taibuivan/tastedees/internal/platform/request"
	"github.com/taibuivan/tastedees/internal/platform/respond"
	"github.com/taibuivan/tastedees/internal/platform/sec"
)

// # Definitions & Constructors

// SessionBinder binds session tokens to the response.
type SessionBinder interface {
	Attach(writer http.ResponseWriter, request *http.Request, token string)
	Detach(writer http.ResponseWriter, request *http.Request)
}

// Handler implements the /auth endpoints.
type Handler struct {
	service  *Service
	sessions SessionBinder
	throttle Throttle
}

// NewHandler constructs a [Handler]. throttle may be nil to disable attempt limiting.
func NewHandler(service *Service, sessions SessionBinder, throttle Throttle) *Handler {
	return &Handler{service: service, sessions: sessions, throttle: throttle}
}

// Routes returns the auth router. It expects [middleware.Authenticate] to
// run upstream.
//
// # Endpoints
//   - GET    /setup-status  : {setupRequired}
//   - POST   /setup         : first-run bootstrap
//   - POST   /login         : opens a session
//   - POST   /logout        : always clears the cookie
//   - GET    /me            : current identity
//   - GET    /users         : super admin only
//   - POST   /users         : super admin only
//   - DELETE /users/{id}    : super admin only
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/setup-status", handler.setupStatus)
	router.Get("/setup", handler.setupStatus)
	router.Post("/setup", handler.setup)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleSuperAdmin))
		r.Get("/users", handler.listUsers)
		r.Post("/users", handler.createUser)
		r.Delete("/users/{id}", handler.deleteUser)
	})

	return router
}

// # Request Payloads

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

/*
GET /api/auth/setup-status

Response:
  - 200: {"setupRequired": bool}
*/
func (handler *Handler) setupStatus(writer http.ResponseWriter, request *http.Request) {
	required, err := handler.service.SetupRequired(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, map[string]bool{"setupRequired": required})
}

/*
POST /api/auth/setup

Response:
  - 200: user identity, session cookie set
  - 400: validation failure
  - 403: setup already completed
*/
func (handler *Handler) setup(writer http.ResponseWriter, request *http.Request) {
	if !handler.allow(writer, request, "setup") {
		return
	}

	var input credentialsRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Bootstrap(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "setup_completed",
		slog.String("user_id", session.Principal.UserID))

	handler.sessions.Attach(writer, request, session.Token)
	respond.OK(writer, FieldUser, Identity(session.Principal))
}

/*
POST /api/auth/login

Response:
  - 200: user identity, session cookie set
  - 401: INVALID_CREDENTIALS
  - 429: too many attempts from this client
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	if !handler.allow(writer, request, "login") {
		return
	}

	var input credentialsRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Username == "" || input.Password == "" {
		respond.Error(writer, request, apperr.ValidationError("Username and password are required"))
		return
	}

	session, err := handler.service.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeInvalidCredentials) {
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "login_failed")
		}
		respond.Error(writer, request, err)
		return
	}

	handler.sessions.Attach(writer, request, session.Token)
	respond.OK(writer, FieldUser, Identity(session.Principal))
}

/*
POST /api/auth/logout

Clears the cookie whatever the caller's state. The token itself is not revoked.
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.sessions.Detach(writer, request)
	respond.Done(writer)
}

/*
GET /api/auth/me

Response:
  - 200: {id, username, role}
  - 401: no valid session
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.Principal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, FieldUser, Identity(principal))
}

// # User Administration

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.Principal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accounts, err := handler.service.ListUsers(request.Context(), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, FieldUsers, accounts)
}

func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.Principal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createUserRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.CreateUser(request.Context(), principal, CreateUserInput{
		Username: input.Username,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "user_created",
		slog.String("user_id", account.ID), slog.String("role", string(account.Role)))
	respond.OK(writer, FieldUser, account)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.Principal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")
	if err := handler.service.DeleteUser(request.Context(), principal, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "user_deleted", slog.String("user_id", id))
	respond.Done(writer)
}

// allow applies the credential throttle keyed by action and client IP. A
// throttle backend failure lets the request through.
func (handler *Handler) allow(writer http.ResponseWriter, request *http.Request, action string) bool {
	if handler.throttle == nil {
		return true
	}

	ok, retryAfter, err := handler.throttle.Allow(request.Context(), action+":"+middleware.RealIP(request))
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "throttle_unavailable", slog.Any("error", err))
		return true
	}
	if ok {
		return true
	}

	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(seconds))
	respond.Error(writer, request, apperr.RateLimited(seconds))
	return false
}
