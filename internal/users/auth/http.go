// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/constants"
	"github.com/khawarh/taskpro/internal/platform/ctxkey"
	requestutil "github.com/khawarh/taskpro/internal/platform/request"
	"github.com/khawarh/taskpro/internal/platform/respond"
	"github.com/khawarh/taskpro/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Token Contract
//
// Credentials travel in headers, not cookies. A successful signup or login
// sets three response headers:
//   - x-access-token  : short-lived signed JWT
//   - x-refresh-token : long-lived opaque refresh token
//   - _id             : the account ID, echoed back on renewal requests
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// RegisterRoutes mounts the authentication endpoints on the given router.
//
// # Endpoints
//   - POST /            : Creates a new owner account.
//   - POST /login       : Authenticates and returns a token pair.
//   - GET  /me/access-token : Renews the access token from a refresh session.
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// Public endpoints
	router.Post("/", handler.signup)
	router.Post("/login", handler.login)

	// Refresh-gated endpoint. The gate authenticates against the session
	// ledger, not the access token, so an expired access token is fine here.
	router.Group(func(r chi.Router) {
		r.Use(handler.requireRefreshSession)
		r.Get("/me/access-token", handler.renewAccessToken)
	})
}

// # Request Payloads

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Signup handles the creation of a new owner account.

POST /api/v1/users

Description: Validates input, checks for duplicate emails, persists the
account, and immediately establishes a first session.

Request:
  - Body: signupRequest (Email, Password)

Response:
  - 201: User: Created account profile (token pair in headers)
  - 400: ErrInvalidJSON: Bad input, validation failure, or duplicate email
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	credentials, err := handler.authService.Signup(request.Context(), SignupInput{
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setTokenHeaders(writer, credentials)
	respond.Created(writer, credentials.User)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Description: Verifies credentials and issues a fresh dual-token pair via
response headers. Unknown emails and wrong passwords are indistinguishable.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: User: Account profile (token pair in headers)
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	credentials, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setTokenHeaders(writer, credentials)
	respond.OK(writer, credentials.User)
}

/*
RenewAccessToken issues a new access token from a verified refresh session.

GET /api/v1/users/me/access-token

Description: The requireRefreshSession gate has already matched the
x-refresh-token and _id headers against the session ledger; this handler
only mints the new JWT.

Response:
  - 200: RenewResponse: New access token credentials (also in x-access-token)
  - 401: ErrUnauthorized: Missing, unknown, or expired refresh session
*/
func (handler *Handler) renewAccessToken(writer http.ResponseWriter, request *http.Request) {
	user := refreshSessionUser(request)
	if user == nil {
		respond.Error(writer, request, apperr.Unauthorized("Refresh session is invalid or expired"))
		return
	}

	accessToken, err := handler.authService.RenewAccessToken(request.Context(), user)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set(constants.HeaderAccessToken, accessToken)
	writer.Header().Set(constants.HeaderUserID, user.ID)

	respond.OK(writer, map[string]any{
		FieldAccessToken: accessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   AccessTokenTTL / time.Second,
	})
}

// # Refresh Session Gate

/*
requireRefreshSession authenticates the request against the session ledger.

Description: Reads the x-refresh-token and _id headers, resolves them through
[Service.ResolveRefreshSession], and injects the matched user into the request
context. Every failure mode (missing header, unknown user, unknown token,
expired session) is rejected here with 401; nothing falls through to the
handler unauthenticated.
*/
func (handler *Handler) requireRefreshSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		refreshToken := request.Header.Get(constants.HeaderRefreshToken)
		userID := request.Header.Get(constants.HeaderUserID)

		if refreshToken == "" || userID == "" {
			respond.Error(writer, request, apperr.Unauthorized("Missing refresh token headers"))
			return
		}

		user, err := handler.authService.ResolveRefreshSession(request.Context(), userID, refreshToken)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		requestContext := context.WithValue(request.Context(), ctxkey.KeyRefreshSession, user)
		next.ServeHTTP(writer, request.WithContext(requestContext))
	})
}

// refreshSessionUser extracts the user injected by requireRefreshSession.
func refreshSessionUser(request *http.Request) *User {
	if user, ok := request.Context().Value(ctxkey.KeyRefreshSession).(*User); ok {
		return user
	}
	return nil
}

// setTokenHeaders writes the dual-token contract headers onto the response.
func setTokenHeaders(writer http.ResponseWriter, credentials *Credentials) {
	writer.Header().Set(constants.HeaderAccessToken, credentials.AccessToken)
	writer.Header().Set(constants.HeaderRefreshToken, credentials.RefreshToken)
	writer.Header().Set(constants.HeaderUserID, credentials.User.ID)
}
