// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

// This file holds the stateless access-token gate. The stateful
// refresh-session gate lives with the session ledger in internal/users/auth,
// because it needs the user record and ledger lookup that only that domain owns.
package middleware

import (
	"net/http"

	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/constants"
	"github.com/khawarh/taskpro/internal/platform/ctxutil"
	"github.com/khawarh/taskpro/internal/platform/respond"
	"github.com/khawarh/taskpro/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the [sec.TokenService]
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the x-access-token header.
//
// # Flow
//  1. Check for the 'x-access-token' header.
//  2. If absent, request proceeds as anonymous ([RequireAuth] blocks it later
//     on protected routes).
//  3. If present, parse and verify the JWT via [TokenVerifier]. Verification
//     is stateless: signature and expiry only, no storage lookup.
//  4. On failure, short-circuit with 401 before any downstream handler runs.
//  5. On success, inject [*sec.AuthClaims] into the request context.
//
// # Placement
//
// Scope this to route groups whose endpoints authenticate via the access
// token. Routes that authenticate by other means (signup, login, the
// refresh-session gate) must stay outside it: a client renewing its access
// token is carrying an expired one, and step 4 would reject the request
// before the refresh gate ever ran.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenStr := request.Header.Get(constants.HeaderAccessToken)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
