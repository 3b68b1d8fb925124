// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khawarh/taskpro/internal/platform/constants"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()

	userRepo := newFakeUserRepository()
	sessionRepo := &fakeSessionRepository{users: userRepo}
	service := NewService(userRepo, sessionRepo, nil, fakeTokenProvider{}, slog.Default())

	router := chi.NewRouter()
	router.Route("/users", func(r chi.Router) {
		NewHandler(service).RegisterRoutes(r)
	})
	return router, service
}

/*
TestHandler_Signup_TokenHeaders verifies the dual-token header contract on
account creation.
*/
func TestHandler_Signup_TokenHeaders(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"email":"owner@example.com","password":"s3cret-password"}`
	request := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderAccessToken))
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderRefreshToken))
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderUserID))

	// Response body never includes the password hash
	assert.NotContains(t, recorder.Body.String(), "password")
}

/*
TestHandler_Signup_Validation rejects malformed input before the service runs.
*/
func TestHandler_Signup_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid_json", `{not json`},
		{"missing_email", `{"password":"s3cret-password"}`},
		{"bad_email", `{"email":"not-an-email","password":"s3cret-password"}`},
		{"short_password", `{"email":"owner@example.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, request)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

/*
TestHandler_RenewAccessToken exercises the refresh gate end to end: every
failure mode answers 401, a valid session answers 200 with a fresh token.
*/
func TestHandler_RenewAccessToken(t *testing.T) {
	router, service := newTestRouter(t)

	credentials, err := service.Signup(context.Background(), SignupInput{
		Email:    "owner@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	renew := func(userID, refreshToken string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/users/me/access-token", nil)
		if userID != "" {
			request.Header.Set(constants.HeaderUserID, userID)
		}
		if refreshToken != "" {
			request.Header.Set(constants.HeaderRefreshToken, refreshToken)
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	t.Run("missing_headers", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, renew("", "").Code)
		assert.Equal(t, http.StatusUnauthorized, renew(credentials.User.ID, "").Code)
		assert.Equal(t, http.StatusUnauthorized, renew("", credentials.RefreshToken).Code)
	})

	t.Run("unknown_user", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, renew("nonexistent-user", credentials.RefreshToken).Code)
	})

	t.Run("unknown_token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, renew(credentials.User.ID, "forged-token").Code)
	})

	t.Run("valid_session", func(t *testing.T) {
		recorder := renew(credentials.User.ID, credentials.RefreshToken)
		require.Equal(t, http.StatusOK, recorder.Code)

		assert.NotEmpty(t, recorder.Header().Get(constants.HeaderAccessToken))

		var envelope struct {
			Data map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.NotEmpty(t, envelope.Data[FieldAccessToken])
		assert.Equal(t, "Bearer", envelope.Data[FieldTokenType])
	})
}

/*
TestHandler_Login_InvalidCredentials verifies the generic 401 contract.
*/
func TestHandler_Login_InvalidCredentials(t *testing.T) {
	router, service := newTestRouter(t)

	_, err := service.Signup(context.Background(), SignupInput{
		Email:    "owner@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	body := `{"email":"owner@example.com","password":"wrong-password"}`
	request := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, recorder.Header().Get(constants.HeaderAccessToken))
}
