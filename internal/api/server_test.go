// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khawarh/taskpro/internal/core/list"
	"github.com/khawarh/taskpro/internal/core/task"
	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/config"
	"github.com/khawarh/taskpro/internal/platform/constants"
	"github.com/khawarh/taskpro/internal/platform/jobs"
	"github.com/khawarh/taskpro/internal/platform/sec"
	"github.com/khawarh/taskpro/internal/users/auth"
	"github.com/khawarh/taskpro/internal/users/subuser"
)

// issuedAccessToken is the only token the stub verifier accepts.
const issuedAccessToken = "stub-signed-access-token"

// # Stub Dependencies

type stubTokenProvider struct{}

func (stubTokenProvider) GenerateAccessToken(userID string, isOwner bool, timeToLive time.Duration) (string, error) {
	return issuedAccessToken, nil
}

type stubVerifier struct{}

func (stubVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr == issuedAccessToken {
		return &sec.AuthClaims{UserID: "0190a3a2-6f8b-7cc3-9b7d-2f0e8f1c4a11", IsOwner: true}, nil
	}
	return nil, errors.New("token is malformed")
}

type memUserStore struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (store *memUserStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if user, ok := store.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (store *memUserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if user, ok := store.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (store *memUserStore) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.byID[user.ID] = user
	store.byEmail[user.Email] = user
	return nil
}

type memSessionStore struct {
	mu       sync.Mutex
	users    *memUserStore
	sessions []*auth.Session
}

func (store *memSessionStore) Append(_ context.Context, session *auth.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions = append(store.sessions, session)
	return nil
}

func (store *memSessionStore) FindUserBySessionToken(ctx context.Context, userID, tokenHash string) (*auth.User, *auth.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, session := range store.sessions {
		if session.UserID == userID && session.TokenHash == tokenHash {
			user, err := store.users.FindByID(ctx, userID)
			if err != nil {
				return nil, nil, err
			}
			return user, session, nil
		}
	}
	return nil, nil, apperr.NotFound("Session")
}

func (store *memSessionStore) DeleteExpired(_ context.Context) error { return nil }

// stubTaskStore satisfies task.Repository plus both cascader contracts.
type stubTaskStore struct{}

func (stubTaskStore) ListByList(_ context.Context, _, _ string, _, _ int) ([]*task.Task, int, error) {
	return nil, 0, nil
}
func (stubTaskStore) CreateInList(_ context.Context, _, _ string, _ *task.Task) error { return nil }
func (stubTaskStore) GetInList(_ context.Context, _, _, _ string) (*task.Task, error) {
	return nil, apperr.NotFound("Task")
}
func (stubTaskStore) UpdateInList(_ context.Context, _, _ string, _ *task.Task) error { return nil }
func (stubTaskStore) DeleteInList(_ context.Context, _, _, _ string) error            { return nil }
func (stubTaskStore) ListByUser(_ context.Context, _, _ string, _, _ int) ([]*task.Task, int, error) {
	return nil, 0, nil
}
func (stubTaskStore) CreateForUser(_ context.Context, _, _ string, _ *task.Task) error { return nil }
func (stubTaskStore) GetForUser(_ context.Context, _, _, _ string) (*task.Task, error) {
	return nil, apperr.NotFound("Task")
}
func (stubTaskStore) UpdateForUser(_ context.Context, _, _ string, _ *task.Task) error { return nil }
func (stubTaskStore) DeleteForUser(_ context.Context, _, _, _ string) error            { return nil }
func (stubTaskStore) DeleteByListID(_ context.Context, _ string) error                 { return nil }
func (stubTaskStore) DeleteByUserID(_ context.Context, _ string) error                 { return nil }

type stubListStore struct{}

func (stubListStore) ListByUser(_ context.Context, _ string, _, _ int) ([]*list.List, int, error) {
	return nil, 0, nil
}
func (stubListStore) Create(_ context.Context, _ *list.List) error      { return nil }
func (stubListStore) UpdateOwned(_ context.Context, _ *list.List) error { return nil }
func (stubListStore) DeleteOwned(_ context.Context, _, _ string) error  { return nil }

type stubSubUserStore struct{}

func (stubSubUserStore) Create(_ context.Context, _ *subuser.SubUser) error { return nil }
func (stubSubUserStore) EmailExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}
func (stubSubUserStore) ListByOwner(_ context.Context, _ string, _, _ int) ([]*subuser.SubUser, int, error) {
	return nil, 0, nil
}
func (stubSubUserStore) DeleteOwned(_ context.Context, _, _ string) error { return nil }

// # Test Server Assembly

// newTestServer wires the real router exactly like main.go, with in-memory
// stores behind the domain services.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := slog.Default()
	runner := jobs.NewRunner(log, 8)
	runner.Start(ctx)

	users := newMemUserStore()
	sessions := &memSessionStore{users: users}
	authHandler := auth.NewHandler(auth.NewService(users, sessions, nil, stubTokenProvider{}, log))

	taskStore := stubTaskStore{}
	taskHandler := task.NewHandler(task.NewService(taskStore, log))
	subUserHandler := subuser.NewHandler(subuser.NewService(stubSubUserStore{}, taskStore, runner, log))
	listHandler := list.NewHandler(list.NewService(stubListStore{}, taskStore, runner, log))

	probeOK := func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}

	cfg := &config.Config{ServerPort: "8080", Environment: "development"}

	return NewServer(ctx, cfg, log, stubVerifier{}, Handlers{
		Liveness:  probeOK,
		Readiness: probeOK,
		Auth:      authHandler,
		SubUser:   subUserHandler,
		List:      listHandler,
		Task:      taskHandler,
	})
}

func serve(server *Server, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, request)
	return recorder
}

func signup(t *testing.T, server *Server) (userID, refreshToken string) {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users",
		strings.NewReader(`{"email":"owner@example.com","password":"super-secret"}`))
	response := serve(server, request)

	require.Equal(t, http.StatusCreated, response.Code)
	userID = response.Header().Get(constants.HeaderUserID)
	refreshToken = response.Header().Get(constants.HeaderRefreshToken)
	require.NotEmpty(t, userID)
	require.NotEmpty(t, refreshToken)
	return userID, refreshToken
}

// # Tests

/*
TestServer_RenewAccessToken_StaleAccessToken verifies the renewal route is
gated by the refresh session alone. A renewing client typically still sends
its expired access token; that header must not cause a 401 as long as the
x-refresh-token and _id headers match a live session.
*/
func TestServer_RenewAccessToken_StaleAccessToken(t *testing.T) {
	server := newTestServer(t)
	userID, refreshToken := signup(t, server)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me/access-token", nil)
	request.Header.Set(constants.HeaderUserID, userID)
	request.Header.Set(constants.HeaderRefreshToken, refreshToken)
	request.Header.Set(constants.HeaderAccessToken, "stale.expired.token")

	response := serve(server, request)

	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	assert.Equal(t, issuedAccessToken, response.Header().Get(constants.HeaderAccessToken))
}

/*
TestServer_Login_StaleAccessToken verifies the public auth endpoints never
reject a request over a leftover invalid access token.
*/
func TestServer_Login_StaleAccessToken(t *testing.T) {
	server := newTestServer(t)
	signup(t, server)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		strings.NewReader(`{"email":"owner@example.com","password":"super-secret"}`))
	request.Header.Set(constants.HeaderAccessToken, "stale.expired.token")

	response := serve(server, request)

	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	assert.Equal(t, issuedAccessToken, response.Header().Get(constants.HeaderAccessToken))
}

/*
TestServer_ProtectedRoutes_AccessGate verifies that the protected groups keep
hard-rejecting bad tokens and anonymous requests.
*/
func TestServer_ProtectedRoutes_AccessGate(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "anonymous", token: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage_token", token: "stale.expired.token", wantStatus: http.StatusUnauthorized},
		{name: "valid_token", token: issuedAccessToken, wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/lists", nil)
			if tc.token != "" {
				request.Header.Set(constants.HeaderAccessToken, tc.token)
			}

			response := serve(server, request)
			assert.Equal(t, tc.wantStatus, response.Code, response.Body.String())
		})
	}
}
