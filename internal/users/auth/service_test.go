// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package auth

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/sec"
)

// # In-Memory Fakes

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*User // keyed by ID
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*User)}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

// fakeSessionRepository keeps a users reference so lookups can resolve the
// joined account like the real query does.
type fakeSessionRepository struct {
	mu       sync.Mutex
	users    *fakeUserRepository
	sessions []*Session
	lookups  int
}

func (f *fakeSessionRepository) Append(_ context.Context, session *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeSessionRepository) FindUserBySessionToken(ctx context.Context, userID, tokenHash string) (*User, *Session, error) {
	f.mu.Lock()
	f.lookups++
	var found *Session
	for _, session := range f.sessions {
		if session.UserID == userID && session.TokenHash == tokenHash {
			found = session
			break
		}
	}
	f.mu.Unlock()

	if found == nil {
		return nil, nil, apperr.NotFound("Session")
	}

	user, err := f.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, found, nil
}

func (f *fakeSessionRepository) DeleteExpired(_ context.Context) error { return nil }

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID string, isOwner bool, _ time.Duration) (string, error) {
	return "signed-token-for-" + userID, nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepository, *fakeSessionRepository) {
	t.Helper()

	userRepo := newFakeUserRepository()
	sessionRepo := &fakeSessionRepository{users: userRepo}

	service := NewService(userRepo, sessionRepo, nil, fakeTokenProvider{}, slog.Default())
	return service, userRepo, sessionRepo
}

// # Signup

/*
TestService_Signup verifies account creation plus first-session issuance.
*/
func TestService_Signup(t *testing.T) {
	service, userRepo, sessionRepo := newTestService(t)

	credentials, err := service.Signup(context.Background(), SignupInput{
		Email:    "owner@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	require.NotNil(t, credentials)

	assert.NotEmpty(t, credentials.AccessToken)
	assert.NotEmpty(t, credentials.RefreshToken)
	assert.True(t, credentials.User.IsOwner)
	assert.Nil(t, credentials.User.OwnerID)

	// Password must be stored hashed, never verbatim
	stored, err := userRepo.FindByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("s3cret-password", stored.PasswordHash))

	// One ledger entry, holding the hash of the returned refresh token
	require.Len(t, sessionRepo.sessions, 1)
	assert.Equal(t, sec.HashToken(credentials.RefreshToken), sessionRepo.sessions[0].TokenHash)
	assert.True(t, sessionRepo.sessions[0].ExpiresAt.After(time.Now()))
}

/*
TestService_Signup_DuplicateEmail expects a field-level validation failure.
*/
func TestService_Signup_DuplicateEmail(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Signup(context.Background(), SignupInput{Email: "dup@example.com", Password: "password-one"})
	require.NoError(t, err)

	_, err = service.Signup(context.Background(), SignupInput{Email: "dup@example.com", Password: "password-two"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, FieldEmail, ae.Details[0].Field)
}

// # Login

/*
TestService_Login_IndistinguishableFailures asserts that an unknown email and
a wrong password produce byte-identical errors, so the API never confirms
whether an email is registered.
*/
func TestService_Login_IndistinguishableFailures(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Signup(context.Background(), SignupInput{Email: "known@example.com", Password: "correct-password"})
	require.NoError(t, err)

	_, unknownEmailErr := service.Login(context.Background(), LoginInput{
		Email:    "unknown@example.com",
		Password: "whatever",
	})
	_, wrongPasswordErr := service.Login(context.Background(), LoginInput{
		Email:    "known@example.com",
		Password: "wrong-password",
	})

	require.Error(t, unknownEmailErr)
	require.Error(t, wrongPasswordErr)

	unknownAE := apperr.As(unknownEmailErr)
	wrongAE := apperr.As(wrongPasswordErr)
	require.NotNil(t, unknownAE)
	require.NotNil(t, wrongAE)

	assert.Equal(t, unknownAE.Code, wrongAE.Code)
	assert.Equal(t, unknownAE.Message, wrongAE.Message)
	assert.Equal(t, unknownAE.HTTPStatus, wrongAE.HTTPStatus)
	assert.Equal(t, 401, wrongAE.HTTPStatus)
}

/*
TestService_Login_Success verifies the dual-token pair on valid credentials.
*/
func TestService_Login_Success(t *testing.T) {
	service, _, sessionRepo := newTestService(t)

	_, err := service.Signup(context.Background(), SignupInput{Email: "owner@example.com", Password: "correct-password"})
	require.NoError(t, err)

	credentials, err := service.Login(context.Background(), LoginInput{
		Email:    "owner@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, credentials.AccessToken)
	assert.NotEmpty(t, credentials.RefreshToken)

	// Signup session + login session both present
	assert.Len(t, sessionRepo.sessions, 2)
}

// # Session Ledger

/*
TestService_ConcurrentLogins_BothSessionsLand exercises the atomic-append
guarantee: parallel logins must not lose each other's ledger entries.
*/
func TestService_ConcurrentLogins_BothSessionsLand(t *testing.T) {
	service, _, sessionRepo := newTestService(t)

	credentials, err := service.Signup(context.Background(), SignupInput{Email: "owner@example.com", Password: "correct-password"})
	require.NoError(t, err)
	user := credentials.User

	const parallelLogins = 8
	var wg sync.WaitGroup
	wg.Add(parallelLogins)
	for i := 0; i < parallelLogins; i++ {
		go func() {
			defer wg.Done()
			_, err := service.CreateSession(context.Background(), user)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Signup session + every concurrent one
	assert.Len(t, sessionRepo.sessions, parallelLogins+1)
}

/*
TestService_ResolveRefreshSession covers every rejection branch of the
refresh gate resolution: unknown user, unknown token, expired session.
*/
func TestService_ResolveRefreshSession(t *testing.T) {
	service, _, _ := newTestService(t)

	credentials, err := service.Signup(context.Background(), SignupInput{Email: "owner@example.com", Password: "correct-password"})
	require.NoError(t, err)
	user := credentials.User

	t.Run("valid_session", func(t *testing.T) {
		resolved, err := service.ResolveRefreshSession(context.Background(), user.ID, credentials.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := service.ResolveRefreshSession(context.Background(), "nonexistent-user", credentials.RefreshToken)
		requireUnauthorized(t, err)
	})

	t.Run("unknown_token", func(t *testing.T) {
		_, err := service.ResolveRefreshSession(context.Background(), user.ID, "forged-refresh-token")
		requireUnauthorized(t, err)
	})

	t.Run("token_under_wrong_user", func(t *testing.T) {
		other, err := service.Signup(context.Background(), SignupInput{Email: "other@example.com", Password: "other-password"})
		require.NoError(t, err)

		// A stolen token must not resolve under a different account's ID
		_, err = service.ResolveRefreshSession(context.Background(), other.User.ID, credentials.RefreshToken)
		requireUnauthorized(t, err)
	})

	t.Run("expired_session", func(t *testing.T) {
		// Jump the service clock past the refresh TTL
		service.now = func() time.Time { return time.Now().Add(RefreshTokenTTL + time.Hour) }
		defer func() { service.now = time.Now }()

		_, err := service.ResolveRefreshSession(context.Background(), user.ID, credentials.RefreshToken)
		requireUnauthorized(t, err)
	})
}

/*
TestService_ResolveRefreshSession_CacheFastPath verifies that a cache hit
answers without touching the ledger, and that a miss falls back to it.
*/
func TestService_ResolveRefreshSession_CacheFastPath(t *testing.T) {
	userRepo := newFakeUserRepository()
	sessionRepo := &fakeSessionRepository{users: userRepo}
	cache := &fakeSessionCache{entries: make(map[string]time.Time)}

	service := NewService(userRepo, sessionRepo, cache, fakeTokenProvider{}, slog.Default())

	credentials, err := service.Signup(context.Background(), SignupInput{Email: "owner@example.com", Password: "correct-password"})
	require.NoError(t, err)

	// The signup primed the cache; resolution must not hit the ledger.
	ledgerLookupsBefore := sessionRepo.lookups
	_, err = service.ResolveRefreshSession(context.Background(), credentials.User.ID, credentials.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, ledgerLookupsBefore, sessionRepo.lookups)

	// Drop the cache; resolution falls back to the ledger and backfills.
	cache.entries = make(map[string]time.Time)
	_, err = service.ResolveRefreshSession(context.Background(), credentials.User.ID, credentials.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, ledgerLookupsBefore+1, sessionRepo.lookups)
	assert.Len(t, cache.entries, 1)
}

type fakeSessionCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func (f *fakeSessionCache) Set(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[userID+":"+tokenHash] = expiresAt
	return nil
}

func (f *fakeSessionCache) Get(_ context.Context, userID, tokenHash string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if expiresAt, ok := f.entries[userID+":"+tokenHash]; ok {
		return expiresAt, nil
	}
	return time.Time{}, apperr.NotFound("Session")
}

func requireUnauthorized(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
	assert.Equal(t, 401, ae.HTTPStatus)
}
