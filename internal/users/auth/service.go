// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/khawarh/taskpro/internal/platform/apperr"
	"github.com/khawarh/taskpro/internal/platform/sec"
	"github.com/khawarh/taskpro/internal/platform/validate"
	"github.com/khawarh/taskpro/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating signed access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - isOwner: Whether the account is an owner (vs. sub-user).
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID string, isOwner bool, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, session,
// or login logic must be reviewed carefully.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	sessionCache      SessionCache
	tokenProvider     TokenProvider
	logger            *slog.Logger

	// now is the clock source, replaceable in tests to simulate expiry.
	now func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
//
// sessionCache may be nil; the service then resolves every refresh session
// directly against the ledger.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	sessionCache SessionCache,
	tokenProv TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		sessionCache:      sessionCache,
		tokenProvider:     tokenProv,
		logger:            logger,
		now:               time.Now,
	}
}

// # Signup Flow

// SignupInput holds the data required to enroll a new owner account.
type SignupInput struct {
	Email    string
	Password string
}

// Credentials represents a freshly issued token pair plus the user it
// belongs to. The refresh token is the raw opaque value; the ledger only
// ever stores its hash.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

/*
Signup validates, hashes, and persists a brand new owner account, then
establishes its first session.

Description: The password is hashed exactly once, here, because this is the
flow where the password field changes value. Email uniqueness is enforced
before the insert; a storage-level unique violation from a lost race maps to
the same validation failure.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *Credentials: Token pair and created entity
  - err: Validation (duplicate email) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*Credentials, error) {
	email := strings.TrimSpace(input.Email)

	// Verify email uniqueness. Return a client-safe, field-level failure.
	if _, err := service.userRepository.FindByEmail(context, email); err == nil {
		return nil, validate.RequiredError(FieldEmail, "Email is already registered")
	}

	// Prevent storing plain-text passwords. Cost factor 10 balances security
	// and CPU utilization during signup spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		IsOwner:      true,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	return service.issueCredentials(context, user)
}

// # Login Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues a fresh token pair.

Description: An unknown email and a wrong password produce byte-identical
failures with the same code and message, so the API never confirms whether an
email is registered. The bcrypt comparison runs its full derivation either way.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Credentials: Token pair and user record
  - err: Unauthorized (generic) or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Credentials, error) {
	user, err := service.userRepository.FindByEmail(context, strings.TrimSpace(input.Email))

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Constant-effort comparison via bcrypt; failure is indistinguishable
	// from the unknown-email branch above.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issueCredentials(context, user)
}

// # Session Ledger

/*
CreateSession issues a refresh token, appends {tokenHash, expiresAt} to the
user's session ledger, and returns the raw refresh token.

Description: The append is a single atomic insert; concurrent logins for the
same user both land. Multiple live sessions per user are expected; nothing
revokes siblings. The cache write is best-effort and never fails the login.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - string: The raw opaque refresh token
  - err: Ledger persistence failures
*/
func (service *Service) CreateSession(context context.Context, user *User) (string, error) {

	// Generate the long-lived opaque refresh token. No embedded claims; it
	// is only meaningful against the ledger entry written below.
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		ExpiresAt: service.now().Add(RefreshTokenTTL),
	}

	if err := service.sessionRepository.Append(context, session); err != nil {
		return "", fmt.Errorf("auth_service_session_append_failed: %w", err)
	}

	// Prime the O(1) lookup cache. Failure here only costs the fast path.
	if service.sessionCache != nil {
		if cacheErr := service.sessionCache.Set(context, session.UserID, session.TokenHash, session.ExpiresAt); cacheErr != nil {
			service.logger.Warn("session_cache_set_failed",
				slog.String("user_id", user.ID),
				slog.Any("error", cacheErr),
			)
		}
	}

	return refreshToken, nil
}

/*
ResolveRefreshSession authenticates a (userID, refreshToken) pair against the
session ledger.

Description: The cache answers most renewals in O(1); on a miss the ledger is
consulted with a single scoped join. EVERY non-success branch returns an
explicit Unauthorized; an unknown user, an unknown token, and an expired
session are all rejected the same way, and no branch falls through silently.

Parameters:
  - context: context.Context
  - userID: string (claimed identity from the _id header)
  - refreshToken: string (raw opaque token)

Returns:
  - *User: The authenticated user record
  - err: apperr.Unauthorized on any failure to match a live session
*/
func (service *Service) ResolveRefreshSession(context context.Context, userID, refreshToken string) (*User, error) {
	tokenHash := sec.HashToken(refreshToken)

	// Fast path: cache hit with a live expiry only needs the user row.
	if service.sessionCache != nil {
		if expiresAt, cacheErr := service.sessionCache.Get(context, userID, tokenHash); cacheErr == nil {
			if !expiresAt.After(service.now()) {
				return nil, apperr.Unauthorized("Refresh session is invalid or expired")
			}
			user, err := service.userRepository.FindByID(context, userID)
			if err != nil {
				return nil, apperr.Unauthorized("Refresh session is invalid or expired")
			}
			return user, nil
		}
	}

	// Ledger path: one scoped lookup returns the user and the matching
	// session together, no find-then-branch double round trip.
	user, session, err := service.sessionRepository.FindUserBySessionToken(context, userID, tokenHash)
	if err != nil {
		return nil, apperr.Unauthorized("Refresh session is invalid or expired")
	}

	// The ledger matches regardless of expiry; the expiry check is ours.
	if session.IsExpired(service.now()) {
		return nil, apperr.Unauthorized("Refresh session is invalid or expired")
	}

	// Backfill the cache for subsequent renewals.
	if service.sessionCache != nil {
		if cacheErr := service.sessionCache.Set(context, userID, tokenHash, session.ExpiresAt); cacheErr != nil {
			service.logger.Warn("session_cache_set_failed",
				slog.String("user_id", userID),
				slog.Any("error", cacheErr),
			)
		}
	}

	return user, nil
}

/*
RenewAccessToken mints a fresh short-lived access token for a user whose
refresh session has already been verified.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - string: Signed access token
  - err: Signing failures
*/
func (service *Service) RenewAccessToken(context context.Context, user *User) (string, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.IsOwner, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_renew_access_token_failed: %w", err)
	}
	return accessToken, nil
}

// issueCredentials builds the dual-token pair shared by signup and login.
func (service *Service) issueCredentials(context context.Context, user *User) (*Credentials, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.IsOwner, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := service.CreateSession(context, user)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
