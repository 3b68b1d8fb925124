// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (unique-email violations included)
	*/
	Create(context context.Context, user *User) error
}

// # Session Ledger Access

// SessionRepository defines the data access contract for the refresh-token
// session ledger.
type SessionRepository interface {

	/*
		Append records a new session for an authenticated login.

		The append must be a single atomic insert: two concurrent logins for
		the same user must both land, with no lost update.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Append(context context.Context, session *Session) error

	/*
		FindUserBySessionToken returns the user whose id matches and whose
		ledger contains a session with the given token hash, regardless of
		expiry. Expiry is the caller's check, via [Session.IsExpired].

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - *User: The owning user record
		  - *Session: The matching ledger entry
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindUserBySessionToken(context context.Context, userID, tokenHash string) (*User, *Session, error)

	/*
		DeleteExpired physically removes sessions whose ExpiresAt is in the past.

		Ledger correctness never depends on this; expired entries are already
		treated as invalid at lookup time. It exists for storage reclamation.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Cleanup failures
	*/
	DeleteExpired(context context.Context) error
}

// # Volatile Session Cache

// SessionCache is an optional O(1) token→expiry index in front of the ledger.
//
// Cache failures are never fatal: every read falls back to the ledger, and
// writes are best-effort.
type SessionCache interface {

	/*
		Set stores the expiry for a (userID, tokenHash) pair, TTL-bound so the
		entry evaporates no later than the session itself.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string
		  - expiresAt: time.Time

		Returns:
		  - error: Cache write failures
	*/
	Set(context context.Context, userID, tokenHash string, expiresAt time.Time) error

	/*
		Get retrieves the expiry recorded for a (userID, tokenHash) pair.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - time.Time: The session expiry
		  - error: apperr.NotFound on a cache miss, or connectivity failures
	*/
	Get(context context.Context, userID, tokenHash string) (time.Time, error)
}
