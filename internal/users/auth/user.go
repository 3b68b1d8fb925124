// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for signup,
login, and the dual-token lifecycle: short-lived signed access tokens and
long-lived opaque refresh tokens tracked in the session ledger.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered account, either an owner or a sub-user
// provisioned by an owner.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"` // Explicitly omitted from JSON for security.
	IsOwner      bool    `json:"is_owner"`
	OwnerID      *string `json:"owner_id,omitempty"` // Set iff IsOwner is false.

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session represents one active login: a refresh token (stored hashed) and
// its expiry. Sessions belong exclusively to their user and are never
// addressable outside that user's ledger.
//
// Sessions are append-only. Expired entries are not actively pruned; they
// simply fail the [Session.IsExpired] check at lookup time.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the session's expiry has passed at the given
// instant. Expiry is inclusive: a session whose ExpiresAt equals now is dead.
func (session *Session) IsExpired(now time.Time) bool {
	return !session.ExpiresAt.After(now)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
