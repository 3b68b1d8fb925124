// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

/*
Package subuser implements owner-managed sub-user accounts.

An owner account can provision sub-users: full login-capable accounts that
belong to the owner (OwnerID set, IsOwner false). Owners manage only their own
sub-users; another owner's sub-user is indistinguishable from a nonexistent
one. Sub-users themselves can never manage accounts.
*/
package subuser

import "time"

// SubUser is the account view exposed by the management endpoints.
//
// It maps to the same users.account table the auth package reads; this type
// just never carries fields a management listing has no business returning.
type SubUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	OwnerID      string    `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	FieldEmail    = "email"
	FieldPassword = "password"
)
