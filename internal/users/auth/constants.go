// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a session/refresh token remains valid.
	// Long-lived (10 days) to provide a good user experience.
	RefreshTokenTTL = 10 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	// 32 bytes = 256 bits of entropy, comfortably above the 128-bit floor.
	RefreshTokenLength = 32

	// SessionPruneInterval is how often expired ledger rows are reclaimed.
	// Pruning is storage hygiene only; expired sessions are already rejected
	// at lookup time.
	SessionPruneInterval = 12 * time.Hour
)
