// Copyright (c) 2026 TaskPro. All rights reserved.
// Author: humza.khawar.dev@gmail.com

package subuser

import "context"

// Repository defines the data access contract for sub-user accounts.
//
// Every mutating method is scoped by owner inside the statement itself, so a
// sub-user belonging to a different owner is simply "not found".
type Repository interface {
	Create(context context.Context, subUser *SubUser) error
	EmailExists(context context.Context, email string) (bool, error)
	ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*SubUser, int, error)
	DeleteOwned(context context.Context, ownerID, subUserID string) error
}

// TaskCascader deletes the task rows left behind by a removed sub-user.
//
// Implemented by the task storage layer; invoked from a queued background job
// so the management response never waits on the cascade.
type TaskCascader interface {
	DeleteByUserID(context context.Context, userID string) error
}
