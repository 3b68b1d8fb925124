package task

import "context"

// Repository defines task persistence.
//
// Authorization is part of every statement: list-scoped methods join the
// parent list on the caller's ownership, user-scoped methods join the target
// account on ownerid = caller. A task reachable only through someone else's
// parent never matches, and zero rows reads as "not found".
type Repository interface {
	// List-scoped access, authorized through core.list ownership.
	ListByList(context context.Context, callerID, listID string, limit, offset int) ([]*Task, int, error)
	CreateInList(context context.Context, callerID, listID string, t *Task) error
	GetInList(context context.Context, callerID, listID, taskID string) (*Task, error)
	UpdateInList(context context.Context, callerID, listID string, t *Task) error
	DeleteInList(context context.Context, callerID, listID, taskID string) error

	// Sub-user-scoped access, authorized through users.account ownership.
	ListByUser(context context.Context, callerID, targetUserID string, limit, offset int) ([]*Task, int, error)
	CreateForUser(context context.Context, callerID, targetUserID string, t *Task) error
	GetForUser(context context.Context, callerID, targetUserID, taskID string) (*Task, error)
	UpdateForUser(context context.Context, callerID, targetUserID string, t *Task) error
	DeleteForUser(context context.Context, callerID, targetUserID, taskID string) error

	// Cascade cleanup, run from queued background jobs.
	DeleteByListID(context context.Context, listID string) error
	DeleteByUserID(context context.Context, userID string) error
}
