package list

import "context"

// Repository defines list persistence. Every statement carries the caller's
// user ID as a predicate; a list owned by someone else never matches.
type Repository interface {
	ListByUser(context context.Context, userID string, limit, offset int) ([]*List, int, error)
	Create(context context.Context, l *List) error
	UpdateOwned(context context.Context, l *List) error
	DeleteOwned(context context.Context, userID, listID string) error
}

// TaskCascader deletes the task rows belonging to a removed list. Invoked
// from a queued background job.
type TaskCascader interface {
	DeleteByListID(context context.Context, listID string) error
}
