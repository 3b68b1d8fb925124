package task

import "time"

// Task is a single to-do item. It hangs off exactly one parent: a list
// (ListID set) or a sub-user (UserID set), never both.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ListID    *string   `json:"list_id,omitempty"`
	UserID    *string   `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	FieldTitle = "title"
	FieldID    = "id"

	// MaxTitleLen bounds task titles at the validation layer.
	MaxTitleLen = 200
)
