package list

import "time"

// List is a named container of tasks, owned by exactly one user.
type List struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	FieldTitle = "title"
	FieldID    = "id"

	// MaxTitleLen bounds list titles at the validation layer.
	MaxTitleLen = 200
)
