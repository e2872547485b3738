package models

import (
	"time"
)

// Todo represents a task owned by exactly one user. UserID is assigned at
// creation and never changes afterwards.
type Todo struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	UserID      int        `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// OwnedBy reports whether the todo belongs to the given user.
func (t *Todo) OwnedBy(userID int) bool {
	return t.UserID == userID
}
