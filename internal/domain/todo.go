package domain

import "time"

// Priority bounds for a todo. Values outside this range are rejected
// at validation, never clamped.
const (
	PriorityLow  = 1
	PriorityHigh = 3
)

// Todo represents a single task owned by a user. A todo with
// Active=false is soft-deleted and must be excluded from every read
// path. CompletedAt is non-nil exactly when Completed is true.
type Todo struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
	Priority    int
	UserID      int64
	Active      bool

	// Username of the owning user, populated by read queries that
	// join against the users table. Not persisted on the todo row.
	Username string
}

// ValidPriority reports whether p is within the accepted range.
func ValidPriority(p int) bool {
	return p >= PriorityLow && p <= PriorityHigh
}
