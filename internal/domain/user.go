package domain

import "time"

// User represents a registered account. Username and email are each
// globally unique among users.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    *time.Time
}
