package models

import (
	"time"
)

// User represents a registered account. PasswordHash holds a bcrypt digest;
// the plaintext password is never stored.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	CreatedAt    time.Time `json:"created_at"`
}
