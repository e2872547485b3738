package access

import (
	"errors"

	"taskhive/models"
)

var (
	// ErrUnauthorized means no valid session is bound to the request
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden means the identity is known but not allowed
	ErrForbidden = errors.New("access denied")
)

// Checker evaluates access gates for a resolved identity. Gates compose:
// a protected operation may apply several in sequence.
type Checker struct {
	adminUserID int
}

func NewChecker(adminUserID int) *Checker {
	return &Checker{adminUserID: adminUserID}
}

// RequireAuthenticated fails unless the request carries a resolved identity.
func (c *Checker) RequireAuthenticated(userID int, ok bool) error {
	if !ok || userID == 0 {
		return ErrUnauthorized
	}
	return nil
}

// RequireOwner fails unless the identity owns the todo. The admin identity
// passes regardless of ownership.
func (c *Checker) RequireOwner(todo *models.Todo, userID int) error {
	if todo.OwnedBy(userID) {
		return nil
	}
	if userID == c.adminUserID {
		return nil
	}
	return ErrForbidden
}

// RequireAdmin fails unless the identity is the configured admin.
func (c *Checker) RequireAdmin(userID int) error {
	if userID != c.adminUserID {
		return ErrForbidden
	}
	return nil
}
