package testutils

import (
	"context"
	"testing"
	"time"

	"taskhive/db"
	"taskhive/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// CreateTestUser inserts a user with the given credentials and returns it.
// bcrypt.MinCost keeps the suite fast.
func CreateTestUser(t *testing.T, userRepo db.UserRepository, username, email, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := userRepo.Create(context.Background(), &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)

	return user
}

// CreateTestTodo inserts a todo owned by the given user and returns it.
func CreateTestTodo(t *testing.T, todoRepo db.TodoRepository, ownerID int, title string) *models.Todo {
	todo, err := todoRepo.Create(context.Background(), &models.Todo{
		Title:       title,
		Description: "test description",
		Completed:   false,
		UserID:      ownerID,
		CreatedAt:   time.Now(),
	})
	require.NoError(t, err)

	return todo
}
