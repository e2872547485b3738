package todo

import (
	"context"
	"time"

	"taskhive/db"
	"taskhive/internal/access"
	"taskhive/models"
)

type TodoService struct {
	todoRepo db.TodoRepository
	checker  *access.Checker
	// strictDelete enforces ownership on deletion. The historical behavior
	// leaves deletion unchecked, unlike edit; see DESIGN.md.
	strictDelete bool
}

func NewTodoService(todoRepo db.TodoRepository, checker *access.Checker, strictDelete bool) *TodoService {
	return &TodoService{todoRepo: todoRepo, checker: checker, strictDelete: strictDelete}
}

// ListFor returns all todos owned by the user, in insertion order.
func (s *TodoService) ListFor(ctx context.Context, userID int) ([]*models.Todo, error) {
	return s.todoRepo.FindAllByUserID(ctx, userID)
}

// ListAll returns every todo in the system. Callers must gate this behind
// the admin check.
func (s *TodoService) ListAll(ctx context.Context) ([]*models.Todo, error) {
	return s.todoRepo.FindAll(ctx)
}

// Get fetches a todo by id.
func (s *TodoService) Get(ctx context.Context, todoID int) (*models.Todo, error) {
	return s.todoRepo.FindByID(ctx, todoID)
}

// Add creates a todo bound to ownerID. The owner always comes from the
// session identity, never from client input.
func (s *TodoService) Add(ctx context.Context, ownerID int, title, description string, dueDate *time.Time, completed bool) (*models.Todo, error) {
	todo := &models.Todo{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Completed:   completed,
		UserID:      ownerID,
		CreatedAt:   time.Now(),
	}
	return s.todoRepo.Create(ctx, todo)
}

// Edit updates the mutable fields of a todo in one write. The caller's
// identity must own the todo (the admin identity passes).
func (s *TodoService) Edit(ctx context.Context, todoID, userID int, title, description string, dueDate *time.Time, completed bool) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		return nil, err
	}

	if err := s.checker.RequireOwner(todo, userID); err != nil {
		return nil, err
	}

	todo.Title = title
	todo.Description = description
	todo.DueDate = dueDate
	todo.Completed = completed

	return s.todoRepo.Update(ctx, todo)
}

// Delete removes a todo by id. Ownership is only enforced in strict mode:
// the default mode matches the historical behavior, where any logged-in
// user can delete any todo by id.
func (s *TodoService) Delete(ctx context.Context, todoID, userID int) error {
	todo, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		return err
	}

	if s.strictDelete {
		if err := s.checker.RequireOwner(todo, userID); err != nil {
			return err
		}
	}

	return s.todoRepo.DeleteByID(ctx, todo.ID)
}
