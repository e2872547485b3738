package db

import (
	"context"
	"database/sql"
	"fmt"

	"taskhive/models"
)

// SQLiteUserRepository implements the UserRepository interface for SQLite
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteUserRepository) Close() error {
	return r.db.Close()
}

// FindByID finds a user by ID
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByEmail finds a user by exact email match
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLiteUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var createdAt sql.NullTime

	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}

	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}

	return &user, nil
}

// Create inserts a new user and returns it with the assigned ID
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting user id: %w", err)
	}

	user.ID = int(id)
	return user, nil
}

// SQLiteTodoRepository implements the TodoRepository interface for SQLite
type SQLiteTodoRepository struct {
	db *sql.DB
}

// NewSQLiteTodoRepository creates a new SQLiteTodoRepository
func NewSQLiteTodoRepository(db *sql.DB) *SQLiteTodoRepository {
	return &SQLiteTodoRepository{db: db}
}

// Close closes the database connection
func (r *SQLiteTodoRepository) Close() error {
	return r.db.Close()
}

// FindByID finds a todo by ID
func (r *SQLiteTodoRepository) FindByID(ctx context.Context, id int) (*models.Todo, error) {
	query := `SELECT id, title, description, due_date, completed, user_id, created_at FROM todos WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var todo models.Todo
	var dueDate, createdAt sql.NullTime

	err := row.Scan(&todo.ID, &todo.Title, &todo.Description, &dueDate, &todo.Completed, &todo.UserID, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning todo: %w", err)
	}

	if dueDate.Valid {
		todo.DueDate = &dueDate.Time
	}
	if createdAt.Valid {
		todo.CreatedAt = createdAt.Time
	}

	return &todo, nil
}

// FindAllByUserID finds all todos owned by a user, in insertion order
func (r *SQLiteTodoRepository) FindAllByUserID(ctx context.Context, userID int) ([]*models.Todo, error) {
	query := `SELECT id, title, description, due_date, completed, user_id, created_at FROM todos WHERE user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying todos: %w", err)
	}
	defer rows.Close()

	return scanTodos(rows)
}

// FindAll finds all todos across every user, in insertion order
func (r *SQLiteTodoRepository) FindAll(ctx context.Context) ([]*models.Todo, error) {
	query := `SELECT id, title, description, due_date, completed, user_id, created_at FROM todos ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying todos: %w", err)
	}
	defer rows.Close()

	return scanTodos(rows)
}

func scanTodos(rows *sql.Rows) ([]*models.Todo, error) {
	var todos []*models.Todo
	for rows.Next() {
		var todo models.Todo
		var dueDate, createdAt sql.NullTime

		err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &dueDate, &todo.Completed, &todo.UserID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning todo: %w", err)
		}

		if dueDate.Valid {
			todo.DueDate = &dueDate.Time
		}
		if createdAt.Valid {
			todo.CreatedAt = createdAt.Time
		}

		todos = append(todos, &todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// Create inserts a new todo and returns it with the assigned ID
func (r *SQLiteTodoRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query := `INSERT INTO todos (title, description, due_date, completed, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	var dueDate interface{}
	if todo.DueDate != nil {
		dueDate = *todo.DueDate
	}

	result, err := r.db.ExecContext(ctx, query, todo.Title, todo.Description, dueDate, todo.Completed, todo.UserID, todo.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting todo id: %w", err)
	}

	todo.ID = int(id)
	return todo, nil
}

// Update writes the mutable fields of a todo in a single statement.
// The owner and id columns are never touched.
func (r *SQLiteTodoRepository) Update(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query := `UPDATE todos SET title = ?, description = ?, due_date = ?, completed = ? WHERE id = ?`
	var dueDate interface{}
	if todo.DueDate != nil {
		dueDate = *todo.DueDate
	}

	result, err := r.db.ExecContext(ctx, query, todo.Title, todo.Description, dueDate, todo.Completed, todo.ID)
	if err != nil {
		return nil, fmt.Errorf("error updating todo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error checking update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return todo, nil
}

// DeleteByID deletes a todo by ID
func (r *SQLiteTodoRepository) DeleteByID(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting todo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
