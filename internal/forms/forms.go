package forms

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterForm carries the signup fields. The confirmation must match the
// password before the auth service is ever invoked.
type RegisterForm struct {
	Email           string `validate:"required,email"`
	Username        string `validate:"required"`
	Password        string `validate:"required"`
	PasswordConfirm string `validate:"required,eqfield=Password"`
}

type LoginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// TodoForm is shared by the add and edit pages. DueDate is optional;
// an empty value is kept as nil.
type TodoForm struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	DueDate     *time.Time
	Completed   bool
}

func ParseRegisterForm(r *http.Request) *RegisterForm {
	return &RegisterForm{
		Email:           r.FormValue("email"),
		Username:        r.FormValue("username"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	}
}

func ParseLoginForm(r *http.Request) *LoginForm {
	return &LoginForm{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
}

func ParseTodoForm(r *http.Request) (*TodoForm, error) {
	form := &TodoForm{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Completed:   r.FormValue("completed") != "",
	}

	if raw := r.FormValue("due_date"); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, errors.New("Due date must use the YYYY-MM-DD format.")
		}
		form.DueDate = &due
	}

	return form, nil
}

func (f *RegisterForm) Validate() error {
	return firstError(validate.Struct(f), map[string]string{
		"Email":           "A valid email address is required.",
		"Username":        "Username is required.",
		"Password":        "Password is required.",
		"PasswordConfirm": "Passwords must match!",
	})
}

func (f *LoginForm) Validate() error {
	return firstError(validate.Struct(f), map[string]string{
		"Email":    "Email is required.",
		"Password": "Password is required.",
	})
}

func (f *TodoForm) Validate() error {
	return firstError(validate.Struct(f), map[string]string{
		"Title":       "Title is required.",
		"Description": "Description is required.",
	})
}

// firstError maps the first failed field to its user-facing message.
func firstError(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := messages[fieldErrs[0].Field()]; ok {
			return errors.New(msg)
		}
		return fmt.Errorf("%s is invalid", fieldErrs[0].Field())
	}

	return err
}
