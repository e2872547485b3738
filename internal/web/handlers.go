package web

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"taskhive/db"
	"taskhive/internal/access"
	"taskhive/internal/auth"
	"taskhive/internal/forms"
	"taskhive/internal/todo"
	"taskhive/models"
)

type WebHandler struct {
	authService *auth.AuthService
	todoService *todo.TodoService
	userRepo    db.UserRepository
	sessions    *auth.SessionManager
	checker     *access.Checker
	templates   *template.Template
}

// PageData is the shared payload handed to every page template.
type PageData struct {
	Page    string
	User    *models.User
	Error   string
	Flashes []string
	Todos   []*models.Todo
	Todo    *models.Todo
	Form    interface{}
}

func NewWebHandler(
	authService *auth.AuthService,
	todoService *todo.TodoService,
	userRepo db.UserRepository,
	sessions *auth.SessionManager,
	checker *access.Checker,
	templateDir string,
) *WebHandler {
	funcMap := template.FuncMap{
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"safeHTML": func(s string) template.HTML {
			// Descriptions come from the rich-text editor and are stored
			// as opaque markup
			return template.HTML(s)
		},
	}

	files, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil || len(files) == 0 {
		panic(fmt.Sprintf("no templates found in %s: %v", templateDir, err))
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		panic(fmt.Sprintf("failed to parse templates: %v", err))
	}

	return &WebHandler{
		authService: authService,
		todoService: todoService,
		userRepo:    userRepo,
		sessions:    sessions,
		checker:     checker,
		templates:   tmpl,
	}
}

// currentUser resolves the session identity to a full user record, or nil
// when the request carries none. Pages that merely adapt to an optional
// identity use this; protected pages go through requireUser.
func (h *WebHandler) currentUser(r *http.Request) *models.User {
	userID, ok := h.sessions.CurrentUserID(r)
	if !ok {
		return nil
	}
	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// requireUser applies the authentication gate and resolves the identity.
// On failure it has already written the response and returns false.
func (h *WebHandler) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, ok := h.sessions.CurrentUserID(r)
	if err := h.checker.RequireAuthenticated(userID, ok); err != nil {
		h.renderTodoError(w, r, err)
		return nil, false
	}

	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		// A stale session pointing at a missing user behaves like no session
		h.renderTodoError(w, r, access.ErrUnauthorized)
		return nil, false
	}
	return user, true
}

func (h *WebHandler) render(w http.ResponseWriter, name string, data PageData) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Home renders the public landing page.
func (h *WebHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", PageData{
		Page:    "home",
		User:    h.currentUser(r),
		Flashes: h.sessions.Flashes(w, r),
	})
}

// UserHome lists the todos owned by the session identity.
func (h *WebHandler) UserHome(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	todos, err := h.todoService.ListFor(r.Context(), user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.render(w, "user_home.html", PageData{
		Page:    "user_home",
		User:    user,
		Todos:   todos,
		Flashes: h.sessions.Flashes(w, r),
	})
}

// Signup renders the registration form and creates accounts.
func (h *WebHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, "signup.html", PageData{Page: "signup", Form: &forms.RegisterForm{}})
		return
	}

	form := forms.ParseRegisterForm(r)
	if err := form.Validate(); err != nil {
		h.render(w, "signup.html", PageData{Page: "signup", Error: err.Error(), Form: form})
		return
	}

	_, err := h.authService.Register(r.Context(), form.Email, form.Username, form.Password, form.PasswordConfirm)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			h.sessions.AddFlash(w, r, "You have already registered with that email address. Please login instead.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if errors.Is(err, auth.ErrPasswordMismatch) {
			h.render(w, "signup.html", PageData{Page: "signup", Error: "Passwords must match!", Form: form})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.sessions.AddFlash(w, r, "Account created!")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Login authenticates and establishes the session.
func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, "login.html", PageData{Page: "login", Flashes: h.sessions.Flashes(w, r)})
		return
	}

	form := forms.ParseLoginForm(r)
	if err := form.Validate(); err != nil {
		h.render(w, "login.html", PageData{Page: "login", Error: err.Error()})
		return
	}

	user, err := h.authService.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.render(w, "login.html", PageData{Page: "login", Error: "Login failed. Please check your email and password."})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Establish(w, r, user.ID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/user_home", http.StatusSeeOther)
}

// Logout destroys the session and redirects home. Repeating it is harmless.
func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.CurrentUserID(r)
	if err := h.checker.RequireAuthenticated(userID, ok); err != nil {
		h.renderTodoError(w, r, err)
		return
	}
	h.sessions.Clear(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// AddTodo creates a todo owned by the session identity.
func (h *WebHandler) AddTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "add_todo.html", PageData{Page: "add", User: user})
		return
	}

	form, err := forms.ParseTodoForm(r)
	if err != nil {
		h.render(w, "add_todo.html", PageData{Page: "add", User: user, Error: err.Error()})
		return
	}
	if err := form.Validate(); err != nil {
		h.render(w, "add_todo.html", PageData{Page: "add", User: user, Error: err.Error(), Form: form})
		return
	}

	if _, err := h.todoService.Add(r.Context(), user.ID, form.Title, form.Description, form.DueDate, form.Completed); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.sessions.AddFlash(w, r, "Todo added!")
	http.Redirect(w, r, "/user_home", http.StatusSeeOther)
}

// EditTodo updates a todo. Only the owner (or the admin) may edit.
func (h *WebHandler) EditTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	todoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	existing, err := h.todoService.Get(r.Context(), todoID)
	if err != nil {
		h.renderTodoError(w, r, err)
		return
	}
	if err := h.checker.RequireOwner(existing, user.ID); err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "edit.html", PageData{Page: "edit", User: user, Todo: existing})
		return
	}

	form, err := forms.ParseTodoForm(r)
	if err != nil {
		h.render(w, "edit.html", PageData{Page: "edit", User: user, Error: err.Error(), Todo: existing})
		return
	}
	if err := form.Validate(); err != nil {
		h.render(w, "edit.html", PageData{Page: "edit", User: user, Error: err.Error(), Todo: existing})
		return
	}

	if _, err := h.todoService.Edit(r.Context(), todoID, user.ID, form.Title, form.Description, form.DueDate, form.Completed); err != nil {
		h.renderTodoError(w, r, err)
		return
	}

	h.sessions.AddFlash(w, r, "Task has been updated!")
	http.Redirect(w, r, "/user_home", http.StatusSeeOther)
}

// DeleteTodo removes a todo by id.
func (h *WebHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	todoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.todoService.Delete(r.Context(), todoID, user.ID); err != nil {
		h.renderTodoError(w, r, err)
		return
	}

	h.sessions.AddFlash(w, r, "Todo deleted!")
	http.Redirect(w, r, "/user_home", http.StatusSeeOther)
}

// Admin lists every user's todos. Gated on the admin identity.
func (h *WebHandler) Admin(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if err := h.checker.RequireAdmin(user.ID); err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	todos, err := h.todoService.ListAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.render(w, "admin.html", PageData{Page: "admin", User: user, Todos: todos})
}

// NotFound is the router's fallback handler.
func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.templates.ExecuteTemplate(w, "not_found.html", PageData{Page: "not_found"})
}

// renderTodoError maps service errors to their HTTP responses.
func (h *WebHandler) renderTodoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		h.NotFound(w, r)
	case errors.Is(err, access.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, access.ErrUnauthorized):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
