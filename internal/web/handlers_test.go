package web_test

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"taskhive/db"
	"taskhive/internal/access"
	"taskhive/internal/auth"
	"taskhive/internal/config"
	"taskhive/internal/todo"
	"taskhive/internal/web"
	"taskhive/tests/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	handler  http.Handler
	userRepo db.UserRepository
	todoRepo db.TodoRepository
}

func setupApp(t *testing.T, strictDelete bool) *testApp {
	factory := testutils.SetupTestRepositoryFactory(t)
	userRepo := factory.NewUserRepository()
	todoRepo := factory.NewTodoRepository()

	cfg := &config.Config{
		Port:          "0",
		SessionSecret: "test-session-secret",
		BcryptCost:    bcrypt.MinCost,
		AdminUserID:   1,
		StrictDelete:  strictDelete,
	}

	checker := access.NewChecker(cfg.AdminUserID)
	authService := auth.NewAuthService(userRepo, cfg.BcryptCost)
	todoService := todo.NewTodoService(todoRepo, checker, cfg.StrictDelete)
	sessions := auth.NewSessionManager(cfg.SessionSecret)

	handler := web.NewWebHandler(authService, todoService, userRepo, sessions, checker, "../../templates")
	return &testApp{
		handler:  handler.SetupRoutes(),
		userRepo: userRepo,
		todoRepo: todoRepo,
	}
}

func todoPath(prefix string, id int) string {
	return prefix + strconv.Itoa(id)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// signup and login drive the real forms end to end.
func signup(ts *testutils.TestServer, email, username, password string) *http.Response {
	return ts.PostForm("/signup", url.Values{
		"email":            {email},
		"username":         {username},
		"password":         {password},
		"password_confirm": {password},
	})
}

func login(ts *testutils.TestServer, email, password string) *http.Response {
	return ts.PostForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func addTodo(ts *testutils.TestServer, title, description, dueDate string) *http.Response {
	return ts.PostForm("/add", url.Values{
		"title":       {title},
		"description": {description},
		"due_date":    {dueDate},
	})
}

func TestSignupLoginFlow(t *testing.T) {
	app := setupApp(t, false)
	ts := testutils.NewTestServer(t, app.handler)

	resp := signup(ts, "alice@example.com", "alice", "pw1")
	page := body(t, resp)
	assert.Contains(t, page, "Account created!")
	assert.Contains(t, page, "Sign In")

	resp = login(ts, "alice@example.com", "pw1")
	page = body(t, resp)
	assert.Contains(t, page, "alice's Todos")
}

func TestSignupDuplicateEmailRedirectsToLogin(t *testing.T) {
	app := setupApp(t, false)
	ts := testutils.NewTestServer(t, app.handler)

	body(t, signup(ts, "a@x.com", "alice", "pw1"))

	resp := signup(ts, "a@x.com", "alice2", "pw2")
	page := body(t, resp)
	assert.Contains(t, page, "already registered")
	assert.Contains(t, page, "Sign In")

	// No second row was created
	user, err := app.userRepo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	app := setupApp(t, false)
	ts := testutils.NewTestServer(t, app.handler)

	body(t, signup(ts, "alice@example.com", "alice", "pw1"))

	unknown := body(t, login(ts, "nobody@example.com", "pw1"))
	wrongPw := body(t, login(ts, "alice@example.com", "wrong"))

	assert.Contains(t, unknown, "Login failed. Please check your email and password.")
	assert.Contains(t, wrongPw, "Login failed. Please check your email and password.")
}

func TestDashboardRequiresSession(t *testing.T) {
	app := setupApp(t, false)
	ts := testutils.NewTestServer(t, app.handler).NoRedirects()

	for _, path := range []string{"/user_home", "/add", "/edit/1", "/delete/1", "/logout", "/admin"} {
		resp := ts.GET(path)
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "path %s", path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), "path %s", path)
	}
}

func TestAddTodoRoundTrip(t *testing.T) {
	app := setupApp(t, false)
	ts := testutils.NewTestServer(t, app.handler)

	body(t, signup(ts, "alice@example.com", "alice", "pw1"))
	body(t, login(ts, "alice@example.com", "pw1"))

	page := body(t, addTodo(ts, "Buy milk", "2% milk, 1 gallon", "2024-01-01"))
	assert.Contains(t, page, "Todo added!")
	assert.Contains(t, page, "Buy milk")
	assert.Contains(t, page, "2% milk, 1 gallon")
	assert.Contains(t, page, "2024-01-01")

	alice, err := app.userRepo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	todos, err := app.todoRepo.FindAllByUserID(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)
	assert.False(t, todos[0].Completed)
}

func TestAddTodoValidation(t *testing.T) {
	app := setupApp(t, false)
	ts := testutils.NewTestServer(t, app.handler)

	body(t, signup(ts, "alice@example.com", "alice", "pw1"))
	body(t, login(ts, "alice@example.com", "pw1"))

	page := body(t, addTodo(ts, "", "some description", ""))
	assert.Contains(t, page, "Title is required.")

	page = body(t, addTodo(ts, "a title", "", ""))
	assert.Contains(t, page, "Description is required.")
}

func TestEditRequiresOwnership(t *testing.T) {
	app := setupApp(t, false)

	// alice registers first and is therefore the admin (id 1); use bob and
	// carol so neither side has elevated access.
	admin := testutils.NewTestServer(t, app.handler)
	body(t, signup(admin, "admin@example.com", "admin", "pw"))

	bob := testutils.NewTestServer(t, app.handler)
	body(t, signup(bob, "bob@example.com", "bob", "pw2"))
	body(t, login(bob, "bob@example.com", "pw2"))
	body(t, addTodo(bob, "bob's task", "private", ""))

	bobUser, err := app.userRepo.FindByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	todos, err := app.todoRepo.FindAllByUserID(context.Background(), bobUser.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	todoID := todos[0].ID

	carol := testutils.NewTestServer(t, app.handler)
	body(t, signup(carol, "carol@example.com", "carol", "pw3"))
	body(t, login(carol, "carol@example.com", "pw3"))

	resp := carol.GET(todoPath("/edit/", todoID))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = carol.PostForm(todoPath("/edit/", todoID), url.Values{
		"title":       {"hijacked"},
		"description": {"gotcha"},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	unchanged, err := app.todoRepo.FindByID(context.Background(), todoID)
	require.NoError(t, err)
	assert.Equal(t, "bob's task", unchanged.Title)
}

// TestDeleteOwnershipGap covers the asymmetry between edit and delete:
// a non-owner's delete goes through in the default mode.
func TestDeleteOwnershipGap(t *testing.T) {
	app := setupApp(t, false)

	admin := testutils.NewTestServer(t, app.handler)
	body(t, signup(admin, "admin@example.com", "admin", "pw"))

	bob := testutils.NewTestServer(t, app.handler)
	body(t, signup(bob, "bob@example.com", "bob", "pw2"))
	body(t, login(bob, "bob@example.com", "pw2"))
	body(t, addTodo(bob, "bob's task", "private", ""))

	bobUser, err := app.userRepo.FindByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	todos, err := app.todoRepo.FindAllByUserID(context.Background(), bobUser.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	todoID := todos[0].ID

	carol := testutils.NewTestServer(t, app.handler)
	body(t, signup(carol, "carol@example.com", "carol", "pw3"))
	body(t, login(carol, "carol@example.com", "pw3"))

	resp := carol.GET(todoPath("/delete/", todoID))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = app.todoRepo.FindByID(context.Background(), todoID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDeleteStrictModeForbidsNonOwner(t *testing.T) {
	app := setupApp(t, true)

	admin := testutils.NewTestServer(t, app.handler)
	body(t, signup(admin, "admin@example.com", "admin", "pw"))

	bob := testutils.NewTestServer(t, app.handler)
	body(t, signup(bob, "bob@example.com", "bob", "pw2"))
	body(t, login(bob, "bob@example.com", "pw2"))
	body(t, addTodo(bob, "bob's task", "private", ""))

	bobUser, err := app.userRepo.FindByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	todos, err := app.todoRepo.FindAllByUserID(context.Background(), bobUser.ID)
	require.NoError(t, err)
	todoID := todos[0].ID

	carol := testutils.NewTestServer(t, app.handler)
	body(t, signup(carol, "carol@example.com", "carol", "pw3"))
	body(t, login(carol, "carol@example.com", "pw3"))

	resp := carol.GET(todoPath("/delete/", todoID))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, err = app.todoRepo.FindByID(context.Background(), todoID)
	assert.NoError(t, err)
}

func TestMissingTodoReturns404(t *testing.T) {
	app := setupApp(t, false)
	ts := testutils.NewTestServer(t, app.handler)

	body(t, signup(ts, "alice@example.com", "alice", "pw1"))
	body(t, login(ts, "alice@example.com", "pw1"))

	resp := ts.GET("/edit/99999")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.GET("/delete/99999")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogoutIsIdempotent(t *testing.T) {
	app := setupApp(t, false)
	ts := testutils.NewTestServer(t, app.handler).NoRedirects()

	body(t, signup(ts, "alice@example.com", "alice", "pw1"))
	resp := login(ts, "alice@example.com", "pw1")
	resp.Body.Close()

	resp = ts.GET("/logout")
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// Second logout finds no session and lands on the login page; either
	// way there is no error and no identity remains.
	resp = ts.GET("/logout")
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = ts.GET("/user_home")
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestAdminPage(t *testing.T) {
	app := setupApp(t, false)

	// First registered user gets the configured admin id
	admin := testutils.NewTestServer(t, app.handler)
	body(t, signup(admin, "admin@example.com", "admin", "pw"))
	body(t, login(admin, "admin@example.com", "pw"))
	body(t, addTodo(admin, "admin task", "desc", ""))

	bob := testutils.NewTestServer(t, app.handler)
	body(t, signup(bob, "bob@example.com", "bob", "pw2"))
	body(t, login(bob, "bob@example.com", "pw2"))
	body(t, addTodo(bob, "bob task", "desc", ""))

	page := body(t, admin.GET("/admin"))
	assert.Contains(t, page, "admin task")
	assert.Contains(t, page, "bob task")

	resp := bob.GET("/admin")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestEditByOwner(t *testing.T) {
	app := setupApp(t, false)
	ts := testutils.NewTestServer(t, app.handler)

	body(t, signup(ts, "alice@example.com", "alice", "pw1"))
	body(t, login(ts, "alice@example.com", "pw1"))
	body(t, addTodo(ts, "original", "desc", ""))

	alice, err := app.userRepo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	todos, err := app.todoRepo.FindAllByUserID(context.Background(), alice.ID)
	require.NoError(t, err)
	todoID := todos[0].ID

	page := body(t, ts.PostForm(todoPath("/edit/", todoID), url.Values{
		"title":       {"changed"},
		"description": {"new desc"},
		"completed":   {"on"},
	}))
	assert.Contains(t, page, "Task has been updated!")
	assert.Contains(t, page, "changed")

	updated, err := app.todoRepo.FindByID(context.Background(), todoID)
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Title)
	assert.True(t, updated.Completed)
	assert.Equal(t, alice.ID, updated.UserID)
}
