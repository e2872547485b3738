package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *WebHandler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	// Public pages
	r.HandleFunc("/", h.Home).Methods("GET")
	r.HandleFunc("/signup", h.Signup).Methods("GET", "POST")
	r.HandleFunc("/login", h.Login).Methods("GET", "POST")

	// Session-gated pages
	r.HandleFunc("/user_home", h.UserHome).Methods("GET")
	r.HandleFunc("/logout", h.Logout).Methods("GET")
	r.HandleFunc("/add", h.AddTodo).Methods("GET", "POST")
	r.HandleFunc("/edit/{id:[0-9]+}", h.EditTodo).Methods("GET", "POST")
	r.HandleFunc("/delete/{id:[0-9]+}", h.DeleteTodo).Methods("GET")

	// Admin-gated pages
	r.HandleFunc("/admin", h.Admin).Methods("GET")

	// 404 handler
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	return r
}
