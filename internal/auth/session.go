package auth

import (
	"log"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "taskhive-session"

// SessionManager binds requests to a resolved user id through a secure
// cookie. It also carries one-shot flash messages between redirects.
type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	return &SessionManager{store: store}
}

// Establish binds the session to the given user id.
func (m *SessionManager) Establish(w http.ResponseWriter, r *http.Request, userID int) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values["user_id"] = userID
	return session.Save(r, w)
}

// CurrentUserID resolves the user id bound to the request, if any.
func (m *SessionManager) CurrentUserID(r *http.Request) (int, bool) {
	session, _ := m.store.Get(r, sessionName)
	userID, ok := session.Values["user_id"].(int)
	return userID, ok
}

// Clear destroys the session binding. Clearing an absent session is a no-op,
// so logout is idempotent.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values = make(map[interface{}]interface{})
	return session.Save(r, w)
}

// AddFlash queues a one-shot message for the next rendered page.
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := m.store.Get(r, sessionName)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving flash message: %v", err)
	}
}

// Flashes drains and returns queued messages.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	session, _ := m.store.Get(r, sessionName)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		log.Printf("Error clearing flash messages: %v", err)
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
