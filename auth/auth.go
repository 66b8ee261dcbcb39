// Package auth manages the cookie-backed session: who is logged in, flash
// messages, and the middleware gating admin routes.
package auth

import (
	"context"
	"net/http"

	"goblog/models"
	"goblog/repositories"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	sessionName = "goblog_session"
	userIDKey   = "user_id"
)

type contextKey string

const userContextKey contextKey = "current_user"

// SessionManager wraps the gorilla cookie store and resolves the session's
// user id to a User row.
type SessionManager struct {
	store *sessions.CookieStore
	users repositories.UserRepository
}

func NewSessionManager(secret string, users repositories.UserRepository) *SessionManager {
	if secret == "" {
		logrus.Warn("SECRET_KEY not set, using development key")
		secret = "development-key"
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options.HttpOnly = true
	return &SessionManager{store: store, users: users}
}

// Login records the user id in the session.
func (sm *SessionManager) Login(w http.ResponseWriter, r *http.Request, userID uint) error {
	session, _ := sm.store.Get(r, sessionName)
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

// Logout drops the session unconditionally.
func (sm *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := sm.store.Get(r, sessionName)
	delete(session.Values, userIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Flash queues a one-time message shown on the next rendered page.
func (sm *SessionManager) Flash(w http.ResponseWriter, r *http.Request, msg string) {
	session, _ := sm.store.Get(r, sessionName)
	session.AddFlash(msg)
	session.Save(r, w)
}

// Flashes drains and returns the queued flash messages.
func (sm *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	session, _ := sm.store.Get(r, sessionName)
	raw := session.Flashes()
	if len(raw) > 0 {
		session.Save(r, w)
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}

// currentUser loads the session's user, or nil for anonymous visitors.
func (sm *SessionManager) currentUser(r *http.Request) *models.User {
	session, err := sm.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	id, ok := session.Values[userIDKey].(uint)
	if !ok {
		return nil
	}
	user, err := sm.users.FindByID(id)
	if err != nil {
		return nil
	}
	return user
}

// LoadUser resolves the session user once per request and stores it in the
// request context for handlers and views.
func (sm *SessionManager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := sm.currentUser(r); user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// RequireAdmin rejects the request with 403 before the wrapped handler runs
// unless the session belongs to the admin account.
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || !user.IsAdmin {
			logrus.WithField("path", r.URL.Path).Warn("Forbidden: admin route")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser redirects anonymous visitors to the login page.
func (sm *SessionManager) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			sm.Flash(w, r, "You have to be logged in to do that.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
