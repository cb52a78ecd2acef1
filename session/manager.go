package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "grants_session"
	tokenKey   = "access_token"
)

// Manager keeps the access token in a signed cookie. It is created once at
// start-up, refreshed by Start on every sign-in and torn down by End.
type Manager struct {
	store *sessions.CookieStore
}

func NewManager(secret string, secure bool, maxAge time.Duration) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// Start stores token in the caller's cookie.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := m.store.Get(r, cookieName)
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// End expires the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, cookieName)
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Token returns the token held in the cookie, or "".
func (m *Manager) Token(r *http.Request) string {
	sess, err := m.store.Get(r, cookieName)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[tokenKey].(string)
	return token
}

// BearerToken reads an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// RequestToken prefers the bearer header and falls back to the cookie.
func (m *Manager) RequestToken(r *http.Request) string {
	if t := BearerToken(r); t != "" {
		return t
	}
	return m.Token(r)
}
