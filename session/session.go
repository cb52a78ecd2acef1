// Package session resolves who is calling and gates protected routes on the
// answer. The auth collaborator is reached through Authenticator; the
// resolved Session travels down the handler chain in the request context.
package session

import (
	"context"
	"time"

	"github.com/kelydev/apiGrants/models"
)

// Session is an active, verified sign-in.
type Session struct {
	AccessToken string      `json:"-"`
	UserID      string      `json:"user_id"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// User is the identity behind a session together with its profile. Profile
// is nil when the identity has not created one yet.
type User struct {
	ID      string          `json:"id"`
	Email   string          `json:"email"`
	Profile *models.Profile `json:"profile"`
}

// Authenticator is the auth collaborator. A missing, expired or rejected
// token yields (nil, nil); an error means the lookup itself failed.
type Authenticator interface {
	GetSession(ctx context.Context, token string) (*Session, error)
	GetCurrentUser(ctx context.Context, token string) (*User, error)
}

// ProfileLoader fetches the profile of an identity, returning (nil, nil) when
// there is none.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, id string) (*models.Profile, error)
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session the guard attached to ctx.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
