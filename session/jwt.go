package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kelydev/apiGrants/models"
)

// Claims is the access token payload. app_role carries the profile role at
// issue time so that authorization needs no extra lookup.
type Claims struct {
	Email   string      `json:"email"`
	AppRole models.Role `json:"app_role"`
	jwt.RegisteredClaims
}

// JWTAuthenticator verifies HS256 access tokens signed with the auth
// service's secret.
type JWTAuthenticator struct {
	secret   []byte
	issuer   string
	profiles ProfileLoader
	now      func() time.Time
}

func NewJWTAuthenticator(secret, issuer string, profiles ProfileLoader) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret:   []byte(secret),
		issuer:   issuer,
		profiles: profiles,
		now:      time.Now,
	}
}

// Issue signs an access token for the identity valid for ttl.
func (a *JWTAuthenticator) Issue(userID, email string, role models.Role, ttl time.Duration) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Email:   email,
		AppRole: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// GetSession validates token. Malformed, expired or foreign tokens are not an
// error: they simply carry no session.
func (a *JWTAuthenticator) GetSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if rejectedToken(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error verifying token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" || !claims.AppRole.Valid() {
		return nil, nil
	}

	s := &Session{
		AccessToken: token,
		UserID:      claims.Subject,
		Email:       claims.Email,
		Role:        claims.AppRole,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// GetCurrentUser resolves the session and loads the identity's profile.
func (a *JWTAuthenticator) GetCurrentUser(ctx context.Context, token string) (*User, error) {
	return currentUser(ctx, a, a.profiles, token)
}

// rejectedToken reports whether err describes a token the caller should
// simply be denied for, rather than a failure to check it.
func rejectedToken(err error) bool {
	for _, target := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenExpired,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenRequiredClaimMissing,
		jwt.ErrTokenInvalidIssuer,
		jwt.ErrTokenInvalidClaims,
		jwt.ErrTokenUsedBeforeIssued,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func currentUser(ctx context.Context, auth Authenticator, profiles ProfileLoader, token string) (*User, error) {
	s, err := auth.GetSession(ctx, token)
	if err != nil || s == nil {
		return nil, err
	}

	u := &User{ID: s.UserID, Email: s.Email}
	if profiles != nil {
		p, err := profiles.LoadProfile(ctx, s.UserID)
		if err != nil {
			return nil, fmt.Errorf("error loading profile: %w", err)
		}
		u.Profile = p
	}
	return u, nil
}
