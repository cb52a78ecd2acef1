package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kelydev/apiGrants/models"
)

// RemoteAuthenticator asks the hosted auth service who owns a token on every
// lookup, for deployments that do not share the signing secret.
type RemoteAuthenticator struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	profiles ProfileLoader
}

func NewRemoteAuthenticator(baseURL, apiKey string, client *http.Client, profiles ProfileLoader) *RemoteAuthenticator {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RemoteAuthenticator{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		client:   client,
		profiles: profiles,
	}
}

// remoteUser mirrors the fields of the service's user payload we rely on.
type remoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (a *RemoteAuthenticator) GetSession(ctx context.Context, token string) (*Session, error) {
	s, _, err := a.resolve(ctx, token)
	return s, err
}

// GetCurrentUser reuses the profile loaded for the session's role.
func (a *RemoteAuthenticator) GetCurrentUser(ctx context.Context, token string) (*User, error) {
	s, p, err := a.resolve(ctx, token)
	if err != nil || s == nil {
		return nil, err
	}
	return &User{ID: s.UserID, Email: s.Email, Profile: p}, nil
}

func (a *RemoteAuthenticator) resolve(ctx context.Context, token string) (*Session, *models.Profile, error) {
	if token == "" {
		return nil, nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error building auth request: %w", err)
	}
	req.Header.Set("apikey", a.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, nil, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, nil, fmt.Errorf("auth service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var u remoteUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, nil, fmt.Errorf("error decoding auth user: %w", err)
	}
	if u.ID == "" {
		return nil, nil, nil
	}

	s := &Session{
		AccessToken: token,
		UserID:      u.ID,
		Email:       u.Email,
		Role:        models.RoleResearcher,
		ExpiresAt:   tokenExpiry(token),
	}
	var p *models.Profile
	if a.profiles != nil {
		p, err = a.profiles.LoadProfile(ctx, u.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("error loading profile: %w", err)
		}
		if p != nil {
			s.Role = p.Role
		}
	}
	return s, p, nil
}

// tokenExpiry reads exp without verifying the signature; the service has
// already vouched for the token.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
