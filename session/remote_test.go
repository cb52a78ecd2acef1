package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kelydev/apiGrants/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("apikey") != "anon-key" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"user-7","email":"pi@uni.edu","aud":"authenticated"}`))
		case "Bearer expired":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("upstream exploded"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteAuthenticator(t *testing.T) {
	srv := newAuthService(t)
	profiles := stubProfiles{profile: &models.Profile{FullName: "PI", Role: models.RoleInstitutionalAdmin}}
	auth := NewRemoteAuthenticator(srv.URL+"/", "anon-key", srv.Client(), profiles)

	t.Run("valid token resolves with profile role", func(t *testing.T) {
		s, err := auth.GetSession(context.Background(), "good")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "user-7", s.UserID)
		assert.Equal(t, "pi@uni.edu", s.Email)
		assert.Equal(t, models.RoleInstitutionalAdmin, s.Role)
	})

	t.Run("rejected token carries no session", func(t *testing.T) {
		s, err := auth.GetSession(context.Background(), "expired")
		assert.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("service error is a lookup failure", func(t *testing.T) {
		s, err := auth.GetSession(context.Background(), "boom")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "500")
		assert.Nil(t, s)
	})

	t.Run("empty token skips the call", func(t *testing.T) {
		s, err := auth.GetSession(context.Background(), "")
		assert.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("current user includes profile", func(t *testing.T) {
		u, err := auth.GetCurrentUser(context.Background(), "good")
		require.NoError(t, err)
		require.NotNil(t, u)
		require.NotNil(t, u.Profile)
		assert.Equal(t, "PI", u.Profile.FullName)
	})
}

type countingProfiles struct {
	stubProfiles
	calls int
}

func (c *countingProfiles) LoadProfile(ctx context.Context, id string) (*models.Profile, error) {
	c.calls++
	return c.stubProfiles.LoadProfile(ctx, id)
}

func TestRemoteCurrentUserLoadsProfileOnce(t *testing.T) {
	srv := newAuthService(t)
	profiles := &countingProfiles{stubProfiles: stubProfiles{profile: &models.Profile{FullName: "PI", Role: models.RoleReviewer}}}
	auth := NewRemoteAuthenticator(srv.URL, "anon-key", srv.Client(), profiles)

	u, err := auth.GetCurrentUser(context.Background(), "good")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotNil(t, u.Profile)
	assert.Equal(t, "user-7", u.ID)
	assert.Equal(t, models.RoleReviewer, u.Profile.Role)
	assert.Equal(t, 1, profiles.calls)
}

func TestRemoteAuthenticatorDefaultsToResearcher(t *testing.T) {
	srv := newAuthService(t)
	auth := NewRemoteAuthenticator(srv.URL, "anon-key", srv.Client(), stubProfiles{})

	s, err := auth.GetSession(context.Background(), "good")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, models.RoleResearcher, s.Role)
}

func TestRemoteAuthenticatorUnreachable(t *testing.T) {
	srv := newAuthService(t)
	url := srv.URL
	srv.Close()

	auth := NewRemoteAuthenticator(url, "anon-key", nil, nil)
	s, err := auth.GetSession(context.Background(), "good")
	assert.Error(t, err)
	assert.Nil(t, s)
}
