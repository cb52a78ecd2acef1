package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (*session.JWTAuthenticator, http.Handler) {
	t.Helper()
	db, _, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	auth := session.NewJWTAuthenticator("routes-test-secret", "grants-test", nil)
	sessions := session.NewManager("0123456789abcdef0123456789abcdef", false, time.Hour)
	guard := session.NewGuard(auth, sessions.RequestToken)

	return auth, SetupRoutes(Deps{
		DB:        db,
		Guard:     guard,
		Auth:      auth,
		Issuer:    auth,
		Sessions:  sessions,
		TokenTTL:  time.Hour,
		UploadDir: t.TempDir(),
		Logger:    zap.NewNop(),
	})
}

func bearer(t *testing.T, auth *session.JWTAuthenticator, role models.Role) string {
	t.Helper()
	token, _, err := auth.Issue("11111111-1111-4111-8111-111111111111", "u@uni.edu", role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestProtectedRoutesRedirectWithoutSession(t *testing.T) {
	_, h := newRouter(t)

	for _, target := range []string{"/grants", "/dashboard", "/ip", "/deliverables/upcoming", "/auth/session"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusFound, rec.Code, target)
		assert.Equal(t, "/auth", rec.Header().Get("Location"), target)
	}
}

func TestPublicRoutesSkipGuard(t *testing.T) {
	_, h := newRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFundingCallMutationsNeedAdmin(t *testing.T) {
	auth, h := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/funding-calls", strings.NewReader(`{}`))
	req.Header.Set("Authorization", bearer(t, auth, models.RoleResearcher))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/funding-calls", strings.NewReader(`{"title":""}`))
	req.Header.Set("Authorization", bearer(t, auth, models.RoleAdmin))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCurrentSessionRoute(t *testing.T) {
	auth, h := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Authorization", bearer(t, auth, models.RoleReviewer))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(context.Background()))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"role":"reviewer"`)
	assert.NotContains(t, rec.Body.String(), "Bearer")
}

func TestHealthz(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	auth := session.NewJWTAuthenticator("s", "i", nil)
	h := SetupRoutes(Deps{
		DB:       db,
		Guard:    session.NewGuard(auth, session.BearerToken),
		Auth:     auth,
		Sessions: session.NewManager("0123456789abcdef0123456789abcdef", false, time.Hour),
		Logger:   zap.NewNop(),
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Remote identities: local login is not mounted.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`)))
	assert.NotEqual(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, http.StatusBadRequest, rec.Code)
}
