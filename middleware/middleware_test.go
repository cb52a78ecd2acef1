package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/kelydev/apiGrants/logger"
	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		session *session.Session
		want    int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"researcher denied", &session.Session{Role: models.RoleResearcher}, http.StatusForbidden},
		{"reviewer allowed", &session.Session{Role: models.RoleReviewer}, http.StatusOK},
		{"admin allowed", &session.Session{Role: models.RoleAdmin}, http.StatusOK},
	}
	h := RequireRole(models.RoleReviewer, models.RoleAdmin)(okHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/grants/x/reviews", nil)
			if tt.session != nil {
				req = req.WithContext(session.WithSession(req.Context(), tt.session))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	for role, want := range map[models.Role]int{
		models.RoleAdmin:              http.StatusOK,
		models.RoleInstitutionalAdmin: http.StatusOK,
		models.RoleReviewer:           http.StatusForbidden,
		models.RoleResearcher:         http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/funding-calls", nil)
		req = req.WithContext(session.WithSession(req.Context(), &session.Session{Role: role}))
		rec := httptest.NewRecorder()
		RequireAdmin(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var ctxLogger *zap.Logger
	r := mux.NewRouter()
	r.Use(RequestLogger(zap.New(core)))
	r.HandleFunc("/grants/{id}", func(w http.ResponseWriter, req *http.Request) {
		ctxLogger = logger.FromContext(req.Context())
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/grants/abc", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.NotNil(t, ctxLogger)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/grants/{id}", fields["route"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.Equal(t, rec.Header().Get("X-Request-ID"), fields["request_id"])
}

func TestRequestLoggerKeepsCallerRequestID(t *testing.T) {
	h := RequestLogger(zap.NewNop())(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
