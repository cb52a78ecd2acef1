package controllers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/session"
	"github.com/kelydev/apiGrants/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	grantID    = "0b7f0c3e-5a3d-4d8e-9a61-3f1b2c4d5e6f"
	ownerID    = "11111111-1111-4111-8111-111111111111"
	strangerID = "22222222-2222-4222-8222-222222222222"
)

var grantCols = []string{"id", "title", "description", "category", "funding_amount", "duration", "status",
	"submitter_id", "funder", "start_date", "end_date", "department", "collaborators", "student_involvement",
	"report_submitted", "agreement_signed", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func expectGrant(mock sqlmock.Sqlmock, submitter string, status models.GrantStatus) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM grants WHERE id = $1")).
		WithArgs(grantID).
		WillReturnRows(sqlmock.NewRows(grantCols).AddRow(grantID, "Soil carbon sensing", nil, "environment",
			5000.0, "1 year", string(status), submitter, "Fund", nil, nil, nil, "{}", false, false, false, now, now))
}

func request(method, target, body string, sess *session.Session, vars map[string]string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if sess != nil {
		r = r.WithContext(session.WithSession(r.Context(), sess))
	}
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	return r
}

func researcher(id string) *session.Session {
	return &session.Session{UserID: id, Email: "r@uni.edu", Role: models.RoleResearcher}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateGrantRejectsNegativeFunding(t *testing.T) {
	db, _ := newMock(t)
	body := `{"title":"T","category":"c","funding_amount":-100,"duration":"1y","funder":"F"}`

	rec := httptest.NewRecorder()
	CreateGrantHandler(db).ServeHTTP(rec, request(http.MethodPost, "/grants", body, researcher(ownerID), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "funding_amount", resp.Fields[0].Field)
}

func TestCreateGrantOwnsAndDefaults(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO grants")).
		WithArgs(sqlmock.AnyArg(), "T", nil, "c", 100.0, "1y", "submitted", ownerID, "F",
			nil, nil, nil, sqlmock.AnyArg(), false, false, false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	// submitter_id in the body is ignored in favour of the session.
	body := `{"title":"T","category":"c","funding_amount":100,"duration":"1y","funder":"F","submitter_id":"` + strangerID + `"}`
	rec := httptest.NewRecorder()
	CreateGrantHandler(db).ServeHTTP(rec, request(http.MethodPost, "/grants", body, researcher(ownerID), nil))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var g models.Grant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, ownerID, g.SubmitterID)
	assert.Equal(t, models.GrantSubmitted, g.Status)
}

func TestCreateGrantWithoutSession(t *testing.T) {
	db, _ := newMock(t)
	rec := httptest.NewRecorder()
	CreateGrantHandler(db).ServeHTTP(rec, request(http.MethodPost, "/grants", `{}`, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetGrantVisibility(t *testing.T) {
	tests := []struct {
		name string
		sess *session.Session
		want int
	}{
		{"owner reads", researcher(ownerID), http.StatusOK},
		{"other researcher sees nothing", researcher(strangerID), http.StatusNotFound},
		{"reviewer reads any", &session.Session{UserID: strangerID, Role: models.RoleReviewer}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			expectGrant(mock, ownerID, models.GrantSubmitted)

			rec := httptest.NewRecorder()
			GetGrantHandler(db).ServeHTTP(rec, request(http.MethodGet, "/grants/"+grantID, "", tt.sess,
				map[string]string{"id": grantID}))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGetGrantBadID(t *testing.T) {
	db, _ := newMock(t)
	rec := httptest.NewRecorder()
	GetGrantHandler(db).ServeHTTP(rec, request(http.MethodGet, "/grants/7", "", researcher(ownerID),
		map[string]string{"id": "7"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateGrantStatusNeedsAdmin(t *testing.T) {
	db, mock := newMock(t)
	expectGrant(mock, ownerID, models.GrantSubmitted)

	body := `{"title":"T","category":"c","funding_amount":1,"duration":"1y","funder":"F","status":"approved"}`
	rec := httptest.NewRecorder()
	UpdateGrantHandler(db).ServeHTTP(rec, request(http.MethodPut, "/grants/"+grantID, body, researcher(ownerID),
		map[string]string{"id": grantID}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReviewerCannotEditGrant(t *testing.T) {
	db, mock := newMock(t)
	expectGrant(mock, ownerID, models.GrantSubmitted)

	rec := httptest.NewRecorder()
	UpdateGrantHandler(db).ServeHTTP(rec, request(http.MethodPut, "/grants/"+grantID, `{}`,
		&session.Session{UserID: strangerID, Role: models.RoleReviewer}, map[string]string{"id": grantID}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetGrantsScopesResearchers(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM grants WHERE submitter_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs(ownerID, 20, 0).
		WillReturnRows(sqlmock.NewRows(grantCols))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM grants WHERE submitter_id = $1")).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	rec := httptest.NewRecorder()
	GetGrantsHandler(db).ServeHTTP(rec, request(http.MethodGet, "/grants?submitter="+strangerID, "", researcher(ownerID), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var page models.PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, []interface{}{}, page.Data)
	assert.Equal(t, 0, page.Pagination.TotalItems)
}

func TestGetGrantsRejectsUnknownStatusFilter(t *testing.T) {
	db, _ := newMock(t)
	rec := httptest.NewRecorder()
	GetGrantsHandler(db).ServeHTTP(rec, request(http.MethodGet, "/grants?status=archived", "", researcher(ownerID), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateIntellectualPropertyRejectsHydratedField(t *testing.T) {
	db, mock := newMock(t)
	expectGrant(mock, ownerID, models.GrantApproved)

	body := `{"title":"Sensor","type":"patent","status":"pending","grants":{"title":"Soil"}}`
	rec := httptest.NewRecorder()
	CreateIntellectualPropertyHandler(db).ServeHTTP(rec, request(http.MethodPost, "/grants/"+grantID+"/ip", body,
		researcher(ownerID), map[string]string{"id": grantID}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "grants")
}

func TestCreateReviewBySubmitterForbidden(t *testing.T) {
	db, mock := newMock(t)
	expectGrant(mock, ownerID, models.GrantUnderReview)

	rec := httptest.NewRecorder()
	CreateReviewHandler(db).ServeHTTP(rec, request(http.MethodPost, "/grants/"+grantID+"/reviews",
		`{"rating":5,"recommendation":"approve"}`,
		&session.Session{UserID: ownerID, Role: models.RoleReviewer}, map[string]string{"id": grantID}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	db, mock := newMock(t)
	expectGrant(mock, ownerID, models.GrantUnderReview)

	rec := httptest.NewRecorder()
	CreateReviewHandler(db).ServeHTTP(rec, request(http.MethodPost, "/grants/"+grantID+"/reviews",
		`{"rating":9,"recommendation":"approve"}`,
		&session.Session{UserID: strangerID, Role: models.RoleReviewer}, map[string]string{"id": grantID}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "rating", decodeError(t, rec).Fields[0].Field)
}

func TestCreateDeliverablePastDueIsOverdue(t *testing.T) {
	db, mock := newMock(t)
	now = func() time.Time { return time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	expectGrant(mock, ownerID, models.GrantApproved)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO deliverables")).
		WithArgs(sqlmock.AnyArg(), grantID, "Interim report", nil, "2026-06-01", "overdue").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	rec := httptest.NewRecorder()
	CreateDeliverableHandler(db).ServeHTTP(rec, request(http.MethodPost, "/grants/"+grantID+"/deliverables",
		`{"title":"Interim report","due_date":"2026-06-01"}`, researcher(ownerID), map[string]string{"id": grantID}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"overdue"`)
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, fields map[string]string, filename string) *http.Request {
	body, contentType := multipartBody(t, fields, filename, "%PDF-1.4 budget")
	r := httptest.NewRequest(http.MethodPost, "/grants/"+grantID+"/documents", body)
	r.Header.Set("Content-Type", contentType)
	r = r.WithContext(session.WithSession(r.Context(), researcher(ownerID)))
	return mux.SetURLVars(r, map[string]string{"id": grantID})
}

func TestUploadDocument(t *testing.T) {
	db, mock := newMock(t)
	dir := t.TempDir()
	expectGrant(mock, ownerID, models.GrantSubmitted)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs(sqlmock.AnyArg(), grantID, "budget.pdf", sqlmock.AnyArg(), sqlmock.AnyArg(), 15, ownerID, "budget").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	rec := httptest.NewRecorder()
	UploadDocumentHandler(db, dir).ServeHTTP(rec, uploadRequest(t, map[string]string{"document_type": "budget"}, "budget.pdf"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var doc models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.NotNil(t, doc.DocumentType)
	assert.Equal(t, models.DocumentBudget, *doc.DocumentType)
	assert.Equal(t, ".pdf", filepath.Ext(doc.FilePath))

	stored, err := os.ReadFile(filepath.FromSlash(doc.FilePath))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 budget", string(stored))
}

func TestUploadDocumentWithoutTypeStoresNull(t *testing.T) {
	db, mock := newMock(t)
	expectGrant(mock, ownerID, models.GrantSubmitted)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs(sqlmock.AnyArg(), grantID, "notes.txt", sqlmock.AnyArg(), sqlmock.AnyArg(), 15, ownerID, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	rec := httptest.NewRecorder()
	UploadDocumentHandler(db, t.TempDir()).ServeHTTP(rec, uploadRequest(t, nil, "notes.txt"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"document_type":null`)
}

func TestUploadDocumentInvalidTypeLeavesNoFile(t *testing.T) {
	db, mock := newMock(t)
	dir := t.TempDir()
	expectGrant(mock, ownerID, models.GrantSubmitted)

	rec := httptest.NewRecorder()
	UploadDocumentHandler(db, dir).ServeHTTP(rec, uploadRequest(t, map[string]string{"document_type": "invoice"}, "x.pdf"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadDocumentRequiresFile(t *testing.T) {
	db, mock := newMock(t)
	expectGrant(mock, ownerID, models.GrantSubmitted)

	rec := httptest.NewRecorder()
	UploadDocumentHandler(db, t.TempDir()).ServeHTTP(rec, uploadRequest(t, map[string]string{"name": "x"}, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file", decodeError(t, rec).Fields[0].Field)
}

func TestDeleteChildNotOwned(t *testing.T) {
	db, mock := newMock(t)
	const id = "33333333-3333-4333-8333-333333333333"
	mock.ExpectQuery(regexp.QuoteMeta("FROM collaborations t JOIN grants g")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "submitter_id"}).AddRow(grantID, ownerID))

	rec := httptest.NewRecorder()
	DeleteCollaborationHandler(db).ServeHTTP(rec, request(http.MethodDelete, "/collaborations/"+id, "",
		researcher(strangerID), map[string]string{"id": id}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminDeletesAnyChild(t *testing.T) {
	db, mock := newMock(t)
	const id = "33333333-3333-4333-8333-333333333333"
	mock.ExpectQuery(regexp.QuoteMeta("FROM collaborations t JOIN grants g")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "submitter_id"}).AddRow(grantID, ownerID))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collaborations WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := httptest.NewRecorder()
	DeleteCollaborationHandler(db).ServeHTTP(rec, request(http.MethodDelete, "/collaborations/"+id, "",
		&session.Session{UserID: strangerID, Role: models.RoleAdmin}, map[string]string{"id": id}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func expectReview(mock sqlmock.Sqlmock, id, reviewer string) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "grant_id", "reviewer_id", "rating", "comments", "recommendation", "created_at"}).
			AddRow(id, grantID, reviewer, 4, "Solid plan", "approve", time.Now()))
}

func TestDeleteReviewByAuthor(t *testing.T) {
	db, mock := newMock(t)
	const id = "44444444-4444-4444-8444-444444444444"
	expectReview(mock, id, strangerID)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := httptest.NewRecorder()
	DeleteReviewHandler(db).ServeHTTP(rec, request(http.MethodDelete, "/reviews/"+id, "",
		&session.Session{UserID: strangerID, Role: models.RoleReviewer}, map[string]string{"id": id}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteReviewBySubmitterForbidden(t *testing.T) {
	db, mock := newMock(t)
	const id = "44444444-4444-4444-8444-444444444444"
	expectReview(mock, id, strangerID)
	expectGrant(mock, ownerID, models.GrantUnderReview)

	rec := httptest.NewRecorder()
	DeleteReviewHandler(db).ServeHTTP(rec, request(http.MethodDelete, "/reviews/"+id, "",
		researcher(ownerID), map[string]string{"id": id}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestQueryFailureIs500(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM grants WHERE id = $1")).
		WithArgs(grantID).
		WillReturnError(sql.ErrConnDone)

	rec := httptest.NewRecorder()
	GetGrantHandler(db).ServeHTTP(rec, request(http.MethodGet, "/grants/"+grantID, "", researcher(ownerID),
		map[string]string{"id": grantID}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpdateOwnProfileRejectsRole(t *testing.T) {
	db, _ := newMock(t)
	rec := httptest.NewRecorder()
	UpdateOwnProfileHandler(db).ServeHTTP(rec, request(http.MethodPut, "/profile",
		`{"full_name":"Ada","role":"admin"}`, researcher(ownerID), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfileRoleAdminOnlyByAdmin(t *testing.T) {
	db, _ := newMock(t)
	rec := httptest.NewRecorder()
	UpdateProfileRoleHandler(db).ServeHTTP(rec, request(http.MethodPut, "/profiles/"+strangerID+"/role",
		`{"role":"admin"}`, &session.Session{UserID: ownerID, Role: models.RoleInstitutionalAdmin},
		map[string]string{"id": strangerID}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

var profileCols = []string{"id", "full_name", "role", "institution", "department", "created_at", "updated_at"}

func expectProfile(mock sqlmock.Sqlmock, id string, role models.Role) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(profileCols).AddRow(id, "Dana", string(role), nil, nil, time.Now(), time.Now()))
}

func TestUpdateProfileRoleCannotDemoteAdmin(t *testing.T) {
	db, mock := newMock(t)
	expectProfile(mock, strangerID, models.RoleAdmin)

	rec := httptest.NewRecorder()
	UpdateProfileRoleHandler(db).ServeHTTP(rec, request(http.MethodPut, "/profiles/"+strangerID+"/role",
		`{"role":"researcher"}`, &session.Session{UserID: ownerID, Role: models.RoleInstitutionalAdmin},
		map[string]string{"id": strangerID}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProfileRoleByInstitutionalAdmin(t *testing.T) {
	db, mock := newMock(t)
	expectProfile(mock, strangerID, models.RoleReviewer)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET role = $1")).
		WithArgs("researcher", strangerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectProfile(mock, strangerID, models.RoleResearcher)

	rec := httptest.NewRecorder()
	UpdateProfileRoleHandler(db).ServeHTTP(rec, request(http.MethodPut, "/profiles/"+strangerID+"/role",
		`{"role":"researcher"}`, &session.Session{UserID: ownerID, Role: models.RoleInstitutionalAdmin},
		map[string]string{"id": strangerID}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateProfileRoleUnknownProfile(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs(strangerID).
		WillReturnRows(sqlmock.NewRows(profileCols))

	rec := httptest.NewRecorder()
	UpdateProfileRoleHandler(db).ServeHTTP(rec, request(http.MethodPut, "/profiles/"+strangerID+"/role",
		`{"role":"reviewer"}`, &session.Session{UserID: ownerID, Role: models.RoleAdmin},
		map[string]string{"id": strangerID}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard(t *testing.T) {
	db, mock := newMock(t)
	now = func() time.Time { return time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) FROM grants WHERE submitter_id = $1")).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("approved", 1))
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(funding_amount), 0)")).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"requested", "approved"}).AddRow(1500.0, 1000.0))
	mock.ExpectQuery(regexp.QuoteMeta("d.due_date BETWEEN $1 AND $2 AND g.submitter_id = $3")).
		WithArgs("2026-06-10", "2026-07-10", ownerID, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "grant_id", "title", "description", "due_date", "status", "created_at"}))

	rec := httptest.NewRecorder()
	GetDashboardHandler(db).ServeHTTP(rec, request(http.MethodGet, "/dashboard", "", researcher(ownerID), nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary models.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.StatusCounts[models.GrantApproved])
	assert.Equal(t, 0, summary.StatusCounts[models.GrantRejected])
	assert.Equal(t, 1000.0, summary.Funding.Approved)
	assert.Empty(t, summary.UpcomingDeliverables)
}

func TestSignInHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	SignInHandler(false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false,"login":"/auth/login"}`, rec.Body.String())
}
