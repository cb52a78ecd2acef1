package controllers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/session"
	"github.com/kelydev/apiGrants/utils"
)

// now is swapped in tests.
var now = time.Now

func today() models.Date {
	return models.NewDate(now())
}

// requireSession returns the guard-attached session, answering 401 when the
// handler was mounted without a guard in front of it.
func requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return sess, true
}

func canRead(sess *session.Session, submitterID string) bool {
	return submitterID == sess.UserID || sess.Role.SeesAllGrants()
}

func canWrite(sess *session.Session, submitterID string) bool {
	return submitterID == sess.UserID || sess.Role.Administers()
}

// grantForRequest loads the grant named by the {id} route variable and checks
// the caller may read it, or write it when write is set. It writes the error
// response itself and reports false when the handler should stop.
func grantForRequest(w http.ResponseWriter, r *http.Request, db *sql.DB, sess *session.Session, write bool) (*models.Grant, bool) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.HandleError(w, r, err, "parsing grant id")
		return nil, false
	}

	grant, err := repository.GetGrantByID(r.Context(), db, id)
	if err != nil {
		utils.HandleError(w, r, err, "fetching grant")
		return nil, false
	}
	if grant == nil || !canRead(sess, grant.SubmitterID) {
		// Grants the caller cannot read are reported as missing.
		utils.WriteError(w, http.StatusNotFound, "Grant not found")
		return nil, false
	}
	if write && !canWrite(sess, grant.SubmitterID) {
		utils.WriteError(w, http.StatusForbidden, "Not allowed to modify this grant")
		return nil, false
	}
	return grant, true
}

// childForRequest resolves a grant-owned row named by {id} and checks the
// caller may modify it. It returns the row id and owning grant id.
func childForRequest(w http.ResponseWriter, r *http.Request, db *sql.DB, sess *session.Session, table repository.Table) (string, string, bool) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.HandleError(w, r, err, "parsing id")
		return "", "", false
	}

	owner, err := repository.OwnerOf(r.Context(), db, table, id)
	if err != nil {
		utils.HandleError(w, r, err, "resolving owner")
		return "", "", false
	}
	if owner == nil || !canRead(sess, owner.SubmitterID) {
		utils.WriteError(w, http.StatusNotFound, "Not found")
		return "", "", false
	}
	if !canWrite(sess, owner.SubmitterID) {
		utils.WriteError(w, http.StatusForbidden, "Not allowed to modify this record")
		return "", "", false
	}
	return id, owner.GrantID, true
}
