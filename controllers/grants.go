package controllers

import (
	"database/sql"
	"net/http"

	"github.com/kelydev/apiGrants/logger"
	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/utils"
	"go.uber.org/zap"
)

// GetGrantsHandler lists grants with pagination. Researchers only ever see
// their own; the other roles may filter by submitter.
func GetGrantsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		filter := models.GrantFilter{
			Category:    q.Get("category"),
			Search:      q.Get("q"),
			SubmitterID: q.Get("submitter"),
		}
		if s := q.Get("status"); s != "" {
			status, err := models.ParseGrantStatus(s)
			if err != nil {
				utils.HandleError(w, r, err, "parsing status filter")
				return
			}
			filter.Status = &status
		}
		if !sess.Role.SeesAllGrants() {
			filter.SubmitterID = sess.UserID
		}

		page, limit := utils.GetPaginationParams(r)
		grants, total, err := repository.ListGrants(r.Context(), db, filter, limit, utils.Offset(page, limit))
		if err != nil {
			utils.HandleError(w, r, err, "listing grants")
			return
		}

		utils.WriteJSON(w, http.StatusOK, models.NewPaginatedResponse(grants, total, page, limit))
	}
}

// GetGrantHandler handles fetching a single grant by ID.
func GetGrantHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, false)
		if !ok {
			return
		}
		utils.WriteJSON(w, http.StatusOK, grant)
	}
}

// CreateGrantHandler submits a new grant owned by the caller.
func CreateGrantHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		var grant models.Grant
		if err := utils.DecodeJSON(r, &grant); err != nil {
			utils.HandleError(w, r, err, "decoding grant")
			return
		}
		grant.SubmitterID = sess.UserID
		if grant.Status == "" {
			grant.Status = models.GrantSubmitted
		}
		if err := models.Validate(&grant); err != nil {
			utils.HandleError(w, r, err, "validating grant")
			return
		}

		if err := repository.CreateGrant(r.Context(), db, &grant); err != nil {
			utils.HandleError(w, r, err, "creating grant")
			return
		}
		logger.FromContext(r.Context()).Info("grant submitted",
			zap.String("grant_id", grant.ID),
			zap.String("submitter_id", grant.SubmitterID),
		)
		utils.WriteJSON(w, http.StatusCreated, grant)
	}
}

// UpdateGrantHandler replaces a grant. Only administrators move a grant out
// of its current status; owners may edit the rest.
func UpdateGrantHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		existing, ok := grantForRequest(w, r, db, sess, true)
		if !ok {
			return
		}

		var grant models.Grant
		if err := utils.DecodeJSON(r, &grant); err != nil {
			utils.HandleError(w, r, err, "decoding grant")
			return
		}
		grant.ID = existing.ID
		if grant.Status == "" {
			grant.Status = existing.Status
		}
		if grant.Status != existing.Status && !sess.Role.Administers() {
			utils.WriteError(w, http.StatusForbidden, "Only administrators may change a grant's status")
			return
		}
		if err := models.Validate(&grant); err != nil {
			utils.HandleError(w, r, err, "validating grant")
			return
		}

		if err := repository.UpdateGrant(r.Context(), db, &grant); err != nil {
			utils.HandleError(w, r, err, "updating grant")
			return
		}
		utils.WriteJSON(w, http.StatusOK, grant)
	}
}

// DeleteGrantHandler deletes a grant together with its uploaded files.
func DeleteGrantHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, true)
		if !ok {
			return
		}

		docs, err := repository.ListDocumentsByGrant(r.Context(), db, grant.ID)
		if err != nil {
			utils.HandleError(w, r, err, "listing grant documents")
			return
		}
		if err := repository.DeleteGrant(r.Context(), db, grant.ID); err != nil {
			utils.HandleError(w, r, err, "deleting grant")
			return
		}
		for _, d := range docs {
			if err := removeFile(d.FilePath); err != nil {
				logger.FromContext(r.Context()).Warn("orphaned upload after grant delete",
					zap.String("path", d.FilePath), zap.Error(err))
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
