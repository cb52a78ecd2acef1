package controllers

import (
	"database/sql"
	"net/http"

	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/utils"
)

// GetIntellectualPropertyHandler lists the IP records of one grant.
func GetIntellectualPropertyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, false)
		if !ok {
			return
		}

		records, err := repository.ListIntellectualPropertyByGrant(r.Context(), db, grant.ID)
		if err != nil {
			utils.HandleError(w, r, err, "listing intellectual property")
			return
		}
		utils.WriteJSON(w, http.StatusOK, records)
	}
}

// GetAllIntellectualPropertyHandler returns every IP record the caller can
// see, each hydrated with its grant's title.
func GetAllIntellectualPropertyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		submitter := sess.UserID
		if sess.Role.SeesAllGrants() {
			submitter = ""
		}
		views, err := repository.ListIntellectualPropertyWithGrant(r.Context(), db, submitter)
		if err != nil {
			utils.HandleError(w, r, err, "listing intellectual property")
			return
		}
		utils.WriteJSON(w, http.StatusOK, views)
	}
}

// CreateIntellectualPropertyHandler records IP arising from a grant. The
// body is the plain record; the hydrated grants field is not accepted.
func CreateIntellectualPropertyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, true)
		if !ok {
			return
		}

		var ip models.IntellectualProperty
		if err := utils.DecodeJSON(r, &ip); err != nil {
			utils.HandleError(w, r, err, "decoding intellectual property")
			return
		}
		ip.GrantID = grant.ID
		if ip.Status == "" {
			ip.Status = models.IPPending
		}
		if err := models.Validate(&ip); err != nil {
			utils.HandleError(w, r, err, "validating intellectual property")
			return
		}

		if err := repository.CreateIntellectualProperty(r.Context(), db, &ip); err != nil {
			utils.HandleError(w, r, err, "creating intellectual property")
			return
		}
		utils.WriteJSON(w, http.StatusCreated, ip)
	}
}

// UpdateIntellectualPropertyHandler replaces an IP record. It stays on its
// grant.
func UpdateIntellectualPropertyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, grantID, ok := childForRequest(w, r, db, sess, repository.TableIntellectualProperty)
		if !ok {
			return
		}

		var ip models.IntellectualProperty
		if err := utils.DecodeJSON(r, &ip); err != nil {
			utils.HandleError(w, r, err, "decoding intellectual property")
			return
		}
		ip.ID = id
		ip.GrantID = grantID
		if err := models.Validate(&ip); err != nil {
			utils.HandleError(w, r, err, "validating intellectual property")
			return
		}

		if err := repository.UpdateIntellectualProperty(r.Context(), db, &ip); err != nil {
			utils.HandleError(w, r, err, "updating intellectual property")
			return
		}
		utils.WriteJSON(w, http.StatusOK, ip)
	}
}

func DeleteIntellectualPropertyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, _, ok := childForRequest(w, r, db, sess, repository.TableIntellectualProperty)
		if !ok {
			return
		}
		if err := repository.DeleteIntellectualProperty(r.Context(), db, id); err != nil {
			utils.HandleError(w, r, err, "deleting intellectual property")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
