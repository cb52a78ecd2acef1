package controllers

import (
	"database/sql"
	"net/http"

	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/utils"
)

func GetCollaborationsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, false)
		if !ok {
			return
		}

		collabs, err := repository.ListCollaborationsByGrant(r.Context(), db, grant.ID)
		if err != nil {
			utils.HandleError(w, r, err, "listing collaborations")
			return
		}
		utils.WriteJSON(w, http.StatusOK, collabs)
	}
}

// CreateCollaborationHandler adds a partner to a grant.
func CreateCollaborationHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, true)
		if !ok {
			return
		}

		var c models.Collaboration
		if err := utils.DecodeJSON(r, &c); err != nil {
			utils.HandleError(w, r, err, "decoding collaboration")
			return
		}
		c.GrantID = grant.ID
		if err := models.Validate(&c); err != nil {
			utils.HandleError(w, r, err, "validating collaboration")
			return
		}

		if err := repository.CreateCollaboration(r.Context(), db, &c); err != nil {
			utils.HandleError(w, r, err, "creating collaboration")
			return
		}
		utils.WriteJSON(w, http.StatusCreated, c)
	}
}

func UpdateCollaborationHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, grantID, ok := childForRequest(w, r, db, sess, repository.TableCollaborations)
		if !ok {
			return
		}

		var c models.Collaboration
		if err := utils.DecodeJSON(r, &c); err != nil {
			utils.HandleError(w, r, err, "decoding collaboration")
			return
		}
		c.ID = id
		c.GrantID = grantID
		if err := models.Validate(&c); err != nil {
			utils.HandleError(w, r, err, "validating collaboration")
			return
		}

		if err := repository.UpdateCollaboration(r.Context(), db, &c); err != nil {
			utils.HandleError(w, r, err, "updating collaboration")
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)
	}
}

func DeleteCollaborationHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, _, ok := childForRequest(w, r, db, sess, repository.TableCollaborations)
		if !ok {
			return
		}
		if err := repository.DeleteCollaboration(r.Context(), db, id); err != nil {
			utils.HandleError(w, r, err, "deleting collaboration")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
