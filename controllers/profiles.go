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

// profileUpdate is the self-service part of a profile.
type profileUpdate struct {
	FullName    string  `json:"full_name" validate:"required,max=200"`
	Institution *string `json:"institution"`
	Department  *string `json:"department"`
}

type roleUpdate struct {
	Role models.Role `json:"role" validate:"enum"`
}

// GetOwnProfileHandler returns the caller's profile.
func GetOwnProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		writeProfile(w, r, db, sess.UserID)
	}
}

// GetProfileHandler returns any profile by id.
func GetProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.PathID(r, "id")
		if err != nil {
			utils.HandleError(w, r, err, "parsing profile id")
			return
		}
		writeProfile(w, r, db, id)
	}
}

func writeProfile(w http.ResponseWriter, r *http.Request, db *sql.DB, id string) {
	profile, err := repository.GetProfileByID(r.Context(), db, id)
	if err != nil {
		utils.HandleError(w, r, err, "fetching profile")
		return
	}
	if profile == nil {
		utils.WriteError(w, http.StatusNotFound, "Profile not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// UpdateOwnProfileHandler replaces the caller's descriptive profile fields.
// A role in the body is rejected as an unknown field.
func UpdateOwnProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		var in profileUpdate
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.HandleError(w, r, err, "decoding profile")
			return
		}
		if err := models.Validate(&in); err != nil {
			utils.HandleError(w, r, err, "validating profile")
			return
		}

		profile := &models.Profile{
			ID:          sess.UserID,
			FullName:    in.FullName,
			Institution: in.Institution,
			Department:  in.Department,
		}
		if err := repository.UpdateProfile(r.Context(), db, profile); err != nil {
			utils.HandleError(w, r, err, "updating profile")
			return
		}
		utils.WriteJSON(w, http.StatusOK, profile)
	}
}

// UpdateProfileRoleHandler lets administrators assign roles. The new role
// takes effect on the user's next sign-in.
func UpdateProfileRoleHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, err := utils.PathID(r, "id")
		if err != nil {
			utils.HandleError(w, r, err, "parsing profile id")
			return
		}

		var in roleUpdate
		if err := utils.DecodeJSON(r, &in); err != nil {
			utils.HandleError(w, r, err, "decoding role")
			return
		}
		if err := models.Validate(&in); err != nil {
			utils.HandleError(w, r, err, "validating role")
			return
		}
		if in.Role == models.RoleAdmin && sess.Role != models.RoleAdmin {
			utils.WriteError(w, http.StatusForbidden, "Only administrators may grant the admin role")
			return
		}

		current, err := repository.GetProfileByID(r.Context(), db, id)
		if err != nil {
			utils.HandleError(w, r, err, "fetching profile")
			return
		}
		if current == nil {
			utils.WriteError(w, http.StatusNotFound, "Profile not found")
			return
		}
		if current.Role == models.RoleAdmin && sess.Role != models.RoleAdmin {
			utils.WriteError(w, http.StatusForbidden, "Only administrators may change an administrator's role")
			return
		}

		if err := repository.UpdateProfileRole(r.Context(), db, id, in.Role); err != nil {
			utils.HandleError(w, r, err, "updating profile role")
			return
		}
		logger.FromContext(r.Context()).Info("profile role changed",
			zap.String("profile_id", id),
			zap.String("role", string(in.Role)),
			zap.String("changed_by", sess.UserID),
		)
		writeProfile(w, r, db, id)
	}
}
