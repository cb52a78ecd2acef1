package controllers

import (
	"database/sql"
	"net/http"

	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/utils"
)

// GetReviewsHandler lists the reviews of a grant.
func GetReviewsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, false)
		if !ok {
			return
		}

		reviews, err := repository.ListReviewsByGrant(r.Context(), db, grant.ID)
		if err != nil {
			utils.HandleError(w, r, err, "listing reviews")
			return
		}
		utils.WriteJSON(w, http.StatusOK, reviews)
	}
}

// CreateReviewHandler records the caller's review of a grant. Role checks
// happen in the router; here the caller must not be the submitter.
func CreateReviewHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, false)
		if !ok {
			return
		}
		if grant.SubmitterID == sess.UserID {
			utils.WriteError(w, http.StatusForbidden, "Submitters cannot review their own grant")
			return
		}

		var review models.Review
		if err := utils.DecodeJSON(r, &review); err != nil {
			utils.HandleError(w, r, err, "decoding review")
			return
		}
		review.GrantID = grant.ID
		review.ReviewerID = sess.UserID
		if err := models.Validate(&review); err != nil {
			utils.HandleError(w, r, err, "validating review")
			return
		}

		if err := repository.CreateReview(r.Context(), db, &review); err != nil {
			utils.HandleError(w, r, err, "creating review")
			return
		}
		utils.WriteJSON(w, http.StatusCreated, review)
	}
}

// DeleteReviewHandler withdraws a review. Its author and administrators may
// do so; anyone else who cannot see the grant gets a 404.
func DeleteReviewHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, err := utils.PathID(r, "id")
		if err != nil {
			utils.HandleError(w, r, err, "parsing review id")
			return
		}

		review, err := repository.GetReviewByID(r.Context(), db, id)
		if err != nil {
			utils.HandleError(w, r, err, "fetching review")
			return
		}
		if review == nil {
			utils.WriteError(w, http.StatusNotFound, "Review not found")
			return
		}
		if review.ReviewerID != sess.UserID {
			grant, err := repository.GetGrantByID(r.Context(), db, review.GrantID)
			if err != nil {
				utils.HandleError(w, r, err, "fetching grant")
				return
			}
			if grant == nil || !canRead(sess, grant.SubmitterID) {
				utils.WriteError(w, http.StatusNotFound, "Review not found")
				return
			}
			if !sess.Role.Administers() {
				utils.WriteError(w, http.StatusForbidden, "Not allowed to delete this review")
				return
			}
		}

		if err := repository.DeleteReview(r.Context(), db, id); err != nil {
			utils.HandleError(w, r, err, "deleting review")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
