package controllers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/utils"
)

const (
	defaultUpcomingDays = 30
	maxUpcomingDays     = 365
	upcomingLimit       = 50
)

func GetDeliverablesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, false)
		if !ok {
			return
		}

		items, err := repository.ListDeliverablesByGrant(r.Context(), db, grant.ID)
		if err != nil {
			utils.HandleError(w, r, err, "listing deliverables")
			return
		}
		utils.WriteJSON(w, http.StatusOK, items)
	}
}

// GetUpcomingDeliverablesHandler lists pending deliverables due in the next
// ?days days (default 30) across the grants the caller can see.
func GetUpcomingDeliverablesHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		days := defaultUpcomingDays
		if s := r.URL.Query().Get("days"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 || n > maxUpcomingDays {
				utils.HandleError(w, r, &models.ValidationError{Fields: []models.FieldError{{
					Field: "days", Message: "must be a whole number between 0 and 365",
				}}}, "parsing days")
				return
			}
			days = n
		}

		submitter := sess.UserID
		if sess.Role.SeesAllGrants() {
			submitter = ""
		}
		from := today()
		to := models.NewDate(from.AddDate(0, 0, days))
		items, err := repository.ListUpcomingDeliverables(r.Context(), db, submitter, from, to, upcomingLimit)
		if err != nil {
			utils.HandleError(w, r, err, "listing upcoming deliverables")
			return
		}
		utils.WriteJSON(w, http.StatusOK, items)
	}
}

// CreateDeliverableHandler adds a deliverable. A pending deliverable whose
// due date has already passed is stored as overdue.
func CreateDeliverableHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		grant, ok := grantForRequest(w, r, db, sess, true)
		if !ok {
			return
		}

		var d models.Deliverable
		if err := utils.DecodeJSON(r, &d); err != nil {
			utils.HandleError(w, r, err, "decoding deliverable")
			return
		}
		d.GrantID = grant.ID
		if d.Status == "" {
			d.Status = models.DeliverablePending
		}
		if err := models.Validate(&d); err != nil {
			utils.HandleError(w, r, err, "validating deliverable")
			return
		}
		d.Status = d.Reconcile(today())

		if err := repository.CreateDeliverable(r.Context(), db, &d); err != nil {
			utils.HandleError(w, r, err, "creating deliverable")
			return
		}
		utils.WriteJSON(w, http.StatusCreated, d)
	}
}

func UpdateDeliverableHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, grantID, ok := childForRequest(w, r, db, sess, repository.TableDeliverables)
		if !ok {
			return
		}

		var d models.Deliverable
		if err := utils.DecodeJSON(r, &d); err != nil {
			utils.HandleError(w, r, err, "decoding deliverable")
			return
		}
		d.ID = id
		d.GrantID = grantID
		if d.Status == "" {
			d.Status = models.DeliverablePending
		}
		if err := models.Validate(&d); err != nil {
			utils.HandleError(w, r, err, "validating deliverable")
			return
		}
		d.Status = d.Reconcile(today())

		if err := repository.UpdateDeliverable(r.Context(), db, &d); err != nil {
			utils.HandleError(w, r, err, "updating deliverable")
			return
		}
		utils.WriteJSON(w, http.StatusOK, d)
	}
}

func DeleteDeliverableHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		id, _, ok := childForRequest(w, r, db, sess, repository.TableDeliverables)
		if !ok {
			return
		}
		if err := repository.DeleteDeliverable(r.Context(), db, id); err != nil {
			utils.HandleError(w, r, err, "deleting deliverable")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
