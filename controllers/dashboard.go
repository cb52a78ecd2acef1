package controllers

import (
	"database/sql"
	"net/http"

	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/utils"
)

const dashboardWindowDays = 30

// GetDashboardHandler summarises the grants the caller can see: counts per
// status, funding totals and deliverables due in the next 30 days.
func GetDashboardHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}
		submitter := sess.UserID
		if sess.Role.SeesAllGrants() {
			submitter = ""
		}
		ctx := r.Context()

		counts, err := repository.GrantStatusCounts(ctx, db, submitter)
		if err != nil {
			utils.HandleError(w, r, err, "counting grants")
			return
		}
		funding, err := repository.GrantFundingTotals(ctx, db, submitter)
		if err != nil {
			utils.HandleError(w, r, err, "summing funding")
			return
		}
		from := today()
		upcoming, err := repository.ListUpcomingDeliverables(ctx, db, submitter, from,
			models.NewDate(from.AddDate(0, 0, dashboardWindowDays)), 10)
		if err != nil {
			utils.HandleError(w, r, err, "listing upcoming deliverables")
			return
		}

		utils.WriteJSON(w, http.StatusOK, models.DashboardSummary{
			StatusCounts:         counts,
			Funding:              funding,
			UpcomingDeliverables: upcoming,
		})
	}
}
