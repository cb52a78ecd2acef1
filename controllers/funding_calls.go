package controllers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/utils"
)

// GetFundingCallsHandler lists funding calls by deadline. ?open=true hides
// calls whose deadline has passed.
func GetFundingCallsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := models.FundingCallFilter{Category: q.Get("category")}
		if s := q.Get("open"); s != "" {
			open, err := strconv.ParseBool(s)
			if err != nil {
				utils.HandleError(w, r, &models.ValidationError{Fields: []models.FieldError{{
					Field: "open", Message: "must be true or false",
				}}}, "parsing open filter")
				return
			}
			filter.OpenOnly = open
		}

		page, limit := utils.GetPaginationParams(r)
		calls, total, err := repository.ListFundingCalls(r.Context(), db, filter, today(), limit, utils.Offset(page, limit))
		if err != nil {
			utils.HandleError(w, r, err, "listing funding calls")
			return
		}
		utils.WriteJSON(w, http.StatusOK, models.NewPaginatedResponse(calls, total, page, limit))
	}
}

func GetFundingCallHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.PathID(r, "id")
		if err != nil {
			utils.HandleError(w, r, err, "parsing funding call id")
			return
		}

		call, err := repository.GetFundingCallByID(r.Context(), db, id)
		if err != nil {
			utils.HandleError(w, r, err, "fetching funding call")
			return
		}
		if call == nil {
			utils.WriteError(w, http.StatusNotFound, "Funding call not found")
			return
		}
		utils.WriteJSON(w, http.StatusOK, call)
	}
}

func CreateFundingCallHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var call models.FundingCall
		if err := utils.DecodeJSON(r, &call); err != nil {
			utils.HandleError(w, r, err, "decoding funding call")
			return
		}
		if err := models.Validate(&call); err != nil {
			utils.HandleError(w, r, err, "validating funding call")
			return
		}

		if err := repository.CreateFundingCall(r.Context(), db, &call); err != nil {
			utils.HandleError(w, r, err, "creating funding call")
			return
		}
		utils.WriteJSON(w, http.StatusCreated, call)
	}
}

func UpdateFundingCallHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.PathID(r, "id")
		if err != nil {
			utils.HandleError(w, r, err, "parsing funding call id")
			return
		}

		var call models.FundingCall
		if err := utils.DecodeJSON(r, &call); err != nil {
			utils.HandleError(w, r, err, "decoding funding call")
			return
		}
		call.ID = id
		if err := models.Validate(&call); err != nil {
			utils.HandleError(w, r, err, "validating funding call")
			return
		}

		if err := repository.UpdateFundingCall(r.Context(), db, &call); err != nil {
			utils.HandleError(w, r, err, "updating funding call")
			return
		}
		utils.WriteJSON(w, http.StatusOK, call)
	}
}

func DeleteFundingCallHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.PathID(r, "id")
		if err != nil {
			utils.HandleError(w, r, err, "parsing funding call id")
			return
		}
		if err := repository.DeleteFundingCall(r.Context(), db, id); err != nil {
			utils.HandleError(w, r, err, "deleting funding call")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
