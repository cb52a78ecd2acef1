package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kelydev/apiGrants/logger"
	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []models.FieldError `json:"fields,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError sends a JSON error body.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// HandleError maps err onto a response: validation failures become 400,
// missing rows 404, anything else is logged and reported as 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: ve.Fields})
	case errors.Is(err, repository.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	default:
		logger.FromContext(r.Context()).Error("Error "+action, zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// DecodeJSON reads a single JSON object into dst. Unknown fields are
// rejected so that read-only projections cannot be written back.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if models.IsValidationError(err) {
			return err
		}
		return &models.ValidationError{Fields: []models.FieldError{{Field: "body", Message: err.Error()}}}
	}
	if dec.More() {
		return &models.ValidationError{Fields: []models.FieldError{{Field: "body", Message: "must contain a single JSON object"}}}
	}
	return nil
}

// PathID returns the named route variable if it is a well-formed UUID.
func PathID(r *http.Request, name string) (string, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", &models.ValidationError{Fields: []models.FieldError{{Field: name, Message: fmt.Sprintf("%q is not a valid identifier", raw)}}}
	}
	return id.String(), nil
}
