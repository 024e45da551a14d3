package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitadmin/diary_service/internal/apperror"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("encode response", zap.Error(err))
	}
}

// writeError maps domain errors onto HTTP statuses: 401 missing session,
// 404 unknown entity, 400 bad input or exclusivity mismatch, 409 capacity,
// 500 everything else (logged, generic body).
func (a *API) writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *apperror.ValidationError
		genreErr      *apperror.GenreExclusivityError
		capacityErr   *apperror.CapacityExceededError
		fieldErrs     validator.ValidationErrors
	)

	switch {
	case errors.Is(err, apperror.ErrUnauthorized):
		a.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid session"})
	case errors.Is(err, apperror.ErrNotFound):
		a.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &validationErr):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Reason, Field: validationErr.Field})
	case errors.As(err, &genreErr):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: genreErr.Error()})
	case errors.As(err, &fieldErrs):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fieldErrs.Error()})
	case errors.As(err, &capacityErr):
		a.writeJSON(w, http.StatusConflict, errorResponse{Error: capacityErr.Error()})
	default:
		a.logger.Error("internal error", zap.Error(err))
		a.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeJSON parses and validates a request body.
func (a *API) decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Validation("body", "must be valid JSON")
	}
	return a.validate.Struct(v)
}
