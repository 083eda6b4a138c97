package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"mewayz-backend/internal/domain"
	"mewayz-backend/internal/logger"
	"mewayz-backend/internal/security"
	"mewayz-backend/internal/service"
)

// errorResponse is the uniform error body. Validation failures carry the
// per-field messages; everything else carries a single error string.
type errorResponse struct {
	Error  string              `json:"error,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("failed to encode response body", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses:
// validation 422, not-found 404, permission 403, state and capacity
// conflicts 409, bad credentials and token failures 401, anything else 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr *domain.ValidationError
		nerr *domain.NotFoundError
		perr *domain.PermissionError
		serr *domain.StateError
		cerr *domain.CapacityError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: verr.Errors})
	case errors.As(err, &nerr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: nerr.Error()})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: perr.Error()})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: serr.Error()})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: cerr.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
