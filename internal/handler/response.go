// Package handler contains the HTTP handlers for the study planner API.
//
// HANDLER LAYER RESPONSIBILITIES:
// Handlers only translate between HTTP and the service layer:
// - Decode and sanity-check the request body / URL parameters
// - Call the service method
// - Encode the result (or the error) as JSON
//
// Business rules live in internal/service; handlers never touch the
// database directly.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/auth"
)

// ErrorResponse is the JSON shape of every error the API returns.
//
// RESPONSE FORMAT:
//
//	{"error": "validation_failed", "message": "task title is required"}
//
// The "error" field is a stable machine-readable code; "message" is for
// humans and may change between releases.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent — nothing left to do but log upstream.
		// The logging middleware records the request either way.
		return
	}
}

// writeError maps a service error to an HTTP status using the apperror
// sentinels and writes the JSON error body.
//
// ERROR MAPPING:
//
//	ErrValidation   → 400 Bad Request
//	ErrUnauthorized → 401 Unauthorized
//	ErrNotFound     → 404 Not Found
//	ErrConflict     → 409 Conflict
//	anything else   → 500 with a generic message (internals stay internal)
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status, code = http.StatusBadRequest, "validation_failed"
	case errors.Is(err, apperror.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	default:
		logger.Error("unhandled error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
		})
		return
	}

	message := err.Error()
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// decodeBody decodes a JSON request body into dst. Unknown fields are
// silently ignored — clients may send extra keys (an email in a profile
// update, say) and only the fields the target struct declares are read.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("", "invalid JSON body")
	}
	return nil
}

// requestUserID returns the authenticated user's ID from the request
// context. The auth middleware guarantees it on protected routes; the ok
// check guards against a route registered without the middleware.
func requestUserID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, logger, apperror.Unauthorized("valid authentication required"))
	}
	return id, ok
}

// pathID extracts a numeric URL parameter. Returns a validation error on
// anything that isn't a positive integer.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed(name, "must be a numeric ID")
	}
	return id, nil
}
