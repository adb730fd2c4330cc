// Package handler contains the HTTP handlers for the filters and models
// resources.
//
// Handlers parse the request (method, query, JSON body), call a service and
// shape the response. Every error goes through writeError, which is the one
// place where application errors become status codes.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/model-catalog/internal/apperror"
)

const (
	// maxBodyBytes caps PUT and POST bodies.
	maxBodyBytes = 1 << 20

	// preflightMaxAge is sent as Access-Control-Max-Age (24 hours).
	preflightMaxAge = "86400"
)

// ErrorResponse is the body of every error reply, e.g.
//
//	{"error": "Model not found"}
//	{"error": "photos is required", "field": "photos"}
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

// writeJSON sends data as JSON with the given status. Headers must be set
// before WriteHeader, so the content type goes first.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError maps an application error to its status code. Anything that is
// not an *apperror.AppError is a datastore or programming failure: the caller
// gets a generic 500 and the detail stays in the logs.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrMethodNotAllowed):
			status = http.StatusMethodNotAllowed
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{
				Error: appErr.Message,
				Field: appErr.Field,
			})
			return
		}
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error",
	})
}

// preflight answers OPTIONS requests for a resource.
func preflight(methods, headers string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Max-Age", preflightMaxAge)
		w.WriteHeader(http.StatusOK)
	}
}

// MethodNotAllowed is the 405 reply shared by every resource.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, apperror.MethodNotAllowed(r.Method))
}

// NotFound answers requests for paths no resource serves.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
}

// decodeJSON reads a size-limited JSON body into dst. An empty body leaves
// dst untouched, the same as "{}".
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperror.ValidationFailed("body", "request body is too large")
		}
		return apperror.ValidationFailed("body", "request body must be valid JSON")
	}
}

// parseID reads a model id from the query string.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed("id", "id must be a positive integer")
	}
	return id, nil
}
