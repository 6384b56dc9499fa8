package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"almostcircle/internal/domain"
	xlog "almostcircle/internal/log"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Health answers liveness probes, pinging the store when one is set
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				writeError(w, r, "Database unavailable", err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		writeJSON(w, r, map[string]string{"status": "ok"}, http.StatusOK)
	}
}

// statusFor maps service errors to HTTP status codes. Errors that match no
// known sentinel get fallback.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrType), errors.Is(err, domain.ErrValue):
		return http.StatusBadRequest
	}
	return fallback
}

// writeServiceError writes err with the status derived from it
func writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error, fallback int) {
	status := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		logger := xlog.FromContext(r.Context(), "handler")
		logger.Error().Err(err).Msg(msg)
	}
	writeError(w, r, msg, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger := xlog.FromContext(r.Context(), "handler")
		logger.Error().Err(err).Msg("failed to encode JSON")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, error, details string, statusCode int) {
	writeJSON(w, r, ErrorResponse{Error: error, Details: details}, statusCode)
}

// intParam reads an integer path parameter
func intParam(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}
