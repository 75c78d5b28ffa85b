// Package respond writes JSON responses for the decision API.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error maps a decision error to its HTTP status and writes it.
func Error(w http.ResponseWriter, err error) {
	status, kind := Classify(err)
	JSON(w, status, ErrorBody{Error: err.Error(), Kind: kind})
}

// Classify returns the HTTP status and error kind for err.
func Classify(err error) (int, string) {
	switch {
	case decision.IsValidation(err):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, decision.ErrSuperseded):
		return http.StatusConflict, "superseded"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// client went away; the status is mostly for logs
		return http.StatusRequestTimeout, "cancelled"
	default:
		return http.StatusServiceUnavailable, "unavailable"
	}
}
