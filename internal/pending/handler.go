package pending

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/noshow-decision-demo/internal/http/respond"
	"github.com/wolfman30/noshow-decision-demo/internal/session"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

// Handler serves the pending/idle status of a session's triggers.
type Handler struct {
	tracker Tracker
	logger  *logging.Logger
}

// NewHandler creates a status handler.
func NewHandler(tracker Tracker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{tracker: tracker, logger: logger}
}

// StatusResponse is the body of GET /api/sessions/{sessionID}/status.
type StatusResponse struct {
	SessionID  string              `json:"session_id"`
	Components map[Component]State `json:"components"`
}

// GetStatus handles GET /api/sessions/{sessionID}/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := session.Normalize(chi.URLParam(r, "sessionID"))
	if sessionID == "" {
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: "invalid session id", Kind: "validation"})
		return
	}
	status, err := h.tracker.Status(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to load pending status", "error", err, "session_id", sessionID)
		respond.JSON(w, http.StatusServiceUnavailable, respond.ErrorBody{Error: "status unavailable", Kind: "unavailable"})
		return
	}
	respond.JSON(w, http.StatusOK, StatusResponse{SessionID: sessionID, Components: status})
}
