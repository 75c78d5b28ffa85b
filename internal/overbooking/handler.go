package overbooking

import (
	"errors"
	"net/http"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
	"github.com/wolfman30/noshow-decision-demo/internal/http/respond"
	"github.com/wolfman30/noshow-decision-demo/internal/pending"
	"github.com/wolfman30/noshow-decision-demo/internal/session"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

// Handler handles HTTP requests for overbooking recommendations
type Handler struct {
	service *Service
	tracker pending.Tracker
	calls   *decision.Latest[*Result]
	logger  *logging.Logger
}

// NewHandler creates a new overbooking handler
func NewHandler(service *Service, tracker pending.Tracker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if tracker == nil {
		tracker = pending.NewMemoryTracker()
	}
	return &Handler{
		service: service,
		tracker: tracker,
		calls:   decision.NewLatest[*Result](),
		logger:  logger,
	}
}

// Recommend handles POST /api/overbooking/recommendation requests
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := session.IDFromContext(ctx)
	call := h.calls.Begin(ctx, sessionID, func() {
		pending.Mark(ctx, h.tracker, h.logger, sessionID, pending.ComponentOverbooking, pending.StatePending)
	}, h.service.Decide)
	result, err := call.Wait()
	h.calls.Settle(sessionID, call, func() {
		pending.Mark(ctx, h.tracker, h.logger, sessionID, pending.ComponentOverbooking, pending.StateIdle)
	})
	if errors.Is(err, decision.ErrSuperseded) {
		respond.Error(w, err)
		return
	}
	if err != nil {
		h.logger.Warn("overbooking recommendation failed", "error", err, "session_id", sessionID)
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}
