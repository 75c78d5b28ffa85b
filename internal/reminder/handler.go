package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
	"github.com/wolfman30/noshow-decision-demo/internal/http/respond"
	"github.com/wolfman30/noshow-decision-demo/internal/pending"
	"github.com/wolfman30/noshow-decision-demo/internal/session"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

const feedWriteWait = 5 * time.Second

// Feed message types sent over the websocket.
const (
	MessageDecision   = "decision"
	MessageDone       = "done"
	MessageSuperseded = "superseded"
	MessageError      = "error"
)

// FeedMessage is one websocket frame of the live feed.
type FeedMessage struct {
	Type string `json:"type"`
	*FeedEvent
	Count int    `json:"count,omitempty"`
	Error string `json:"error,omitempty"`
}

// Handler handles HTTP requests for reminder decisions
type Handler struct {
	service  *Service
	feed     *Feed
	tracker  pending.Tracker
	calls    *decision.Latest[*Result]
	runs     *decision.Latest[int]
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

// NewHandler creates a new reminder handler
func NewHandler(service *Service, feed *Feed, tracker pending.Tracker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if tracker == nil {
		tracker = pending.NewMemoryTracker()
	}
	return &Handler{
		service: service,
		feed:    feed,
		tracker: tracker,
		calls:   decision.NewLatest[*Result](),
		runs:    decision.NewLatest[int](),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// Decide handles POST /api/reminders/decide requests
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		respond.JSON(w, http.StatusBadRequest, respond.ErrorBody{Error: "invalid request body", Kind: "validation"})
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, err)
		return
	}

	ctx := r.Context()
	sessionID := session.IDFromContext(ctx)

	call := h.calls.Begin(ctx, sessionID, func() {
		h.mark(ctx, sessionID, pending.ComponentReminder, pending.StatePending)
	}, func(ctx context.Context) (*Result, error) {
		return h.service.Decide(ctx, req)
	})
	result, err := call.Wait()
	h.calls.Settle(sessionID, call, func() {
		h.mark(ctx, sessionID, pending.ComponentReminder, pending.StateIdle)
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// StreamFeed handles GET /api/reminders/feed. It upgrades to a websocket,
// streams one run of the live feed and closes. A newer feed for the same
// session ends this one with a superseded frame.
func (h *Handler) StreamFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("reminder feed upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// the page never sends; a read error means it went away
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	sessionID := session.IDFromContext(r.Context())

	run := h.runs.Begin(ctx, sessionID, func() {
		h.mark(ctx, sessionID, pending.ComponentReminderFeed, pending.StatePending)
	}, func(ctx context.Context) (int, error) {
		return h.feed.Run(ctx, func(ev FeedEvent) error {
			return h.write(conn, FeedMessage{Type: MessageDecision, FeedEvent: &ev})
		})
	})
	count, err := run.Wait()
	h.runs.Settle(sessionID, run, func() {
		h.mark(ctx, sessionID, pending.ComponentReminderFeed, pending.StateIdle)
	})

	final := FeedMessage{Type: MessageDone, Count: count}
	switch {
	case errors.Is(err, decision.ErrSuperseded):
		final = FeedMessage{Type: MessageSuperseded, Count: count}
	case err != nil:
		final = FeedMessage{Type: MessageError, Count: count, Error: err.Error()}
	}
	if ctx.Err() != nil && !errors.Is(err, decision.ErrSuperseded) {
		return
	}
	if err := h.write(conn, final); err != nil {
		h.logger.Debug("reminder feed final frame not delivered", "error", err)
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, final.Type),
		time.Now().Add(feedWriteWait))
}

func (h *Handler) write(conn *websocket.Conn, msg FeedMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	return conn.WriteJSON(msg)
}

func (h *Handler) mark(ctx context.Context, sessionID string, c pending.Component, state pending.State) {
	pending.Mark(ctx, h.tracker, h.logger, sessionID, c, state)
}
