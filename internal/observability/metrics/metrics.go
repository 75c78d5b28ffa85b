package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
)

// Component labels.
const (
	ComponentReminder    = "reminder"
	ComponentOverbooking = "overbooking"
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeSuperseded  = "superseded"
	OutcomeCancelled   = "cancelled"
	OutcomeUnavailable = "unavailable"
)

// OutcomeFor maps a decision error to its outcome label.
func OutcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case decision.IsValidation(err):
		return OutcomeInvalid
	case errors.Is(err, decision.ErrSuperseded):
		return OutcomeSuperseded
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeUnavailable
	}
}

// DecisionMetrics exposes counters/histograms for the simulated decision services.
type DecisionMetrics struct {
	decisionsTotal   *prometheus.CounterVec
	reminderActions  *prometheus.CounterVec
	overbookLevels   *prometheus.CounterVec
	decisionLatency  *prometheus.HistogramVec
	feedEventsTotal  prometheus.Counter
	feedRunsComplete *prometheus.CounterVec
}

func NewDecisionMetrics(reg prometheus.Registerer) *DecisionMetrics {
	m := &DecisionMetrics{
		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medspa",
			Subsystem: "decision",
			Name:      "requests_total",
			Help:      "Total simulated decision calls by outcome",
		}, []string{"component", "outcome"}),
		reminderActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medspa",
			Subsystem: "decision",
			Name:      "reminder_actions_total",
			Help:      "Reminder channel decisions by chosen action",
		}, []string{"action"}),
		overbookLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medspa",
			Subsystem: "decision",
			Name:      "overbooking_levels_total",
			Help:      "Overbooking recommendations by level",
		}, []string{"level"}),
		decisionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medspa",
			Subsystem: "decision",
			Name:      "latency_seconds",
			Help:      "Latency of simulated decision calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"component"}),
		feedEventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medspa",
			Subsystem: "decision",
			Name:      "feed_events_total",
			Help:      "Reminder decisions emitted by the live feed",
		}),
		feedRunsComplete: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medspa",
			Subsystem: "decision",
			Name:      "feed_runs_total",
			Help:      "Live feed runs by how they ended",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.decisionsTotal, m.reminderActions, m.overbookLevels,
		m.decisionLatency, m.feedEventsTotal, m.feedRunsComplete)
	return m
}

func (m *DecisionMetrics) ObserveDecision(component, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(component, outcome).Inc()
	if outcome == OutcomeOK {
		m.decisionLatency.WithLabelValues(component).Observe(seconds)
	}
}

func (m *DecisionMetrics) ObserveReminderAction(action string) {
	if m == nil {
		return
	}
	m.reminderActions.WithLabelValues(action).Inc()
}

func (m *DecisionMetrics) ObserveOverbookingLevel(level string) {
	if m == nil {
		return
	}
	m.overbookLevels.WithLabelValues(level).Inc()
}

func (m *DecisionMetrics) ObserveFeedEvent() {
	if m == nil {
		return
	}
	m.feedEventsTotal.Inc()
}

// ObserveFeedRun records a finished feed run; completed is false when it was cut short.
func (m *DecisionMetrics) ObserveFeedRun(completed bool) {
	if m == nil {
		return
	}
	status := "completed"
	if !completed {
		status = "cancelled"
	}
	m.feedRunsComplete.WithLabelValues(status).Inc()
}
