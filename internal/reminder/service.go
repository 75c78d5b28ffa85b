package reminder

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
	"github.com/wolfman30/noshow-decision-demo/internal/observability/metrics"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

var reminderTracer = otel.Tracer("medspa.internal.reminder")

// Service answers reminder decisions after the simulated backend latency.
type Service struct {
	policy  Policy
	delay   decision.Delayer
	metrics *metrics.DecisionMetrics
	logger  *logging.Logger
}

// NewService creates a reminder decision service. A nil delay answers immediately.
func NewService(policy Policy, delay decision.Delayer, m *metrics.DecisionMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if delay == nil {
		delay = decision.NoDelay
	}
	return &Service{policy: policy, delay: delay, metrics: m, logger: logger}
}

// Decide validates req, waits for the simulated backend and applies the policy.
func (s *Service) Decide(ctx context.Context, req Request) (*Result, error) {
	ctx, span := reminderTracer.Start(ctx, "reminder.decide", trace.WithAttributes(
		attribute.String("reminder.patient_id", req.PatientID),
		attribute.Int("reminder.lead_time_days", req.LeadTimeDays),
	))
	defer span.End()
	start := time.Now()

	result, err := s.decide(ctx, req)
	s.metrics.ObserveDecision(metrics.ComponentReminder, metrics.OutcomeFor(err), time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Debug("reminder decision failed", "patient_id", req.PatientID, "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.String("reminder.best_action", string(result.BestAction)))
	s.metrics.ObserveReminderAction(string(result.BestAction))
	s.logger.Info("reminder decided",
		"patient_id", result.PatientID,
		"best_action", result.BestAction,
		"base_no_show_prob", result.BaseNoShowProb,
		"final_no_show_prob", result.FinalNoShowProb,
	)
	return result, nil
}

func (s *Service) decide(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := decision.Wait(ctx, s.delay); err != nil {
		return nil, err
	}
	result := s.policy.Decide(req)
	return &result, nil
}

// DecideAsync starts Decide in the background.
func (s *Service) DecideAsync(ctx context.Context, req Request) *decision.Call[*Result] {
	return decision.Go(ctx, func(ctx context.Context) (*Result, error) {
		return s.Decide(ctx, req)
	})
}
