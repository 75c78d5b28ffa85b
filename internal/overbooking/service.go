package overbooking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
	"github.com/wolfman30/noshow-decision-demo/internal/observability/metrics"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

var overbookingTracer = otel.Tracer("medspa.internal.overbooking")

// Service answers overbooking recommendations after the simulated backend latency.
type Service struct {
	policy  Policy
	delay   decision.Delayer
	metrics *metrics.DecisionMetrics
	logger  *logging.Logger
}

// NewService creates an overbooking service. A nil delay answers immediately.
func NewService(policy Policy, delay decision.Delayer, m *metrics.DecisionMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if delay == nil {
		delay = decision.NoDelay
	}
	return &Service{policy: policy, delay: delay, metrics: m, logger: logger}
}

// Decide waits for the simulated backend and returns the day's recommendation.
func (s *Service) Decide(ctx context.Context) (*Result, error) {
	ctx, span := overbookingTracer.Start(ctx, "overbooking.decide")
	defer span.End()
	start := time.Now()

	if err := decision.Wait(ctx, s.delay); err != nil {
		s.metrics.ObserveDecision(metrics.ComponentOverbooking, metrics.OutcomeFor(err), time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	result := s.policy.Recommend()

	s.metrics.ObserveDecision(metrics.ComponentOverbooking, metrics.OutcomeOK, time.Since(start).Seconds())
	s.metrics.ObserveOverbookingLevel(result.ChosenLevelLabel)
	span.SetAttributes(
		attribute.String("overbooking.level", result.ChosenLevelLabel),
		attribute.Int("overbooking.appointments_to_book", result.AppointmentsToBook),
		attribute.Float64("overbooking.expected_attendance", result.ExpectedAttendanceProxy),
	)
	s.logger.Info("overbooking recommended",
		"chosen_level", result.ChosenLevelLabel,
		"appointments_to_book", result.AppointmentsToBook,
		"expected_attendance", result.ExpectedAttendanceProxy,
		"attendance_std_dev", result.AttendanceStdDevProxy,
	)
	return &result, nil
}

// DecideAsync starts Decide in the background.
func (s *Service) DecideAsync(ctx context.Context) *decision.Call[*Result] {
	return decision.Go(ctx, s.Decide)
}
