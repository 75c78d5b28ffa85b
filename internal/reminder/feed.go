package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
	"github.com/wolfman30/noshow-decision-demo/internal/observability/metrics"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

// DefaultFeedSize is the number of patients a feed run emits.
const DefaultFeedSize = 5

// FeedConfig shapes one run of the live feed.
type FeedConfig struct {
	Size       int
	StartDelay decision.Delayer
	Interval   decision.Delayer
}

// DefaultFeedConfig waits 1s before the first tick and 1.2s between ticks.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		Size:       DefaultFeedSize,
		StartDelay: decision.FixedDelay(time.Second),
		Interval:   decision.FixedDelay(1200 * time.Millisecond),
	}
}

// FeedEvent is one decision emitted by a run.
type FeedEvent struct {
	RunID  string  `json:"run_id"`
	Seq    int     `json:"seq"`
	Result *Result `json:"decision"`
}

// Feed produces a bounded sequence of reminder decisions for simulated patients.
type Feed struct {
	service  *Service
	patients *PatientGenerator
	cfg      FeedConfig
	metrics  *metrics.DecisionMetrics
	logger   *logging.Logger
}

// NewFeed creates a feed. A non-positive size uses DefaultFeedSize.
func NewFeed(service *Service, patients *PatientGenerator, cfg FeedConfig, m *metrics.DecisionMetrics, logger *logging.Logger) *Feed {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Size <= 0 {
		cfg.Size = DefaultFeedSize
	}
	return &Feed{service: service, patients: patients, cfg: cfg, metrics: m, logger: logger}
}

// Size is the number of events a complete run emits.
func (f *Feed) Size() int { return f.cfg.Size }

// Run emits Size decisions to sink, one per interval, and returns how many
// were emitted. Every call is a fresh run. It stops early only when ctx is
// cancelled or the sink fails.
func (f *Feed) Run(ctx context.Context, sink func(FeedEvent) error) (int, error) {
	runID := uuid.NewString()
	f.logger.Info("reminder feed started", "run_id", runID, "size", f.cfg.Size)

	emitted, err := f.run(ctx, runID, sink)
	f.metrics.ObserveFeedRun(err == nil)
	if err != nil {
		f.logger.Info("reminder feed stopped", "run_id", runID, "emitted", emitted, "error", err)
		return emitted, err
	}
	f.logger.Info("reminder feed finished", "run_id", runID, "emitted", emitted)
	return emitted, nil
}

func (f *Feed) run(ctx context.Context, runID string, sink func(FeedEvent) error) (int, error) {
	if err := decision.Wait(ctx, f.cfg.StartDelay); err != nil {
		return 0, err
	}
	emitted := 0
	for emitted < f.cfg.Size {
		if err := decision.Wait(ctx, f.cfg.Interval); err != nil {
			return emitted, err
		}
		result, err := f.service.Decide(ctx, f.patients.Next())
		if err != nil {
			return emitted, err
		}
		emitted++
		f.metrics.ObserveFeedEvent()
		if err := sink(FeedEvent{RunID: runID, Seq: emitted, Result: result}); err != nil {
			return emitted, fmt.Errorf("reminder feed: sink: %w", err)
		}
	}
	return emitted, nil
}
