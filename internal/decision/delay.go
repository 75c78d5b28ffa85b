package decision

import (
	"context"
	"time"
)

// Delayer stands in for the network latency of a decision call.
type Delayer interface {
	Delay(ctx context.Context) error
}

// FixedDelay waits for a constant duration.
type FixedDelay time.Duration

// NoDelay resolves immediately unless ctx is already done.
const NoDelay = FixedDelay(0)

func (d FixedDelay) Delay(ctx context.Context) error {
	if d <= 0 {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return nil
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C:
		return nil
	}
}

// DelayFunc adapts a function to Delayer.
type DelayFunc func(ctx context.Context) error

func (f DelayFunc) Delay(ctx context.Context) error { return f(ctx) }

// Wait runs the delayer and classifies its failure. Cancellation is reported
// with the context's cause; anything else means the backend is unavailable.
func Wait(ctx context.Context, d Delayer) error {
	if d == nil {
		d = NoDelay
	}
	err := d.Delay(ctx)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	return Unavailable(err)
}
