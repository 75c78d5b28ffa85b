package decision

import (
	"context"
	"errors"
	"sync"
)

// Call is a decision running in the background.
type Call[T any] struct {
	cancel context.CancelCauseFunc
	done   chan struct{}
	val    T
	err    error
}

// Go starts fn in its own goroutine and returns immediately.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Call[T] {
	ctx, cancel := context.WithCancelCause(ctx)
	c := &Call[T]{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		val, err := fn(ctx)
		if errors.Is(context.Cause(ctx), ErrSuperseded) {
			// keep val: a partial result (e.g. events already sent) stays visible
			err = ErrSuperseded
		}
		c.val, c.err = val, err
		cancel(nil)
	}()
	return c
}

// Done is closed once the call has resolved.
func (c *Call[T]) Done() <-chan struct{} { return c.done }

// Wait blocks until the call resolves.
func (c *Call[T]) Wait() (T, error) {
	<-c.done
	return c.val, c.err
}

// Cancel aborts a pending call. It is a no-op once the call resolved.
func (c *Call[T]) Cancel() { c.cancel(context.Canceled) }

func (c *Call[T]) supersede() { c.cancel(ErrSuperseded) }

// Latest keeps at most one pending call per key. Starting a call cancels the
// previous one for the same key, which then resolves with ErrSuperseded.
type Latest[T any] struct {
	mu    sync.Mutex
	calls map[string]*Call[T]
}

// NewLatest creates an empty slot table.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{calls: make(map[string]*Call[T])}
}

// Start supersedes any pending call for key and starts fn.
func (l *Latest[T]) Start(ctx context.Context, key string, fn func(context.Context) (T, error)) *Call[T] {
	return l.Begin(ctx, key, nil, fn)
}

// Begin is Start with a hook. onStart runs while the slot is held, after the
// previous call was superseded and before fn begins, so it is ordered with
// every Settle for the same key.
func (l *Latest[T]) Begin(ctx context.Context, key string, onStart func(), fn func(context.Context) (T, error)) *Call[T] {
	l.mu.Lock()
	if prev, ok := l.calls[key]; ok {
		prev.supersede()
	}
	if onStart != nil {
		onStart()
	}
	c := Go(ctx, fn)
	l.calls[key] = c
	l.mu.Unlock()

	go func() {
		<-c.done
		l.mu.Lock()
		if l.calls[key] == c {
			delete(l.calls, key)
		}
		l.mu.Unlock()
	}()
	return c
}

// Settle runs fn for a resolved call c unless a newer call for key has
// started since. It reports whether fn ran.
func (l *Latest[T]) Settle(key string, c *Call[T], fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.calls[key]; ok && cur != c {
		return false
	}
	fn()
	return true
}

// Pending reports whether a call for key is still in flight.
func (l *Latest[T]) Pending(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.calls[key]
	if !ok {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}
