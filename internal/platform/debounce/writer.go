package debounce

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

var ErrClosed = errors.New("debounce writer is closed")

const defaultFlushTimeout = 10 * time.Second

// WriteFunc persists one value.
type WriteFunc[T any] func(ctx context.Context, value T) error

// Writer keeps the latest scheduled value and writes it once no new value has
// arrived for the quiet window. Only the last value of a burst is written.
// A failed write is reported and not retried.
type Writer[T any] struct {
	delay        time.Duration
	flushTimeout time.Duration
	write        WriteFunc[T]
	onError      func(error)

	mu         sync.Mutex
	pending    T
	hasPending bool
	generation uint64
	timer      *time.Timer
	closed     bool

	flushMu  sync.Mutex
	inflight conc.WaitGroup
}

type Option func(*options)

type options struct {
	flushTimeout time.Duration
	onError      func(error)
}

// WithFlushTimeout bounds writes started by the timer.
func WithFlushTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.flushTimeout = d
		}
	}
}

// WithErrorHandler receives errors from timer-triggered writes.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		if fn != nil {
			o.onError = fn
		}
	}
}

func New[T any](delay time.Duration, write WriteFunc[T], opts ...Option) *Writer[T] {
	cfg := options{
		flushTimeout: defaultFlushTimeout,
		onError:      func(error) {},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Writer[T]{
		delay:        delay,
		flushTimeout: cfg.flushTimeout,
		write:        write,
		onError:      cfg.onError,
	}
}

// Schedule replaces the pending value and restarts the quiet window.
func (w *Writer[T]) Schedule(value T) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	w.pending = value
	w.hasPending = true
	w.generation++
	if w.timer != nil {
		w.timer.Stop()
	}
	gen := w.generation
	w.timer = time.AfterFunc(w.delay, func() { w.fire(gen) })

	return nil
}

// Pending reports whether a value is waiting to be written.
func (w *Writer[T]) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.hasPending
}

// Flush writes the pending value now, if there is one.
func (w *Writer[T]) Flush(ctx context.Context) error {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	if !w.hasPending {
		w.mu.Unlock()
		return nil
	}
	value := w.pending
	var zero T
	w.pending = zero
	w.hasPending = false
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	return w.write(ctx, value)
}

// Close stops accepting values, writes whatever is pending and waits for
// timer-triggered writes that already started.
func (w *Writer[T]) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.Flush(ctx)
	w.inflight.Wait()

	return err
}

func (w *Writer[T]) fire(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || gen != w.generation || !w.hasPending {
		return
	}

	w.inflight.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.flushTimeout)
		defer cancel()

		if err := w.Flush(ctx); err != nil {
			w.onError(err)
		}
	})
}
