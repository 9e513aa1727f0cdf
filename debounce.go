package feedback

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Outcome is the resolution of a debounce attempt. It distinguishes work
// that executed from work that was superseded by a newer call or cancelled
// before its window elapsed. The work's own success or failure travels
// inside R, independent of this distinction.
type Outcome[R any] struct {
	executed bool
	result   R
}

// Executed reports whether the attempt's work ran, and returns its result
// if so.
func (o Outcome[R]) Executed() (R, bool) {
	return o.result, o.executed
}

// Superseded reports whether the attempt resolved without executing.
func (o Outcome[R]) Superseded() bool {
	return !o.executed
}

// Attempt is the handle for one scheduled debounce call. It resolves
// exactly once, to Executed or Superseded.
type Attempt[R any] struct {
	outcome chan Outcome[R]
	cancel  context.CancelFunc
}

// Outcome returns the channel carrying the attempt's resolution.
// The channel is buffered; the resolution is never lost if read late.
func (a *Attempt[R]) Outcome() <-chan Outcome[R] {
	return a.outcome
}

// Cancel resolves a still-waiting attempt as superseded. Work that has
// already begun executing is not interrupted, though its context is
// cancelled. Cancel is idempotent and never blocks.
func (a *Attempt[R]) Cancel() {
	a.cancel()
}

func (a *Attempt[R]) resolve(o Outcome[R]) {
	a.outcome <- o
}

// Debouncer ensures only the most recent request for delayed work executes.
// Rapid calls within one window collapse to exactly one execution, the last.
// The zero value is not usable; create instances with NewDebouncer.
type Debouncer[R any] struct {
	duration time.Duration
	clock    clockz.Clock

	mu         sync.Mutex
	generation uint64
	pending    context.CancelFunc
}

// NewDebouncer creates a Debouncer with the given window.
func NewDebouncer[R any](duration time.Duration) *Debouncer[R] {
	return &Debouncer[R]{
		duration: duration,
		clock:    clockz.RealClock,
	}
}

// Clock sets a custom clock for the sleep. Use clockz.FakeClock for
// deterministic tests.
func (d *Debouncer[R]) Clock(clock clockz.Clock) *Debouncer[R] {
	d.clock = clock
	return d
}

// Debounce schedules work to run after the window elapses, superseding any
// attempt still waiting. The returned handle resolves exactly once:
// Executed with the work's result, or Superseded if a newer call replaced
// this one (or it was cancelled) before the window elapsed.
//
// Debouncing governs only the waiting period. Work that has begun executing
// is never retroactively cancelled by a later call; a committed side effect
// is not discarded.
func (d *Debouncer[R]) Debounce(work func(ctx context.Context) R) *Attempt[R] {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Attempt[R]{
		outcome: make(chan Outcome[R], 1),
		cancel:  cancel,
	}

	d.mu.Lock()
	d.generation++
	g := d.generation
	if d.pending != nil {
		d.pending()
	}
	d.pending = cancel
	d.mu.Unlock()

	capitan.Emit(ctx, DebounceScheduled,
		KeyGeneration.Field(int(g)),
		KeyDebounce.Field(d.duration),
	)

	go d.attempt(ctx, g, work, a)
	return a
}

// Stop cancels any attempt still waiting, resolving it as superseded.
// Work already executing is unaffected. Idempotent.
func (d *Debouncer[R]) Stop() {
	d.mu.Lock()
	d.generation++
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	if pending != nil {
		pending()
	}
}

func (d *Debouncer[R]) attempt(ctx context.Context, g uint64, work func(ctx context.Context) R, a *Attempt[R]) {
	timer := d.clock.NewTimer(d.duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		capitan.Emit(ctx, DebounceSuperseded,
			KeyGeneration.Field(int(g)),
		)
		a.resolve(Outcome[R]{})
		return
	case <-timer.C():
	}

	// The sleep can complete concurrently with a newer call replacing the
	// handle before cancellation is observed; the generation re-check under
	// the lock closes that race.
	d.mu.Lock()
	if g != d.generation {
		d.mu.Unlock()
		capitan.Emit(ctx, DebounceSuperseded,
			KeyGeneration.Field(int(g)),
		)
		a.resolve(Outcome[R]{})
		return
	}
	// Work is committed: clear the handle so later calls cannot cancel it.
	d.pending = nil
	d.mu.Unlock()

	result := work(ctx)
	capitan.Emit(ctx, DebounceExecuted,
		KeyGeneration.Field(int(g)),
	)
	a.resolve(Outcome[R]{executed: true, result: result})
}
