package feedback

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// envelope wraps a mailbox message with its origin so ordering guarantees
// and fold-back accounting stay visible to the pipeline.
type envelope[S, E any] struct {
	msg      Feedback[S, E]
	foldBack bool
}

// Loop is the single-writer engine tying events to state. It owns the
// canonical state value: every mutation, whether triggered by a submitted
// event or by folding back a completed effect's result, happens on one
// goroutine, so no two reducer invocations ever overlap.
type Loop[S, E any] struct {
	pipeline       pipz.Chainable[*Step[S, E]]
	clock          clockz.Clock
	equal          func(prev, next S) bool
	metrics        MetricsProvider
	onStop         func(State)
	source         Source[E]
	performTimeout time.Duration

	state        atomic.Int32
	current      atomic.Pointer[S]
	lastError    atomic.Pointer[error]
	errorHistory *ring[error]
	snapshots    *ring[S]

	mu      sync.Mutex
	started bool
	seeded  bool
	subs    []*subscriber[S]

	inbox *mailbox[envelope[S, E]]

	emu     sync.Mutex
	effects map[uint64]context.CancelFunc
	nextID  atomic.Uint64

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped sync.Once
}

// New creates a Loop that owns initial and routes every event through
// reducer on a single-writer sequence.
//
// Pipeline options (With*) configure the step-processing pipeline. Instance
// configuration uses chainable methods before calling Start().
//
// Example:
//
//	loop := feedback.New[Counter, CounterEvent](
//	    Counter{},
//	    counterReducer,
//	).Clock(clock).HistorySize(16)
func New[S, E any](initial S, reducer Reducer[S, E], opts ...Option[S, E]) *Loop[S, E] {
	l := &Loop[S, E]{
		clock: clockz.RealClock,
		equal: func(prev, next S) bool {
			return reflect.DeepEqual(prev, next)
		},
		inbox:   newMailbox[envelope[S, E]](),
		effects: make(map[uint64]context.CancelFunc),
		done:    make(chan struct{}),
	}

	terminal := pipz.Transform(terminalID, func(_ context.Context, step *Step[S, E]) *Step[S, E] {
		if s, ok := step.Feedback.IsState(); ok {
			*step.State = s
			step.Effect = None[S, E]()
			return step
		}
		e, _ := step.Feedback.IsEvent()
		step.Effect = reducer.Reduce(step.State, e)
		return step
	})
	l.pipeline = buildPipeline(terminal, opts)

	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.current.Store(&initial)
	l.state.Store(int32(StateIdle))
	return l
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic tests.
// Must be called before Start().
func (l *Loop[S, E]) Clock(clock clockz.Clock) *Loop[S, E] {
	l.clock = clock
	return l
}

// Equal sets the structural-equality predicate used to suppress redundant
// snapshot propagation. Default: reflect.DeepEqual.
// Must be called before Start().
func (l *Loop[S, E]) Equal(fn func(prev, next S) bool) *Loop[S, E] {
	l.equal = fn
	return l
}

// Source attaches an upstream event source. When its channel closes, the
// loop terminates as if disposed. Must be called before Start().
func (l *Loop[S, E]) Source(source Source[E]) *Loop[S, E] {
	l.source = source
	return l
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (l *Loop[S, E]) Metrics(provider MetricsProvider) *Loop[S, E] {
	l.metrics = provider
	return l
}

// OnStop sets a callback invoked once when the loop terminates, after all
// live effects are cancelled. Must be called before Start().
func (l *Loop[S, E]) OnStop(fn func(State)) *Loop[S, E] {
	l.onStop = fn
	return l
}

// HistorySize sets the number of recent snapshots to retain.
// When set, History() returns up to this many recent snapshots.
// Use 0 (default) to disable retention. Must be called before Start().
func (l *Loop[S, E]) HistorySize(n int) *Loop[S, E] {
	l.snapshots = newRing[S](n)
	return l
}

// ErrorHistorySize sets the number of recent pipeline errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (l *Loop[S, E]) ErrorHistorySize(n int) *Loop[S, E] {
	l.errorHistory = newRing[error](n)
	return l
}

// PerformTimeout bounds each perform effect's execution. Work exceeding the
// duration observes context cancellation and its result is not folded back.
// Default: no timeout. Must be called before Start().
func (l *Loop[S, E]) PerformTimeout(d time.Duration) *Loop[S, E] {
	l.performTimeout = d
	return l
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// State returns the current lifecycle state of the loop.
func (l *Loop[S, E]) State() State {
	return State(l.state.Load())
}

// Current returns the latest published state snapshot.
// Before Start it returns the initial state.
func (l *Loop[S, E]) Current() S {
	return *l.current.Load()
}

// LastError returns the last pipeline error, or nil if none occurred.
// The reducer itself cannot fail; errors come from configured middleware.
func (l *Loop[S, E]) LastError() error {
	ptr := l.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent pipeline errors, oldest first.
// Returns nil unless enabled via ErrorHistorySize.
func (l *Loop[S, E]) ErrorHistory() []error {
	return l.errorHistory.all()
}

// History returns recent published snapshots, oldest first.
// Returns nil unless enabled via HistorySize.
func (l *Loop[S, E]) History() []S {
	return l.snapshots.all()
}

// Done returns a channel closed when the loop has fully terminated.
func (l *Loop[S, E]) Done() <-chan struct{} {
	return l.done
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start launches the single-writer sequence. The initial state is published
// to subscribers immediately. If a Source is attached, its events feed the
// loop until the source closes, which terminates the loop.
//
// Cancelling ctx disposes the loop. Start can only be called once.
func (l *Loop[S, E]) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("loop already started")
	}
	l.started = true
	l.mu.Unlock()

	l.transition(StateIdle, StateRunning)
	capitan.Emit(ctx, LoopStarted)

	// Seed every subscriber with the initial snapshot exactly once.
	// Subscribers attaching later seed themselves from the current value.
	initial := *l.current.Load()
	l.snapshots.push(initial)
	l.mu.Lock()
	l.seeded = true
	seeded := make([]*subscriber[S], len(l.subs))
	copy(seeded, l.subs)
	l.mu.Unlock()
	for _, sub := range seeded {
		sub.box.put(initial)
	}

	if l.source != nil {
		events, err := l.source.Events(l.ctx)
		if err != nil {
			l.finish()
			return fmt.Errorf("failed to start source: %w", err)
		}
		go l.pumpSource(events)
	}

	go func() {
		select {
		case <-ctx.Done():
			l.Dispose()
		case <-l.done:
		}
	}()

	go l.run()
	return nil
}

// Submit enqueues an event for processing. It never blocks and is safe to
// call from any goroutine; events are serialized internally and processed
// strictly in arrival order. Returns false if the loop has terminated and
// the event was dropped.
func (l *Loop[S, E]) Submit(event E) bool {
	return l.inbox.put(envelope[S, E]{msg: EventOf[S, E](event)})
}

// Subscribe returns an ordered channel of state snapshots. A subscriber
// attached before Start receives every snapshot beginning with the initial
// state; one attached later begins with the current snapshot. The channel
// is closed at loop termination. Subscribers must drain the channel until
// it closes, or their delivery goroutine leaks.
func (l *Loop[S, E]) Subscribe() <-chan S {
	sub := newSubscriber[S]()
	l.mu.Lock()
	if l.State() == StateStopped {
		l.mu.Unlock()
		sub.box.close()
		return sub.out
	}
	if l.seeded {
		sub.box.put(*l.current.Load())
	}
	l.subs = append(l.subs, sub)
	l.mu.Unlock()
	return sub.out
}

// Dispose terminates the loop: the mailbox stops accepting messages and
// every live effect handle is cancelled. Dispose is idempotent and safe to
// call from any goroutine, including before Start.
func (l *Loop[S, E]) Dispose() {
	l.cancel()
	l.inbox.close()

	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		l.finish()
	}
}

// -----------------------------------------------------------------------------
// Single-writer sequence
// -----------------------------------------------------------------------------

func (l *Loop[S, E]) run() {
	defer l.finish()
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-l.inbox.wait():
			batch, open := l.inbox.take()
			for _, env := range batch {
				if l.ctx.Err() != nil {
					return
				}
				l.step(env)
			}
			if !open {
				return
			}
		}
	}
}

// step applies one message: read current state, run the pipeline (the
// terminal invokes the reducer), publish the snapshot, execute the effect.
func (l *Loop[S, E]) step(env envelope[S, E]) {
	capitan.Emit(l.ctx, EventReceived)
	if l.metrics != nil {
		l.metrics.OnEventReceived()
	}

	// Work on a copy so published snapshots stay immutable values.
	working := *l.current.Load()
	st := &Step[S, E]{Feedback: env.msg, State: &working, FoldBack: env.foldBack}

	processed, err := l.pipeline.Process(l.ctx, st)
	if err != nil {
		// Middleware failed before the terminal ran; canonical state is
		// untouched and the loop keeps running.
		l.setError(err)
		capitan.Emit(l.ctx, StepFailed,
			KeyError.Field(err.Error()),
		)
		return
	}

	l.publish(*processed.State)
	l.execute(processed.Effect)
}

// publish stores the next snapshot and delivers it to subscribers unless it
// is structurally equal to the previous one.
func (l *Loop[S, E]) publish(next S) {
	prev := *l.current.Load()
	l.current.Store(&next)
	if l.equal != nil && l.equal(prev, next) {
		return
	}

	l.snapshots.push(next)
	capitan.Emit(l.ctx, SnapshotPublished)
	if l.metrics != nil {
		l.metrics.OnSnapshotPublished()
	}
	l.fanout(next)
}

func (l *Loop[S, E]) fanout(snap S) {
	l.mu.Lock()
	subs := make([]*subscriber[S], len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	for _, sub := range subs {
		sub.box.put(snap)
	}
}

func (l *Loop[S, E]) pumpSource(events <-chan E) {
	for {
		select {
		case <-l.ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				// Upstream completed: drain what is queued, then stop.
				l.inbox.close()
				return
			}
			l.inbox.put(envelope[S, E]{msg: EventOf[S, E](e)})
		}
	}
}

func (l *Loop[S, E]) setError(err error) {
	e := err
	l.lastError.Store(&e)
	l.errorHistory.push(err)
}

func (l *Loop[S, E]) transition(oldState, newState State) {
	if oldState == newState {
		return
	}
	l.state.Store(int32(newState))
	capitan.Emit(l.ctx, LoopStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if l.metrics != nil {
		l.metrics.OnStateChange(oldState, newState)
	}
}

// finish tears the loop down exactly once: cancel live effects, close
// subscriber channels, signal completion.
func (l *Loop[S, E]) finish() {
	l.stopped.Do(func() {
		l.cancel()
		l.inbox.close()
		l.cancelEffects()

		l.transition(State(l.state.Load()), StateStopped)

		l.mu.Lock()
		subs := l.subs
		l.subs = nil
		l.mu.Unlock()
		for _, sub := range subs {
			sub.box.close()
		}

		capitan.Emit(l.ctx, LoopStopped,
			KeyState.Field(StateStopped.String()),
		)
		if l.onStop != nil {
			l.onStop(StateStopped)
		}
		close(l.done)
	})
}

// -----------------------------------------------------------------------------
// Effect execution
// -----------------------------------------------------------------------------

// execute schedules the effect's perform and observe leaves concurrently.
// Called only from the single-writer goroutine.
func (l *Loop[S, E]) execute(eff Effect[S, E]) {
	for _, leaf := range eff.leaves() {
		switch leaf.kind {
		case effectPerform:
			l.spawnPerform(leaf.work)
		case effectObserve:
			l.spawnObserve(leaf.source)
		}
	}
}

func (l *Loop[S, E]) spawnPerform(work func(context.Context) Feedback[S, E]) {
	id := l.nextID.Add(1)

	var ctx context.Context
	var cancel context.CancelFunc
	if l.performTimeout > 0 {
		ctx, cancel = l.clock.WithTimeout(l.ctx, l.performTimeout)
	} else {
		ctx, cancel = context.WithCancel(l.ctx)
	}
	l.track(id, cancel)

	capitan.Emit(l.ctx, EffectSpawned,
		KeyEffectID.Field(int(id)),
		KeyEffectKind.Field("perform"),
	)
	if l.metrics != nil {
		l.metrics.OnEffectSpawned("perform")
	}

	start := l.clock.Now()
	go func() {
		defer l.untrack(id)

		result := work(ctx)
		elapsed := l.clock.Since(start)
		if l.metrics != nil {
			l.metrics.OnEffectSettled("perform", elapsed)
		}

		// A cancelled handle never forwards its result.
		if ctx.Err() != nil {
			capitan.Emit(l.ctx, EffectCancelled,
				KeyEffectID.Field(int(id)),
				KeyEffectKind.Field("perform"),
			)
			return
		}

		capitan.Emit(l.ctx, EffectSettled,
			KeyEffectID.Field(int(id)),
			KeyEffectKind.Field("perform"),
			KeyDuration.Field(elapsed),
		)
		l.inbox.put(envelope[S, E]{msg: result, foldBack: true})
	}()
}

func (l *Loop[S, E]) spawnObserve(source <-chan Feedback[S, E]) {
	id := l.nextID.Add(1)
	ctx, cancel := context.WithCancel(l.ctx)
	l.track(id, cancel)

	capitan.Emit(l.ctx, EffectSpawned,
		KeyEffectID.Field(int(id)),
		KeyEffectKind.Field("observe"),
	)
	if l.metrics != nil {
		l.metrics.OnEffectSpawned("observe")
	}

	start := l.clock.Now()
	go func() {
		defer l.untrack(id)
		defer func() {
			if l.metrics != nil {
				l.metrics.OnEffectSettled("observe", l.clock.Since(start))
			}
			capitan.Emit(l.ctx, ObserveClosed,
				KeyEffectID.Field(int(id)),
			)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-source:
				if !ok {
					// Source completed: ends this subscription only.
					return
				}
				if !l.inbox.put(envelope[S, E]{msg: msg, foldBack: true}) {
					return
				}
			}
		}
	}()
}

func (l *Loop[S, E]) track(id uint64, cancel context.CancelFunc) {
	l.emu.Lock()
	l.effects[id] = cancel
	l.emu.Unlock()
}

// untrack removes the handle and cancels it to release context resources.
// context.CancelFunc is idempotent, so racing with cancelEffects is safe.
func (l *Loop[S, E]) untrack(id uint64) {
	l.emu.Lock()
	cancel, ok := l.effects[id]
	delete(l.effects, id)
	l.emu.Unlock()
	if ok {
		cancel()
	}
}

func (l *Loop[S, E]) cancelEffects() {
	l.emu.Lock()
	cancels := make([]context.CancelFunc, 0, len(l.effects))
	for _, cancel := range l.effects {
		cancels = append(cancels, cancel)
	}
	l.effects = make(map[uint64]context.CancelFunc)
	l.emu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
