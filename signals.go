package feedback

import "github.com/zoobzio/capitan"

// Loop lifecycle signals.
var (
	// LoopStarted is emitted when a Loop's single-writer sequence begins.
	LoopStarted = capitan.NewSignal(
		"feedback.loop.started",
		"Loop processing started",
	)

	// LoopStopped is emitted when a Loop terminates.
	LoopStopped = capitan.NewSignal(
		"feedback.loop.stopped",
		"Loop processing stopped",
	)

	// LoopStateChanged is emitted when a Loop transitions between
	// lifecycle states.
	LoopStateChanged = capitan.NewSignal(
		"feedback.loop.state.changed",
		"Loop lifecycle state transition",
	)
)

// Event processing signals.
var (
	// EventReceived is emitted when the single-writer sequence dequeues an
	// event or effect fold-back.
	EventReceived = capitan.NewSignal(
		"feedback.loop.event.received",
		"Event dequeued for processing",
	)

	// SnapshotPublished is emitted when a new state snapshot is delivered
	// to subscribers.
	SnapshotPublished = capitan.NewSignal(
		"feedback.loop.snapshot.published",
		"State snapshot published",
	)

	// StepFailed is emitted when the processing pipeline returns an error
	// before reaching the reducer. The canonical state is not touched.
	StepFailed = capitan.NewSignal(
		"feedback.loop.step.failed",
		"Processing pipeline failed",
	)
)

// Effect execution signals.
var (
	// EffectSpawned is emitted when the loop schedules perform work or an
	// observe subscription.
	EffectSpawned = capitan.NewSignal(
		"feedback.effect.spawned",
		"Effect execution started",
	)

	// EffectSettled is emitted when perform work completes and its result
	// is enqueued for fold-back.
	EffectSettled = capitan.NewSignal(
		"feedback.effect.settled",
		"Effect completed with result",
	)

	// EffectCancelled is emitted when an effect handle is cancelled before
	// its result could be forwarded.
	EffectCancelled = capitan.NewSignal(
		"feedback.effect.cancelled",
		"Effect cancelled before completion",
	)

	// ObserveClosed is emitted when an observed source completes or fails,
	// ending that subscription only.
	ObserveClosed = capitan.NewSignal(
		"feedback.effect.observe.closed",
		"Observed source ended",
	)
)

// Debouncer signals.
var (
	// DebounceScheduled is emitted when a debounce attempt is scheduled.
	DebounceScheduled = capitan.NewSignal(
		"feedback.debounce.scheduled",
		"Debounce attempt scheduled",
	)

	// DebounceExecuted is emitted when a debounce attempt survives its
	// window and runs its work.
	DebounceExecuted = capitan.NewSignal(
		"feedback.debounce.executed",
		"Debounced work executed",
	)

	// DebounceSuperseded is emitted when a debounce attempt is replaced by
	// a newer call or cancelled before its window elapsed.
	DebounceSuperseded = capitan.NewSignal(
		"feedback.debounce.superseded",
		"Debounce attempt superseded",
	)
)

// Source signals.
var (
	// SourceDecodeFailed is emitted when a decoded source receives a
	// payload its codec cannot unmarshal. The payload is dropped.
	SourceDecodeFailed = capitan.NewSignal(
		"feedback.source.decode.failed",
		"Source payload failed to decode",
	)
)
