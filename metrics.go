package feedback

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key loop events.
type MetricsProvider interface {
	// OnStateChange is called when the loop transitions between lifecycle states.
	OnStateChange(from, to State)

	// OnEventReceived is called when the single-writer sequence dequeues an
	// event or effect fold-back.
	OnEventReceived()

	// OnSnapshotPublished is called when a new state snapshot is delivered
	// to subscribers.
	OnSnapshotPublished()

	// OnEffectSpawned is called when the loop schedules effect work.
	// Kind is "perform" or "observe".
	OnEffectSpawned(kind string)

	// OnEffectSettled is called when effect work ends, whether it completed
	// or was cancelled. Duration is the time from spawn to settlement.
	OnEffectSettled(kind string, duration time.Duration)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                  {}
func (NoOpMetricsProvider) OnEventReceived()                          {}
func (NoOpMetricsProvider) OnSnapshotPublished()                      {}
func (NoOpMetricsProvider) OnEffectSpawned(_ string)                  {}
func (NoOpMetricsProvider) OnEffectSettled(_ string, _ time.Duration) {}
