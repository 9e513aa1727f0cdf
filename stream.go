package feedback

import (
	"context"

	"github.com/zoobzio/streamz"
)

// Pipe runs a channel through a sequence of streamz processors. Use it to
// shape a Subscribe channel (buffering, throttling, filtering) without
// hand-rolling goroutines.
//
// Example:
//
//	snapshots := feedback.Pipe(ctx, loop.Subscribe(),
//	    feedback.Buffered[Counter](64),
//	    feedback.Throttled[Counter](10.0),
//	)
func Pipe[T any](ctx context.Context, in <-chan T, procs ...streamz.Processor[T, T]) <-chan T {
	current := in
	for _, proc := range procs {
		current = proc.Process(ctx, current)
	}
	return current
}

// Buffered returns a processor that decouples producer and consumer with a
// buffer of the given size.
func Buffered[T any](size int) streamz.Processor[T, T] {
	return streamz.NewBuffer[T](size)
}

// Throttled returns a processor that limits throughput to the given number
// of values per second.
func Throttled[T any](perSecond float64) streamz.Processor[T, T] {
	return streamz.NewThrottle[T](perSecond, streamz.RealClock)
}

// Filtered returns a processor that drops values failing the predicate.
func Filtered[T any](name string, predicate func(T) bool) streamz.Processor[T, T] {
	return streamz.NewFilter(predicate).WithName(name)
}
