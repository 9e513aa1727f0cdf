package feedback

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

const terminalID pipz.Name = "reduce"

// Option configures the step-processing pipeline for a Loop.
// Pipeline options wrap the reducer invocation with middleware for
// observation, transformation, and reliability patterns.
//
// Instance configuration (clock, equality, source, metrics, etc.) is handled
// via chainable methods on the Loop before calling Start().
type Option[S, E any] func(pipz.Chainable[*Step[S, E]]) pipz.Chainable[*Step[S, E]]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline[S, E any](terminal pipz.Chainable[*Step[S, E]], opts []Option[S, E]) pipz.Chainable[*Step[S, E]] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// -----------------------------------------------------------------------------
// Pipeline Options - Wrapping (With*)
// -----------------------------------------------------------------------------

// WithRetry wraps the pipeline with retry logic.
// Failed middleware stages are retried immediately up to maxAttempts times.
// The terminal reducer stage cannot fail, so retries never re-apply a
// state mutation.
func WithRetry[S, E any](maxAttempts int) Option[S, E] {
	return func(p pipz.Chainable[*Step[S, E]]) pipz.Chainable[*Step[S, E]] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithBackoff wraps the pipeline with exponential backoff retry logic.
// Failed stages are retried with increasing delays: baseDelay, 2*baseDelay,
// 4*baseDelay, and so on.
func WithBackoff[S, E any](maxAttempts int, baseDelay time.Duration) Option[S, E] {
	return func(p pipz.Chainable[*Step[S, E]]) pipz.Chainable[*Step[S, E]] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithTimeout wraps the pipeline with a timeout.
// If a step takes longer than the specified duration, it fails with a
// timeout error and the canonical state is left untouched.
func WithTimeout[S, E any](d time.Duration) Option[S, E] {
	return func(p pipz.Chainable[*Step[S, E]]) pipz.Chainable[*Step[S, E]] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// WithErrorHandler adds error observation to the pipeline.
// Errors are passed to the handler for logging, metrics, or alerting,
// but the error still propagates: the step is dropped and the loop keeps
// running. Use this for observability, not recovery.
func WithErrorHandler[S, E any](handler pipz.Chainable[*pipz.Error[*Step[S, E]]]) Option[S, E] {
	return func(p pipz.Chainable[*Step[S, E]]) pipz.Chainable[*Step[S, E]] {
		return pipz.NewHandle("error-handler", p, handler)
	}
}

// WithMiddleware wraps the pipeline with a sequence of processors.
// Processors execute in order, with the wrapped pipeline (the reducer) last.
//
// Use the Use* functions to create processors for common patterns,
// or provide custom pipz.Chainable implementations directly.
func WithMiddleware[S, E any](processors ...pipz.Chainable[*Step[S, E]]) Option[S, E] {
	return func(p pipz.Chainable[*Step[S, E]]) pipz.Chainable[*Step[S, E]] {
		all := make([]pipz.Chainable[*Step[S, E]], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// -----------------------------------------------------------------------------
// Middleware Processors - Adapters (Use*)
// -----------------------------------------------------------------------------

// UseTransform creates a processor that transforms the step.
// Cannot fail. Use for pure transformations that always succeed.
func UseTransform[S, E any](name string, fn func(context.Context, *Step[S, E]) *Step[S, E]) pipz.Chainable[*Step[S, E]] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseApply creates a processor that can transform the step and fail.
// A failing stage drops the step without touching the canonical state.
func UseApply[S, E any](name string, fn func(context.Context, *Step[S, E]) (*Step[S, E], error)) pipz.Chainable[*Step[S, E]] {
	return pipz.Apply(pipz.Name(name), fn)
}

// UseEffect creates a processor that performs a side effect.
// The step passes through unchanged. Use for logging, metrics,
// or notifications that should not affect the state.
func UseEffect[S, E any](name string, fn func(context.Context, *Step[S, E]) error) pipz.Chainable[*Step[S, E]] {
	return pipz.Effect(pipz.Name(name), fn)
}

// UseMutate creates a processor that conditionally transforms the step.
// The transformer is only applied if the condition returns true.
func UseMutate[S, E any](name string, transformer func(context.Context, *Step[S, E]) *Step[S, E], condition func(context.Context, *Step[S, E]) bool) pipz.Chainable[*Step[S, E]] {
	return pipz.Mutate(pipz.Name(name), transformer, condition)
}

// UseFilter wraps a processor with a condition.
// If the condition returns false, the step passes through unchanged.
func UseFilter[S, E any](name string, condition func(context.Context, *Step[S, E]) bool, processor pipz.Chainable[*Step[S, E]]) pipz.Chainable[*Step[S, E]] {
	return pipz.NewFilter(pipz.Name(name), condition, processor)
}
