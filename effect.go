package feedback

import "context"

// Feedback is the message type flowing through a Loop: either an event to
// reduce or a full state value to install. Effects resolve to Feedback, so
// completed work can answer with a follow-up event or with replacement state.
type Feedback[S, E any] struct {
	state   S
	event   E
	isState bool
}

// StateOf wraps a state value. Folding it back replaces the canonical state
// without invoking the reducer.
func StateOf[S, E any](state S) Feedback[S, E] {
	return Feedback[S, E]{state: state, isState: true}
}

// EventOf wraps an event. Folding it back routes through the reducer like
// any submitted event.
func EventOf[S, E any](event E) Feedback[S, E] {
	return Feedback[S, E]{event: event}
}

// IsState returns the wrapped state value and true when this feedback
// carries state.
func (f Feedback[S, E]) IsState() (S, bool) {
	return f.state, f.isState
}

// IsEvent returns the wrapped event and true when this feedback carries
// an event.
func (f Feedback[S, E]) IsEvent() (E, bool) {
	return f.event, !f.isState
}

// effectKind discriminates the Effect descriptor variants.
type effectKind int

const (
	effectNone effectKind = iota
	effectPerform
	effectObserve
	effectConcurrent
)

func (k effectKind) String() string {
	switch k {
	case effectNone:
		return "none"
	case effectPerform:
		return "perform"
	case effectObserve:
		return "observe"
	case effectConcurrent:
		return "concurrent"
	default:
		return "unknown"
	}
}

// Effect describes work a reducer wants done outside the single-writer
// sequence. Effects are inert values; the Loop schedules them after the
// snapshot that produced them has been published.
type Effect[S, E any] struct {
	kind   effectKind
	work   func(context.Context) Feedback[S, E]
	source <-chan Feedback[S, E]
	group  []Effect[S, E]
}

// None is the empty effect. Executing it does nothing.
func None[S, E any]() Effect[S, E] {
	return Effect[S, E]{kind: effectNone}
}

// Perform describes one-shot asynchronous work. The Loop runs work on its
// own goroutine and folds the returned Feedback back into the sequence.
// Work must honor ctx cancellation for disposal to be prompt.
func Perform[S, E any](work func(context.Context) Feedback[S, E]) Effect[S, E] {
	return Effect[S, E]{kind: effectPerform, work: work}
}

// Observe subscribes the Loop to an external feedback source. Every value
// received is folded back in arrival order until the channel closes or the
// loop terminates. Channel closure ends the subscription only, not the loop.
func Observe[S, E any](source <-chan Feedback[S, E]) Effect[S, E] {
	return Effect[S, E]{kind: effectObserve, source: source}
}

// Concurrent groups effects for concurrent execution. None members are
// dropped, nested groups are flattened, and degenerate groups collapse:
// zero survivors yield None, a single survivor yields itself.
func Concurrent[S, E any](effects ...Effect[S, E]) Effect[S, E] {
	var flat []Effect[S, E]
	for _, eff := range effects {
		switch eff.kind {
		case effectNone:
		case effectConcurrent:
			flat = append(flat, eff.group...)
		default:
			flat = append(flat, eff)
		}
	}
	switch len(flat) {
	case 0:
		return None[S, E]()
	case 1:
		return flat[0]
	default:
		return Effect[S, E]{kind: effectConcurrent, group: flat}
	}
}

// IsNone reports whether executing this effect would do nothing.
func (e Effect[S, E]) IsNone() bool {
	return e.kind == effectNone
}

// leaves returns the executable perform and observe descriptors in this
// effect, in declaration order. Concurrent construction already flattened
// nesting, so one level of unwrapping suffices.
func (e Effect[S, E]) leaves() []Effect[S, E] {
	switch e.kind {
	case effectNone:
		return nil
	case effectConcurrent:
		return e.group
	default:
		return []Effect[S, E]{e}
	}
}
