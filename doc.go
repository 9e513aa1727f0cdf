// Package feedback provides an event-driven state-management runtime: a
// single-writer feedback loop that turns a stream of events into a
// deterministically ordered stream of state snapshots, while reducers
// schedule asynchronous side-effects whose results fold back into state.
//
// # Loop
//
// A Loop owns one canonical state value. Each submitted event is processed
// on a single-writer sequence:
//
//	Event → Reducer (mutates state, returns Effect) → Snapshot → Effect execution
//
// Effects run on arbitrary goroutines, but their results re-enter the loop
// through the same serialized path as events, so no two reducer invocations
// ever overlap and every published snapshot is internally consistent.
//
//	type Counter struct{ Count int }
//
//	reducer := feedback.ReducerFunc[Counter, string](func(s *Counter, e string) feedback.Effect[Counter, string] {
//	    switch e {
//	    case "increment":
//	        s.Count++
//	    case "asyncIncrement":
//	        next := s.Count + 1
//	        return feedback.Perform[Counter, string](func(ctx context.Context) feedback.Feedback[Counter, string] {
//	            return feedback.StateOf[Counter, string](Counter{Count: next})
//	        })
//	    }
//	    return feedback.None[Counter, string]()
//	})
//
//	loop := feedback.New[Counter, string](Counter{}, reducer)
//	snapshots := loop.Subscribe()
//	if err := loop.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	loop.Submit("increment")
//
// # Effects
//
// An Effect describes follow-up work without executing it:
//
//   - None: no asynchronous work
//   - Perform: single-shot async work whose result folds back into the loop
//   - Observe: subscription forwarding every element of an external source
//   - Concurrent: a group of effects run concurrently
//
// Perform results and observed elements are Feedback values: either a state
// replacement (StateOf) or a new event (EventOf) routed through the reducer.
//
// # Composition
//
// Reducers over the same state and event types compose without manual
// plumbing:
//
//   - Merge(a, b): a mutates first, b sees the mutated state; effects run
//     concurrently
//   - MergeMany(units...): N-ary Merge in list order
//   - Conditional(useFirst, a, b): structural selection at construction time
//   - Empty(): identity element
//
// Merge is associative with Empty as identity, so reducer trees built under
// arbitrary construction logic behave predictably regardless of nesting.
//
// # Debouncing
//
// Debouncer coalesces rapid requests for delayed work down to the most
// recent one, using a generation counter to close the race between a
// completing sleep and a superseding call:
//
//	deb := feedback.NewDebouncer[error](300 * time.Millisecond)
//	attempt := deb.Debounce(func(ctx context.Context) error {
//	    return saveDraft(ctx)
//	})
//	outcome := <-attempt.Outcome()
//
// # Sources
//
// The Source interface feeds a loop from an external producer:
// ChannelSource wraps an existing channel, FileSource watches a file via
// fsnotify, DecodedSource unmarshals byte payloads through a Codec, and
// MapSource adapts between element types. When an attached source's channel
// closes, the loop terminates and cancels all live effects.
//
// # Testing
//
// All time-dependent behavior goes through clockz.Clock. Substitute
// clockz.NewFakeClock() via the Clock chainable methods for deterministic
// debounce and timeout tests.
package feedback
