package feedback

// Step carries one unit of single-writer work through the processing
// pipeline. Middleware stages may observe or transform it; the terminal
// stage applies the reducer (or a state replacement) to State.
type Step[S, E any] struct {
	// Feedback is the message being applied: an externally submitted
	// event, an event folded back from an effect, or a state replacement.
	Feedback Feedback[S, E]

	// State points at the working copy of the loop state. The terminal
	// stage mutates it; after the pipeline succeeds, the loop publishes it
	// as the next snapshot.
	State *S

	// Effect is set by the terminal stage: the follow-up work the reducer
	// requested for this step.
	Effect Effect[S, E]

	// FoldBack is true when the message originated from a completed
	// effect rather than a Submit call or the upstream source.
	FoldBack bool
}
