package feedback

// Reducer folds an event into state, mutating state in place, and returns
// an Effect describing any follow-up work. Reducers never fail and never
// block; anything slow or fallible belongs in the returned effect.
type Reducer[S, E any] interface {
	Reduce(state *S, event E) Effect[S, E]
}

// ReducerFunc adapts a plain function to the Reducer interface.
type ReducerFunc[S, E any] func(state *S, event E) Effect[S, E]

func (f ReducerFunc[S, E]) Reduce(state *S, event E) Effect[S, E] {
	return f(state, event)
}

type emptyReducer[S, E any] struct{}

func (emptyReducer[S, E]) Reduce(_ *S, _ E) Effect[S, E] {
	return None[S, E]()
}

// Empty returns the identity reducer: it leaves state untouched and
// produces no effect. It is the unit of Merge.
func Empty[S, E any]() Reducer[S, E] {
	return emptyReducer[S, E]{}
}

// Merge composes two reducers over the same state and event types. For each
// event, a runs first and b second, so b observes a's mutations. Their
// effects run concurrently with no ordering between them.
//
// Merge is associative: regrouping compositions changes neither the final
// state nor the set of effects.
func Merge[S, E any](a, b Reducer[S, E]) Reducer[S, E] {
	return ReducerFunc[S, E](func(state *S, event E) Effect[S, E] {
		effA := a.Reduce(state, event)
		effB := b.Reduce(state, event)
		return Concurrent(effA, effB)
	})
}

// MergeMany composes reducers in list order. No reducers behave as Empty;
// a single reducer is returned unchanged.
func MergeMany[S, E any](reducers ...Reducer[S, E]) Reducer[S, E] {
	switch len(reducers) {
	case 0:
		return Empty[S, E]()
	case 1:
		return reducers[0]
	}
	merged := reducers[0]
	for _, r := range reducers[1:] {
		merged = Merge(merged, r)
	}
	return merged
}

// Conditional selects between two reducers when the composition is built.
// The choice is fixed at construction; flipping the flag afterwards has no
// observable effect.
func Conditional[S, E any](useFirst bool, a, b Reducer[S, E]) Reducer[S, E] {
	if useFirst {
		return a
	}
	return b
}
