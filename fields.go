package feedback

import "github.com/zoobzio/capitan"

// Field keys for Loop and Debouncer events.
var (
	// KeyState is the current lifecycle state of the Loop.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyEffectID is the opaque id of a live effect handle.
	KeyEffectID = capitan.NewIntKey("effect_id")

	// KeyEffectKind is the descriptor variant being executed.
	KeyEffectKind = capitan.NewStringKey("effect_kind")

	// KeyDuration is the elapsed wall time of an operation.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyDebounce is the configured debounce window.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyGeneration is the debounce generation of a scheduled attempt.
	KeyGeneration = capitan.NewIntKey("generation")
)
