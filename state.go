package feedback

// State represents the lifecycle state of a Loop.
type State int32

const (
	// StateIdle indicates the Loop has been constructed but Start has not
	// been called. Events submitted while idle are queued.
	StateIdle State = iota

	// StateRunning indicates the single-writer sequence is processing
	// events and effect fold-backs.
	StateRunning

	// StateStopped indicates the Loop has terminated: its upstream source
	// completed or it was disposed. All live effects have been cancelled
	// and subscriber channels closed.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
