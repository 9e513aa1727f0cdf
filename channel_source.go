package feedback

import "context"

// ChannelSource wraps an existing event channel as a Source.
// Useful for testing and custom producers that already emit events.
type ChannelSource[E any] struct {
	ch   <-chan E
	sync bool
}

// NewChannelSource creates a ChannelSource that forwards events from the
// given channel through an internal goroutine.
func NewChannelSource[E any](ch <-chan E) *ChannelSource[E] {
	return &ChannelSource[E]{ch: ch, sync: false}
}

// NewSyncChannelSource creates a ChannelSource that returns the source
// channel directly without an intermediate goroutine.
// Use for deterministic testing.
func NewSyncChannelSource[E any](ch <-chan E) *ChannelSource[E] {
	return &ChannelSource[E]{ch: ch, sync: true}
}

// Events returns a channel that emits events from the wrapped channel.
func (s *ChannelSource[E]) Events(ctx context.Context) (<-chan E, error) {
	if s.sync {
		return s.ch, nil
	}

	out := make(chan E)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-s.ch:
				if !ok {
					return
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
