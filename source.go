package feedback

import "context"

// Source supplies a loop's upstream events. When the returned channel
// closes, the loop terminates as if disposed, cancelling all live effects.
type Source[E any] interface {
	// Events begins producing and returns a channel that emits events as
	// they occur. The channel is closed when the context is canceled or
	// the source has no more events.
	Events(ctx context.Context) (<-chan E, error)
}

type mapSource[A, B any] struct {
	src Source[A]
	fn  func(A) B
}

// MapSource adapts a Source[A] into a Source[B] through a pure function.
// Use it to feed a typed event loop from a byte-oriented source.
func MapSource[A, B any](src Source[A], fn func(A) B) Source[B] {
	return mapSource[A, B]{src: src, fn: fn}
}

func (m mapSource[A, B]) Events(ctx context.Context) (<-chan B, error) {
	in, err := m.src.Events(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan B)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case a, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- m.fn(a):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
