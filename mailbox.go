package feedback

import "sync"

// mailbox is an unbounded FIFO queue feeding the single-writer sequence.
// Producers never block: Submit and effect fold-backs append under a mutex
// and nudge the consumer through a one-slot signal channel.
type mailbox[T any] struct {
	mu     sync.Mutex
	items  []T
	signal chan struct{}
	closed bool
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{signal: make(chan struct{}, 1)}
}

// put enqueues v. Returns false if the mailbox is closed; the value is
// dropped in that case.
func (m *mailbox[T]) put(v T) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.items = append(m.items, v)
	m.mu.Unlock()
	m.notify()
	return true
}

// take drains all queued values in arrival order. The second return is
// false once the mailbox has been closed; callers should process the final
// batch and stop.
func (m *mailbox[T]) take() ([]T, bool) {
	m.mu.Lock()
	batch := m.items
	m.items = nil
	open := !m.closed
	m.mu.Unlock()
	return batch, open
}

// wait returns the channel signalled whenever values arrive or the mailbox
// closes. The signal coalesces: one receive may cover many puts.
func (m *mailbox[T]) wait() <-chan struct{} {
	return m.signal
}

// close marks the mailbox closed. Queued values remain takeable. Idempotent.
func (m *mailbox[T]) close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()
	m.notify()
}

func (m *mailbox[T]) notify() {
	select {
	case m.signal <- struct{}{}:
	default:
	}
}
