package feedback

// subscriber delivers snapshots to one Subscribe channel. Snapshots are
// staged in an unbounded mailbox so the single-writer sequence never blocks
// on a slow consumer; a pump goroutine forwards them in order.
type subscriber[S any] struct {
	box *mailbox[S]
	out chan S
}

func newSubscriber[S any]() *subscriber[S] {
	sub := &subscriber[S]{
		box: newMailbox[S](),
		out: make(chan S),
	}
	go sub.pump()
	return sub
}

func (s *subscriber[S]) pump() {
	defer close(s.out)
	for {
		<-s.box.wait()
		batch, open := s.box.take()
		for _, snap := range batch {
			s.out <- snap
		}
		if !open {
			return
		}
	}
}
