package feedback

import (
	"context"
	"testing"
)

func TestNone_IsNone(t *testing.T) {
	if !None[counter, string]().IsNone() {
		t.Error("expected None to report IsNone")
	}
	eff := Perform[counter, string](func(context.Context) Feedback[counter, string] {
		return EventOf[counter, string](evNoop)
	})
	if eff.IsNone() {
		t.Error("expected Perform not to report IsNone")
	}
}

func TestConcurrent_FlattensAndDropsNone(t *testing.T) {
	perform := Perform[counter, string](func(context.Context) Feedback[counter, string] {
		return EventOf[counter, string](evNoop)
	})
	source := make(chan Feedback[counter, string])
	observe := Observe[counter, string](source)

	eff := Concurrent(
		None[counter, string](),
		perform,
		Concurrent(observe, None[counter, string]()),
	)

	leaves := eff.leaves()
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(leaves))
	}
	if leaves[0].kind != effectPerform {
		t.Errorf("expected first leaf perform, got %s", leaves[0].kind)
	}
	if leaves[1].kind != effectObserve {
		t.Errorf("expected second leaf observe, got %s", leaves[1].kind)
	}
}

func TestConcurrent_EmptyIsNone(t *testing.T) {
	if !Concurrent[counter, string]().IsNone() {
		t.Error("expected empty group to be None")
	}
	if !Concurrent(None[counter, string](), None[counter, string]()).IsNone() {
		t.Error("expected all-None group to be None")
	}
}

func TestConcurrent_SingleCollapses(t *testing.T) {
	perform := Perform[counter, string](func(context.Context) Feedback[counter, string] {
		return EventOf[counter, string](evNoop)
	})

	eff := Concurrent(None[counter, string](), perform)
	if eff.kind != effectPerform {
		t.Errorf("expected single survivor to collapse, got %s", eff.kind)
	}
}

func TestFeedback_Constructors(t *testing.T) {
	fb := StateOf[counter, string](counter{Count: 9})
	if s, ok := fb.IsState(); !ok || s.Count != 9 {
		t.Errorf("expected state feedback 9, got %v %v", s, ok)
	}
	if _, ok := fb.IsEvent(); ok {
		t.Error("state feedback should not report an event")
	}

	fb = EventOf[counter, string](evIncrement)
	if e, ok := fb.IsEvent(); !ok || e != evIncrement {
		t.Errorf("expected event feedback, got %v %v", e, ok)
	}
	if _, ok := fb.IsState(); ok {
		t.Error("event feedback should not report a state")
	}
}

func TestEffectKind_String(t *testing.T) {
	cases := map[effectKind]string{
		effectNone:       "none",
		effectPerform:    "perform",
		effectObserve:    "observe",
		effectConcurrent: "concurrent",
		effectKind(99):   "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("kind %d: expected %q, got %q", kind, want, got)
		}
	}
}
