package feedback

import (
	"context"
	"sort"
	"testing"
)

// addUnit mutates the count and schedules perform work yielding a marker
// value, so tests can compare both final state and effect sets.
func addUnit(delta, marker int) Reducer[counter, string] {
	return ReducerFunc[counter, string](func(s *counter, _ string) Effect[counter, string] {
		s.Count += delta
		return Perform[counter, string](func(_ context.Context) Feedback[counter, string] {
			return StateOf[counter, string](counter{Count: marker})
		})
	})
}

// runLeaves executes every perform leaf directly and returns the sorted
// marker values they produce.
func runLeaves(t *testing.T, eff Effect[counter, string]) []int {
	t.Helper()
	var markers []int
	for _, leaf := range eff.leaves() {
		if leaf.kind != effectPerform {
			t.Fatalf("unexpected leaf kind %s", leaf.kind)
		}
		fb := leaf.work(context.Background())
		s, ok := fb.IsState()
		if !ok {
			t.Fatal("expected state feedback")
		}
		markers = append(markers, s.Count)
	}
	sort.Ints(markers)
	return markers
}

func TestEmpty_MutatesNothing(t *testing.T) {
	s := counter{Count: 5}
	eff := Empty[counter, string]().Reduce(&s, evIncrement)

	if s.Count != 5 {
		t.Errorf("expected untouched state, got %d", s.Count)
	}
	if !eff.IsNone() {
		t.Error("expected no effect")
	}
}

func TestMerge_SequentialMutation(t *testing.T) {
	double := ReducerFunc[counter, string](func(s *counter, _ string) Effect[counter, string] {
		s.Count *= 2
		return None[counter, string]()
	})
	incr := ReducerFunc[counter, string](func(s *counter, _ string) Effect[counter, string] {
		s.Count++
		return None[counter, string]()
	})

	s := counter{Count: 3}
	Merge[counter, string](double, incr).Reduce(&s, evNoop)
	if s.Count != 7 {
		t.Errorf("expected (3*2)+1 = 7, got %d", s.Count)
	}

	// The second unit sees the first unit's mutation, so order matters.
	s = counter{Count: 3}
	Merge[counter, string](incr, double).Reduce(&s, evNoop)
	if s.Count != 8 {
		t.Errorf("expected (3+1)*2 = 8, got %d", s.Count)
	}
}

func TestMerge_EmptyIsIdentity(t *testing.T) {
	unit := addUnit(1, 100)

	for name, merged := range map[string]Reducer[counter, string]{
		"left":  Merge(Empty[counter, string](), unit),
		"right": Merge(unit, Empty[counter, string]()),
	} {
		s := counter{}
		eff := merged.Reduce(&s, evNoop)
		if s.Count != 1 {
			t.Errorf("%s identity: expected state 1, got %d", name, s.Count)
		}
		markers := runLeaves(t, eff)
		if len(markers) != 1 || markers[0] != 100 {
			t.Errorf("%s identity: expected effect markers [100], got %v", name, markers)
		}
	}
}

func TestMerge_Associativity(t *testing.T) {
	build := func() (Reducer[counter, string], Reducer[counter, string]) {
		a := addUnit(1, 100)
		b := ReducerFunc[counter, string](func(s *counter, _ string) Effect[counter, string] {
			s.Count *= 2
			return Perform[counter, string](func(_ context.Context) Feedback[counter, string] {
				return StateOf[counter, string](counter{Count: 200})
			})
		})
		c := addUnit(10, 300)
		return Merge(Merge(a, b), c), Merge(a, Merge(b, c))
	}

	left, right := build()

	sLeft := counter{Count: 3}
	effLeft := left.Reduce(&sLeft, evNoop)

	sRight := counter{Count: 3}
	effRight := right.Reduce(&sRight, evNoop)

	if sLeft.Count != sRight.Count {
		t.Errorf("groupings disagree on state: %d vs %d", sLeft.Count, sRight.Count)
	}
	// ((3+1)*2)+10 = 18 regardless of grouping.
	if sLeft.Count != 18 {
		t.Errorf("expected 18, got %d", sLeft.Count)
	}

	mLeft := runLeaves(t, effLeft)
	mRight := runLeaves(t, effRight)
	if len(mLeft) != 3 || len(mRight) != 3 {
		t.Fatalf("expected 3 effects each, got %d and %d", len(mLeft), len(mRight))
	}
	for i := range mLeft {
		if mLeft[i] != mRight[i] {
			t.Errorf("effect sets differ: %v vs %v", mLeft, mRight)
		}
	}
}

func TestMergeMany_ListOrder(t *testing.T) {
	incr := ReducerFunc[counter, string](func(s *counter, _ string) Effect[counter, string] {
		s.Count++
		return None[counter, string]()
	})
	double := ReducerFunc[counter, string](func(s *counter, _ string) Effect[counter, string] {
		s.Count *= 2
		return None[counter, string]()
	})

	s := counter{}
	MergeMany[counter, string](incr, double, incr).Reduce(&s, evNoop)
	if s.Count != 3 {
		t.Errorf("expected ((0+1)*2)+1 = 3, got %d", s.Count)
	}
}

func TestMergeMany_Degenerate(t *testing.T) {
	s := counter{Count: 4}
	eff := MergeMany[counter, string]().Reduce(&s, evNoop)
	if s.Count != 4 || !eff.IsNone() {
		t.Error("expected MergeMany() to behave as Empty")
	}

	unit := addUnit(2, 100)
	s = counter{}
	eff = MergeMany(unit).Reduce(&s, evNoop)
	if s.Count != 2 {
		t.Errorf("expected single-unit MergeMany to apply the unit, got %d", s.Count)
	}
	if markers := runLeaves(t, eff); len(markers) != 1 {
		t.Errorf("expected the unit's effect, got %v", markers)
	}
}

func TestConditional_SelectsAtConstruction(t *testing.T) {
	a := ReducerFunc[counter, string](func(s *counter, _ string) Effect[counter, string] {
		s.Count = 1
		return None[counter, string]()
	})
	b := ReducerFunc[counter, string](func(s *counter, _ string) Effect[counter, string] {
		s.Count = 2
		return None[counter, string]()
	})

	useFirst := true
	picked := Conditional[counter, string](useFirst, a, b)

	// Flipping the flag after construction must not change the selection.
	useFirst = false
	_ = useFirst

	s := counter{}
	picked.Reduce(&s, evNoop)
	if s.Count != 1 {
		t.Errorf("expected first reducer selected, got %d", s.Count)
	}

	s = counter{}
	Conditional[counter, string](false, a, b).Reduce(&s, evNoop)
	if s.Count != 2 {
		t.Errorf("expected second reducer selected, got %d", s.Count)
	}
}
