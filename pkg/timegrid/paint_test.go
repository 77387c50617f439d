package timegrid

import "testing"

func TestPressTogglesOrigin(t *testing.T) {
	g := New()
	c := NewController(g)

	c.Press(1, 10)
	if !g.Get(1, 10) {
		t.Fatal("press on a free cell should occupy it")
	}
	if !c.Dragging() {
		t.Fatal("press should start a drag")
	}
}

func TestPressOnOccupiedCellErases(t *testing.T) {
	g := New()
	g.SetRange(3, 5, 8, true)
	c := NewController(g)

	// Origin occupied: the gesture erases, starting with the origin.
	c.Press(3, 5)
	if g.Get(3, 5) {
		t.Fatal("press on an occupied cell should free it")
	}

	c.Enter(3, 8)
	for s := 5; s <= 8; s++ {
		if g.Get(3, s) {
			t.Fatalf("slot %d should have been erased", s)
		}
	}
}

func TestDragPaintsSpan(t *testing.T) {
	g := New()
	c := NewController(g)

	c.Press(2, 10)
	c.Enter(2, 20)

	for s := 10; s <= 20; s++ {
		if !g.Get(2, s) {
			t.Fatalf("slot %d of day 2 should be occupied", s)
		}
	}
}

func TestDragIgnoresOtherDays(t *testing.T) {
	g := New()
	c := NewController(g)

	c.Press(2, 10)
	c.Enter(2, 20)
	c.Enter(0, 20)

	for s := 0; s < TotalSlots; s++ {
		if g.Get(0, s) {
			t.Fatalf("day 0 slot %d touched by a drag that began on day 2", s)
		}
	}
	// The drag is still live on its origin day.
	c.Enter(2, 25)
	if !g.Get(2, 25) {
		t.Fatal("drag should continue on the origin day")
	}
}

func TestDragBackwards(t *testing.T) {
	g := New()
	c := NewController(g)

	c.Press(4, 20)
	c.Enter(4, 10)

	for s := 10; s <= 20; s++ {
		if !g.Get(4, s) {
			t.Fatalf("slot %d should be occupied on a backwards drag", s)
		}
	}
}

func TestReleaseReportsGestureEnd(t *testing.T) {
	g := New()
	c := NewController(g)

	if c.Release() {
		t.Fatal("release without a press should report nothing to flush")
	}

	c.Press(0, 0)
	if !c.Release() {
		t.Fatal("release after a press should report a flush due")
	}
	if c.Release() {
		t.Fatal("second release should be a no-op")
	}
	if !g.Get(0, 0) {
		t.Fatal("press-and-release leaves the origin toggle standing")
	}
}

func TestEnterOutsideDragIsNoop(t *testing.T) {
	g := New()
	c := NewController(g)

	c.Enter(1, 5)
	if g.OccupiedCount() != 0 {
		t.Fatal("enter without an active drag must not mutate the grid")
	}
}

func TestRebindDropsGesture(t *testing.T) {
	g1 := New()
	c := NewController(g1)
	c.Press(0, 0)

	g2 := New()
	c.Rebind(g2)
	if c.Dragging() {
		t.Fatal("rebind should drop the active gesture")
	}
	c.Enter(0, 5)
	if g2.OccupiedCount() != 0 {
		t.Fatal("stale gesture leaked into the new grid")
	}
}

func TestRepeatedEnterIsIdempotent(t *testing.T) {
	g := New()
	c := NewController(g)

	c.Press(5, 3)
	c.Enter(5, 12)
	snapshot := g.Clone()

	// Re-entering the same cell re-applies the same span.
	c.Enter(5, 12)
	if !g.Equal(snapshot) {
		t.Fatal("re-applying the span changed the grid")
	}
}
