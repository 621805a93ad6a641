package gbn

import "testing"

func TestWindowGrowSchedule(t *testing.T) {
	w := newWindow()
	if w.size != 1 || w.numToSend != 1 {
		t.Fatalf("initial window = %+v, want size=1 numToSend=1", w)
	}
	w.grow()
	if w.size != 2 || w.numToSend != 2 {
		t.Fatalf("after first grow = %+v, want size=2 numToSend=2", w)
	}
	w.grow()
	if w.size != 4 || w.numToSend != 3 {
		t.Fatalf("after second grow = %+v, want size=4 numToSend=3", w)
	}
	w.grow()
	if w.size != 4 || w.numToSend != 4 {
		t.Fatalf("after third grow = %+v, want size=4 numToSend=4", w)
	}
	w.grow()
	if w.size != 4 || w.numToSend != 5 {
		t.Fatalf("window size must stay capped at 4, got %+v", w)
	}
}

func TestWindowCollapse(t *testing.T) {
	w := newWindow()
	w.grow()
	w.grow()
	w.collapse()
	if w.size != 1 || w.numToSend != 1 {
		t.Fatalf("collapse did not reset to size=1 numToSend=1, got %+v", w)
	}
}
