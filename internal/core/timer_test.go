package core

import "testing"

func TestTimerQueueFiresInOrder(t *testing.T) {
	q := NewTimerQueue()
	var order []string

	q.Schedule("late", 0.5, func() { order = append(order, "late") })
	q.Schedule("early", 0.2, func() { order = append(order, "early") })

	if fired := q.Advance(0.1); fired != 0 {
		t.Fatalf("nothing should fire at 0.1s, fired %d", fired)
	}
	if fired := q.Advance(0.5); fired != 2 {
		t.Fatalf("expected both timers to fire, fired %d", fired)
	}
	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Errorf("timers fired out of order: %v", order)
	}
	if q.Pending() != 0 {
		t.Errorf("queue should be empty, has %d", q.Pending())
	}
}

func TestTimerQueueCancel(t *testing.T) {
	q := NewTimerQueue()
	fired := false
	id := q.Schedule("serve", 1, func() { fired = true })

	if !q.Cancel(id) {
		t.Fatal("Cancel should report removal of pending timer")
	}
	if q.Cancel(id) {
		t.Error("second Cancel should report nothing removed")
	}
	q.Advance(2)
	if fired {
		t.Error("cancelled timer must not fire")
	}
}

func TestTimerQueueClearCancelsPending(t *testing.T) {
	q := NewTimerQueue()
	fired := 0
	q.Schedule("a", 1, func() { fired++ })
	q.Schedule("b", 2, func() { fired++ })

	q.Clear()
	q.Advance(5)

	if fired != 0 {
		t.Errorf("timers should be dropped on Clear, %d fired", fired)
	}
	if q.Now() != 5 {
		t.Errorf("clock should restart from zero after Clear, now=%v", q.Now())
	}
}

func TestTimerQueueCallbackSchedulesFollowUp(t *testing.T) {
	q := NewTimerQueue()
	count := 0
	q.Schedule("first", 0.1, func() {
		count++
		q.Schedule("second", 0, func() { count++ })
	})

	q.Advance(0.2)
	if count != 2 {
		t.Errorf("zero-delay follow-up should run in the same Advance, count=%d", count)
	}
}

func TestTimerQueueNamedQueries(t *testing.T) {
	q := NewTimerQueue()
	q.Schedule("serve", 1.5, func() {})
	q.Schedule("serve", 3, func() {})
	q.Schedule("other", 1, func() {})

	if !q.Has("serve") {
		t.Error("Has(serve) should be true")
	}
	if got := q.Remaining("other"); got != 1 {
		t.Errorf("Remaining(other) = %v, expected 1", got)
	}
	if n := q.CancelNamed("serve"); n != 2 {
		t.Errorf("CancelNamed removed %d, expected 2", n)
	}
	if q.Has("serve") || q.Pending() != 1 {
		t.Errorf("only the other timer should remain, pending=%d", q.Pending())
	}
	if q.Remaining("serve") != 0 {
		t.Error("Remaining for missing timer should be 0")
	}
}
