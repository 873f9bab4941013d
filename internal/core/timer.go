package core

import "sort"

// TimerID identifies a scheduled timer so it can be cancelled.
type TimerID uint64

type timer struct {
	id    TimerID
	name  string
	dueAt float64
	fn    func()
}

// TimerQueue is a deferred-action queue owned by a game loop.
// Time only advances through Advance, so timers fire inside the tick that
// crosses their deadline and never from another goroutine. Clear drops every
// pending timer, which is how a reset cancels outstanding work.
type TimerQueue struct {
	now    float64
	nextID TimerID
	timers []timer
}

// NewTimerQueue creates an empty queue at time zero.
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{}
}

// Schedule registers fn to run after delay seconds of simulated time.
func (q *TimerQueue) Schedule(name string, delay float64, fn func()) TimerID {
	q.nextID++
	q.timers = append(q.timers, timer{
		id:    q.nextID,
		name:  name,
		dueAt: q.now + max(delay, 0),
		fn:    fn,
	})
	return q.nextID
}

// Cancel removes a pending timer. Returns false if it already fired or never existed.
func (q *TimerQueue) Cancel(id TimerID) bool {
	for i, t := range q.timers {
		if t.id == id {
			q.timers = append(q.timers[:i], q.timers[i+1:]...)
			return true
		}
	}
	return false
}

// CancelNamed removes every pending timer with the given name.
func (q *TimerQueue) CancelNamed(name string) int {
	kept := q.timers[:0]
	removed := 0
	for _, t := range q.timers {
		if t.name == name {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	q.timers = kept
	return removed
}

// Advance moves the clock forward by dt and runs due timers in deadline
// order. Timers scheduled by a callback run in the same call if already due.
func (q *TimerQueue) Advance(dt float64) int {
	q.now += dt
	fired := 0
	for {
		due := q.popDue()
		if due == nil {
			return fired
		}
		due.fn()
		fired++
	}
}

func (q *TimerQueue) popDue() *timer {
	if len(q.timers) == 0 {
		return nil
	}
	sort.SliceStable(q.timers, func(i, j int) bool {
		return q.timers[i].dueAt < q.timers[j].dueAt
	})
	if q.timers[0].dueAt > q.now {
		return nil
	}
	t := q.timers[0]
	q.timers = q.timers[1:]
	return &t
}

// Clear cancels all pending timers and rewinds the clock.
func (q *TimerQueue) Clear() {
	q.timers = q.timers[:0]
	q.now = 0
}

// Pending returns the number of timers waiting to fire.
func (q *TimerQueue) Pending() int {
	return len(q.timers)
}

// Has reports whether a timer with the given name is pending.
func (q *TimerQueue) Has(name string) bool {
	for _, t := range q.timers {
		if t.name == name {
			return true
		}
	}
	return false
}

// Remaining returns seconds until the named timer fires, or 0 if none is pending.
func (q *TimerQueue) Remaining(name string) float64 {
	for _, t := range q.timers {
		if t.name == name {
			return max(t.dueAt-q.now, 0)
		}
	}
	return 0
}

// Now returns the queue's simulated clock in seconds.
func (q *TimerQueue) Now() float64 {
	return q.now
}
