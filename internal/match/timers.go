package match

import (
	"sync"
	"time"
)

// Purpose names the single timer slot a callback occupies.
type Purpose int

const (
	RoomAdvance Purpose = iota
	Countdown
)

func (p Purpose) String() string {
	switch p {
	case RoomAdvance:
		return "room_advance"
	case Countdown:
		return "countdown"
	}
	return "unknown"
}

type handle interface {
	Stop() bool
}

type scheduler interface {
	after(d float64, fn func()) handle
}

// Timers is a match-scoped registry of pending callbacks, one per purpose.
type Timers struct {
	mu      sync.Mutex
	sched   scheduler
	handles map[Purpose]handle
	closed  bool
}

func newTimers(s scheduler) *Timers {
	return &Timers{sched: s, handles: map[Purpose]handle{}}
}

// After schedules fn in d seconds, replacing any pending timer of the same
// purpose. It is a no-op once the registry is closed.
func (t *Timers) After(p Purpose, d float64, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if h := t.handles[p]; h != nil {
		h.Stop()
	}
	var h handle
	h = t.sched.after(d, func() {
		t.mu.Lock()
		if t.handles[p] == h {
			delete(t.handles, p)
		}
		t.mu.Unlock()
		fn()
	})
	t.handles[p] = h
}

func (t *Timers) Cancel(p Purpose) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h := t.handles[p]; h != nil {
		h.Stop()
		delete(t.handles, p)
	}
}

func (t *Timers) Pending(p Purpose) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handles[p] != nil
}

// Close stops every pending timer. Later After calls are ignored.
func (t *Timers) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for p, h := range t.handles {
		h.Stop()
		delete(t.handles, p)
	}
	t.closed = true
}

// wallScheduler fires on real time and hands the callback to the match
// goroutine through its inbox.
type wallScheduler struct {
	inbox chan<- func()
	done  <-chan struct{}
}

func (w wallScheduler) after(d float64, fn func()) handle {
	return time.AfterFunc(time.Duration(d*float64(time.Second)), func() {
		select {
		case w.inbox <- fn:
		case <-w.done:
		}
	})
}

// simScheduler fires on match time, advanced by Step.
type simScheduler struct {
	now     func() float64
	pending []*simTimer
}

type simTimer struct {
	due     float64
	fn      func()
	stopped bool
}

func (s *simTimer) Stop() bool {
	was := !s.stopped
	s.stopped = true
	return was
}

func (s *simScheduler) after(d float64, fn func()) handle {
	st := &simTimer{due: s.now() + d, fn: fn}
	s.pending = append(s.pending, st)
	return st
}

// fire runs due callbacks in schedule order. Callbacks may schedule more.
func (s *simScheduler) fire(now float64) {
	var due []*simTimer
	keep := s.pending[:0]
	for _, st := range s.pending {
		switch {
		case st.stopped:
		case now >= st.due:
			due = append(due, st)
		default:
			keep = append(keep, st)
		}
	}
	clear(s.pending[len(keep):])
	s.pending = keep
	for _, st := range due {
		if !st.stopped {
			st.stopped = true
			st.fn()
		}
	}
}
