package scheduler

import (
	"sort"
	"sync"
	"time"
)

/*
Manual is a deterministic Scheduler. Time only moves when Advance is called,
and due callbacks run synchronously on the caller's goroutine in due-time
order. Callbacks registered for the same instant run in registration order.
*/
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	entries []*manualEntry
}

type manualEntry struct {
	seq       uint64
	due       time.Time
	period    time.Duration
	fn        func()
	cancelled bool
	owner     *Manual
}

func NewManual(start time.Time) *Manual {
	return &Manual{
		now:     start,
		entries: []*manualEntry{},
	}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) After(d time.Duration, fn func()) Handle {
	return m.add(d, 0, fn)
}

func (m *Manual) Every(d time.Duration, fn func()) Handle {
	return m.add(d, d, fn)
}

/*
Pending returns the number of live timers and intervals.
*/
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := 0

	for _, e := range m.entries {
		if !e.cancelled {
			result++
		}
	}

	return result
}

/*
Advance moves the clock forward by d, firing everything that comes due on
the way. Interval callbacks fire once per elapsed period.
*/
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)

		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}

		m.now = next.due

		if next.period > 0 {
			next.due = next.due.Add(next.period)
		} else {
			next.cancelled = true
		}

		m.prune()
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) add(d, period time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if period < 0 {
		period = 0
	}

	m.seq++

	e := &manualEntry{
		seq:    m.seq,
		due:    m.now.Add(d),
		period: period,
		fn:     fn,
		owner:  m,
	}

	m.entries = append(m.entries, e)
	return e
}

func (m *Manual) nextDue(target time.Time) *manualEntry {
	candidates := []*manualEntry{}

	for _, e := range m.entries {
		if !e.cancelled && !e.due.After(target) {
			candidates = append(candidates, e)
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].due.Equal(candidates[j].due) {
			return candidates[i].seq < candidates[j].seq
		}

		return candidates[i].due.Before(candidates[j].due)
	})

	return candidates[0]
}

func (m *Manual) prune() {
	live := m.entries[:0]

	for _, e := range m.entries {
		if !e.cancelled {
			live = append(live, e)
		}
	}

	m.entries = live
}

func (e *manualEntry) Cancel() {
	e.owner.mu.Lock()
	defer e.owner.mu.Unlock()

	e.cancelled = true
	e.owner.prune()
}
