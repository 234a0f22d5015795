package scheduler

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

/*
Scheduler hands out cancellable timers. Components that own timers keep the
returned Handle and release it on teardown or whenever a transition
supersedes it.
*/
type Scheduler interface {
	Now() time.Time
	After(d time.Duration, fn func()) Handle
	Every(d time.Duration, fn func()) Handle
}

type Handle interface {
	Cancel()
}

type ClockScheduler struct {
	clock clockwork.Clock
}

func NewClockScheduler(clock clockwork.Clock) ClockScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return ClockScheduler{
		clock: clock,
	}
}

func (s ClockScheduler) Now() time.Time {
	return s.clock.Now()
}

func (s ClockScheduler) After(d time.Duration, fn func()) Handle {
	return &timerHandle{
		timer: s.clock.AfterFunc(d, fn),
	}
}

func (s ClockScheduler) Every(d time.Duration, fn func()) Handle {
	h := &tickerHandle{
		ticker: s.clock.NewTicker(d),
		done:   make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-h.done:
				return

			case <-h.ticker.Chan():
				/*
				 * A tick and a cancel can race. Prefer the cancel.
				 */
				select {
				case <-h.done:
					return
				default:
				}

				fn()
			}
		}
	}()

	return h
}

type timerHandle struct {
	timer clockwork.Timer
}

func (h *timerHandle) Cancel() {
	h.timer.Stop()
}

type tickerHandle struct {
	ticker clockwork.Ticker
	done   chan struct{}
	once   sync.Once
}

/*
Cancel stops the ticker and signals its goroutine to exit. It does not wait,
so it is safe to call while holding a lock the tick callback also takes.
*/
func (h *tickerHandle) Cancel() {
	h.once.Do(func() {
		close(h.done)
		h.ticker.Stop()
	})
}
