package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_AfterFiresOnce(t *testing.T) {
	m := NewManual(epoch)
	calls := 0

	m.After(5*time.Second, func() { calls++ })

	m.Advance(4999 * time.Millisecond)
	assert.Equal(t, 0, calls)

	m.Advance(time.Millisecond)
	assert.Equal(t, 1, calls)

	m.Advance(time.Minute)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_EveryFiresPerPeriod(t *testing.T) {
	m := NewManual(epoch)
	var seen []time.Time

	h := m.Every(time.Second, func() { seen = append(seen, m.Now()) })

	m.Advance(3500 * time.Millisecond)
	require.Len(t, seen, 3)
	assert.Equal(t, epoch.Add(time.Second), seen[0])
	assert.Equal(t, epoch.Add(3*time.Second), seen[2])
	assert.Equal(t, epoch.Add(3500*time.Millisecond), m.Now())

	h.Cancel()
	m.Advance(10 * time.Second)
	assert.Len(t, seen, 3)
}

func TestManual_SameInstantRunsInRegistrationOrder(t *testing.T) {
	m := NewManual(epoch)
	order := []string{}

	m.Every(50*time.Millisecond, func() { order = append(order, "tick") })
	m.After(100*time.Millisecond, func() { order = append(order, "after") })

	m.Advance(100 * time.Millisecond)

	assert.Equal(t, []string{"tick", "tick", "after"}, order)
}

func TestManual_CallbackMayCancelAndReschedule(t *testing.T) {
	m := NewManual(epoch)
	fired := []string{}

	var tick Handle
	tick = m.Every(time.Second, func() { fired = append(fired, "tick") })

	m.After(1500*time.Millisecond, func() {
		fired = append(fired, "switch")
		tick.Cancel()
		m.After(time.Second, func() { fired = append(fired, "later") })
	})

	m.Advance(5 * time.Second)

	assert.Equal(t, []string{"tick", "switch", "later"}, fired)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CancelIsIdempotent(t *testing.T) {
	m := NewManual(epoch)
	h := m.After(time.Second, func() {})

	h.Cancel()
	h.Cancel()

	assert.Equal(t, 0, m.Pending())
}

func TestClockScheduler_AfterUsesClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewClockScheduler(clock)
	var calls atomic.Int32

	s.After(5*time.Second, func() { calls.Add(1) })

	clock.Advance(4 * time.Second)
	assert.Equal(t, int32(0), calls.Load())

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, epoch.Add(5*time.Second), s.Now())
}

func TestClockScheduler_AfterCancelled(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewClockScheduler(clock)
	var calls atomic.Int32

	h := s.After(time.Second, func() { calls.Add(1) })
	h.Cancel()

	clock.Advance(2 * time.Second)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, int32(0), calls.Load())
}

func TestClockScheduler_EveryTicksUntilCancelled(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	s := NewClockScheduler(clock)
	var calls atomic.Int32

	h := s.Every(time.Second, func() { calls.Add(1) })

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	h.Cancel()
	h.Cancel()

	clock.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, int32(2), calls.Load())
}

func TestNewClockScheduler_DefaultsToRealClock(t *testing.T) {
	s := NewClockScheduler(nil)
	assert.WithinDuration(t, time.Now(), s.Now(), time.Second)
}
