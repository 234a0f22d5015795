package counter

import (
	"testing"
	"time"

	"github.com/adampresley/couplestory/pkg/scheduler"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC)
	if err != nil {
		panic(err)
	}

	return t
}

func TestElapsed(t *testing.T) {
	tests := []struct {
		name  string
		start string
		now   string
		want  Breakdown
	}{
		{
			name:  "adjacent seconds across a month boundary",
			start: "2023-01-31T23:59:59",
			now:   "2023-02-01T00:00:00",
			want:  Breakdown{Seconds: 1},
		},
		{
			name:  "hour and day borrow from a leap february",
			start: "2024-01-15T10:00:00",
			now:   "2024-03-10T09:00:00",
			want:  Breakdown{Months: 1, Days: 23, Hours: 23},
		},
		{
			name:  "no borrowing",
			start: "2020-03-01T08:15:30",
			now:   "2024-05-04T10:20:40",
			want:  Breakdown{Years: 4, Months: 2, Days: 3, Hours: 2, Minutes: 5, Seconds: 10},
		},
		{
			name:  "month borrow into the previous year",
			start: "2022-11-20T00:00:00",
			now:   "2023-02-25T00:00:00",
			want:  Breakdown{Months: 3, Days: 5},
		},
		{
			name:  "same instant",
			start: "2024-06-01T12:00:00",
			now:   "2024-06-01T12:00:00",
			want:  Breakdown{},
		},
		{
			name:  "exact anniversary",
			start: "2019-07-14T19:30:00",
			now:   "2024-07-14T19:30:00",
			want:  Breakdown{Years: 5},
		},
		{
			name:  "january borrows from december",
			start: "2023-12-20T00:00:00",
			now:   "2024-01-05T00:00:00",
			want:  Breakdown{Days: 16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Elapsed(at(tt.start), at(tt.now))

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Elapsed() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestElapsed_ComponentsStayInRange(t *testing.T) {
	start := at("2021-01-15T22:47:13")
	now := start

	for i := 0; i < 2000; i++ {
		now = now.Add(7*time.Hour + 13*time.Minute + 17*time.Second)
		got := Elapsed(start, now)

		require.GreaterOrEqual(t, got.Years, 0, "now=%s", now)
		require.GreaterOrEqual(t, got.Months, 0, "now=%s", now)
		require.Less(t, got.Months, 12, "now=%s", now)
		require.GreaterOrEqual(t, got.Days, 0, "now=%s", now)
		require.Less(t, got.Days, 31, "now=%s", now)
		require.GreaterOrEqual(t, got.Hours, 0, "now=%s", now)
		require.Less(t, got.Hours, 24, "now=%s", now)
		require.GreaterOrEqual(t, got.Minutes, 0, "now=%s", now)
		require.Less(t, got.Minutes, 60, "now=%s", now)
		require.GreaterOrEqual(t, got.Seconds, 0, "now=%s", now)
		require.Less(t, got.Seconds, 60, "now=%s", now)
	}
}

func TestElapsed_DayBorrowUsesMonthBeforeNow(t *testing.T) {
	/*
	 * Jan 31 -> Mar 1 borrows February's 28 days, which is not enough to
	 * cover a 30 day deficit. The result keeps the negative day count.
	 */
	got := Elapsed(at("2023-01-31T00:00:00"), at("2023-03-01T00:00:00"))
	assert.Equal(t, Breakdown{Months: 1, Days: -2}, got)

	got = Elapsed(at("2023-01-31T00:00:00"), at("2023-04-01T00:00:00"))
	assert.Equal(t, Breakdown{Months: 2, Days: 1}, got)
}

func TestElapsed_ConvertsStartIntoNowLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	start := time.Date(2024, 1, 1, 21, 0, 0, 0, saoPaulo)
	now := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, Breakdown{Hours: 3}, Elapsed(start, now))
}

func TestDaysInPreviousMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInPreviousMonth(at("2024-01-10T00:00:00")))
	assert.Equal(t, 29, DaysInPreviousMonth(at("2024-03-10T00:00:00")))
	assert.Equal(t, 28, DaysInPreviousMonth(at("2023-03-31T00:00:00")))
	assert.Equal(t, 30, DaysInPreviousMonth(at("2023-12-01T00:00:00")))
}

func TestParseStartDate(t *testing.T) {
	t.Run("empty means not configured", func(t *testing.T) {
		got, err := ParseStartDate("  ", time.UTC)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("datetime-local", func(t *testing.T) {
		got, err := ParseStartDate("2024-01-15T10:00", time.UTC)
		require.NoError(t, err)
		assert.Equal(t, at("2024-01-15T10:00:00"), *got)
	})

	t.Run("rfc3339 keeps its zone", func(t *testing.T) {
		got, err := ParseStartDate("2024-01-15T10:00:00-03:00", time.UTC)
		require.NoError(t, err)
		assert.True(t, at("2024-01-15T13:00:00").Equal(*got))
	})

	t.Run("date only", func(t *testing.T) {
		got, err := ParseStartDate("2020-02-29", time.UTC)
		require.NoError(t, err)
		assert.Equal(t, at("2020-02-29T00:00:00"), *got)
	})

	t.Run("garbage", func(t *testing.T) {
		got, err := ParseStartDate("last summer", time.UTC)
		assert.ErrorIs(t, err, ErrInvalidStartDate)
		assert.Nil(t, got)
	})
}

func TestCounter_NoStartDateIsIdempotent(t *testing.T) {
	sched := scheduler.NewManual(at("2024-01-01T00:00:00"))
	views := []View{}

	c := New(Config{
		Scheduler: sched,
		OnTick:    func(v View) { views = append(views, v) },
	})

	c.Mount()
	assert.Equal(t, 0, sched.Pending())

	for i := 0; i < 5; i++ {
		v := c.View()
		assert.False(t, v.Configured)
		assert.Equal(t, NotConfigured, v.Prompt)
	}

	sched.Advance(10 * time.Second)
	require.Len(t, views, 1)
	assert.Equal(t, Compute(nil, "", sched.Now()), views[0])

	c.Unmount()
	c.Unmount()
}

func TestCounter_TicksEverySecond(t *testing.T) {
	sched := scheduler.NewManual(at("2024-03-10T08:59:58"))
	start := at("2024-01-15T10:00:00")
	views := []View{}

	c := New(Config{
		Scheduler:    sched,
		Start:        &start,
		CustomPhrase: "where it all began",
		OnTick:       func(v View) { views = append(views, v) },
	})

	c.Mount()
	require.Len(t, views, 1)
	assert.Equal(t, Breakdown{Months: 1, Days: 23, Hours: 22, Minutes: 59, Seconds: 58}, views[0].Breakdown)

	sched.Advance(2 * time.Second)
	require.Len(t, views, 3)
	assert.Equal(t, Breakdown{Months: 1, Days: 23, Hours: 23}, views[2].Breakdown)
	assert.Equal(t, "where it all began", views[2].CustomPhrase)
	assert.Equal(t, views[2], c.View())

	c.Unmount()
	assert.Equal(t, 0, sched.Pending())

	sched.Advance(5 * time.Second)
	assert.Len(t, views, 3)
}

func TestCounter_SetStartRestarts(t *testing.T) {
	sched := scheduler.NewManual(at("2024-01-01T00:00:00"))
	c := New(Config{Scheduler: sched})

	c.Mount()
	assert.Equal(t, 0, sched.Pending())

	start := at("2023-12-31T23:00:00")
	c.SetStart(&start)
	assert.Equal(t, 1, sched.Pending())
	assert.Equal(t, Breakdown{Hours: 1}, c.View().Breakdown)

	c.SetStart(&start)
	assert.Equal(t, 1, sched.Pending())

	c.SetStart(nil)
	assert.Equal(t, 0, sched.Pending())
	assert.False(t, c.View().Configured)

	c.Unmount()
}

func TestCounter_SetStartWhileUnmountedDoesNotSchedule(t *testing.T) {
	sched := scheduler.NewManual(at("2024-01-01T00:00:00"))
	c := New(Config{Scheduler: sched})

	start := at("2023-01-01T00:00:00")
	c.SetStart(&start)

	assert.Equal(t, 0, sched.Pending())
	assert.True(t, c.View().Configured)
}

func TestView_Lines(t *testing.T) {
	v := View{Configured: true, Breakdown: Breakdown{Years: 1, Months: 2, Days: 3, Hours: 4, Minutes: 5, Seconds: 6}}

	assert.Equal(t, "1 year, 2 months, 3 days", v.DateLine())
	assert.Equal(t, "4 hours, 5 minutes and 06 seconds", v.TimeLine())

	v.Breakdown.Years = 2
	v.Breakdown.Months = 1
	assert.Equal(t, "2 years, 1 month, 3 days", v.DateLine())
}

func TestCounter_DefaultsToRealClock(t *testing.T) {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(Config{Start: &start})

	require.NotPanics(t, c.Mount)

	view := c.View()
	assert.True(t, view.Configured)
	assert.Greater(t, view.Breakdown.Years, 20)

	c.Unmount()
}
