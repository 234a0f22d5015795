package counter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStartDate = errors.New("invalid relationship start date")
)

var startDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

/*
Breakdown is elapsed time split into calendar units.
*/
type Breakdown struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

/*
Elapsed computes the calendar breakdown between start and now. Differences
are taken per component and then normalised from seconds upward. A negative
day count borrows the length of the month before now's month, not the month
actually being crossed, so some month-length combinations are off by a day
or two compared to exact calendar arithmetic.
*/
func Elapsed(start, now time.Time) Breakdown {
	start = start.In(now.Location())

	years := now.Year() - start.Year()
	months := int(now.Month()) - int(start.Month())
	days := now.Day() - start.Day()
	hours := now.Hour() - start.Hour()
	minutes := now.Minute() - start.Minute()
	seconds := now.Second() - start.Second()

	if seconds < 0 {
		seconds += 60
		minutes--
	}

	if minutes < 0 {
		minutes += 60
		hours--
	}

	if hours < 0 {
		hours += 24
		days--
	}

	if days < 0 {
		days += DaysInPreviousMonth(now)
		months--
	}

	if months < 0 {
		months += 12
		years--
	}

	return Breakdown{
		Years:   years,
		Months:  months,
		Days:    days,
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
	}
}

/*
DaysInPreviousMonth returns the number of days in the month before t's month.
Day zero of a month normalises to the last day of the previous one.
*/
func DaysInPreviousMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 0, 0, 0, 0, 0, t.Location()).Day()
}

/*
ParseStartDate reads the relationship start as stored by the dashboard. An
empty value means no start date has been configured and returns nil with no
error. Values without a zone are read in loc.
*/
func ParseStartDate(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)

	if value == "" {
		return nil, nil
	}

	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &t, nil
	}

	for _, layout := range startDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidStartDate, value)
}

func (b Breakdown) IsZero() bool {
	return b == Breakdown{}
}
