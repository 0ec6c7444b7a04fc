package sgk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeOracle is a deterministic Oracle backed by a set of YYYY-MM-DD dates.
type fakeOracle struct {
	holidays map[string]bool
}

func (f *fakeOracle) IsPublicHoliday(_ context.Context, date time.Time) bool {
	return f.holidays[date.Format("2006-01-02")]
}

func noHolidays() *fakeOracle {
	return &fakeOracle{holidays: map[string]bool{}}
}

func holidaysOn(dates ...string) *fakeOracle {
	m := make(map[string]bool, len(dates))
	for _, d := range dates {
		m[d] = true
	}
	return &fakeOracle{holidays: m}
}

// everyDayHoliday exercises the bounded search horizon.
type everyDayHoliday struct{}

func (everyDayHoliday) IsPublicHoliday(context.Context, time.Time) bool { return true }

func TestResolveDeadline_PlainWeekday(t *testing.T) {
	// 2025-11-26 is a Wednesday.
	d := ResolveDeadline(context.Background(), noHolidays(), 2025, time.November)
	assert.Equal(t, time.Date(2025, time.November, 26, 0, 0, 0, 0, time.UTC), d)
}

func TestResolveDeadline_WeekendShift(t *testing.T) {
	// 2025-07-26 is a Saturday: shift to Monday the 28th.
	d := ResolveDeadline(context.Background(), noHolidays(), 2025, time.July)
	assert.Equal(t, time.Date(2025, time.July, 28, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, time.Monday, d.Weekday())
}

func TestResolveDeadline_HolidayShift(t *testing.T) {
	// 2025-05-26 is a Monday. Mark it as a holiday: shift to Tuesday.
	oracle := holidaysOn("2025-05-26")
	d := ResolveDeadline(context.Background(), oracle, 2025, time.May)
	assert.Equal(t, time.Date(2025, time.May, 27, 0, 0, 0, 0, time.UTC), d)
}

func TestResolveDeadline_WeekendThenHoliday(t *testing.T) {
	// Saturday 26th, and the following Monday is also a holiday:
	// lands on Tuesday the 29th.
	oracle := holidaysOn("2025-07-28")
	d := ResolveDeadline(context.Background(), oracle, 2025, time.July)
	assert.Equal(t, time.Date(2025, time.July, 29, 0, 0, 0, 0, time.UTC), d)
}

func TestResolveDeadline_HorizonFallback(t *testing.T) {
	// No working day within the horizon: fall back to the nominal 26th.
	d := ResolveDeadline(context.Background(), everyDayHoliday{}, 2025, time.November)
	assert.Equal(t, time.Date(2025, time.November, 26, 0, 0, 0, 0, time.UTC), d)
}

func TestResolveDeadline_Monotonic(t *testing.T) {
	// Consecutive months always resolve to strictly increasing deadlines.
	oracle := noHolidays()
	prev := ResolveDeadline(context.Background(), oracle, 2025, time.January)
	for m := time.February; m <= time.December; m++ {
		cur := ResolveDeadline(context.Background(), oracle, 2025, m)
		assert.True(t, cur.After(prev), "deadline for %v must be after %v", m, prev)
		prev = cur
	}
}

func TestNextDeadline_BeforeThisMonths(t *testing.T) {
	// 2025-11-20: this month's 26th is still ahead and covers October.
	now := time.Date(2025, time.November, 20, 10, 0, 0, 0, time.UTC)
	deadline, period := NextDeadline(context.Background(), noHolidays(), now)
	assert.Equal(t, time.Date(2025, time.November, 26, 0, 0, 0, 0, time.UTC), deadline)
	assert.Equal(t, Period("202510"), period)
}

func TestNextDeadline_OnTheDeadline(t *testing.T) {
	// On the deadline day itself, the next deadline is already next month's.
	now := time.Date(2025, time.November, 26, 9, 0, 0, 0, time.UTC)
	deadline, period := NextDeadline(context.Background(), noHolidays(), now)
	assert.Equal(t, time.Date(2025, time.December, 26, 0, 0, 0, 0, time.UTC), deadline)
	assert.Equal(t, Period("202511"), period)
}

func TestNextDeadline_AfterThisMonths(t *testing.T) {
	now := time.Date(2025, time.November, 27, 0, 0, 0, 0, time.UTC)
	deadline, period := NextDeadline(context.Background(), noHolidays(), now)
	assert.Equal(t, time.Date(2025, time.December, 26, 0, 0, 0, 0, time.UTC), deadline)
	assert.Equal(t, Period("202511"), period)
}

func TestNextDeadline_YearBoundary(t *testing.T) {
	// Late December: next deadline falls in January of the next year.
	now := time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC)
	deadline, period := NextDeadline(context.Background(), noHolidays(), now)
	assert.Equal(t, 2026, deadline.Year())
	assert.Equal(t, time.January, deadline.Month())
	assert.Equal(t, Period("202512"), period)
}
