package sgk

import (
	"context"
	"time"
)

// ── Deadline Resolution ──────────────────────────────────────────
// SGK monthly declarations are due on the 26th of the month following
// the declared period. When the 26th falls on a weekend or a public
// holiday, the due date rolls forward to the next working day.

// Oracle answers whether a calendar date is a nationwide public holiday.
// Implementations must fail open: when the holiday calendar cannot be
// determined, report false rather than an error.
type Oracle interface {
	IsPublicHoliday(ctx context.Context, date time.Time) bool
}

const (
	// DeadlineDay is the nominal due day of the month for SGK filings.
	DeadlineDay = 26

	// shiftHorizonDays bounds the forward scan past the nominal due
	// date. No real calendar has 10 consecutive non-working days, so
	// hitting the bound means the oracle is misbehaving; we fall back
	// to the unshifted nominal date instead of failing.
	shiftHorizonDays = 10
)

// ResolveDeadline returns the effective filing deadline anchored on the
// 26th of the given month, shifted forward over weekends and public
// holidays.
func ResolveDeadline(ctx context.Context, oracle Oracle, year int, month time.Month) time.Time {
	nominal := time.Date(year, month, DeadlineDay, 0, 0, 0, 0, time.UTC)

	d := nominal
	for i := 0; i < shiftHorizonDays; i++ {
		if isWorkingDay(ctx, oracle, d) {
			return d
		}
		d = d.AddDate(0, 0, 1)
	}
	return nominal
}

// NextDeadline returns the next upcoming filing deadline as of now, and
// the period that deadline covers. Independent of upload history: if
// this month's resolved 26th is still ahead it covers the previous
// calendar month, otherwise next month's resolved 26th covers the
// current one.
func NextDeadline(ctx context.Context, oracle Oracle, now time.Time) (time.Time, Period) {
	today := dateOnly(now)
	current := PeriodFromTime(now)

	thisMonth := ResolveDeadline(ctx, oracle, now.Year(), now.Month())
	if today.Before(thisMonth) {
		return thisMonth, current.Prev()
	}

	next := current.Next()
	return ResolveDeadline(ctx, oracle, next.Year(), next.Month()), current
}

// isWorkingDay reports whether d is neither a weekend nor a public holiday.
func isWorkingDay(ctx context.Context, oracle Oracle, d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !oracle.IsPublicHoliday(ctx, d)
}

// dateOnly strips the time component, normalizing to midnight UTC so
// dates compare cleanly against resolved deadlines.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
