// Package sgk provides pure functions for SGK monthly-filing compliance
// calculations. These functions have ZERO dependencies on HTTP, database, or
// any other infrastructure — the current time and the holiday oracle are
// always injected, making every computation deterministic and testable.
package sgk

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── Period ───────────────────────────────────────────────────────
// A Period identifies one calendar month's filing obligation as a
// 6-digit YYYYMM string ("202511" = November 2025). Because of the
// fixed-width zero padding, plain string comparison orders periods
// the same way numeric comparison would.

// Period is a year+month filing period in YYYYMM form.
type Period string

// PeriodOf builds a Period from a year and month.
func PeriodOf(year int, month time.Month) Period {
	return Period(fmt.Sprintf("%04d%02d", year, int(month)))
}

// PeriodFromTime returns the Period containing the given instant.
func PeriodFromTime(t time.Time) Period {
	return PeriodOf(t.Year(), t.Month())
}

// ParsePeriod accepts "YYYYMM" or "YYYY-MM" and returns the normalized
// Period. ok is false for malformed input.
func ParsePeriod(s string) (Period, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	p := Period(s)
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// Valid reports whether the period is a well-formed YYYYMM value.
func (p Period) Valid() bool {
	if len(p) != 6 {
		return false
	}
	for _, c := range p {
		if c < '0' || c > '9' {
			return false
		}
	}
	m, _ := strconv.Atoi(string(p[4:]))
	return m >= 1 && m <= 12
}

// Year returns the 4-digit year component.
func (p Period) Year() int {
	y, _ := strconv.Atoi(string(p[:4]))
	return y
}

// Month returns the month component.
func (p Period) Month() time.Month {
	m, _ := strconv.Atoi(string(p[4:]))
	return time.Month(m)
}

// Format renders the period as "YYYY-MM". Malformed periods render
// as an empty string rather than an error.
func (p Period) Format() string {
	if !p.Valid() {
		return ""
	}
	return string(p[:4]) + "-" + string(p[4:])
}

// Next returns the following month's period.
func (p Period) Next() Period {
	y, m := p.Year(), p.Month()
	if m == time.December {
		return PeriodOf(y+1, time.January)
	}
	return PeriodOf(y, m+1)
}

// Prev returns the preceding month's period.
func (p Period) Prev() Period {
	y, m := p.Year(), p.Month()
	if m == time.January {
		return PeriodOf(y-1, time.December)
	}
	return PeriodOf(y, m-1)
}

// FirstOfMonth returns midnight UTC on the first day of the period's month.
func (p Period) FirstOfMonth() time.Time {
	return time.Date(p.Year(), p.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ── Turkish month names ──────────────────────────────────────────

var monthNames = map[string]string{
	"01": "Ocak", "02": "Şubat", "03": "Mart", "04": "Nisan",
	"05": "Mayıs", "06": "Haziran", "07": "Temmuz", "08": "Ağustos",
	"09": "Eylül", "10": "Ekim", "11": "Kasım", "12": "Aralık",
}

// MonthName maps a 2-digit month ("01".."12") to its Turkish name.
// Returns an empty string for anything else.
func MonthName(monthDigits string) string {
	return monthNames[monthDigits]
}

// Label renders the period for user-facing messages, e.g. "Ekim 2025".
// Malformed periods render as an empty string.
func (p Period) Label() string {
	if !p.Valid() {
		return ""
	}
	return MonthName(string(p[4:])) + " " + string(p[:4])
}
