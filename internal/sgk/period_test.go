package sgk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, Period("202511"), PeriodOf(2025, time.November))
	assert.Equal(t, Period("202501"), PeriodOf(2025, time.January))
}

func TestPeriodFromTime(t *testing.T) {
	assert.Equal(t, Period("202510"), PeriodFromTime(time.Date(2025, time.October, 31, 23, 59, 0, 0, time.UTC)))
}

func TestParsePeriod(t *testing.T) {
	p, ok := ParsePeriod("202511")
	assert.True(t, ok)
	assert.Equal(t, Period("202511"), p)

	p, ok = ParsePeriod("2025-11")
	assert.True(t, ok)
	assert.Equal(t, Period("202511"), p)

	for _, bad := range []string{"", "2025", "20251", "2025111", "2025ab", "202500", "202513"} {
		_, ok := ParsePeriod(bad)
		assert.False(t, ok, "should reject %q", bad)
	}
}

func TestPeriodValid(t *testing.T) {
	assert.True(t, Period("202501").Valid())
	assert.True(t, Period("202512").Valid())
	assert.False(t, Period("202513").Valid())
	assert.False(t, Period("202500").Valid())
	assert.False(t, Period("2025-1").Valid())
	assert.False(t, Period("").Valid())
}

func TestPeriodFormat(t *testing.T) {
	assert.Equal(t, "2025-11", Period("202511").Format())
	assert.Equal(t, "", Period("garbage").Format())
}

// Round-trip: Format → ParsePeriod → Format is stable for valid periods.
func TestPeriodFormatRoundTrip(t *testing.T) {
	for _, p := range []Period{"202501", "202512", "199907", "203006"} {
		parsed, ok := ParsePeriod(p.Format())
		assert.True(t, ok)
		assert.Equal(t, p.Format(), parsed.Format())
	}
}

func TestPeriodNextPrev(t *testing.T) {
	assert.Equal(t, Period("202512"), Period("202511").Next())
	assert.Equal(t, Period("202601"), Period("202512").Next())
	assert.Equal(t, Period("202510"), Period("202511").Prev())
	assert.Equal(t, Period("202412"), Period("202501").Prev())
}

func TestPeriodOrdering(t *testing.T) {
	// String comparison must agree with chronological order.
	assert.True(t, Period("202509") < Period("202510"))
	assert.True(t, Period("202512") < Period("202601"))
	assert.True(t, Period("199912") < Period("200001"))
}

func TestPeriodFirstOfMonth(t *testing.T) {
	assert.Equal(t, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), Period("202511").FirstOfMonth())
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Ocak", MonthName("01"))
	assert.Equal(t, "Ekim", MonthName("10"))
	assert.Equal(t, "Aralık", MonthName("12"))
	assert.Equal(t, "", MonthName("13"))
	assert.Equal(t, "", MonthName("1"))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Ekim 2025", Period("202510").Label())
	assert.Equal(t, "", Period("abc").Label())
}
