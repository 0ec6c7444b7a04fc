package sgk

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference date for the scenarios below: Thursday 2025-11-27, the day
// after October's filing deadline (Wed 2025-11-26) has passed.
var nov27 = time.Date(2025, time.November, 27, 12, 0, 0, 0, time.UTC)

func TestRequiredPeriods_FullLookback(t *testing.T) {
	required := RequiredPeriods(context.Background(), noHolidays(), nov27, nil)

	// 202411 through 202510: October's deadline has passed, November's
	// (Dec 26) has not.
	require.Len(t, required, 12)
	assert.Equal(t, Period("202411"), required[0])
	assert.Equal(t, Period("202510"), required[11])
	assert.NotContains(t, required, Period("202511"))
}

func TestRequiredPeriods_SortedNoDuplicates(t *testing.T) {
	required := RequiredPeriods(context.Background(), noHolidays(), nov27, nil)

	assert.True(t, sort.SliceIsSorted(required, func(i, j int) bool {
		return required[i] < required[j]
	}))
	seen := map[Period]bool{}
	for _, p := range required {
		assert.False(t, seen[p], "duplicate period %s", p)
		seen[p] = true
	}
}

func TestRequiredPeriods_FirmStartBound(t *testing.T) {
	start := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	required := RequiredPeriods(context.Background(), noHolidays(), nov27, &start)

	// Only June through October; nothing before the start month even
	// though it would otherwise be due.
	require.Len(t, required, 5)
	assert.Equal(t, Period("202506"), required[0])
	assert.Equal(t, Period("202510"), required[4])
}

func TestRequiredPeriods_FutureFirmStart(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	required := RequiredPeriods(context.Background(), noHolidays(), nov27, &start)
	assert.Empty(t, required)
}

func TestComputeStatus_NeverFiled(t *testing.T) {
	// Scenario: no upload at all — every required period is missing.
	st := ComputeStatus(context.Background(), noHolidays(), nov27, "", nil)

	assert.Contains(t, st.RequiredPeriods, Period("202510"))
	assert.Equal(t, st.RequiredPeriods, st.MissingPeriods)
	assert.True(t, st.HasMissingPeriod)
	assert.Equal(t, AlertCritical, st.AlertLevel)
}

func TestComputeStatus_UpToDate(t *testing.T) {
	// Scenario: October filed; November's deadline (Dec 26) not yet passed.
	st := ComputeStatus(context.Background(), noHolidays(), nov27, "202510", nil)

	assert.Contains(t, st.RequiredPeriods, Period("202510"))
	assert.Empty(t, st.MissingPeriods)
	assert.False(t, st.HasMissingPeriod)
	assert.Equal(t, AlertNone, st.AlertLevel)
	assert.Equal(t, time.Date(2025, time.December, 26, 0, 0, 0, 0, time.UTC), st.NextUploadDeadline)
	assert.Equal(t, Period("202511"), st.NextPeriodToUpload)
	assert.Contains(t, st.Message, "güncel")
}

func TestComputeStatus_OneMissing(t *testing.T) {
	// Scenario: September filed, October overdue.
	st := ComputeStatus(context.Background(), noHolidays(), nov27, "202509", nil)

	require.Len(t, st.MissingPeriods, 1)
	assert.Equal(t, Period("202510"), st.MissingPeriods[0])
	assert.Equal(t, AlertWarning, st.AlertLevel)
	assert.Contains(t, st.Message, "Ekim 2025")
}

func TestComputeStatus_TwoMissing(t *testing.T) {
	// Scenario: August filed, September and October overdue.
	st := ComputeStatus(context.Background(), noHolidays(), nov27, "202508", nil)

	require.Len(t, st.MissingPeriods, 2)
	assert.Equal(t, Period("202509"), st.MissingPeriods[0])
	assert.Equal(t, Period("202510"), st.MissingPeriods[1])
	assert.Equal(t, AlertCritical, st.AlertLevel)
}

func TestComputeStatus_MissingSubsetOfRequired(t *testing.T) {
	st := ComputeStatus(context.Background(), noHolidays(), nov27, "202503", nil)

	requiredSet := map[Period]bool{}
	for _, p := range st.RequiredPeriods {
		requiredSet[p] = true
	}
	for _, p := range st.MissingPeriods {
		assert.True(t, requiredSet[p], "missing period %s not in required set", p)
		assert.True(t, p > Period("202503"))
	}
}

func TestComputeStatus_AlertLevelMatchesCount(t *testing.T) {
	for _, last := range []Period{"", "202504", "202508", "202509", "202510"} {
		st := ComputeStatus(context.Background(), noHolidays(), nov27, last, nil)
		switch len(st.MissingPeriods) {
		case 0:
			assert.Equal(t, AlertNone, st.AlertLevel)
		case 1:
			assert.Equal(t, AlertWarning, st.AlertLevel)
		default:
			assert.Equal(t, AlertCritical, st.AlertLevel)
		}
		assert.Equal(t, len(st.MissingPeriods) > 0, st.HasMissingPeriod)
	}
}

func TestComputeStatus_DeadlineShiftDelaysRequirement(t *testing.T) {
	// Make Wed 2025-11-26 a holiday and Thu/Fri too: October's deadline
	// rolls to Monday Dec 1, so on Nov 27 October is not yet required.
	oracle := holidaysOn("2025-11-26", "2025-11-27", "2025-11-28")
	st := ComputeStatus(context.Background(), oracle, nov27, "202509", nil)

	assert.NotContains(t, st.RequiredPeriods, Period("202510"))
	assert.Empty(t, st.MissingPeriods)
	assert.Equal(t, AlertNone, st.AlertLevel)
}

func TestComputeStatus_NewFirmNothingRequired(t *testing.T) {
	start := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	st := ComputeStatus(context.Background(), noHolidays(), nov27, "", &start)

	assert.Empty(t, st.RequiredPeriods)
	assert.Empty(t, st.MissingPeriods)
	assert.Equal(t, AlertNone, st.AlertLevel)
	// The lookahead is independent of history: next deadline still resolves.
	assert.Equal(t, Period("202511"), st.NextPeriodToUpload)
}
