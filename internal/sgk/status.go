package sgk

import (
	"context"
	"fmt"
	"time"
)

// ── Alert Levels ─────────────────────────────────────────────────
// Alert level is a pure function of the missing-period count:
// 0 → none, 1 → warning, 2+ → critical.

// AlertLevel classifies the severity of a firm's filing gap.
type AlertLevel string

const (
	AlertNone     AlertLevel = "none"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// lookbackMonths is how far back required periods are considered when
// the firm's start date is unknown.
const lookbackMonths = 12

// ── Status ───────────────────────────────────────────────────────

// Status is the computed compliance snapshot for one firm. It is
// derived fresh on every call and never stored.
type Status struct {
	RequiredPeriods    []Period   `json:"requiredPeriods"`
	LastUploadedPeriod Period     `json:"lastUploadedPeriod,omitempty"`
	MissingPeriods     []Period   `json:"missingPeriods"`
	HasMissingPeriod   bool       `json:"hasMissingPeriod"`
	NextUploadDeadline time.Time  `json:"nextUploadDeadline"`
	NextPeriodToUpload Period     `json:"nextPeriodToUpload"`
	AlertLevel         AlertLevel `json:"alertLevel"`
	Message            string     `json:"message"`
}

// ── Required-Period Window ───────────────────────────────────────

// RequiredPeriods returns every period whose filing deadline has
// already passed as of now, ascending. Candidates run from 12 months
// before the current period through the current period. A period's
// deadline is the resolved 26th of the FOLLOWING month. Periods before
// the firm's start month are excluded; when firmStart is nil the full
// 12-month lookback applies.
func RequiredPeriods(ctx context.Context, oracle Oracle, now time.Time, firmStart *time.Time) []Period {
	today := dateOnly(now)
	current := PeriodFromTime(now)

	var startBound Period
	if firmStart != nil {
		startBound = PeriodFromTime(*firmStart)
	}

	oldest := current
	for i := 0; i < lookbackMonths; i++ {
		oldest = oldest.Prev()
	}

	required := []Period{}
	for p := oldest; p <= current; p = p.Next() {
		if startBound != "" && p < startBound {
			continue
		}
		// The filing for period P is due on the resolved 26th of P+1.
		due := p.Next()
		deadline := ResolveDeadline(ctx, oracle, due.Year(), due.Month())
		if !today.Before(deadline) {
			required = append(required, p)
		}
	}
	return required
}

// ── Status Assembly ──────────────────────────────────────────────

// ComputeStatus combines the required-period window, the next upcoming
// deadline, and the firm's actual last-uploaded period into a full
// compliance snapshot. lastUploaded is "" when the firm has never
// filed, in which case every required period is missing.
//
// The computation never fails: oracle outages degrade to a holiday-free
// calendar inside the oracle itself, so a usable status always comes back.
func ComputeStatus(ctx context.Context, oracle Oracle, now time.Time, lastUploaded Period, firmStart *time.Time) Status {
	required := RequiredPeriods(ctx, oracle, now, firmStart)
	nextDeadline, nextPeriod := NextDeadline(ctx, oracle, now)

	missing := []Period{}
	for _, p := range required {
		if lastUploaded == "" || p > lastUploaded {
			missing = append(missing, p)
		}
	}

	level := AlertNone
	switch {
	case len(missing) == 1:
		level = AlertWarning
	case len(missing) >= 2:
		level = AlertCritical
	}

	return Status{
		RequiredPeriods:    required,
		LastUploadedPeriod: lastUploaded,
		MissingPeriods:     missing,
		HasMissingPeriod:   len(missing) > 0,
		NextUploadDeadline: nextDeadline,
		NextPeriodToUpload: nextPeriod,
		AlertLevel:         level,
		Message:            statusMessage(missing, nextDeadline, nextPeriod),
	}
}

// statusMessage builds the user-facing Turkish summary line.
func statusMessage(missing []Period, nextDeadline time.Time, nextPeriod Period) string {
	switch len(missing) {
	case 0:
		return fmt.Sprintf(
			"SGK bildirimleri güncel. Sıradaki dönem %s, son tarih %s.",
			nextPeriod.Label(), nextDeadline.Format("02.01.2006"),
		)
	case 1:
		return fmt.Sprintf("%s dönemi SGK bildirimi eksik.", missing[0].Label())
	default:
		return fmt.Sprintf("%d dönem SGK bildirimi eksik. Lütfen en kısa sürede yükleyin.", len(missing))
	}
}
