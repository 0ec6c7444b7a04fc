package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"aliaport-backend/internal/database"
	"aliaport-backend/internal/models"
	"aliaport-backend/internal/sgk"
)

// DashboardHandler serves the operations dashboard metrics.
type DashboardHandler struct {
	db     database.Service
	oracle sgk.Oracle
	now    func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(db database.Service, oracle sgk.Oracle) *DashboardHandler {
	return &DashboardHandler{
		db:     db,
		oracle: oracle,
		now:    time.Now,
	}
}

// GetMetrics handles GET /api/dashboard/metrics. The FirmsWithGaps
// count runs the compliance engine over every active firm, so the
// number always matches what the per-firm status endpoint reports.
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var m models.DashboardMetrics

	err := pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM firms WHERE is_active = true),
			(SELECT COUNT(*) FROM employees WHERE status = 'active'),
			(SELECT COUNT(*) FROM vessels),
			(SELECT COUNT(*) FROM work_orders WHERE status IN ('draft', 'approved')),
			(SELECT COUNT(*) FROM sgk_filings
				WHERE uploaded_at >= date_trunc('month', NOW()))
	`).Scan(
		&m.TotalFirms, &m.TotalEmployees, &m.TotalVessels,
		&m.OpenWorkOrders, &m.FilingsThisMonth,
	)
	if err != nil {
		log.Printf("Error fetching dashboard counts: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch dashboard metrics")
		return
	}

	rows, err := pool.Query(ctx, `
		SELECT f.sgk_start_date::text,
			(SELECT MAX(period) FROM sgk_filings WHERE firm_id = f.id)
		FROM firms f
		WHERE f.is_active = true
	`)
	if err != nil {
		log.Printf("Error fetching firms for gap count: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch dashboard metrics")
		return
	}
	defer rows.Close()

	now := h.now()
	for rows.Next() {
		var startRaw, lastRaw *string
		if err := rows.Scan(&startRaw, &lastRaw); err != nil {
			continue
		}

		var lastUploaded sgk.Period
		if lastRaw != nil {
			if p, ok := sgk.ParsePeriod(*lastRaw); ok {
				lastUploaded = p
			}
		}
		var firmStart *time.Time
		if startRaw != nil {
			if t, perr := time.Parse("2006-01-02", *startRaw); perr == nil {
				firmStart = &t
			}
		}

		status := sgk.ComputeStatus(ctx, h.oracle, now, lastUploaded, firmStart)
		if status.HasMissingPeriod {
			m.FirmsWithGaps++
		}
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": m})
}
