package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"aliaport-backend/internal/ctxkeys"
	"aliaport-backend/internal/database"
	"aliaport-backend/internal/models"
	"aliaport-backend/internal/sgk"
)

// SgkHandler serves SGK filing uploads and compliance status. The
// compliance math lives in the sgk package; this handler only feeds it
// the firm's last-uploaded period and start date from the database.
type SgkHandler struct {
	db     database.Service
	oracle sgk.Oracle
	now    func() time.Time
}

// NewSgkHandler creates an SgkHandler using the given holiday oracle.
func NewSgkHandler(db database.Service, oracle sgk.Oracle) *SgkHandler {
	return &SgkHandler{
		db:     db,
		oracle: oracle,
		now:    time.Now,
	}
}

// firmSgkInputs loads the pieces the compliance engine needs for one firm.
func (h *SgkHandler) firmSgkInputs(ctx context.Context, firmID string) (lastUploaded sgk.Period, firmStart *time.Time, err error) {
	pool := h.db.GetPool()

	var sgkStartRaw *string
	var lastRaw *string
	err = pool.QueryRow(ctx, `
		SELECT f.sgk_start_date::text,
			(SELECT MAX(period) FROM sgk_filings WHERE firm_id = f.id)
		FROM firms f WHERE f.id = $1
	`, firmID).Scan(&sgkStartRaw, &lastRaw)
	if err != nil {
		return "", nil, err
	}

	if lastRaw != nil {
		if p, ok := sgk.ParsePeriod(*lastRaw); ok {
			lastUploaded = p
		}
	}
	if sgkStartRaw != nil {
		if t, perr := time.Parse("2006-01-02", *sgkStartRaw); perr == nil {
			firmStart = &t
		}
	}
	return lastUploaded, firmStart, nil
}

// ── Compliance Status ──────────────────────────────────────────

// GetFirmStatus handles GET /api/firms/{id}/sgk-status. The status is
// computed fresh on every request; nothing is cached or stored.
func (h *SgkHandler) GetFirmStatus(w http.ResponseWriter, r *http.Request) {
	firmID := chi.URLParam(r, "id")
	if !checkFirmAccess(r.Context(), firmID) {
		JSONError(w, http.StatusForbidden, "Access denied to this firm")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	lastUploaded, firmStart, err := h.firmSgkInputs(ctx, firmID)
	if err != nil {
		JSONError(w, http.StatusNotFound, "Firm not found")
		return
	}

	status := sgk.ComputeStatus(ctx, h.oracle, h.now(), lastUploaded, firmStart)

	JSON(w, http.StatusOK, map[string]interface{}{"data": status})
}

// ── Filings ────────────────────────────────────────────────────

// ListFilings handles GET /api/firms/{id}/sgk-filings, newest period first.
func (h *SgkHandler) ListFilings(w http.ResponseWriter, r *http.Request) {
	firmID := chi.URLParam(r, "id")
	if !checkFirmAccess(r.Context(), firmID) {
		JSONError(w, http.StatusForbidden, "Access denied to this firm")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT id, firm_id, period, file_url, file_name, file_size, file_type,
			notes, uploaded_by, uploaded_at
		FROM sgk_filings
		WHERE firm_id = $1
		ORDER BY period DESC
	`, firmID)
	if err != nil {
		log.Printf("Error fetching SGK filings: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch filings")
		return
	}
	defer rows.Close()

	filings := []models.SgkFiling{}
	for rows.Next() {
		var f models.SgkFiling
		if err := rows.Scan(
			&f.ID, &f.FirmID, &f.Period, &f.FileURL, &f.FileName,
			&f.FileSize, &f.FileType, &f.Notes, &f.UploadedBy, &f.UploadedAt,
		); err != nil {
			log.Printf("Error scanning SGK filing: %v", err)
			continue
		}
		filings = append(filings, f)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": filings,
	})
}

// CreateFiling handles POST /api/firms/{id}/sgk-filings. The declaration
// file goes through the upload endpoint first; this records its metadata
// against a period. Future periods are rejected, and one firm can only
// hold one filing per period.
func (h *SgkHandler) CreateFiling(w http.ResponseWriter, r *http.Request) {
	firmID := chi.URLParam(r, "id")
	if !checkFirmAccess(r.Context(), firmID) {
		JSONError(w, http.StatusForbidden, "Access denied to this firm")
		return
	}

	var req models.CreateSgkFilingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   "Validation failed",
			"details": errs,
		})
		return
	}

	period, ok := sgk.ParsePeriod(req.Period)
	if !ok {
		JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   "Validation failed",
			"details": map[string]string{"period": "Period must be YYYYMM or YYYY-MM"},
		})
		return
	}
	if period > sgk.PeriodFromTime(h.now()) {
		JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   "Validation failed",
			"details": map[string]string{"period": "Cannot file for a future period"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)

	var f models.SgkFiling
	err := pool.QueryRow(ctx, `
		INSERT INTO sgk_filings (
			firm_id, period, file_url, file_name, file_size, file_type, notes, uploaded_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, firm_id, period, file_url, file_name, file_size, file_type,
			notes, uploaded_by, uploaded_at
	`, firmID, string(period), req.FileURL, req.FileName,
		req.FileSize, req.FileType, req.Notes, nilIfEmptyStr(userID),
	).Scan(
		&f.ID, &f.FirmID, &f.Period, &f.FileURL, &f.FileName,
		&f.FileSize, &f.FileType, &f.Notes, &f.UploadedBy, &f.UploadedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict,
				fmt.Sprintf("A filing for %s already exists for this firm", period.Label()))
			return
		}
		log.Printf("Error creating SGK filing: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to record filing")
		return
	}

	logActivity(pool, userID, "created", "sgk_filing", f.ID, map[string]interface{}{
		"firmId": firmID, "period": f.Period,
	})

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    f,
		"message": fmt.Sprintf("%s dönemi SGK bildirimi kaydedildi.", period.Label()),
	})
}

// DeleteFiling handles DELETE /api/sgk-filings/{id}. Admin only; the
// compliance status self-corrects on the next request.
func (h *SgkHandler) DeleteFiling(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	tag, err := pool.Exec(ctx, "DELETE FROM sgk_filings WHERE id = $1", id)
	if err != nil {
		log.Printf("Error deleting SGK filing %s: %v", id, err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete filing")
		return
	}
	if tag.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Filing not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "deleted", "sgk_filing", id, nil)

	JSON(w, http.StatusOK, map[string]string{
		"message": "Filing deleted successfully",
	})
}

// ── Cross-firm Overview ────────────────────────────────────────

// ComplianceOverview handles GET /api/sgk/compliance: one summary row
// per active firm, worst alert level first. Operator and above only.
func (h *SgkHandler) ComplianceOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT f.id, f.name, f.sgk_start_date::text,
			(SELECT MAX(period) FROM sgk_filings WHERE firm_id = f.id)
		FROM firms f
		WHERE f.is_active = true
		ORDER BY f.name ASC
	`)
	if err != nil {
		log.Printf("Error fetching firms for compliance overview: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to compute compliance overview")
		return
	}
	defer rows.Close()

	type firmRow struct {
		id       string
		name     string
		startRaw *string
		lastRaw  *string
	}
	firms := []firmRow{}
	for rows.Next() {
		var fr firmRow
		if err := rows.Scan(&fr.id, &fr.name, &fr.startRaw, &fr.lastRaw); err != nil {
			log.Printf("Error scanning firm row: %v", err)
			continue
		}
		firms = append(firms, fr)
	}
	rows.Close()

	now := h.now()
	summaries := []models.FirmComplianceSummary{}
	for _, fr := range firms {
		var lastUploaded sgk.Period
		if fr.lastRaw != nil {
			if p, ok := sgk.ParsePeriod(*fr.lastRaw); ok {
				lastUploaded = p
			}
		}
		var firmStart *time.Time
		if fr.startRaw != nil {
			if t, perr := time.Parse("2006-01-02", *fr.startRaw); perr == nil {
				firmStart = &t
			}
		}

		status := sgk.ComputeStatus(ctx, h.oracle, now, lastUploaded, firmStart)

		missing := make([]string, len(status.MissingPeriods))
		for i, p := range status.MissingPeriods {
			missing[i] = string(p)
		}
		summary := models.FirmComplianceSummary{
			FirmID:             fr.id,
			FirmName:           fr.name,
			MissingPeriods:     missing,
			AlertLevel:         string(status.AlertLevel),
			NextUploadDeadline: status.NextUploadDeadline.Format("2006-01-02"),
			NextPeriodToUpload: string(status.NextPeriodToUpload),
			Message:            status.Message,
		}
		if lastUploaded != "" {
			s := string(lastUploaded)
			summary.LastUploadedPeriod = &s
		}
		summaries = append(summaries, summary)
	}

	// Worst first: critical, warning, then compliant firms.
	rank := map[string]int{"critical": 0, "warning": 1, "none": 2}
	sort.SliceStable(summaries, func(i, j int) bool {
		return rank[summaries[i].AlertLevel] < rank[summaries[j].AlertLevel]
	})

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": summaries,
	})
}
