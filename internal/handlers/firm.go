package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aliaport-backend/internal/ctxkeys"
	"aliaport-backend/internal/database"
	"aliaport-backend/internal/models"
)

// FirmHandler handles customer-firm HTTP requests.
type FirmHandler struct {
	db database.Service
}

// NewFirmHandler creates a new FirmHandler with the provided database service.
func NewFirmHandler(db database.Service) *FirmHandler {
	return &FirmHandler{db: db}
}

const firmCols = `f.id, f.name, f.tax_number, f.sgk_registration_number,
	COALESCE(f.sgk_start_date::text, ''), f.contact_email, f.contact_phone,
	f.address, f.is_active, f.created_at::text, f.updated_at::text`

// scanFirm reads all Firm columns from a row/rows scanner.
func scanFirm(scanner interface {
	Scan(dest ...interface{}) error
}, firm *models.Firm) error {
	var sgkStartRaw string
	err := scanner.Scan(
		&firm.ID, &firm.Name, &firm.TaxNumber, &firm.SgkRegistrationNumber,
		&sgkStartRaw, &firm.ContactEmail, &firm.ContactPhone,
		&firm.Address, &firm.IsActive, &firm.CreatedAt, &firm.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if sgkStartRaw != "" {
		firm.SgkStartDate = &sgkStartRaw
	}
	return nil
}

// ── List ───────────────────────────────────────────────────────

// List returns firms visible to the current user, ordered alphabetically,
// with roster counts and the newest uploaded SGK period.
func (h *FirmHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1
	where, args, _ = appendFirmScope(r.Context(), where, args, argIdx, "f.id")

	rows, err := pool.Query(ctx, `
		SELECT `+firmCols+`,
			COUNT(DISTINCT e.id) AS employee_count,
			MAX(sf.period) AS last_uploaded_period
		FROM firms f
		LEFT JOIN employees e ON e.firm_id = f.id AND e.status = 'active'
		LEFT JOIN sgk_filings sf ON sf.firm_id = f.id
		`+where+`
		GROUP BY f.id
		ORDER BY f.name ASC
	`, args...)
	if err != nil {
		log.Printf("Error fetching firms: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch firms")
		return
	}
	defer rows.Close()

	firms := []models.FirmWithCounts{}
	for rows.Next() {
		var f models.FirmWithCounts
		var sgkStartRaw string
		if err := rows.Scan(
			&f.ID, &f.Name, &f.TaxNumber, &f.SgkRegistrationNumber,
			&sgkStartRaw, &f.ContactEmail, &f.ContactPhone,
			&f.Address, &f.IsActive, &f.CreatedAt, &f.UpdatedAt,
			&f.EmployeeCount, &f.LastUploadedPeriod,
		); err != nil {
			log.Printf("Error scanning firm: %v", err)
			continue
		}
		if sgkStartRaw != "" {
			f.SgkStartDate = &sgkStartRaw
		}
		firms = append(firms, f)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": firms,
	})
}

// ── Get by ID ──────────────────────────────────────────────────

// GetByID returns a single firm.
func (h *FirmHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !checkFirmAccess(r.Context(), id) {
		JSONError(w, http.StatusForbidden, "Access denied to this firm")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var firm models.Firm
	row := pool.QueryRow(ctx, `SELECT `+firmCols+` FROM firms f WHERE f.id = $1`, id)
	if err := scanFirm(row, &firm); err != nil {
		JSONError(w, http.StatusNotFound, "Firm not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": firm})
}

// ── Create ─────────────────────────────────────────────────────

// Create adds a new firm.
func (h *FirmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFirmRequest
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var firm models.Firm
	row := pool.QueryRow(ctx, `
		INSERT INTO firms (
			name, tax_number, sgk_registration_number, sgk_start_date,
			contact_email, contact_phone, address
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, tax_number, sgk_registration_number,
			COALESCE(sgk_start_date::text, ''), contact_email, contact_phone,
			address, is_active, created_at::text, updated_at::text
	`, req.Name, req.TaxNumber, req.SgkRegistrationNumber, req.SgkStartDate,
		req.ContactEmail, req.ContactPhone, req.Address,
	)
	if err := scanFirm(row, &firm); err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A firm with this name already exists")
			return
		}
		log.Printf("Error creating firm: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create firm")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "created", "firm", firm.ID, map[string]interface{}{"name": firm.Name})

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    firm,
		"message": "Firm created successfully",
	})
}

// ── Update ─────────────────────────────────────────────────────

// Update modifies a firm's details.
func (h *FirmHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.CreateFirmRequest
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var firm models.Firm
	row := pool.QueryRow(ctx, `
		UPDATE firms SET
			name = $1, tax_number = $2, sgk_registration_number = $3,
			sgk_start_date = $4, contact_email = $5, contact_phone = $6,
			address = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING id, name, tax_number, sgk_registration_number,
			COALESCE(sgk_start_date::text, ''), contact_email, contact_phone,
			address, is_active, created_at::text, updated_at::text
	`, req.Name, req.TaxNumber, req.SgkRegistrationNumber, req.SgkStartDate,
		req.ContactEmail, req.ContactPhone, req.Address, id,
	)
	if err := scanFirm(row, &firm); err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A firm with this name already exists")
			return
		}
		JSONError(w, http.StatusNotFound, "Firm not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "updated", "firm", firm.ID, nil)

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    firm,
		"message": "Firm updated successfully",
	})
}

// ── Delete ─────────────────────────────────────────────────────

// Delete removes a firm and cascades to its employees, vehicles,
// work orders, and SGK filings.
func (h *FirmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	result, err := pool.Exec(ctx, "DELETE FROM firms WHERE id = $1", id)
	if err != nil {
		log.Printf("Error deleting firm: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete firm")
		return
	}

	if result.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Firm not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "deleted", "firm", id, nil)

	JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Firm deleted successfully",
	})
}
