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

// VesselHandler handles vessel registry HTTP requests.
type VesselHandler struct {
	db database.Service
}

// NewVesselHandler creates a new VesselHandler.
func NewVesselHandler(db database.Service) *VesselHandler {
	return &VesselHandler{db: db}
}

const vesselCols = `v.id, v.name, v.imo_number, v.flag, v.vessel_type,
	v.gross_tonnage, v.length_overall, v.agent_firm_id, v.notes,
	v.created_at, v.updated_at`

const vesselRetCols = `id, name, imo_number, flag, vessel_type,
	gross_tonnage, length_overall, agent_firm_id, notes,
	created_at, updated_at`

func scanVessel(scanner interface {
	Scan(dest ...interface{}) error
}, v *models.Vessel) error {
	return scanner.Scan(
		&v.ID, &v.Name, &v.IMONumber, &v.Flag, &v.VesselType,
		&v.GrossTonnage, &v.LengthOverall, &v.AgentFirmID, &v.Notes,
		&v.CreatedAt, &v.UpdatedAt,
	)
}

// ── List ───────────────────────────────────────────────────────

// List handles GET /api/vessels with an optional type filter.
// The vessel registry is port-wide; customer users see it read-only.
func (h *VesselHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	where := "WHERE 1=1"
	args := []interface{}{}
	if vt := r.URL.Query().Get("type"); vt != "" {
		where += " AND v.vessel_type = $1"
		args = append(args, vt)
	}

	rows, err := pool.Query(ctx, `
		SELECT `+vesselCols+`, f.name AS agent_firm_name
		FROM vessels v
		LEFT JOIN firms f ON v.agent_firm_id = f.id
		`+where+`
		ORDER BY v.name ASC
	`, args...)
	if err != nil {
		log.Printf("Error fetching vessels: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch vessels")
		return
	}
	defer rows.Close()

	vessels := []models.VesselWithAgent{}
	for rows.Next() {
		var v models.VesselWithAgent
		if err := rows.Scan(
			&v.ID, &v.Name, &v.IMONumber, &v.Flag, &v.VesselType,
			&v.GrossTonnage, &v.LengthOverall, &v.AgentFirmID, &v.Notes,
			&v.CreatedAt, &v.UpdatedAt,
			&v.AgentFirmName,
		); err != nil {
			log.Printf("Error scanning vessel: %v", err)
			continue
		}
		vessels = append(vessels, v)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": vessels,
	})
}

// ── Get by ID ──────────────────────────────────────────────────

// GetByID handles GET /api/vessels/{id}
func (h *VesselHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var v models.Vessel
	row := pool.QueryRow(ctx, `SELECT `+vesselCols+` FROM vessels v WHERE v.id = $1`, id)
	if err := scanVessel(row, &v); err != nil {
		JSONError(w, http.StatusNotFound, "Vessel not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": v})
}

// ── Create ─────────────────────────────────────────────────────

// Create handles POST /api/vessels
func (h *VesselHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVesselRequest
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

	var v models.Vessel
	row := pool.QueryRow(ctx, `
		INSERT INTO vessels (
			name, imo_number, flag, vessel_type,
			gross_tonnage, length_overall, agent_firm_id, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+vesselRetCols+`
	`, req.Name, req.IMONumber, req.Flag, req.VesselType,
		req.GrossTonnage, req.LengthOverall, req.AgentFirmID, req.Notes,
	)
	if err := scanVessel(row, &v); err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A vessel with this IMO number already exists")
			return
		}
		log.Printf("Error creating vessel: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create vessel")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "created", "vessel", v.ID, map[string]interface{}{"name": v.Name})

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    v,
		"message": "Vessel created successfully",
	})
}

// ── Update ─────────────────────────────────────────────────────

// Update handles PUT /api/vessels/{id} with a full replacement body.
func (h *VesselHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.CreateVesselRequest
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

	var v models.Vessel
	row := pool.QueryRow(ctx, `
		UPDATE vessels SET
			name = $1, imo_number = $2, flag = $3, vessel_type = $4,
			gross_tonnage = $5, length_overall = $6, agent_firm_id = $7,
			notes = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING `+vesselRetCols+`
	`, req.Name, req.IMONumber, req.Flag, req.VesselType,
		req.GrossTonnage, req.LengthOverall, req.AgentFirmID, req.Notes, id,
	)
	if err := scanVessel(row, &v); err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A vessel with this IMO number already exists")
			return
		}
		JSONError(w, http.StatusNotFound, "Vessel not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "updated", "vessel", v.ID, nil)

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    v,
		"message": "Vessel updated successfully",
	})
}

// ── Delete ─────────────────────────────────────────────────────

// Delete handles DELETE /api/vessels/{id}
func (h *VesselHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	tag, err := pool.Exec(ctx, "DELETE FROM vessels WHERE id = $1", id)
	if err != nil {
		log.Printf("Error deleting vessel %s: %v", id, err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete vessel")
		return
	}

	if tag.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Vessel not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "deleted", "vessel", id, nil)

	JSON(w, http.StatusOK, map[string]string{
		"message": "Vessel deleted successfully",
	})
}
