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

// VehicleHandler handles gate-vehicle HTTP requests.
type VehicleHandler struct {
	db database.Service
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(db database.Service) *VehicleHandler {
	return &VehicleHandler{db: db}
}

const vehicleCols = `v.id, v.firm_id, v.plate_number, v.vehicle_type,
	v.driver_name, v.is_active, v.created_at, v.updated_at`

const vehicleRetCols = `id, firm_id, plate_number, vehicle_type,
	driver_name, is_active, created_at, updated_at`

func scanVehicle(scanner interface {
	Scan(dest ...interface{}) error
}, v *models.Vehicle) error {
	return scanner.Scan(
		&v.ID, &v.FirmID, &v.PlateNumber, &v.VehicleType,
		&v.DriverName, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
}

// ── List ───────────────────────────────────────────────────────

// List handles GET /api/vehicles with an optional firmId filter.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if firmID := r.URL.Query().Get("firmId"); firmID != "" {
		if !checkFirmAccess(r.Context(), firmID) {
			JSONError(w, http.StatusForbidden, "Access denied to this firm")
			return
		}
		where += " AND v.firm_id = $1"
		args = append(args, firmID)
		argIdx++
	}
	where, args, _ = appendFirmScope(r.Context(), where, args, argIdx, "v.firm_id")

	rows, err := pool.Query(ctx, `
		SELECT `+vehicleCols+`, f.name AS firm_name
		FROM vehicles v
		JOIN firms f ON v.firm_id = f.id
		`+where+`
		ORDER BY v.plate_number ASC
	`, args...)
	if err != nil {
		log.Printf("Error fetching vehicles: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch vehicles")
		return
	}
	defer rows.Close()

	vehicles := []models.VehicleWithFirm{}
	for rows.Next() {
		var v models.VehicleWithFirm
		if err := rows.Scan(
			&v.ID, &v.FirmID, &v.PlateNumber, &v.VehicleType,
			&v.DriverName, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
			&v.FirmName,
		); err != nil {
			log.Printf("Error scanning vehicle: %v", err)
			continue
		}
		vehicles = append(vehicles, v)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": vehicles,
	})
}

// ── Create ─────────────────────────────────────────────────────

// Create handles POST /api/vehicles
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVehicleRequest
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

	if !checkFirmAccess(r.Context(), req.FirmID) {
		JSONError(w, http.StatusForbidden, "Access denied to this firm")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var v models.Vehicle
	row := pool.QueryRow(ctx, `
		INSERT INTO vehicles (firm_id, plate_number, vehicle_type, driver_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+vehicleRetCols+`
	`, req.FirmID, req.PlateNumber, req.VehicleType, req.DriverName,
	)
	if err := scanVehicle(row, &v); err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A vehicle with this plate number already exists")
			return
		}
		log.Printf("Error creating vehicle: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "created", "vehicle", v.ID, map[string]interface{}{
		"plateNumber": v.PlateNumber, "firmId": v.FirmID,
	})

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    v,
		"message": "Vehicle created successfully",
	})
}

// ── Update ─────────────────────────────────────────────────────

// Update handles PUT /api/vehicles/{id} with a full replacement body.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.CreateVehicleRequest
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

	if !checkFirmAccess(r.Context(), req.FirmID) {
		JSONError(w, http.StatusForbidden, "Access denied to this firm")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var v models.Vehicle
	row := pool.QueryRow(ctx, `
		UPDATE vehicles SET
			firm_id = $1, plate_number = $2, vehicle_type = $3,
			driver_name = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+vehicleRetCols+`
	`, req.FirmID, req.PlateNumber, req.VehicleType, req.DriverName, id,
	)
	if err := scanVehicle(row, &v); err != nil {
		JSONError(w, http.StatusNotFound, "Vehicle not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "updated", "vehicle", v.ID, nil)

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    v,
		"message": "Vehicle updated successfully",
	})
}

// ── Delete ─────────────────────────────────────────────────────

// Delete handles DELETE /api/vehicles/{id}
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	tag, err := pool.Exec(ctx, "DELETE FROM vehicles WHERE id = $1", id)
	if err != nil {
		log.Printf("Error deleting vehicle %s: %v", id, err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	if tag.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Vehicle not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "deleted", "vehicle", id, nil)

	JSON(w, http.StatusOK, map[string]string{
		"message": "Vehicle deleted successfully",
	})
}
