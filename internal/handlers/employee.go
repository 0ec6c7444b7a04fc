package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aliaport-backend/internal/ctxkeys"
	"aliaport-backend/internal/database"
	"aliaport-backend/internal/models"
)

// EmployeeHandler handles firm-roster HTTP requests.
type EmployeeHandler struct {
	db database.Service
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(db database.Service) *EmployeeHandler {
	return &EmployeeHandler{db: db}
}

// ── Columns ────────────────────────────────────────────────────
// Central column lists keep Create/GetByID/List all in sync.
// Aliased version (for SELECT with FROM clause):
const employeeCols = `e.id, e.firm_id, e.name, e.national_id, e.position,
	e.mobile, e.start_date::text, e.end_date::text,
	e.status, e.badge_number, e.has_gate_access,
	e.created_at, e.updated_at`

// Unaliased version (for INSERT/UPDATE RETURNING):
const employeeRetCols = `id, firm_id, name, national_id, position,
	mobile, start_date::text, end_date::text,
	status, badge_number, has_gate_access,
	created_at, updated_at`

// scanEmployee reads all Employee columns from a row/rows scanner.
func scanEmployee(scanner interface {
	Scan(dest ...interface{}) error
}, emp *models.Employee) error {
	return scanner.Scan(
		&emp.ID, &emp.FirmID, &emp.Name, &emp.NationalID, &emp.Position,
		&emp.Mobile, &emp.StartDate, &emp.EndDate,
		&emp.Status, &emp.BadgeNumber, &emp.HasGateAccess,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
}

// ── List ───────────────────────────────────────────────────────

// List handles GET /api/employees with optional firmId and status filters.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
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
		where += fmt.Sprintf(" AND e.firm_id = $%d", argIdx)
		args = append(args, firmID)
		argIdx++
	}
	if status := r.URL.Query().Get("status"); status != "" {
		where += fmt.Sprintf(" AND e.status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}
	where, args, _ = appendFirmScope(r.Context(), where, args, argIdx, "e.firm_id")

	rows, err := pool.Query(ctx, `
		SELECT `+employeeCols+`, f.name AS firm_name
		FROM employees e
		JOIN firms f ON e.firm_id = f.id
		`+where+`
		ORDER BY e.name ASC
	`, args...)
	if err != nil {
		log.Printf("Error fetching employees: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch employees")
		return
	}
	defer rows.Close()

	employees := []models.EmployeeWithFirm{}
	for rows.Next() {
		var emp models.EmployeeWithFirm
		if err := rows.Scan(
			&emp.ID, &emp.FirmID, &emp.Name, &emp.NationalID, &emp.Position,
			&emp.Mobile, &emp.StartDate, &emp.EndDate,
			&emp.Status, &emp.BadgeNumber, &emp.HasGateAccess,
			&emp.CreatedAt, &emp.UpdatedAt,
			&emp.FirmName,
		); err != nil {
			log.Printf("Error scanning employee: %v", err)
			continue
		}
		employees = append(employees, emp)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": employees,
	})
}

// ── Get by ID ──────────────────────────────────────────────────

// GetByID handles GET /api/employees/{id}
func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	if !checkEmployeeAccess(r.Context(), pool, id) {
		JSONError(w, http.StatusForbidden, "Access denied")
		return
	}

	var emp models.Employee
	row := pool.QueryRow(ctx, `SELECT `+employeeCols+` FROM employees e WHERE e.id = $1`, id)
	if err := scanEmployee(row, &emp); err != nil {
		JSONError(w, http.StatusNotFound, "Employee not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": emp})
}

// ── Create ─────────────────────────────────────────────────────

// Create handles POST /api/employees
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEmployeeRequest
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

	if req.Status == "" {
		req.Status = "active"
	}

	if !checkFirmAccess(r.Context(), req.FirmID) {
		JSONError(w, http.StatusForbidden, "Access denied to this firm")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var emp models.Employee
	row := pool.QueryRow(ctx, `
		INSERT INTO employees (
			firm_id, name, national_id, position, mobile,
			start_date, status, badge_number, has_gate_access
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+employeeRetCols+`
	`, req.FirmID, req.Name, req.NationalID, req.Position, req.Mobile,
		req.StartDate, req.Status, req.BadgeNumber, req.HasGateAccess,
	)
	if err := scanEmployee(row, &emp); err != nil {
		log.Printf("Error creating employee: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create employee")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "created", "employee", emp.ID, map[string]interface{}{
		"name": emp.Name, "firmId": emp.FirmID,
	})

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    emp,
		"message": "Employee created successfully",
	})
}

// ── Update ─────────────────────────────────────────────────────

// Update handles PUT /api/employees/{id} with partial fields.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	if !checkEmployeeAccess(r.Context(), pool, id) {
		JSONError(w, http.StatusForbidden, "Access denied")
		return
	}

	// Build dynamic SET clause
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	addSet := func(col string, val interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.NationalID != nil {
		addSet("national_id", *req.NationalID)
	}
	if req.Position != nil {
		addSet("position", *req.Position)
	}
	if req.Mobile != nil {
		addSet("mobile", *req.Mobile)
	}
	if req.StartDate != nil {
		addSet("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		addSet("end_date", *req.EndDate)
	}
	if req.Status != nil {
		addSet("status", *req.Status)
	}
	if req.BadgeNumber != nil {
		addSet("badge_number", *req.BadgeNumber)
	}
	if req.HasGateAccess != nil {
		addSet("has_gate_access", *req.HasGateAccess)
	}

	if len(setClauses) == 0 {
		JSONError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	setStr := ""
	for i, clause := range setClauses {
		if i > 0 {
			setStr += ", "
		}
		setStr += clause
	}

	query := fmt.Sprintf(`
		UPDATE employees SET %s
		WHERE id = $%d
		RETURNING %s
	`, setStr, argIdx, employeeRetCols)
	args = append(args, id)

	var emp models.Employee
	if err := scanEmployee(pool.QueryRow(ctx, query, args...), &emp); err != nil {
		log.Printf("Error updating employee %s: %v", id, err)
		JSONError(w, http.StatusNotFound, "Employee not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "updated", "employee", emp.ID, nil)

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    emp,
		"message": "Employee updated successfully",
	})
}

// ── Delete ─────────────────────────────────────────────────────

// Delete handles DELETE /api/employees/{id}
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	tag, err := pool.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		log.Printf("Error deleting employee %s: %v", id, err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete employee")
		return
	}

	if tag.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Employee not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "deleted", "employee", id, nil)

	JSON(w, http.StatusOK, map[string]string{
		"message": "Employee deleted successfully",
	})
}
