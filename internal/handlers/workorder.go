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

// WorkOrderHandler handles port-service work order HTTP requests.
type WorkOrderHandler struct {
	db database.Service
}

// NewWorkOrderHandler creates a new WorkOrderHandler.
func NewWorkOrderHandler(db database.Service) *WorkOrderHandler {
	return &WorkOrderHandler{db: db}
}

const workOrderCols = `wo.id, wo.order_number, wo.firm_id, wo.vessel_id,
	wo.status, wo.requested_at::text, wo.scheduled_at::text, wo.completed_at::text,
	wo.notes, wo.currency, wo.total_amount, wo.created_by,
	wo.created_at, wo.updated_at`

func scanWorkOrder(scanner interface {
	Scan(dest ...interface{}) error
}, wo *models.WorkOrder) error {
	return scanner.Scan(
		&wo.ID, &wo.OrderNumber, &wo.FirmID, &wo.VesselID,
		&wo.Status, &wo.RequestedAt, &wo.ScheduledAt, &wo.CompletedAt,
		&wo.Notes, &wo.Currency, &wo.TotalAmount, &wo.CreatedBy,
		&wo.CreatedAt, &wo.UpdatedAt,
	)
}

func (h *WorkOrderHandler) loadItems(ctx context.Context, workOrderID string) ([]models.WorkOrderItem, error) {
	pool := h.db.GetPool()
	rows, err := pool.Query(ctx, `
		SELECT id, work_order_id, service_code, description, quantity, unit, unit_price, line_total
		FROM work_order_items
		WHERE work_order_id = $1
		ORDER BY service_code ASC
	`, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.WorkOrderItem{}
	for rows.Next() {
		var item models.WorkOrderItem
		if err := rows.Scan(
			&item.ID, &item.WorkOrderID, &item.ServiceCode, &item.Description,
			&item.Quantity, &item.Unit, &item.UnitPrice, &item.LineTotal,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ── List ───────────────────────────────────────────────────────

// List handles GET /api/work-orders with optional status and firmId filters.
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if status := r.URL.Query().Get("status"); status != "" {
		where += fmt.Sprintf(" AND wo.status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}
	if firmID := r.URL.Query().Get("firmId"); firmID != "" {
		if !checkFirmAccess(r.Context(), firmID) {
			JSONError(w, http.StatusForbidden, "Access denied to this firm")
			return
		}
		where += fmt.Sprintf(" AND wo.firm_id = $%d", argIdx)
		args = append(args, firmID)
		argIdx++
	}
	where, args, _ = appendFirmScope(r.Context(), where, args, argIdx, "wo.firm_id")

	rows, err := pool.Query(ctx, `
		SELECT `+workOrderCols+`, f.name AS firm_name, v.name AS vessel_name
		FROM work_orders wo
		JOIN firms f ON wo.firm_id = f.id
		LEFT JOIN vessels v ON wo.vessel_id = v.id
		`+where+`
		ORDER BY wo.requested_at DESC
	`, args...)
	if err != nil {
		log.Printf("Error fetching work orders: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch work orders")
		return
	}
	defer rows.Close()

	orders := []models.WorkOrderWithDetails{}
	for rows.Next() {
		var wo models.WorkOrderWithDetails
		if err := rows.Scan(
			&wo.ID, &wo.OrderNumber, &wo.FirmID, &wo.VesselID,
			&wo.Status, &wo.RequestedAt, &wo.ScheduledAt, &wo.CompletedAt,
			&wo.Notes, &wo.Currency, &wo.TotalAmount, &wo.CreatedBy,
			&wo.CreatedAt, &wo.UpdatedAt,
			&wo.FirmName, &wo.VesselName,
		); err != nil {
			log.Printf("Error scanning work order: %v", err)
			continue
		}
		wo.Items = []models.WorkOrderItem{}
		orders = append(orders, wo)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": orders,
	})
}

// ── Get by ID ──────────────────────────────────────────────────

// GetByID handles GET /api/work-orders/{id} including service lines.
func (h *WorkOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	if !checkWorkOrderAccess(r.Context(), pool, id) {
		JSONError(w, http.StatusForbidden, "Access denied")
		return
	}

	var wo models.WorkOrderWithDetails
	err := pool.QueryRow(ctx, `
		SELECT `+workOrderCols+`, f.name AS firm_name, v.name AS vessel_name
		FROM work_orders wo
		JOIN firms f ON wo.firm_id = f.id
		LEFT JOIN vessels v ON wo.vessel_id = v.id
		WHERE wo.id = $1
	`, id).Scan(
		&wo.ID, &wo.OrderNumber, &wo.FirmID, &wo.VesselID,
		&wo.Status, &wo.RequestedAt, &wo.ScheduledAt, &wo.CompletedAt,
		&wo.Notes, &wo.Currency, &wo.TotalAmount, &wo.CreatedBy,
		&wo.CreatedAt, &wo.UpdatedAt,
		&wo.FirmName, &wo.VesselName,
	)
	if err != nil {
		JSONError(w, http.StatusNotFound, "Work order not found")
		return
	}

	items, err := h.loadItems(ctx, id)
	if err != nil {
		log.Printf("Error fetching work order items: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch work order")
		return
	}
	wo.Items = items

	JSON(w, http.StatusOK, map[string]interface{}{"data": wo})
}

// ── Create ─────────────────────────────────────────────────────

// Create handles POST /api/work-orders. Lines are priced from the
// active price list and the unit price is frozen into each line, so
// later tariff changes never rewrite an order. The order number is
// sequential per year, e.g. "WO-2025-00042".
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWorkOrderRequest
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

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	// Resolve the active price list up front so a missing tariff fails
	// before anything is written.
	var priceListID, currency string
	err := pool.QueryRow(ctx,
		"SELECT id, currency FROM price_lists WHERE is_active = true LIMIT 1",
	).Scan(&priceListID, &currency)
	if err != nil {
		JSONError(w, http.StatusConflict, "No active price list; activate one before creating work orders")
		return
	}

	type pricedLine struct {
		serviceCode string
		description string
		quantity    float64
		unit        string
		unitPrice   float64
		lineTotal   float64
	}

	lines := make([]pricedLine, 0, len(req.Items))
	total := 0.0
	for _, item := range req.Items {
		var pl pricedLine
		pl.serviceCode = item.ServiceCode
		pl.quantity = item.Quantity
		err := pool.QueryRow(ctx, `
			SELECT description, unit, unit_price
			FROM price_list_items
			WHERE price_list_id = $1 AND service_code = $2
		`, priceListID, item.ServiceCode,
		).Scan(&pl.description, &pl.unit, &pl.unitPrice)
		if err != nil {
			JSONError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("Service %q is not on the active price list", item.ServiceCode))
			return
		}
		pl.lineTotal = pl.unitPrice * pl.quantity
		total += pl.lineTotal
		lines = append(lines, pl)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Printf("Error starting transaction: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create work order")
		return
	}
	defer tx.Rollback(ctx)

	// Per-year sequence for human-readable order numbers.
	year := time.Now().UTC().Year()
	var seq int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) + 1 FROM work_orders
		WHERE order_number LIKE $1
	`, fmt.Sprintf("WO-%d-%%", year)).Scan(&seq)
	if err != nil {
		log.Printf("Error generating order number: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create work order")
		return
	}
	orderNumber := fmt.Sprintf("WO-%d-%05d", year, seq)

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)

	var wo models.WorkOrder
	row := tx.QueryRow(ctx, `
		INSERT INTO work_orders (
			order_number, firm_id, vessel_id, status, requested_at,
			scheduled_at, notes, currency, total_amount, created_by
		)
		VALUES ($1, $2, $3, 'draft', NOW(), $4, $5, $6, $7, $8)
		RETURNING id, order_number, firm_id, vessel_id,
			status, requested_at::text, scheduled_at::text, completed_at::text,
			notes, currency, total_amount, created_by,
			created_at, updated_at
	`, orderNumber, req.FirmID, req.VesselID,
		req.ScheduledAt, req.Notes, currency, total, nilIfEmptyStr(userID),
	)
	if err := scanWorkOrder(row, &wo); err != nil {
		log.Printf("Error creating work order: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create work order")
		return
	}

	items := []models.WorkOrderItem{}
	for _, line := range lines {
		var item models.WorkOrderItem
		err = tx.QueryRow(ctx, `
			INSERT INTO work_order_items (
				work_order_id, service_code, description, quantity, unit, unit_price, line_total
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, work_order_id, service_code, description, quantity, unit, unit_price, line_total
		`, wo.ID, line.serviceCode, line.description, line.quantity,
			line.unit, line.unitPrice, line.lineTotal,
		).Scan(
			&item.ID, &item.WorkOrderID, &item.ServiceCode, &item.Description,
			&item.Quantity, &item.Unit, &item.UnitPrice, &item.LineTotal,
		)
		if err != nil {
			log.Printf("Error creating work order item: %v", err)
			JSONError(w, http.StatusInternalServerError, "Failed to create work order")
			return
		}
		items = append(items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("Error committing work order: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create work order")
		return
	}

	logActivity(pool, userID, "created", "work_order", wo.ID, map[string]interface{}{
		"orderNumber": wo.OrderNumber, "firmId": wo.FirmID, "totalAmount": wo.TotalAmount,
	})

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data": models.WorkOrderWithDetails{
			WorkOrder: wo,
			Items:     items,
		},
		"message": "Work order created successfully",
	})
}

// ── Status ─────────────────────────────────────────────────────

// UpdateStatus handles PATCH /api/work-orders/{id}/status. Only the
// transitions in ValidWorkOrderTransitions are allowed; completing an
// order stamps completed_at.
func (h *WorkOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateWorkOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	if !checkWorkOrderAccess(r.Context(), pool, id) {
		JSONError(w, http.StatusForbidden, "Access denied")
		return
	}

	var current string
	if err := pool.QueryRow(ctx, "SELECT status FROM work_orders WHERE id = $1", id).Scan(&current); err != nil {
		JSONError(w, http.StatusNotFound, "Work order not found")
		return
	}

	if !models.CanTransitionWorkOrder(current, req.Status) {
		JSONError(w, http.StatusConflict,
			fmt.Sprintf("Cannot change status from %q to %q", current, req.Status))
		return
	}

	completedAt := "NULL"
	if req.Status == models.WorkOrderCompleted {
		completedAt = "NOW()"
	}

	var wo models.WorkOrder
	row := pool.QueryRow(ctx, `
		UPDATE work_orders SET status = $1, completed_at = `+completedAt+`, updated_at = NOW()
		WHERE id = $2
		RETURNING id, order_number, firm_id, vessel_id,
			status, requested_at::text, scheduled_at::text, completed_at::text,
			notes, currency, total_amount, created_by,
			created_at, updated_at
	`, req.Status, id)
	if err := scanWorkOrder(row, &wo); err != nil {
		log.Printf("Error updating work order status: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to update work order")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "status_changed", "work_order", wo.ID, map[string]interface{}{
		"from": current, "to": wo.Status,
	})

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    wo,
		"message": "Work order status updated",
	})
}

// ── Delete ─────────────────────────────────────────────────────

// Delete handles DELETE /api/work-orders/{id}. Only drafts can be
// deleted; anything past draft is part of the commercial record.
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var status string
	if err := pool.QueryRow(ctx, "SELECT status FROM work_orders WHERE id = $1", id).Scan(&status); err != nil {
		JSONError(w, http.StatusNotFound, "Work order not found")
		return
	}
	if status != models.WorkOrderDraft {
		JSONError(w, http.StatusConflict, "Only draft work orders can be deleted")
		return
	}

	if _, err := pool.Exec(ctx, "DELETE FROM work_orders WHERE id = $1", id); err != nil {
		log.Printf("Error deleting work order %s: %v", id, err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete work order")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "deleted", "work_order", id, nil)

	JSON(w, http.StatusOK, map[string]string{
		"message": "Work order deleted successfully",
	})
}
