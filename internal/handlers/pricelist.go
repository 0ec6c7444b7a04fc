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

// PriceListHandler handles tariff table HTTP requests.
type PriceListHandler struct {
	db database.Service
}

// NewPriceListHandler creates a new PriceListHandler.
func NewPriceListHandler(db database.Service) *PriceListHandler {
	return &PriceListHandler{db: db}
}

const priceListCols = `id, name, currency, valid_from::text,
	valid_until::text, is_active, created_at, updated_at`

func scanPriceList(scanner interface {
	Scan(dest ...interface{}) error
}, pl *models.PriceList) error {
	return scanner.Scan(
		&pl.ID, &pl.Name, &pl.Currency, &pl.ValidFrom,
		&pl.ValidUntil, &pl.IsActive, &pl.CreatedAt, &pl.UpdatedAt,
	)
}

// ── List ───────────────────────────────────────────────────────

// List handles GET /api/price-lists, newest first.
func (h *PriceListHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT `+priceListCols+`
		FROM price_lists
		ORDER BY valid_from DESC, created_at DESC
	`)
	if err != nil {
		log.Printf("Error fetching price lists: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch price lists")
		return
	}
	defer rows.Close()

	lists := []models.PriceList{}
	for rows.Next() {
		var pl models.PriceList
		if err := scanPriceList(rows, &pl); err != nil {
			log.Printf("Error scanning price list: %v", err)
			continue
		}
		lists = append(lists, pl)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": lists,
	})
}

// ── Get by ID ──────────────────────────────────────────────────

// GetByID handles GET /api/price-lists/{id} including tariff entries.
func (h *PriceListHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var result models.PriceListWithItems
	row := pool.QueryRow(ctx, `SELECT `+priceListCols+` FROM price_lists WHERE id = $1`, id)
	if err := scanPriceList(row, &result.PriceList); err != nil {
		JSONError(w, http.StatusNotFound, "Price list not found")
		return
	}

	rows, err := pool.Query(ctx, `
		SELECT id, price_list_id, service_code, description, unit, unit_price
		FROM price_list_items
		WHERE price_list_id = $1
		ORDER BY service_code ASC
	`, id)
	if err != nil {
		log.Printf("Error fetching price list items: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch price list")
		return
	}
	defer rows.Close()

	result.Items = []models.PriceListItem{}
	for rows.Next() {
		var item models.PriceListItem
		if err := rows.Scan(
			&item.ID, &item.PriceListID, &item.ServiceCode,
			&item.Description, &item.Unit, &item.UnitPrice,
		); err != nil {
			log.Printf("Error scanning price list item: %v", err)
			continue
		}
		result.Items = append(result.Items, item)
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": result})
}

// ── Create ─────────────────────────────────────────────────────

// Create handles POST /api/price-lists. The list and its entries are
// inserted in one transaction; new lists start inactive.
func (h *PriceListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePriceListRequest
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

	if req.Currency == "" {
		req.Currency = "TRY"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Printf("Error starting transaction: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create price list")
		return
	}
	defer tx.Rollback(ctx)

	var result models.PriceListWithItems
	err = tx.QueryRow(ctx, `
		INSERT INTO price_lists (name, currency, valid_from, valid_until)
		VALUES ($1, $2, $3, $4)
		RETURNING `+priceListCols+`
	`, req.Name, req.Currency, req.ValidFrom, req.ValidUntil,
	).Scan(
		&result.ID, &result.Name, &result.Currency, &result.ValidFrom,
		&result.ValidUntil, &result.IsActive, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error creating price list: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create price list")
		return
	}

	result.Items = []models.PriceListItem{}
	for _, itemReq := range req.Items {
		var item models.PriceListItem
		err = tx.QueryRow(ctx, `
			INSERT INTO price_list_items (price_list_id, service_code, description, unit, unit_price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, price_list_id, service_code, description, unit, unit_price
		`, result.ID, itemReq.ServiceCode, itemReq.Description, itemReq.Unit, itemReq.UnitPrice,
		).Scan(
			&item.ID, &item.PriceListID, &item.ServiceCode,
			&item.Description, &item.Unit, &item.UnitPrice,
		)
		if err != nil {
			log.Printf("Error creating price list item: %v", err)
			JSONError(w, http.StatusInternalServerError, "Failed to create price list")
			return
		}
		result.Items = append(result.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("Error committing price list: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create price list")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "created", "price_list", result.ID, map[string]interface{}{"name": result.Name})

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    result,
		"message": "Price list created successfully",
	})
}

// ── Activate ───────────────────────────────────────────────────

// Activate handles POST /api/price-lists/{id}/activate. Deactivates any
// other active list so at most one is active at a time.
func (h *PriceListHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Printf("Error starting transaction: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to activate price list")
		return
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "UPDATE price_lists SET is_active = false, updated_at = NOW() WHERE is_active = true"); err != nil {
		log.Printf("Error deactivating price lists: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to activate price list")
		return
	}

	var pl models.PriceList
	row := tx.QueryRow(ctx, `
		UPDATE price_lists SET is_active = true, updated_at = NOW()
		WHERE id = $1
		RETURNING `+priceListCols+`
	`, id)
	if err := scanPriceList(row, &pl); err != nil {
		JSONError(w, http.StatusNotFound, "Price list not found")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("Error committing activation: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to activate price list")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "activated", "price_list", pl.ID, nil)

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    pl,
		"message": "Price list activated",
	})
}

// ── Delete ─────────────────────────────────────────────────────

// Delete handles DELETE /api/price-lists/{id}. The active list cannot
// be deleted.
func (h *PriceListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var isActive bool
	if err := pool.QueryRow(ctx, "SELECT is_active FROM price_lists WHERE id = $1", id).Scan(&isActive); err != nil {
		JSONError(w, http.StatusNotFound, "Price list not found")
		return
	}
	if isActive {
		JSONError(w, http.StatusConflict, "Cannot delete the active price list")
		return
	}

	if _, err := pool.Exec(ctx, "DELETE FROM price_lists WHERE id = $1", id); err != nil {
		log.Printf("Error deleting price list %s: %v", id, err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete price list")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	logActivity(pool, userID, "deleted", "price_list", id, nil)

	JSON(w, http.StatusOK, map[string]string{
		"message": "Price list deleted successfully",
	})
}
